package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/spinsim/internal/analysis"
	"github.com/san-kum/spinsim/internal/automation"
	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/experiment"
	"github.com/san-kum/spinsim/internal/export"
	"github.com/san-kum/spinsim/internal/storage"
	"github.com/san-kum/spinsim/internal/viz"
	"github.com/san-kum/spinsim/internal/vmath"
)

// buildConfig starts from a preset or a config file, never both, and
// applies explicitly set flags on top.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		mat, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be material/name, got %q", preset)
		}
		cfg = config.GetPreset(mat, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(mat))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.System.Nx, cfg.System.Ny, cfg.System.Nz = size, size, size
	}
	if flags.Changed("temp") {
		cfg.Temperatures = temps
	}
	if flags.Changed("phi") {
		cfg.Constraint.Phi = phi
	}
	if flags.Changed("theta") {
		cfg.Constraint.Theta = theta
	}
	if flags.Changed("sweeps") {
		cfg.Sweeps = sweeps
	}
	if flags.Changed("equilibrate") {
		cfg.EquilibrationSweeps = equilibrate
	}
	if flags.Changed("every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("hamiltonian") {
		cfg.Hamiltonian = hamiltonian
	}
	if flags.Changed("field") {
		if len(field) != 3 {
			return nil, fmt.Errorf("--field needs 3 components, got %d", len(field))
		}
		cfg.AppliedField = vmath.Vec3{X: field[0], Y: field[1], Z: field[2]}
	}

	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if replicas > 1 && conePath != "" {
		return fmt.Errorf("--cone writes a single run and cannot be combined with --replicas %d", replicas)
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s: %d atoms, %d temperatures...\n", cfg.Name, cfg.Atoms(), len(cfg.Temperatures))
	start := time.Now()

	var results []*experiment.Result
	if replicas > 1 {
		results, err = automation.RunReplicas(ctx, cfg, replicas)
		if err != nil {
			return err
		}
	} else {
		runner, err := experiment.New(cfg)
		if err != nil {
			return err
		}
		res, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		results = []*experiment.Result{res}

		if conePath != "" {
			if err := writeCone(conePath, runner); err != nil {
				return err
			}
		}
	}

	fmt.Printf("completed in %v\n\n", time.Since(start).Round(time.Millisecond))

	for i, res := range results {
		c := cfg.Clone()
		c.Seed = cfg.Seed + int64(i)
		runID, err := st.Save(c, res)
		if err != nil {
			return err
		}
		fmt.Println(viz.RenderReport(runID, res.Points, res.Stats))
	}
	return nil
}

func writeCone(path string, runner *experiment.Runner) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return export.ConeSVG(f, runner.Engine().Frame(), runner.Spins().Snapshot(), 400)
}

func runScan(cmd *cobra.Command, args []string) error {
	scan, err := automation.LoadScan(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScan(ctx, scan)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHI\tTHETA\tT\tM\tM.V\tENERGY\tRUN")
	for _, r := range results {
		cfg := scan.Base.Clone()
		cfg.Name = scan.Name
		cfg.Constraint = config.ConstraintConfig{Phi: r.Angle.Phi, Theta: r.Angle.Theta}
		if len(scan.Temperatures) > 0 {
			cfg.Temperatures = scan.Temperatures
		}
		runID, err := st.Save(cfg, r.Result)
		if err != nil {
			return err
		}
		for _, p := range r.Result.Points {
			fmt.Fprintf(w, "%.2f\t%.2f\t%.1f\t%.4f\t%.4f\t%.4e\t%s\n",
				r.Angle.Phi, r.Angle.Theta, p.Temperature,
				p.Length.Mean, p.Projection.Mean, p.Energy.Mean, runID)
		}
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tATOMS\tMATERIALS\tPHI\tTHETA\tTEMPS\tSWEEPS\tACC")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.1f\t%.1f\t%d\t%d\t%.3f\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Atoms,
			strings.Join(run.Materials, ","),
			run.Constraint.Phi,
			run.Constraint.Theta,
			len(run.Temperatures),
			run.Sweeps,
			run.Stats.AcceptanceRate(),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	fmt.Println(viz.RenderReport(meta.ID, meta.Points, meta.Stats))
	if len(meta.Points) > 1 {
		fmt.Println(viz.PlotCurve(meta.Points, func(p experiment.Point) float64 { return p.Length.Mean }, "m(T)", 60, 8))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	data, err := storage.Column(samples, column)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\nsamples: %d\n\n", args[0], len(samples))
	fmt.Println(viz.PlotSeries(data, column+" vs sample", width, height))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	data, err := storage.Column(samples, column)
	if err != nil {
		return err
	}
	if len(data) < 2 {
		return fmt.Errorf("need at least 2 samples, have %d", len(data))
	}

	s := analysis.Summarize(data)
	fmt.Printf("column: %s\n", column)
	fmt.Printf("samples: %d\n", s.N)
	fmt.Printf("mean: %.6g +/- %.2g\n", s.Mean, s.StdErr)
	fmt.Printf("std dev: %.6g\n", s.StdDev)
	fmt.Printf("range: [%.6g, %.6g]\n", s.Min, s.Max)
	fmt.Printf("tau: %.2f samples\n", s.Tau)
	fmt.Printf("effective samples: %.0f\n\n", float64(s.N)/(2*s.Tau))

	acf := analysis.Autocorrelation(data)
	if acf == nil {
		fmt.Println("constant series, no autocorrelation")
		return nil
	}
	lags := min(len(acf), 100)
	fmt.Println(asciigraph.Plot(acf[:lags],
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("autocorrelation ("+column+")"),
	))

	ps := analysis.PowerSpectrum(data)
	peak := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak > 0 {
		fmt.Printf("\ndominant period: %.1f samples\n", float64(len(data))/float64(peak))
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return storage.WriteSeriesCSV(os.Stdout, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	data, err := storage.Column(samples, column)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return export.SeriesSVG(out, data, svgWidth, svgHeight, "#00ffff")
}

func listPresets(cmd *cobra.Command, args []string) error {
	mats := config.ListMaterials()
	if len(args) == 1 {
		mats = args[:1]
	}
	for _, mat := range mats {
		presets := config.ListPresets(mat)
		if len(presets) == 0 {
			fmt.Printf("no presets for material: %s\n", mat)
			continue
		}
		fmt.Printf("presets for %s:\n", mat)
		for _, p := range presets {
			fmt.Printf("  %s/%s\n", mat, p)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	runner, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(runner, cfg.Temperatures[0], sweepsPerTick)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
