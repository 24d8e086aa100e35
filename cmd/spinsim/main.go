package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool

	configFile  string
	preset      string
	size        int
	temps       []float64
	phi         float64
	theta       float64
	sweeps      int
	equilibrate int
	sampleEvery int
	seed        int64
	hamiltonian string
	field       []float64
	replicas    int
	conePath    string

	column        string
	height        int
	width         int
	sweepsPerTick int
	outPath       string
	asJSON        bool
	svgWidth      int
	svgHeight     int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spinsim",
		Short: "constrained monte carlo for atomistic spin systems",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a temperature series at a fixed constraint",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd)
	runCmd.Flags().IntVar(&replicas, "replicas", 1, "independent replicas with consecutive seeds")
	runCmd.Flags().StringVar(&conePath, "cone", "", "write the final spin cone as SVG")

	scanCmd := &cobra.Command{
		Use:   "scan [scan.yaml]",
		Short: "run a constraint angle scan",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a run summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&asJSON, "json", false, "print the raw metadata")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a sample column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "m", "column to plot")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 10, "plot height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "autocorrelation and error analysis of a column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "m", "column to analyze")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the sample series as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write a sample column as an SVG line plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&column, "column", "m", "column to plot")
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 300, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets [material]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "sweep with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSystemFlags(liveCmd)
	liveCmd.Flags().IntVar(&sweepsPerTick, "per-tick", 1, "sweeps per frame")

	rootCmd.AddCommand(runCmd, scanCmd, listCmd, showCmd, plotCmd, analyzeCmd, exportCSVCmd, exportSVGCmd, presetsCmd, liveCmd)
	return rootCmd
}

func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset as material/name, e.g. Fe/curie")
	cmd.Flags().IntVar(&size, "size", 8, "cubic lattice edge length")
	cmd.Flags().Float64SliceVar(&temps, "temp", []float64{300}, "temperatures in K")
	cmd.Flags().Float64Var(&phi, "phi", 0, "constraint polar angle (deg)")
	cmd.Flags().Float64Var(&theta, "theta", 0, "constraint azimuthal angle (deg)")
	cmd.Flags().IntVar(&sweeps, "sweeps", 5000, "measured sweeps per temperature")
	cmd.Flags().IntVar(&equilibrate, "equilibrate", 1000, "equilibration sweeps per temperature")
	cmd.Flags().IntVar(&sampleEvery, "every", 10, "sweeps between samples")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&hamiltonian, "hamiltonian", "full", "energy terms: full, exchange, anisotropy, paramagnet")
	cmd.Flags().Float64SliceVar(&field, "field", nil, "applied field x,y,z in T")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")
}
