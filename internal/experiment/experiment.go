// Package experiment wires a config into a lattice, an energy evaluator and
// a constrained Monte Carlo engine, and runs temperature series on it.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/spinsim/internal/analysis"
	"github.com/san-kum/spinsim/internal/cmc"
	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/hamiltonian"
	"github.com/san-kum/spinsim/internal/material"
	"github.com/san-kum/spinsim/internal/metrics"
	"github.com/san-kum/spinsim/internal/random"
	"github.com/san-kum/spinsim/internal/spin"
	"github.com/san-kum/spinsim/internal/stats"
)

type Observer interface {
	OnSample(s metrics.Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s metrics.Sample)

func (f ObserverFunc) OnSample(s metrics.Sample) { f(s) }

// Point summarizes one temperature.
type Point struct {
	Temperature float64            `json:"temperature"`
	Length      analysis.Summary   `json:"length"`
	Projection  analysis.Summary   `json:"projection"`
	Energy      analysis.Summary   `json:"energy"`
	Metrics     map[string]float64 `json:"metrics"`
	Stats       cmc.Stats          `json:"stats"`
}

type Result struct {
	Samples []metrics.Sample
	Points  []Point
	Stats   cmc.Stats
}

type Runner struct {
	cfg     *config.Config
	lattice *spin.Cubic
	spins   *spin.System
	table   material.Table
	moments []float64
	ham     *hamiltonian.Evaluator
	rng     *random.Source
	engine  *cmc.Engine
	mag     stats.Magnetization

	metrics   []metrics.Metric
	observers []Observer
	logger    *slog.Logger
}

// New validates cfg and builds the system it describes.
func New(cfg *config.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	flags, err := NewRegistry().GetTerms(cfg.Hamiltonian)
	if err != nil {
		return nil, err
	}
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}

	s := cfg.System
	lattice, err := spin.NewCubic(s.Nx, s.Ny, s.Nz, s.Periodic)
	if err != nil {
		return nil, err
	}

	rng := random.New(cfg.Seed)
	spins := spin.New(lattice.Size())
	assignMaterials(spins, lattice, len(table), s.Layout, rng)

	ham, err := hamiltonian.New(spins, table, lattice.Neighbours(), cfg.AppliedField)
	if err != nil {
		return nil, err
	}
	ham.SetFlags(flags)

	r := &Runner{
		cfg:     cfg,
		lattice: lattice,
		spins:   spins,
		table:   table,
		moments: table.Moments(spins.Materials()),
		ham:     ham,
		rng:     rng,
		metrics: metrics.Defaults(),
		logger:  slog.Default(),
	}
	if err := r.mag.SetMask(1, make([]int, spins.Len()), r.moments); err != nil {
		return nil, err
	}
	r.engine = cmc.New(spins, ham, table, rng,
		cmc.WithConstraint(cfg.Constraint.Phi, cfg.Constraint.Theta),
		cmc.WithLogger(r.logger))
	return r, nil
}

func assignMaterials(spins *spin.System, lattice *spin.Cubic, n int, layout string, rng *random.Source) {
	if n <= 1 {
		return
	}
	for z := 0; z < lattice.Nz; z++ {
		for y := 0; y < lattice.Ny; y++ {
			for x := 0; x < lattice.Nx; x++ {
				mat := z % n
				if layout == config.LayoutRandom {
					mat = rng.Rand().Intn(n)
				}
				spins.SetMaterial(lattice.Index(x, y, z), mat)
			}
		}
	}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Config() *config.Config { return r.cfg }
func (r *Runner) Engine() *cmc.Engine    { return r.engine }
func (r *Runner) Spins() *spin.System    { return r.spins }

// SetConstraint moves the constraint; the next sweep realigns the spins.
func (r *Runner) SetConstraint(phi, theta float64) {
	r.cfg.Constraint = config.ConstraintConfig{Phi: phi, Theta: theta}
	r.engine.SetConstraint(phi, theta)
}

// Step performs one sweep at temperature and measures the result.
func (r *Runner) Step(temperature float64) (metrics.Sample, error) {
	if err := r.engine.Sweep(temperature); err != nil {
		return metrics.Sample{}, err
	}
	return r.measure(temperature, r.engine.Stats())
}

// Measure samples the current state without sweeping.
func (r *Runner) Measure(temperature float64) (metrics.Sample, error) {
	return r.measure(temperature, r.engine.Stats())
}

func (r *Runner) measure(temperature float64, window cmc.Stats) (metrics.Sample, error) {
	groups, err := r.mag.Calculate(r.spins.Snapshot(), r.moments)
	if err != nil {
		return metrics.Sample{}, err
	}
	g := groups[0]
	v := r.engine.Frame().V
	return metrics.Sample{
		Sweep:       r.engine.Sweeps(),
		Temperature: temperature,
		Direction:   g.Direction,
		Length:      g.Reduced,
		Projection:  g.Reduced * g.Direction.Dot(v),
		Energy:      r.ham.TotalEnergy() / float64(r.spins.Len()),
		Acceptance:  window.AcceptanceRate(),
	}, nil
}

// Run sweeps every configured temperature in order, carrying the spin state
// from one temperature to the next. The context is checked between sweeps.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.cfg.Sweeps < r.cfg.SampleEvery {
		return nil, fmt.Errorf("%w: sweeps=%d sample_every=%d", ErrNoSweeps, r.cfg.Sweeps, r.cfg.SampleEvery)
	}

	res := &Result{
		Samples: make([]metrics.Sample, 0, r.cfg.Samples()*len(r.cfg.Temperatures)),
		Points:  make([]Point, 0, len(r.cfg.Temperatures)),
	}
	start := r.engine.Stats()

	for _, temp := range r.cfg.Temperatures {
		p, samples, err := r.runTemperature(ctx, temp)
		res.Samples = append(res.Samples, samples...)
		res.Stats = r.engine.Stats().Sub(start)
		if err != nil {
			return res, err
		}
		res.Points = append(res.Points, p)
	}
	return res, nil
}

func (r *Runner) runTemperature(ctx context.Context, temp float64) (Point, []metrics.Sample, error) {
	for i := 0; i < r.cfg.EquilibrationSweeps; i++ {
		if err := ctx.Err(); err != nil {
			return Point{}, nil, err
		}
		if err := r.engine.Sweep(temp); err != nil {
			return Point{}, nil, err
		}
	}

	for _, m := range r.metrics {
		m.Reset()
	}
	r.mag.ResetAverages()
	before := r.engine.Stats()
	samples := make([]metrics.Sample, 0, r.cfg.Samples())

	for i := 1; i <= r.cfg.Sweeps; i++ {
		if err := ctx.Err(); err != nil {
			return Point{}, samples, err
		}
		if err := r.engine.Sweep(temp); err != nil {
			return Point{}, samples, err
		}
		if i%r.cfg.SampleEvery != 0 {
			continue
		}
		s, err := r.measure(temp, r.engine.Stats().Sub(before))
		if err != nil {
			return Point{}, samples, err
		}
		samples = append(samples, s)
		for _, m := range r.metrics {
			m.Observe(s)
		}
		for _, o := range r.observers {
			o.OnSample(s)
		}
	}

	p := summarize(temp, samples)
	p.Metrics = metrics.Values(r.metrics)
	p.Stats = r.engine.Stats().Sub(before)

	r.logger.Info("temperature done",
		"temperature", temp,
		"samples", len(samples),
		"m", p.Length.Mean,
		"m_dot_v", p.Projection.Mean,
		"acceptance", p.Stats.AcceptanceRate())
	return p, samples, nil
}

func summarize(temp float64, samples []metrics.Sample) Point {
	length := make([]float64, len(samples))
	proj := make([]float64, len(samples))
	energy := make([]float64, len(samples))
	for i, s := range samples {
		length[i] = s.Length
		proj[i] = s.Projection
		energy[i] = s.Energy
	}
	return Point{
		Temperature: temp,
		Length:      analysis.Summarize(length),
		Projection:  analysis.Summarize(proj),
		Energy:      analysis.Summarize(energy),
	}
}
