package cmc

import (
	"log/slog"
	"math"

	"github.com/san-kum/spinsim/internal/material"
	"github.com/san-kum/spinsim/internal/vmath"
)

// EnergyOracle returns the energy of one atom, in Tesla, for the spin array
// as it is at the moment of the call.
type EnergyOracle interface {
	SpinEnergy(atom int) float64
}

// EnergyFunc adapts a plain function to EnergyOracle.
type EnergyFunc func(atom int) float64

func (f EnergyFunc) SpinEnergy(atom int) float64 { return f(atom) }

// MaterialTable returns the SI moment (J/T) of a material index.
type MaterialTable interface {
	Moment(material int) float64
}

// RandomSource is the single random stream consumed by the engine.
type RandomSource interface {
	Uniform() float64
	Gaussian() float64
}

// SpinArray is the per-atom spin state mutated in place by the engine.
type SpinArray interface {
	Len() int
	Spin(i int) vmath.Vec3
	SetSpin(i int, v vmath.Vec3)
	Material(i int) int
}

// ThermalFieldSwitch is implemented by Hamiltonians that carry a thermal
// field term, which is redundant under Monte Carlo sampling.
type ThermalFieldSwitch interface {
	DisableThermalField()
}

const invBohrMagneton = 1 / material.BohrMagneton

type Option func(*Engine)

// WithConstraint sets the target magnetization angles in degrees.
func WithConstraint(phi, theta float64) Option {
	return func(e *Engine) { e.phi, e.theta = phi, theta }
}

// WithThermalSwitch overrides the collaborator told to drop the thermal
// field. By default the energy oracle is used if it implements
// ThermalFieldSwitch.
func WithThermalSwitch(ts ThermalFieldSwitch) Option {
	return func(e *Engine) { e.thermal = ts }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine runs constrained Monte Carlo sweeps over a spin array.
type Engine struct {
	spins     SpinArray
	energy    EnergyOracle
	materials MaterialTable
	rng       RandomSource
	thermal   ThermalFieldSwitch
	logger    *slog.Logger

	phi, theta  float64
	frame       Frame
	initialized bool
	stats       Stats
	sweeps      uint64
}

func New(spins SpinArray, energy EnergyOracle, materials MaterialTable, rng RandomSource, opts ...Option) *Engine {
	e := &Engine{
		spins:     spins,
		energy:    energy,
		materials: materials,
		rng:       rng,
		logger:    slog.Default(),
	}
	if ts, ok := energy.(ThermalFieldSwitch); ok {
		e.thermal = ts
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Constraint returns the target angles in degrees.
func (e *Engine) Constraint() (phi, theta float64) { return e.phi, e.theta }

// SetConstraint changes the target angles. The next sweep re-initializes
// the frame and realigns every spin.
func (e *Engine) SetConstraint(phi, theta float64) {
	e.phi, e.theta = phi, theta
	e.initialized = false
}

func (e *Engine) Initialized() bool { return e.initialized }
func (e *Engine) Frame() Frame      { return e.frame }
func (e *Engine) Stats() Stats      { return e.stats }
func (e *Engine) Sweeps() uint64    { return e.sweeps }

// Reset clears the counters and the initialization flag.
func (e *Engine) Reset() {
	e.stats = Stats{}
	e.sweeps = 0
	e.initialized = false
	e.frame = Frame{}
}

// Initialize builds the constraint frame, points every spin along the
// constraint direction and switches off the thermal field. It does nothing
// once the engine is initialized.
func (e *Engine) Initialize() {
	if e.initialized {
		return
	}

	e.frame = NewFrame(e.phi, e.theta)
	dir := Direction(e.phi, e.theta)
	for i := 0; i < e.spins.Len(); i++ {
		e.spins.SetSpin(i, dir)
	}

	if e.thermal != nil {
		e.thermal.DisableThermalField()
	}

	e.initialized = true
	e.logger.Debug("cmc initialized",
		"phi", e.phi,
		"theta", e.theta,
		"atoms", e.spins.Len(),
	)
}

// Sweep attempts one pair move per atom at the given temperature in Kelvin.
// It fails only for an invalid temperature or a non-finite energy; in the
// latter case the spins of the failing trial are restored first.
func (e *Engine) Sweep(temperature float64) error {
	if !(temperature > 0) {
		return ErrInvalidTemperature
	}
	if !e.initialized {
		e.Initialize()
	}

	n := e.spins.Len()
	frame := e.frame
	kbtBohr := material.BohrMagneton / (temperature * material.Boltzmann)

	var mOther vmath.Vec3
	for i := 0; i < n; i++ {
		mOther = mOther.Add(e.spins.Spin(i))
	}

	for trial := 0; trial < n; trial++ {
		atom1 := int(e.rng.Uniform() * float64(n))
		spin1Initial := e.spins.Spin(atom1)
		spin1InitLocal := frame.ToLocal(spin1Initial)

		gx := e.rng.Gaussian()
		gy := e.rng.Gaussian()
		gz := e.rng.Gaussian()
		spin1Final := spin1Initial.Add(vmath.Vec3{X: gx, Y: gy, Z: gz}).Normalize()
		spin1FinLocal := frame.ToLocal(spin1Final)

		dE1, err := e.energyChange(atom1, spin1Final)
		if err != nil {
			e.spins.SetSpin(atom1, spin1Initial)
			return e.trialError(trial, atom1, err)
		}

		atom2 := int(e.rng.Uniform() * float64(n))
		spin2Initial := e.spins.Spin(atom2)
		spin2InitLocal := frame.ToLocal(spin2Initial)

		// keep the transverse magnetization of the pair unchanged
		x := spin1InitLocal.X + spin2InitLocal.X - spin1FinLocal.X
		y := spin1InitLocal.Y + spin2InitLocal.Y - spin1FinLocal.Y
		if !(x*x+y*y < 1.0 && atom1 != atom2) {
			e.spins.SetSpin(atom1, spin1Initial)
			e.stats.SphereRejections++
			e.stats.Total++
			continue
		}

		spin2FinLocal := vmath.Vec3{X: x, Y: y, Z: vmath.Sign(spin2InitLocal.Z) * math.Sqrt(1.0-x*x-y*y)}
		spin2Final := frame.ToLab(spin2FinLocal)

		dE2, err := e.energyChange(atom2, spin2Final)
		if err != nil {
			e.spins.SetSpin(atom1, spin1Initial)
			e.spins.SetSpin(atom2, spin2Initial)
			return e.trialError(trial, atom2, err)
		}
		dE := dE1 + dE2

		mzOld := mOther.Dot(frame.V)
		mNew := mOther.Add(spin1Final).Add(spin2Final).Sub(spin1Initial).Sub(spin2Initial)
		mzNew := mNew.Dot(frame.V)

		if dE < 0 {
			mOther = mNew
			e.stats.Successes++
			e.stats.Total++
			continue
		}

		// Boltzmann weight times the Jacobian of the constrained move
		ratio := mzNew / mzOld
		probability := math.Exp(-dE*kbtBohr) * (ratio * ratio) * math.Abs(spin2InitLocal.Z/spin2FinLocal.Z)
		if probability >= e.rng.Uniform() && mzNew >= 0 {
			mOther = mNew
			e.stats.Successes++
		} else {
			e.spins.SetSpin(atom1, spin1Initial)
			e.spins.SetSpin(atom2, spin2Initial)
			e.stats.EnergyRejections++
		}
		e.stats.Total++
	}

	e.sweeps++
	return nil
}

// energyChange provisionally writes trial into the array and returns the
// energy difference in units of mu_B (Joules per Bohr magneton).
func (e *Engine) energyChange(atom int, trial vmath.Vec3) (float64, error) {
	before := e.energy.SpinEnergy(atom)
	e.spins.SetSpin(atom, trial)
	after := e.energy.SpinEnergy(atom)

	if !finite(before) || !finite(after) {
		return 0, ErrNonFiniteEnergy
	}
	return (after - before) * e.materials.Moment(e.spins.Material(atom)) * invBohrMagneton, nil
}

func (e *Engine) trialError(trial, atom int, err error) error {
	e.logger.Warn("cmc sweep aborted", "sweep", e.sweeps, "trial", trial, "atom", atom, "error", err)
	return &TrialError{Sweep: e.sweeps, Trial: trial, Atom: atom, Wrapped: err}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
