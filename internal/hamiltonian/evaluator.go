// Package hamiltonian evaluates the single-spin energy that drives the
// Monte Carlo engine. It covers nearest-neighbour isotropic exchange,
// uniaxial anisotropy and a uniform applied field; anything richer is
// outside this package.
package hamiltonian

import (
	"fmt"

	"github.com/san-kum/spinsim/internal/material"
	"github.com/san-kum/spinsim/internal/spin"
	"github.com/san-kum/spinsim/internal/vmath"
)

// Flags toggles individual energy terms.
type Flags struct {
	Exchange   bool
	Anisotropy bool
	Applied    bool
	// Thermal marks a stochastic thermal field as active. Monte Carlo
	// integrators sample temperature directly and switch it off.
	Thermal bool
}

func DefaultFlags() Flags {
	return Flags{Exchange: true, Anisotropy: true, Applied: true, Thermal: true}
}

// Evaluator reads the live spin array on every call, so energies always
// reflect the current state.
type Evaluator struct {
	spins      *spin.System
	materials  material.Table
	neighbours [][]int
	field      vmath.Vec3
	flags      Flags

	moment     []float64 // per material, J/T
	anisotropy []float64 // per material, T
}

func New(spins *spin.System, mats material.Table, neighbours [][]int, field vmath.Vec3) (*Evaluator, error) {
	if len(neighbours) != spins.Len() {
		return nil, fmt.Errorf("hamiltonian: neighbour list covers %d atoms, system has %d", len(neighbours), spins.Len())
	}
	for i := 0; i < spins.Len(); i++ {
		if _, err := mats.Get(spins.Material(i)); err != nil {
			return nil, fmt.Errorf("hamiltonian: atom %d: %w", i, err)
		}
	}

	e := &Evaluator{
		spins:      spins,
		materials:  mats,
		neighbours: neighbours,
		field:      field,
		flags:      DefaultFlags(),
		moment:     make([]float64, len(mats)),
		anisotropy: make([]float64, len(mats)),
	}
	for i, m := range mats {
		e.moment[i] = m.MomentSI()
		e.anisotropy[i] = m.Anisotropy / m.MomentSI()
	}
	return e, nil
}

func (e *Evaluator) Flags() Flags     { return e.flags }
func (e *Evaluator) SetFlags(f Flags) { e.flags = f }

// DisableThermalField switches off the thermal field term.
func (e *Evaluator) DisableThermalField() { e.flags.Thermal = false }

// SpinEnergy returns the energy of atom i in its current orientation, in
// Tesla. Multiply by the atom's moment to get Joules.
func (e *Evaluator) SpinEnergy(i int) float64 {
	s := e.spins.Spin(i)
	mat := e.spins.Material(i)
	energy := 0.0

	if e.flags.Exchange {
		for _, j := range e.neighbours[i] {
			energy -= e.bond(mat, j) / e.moment[mat] * s.Dot(e.spins.Spin(j))
		}
	}
	if e.flags.Anisotropy {
		proj := s.Dot(e.materials[mat].EasyAxis)
		energy -= e.anisotropy[mat] * proj * proj
	}
	if e.flags.Applied {
		energy -= e.field.Dot(s)
	}
	return energy
}

// TotalEnergy is the system energy in Joules with each bond counted once.
func (e *Evaluator) TotalEnergy() float64 {
	total := 0.0
	for i := 0; i < e.spins.Len(); i++ {
		s := e.spins.Spin(i)
		mat := e.spins.Material(i)
		mu := e.moment[mat]

		if e.flags.Exchange {
			for _, j := range e.neighbours[i] {
				total -= 0.5 * e.bond(mat, j) * s.Dot(e.spins.Spin(j))
			}
		}
		if e.flags.Anisotropy {
			proj := s.Dot(e.materials[mat].EasyAxis)
			total -= e.anisotropy[mat] * mu * proj * proj
		}
		if e.flags.Applied {
			total -= mu * e.field.Dot(s)
		}
	}
	return total
}

// bond is the exchange constant in Joules between material mat and atom j.
func (e *Evaluator) bond(mat, j int) float64 {
	return 0.5 * (e.materials[mat].Exchange + e.materials[e.spins.Material(j)].Exchange)
}
