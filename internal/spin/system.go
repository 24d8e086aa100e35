// Package spin holds the per-atom spin state and the lattice it lives on.
package spin

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/spinsim/internal/vmath"
)

// System is the spin array: one unit vector and one material index per atom.
// It is not safe for concurrent use.
type System struct {
	spins     []vmath.Vec3
	materials []int
}

// New returns n atoms of material 0, all pointing along +z.
func New(n int) *System {
	s := &System{
		spins:     make([]vmath.Vec3, n),
		materials: make([]int, n),
	}
	for i := range s.spins {
		s.spins[i] = vmath.Zhat
	}
	return s
}

func (s *System) Len() int                    { return len(s.spins) }
func (s *System) Spin(i int) vmath.Vec3       { return s.spins[i] }
func (s *System) SetSpin(i int, v vmath.Vec3) { s.spins[i] = v }
func (s *System) Material(i int) int          { return s.materials[i] }
func (s *System) SetMaterial(i int, mat int)  { s.materials[i] = mat }
func (s *System) Materials() []int            { return s.materials }

// Align points every spin along dir, normalized.
func (s *System) Align(dir vmath.Vec3) {
	d := dir.Normalize()
	for i := range s.spins {
		s.spins[i] = d
	}
}

// Randomize tilts every spin away from dir by a Gaussian kick of the given
// spread and renormalizes. A spread of zero is equivalent to Align.
func (s *System) Randomize(rng *rand.Rand, dir vmath.Vec3, spread float64) {
	d := dir.Normalize()
	for i := range s.spins {
		kick := vmath.Vec3{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}.Scale(spread)
		s.spins[i] = d.Add(kick).Normalize()
	}
}

// Magnetization is the plain vector sum of all spins.
func (s *System) Magnetization() vmath.Vec3 {
	var m vmath.Vec3
	for _, v := range s.spins {
		m = m.Add(v)
	}
	return m
}

// Snapshot copies the current spin directions.
func (s *System) Snapshot() []vmath.Vec3 {
	out := make([]vmath.Vec3, len(s.spins))
	copy(out, s.spins)
	return out
}

// Restore overwrites the spins with a previous snapshot.
func (s *System) Restore(snap []vmath.Vec3) error {
	if len(snap) != len(s.spins) {
		return fmt.Errorf("spin: snapshot has %d atoms, system has %d", len(snap), len(s.spins))
	}
	copy(s.spins, snap)
	return nil
}
