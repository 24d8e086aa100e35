// Package stats accumulates masked magnetization statistics: the
// magnetization of every mask group (a material, a layer, or the whole
// system) as a unit direction plus its length relative to saturation.
package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/spinsim/internal/vmath"
)

var (
	ErrNotInitialized = errors.New("stats: mask not set")
	ErrMaskRange      = errors.New("stats: mask id out of range")
	ErrLengthMismatch = errors.New("stats: length mismatch")
)

// Group is the magnetization of one mask group.
type Group struct {
	// Direction is the unit magnetization vector, zero for empty groups.
	Direction vmath.Vec3
	// Reduced is |m| / m_s.
	Reduced float64
}

// Magnetization tracks per-group magnetization and its running mean.
type Magnetization struct {
	mask       []int
	size       int
	saturation []float64
	empty      []bool

	current []Group
	sum     []Group
	samples int
}

// SetMask assigns every atom to a group in [0, size). moments gives the
// moment of each atom; any consistent unit works.
func (m *Magnetization) SetMask(size int, mask []int, moments []float64) error {
	if len(mask) != len(moments) {
		return fmt.Errorf("%w: %d mask entries, %d moments", ErrLengthMismatch, len(mask), len(moments))
	}
	for atom, id := range mask {
		if id < 0 || id >= size {
			return fmt.Errorf("%w: atom %d has id %d, mask size %d", ErrMaskRange, atom, id, size)
		}
	}

	m.mask = append([]int(nil), mask...)
	m.size = size
	m.saturation = make([]float64, size)
	m.empty = make([]bool, size)
	m.current = make([]Group, size)
	m.sum = make([]Group, size)
	m.samples = 0

	counts := make([]int, size)
	for atom, id := range mask {
		m.saturation[id] += moments[atom]
		counts[id]++
	}
	for id, c := range counts {
		m.empty[id] = c == 0
	}
	return nil
}

func (m *Magnetization) Initialized() bool { return m.mask != nil }

// Saturation returns the summed moment of every group.
func (m *Magnetization) Saturation() []float64 { return m.saturation }

// Calculate computes the magnetization of every group from the spin
// directions and adds it to the running mean.
func (m *Magnetization) Calculate(spins []vmath.Vec3, moments []float64) ([]Group, error) {
	if !m.Initialized() {
		return nil, ErrNotInitialized
	}
	if len(spins) != len(m.mask) || len(moments) != len(m.mask) {
		return nil, fmt.Errorf("%w: mask covers %d atoms, got %d spins and %d moments",
			ErrLengthMismatch, len(m.mask), len(spins), len(moments))
	}

	raw := make([]vmath.Vec3, m.size)
	for atom, id := range m.mask {
		raw[id] = raw[id].Add(spins[atom].Scale(moments[atom]))
	}

	for id := range raw {
		if m.empty[id] {
			m.current[id] = Group{}
			continue
		}
		length := raw[id].Length()
		g := Group{Reduced: length / m.saturation[id]}
		if length > 0 {
			g.Direction = raw[id].Scale(1 / length)
		}
		m.current[id] = g
	}

	for id, g := range m.current {
		m.sum[id].Direction = m.sum[id].Direction.Add(g.Direction)
		m.sum[id].Reduced += g.Reduced
	}
	m.samples++

	out := make([]Group, m.size)
	copy(out, m.current)
	return out, nil
}

// Current returns the groups from the last Calculate.
func (m *Magnetization) Current() []Group {
	out := make([]Group, len(m.current))
	copy(out, m.current)
	return out
}

// Mean returns the running average of every group since the last reset.
// The averaged direction is not renormalized.
func (m *Magnetization) Mean() []Group {
	out := make([]Group, m.size)
	if m.samples == 0 {
		return out
	}
	inv := 1 / float64(m.samples)
	for id, s := range m.sum {
		out[id] = Group{Direction: s.Direction.Scale(inv), Reduced: s.Reduced * inv}
	}
	return out
}

func (m *Magnetization) Samples() int { return m.samples }

// ResetAverages clears the running mean but keeps the mask.
func (m *Magnetization) ResetAverages() {
	for id := range m.sum {
		m.sum[id] = Group{}
	}
	m.samples = 0
}

// Dot projects the current magnetization of every group onto dir, scaled
// by the reduced length.
func (m *Magnetization) Dot(dir vmath.Vec3) []float64 {
	out := make([]float64, len(m.current))
	for id, g := range m.current {
		out[id] = g.Direction.Dot(dir) * g.Reduced
	}
	return out
}

// Angle returns the angle in degrees between the current magnetization of
// group id and dir.
func (m *Magnetization) Angle(id int, dir vmath.Vec3) float64 {
	c := m.current[id].Direction.Dot(dir.Normalize())
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}
