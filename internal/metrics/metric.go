// Package metrics holds the per-sample measurement record and running
// accumulators over it.
package metrics

import "github.com/san-kum/spinsim/internal/vmath"

// Sample is one measurement taken between sweeps.
type Sample struct {
	Sweep       uint64  `json:"sweep"`
	Temperature float64 `json:"temperature"`
	// Direction is the unit magnetization.
	Direction vmath.Vec3 `json:"direction"`
	// Length is |m| / m_s.
	Length float64 `json:"length"`
	// Projection is Length times Direction·v, v the constraint direction.
	Projection float64 `json:"projection"`
	// Energy per atom in Joules.
	Energy     float64 `json:"energy"`
	Acceptance float64 `json:"acceptance"`
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Defaults returns a fresh set of the standard accumulators.
func Defaults() []Metric {
	return []Metric{
		NewMeanLength(),
		NewBinder(),
		NewMeanEnergy(),
		NewEnergyVariance(),
		NewMeanProjection(),
	}
}

// Values collects the current value of every metric by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
