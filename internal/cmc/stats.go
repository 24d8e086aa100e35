package cmc

// Stats are the cumulative trial counters of an engine. Every attempted pair
// lands in exactly one of Successes, SphereRejections or EnergyRejections.
type Stats struct {
	Successes        uint64 `json:"successes"`
	Total            uint64 `json:"total"`
	SphereRejections uint64 `json:"sphere_rejections"`
	EnergyRejections uint64 `json:"energy_rejections"`
}

func (s Stats) AcceptanceRate() float64      { return s.rate(s.Successes) }
func (s Stats) SphereRejectionRate() float64 { return s.rate(s.SphereRejections) }
func (s Stats) EnergyRejectionRate() float64 { return s.rate(s.EnergyRejections) }

// Consistent reports whether the outcome counters add up to Total.
func (s Stats) Consistent() bool {
	return s.Successes+s.SphereRejections+s.EnergyRejections == s.Total
}

// Sub returns the counts accumulated since an earlier snapshot o.
func (s Stats) Sub(o Stats) Stats {
	return Stats{
		Successes:        s.Successes - o.Successes,
		Total:            s.Total - o.Total,
		SphereRejections: s.SphereRejections - o.SphereRejections,
		EnergyRejections: s.EnergyRejections - o.EnergyRejections,
	}
}

func (s Stats) rate(n uint64) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(n) / float64(s.Total)
}
