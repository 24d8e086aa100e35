package metrics

type MeanEnergy struct {
	name    string
	sum     float64
	samples int
}

func NewMeanEnergy() *MeanEnergy {
	return &MeanEnergy{name: "mean_energy"}
}

func (e *MeanEnergy) Name() string { return e.name }

func (e *MeanEnergy) Observe(s Sample) {
	e.sum += s.Energy
	e.samples++
}

func (e *MeanEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *MeanEnergy) Reset() {
	e.sum = 0
	e.samples = 0
}

// EnergyVariance is <E^2> - <E>^2 per atom, proportional to the heat
// capacity. Welford's update keeps it stable for large offsets.
type EnergyVariance struct {
	name    string
	mean    float64
	m2      float64
	samples int
}

func NewEnergyVariance() *EnergyVariance {
	return &EnergyVariance{name: "energy_variance"}
}

func (e *EnergyVariance) Name() string { return e.name }

func (e *EnergyVariance) Observe(s Sample) {
	e.samples++
	d := s.Energy - e.mean
	e.mean += d / float64(e.samples)
	e.m2 += d * (s.Energy - e.mean)
}

func (e *EnergyVariance) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.m2 / float64(e.samples)
}

func (e *EnergyVariance) Reset() {
	e.mean, e.m2 = 0, 0
	e.samples = 0
}
