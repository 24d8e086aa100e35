package metrics

type MeanLength struct {
	name    string
	sum     float64
	samples int
}

func NewMeanLength() *MeanLength {
	return &MeanLength{name: "mean_m"}
}

func (m *MeanLength) Name() string { return m.name }

func (m *MeanLength) Observe(s Sample) {
	m.sum += s.Length
	m.samples++
}

func (m *MeanLength) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanLength) Reset() {
	m.sum = 0
	m.samples = 0
}

// MeanProjection averages the magnetization along the constraint direction.
type MeanProjection struct {
	name    string
	sum     float64
	samples int
}

func NewMeanProjection() *MeanProjection {
	return &MeanProjection{name: "mean_m_dot_v"}
}

func (m *MeanProjection) Name() string { return m.name }

func (m *MeanProjection) Observe(s Sample) {
	m.sum += s.Projection
	m.samples++
}

func (m *MeanProjection) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanProjection) Reset() {
	m.sum = 0
	m.samples = 0
}

// Binder is the fourth order cumulant U4 = 1 - <m^4> / (3 <m^2>^2).
type Binder struct {
	name    string
	m2, m4  float64
	samples int
}

func NewBinder() *Binder {
	return &Binder{name: "binder"}
}

func (b *Binder) Name() string { return b.name }

func (b *Binder) Observe(s Sample) {
	m2 := s.Length * s.Length
	b.m2 += m2
	b.m4 += m2 * m2
	b.samples++
}

func (b *Binder) Value() float64 {
	if b.samples == 0 || b.m2 == 0 {
		return 0
	}
	n := float64(b.samples)
	m2 := b.m2 / n
	return 1 - (b.m4/n)/(3*m2*m2)
}

func (b *Binder) Reset() {
	b.m2, b.m4 = 0, 0
	b.samples = 0
}
