// Package material holds the per-material parameter table consumed by the
// energy evaluator and the Monte Carlo engine.
package material

import (
	"errors"
	"fmt"

	"github.com/san-kum/spinsim/internal/vmath"
)

const (
	// BohrMagneton in J/T.
	BohrMagneton = 9.27400915e-24
	// Boltzmann constant in J/K.
	Boltzmann = 1.3806503e-23
)

var (
	ErrUnknownMaterial = errors.New("material: unknown material index")
	ErrInvalidMoment   = errors.New("material: moment must be positive")
	ErrInvalidEasyAxis = errors.New("material: easy axis must be non-zero")
	ErrEmptyTable      = errors.New("material: table is empty")
)

// Material describes one magnetic species. Energies are per atom in Joules,
// the moment is in Bohr magnetons.
type Material struct {
	Name       string     `yaml:"name" json:"name"`
	MuS        float64    `yaml:"mu_s" json:"mu_s"`
	Exchange   float64    `yaml:"exchange" json:"exchange"`
	Anisotropy float64    `yaml:"anisotropy" json:"anisotropy"`
	EasyAxis   vmath.Vec3 `yaml:"easy_axis" json:"easy_axis"`
}

// MomentSI is the atomic moment in J/T.
func (m Material) MomentSI() float64 { return m.MuS * BohrMagneton }

func (m Material) Validate() error {
	if !(m.MuS > 0) {
		return fmt.Errorf("%s: %w (got %g)", m.Name, ErrInvalidMoment, m.MuS)
	}
	if m.EasyAxis.Length() == 0 {
		return fmt.Errorf("%s: %w", m.Name, ErrInvalidEasyAxis)
	}
	return nil
}

// Built-in parameter sets, per atom.
var (
	Iron = Material{
		Name: "Fe", MuS: 2.22, Exchange: 7.05e-21, Anisotropy: 5.65e-25,
		EasyAxis: vmath.Zhat,
	}
	Cobalt = Material{
		Name: "Co", MuS: 1.72, Exchange: 6.064e-21, Anisotropy: 6.69e-24,
		EasyAxis: vmath.Zhat,
	}
	FePt = Material{
		Name: "FePt", MuS: 3.23, Exchange: 6.71e-21, Anisotropy: 2.63e-22,
		EasyAxis: vmath.Zhat,
	}
)

// Builtin looks up a built-in material by name.
func Builtin(name string) (Material, bool) {
	switch name {
	case "Fe", "iron":
		return Iron, true
	case "Co", "cobalt":
		return Cobalt, true
	case "FePt", "fept":
		return FePt, true
	}
	return Material{}, false
}

// Table is an indexed list of materials.
type Table []Material

// NewTable validates every record and normalizes the easy axes.
func NewTable(mats ...Material) (Table, error) {
	if len(mats) == 0 {
		return nil, ErrEmptyTable
	}
	t := make(Table, len(mats))
	for i, m := range mats {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		m.EasyAxis = m.EasyAxis.Normalize()
		t[i] = m
	}
	return t, nil
}

// Moment returns the SI moment of material i. It panics on an index outside
// the table, like a slice access.
func (t Table) Moment(i int) float64 { return t[i].MomentSI() }

// Get returns material i or ErrUnknownMaterial.
func (t Table) Get(i int) (Material, error) {
	if i < 0 || i >= len(t) {
		return Material{}, fmt.Errorf("%w: %d", ErrUnknownMaterial, i)
	}
	return t[i], nil
}

// Moments returns the SI moment for every atom of the given material list.
func (t Table) Moments(atomMaterials []int) []float64 {
	out := make([]float64, len(atomMaterials))
	for i, m := range atomMaterials {
		out[i] = t.Moment(m)
	}
	return out
}
