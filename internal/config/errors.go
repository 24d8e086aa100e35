package config

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidLattice     = errors.New("lattice dimensions must be positive")
	ErrUnknownLayout      = errors.New("unknown material layout")
	ErrNoMaterials        = errors.New("at least one material is required")
	ErrUnknownMaterial    = errors.New("unknown built-in material")
	ErrNoTemperatures     = errors.New("at least one temperature is required")
	ErrInvalidTemperature = errors.New("temperature must be positive and finite")
	ErrInvalidSweeps      = errors.New("sweep counts must be non-negative")
	ErrInvalidSampling    = errors.New("sample_every must be positive")
	ErrInvalidAngle       = errors.New("constraint angle must be finite")
)

// ValidationError names the offending config field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	s := c.System
	if s.Nx <= 0 || s.Ny <= 0 || s.Nz <= 0 {
		return &ValidationError{Field: "system", Err: ErrInvalidLattice}
	}
	switch s.Layout {
	case "", LayoutLayers, LayoutRandom:
	default:
		return &ValidationError{Field: "system.layout", Err: ErrUnknownLayout}
	}
	if len(c.Materials) == 0 {
		return &ValidationError{Field: "materials", Err: ErrNoMaterials}
	}
	for i, m := range c.Materials {
		if err := m.Validate(); err != nil {
			return &ValidationError{Field: fmt.Sprintf("materials[%d]", i), Err: err}
		}
	}
	if !finite(c.Constraint.Phi) || !finite(c.Constraint.Theta) {
		return &ValidationError{Field: "constraint", Err: ErrInvalidAngle}
	}
	if len(c.Temperatures) == 0 {
		return &ValidationError{Field: "temperatures", Err: ErrNoTemperatures}
	}
	for i, t := range c.Temperatures {
		if !(t > 0) || math.IsInf(t, 1) {
			return &ValidationError{Field: fmt.Sprintf("temperatures[%d]", i), Err: ErrInvalidTemperature}
		}
	}
	if c.EquilibrationSweeps < 0 || c.Sweeps < 0 {
		return &ValidationError{Field: "sweeps", Err: ErrInvalidSweeps}
	}
	if c.SampleEvery <= 0 {
		return &ValidationError{Field: "sample_every", Err: ErrInvalidSampling}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
