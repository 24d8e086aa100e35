package cmc

import (
	"errors"
	"fmt"
)

var (
	// ErrNonFiniteEnergy indicates the energy oracle returned NaN or Inf.
	ErrNonFiniteEnergy = errors.New("cmc: energy oracle returned a non-finite value")

	// ErrInvalidTemperature indicates a sweep was requested at T <= 0 or NaN.
	ErrInvalidTemperature = errors.New("cmc: temperature must be positive")
)

// TrialError records where inside a sweep a trial failed.
type TrialError struct {
	Sweep   uint64
	Trial   int
	Atom    int
	Wrapped error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("sweep %d trial %d (atom %d): %v", e.Sweep, e.Trial, e.Atom, e.Wrapped)
}

func (e *TrialError) Unwrap() error {
	return e.Wrapped
}
