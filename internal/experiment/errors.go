package experiment

import "errors"

var (
	ErrUnknownHamiltonian = errors.New("experiment: unknown hamiltonian")
	ErrNoSweeps           = errors.New("experiment: no measured sweeps")
)
