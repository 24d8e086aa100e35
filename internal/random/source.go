// Package random is the seeded random stream shared by the engine and the
// experiment setup. A Source is not safe for concurrent use.
package random

import "math/rand"

type Source struct {
	seed int64
	rng  *rand.Rand
}

func New(seed int64) *Source {
	return &Source{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Uniform returns a value in [0,1).
func (s *Source) Uniform() float64 { return s.rng.Float64() }

// Gaussian returns a standard normal deviate.
func (s *Source) Gaussian() float64 { return s.rng.NormFloat64() }

// Seed restarts the stream; the same seed always replays the same values.
func (s *Source) Seed(seed int64) {
	s.seed = seed
	s.rng.Seed(seed)
}

func (s *Source) CurrentSeed() int64 { return s.seed }

// Rand exposes the underlying generator for setup code that needs more than
// Uniform and Gaussian, such as random initial states.
func (s *Source) Rand() *rand.Rand { return s.rng }
