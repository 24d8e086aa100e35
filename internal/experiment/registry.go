package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/spinsim/internal/hamiltonian"
)

// Registry maps Hamiltonian names to the energy terms they enable.
type Registry struct {
	terms map[string]func() hamiltonian.Flags
}

func NewRegistry() *Registry {
	r := &Registry{
		terms: make(map[string]func() hamiltonian.Flags),
	}

	r.terms["full"] = hamiltonian.DefaultFlags
	r.terms["exchange"] = func() hamiltonian.Flags {
		return hamiltonian.Flags{Exchange: true}
	}
	r.terms["anisotropy"] = func() hamiltonian.Flags {
		return hamiltonian.Flags{Anisotropy: true, Applied: true}
	}
	r.terms["paramagnet"] = func() hamiltonian.Flags {
		return hamiltonian.Flags{Applied: true}
	}

	return r
}

func (r *Registry) GetTerms(name string) (hamiltonian.Flags, error) {
	if name == "" {
		name = "full"
	}
	fn, ok := r.terms[name]
	if !ok {
		return hamiltonian.Flags{}, fmt.Errorf("%w: %s", ErrUnknownHamiltonian, name)
	}
	return fn(), nil
}

func (r *Registry) ListTerms() []string {
	names := make([]string, 0, len(r.terms))
	for name := range r.terms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
