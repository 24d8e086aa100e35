package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinsim/internal/material"
	"github.com/san-kum/spinsim/internal/vmath"
)

const (
	DefaultSize                = 8
	DefaultTemperature         = 300.0
	DefaultEquilibrationSweeps = 1000
	DefaultSweeps              = 5000
	DefaultSampleEvery         = 10
)

// Layouts for assigning materials to lattice sites.
const (
	LayoutLayers = "layers"
	LayoutRandom = "random"
)

// Config describes one simulation. Hamiltonian names a set of energy terms
// known to experiment.Registry.
type Config struct {
	Name                string              `yaml:"name"`
	System              SystemConfig        `yaml:"system"`
	Materials           []material.Material `yaml:"materials"`
	Constraint          ConstraintConfig    `yaml:"constraint"`
	Temperatures        []float64           `yaml:"temperatures"`
	EquilibrationSweeps int                 `yaml:"equilibration_sweeps"`
	Sweeps              int                 `yaml:"sweeps"`
	SampleEvery         int                 `yaml:"sample_every"`
	Seed                int64               `yaml:"seed"`
	AppliedField        vmath.Vec3          `yaml:"applied_field"`
	Hamiltonian         string              `yaml:"hamiltonian"`
}

type SystemConfig struct {
	Nx       int  `yaml:"nx"`
	Ny       int  `yaml:"ny"`
	Nz       int  `yaml:"nz"`
	Periodic bool `yaml:"periodic"`
	// Layout is "layers" (material index = z mod len(materials)) or
	// "random" (drawn from the seed).
	Layout string `yaml:"layout"`
}

// ConstraintConfig holds the constraint angles in degrees.
type ConstraintConfig struct {
	Phi   float64 `yaml:"phi"`
	Theta float64 `yaml:"theta"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "bulk",
		System: SystemConfig{
			Nx: DefaultSize, Ny: DefaultSize, Nz: DefaultSize,
			Periodic: true,
			Layout:   LayoutLayers,
		},
		Materials:           []material.Material{material.Iron},
		Temperatures:        []float64{DefaultTemperature},
		EquilibrationSweeps: DefaultEquilibrationSweeps,
		Sweeps:              DefaultSweeps,
		SampleEvery:         DefaultSampleEvery,
		Seed:                1,
		Hamiltonian:         "full",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. A material whose name matches a
// built-in starts from the built-in parameters and the fields given in the
// file override them; other materials must set mu_s.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	var doc struct {
		Materials []yaml.Node `yaml:"materials"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for i, node := range doc.Materials {
		field := fmt.Sprintf("materials[%d]", i)
		b, ok := material.Builtin(cfg.Materials[i].Name)
		if !ok {
			if cfg.Materials[i].MuS == 0 {
				return nil, &ValidationError{Field: field, Err: ErrUnknownMaterial}
			}
			continue
		}
		name := b.Name
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		b.Name = name
		cfg.Materials[i] = b
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Materials = append([]material.Material(nil), c.Materials...)
	out.Temperatures = append([]float64(nil), c.Temperatures...)
	return &out
}

// Table builds the validated material table.
func (c *Config) Table() (material.Table, error) {
	return material.NewTable(c.Materials...)
}

// Atoms is the number of lattice sites.
func (c *Config) Atoms() int {
	return c.System.Nx * c.System.Ny * c.System.Nz
}

// Samples is the number of samples taken per temperature.
func (c *Config) Samples() int {
	if c.SampleEvery <= 0 {
		return 0
	}
	return c.Sweeps / c.SampleEvery
}
