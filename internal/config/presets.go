package config

import (
	"sort"

	"github.com/san-kum/spinsim/internal/material"
)

func preset(name string, m material.Material, n int, temps ...float64) *Config {
	c := DefaultConfig()
	c.Name = name
	c.System.Nx, c.System.Ny, c.System.Nz = n, n, n
	c.Materials = []material.Material{m}
	c.Temperatures = temps
	return c
}

var Presets = map[string]map[string]*Config{
	"Fe": {
		"bulk":  preset("bulk", material.Iron, 8, 300),
		"curie": preset("curie", material.Iron, 10, 200, 400, 600, 800, 900, 1000, 1100, 1200),
		"small": preset("small", material.Iron, 4, 300),
	},
	"Co": {
		"bulk":  preset("bulk", material.Cobalt, 8, 300),
		"curie": preset("curie", material.Cobalt, 10, 300, 600, 900, 1200, 1300, 1400, 1500),
	},
	"FePt": {
		"bulk": preset("bulk", material.FePt, 8, 300),
		"hard_axis": func() *Config {
			c := preset("hard_axis", material.FePt, 8, 300)
			c.Constraint = ConstraintConfig{Phi: 90, Theta: 0}
			return c
		}(),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(mat, name string) *Config {
	if p, ok := Presets[mat]; ok {
		if cfg, ok := p[name]; ok {
			return cfg.Clone()
		}
	}
	return nil
}

func ListPresets(mat string) []string {
	p, ok := Presets[mat]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListMaterials returns the materials that have presets.
func ListMaterials() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
