// Package automation runs batches of experiments: constraint angle scans
// loaded from YAML and independent replicas of one configuration.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/experiment"
)

var ErrEmptyScan = errors.New("automation: scan has no angles")

// Angle is one constraint direction in degrees.
type Angle struct {
	Phi   float64 `yaml:"phi"`
	Theta float64 `yaml:"theta"`
}

// Range expands to Steps evenly spaced angles from From to To inclusive.
type Range struct {
	From  Angle `yaml:"from"`
	To    Angle `yaml:"to"`
	Steps int   `yaml:"steps"`
}

// Scan runs the base config once per constraint angle.
type Scan struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Base        *config.Config `yaml:"-"`
	// BaseFile is loaded instead of an inline base when set.
	BaseFile     string    `yaml:"base_file"`
	Angles       []Angle   `yaml:"angles"`
	Range        *Range    `yaml:"range"`
	Temperatures []float64 `yaml:"temperatures"`
}

type ScanResult struct {
	Angle  Angle
	Result *experiment.Result
}

// LoadScan loads a scan from a YAML file. A relative base_file is resolved
// against the working directory.
func LoadScan(path string) (*Scan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScan(data)
}

func ParseScan(data []byte) (*Scan, error) {
	var scan Scan
	if err := yaml.Unmarshal(data, &scan); err != nil {
		return nil, err
	}

	// the inline base is decoded over the config defaults
	var raw struct {
		Base yaml.Node `yaml:"base"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var err error
	switch {
	case scan.BaseFile != "":
		scan.Base, err = config.Load(scan.BaseFile)
	case raw.Base.Kind != 0:
		var b []byte
		if b, err = yaml.Marshal(&raw.Base); err == nil {
			scan.Base, err = config.Parse(b)
		}
	default:
		scan.Base = config.DefaultConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", scan.Name, err)
	}
	return &scan, nil
}

// Expand returns the explicit angles followed by the range, if any.
func (s *Scan) Expand() []Angle {
	out := append([]Angle(nil), s.Angles...)
	if r := s.Range; r != nil && r.Steps > 0 {
		if r.Steps == 1 {
			return append(out, r.From)
		}
		for i := 0; i < r.Steps; i++ {
			f := float64(i) / float64(r.Steps-1)
			out = append(out, Angle{
				Phi:   r.From.Phi + f*(r.To.Phi-r.From.Phi),
				Theta: r.From.Theta + f*(r.To.Theta-r.From.Theta),
			})
		}
	}
	return out
}

// RunScan runs every angle with a fresh system built from the base config,
// so each angle starts from the same seed.
func RunScan(ctx context.Context, scan *Scan) ([]ScanResult, error) {
	angles := scan.Expand()
	if len(angles) == 0 {
		return nil, ErrEmptyScan
	}

	results := make([]ScanResult, 0, len(angles))
	for i, a := range angles {
		cfg := scan.Base.Clone()
		cfg.Constraint = config.ConstraintConfig{Phi: a.Phi, Theta: a.Theta}
		if len(scan.Temperatures) > 0 {
			cfg.Temperatures = append([]float64(nil), scan.Temperatures...)
		}

		slog.Info("scan step", "scan", scan.Name, "step", i+1, "of", len(angles), "phi", a.Phi, "theta", a.Theta)

		runner, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res, err := runner.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, ScanResult{Angle: a, Result: res})
	}
	return results, nil
}
