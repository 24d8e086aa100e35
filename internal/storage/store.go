package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/spinsim/internal/cmc"
	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/experiment"
	"github.com/san-kum/spinsim/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Timestamp    time.Time               `json:"timestamp"`
	Seed         int64                   `json:"seed"`
	Atoms        int                     `json:"atoms"`
	Materials    []string                `json:"materials"`
	Hamiltonian  string                  `json:"hamiltonian"`
	Constraint   config.ConstraintConfig `json:"constraint"`
	Temperatures []float64               `json:"temperatures"`
	Equilibrate  int                     `json:"equilibration_sweeps"`
	Sweeps       int                     `json:"sweeps"`
	SampleEvery  int                     `json:"sample_every"`
	Stats        cmc.Stats               `json:"stats"`
	Points       []experiment.Point      `json:"points"`
}

// NewID returns a run id of the form <name>_<uuid v7 prefix>. V7 ids sort
// by creation time. Characters outside [A-Za-z0-9_-] in name become '_'.
func NewID(name string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", sanitizeName(name), strings.ReplaceAll(id.String(), "-", "")[:16]), nil
}

func sanitizeName(name string) string {
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, name)
}

// Save writes series.csv and then metadata.json into a new run directory.
// On failure the directory is removed, so List never sees a partial run.
func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	runID, err := NewID(cfg.Name)
	if err != nil {
		return "", err
	}
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	names := make([]string, len(cfg.Materials))
	for i, m := range cfg.Materials {
		names[i] = m.Name
	}

	meta := RunMetadata{
		ID:           runID,
		Name:         cfg.Name,
		Timestamp:    time.Now().UTC(),
		Seed:         cfg.Seed,
		Atoms:        cfg.Atoms(),
		Materials:    names,
		Hamiltonian:  cfg.Hamiltonian,
		Constraint:   cfg.Constraint,
		Temperatures: cfg.Temperatures,
		Equilibrate:  cfg.EquilibrationSweeps,
		Sweeps:       cfg.Sweeps,
		SampleEvery:  cfg.SampleEvery,
		Stats:        result.Stats,
		Points:       result.Points,
	}

	if err := writeRun(runDir, meta, result.Samples); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			slog.Warn("failed to remove partial run", "dir", runDir, "error", rmErr)
		}
		return "", fmt.Errorf("save %s: %w", runID, err)
	}

	slog.Info("run saved", "id", runID, "samples", len(result.Samples), "dir", runDir)
	return runID, nil
}

func writeRun(dir string, meta RunMetadata, samples []metrics.Sample) error {
	f, err := os.Create(filepath.Join(dir, seriesFile))
	if err != nil {
		return err
	}
	if err := WriteSeriesCSV(f, samples); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, metadataFile), meta)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			slog.Debug("skipping run directory", "dir", entry.Name(), "error", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) ([]metrics.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	return ReadSeriesCSV(f)
}
