package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/spinsim/internal/metrics"
	"github.com/san-kum/spinsim/internal/vmath"
)

// SeriesHeader is the column layout of series.csv.
var SeriesHeader = []string{
	"sweep", "temperature", "mx", "my", "mz", "m", "m_dot_v", "energy", "acceptance",
}

// Columns that can be plotted or analyzed, mapped to their accessor.
var Columns = map[string]func(metrics.Sample) float64{
	"temperature": func(s metrics.Sample) float64 { return s.Temperature },
	"mx":          func(s metrics.Sample) float64 { return s.Direction.X },
	"my":          func(s metrics.Sample) float64 { return s.Direction.Y },
	"mz":          func(s metrics.Sample) float64 { return s.Direction.Z },
	"m":           func(s metrics.Sample) float64 { return s.Length },
	"m_dot_v":     func(s metrics.Sample) float64 { return s.Projection },
	"energy":      func(s metrics.Sample) float64 { return s.Energy },
	"acceptance":  func(s metrics.Sample) float64 { return s.Acceptance },
}

// Column extracts one named column from a series.
func Column(samples []metrics.Sample, name string) ([]float64, error) {
	fn, ok := Columns[name]
	if !ok {
		return nil, fmt.Errorf("storage: unknown column %q", name)
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = fn(s)
	}
	return out, nil
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// WriteSeriesCSV writes a header and one row per sample. The magnetization
// components are the unit direction.
func WriteSeriesCSV(w io.Writer, samples []metrics.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SeriesHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatUint(s.Sweep, 10),
			format(s.Temperature),
			format(s.Direction.X),
			format(s.Direction.Y),
			format(s.Direction.Z),
			format(s.Length),
			format(s.Projection),
			format(s.Energy),
			format(s.Acceptance),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadSeriesCSV(r io.Reader) ([]metrics.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(SeriesHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		sweep, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("storage: row %d: %w", i+1, err)
		}
		vals := make([]float64, len(rec)-1)
		for j, field := range rec[1:] {
			vals[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: row %d column %s: %w", i+1, SeriesHeader[j+1], err)
			}
		}
		samples = append(samples, metrics.Sample{
			Sweep:       sweep,
			Temperature: vals[0],
			Direction:   vmath.Vec3{X: vals[1], Y: vals[2], Z: vals[3]},
			Length:      vals[4],
			Projection:  vals[5],
			Energy:      vals[6],
			Acceptance:  vals[7],
		})
	}
	return samples, nil
}
