package storage

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/spinsim/internal/cmc"
	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/experiment"
	"github.com/san-kum/spinsim/internal/metrics"
	"github.com/san-kum/spinsim/internal/vmath"
)

func fixtureSamples() []metrics.Sample {
	return []metrics.Sample{
		{Sweep: 10, Temperature: 300, Direction: vmath.Zhat, Length: 0.95, Projection: 0.95, Energy: -2.1e-20, Acceptance: 0.5},
		{Sweep: 20, Temperature: 300, Direction: vmath.Vec3{X: 0.6, Z: 0.8}, Length: 0.9, Projection: 0.72, Energy: -2.05e-20, Acceptance: 0.4875},
	}
}

func fixtureResult() *experiment.Result {
	return &experiment.Result{
		Samples: fixtureSamples(),
		Points:  []experiment.Point{{Temperature: 300, Metrics: map[string]float64{"mean_m": 0.925}}},
		Stats:   cmc.Stats{Successes: 3, Total: 4, EnergyRejections: 1},
	}
}

func TestWriteSeriesCSVGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, fixtureSamples()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "series", buf.Bytes())
}

func TestReadSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, fixtureSamples()))

	got, err := ReadSeriesCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, fixtureSamples(), got)
}

func TestReadSeriesCSVErrors(t *testing.T) {
	_, err := ReadSeriesCSV(strings.NewReader("sweep,temperature\n1,2\n"))
	assert.Error(t, err)

	header := strings.Join(SeriesHeader, ",")
	_, err = ReadSeriesCSV(strings.NewReader(header + "\n1,x,0,0,1,1,1,0,0\n"))
	assert.ErrorContains(t, err, "temperature")

	empty, err := ReadSeriesCSV(strings.NewReader(header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestColumn(t *testing.T) {
	col, err := Column(fixtureSamples(), "m")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.95, 0.9}, col)

	_, err = Column(fixtureSamples(), "bogus")
	assert.Error(t, err)
}

func TestSaveLoadList(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "runs"))
	require.NoError(t, s.Init())

	cfg := config.DefaultConfig()
	id, err := s.Save(cfg, fixtureResult())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "bulk_"))

	meta, err := s.Load(id)
	require.NoError(t, err)
	assert.Equal(t, id, meta.ID)
	assert.Equal(t, []string{"Fe"}, meta.Materials)
	assert.Equal(t, 512, meta.Atoms)
	assert.Equal(t, uint64(4), meta.Stats.Total)
	require.Len(t, meta.Points, 1)
	assert.Equal(t, 0.925, meta.Points[0].Metrics["mean_m"])

	series, err := s.LoadSeries(id)
	require.NoError(t, err)
	assert.Equal(t, fixtureSamples(), series)

	second, err := s.Save(cfg, fixtureResult())
	require.NoError(t, err)
	assert.NotEqual(t, id, second)

	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.False(t, runs[1].Timestamp.Before(runs[0].Timestamp))
}

func TestSaveRemovesPartialRun(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	res := fixtureResult()
	res.Points[0].Metrics["mean_m"] = math.NaN()

	_, err := s.Save(config.DefaultConfig(), res)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	runs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestNewIDSanitizesName(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"", "run_"},
		{"fe-bulk_2", "fe-bulk_2_"},
		{"../escape", "___escape_"},
		{"a/b c", "a_b_c_"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			id, err := NewID(tt.name)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(id, tt.prefix), id)
			assert.NotContains(t, id, "/")
			assert.Equal(t, id, filepath.Base(id))
		})
	}
}

func TestSaveStaysInsideBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "runs")
	s := New(base)
	require.NoError(t, s.Init())

	cfg := config.DefaultConfig()
	cfg.Name = "../outside"
	id, err := s.Save(cfg, fixtureResult())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(base, id, metadataFile))
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Dir(base))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "runs", entries[0].Name())
}

func TestListSkipsJunk(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "not-a-run"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644))

	runs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Load("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = s.LoadSeries("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
