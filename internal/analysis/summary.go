package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary describes a correlated Monte Carlo series.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	// StdErr is the error of the mean corrected for autocorrelation.
	StdErr float64 `json:"std_err"`
	// Tau is the integrated autocorrelation time in samples.
	Tau float64 `json:"tau"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func Summarize(data []float64) Summary {
	s := Summary{N: len(data)}
	if s.N == 0 {
		return s
	}

	s.Min, s.Max = data[0], data[0]
	for _, v := range data[1:] {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}

	if s.N == 1 {
		s.Mean = data[0]
		s.Tau = 0.5
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	s.Tau = IntegratedTime(Autocorrelation(data))
	s.StdErr = s.StdDev / math.Sqrt(float64(s.N)) * math.Sqrt(2*s.Tau)
	return s
}

// Blocks splits data into n equal consecutive blocks, dropping the
// remainder, and returns the block means.
func Blocks(data []float64, n int) []float64 {
	if n <= 0 || len(data) < n {
		return nil
	}
	size := len(data) / n
	out := make([]float64, n)
	for b := 0; b < n; b++ {
		out[b] = stat.Mean(data[b*size:(b+1)*size], nil)
	}
	return out
}
