package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |F(k)| for the first half of the spectrum of the
// mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	spec := fft.FFTReal(center(data))
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// Autocorrelation returns the normalized autocorrelation function of the
// series for lags 0..n-1, so acf[0] == 1. The series is zero padded to a
// power of two at least twice its length to avoid circular wrap-around. A
// constant series has no defined correlation and yields nil.
func Autocorrelation(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	size := 1
	for size < 2*n {
		size <<= 1
	}
	padded := make([]float64, size)
	copy(padded, center(data))

	spec := fft.FFTReal(padded)
	for i, c := range spec {
		spec[i] = c * cmplx.Conj(c)
	}
	corr := fft.IFFT(spec)

	c0 := real(corr[0])
	if c0 <= 0 {
		return nil
	}
	acf := make([]float64, n)
	for k := range acf {
		acf[k] = real(corr[k]) / c0
	}
	return acf
}

// IntegratedTime is the integrated autocorrelation time in samples,
// 1/2 + sum of acf[k] for k >= 1 up to the first non-positive lag.
func IntegratedTime(acf []float64) float64 {
	if len(acf) == 0 {
		return 0.5
	}
	tau := 0.5
	for k := 1; k < len(acf); k++ {
		if acf[k] <= 0 {
			break
		}
		tau += acf[k]
	}
	return tau
}

func center(data []float64) []float64 {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}
