// Package analysis provides statistics for Monte Carlo time series.
//
// Successive sweeps are correlated, so naive error bars underestimate the
// uncertainty of a mean. The package offers:
//
//   - [Autocorrelation]: normalized autocorrelation via FFT
//   - [IntegratedTime]: integrated autocorrelation time
//   - [Summarize]: mean, spread and a correlation corrected error
//   - [Blocks]: block means for binning analysis
//   - [PowerSpectrum]: magnitude spectrum of a series
//
// # Example
//
//	s := analysis.Summarize(series)
//	fmt.Printf("%.4f +/- %.4f (tau=%.1f)\n", s.Mean, s.StdErr, s.Tau)
package analysis
