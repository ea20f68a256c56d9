// Package stats provides the diagnostics reported alongside a fitted ARIMA model.
//
// # Autocorrelation
//
//	acf := stats.ACF(values, 20)
//	pacf := stats.PACFBands(values, 14, 0.95)
//	lags := pacf.Significant()
//
// # Residual Diagnostics
//
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb != nil && lb.PValue > 0.05 {
//	    // residuals look like white noise
//	}
//	dw := stats.DurbinWatson(residuals)
//
// # Stationarity
//
//	// KPSS: H0 = stationary
//	kpss := stats.KPSS(working, stats.Level, 0)
//
// # Information Criteria
//
//	ic := stats.CalculateIC(logLik, nObs, nParams)
package stats
