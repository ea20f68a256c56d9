// Package arima implements non-seasonal ARIMA(p,d,q) models for daily series.
//
// A model differences the series d times and fits an ARMA(p,q) process to the
// result by minimizing the conditional sum of squares. Estimation uses the
// Nelder-Mead simplex method from gonum/optimize, restricted to the stationary
// and invertible region. A process mean is estimated only when d is zero.
//
// # Basic Usage
//
//	model, err := arima.Fit(ctx, series, arima.Order{P: 7, D: 1, Q: 1})
//	if err != nil {
//	    var fitErr *arima.ModelFitError
//	    if errors.As(err, &fitErr) && fitErr.Reason == arima.ReasonSeriesTooShort {
//	        // collect more data
//	    }
//	    return err
//	}
//
//	fitted, _ := model.PredictInSample()   // one value per observation
//	forecast, _ := model.Forecast(30)      // the 30 days after the last observation
//	bands, _ := model.ForecastWithInterval(30, 0.95)
//
// Fitting honours ctx: a cancelled or expired context stops the optimizer and
// yields a *FitTimeoutError. Models hold a private copy of the series, so a
// fitted model may be read from several goroutines.
//
// # Residual Analysis
//
// Summary reports the coefficients, information criteria and residual
// diagnostics (Ljung-Box, Durbin-Watson) alongside a KPSS test and the
// significant partial autocorrelations of the differenced series.
package arima
