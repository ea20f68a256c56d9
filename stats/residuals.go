package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinLjungBoxObservations is the shortest residual series LjungBox tests.
const MinLjungBoxObservations = 10

// LjungBoxResult is the outcome of a Ljung-Box portmanteau test.
type LjungBoxResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
	DOF       int     `json:"dof"`
}

// LjungBox tests residuals for autocorrelation up to lags. fitdf is the number
// of estimated ARMA coefficients and is subtracted from the degrees of
// freedom, which never drop below 1. Short or constant series yield nil.
func LjungBox(residuals []float64, lags, fitdf int) *LjungBoxResult {
	n := len(residuals)
	if n < MinLjungBoxObservations || lags < 1 {
		return nil
	}
	lags = min(lags, n-1)

	acf := ACF(residuals, lags)
	if acf == nil {
		return nil
	}

	var q float64
	for k, r := range acf[1:] {
		q += r * r / float64(n-k-1)
	}
	q *= float64(n) * float64(n+2)

	dof := max(lags-fitdf, 1)
	return &LjungBoxResult{
		Statistic: q,
		PValue:    distuv.ChiSquared{K: float64(dof)}.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// DurbinWatsonResult holds the Durbin-Watson statistic. Values near 2 mean no
// first-order autocorrelation; lower values mean positive and higher values
// negative autocorrelation.
type DurbinWatsonResult struct {
	Statistic float64 `json:"statistic"`
}

// DurbinWatson computes the Durbin-Watson statistic of residuals, or nil when
// there are fewer than two or all are zero.
func DurbinWatson(residuals []float64) *DurbinWatsonResult {
	n := len(residuals)
	if n < 2 {
		return nil
	}
	ss := floats.Dot(residuals, residuals)
	if ss == 0 {
		return nil
	}
	d := floats.Distance(residuals[1:], residuals[:n-1], 2)
	return &DurbinWatsonResult{Statistic: d * d / ss}
}
