package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ACF returns the sample autocorrelations of values at lags 0 through maxLag.
// maxLag is clamped to len(values)-1. A constant or empty series has no
// autocorrelation and yields nil.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	maxLag = min(maxLag, n-1)
	if maxLag < 0 {
		return nil
	}

	centered := make([]float64, n)
	copy(centered, values)
	floats.AddConst(-floats.Sum(values)/float64(n), centered)

	c0 := floats.Dot(centered, centered)
	if c0 == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := range acf {
		acf[k] = floats.Dot(centered[k:], centered[:n-k]) / c0
	}
	return acf
}

// PACF returns the partial autocorrelations at lags 0 through maxLag, computed
// with the Durbin-Levinson recursion. Lag 0 is 1.
func PACF(values []float64, maxLag int) []float64 {
	maxLag = min(maxLag, len(values)-1)
	if maxLag < 1 {
		return nil
	}
	acf := ACF(values, maxLag)
	if acf == nil {
		return nil
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1

	// phi holds the AR(k-1) coefficients phi[1..k-1] between iterations.
	phi := make([]float64, maxLag+1)
	next := make([]float64, maxLag+1)
	for k := 1; k <= maxLag; k++ {
		num, den := acf[k], 1.0
		for j := 1; j < k; j++ {
			num -= phi[j] * acf[k-j]
			den -= phi[j] * acf[j]
		}
		if den == 0 {
			break
		}
		kk := num / den
		pacf[k] = kk

		next[k] = kk
		for j := 1; j < k; j++ {
			next[j] = phi[j] - kk*phi[k-j]
		}
		phi, next = next, phi
	}
	return pacf
}

// Correlogram is a set of correlations with the symmetric bound beyond which
// a lag is significant.
type Correlogram struct {
	Values []float64 `json:"values"`
	Bound  float64   `json:"bound"`
}

// PACFBands returns the partial autocorrelations of values together with the
// white-noise bound at the given confidence level, z/sqrt(n).
func PACFBands(values []float64, maxLag int, level float64) *Correlogram {
	pacf := PACF(values, maxLag)
	if pacf == nil {
		return nil
	}
	z := distuv.UnitNormal.Quantile(1 - (1-level)/2)
	return &Correlogram{
		Values: pacf,
		Bound:  z / math.Sqrt(float64(len(values))),
	}
}

// Significant returns the positive lags outside the bound.
func (c *Correlogram) Significant() []int {
	return SignificantLags(c.Values, c.Bound)
}

// SignificantLags returns the lags after 0 whose absolute value exceeds bound.
func SignificantLags(values []float64, bound float64) []int {
	var lags []int
	for lag := 1; lag < len(values); lag++ {
		if math.Abs(values[lag]) > bound {
			lags = append(lags, lag)
		}
	}
	return lags
}
