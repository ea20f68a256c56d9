package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Regression selects the deterministic component removed before a KPSS test.
type Regression string

const (
	// Level tests stationarity around a constant.
	Level Regression = "c"
	// Trend tests stationarity around a linear trend.
	Trend Regression = "ct"
)

// MinKPSSObservations is the shortest series KPSS tests.
const MinKPSSObservations = 10

// Tabulated KPSS critical values (Kwiatkowski et al., 1992) at the p-values in
// kpssPValues.
var (
	kpssPValues  = []float64{0.10, 0.05, 0.025, 0.01}
	kpssCritical = map[Regression][]float64{
		Level: {0.347, 0.463, 0.574, 0.739},
		Trend: {0.119, 0.146, 0.176, 0.216},
	}
)

// KPSSResult is the outcome of a KPSS test. The null hypothesis is
// stationarity; Stationary reports that it is not rejected at 5%.
type KPSSResult struct {
	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"p_value"`
	Lags       int     `json:"lags"`
	Stationary bool    `json:"stationary"`
}

// KPSS runs the Kwiatkowski-Phillips-Schmidt-Shin test. With nlags <= 0 the
// Newey-West bandwidth is chosen as ceil(12*(n/100)^(1/4)). The p-value is
// interpolated from the critical value table and clamped to [0.01, 0.10].
func KPSS(values []float64, regression Regression, nlags int) *KPSSResult {
	n := len(values)
	if n < MinKPSSObservations {
		return nil
	}
	critical, ok := kpssCritical[regression]
	if !ok {
		return nil
	}
	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	nlags = min(nlags, n-1)

	resid := make([]float64, n)
	copy(resid, values)
	if regression == Trend {
		xs := make([]float64, n)
		floats.Span(xs, 0, float64(n-1))
		alpha, beta := stat.LinearRegression(xs, values, nil, false)
		for i := range resid {
			resid[i] -= alpha + beta*xs[i]
		}
	} else {
		floats.AddConst(-stat.Mean(values, nil), resid)
	}

	// Long-run variance with Bartlett weights.
	lrv := floats.Dot(resid, resid) / float64(n)
	for l := 1; l <= nlags; l++ {
		w := 1 - float64(l)/float64(nlags+1)
		lrv += 2 * w * floats.Dot(resid[l:], resid[:n-l]) / float64(n)
	}
	if lrv <= 0 {
		lrv = 1e-10
	}

	partial := make([]float64, n)
	floats.CumSum(partial, resid)
	statistic := floats.Dot(partial, partial) / (float64(n) * float64(n) * lrv)

	p := kpssPValue(statistic, critical)
	return &KPSSResult{
		Statistic:  statistic,
		PValue:     p,
		Lags:       nlags,
		Stationary: p >= 0.05,
	}
}

func kpssPValue(statistic float64, critical []float64) float64 {
	last := len(critical) - 1
	switch {
	case statistic <= critical[0]:
		return kpssPValues[0]
	case statistic >= critical[last]:
		return kpssPValues[last]
	}
	for i := 1; i <= last; i++ {
		if statistic <= critical[i] {
			frac := (statistic - critical[i-1]) / (critical[i] - critical[i-1])
			return kpssPValues[i-1] + frac*(kpssPValues[i]-kpssPValues[i-1])
		}
	}
	return kpssPValues[last]
}
