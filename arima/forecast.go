package arima

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/footfall/timeseries"
)

// DefaultConfidence is used when an interval is requested outside (0, 1).
const DefaultConfidence = 0.95

// Forecast holds point forecasts with a symmetric prediction interval.
type Forecast struct {
	Mean       *timeseries.Series
	Lower      *timeseries.Series
	Upper      *timeseries.Series
	StdErr     []float64
	Confidence float64
}

// integrateInSample maps one-step predictions of the working series back to the
// original scale, aligned with every observation. The first observation has no
// history and is reproduced as is; the next D-1 use the previous value.
func (m *Model) integrateInSample(pred []float64) []float64 {
	y := m.data.Values
	d := m.Order.D
	coeffs := integrationCoeffs(d)

	out := make([]float64, len(y))
	for i := range y {
		switch {
		case d > 0 && i == 0:
			out[i] = y[0]
		case i < d:
			out[i] = y[i-1]
		default:
			v := pred[i-d]
			for k := 1; k <= d; k++ {
				v += coeffs[k-1] * y[i-k]
			}
			out[i] = v
		}
	}
	return out
}

// PredictInSample returns the one-step in-sample predictions on the original
// scale, one per observation of the fitted series.
func (m *Model) PredictInSample() (*timeseries.Series, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	s, err := timeseries.NewWithTimestamps(m.data.Timestamps, m.inSample)
	if err != nil {
		return nil, err
	}
	s.Name = "fitted"
	return s.Copy(), nil
}

// path returns the next steps values on the original scale. Future shocks are
// set to their expectation of zero.
func (m *Model) path(steps int) []float64 {
	p, q, d := m.Order.P, m.Order.Q, m.Order.D
	w := m.working
	nw := len(w)

	extW := make([]float64, nw+steps)
	copy(extW, w)
	extE := make([]float64, nw+steps)
	copy(extE, m.residuals)

	for h := 0; h < steps; h++ {
		t := nw + h
		v := m.Intercept
		for i := 0; i < p; i++ {
			v += m.ARCoeffs[i] * (extW[t-i-1] - m.Intercept)
		}
		for j := 0; j < q; j++ {
			v += m.MACoeffs[j] * extE[t-j-1]
		}
		extW[t] = v
	}

	y := m.data.Values
	n := len(y)
	extY := make([]float64, n+steps)
	copy(extY, y)
	coeffs := integrationCoeffs(d)
	for h := 0; h < steps; h++ {
		i := n + h
		v := extW[nw+h]
		for k := 1; k <= d; k++ {
			v += coeffs[k-1] * extY[i-k]
		}
		extY[i] = v
	}
	return extY[n:]
}

// Forecast returns point forecasts for the steps days following the last
// observation.
func (m *Model) Forecast(steps int) (*timeseries.Series, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, &ForecastError{Horizon: steps}
	}

	s, err := timeseries.NewWithTimestamps(m.data.DatesAfter(steps), m.path(steps))
	if err != nil {
		return nil, err
	}
	s.Name = "forecast"
	return s, nil
}

// ForecastWithInterval returns point forecasts with prediction intervals at the
// given confidence level, derived from the psi-weights of the fitted model.
func (m *Model) ForecastWithInterval(steps int, confidence float64) (*Forecast, error) {
	mean, err := m.Forecast(steps)
	if err != nil {
		return nil, err
	}
	if !(confidence > 0 && confidence < 1) {
		confidence = DefaultConfidence
	}

	z := distuv.UnitNormal.Quantile((1 + confidence) / 2)
	psi := psiWeights(m.ARCoeffs, m.MACoeffs, m.Order.D, steps)

	se := make([]float64, steps)
	lower := make([]float64, steps)
	upper := make([]float64, steps)
	cum := 0.0
	for h := 0; h < steps; h++ {
		cum += psi[h] * psi[h]
		se[h] = math.Sqrt(m.Variance * cum)
		lower[h] = mean.Values[h] - z*se[h]
		upper[h] = mean.Values[h] + z*se[h]
	}

	lo, err := timeseries.NewWithTimestamps(mean.Timestamps, lower)
	if err != nil {
		return nil, err
	}
	lo.Name = "lower"
	hi, err := timeseries.NewWithTimestamps(mean.Timestamps, upper)
	if err != nil {
		return nil, err
	}
	hi.Name = "upper"

	return &Forecast{
		Mean:       mean,
		Lower:      lo,
		Upper:      hi,
		StdErr:     se,
		Confidence: confidence,
	}, nil
}
