package arima

import (
	"context"
	"fmt"
	"math"

	"github.com/sartorproj/footfall/stats"
	"github.com/sartorproj/footfall/timeseries"
)

// DefaultMaxIterations bounds the optimizer's major iterations per fit.
const DefaultMaxIterations = 20000

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int `json:"p"` // AR order (number of autoregressive terms)
	D int `json:"d"` // Differencing order
	Q int `json:"q"` // MA order (number of moving average terms)
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// Validate rejects negative orders.
func (o Order) Validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 {
		return &ModelFitError{
			Reason: ReasonInvalidOrder,
			Order:  o,
			Err:    fmt.Errorf("orders must be non-negative"),
		}
	}
	return nil
}

// MinObservations is the smallest series length the order can be fitted on.
func (o Order) MinObservations() int {
	return o.P + o.D + o.Q + 1
}

// hasIntercept reports whether a process mean is estimated. Differenced models
// carry no drift term.
func (o Order) hasIntercept() bool {
	return o.D == 0
}

// NumParams is the number of estimated ARMA parameters, excluding the variance.
func (o Order) NumParams() int {
	k := o.P + o.Q
	if o.hasIntercept() {
		k++
	}
	return k
}

// Model represents an ARIMA model.
type Model struct {
	Order       Order
	ARCoeffs    []float64 // AR coefficients (phi)
	MACoeffs    []float64 // MA coefficients (theta)
	Intercept   float64   // mean of the working series; zero when D > 0
	Variance    float64   // Residual variance
	AIC         float64
	AICc        float64 // Corrected AIC for small sample sizes
	BIC         float64
	LogLik      float64
	Iterations  int
	Evaluations int

	maxIterations   int
	minObservations int

	fitted    bool
	data      *timeseries.Series
	working   []float64
	residuals []float64
	inSample  []float64
}

// Option configures a Model.
type Option func(*Model)

// WithMaxIterations caps the optimizer's major iterations. A fit that hits the
// cap fails with ReasonNoConvergence.
func WithMaxIterations(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxIterations = n
		}
	}
}

// WithMinObservations raises the minimum series length above the order's own
// requirement.
func WithMinObservations(n int) Option {
	return func(m *Model) {
		m.minObservations = n
	}
}

// New creates a new ARIMA model with the specified order.
func New(p, d, q int, opts ...Option) *Model {
	m := &Model{
		Order:         Order{P: p, D: d, Q: q},
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit estimates an ARIMA model of the given order on series.
func Fit(ctx context.Context, series *timeseries.Series, order Order, opts ...Option) (*Model, error) {
	m := New(order.P, order.D, order.Q, opts...)
	if err := m.Fit(ctx, series); err != nil {
		return nil, err
	}
	return m, nil
}

// Fit fits the ARIMA model to the given time series data. The series is copied,
// so later changes to it do not affect the model.
func (m *Model) Fit(ctx context.Context, series *timeseries.Series) error {
	m.fitted = false
	if err := m.Order.Validate(); err != nil {
		return err
	}

	n := 0
	if series != nil {
		n = series.Len()
	}
	need := max(m.Order.MinObservations(), m.minObservations)
	if n < need {
		return &ModelFitError{
			Reason: ReasonSeriesTooShort,
			Order:  m.Order,
			NObs:   n,
			Err:    fmt.Errorf("need at least %d observations", need),
		}
	}
	if len(series.Timestamps) != n {
		return &ModelFitError{
			Reason: ReasonInvalidSeries,
			Order:  m.Order,
			NObs:   n,
			Err:    fmt.Errorf("%d timestamps for %d values", len(series.Timestamps), n),
		}
	}
	for i, v := range series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ModelFitError{
				Reason: ReasonInvalidSeries,
				Order:  m.Order,
				NObs:   n,
				Err:    fmt.Errorf("non-finite value at index %d", i),
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return &FitTimeoutError{Err: err}
	}

	m.data = series.Copy()
	m.working = m.data.Difference(m.Order.D).Values

	params, err := m.estimate(ctx, m.working)
	if err != nil {
		return err
	}
	m.Intercept = params.mu
	m.ARCoeffs = params.ar
	m.MACoeffs = params.ma
	m.Iterations = params.iterations
	m.Evaluations = params.evaluations

	pred, resid := onestep(m.working, m.Intercept, m.ARCoeffs, m.MACoeffs)
	m.residuals = resid
	m.inSample = m.integrateInSample(pred)
	m.calculateIC()

	m.fitted = true
	return nil
}

// calculateIC calculates the residual variance, log-likelihood, AIC, AICc and BIC
// from the conditional residuals.
func (m *Model) calculateIC() {
	p := m.Order.P
	k := m.Order.NumParams()

	sse := 0.0
	count := 0
	for t := p; t < len(m.residuals); t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}

	if count > k {
		m.Variance = sse / float64(count-k)
	} else {
		m.Variance = sse / float64(count)
	}

	m.LogLik = stats.GaussianLogLik(sse, count, sse/float64(count))
	ic := stats.CalculateIC(m.LogLik, count, k+1)
	m.AIC = ic.AIC
	m.AICc = ic.AICc
	m.BIC = ic.BIC
}

// Fitted reports whether Fit has succeeded.
func (m *Model) Fitted() bool {
	return m.fitted
}

// Residuals returns the one-step residuals of the working series, excluding the
// first P conditioning observations.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals)-m.Order.P)
	copy(result, m.residuals[m.Order.P:])
	return result
}

// Summary returns a summary of the fitted model.
type Summary struct {
	Order               Order                     `json:"order"`
	ARCoeffs            []float64                 `json:"ar"`
	MACoeffs            []float64                 `json:"ma"`
	Intercept           float64                   `json:"intercept"`
	Variance            float64                   `json:"sigma2"`
	AIC                 float64                   `json:"aic"`
	AICc                float64                   `json:"aicc"` // Corrected AIC
	BIC                 float64                   `json:"bic"`
	LogLik              float64                   `json:"log_likelihood"`
	NObs                int                       `json:"nobs"`
	Iterations          int                       `json:"iterations"`
	Evaluations         int                       `json:"evaluations"`
	LjungBox            *stats.LjungBoxResult     `json:"ljung_box,omitempty"`
	DurbinWatson        *stats.DurbinWatsonResult `json:"durbin_watson,omitempty"`
	KPSS                *stats.KPSSResult         `json:"kpss,omitempty"`
	SignificantPACFLags []int                     `json:"significant_pacf_lags,omitempty"`
}

// Summary returns a summary of the fitted model.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}

	resid := m.Residuals()
	s := &Summary{
		Order:        m.Order,
		ARCoeffs:     append([]float64(nil), m.ARCoeffs...),
		MACoeffs:     append([]float64(nil), m.MACoeffs...),
		Intercept:    m.Intercept,
		Variance:     m.Variance,
		AIC:          m.AIC,
		AICc:         m.AICc,
		BIC:          m.BIC,
		LogLik:       m.LogLik,
		NObs:         m.data.Len(),
		Iterations:   m.Iterations,
		Evaluations:  m.Evaluations,
		LjungBox:     stats.LjungBox(resid, 10, m.Order.P+m.Order.Q),
		DurbinWatson: stats.DurbinWatson(resid),
		KPSS:         stats.KPSS(m.working, stats.Level, 0),
	}
	if pacf := stats.PACFBands(m.working, min(20, len(m.working)/2), 0.95); pacf != nil {
		s.SignificantPACFLags = pacf.Significant()
	}
	return s
}
