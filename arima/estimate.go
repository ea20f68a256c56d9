package arima

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/footfall/stats"
)

// restarts is the number of times Nelder-Mead is restarted from its own optimum.
// A fresh simplex recovers from premature collapse in higher dimensions.
const restarts = 1

type estimates struct {
	mu          float64
	ar          []float64
	ma          []float64
	iterations  int
	evaluations int
}

// estimate minimizes the conditional sum of squares of the working series.
// The series is standardized first so that one simplex size suits every scale.
func (m *Model) estimate(ctx context.Context, w []float64) (*estimates, error) {
	p, q := m.Order.P, m.Order.Q

	scale := stat.StdDev(w, nil)
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	z := make([]float64, len(w))
	for i, v := range w {
		z[i] = v / scale
	}

	x := m.initialParams(z)
	est := &estimates{}
	if len(x) > 0 {
		problem := optimize.Problem{
			Func: func(x []float64) float64 {
				return m.objective(x, z)
			},
		}
		for run := 0; run <= restarts; run++ {
			result, err := m.minimize(ctx, problem, x)
			if err != nil {
				return nil, err
			}
			x = result.X
			est.iterations += result.Stats.MajorIterations
			est.evaluations += result.Stats.FuncEvaluations
		}
	}

	mu, ar, ma := m.unpack(x)
	est.mu = mu * scale
	est.ar = append(make([]float64, 0, p), ar...)
	est.ma = append(make([]float64, 0, q), ma...)
	return est, nil
}

func (m *Model) minimize(ctx context.Context, problem optimize.Problem, x0 []float64) (*optimize.Result, error) {
	dim := len(x0)
	settings := &optimize.Settings{
		MajorIterations: m.maxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-10,
			Iterations: 20 * (dim + 1),
		},
		Recorder: &contextRecorder{ctx: ctx},
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &FitTimeoutError{Err: ctxErr}
	}
	if err != nil {
		return nil, m.noConvergence(err)
	}

	switch result.Status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit, optimize.Failure:
		return nil, m.noConvergence(fmt.Errorf("optimizer stopped after %d iterations: %s",
			result.Stats.MajorIterations, result.Status))
	}
	if math.IsInf(result.F, 0) || math.IsNaN(result.F) {
		return nil, m.noConvergence(fmt.Errorf("objective is not finite at the optimum"))
	}
	return result, nil
}

func (m *Model) noConvergence(err error) error {
	return &ModelFitError{
		Reason: ReasonNoConvergence,
		Order:  m.Order,
		NObs:   m.data.Len(),
		Err:    err,
	}
}

// initialParams packs the starting point: the sample mean, Yule-Walker AR
// estimates and zero MA terms.
func (m *Model) initialParams(z []float64) []float64 {
	p, q := m.Order.P, m.Order.Q
	x := make([]float64, 0, m.Order.NumParams())
	if m.Order.hasIntercept() {
		x = append(x, stat.Mean(z, nil))
	}

	ar := make([]float64, p)
	if p > 0 {
		if acf := stats.ACF(z, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil && isStationary(phi) {
				ar = phi
			}
		}
	}
	x = append(x, ar...)
	return append(x, make([]float64, q)...)
}

// unpack splits an optimizer vector into mean, AR and MA parts. The slices
// alias x.
func (m *Model) unpack(x []float64) (mu float64, ar, ma []float64) {
	i := 0
	if m.Order.hasIntercept() {
		mu = x[0]
		i = 1
	}
	ar = x[i : i+m.Order.P]
	ma = x[i+m.Order.P : i+m.Order.P+m.Order.Q]
	return mu, ar, ma
}

// objective is the conditional sum of squares. Parameters outside the
// stationary and invertible region score +Inf.
func (m *Model) objective(x, z []float64) float64 {
	mu, ar, ma := m.unpack(x)
	if !isStationary(ar) || !isInvertible(ma) {
		return math.Inf(1)
	}
	_, resid := onestep(z, mu, ar, ma)
	sse := 0.0
	for t := len(ar); t < len(resid); t++ {
		sse += resid[t] * resid[t]
	}
	if math.IsNaN(sse) {
		return math.Inf(1)
	}
	return sse
}

// onestep runs the conditional ARMA recursion over y. The first len(ar)
// observations condition the recursion: they are predicted by the mean and carry
// a zero residual.
func onestep(y []float64, mu float64, ar, ma []float64) (pred, resid []float64) {
	n := len(y)
	p := len(ar)
	q := len(ma)
	pred = make([]float64, n)
	resid = make([]float64, n)

	for t := 0; t < n; t++ {
		v := mu
		if t < p {
			pred[t] = v
			continue
		}
		for i := 0; i < p; i++ {
			v += ar[i] * (y[t-i-1] - mu)
		}
		for j := 0; j < q && t-j-1 >= 0; j++ {
			v += ma[j] * resid[t-j-1]
		}
		pred[t] = v
		resid[t] = y[t] - v
	}
	return pred, resid
}

// contextRecorder aborts the optimization once ctx is done.
type contextRecorder struct {
	ctx context.Context
}

func (r *contextRecorder) Init() error {
	return r.ctx.Err()
}

func (r *contextRecorder) Record(_ *optimize.Location, _ optimize.Operation, _ *optimize.Stats) error {
	return r.ctx.Err()
}

// yuleWalker estimates AR coefficients using Yule-Walker equations.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)

	// Simple case for AR(1)
	if order == 1 {
		phi[0] = acf[1]
		return phi
	}

	// Levinson-Durbin recursion
	phi[0] = acf[1]
	v := 1 - phi[0]*phi[0]

	for i := 1; i < order; i++ {
		if v <= 0 {
			return nil
		}
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		newPhi := make([]float64, i+1)
		for j := 0; j < i; j++ {
			newPhi[j] = phi[j] - lambda*phi[i-1-j]
		}
		newPhi[i] = lambda
		copy(phi, newPhi)

		v *= (1 - lambda*lambda)
	}

	return phi
}
