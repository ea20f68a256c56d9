package arima

import (
	"errors"
	"fmt"
)

var (
	// ErrModelFit matches every *ModelFitError.
	ErrModelFit = errors.New("arima: model fit failed")
	// ErrFitTimeout matches every *FitTimeoutError.
	ErrFitTimeout = errors.New("arima: model fit timed out")
	// ErrForecast matches every *ForecastError.
	ErrForecast = errors.New("arima: invalid forecast request")
	// ErrNotFitted is returned when predictions are requested from an unfitted model.
	ErrNotFitted = errors.New("arima: model must be fitted before prediction")
)

// FitFailure classifies why a fit was rejected.
type FitFailure int

const (
	// ReasonInvalidOrder means a negative p, d or q.
	ReasonInvalidOrder FitFailure = iota + 1
	// ReasonSeriesTooShort means fewer observations than the order requires.
	ReasonSeriesTooShort
	// ReasonInvalidSeries means the series holds NaN or infinite values.
	ReasonInvalidSeries
	// ReasonNoConvergence means the optimizer stopped before converging.
	ReasonNoConvergence
)

func (r FitFailure) String() string {
	switch r {
	case ReasonInvalidOrder:
		return "invalid order"
	case ReasonSeriesTooShort:
		return "series too short"
	case ReasonInvalidSeries:
		return "invalid series"
	case ReasonNoConvergence:
		return "no convergence"
	default:
		return fmt.Sprintf("FitFailure(%d)", int(r))
	}
}

// ModelFitError reports a failed fit. Callers may retry with a smaller order or
// more data; the package never retries on its own.
type ModelFitError struct {
	Reason FitFailure
	Order  Order
	NObs   int
	Err    error
}

func (e *ModelFitError) Error() string {
	msg := fmt.Sprintf("arima: fitting %s on %d observations: %s", e.Order, e.NObs, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is ErrModelFit.
func (e *ModelFitError) Is(target error) bool { return target == ErrModelFit }

func (e *ModelFitError) Unwrap() error { return e.Err }

// FitTimeoutError reports a fit abandoned because its context was cancelled or
// its deadline passed. It unwraps to the context error.
type FitTimeoutError struct {
	Err error
}

func (e *FitTimeoutError) Error() string {
	return fmt.Sprintf("arima: model fit timed out: %v", e.Err)
}

// Is reports whether target is ErrFitTimeout.
func (e *FitTimeoutError) Is(target error) bool { return target == ErrFitTimeout }

func (e *FitTimeoutError) Unwrap() error { return e.Err }

// ForecastError reports an invalid forecast horizon.
type ForecastError struct {
	Horizon int
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("arima: forecast horizon must be at least 1, got %d", e.Horizon)
}

// Is reports whether target is ErrForecast.
func (e *ForecastError) Is(target error) bool { return target == ErrForecast }
