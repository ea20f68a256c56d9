package pipeline

import (
	"fmt"
	"time"

	"github.com/sartorproj/footfall/arima"
)

// Config is the pipeline configuration. It is copied by New and never changed
// afterwards.
type Config struct {
	Order           arima.Order   `json:"order"`
	Horizon         int           `json:"horizon"`
	Confidence      float64       `json:"confidence"`
	MinObservations int           `json:"min_observations"`
	FitTimeout      time.Duration `json:"fit_timeout"`
	MaxIterations   int           `json:"max_iterations"`
}

// DefaultConfig returns an ARIMA(7,1,1) model forecasting 30 days with 95%
// prediction intervals.
func DefaultConfig() Config {
	return Config{
		Order:         arima.Order{P: 7, D: 1, Q: 1},
		Horizon:       30,
		Confidence:    arima.DefaultConfidence,
		MaxIterations: arima.DefaultMaxIterations,
	}
}

// Validate checks the configuration. An invalid horizon yields a
// *arima.ForecastError and an invalid order a *arima.ModelFitError.
func (c Config) Validate() error {
	if err := c.Order.Validate(); err != nil {
		return err
	}
	if c.Horizon < 1 {
		return &arima.ForecastError{Horizon: c.Horizon}
	}
	if !(c.Confidence > 0 && c.Confidence < 1) {
		return fmt.Errorf("pipeline: confidence must be in (0, 1), got %g", c.Confidence)
	}
	if c.MinObservations < 0 {
		return fmt.Errorf("pipeline: min observations must be non-negative, got %d", c.MinObservations)
	}
	if c.FitTimeout < 0 {
		return fmt.Errorf("pipeline: fit timeout must be non-negative, got %s", c.FitTimeout)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("pipeline: max iterations must be non-negative, got %d", c.MaxIterations)
	}
	return nil
}
