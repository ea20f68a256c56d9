package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sartorproj/footfall/aggregate"
	"github.com/sartorproj/footfall/arima"
	"github.com/sartorproj/footfall/records"
	"github.com/sartorproj/footfall/timeseries"
)

// Result is the outcome of one run. It is never returned partially filled.
type Result struct {
	Actual     *timeseries.Series
	Fitted     *timeseries.Series
	Forecast   *timeseries.Series
	Lower      *timeseries.Series
	Upper      *timeseries.Series
	Confidence float64
	Report     records.Report
	FilledDays int
	Summary    *arima.Summary
	Breakdowns *aggregate.Breakdowns
}

// Pipeline sanitizes records, aggregates them into a daily series, fits an
// ARIMA model and forecasts. A Pipeline holds no state between runs and may be
// used from several goroutines.
type Pipeline struct {
	cfg Config
	log *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards all output.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a pipeline with a copy of cfg.
func New(cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(slog.String("component", "pipeline"))
	return p
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run executes the pipeline on raw. It returns the first failure: an invalid
// configuration, aggregate.ErrEmptySeries, a *arima.ModelFitError or a
// *arima.FitTimeoutError.
func (p *Pipeline) Run(ctx context.Context, raw []records.RawRecord) (*Result, error) {
	cfg := p.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clean, report := records.SanitizeWithReport(raw)
	p.log.Info("sanitized records",
		"total", report.Total,
		"kept", report.Kept,
		"skipped", report.Skipped,
		"unknown_hour", report.UnknownHour)
	for _, r := range report.Rejections {
		p.log.Debug("skipped record", "index", r.Index, "error", r.Err)
	}

	actual, filled, err := aggregate.Fill(aggregate.Totals(clean))
	if err != nil {
		p.log.Warn("no daily series", "error", err)
		return nil, fmt.Errorf("building daily series: %w", err)
	}
	p.log.Info("daily series",
		"days", actual.Len(),
		"first", actual.First().Format(timeseries.DateFormat),
		"last", actual.Last().Format(timeseries.DateFormat),
		"filled", filled)

	fitCtx := ctx
	if cfg.FitTimeout > 0 {
		var cancel context.CancelFunc
		fitCtx, cancel = context.WithTimeout(ctx, cfg.FitTimeout)
		defer cancel()
	}

	model, err := arima.Fit(fitCtx, actual, cfg.Order,
		arima.WithMaxIterations(cfg.MaxIterations),
		arima.WithMinObservations(cfg.MinObservations))
	if err != nil {
		p.log.Warn("model fit failed", "order", cfg.Order.String(), "days", actual.Len(), "error", err)
		return nil, err
	}
	p.log.Info("model fitted",
		"order", cfg.Order.String(),
		"iterations", model.Iterations,
		"evaluations", model.Evaluations,
		"aic", model.AIC,
		"sigma2", model.Variance)

	fitted, err := model.PredictInSample()
	if err != nil {
		return nil, err
	}
	fc, err := model.ForecastWithInterval(cfg.Horizon, cfg.Confidence)
	if err != nil {
		return nil, err
	}

	return &Result{
		Actual:     actual,
		Fitted:     fitted,
		Forecast:   fc.Mean,
		Lower:      fc.Lower,
		Upper:      fc.Upper,
		Confidence: fc.Confidence,
		Report:     report,
		FilledDays: filled,
		Summary:    model.Summary(),
		Breakdowns: aggregate.Breakdown(clean),
	}, nil
}

// Run executes a default pipeline with the given order and horizon.
func Run(ctx context.Context, raw []records.RawRecord, order arima.Order, horizon int) (*Result, error) {
	cfg := DefaultConfig()
	cfg.Order = order
	cfg.Horizon = horizon
	return New(cfg).Run(ctx, raw)
}
