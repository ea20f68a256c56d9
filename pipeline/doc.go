// Package pipeline runs the footfall forecast end to end: records are
// sanitized, summed into a gap-filled daily series, fitted with an ARIMA model
// and projected Horizon days ahead.
//
//	p := pipeline.New(pipeline.DefaultConfig(), pipeline.WithLogger(logger))
//	result, err := p.Run(ctx, raw)
//	switch {
//	case errors.Is(err, aggregate.ErrEmptySeries):
//	    // nothing usable in the input
//	case errors.Is(err, arima.ErrModelFit), errors.Is(err, arima.ErrFitTimeout):
//	    // retry with a smaller order, more data or a longer timeout
//	}
//
// Stages run sequentially and the first failure ends the run. Separate runs
// share nothing but the read-only configuration.
package pipeline
