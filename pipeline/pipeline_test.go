package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/footfall/aggregate"
	"github.com/sartorproj/footfall/arima"
	"github.com/sartorproj/footfall/records"
)

func raw(date string, hour string, count string) records.RawRecord {
	return records.RawRecord{SensingDate: date, Hour: hour, PedestrianCount: count}
}

// hourlyRecords builds days of hourly readings with a weekly and a daily cycle.
func hourlyRecords(days int) []records.RawRecord {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []records.RawRecord
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		weekly := float64(int(date.Weekday())%7-3) * 12
		for h := 0; h < 24; h++ {
			daily := float64(12 - abs(h-13))
			count := 40 + weekly/4 + 5*daily + float64((d*7+h)%5)
			out = append(out, raw(date.Format("2006-01-02"), strconv.Itoa(h), strconv.FormatFloat(count, 'f', -1, 64)))
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestRunThreeDayExample(t *testing.T) {
	in := []records.RawRecord{
		raw("2024-01-01", "9", "10"),
		raw("2024-01-03", "9", "20"),
	}

	result, err := Run(context.Background(), in, arima.Order{P: 1}, 2)
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, []time.Time{day(1), day(2), day(3)}, result.Actual.Timestamps)
	assert.Equal(t, []float64{10, 10, 20}, result.Actual.Values)
	assert.Equal(t, result.Actual.Timestamps, result.Fitted.Timestamps)
	assert.Equal(t, []time.Time{day(4), day(5)}, result.Forecast.Timestamps)
	assert.Equal(t, result.Forecast.Timestamps, result.Lower.Timestamps)
	assert.Equal(t, result.Forecast.Timestamps, result.Upper.Timestamps)
	assert.Equal(t, 1, result.FilledDays)
	assert.Equal(t, 2, result.Report.Kept)
}

func TestRunEmpty(t *testing.T) {
	p := New(DefaultConfig())

	result, err := p.Run(context.Background(), nil)
	assert.ErrorIs(t, err, aggregate.ErrEmptySeries)
	assert.Nil(t, result)

	result, err = p.Run(context.Background(), []records.RawRecord{
		raw("not a date", "1", "5"),
		raw("2024-01-01", "1", "-5"),
	})
	assert.ErrorIs(t, err, aggregate.ErrEmptySeries)
	assert.Nil(t, result)
}

func TestRunInvalidHorizon(t *testing.T) {
	for _, h := range []int{0, -1} {
		result, err := Run(context.Background(), hourlyRecords(20), arima.Order{P: 1}, h)
		require.Error(t, err)
		assert.ErrorIs(t, err, arima.ErrForecast)
		assert.Nil(t, result)
	}

	// The horizon is checked before the records are looked at.
	_, err := Run(context.Background(), nil, arima.Order{P: 1}, 0)
	assert.ErrorIs(t, err, arima.ErrForecast)
}

func TestRunSeriesTooShort(t *testing.T) {
	_, err := Run(context.Background(), hourlyRecords(5), arima.Order{P: 7, D: 1, Q: 1}, 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, arima.ErrModelFit)

	var fitErr *arima.ModelFitError
	require.ErrorAs(t, err, &fitErr)
	assert.Equal(t, arima.ReasonSeriesTooShort, fitErr.Reason)
	assert.Equal(t, 5, fitErr.NObs)
}

func TestRunMinObservations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Order = arima.Order{P: 1}
	cfg.MinObservations = 14

	_, err := New(cfg).Run(context.Background(), hourlyRecords(10))
	var fitErr *arima.ModelFitError
	require.ErrorAs(t, err, &fitErr)
	assert.Equal(t, arima.ReasonSeriesTooShort, fitErr.Reason)
}

func TestRunDefaultModel(t *testing.T) {
	in := hourlyRecords(90)
	result, err := New(DefaultConfig()).Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 90, result.Actual.Len())
	assert.True(t, result.Actual.IsDailyContiguous())
	assert.Equal(t, result.Actual.Timestamps, result.Fitted.Timestamps)
	require.Equal(t, 30, result.Forecast.Len())
	assert.Equal(t, result.Actual.Last().AddDate(0, 0, 1), result.Forecast.First())
	assert.True(t, result.Forecast.IsDailyContiguous())

	for i := range result.Forecast.Values {
		assert.LessOrEqual(t, result.Lower.Values[i], result.Forecast.Values[i])
		assert.GreaterOrEqual(t, result.Upper.Values[i], result.Forecast.Values[i])
	}

	require.NotNil(t, result.Summary)
	assert.Equal(t, arima.Order{P: 7, D: 1, Q: 1}, result.Summary.Order)
	assert.Len(t, result.Summary.ARCoeffs, 7)
	assert.Equal(t, 90*24, result.Report.Kept)
	assert.Zero(t, result.FilledDays)
	assert.Len(t, result.Breakdowns.Hour, 24)
	assert.Equal(t, 0.95, result.Confidence)

	t.Logf("AIC: %.2f, sigma2: %.2f, first forecast: %.2f",
		result.Summary.AIC, result.Summary.Variance, result.Forecast.Values[0])
}

func TestRunIdempotent(t *testing.T) {
	in := hourlyRecords(40)
	in = append(in, raw("2024-01-05", "x", "12"), raw("", "1", "3"))
	p := New(DefaultConfig())

	first, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunConcurrent(t *testing.T) {
	in := hourlyRecords(60)
	orders := []arima.Order{
		{P: 1},
		{P: 1, D: 1},
		{P: 2, D: 1, Q: 1},
		{P: 7, D: 1, Q: 1},
	}

	want := make([]*Result, len(orders))
	for i, o := range orders {
		var err error
		want[i], err = Run(context.Background(), in, o, 14)
		require.NoError(t, err)
	}

	got := make([]*Result, len(orders))
	errs := make([]error, len(orders))
	var wg sync.WaitGroup
	for i, o := range orders {
		wg.Add(1)
		go func(i int, o arima.Order) {
			defer wg.Done()
			got[i], errs[i] = Run(context.Background(), in, o, 14)
		}(i, o)
	}
	wg.Wait()

	for i := range orders {
		require.NoError(t, errs[i])
		assert.Equal(t, want[i].Forecast.Values, got[i].Forecast.Values, orders[i].String())
	}
}

func TestRunFitTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultConfig()).Run(ctx, hourlyRecords(30))
	require.Error(t, err)
	assert.ErrorIs(t, err, arima.ErrFitTimeout)
	assert.NotErrorIs(t, err, arima.ErrModelFit)

	cfg := DefaultConfig()
	cfg.FitTimeout = time.Nanosecond
	_, err = New(cfg).Run(context.Background(), hourlyRecords(30))
	assert.ErrorIs(t, err, arima.ErrFitTimeout)
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	in := []records.RawRecord{
		raw("2024-01-01", "1", "10"),
		raw("2024-01-03", "?", "20"),
		raw("2024-01-04", "1", "bad"),
	}
	_, err := New(DefaultConfig(), WithLogger(logger)).Run(context.Background(), in)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "component=pipeline")
	assert.Contains(t, out, `msg="sanitized records" component=pipeline total=3 kept=2 skipped=1 unknown_hour=1`)
	assert.Contains(t, out, `msg="skipped record"`)
	assert.Contains(t, out, "filled=1")
	assert.Contains(t, out, `msg="model fit failed"`)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"NegativeOrder", func(c *Config) { c.Order.Q = -1 }},
		{"ZeroHorizon", func(c *Config) { c.Horizon = 0 }},
		{"Confidence", func(c *Config) { c.Confidence = 1 }},
		{"MinObservations", func(c *Config) { c.MinObservations = -1 }},
		{"FitTimeout", func(c *Config) { c.FitTimeout = -time.Second }},
		{"MaxIterations", func(c *Config) { c.MaxIterations = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewCopiesConfig(t *testing.T) {
	cfg := DefaultConfig()
	p := New(cfg)
	cfg.Horizon = 1
	cfg.Order.P = 1

	assert.Equal(t, 30, p.Config().Horizon)
	assert.Equal(t, 7, p.Config().Order.P)
}
