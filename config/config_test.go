package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/footfall/arima"
	"github.com/sartorproj/footfall/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "footfall.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, pipeline.DefaultConfig(), cfg.Pipeline)
	assert.Equal(t, ';', cfg.Delimiter)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, DefaultPrecision, cfg.Precision)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.Color)
	assert.True(t, cfg.Charts)
	assert.True(t, cfg.HTML)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
order:
  p: 2
  d: 0
  q: 1
horizon: 14
confidence: 0.8
min-observations: 14
fit-timeout: 45s
input: counts.csv
delimiter: ","
precision: 3
log-level: debug
color: "no"
charts: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, arima.Order{P: 2, D: 0, Q: 1}, cfg.Pipeline.Order)
	assert.Equal(t, 14, cfg.Pipeline.Horizon)
	assert.Equal(t, 0.8, cfg.Pipeline.Confidence)
	assert.Equal(t, 14, cfg.Pipeline.MinObservations)
	assert.Equal(t, 45*time.Second, cfg.Pipeline.FitTimeout)
	assert.Equal(t, arima.DefaultMaxIterations, cfg.Pipeline.MaxIterations)
	assert.Equal(t, "counts.csv", cfg.Input)
	assert.Equal(t, ',', cfg.Delimiter)
	assert.Equal(t, 3, cfg.Precision)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.Color)
	assert.False(t, cfg.Charts)
	assert.True(t, cfg.HTML)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "horizon: 14\norder:\n  p: 3\n")
	t.Setenv("FOOTFALL_HORIZON", "7")
	t.Setenv("FOOTFALL_ORDER_Q", "2")
	t.Setenv("FOOTFALL_MIN_OBSERVATIONS", "21")
	t.Setenv("FOOTFALL_DELIMITER", "tab")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Pipeline.Horizon)
	assert.Equal(t, arima.Order{P: 3, D: 1, Q: 2}, cfg.Pipeline.Order)
	assert.Equal(t, 21, cfg.Pipeline.MinObservations)
	assert.Equal(t, '\t', cfg.Delimiter)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"ZeroHorizon", "horizon: 0\n"},
		{"NegativeOrder", "order:\n  p: -1\n"},
		{"Confidence", "confidence: 1.5\n"},
		{"Delimiter", "delimiter: ';;'\n"},
		{"QuoteDelimiter", "delimiter: '\"'\n"},
		{"Precision", "precision: 9\n"},
		{"LogLevel", "log-level: loud\n"},
		{"Color", "color: sometimes\n"},
		{"Timeout", "fit-timeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestZeroHorizonIsForecastError(t *testing.T) {
	_, err := Load(writeConfig(t, "horizon: 0\n"))
	assert.ErrorIs(t, err, arima.ErrForecast)
}
