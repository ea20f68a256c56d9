package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/sartorproj/footfall/arima"
	"github.com/sartorproj/footfall/pipeline"
)

const (
	// EnvPrefix prefixes every environment override, e.g. FOOTFALL_HORIZON.
	EnvPrefix = "FOOTFALL"
	// DefaultPrecision is the number of decimals in rendered tables.
	DefaultPrecision = 1
	// MaxPrecision bounds the precision setting.
	MaxPrecision = 6
)

// Config is the validated configuration of the footfall report.
type Config struct {
	Pipeline  pipeline.Config
	Input     string
	Delimiter rune
	OutputDir string
	Precision int
	LogLevel  slog.Level
	Color     bool
	Charts    bool
	HTML      bool
}

// RawInput holds configuration values as resolved by viper, before validation.
type RawInput struct {
	Order           OrderInput    `mapstructure:"order"`
	Horizon         int           `mapstructure:"horizon"`
	Confidence      float64       `mapstructure:"confidence"`
	MinObservations int           `mapstructure:"min-observations"`
	FitTimeout      time.Duration `mapstructure:"fit-timeout"`
	MaxIterations   int           `mapstructure:"max-iterations"`
	Input           string        `mapstructure:"input"`
	Delimiter       string        `mapstructure:"delimiter"`
	OutputDir       string        `mapstructure:"output-dir"`
	Precision       int           `mapstructure:"precision"`
	LogLevel        string        `mapstructure:"log-level"`
	Color           string        `mapstructure:"color"`
	Charts          bool          `mapstructure:"charts"`
	HTML            bool          `mapstructure:"html"`
}

// OrderInput is the model order as written in configuration.
type OrderInput struct {
	P int `mapstructure:"p"`
	D int `mapstructure:"d"`
	Q int `mapstructure:"q"`
}

// setDefaults registers every key so that environment overrides apply to it.
func setDefaults(v *viper.Viper) {
	def := pipeline.DefaultConfig()
	v.SetDefault("order.p", def.Order.P)
	v.SetDefault("order.d", def.Order.D)
	v.SetDefault("order.q", def.Order.Q)
	v.SetDefault("horizon", def.Horizon)
	v.SetDefault("confidence", def.Confidence)
	v.SetDefault("min-observations", def.MinObservations)
	v.SetDefault("fit-timeout", "0s")
	v.SetDefault("max-iterations", def.MaxIterations)
	v.SetDefault("input", "")
	v.SetDefault("delimiter", ";")
	v.SetDefault("output-dir", "out")
	v.SetDefault("precision", DefaultPrecision)
	v.SetDefault("log-level", "info")
	v.SetDefault("color", "yes")
	v.SetDefault("charts", true)
	v.SetDefault("html", true)
}

// Load resolves configuration from defaults, an optional YAML file and
// FOOTFALL_* environment variables, in increasing precedence. With an empty
// path, footfall.yaml is looked up in the working directory and may be absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("footfall")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	input := &RawInput{}
	if err := v.Unmarshal(input); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	cfg := &Config{}
	if err := ProcessAndValidate(cfg, input); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProcessAndValidate parses and validates the raw inputs into cfg.
func ProcessAndValidate(cfg *Config, input *RawInput) error {
	cfg.Pipeline = pipeline.Config{
		Order:           arima.Order{P: input.Order.P, D: input.Order.D, Q: input.Order.Q},
		Horizon:         input.Horizon,
		Confidence:      input.Confidence,
		MinObservations: input.MinObservations,
		FitTimeout:      input.FitTimeout,
		MaxIterations:   input.MaxIterations,
	}
	if err := cfg.Pipeline.Validate(); err != nil {
		return fmt.Errorf("invalid pipeline config: %w", err)
	}

	delim := input.Delimiter
	if strings.EqualFold(delim, "tab") || delim == `\t` {
		delim = "\t"
	}
	if utf8.RuneCountInString(delim) != 1 {
		return fmt.Errorf("delimiter must be a single character (received %q)", input.Delimiter)
	}
	cfg.Delimiter, _ = utf8.DecodeRuneInString(delim)
	if cfg.Delimiter == '"' || cfg.Delimiter == '\n' || cfg.Delimiter == '\r' {
		return fmt.Errorf("delimiter %q is not allowed", input.Delimiter)
	}

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	if err := cfg.LogLevel.UnmarshalText([]byte(input.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", input.LogLevel, err)
	}

	switch strings.ToLower(input.Color) {
	case "yes", "true", "on", "1":
		cfg.Color = true
	case "no", "false", "off", "0":
		cfg.Color = false
	default:
		return fmt.Errorf("color must be yes or no (received %q)", input.Color)
	}

	cfg.Input = input.Input
	cfg.OutputDir = input.OutputDir
	cfg.Charts = input.Charts
	cfg.HTML = input.HTML
	return nil
}
