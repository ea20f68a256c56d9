// Command demo builds a footfall forecast report from pedestrian sensor
// readings. Without an input file it runs on a synthetic sensor.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/sartorproj/footfall/aggregate"
	"github.com/sartorproj/footfall/arima"
	"github.com/sartorproj/footfall/config"
	"github.com/sartorproj/footfall/pipeline"
	"github.com/sartorproj/footfall/records"
	"github.com/sartorproj/footfall/render"
	"github.com/sartorproj/footfall/timeseries"
)

var (
	header = color.New(color.FgCyan, color.Bold).SprintFunc()
	warn   = color.New(color.FgYellow).SprintFunc()
	fail   = color.New(color.FgRed, color.Bold).SprintFunc()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, fail("error:"), err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("demo", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "configuration file (default ./footfall.yaml)")
	input := flags.StringP("input", "i", "", "semicolon separated sensor export; overrides the configured input")
	holdout := flags.Int("holdout", 14, "trailing days held out to score the model, 0 to skip")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *input != "" {
		cfg.Input = *input
	}
	color.NoColor = color.NoColor || !cfg.Color

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	raw, source, err := loadRecords(cfg)
	if err != nil {
		return err
	}
	log.Info("loaded records", "source", source, "records", len(raw))

	p := pipeline.New(cfg.Pipeline, pipeline.WithLogger(log))
	result, err := p.Run(ctx, raw)
	if err != nil {
		return err
	}

	printHeader(out, fmt.Sprintf("Footfall forecast: %s, %s", cfg.Pipeline.Order, source))
	fmt.Fprintf(out, "%d records, %d kept, %d skipped, %d days filled\n",
		result.Report.Total, result.Report.Kept, result.Report.Skipped, result.FilledDays)
	actual := result.Actual
	fmt.Fprintf(out, "%d days from %s to %s, mean %.1f (sd %.1f), range %.0f to %.0f\n",
		actual.Len(), actual.First().Format(timeseries.DateFormat), actual.Last().Format(timeseries.DateFormat),
		actual.Mean(), actual.Std(), actual.Min(), actual.Max())
	if result.Report.Skipped > 0 {
		fmt.Fprintln(out, warn(fmt.Sprintf("skipped %d records (%d invalid dates, %d invalid counts)",
			result.Report.Skipped, result.Report.InvalidDate, result.Report.InvalidCount)))
	}

	if err := render.Table(out, result, cfg.Precision); err != nil {
		return err
	}
	printSummary(out, result.Summary)

	if b := result.Breakdowns; b != nil {
		printHeader(out, "Breakdowns")
		for _, t := range []struct {
			title   string
			buckets []aggregate.Bucket
		}{
			{"Weekday", b.Weekday},
			{"Hour", b.Hour},
			{"Month", b.Month},
		} {
			if len(t.buckets) == 0 {
				continue
			}
			if err := render.BreakdownTable(out, t.title, t.buckets, cfg.Precision); err != nil {
				return err
			}
			if peak, ok := aggregate.Peak(t.buckets); ok {
				fmt.Fprintf(out, "busiest %s: %s\n", strings.ToLower(t.title), peak.Label)
			}
		}
	}

	if *holdout > 0 {
		if err := evaluate(ctx, out, result, cfg.Pipeline, *holdout); err != nil {
			fmt.Fprintln(out, warn("holdout evaluation skipped:"), err)
		}
	}

	files, err := export(cfg, result)
	if err != nil {
		return err
	}
	printHeader(out, "Exported")
	for _, f := range files {
		fmt.Fprintln(out, " ", f)
	}
	return nil
}

func loadRecords(cfg *config.Config) ([]records.RawRecord, string, error) {
	if cfg.Input == "" {
		return syntheticRecords(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 180), "synthetic sensor", nil
	}
	opts := records.DefaultCSVOptions()
	opts.Delimiter = cfg.Delimiter
	raw, err := records.LoadCSV(cfg.Input, opts)
	if err != nil {
		return nil, "", fmt.Errorf("loading %s: %w", cfg.Input, err)
	}
	return raw, filepath.Base(cfg.Input), nil
}

// syntheticRecords generates hourly readings with a weekly and a daily cycle,
// a few missing days and some malformed rows.
func syntheticRecords(start time.Time, days int) []records.RawRecord {
	var out []records.RawRecord
	for d := 0; d < days; d++ {
		if d%29 == 17 {
			continue
		}
		date := start.AddDate(0, 0, d)
		weekly := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekly = 1.6
		}
		trend := 1 + float64(d)/float64(days)/4
		for h := 6; h < 23; h++ {
			daily := math.Max(0, math.Sin(float64(h-6)*math.Pi/17))
			count := math.Round(120 * weekly * trend * daily * (1 + 0.1*math.Sin(float64(d*24+h))))
			out = append(out, records.RawRecord{
				SensingDate:     date.Format("2006-01-02"),
				Hour:            strconv.Itoa(h),
				Location:        "Main Street",
				PedestrianCount: strconv.FormatFloat(count, 'f', -1, 64),
			})
		}
		if d%45 == 3 {
			out = append(out, records.RawRecord{SensingDate: "n/a", Hour: "12", PedestrianCount: "5"})
		}
	}
	return out
}

// evaluate refits on all but the last days of the actual series and scores
// the forecast of those days.
func evaluate(ctx context.Context, out io.Writer, result *pipeline.Result, cfg pipeline.Config, days int) error {
	n := result.Actual.Len()
	if days >= n {
		return fmt.Errorf("%d days held out from %d observations", days, n)
	}
	train := result.Actual.Slice(0, n-days)
	test := result.Actual.Slice(n-days, n)

	model, err := arima.Fit(ctx, train, cfg.Order,
		arima.WithMaxIterations(cfg.MaxIterations),
		arima.WithMinObservations(cfg.MinObservations))
	if err != nil {
		return err
	}
	forecast, err := model.Forecast(days)
	if err != nil {
		return err
	}

	rmse, mae, mape := metrics(test.Values, forecast.Values)
	printHeader(out, fmt.Sprintf("Holdout (%d days)", days))
	fmt.Fprintf(out, "RMSE=%.2f MAE=%.2f MAPE=%.2f%%\n", rmse, mae, mape)
	return nil
}

// metrics calculates forecast accuracy metrics
func metrics(actual, predicted []float64) (rmse, mae, mape float64) {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		d := actual[i] - predicted[i]
		rmse += d * d
		mae += math.Abs(d)
		if actual[i] != 0 {
			mape += math.Abs(d) / math.Abs(actual[i]) * 100
		}
	}
	return math.Sqrt(rmse / float64(n)), mae / float64(n), mape / float64(n)
}

func export(cfg *config.Config, result *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}

	var files []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(cfg.OutputDir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return errors.Join(err, f.Close())
		}
		if err := f.Close(); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	}

	if err := write("forecast.csv", func(w io.Writer) error { return render.WriteCSV(w, result) }); err != nil {
		return files, err
	}
	if err := write("forecast.json", func(w io.Writer) error { return render.WriteJSON(w, result) }); err != nil {
		return files, err
	}
	if cfg.HTML {
		if err := write("report.html", func(w io.Writer) error { return render.HTMLReport(w, result) }); err != nil {
			return files, err
		}
	}
	if cfg.Charts {
		charts, err := render.Charts(filepath.Join(cfg.OutputDir, "charts"), result)
		files = append(files, charts...)
		if err != nil {
			return files, err
		}
	}
	return files, nil
}

func printHeader(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s\n%s\n", header(title), strings.Repeat("=", len(title)))
}

func printSummary(out io.Writer, s *arima.Summary) {
	if s == nil {
		return
	}
	printHeader(out, s.Order.String())
	fmt.Fprintf(out, "AR:        %v\n", formatCoeffs(s.ARCoeffs))
	fmt.Fprintf(out, "MA:        %v\n", formatCoeffs(s.MACoeffs))
	fmt.Fprintf(out, "sigma^2:   %.3f\n", s.Variance)
	fmt.Fprintf(out, "AIC:       %.2f  AICc: %.2f  BIC: %.2f\n", s.AIC, s.AICc, s.BIC)
	fmt.Fprintf(out, "optimizer: %d iterations, %d evaluations\n", s.Iterations, s.Evaluations)
	if s.LjungBox != nil {
		line := fmt.Sprintf("Ljung-Box: Q=%.2f p=%.3f", s.LjungBox.Statistic, s.LjungBox.PValue)
		if s.LjungBox.PValue < 0.05 {
			line = warn(line + " (residual autocorrelation)")
		}
		fmt.Fprintln(out, line)
	}
	if s.DurbinWatson != nil {
		fmt.Fprintf(out, "Durbin-Watson: %.3f\n", s.DurbinWatson.Statistic)
	}
}

func formatCoeffs(c []float64) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(v, 'f', 3, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
