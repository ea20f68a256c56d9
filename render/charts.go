package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sartorproj/footfall/aggregate"
	"github.com/sartorproj/footfall/pipeline"
	"github.com/sartorproj/footfall/timeseries"
)

// ForecastWindow is the number of trailing observed days drawn before the
// forecast.
const ForecastWindow = 60

var (
	actualColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	fittedColor   = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	forecastColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	boundColor    = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	barColor      = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// Charts writes the PNG charts for result into dir and returns the paths
// written. Charts without data are skipped.
func Charts(dir string, result *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}

	type chart struct {
		file string
		plot func() (*plot.Plot, error)
	}
	charts := []chart{
		{"footfall_over_time.png", func() (*plot.Plot, error) { return overTimePlot(result) }},
		{"actual_vs_predicted.png", func() (*plot.Plot, error) { return fittedPlot(result) }},
		{"forecast.png", func() (*plot.Plot, error) { return forecastPlot(result) }},
	}
	if b := result.Breakdowns; b != nil {
		charts = append(charts,
			chart{"by_weekday.png", func() (*plot.Plot, error) { return barPlot("Visitors by Weekday", "Weekday", b.Weekday) }},
			chart{"by_hour.png", func() (*plot.Plot, error) { return barPlot("Average Visitors by Hour", "Hour", b.Hour) }},
			chart{"by_month.png", func() (*plot.Plot, error) { return barPlot("Visitors by Month", "Month", b.Month) }},
		)
	}

	var written []string
	for _, c := range charts {
		p, err := c.plot()
		if err != nil {
			return written, fmt.Errorf("%s: %w", c.file, err)
		}
		if p == nil {
			continue
		}
		file := filepath.Join(dir, c.file)
		if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
			return written, fmt.Errorf("save %s: %w", c.file, err)
		}
		written = append(written, file)
	}
	return written, nil
}

func newTimePlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Visitors"
	p.X.Tick.Marker = plot.TimeTicks{Format: timeseries.DateFormat}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	return p
}

func xys(s *timeseries.Series) plotter.XYs {
	if s == nil {
		return nil
	}
	pts := make(plotter.XYs, 0, s.Len())
	for i, ts := range s.Timestamps {
		pts = append(pts, plotter.XY{X: unix(ts), Y: s.Values[i]})
	}
	return pts
}

func unix(t time.Time) float64 {
	return float64(t.Unix())
}

func addLine(p *plot.Plot, label string, pts plotter.XYs, c color.Color, dashed bool) error {
	if len(pts) == 0 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(1)
	if dashed {
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func overTimePlot(result *pipeline.Result) (*plot.Plot, error) {
	if result.Actual == nil || result.Actual.Len() == 0 {
		return nil, nil
	}
	p := newTimePlot("Daily Footfall")
	if err := addLine(p, "actual", xys(result.Actual), actualColor, false); err != nil {
		return nil, err
	}
	return p, nil
}

func fittedPlot(result *pipeline.Result) (*plot.Plot, error) {
	if result.Actual == nil || result.Actual.Len() == 0 {
		return nil, nil
	}
	p := newTimePlot("Actual vs Predicted")
	if err := addLine(p, "actual", xys(result.Actual), actualColor, false); err != nil {
		return nil, err
	}
	if err := addLine(p, "fitted", xys(result.Fitted), fittedColor, false); err != nil {
		return nil, err
	}
	return p, nil
}

func forecastPlot(result *pipeline.Result) (*plot.Plot, error) {
	if result.Forecast == nil || result.Forecast.Len() == 0 {
		return nil, nil
	}
	p := newTimePlot(fmt.Sprintf("Forecast (%d days)", result.Forecast.Len()))
	if result.Actual != nil {
		if err := addLine(p, "actual", xys(result.Actual.Tail(ForecastWindow)), actualColor, false); err != nil {
			return nil, err
		}
	}
	if err := addLine(p, "forecast", xys(result.Forecast), forecastColor, false); err != nil {
		return nil, err
	}
	label := fmt.Sprintf("%.0f%% interval", result.Confidence*100)
	if err := addLine(p, label, xys(result.Lower), boundColor, true); err != nil {
		return nil, err
	}
	if result.Upper != nil && result.Upper.Len() > 0 {
		upper, err := plotter.NewLine(xys(result.Upper))
		if err != nil {
			return nil, err
		}
		upper.Color = boundColor
		upper.Width = vg.Points(1)
		upper.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(upper)
	}
	return p, nil
}

func barPlot(title, axis string, buckets []aggregate.Bucket) (*plot.Plot, error) {
	if len(buckets) == 0 {
		return nil, nil
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = axis
	p.Y.Label.Text = "Visitors"

	bars, err := plotter.NewBarChart(plotter.Values(aggregate.Values(buckets)), vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	p.NominalX(labels...)
	return p, nil
}
