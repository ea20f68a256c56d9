package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sartorproj/footfall/aggregate"
	"github.com/sartorproj/footfall/pipeline"
	"github.com/sartorproj/footfall/timeseries"
)

// missing marks an absent value on a shared echarts axis.
const missing = "-"

// HTMLReport writes an interactive page with the actual, fitted and forecast
// series followed by the breakdown bar charts.
func HTMLReport(w io.Writer, result *pipeline.Result) error {
	page := components.NewPage()
	page.AddCharts(forecastLine(result))

	if b := result.Breakdowns; b != nil {
		for _, c := range []struct {
			title   string
			buckets []aggregate.Bucket
		}{
			{"Visitors by Weekday", b.Weekday},
			{"Average Visitors by Hour", b.Hour},
			{"Visitors by Month", b.Month},
		} {
			if len(c.buckets) == 0 {
				continue
			}
			page.AddCharts(breakdownBar(c.title, c.buckets))
		}
	}

	return page.Render(w)
}

func forecastLine(result *pipeline.Result) *charts.Line {
	history := seriesLen(result.Actual)
	horizon := seriesLen(result.Forecast)

	var x []string
	if result.Actual != nil {
		x = append(x, dates(result.Actual.Timestamps)...)
	}
	if result.Forecast != nil {
		x = append(x, dates(result.Forecast.Timestamps)...)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Footfall Forecast", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Daily Footfall",
			Subtitle: fmt.Sprintf("%d observed days, %d forecast days, %.0f%% interval", history, horizon, result.Confidence*100),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	line.SetXAxis(x).
		AddSeries("actual", lineData(result.Actual, 0, horizon)).
		AddSeries("fitted", lineData(result.Fitted, 0, horizon)).
		AddSeries("forecast", lineData(result.Forecast, history, 0)).
		AddSeries("lower", lineData(result.Lower, history, 0),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"})).
		AddSeries("upper", lineData(result.Upper, history, 0),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
	return line
}

func breakdownBar(title string, buckets []aggregate.Bucket) *charts.Bar {
	x := make([]string, len(buckets))
	y := make([]opts.BarData, len(buckets))
	for i, b := range buckets {
		x[i] = b.Label
		y[i] = opts.BarData{Value: b.Value}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("visitors", y)
	return bar
}

// lineData pads s with lead missing values before and trail after.
func lineData(s *timeseries.Series, lead, trail int) []opts.LineData {
	n := seriesLen(s)
	data := make([]opts.LineData, 0, lead+n+trail)
	for range lead {
		data = append(data, opts.LineData{Value: missing})
	}
	for i := 0; i < n; i++ {
		data = append(data, opts.LineData{Value: s.Values[i]})
	}
	for range trail {
		data = append(data, opts.LineData{Value: missing})
	}
	return data
}

func seriesLen(s *timeseries.Series) int {
	if s == nil {
		return 0
	}
	return s.Len()
}
