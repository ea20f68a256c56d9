package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sartorproj/footfall/aggregate"
	"github.com/sartorproj/footfall/pipeline"
	"github.com/sartorproj/footfall/timeseries"
)

// Table prints the in-sample table (date, actual, fitted, residual) followed
// by the forecast table (date, forecast, lower, upper).
func Table(w io.Writer, result *pipeline.Result, precision int) error {
	fmtFloat := func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}

	history := tablewriter.NewWriter(w)
	history.Header([]string{"Date", "Actual", "Fitted", "Residual"})
	history.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, ts := range result.Actual.Timestamps {
		actual := result.Actual.Values[i]
		fitted := result.Fitted.Values[i]
		data = append(data, []string{
			ts.Format(timeseries.DateFormat),
			fmtFloat(actual),
			fmtFloat(fitted),
			fmtFloat(actual - fitted),
		})
	}
	if err := history.Bulk(data); err != nil {
		return err
	}
	if err := history.Render(); err != nil {
		return err
	}

	forecast := tablewriter.NewWriter(w)
	forecast.Header([]string{"Date", "Forecast", fmt.Sprintf("Lower %.0f%%", result.Confidence*100), fmt.Sprintf("Upper %.0f%%", result.Confidence*100)})
	forecast.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data = nil
	for i, ts := range result.Forecast.Timestamps {
		data = append(data, []string{
			ts.Format(timeseries.DateFormat),
			fmtFloat(result.Forecast.Values[i]),
			fmtFloat(result.Lower.Values[i]),
			fmtFloat(result.Upper.Values[i]),
		})
	}
	if err := forecast.Bulk(data); err != nil {
		return err
	}
	return forecast.Render()
}

// BreakdownTable prints labelled buckets as a two-column table.
func BreakdownTable(w io.Writer, title string, buckets []aggregate.Bucket, precision int) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{title, "Visitors"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, b := range buckets {
		data = append(data, []string{b.Label, fmt.Sprintf("%.*f", precision, b.Value)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
