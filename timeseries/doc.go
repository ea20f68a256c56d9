// Package timeseries provides the daily series type shared by the aggregation and
// forecasting packages.
//
// A Series pairs timestamps with values. Daily series produced by the aggregate
// package are contiguous: every timestamp is midnight UTC and exactly one day after
// the previous one.
//
// # Creating a Series
//
//	series := timeseries.NewDaily(start, []float64{100, 102, 105, 103})
//	series.IsDailyContiguous() // true
//
// # Transformations
//
//	diff := series.Diff()          // first difference
//	diff2 := series.Difference(2)  // second-order difference
//	recent := series.Tail(60)      // last 60 days
//
// # Exporting
//
//	err := timeseries.WriteCSV(w, actual, fitted, forecast)
package timeseries
