package aggregate

import (
	"errors"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/footfall/records"
	"github.com/sartorproj/footfall/timeseries"
)

// ErrEmptySeries is returned when no record survives sanitization.
var ErrEmptySeries = errors.New("aggregate: no valid records to build a daily series")

// Totals sums the counts of each observed calendar date. The result is ordered
// by date and does not depend on the order of records.
func Totals(recs []records.SanitizedRecord) []timeseries.Point {
	groups := make(map[time.Time][]float64)
	for _, r := range recs {
		d := timeseries.CalendarDate(r.Date)
		groups[d] = append(groups[d], r.Count)
	}

	totals := make([]timeseries.Point, 0, len(groups))
	for d, counts := range groups {
		totals = append(totals, timeseries.Point{Date: d, Value: orderedSum(counts)})
	}
	slices.SortFunc(totals, func(a, b timeseries.Point) int {
		return a.Date.Compare(b.Date)
	})
	return totals
}

// Fill expands ascending daily totals into a contiguous daily series from the
// first to the last date. A missing day takes the total of the most recent
// earlier day. It also returns how many days were filled.
func Fill(totals []timeseries.Point) (*timeseries.Series, int, error) {
	if len(totals) == 0 {
		return nil, 0, ErrEmptySeries
	}

	first := totals[0].Date
	last := totals[len(totals)-1].Date

	var (
		dates  []time.Time
		values []float64
		filled int
		next   int
		carry  float64
	)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if next < len(totals) && totals[next].Date.Equal(d) {
			carry = totals[next].Value
			next++
		} else {
			filled++
		}
		dates = append(dates, d)
		values = append(values, carry)
	}

	s, err := timeseries.NewWithTimestamps(dates, values)
	if err != nil {
		return nil, 0, err
	}
	s.Name = "actual"
	return s, filled, nil
}

// Daily groups records by calendar date, sums their counts and forward-fills
// missing days. It fails with ErrEmptySeries when recs is empty.
func Daily(recs []records.SanitizedRecord) (*timeseries.Series, error) {
	s, _, err := Fill(Totals(recs))
	return s, err
}

// orderedSum adds values in ascending order so that the result is independent
// of their arrival order.
func orderedSum(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return floats.Sum(sorted)
}
