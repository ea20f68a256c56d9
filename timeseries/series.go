// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Day is the fixed step between consecutive entries of a daily series.
const Day = 24 * time.Hour

// Point is a single (date, value) observation.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series represents a time series with timestamps and values.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// CalendarDate truncates t to midnight UTC of the calendar date t falls on in its own
// location. Two timestamps with the same CalendarDate belong to the same day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDaily creates a daily series whose first entry is on the calendar date of start.
func NewDaily(start time.Time, values []float64) *Series {
	start = CalendarDate(start)
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = start.AddDate(0, 0, i)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// First returns the first date of the series, or the zero time when empty.
func (s *Series) First() time.Time {
	if len(s.Timestamps) == 0 {
		return time.Time{}
	}
	return s.Timestamps[0]
}

// Last returns the last date of the series, or the zero time when empty.
func (s *Series) Last() time.Time {
	if len(s.Timestamps) == 0 {
		return time.Time{}
	}
	return s.Timestamps[len(s.Timestamps)-1]
}

// Diff calculates the first difference of the series.
func (s *Series) Diff() *Series {
	if len(s.Values) < 2 {
		return &Series{Values: []float64{}, Name: s.Name + "_diff"}
	}

	result := make([]float64, len(s.Values)-1)
	for i := 1; i < len(s.Values); i++ {
		result[i-1] = s.Values[i] - s.Values[i-1]
	}

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) == len(s.Values) {
		copy(timestamps, s.Timestamps[1:])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + "_diff",
	}
}

// Difference applies first differencing d times. The result has Len()-d entries
// aligned with the last Len()-d timestamps; d <= 0 returns a copy.
func (s *Series) Difference(d int) *Series {
	current := s.Copy()
	for i := 0; i < d; i++ {
		current = current.Diff()
	}
	return current
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Tail returns the last n entries of the series.
func (s *Series) Tail(n int) *Series {
	return s.Slice(len(s.Values)-n, len(s.Values))
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Points returns the series as (date, value) pairs.
func (s *Series) Points() []Point {
	points := make([]Point, len(s.Values))
	for i, v := range s.Values {
		points[i] = Point{Value: v}
		if i < len(s.Timestamps) {
			points[i].Date = s.Timestamps[i]
		}
	}
	return points
}

// IsDailyContiguous reports whether every timestamp is exactly one day after the
// previous one and no value is NaN.
func (s *Series) IsDailyContiguous() bool {
	if len(s.Timestamps) != len(s.Values) {
		return false
	}
	for i, v := range s.Values {
		if math.IsNaN(v) {
			return false
		}
		if i > 0 && s.Timestamps[i].Sub(s.Timestamps[i-1]) != Day {
			return false
		}
	}
	return true
}

// DatesAfter returns n daily dates strictly continuing after the last date of the series.
func (s *Series) DatesAfter(n int) []time.Time {
	if n <= 0 {
		return nil
	}
	last := s.Last()
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = last.AddDate(0, 0, i+1)
	}
	return dates
}
