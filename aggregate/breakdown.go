package aggregate

import (
	"slices"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/footfall/records"
)

// Bucket is one labelled value of a breakdown.
type Bucket struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Breakdowns collects the descriptive views of a record set.
type Breakdowns struct {
	Weekday []Bucket `json:"weekday"`
	Hour    []Bucket `json:"hour"`
	Month   []Bucket `json:"month"`
}

// Breakdown computes all breakdowns of recs.
func Breakdown(recs []records.SanitizedRecord) *Breakdowns {
	return &Breakdowns{
		Weekday: ByWeekday(recs),
		Hour:    ByHour(recs),
		Month:   ByMonth(recs),
	}
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// ByWeekday returns the total count per weekday, Monday first. Weekdays without
// records are zero.
func ByWeekday(recs []records.SanitizedRecord) []Bucket {
	groups := make(map[time.Weekday][]float64)
	for _, r := range recs {
		wd := r.Date.Weekday()
		groups[wd] = append(groups[wd], r.Count)
	}

	out := make([]Bucket, len(weekdays))
	for i, wd := range weekdays {
		out[i] = Bucket{Label: wd.String(), Value: orderedSum(groups[wd])}
	}
	return out
}

// ByHour returns the mean count per hour of day over records with a known hour.
// Only observed hours appear, in ascending order.
func ByHour(recs []records.SanitizedRecord) []Bucket {
	groups := make(map[int][]float64)
	for _, r := range recs {
		if r.HasHour {
			groups[r.Hour] = append(groups[r.Hour], r.Count)
		}
	}

	hours := make([]int, 0, len(groups))
	for h := range groups {
		hours = append(hours, h)
	}
	slices.Sort(hours)

	out := make([]Bucket, len(hours))
	for i, h := range hours {
		counts := groups[h]
		out[i] = Bucket{Label: strconv.Itoa(h), Value: orderedSum(counts) / float64(len(counts))}
	}
	return out
}

// ByMonth returns the total count per calendar month name, January first,
// pooling years. Months without records are zero.
func ByMonth(recs []records.SanitizedRecord) []Bucket {
	var groups [12][]float64
	for _, r := range recs {
		m := r.Date.Month() - 1
		groups[m] = append(groups[m], r.Count)
	}

	out := make([]Bucket, 12)
	for i := range out {
		out[i] = Bucket{Label: time.Month(i + 1).String(), Value: orderedSum(groups[i])}
	}
	return out
}

// Values returns the bucket values in order.
func Values(buckets []Bucket) []float64 {
	out := make([]float64, len(buckets))
	for i, b := range buckets {
		out[i] = b.Value
	}
	return out
}

// Peak returns the bucket with the largest value, or false when buckets is empty.
func Peak(buckets []Bucket) (Bucket, bool) {
	if len(buckets) == 0 {
		return Bucket{}, false
	}
	return buckets[floats.MaxIdx(Values(buckets))], true
}
