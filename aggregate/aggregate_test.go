package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/footfall/records"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func rec(d int, hour int, count float64) records.SanitizedRecord {
	return records.SanitizedRecord{Date: day(d), Hour: hour, HasHour: hour >= 0, Count: count}
}

func TestDailyForwardFill(t *testing.T) {
	series, err := Daily([]records.SanitizedRecord{
		rec(3, 0, 20),
		rec(1, 0, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(1), day(2), day(3)}, series.Timestamps)
	assert.Equal(t, []float64{10, 10, 20}, series.Values)
	assert.Equal(t, "actual", series.Name)
}

func TestDailySumsPerDate(t *testing.T) {
	late := time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)
	series, err := Daily([]records.SanitizedRecord{
		rec(2, 1, 1.5),
		{Date: late, Count: 2.5},
		rec(2, 3, 4),
		rec(4, 3, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 8, 1}, series.Values)
	assert.Equal(t, day(2), series.First())
}

func TestDailyEmpty(t *testing.T) {
	_, err := Daily(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, filled, err := Fill(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
	assert.Zero(t, filled)
}

func TestFillCountsGaps(t *testing.T) {
	series, filled, err := Fill(Totals([]records.SanitizedRecord{
		rec(1, 0, 3),
		rec(5, 0, 7),
		rec(6, 0, 2),
		rec(9, 0, 1),
	}))
	require.NoError(t, err)
	assert.Equal(t, 5, filled)
	assert.Equal(t, []float64{3, 3, 3, 3, 7, 2, 2, 2, 1}, series.Values)
	assert.True(t, series.IsDailyContiguous())
}

func TestDailyPermutationInvariant(t *testing.T) {
	base := []records.SanitizedRecord{
		rec(1, 0, 0.1),
		rec(1, 1, 0.2),
		rec(1, 2, 0.3),
		rec(2, 0, 1e16),
		rec(2, 1, 1),
		rec(2, 2, -0),
		rec(4, 5, 3.7),
		rec(4, 6, 1e-3),
	}
	want, err := Daily(base)
	require.NoError(t, err)

	// Rotations and the reversal exercise different summation orders.
	for shift := 1; shift < len(base); shift++ {
		perm := append(append([]records.SanitizedRecord{}, base[shift:]...), base[:shift]...)
		got, err := Daily(perm)
		require.NoError(t, err)
		assert.Equal(t, want, got, "rotation %d", shift)
	}

	reversed := make([]records.SanitizedRecord, len(base))
	for i, r := range base {
		reversed[len(base)-1-i] = r
	}
	got, err := Daily(reversed)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDailyNoGapInvariant(t *testing.T) {
	var recs []records.SanitizedRecord
	for _, d := range []int{1, 2, 7, 8, 15, 31} {
		recs = append(recs, rec(d, 12, float64(d)))
	}
	// Month and daylight saving boundaries must not break the one-day step.
	recs = append(recs, records.SanitizedRecord{Date: time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC), Count: 4})

	series, err := Daily(recs)
	require.NoError(t, err)
	assert.True(t, series.IsDailyContiguous())
	assert.Equal(t, day(1), series.First())
	assert.Equal(t, time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC), series.Last())
	assert.Equal(t, 98, series.Len())
}

func TestByWeekday(t *testing.T) {
	// 2024-01-01 is a Monday.
	got := ByWeekday([]records.SanitizedRecord{
		rec(1, 0, 5),
		rec(8, 0, 6),
		rec(7, 0, 2),
		rec(3, -1, 4),
	})

	require.Len(t, got, 7)
	assert.Equal(t, Bucket{Label: "Monday", Value: 11}, got[0])
	assert.Equal(t, Bucket{Label: "Tuesday", Value: 0}, got[1])
	assert.Equal(t, Bucket{Label: "Wednesday", Value: 4}, got[2])
	assert.Equal(t, Bucket{Label: "Sunday", Value: 2}, got[6])
}

func TestByHour(t *testing.T) {
	got := ByHour([]records.SanitizedRecord{
		rec(1, 9, 10),
		rec(2, 9, 20),
		rec(1, 0, 4),
		rec(1, -1, 100),
	})

	assert.Equal(t, []Bucket{
		{Label: "0", Value: 4},
		{Label: "9", Value: 15},
	}, got)
	assert.Empty(t, ByHour(nil))
}

func TestByMonth(t *testing.T) {
	got := ByMonth([]records.SanitizedRecord{
		rec(1, 0, 5),
		{Date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), Count: 3},
		{Date: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), Count: 4},
	})

	require.Len(t, got, 12)
	assert.Equal(t, Bucket{Label: "January", Value: 5}, got[0])
	assert.Equal(t, Bucket{Label: "June", Value: 0}, got[5])
	assert.Equal(t, Bucket{Label: "December", Value: 7}, got[11])
}

func TestBreakdownAndPeak(t *testing.T) {
	b := Breakdown([]records.SanitizedRecord{rec(1, 8, 5), rec(2, 17, 9)})
	assert.Len(t, b.Weekday, 7)
	assert.Len(t, b.Hour, 2)
	assert.Len(t, b.Month, 12)

	peak, ok := Peak(b.Hour)
	require.True(t, ok)
	assert.Equal(t, "17", peak.Label)

	_, ok = Peak(nil)
	assert.False(t, ok)
	assert.Equal(t, []float64{5, 9}, Values(b.Hour))
}
