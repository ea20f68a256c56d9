package records

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/footfall/timeseries"
)

var (
	// ErrInvalidDate rejects a record whose sensing date is missing or unparseable.
	ErrInvalidDate = errors.New("records: invalid sensing_date")
	// ErrInvalidCount rejects a record whose pedestrian count is missing,
	// unparseable, non-finite or negative.
	ErrInvalidCount = errors.New("records: invalid pedestrian_count")
)

// dateLayouts are tried in order when parsing sensing_date.
var dateLayouts = []string{
	timeseries.DateFormat,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-Jan-2006",
}

// RawRecord is one hourly sensor reading as delivered by the source, every field
// still text. Only SensingDate, Hour and PedestrianCount are interpreted.
type RawRecord struct {
	ID              string `json:"id"`
	LocationID      string `json:"location_id"`
	SensingDate     string `json:"sensing_date"`
	Hour            string `json:"hour"`
	Direction1      string `json:"direction_1"`
	Direction2      string `json:"direction_2"`
	PedestrianCount string `json:"pedestrian_count"`
	SensorName      string `json:"sensor_name"`
	Location        string `json:"location"`
}

// SanitizedRecord is a RawRecord narrowed to the typed fields the forecast needs.
// Date is midnight UTC of the sensing calendar date. Hour is meaningful only when
// HasHour is set.
type SanitizedRecord struct {
	Date    time.Time `json:"date"`
	Hour    int       `json:"hour"`
	HasHour bool      `json:"has_hour"`
	Count   float64   `json:"count"`
}

// Raw renders the record back into source form. Parsing the result yields the
// same record.
func (s SanitizedRecord) Raw() RawRecord {
	r := RawRecord{
		SensingDate:     s.Date.Format(timeseries.DateFormat),
		PedestrianCount: strconv.FormatFloat(s.Count, 'f', -1, 64),
	}
	if s.HasHour {
		r.Hour = strconv.Itoa(s.Hour)
	}
	return r
}

// Parse converts a raw record. A bad date or count rejects the record with an
// error wrapping ErrInvalidDate or ErrInvalidCount; a bad hour only marks the
// hour unknown.
func Parse(r RawRecord) (SanitizedRecord, error) {
	date, err := ParseDate(r.SensingDate)
	if err != nil {
		return SanitizedRecord{}, err
	}

	count, err := parseCount(r.PedestrianCount)
	if err != nil {
		return SanitizedRecord{}, err
	}

	s := SanitizedRecord{Date: date, Count: count}
	s.Hour, s.HasHour = parseHour(r.Hour)
	return s, nil
}

// ParseDate parses a sensing date in any supported layout and truncates it to
// its calendar date.
func ParseDate(value string) (time.Time, error) {
	value = clean(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return timeseries.CalendarDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

func parseCount(value string) (float64, error) {
	value = clean(value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidCount)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCount, value)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative %q", ErrInvalidCount, value)
	}
	return v, nil
}

// parseHour accepts integral values in [0, 23], written as integers or floats.
func parseHour(value string) (int, bool) {
	v, err := strconv.ParseFloat(clean(value), 64)
	if err != nil || v != math.Trunc(v) || v < 0 || v > 23 {
		return 0, false
	}
	return int(v), true
}

func clean(value string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(value), "\""))
}
