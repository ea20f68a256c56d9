package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names of the pedestrian counting export.
const (
	ColumnID              = "id"
	ColumnLocationID      = "location_id"
	ColumnSensingDate     = "sensing_date"
	ColumnHour            = "hour"
	ColumnDirection1      = "direction_1"
	ColumnDirection2      = "direction_2"
	ColumnPedestrianCount = "pedestrian_count"
	ColumnSensorName      = "sensor_name"
	ColumnLocation        = "location"
)

// DefaultColumns is the column order of the export, used for positional reads.
var DefaultColumns = []string{
	ColumnID,
	ColumnLocationID,
	ColumnSensingDate,
	ColumnHour,
	ColumnDirection1,
	ColumnDirection2,
	ColumnPedestrianCount,
	ColumnSensorName,
	ColumnLocation,
}

// ErrMissingColumn is returned when a header lacks a required column.
var ErrMissingColumn = errors.New("records: missing required column")

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	Delimiter  rune              // Field delimiter (default: ';')
	HasHeader  bool              // Whether CSV has header row (default: true)
	Positional bool              // Map columns by DefaultColumns order instead of header names
	SkipRows   int               // Number of rows to skip at start
	Rename     map[string]string // Source header name (any case) to export column name
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Delimiter: ';',
		HasHeader: true,
	}
}

// LoadCSV reads raw records from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) ([]RawRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file, opts)
}

// ReadCSV reads raw records from r. Cell values are kept as text; malformed
// values are left for Sanitize to drop. Structural CSV errors and a header
// without sensing_date or pedestrian_count are returned as errors.
func ReadCSV(r io.Reader, opts *CSVOptions) ([]RawRecord, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("skipping row %d: %w", i+1, err)
		}
	}

	columns := DefaultColumns
	if opts.HasHeader {
		header, err := reader.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		if !opts.Positional {
			columns = normalizeHeader(header, opts.Rename)
		}
	}

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	for _, required := range []string{ColumnSensingDate, ColumnPedestrianCount} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var out []RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		out = append(out, RawRecord{
			ID:              cell(ColumnID),
			LocationID:      cell(ColumnLocationID),
			SensingDate:     cell(ColumnSensingDate),
			Hour:            cell(ColumnHour),
			Direction1:      cell(ColumnDirection1),
			Direction2:      cell(ColumnDirection2),
			PedestrianCount: cell(ColumnPedestrianCount),
			SensorName:      cell(ColumnSensorName),
			Location:        cell(ColumnLocation),
		})
	}

	return out, nil
}

func normalizeHeader(header []string, rename map[string]string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		h = strings.ToLower(clean(h))
		for from, to := range rename {
			if strings.EqualFold(from, h) {
				h = to
				break
			}
		}
		columns[i] = h
	}
	return columns
}
