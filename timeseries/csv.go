package timeseries

import (
	"encoding/csv"
	"io"
	"strconv"
)

// DateFormat is the layout used when dates are written out.
const DateFormat = "2006-01-02"

// WriteCSV writes one or more series in long format with the header "series,ds,y".
// Series without a name are written as "y".
func WriteCSV(w io.Writer, series ...*Series) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"series", "ds", "y"}); err != nil {
		return err
	}

	for _, s := range series {
		if s == nil {
			continue
		}
		name := s.Name
		if name == "" {
			name = "y"
		}
		for _, p := range s.Points() {
			row := []string{
				name,
				p.Date.Format(DateFormat),
				strconv.FormatFloat(p.Value, 'f', -1, 64),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
