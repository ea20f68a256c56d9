package records

import "errors"

// Rejection identifies a dropped input record.
type Rejection struct {
	Index int   // position in the input
	Err   error // wraps ErrInvalidDate or ErrInvalidCount
}

// Report counts the outcome of a sanitization pass.
type Report struct {
	Total        int         `json:"total"`
	Kept         int         `json:"kept"`
	Skipped      int         `json:"skipped"`
	InvalidDate  int         `json:"invalid_date"`
	InvalidCount int         `json:"invalid_count"`
	UnknownHour  int         `json:"unknown_hour"`
	Rejections   []Rejection `json:"-"`
}

// Sanitize parses every record and silently drops those with an invalid date
// or count. The output preserves input order.
func Sanitize(records []RawRecord) []SanitizedRecord {
	out, _ := SanitizeWithReport(records)
	return out
}

// SanitizeWithReport is Sanitize with an account of what was dropped.
func SanitizeWithReport(records []RawRecord) ([]SanitizedRecord, Report) {
	report := Report{Total: len(records)}
	out := make([]SanitizedRecord, 0, len(records))

	for i, r := range records {
		s, err := Parse(r)
		if err != nil {
			report.Skipped++
			switch {
			case errors.Is(err, ErrInvalidDate):
				report.InvalidDate++
			case errors.Is(err, ErrInvalidCount):
				report.InvalidCount++
			}
			report.Rejections = append(report.Rejections, Rejection{Index: i, Err: err})
			continue
		}
		if !s.HasHour {
			report.UnknownHour++
		}
		out = append(out, s)
	}

	report.Kept = len(out)
	return out, report
}

// Raw converts sanitized records back into source form.
func Raw(records []SanitizedRecord) []RawRecord {
	out := make([]RawRecord, len(records))
	for i, r := range records {
		out[i] = r.Raw()
	}
	return out
}
