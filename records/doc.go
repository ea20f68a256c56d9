// Package records parses hourly pedestrian sensor readings.
//
// Raw readings carry every field as text. Parse narrows one to a
// SanitizedRecord or rejects it; Sanitize applies Parse to a batch and silently
// drops rejections, which SanitizeWithReport counts for observability:
//
//	raw, err := records.LoadCSV("counts.csv", nil)
//	if err != nil {
//	    return err
//	}
//	clean, report := records.SanitizeWithReport(raw)
//	log.Printf("kept %d of %d records", report.Kept, report.Total)
//
// A record is kept when its sensing date and pedestrian count are valid and the
// count is non-negative. An unparseable hour does not drop the record; it is
// kept with HasHour unset.
package records
