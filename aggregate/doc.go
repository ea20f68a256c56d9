// Package aggregate turns sanitized sensor records into a daily footfall series
// and descriptive breakdowns.
//
// Daily sums the counts of each calendar date and fills the span between the
// first and last observed date one day at a time, carrying the last known total
// across missing days. Sums are taken in ascending order of the summed values,
// so any permutation of the same records yields an identical series.
package aggregate
