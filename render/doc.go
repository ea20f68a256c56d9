// Package render presents pipeline results: text tables, CSV and JSON exports,
// PNG charts and an interactive HTML page. It only reads results and never
// alters values, so negative forecasts are shown as computed.
package render
