// Package footfall forecasts daily pedestrian footfall from hourly sensor
// readings.
//
// Readings flow through four packages:
//
//   - records: parses and sanitizes raw sensor rows
//   - aggregate: sums readings per calendar day and fills missing days
//   - arima: fits an ARIMA(p,d,q) model and forecasts with intervals
//   - pipeline: runs the stages above as one cancellable call
//
// # Quick Start
//
//	raw, err := records.LoadCSV("footfall.csv", records.DefaultCSVOptions())
//	if err != nil {
//	    return err
//	}
//	result, err := pipeline.Run(ctx, raw, arima.Order{P: 7, D: 1, Q: 1}, 30)
//	if err != nil {
//	    return err
//	}
//	render.Table(os.Stdout, result, 1)
//
// The render package turns a result into tables, CSV, JSON, PNG charts and an
// HTML page; config loads settings from footfall.yaml and FOOTFALL_*
// environment variables. The demo command wires both together.
package footfall
