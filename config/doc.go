// Package config loads the footfall report configuration with viper.
//
// Every key can be set in footfall.yaml or through a FOOTFALL_ environment
// variable, with dots and dashes replaced by underscores:
//
//	order:
//	  p: 7
//	  d: 1
//	  q: 1
//	horizon: 30              # FOOTFALL_HORIZON
//	min-observations: 14     # FOOTFALL_MIN_OBSERVATIONS
//	fit-timeout: 30s
//	input: counts.csv
package config
