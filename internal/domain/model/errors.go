package model

import "errors"

// Sentinel error kinds shared by the pipeline stages.
var (
	// ErrInvalidSelection is returned for a metric outside MetricKind.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrNoData is returned when no operator has a value for a metric.
	ErrNoData = errors.New("no data")
)
