package selection

import "errors"

var (
	// ErrSuperseded is returned when a newer selection replaced this one
	// before its result was published.
	ErrSuperseded = errors.New("selection superseded")
	// ErrNilTables is returned by New without a table source.
	ErrNilTables = errors.New("nil table source")
)
