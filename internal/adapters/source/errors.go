package source

import "errors"

// Sentinel errors returned by the loaders.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingColumn     = errors.New("missing column")
	ErrEmptySheet        = errors.New("empty sheet")
)
