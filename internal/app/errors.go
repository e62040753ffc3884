package service

import "errors"

// ErrNotLoaded is returned by read operations before the first Load.
var ErrNotLoaded = errors.New("data not loaded")
