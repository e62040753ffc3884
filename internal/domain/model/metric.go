package model

import (
	"fmt"
	"strings"
)

// MetricKind selects one punctuality threshold. The zero value is not a
// valid selection.
type MetricKind int

// Supported metrics.
const (
	Within59Sec MetricKind = iota + 1
	Within3Min
	Within15Min
)

// Metrics returns every MetricKind in display order.
func Metrics() []MetricKind {
	return []MetricKind{Within59Sec, Within3Min, Within15Min}
}

// Valid reports whether m is one of the supported metrics.
func (m MetricKind) Valid() bool {
	switch m {
	case Within59Sec, Within3Min, Within15Min:
		return true
	}
	return false
}

// String returns the enum name, e.g. "Within3Min".
func (m MetricKind) String() string {
	switch m {
	case Within59Sec:
		return "Within59Sec"
	case Within3Min:
		return "Within3Min"
	case Within15Min:
		return "Within15Min"
	}
	return fmt.Sprintf("MetricKind(%d)", int(m))
}

// Key returns the short selection value used on the wire: "59", "3" or "15".
func (m MetricKind) Key() string {
	switch m {
	case Within59Sec:
		return "59"
	case Within3Min:
		return "3"
	case Within15Min:
		return "15"
	}
	return ""
}

// Label is the human readable name shown next to the selector.
func (m MetricKind) Label() string {
	switch m {
	case Within59Sec:
		return "Trains arriving within 59 seconds"
	case Within3Min:
		return "Trains arriving within 3 minutes"
	case Within15Min:
		return "Trains arriving within 15 minutes"
	}
	return ""
}

// ParseMetric accepts a wire key ("59", "3", "15") or an enum name
// (case-insensitive). Anything else wraps ErrInvalidSelection.
func ParseMetric(s string) (MetricKind, error) {
	v := strings.TrimSpace(s)
	for _, m := range Metrics() {
		if v == m.Key() || strings.EqualFold(v, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, s)
}

// MarshalText encodes the metric as its wire key.
func (m MetricKind) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSelection, int(m))
	}
	return []byte(m.Key()), nil
}

// UnmarshalText decodes a wire key or enum name.
func (m *MetricKind) UnmarshalText(b []byte) error {
	v, err := ParseMetric(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
