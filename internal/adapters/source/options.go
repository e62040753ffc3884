package source

// Columns maps each record role to its header in the source file.
type Columns struct {
	Operator string `koanf:"operator"`
	Period   string `koanf:"period"`
	Pct59    string `koanf:"pct59"`
	Pct3m    string `koanf:"pct3m"`
	Pct15m   string `koanf:"pct15m"`
}

// DefaultColumns returns the headers of the ORR punctuality CSV.
func DefaultColumns() Columns {
	return Columns{
		Operator: "National or Operator",
		Period:   "Time period",
		Pct59:    "Trains arriving within 59 seconds (percentage)",
		Pct3m:    "Trains arriving within 3 minutes (percentage)",
		Pct15m:   "Trains arriving within 15 minutes (percentage)",
	}
}

type options struct {
	columns Columns
	sheet   string
}

// Option applies a configuration option to Load.
type Option func(*options)

// WithColumns overrides the header mapping. Empty fields keep the default.
func WithColumns(c Columns) Option {
	return func(o *options) {
		if c.Operator != "" {
			o.columns.Operator = c.Operator
		}
		if c.Period != "" {
			o.columns.Period = c.Period
		}
		if c.Pct59 != "" {
			o.columns.Pct59 = c.Pct59
		}
		if c.Pct3m != "" {
			o.columns.Pct3m = c.Pct3m
		}
		if c.Pct15m != "" {
			o.columns.Pct15m = c.Pct15m
		}
	}
}

// WithSheet selects the XLSX sheet. The first sheet is used by default.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}
