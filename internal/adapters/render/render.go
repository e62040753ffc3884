// Package render draws a selection view as a line chart.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/railpulse/internal/domain/selection"
)

// Default chart size in pixels.
const (
	DefaultWidth  = 1200
	DefaultHeight = 800
)

// Format is the output image format.
type Format string

// Supported formats.
const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ErrNoSeries is returned when the view has no value to plot.
var ErrNoSeries = errors.New("no series to plot")

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the chart size. Non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// Renderer turns views into chart images.
type Renderer struct {
	width  int
	height int
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the chart of v to w. Years with a null value are skipped,
// so a line bridges the gap.
func (r *Renderer) Render(v selection.View, f Format, w io.Writer) error {
	ch, err := r.Chart(v)
	if err != nil {
		return err
	}
	provider := chart.SVG
	if f == PNG {
		provider = chart.PNG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %s chart: %w", f, err)
	}
	return nil
}

// Chart builds the go-chart definition of v.
func (r *Renderer) Chart(v selection.View) (chart.Chart, error) {
	series := make([]chart.Series, 0, len(v.Series))
	minYear, maxYear := 0, 0
	for i, s := range v.Series {
		xs := make([]float64, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			if p.Value == nil {
				continue
			}
			xs = append(xs, float64(p.Year))
			ys = append(ys, *p.Value)
			if minYear == 0 || p.Year < minYear {
				minYear = p.Year
			}
			if p.Year > maxYear {
				maxYear = p.Year
			}
		}
		if len(xs) == 0 {
			continue
		}
		color := chart.GetDefaultColor(i)
		st := chart.Style{StrokeColor: color, StrokeWidth: 2, DotColor: color, DotWidth: 3}
		if len(xs) == 1 {
			// go-chart needs two values per series
			xs = append(xs, xs[0])
			ys = append(ys, ys[0])
			st.DotWidth = 5
		}
		series = append(series, chart.ContinuousSeries{Name: s.Operator, XValues: xs, YValues: ys, Style: st})
	}
	if len(series) == 0 {
		return chart.Chart{}, ErrNoSeries
	}

	// the x range follows the ticks, which must span at least two values
	years := v.Years
	if minYear == maxYear && len(years) < 2 {
		years = []int{minYear - 1, minYear, minYear + 1}
	}
	xticks := make([]chart.Tick, 0, len(years))
	for _, y := range years {
		xticks = append(xticks, chart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	yticks := []chart.Tick{
		{Value: 0, Label: "0"}, {Value: 25, Label: "25"}, {Value: 50, Label: "50"},
		{Value: 75, Label: "75"}, {Value: 100, Label: "100"},
	}

	ch := chart.Chart{
		Title:      v.MetricLabel,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 260, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "Year", Ticks: xticks},
		YAxis:      chart.YAxis{Name: "%", Range: &chart.ContinuousRange{Min: 0, Max: 100}, Ticks: yticks},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch, chart.Style{FontColor: drawing.ColorBlack})}
	return ch, nil
}
