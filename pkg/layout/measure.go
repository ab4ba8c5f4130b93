package layout

import "unicode/utf8"

// Metrics describes the extent of a word set horizontally at some size.
type Metrics struct {
	Width   float64 // advance width
	Ascent  float64 // height above the baseline
	Descent float64 // depth below the baseline
}

// Height returns the line height, ascent plus descent.
func (m Metrics) Height() float64 { return m.Ascent + m.Descent }

// Measurer computes word metrics. Widths must be non-decreasing in size.
// Implementations used with [BuildAll] must be safe for concurrent use.
type Measurer interface {
	Measure(word string, size float64) Metrics
}

// ApproxMeasurer estimates metrics from rune count alone. It needs no font
// and is the default when Options.Measurer is nil.
type ApproxMeasurer struct{}

// Measure implements Measurer.
func (ApproxMeasurer) Measure(word string, size float64) Metrics {
	return Metrics{
		Width:   0.55 * size * float64(utf8.RuneCountInString(word)),
		Ascent:  0.8 * size,
		Descent: 0.2 * size,
	}
}
