// Package scale maps ranked word counts to font sizes.
//
// The mapping is computed against the largest count among the words kept for
// layout. All scaling functions are monotonic non-decreasing in count and
// round to whole pixels, so equal inputs always produce equal sizes.
package scale

import (
	"math"

	"github.com/matzehuels/wordmosaic/pkg/errors"
	"github.com/matzehuels/wordmosaic/pkg/freq"
)

// Scaling selects the curve from relative frequency to font size.
type Scaling string

const (
	Linear Scaling = "linear"
	Sqrt   Scaling = "sqrt"
	Log    Scaling = "log"
)

// Scalings lists the supported scaling functions.
var Scalings = []Scaling{Linear, Sqrt, Log}

// Valid reports whether s names a supported scaling function.
func (s Scaling) Valid() bool {
	switch s {
	case Linear, Sqrt, Log:
		return true
	}
	return false
}

// Default values.
const (
	DefaultMaxWords        = 200
	DefaultMinSize float64 = 10
	DefaultMaxSize float64 = 120
)

// Range is a font size interval in pixels.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultRange returns the default font size range.
func DefaultRange() Range {
	return Range{Min: DefaultMinSize, Max: DefaultMaxSize}
}

// Validate checks that the range is positive and ordered.
func (r Range) Validate() error {
	return errors.ValidateFontRange(r.Min, r.Max)
}

// Options configures Map. Zero fields take their defaults except MaxWords,
// where zero is meaningful; use [DefaultOptions] as a starting point.
type Options struct {
	MaxWords int
	Range    Range
	Scaling  Scaling
}

// DefaultOptions returns options with all defaults applied.
func DefaultOptions() Options {
	return Options{
		MaxWords: DefaultMaxWords,
		Range:    DefaultRange(),
		Scaling:  Linear,
	}
}

// Validate returns a configuration error for invalid options.
func (o Options) Validate() error {
	if err := errors.ValidateMaxWords(o.MaxWords); err != nil {
		return err
	}
	if err := o.Range.Validate(); err != nil {
		return err
	}
	if !o.Scaling.Valid() {
		return errors.New(errors.ErrCodeInvalidScaling, "unknown scaling %q (want linear, sqrt or log)", o.Scaling)
	}
	return nil
}

// Sized is a ranked word with its font size.
type Sized struct {
	freq.WordStat
	Size float64 `json:"size"`
}

// Map caps table at opts.MaxWords and assigns a font size to each kept word.
// Words past the cap are returned in dropped, in rank order. They are
// excluded rather than sized to zero.
func Map(table freq.Table, opts Options) (kept []Sized, dropped freq.Table, err error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	head := table.Top(opts.MaxWords)
	if len(head) < len(table) {
		dropped = table[len(head):]
	}

	maxCount := 0
	for _, w := range head {
		maxCount = max(maxCount, w.Count)
	}

	kept = make([]Sized, len(head))
	for i, w := range head {
		kept[i] = Sized{WordStat: w, Size: opts.Size(w.Count, maxCount)}
	}
	return kept, dropped, nil
}

// Size returns the font size for count relative to maxCount.
func (o Options) Size(count, maxCount int) float64 {
	lo, hi := o.Range.Min, o.Range.Max
	if maxCount <= 0 || count <= 0 {
		return lo
	}
	count = min(count, maxCount)

	var f float64
	switch o.Scaling {
	case Sqrt:
		f = math.Sqrt(float64(count) / float64(maxCount))
	case Log:
		f = math.Log1p(float64(count)) / math.Log1p(float64(maxCount))
	default:
		f = float64(count) / float64(maxCount)
	}
	return math.Round(lo + (hi-lo)*f)
}
