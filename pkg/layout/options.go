package layout

import (
	"github.com/matzehuels/wordmosaic/pkg/errors"
	"github.com/matzehuels/wordmosaic/pkg/palette"
)

// Default values for Options.
const (
	DefaultCellSize         = 4.0
	DefaultMargin           = 2.0
	DefaultPreferHorizontal = 0.9
	DefaultShrinkStep       = 1.0
	DefaultSeed             = 42
	DefaultStepFactor       = 256
)

// Options configures Build. Start from [DefaultOptions]: PreferHorizontal,
// Shrink and Seed are used as given, other zero values are replaced by
// defaults.
type Options struct {
	CellSize         float64  // occupancy grid resolution in pixels
	Margin           float64  // minimum gap between words in pixels
	PreferHorizontal float64  // probability a word is tried horizontally first
	Shrink           bool     // shrink words that do not fit
	ShrinkStep       float64  // font size decrement per retry
	MinFontSize      float64  // shrink floor; zero means the smallest input size
	Seed             uint64   // orientation generator seed
	Palette          string   // palette name
	Measurer         Measurer // word metrics; nil means ApproxMeasurer
	StepFactor       int      // spiral steps per unit of canvas/word area ratio
}

// DefaultOptions returns the default layout options.
func DefaultOptions() Options {
	return Options{
		CellSize:         DefaultCellSize,
		Margin:           DefaultMargin,
		PreferHorizontal: DefaultPreferHorizontal,
		Shrink:           true,
		ShrinkStep:       DefaultShrinkStep,
		Seed:             DefaultSeed,
		Palette:          palette.Default,
		StepFactor:       DefaultStepFactor,
	}
}

// WithDefaults returns a copy of Options with zero values replaced by
// defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	if opts.ShrinkStep <= 0 {
		opts.ShrinkStep = DefaultShrinkStep
	}
	if opts.Palette == "" {
		opts.Palette = palette.Default
	}
	if opts.Measurer == nil {
		opts.Measurer = ApproxMeasurer{}
	}
	if opts.StepFactor <= 0 {
		opts.StepFactor = DefaultStepFactor
	}
	return opts
}

// Validate returns a configuration error for invalid options.
func (o Options) Validate() error {
	if o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "margin must not be negative, got %g", o.Margin)
	}
	if o.MinFontSize < 0 {
		return errors.New(errors.ErrCodeInvalidFontRange, "minimum font size must not be negative, got %g", o.MinFontSize)
	}
	return errors.ValidateFraction("prefer horizontal", o.PreferHorizontal)
}

// Seeds returns n copies of o with seeds o.Seed, o.Seed+1, ..., for use
// with BuildAll.
func (o Options) Seeds(n int) []Options {
	out := make([]Options, max(n, 1))
	for i := range out {
		out[i] = o
		out[i].Seed = o.Seed + uint64(i)
	}
	return out
}
