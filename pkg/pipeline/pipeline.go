// Package pipeline runs the word cloud pipeline for the CLI and the API.
//
// This package implements the complete analyze → layout → render chain so
// every entry point applies the same defaults, validation, and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Analyze: Tokenize the text, drop stopwords, and rank word frequencies
//  2. Layout: Cap and size the ranked words, then place them on the canvas
//  3. Render: Generate output in various formats (SVG, PNG, JPEG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//	opts := pipeline.Options{Width: 800, Height: 600, Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, text, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"slices"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/wordmosaic/pkg/cache"
	"github.com/matzehuels/wordmosaic/pkg/errors"
	"github.com/matzehuels/wordmosaic/pkg/freq"
	"github.com/matzehuels/wordmosaic/pkg/layout"
	"github.com/matzehuels/wordmosaic/pkg/palette"
	"github.com/matzehuels/wordmosaic/pkg/render/sink"
	"github.com/matzehuels/wordmosaic/pkg/scale"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 1200

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 800

	// DefaultTries is the number of layouts built per run.
	DefaultTries = 1

	// MaxTries bounds the number of parallel layout attempts.
	MaxTries = 32

	// DefaultScale is the raster pixel density.
	DefaultScale = 1.0
)

// Format constants for output formats.
const (
	FormatSVG  = sink.FormatSVG
	FormatPNG  = sink.FormatPNG
	FormatJPEG = sink.FormatJPEG
	FormatPDF  = sink.FormatPDF
	FormatJSON = sink.FormatJSON
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests. Zero values
// select defaults; PreferHorizontal and Margin are pointers because zero is
// a meaningful setting for both.
type Options struct {
	// Analysis options
	Stopwords          []string `json:"stopwords,omitempty"`
	NoDefaultStopwords bool     `json:"no_default_stopwords,omitempty"`

	// Layout options
	Width            int      `json:"width,omitempty"`
	Height           int      `json:"height,omitempty"`
	Palette          string   `json:"palette,omitempty"`
	MaxWords         int      `json:"max_words,omitempty"`
	MinFontSize      float64  `json:"min_font_size,omitempty"`
	MaxFontSize      float64  `json:"max_font_size,omitempty"`
	Scaling          string   `json:"scaling,omitempty"`
	PreferHorizontal *float64 `json:"prefer_horizontal,omitempty"`
	Margin           *float64 `json:"margin,omitempty"`
	Seed             uint64   `json:"seed,omitempty"`
	Tries            int      `json:"tries,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Background string   `json:"background,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Source names the input for stored records (e.g. a file name).
	Source string `json:"source,omitempty"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`
}

// Float returns a pointer to v, for the optional fields of Options.
func Float(v float64) *float64 { return &v }

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the stored frequency table, empty without a store.
	ID string

	// Analysis is the ranked frequency table and stopword candidates.
	Analysis Analysis

	// Layout is the placed word cloud.
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Tokens      int
	Distinct    int
	Placed      int
	Unplaced    int
	AnalyzeTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalyzeHit bool
	LayoutHit  bool
	RenderHit  bool // all requested artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults replaces zero values with defaults.
func (o *Options) SetDefaults() {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Palette == "" {
		o.Palette = palette.Default
	}
	if o.MaxWords == 0 {
		o.MaxWords = scale.DefaultMaxWords
	}
	if o.MinFontSize == 0 {
		o.MinFontSize = scale.DefaultMinSize
	}
	if o.MaxFontSize == 0 {
		o.MaxFontSize = scale.DefaultMaxSize
	}
	if o.Scaling == "" {
		o.Scaling = string(scale.Linear)
	}
	if o.PreferHorizontal == nil {
		o.PreferHorizontal = Float(layout.DefaultPreferHorizontal)
	}
	if o.Margin == nil {
		o.Margin = Float(layout.DefaultMargin)
	}
	if o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}
	if o.Tries == 0 {
		o.Tries = DefaultTries
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Background == "" {
		o.Background = sink.DefaultBackground
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
}

// Validate returns the first configuration error in o. Call SetDefaults
// first; zero values that have defaults are reported as invalid otherwise.
func (o Options) Validate() error {
	if err := o.ValidateLayout(); err != nil {
		return err
	}
	return o.ValidateRender()
}

// ValidateLayout checks the options used by the layout stage.
func (o Options) ValidateLayout() error {
	if err := errors.ValidateCanvas(o.Width, o.Height); err != nil {
		return err
	}
	if _, err := palette.Get(o.Palette); err != nil {
		return err
	}
	if err := o.ScaleOptions().Validate(); err != nil {
		return err
	}
	lo := o.LayoutOptions()
	if err := lo.Validate(); err != nil {
		return err
	}
	if o.Tries < 1 || o.Tries > MaxTries {
		return errors.New(errors.ErrCodeInvalidOption, "tries must be between 1 and %d, got %d", MaxTries, o.Tries)
	}
	return nil
}

// ValidateRender checks the options used by the render stage.
func (o Options) ValidateRender() error {
	for _, f := range o.Formats {
		if err := sink.ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Background != "" && o.Background != sink.Transparent {
		if _, err := colorful.Hex(o.Background); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid background color %q", o.Background)
		}
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "scale must not be negative, got %g", o.Scale)
	}
	return nil
}

// Canvas returns the layout canvas.
func (o Options) Canvas() layout.Canvas {
	return layout.Canvas{Width: o.Width, Height: o.Height}
}

// ScaleOptions returns the size mapping options.
func (o Options) ScaleOptions() scale.Options {
	return scale.Options{
		MaxWords: o.MaxWords,
		Range:    scale.Range{Min: o.MinFontSize, Max: o.MaxFontSize},
		Scaling:  scale.Scaling(o.Scaling),
	}
}

// LayoutOptions returns the layout engine options without a Measurer.
func (o Options) LayoutOptions() layout.Options {
	lo := layout.DefaultOptions()
	lo.Palette = o.Palette
	lo.MinFontSize = o.MinFontSize
	lo.Seed = o.Seed
	if o.PreferHorizontal != nil {
		lo.PreferHorizontal = *o.PreferHorizontal
	}
	if o.Margin != nil {
		lo.Margin = *o.Margin
	}
	return lo
}

// SinkOptions returns the render options shared by all formats.
func (o Options) SinkOptions() sink.Options {
	return sink.Options{Background: o.Background, Scale: o.Scale}
}

// AnalysisKeyOpts returns cache key options for the analysis stage.
func (o Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	sw := slices.Clone(o.Stopwords)
	slices.Sort(sw)
	return cache.AnalysisKeyOpts{Stopwords: sw, NoDefault: o.NoDefaultStopwords}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Width:       o.Width,
		Height:      o.Height,
		Palette:     o.Palette,
		MaxWords:    o.MaxWords,
		MinFontSize: o.MinFontSize,
		MaxFontSize: o.MaxFontSize,
		Scaling:     o.Scaling,
		Seed:        o.Seed,
		Tries:       o.Tries,
	}
	if o.PreferHorizontal != nil {
		k.PreferHorizontal = *o.PreferHorizontal
	}
	if o.Margin != nil {
		k.Margin = *o.Margin
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	if format != FormatJSON {
		k.Background = o.Background
	}
	if format == FormatPNG || format == FormatJPEG {
		k.Scale = o.Scale
	}
	return k
}

// tableHash returns the content hash of a frequency table.
func tableHash(t freq.Table) string {
	h, _ := cache.HashJSON(t)
	return h
}
