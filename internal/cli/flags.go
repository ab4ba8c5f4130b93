package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordmosaic/internal/config"
	"github.com/matzehuels/wordmosaic/pkg/errors"
	"github.com/matzehuels/wordmosaic/pkg/palette"
	"github.com/matzehuels/wordmosaic/pkg/pipeline"
)

// stopwordFlags select the stopword list for commands that analyze text.
type stopwordFlags struct {
	extra     []string
	noDefault bool
}

func (f *stopwordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.extra, "stopwords", "s", nil, "extra stopwords (comma-separated, adds to the config file's list)")
	cmd.Flags().BoolVar(&f.noDefault, "no-default-stopwords", false, "do not filter the built-in English stopwords")
}

func (f *stopwordFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	opts.Stopwords = append(opts.Stopwords, f.extra...)
	if cmd.Flags().Changed("no-default-stopwords") {
		opts.NoDefaultStopwords = f.noDefault
	}
}

// cloudFlags override the [cloud] section of the config file. Only flags
// given on the command line take effect; the registered defaults are for
// the help text.
type cloudFlags struct {
	stopwordFlags

	width, height    int
	palette          string
	maxWords         int
	minFont, maxFont float64
	scaling          string
	preferHorizontal float64
	margin           float64
	seed             uint64
	tries            int
	formats          string
	background       string
	scale            float64
	refresh          bool
}

func (f *cloudFlags) register(cmd *cobra.Command) {
	d := config.Default().Cloud
	f.stopwordFlags.register(cmd)

	fs := cmd.Flags()
	fs.IntVar(&f.width, "width", d.Width, "canvas width in pixels")
	fs.IntVar(&f.height, "height", d.Height, "canvas height in pixels")
	fs.StringVarP(&f.palette, "palette", "p", d.Palette, "color palette: "+strings.Join(palette.Names(), ", "))
	fs.IntVarP(&f.maxWords, "max-words", "n", d.MaxWords, "maximum number of words in the cloud")
	fs.Float64Var(&f.minFont, "min-font", d.MinFontSize, "smallest font size in pixels")
	fs.Float64Var(&f.maxFont, "max-font", d.MaxFontSize, "largest font size in pixels")
	fs.StringVar(&f.scaling, "scaling", d.Scaling, "count to size mapping: linear, sqrt, log")
	fs.Float64Var(&f.preferHorizontal, "prefer-horizontal", d.PreferHorizontal, "probability of trying a word horizontally first (0..1)")
	fs.Float64Var(&f.margin, "margin", d.Margin, "minimum gap between words in pixels")
	fs.Uint64Var(&f.seed, "seed", d.Seed, "random seed for orientation choices")
	fs.IntVar(&f.tries, "tries", d.Tries, fmt.Sprintf("lay out with this many seeds and keep the best (1..%d)", pipeline.MaxTries))
	fs.StringVarP(&f.formats, "format", "f", strings.Join(d.Formats, ","), "output format(s): svg, png, jpeg, pdf, json (comma-separated)")
	fs.StringVar(&f.background, "background", d.Background, `background color as #rrggbb, or "none"`)
	fs.Float64Var(&f.scale, "scale", d.Scale, "PNG and JPEG pixel scale")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute instead of using cached results")
	registerCloudCompletions(cmd)
}

// apply copies the changed flags into opts. An explicit zero canvas side is
// rejected here, since the pipeline reads zero as "use the default".
func (f *cloudFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	f.stopwordFlags.apply(cmd, opts)

	changed := cmd.Flags().Changed
	if changed("width") || changed("height") {
		w, h := pipeline.DefaultWidth, pipeline.DefaultHeight
		if changed("width") {
			w = f.width
		}
		if changed("height") {
			h = f.height
		}
		if err := errors.ValidateCanvas(w, h); err != nil {
			return err
		}
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("palette") {
		opts.Palette = f.palette
	}
	if changed("max-words") {
		opts.MaxWords = f.maxWords
	}
	if changed("min-font") {
		opts.MinFontSize = f.minFont
	}
	if changed("max-font") {
		opts.MaxFontSize = f.maxFont
	}
	if changed("scaling") {
		opts.Scaling = strings.ToLower(f.scaling)
	}
	if changed("prefer-horizontal") {
		opts.PreferHorizontal = pipeline.Float(f.preferHorizontal)
	}
	if changed("margin") {
		opts.Margin = pipeline.Float(f.margin)
	}
	if changed("seed") {
		opts.Seed = f.seed
	}
	if changed("tries") {
		opts.Tries = f.tries
	}
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("background") {
		opts.Background = f.background
	}
	if changed("scale") {
		opts.Scale = f.scale
	}
	opts.Refresh = f.refresh
	return nil
}
