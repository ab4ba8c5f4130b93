package sink

import (
	"context"
	"slices"

	"github.com/matzehuels/wordmosaic/pkg/errors"
	"github.com/matzehuels/wordmosaic/pkg/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatJPEG, FormatPDF, FormatJSON}

// DefaultBackground is the canvas color used when none is given.
const DefaultBackground = "#ffffff"

// Transparent disables the background fill.
const Transparent = "none"

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, jpeg, pdf, json)", format)
	}
	return nil
}

// Options holds the settings shared by all formats.
type Options struct {
	Background string  // CSS hex color or "none"
	Scale      float64 // raster pixel density
}

// Render produces format from res.
func Render(ctx context.Context, format string, res layout.Result, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(res, WithBackground(opts.Background)), nil
	case FormatPNG:
		return RenderPNG(res, WithPNGBackground(opts.Background), WithScale(opts.Scale))
	case FormatJPEG:
		return RenderJPEG(res, WithPNGBackground(opts.Background), WithScale(opts.Scale))
	case FormatPDF:
		return RenderPDF(ctx, res, WithPDFSVGOptions(WithBackground(opts.Background)))
	case FormatJSON:
		return RenderJSON(res)
	default:
		return nil, ValidateFormat(format)
	}
}
