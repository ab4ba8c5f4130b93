package sink

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/wordmosaic/pkg/fonts"
	"github.com/matzehuels/wordmosaic/pkg/layout"
)

// JPEGQuality is the encoder quality of JPEG output.
const JPEGQuality = 90

// PNGOption configures raster rendering. JPEG output takes the same options.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	background string
	scale      float64
}

// WithPNGBackground sets the canvas color. An empty string keeps the
// default, "none" leaves the canvas transparent.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) {
		if color != "" {
			r.background = color
		}
	}
}

// WithScale sets the raster scale factor (default 1.0; 2.0 doubles the pixel
// dimensions). Non-positive values are ignored.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// RenderPNG rasterizes res with the embedded font.
func RenderPNG(res layout.Result, opts ...PNGOption) ([]byte, error) {
	dc, err := rasterize(res, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderJPEG rasterizes res like RenderPNG and encodes it as JPEG. JPEG has
// no alpha channel, so a transparent background is drawn white.
func RenderJPEG(res layout.Result, opts ...PNGOption) ([]byte, error) {
	opts = append(opts, func(r *pngRenderer) {
		if r.background == Transparent {
			r.background = DefaultBackground
		}
	})
	dc, err := rasterize(res, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func rasterize(res layout.Result, opts []PNGOption) (*gg.Context, error) {
	r := pngRenderer{background: DefaultBackground, scale: 1}
	for _, opt := range opts {
		opt(&r)
	}

	s := r.scale
	dc := gg.NewContext(int(float64(res.Canvas.Width)*s+0.5), int(float64(res.Canvas.Height)*s+0.5))
	if r.background != Transparent {
		dc.SetHexColor(r.background)
		dc.Clear()
	}

	faces := make(map[float64]font.Face)
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()

	for _, p := range res.Placements {
		size := p.FontSize * s
		face, ok := faces[size]
		if !ok {
			var err error
			if face, err = fonts.NewFace(size); err != nil {
				return nil, fmt.Errorf("load font at %g px: %w", size, err)
			}
			faces[size] = face
		}

		x, y, rotate := p.Baseline()
		x, y = x*s, y*s
		dc.Push()
		if rotate != 0 {
			dc.RotateAbout(gg.Radians(rotate), x, y)
		}
		dc.SetFontFace(face)
		dc.SetHexColor(p.Color)
		dc.DrawString(p.Word, x, y)
		dc.Pop()
	}
	return dc, nil
}
