// Package fonts provides the embedded font used for measuring and rendering
// words.
//
// The font is Go Regular from golang.org/x/image, compiled into the binary
// so layout metrics and rendered glyphs always agree, without depending on
// fonts installed on the host.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// TTF returns the TrueType font data.
func TTF() []byte {
	return goregular.TTF
}

// Cache for the base64-encoded font (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// TTFBase64 returns the font data as a base64 string for SVG @font-face
// embedding. The result is cached after first computation.
func TTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// FontFamily is the CSS font-family name for the embedded font.
const FontFamily = "Go"

// FallbackFontFamily provides fallback fonts for viewers that ignore the
// embedded font.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

var (
	parsed     *opentype.Font
	parsedErr  error
	parsedOnce sync.Once
)

// Font returns the parsed embedded font.
func Font() (*opentype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parsedErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parsedErr
}

// NewFace returns a new face of the embedded font at size pixels. Faces are
// not safe for concurrent use; each caller gets its own.
func NewFace(size float64) (font.Face, error) {
	f, err := Font()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
