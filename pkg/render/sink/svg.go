package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/wordmosaic/pkg/fonts"
	"github.com/matzehuels/wordmosaic/pkg/layout"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	embedFont  bool
}

// WithBackground sets the canvas color. An empty string keeps the default,
// "none" leaves the canvas transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) {
		if color != "" {
			r.background = color
		}
	}
}

// WithoutFontEmbed references the font by name instead of embedding it,
// which keeps the file small for viewers that have the font installed.
func WithoutFontEmbed() SVGOption { return func(r *svgRenderer) { r.embedFont = false } }

// RenderSVG renders res as an SVG document with one <text> element per
// placement, in placement order.
func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{background: DefaultBackground, embedFont: true}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := res.Canvas.Width, res.Canvas.Height
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)

	r.renderDefs(&buf)
	if r.background != Transparent {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}
	for _, p := range res.Placements {
		renderWord(&buf, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n    <style>\n")
	if r.embedFont {
		fmt.Fprintf(buf, "      @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			fonts.FontFamily, fonts.TTFBase64())
	}
	fmt.Fprintf(buf, "      .word { font-family: %s; }\n", fonts.FallbackFontFamily)
	buf.WriteString("    </style>\n  </defs>\n")
}

func renderWord(buf *bytes.Buffer, p layout.Placement) {
	x, y, rotate := p.Baseline()
	fmt.Fprintf(buf, `  <text class="word" x="%.2f" y="%.2f" font-size="%g" fill="%s" data-rank="%d" data-count="%d"`,
		x, y, p.FontSize, escapeXML(p.Color), p.Rank, p.Count)
	if rotate != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%g %.2f %.2f)"`, rotate, x, y)
	}
	fmt.Fprintf(buf, ">%s</text>\n", escapeXML(p.Word))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
