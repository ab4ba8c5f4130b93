// Package sink provides output format renderers for word cloud layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Result] into a final output format:
//
//   - SVG: one <text> element per word with the font embedded
//   - PNG: raster output drawn with the same embedded font
//   - JPEG: the PNG raster without alpha
//   - PDF: print-ready output (requires rsvg-convert)
//   - JSON: placement records for external tools and caching
//
// [WriteCSV] exports the ranked frequency table that produced the layout.
//
// # Background
//
// The canvas background is a rendering concern only. Every image sink takes
// a background option; the default is white and "none" leaves the canvas
// transparent.
//
//	svg := sink.RenderSVG(res, sink.WithBackground("#000000"))
//	png, err := sink.RenderPNG(res, sink.WithScale(2))
//
// [layout.Result]: github.com/matzehuels/wordmosaic/pkg/layout.Result
package sink
