// Package render provides rendering backends for word cloud layouts.
//
// # Overview
//
// The layout engine emits abstract placement records; this package and its
// [sink] subpackage turn them into files:
//
//   - SVG: vector output with the font embedded
//   - PNG: native raster output
//   - PDF: print-ready output converted from SVG (requires rsvg-convert)
//   - JSON: the placement records themselves
//   - CSV: the ranked frequency table
//
// # Format Conversion
//
// [ToPDF] converts any SVG to PDF using the external rsvg-convert tool (from
// librsvg):
//
//	svg := sink.RenderSVG(result)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [sink]: github.com/matzehuels/wordmosaic/pkg/render/sink
package render
