// Package pkg provides the core libraries for wordmosaic word clouds.
//
// # Overview
//
// Wordmosaic turns a document into a word cloud: the most frequent words
// are sized by their counts, packed onto a canvas without overlap, and
// written out as vector, raster or tabular artifacts.
//
// # Architecture
//
// The typical data flow:
//
//	Document (txt, md, pdf, docx)
//	         ↓
//	    [extract] package (plain text)
//	         ↓
//	    [text] package (tokenize, stopwords)
//	         ↓
//	    [freq] package (ranked frequency table)
//	         ↓
//	    [scale] package (font sizes)
//	         ↓
//	    [layout] package (collision-free placements)
//	         ↓
//	    [render/sink] package (SVG/PNG/PDF/JSON/CSV)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), nil, nil)
//	res, err := runner.Execute(ctx, input, pipeline.Options{
//	    Width:   800,
//	    Height:  600,
//	    Formats: []string{sink.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("cloud.svg", res.Artifacts[sink.FormatSVG], 0o644)
//
// # Main Packages
//
// [pipeline] - Orchestration (analyze → layout → render) used by the CLI and
// the HTTP API. Each stage is cached independently through [cache].
//
// [layout] - Spiral search over an occupancy grid. Larger words are placed
// first; words that do not fit are reported with a reason.
//
// [palette] - Named color schemes and deterministic per-word coloring.
//
// [fonts] - Embedded font and text measurement.
//
// [store] - History of analyzed documents (SQLite, MongoDB, memory).
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Error codes shared by all entry points.
//
// [extract]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/extract
// [text]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/text
// [freq]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/freq
// [scale]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/scale
// [layout]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/layout
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/cache
// [palette]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/palette
// [fonts]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/fonts
// [store]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/wordmosaic/pkg/errors
package pkg
