package pipeline

import (
	"context"

	"github.com/matzehuels/wordmosaic/pkg/freq"
	"github.com/matzehuels/wordmosaic/pkg/layout"
	"github.com/matzehuels/wordmosaic/pkg/scale"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout caps and sizes table, then places the words on the canvas.
// With opts.Tries > 1 one layout per seed (Seed, Seed+1, ...) is built
// concurrently and the one with the fewest unplaced words is kept. Words cut
// by MaxWords are reported as unplaced with reason max_words.
func GenerateLayout(ctx context.Context, table freq.Table, opts Options, m layout.Measurer) (layout.Result, error) {
	words, dropped, err := scale.Map(table, opts.ScaleOptions())
	if err != nil {
		return layout.Result{}, err
	}

	lo := opts.LayoutOptions()
	lo.Measurer = m

	if opts.Tries <= 1 {
		res, err := layout.Build(ctx, opts.Canvas(), words, lo)
		if err != nil {
			return layout.Result{}, err
		}
		return res.WithDropped(dropped), nil
	}

	results, err := layout.BuildAll(ctx, opts.Canvas(), words, lo.Seeds(opts.Tries))
	if err != nil {
		return layout.Result{}, err
	}
	return results[layout.Best(results)].WithDropped(dropped), nil
}
