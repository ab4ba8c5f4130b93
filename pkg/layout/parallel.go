package layout

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wordmosaic/pkg/scale"
)

// BuildAll runs one independent layout per options value concurrently.
// Each run owns its grid; opts[i] produces results[i]. The first error
// cancels the remaining runs.
func BuildAll(ctx context.Context, canvas Canvas, words []scale.Sized, opts []Options) ([]Result, error) {
	results := make([]Result, len(opts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, o := range opts {
		g.Go(func() error {
			r, err := Build(ctx, canvas, words, o)
			if err != nil {
				return fmt.Errorf("layout %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Best returns the index of the result with the fewest unplaced words,
// preferring the earliest on ties. It returns -1 for an empty slice.
func Best(results []Result) int {
	best := -1
	for i, r := range results {
		if best < 0 || len(r.Unplaced) < len(results[best].Unplaced) {
			best = i
		}
	}
	return best
}
