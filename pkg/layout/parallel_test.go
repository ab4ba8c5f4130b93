package layout

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/wordmosaic/pkg/errors"
	"github.com/matzehuels/wordmosaic/pkg/scale"
	"github.com/matzehuels/wordmosaic/pkg/text"
)

func TestBuildAllMatchesBuild(t *testing.T) {
	words, _ := sized(t, corpus(30), text.Stopwords{}, scale.Options{MaxWords: 200, Range: scale.Range{Min: 8, Max: 50}, Scaling: scale.Linear})
	canvas := Canvas{Width: 300, Height: 200}
	opts := DefaultOptions().Seeds(4)

	results, err := BuildAll(context.Background(), canvas, words, opts)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(results) != len(opts) {
		t.Fatalf("got %d results, want %d", len(results), len(opts))
	}
	for i, o := range opts {
		want, err := Build(context.Background(), canvas, words, o)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if diff := cmp.Diff(want, results[i]); diff != "" {
			t.Errorf("result %d differs from sequential build (-want +got):\n%s", i, diff)
		}
		if results[i].Seed != o.Seed {
			t.Errorf("result %d seed = %d, want %d", i, results[i].Seed, o.Seed)
		}
	}
}

func TestBuildAllError(t *testing.T) {
	words, _ := sized(t, "cloud", text.Stopwords{}, scale.DefaultOptions())
	bad := DefaultOptions()
	bad.Palette = "nope"

	_, err := BuildAll(context.Background(), Canvas{Width: 100, Height: 100}, words, []Options{DefaultOptions(), bad})
	if !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("BuildAll error = %v, want INVALID_PALETTE", err)
	}
}

func TestSeeds(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 7
	got := opts.Seeds(3)
	for i, o := range got {
		if o.Seed != 7+uint64(i) {
			t.Errorf("Seeds()[%d].Seed = %d, want %d", i, o.Seed, 7+i)
		}
	}
	if n := len(opts.Seeds(0)); n != 1 {
		t.Errorf("len(Seeds(0)) = %d, want 1", n)
	}
}

func TestBest(t *testing.T) {
	mk := func(n int) Result { return Result{Unplaced: make([]Unplaced, n)} }
	tests := []struct {
		name    string
		results []Result
		want    int
	}{
		{"empty", nil, -1},
		{"single", []Result{mk(3)}, 0},
		{"fewest unplaced", []Result{mk(3), mk(1), mk(2)}, 1},
		{"tie keeps first", []Result{mk(2), mk(0), mk(0)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Best(tt.results); got != tt.want {
				t.Errorf("Best() = %d, want %d", got, tt.want)
			}
		})
	}
}
