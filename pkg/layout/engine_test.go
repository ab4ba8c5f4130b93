package layout

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/wordmosaic/pkg/errors"
	"github.com/matzehuels/wordmosaic/pkg/freq"
	"github.com/matzehuels/wordmosaic/pkg/palette"
	"github.com/matzehuels/wordmosaic/pkg/scale"
	"github.com/matzehuels/wordmosaic/pkg/text"
)

// sized runs text through the tokenizer, ranker and size mapper.
func sized(t *testing.T, input string, sw text.Stopwords, opts scale.Options) ([]scale.Sized, freq.Table) {
	t.Helper()
	kept, dropped, err := scale.Map(freq.Rank(text.Tokenize(input, sw)), opts)
	if err != nil {
		t.Fatalf("scale.Map: %v", err)
	}
	return kept, dropped
}

// corpus builds text with n distinct words whose counts fall off with rank.
func corpus(n int) string {
	var b strings.Builder
	for i := range n {
		word := fmt.Sprintf("word%c%c", 'a'+i%26, 'a'+i/26)
		for range 1 + (n-i)/4 {
			b.WriteString(word)
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func checkInvariants(t *testing.T, res Result) {
	t.Helper()
	for i, p := range res.Placements {
		box := p.Box()
		if !box.Within(res.Canvas) {
			t.Errorf("%q at %+v outside %dx%d canvas", p.Word, box, res.Canvas.Width, res.Canvas.Height)
		}
		if i > 0 && p.FontSize > res.Placements[i-1].FontSize {
			t.Errorf("%q size %g larger than previous %g", p.Word, p.FontSize, res.Placements[i-1].FontSize)
		}
		for _, q := range res.Placements[:i] {
			if box.Intersects(q.Box()) {
				t.Errorf("%q %+v overlaps %q %+v", p.Word, box, q.Word, q.Box())
			}
		}
	}
}

func TestBuildScenarioOrder(t *testing.T) {
	words, _ := sized(t, "the cat sat on the mat the cat ran", text.NewStopwords(false, "the", "on"), scale.DefaultOptions())
	res, err := Build(context.Background(), Canvas{Width: 400, Height: 400}, words, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var got []string
	for _, p := range res.Placements {
		got = append(got, p.Word)
	}
	if diff := cmp.Diff([]string{"cat", "sat", "mat", "ran"}, got); diff != "" {
		t.Errorf("placement order mismatch (-want +got):\n%s", diff)
	}
	if len(res.Unplaced) != 0 {
		t.Errorf("Unplaced = %+v, want none", res.Unplaced)
	}
	checkInvariants(t, res)
}

func TestBuildSingleWordCentered(t *testing.T) {
	words, _ := sized(t, "cloud", text.Stopwords{}, scale.DefaultOptions())
	canvas := Canvas{Width: 400, Height: 400}
	opts := DefaultOptions()

	res, err := Build(context.Background(), canvas, words, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Placements) != 1 {
		t.Fatalf("got %d placements, want 1", len(res.Placements))
	}

	box := res.Placements[0].Box()
	if !box.Within(canvas) {
		t.Errorf("box %+v outside canvas", box)
	}
	if math.Abs(box.CenterX()-200) > opts.CellSize || math.Abs(box.CenterY()-200) > opts.CellSize {
		t.Errorf("box center (%v, %v), want within one cell of (200, 200)", box.CenterX(), box.CenterY())
	}
	pal, _ := palette.Get(palette.Default)
	if got := res.Placements[0].Color; got != pal.Hex(0) {
		t.Errorf("Color = %s, want %s", got, pal.Hex(0))
	}
}

func TestBuildMaxWords(t *testing.T) {
	opts := scale.DefaultOptions()
	opts.MaxWords = 2
	words, dropped := sized(t, "alpha alpha alpha alpha alpha beta beta beta gamma", text.Stopwords{}, opts)

	res, err := Build(context.Background(), Canvas{Width: 400, Height: 400}, words, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res = res.WithDropped(dropped)

	if len(res.Placements) != 2 {
		t.Fatalf("got %d placements, want 2", len(res.Placements))
	}
	if res.Placements[0].Word != "alpha" || res.Placements[1].Word != "beta" {
		t.Errorf("placed %q and %q, want alpha and beta", res.Placements[0].Word, res.Placements[1].Word)
	}
	want := []Unplaced{{Word: "gamma", Count: 1, Rank: 3, Reason: ReasonMaxWords}}
	if diff := cmp.Diff(want, res.Unplaced); diff != "" {
		t.Errorf("Unplaced mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildInvalidCanvas(t *testing.T) {
	words, _ := sized(t, "cloud", text.Stopwords{}, scale.DefaultOptions())
	tests := []Canvas{
		{Width: 0, Height: 100},
		{Width: 100, Height: 0},
		{Width: -5, Height: 100},
		{Width: errors.MaxCanvasSide + 1, Height: 100},
	}
	for _, canvas := range tests {
		t.Run(fmt.Sprintf("%dx%d", canvas.Width, canvas.Height), func(t *testing.T) {
			res, err := Build(context.Background(), canvas, words, DefaultOptions())
			if !errors.IsConfiguration(err) {
				t.Fatalf("Build error = %v, want configuration error", err)
			}
			if len(res.Placements) != 0 {
				t.Errorf("got %d placements, want none", len(res.Placements))
			}
		})
	}
}

func TestBuildInvalidOptions(t *testing.T) {
	words, _ := sized(t, "cloud", text.Stopwords{}, scale.DefaultOptions())
	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"unknown palette", func(o *Options) { o.Palette = "rainbow" }, errors.ErrCodeInvalidPalette},
		{"negative margin", func(o *Options) { o.Margin = -1 }, errors.ErrCodeInvalidOption},
		{"prefer horizontal above one", func(o *Options) { o.PreferHorizontal = 1.5 }, errors.ErrCodeInvalidOption},
		{"negative floor", func(o *Options) { o.MinFontSize = -1 }, errors.ErrCodeInvalidFontRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			_, err := Build(context.Background(), Canvas{Width: 100, Height: 100}, words, opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Build error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	words, _ := sized(t, "the and of", text.DefaultStopwords(), scale.DefaultOptions())
	res, err := Build(context.Background(), Canvas{Width: 200, Height: 100}, words, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Placements) != 0 || len(res.Unplaced) != 0 {
		t.Errorf("got %d placements and %d unplaced, want none", len(res.Placements), len(res.Unplaced))
	}
	if res.Scale != 1 {
		t.Errorf("Scale = %v, want 1", res.Scale)
	}
}

func TestBuildDeterministic(t *testing.T) {
	words, _ := sized(t, corpus(60), text.Stopwords{}, scale.Options{MaxWords: 200, Range: scale.Range{Min: 8, Max: 60}, Scaling: scale.Sqrt})
	canvas := Canvas{Width: 400, Height: 300}

	first, err := Build(context.Background(), canvas, words, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for range 3 {
		again, err := Build(context.Background(), canvas, words, DefaultOptions())
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("layout not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestBuildInvariants(t *testing.T) {
	tests := []struct {
		name   string
		canvas Canvas
		n      int
		opts   func(*Options)
	}{
		{"landscape", Canvas{Width: 400, Height: 300}, 60, func(*Options) {}},
		{"portrait", Canvas{Width: 200, Height: 360}, 40, func(*Options) {}},
		{"all vertical first", Canvas{Width: 300, Height: 300}, 40, func(o *Options) { o.PreferHorizontal = 0 }},
		{"no margin", Canvas{Width: 300, Height: 200}, 50, func(o *Options) { o.Margin = 0 }},
		{"coarse grid", Canvas{Width: 300, Height: 200}, 40, func(o *Options) { o.CellSize = 8 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, _ := sized(t, corpus(tt.n), text.Stopwords{}, scale.Options{MaxWords: 200, Range: scale.Range{Min: 8, Max: 60}, Scaling: scale.Linear})
			opts := DefaultOptions()
			tt.opts(&opts)

			res, err := Build(context.Background(), tt.canvas, words, opts)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got := len(res.Placements) + len(res.Unplaced); got != len(words) {
				t.Errorf("placed+unplaced = %d, want %d", got, len(words))
			}
			checkInvariants(t, res)
		})
	}
}

func TestBuildDenseWithoutMargin(t *testing.T) {
	tests := []struct {
		name   string
		canvas Canvas
		prefer float64
	}{
		{"landscape", Canvas{Width: 1200, Height: 800}, 0.9},
		{"tall", Canvas{Width: 400, Height: 1600}, 0.5},
		{"strip", Canvas{Width: 2000, Height: 200}, 1},
		{"vertical first", Canvas{Width: 800, Height: 800}, 0},
	}
	words, _ := sized(t, corpus(300), text.Stopwords{}, scale.Options{MaxWords: 300, Range: scale.Range{Min: 6, Max: 90}, Scaling: scale.Sqrt})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Margin = 0
			opts.PreferHorizontal = tt.prefer

			res, err := Build(context.Background(), tt.canvas, words, opts)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if len(res.Placements) < 50 {
				t.Fatalf("only %d placements, layout is not dense", len(res.Placements))
			}
			checkInvariants(t, res)
		})
	}
}

func TestPlacementCoordinatesOnSubpixelGrid(t *testing.T) {
	words, _ := sized(t, corpus(80), text.Stopwords{}, scale.Options{MaxWords: 80, Range: scale.Range{Min: 7, Max: 53}, Scaling: scale.Log})
	opts := DefaultOptions()
	opts.Margin = 0
	opts.CellSize = 3.3

	res, err := Build(context.Background(), Canvas{Width: 500, Height: 333}, words, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	onGrid := func(v float64) bool { return v*subpixel == math.Trunc(v*subpixel) }
	for _, p := range res.Placements {
		b := p.Box()
		for _, v := range []float64{b.Left, b.Top, b.Right, b.Bottom} {
			if !onGrid(v) {
				t.Errorf("%q box %+v has coordinate %v off the 1/%d px grid", p.Word, b, v, subpixel)
			}
		}
		if b.Bottom-b.Top != p.Height || b.Right-b.Left != p.Width {
			t.Errorf("%q box %+v does not match %vx%v", p.Word, b, p.Width, p.Height)
		}
	}
	checkInvariants(t, res)
}

func TestBuildShrinksToFit(t *testing.T) {
	words := []scale.Sized{
		{WordStat: freq.WordStat{Word: "abcdefghij", Count: 3, Rank: 1}, Size: 120},
	}
	opts := DefaultOptions()
	opts.PreferHorizontal = 1
	opts.MinFontSize = 10

	res, err := Build(context.Background(), Canvas{Width: 200, Height: 60}, words, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Placements) != 1 {
		t.Fatalf("got %d placements, want 1 (unplaced %+v)", len(res.Placements), res.Unplaced)
	}
	// 0.55 * 36 * 10 = 198 is the widest run that fits in 200 px.
	if got := res.Placements[0].FontSize; got != 36 {
		t.Errorf("FontSize = %v, want 36", got)
	}
	if math.Abs(res.Scale-0.3) > 1e-9 {
		t.Errorf("Scale = %v, want 0.3", res.Scale)
	}
	checkInvariants(t, res)
}

func TestBuildNoSpace(t *testing.T) {
	words := []scale.Sized{
		{WordStat: freq.WordStat{Word: "abcdefghij", Count: 2, Rank: 1}, Size: 100},
		{WordStat: freq.WordStat{Word: "ok", Count: 1, Rank: 2}, Size: 20},
	}
	opts := DefaultOptions()
	opts.Shrink = false

	res, err := Build(context.Background(), Canvas{Width: 100, Height: 100}, words, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []Unplaced{{Word: "abcdefghij", Count: 2, Rank: 1, Reason: ReasonNoSpace}}
	if diff := cmp.Diff(want, res.Unplaced); diff != "" {
		t.Errorf("Unplaced mismatch (-want +got):\n%s", diff)
	}
	if len(res.Placements) != 1 || res.Placements[0].Word != "ok" {
		t.Errorf("Placements = %+v, want only %q", res.Placements, "ok")
	}
}

func TestBuildCanceled(t *testing.T) {
	words, _ := sized(t, corpus(20), text.Stopwords{}, scale.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, Canvas{Width: 400, Height: 300}, words, DefaultOptions())
	if err != context.Canceled {
		t.Errorf("Build error = %v, want context.Canceled", err)
	}
}

func TestBuildColorsFollowOrder(t *testing.T) {
	words, _ := sized(t, corpus(10), text.Stopwords{}, scale.DefaultOptions())
	res, err := Build(context.Background(), Canvas{Width: 1200, Height: 800}, words, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Unplaced) != 0 {
		t.Fatalf("Unplaced = %+v, want none", res.Unplaced)
	}
	pal, _ := palette.Get(palette.Default)
	for i, p := range res.Placements {
		want := pal.Hex(colorSpan * float64(i) / float64(len(res.Placements)-1))
		if p.Color != want {
			t.Errorf("placement %d color = %s, want %s", i, p.Color, want)
		}
	}
}

func TestBuildWithMeasurer(t *testing.T) {
	words, _ := sized(t, "wide wide narrow", text.Stopwords{}, scale.DefaultOptions())
	opts := DefaultOptions()
	opts.Measurer = fixedMeasurer{w: 50, h: 20}
	opts.PreferHorizontal = 1

	res, err := Build(context.Background(), Canvas{Width: 300, Height: 200}, words, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, p := range res.Placements {
		if p.Width != 50 || p.Height != 20 {
			t.Errorf("%q measured %vx%v, want 50x20", p.Word, p.Width, p.Height)
		}
	}
}

type fixedMeasurer struct{ w, h float64 }

func (m fixedMeasurer) Measure(string, float64) Metrics {
	return Metrics{Width: m.w, Ascent: m.h * 0.75, Descent: m.h * 0.25}
}
