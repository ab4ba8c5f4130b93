package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/wordmosaic/pkg/cache"
	"github.com/matzehuels/wordmosaic/pkg/errors"
	"github.com/matzehuels/wordmosaic/pkg/freq"
	"github.com/matzehuels/wordmosaic/pkg/layout"
	"github.com/matzehuels/wordmosaic/pkg/observability"
	"github.com/matzehuels/wordmosaic/pkg/render/sink"
	"github.com/matzehuels/wordmosaic/pkg/store"
)

const catText = "the cat sat on the mat the cat ran"

func newFileRunner(t *testing.T, st store.Store) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, st, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestAnalyze(t *testing.T) {
	a := Analyze(catText, Options{})

	want := freq.Table{
		{Word: "cat", Count: 2, Rank: 1, First: 0},
		{Word: "sat", Count: 1, Rank: 2, First: 1},
		{Word: "mat", Count: 1, Rank: 3, First: 2},
		{Word: "ran", Count: 1, Rank: 4, First: 4},
	}
	if diff := cmp.Diff(want, a.Table); diff != "" {
		t.Errorf("Table (-want +got):\n%s", diff)
	}
	if a.Tokens != 5 || a.Empty {
		t.Errorf("Tokens = %d, Empty = %v", a.Tokens, a.Empty)
	}
	// Candidates come from the unfiltered text.
	if diff := cmp.Diff([]string{"cat", "mat", "on", "ran", "sat", "the"}, a.Candidates); diff != "" {
		t.Errorf("Candidates (-want +got):\n%s", diff)
	}
}

func TestAnalyzeStopwordOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		words []string
	}{
		{"extra stopword", Options{Stopwords: []string{"CAT"}}, []string{"sat", "mat", "ran"}},
		{"no defaults", Options{NoDefaultStopwords: true}, []string{"the", "cat", "sat", "on", "mat", "ran"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, w := range Analyze(catText, tt.opts).Table {
				got = append(got, w.Word)
			}
			if diff := cmp.Diff(tt.words, got); diff != "" {
				t.Errorf("words (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	for _, input := range []string{"", "   \n\t", "the and of"} {
		a := Analyze(input, Options{})
		if !a.Empty {
			t.Errorf("Analyze(%q).Empty = false", input)
		}
		if a.Table == nil || len(a.Table) != 0 {
			t.Errorf("Analyze(%q).Table = %v, want empty non-nil", input, a.Table)
		}
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), catText, Options{
		Width:   600,
		Height:  400,
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.Placed != 4 || res.Stats.Unplaced != 0 {
		t.Errorf("placed %d, unplaced %d", res.Stats.Placed, res.Stats.Unplaced)
	}
	if res.Layout.Placements[0].Word != "cat" {
		t.Errorf("largest word = %q, want cat", res.Layout.Placements[0].Word)
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), ">cat</text>") {
		t.Error("svg should contain the word cat")
	}
	parsed, err := sink.ParseJSON(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if diff := cmp.Diff(res.Layout, parsed); diff != "" {
		t.Errorf("json artifact (-layout +parsed):\n%s", diff)
	}
	if res.ID != "" {
		t.Error("ID should be empty without a store")
	}
}

func TestExecuteConfigurationError(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), catText, Options{Width: -10})
	if !errors.IsConfiguration(err) {
		t.Fatalf("Execute error = %v, want configuration error", err)
	}
	if res != nil {
		t.Error("a configuration error should produce no result")
	}
}

func TestExecuteEmptyInput(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), "the of and", Options{})
	if err != nil {
		t.Fatalf("empty input should not fail: %v", err)
	}
	if !res.Analysis.Empty {
		t.Error("Analysis.Empty should be set")
	}
	if len(res.Layout.Placements) != 0 {
		t.Errorf("placements = %d, want 0", len(res.Layout.Placements))
	}
	if len(res.Artifacts[FormatSVG]) == 0 {
		t.Error("an empty cloud should still render")
	}
}

func TestExecuteMaxWords(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()

	input := strings.Repeat("alpha ", 5) + strings.Repeat("beta ", 3) + "gamma"
	res, err := r.Execute(context.Background(), input, Options{MaxWords: 2})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var placed []string
	for _, p := range res.Layout.Placements {
		placed = append(placed, p.Word)
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, placed); diff != "" {
		t.Errorf("placed (-want +got):\n%s", diff)
	}
	want := []layout.Unplaced{{Word: "gamma", Count: 1, Rank: 3, Reason: layout.ReasonMaxWords}}
	if diff := cmp.Diff(want, res.Layout.Unplaced); diff != "" {
		t.Errorf("unplaced (-want +got):\n%s", diff)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()
	opts := Options{Width: 500, Height: 300, Formats: []string{FormatSVG}}

	a, err := r.Execute(context.Background(), catText, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Execute(context.Background(), catText, opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Layout, b.Layout); diff != "" {
		t.Errorf("layouts differ (-a +b):\n%s", diff)
	}
	if string(a.Artifacts[FormatSVG]) != string(b.Artifacts[FormatSVG]) {
		t.Error("svg output differs between identical runs")
	}
}

func TestExecuteCaching(t *testing.T) {
	r := newFileRunner(t, nil)
	ctx := context.Background()
	opts := Options{Width: 500, Height: 300, Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, catText, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}

	second, err := r.Execute(ctx, catText, opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheInfo != (CacheInfo{AnalyzeHit: true, LayoutHit: true, RenderHit: true}) {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if diff := cmp.Diff(first.Layout, second.Layout); diff != "" {
		t.Errorf("cached layout differs (-computed +cached):\n%s", diff)
	}

	// A new format reuses the cached layout.
	opts.Formats = []string{FormatSVG, FormatPNG}
	third, err := r.Execute(ctx, catText, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("third run CacheInfo = %+v", third.CacheInfo)
	}

	// Refresh recomputes everything.
	opts.Refresh = true
	fourth, err := r.Execute(ctx, catText, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo != (CacheInfo{}) {
		t.Errorf("refresh CacheInfo = %+v, want all misses", fourth.CacheInfo)
	}
}

func TestExecuteSavesTable(t *testing.T) {
	st := store.NewMemoryStore()
	r := newFileRunner(t, st)
	ctx := context.Background()

	res, err := r.Execute(ctx, catText, Options{Source: "cats.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if res.ID == "" {
		t.Fatal("ID should be set when a store is configured")
	}
	rec, err := st.Get(ctx, res.ID)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if rec.Source != "cats.txt" || rec.Total != 5 {
		t.Errorf("record = %+v", rec)
	}
	if diff := cmp.Diff(res.Analysis.Table, rec.Words); diff != "" {
		t.Errorf("stored table (-want +got):\n%s", diff)
	}
}

func TestLayoutTries(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()
	ctx := context.Background()

	words := make([]string, 0, 120)
	for i := 0; i < 60; i++ {
		words = append(words, strings.Repeat(string(rune('a'+i%26)), 3+i%5))
	}
	analysis := Analyze(strings.Join(words, " "), Options{NoDefaultStopwords: true})

	single, _, err := r.Layout(ctx, analysis, Options{Width: 300, Height: 200})
	if err != nil {
		t.Fatal(err)
	}
	multi, _, err := r.Layout(ctx, analysis, Options{Width: 300, Height: 200, Tries: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(multi.Unplaced) > len(single.Unplaced) {
		t.Errorf("best of 4 left %d unplaced, single try %d", len(multi.Unplaced), len(single.Unplaced))
	}
	if multi.Seed < layout.DefaultSeed || multi.Seed > layout.DefaultSeed+3 {
		t.Errorf("Seed = %d, want within the tried range", multi.Seed)
	}
}

func TestLayoutCanceled(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Execute(ctx, catText, Options{}); err == nil {
		t.Error("canceled context should fail")
	}
}

func TestRenderDeduplicatesFormats(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()

	res, _, err := r.Layout(context.Background(), Analyze(catText, Options{}), Options{})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := r.Render(context.Background(), res, Options{Formats: []string{FormatJSON, FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if len(artifacts) != 1 {
		t.Errorf("artifacts = %d, want 1", len(artifacts))
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	mu      sync.Mutex
	layouts int
	placed  int
}

func (h *countingHooks) OnLayoutComplete(_ context.Context, placed, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layouts++
	h.placed = placed
}

func TestPipelineHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()
	if _, err := r.Execute(context.Background(), catText, Options{}); err != nil {
		t.Fatal(err)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.layouts != 1 || hooks.placed != 4 {
		t.Errorf("hooks saw %d layouts with %d placed", hooks.layouts, hooks.placed)
	}
}
