package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordmosaic/pkg/cache"
	"github.com/matzehuels/wordmosaic/pkg/fonts"
	"github.com/matzehuels/wordmosaic/pkg/layout"
	"github.com/matzehuels/wordmosaic/pkg/observability"
	"github.com/matzehuels/wordmosaic/pkg/render/sink"
	"github.com/matzehuels/wordmosaic/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Store    store.Store // optional; nil disables table persistence
	Logger   *log.Logger
	Measurer layout.Measurer
}

// NewRunner creates a runner.
// If c is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
// If logger is nil, log output is discarded.
// Word metrics come from the embedded font.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	var m layout.Measurer = layout.ApproxMeasurer{}
	if fm, err := fonts.NewMeasurer(); err != nil {
		logger.Warn("font metrics unavailable, using approximation", "error", err)
	} else {
		m = fm
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Store:    st,
		Logger:   logger,
		Measurer: m,
	}
}

// Execute runs the complete analyze → layout → render pipeline with caching.
// Only configuration errors (and context cancellation) fail a run; empty
// input and words that do not fit are reported in the result.
func (r *Runner) Execute(ctx context.Context, input string, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Analyze
	analyzeStart := time.Now()
	analysis, analyzeHit, err := r.AnalyzeWithCacheInfo(ctx, input, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Analysis = analysis
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.Tokens = analysis.Tokens
	result.Stats.Distinct = len(analysis.Table)
	result.CacheInfo.AnalyzeHit = analyzeHit

	if analysis.Empty {
		r.Logger.Warn("no words left after stopword filtering")
	}
	r.Logger.Info("analyzed text",
		"tokens", analysis.Tokens,
		"distinct", len(analysis.Table),
		"duration", result.Stats.AnalyzeTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.Layout(ctx, analysis, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Placed = len(res.Placements)
	result.Stats.Unplaced = len(res.Unplaced)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"placed", len(res.Placements),
		"unplaced", len(res.Unplaced),
		"scale", res.Scale,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	if r.Store != nil {
		rec := store.NewRecord(opts.Source, analysis.Table)
		if err := r.Store.Save(ctx, rec); err != nil {
			r.Logger.Warn("failed to save frequency table", "error", err)
		} else {
			result.ID = rec.ID
			r.Logger.Debug("saved frequency table", "id", rec.ID)
		}
	}

	return result, nil
}

// AnalyzeWithCacheInfo runs the analyze stage with caching and returns cache hit info.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, input string, opts Options) (Analysis, bool, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, len(input))
	start := time.Now()

	cacheKey := r.Keyer.AnalysisKey(cache.Hash([]byte(input)), opts.AnalysisKeyOpts())

	var analysis Analysis
	if r.cached(ctx, "analysis", cacheKey, opts.Refresh, &analysis) {
		hooks.OnAnalyzeComplete(ctx, len(analysis.Table), time.Since(start), nil)
		return analysis, true, nil
	}

	analysis = Analyze(input, opts)
	r.cacheJSON(ctx, "analysis", cacheKey, analysis, cache.TTLAnalysis)

	hooks.OnAnalyzeComplete(ctx, len(analysis.Table), time.Since(start), nil)
	return analysis, false, nil
}

// Analyze is a convenience wrapper that calls AnalyzeWithCacheInfo and discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, input string, opts Options) (Analysis, error) {
	a, _, err := r.AnalyzeWithCacheInfo(ctx, input, opts)
	return a, err
}

// Layout computes the word cloud for analysis with caching. The second
// return value reports a cache hit.
func (r *Runner) Layout(ctx context.Context, analysis Analysis, opts Options) (layout.Result, bool, error) {
	opts.SetLayoutDefaults()
	if err := opts.ValidateLayout(); err != nil {
		return layout.Result{}, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, min(len(analysis.Table), opts.MaxWords))
	start := time.Now()

	cacheKey := r.Keyer.LayoutKey(tableHash(analysis.Table), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, err := sink.ParseJSON(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				hooks.OnLayoutComplete(ctx, len(res.Placements), len(res.Unplaced), time.Since(start), nil)
				return res, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	res, err := GenerateLayout(ctx, analysis.Table, opts, r.Measurer)
	hooks.OnLayoutComplete(ctx, len(res.Placements), len(res.Unplaced), time.Since(start), err)
	if err != nil {
		return layout.Result{}, false, err
	}

	if data, err := sink.RenderJSON(res); err == nil {
		r.set(ctx, "layout", cacheKey, data, cache.TTLLayout)
	}
	return res, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := opts.ValidateRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	layoutData, err := sink.RenderJSON(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if _, seen := artifacts[format]; seen {
			continue
		}
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := RenderArtifacts(ctx, res, renderOpts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		r.set(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if c, ok := r.Measurer.(io.Closer); ok {
		_ = c.Close()
	}
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// cached decodes a JSON cache entry into v and reports whether it was found.
func (r *Runner) cached(ctx context.Context, keyType, key string, refresh bool, v any) bool {
	if refresh {
		return false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "type", keyType, "error", err)
	}
	if err == nil && hit && json.Unmarshal(data, v) == nil {
		observability.Cache().OnCacheHit(ctx, keyType)
		return true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return false
}

// cacheJSON writes v as JSON to the cache.
func (r *Runner) cacheJSON(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	r.set(ctx, keyType, key, data, ttl)
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
