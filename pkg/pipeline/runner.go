package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/engine"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
	"github.com/matzehuels/wordcloud/pkg/wordfreq"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Instrumented(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete tokenize → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Tokenize
	tokenizeStart := time.Now()
	if opts.Text != "" {
		table, hit, err := r.TokenizeWithCacheInfo(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("tokenize: %w", err)
		}
		result.Table = table
		result.CacheInfo.TokenizeHit = hit
		result.Stats.TotalWords = table.Total()
		r.Logger.Info("counted words",
			"distinct", table.Len(),
			"total", table.Total(),
			"duration", time.Since(tokenizeStart))
	}
	words := Words(result.Table, opts)
	if len(words) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no words left after filtering")
	}
	result.Stats.DistinctWords = len(words)
	result.Stats.TokenizeTime = time.Since(tokenizeStart)
	result.TableHash = hashWords(words)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, words, result.TableHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Placed = layout.Placed
	result.Stats.Unplaced = layout.Unplaced
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"placed", layout.Placed,
		"unplaced", layout.Unplaced,
		"seed", layout.Seed,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, &result.Layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// TokenizeWithCacheInfo counts opts.Text with caching and returns cache hit
// info.
func (r *Runner) TokenizeWithCacheInfo(ctx context.Context, opts Options) (*wordfreq.Table, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForTokenize(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.FrequencyKey(cache.HashString(opts.Text), opts.FrequencyKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var counts map[string]int
			if err := json.Unmarshal(data, &counts); err == nil {
				return wordfreq.FromMap(counts), true, nil
			}
		} else if err != nil {
			opts.Logger.Debug("cache read failed", "key", cacheKey, "err", err)
		}
	}

	table, err := Tokenize(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(table.Map()); err == nil {
		r.store(ctx, opts.Logger, cacheKey, data, cache.TTLFrequencies)
	}
	return table, false, nil
}

// LayoutWithCacheInfo lays out words with caching and returns cache hit
// info. tableHash identifies the words; see [Result.TableHash].
//
// A layout served from cache carries no glyph outlines; the render stage
// rebuilds them.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, words []*cloud.Word, tableHash string, opts Options) (cloud.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return cloud.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(tableHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := cloud.UnmarshalLayout(data); err == nil {
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	e, err := engine.New(opts.Config, engine.Options{Logger: opts.Logger})
	if err != nil {
		return cloud.Layout{}, false, err
	}
	res, err := e.Run(ctx, words)
	if err != nil {
		return cloud.Layout{}, false, err
	}
	layout := res.Layout()

	if data, err := cloud.MarshalLayout(layout); err == nil {
		r.store(ctx, opts.Logger, cacheKey, data, cache.TTLLayout)
	}
	return layout, false, nil
}

// RenderWithCacheInfo encodes layout in every requested format with caching
// and returns cache hit info. Missing outlines are rebuilt into layout.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout *cloud.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := cloud.MarshalLayout(*layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, missing)
	for _, format := range missing {
		data, err := sink.Render(ctx, format, layout, opts.SinkOptions())
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, missing, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, opts.Logger, cacheKey, data, cache.TTLArtifact)
	}
	observability.Pipeline().OnRenderComplete(ctx, missing, time.Since(start), nil)

	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes a stage result. Cache failures never fail a render.
func (r *Runner) store(ctx context.Context, logger *log.Logger, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "err", err)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
