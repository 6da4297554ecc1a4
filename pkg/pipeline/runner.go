package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemamap/pkg/cache"
	"github.com/matzehuels/schemamap/pkg/model"
	"github.com/matzehuels/schemamap/pkg/observability"
	"github.com/matzehuels/schemamap/pkg/schema"
)

// Runner executes the pipeline with caching. It keeps no per-run state and
// is safe for concurrent use when its cache is.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching and a nil keyer
// selects [cache.NewDefaultKeyer].
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// SchemaHash fingerprints a type map for cache keys.
func SchemaHash(types schema.TypeMap) string {
	data, _ := json.Marshal(types)
	return cache.Hash(data)
}

// Execute computes the model and renders every requested format.
func (r *Runner) Execute(ctx context.Context, types schema.TypeMap, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	start := time.Now()
	m, skipped, hit, err := r.layout(ctx, types, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Model = m
	result.Stats = Stats{NodeCount: len(m.Nodes), EdgeCount: len(m.Edges), Skipped: skipped, LayoutTime: time.Since(start)}
	result.CacheInfo.LayoutHit = hit
	r.Logger.Info("computed layout",
		"root", m.Root,
		"types", len(m.Nodes),
		"fields", len(m.Edges),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	start = time.Now()
	artifacts, modelHash, hit, err := r.render(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.ModelHash = modelHash
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout returns the model for opts, from cache when possible, and whether
// it was a cache hit.
func (r *Runner) Layout(ctx context.Context, types schema.TypeMap, opts Options) (*model.Model, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	m, _, hit, err := r.layout(ctx, types, opts)
	return m, hit, err
}

// layout reports the number of skipped fields, which is zero on cache hits.
func (r *Runner) layout(ctx context.Context, types schema.TypeMap, opts Options) (*model.Model, int, bool, error) {
	key := r.Keyer.LayoutKey(SchemaHash(types), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if m, err := model.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return m, 0, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Root, opts.MaxDepth)
	start := time.Now()
	m, skipped, err := Compute(types, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.Root, 0, 0, time.Since(start), err)
		return nil, 0, false, err
	}
	hooks.OnLayoutComplete(ctx, opts.Root, len(m.Nodes), len(m.Edges), time.Since(start), nil)

	if data, err := model.Marshal(m); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return m, len(skipped), false, nil
}

// Render renders m in every requested format, from cache when possible.
func (r *Runner) Render(ctx context.Context, m *model.Model, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	artifacts, _, _, err := r.render(ctx, m, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, m *model.Model, opts Options) (map[string][]byte, string, bool, error) {
	data, err := model.Marshal(m)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize model for cache key: %w", err)
	}
	modelHash := cache.Hash(data)

	if !opts.Refresh {
		cached := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(modelHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			cached[format] = data
		}
		if len(cached) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return cached, modelHash, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, m, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(modelHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, modelHash, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
