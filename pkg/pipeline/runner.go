package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/structasic/fabgen/pkg/buildinfo"
	"github.com/structasic/fabgen/pkg/cache"
	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger, so several
// goroutines may share one Runner with different inputs.
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Validate runs every stage up to sealing the model and renders nothing.
// The result is returned even on failure so callers can print the report;
// the error is then the report's VALIDATION_FAILED error.
func (r *Runner) Validate(ctx context.Context, in *Inputs, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return r.validate(ctx, in, opts)
}

func (r *Runner) validate(ctx context.Context, in *Inputs, opts Options) (*Result, error) {
	result := &Result{Artifacts: make(map[string][]byte)}

	start := time.Now()
	result.Model, result.Report = Build(ctx, in, opts)
	result.Stats.BuildTime = time.Since(start)
	if err := result.Report.Err(); err != nil {
		return result, err
	}
	if result.Model == nil {
		return result, ferrors.New(ferrors.ErrCodeInternal, "layout was not sealed")
	}
	return result, nil
}

// Execute validates the inputs and renders every requested format.
// Formats found in the cache are not rendered again unless opts.Refresh
// is set.
func (r *Runner) Execute(ctx context.Context, in *Inputs, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result, err := r.validate(ctx, in, opts)
	if err != nil {
		return result, err
	}

	m := result.Model
	base := opts.Name
	if base == "" {
		base = m.Name
	}
	hash := inputHash(in, opts, base)
	hooks := observability.Pipeline()

	hooks.OnStageStart(ctx, StageRender)
	start := time.Now()
	for _, format := range opts.Formats {
		files, hit := r.cached(ctx, hash, format, opts.Refresh)
		if hit {
			result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
		} else {
			files, err = Render(ctx, m, base, format)
			if err != nil {
				hooks.OnStageComplete(ctx, StageRender, time.Since(start), err)
				return result, err
			}
			result.CacheInfo.Misses = append(result.CacheInfo.Misses, format)
			r.store(ctx, hash, format, files)
		}
		for name, data := range files {
			result.Artifacts[name] = data
		}
	}
	result.Stats.RenderTime = time.Since(start)
	hooks.OnStageComplete(ctx, StageRender, result.Stats.RenderTime, nil)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"files", len(result.Artifacts),
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// cached returns the files of one format if the cache holds them.
func (r *Runner) cached(ctx context.Context, hash, format string, refresh bool) (map[string][]byte, bool) {
	if refresh {
		return nil, false
	}
	key := r.Keyer.ArtifactKey(hash, format)
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, format)
		return nil, false
	}
	var files map[string][]byte
	if err := json.Unmarshal(data, &files); err != nil || len(files) == 0 {
		observability.Cache().OnCacheMiss(ctx, format)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, format)
	return files, true
}

func (r *Runner) store(ctx context.Context, hash, format string, files map[string][]byte) {
	data, err := json.Marshal(files)
	if err != nil {
		return
	}
	key := r.Keyer.ArtifactKey(hash, format)
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, format, len(data))
}

// inputHash identifies everything that influences rendered output.
func inputHash(in *Inputs, opts Options, base string) string {
	return cache.HashParts(buildinfo.Version, base, opts.PinSize, in.Technology, in.Tiles, in.Fabric)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
