package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/latticeviz/pkg/cache"
	"github.com/matzehuels/latticeviz/pkg/errors"
	lvio "github.com/matzehuels/latticeviz/pkg/io"
	"github.com/matzehuels/latticeviz/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different datasets.
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

// Execute decodes a JSON dataset and runs the full pipeline with caching.
//
// Results are keyed by the content hash of data and the options that affect
// the analysis. Filter tokens are applied after a cache hit, so one cached
// analysis serves every filter.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	datasetHash := cache.Hash(data)
	cacheKey := r.Keyer.AnalysisKey(datasetHash, opts.AnalysisKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if res, ok := r.cached(ctx, cacheKey); ok {
			r.Logger.Debug("analysis cache hit", "hash", datasetHash[:12])
			if opts.ShouldFilter() {
				res.applyFilter(ctx, opts)
			}
			return res, nil
		}
	}

	l, err := lvio.ReadJSON(bytes.NewReader(data), opts.Logger)
	if err != nil {
		return nil, err
	}

	// Filtering happens after caching so the stored colors stay neutral.
	unfiltered := opts
	unfiltered.FilterObjects, unfiltered.FilterAttributes = nil, nil
	res, err := Analyze(ctx, l, unfiltered)
	if err != nil {
		return nil, err
	}
	res.DatasetHash = datasetHash

	if payload, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, payload, cache.TTLAnalysis); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "analysis", len(payload))
		}
	}

	if opts.ShouldFilter() {
		res.applyFilter(ctx, opts)
	}
	return res, nil
}

// ExecuteFile reads the dataset at path and runs [Runner.Execute].
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return r.Execute(ctx, data, opts)
}

// cached loads a result from the cache. Read errors and undecodable
// entries count as misses.
func (r *Runner) cached(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "analysis")
		return nil, false
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.Logger.Warn("discarding cache entry", "err", fmt.Errorf("%w: %v", cache.ErrCorrupt, err))
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "analysis")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "analysis")
	res.CacheHit = true
	return &res, true
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
