package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/query"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
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
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs the complete update → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, resp *query.Response, opts Options) (*Result, error) {
	if resp == nil {
		resp = &query.Response{}
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	respHash, err := HashResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("hash response: %w", err)
	}
	if opts.ChartID == "" {
		opts.ChartID = defaultChartID(respHash)
	}
	frameKey := r.Keyer.FrameKey(respHash, opts.FrameKeyOpts())

	result := &Result{
		ResponseHash: respHash,
		Artifacts:    make(map[string][]byte, len(opts.Formats)),
	}
	result.Stats.Rows = len(resp.Data)

	// Serve from cache when every format is there.
	var missing []string
	if opts.Refresh {
		missing = opts.Formats
	} else {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(frameKey, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				result.Artifacts[format] = data
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
				continue
			} else if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			missing = append(missing, format)
		}
	}
	if len(missing) == 0 {
		result.CacheInfo.RenderHit = true
		r.Logger.Debug("served from cache", "formats", opts.Formats)
		return result, nil
	}

	// Stage 1: Update
	updateStart := time.Now()
	frame, err := Update(ctx, resp, opts)
	if err != nil {
		return nil, err
	}
	result.Frame = frame
	result.Stats.UpdateTime = time.Since(updateStart)
	result.Stats.Cells = len(frame.Cells)
	result.Stats.Leaves = frame.Leaves()
	result.Stats.Duplicates = len(frame.Duplicates)

	r.Logger.Info("computed layout",
		"cells", result.Stats.Cells,
		"total", frame.Format.Format(frame.Root.Value),
		"duration", result.Stats.UpdateTime)

	// Stage 2: Render
	renderStart := time.Now()
	rendered, err := renderFormats(ctx, frame, opts, missing)
	if err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	for format, data := range rendered {
		result.Artifacts[format] = data
		key := r.Keyer.ArtifactKey(frameKey, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}

	r.Logger.Info("rendered outputs",
		"formats", missing,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Frame runs only the update stage.
func (r *Runner) Frame(ctx context.Context, resp *query.Response, opts Options) (*chart.Frame, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.ChartID == "" {
		h, err := HashResponse(resp)
		if err != nil {
			return nil, fmt.Errorf("hash response: %w", err)
		}
		opts.ChartID = defaultChartID(h)
	}
	return Update(ctx, resp, opts)
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
