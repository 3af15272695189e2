package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/render"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; PNG and PDF each run an external converter.
func Render(ctx context.Context, f *chart.Frame, opts Options) (map[string][]byte, error) {
	return renderFormats(ctx, f, opts, opts.Formats)
}

func renderFormats(ctx context.Context, f *chart.Frame, opts Options, formats []string) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	var svgOpts []render.SVGOption
	if opts.Static {
		svgOpts = append(svgOpts, render.WithStatic())
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(formats))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			data, err := render.Render(gctx, f, format, svgOpts...)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}
