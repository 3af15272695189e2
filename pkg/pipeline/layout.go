package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/interaction"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/query"
)

// chartIDLength is how much of the response hash a default chart id uses.
const chartIDLength = 12

// Update checks the query shape and lays out resp. Options must have
// been validated.
func Update(ctx context.Context, resp *query.Response, opts Options) (*chart.Frame, error) {
	if resp == nil {
		resp = &query.Response{}
	}
	hooks := observability.Pipeline()
	hooks.OnUpdateStart(ctx, len(resp.Data))
	start := time.Now()

	f, err := chart.NewFrame(ctx, resp, chart.FrameOptions{
		Width:       opts.Width,
		Height:      opts.Height,
		ColorRange:  opts.ColorRange,
		ValueFormat: opts.ValueFormat,
		Identity:    interaction.Identity{Type: chart.VisType, ID: opts.ChartID},
		Logger:      opts.Logger,
	})
	if errors.Is(err, errors.ErrCodeInvalidQueryShape) {
		hooks.OnValidationFailed(ctx, err)
	}
	cells := 0
	if f != nil {
		cells = len(f.Cells)
	}
	hooks.OnUpdateComplete(ctx, cells, time.Since(start), err)
	return f, err
}

func defaultChartID(responseHash string) string {
	if len(responseHash) > chartIDLength {
		return responseHash[:chartIDLength]
	}
	return responseHash
}
