package chart

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/interaction"
	"github.com/matzehuels/treemap/pkg/query"
)

// Size is the measured size of the surface a chart is mounted on.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Options configures a [Chart].
type Options struct {
	// ID identifies the chart in drill links. A random UUID is used when
	// empty.
	ID string

	// Size is used by updates that pass a zero size.
	Size Size

	ColorRange  []string
	ValueFormat string
	Logger      *log.Logger
}

// Chart is one interactive treemap instance. It is safe for concurrent
// use; an update replaces the frame and its hover state at once.
type Chart struct {
	id     string
	opts   Options
	logger *log.Logger

	tooltip *interaction.Tooltip

	mu     sync.RWMutex
	closed bool
	frame  *Frame
	ctrl   *interaction.Controller
}

// New creates a chart instance with its own tooltip.
func New(opts Options) *Chart {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Chart{
		id:      opts.ID,
		opts:    opts,
		logger:  logger.With("chart", opts.ID),
		tooltip: interaction.NewTooltip(),
	}
}

// ID returns the chart id.
func (c *Chart) ID() string { return c.id }

// Identity returns the identity carried in drill links.
func (c *Chart) Identity() interaction.Identity {
	return interaction.Identity{Type: VisType, ID: c.id}
}

// Update validates resp and replaces the chart's frame. On error the
// previous frame is dropped, leaving the chart empty, except when ctx ends
// first: an abandoned update leaves the chart as it was.
func (c *Chart) Update(ctx context.Context, resp *query.Response, size Size) (*Frame, error) {
	if size.Width <= 0 || size.Height <= 0 {
		size = c.opts.Size
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, c.closedErr()
	}

	start := time.Now()
	f, err := NewFrame(ctx, resp, FrameOptions{
		Width:       size.Width,
		Height:      size.Height,
		ColorRange:  c.opts.ColorRange,
		ValueFormat: c.opts.ValueFormat,
		Identity:    c.Identity(),
		Logger:      c.logger,
	})
	if errors.Is(err, errors.ErrCodeCanceled) {
		return nil, err
	}
	if err != nil {
		c.frame, c.ctrl = nil, nil
		c.tooltip.Hide()
		c.logger.Debug("update rejected", "err", err)
		return nil, err
	}
	c.frame, c.ctrl = f, f.Controller()
	c.tooltip.Hide()
	c.logger.Debug("updated", "cells", len(f.Cells), "duration", time.Since(start))
	return f, nil
}

// Frame returns the current frame, or nil before the first successful
// update.
func (c *Chart) Frame() (*Frame, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, c.closedErr()
	}
	return c.frame, nil
}

// snapshot returns the frame and the controller built from it.
func (c *Chart) snapshot() (*Frame, *interaction.Controller, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, nil, c.closedErr()
	}
	return c.frame, c.ctrl, nil
}

func (c *Chart) controller() (*interaction.Controller, error) {
	_, ctrl, err := c.snapshot()
	return ctrl, err
}

// Hover moves the pointer to p. ok is false when p is over no cell.
func (c *Chart) Hover(p interaction.Point) (h interaction.Hover, ok bool, err error) {
	h, _, ok, err = c.HoverFrame(p)
	return h, ok, err
}

// HoverFrame is [Chart.Hover] that also returns the frame the hover state
// belongs to, so cell indexes resolve against the same update even while
// another update replaces the chart's frame.
func (c *Chart) HoverFrame(p interaction.Point) (h interaction.Hover, f *Frame, ok bool, err error) {
	f, ctrl, err := c.snapshot()
	if err != nil || ctrl == nil {
		return interaction.Hover{}, nil, false, err
	}
	h, ok = ctrl.Move(p)
	if ok {
		c.tooltip.Show(h)
	} else {
		c.tooltip.Hide()
	}
	return h, f, ok, nil
}

// Tooltip returns what the chart's tooltip shows.
func (c *Chart) Tooltip() (interaction.TooltipView, error) {
	if _, _, err := c.snapshot(); err != nil {
		return interaction.TooltipView{}, err
	}
	return c.tooltip.View(), nil
}

// Current returns the hover state, if a cell is hovered.
func (c *Chart) Current() (interaction.Hover, bool) {
	ctrl, err := c.controller()
	if err != nil || ctrl == nil {
		return interaction.Hover{}, false
	}
	return ctrl.Current()
}

// Leave clears the hover state.
func (c *Chart) Leave() error {
	ctrl, err := c.controller()
	if err != nil {
		return err
	}
	if ctrl != nil {
		ctrl.Leave()
	}
	c.tooltip.Hide()
	return nil
}

// Click resolves the drill request for a click. ok is false when the
// click hits no cell.
func (c *Chart) Click(ev interaction.Click) (req interaction.DrillRequest, ok bool, err error) {
	ctrl, err := c.controller()
	if err != nil || ctrl == nil {
		return interaction.DrillRequest{}, false, err
	}
	req, ok, err = ctrl.Click(ev)
	if err != nil {
		c.logger.Warn("drill link skipped", "err", err)
	}
	return req, ok, nil
}

// Highlighted reports whether the cell is on the hovered ancestor path.
func (c *Chart) Highlighted(cell *Cell) bool {
	ctrl, err := c.controller()
	if err != nil || ctrl == nil {
		return false
	}
	return ctrl.Highlighted(cell.Node)
}

// Close releases the chart and its tooltip. Closing twice is a no-op.
func (c *Chart) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.frame, c.ctrl = nil, nil
	c.tooltip.Release()
	c.logger.Debug("closed")
	return nil
}

func (c *Chart) closedErr() error {
	return errors.New(errors.ErrCodeChartClosed, "chart %s is closed", c.id)
}
