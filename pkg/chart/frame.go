package chart

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/matzehuels/treemap/pkg/color"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/interaction"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/query"
	"github.com/matzehuels/treemap/pkg/tree"
	"github.com/matzehuels/treemap/pkg/valueformat"
)

const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	// VisType is the visualization type carried in drill link identities.
	VisType = "treemap"
)

// FrameOptions configures [NewFrame].
type FrameOptions struct {
	Width, Height float64

	// ColorRange overrides the palette of the response config.
	ColorRange []string

	// ValueFormat overrides the value format of the measure.
	ValueFormat string

	Identity interaction.Identity
	Logger   *log.Logger
}

// Frame is the laid-out result of one update.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Top is the height of the breadcrumb strip above the cells.
	Top float64 `json:"top"`

	Measure    query.Field          `json:"measure"`
	Dimensions []query.Field        `json:"dimensions"`
	Palette    []string             `json:"palette"`
	Identity   interaction.Identity `json:"identity"`
	Cells      []Cell               `json:"cells"`

	// Duplicates lists taxonomy paths shared by more than one row; only
	// the last of them is shown.
	Duplicates []string `json:"duplicates,omitempty"`

	Root   *layout.Node       `json:"-"`
	Format valueformat.Format `json:"-"`

	index map[*layout.Node]int
}

// Cell is one rendered rectangle. Cells are in breadth-first order, the
// root first.
type Cell struct {
	Index  int      `json:"index"`
	Parent int      `json:"parent"` // index of the parent cell, -1 for the root
	ID     string   `json:"id"`
	ClipID string   `json:"clip_id"`
	Name   string   `json:"name"`
	Path   []string `json:"path"`
	Depth  int      `json:"depth"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Value      float64 `json:"value"`
	Formatted  string  `json:"formatted"`
	Breadcrumb string  `json:"breadcrumb"`
	Fill       string  `json:"fill"`

	Label        string  `json:"label"`
	LabelVisible bool    `json:"label_visible"`
	LabelY       float64 `json:"label_y"`
	FontSize     int     `json:"font_size"`

	Links []query.Link `json:"links,omitempty"`

	Node *layout.Node `json:"-"`
}

// LabelX is the label inset from a cell's left edge.
const LabelX = 2.0

// Label geometry by depth. Only depth-1 labels are visible.
const (
	headerFontSize  = 14
	headerLabelY    = 13.0
	nestedFontSize  = 10
	nestedLabelY    = 10.0
	visibleLabelDep = 1
)

// NewFrame validates resp and lays it out in a width×height area. A query
// shape violation is returned before any layout work.
func NewFrame(ctx context.Context, resp *query.Response, opts FrameOptions) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCanceled, err, "update abandoned")
	}
	if resp == nil {
		resp = &query.Response{}
	}
	if err := query.Check(resp.Fields, query.TreemapConstraints); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	dims := resp.Fields.Dimensions
	measure := resp.Fields.Measures[0]

	palette := palette(resp, opts, logger)
	format := measureFormat(measure, opts, logger)

	entries := lo.Map(resp.Data, func(row query.Row, _ int) tree.Entry {
		return tree.Entry{Path: query.Taxonomy(row, dims), Row: row}
	})
	dups := tree.Duplicates(entries)
	if len(dups) > 0 {
		logger.Warn("rows share a taxonomy path, keeping the last", "paths", len(dups), "first", dups[0])
	}

	root := layout.New(tree.Build(entries), func(n *tree.Node) float64 {
		if !n.HasPayload() {
			return 0
		}
		return query.Measure(n.Row, measure)
	}, layout.DefaultOptions(width, max(0, height-layout.HeaderHeight)))

	f := &Frame{
		Width:      width,
		Height:     height,
		Top:        layout.HeaderHeight,
		Measure:    measure,
		Dimensions: dims,
		Palette:    palette,
		Identity:   opts.Identity,
		Duplicates: dups,
		Root:       root,
		Format:     format,
	}
	f.cells(color.NewOrdinal(palette), dims[0], logger)
	return f, nil
}

func palette(resp *query.Response, opts FrameOptions, logger *log.Logger) []string {
	colors := opts.ColorRange
	if len(colors) == 0 {
		colors = resp.Config.ColorRange
	}
	if len(colors) == 0 {
		return color.DefaultPalette
	}
	p, err := color.PaletteOrDefault(colors)
	if err != nil {
		logger.Warn("using default palette", "err", err)
	}
	return p
}

func measureFormat(measure query.Field, opts FrameOptions, logger *log.Logger) valueformat.Format {
	s := opts.ValueFormat
	if s == "" {
		s = measure.ValueFormat
	}
	f, err := valueformat.Parse(s)
	if err != nil {
		logger.Debug("value format not supported, using plain numbers", "format", s)
	}
	return f
}

func (f *Frame) cells(scale *color.Ordinal, first query.Field, logger *log.Logger) {
	nodes := f.Root.Descendants()
	f.Cells = make([]Cell, len(nodes))
	f.index = make(map[*layout.Node]int, len(nodes))

	for i, n := range nodes {
		c := Cell{
			Index:      i,
			Parent:     -1,
			ID:         "rect-" + strconv.Itoa(i),
			ClipID:     "clip-" + strconv.Itoa(i),
			Name:       n.Name(),
			Path:       n.Path(),
			Depth:      n.Depth,
			X:          n.X0,
			Y:          n.Y0,
			Width:      n.Width(),
			Height:     n.Height(),
			Value:      n.Value,
			Formatted:  f.Format.Format(n.Value),
			Breadcrumb: interaction.Breadcrumb(n, f.Format),
			Fill:       color.Fill(scale, n),
			Node:       n,
		}
		if n.Parent != nil {
			c.Parent = f.index[n.Parent]
			c.Label = n.Name()
		}
		c.LabelVisible = n.Depth == visibleLabelDep
		if n.Depth == visibleLabelDep {
			c.FontSize, c.LabelY = headerFontSize, headerLabelY
		} else {
			c.FontSize, c.LabelY = nestedFontSize, nestedLabelY
		}
		if n.Tree.HasPayload() {
			links, err := interaction.DrillLinks(n.Tree.Row, first, f.Identity)
			if err != nil {
				logger.Warn("skipping drill link", "cell", c.ID, "err", err)
			}
			c.Links = links
		}
		f.Cells[i] = c
		f.index[n] = i
	}
}

// CellFor returns the cell drawn for n.
func (f *Frame) CellFor(n *layout.Node) (*Cell, bool) {
	i, ok := f.index[n]
	if !ok {
		return nil, false
	}
	return &f.Cells[i], true
}

// Leaves returns the number of cells without children.
func (f *Frame) Leaves() int {
	return lo.CountBy(f.Cells, func(c Cell) bool { return len(c.Node.Children) == 0 && c.Depth > 0 })
}

// Controller returns a fresh interaction controller over the frame.
func (f *Frame) Controller() *interaction.Controller {
	return interaction.NewController(f.Root, interaction.Options{
		Width:     f.Width,
		Top:       f.Top,
		Format:    f.Format,
		Dimension: f.Dimensions[0],
		Identity:  f.Identity,
	})
}

// String summarizes the frame for logs.
func (f *Frame) String() string {
	return fmt.Sprintf("treemap %gx%g, %d cells, total %s", f.Width, f.Height, len(f.Cells), f.Format.Format(f.Root.Value))
}
