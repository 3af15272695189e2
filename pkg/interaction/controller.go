package interaction

import (
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/query"
	"github.com/matzehuels/treemap/pkg/valueformat"
)

// State is the hover state of a chart.
type State int

const (
	Idle State = iota
	Hovered
)

func (s State) String() string {
	if s == Hovered {
		return "hovered"
	}
	return "idle"
}

// Options configures a [Controller].
type Options struct {
	Width float64
	// Top is the height of the breadcrumb strip above the layout. Pointer
	// positions are chart-relative and shifted by Top before hit testing.
	Top       float64
	Format    valueformat.Format
	Dimension query.Field // first dimension, the source of drill links
	Identity  Identity
}

// Hover describes what a hovered cell shows.
type Hover struct {
	Node       *layout.Node   `json:"-"`
	Path       []string       `json:"path"`
	Breadcrumb string         `json:"breadcrumb"`
	Value      string         `json:"value"`
	Highlight  []*layout.Node `json:"-"`
	Tooltip    Placement      `json:"tooltip"`
}

// Controller binds hover and click handling to one laid-out tree. It is
// replaced, not updated, when the chart re-renders.
type Controller struct {
	root *layout.Node
	opts Options

	mu    sync.Mutex
	state State
	hover Hover
}

// NewController returns an idle controller over root.
func NewController(root *layout.Node, opts Options) *Controller {
	if opts.Format == (valueformat.Format{}) {
		opts.Format = valueformat.Plain
	}
	return &Controller{root: root, opts: opts}
}

// Root returns the tree the controller reads.
func (c *Controller) Root() *layout.Node { return c.root }

// State returns the current hover state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the hover description and whether a cell is hovered.
func (c *Controller) Current() (Hover, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hover, c.state == Hovered
}

// Enter moves to the hovered state for n with the pointer at p.
func (c *Controller) Enter(n *layout.Node, p Point) Hover {
	h := Hover{
		Node:       n,
		Path:       n.Path(),
		Breadcrumb: Breadcrumb(n, c.opts.Format),
		Value:      c.opts.Format.Format(n.Value),
		Highlight:  n.Ancestors(),
		Tooltip:    PlaceTooltip(p, c.opts.Width),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Hovered
	c.hover = h
	return h
}

// Move follows the pointer: it enters the deepest cell under p, or
// leaves when p is outside every cell. The second result is false when
// nothing is hovered afterwards.
func (c *Controller) Move(p Point) (Hover, bool) {
	n, ok := c.At(p)
	if !ok {
		c.Leave()
		return Hover{}, false
	}

	c.mu.Lock()
	if c.state == Hovered && c.hover.Node == n {
		c.hover.Tooltip = PlaceTooltip(p, c.opts.Width)
		h := c.hover
		c.mu.Unlock()
		return h, true
	}
	c.mu.Unlock()
	return c.Enter(n, p), true
}

// At returns the deepest non-root cell under the chart-relative point p.
func (c *Controller) At(p Point) (*layout.Node, bool) {
	n, ok := c.root.HitTest(p.X, p.Y-c.opts.Top)
	if !ok || n == c.root {
		return nil, false
	}
	return n, true
}

// Leave returns to the idle state, clearing breadcrumb and highlight.
func (c *Controller) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Idle
	c.hover = Hover{}
}

// Highlighted reports whether n is on the hovered cell's ancestor path.
func (c *Controller) Highlighted(n *layout.Node) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Hovered && slices.Contains(c.hover.Highlight, n)
}

// Click resolves the drill request for the cell under the click. It does
// not touch the hover state. ok is false when the click hits no cell.
func (c *Controller) Click(ev Click) (req DrillRequest, ok bool, err error) {
	n, hit := c.At(ev.Point())
	if !hit {
		return DrillRequest{}, false, nil
	}
	return c.Drill(n, ev)
}

// Drill builds the drill request for n. Cells without a row yield an
// empty link list.
func (c *Controller) Drill(n *layout.Node, ev Click) (DrillRequest, bool, error) {
	req := DrillRequest{Links: []query.Link{}, Event: ev.Page()}
	if !n.Tree.HasPayload() {
		return req, true, nil
	}
	links, err := DrillLinks(n.Tree.Row, c.opts.Dimension, c.opts.Identity)
	if links != nil {
		req.Links = links
	}
	return req, true, err
}

// Breadcrumb returns the "a-b-c: value" text shown while n is hovered.
func Breadcrumb(n *layout.Node, f valueformat.Format) string {
	return strings.Join(n.Path(), "-") + ": " + f.Format(n.Value)
}
