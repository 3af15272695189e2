package interaction

import "sync"

const (
	// TooltipWidth is the fixed width of the tooltip box.
	TooltipWidth = 173.0

	// TooltipRise is how far above the pointer the tooltip box starts.
	TooltipRise = 130.0

	// TooltipDrop is the gap below the pointer when the tooltip flips.
	TooltipDrop = 20.0

	arrowMargin = 10.0
)

// Point is a position relative to the chart's top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ArrowSide is the edge of the tooltip its arrow sits on.
type ArrowSide string

const (
	ArrowBottom ArrowSide = "bottom"
	ArrowTop    ArrowSide = "top"
)

// Placement is where the tooltip box is drawn for a pointer position.
type Placement struct {
	Left  float64   `json:"left"`
	Top   float64   `json:"top"`
	Arrow ArrowSide `json:"arrow"`

	// ArrowLeft is the arrow's offset from the box's left edge.
	ArrowLeft float64 `json:"arrow_left"`
}

// PlaceTooltip centres the tooltip horizontally on p, clamped to
// [0, visWidth-TooltipWidth]. It normally sits TooltipRise above the
// pointer with the arrow at the bottom; when that would leave the chart
// it flips below the pointer with the arrow on top.
func PlaceTooltip(p Point, visWidth float64) Placement {
	left := p.X - TooltipWidth/2
	left = min(left, visWidth-TooltipWidth)
	left = max(left, 0)

	pl := Placement{Left: left, Top: p.Y - TooltipRise, Arrow: ArrowBottom}
	if p.Y-TooltipRise < 0 {
		pl.Top = p.Y + TooltipDrop
		pl.Arrow = ArrowTop
	}
	pl.ArrowLeft = max(arrowMargin, min(TooltipWidth-arrowMargin, p.X-left))
	return pl
}

// Tooltip is the floating box a chart shows over the hovered cell. Each
// chart acquires its own on creation and releases it when torn down; a
// released tooltip ignores further updates.
type Tooltip struct {
	mu       sync.Mutex
	view     TooltipView
	released bool
}

// TooltipView is what a tooltip currently shows.
type TooltipView struct {
	Visible   bool      `json:"visible"`
	Text      string    `json:"text,omitempty"`
	Value     string    `json:"value,omitempty"`
	Placement Placement `json:"placement"`
}

func NewTooltip() *Tooltip { return &Tooltip{} }

// Show displays the breadcrumb and value of h at its placement.
func (t *Tooltip) Show(h Hover) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.view = TooltipView{Visible: true, Text: h.Breadcrumb, Value: h.Value, Placement: h.Tooltip}
}

func (t *Tooltip) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.view = TooltipView{}
}

func (t *Tooltip) View() TooltipView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Release hides the tooltip for good. Releasing twice is a no-op.
func (t *Tooltip) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.released = true
	t.view = TooltipView{}
}

func (t *Tooltip) Released() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}
