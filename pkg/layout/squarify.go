package layout

import (
	"math"

	"github.com/matzehuels/treemap/pkg/tree"
)

// HeaderHeight is the strip reserved above depth-1 groups for their label.
const HeaderHeight = 16.0

// Options configures [Compute].
type Options struct {
	Width, Height float64

	// Ratio is the target aspect ratio of cells; values below 1 are
	// treated as 1 (square cells).
	Ratio float64

	PaddingInner float64
	PaddingOuter float64

	// PaddingTop returns the top inset for the children of a node at the
	// given depth. Nil means PaddingOuter.
	PaddingTop func(depth int) float64

	// Round snaps all coordinates to whole pixels.
	Round bool
}

// DefaultOptions returns the chart's layout settings for a width×height
// area: square cells, 1px outer and inner padding, a header strip over
// depth-1 groups and pixel rounding.
func DefaultOptions(width, height float64) Options {
	return Options{
		Width:        width,
		Height:       height,
		Ratio:        1,
		PaddingInner: 1,
		PaddingOuter: 1,
		PaddingTop: func(depth int) float64 {
			if depth == 1 {
				return HeaderHeight
			}
			return 0
		},
		Round: true,
	}
}

// New aggregates root with value and lays it out with opts.
func New(root *tree.Node, value func(*tree.Node) float64, opts Options) *Node {
	n := Hierarchy(root, value)
	Compute(n, opts)
	return n
}

// Compute assigns rectangles to root and all its descendants.
func Compute(root *Node, opts Options) {
	ratio := opts.Ratio
	if ratio < 1 {
		ratio = 1
	}
	top := opts.PaddingTop
	if top == nil {
		top = func(int) float64 { return opts.PaddingOuter }
	}

	root.X0, root.Y0 = 0, 0
	root.X1, root.Y1 = max(0, opts.Width), max(0, opts.Height)

	// padding[d] is the inset applied to every node at depth d before its
	// own children are tiled.
	padding := []float64{0}

	var position func(n *Node)
	position = func(n *Node) {
		p := padding[n.Depth-root.Depth]
		x0, y0, x1, y1 := n.X0+p, n.Y0+p, n.X1-p, n.Y1-p
		x0, x1 = collapse(x0, x1)
		y0, y1 = collapse(y0, y1)

		// A parent smaller than its header or padding collapses its
		// children onto an edge instead of letting them escape it.
		if n != root && n.Parent != nil {
			pr := n.Parent
			x0, x1 = clamp(x0, pr.X0, pr.X1), clamp(x1, pr.X0, pr.X1)
			y0, y1 = clamp(y0, pr.Y0, pr.Y1), clamp(y1, pr.Y0, pr.Y1)
		}
		n.X0, n.Y0, n.X1, n.Y1 = x0, y0, x1, y1

		if len(n.Children) == 0 {
			return
		}

		level := n.Depth - root.Depth + 1
		inner := opts.PaddingInner / 2
		if len(padding) <= level {
			padding = append(padding, inner)
		} else {
			padding[level] = inner
		}

		x0 += opts.PaddingOuter - inner
		y0 += top(n.Depth) - inner
		x1 -= opts.PaddingOuter - inner
		y1 -= opts.PaddingOuter - inner
		x0, x1 = collapse(x0, x1)
		y0, y1 = collapse(y0, y1)

		squarify(ratio, n, x0, y0, x1, y1)
		for _, c := range n.Children {
			position(c)
		}
	}
	position(root)

	if opts.Round {
		for _, n := range root.Descendants() {
			n.X0, n.Y0 = round(n.X0), round(n.Y0)
			n.X1, n.Y1 = round(n.X1), round(n.Y1)
		}
	}
}

// squarify tiles the children of parent into the given rectangle.
func squarify(ratio float64, parent *Node, x0, y0, x1, y1 float64) {
	nodes := parent.Children
	n := len(nodes)
	value := parent.Value

	i0, i1 := 0, 0
	for i0 < n {
		dx, dy := x1-x0, y1-y0

		// Find the next non-empty node.
		var sum float64
		for {
			sum = nodes[i1].Value
			i1++
			if sum != 0 || i1 >= n {
				break
			}
		}
		minValue, maxValue := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (value * ratio)
		beta := sum * sum * alpha
		minRatio := math.Max(maxValue/beta, beta/minValue)

		// Keep adding nodes while the aspect ratio maintains or improves.
		for ; i1 < n; i1++ {
			v := nodes[i1].Value
			sum += v
			minValue = math.Min(minValue, v)
			maxValue = math.Max(maxValue, v)
			beta = sum * sum * alpha
			newRatio := math.Max(maxValue/beta, beta/minValue)
			if newRatio > minRatio {
				sum -= v
				break
			}
			minRatio = newRatio
		}

		row := nodes[i0:i1]
		if dx < dy {
			rowY0, rowY1 := y0, y1
			if value != 0 {
				y0 += dy * sum / value
				rowY1 = y0
			}
			dice(row, sum, x0, rowY0, x1, rowY1)
		} else {
			rowX0, rowX1 := x0, x1
			if value != 0 {
				x0 += dx * sum / value
				rowX1 = x0
			}
			slice(row, sum, rowX0, y0, rowX1, y1)
		}
		value -= sum
		i0 = i1
	}
}

// dice lays nodes out left to right across the full height.
func dice(nodes []*Node, total, x0, y0, x1, y1 float64) {
	var k float64
	if total != 0 {
		k = (x1 - x0) / total
	}
	for _, n := range nodes {
		n.Y0, n.Y1 = y0, y1
		n.X0 = x0
		x0 += n.Value * k
		n.X1 = x0
	}
}

// slice lays nodes out top to bottom across the full width.
func slice(nodes []*Node, total, x0, y0, x1, y1 float64) {
	var k float64
	if total != 0 {
		k = (y1 - y0) / total
	}
	for _, n := range nodes {
		n.X0, n.X1 = x0, x1
		n.Y0 = y0
		y0 += n.Value * k
		n.Y1 = y0
	}
}

func collapse(a, b float64) (float64, float64) {
	if b < a {
		m := (a + b) / 2
		return m, m
	}
	return a, b
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round rounds half up, so a layout is pixel-identical regardless of sign
// conventions.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}
