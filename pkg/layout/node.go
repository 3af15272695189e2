package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/treemap/pkg/tree"
)

// Node is a tree node with its aggregated value and computed rectangle.
type Node struct {
	Tree     *tree.Node
	Parent   *Node
	Children []*Node
	Depth    int
	Value    float64

	X0, Y0, X1, Y1 float64
}

// Hierarchy wraps root and aggregates values bottom-up: a node's value is
// its own measure (as returned by value) plus the values of its children.
// Negative measures count as zero. Children are ordered by value
// descending, ties keeping first-seen order.
func Hierarchy(root *tree.Node, value func(*tree.Node) float64) *Node {
	return wrap(root, nil, value)
}

func wrap(t *tree.Node, parent *Node, value func(*tree.Node) float64) *Node {
	n := &Node{Tree: t, Parent: parent, Depth: t.Depth}
	if value != nil {
		n.Value = max(0, value(t))
	}
	n.Children = make([]*Node, 0, len(t.Children))
	for _, c := range t.Children {
		child := wrap(c, n, value)
		n.Value += child.Value
		n.Children = append(n.Children, child)
	}
	slices.SortStableFunc(n.Children, func(a, b *Node) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return n
}

// Name returns the underlying tree node name.
func (n *Node) Name() string { return n.Tree.Name }

// Width returns X1-X0.
func (n *Node) Width() float64 { return n.X1 - n.X0 }

// Height returns Y1-Y0.
func (n *Node) Height() float64 { return n.Y1 - n.Y0 }

// Area returns the rectangle area.
func (n *Node) Area() float64 { return n.Width() * n.Height() }

// Descendants returns n and all nodes below it in breadth-first order.
func (n *Node) Descendants() []*Node {
	out := []*Node{n}
	for i := 0; i < len(out); i++ {
		out = append(out, out[i].Children...)
	}
	return out
}

// Ancestors returns n followed by its parents up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}

// Path returns the names from the depth-1 ancestor down to n. The root
// contributes nothing.
func (n *Node) Path() []string {
	anc := n.Ancestors()
	names := make([]string, 0, len(anc))
	for i := len(anc) - 1; i >= 0; i-- {
		if anc[i].Parent == nil {
			continue
		}
		names = append(names, anc[i].Name())
	}
	return names
}

// TopAncestor returns the depth-1 ancestor of n (n itself at depth 1), or
// nil for the root.
func (n *Node) TopAncestor() *Node {
	if n.Parent == nil {
		return nil
	}
	cur := n
	for cur.Parent.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Leaves returns the leaves below n in depth-first order.
func (n *Node) Leaves() []*Node {
	if len(n.Children) == 0 {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Contains reports whether the point lies inside the rectangle. The right
// and bottom edges are exclusive.
func (n *Node) Contains(x, y float64) bool {
	return x >= n.X0 && x < n.X1 && y >= n.Y0 && y < n.Y1
}

// HitTest returns the deepest node whose rectangle contains the point.
func (n *Node) HitTest(x, y float64) (*Node, bool) {
	if !n.Contains(x, y) {
		return nil, false
	}
	cur := n
	for {
		var next *Node
		for _, c := range cur.Children {
			if c.Contains(x, y) {
				next = c
				break
			}
		}
		if next == nil {
			return cur, true
		}
		cur = next
	}
}
