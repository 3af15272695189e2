package tree

import (
	"strings"

	"github.com/matzehuels/treemap/pkg/query"
)

// RootName is the name of the synthetic root node.
const RootName = "root"

// Node is one group or leaf of the hierarchy.
type Node struct {
	Name     string
	Depth    int
	Children []*Node
	Row      query.Row // payload; nil for synthesized groups

	index map[string]*Node
}

// Entry is a row together with its taxonomy path.
type Entry struct {
	Path []string
	Row  query.Row
}

// HasPayload reports whether a row is attached to n.
func (n *Node) HasPayload() bool { return n.Row != nil }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Child returns the direct child named name.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.index[name]
	return c, ok
}

func (n *Node) child(name string) *Node {
	if c, ok := n.index[name]; ok {
		return c
	}
	if n.index == nil {
		n.index = make(map[string]*Node)
	}
	c := &Node{Name: name, Depth: n.Depth + 1}
	n.index[name] = c
	n.Children = append(n.Children, c)
	return c
}

// Build groups entries into a hierarchy rooted at a node named [RootName].
// Entries with an empty path are ignored.
func Build(entries []Entry) *Node {
	root := &Node{Name: RootName}
	for _, e := range entries {
		if len(e.Path) == 0 {
			continue
		}
		layer := root
		for _, seg := range e.Path {
			layer = layer.child(seg)
		}
		layer.Row = e.Row
	}
	return root
}

// FromRows builds the hierarchy for rows keyed by the given dimensions.
func FromRows(rows []query.Row, dims []query.Field) *Node {
	entries := make([]Entry, len(rows))
	for i, row := range rows {
		entries[i] = Entry{Path: query.Taxonomy(row, dims), Row: row}
	}
	return Build(entries)
}

// Duplicates returns each full path that occurs more than once in entries,
// joined with "/", in first-collision order.
func Duplicates(entries []Entry) []string {
	seen := make(map[string]int, len(entries))
	var dups []string
	for _, e := range entries {
		if len(e.Path) == 0 {
			continue
		}
		key := strings.Join(e.Path, "\x00")
		seen[key]++
		if seen[key] == 2 {
			dups = append(dups, strings.Join(e.Path, "/"))
		}
	}
	return dups
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Leaves returns the leaf nodes under n in pre-order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.IsLeaf() && c != n {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Find follows path from n and returns the node it ends at.
func (n *Node) Find(path ...string) (*Node, bool) {
	cur := n
	for _, seg := range path {
		next, ok := cur.Child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}
