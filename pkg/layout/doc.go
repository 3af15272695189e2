// Package layout computes squarified treemap geometry for a [tree.Node]
// hierarchy.
//
// # Algorithm
//
// The tiling follows Bruls, Huizing and van Wijk's squarified treemap: the
// children of a node, sorted by value descending, are packed into rows
// along the shorter side of the remaining rectangle, and a row keeps
// growing while doing so does not worsen its worst aspect ratio relative
// to the target [Options.Ratio]. Each finished row consumes a strip whose
// thickness is proportional to the row's share of the parent value.
//
// Padding mirrors the usual treemap conventions: [Options.PaddingOuter]
// insets a parent's children from its edges, [Options.PaddingTop] may
// reserve a header strip per depth (the chart uses 16px at depth 1 for
// group labels) and [Options.PaddingInner] separates siblings.
//
// # Usage
//
//	root := layout.Hierarchy(treeRoot, measureOf)
//	layout.Compute(root, layout.DefaultOptions(800, 584))
//	for _, n := range root.Descendants() {
//	    fmt.Println(n.Name(), n.X0, n.Y0, n.X1, n.Y1)
//	}
//
// Layouts are rebuilt from scratch for every update; nothing is patched in
// place.
package layout
