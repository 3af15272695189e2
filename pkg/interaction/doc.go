// Package interaction implements hover and click handling over a laid-out
// treemap.
//
// A [Controller] tracks which cell is hovered. Entering a cell highlights
// its ancestor path, sets the breadcrumb text and positions the tooltip
// with [PlaceTooltip]. Clicking a cell resolves the drill-through links of
// the row's first dimension into a [DrillRequest] for the host to open.
//
// Handlers never modify the layout; the hover state is the only thing they
// change.
package interaction
