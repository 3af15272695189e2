// Package color assigns fills to treemap cells.
//
// Every depth-1 group receives a base colour from an [Ordinal] scale over
// the chart's palette. Cells further down take their group's base colour
// blended toward a light grey, so nested levels fade as they get deeper:
//
//	scale := color.NewOrdinal(color.DefaultPalette)
//	fill := color.Fill(scale, node) // "none" for the root
//
// Palettes supplied by users are checked with [ParsePalette]; an invalid or
// empty palette falls back to [DefaultPalette].
package color
