// Package render turns treemap frames into output documents.
//
// # Formats
//
//   - SVG ([RenderSVG]): the chart itself, with inline CSS and script for
//     the hover breadcrumb and ancestor highlight.
//   - HTML ([RenderHTML]): a standalone page embedding the SVG plus a
//     tooltip that follows the pointer and posts drill requests to the
//     parent window on click.
//   - JSON ([RenderJSON]): the cell list for other renderers.
//   - PNG and PDF ([ToPNG], [ToPDF]): static conversions of the SVG using
//     the external rsvg-convert tool (from librsvg).
//
// [Render] dispatches on a format name:
//
//	out, err := render.Render(ctx, frame, render.FormatSVG)
package render
