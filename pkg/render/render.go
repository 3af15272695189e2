package render

import (
	"context"
	"slices"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/errors"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatHTML, FormatJSON, FormatPNG, FormatPDF}

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

var contentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatHTML: "text/html; charset=utf-8",
	FormatJSON: "application/json",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, html, json, png, pdf)", format)
	}
	return nil
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Render renders f in the given format. SVG options apply to the SVG and
// HTML formats; PNG and PDF always render a static, fixed-size SVG.
func Render(ctx context.Context, f *chart.Frame, format string, opts ...SVGOption) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case FormatHTML:
		return RenderHTML(f, opts...)
	case FormatJSON:
		return RenderJSON(f)
	case FormatPNG:
		return ToPNG(ctx, RenderSVG(f, WithStatic(), WithFixedSize()), DefaultScale)
	case FormatPDF:
		return ToPDF(ctx, RenderSVG(f, WithStatic(), WithFixedSize()))
	default:
		return RenderSVG(f, opts...), nil
	}
}
