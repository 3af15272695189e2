package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/interaction"
)

const (
	fontFamily     = "Helvetica, Arial, sans-serif"
	highlightColor = "#fff"
	breadcrumbX    = 4.0
	breadcrumbY    = -5.0
)

const nodeCSS = `
    .node { stroke-width: 1.5; cursor: pointer; }
    .node text { font-family: Helvetica, Arial, sans-serif; fill: white; pointer-events: none; }
    .node.highlight > rect { stroke: #fff; }
    .breadcrumb { font-family: Helvetica, Arial, sans-serif; font-size: 12px; fill: #333; }`

const nodeJS = `
    (function() {
      const nodes = Array.from(document.querySelectorAll('g.node'));
      const crumb = document.querySelector('text.breadcrumb');
      function clear() {
        nodes.forEach(n => n.classList.remove('highlight'));
        crumb.textContent = '';
      }
      nodes.forEach(el => {
        el.addEventListener('mouseenter', () => {
          clear();
          for (let i = +el.dataset.index; i >= 0; i = +nodes[i].dataset.parent) {
            nodes[i].classList.add('highlight');
          }
          crumb.textContent = el.dataset.breadcrumb;
        });
        el.addEventListener('mouseleave', clear);
      });
    })();`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	static    bool
	fixedSize bool
	hover     *interaction.Hover
}

// WithStatic leaves out the hover script, for conversions and previews.
func WithStatic() SVGOption { return func(r *svgRenderer) { r.static = true } }

// WithFixedSize sets width and height to the frame size instead of 100%.
func WithFixedSize() SVGOption { return func(r *svgRenderer) { r.fixedSize = true } }

// WithHover renders h as the current hover state: its breadcrumb is shown
// and its ancestor path is stroked.
func WithHover(h interaction.Hover) SVGOption {
	return func(r *svgRenderer) { r.hover = &h }
}

// RenderSVG renders f as an SVG document.
func RenderSVG(f *chart.Frame, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	r.write(&buf, f, true)
	return buf.Bytes()
}

func (r *svgRenderer) write(buf *bytes.Buffer, f *chart.Frame, standalone bool) {
	width, height := "100%", "100%"
	if r.fixedSize {
		width, height = num(f.Width), num(f.Height)
	}
	if standalone {
		buf.WriteString(xml.Header)
	}
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %s %s" width="%s" height="%s" data-chart="%s">`+"\n",
		num(f.Width), num(f.Height), width, height, EscapeXML(f.Identity.ID))
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", nodeCSS)
	fmt.Fprintf(buf, `  <g transform="translate(0,%s)">`+"\n", num(f.Top))

	crumb := ""
	highlight := map[int]bool{}
	if r.hover != nil && r.hover.Node != nil {
		crumb = r.hover.Breadcrumb
		for _, n := range r.hover.Highlight {
			if c, ok := f.CellFor(n); ok {
				highlight[c.Index] = true
			}
		}
	}
	fmt.Fprintf(buf, `    <text class="breadcrumb" x="%s" y="%s">%s</text>`+"\n", num(breadcrumbX), num(breadcrumbY), EscapeXML(crumb))

	for i := range f.Cells {
		renderCell(buf, &f.Cells[i], highlight[i])
	}
	buf.WriteString("  </g>\n")

	if !r.static {
		fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", nodeJS)
	}
	buf.WriteString("</svg>\n")
}

func renderCell(buf *bytes.Buffer, c *chart.Cell, highlighted bool) {
	class := "node depth-" + strconv.Itoa(c.Depth)
	if highlighted {
		class += " highlight"
	}
	fmt.Fprintf(buf, `    <g class="%s" transform="translate(%s,%s)" data-index="%d" data-parent="%d" data-breadcrumb="%s">`+"\n",
		class, num(c.X), num(c.Y), c.Index, c.Parent, EscapeXML(c.Breadcrumb))

	stroke := ""
	if highlighted {
		stroke = ";stroke:" + highlightColor
	}
	fmt.Fprintf(buf, `      <rect id="%s" width="%s" height="%s" style="fill:%s%s"/>`+"\n",
		c.ID, num(c.Width), num(c.Height), c.Fill, stroke)
	fmt.Fprintf(buf, `      <clipPath id="%s"><use xlink:href="#%s"/></clipPath>`+"\n", c.ClipID, c.ID)

	opacity := 0
	if c.LabelVisible {
		opacity = 1
	}
	fmt.Fprintf(buf, `      <text clip-path="url(#%s)" x="%s" y="%s" style="opacity:%d;font-family:%s;fill:white;font-size:%dpx">%s</text>`+"\n",
		c.ClipID, num(chart.LabelX), num(c.LabelY), opacity, fontFamily, c.FontSize, EscapeXML(c.Label))
	buf.WriteString("    </g>\n")
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
