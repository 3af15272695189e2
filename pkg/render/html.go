package render

import (
	"bytes"
	"fmt"
	"html"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/interaction"
	"github.com/matzehuels/treemap/pkg/query"
)

const tooltipCSS = `
    body { margin: 0; font-family: Helvetica, Arial, sans-serif; }
    #vis { position: relative; overflow: hidden; }
    .treemap-tooltip { position: absolute; width: %gpx; box-sizing: border-box; padding: 8px 10px;
      background: #fff; border: 1px solid #ccc; border-radius: 4px; box-shadow: 0 2px 6px rgba(0,0,0,.2);
      font-size: 12px; pointer-events: none; display: none; }
    .treemap-tooltip.visible { display: block; }
    .treemap-tooltip .title { font-weight: bold; margin-bottom: 4px; word-wrap: break-word; }
    .treemap-tooltip .arrow { position: absolute; width: 0; height: 0; margin-left: -7px;
      border-left: 7px solid transparent; border-right: 7px solid transparent; }
    .treemap-tooltip.arrow-bottom .arrow { bottom: -7px; border-top: 7px solid #ccc; }
    .treemap-tooltip.arrow-top .arrow { top: -7px; border-bottom: 7px solid #ccc; }`

const tooltipJS = `
    (function() {
      const TOOLTIP_WIDTH = %g, TOOLTIP_RISE = %g, TOOLTIP_DROP = %g, ARROW_MARGIN = 10;
      const data = JSON.parse(document.getElementById('treemap-data').textContent);
      const vis = document.getElementById('vis');
      const tip = document.getElementById('tooltip');
      const nodes = Array.from(vis.querySelectorAll('g.node'));
      const crumb = vis.querySelector('text.breadcrumb');

      function place(x, y) {
        const left = Math.max(0, Math.min(x - TOOLTIP_WIDTH / 2, vis.clientWidth - TOOLTIP_WIDTH));
        let top = y - TOOLTIP_RISE, arrow = 'bottom';
        if (y - TOOLTIP_RISE < 0) { top = y + TOOLTIP_DROP; arrow = 'top'; }
        tip.style.left = left + 'px';
        tip.style.top = top + 'px';
        tip.classList.toggle('arrow-top', arrow === 'top');
        tip.classList.toggle('arrow-bottom', arrow === 'bottom');
        const offset = Math.max(ARROW_MARGIN, Math.min(TOOLTIP_WIDTH - ARROW_MARGIN, x - left));
        tip.querySelector('.arrow').style.left = offset + 'px';
      }
      function local(ev) {
        const r = vis.getBoundingClientRect();
        return [ev.clientX - r.left, ev.clientY - r.top];
      }
      function clear() {
        nodes.forEach(n => n.classList.remove('highlight'));
        crumb.textContent = '';
        tip.classList.remove('visible');
      }
      nodes.forEach(el => {
        const cell = data.cells[+el.dataset.index];
        if (cell.depth === 0) return;
        el.addEventListener('mouseenter', ev => {
          clear();
          for (let i = cell.index; i >= 0; i = data.cells[i].parent) nodes[i].classList.add('highlight');
          crumb.textContent = cell.breadcrumb;
          tip.querySelector('.title').textContent = cell.path.join(' - ');
          tip.querySelector('.value').textContent = data.measure + ': ' + cell.formatted;
          tip.classList.add('visible');
          place(...local(ev));
        });
        el.addEventListener('mousemove', ev => place(...local(ev)));
        el.addEventListener('mouseleave', clear);
        el.addEventListener('click', ev => {
          ev.stopPropagation();
          const links = cell.links || [];
          const request = {
            links: links,
            event: { pageX: ev.clientX + window.scrollX, pageY: ev.clientY + window.scrollY }
          };
          window.parent.postMessage({ type: 'treemap:drill', chart: data.id, request: request }, '*');
        });
      });
    })();`

type htmlData struct {
	ID      string     `json:"id"`
	Measure string     `json:"measure"`
	Cells   []htmlCell `json:"cells"`
}

type htmlCell struct {
	Index      int          `json:"index"`
	Parent     int          `json:"parent"`
	Depth      int          `json:"depth"`
	Path       []string     `json:"path"`
	Formatted  string       `json:"formatted"`
	Breadcrumb string       `json:"breadcrumb"`
	Links      []query.Link `json:"links,omitempty"`
}

// RenderHTML renders f as a standalone HTML page with tooltip and drill
// handling. SVG options apply to the embedded chart; its own hover script
// is always replaced by the page script.
func RenderHTML(f *chart.Frame, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	r.static = true

	data := htmlData{ID: f.Identity.ID, Measure: f.Measure.DisplayLabel(), Cells: make([]htmlCell, len(f.Cells))}
	for i, c := range f.Cells {
		data.Cells[i] = htmlCell{
			Index:      c.Index,
			Parent:     c.Parent,
			Depth:      c.Depth,
			Path:       c.Path,
			Formatted:  c.Formatted,
			Breadcrumb: c.Breadcrumb,
			Links:      c.Links,
		}
	}
	// Marshal escapes <, > and & so the payload cannot close the script tag.
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode cells: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString("Treemap of "+f.Measure.DisplayLabel()))
	fmt.Fprintf(&buf, "<style>"+tooltipCSS+"\n</style>\n", interaction.TooltipWidth)
	buf.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&buf, "<div id=\"vis\" style=\"width:%spx;height:%spx\">\n", num(f.Width), num(f.Height))
	r.write(&buf, f, false)
	buf.WriteString("<div id=\"tooltip\" class=\"treemap-tooltip arrow-bottom\"><div class=\"title\"></div><div class=\"value\"></div><div class=\"arrow\"></div></div>\n")
	buf.WriteString("</div>\n")
	fmt.Fprintf(&buf, "<script type=\"application/json\" id=\"treemap-data\">%s</script>\n", payload)
	fmt.Fprintf(&buf, "<script>"+tooltipJS+"\n</script>\n", interaction.TooltipWidth, interaction.TooltipRise, interaction.TooltipDrop)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}
