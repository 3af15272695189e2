package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/interaction"
	"github.com/matzehuels/treemap/pkg/query"
)

func testFrame(t *testing.T) *chart.Frame {
	t.Helper()
	row := func(region, product string, sales float64) query.Row {
		return query.Row{
			"region":  {Value: region, Links: []query.Link{{Label: "Explore", URL: "/explore?r=" + region}}},
			"product": {Value: product},
			"sales":   {Value: sales},
		}
	}
	f, err := chart.NewFrame(context.Background(), &query.Response{
		Fields: query.Fields{
			Dimensions: []query.Field{{Name: "region"}, {Name: "product"}},
			Measures:   []query.Field{{Name: "sales", Label: "Sales"}},
		},
		Data: []query.Row{
			row("West", "A", 10),
			row("West", "B<&>", 5),
			row("East", "A", 20),
		},
	}, chart.FrameOptions{Width: 400, Height: 300, Identity: interaction.Identity{Type: "treemap", ID: "c1"}})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// wellFormed decodes every token of doc.
func wellFormed(t *testing.T, doc []byte) {
	t.Helper()
	d := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			t.Fatalf("malformed XML: %v", err)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	f := testFrame(t)
	svg := RenderSVG(f)
	wellFormed(t, svg)
	s := string(svg)

	for _, want := range []string{
		`width="100%" height="100%"`,
		`<g transform="translate(0,16)">`,
		`<text class="breadcrumb" x="4" y="-5"></text>`,
		`class="node depth-0"`,
		`id="rect-0"`,
		`style="fill:none"`,
		`<clipPath id="clip-5"><use xlink:href="#rect-5"/></clipPath>`,
		`clip-path="url(#clip-1)"`,
		`font-size:14px">East</text>`,
		`B&lt;&amp;&gt;`,
		`<script`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if got := strings.Count(s, `<g class="node`); got != len(f.Cells) {
		t.Errorf("rendered %d cells, want %d", got, len(f.Cells))
	}
	if strings.Contains(s, "highlight\"") {
		t.Error("no cell should be highlighted without hover")
	}
}

func TestRenderSVGStaticHover(t *testing.T) {
	f := testFrame(t)
	ctrl := f.Controller()
	eastA := f.Root.Children[0].Children[0]
	h := ctrl.Enter(eastA, interaction.Point{X: 10, Y: 10})

	svg := RenderSVG(f, WithStatic(), WithFixedSize(), WithHover(h))
	wellFormed(t, svg)
	s := string(svg)

	if strings.Contains(s, "<script") {
		t.Error("static SVG should have no script")
	}
	if !strings.Contains(s, `width="400" height="300"`) {
		t.Error("fixed size missing")
	}
	if !strings.Contains(s, `<text class="breadcrumb" x="4" y="-5">East-A: 20</text>`) {
		t.Error("breadcrumb missing")
	}
	// root, East and East/A
	if got := strings.Count(s, "stroke:#fff"); got != 3 {
		t.Errorf("highlighted rects = %d, want 3", got)
	}
}

func TestRenderHTML(t *testing.T) {
	f := testFrame(t)
	out, err := RenderHTML(f)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<div id="tooltip" class="treemap-tooltip arrow-bottom">`,
		"TOOLTIP_WIDTH = 173, TOOLTIP_RISE = 130, TOOLTIP_DROP = 20",
		"width: 173px",
		".treemap-tooltip.arrow-top .arrow",
		"postMessage",
		`id="treemap-data"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	// Only the page script; the SVG's own hover script is left out.
	if got := strings.Count(s, "<script"); got != 2 {
		t.Errorf("script tags = %d, want 2", got)
	}

	start := strings.Index(s, `id="treemap-data">`) + len(`id="treemap-data">`)
	end := strings.Index(s[start:], "</script>")
	var data htmlData
	if err := json.Unmarshal([]byte(s[start:start+end]), &data); err != nil {
		t.Fatalf("embedded data: %v", err)
	}
	if data.ID != "c1" || data.Measure != "Sales" || len(data.Cells) != len(f.Cells) {
		t.Errorf("data = %+v", data)
	}
	if strings.Contains(s[start:start+end], "<&>") {
		t.Error("embedded JSON should escape HTML characters")
	}
}

func TestRenderJSON(t *testing.T) {
	f := testFrame(t)
	out, err := RenderJSON(f)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Width float64 `json:"width"`
		Cells []struct {
			ID    string       `json:"id"`
			Fill  string       `json:"fill"`
			Links []query.Link `json:"links"`
		} `json:"cells"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got.Width != 400 || len(got.Cells) != 6 || got.Cells[0].Fill != "none" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestRenderDispatch(t *testing.T) {
	f := testFrame(t)
	ctx := context.Background()

	for _, format := range []string{FormatSVG, FormatHTML, FormatJSON} {
		out, err := Render(ctx, f, format)
		if err != nil || len(out) == 0 {
			t.Errorf("Render(%s) = %d bytes, %v", format, len(out), err)
		}
	}

	if _, err := Render(ctx, f, "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v", err)
	}

	if !ConverterAvailable() {
		if _, err := Render(ctx, f, FormatPNG); !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("PNG without converter = %v, want %s", err, errors.ErrCodeUnsupported)
		}
		return
	}
	png, err := Render(ctx, f, FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("not a PNG")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatSVG:  "image/svg+xml",
		FormatHTML: "text/html; charset=utf-8",
		FormatJSON: "application/json",
		"other":    "application/octet-stream",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%s) = %s, want %s", format, got, want)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`a<b>&"c"`); got != "a&lt;b&gt;&amp;&#34;c&#34;" {
		t.Errorf("EscapeXML = %s", got)
	}
}
