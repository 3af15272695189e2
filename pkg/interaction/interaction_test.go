package interaction

import (
	"fmt"
	"net/url"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/query"
	"github.com/matzehuels/treemap/pkg/tree"
	"github.com/matzehuels/treemap/pkg/valueformat"
)

func TestPlaceTooltip(t *testing.T) {
	const width = 600.0

	tests := []struct {
		name      string
		p         Point
		wantLeft  float64
		wantTop   float64
		wantArrow ArrowSide
	}{
		{"centre", Point{300, 300}, 300 - 86.5, 170, ArrowBottom},
		{"left edge", Point{5, 300}, 0, 170, ArrowBottom},
		{"right edge", Point{598, 300}, width - TooltipWidth, 170, ArrowBottom},
		{"top edge flips", Point{300, 40}, 300 - 86.5, 60, ArrowTop},
		{"exactly at rise", Point{300, 130}, 300 - 86.5, 0, ArrowBottom},
		{"bottom edge", Point{300, 599}, 300 - 86.5, 469, ArrowBottom},
		{"top-left corner", Point{0, 0}, 0, TooltipDrop, ArrowTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlaceTooltip(tt.p, width)
			if got.Left != tt.wantLeft || got.Top != tt.wantTop || got.Arrow != tt.wantArrow {
				t.Errorf("PlaceTooltip(%v) = %+v, want left %v top %v arrow %s",
					tt.p, got, tt.wantLeft, tt.wantTop, tt.wantArrow)
			}
			if got.ArrowLeft < 0 || got.ArrowLeft > TooltipWidth {
				t.Errorf("arrow offset %v outside the box", got.ArrowLeft)
			}
		})
	}
}

func TestPlaceTooltipBounds(t *testing.T) {
	for _, width := range []float64{200, 480, 1024} {
		for x := -50.0; x <= width+50; x += 7 {
			for _, y := range []float64{0, 129, 131, 500} {
				pl := PlaceTooltip(Point{x, y}, width)
				if pl.Left < 0 || pl.Left > width-TooltipWidth {
					t.Fatalf("width %v x %v: left %v outside [0, %v]", width, x, pl.Left, width-TooltipWidth)
				}
				if flipped := pl.Arrow == ArrowTop; flipped != (y-TooltipRise < 0) {
					t.Fatalf("y %v: flipped = %v", y, flipped)
				}
			}
		}
	}

	// Narrower than the tooltip: pinned to the left edge.
	if pl := PlaceTooltip(Point{50, 200}, 100); pl.Left != 0 {
		t.Errorf("narrow chart left = %v, want 0", pl.Left)
	}
}

func TestWithVis(t *testing.T) {
	vis := Identity{Type: "treemap", ID: "abc"}.Encode()

	got, err := WithVis("https://example.com/explore?fields=a&f=1", vis)
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get(VisParam) != `{"type":"treemap","id":"abc"}` {
		t.Errorf("vis = %q", u.Query().Get(VisParam))
	}
	if u.Query().Get("fields") != "a" || u.Query().Get("f") != "1" {
		t.Errorf("existing parameters lost: %s", got)
	}

	got, err = WithVis("/explore/model/view?x=1", vis)
	if err != nil {
		t.Fatal(err)
	}
	if u, _ := url.Parse(got); u.Path != "/explore/model/view" || u.Query().Get(VisParam) == "" {
		t.Errorf("relative URL = %s", got)
	}

	for _, bad := range []string{"", "javascript:alert(1)", "explore/x", "ftp://host/file"} {
		if _, err := WithVis(bad, vis); !errors.Is(err, errors.ErrCodeInvalidURL) {
			t.Errorf("WithVis(%q) error = %v, want %s", bad, err, errors.ErrCodeInvalidURL)
		}
	}
}

func TestDrillLinks(t *testing.T) {
	region := query.Field{Name: "region"}
	row := query.Row{
		"region": {Value: "West", Links: []query.Link{
			{Label: "Explore", URL: "/explore/sales?r=West"},
			{Label: "Broken", URL: "not a url"},
			{Label: "Dashboard", URL: "https://bi.example.com/dash/1", Type: "dashboard"},
		}},
		"product": {Value: "A", Links: []query.Link{{Label: "Ignored", URL: "/x"}}},
	}
	id := Identity{Type: "treemap", ID: "42"}

	links, err := DrillLinks(row, region, id)
	if err == nil {
		t.Error("expected error for the invalid link")
	}
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	if links[0].Label != "Explore" || links[1].Label != "Dashboard" || links[1].Type != "dashboard" {
		t.Errorf("links = %+v", links)
	}
	for _, l := range links {
		u, _ := url.Parse(l.URL)
		var got Identity
		if err := json.Unmarshal([]byte(u.Query().Get(VisParam)), &got); err != nil || got != id {
			t.Errorf("%s: identity = %+v (%v), want %+v", l.Label, got, err, id)
		}
	}

	if links, err := DrillLinks(row, query.Field{Name: "missing"}, id); links != nil || err != nil {
		t.Errorf("missing field = %v, %v", links, err)
	}
}

func TestClickPage(t *testing.T) {
	ev := Click{ClientX: 10, ClientY: 20, ScrollX: 100, ScrollY: 200}
	if got := ev.Page(); got.PageX != 110 || got.PageY != 220 {
		t.Errorf("Page() = %+v", got)
	}
}

func chartRoot(t *testing.T) *layout.Node {
	t.Helper()
	dims := []query.Field{{Name: "region"}, {Name: "product"}}
	row := func(r, p string, v float64) query.Row {
		return query.Row{
			"region":  {Value: r, Links: []query.Link{{Label: "Drill " + r, URL: "/drill?region=" + r}}},
			"product": {Value: p},
			"sales":   {Value: v},
		}
	}
	return layout.New(tree.FromRows([]query.Row{
		row("West", "A", 10),
		row("West", "B", 5),
		row("East", "A", 20),
	}, dims), func(n *tree.Node) float64 {
		return query.Measure(n.Row, query.Field{Name: "sales"})
	}, layout.DefaultOptions(800, 584))
}

func center(n *layout.Node, top float64) Point {
	return Point{X: (n.X0 + n.X1) / 2, Y: (n.Y0+n.Y1)/2 + top}
}

func TestControllerHover(t *testing.T) {
	root := chartRoot(t)
	c := NewController(root, Options{
		Width:  800,
		Top:    layout.HeaderHeight,
		Format: valueformat.ParseOrPlain("$#,##0"),
	})

	if c.State() != Idle {
		t.Fatalf("initial state = %s", c.State())
	}

	eastA := root.Children[0].Children[0]
	h, ok := c.Move(center(eastA, layout.HeaderHeight))
	if !ok {
		t.Fatal("Move over East/A should hover")
	}
	if h.Breadcrumb != "East-A: $20" {
		t.Errorf("breadcrumb = %q, want %q", h.Breadcrumb, "East-A: $20")
	}
	if c.State() != Hovered {
		t.Errorf("state = %s, want hovered", c.State())
	}
	for _, n := range []*layout.Node{eastA, eastA.Parent, root} {
		if !c.Highlighted(n) {
			t.Errorf("%v should be highlighted", n.Path())
		}
	}
	if c.Highlighted(root.Children[1]) {
		t.Error("West should not be highlighted")
	}

	// Moving within the same cell only moves the tooltip.
	p := center(eastA, layout.HeaderHeight)
	p.X += 3
	h2, _ := c.Move(p)
	if h2.Node != eastA || h2.Tooltip == h.Tooltip {
		t.Errorf("tooltip should follow the pointer: %+v vs %+v", h2.Tooltip, h.Tooltip)
	}

	// The breadcrumb strip is outside every cell.
	if _, ok := c.Move(Point{X: 10, Y: 5}); ok {
		t.Error("pointer over the breadcrumb strip should not hover")
	}
	if c.State() != Idle {
		t.Errorf("state after leaving = %s", c.State())
	}
	if _, ok := c.Current(); ok {
		t.Error("Current should report nothing hovered")
	}
}

func TestControllerGroupHeader(t *testing.T) {
	root := chartRoot(t)
	c := NewController(root, Options{Width: 800, Top: layout.HeaderHeight})

	west := root.Children[1]
	h := c.Enter(west, Point{X: west.X0 + 5, Y: west.Y0 + 5})
	if h.Breadcrumb != "West: 15" {
		t.Errorf("breadcrumb = %q", h.Breadcrumb)
	}
	// The header strip of a group belongs to the group itself.
	n, ok := c.At(Point{X: west.X0 + 5, Y: west.Y0 + 5 + layout.HeaderHeight})
	if !ok || n != west {
		t.Errorf("At(header) = %v, want West", n)
	}
	c.Leave()
	if c.Highlighted(west) {
		t.Error("Leave should clear the highlight")
	}
}

func TestControllerClick(t *testing.T) {
	root := chartRoot(t)
	id := Identity{Type: "treemap", ID: "chart-1"}
	c := NewController(root, Options{
		Width:     800,
		Top:       layout.HeaderHeight,
		Dimension: query.Field{Name: "region"},
		Identity:  id,
	})

	westB := root.Children[1].Children[1]
	p := center(westB, layout.HeaderHeight)
	req, ok, err := c.Click(Click{ClientX: p.X, ClientY: p.Y, ScrollY: 50})
	if err != nil || !ok {
		t.Fatalf("Click = %v, %v", ok, err)
	}
	if len(req.Links) != 1 || req.Links[0].Label != "Drill West" {
		t.Fatalf("links = %+v", req.Links)
	}
	u, _ := url.Parse(req.Links[0].URL)
	if u.Query().Get("region") != "West" || u.Query().Get(VisParam) != id.Encode() {
		t.Errorf("drill URL = %s", req.Links[0].URL)
	}
	if req.Event.PageX != p.X || req.Event.PageY != p.Y+50 {
		t.Errorf("event = %+v", req.Event)
	}
	if c.State() != Idle {
		t.Error("click should not change the hover state")
	}

	// Groups carry no row.
	req, ok, err = c.Drill(root.Children[1], Click{})
	if err != nil || !ok || len(req.Links) != 0 {
		t.Errorf("group drill = %+v, %v, %v", req, ok, err)
	}

	if _, ok, _ := c.Click(Click{ClientX: -10, ClientY: -10}); ok {
		t.Error("click outside the chart should miss")
	}
}

func ExamplePlaceTooltip() {
	pl := PlaceTooltip(Point{X: 20, Y: 50}, 400)
	fmt.Println(pl.Left, pl.Top, pl.Arrow)
	// Output: 0 70 top
}

func TestTooltipSurface(t *testing.T) {
	tip := NewTooltip()
	if tip.View().Visible {
		t.Fatal("new tooltip should be hidden")
	}

	h := Hover{Breadcrumb: "East-A: $20", Value: "$20", Tooltip: PlaceTooltip(Point{X: 100, Y: 200}, 400)}
	tip.Show(h)
	want := TooltipView{Visible: true, Text: "East-A: $20", Value: "$20", Placement: h.Tooltip}
	if got := tip.View(); got != want {
		t.Errorf("View() = %+v, want %+v", got, want)
	}

	tip.Hide()
	if tip.View().Visible {
		t.Error("Hide should clear the tooltip")
	}

	tip.Show(h)
	tip.Release()
	tip.Release()
	tip.Show(h)
	if !tip.Released() || tip.View().Visible {
		t.Error("a released tooltip should stay hidden")
	}
}
