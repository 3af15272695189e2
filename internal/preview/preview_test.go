package preview

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/query"
)

func salesResponse() *query.Response {
	row := func(region, product string, sales float64) query.Row {
		return query.Row{
			"region":  {Value: region, Links: []query.Link{{Label: "By region", URL: "/explore?region=" + region}}},
			"product": {Value: product},
			"sales":   {Value: sales},
		}
	}
	return &query.Response{
		Fields: query.Fields{
			Dimensions: []query.Field{{Name: "region"}, {Name: "product"}},
			Measures:   []query.Field{{Name: "sales", ValueFormat: "$#,##0"}},
		},
		Data: []query.Row{
			row("West", "A", 10),
			row("West", "B", 5),
			row("East", "A", 20),
		},
	}
}

func TestFrameSize(t *testing.T) {
	if got := FrameSize(100, 30); got.Width != 800 || got.Height != 480 {
		t.Errorf("FrameSize(100, 30) = %+v", got)
	}
	if p := PointAt(0, 0); p.X != 4 || p.Y != 8 {
		t.Errorf("PointAt(0, 0) = %+v", p)
	}
}

func TestGrid(t *testing.T) {
	size := FrameSize(100, 30)
	f, err := chart.NewFrame(context.Background(), salesResponse(), chart.FrameOptions{Width: size.Width, Height: size.Height})
	if err != nil {
		t.Fatal(err)
	}
	grid := Grid(f, 100, 30)
	if len(grid) != 30 || len(grid[0]) != 100 {
		t.Fatalf("grid is %dx%d", len(grid[0]), len(grid))
	}
	for col, idx := range grid[0] {
		if idx != -1 {
			t.Fatalf("breadcrumb row col %d = %d, want -1", col, idx)
		}
	}
	for _, row := range grid {
		for _, idx := range row {
			if idx < -1 || idx >= len(f.Cells) {
				t.Fatalf("index %d out of range", idx)
			}
		}
	}
	if got := f.Cells[grid[7][12]].Breadcrumb; got != "East-A: $20" {
		t.Errorf("cell at (12, 7) = %q, want East/A", got)
	}
	if Grid(nil, 3, 2)[1][2] != -1 {
		t.Error("empty frame should give an empty grid")
	}
}

func TestLabels(t *testing.T) {
	size := FrameSize(100, 30)
	f, err := chart.NewFrame(context.Background(), salesResponse(), chart.FrameOptions{Width: size.Width, Height: size.Height})
	if err != nil {
		t.Fatal(err)
	}
	ls := labels(f)
	if len(ls) != 2 {
		t.Fatalf("labels = %+v, want the two regions", ls)
	}
	for _, l := range ls {
		if l.row != 1 {
			t.Errorf("label %q on row %d, want the first chart row", l.text, l.row)
		}
	}
}

func ready(t *testing.T) Model {
	t.Helper()
	c := chart.New(chart.Options{ID: "preview"})
	var m tea.Model = New(context.Background(), c, salesResponse(), "sales by region")
	m, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30 + footerLines})
	if cmd == nil {
		t.Fatal("resize should trigger a layout")
	}
	m, _ = m.Update(cmd())
	model := m.(Model)
	if model.Err() != nil {
		t.Fatal(model.Err())
	}
	return model
}

func TestModelHoverAndClick(t *testing.T) {
	m := ready(t)
	if view := m.View(); !strings.Contains(view, "sales by region") || !strings.Contains(view, "East") {
		t.Errorf("initial view lacks title or labels:\n%s", view)
	}

	next, _ := m.Update(tea.MouseMsg{X: 12, Y: 7, Action: tea.MouseActionMotion})
	m = next.(Model)
	if !strings.Contains(m.View(), "East-A: $20") {
		t.Errorf("hover breadcrumb missing:\n%s", m.View())
	}

	next, _ = m.Update(tea.MouseMsg{X: 12, Y: 7, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(Model)
	if m.Drill() == nil || len(m.Drill().Links) != 1 {
		t.Fatalf("drill = %+v", m.Drill())
	}
	if !strings.Contains(m.View(), "By region") {
		t.Error("drill links not shown")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.Drill() != nil || strings.Contains(m.View(), "East-A: $20") {
		t.Error("esc should clear hover and drill")
	}

	// Breadcrumb row is outside every cell.
	next, _ = m.Update(tea.MouseMsg{X: 12, Y: 0, Action: tea.MouseActionMotion})
	m = next.(Model)
	if strings.Contains(m.View(), ": $") {
		t.Error("hover over the breadcrumb strip should show no cell")
	}
}

func TestModelKeys(t *testing.T) {
	m := ready(t)
	for range 7 {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(Model)
	}
	for range 12 {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
		m = next.(Model)
	}
	if !strings.Contains(m.View(), "East-A: $20") {
		t.Errorf("keyboard hover missing:\n%s", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not return tea.Quit")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"East", 10, "East"},
		{"Electronics", 5, "Elec…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
