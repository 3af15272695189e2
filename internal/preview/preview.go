// Package preview draws a treemap in the terminal and drives it with the
// mouse and keyboard the way a browser drives the SVG chart: moving over a
// cell shows its breadcrumb, clicking asks for its drill links.
package preview

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/color"
	"github.com/matzehuels/treemap/pkg/interaction"
	"github.com/matzehuels/treemap/pkg/query"
)

// Lines below the chart: drill links and key help.
const footerLines = 2

var (
	styleCrumb = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleLink  = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true)
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
)

// frameMsg carries the result of a re-layout.
type frameMsg struct {
	frame *chart.Frame
	err   error
}

// Model is the bubbletea model of a terminal chart.
type Model struct {
	ctx   context.Context
	chart *chart.Chart
	resp  *query.Response
	title string

	frame      *chart.Frame
	grid       [][]int
	cols, rows int

	cursorCol, cursorRow int
	hover                interaction.Hover
	hovered              bool
	drill                *interaction.DrillRequest
	err                  error
}

// New returns a model that lays resp out on c whenever the terminal is
// resized.
func New(ctx context.Context, c *chart.Chart, resp *query.Response, title string) Model {
	return Model{ctx: ctx, chart: c, resp: resp, title: title}
}

// Drill returns the last drill request made with a click or enter.
func (m Model) Drill() *interaction.DrillRequest { return m.drill }

// Err returns the last update error.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-footerLines, 2)
		return m, m.layout()

	case frameMsg:
		m.frame, m.err = msg.frame, msg.err
		m.grid = Grid(m.frame, m.cols, m.rows)
		m.hovered = false
		m.drill = nil
		return m, nil

	case tea.MouseMsg:
		switch {
		case msg.Action == tea.MouseActionMotion:
			m = m.moveTo(msg.X, msg.Y)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m = m.moveTo(msg.X, msg.Y).click()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.drill = nil
			m.hovered = false
			m.chart.Leave()
		case "up", "k":
			m = m.moveTo(m.cursorCol, m.cursorRow-1)
		case "down", "j":
			m = m.moveTo(m.cursorCol, m.cursorRow+1)
		case "left", "h":
			m = m.moveTo(m.cursorCol-1, m.cursorRow)
		case "right", "l":
			m = m.moveTo(m.cursorCol+1, m.cursorRow)
		case "enter", " ":
			m = m.click()
		}
	}
	return m, nil
}

// layout re-runs the chart update at the terminal's size.
func (m Model) layout() tea.Cmd {
	ctx, c, resp, size := m.ctx, m.chart, m.resp, FrameSize(m.cols, m.rows)
	return func() tea.Msg {
		f, err := c.Update(ctx, resp, size)
		return frameMsg{frame: f, err: err}
	}
}

func (m Model) moveTo(col, row int) Model {
	m.cursorCol = clamp(col, 0, m.cols-1)
	m.cursorRow = clamp(row, 0, m.rows-1)
	h, ok, err := m.chart.Hover(PointAt(m.cursorCol, m.cursorRow))
	if err != nil {
		m.err = err
	}
	m.hover, m.hovered = h, ok
	return m
}

func (m Model) click() Model {
	p := PointAt(m.cursorCol, m.cursorRow)
	req, ok, err := m.chart.Click(interaction.Click{ClientX: p.X, ClientY: p.Y})
	if err != nil {
		m.err = err
	}
	if ok {
		m.drill = &req
	} else {
		m.drill = nil
	}
	return m
}

func (m Model) View() string {
	if m.cols == 0 {
		return ""
	}
	var b strings.Builder

	crumb := m.title
	if tip, err := m.chart.Tooltip(); err == nil && tip.Visible {
		crumb = tip.Text
	}
	b.WriteString(styleCrumb.Render(truncate(crumb, m.cols)))
	b.WriteString("\n")

	lines := m.chartLines()
	for i := 1; i < len(lines); i++ {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}

	b.WriteString(m.footer())
	b.WriteString("\n")
	b.WriteString(styleDim.Render(truncate("mouse/arrows: hover  click/enter: drill  esc: clear  q: quit", m.cols)))
	return b.String()
}

// chartLines renders the grid row by row, filling each character with the
// colour of the cell beneath it and overlaying the group labels.
func (m Model) chartLines() []string {
	text := make([][]rune, m.rows)
	for row := range text {
		text[row] = []rune(strings.Repeat(" ", m.cols))
	}
	for _, l := range labels(m.frame) {
		if l.row <= 0 || l.row >= m.rows {
			continue
		}
		for i, r := range []rune(truncate(l.text, l.width)) {
			if col := l.col + i; col < m.cols {
				text[l.row][col] = r
			}
		}
	}

	hoveredIndex := -1
	if m.hovered && m.frame != nil {
		if c, ok := m.frame.CellFor(m.hover.Node); ok {
			hoveredIndex = c.Index
		}
	}

	lines := make([]string, m.rows)
	for row := 0; row < m.rows && row < len(m.grid); row++ {
		var b strings.Builder
		cols := min(len(m.grid[row]), m.cols)
		start := 0
		for col := 1; col <= cols; col++ {
			if col < cols && m.grid[row][col] == m.grid[row][start] {
				continue
			}
			b.WriteString(m.cellStyle(m.grid[row][start], hoveredIndex).Render(string(text[row][start:col])))
			start = col
		}
		lines[row] = b.String()
	}
	return lines
}

func (m Model) cellStyle(index, hovered int) lipgloss.Style {
	if index < 0 || m.frame == nil {
		return lipgloss.NewStyle()
	}
	style := styleLabel
	if fill := m.frame.Cells[index].Fill; fill != color.None {
		style = style.Background(lipgloss.Color(fill))
	}
	if index == hovered {
		style = style.Reverse(true)
	}
	return style
}

func (m Model) footer() string {
	switch {
	case m.err != nil:
		return styleError.Render(truncate(m.err.Error(), m.cols))
	case m.drill == nil:
		return ""
	case len(m.drill.Links) == 0:
		return styleDim.Render("no drill links")
	}
	parts := make([]string, len(m.drill.Links))
	for i, l := range m.drill.Links {
		parts[i] = styleLink.Render(l.Label) + styleDim.Render(" "+l.URL)
	}
	return strings.Join(parts, styleDim.Render("  ·  "))
}

// Run shows the chart until the user quits and returns the last drill
// request, if any.
func Run(ctx context.Context, c *chart.Chart, resp *query.Response, title string) (*interaction.DrillRequest, error) {
	p := tea.NewProgram(New(ctx, c, resp, title),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	m := final.(Model)
	return m.drill, m.err
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
