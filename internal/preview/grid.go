package preview

import (
	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/interaction"
)

// Pixel size of one terminal character. A frame laid out at
// cols*CharWidth by rows*CharHeight maps onto the terminal one to one,
// and the breadcrumb strip takes exactly the first row.
const (
	CharWidth  = 8.0
	CharHeight = 16.0
)

// FrameSize is the chart size that fills a cols×rows character area.
func FrameSize(cols, rows int) chart.Size {
	return chart.Size{Width: float64(cols) * CharWidth, Height: float64(rows) * CharHeight}
}

// PointAt returns the chart-relative point at the centre of character
// (col, row).
func PointAt(col, row int) interaction.Point {
	return interaction.Point{
		X: (float64(col) + 0.5) * CharWidth,
		Y: (float64(row) + 0.5) * CharHeight,
	}
}

// Grid returns, for every character of a cols×rows area, the index of the
// deepest cell drawn there, or -1 where only the root or nothing is.
func Grid(f *chart.Frame, cols, rows int) [][]int {
	grid := make([][]int, rows)
	for row := range grid {
		grid[row] = make([]int, cols)
		for col := range grid[row] {
			grid[row][col] = -1
			if f == nil {
				continue
			}
			p := PointAt(col, row)
			n, ok := f.Root.HitTest(p.X, p.Y-f.Top)
			if !ok || n == f.Root {
				continue
			}
			if c, ok := f.CellFor(n); ok {
				grid[row][col] = c.Index
			}
		}
	}
	return grid
}

// label is a depth-1 header placed on the grid.
type label struct {
	row, col, width int
	text            string
}

// labels returns the visible cell labels in character coordinates.
func labels(f *chart.Frame) []label {
	if f == nil {
		return nil
	}
	var out []label
	for _, c := range f.Cells {
		if !c.LabelVisible {
			continue
		}
		width := int((c.Width-chart.LabelX)/CharWidth) - 1
		if width <= 0 {
			continue
		}
		out = append(out, label{
			row:   int((c.Y + f.Top + CharHeight/2) / CharHeight),
			col:   int((c.X + chart.LabelX + CharWidth/2) / CharWidth),
			width: width,
			text:  c.Label,
		})
	}
	return out
}
