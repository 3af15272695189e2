package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/query"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var inputFormat string

	cmd := &cobra.Command{
		Use:   "validate [response.json|-]",
		Short: "Check a query response and summarize its top-level groups",
		Long: `Check a query response against the treemap's query shape (no pivots,
at least one dimension, exactly one measure), then lay it out and print
the top-level groups with their share of the total.

Duplicate taxonomy paths are reported; only the last row of each is drawn.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0], inputFormat)
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input encoding when reading stdin: json (default) or yaml")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, input, inputFormat string) error {
	resp, err := readResponse(input, inputFormat)
	if err != nil {
		return err
	}
	if err := query.Check(resp.Fields, query.TreemapConstraints); err != nil {
		printError("Invalid query shape")
		return err
	}

	opts := c.renderOptions()
	f, err := chart.NewFrame(ctx, resp, chart.FrameOptions{
		Width:       opts.Width,
		Height:      opts.Height,
		ColorRange:  opts.ColorRange,
		ValueFormat: opts.ValueFormat,
		Logger:      c.Logger,
	})
	if err != nil {
		printError("Layout failed")
		return err
	}

	dims := make([]string, len(f.Dimensions))
	for i, d := range f.Dimensions {
		dims[i] = d.Name
	}
	printSuccess("Valid treemap: %s rows by %s, measure %s",
		humanize.Comma(int64(len(resp.Data))), strings.Join(dims, " › "), f.Measure.Name)
	printKeyValue("Total", f.Format.Format(f.Root.Value))
	printKeyValue("Cells", humanize.Comma(int64(len(f.Cells)-1)))
	printKeyValue("Leaves", humanize.Comma(int64(f.Leaves())))
	for _, d := range f.Duplicates {
		printWarning("Duplicate path %s", d)
	}

	fmt.Fprintln(stdout, groupTable(f))
	return nil
}

// groupTable renders the depth-1 cells with their value, share of the
// total and leaf count. The name column takes the cell's fill colour.
func groupTable(f *chart.Frame) string {
	var (
		rows  [][]string
		fills []string
	)
	for _, cell := range f.Cells {
		if cell.Depth != 1 {
			continue
		}
		share := 0.0
		if f.Root.Value > 0 {
			share = cell.Value / f.Root.Value * 100
		}
		rows = append(rows, []string{
			cell.Name,
			cell.Formatted,
			humanize.FormatFloat("####.#", share) + "%",
			humanize.Comma(int64(len(cell.Node.Leaves()))),
		})
		fills = append(fills, cell.Fill)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	numberStyle := lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(strings.ToUpper(f.Dimensions[0].Name), "VALUE", "SHARE", "LEAVES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0 && row < len(fills):
				return lipgloss.NewStyle().Foreground(lipgloss.Color(fills[row])).Padding(0, 1)
			}
			return numberStyle.Padding(0, 1)
		})

	return t.Render()
}
