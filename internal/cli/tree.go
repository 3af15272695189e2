package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/color"
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		inputFormat string
		depth       int
	)

	cmd := &cobra.Command{
		Use:   "tree [response.json|-]",
		Short: "Print the dimension hierarchy with aggregated values",
		Long: `Print the taxonomy a response builds, one level per dimension, with
each node's aggregated measure. Children are listed largest first, in the
order the treemap lays them out.`,
		Example: `  treemap tree sales.json
  treemap tree sales.json --depth 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), args[0], inputFormat, depth)
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input encoding when reading stdin: json (default) or yaml")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum depth to print (0 for all)")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, input, inputFormat string, depth int) error {
	resp, err := readResponse(input, inputFormat)
	if err != nil {
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
		return err
	}
	fmt.Fprintln(stdout, taxonomyTree(f, depth))
	return nil
}

// taxonomyTree renders the frame's cells as a lipgloss tree, stopping
// below maxDepth when it is positive.
func taxonomyTree(f *chart.Frame, maxDepth int) *tree.Tree {
	children := make(map[int][]int, len(f.Cells))
	for _, cell := range f.Cells {
		if cell.Parent >= 0 {
			children[cell.Parent] = append(children[cell.Parent], cell.Index)
		}
	}

	var build func(index int) *tree.Tree
	build = func(index int) *tree.Tree {
		t := tree.Root(nodeLabel(f.Cells[index]))
		if maxDepth > 0 && f.Cells[index].Depth >= maxDepth {
			return t
		}
		for _, child := range children[index] {
			if len(children[child]) == 0 || (maxDepth > 0 && f.Cells[child].Depth >= maxDepth) {
				t.Child(nodeLabel(f.Cells[child]))
				continue
			}
			t.Child(build(child))
		}
		return t
	}

	root := f.Cells[0]
	return build(0).
		Root(StyleTitle.Render(f.Measure.Name) + " " + StyleValue.Render(root.Formatted)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(lipgloss.NewStyle().Foreground(colorDim).MarginRight(1))
}

func nodeLabel(cell chart.Cell) string {
	name := lipgloss.NewStyle()
	if cell.Fill != color.None {
		name = name.Foreground(lipgloss.Color(cell.Fill))
	}
	return name.Render(cell.Name) + " " + StyleDim.Render(cell.Formatted)
}
