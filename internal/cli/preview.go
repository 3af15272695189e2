package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/internal/preview"
	"github.com/matzehuels/treemap/pkg/chart"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		inputFormat string
		chartID     string
	)

	cmd := &cobra.Command{
		Use:   "preview [response.json]",
		Short: "Explore a treemap in the terminal",
		Long: `Draw a treemap in the terminal and explore it with the mouse or the
arrow keys. Hovering a cell shows its breadcrumb; clicking it (or pressing
enter) lists the drill links of its top-level group. The last drill
request is printed on exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], inputFormat, chartID)
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input encoding: json or yaml (default by extension)")
	cmd.Flags().StringVar(&chartID, "id", "", "chart id carried in drill links (default random)")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input, inputFormat, chartID string) error {
	if input == stdio {
		return fmt.Errorf("preview needs a file: stdin is the terminal")
	}
	resp, err := readResponse(input, inputFormat)
	if err != nil {
		return err
	}

	opts := c.renderOptions()
	ch := chart.New(chart.Options{
		ID:          chartID,
		ColorRange:  opts.ColorRange,
		ValueFormat: opts.ValueFormat,
		Logger:      c.Logger,
	})
	defer ch.Close()

	drill, err := preview.Run(ctx, ch, resp, input)
	if err != nil {
		return err
	}
	if drill == nil {
		return nil
	}

	printInfo("Drill request at (%g, %g)", drill.Event.PageX, drill.Event.PageY)
	if len(drill.Links) == 0 {
		printDetail("no links")
	}
	for _, l := range drill.Links {
		fmt.Fprintln(stdout, "  "+StyleValue.Render(l.Label)+" "+StyleLink.Render(l.URL))
	}
	return nil
}
