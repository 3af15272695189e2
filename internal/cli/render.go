package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/query"
	"github.com/matzehuels/treemap/pkg/render"
)

// stdio is the file name that stands for stdin or stdout.
const stdio = "-"

// renderFlags holds the command-line flags for the render command. Zero
// values fall back to the config file.
type renderFlags struct {
	output      string
	formats     string
	width       float64
	height      float64
	colors      string
	valueFormat string
	chartID     string
	inputFormat string
	static      bool
	noCache     bool
	refresh     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [response.json|-]",
		Short: "Render a query response as a treemap",
		Long: `Render a query response as a treemap.

The input is a query response in JSON or YAML (by file extension, or
--input-format for stdin) with at least one dimension and exactly one
measure. Each dimension becomes one level of nesting.

Outputs are cached by content hash, so rendering the same response with
the same options again is instant. Use --refresh to recompute.`,
		Example: `  treemap render sales.json
  treemap render sales.yaml -f svg,html -o out/sales
  cat sales.json | treemap render - -f json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.renderOptions()
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg, html, json, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&flags.width, "width", 0, "chart width in pixels")
	cmd.Flags().Float64Var(&flags.height, "height", 0, "chart height in pixels")
	cmd.Flags().StringVar(&flags.colors, "colors", "", "comma-separated hex palette for top-level groups")
	cmd.Flags().StringVar(&flags.valueFormat, "value-format", "", `measure format, e.g. "$#,##0.00" or "0.0%"`)
	cmd.Flags().StringVar(&flags.chartID, "id", "", "chart id carried in drill links")
	cmd.Flags().StringVar(&flags.inputFormat, "input-format", "", "input encoding when reading stdin: json (default) or yaml")
	cmd.Flags().BoolVar(&flags.static, "static", false, "leave the hover script out of SVG output")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached outputs")

	return cmd
}

// apply overrides opts with the flags set on cmd.
func (f renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	changed := cmd.Flags().Changed
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("colors") {
		opts.ColorRange = parseFormats(f.colors)
	}
	if changed("value-format") {
		opts.ValueFormat = f.valueFormat
	}
	if formats := parseFormats(f.formats); len(formats) > 0 {
		opts.Formats = formats
	}
	opts.ChartID = f.chartID
	opts.Static = f.static
	opts.Refresh = f.refresh

	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if f.output == stdio && len(opts.Formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(opts.Formats))
	}
	return nil
}

// runRender parses input and renders every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	prog := newProgress(c.Logger)

	resp, err := readResponse(input, flags.inputFormat)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := flags.output == stdio
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, "Rendering treemap...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, resp, opts)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Render failed")
		}
		return fmt.Errorf("render %s: %w", input, err)
	}
	if spinner != nil {
		spinner.Stop()
	}

	if toStdout {
		_, err := stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths := outputPaths(input, flags.output, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %s", displayName(input))
	printStats(result.Stats, result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	if input != stdio {
		printNextStep("Explore it", "treemap preview "+input)
	}
	prog.done("render finished")
	return nil
}

// readResponse decodes a response from a file, or from stdin when path is
// "-".
func readResponse(path, format string) (*query.Response, error) {
	if path == stdio {
		if format == "" {
			format = query.FormatJSON
		}
		return pipeline.Parse(os.Stdin, format)
	}
	if format != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return pipeline.Parse(f, format)
	}
	return pipeline.ParseFile(path)
}

// outputPaths maps each format to its output file. A single format goes
// to output as given; several formats share output as a base path. Without
// output, files are named after the input.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == stdio {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty or "-", it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == stdio {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}

func displayName(input string) string {
	if input == stdio {
		return "stdin"
	}
	return input
}
