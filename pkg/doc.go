// Package pkg provides the core libraries for treemap charts.
//
// # Overview
//
// A treemap shows a tabular query result as nested rectangles: every
// dimension adds a level of nesting and every rectangle's area is
// proportional to the measure. The pkg directory is organized into three
// areas:
//
//  1. Domain: [query] (the response format and its shape rules), [tree]
//     (the taxonomy built from rows), [layout] (squarified rectangles),
//     [color], [valueformat] and [interaction] (hover, tooltip and drill
//     links).
//  2. Charts: [chart] (a laid-out frame and a live chart instance) and
//     [render] (SVG, HTML, JSON, PNG and PDF output).
//  3. Infrastructure: [pipeline] (cached update and render runs), [cache],
//     [config], [observability], [errors] and [buildinfo].
//
// # Architecture
//
// The data flow of one update:
//
//	Query response (JSON/YAML)
//	         ↓
//	    [query] package (decode, check the query shape)
//	         ↓
//	    [tree] package (rows → taxonomy, duplicates reported)
//	         ↓
//	    [layout] package (aggregate, sort, squarify)
//	         ↓
//	    [chart] package (cells, colours, labels, breadcrumbs)
//	         ↓
//	    [render] package → SVG/HTML/JSON/PNG/PDF
//
// # Quick Start
//
// Render a response file through the cache:
//
//	resp, _ := pipeline.ParseFile("sales.json")
//	ch, _ := cache.NewFileCache(config.DefaultCacheDir())
//	runner := pipeline.NewRunner(ch, nil, nil)
//	defer runner.Close()
//
//	result, _ := runner.Execute(ctx, resp, pipeline.Options{
//	    Width:   800,
//	    Height:  600,
//	    Formats: []string{"svg", "html"},
//	})
//	os.WriteFile("sales.svg", result.Artifacts["svg"], 0o644)
//
// Drive a live chart the way an embedding page does:
//
//	c := chart.New(chart.Options{ID: "sales"})
//	defer c.Close()
//	c.Update(ctx, resp, chart.Size{Width: 800, Height: 600})
//	if h, ok, _ := c.Hover(interaction.Point{X: 100, Y: 116}); ok {
//	    fmt.Println(h.Breadcrumb) // "East-A: $20"
//	}
//	req, ok, _ := c.Click(interaction.Click{ClientX: 100, ClientY: 116})
//
// # Command Line
//
// The treemap binary (cmd/treemap) wraps these packages: render, validate,
// tree, preview (an interactive terminal chart) and serve (an HTTP host).
//
// [query]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/query
// [tree]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/tree
// [layout]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/layout
// [color]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/color
// [valueformat]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/valueformat
// [interaction]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/interaction
// [chart]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/chart
// [render]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/buildinfo
package pkg
