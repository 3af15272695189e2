// Package chart turns a query response into a rendered treemap frame and
// manages the lifecycle of interactive chart instances.
//
// # Frames
//
// [NewFrame] runs one complete update: it checks the query shape, builds
// the taxonomy tree, lays it out and resolves fills, labels and drill
// links for every cell. A [Frame] is immutable; every update builds a new
// one.
//
// # Instances
//
// A [Chart] owns a frame together with the hover state bound to it:
//
//	c := chart.New(chart.Options{})
//	defer c.Close()
//
//	if _, err := c.Update(ctx, resp, chart.Size{Width: 800, Height: 600}); err != nil {
//	    return err // nothing is rendered on a bad query shape
//	}
//	hover, ok, _ := c.Hover(interaction.Point{X: 120, Y: 80})
//
// After [Chart.Close] every method fails with errors.ErrCodeChartClosed.
package chart
