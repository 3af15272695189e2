package render

import (
	json "github.com/goccy/go-json"

	"github.com/matzehuels/treemap/pkg/chart"
)

// RenderJSON renders the frame's cells as indented JSON.
func RenderJSON(f *chart.Frame) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}
