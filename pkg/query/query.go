package query

import (
	"github.com/samber/lo"
)

// Field describes one column of the query result.
type Field struct {
	Name        string `json:"name" yaml:"name"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	ValueFormat string `json:"value_format,omitempty" yaml:"value_format,omitempty"`
}

// DisplayLabel returns the label, or the name when no label is set.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Fields groups the result columns by role.
type Fields struct {
	Dimensions []Field `json:"dimension_like" yaml:"dimension_like"`
	Measures   []Field `json:"measure_like" yaml:"measure_like"`
	Pivots     []Field `json:"pivots,omitempty" yaml:"pivots,omitempty"`
}

// Link is a drill-through target attached to a cell.
type Link struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Row maps field names to cells.
type Row map[string]Cell

// Config is the chart configuration supplied with the data.
type Config struct {
	ColorRange []string `json:"color_range,omitempty" yaml:"color_range,omitempty"`
}

// Response is everything the host hands to one chart update.
type Response struct {
	Fields Fields `json:"fields" yaml:"fields"`
	Data   []Row  `json:"data" yaml:"data"`
	Config Config `json:"config,omitempty" yaml:"config,omitempty"`
}

// Taxonomy returns the ordered dimension values of row, one segment per
// dimension. Missing cells contribute "null".
func Taxonomy(row Row, dims []Field) []string {
	return lo.Map(dims, func(d Field, _ int) string {
		return row[d.Name].Key()
	})
}

// Measure returns the numeric value of the measure field in row.
func Measure(row Row, measure Field) float64 {
	return row[measure.Name].Float()
}
