package query

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/treemap/pkg/errors"
)

const salesJSON = `{
  "fields": {
    "dimension_like": [{"name": "region"}, {"name": "product", "label": "Product"}],
    "measure_like": [{"name": "sales", "value_format": "$#,##0"}]
  },
  "data": [
    {"region": {"value": "West", "links": [{"label": "Drill", "url": "/explore/west"}]}, "product": {"value": "A"}, "sales": {"value": 10}},
    {"region": {"value": "West"}, "product": {"value": "B"}, "sales": {"value": 5.5}},
    {"region": {"value": "East"}, "product": {"value": null}, "sales": {"value": "20"}}
  ],
  "config": {"color_range": ["#111111", "#222222"]}
}`

const salesYAML = `
fields:
  dimension_like:
    - name: region
  measure_like:
    - name: sales
data:
  - region: {value: West}
    sales: {value: 10}
  - region: {value: 2024}
    sales: {value: 2.5}
`

func TestDecodeJSON(t *testing.T) {
	resp, err := Decode(strings.NewReader(salesJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if got := len(resp.Fields.Dimensions); got != 2 {
		t.Fatalf("dimensions = %d, want 2", got)
	}
	if got := resp.Fields.Dimensions[1].DisplayLabel(); got != "Product" {
		t.Errorf("DisplayLabel() = %q, want Product", got)
	}
	if got := resp.Fields.Dimensions[0].DisplayLabel(); got != "region" {
		t.Errorf("DisplayLabel() = %q, want region", got)
	}
	if len(resp.Data) != 3 {
		t.Fatalf("rows = %d, want 3", len(resp.Data))
	}
	if len(resp.Config.ColorRange) != 2 {
		t.Errorf("color_range = %v, want 2 entries", resp.Config.ColorRange)
	}

	measure := resp.Fields.Measures[0]
	wantSales := []float64{10, 5.5, 20}
	for i, row := range resp.Data {
		if got := Measure(row, measure); got != wantSales[i] {
			t.Errorf("row %d sales = %v, want %v", i, got, wantSales[i])
		}
	}

	links := resp.Data[0]["region"].Links
	if len(links) != 1 || links[0].URL != "/explore/west" {
		t.Errorf("links = %+v", links)
	}

	path := Taxonomy(resp.Data[2], resp.Fields.Dimensions)
	if strings.Join(path, "/") != "East/null" {
		t.Errorf("Taxonomy() = %v, want [East null]", path)
	}
}

func TestDecodeYAML(t *testing.T) {
	resp, err := Decode(strings.NewReader(salesYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("rows = %d, want 2", len(resp.Data))
	}
	if got := Taxonomy(resp.Data[1], resp.Fields.Dimensions); got[0] != "2024" {
		t.Errorf("Taxonomy() = %v, want [2024]", got)
	}
	if got := Measure(resp.Data[1], resp.Fields.Measures[0]); got != 2.5 {
		t.Errorf("Measure() = %v, want 2.5", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json"), FormatJSON); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("malformed json: got %v, want INVALID_INPUT", err)
	}
	if _, err := Decode(strings.NewReader("{}"), "csv"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format: got %v, want INVALID_FORMAT", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data.json", FormatJSON},
		{"data.yaml", FormatYAML},
		{"DATA.YML", FormatYAML},
		{"data", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCellNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   float64
		wantOK bool
	}{
		{"float", 1.5, 1.5, true},
		{"int", 3, 3, true},
		{"int64", int64(7), 7, true},
		{"json number", json.Number("12.25"), 12.25, true},
		{"numeric string", " 42 ", 42, true},
		{"text", "n/a", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Cell{Value: tt.value}.Number()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Number() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCellKey(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"West", "West"},
		{nil, "null"},
		{float64(3), "3"},
		{2.5, "2.5"},
		{7, "7"},
		{true, "true"},
		{json.Number("10"), "10"},
	}
	for _, tt := range tests {
		if got := (Cell{Value: tt.value}).Key(); got != tt.want {
			t.Errorf("Key(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	dim := Field{Name: "region"}
	meas := Field{Name: "sales"}

	tests := []struct {
		name    string
		fields  Fields
		wantErr bool
		wantMsg string
	}{
		{"valid single dimension", Fields{Dimensions: []Field{dim}, Measures: []Field{meas}}, false, ""},
		{"valid many dimensions", Fields{Dimensions: []Field{dim, {Name: "product"}, {Name: "sku"}}, Measures: []Field{meas}}, false, ""},
		{"no dimensions", Fields{Measures: []Field{meas}}, true, "too few dimensions"},
		{"no measures", Fields{Dimensions: []Field{dim}}, true, "too few measures"},
		{"two measures", Fields{Dimensions: []Field{dim}, Measures: []Field{meas, {Name: "count"}}}, true, "too many measures"},
		{"pivot present", Fields{Dimensions: []Field{dim}, Measures: []Field{meas}, Pivots: []Field{{Name: "year"}}}, true, "too many pivots"},
		{"blank field name", Fields{Dimensions: []Field{{Name: " "}}, Measures: []Field{meas}}, true, "invalid field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.fields, TreemapConstraints)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidQueryShape) {
				t.Errorf("Check() code = %v, want INVALID_QUERY_SHAPE", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Check() = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestMarshalStable(t *testing.T) {
	resp, err := DecodeBytes([]byte(salesJSON), FormatJSON)
	if err != nil {
		t.Fatalf("DecodeBytes() error: %v", err)
	}
	a, err := Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	b, _ := Marshal(resp)
	if string(a) != string(b) {
		t.Error("Marshal() should be deterministic")
	}
}
