package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cell is a single value of a row together with host-provided extras.
type Cell struct {
	Value    any    `json:"value" yaml:"value"`
	Rendered string `json:"rendered,omitempty" yaml:"rendered,omitempty"`
	Links    []Link `json:"links,omitempty" yaml:"links,omitempty"`
}

// float64er is implemented by json.Number from both encoding/json and
// goccy/go-json.
type float64er interface {
	Float64() (float64, error)
}

// Number converts the cell value to a float64. The second result is false
// when the value is missing or not numeric.
func (c Cell) Number() (float64, bool) {
	var f float64
	switch v := c.Value.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float64er:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Float returns the numeric value of the cell, or 0 when it has none.
func (c Cell) Float() float64 {
	f, _ := c.Number()
	return f
}

// Key stringifies the cell value for use as a taxonomy segment.
func (c Cell) Key() string {
	switch v := c.Value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
