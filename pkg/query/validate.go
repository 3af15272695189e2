package query

import (
	"fmt"

	"github.com/matzehuels/treemap/pkg/errors"
)

// Unbounded marks a constraint maximum with no upper limit.
const Unbounded = -1

// Constraints bounds the number of fields per role a chart accepts.
type Constraints struct {
	MinPivots, MaxPivots         int
	MinDimensions, MaxDimensions int
	MinMeasures, MaxMeasures     int
}

// TreemapConstraints is the query shape the treemap renders: no pivots,
// at least one dimension and exactly one measure.
var TreemapConstraints = Constraints{
	MinPivots: 0, MaxPivots: 0,
	MinDimensions: 1, MaxDimensions: Unbounded,
	MinMeasures: 1, MaxMeasures: 1,
}

// Check reports the first violation of c by fields as an
// INVALID_QUERY_SHAPE error. Field names are validated as well.
func Check(fields Fields, c Constraints) error {
	if err := checkBounds("pivot", len(fields.Pivots), c.MinPivots, c.MaxPivots); err != nil {
		return err
	}
	if err := checkBounds("dimension", len(fields.Dimensions), c.MinDimensions, c.MaxDimensions); err != nil {
		return err
	}
	if err := checkBounds("measure", len(fields.Measures), c.MinMeasures, c.MaxMeasures); err != nil {
		return err
	}

	for _, group := range [][]Field{fields.Dimensions, fields.Measures, fields.Pivots} {
		for _, f := range group {
			if err := errors.ValidateFieldName(f.Name); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidQueryShape, err, "invalid field")
			}
		}
	}
	return nil
}

func checkBounds(kind string, n, lo, hi int) error {
	if n < lo {
		return errors.New(errors.ErrCodeInvalidQueryShape,
			"too few %s: this chart requires %s, got %d", plural(kind), atLeast(lo, kind), n)
	}
	if hi != Unbounded && n > hi {
		return errors.New(errors.ErrCodeInvalidQueryShape,
			"too many %s: this chart supports %s, got %d", plural(kind), atMost(hi, kind), n)
	}
	return nil
}

func plural(kind string) string { return kind + "s" }

func atLeast(n int, kind string) string {
	if n == 1 {
		return "at least 1 " + kind
	}
	return fmt.Sprintf("at least %d %s", n, plural(kind))
}

func atMost(n int, kind string) string {
	switch n {
	case 0:
		return "no " + plural(kind)
	case 1:
		return "at most 1 " + kind
	}
	return fmt.Sprintf("at most %d %s", n, plural(kind))
}
