// Package valueformat renders measure values with spreadsheet-style
// format strings such as "$#,##0.00" or "0.0%".
//
// Only the common subset is understood: an optional currency prefix,
// thousands grouping, a fixed number of decimals and a percent suffix.
// Anything else falls back to the shortest decimal representation.
package valueformat

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/treemap/pkg/errors"
)

// maxDecimals is the largest precision go-humanize renders.
const maxDecimals = 9

// Format describes a parsed value format.
type Format struct {
	Prefix   string
	Suffix   string
	Group    bool
	Decimals int
	Percent  bool

	raw   string
	plain bool
}

// Plain renders numbers in their shortest form.
var Plain = Format{plain: true}

// Parse parses a format string. The empty string yields [Plain].
func Parse(s string) (Format, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Plain, nil
	}

	f := Format{raw: raw}
	for _, cur := range []string{"$", "£", "€", "¥"} {
		if strings.HasPrefix(s, cur) {
			f.Prefix = cur
			s = s[len(cur):]
			break
		}
	}
	if strings.HasSuffix(s, "%") {
		f.Percent = true
		f.Suffix = "%"
		s = strings.TrimSuffix(s, "%")
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" || strings.Trim(intPart, "#0,") != "" || strings.Trim(fracPart, "#0") != "" {
		return Plain, errors.New(errors.ErrCodeInvalidFormat, "unsupported value format %q", raw)
	}
	if hasDot && fracPart == "" {
		return Plain, errors.New(errors.ErrCodeInvalidFormat, "unsupported value format %q", raw)
	}
	f.Group = strings.Contains(intPart, ",")
	f.Decimals = min(len(fracPart), maxDecimals)
	return f, nil
}

// ParseOrPlain is like [Parse] but returns [Plain] for unsupported formats.
func ParseOrPlain(s string) Format {
	f, err := Parse(s)
	if err != nil {
		return Plain
	}
	return f
}

// String returns the format string f was parsed from.
func (f Format) String() string { return f.raw }

// Format renders v.
func (f Format) Format(v float64) string {
	if f.plain {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if f.Percent {
		v *= 100
	}

	directive := "####."
	if f.Group {
		directive = "#,###."
	}
	directive += strings.Repeat("#", f.Decimals)

	num := humanize.FormatFloat(directive, v)
	if strings.HasPrefix(num, "-") {
		return "-" + f.Prefix + num[1:] + f.Suffix
	}
	return f.Prefix + num + f.Suffix
}

// Value renders v with the format string s, falling back to the plain
// representation when s is not understood.
func Value(s string, v float64) string {
	return ParseOrPlain(s).Format(v)
}
