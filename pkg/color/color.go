package color

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/layout"
)

// DefaultPalette is used when a chart has no valid colour range.
var DefaultPalette = []string{
	"#dd3333", "#80ce5d", "#f78131", "#369dc1",
	"#c572d3", "#36c1b3", "#b57052", "#ed69af",
}

const (
	// Fade is the colour deep cells blend toward.
	Fade = "#ddd"

	// None is the fill of the root cell.
	None = "none"

	fadeFrom = 1.0
	fadeTo   = 6.5
)

var validate = validator.New()

// Validate reports whether s is a hex colour such as "#abc" or "#aabbcc".
func Validate(s string) error {
	if err := validate.Var(s, "required,hexcolor"); err != nil {
		return errors.New(errors.ErrCodeInvalidColor, "invalid color %q", s)
	}
	return nil
}

// ParsePalette validates every entry of colors and returns them normalized
// to lower case. An empty list is an error.
func ParsePalette(colors []string) ([]string, error) {
	if len(colors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidColor, "color range is empty")
	}
	out := make([]string, len(colors))
	for i, c := range colors {
		c = strings.TrimSpace(c)
		if err := Validate(c); err != nil {
			return nil, fmt.Errorf("color range entry %d: %w", i, err)
		}
		out[i] = strings.ToLower(c)
	}
	return out, nil
}

// PaletteOrDefault returns the parsed palette, or [DefaultPalette] together
// with the validation error when colors cannot be used.
func PaletteOrDefault(colors []string) ([]string, error) {
	p, err := ParsePalette(colors)
	if err != nil {
		return DefaultPalette, err
	}
	return p, nil
}

// Ordinal maps keys to palette entries in order of first request, cycling
// once the palette is exhausted. It is safe for concurrent use.
type Ordinal struct {
	mu      sync.Mutex
	palette []string
	index   map[string]int
}

// NewOrdinal returns a scale over palette. An empty palette uses
// [DefaultPalette].
func NewOrdinal(palette []string) *Ordinal {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Ordinal{palette: palette, index: make(map[string]int)}
}

// Color returns the palette entry for key.
func (o *Ordinal) Color(key string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	i, ok := o.index[key]
	if !ok {
		i = len(o.index)
		o.index[key] = i
	}
	return o.palette[i%len(o.palette)]
}

// Palette returns the colours the scale cycles through.
func (o *Ordinal) Palette() []string { return o.palette }

// Fill returns the fill of n: [None] for the root, otherwise the ordinal
// colour of its depth-1 ancestor faded toward [Fade] by depth.
func Fill(scale *Ordinal, n *layout.Node) string {
	top := n.TopAncestor()
	if top == nil {
		return None
	}
	return Shade(scale.Color(top.Name()), n.Depth)
}

// Shade blends base toward [Fade] linearly over depths 1 to 6.5. Depths
// outside that range are clamped. An unparsable base is returned as is.
func Shade(base string, depth int) string {
	from, err := colorful.Hex(base)
	if err != nil {
		return base
	}
	to, _ := colorful.Hex(Fade)
	t := (float64(depth) - fadeFrom) / (fadeTo - fadeFrom)
	t = max(0, min(1, t))
	return from.BlendRgb(to, t).Clamped().Hex()
}
