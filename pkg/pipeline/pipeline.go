// Package pipeline provides the batch rendering pipeline for treemaps.
//
// This package implements the complete parse → update → render pipeline used
// by the CLI and the HTTP server, so both produce identical output for the
// same input.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode a query response from JSON or YAML
//  2. Update: Check the query shape, build the taxonomy tree and lay it out
//  3. Render: Generate output in various formats (SVG, HTML, JSON, PNG, PDF)
//
// Rendered artifacts are cached by a content hash of the response and the
// options that affect them; when every requested format is cached, the
// update stage is skipped.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	resp, err := pipeline.ParseFile("sales.json")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, resp, pipeline.Options{
//	    Width:   1200,
//	    Height:  800,
//	    Formats: []string{"svg", "html"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = chart.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = chart.DefaultHeight

	// DefaultScale is the default PNG resolution multiplier.
	DefaultScale = render.DefaultScale
)

// Format constants for output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatHTML = render.FormatHTML
	FormatJSON = render.FormatJSON
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the treemap pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Update options
	Width       float64  `json:"width,omitempty" validate:"gte=0,lte=16384"`
	Height      float64  `json:"height,omitempty" validate:"gte=0,lte=16384"`
	ColorRange  []string `json:"color_range,omitempty"`
	ValueFormat string   `json:"value_format,omitempty" validate:"max=64"`

	// ChartID is carried in drill links. It defaults to a prefix of the
	// response hash, so repeated renders produce identical output.
	ChartID string `json:"chart_id,omitempty" validate:"max=128"`

	// Render options
	Formats []string `json:"formats,omitempty" validate:"dive,oneof=svg html json png pdf"`
	Static  bool     `json:"static,omitempty"` // leave the hover script out of SVG output
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Frame is the laid-out chart. It is nil when every artifact came
	// from the cache.
	Frame *chart.Frame

	// ResponseHash is the content hash of the input response.
	ResponseHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Cells      int
	Leaves     int
	Duplicates int
	UpdateTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool     // Whether all artifacts came from cache
	Hits      []string // Formats served from cache
}

// =============================================================================
// Validation
// =============================================================================

var validate = validator.New()

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return render.ValidateFormat(format)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks field constraints and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", describe(err))
	}
	o.SetDefaults()
	o.validated = true
	return nil
}

// SetDefaults fills in zero values.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// FrameKeyOpts returns cache key options for the update stage.
func (o *Options) FrameKeyOpts() cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Width:       o.Width,
		Height:      o.Height,
		ColorRange:  o.ColorRange,
		ValueFormat: o.ValueFormat,
		Identity:    o.ChartID,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Static: o.Static}
}

// describe turns validator errors into one readable line.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+fe.Param())
		case "lte", "max":
			msgs = append(msgs, field+" must be at most "+fe.Param())
		case "gte":
			msgs = append(msgs, field+" must be at least "+fe.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return "invalid options: " + strings.Join(msgs, "; ")
}
