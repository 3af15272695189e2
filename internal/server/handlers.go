package server

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/interaction"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/query"
	"github.com/matzehuels/treemap/pkg/render"
)

var validate = validator.New()

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Charts  int    `json:"charts"`
}

type createRequest struct {
	ID          string   `json:"id,omitempty" validate:"max=128"`
	Width       float64  `json:"width,omitempty" validate:"gte=0,lte=16384"`
	Height      float64  `json:"height,omitempty" validate:"gte=0,lte=16384"`
	ColorRange  []string `json:"color_range,omitempty" validate:"dive,hexcolor"`
	ValueFormat string   `json:"value_format,omitempty" validate:"max=64"`
}

type createResponse struct {
	ID string `json:"id"`
}

type listResponse struct {
	Charts []string `json:"charts"`
}

type hoverResponse struct {
	Cell       int                   `json:"cell"`
	Path       []string              `json:"path"`
	Breadcrumb string                `json:"breadcrumb"`
	Value      string                `json:"value"`
	Highlight  []int                 `json:"highlight"`
	Tooltip    interaction.Placement `json:"tooltip"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Charts:  s.charts.Len(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := s.options()
	opts.Formats = []string{formatParam(q)}
	var err error
	if opts.Width, err = floatParam(q, "width", opts.Width); err != nil {
		s.writeError(w, err)
		return
	}
	if opts.Height, err = floatParam(q, "height", opts.Height); err != nil {
		s.writeError(w, err)
		return
	}
	opts.ChartID = q.Get("id")
	opts.Static = q.Get("static") == "true"

	resp, err := s.decodeResponse(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), resp, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	format := opts.Formats[0]
	s.writeArtifact(w, format, result.Artifacts[format])
}

func (s *Server) handleListCharts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, listResponse{Charts: s.charts.IDs()})
}

func (s *Server) handleCreateChart(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := s.decodeJSON(r, &req); err != nil && !emptyBody(err) {
		s.writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid chart options"))
		return
	}

	defaults := s.options()
	size := chart.Size{Width: req.Width, Height: req.Height}
	if size.Width == 0 {
		size.Width = defaults.Width
	}
	if size.Height == 0 {
		size.Height = defaults.Height
	}
	colors := req.ColorRange
	if len(colors) == 0 {
		colors = defaults.ColorRange
	}
	valueFormat := req.ValueFormat
	if valueFormat == "" {
		valueFormat = defaults.ValueFormat
	}

	c := chart.New(chart.Options{
		ID:          req.ID,
		Size:        size,
		ColorRange:  colors,
		ValueFormat: valueFormat,
		Logger:      s.logger,
	})
	if err := s.charts.Add(c); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/charts/"+url.PathEscape(c.ID()))
	s.writeJSON(w, http.StatusCreated, createResponse{ID: c.ID()})
}

func (s *Server) handleUpdateChart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.chart(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	width, err := floatParam(q, "width", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	height, err := floatParam(q, "height", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.decodeResponse(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := c.Update(r.Context(), resp, chart.Size{Width: width, Height: height}); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.chart(w, r)
	if !ok {
		return
	}
	f, err := c.Frame()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if f == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "chart %s has no data", c.ID()))
		return
	}

	format := formatParam(r.URL.Query())
	var opts []render.SVGOption
	if h, hovered := c.Current(); hovered {
		opts = append(opts, render.WithHover(h))
	}
	data, err := render.Render(r.Context(), f, format, opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeArtifact(w, format, data)
}

func (s *Server) handleDeleteChart(w http.ResponseWriter, r *http.Request) {
	if err := s.charts.Remove(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	c, ok := s.chart(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	p, err := pointParam(q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	h, f, hit, err := c.HoverFrame(p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !hit {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no cell at (%g, %g)", p.X, p.Y))
		return
	}

	out := hoverResponse{
		Cell:       -1,
		Path:       h.Path,
		Breadcrumb: h.Breadcrumb,
		Value:      h.Value,
		Highlight:  []int{},
		Tooltip:    h.Tooltip,
	}
	if cell, ok := f.CellFor(h.Node); ok {
		out.Cell = cell.Index
	}
	for _, n := range h.Highlight {
		if cell, ok := f.CellFor(n); ok {
			out.Highlight = append(out.Highlight, cell.Index)
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	c, ok := s.chart(w, r)
	if !ok {
		return
	}
	if err := c.Leave(); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	c, ok := s.chart(w, r)
	if !ok {
		return
	}
	var ev interaction.Click
	if err := s.decodeJSON(r, &ev); err != nil {
		s.writeError(w, err)
		return
	}
	req, hit, err := c.Click(ev)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !hit {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no cell at (%g, %g)", ev.ClientX, ev.ClientY))
		return
	}
	s.writeJSON(w, http.StatusOK, req)
}

// chart resolves the {id} route parameter, writing the error response
// when it names no chart.
func (s *Server) chart(w http.ResponseWriter, r *http.Request) (*chart.Chart, bool) {
	c, err := s.charts.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return c, true
}

// options returns a copy of the configured defaults.
func (s *Server) options() pipeline.Options {
	return pipeline.Options{
		Width:       s.defaults.Width,
		Height:      s.defaults.Height,
		ColorRange:  append([]string(nil), s.defaults.ColorRange...),
		ValueFormat: s.defaults.ValueFormat,
		Logger:      s.logger,
	}
}

// decodeResponse reads a query response body. YAML is accepted when the
// content type says so.
func (s *Server) decodeResponse(r *http.Request) (*query.Response, error) {
	format := query.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = query.FormatYAML
	}
	return query.Decode(io.LimitReader(r.Body, s.maxBody), format)
}

func (s *Server) writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write artifact", "format", format, "err", err)
	}
}

func formatParam(q url.Values) string {
	if f := q.Get("format"); f != "" {
		return f
	}
	return render.FormatSVG
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be a number", name)
	}
	return v, nil
}

func pointParam(q url.Values) (interaction.Point, error) {
	for _, name := range []string{"x", "y"} {
		if q.Get(name) == "" {
			return interaction.Point{}, errors.New(errors.ErrCodeInvalidInput, "missing %s", name)
		}
	}
	x, err := floatParam(q, "x", 0)
	if err != nil {
		return interaction.Point{}, err
	}
	y, err := floatParam(q, "y", 0)
	if err != nil {
		return interaction.Point{}, err
	}
	return interaction.Point{X: x, Y: y}, nil
}

// emptyBody reports whether a decode error came from a request without a
// body. Chart creation accepts that as "all defaults".
func emptyBody(err error) bool {
	e, ok := err.(*errors.Error)
	return ok && e.Cause == io.EOF
}
