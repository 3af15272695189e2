package interaction

import (
	"fmt"
	"net/url"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/query"
)

// VisParam is the query parameter drill URLs carry the chart identity in.
const VisParam = "vis"

// Identity identifies the visualization a drill link was opened from.
type Identity struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Encode returns the JSON form of id.
func (id Identity) Encode() string {
	b, _ := json.Marshal(id)
	return string(b)
}

// Event is the page position a drill menu opens at.
type Event struct {
	PageX float64 `json:"pageX"`
	PageY float64 `json:"pageY"`
}

// DrillRequest asks the host to open a drill menu.
type DrillRequest struct {
	Links []query.Link `json:"links"`
	Event Event        `json:"event"`
}

// Click is a pointer click in client coordinates with the page scroll
// offset at the time of the click.
type Click struct {
	ClientX float64 `json:"x"`
	ClientY float64 `json:"y"`
	ScrollX float64 `json:"scroll_x"`
	ScrollY float64 `json:"scroll_y"`
}

// Page converts the click to page coordinates.
func (c Click) Page() Event {
	return Event{PageX: c.ClientX + c.ScrollX, PageY: c.ClientY + c.ScrollY}
}

// Point returns the click position relative to the chart.
func (c Click) Point() Point { return Point{X: c.ClientX, Y: c.ClientY} }

// DrillLinks returns the links attached to the first dimension of row,
// each URL carrying the encoded identity in the [VisParam] query
// parameter. Links with invalid URLs are left out; the returned error then
// describes the first of them.
func DrillLinks(row query.Row, first query.Field, id Identity) ([]query.Link, error) {
	cell, ok := row[first.Name]
	if !ok {
		return nil, nil
	}
	var (
		out     []query.Link
		skipped error
	)
	vis := id.Encode()
	for _, l := range cell.Links {
		u, err := WithVis(l.URL, vis)
		if err != nil {
			if skipped == nil {
				skipped = fmt.Errorf("drill link %q: %w", l.Label, err)
			}
			continue
		}
		l.URL = u
		out = append(out, l)
	}
	return out, skipped
}

// WithVis sets the [VisParam] query parameter of raw to vis.
func WithVis(raw, vis string) (string, error) {
	if err := errors.ValidateURL(raw); err != nil {
		return "", err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidURL, err, "parse URL %q", raw)
	}
	q := u.Query()
	q.Set(VisParam, vis)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
