package server

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/matzehuels/treemap/pkg/chart"
	"github.com/matzehuels/treemap/pkg/errors"
)

// Registry holds the live chart instances of a server.
type Registry struct {
	mu     sync.RWMutex
	charts map[string]*chart.Chart
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{charts: make(map[string]*chart.Chart)}
}

// Add registers c. Ids must be unique.
func (r *Registry) Add(c *chart.Chart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.charts[c.ID()]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "chart %s already exists", c.ID())
	}
	r.charts[c.ID()] = c
	return nil
}

// Get returns the chart with the given id.
func (r *Registry) Get(id string) (*chart.Chart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.charts[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "chart %s not found", id)
	}
	return c, nil
}

// Remove closes and forgets the chart with the given id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	c, ok := r.charts[id]
	delete(r.charts, id)
	r.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "chart %s not found", id)
	}
	return c.Close()
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := lo.Keys(r.charts)
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered charts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.charts)
}

// Close closes every chart and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	charts := r.charts
	r.charts = make(map[string]*chart.Chart)
	r.mu.Unlock()
	for _, c := range charts {
		c.Close()
	}
}
