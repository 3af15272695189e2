// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about chart
// updates, cache operations and served HTTP requests. Libraries emit events
// through the registry and never depend on a specific backend.
//
// # Usage
//
//	observability.SetPipelineHooks(&myPipelineHooks{})
//	observability.Pipeline().OnUpdateStart(ctx, len(resp.Data))
//
// Hooks are read far more often than they are set, so the registry is an
// immutable snapshot swapped atomically on every Set call.
//
// [LogHooks] implements every hook interface by writing debug logs.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from chart updates and rendering.
type PipelineHooks interface {
	OnUpdateStart(ctx context.Context, rows int)
	OnUpdateComplete(ctx context.Context, cells int, duration time.Duration, err error)
	// OnValidationFailed records a response rejected for its query shape.
	OnValidationFailed(ctx context.Context, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "frame" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives requests served by the chart host. route is the
// pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnUpdateStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnUpdateComplete(context.Context, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnValidationFailed(context.Context, error)                        {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var defaults = registry{NoopPipelineHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}}

var current atomic.Pointer[registry]

func init() { Reset() }

// update applies fn to a copy of the current registry and publishes it.
func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks replaces the pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks replaces the cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks replaces the HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

func Pipeline() PipelineHooks { return current.Load().pipeline }
func Cache() CacheHooks       { return current.Load().cache }
func HTTP() HTTPHooks         { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	r := defaults
	current.Store(&r)
}
