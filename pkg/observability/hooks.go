// Package observability lets the engine report what it does without
// depending on a metrics backend.
//
// Three hook sets exist: pipeline (load, build, layout, render), cache
// (hit, miss, write) and server (requests, session events). Every set has
// a no-op default, so library code calls the hooks unconditionally:
//
//	start := time.Now()
//	g := graph.Build(docs)
//	observability.Pipeline().OnBuildComplete(ctx, len(g.Nodes), len(g.Edges), unresolved, time.Since(start))
//
// The binary decides what receives the events. notegraph serve installs the
// Prometheus collector from the prom subpackage:
//
//	m := prom.New(registry)
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetServerHooks(m)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks observes the document-to-artifact pipeline.
type PipelineHooks interface {
	OnLoadComplete(ctx context.Context, group string, docs, skipped int, took time.Duration, err error)
	OnBuildStart(ctx context.Context, docCount int)
	OnBuildComplete(ctx context.Context, nodes, edges, unresolved int, took time.Duration)
	OnLayoutStart(ctx context.Context, algorithm string, nodeCount int)
	OnLayoutComplete(ctx context.Context, algorithm string, took time.Duration, err error)
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, took time.Duration, err error)
}

// CacheHooks observes cache traffic. keyType is "layout" or "render".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks observes the HTTP server. route is the chi route pattern, not
// the raw path, so label cardinality stays bounded.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string, status int, took time.Duration)
	OnSessionEvent(ctx context.Context, eventType string)
}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnBuildStart(context.Context, int)                                     {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, int, time.Duration)         {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                            {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)        {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                                 {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, time.Duration, error)        {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks discards server events.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopServerHooks) OnSessionEvent(context.Context, string)                        {}

// registry is replaced as a whole on every change so readers never see a
// half-updated set.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	server   ServerHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func defaults() *registry {
	return &registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		server:   NoopServerHooks{},
	}
}

// update applies fn to a copy of the registry and publishes it.
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

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetServerHooks installs h. A nil h is ignored.
func SetServerHooks(h ServerHooks) {
	if h != nil {
		update(func(r *registry) { r.server = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// Server returns the installed server hooks.
func Server() ServerHooks { return current.Load().server }

// Reset puts the no-op hooks back.
func Reset() { current.Store(defaults()) }
