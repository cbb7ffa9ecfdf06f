// Package prom implements the observability hooks with Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	m := prom.New(reg)
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetServerHooks(m)
//	http.Handle("/metrics", m.Handler())
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Errze/note-bad-ideas/pkg/observability"
)

const namespace = "notegraph"

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ServerHooks   = (*Metrics)(nil)
)

// Metrics holds the collectors. Create it with [New].
type Metrics struct {
	gatherer prometheus.Gatherer

	documents     *prometheus.CounterVec
	skipped       *prometheus.CounterVec
	loadErrors    *prometheus.CounterVec
	builds        prometheus.Counter
	buildSeconds  prometheus.Histogram
	graphNodes    prometheus.Gauge
	graphEdges    prometheus.Gauge
	unresolved    prometheus.Counter
	layoutSeconds *prometheus.HistogramVec
	layoutErrors  *prometheus.CounterVec
	renderSeconds *prometheus.HistogramVec
	renderErrors  *prometheus.CounterVec
	cacheOps      *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	requests      *prometheus.CounterVec
	reqSeconds    *prometheus.HistogramVec
	sessionEvents *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "documents_loaded_total",
			Help: "Documents read from the source, by group.",
		}, []string{"group"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "documents_skipped_total",
			Help: "Malformed note files skipped while loading, by group.",
		}, []string{"group"}),
		loadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "load_errors_total",
			Help: "Failed group loads.",
		}, []string{"group"}),
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "graph_builds_total",
			Help: "Graph rebuilds.",
		}),
		buildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "graph_build_seconds",
			Help:    "Time spent extracting and resolving references.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		graphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "graph_nodes",
			Help: "Nodes in the most recently built graph.",
		}),
		graphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "graph_edges",
			Help: "Edges in the most recently built graph.",
		}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "unresolved_references_total",
			Help: "References that matched no document.",
		}),
		layoutSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "layout_seconds",
			Help:    "Layout computation time by algorithm.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"algorithm"}),
		layoutErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "layout_errors_total",
			Help: "Failed layout requests by algorithm.",
		}, []string{"algorithm"}),
		renderSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "render_seconds",
			Help:    "Render time by output format.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		renderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "render_errors_total",
			Help: "Failed renders by output format.",
		}, []string{"format"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_operations_total",
			Help: "Cache lookups and writes by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Served HTTP requests.",
		}, []string{"method", "route", "code"}),
		reqSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "viewport_events_total",
			Help: "Viewport events applied to sessions.",
		}, []string{"type"}),
	}

	reg.MustRegister(
		m.documents, m.skipped, m.loadErrors,
		m.builds, m.buildSeconds, m.graphNodes, m.graphEdges, m.unresolved,
		m.layoutSeconds, m.layoutErrors, m.renderSeconds, m.renderErrors,
		m.cacheOps, m.cacheBytes,
		m.requests, m.reqSeconds, m.sessionEvents,
	)
	return m
}

// Handler serves the registered metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// =============================================================================
// PipelineHooks
// =============================================================================

func (m *Metrics) OnLoadComplete(_ context.Context, group string, docs, skipped int, _ time.Duration, err error) {
	if err != nil {
		m.loadErrors.WithLabelValues(group).Inc()
		return
	}
	m.documents.WithLabelValues(group).Add(float64(docs))
	m.skipped.WithLabelValues(group).Add(float64(skipped))
}

func (m *Metrics) OnBuildStart(context.Context, int) {}

func (m *Metrics) OnBuildComplete(_ context.Context, nodes, edges, unresolved int, d time.Duration) {
	m.builds.Inc()
	m.buildSeconds.Observe(d.Seconds())
	m.graphNodes.Set(float64(nodes))
	m.graphEdges.Set(float64(edges))
	m.unresolved.Add(float64(unresolved))
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, algorithm string, d time.Duration, err error) {
	if err != nil {
		m.layoutErrors.WithLabelValues(algorithm).Inc()
		return
	}
	m.layoutSeconds.WithLabelValues(algorithm).Observe(d.Seconds())
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		m.renderErrors.WithLabelValues(format).Inc()
		return
	}
	m.renderSeconds.WithLabelValues(format).Observe(d.Seconds())
}

// =============================================================================
// CacheHooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// ServerHooks
// =============================================================================

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnSessionEvent(_ context.Context, eventType string) {
	m.sessionEvents.WithLabelValues(eventType).Inc()
}
