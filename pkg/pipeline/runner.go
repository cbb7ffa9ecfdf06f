package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Errze/note-bad-ideas/pkg/cache"
	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/observability"
	"github.com/Errze/note-bad-ideas/pkg/render"
)

// Runner drives documents through build, layout and render, consulting the
// cache for layouts and rasterized artifacts. It holds no per-run state and
// may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL, when positive, replaces TTLLayout and TTLArtifact.
	TTL time.Duration
}

// NewRunner returns a Runner. Nil arguments get defaults: no caching, the
// default keyer and the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// Execute runs build → layout → render over docs.
func (r *Runner) Execute(ctx context.Context, docs []graph.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	result := &Result{}

	buildStart := time.Now()
	g := r.Build(ctx, docs)
	result.Graph = g
	result.GraphHash = GraphHash(g)
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	result.Stats.Unresolved = g.Diagnostics.Unresolved

	t := time.Now()
	l, layoutHit, err := r.Layout(ctx, g, opts, nil)
	if err != nil {
		return nil, fmt.Errorf("lay out %d nodes: %w", len(g.Nodes), err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(t)
	result.CacheInfo.LayoutHit = layoutHit
	r.Logger.Info("laid out graph", "algorithm", l.Algorithm, "cached", layoutHit, "took", result.Stats.LayoutTime)

	t = time.Now()
	snap := NewSnapshot(g, l)
	result.Artifacts = make(map[string][]byte, len(opts.Formats))
	result.CacheInfo.RenderHit = true
	for _, f := range opts.Formats {
		data, hit, err := r.RenderWithCacheInfo(ctx, snap, render.Format(f), opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		result.Artifacts[f] = data
		result.CacheInfo.RenderHit = result.CacheInfo.RenderHit && hit
	}
	result.Stats.RenderTime = time.Since(t)
	r.Logger.Info("rendered", "formats", opts.Formats, "took", result.Stats.RenderTime)
	return result, nil
}

// Build turns documents into a graph and reports the build to the hooks.
// Building never fails.
func (r *Runner) Build(ctx context.Context, docs []graph.Document) *graph.Graph {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(docs))
	start := time.Now()

	g := graph.Build(docs)

	d := g.Diagnostics
	hooks.OnBuildComplete(ctx, len(g.Nodes), len(g.Edges), d.Unresolved, time.Since(start))
	r.Logger.Debug("built graph",
		"documents", d.Documents,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"references", d.RawReferences,
		"unresolved", d.Unresolved,
		"self", d.SelfReferences,
		"duplicates", d.Duplicates)
	return g
}

// Layout computes positions for g. Layouts that don't depend on prior
// positions are served from and written to the cache.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options, prior graph.Positions) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	hooks := observability.Pipeline()
	algo := string(opts.Algorithm)
	hooks.OnLayoutStart(ctx, algo, len(g.Nodes))
	start := time.Now()

	useCache := !usesPrior(opts.Algorithm, prior)
	var key string
	if useCache {
		key = r.Keyer.LayoutKey(GraphHash(g), opts.LayoutKeyOpts())
		if l, ok := r.cachedLayout(ctx, key, opts); ok {
			hooks.OnLayoutComplete(ctx, algo, time.Since(start), nil)
			return l, true, nil
		}
	}

	l, err := GenerateLayout(g, opts, prior)
	hooks.OnLayoutComplete(ctx, algo, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if useCache {
		if data, err := graph.MarshalLayout(l); err == nil {
			r.store(ctx, cache.KeyTypeLayout, key, data, TTLLayout)
		}
	}
	return l, false, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string, opts Options) (graph.Layout, bool) {
	if opts.Refresh {
		return graph.Layout{}, false
	}
	data, ok := r.lookup(ctx, cache.KeyTypeLayout, key)
	if !ok {
		return graph.Layout{}, false
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		r.Logger.Debug("discarding unreadable cached layout", "err", err)
		return graph.Layout{}, false
	}
	return l, true
}

// RenderWithCacheInfo renders one format of snap. SVG and PNG are cached;
// JSON and DOT are cheaper to regenerate than to look up.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap *Snapshot, f render.Format, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	opts.Formats = []string{string(f)}
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	f = render.Format(opts.Formats[0])

	if !cacheable(f) {
		data, err := renderFormat(ctx, snap.Graph, snap.Layout, f, opts)
		return data, false, err
	}

	key := r.Keyer.RenderKey(snap.Hash(), opts.RenderKeyOpts(string(f)))
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, cache.KeyTypeRender, key); ok {
			return data, true, nil
		}
	}

	data, err := renderFormat(ctx, snap.Graph, snap.Layout, f, opts)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, cache.KeyTypeRender, key, data, TTLArtifact)
	return data, false, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, snap *Snapshot, f render.Format, opts Options) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, snap, f, opts)
	return data, err
}

// lookup reads the cache. Backend errors degrade to a miss.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

// store writes the cache. Failures are logged, never returned.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close closes the cache.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}

// applyLogger lends the runner's logger to opts that carry none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// GraphHash is the content hash of g's nodes and edges. Diagnostics don't
// take part: two document sets producing the same graph share layouts.
func GraphHash(g *graph.Graph) string {
	data, err := graph.MarshalGraph(&graph.Graph{Nodes: g.Nodes, Edges: g.Edges})
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
