package pipeline

import (
	"context"

	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/layout"
	"github.com/Errze/note-bad-ideas/pkg/viewport"
)

// Workspace holds the current snapshot of one document collection and the
// viewport looking at it.
//
// A Workspace is not safe for concurrent use; the engine is single-threaded
// and callers serialise access (the server keeps one mutex per group).
type Workspace struct {
	runner *Runner
	opts   Options
	snap   *Snapshot
	view   *viewport.Viewport
}

// NewWorkspace returns an empty workspace. view may be nil for headless use.
func NewWorkspace(r *Runner, opts Options, view *viewport.Viewport) (*Workspace, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	empty := &graph.Graph{Nodes: []graph.Node{}, Edges: []graph.Edge{}}
	return &Workspace{
		runner: r,
		opts:   opts,
		snap: NewSnapshot(empty, graph.Layout{
			Algorithm: string(opts.Algorithm),
			Width:     opts.Width,
			Height:    opts.Height,
			Positions: graph.Positions{},
		}),
		view: view,
	}, nil
}

// Snapshot returns the current snapshot.
func (w *Workspace) Snapshot() *Snapshot { return w.snap }

// Viewport returns the attached viewport, or nil.
func (w *Workspace) Viewport() *viewport.Viewport { return w.view }

// Options returns the effective layout options.
func (w *Workspace) Options() Options { return w.opts }

// Rebuild builds a graph from docs and lays it out. Force layouts start from
// the current positions so the picture stays stable while notes are edited;
// new nodes start at random points. The new snapshot replaces the old one
// only when layout succeeds.
func (w *Workspace) Rebuild(ctx context.Context, docs []graph.Document) (*Snapshot, error) {
	g := w.runner.Build(ctx, docs)

	var prior graph.Positions
	if w.opts.Algorithm == layout.AlgorithmForce {
		prior = w.snap.Layout.Positions
	}
	return w.relayout(ctx, g, prior)
}

// SetAlgorithm switches the layout algorithm and lays out the current graph
// from scratch.
func (w *Workspace) SetAlgorithm(ctx context.Context, algo layout.Algorithm) (*Snapshot, error) {
	next := w.opts
	next.Algorithm = algo
	if err := next.ValidateForLayout(); err != nil {
		return nil, err
	}
	prev := w.opts
	w.opts = next
	snap, err := w.relayout(ctx, w.snap.Graph, nil)
	if err != nil {
		w.opts = prev
	}
	return snap, err
}

// SetCanvas changes the canvas size and lays out the current graph again.
func (w *Workspace) SetCanvas(ctx context.Context, c layout.Canvas) (*Snapshot, error) {
	next := w.opts
	next.Width, next.Height = c.Width, c.Height
	if err := next.ValidateForLayout(); err != nil {
		return nil, err
	}
	prev := w.opts
	w.opts = next
	snap, err := w.relayout(ctx, w.snap.Graph, nil)
	if err != nil {
		w.opts = prev
	}
	return snap, err
}

func (w *Workspace) relayout(ctx context.Context, g *graph.Graph, prior graph.Positions) (*Snapshot, error) {
	l, hit, err := w.runner.Layout(ctx, g, w.opts, prior)
	if err != nil {
		return nil, err
	}
	w.snap = NewSnapshot(g, l)
	if w.view != nil {
		w.view.SetScene(g.Nodes, l.Positions)
	}
	w.runner.Logger.Debug("workspace updated",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"algorithm", l.Algorithm,
		"cached", hit)
	return w.snap, nil
}
