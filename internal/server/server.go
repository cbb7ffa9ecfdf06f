// Package server exposes the note graph engine over HTTP.
//
// The server is the rendering collaborator's backend: it lists groups, serves
// built graphs, laid-out scenes and Graphviz renders, and keeps interactive
// viewport sessions so a thin browser front-end can post raw pointer events.
//
// Each group owns one [pipeline.Workspace] guarded by its own mutex. Requests
// for the same group run the engine one after another; different groups run
// in parallel.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/layout"
	"github.com/Errze/note-bad-ideas/pkg/pipeline"
	"github.com/Errze/note-bad-ideas/pkg/session"
	"github.com/Errze/note-bad-ideas/pkg/source"
	"github.com/Errze/note-bad-ideas/pkg/viewport"
)

const shutdownTimeout = 10 * time.Second

// Config configures a Server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	SessionTTL     time.Duration

	// Layout holds the default algorithm, canvas and parameters.
	Layout   pipeline.Options
	Viewport viewport.Options
}

// Option customises a Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// Server serves one document source.
type Server struct {
	cfg      Config
	src      source.Source
	runner   *pipeline.Runner
	sessions session.Store
	logger   *log.Logger
	metrics  http.Handler
	validate *validator.Validate

	mu     sync.Mutex
	groups map[string]*group
}

// group is the per-group engine state.
type group struct {
	mu    sync.Mutex
	ws    *pipeline.Workspace
	stale bool

	// views memoises layouts other than the workspace's own, keyed by
	// algorithm and canvas. It is valid for the snapshot in viewsOf only.
	views   map[viewKey]*pipeline.Snapshot
	viewsOf *pipeline.Snapshot
}

type viewKey struct {
	algo   layout.Algorithm
	canvas layout.Canvas
}

// New creates a server. The caller keeps ownership of src, runner and
// sessions.
func New(cfg Config, src source.Source, runner *pipeline.Runner, sessions session.Store, opts ...Option) *Server {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.Viewport == (viewport.Options{}) {
		cfg.Viewport = viewport.DefaultOptions()
	}
	s := &Server{
		cfg:      cfg,
		src:      src,
		runner:   runner,
		sessions: sessions,
		logger:   log.Default(),
		validate: validator.New(),
		groups:   make(map[string]*group),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Invalidate marks every loaded group stale; the next request reloads its
// documents and rebuilds. It is safe to call from any goroutine.
func (s *Server) Invalidate() {
	s.mu.Lock()
	groups := make([]*group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	s.mu.Unlock()

	for _, g := range groups {
		g.mu.Lock()
		g.stale = true
		g.mu.Unlock()
	}
}

func (s *Server) group(id string) *group {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		g = &group{stale: true}
		s.groups[id] = g
	}
	return g
}

// forget drops a group that turned out not to exist.
func (s *Server) forget(id string) {
	s.mu.Lock()
	delete(s.groups, id)
	s.mu.Unlock()
}

// withGroup runs fn with the group's up-to-date workspace while holding the
// group lock.
func (s *Server) withGroup(ctx context.Context, id string, fn func(g *group) error) error {
	g := s.group(id)
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ws == nil {
		ws, err := pipeline.NewWorkspace(s.runner, s.cfg.Layout, nil)
		if err != nil {
			return err
		}
		g.ws = ws
	}
	if g.stale {
		res, err := pipeline.Load(ctx, s.src, id)
		if err != nil {
			if errors.Is(err, source.ErrGroupNotFound) {
				defer s.forget(id)
			}
			return err
		}
		if _, err := g.ws.Rebuild(ctx, res.Documents); err != nil {
			return err
		}
		if res.Skipped > 0 {
			s.logger.Warn("skipped unreadable notes", "group", id, "count", res.Skipped)
		}
		g.stale = false
	}
	if g.viewsOf != g.ws.Snapshot() {
		g.views = make(map[viewKey]*pipeline.Snapshot)
		g.viewsOf = g.ws.Snapshot()
	}
	return fn(g)
}

// snapshotFor returns the group's graph laid out with algo on canvas c.
// The workspace's own snapshot is reused when it matches.
func (s *Server) snapshotFor(ctx context.Context, id string, algo layout.Algorithm, c layout.Canvas) (*pipeline.Snapshot, error) {
	var snap *pipeline.Snapshot
	err := s.withGroup(ctx, id, func(g *group) error {
		cur := g.ws.Snapshot()
		opts := g.ws.Options()
		if algo == "" {
			algo = opts.Algorithm
		}
		if c == (layout.Canvas{}) {
			c = opts.Canvas()
		}
		if algo == opts.Algorithm && c == opts.Canvas() {
			snap = cur
			return nil
		}
		key := viewKey{algo: algo, canvas: c}
		if v, ok := g.views[key]; ok {
			snap = v
			return nil
		}
		opts.Algorithm = algo
		opts.Width, opts.Height = c.Width, c.Height
		l, _, err := s.runner.Layout(ctx, cur.Graph, opts, nil)
		if err != nil {
			return err
		}
		snap = pipeline.NewSnapshot(cur.Graph, l)
		g.views[key] = snap
		return nil
	})
	return snap, err
}

// graphFor returns the group's current graph.
func (s *Server) graphFor(ctx context.Context, id string) (*graph.Graph, error) {
	var g *graph.Graph
	err := s.withGroup(ctx, id, func(grp *group) error {
		g = grp.ws.Snapshot().Graph
		return nil
	})
	return g, err
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	go s.cleanupLoop(ctx)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// cleanupLoop drops expired sessions periodically.
func (s *Server) cleanupLoop(ctx context.Context) {
	t := time.NewTicker(s.cfg.SessionTTL / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
