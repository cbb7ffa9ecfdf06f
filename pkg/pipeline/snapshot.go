package pipeline

import (
	"time"

	"github.com/Errze/note-bad-ideas/pkg/cache"
	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/render"
)

// Snapshot is an immutable graph together with the layout computed for it.
// Graph and positions are always replaced together so a reader never sees
// positions for a different graph.
type Snapshot struct {
	Graph   *graph.Graph
	Layout  graph.Layout
	BuiltAt time.Time

	hash string
}

// NewSnapshot pairs g with l.
func NewSnapshot(g *graph.Graph, l graph.Layout) *Snapshot {
	s := &Snapshot{Graph: g, Layout: l, BuiltAt: time.Now()}
	if data, err := graph.MarshalLayout(l); err == nil {
		s.hash = cache.Hash([]byte(GraphHash(g)), data)
	}
	return s
}

// Hash identifies graph and layout together; it keys rendered artifacts.
func (s *Snapshot) Hash() string { return s.hash }

// Scene returns the drawable scene of the snapshot.
func (s *Snapshot) Scene() render.SceneData {
	return render.Scene(s.Graph, s.Layout)
}
