package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidGraph is returned when decoded data breaks graph invariants.
var ErrInvalidGraph = errors.New("invalid graph")

// =============================================================================
// Queries
// =============================================================================

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Has reports whether id is a node of g.
func (g *Graph) Has(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// Outgoing returns the targets id links to, in edge order.
func (g *Graph) Outgoing(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// Incoming returns the sources linking to id (its backlinks), in edge order.
func (g *Graph) Incoming(id string) []string {
	var in []string
	for _, e := range g.Edges {
		if e.Target == id {
			in = append(in, e.Source)
		}
	}
	return in
}

// OutDegree is len(g.Outgoing(id)).
func (g *Graph) OutDegree(id string) int { return len(g.Outgoing(id)) }

// InDegree is len(g.Incoming(id)).
func (g *Graph) InDegree(id string) int { return len(g.Incoming(id)) }

// Adjacency is a precomputed view of a graph's edges for traversal.
type Adjacency struct {
	Children map[string][]string
	Parents  map[string][]string
}

// Adjacency indexes children and parents of every node. Edges touching
// unknown nodes are ignored.
func (g *Graph) Adjacency() Adjacency {
	a := Adjacency{
		Children: make(map[string][]string, len(g.Nodes)),
		Parents:  make(map[string][]string, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		a.Children[n.ID] = nil
		a.Parents[n.ID] = nil
	}
	for _, e := range g.Edges {
		if _, ok := a.Children[e.Source]; !ok {
			continue
		}
		if _, ok := a.Parents[e.Target]; !ok {
			continue
		}
		a.Children[e.Source] = append(a.Children[e.Source], e.Target)
		a.Parents[e.Target] = append(a.Parents[e.Target], e.Source)
	}
	return a
}

// Validate checks that node IDs are unique and every edge joins two distinct
// known nodes exactly once.
func (g *Graph) Validate() error {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node with empty id", ErrInvalidGraph)
		}
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("%w: duplicate node %q", ErrInvalidGraph, n.ID)
		}
		ids[n.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		if e.Source == e.Target {
			return fmt.Errorf("%w: self loop on %q", ErrInvalidGraph, e.Source)
		}
		if _, ok := ids[e.Source]; !ok {
			return fmt.Errorf("%w: edge %s: unknown source", ErrInvalidGraph, e.Key())
		}
		if _, ok := ids[e.Target]; !ok {
			return fmt.Errorf("%w: edge %s: unknown target", ErrInvalidGraph, e.Key())
		}
		if _, dup := seen[e.Key()]; dup {
			return fmt.Errorf("%w: duplicate edge %s", ErrInvalidGraph, e.Key())
		}
		seen[e.Key()] = struct{}{}
	}
	return nil
}

// =============================================================================
// JSON
// =============================================================================

// MarshalGraph encodes g as indented JSON.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes data and checks the result with Validate.
func UnmarshalGraph(data []byte) (*Graph, error) {
	return ReadGraph(bytes.NewReader(data))
}

// WriteGraph encodes g as indented JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// WriteGraphFile writes g to path, replacing any existing file.
func WriteGraphFile(g *Graph, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteGraph(g, f)
}

// ReadGraph decodes one graph from r. A missing edge list decodes as empty;
// graphs that fail Validate are rejected.
func ReadGraph(r io.Reader) (*Graph, error) {
	g := new(Graph)
	if err := json.NewDecoder(r).Decode(g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadGraphFile reads a graph written by WriteGraphFile.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGraph(f)
}
