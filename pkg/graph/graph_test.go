package graph

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleGraph() *Graph {
	return Build([]Document{
		{ID: "a", Title: "A", Content: "[[B]] [[C]]"},
		{ID: "b", Title: "B", Content: "[[C]]"},
		{ID: "c", Title: "C"},
	})
}

func TestLinks(t *testing.T) {
	g := sampleGraph()

	if got := g.Outgoing("a"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Outgoing(a) = %v", got)
	}
	if got := g.Incoming("c"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Incoming(c) = %v", got)
	}
	if g.InDegree("a") != 0 || g.OutDegree("c") != 0 || g.InDegree("b") != 1 {
		t.Error("unexpected degrees")
	}
	if !g.Has("b") || g.Has("z") {
		t.Error("Has mismatch")
	}
}

func TestAdjacency(t *testing.T) {
	g := sampleGraph()
	g.Edges = append(g.Edges, Edge{Source: "ghost", Target: "a"})

	adj := g.Adjacency()
	if got := adj.Children["a"]; !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Children[a] = %v", got)
	}
	if got := adj.Parents["a"]; len(got) != 0 {
		t.Errorf("edge from unknown node was indexed: %v", got)
	}
	if _, ok := adj.Children["ghost"]; ok {
		t.Error("unknown node present in adjacency")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	g := sampleGraph()
	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	back, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	if !reflect.DeepEqual(g.Nodes, back.Nodes) || !reflect.DeepEqual(g.Edges, back.Edges) {
		t.Error("round trip changed the graph")
	}

	path := filepath.Join(t.TempDir(), "g.json")
	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	if _, err := ReadGraphFile(path); err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
}

func TestReadGraphInvalid(t *testing.T) {
	tests := map[string]string{
		"self loop":      `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"a"}]}`,
		"unknown target": `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"b"}]}`,
		"duplicate node": `{"nodes":[{"id":"a"},{"id":"a"}]}`,
		"duplicate edge": `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b"},{"source":"a","target":"b"}]}`,
		"empty id":       `{"nodes":[{"id":""}]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadGraph(bytes.NewBufferString(in))
			if !errors.Is(err, ErrInvalidGraph) {
				t.Errorf("err = %v, want ErrInvalidGraph", err)
			}
		})
	}

	if _, err := ReadGraph(bytes.NewBufferString("{")); err == nil {
		t.Error("expected decode error")
	}
}

func TestLayoutEnvelope(t *testing.T) {
	l := Layout{Algorithm: "tree", Width: 100, Height: 50, Positions: Positions{"a": {X: 1, Y: 2}}}
	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(l, back) {
		t.Errorf("layout round trip = %+v", back)
	}

	empty, err := UnmarshalLayout([]byte(`{"algorithm":"force"}`))
	if err != nil || empty.Positions == nil {
		t.Errorf("missing positions should decode as empty map, got %v, %v", empty.Positions, err)
	}
}

func TestPositionsBounds(t *testing.T) {
	if _, _, _, _, ok := (Positions{}).Bounds(); ok {
		t.Error("empty positions reported bounds")
	}
	p := Positions{"a": {X: 3, Y: -1}, "b": {X: -2, Y: 4}}
	minX, minY, maxX, maxY, ok := p.Bounds()
	if !ok || minX != -2 || minY != -1 || maxX != 3 || maxY != 4 {
		t.Errorf("Bounds = %v %v %v %v %v", minX, minY, maxX, maxY, ok)
	}
	c := p.Clone()
	c["a"] = Position{}
	if p["a"].X != 3 {
		t.Error("Clone shares storage")
	}
}
