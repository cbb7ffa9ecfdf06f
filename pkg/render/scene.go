package render

import (
	"encoding/json"
	"fmt"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

// SceneNode is one drawable node.
type SceneNode struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Display string  `json:"display"`
	Size    int     `json:"size"`
	Color   string  `json:"color"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// SceneData is everything a front-end needs to draw one frame.
type SceneData struct {
	Algorithm string       `json:"algorithm"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Nodes     []SceneNode  `json:"nodes"`
	Edges     []graph.Edge `json:"edges"`
}

// Scene joins graph and layout. Nodes without a position are omitted along
// with their edges; a complete layout never has any.
func Scene(g *graph.Graph, l graph.Layout) SceneData {
	s := SceneData{
		Algorithm: l.Algorithm,
		Width:     l.Width,
		Height:    l.Height,
		Nodes:     make([]SceneNode, 0, len(g.Nodes)),
		Edges:     make([]graph.Edge, 0, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		p, ok := l.Positions[n.ID]
		if !ok {
			continue
		}
		s.Nodes = append(s.Nodes, SceneNode{
			ID:      n.ID,
			Label:   n.Label,
			Display: n.Display(),
			Size:    n.Size,
			Color:   Color(i),
			X:       p.X,
			Y:       p.Y,
		})
	}
	for _, e := range g.Edges {
		_, okS := l.Positions[e.Source]
		_, okT := l.Positions[e.Target]
		if okS && okT {
			s.Edges = append(s.Edges, e)
		}
	}
	return s
}

// MarshalScene encodes the scene as JSON.
func MarshalScene(s SceneData) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return data, nil
}
