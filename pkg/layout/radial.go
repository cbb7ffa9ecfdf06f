package layout

import (
	"math"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

// Levels assigns each node its breadth-first hop distance from the nearest
// root. The first level a node is discovered at wins; unreachable nodes get
// level zero.
func Levels(g *graph.Graph) map[string]int {
	children := g.Adjacency().Children
	level := make(map[string]int, len(g.Nodes))

	queue := make([]string, 0, len(g.Nodes))
	for _, r := range Roots(g) {
		if _, ok := level[r]; !ok {
			level[r] = 0
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range children[u] {
			if _, ok := level[v]; !ok {
				level[v] = level[u] + 1
				queue = append(queue, v)
			}
		}
	}
	for _, n := range g.Nodes {
		if _, ok := level[n.ID]; !ok {
			level[n.ID] = 0
		}
	}
	return level
}

// Radial puts each BFS level on a ring around the canvas centre. Ring L has
// radius max(MinRing, R/(maxLevel+1)*(L+1)) with R = min(w,h)/2 - Margin,
// capped at R so rings on small canvases stay circular inside the margins.
// Nodes on a ring keep node order and are spaced 2π/k apart starting at
// angle zero.
func Radial(g *graph.Graph, c Canvas, p RadialParams) graph.Positions {
	out := make(graph.Positions, len(g.Nodes))
	if len(g.Nodes) == 0 {
		return out
	}

	level := Levels(g)
	maxLevel := 0
	rings := make(map[int][]string)
	for _, n := range g.Nodes {
		l := level[n.ID]
		maxLevel = max(maxLevel, l)
		rings[l] = append(rings[l], n.ID)
	}

	cx, cy := c.Width/2, c.Height/2
	maxRadius := math.Min(c.Width, c.Height)/2 - p.Margin
	gap := maxRadius / float64(maxLevel+1)
	limit := math.Max(0, maxRadius)

	for l, ids := range rings {
		r := math.Min(limit, math.Max(p.MinRing, gap*float64(l+1)))
		k := float64(len(ids))
		for i, id := range ids {
			ang := float64(i) / k * 2 * math.Pi
			out[id] = graph.Position{X: cx + math.Cos(ang)*r, Y: cy + math.Sin(ang)*r}
		}
	}
	return clampAll(out, c, p.Margin)
}
