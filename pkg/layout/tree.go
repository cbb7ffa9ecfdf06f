package layout

import (
	"math"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

// status tracks a node through the tree traversal.
type status uint8

const (
	unvisited status = iota
	visiting
	placed
)

// treeArena holds the traversal state shared by every root. It is passed
// explicitly so the traversal has no hidden captures.
type treeArena struct {
	children map[string][]string
	status   map[string]status
	grid     map[string]graph.Position // x = cursor slot, y = depth
	cursor   float64
}

// placeSubtree lays out id and its unvisited descendants. Leaves take the
// next cursor slot; an internal node sits at the midpoint of the slots its
// children consumed. A node already entered elsewhere is not re-entered,
// which bounds the walk to one visit per node even on cycles.
func placeSubtree(a *treeArena, id string, depth int) {
	if a.status[id] != unvisited {
		return
	}
	a.status[id] = visiting

	kids := a.children[id]
	if len(kids) == 0 {
		a.grid[id] = graph.Position{X: a.cursor, Y: float64(depth)}
		a.cursor++
		a.status[id] = placed
		return
	}

	start := a.cursor
	for _, k := range kids {
		placeSubtree(a, k, depth+1)
	}
	end := a.cursor - 1
	a.grid[id] = graph.Position{X: (start + end) / 2, Y: float64(depth)}
	a.status[id] = placed
}

// Tree places nodes as a forest grown from [Roots].
//
// A node reachable from several roots is placed under whichever root reaches
// it first, so its position depends on root order rather than on structure
// alone. Nodes never reached (cut off by cycles) follow the last tree at
// depth zero. The slot grid is then scaled into the canvas: x spans
// [Margin, Width-Margin], y starts at Top and grows by at most LevelGap per
// level.
func Tree(g *graph.Graph, c Canvas, p TreeParams) graph.Positions {
	out := make(graph.Positions, len(g.Nodes))
	if len(g.Nodes) == 0 {
		return out
	}

	a := &treeArena{
		children: g.Adjacency().Children,
		status:   make(map[string]status, len(g.Nodes)),
		grid:     make(map[string]graph.Position, len(g.Nodes)),
	}

	for _, r := range Roots(g) {
		placeSubtree(a, r, 0)
		a.cursor++ // gap between trees
	}
	for _, n := range g.Nodes {
		if _, ok := a.grid[n.ID]; !ok {
			a.grid[n.ID] = graph.Position{X: a.cursor, Y: 0}
			a.cursor++
		}
	}

	minX, _, maxX, maxY, _ := graph.Positions(a.grid).Bounds()
	spanX := math.Max(1, maxX-minX)
	spanY := math.Max(1, maxY)
	usableW := math.Max(1, c.Width-2*p.Margin)
	usableH := math.Max(1, c.Height-p.Top-p.Margin)
	height := math.Min(usableH, p.LevelGap*(maxY+1))

	for id, cell := range a.grid {
		out[id] = graph.Position{
			X: p.Margin + (cell.X-minX)/spanX*usableW,
			Y: p.Top + cell.Y/spanY*height,
		}
	}
	return clampAll(out, c, p.Margin)
}
