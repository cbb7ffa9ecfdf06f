package layout

import "github.com/Errze/note-bad-ideas/pkg/graph"

// Degrees counts incoming and outgoing edges per node. Edges touching unknown
// nodes are ignored.
func Degrees(g *graph.Graph) (in, out map[string]int) {
	in = make(map[string]int, len(g.Nodes))
	out = make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		in[n.ID], out[n.ID] = 0, 0
	}
	for _, e := range g.Edges {
		_, okS := out[e.Source]
		_, okT := in[e.Target]
		if !okS || !okT {
			continue
		}
		out[e.Source]++
		in[e.Target]++
	}
	return in, out
}

// Roots returns the nodes with indegree zero in node order. If there are
// none, it returns the single node with the highest outdegree, the earliest
// one on ties. An empty graph has no roots.
func Roots(g *graph.Graph) []string {
	in, out := Degrees(g)

	var roots []string
	for _, n := range g.Nodes {
		if in[n.ID] == 0 {
			roots = append(roots, n.ID)
		}
	}
	if len(roots) > 0 || len(g.Nodes) == 0 {
		return roots
	}

	best := g.Nodes[0].ID
	for _, n := range g.Nodes[1:] {
		if out[n.ID] > out[best] {
			best = n.ID
		}
	}
	return []string{best}
}
