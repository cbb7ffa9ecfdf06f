package layout

import (
	"math"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

// springSlack keeps the spring direction defined for coincident endpoints.
const springSlack = 0.001

// Force runs a fixed number of spring/repulsion iterations.
//
// Nodes start at their [WithPrior] position when one exists, otherwise at a
// uniformly random point inside the margins. Each iteration applies
//
//	repulsion  Repulsion/(d²+Epsilon) along the line between every pair
//	springs    (d-IdealLength)*Spring between the endpoints of every edge
//
// then moves each node by velocity*Step, damps the velocity by Damping and
// clamps the node into [Margin, dim-Margin]. Repulsion is O(n²).
//
// Without [WithRand] or [WithSeed] the random source is seeded from
// p.Seed, so equal inputs give equal outputs.
func Force(g *graph.Graph, c Canvas, p ForceParams, opts ...Option) graph.Positions {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = newRand(p.Seed)
	}

	n := len(g.Nodes)
	out := make(graph.Positions, n)
	if n == 0 {
		return out
	}

	index := make(map[string]int, n)
	pos := make([]graph.Position, n)
	vel := make([]graph.Position, n)
	for i, node := range g.Nodes {
		index[node.ID] = i
		if prev, ok := cfg.prior[node.ID]; ok && finite(prev) {
			pos[i] = prev
			continue
		}
		pos[i] = graph.Position{
			X: cfg.rng.Float64()*(c.Width-2*p.Margin) + p.Margin,
			Y: cfg.rng.Float64()*(c.Height-2*p.Margin) + p.Margin,
		}
	}

	type link struct{ a, b int }
	links := make([]link, 0, len(g.Edges))
	for _, e := range g.Edges {
		a, okA := index[e.Source]
		b, okB := index[e.Target]
		if okA && okB {
			links = append(links, link{a, b})
		}
	}

	for range p.Iterations {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				d2 := dx*dx + dy*dy + p.Epsilon
				f := p.Repulsion / d2
				inv := 1 / math.Sqrt(d2)
				fx, fy := dx*inv*f, dy*inv*f
				vel[i].X += fx
				vel[i].Y += fy
				vel[j].X -= fx
				vel[j].Y -= fy
			}
		}

		for _, l := range links {
			dx := pos[l.b].X - pos[l.a].X
			dy := pos[l.b].Y - pos[l.a].Y
			dist := math.Sqrt(dx*dx+dy*dy) + springSlack
			f := (dist - p.IdealLength) * p.Spring
			fx, fy := dx/dist*f, dy/dist*f
			vel[l.a].X += fx
			vel[l.a].Y += fy
			vel[l.b].X -= fx
			vel[l.b].Y -= fy
		}

		for i := range pos {
			pos[i].X += vel[i].X * p.Step
			pos[i].Y += vel[i].Y * p.Step
			vel[i].X *= p.Damping
			vel[i].Y *= p.Damping
			pos[i].X = clamp(pos[i].X, p.Margin, c.Width-p.Margin)
			pos[i].Y = clamp(pos[i].Y, p.Margin, c.Height-p.Margin)
		}
	}

	for i, node := range g.Nodes {
		out[node.ID] = pos[i]
	}
	return clampAll(out, c, p.Margin)
}

func finite(p graph.Position) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
