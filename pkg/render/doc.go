// Package render turns a laid-out note graph into something a front-end can
// draw.
//
// # Formats
//
//   - json: a [SceneData] with every node's position, size, colour and
//     display label, plus the edge list. Browser and TUI front-ends draw this.
//   - dot: Graphviz source with every node pinned at its computed position.
//   - svg, png: the DOT source rendered in-process with Graphviz.
//
// Layout is never recomputed here. Graphviz runs the neato engine only to
// route edges between the pinned nodes.
//
//	dot := render.ToDOT(g, l, render.Options{Labels: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Colours
//
// Node colours step the hue by the golden angle (137.5°) per node index at
// 70% saturation and 60% lightness, so neighbouring nodes in document order
// stay distinguishable. See [Color].
package render
