package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

// pointsPerInch converts node radii (canvas pixels) to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Labels draws the display label inside each node. Without it nodes are
	// plain discs and the full label becomes the tooltip only.
	Labels bool
}

// ToDOT converts a laid-out graph to Graphviz DOT. Positions are pinned
// ("x,y!") with the y axis flipped, since Graphviz grows upwards and the
// canvas grows downwards. Nodes without a position are left for neato to
// place.
func ToDOT(g *graph.Graph, l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph notes {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if l.Width > 0 && l.Height > 0 {
		fmt.Fprintf(&buf, "  bb=\"0,0,%s,%s\";\n", num(l.Width), num(l.Height))
	}
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontname=\"Helvetica\", fontsize=10, penwidth=1.5];\n")
	buf.WriteString("  edge [color=\"#9ca3af\", arrowsize=0.6];\n")
	buf.WriteString("\n")

	for i, n := range g.Nodes {
		attrs := nodeAttrs(n, i, opts)
		if p, ok := l.Positions[n.ID]; ok {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", num(p.X), num(l.Height-p.Y)))
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.ID), strings.Join(attrs, ", "))
	}

	if len(g.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n", dotQuote(e.Source), dotQuote(e.Target))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, i int, opts Options) []string {
	label := ""
	if opts.Labels {
		label = n.Display()
	}
	return []string{
		"label=" + dotQuote(label),
		"tooltip=" + dotQuote(n.Label),
		fmt.Sprintf("width=%s", num(2*float64(n.Size)/pointsPerInch)),
		"fillcolor=" + dotQuote(Color(i)),
		"color=" + dotQuote(Stroke(i)),
	}
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// dotQuote wraps s in a DOT double-quoted string. DOT only understands
// escaped quotes and backslashes; everything else passes through as is.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// num formats a coordinate without trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
