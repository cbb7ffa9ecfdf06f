package graph

import (
	"unicode/utf8"

	"github.com/Errze/note-bad-ideas/pkg/refs"
)

// NewIndex builds the identifier and normalized-title tables for docs.
// Documents later in the slice win title collisions. The index is keyed by
// the same node IDs and labels that [Build] produces.
func NewIndex(docs []Document) refs.Index {
	idx := refs.NewIndex(len(docs))
	for i, d := range docs {
		idx.Add(nodeID(d, i), nodeLabel(d, i))
	}
	return idx
}

// Build turns a snapshot of documents into a graph. It never fails: unknown
// targets are counted as unresolved, self references and repeated pairs are
// dropped.
func Build(docs []Document) *Graph {
	return BuildWithIndex(docs, NewIndex(docs))
}

// BuildWithIndex is [Build] against a caller-supplied index, for resolving a
// collection against a wider set of known documents.
func BuildWithIndex(docs []Document, idx refs.Index) *Graph {
	g := &Graph{
		Nodes: make([]Node, len(docs)),
		Edges: []Edge{},
	}
	diag := &Diagnostics{
		Documents:   len(docs),
		PerDocument: make([]DocumentStats, 0, len(docs)),
	}

	for i, d := range docs {
		g.Nodes[i] = Node{ID: nodeID(d, i), Label: nodeLabel(d, i), Size: SizeHint(d.Content)}
		if utf8.RuneCountInString(d.Content) >= contentThreshold {
			diag.WithContent++
		}
	}

	seen := make(map[string]struct{})
	for i, n := range g.Nodes {
		raw := refs.Extract(docs[i].Content)
		res := idx.Resolve(raw)

		for _, r := range raw {
			if r.Kind == refs.KindID {
				diag.IDReferences++
			} else {
				diag.TitleReferences++
			}
		}
		diag.RawReferences += len(raw)
		diag.ResolvedByID += res.ByID
		diag.ResolvedByTitle += res.ByTitle
		diag.Unresolved += res.Unresolved
		diag.Duplicates += res.Resolved() - len(res.Targets)

		targets := res.Without(n.ID)
		diag.SelfReferences += len(res.Targets) - len(targets)

		emitted := make([]string, 0, len(targets))
		for _, t := range targets {
			e := Edge{Source: n.ID, Target: t}
			if _, dup := seen[e.Key()]; dup {
				diag.Duplicates++
				continue
			}
			seen[e.Key()] = struct{}{}
			g.Edges = append(g.Edges, e)
			emitted = append(emitted, t)
		}

		diag.PerDocument = append(diag.PerDocument, DocumentStats{
			ID:         n.ID,
			Raw:        len(raw),
			Resolved:   res.Resolved(),
			Unresolved: res.Unresolved,
			Targets:    emitted,
		})
	}

	diag.Edges = len(g.Edges)
	g.Diagnostics = diag
	return g
}
