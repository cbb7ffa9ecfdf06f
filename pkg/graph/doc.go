// Package graph builds the note-link graph and defines its wire format.
//
// # Building
//
// [Build] consumes a snapshot of [Document] values and produces a [Graph]:
// one [Node] per document, in document order, and one directed [Edge] per
// distinct (source, target) pair that the document content references.
//
//	g := graph.Build(docs)
//	fmt.Println(g.Diagnostics) // notes=3 raw=2 id=0 title=1 unresolved=1 edges=1 ...
//
// Construction is a pure function of the documents. It uses [refs.Extract]
// and resolves against the tables returned by [NewIndex]; those tables are
// values, passed explicitly, never package state.
//
// Building never fails. Malformed or dangling references are counted as
// unresolved, self references are dropped and repeated pairs collapse into
// one edge. [Diagnostics] records every one of these decisions exactly.
//
// # Node Fields
//
//   - Label: the document title, or "Note <n>" when the title is blank
//   - Size: a radius hint, clamp(26, round(len(content)/60)+26, 60)
//
// [DisplayLabel] shortens labels for drawing.
//
// # Serialization
//
// Graphs use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a", "label": "A", "size": 26}],
//	  "edges": [{"source": "a", "target": "b"}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalGraph(g)           // Graph → []byte
//	g, err := graph.UnmarshalGraph(data)       // []byte → Graph (validated)
//	g, err := graph.ReadGraphFile("g.json")    // File → Graph
//
// [Layout] is the matching envelope for computed [Positions].
//
// # Concurrency
//
// A Graph is never mutated after Build returns and is safe for concurrent
// reads. Rebuilds produce a new value.
package graph
