// Package layout computes 2-D positions for a note-link graph.
//
// Three interchangeable algorithms are provided:
//
//   - [Force]: iterative spring/repulsion simulation, seeded from prior
//     positions so re-layouts stay stable
//   - [Tree]: depth-first tidy placement from the root set, cycle tolerant
//   - [Radial]: breadth-first rings around the canvas centre
//
// [Compute] dispatches on an [Algorithm] name. Every algorithm returns one
// position per node, finite and inside the canvas inset by the algorithm's
// margin. None of them returns an error; empty graphs yield empty maps.
//
// # Roots
//
// Tree and Radial start from [Roots]: every node with no incoming edge, or,
// when every node has one, the single node with the most outgoing edges
// (first in node order on ties).
//
// # Cost
//
// Force is O(n²) per iteration because every pair of nodes repels. That is
// fine for tens to low hundreds of notes. Larger collections would need a
// spatial index (grid or quad-tree), which this package does not provide.
// All algorithms run synchronously to completion.
//
// # Determinism
//
// Tree and Radial are pure functions of node and edge order. Force draws
// initial positions for nodes without a prior position from an injectable
// random source; [WithSeed] and [WithRand] make it reproducible.
package layout
