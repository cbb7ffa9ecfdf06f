// Package pkg provides the libraries behind notegraph.
//
// # Overview
//
// Notegraph turns a collection of notes that link to each other into a
// node-link graph, positions it and lets people explore it. The pkg
// directory is organized into four areas:
//
//  1. Engine: [refs], [graph], [layout] and [viewport]
//  2. Orchestration: [pipeline]
//  3. Edges of the system: [source], [render], [cache] and [session]
//  4. Support: [config], [errors], [observability] and [buildinfo]
//
// # Architecture
//
// The typical data flow through notegraph:
//
//	Document source (local JSON/Markdown, MongoDB)
//	         ↓
//	    [refs] package (extract and resolve links)
//	         ↓
//	    [graph] package (nodes, edges, diagnostics)
//	         ↓
//	    [layout] package (force, tree or radial positions)
//	         ↓
//	    [viewport] / [render] (interactive view, SVG/PNG/DOT/JSON)
//
// The engine packages never fail and never block: malformed references are
// dropped and counted, and layouts always return a position for every node.
// Errors only appear where the system touches storage, the network or user
// input, and they carry codes from [errors].
//
// # Quick Start
//
//	import (
//	    "github.com/Errze/note-bad-ideas/pkg/graph"
//	    "github.com/Errze/note-bad-ideas/pkg/layout"
//	)
//
//	g := graph.Build([]graph.Document{
//	    {ID: "a", Title: "Plan", Content: "see [[Budget]]"},
//	    {ID: "b", Title: "Budget"},
//	})
//	pos, _ := layout.Compute(g, layout.AlgorithmTree, layout.DefaultCanvas, layout.DefaultParams())
//
// Front-ends that rebuild as notes change use [pipeline.Workspace], which
// keeps force positions stable across rebuilds and keeps the viewport's
// selection while its node still exists.
package pkg
