// Package store provides the raw graph arena that every typed view in
// flowgraph is layered over.
//
// # Overview
//
// A [Graph] owns nodes and edges addressed by stable string IDs. Each
// element, and the graph itself, carries two [Metadata] maps:
//
//   - Data: persistent tagged records, written by builders and read by
//     type guards in package graph
//   - Scratch: transient tagged records such as caches or handles into a
//     parsed syntax tree; never persisted or compared
//
// The store knows nothing about tags or views. It only creates, removes and
// resolves elements and answers adjacency queries.
//
// # Basic Usage
//
//	g := store.New()
//	a := g.NewNode()
//	b := g.NewNode()
//	e, _ := g.NewEdge(a.ID, b.ID)
//	g.RemoveNode(b.ID) // also removes e
//
// IDs are UUIDs by default. Use [WithIDGenerator] with [Sequential] for
// deterministic IDs in tests and golden output.
//
// # Concurrency
//
// Graph is not safe for concurrent use. Callers that share a graph between
// goroutines must serialize access, typically with one mutex per graph.
package store
