// Package io persists graphs as snapshots in JSON or MessagePack.
//
// # Snapshot Format
//
// A snapshot holds the graph-level data map, every node and every edge in
// insertion order, and each element's data map keyed by view tag:
//
//	{
//	  "format": "flowgraph/v1",
//	  "data": {"__flow__flow_graph": {"version": "1", "functions": {"main": "n0"}}},
//	  "nodes": [
//	    {"id": "n0", "data": {"__flow__function_node": {"version": "1", "name": "main"}}}
//	  ],
//	  "edges": [
//	    {"id": "e0", "from": "n1", "to": "n2", "data": {...}}
//	  ]
//	}
//
// Element IDs are preserved, so registry entries that refer to node IDs
// stay valid across a round trip. Scratch data is transient and never
// written.
//
// # Records
//
// On read, each tag is decoded into the record type registered for it with
// [graph.RegisterRecord]. Packages register their records in init, so the
// program must import every view package whose records it expects (for
// flow graphs, packages flow and flow/instruction). A tag without a
// registration is kept as a [graph.OpaqueRecord] and written back
// unchanged, so tools can pass through views they do not know.
//
// # Files
//
// [ExportFile] and [ImportFile] pick the encoding from the file extension:
// ".msgpack" and ".mp" use MessagePack, anything else JSON.
//
//	if err := io.ExportFile(fg.Base(), "main.flow.json"); err != nil {
//	    return err
//	}
//	g, err := io.ImportFile("main.flow.json")
package io
