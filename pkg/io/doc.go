// Package io provides JSON import and export for renderable graphs.
//
// # JSON Format
//
// The format has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "app", "label": "application"},
//	    {"id": "lib-a"},
//	    {"id": "lib-b"}
//	  ],
//	  "edges": [
//	    {"from": "app", "to": "lib-a"},
//	    {"from": "lib-a", "to": "lib-b"}
//	  ]
//	}
//
// Every node needs a unique "id"; "label" is optional and defaults to the
// id when absent (an explicitly empty label is kept empty). Every edge
// references node ids declared in the nodes array.
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	g, err := io.ImportJSON("deps.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the graph on construction: edges must reference
// declared nodes, self-loops are rejected, and the edge relation must be
// acyclic. Validation errors can be checked with errors.Is against the
// sentinels in package dag.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to
// any io.Writer. Export is deterministic (nodes and edges are sorted by id)
// and round-trips through [ReadJSON] losslessly.
package io
