// Package io reads and writes graphs as JSON.
//
// # JSON Format
//
//	{
//	  "directed": true,
//	  "nodes": [
//	    {"id": "app", "label": "App", "x": 0, "y": 0},
//	    {"id": "lib", "color": "#ff8800", "meta": {"version": "1.2"}}
//	  ],
//	  "edges": [
//	    {"from": "app", "to": "lib", "label": "uses"}
//	  ]
//	}
//
// Node ids are strings local to the document. They become the node label
// when no label is given, and are kept in the node payload as a [NodeData]
// so that a written graph can be read back with the same ids. Nodes with
// both x and y are placed; the rest are left for a placement layout.
//
// "directed" defaults to true. Parallel edges and self-loops are allowed.
//
// # Import
//
// [ReadJSON] decodes from any io.Reader and [ImportJSON] from a file. The
// graph is built only through the public graph API, so edge orders follow
// the usual rules. Malformed documents and duplicate node ids are
// INVALID_INPUT errors; edges to unknown ids are INVALID_INPUT as well.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the current graph, including
// positions of placed nodes.
package io
