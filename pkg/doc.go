// Package pkg provides the core libraries for graphview, an embeddable
// interactive graph visualization engine.
//
// # Overview
//
// A host owns a [view.GraphView] and calls its Frame method once per display
// frame with the current pointer input and viewport. The view steps the
// active layout, applies the input to the graph, and returns a renderable
// frame of node and edge shapes in screen space. The pkg directory is
// organized into these areas:
//
//  1. [graph] and [geom] - the graph model and 2D math
//  2. [transform] and [interaction] - zoom/pan and pointer handling
//  3. [layout] - random, hierarchical, circular and force-directed layouts
//  4. [render] and [changes] - frame building and change/event reporting
//  5. [view] - the facade tying the above together
//  6. [store], [config], [io], [watch], [server] - host infrastructure
//
// # Architecture
//
// The data flow through one frame:
//
//	interaction.Input + viewport
//	         ↓
//	    [layout] step (positions)
//	         ↓
//	    [interaction] controller (select, drag, zoom, pan)
//	         ↓
//	    [render] Build (screen-space shapes)
//	         ↓
//	    render.Frame + [changes] reports
//
// # Quick Start
//
//	g, _ := io.ImportJSON("graph.json")
//	v, _ := view.New(g, view.WithLayoutState(layout.DefaultState(layout.KindForceDirected)))
//
//	vp := geom.FromSize(800, 600)
//	v.Fit(vp)
//	for {
//	    frame := v.Frame(ctx, readInput(), vp)
//	    draw(frame)
//	    for _, c := range v.DrainChanges() {
//	        handle(c)
//	    }
//	}
//
// # Hosts
//
// The graphview binary drives the same view from a terminal UI
// (bubbletea), an HTTP API (chi) and a batch layout command. Layout state is
// persisted per view id through the [store] backends: file, Redis and
// MongoDB.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -short ./pkg/...   # Skip Graphviz rendering
package pkg
