// Package graph provides the in-memory graph model behind a graph view.
//
// A [Graph] owns nodes and edges with stable identities, keeps outgoing and
// incoming adjacency indices consistent on every mutation, and stores the
// per-element interaction state (selected, dragged, hovered) that the
// interaction controller and the renderer read and write each frame.
//
// # Identity
//
// [NodeID] and [EdgeID] values come from per-graph counters. An id is never
// handed out twice on the same graph, even after the element is removed, so
// hosts can use ids as keys in their own data structures.
//
// # Parallel Edges and Self-loops
//
// Any number of edges may connect the same pair of nodes, and an edge may
// connect a node to itself. Each edge carries an [Edge.Order] that selects
// its curve offset when drawn:
//
//	a → b   order 0 (straight)
//	a → b   order 1 (first curve)
//	a → b   order 2 (second curve)
//
// A new edge takes the smallest order not in use among edges with the same
// direction. In a directed graph, when a pair would have order 0 in both
// directions, all edges of the pair shift up by one so the two directions
// curve away from each other instead of overlapping. Removing an edge
// shifts down the later siblings, so append-only mutation never renumbers
// existing edges.
//
// # Removal Policy
//
// Removing a node that still has incident edges is an explicit policy
// decision. By default [Graph.RemoveNode] fails with an INVALID_OPERATION
// error and leaves the graph untouched; graphs created with
// [CascadeRemove](true), or calls to [Graph.RemoveNodeCascade], remove the
// incident edges first.
//
// # Iteration Order
//
// [Graph.NodeIDs] and [Graph.EdgeIDs] return ids in insertion order. Layouts
// rely on this to be deterministic across runs.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. It is owned by a single view for
// the duration of a frame.
package graph
