package dag

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownNodeReference is returned by [New] when an edge names a node
	// ID that is absent from the node set. Both endpoints of every edge must
	// be declared as nodes.
	ErrUnknownNodeReference = errors.New("edge references unknown node")

	// ErrSelfLoop is returned by [New] when an edge's source equals its
	// target. Self-loops cannot be laid out and are always rejected.
	ErrSelfLoop = errors.New("self-loop edge")

	// ErrCycleDetected is returned by [New] when the edge relation contains a
	// directed cycle. Cycles are detected using depth-first search with
	// white/gray/black coloring.
	ErrCycleDetected = errors.New("graph contains a cycle")
)

// Graph is an immutable directed acyclic graph used for rendering.
//
// A Graph is created by [New], which copies its inputs and validates them
// eagerly: every edge endpoint must exist, self-loops are rejected, and the
// edge relation must be acyclic. Construction either fully succeeds or fully
// fails; a successfully constructed Graph cannot be mutated and is therefore
// safe for concurrent reads.
//
// The node ID type N must be ordered. The ordering is used only to make
// iteration deterministic (adjacency lists and node listings are sorted by
// ID), never to carry meaning.
type Graph[N cmp.Ordered] struct {
	labels   map[N]string
	children map[N][]N
	parents  map[N][]N
	ids      []N
	edges    int
}

// New builds a validated Graph from a node set and a directed edge relation.
//
// nodes maps each node ID to its display label (labels may be empty).
// edges maps a node to the set of its children; duplicate children are
// collapsed. The inputs are copied, so the caller is free to reuse or mutate
// them afterwards.
//
// New returns ErrUnknownNodeReference if an edge endpoint is missing from
// nodes, ErrSelfLoop if an edge's source equals its target, or
// ErrCycleDetected if the edges contain a directed cycle. All errors are
// wrapped with the offending node IDs and can be checked with errors.Is.
func New[N cmp.Ordered](nodes map[N]string, edges map[N][]N) (*Graph[N], error) {
	g := &Graph[N]{
		labels:   make(map[N]string, len(nodes)),
		children: make(map[N][]N, len(edges)),
		parents:  make(map[N][]N),
		ids:      make([]N, 0, len(nodes)),
	}

	for id, label := range nodes {
		g.labels[id] = label
		g.ids = append(g.ids, id)
	}
	slices.Sort(g.ids)

	for src, targets := range edges {
		if _, ok := g.labels[src]; !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnknownNodeReference, src)
		}
		for _, dst := range targets {
			if _, ok := g.labels[dst]; !ok {
				return nil, fmt.Errorf("%w: %v", ErrUnknownNodeReference, dst)
			}
			if src == dst {
				return nil, fmt.Errorf("%w: %v", ErrSelfLoop, src)
			}
		}
		kids := slices.Clone(targets)
		slices.Sort(kids)
		kids = slices.Compact(kids)
		g.children[src] = kids
		g.edges += len(kids)
		for _, dst := range kids {
			g.parents[dst] = append(g.parents[dst], src)
		}
	}

	for _, sources := range g.parents {
		slices.Sort(sources)
	}

	if err := g.detectCycle(); err != nil {
		return nil, err
	}
	return g, nil
}

// NodeIDs returns all node IDs in ascending order.
// The returned slice is a copy and can be modified freely.
func (g *Graph[N]) NodeIDs() []N { return slices.Clone(g.ids) }

// Label returns the display label of a node, or the empty string if the
// node does not exist.
func (g *Graph[N]) Label(id N) string { return g.labels[id] }

// Children returns the IDs of the node's direct successors in ascending
// order. The returned slice is a read-only view and must not be modified.
func (g *Graph[N]) Children(id N) []N { return g.children[id] }

// Parents returns the IDs of the node's direct predecessors in ascending
// order. The returned slice is a read-only view and must not be modified.
func (g *Graph[N]) Parents(id N) []N { return g.parents[id] }

// HasEdge reports whether the directed edge from→to exists.
func (g *Graph[N]) HasEdge(from, to N) bool {
	_, ok := slices.BinarySearch(g.children[from], to)
	return ok
}

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph[N]) OutDegree(id N) int { return len(g.children[id]) }

// InDegree returns the number of incoming edges to the node.
func (g *Graph[N]) InDegree(id N) int { return len(g.parents[id]) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph[N]) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of distinct directed edges in the graph.
func (g *Graph[N]) EdgeCount() int { return g.edges }

// detectCycle runs an explicit-stack DFS over the children relation.
// Recursion is avoided so arbitrarily deep graphs cannot exhaust the call
// stack. Encountering a gray (in-progress) node means a back edge exists.
func (g *Graph[N]) detectCycle() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[N]int, len(g.ids))

	type frame struct {
		node N
		next int
	}

	for _, root := range g.ids {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{node: root}}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			kids := g.children[f.node]
			if f.next < len(kids) {
				child := kids[f.next]
				f.next++
				switch color[child] {
				case white:
					color[child] = gray
					stack = append(stack, frame{node: child})
				case gray:
					return fmt.Errorf("%w: %v -> %v", ErrCycleDetected, f.node, child)
				}
				continue
			}
			color[f.node] = black
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}
