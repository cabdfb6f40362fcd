package dag

import "cmp"

// Depths computes the depth of every node in the graph.
//
// The depth of a node is the length of the longest directed path from the
// node to any sink: sinks (no outgoing edges) have depth 0, and every other
// node has depth 1 + max(depth of its children). For every edge u→v this
// yields depth(u) > depth(v), which is what allows nodes to be stacked into
// rows with all parents strictly above their children.
//
// Depths runs an iterative post-order DFS with an explicit stack, so graph
// depth is bounded by memory rather than by the call stack. Time complexity
// is O(V+E).
func Depths[N cmp.Ordered](g *Graph[N]) map[N]int {
	return longestPath(g.ids, g.Children)
}

// heights computes the longest-path distance from any source, i.e. depths
// over the reversed edge relation. Used for the in-row ordering score.
func heights[N cmp.Ordered](g *Graph[N]) map[N]int {
	return longestPath(g.ids, g.Parents)
}

// longestPath computes, for every node, the length of the longest path
// following adj. The adjacency must be acyclic; this is guaranteed for
// graphs produced by New.
func longestPath[N cmp.Ordered](ids []N, adj func(N) []N) map[N]int {
	dist := make(map[N]int, len(ids))

	type frame struct {
		node N
		next int
	}

	for _, root := range ids {
		if _, done := dist[root]; done {
			continue
		}
		stack := []frame{{node: root}}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			targets := adj(f.node)
			if f.next < len(targets) {
				child := targets[f.next]
				f.next++
				if _, done := dist[child]; !done {
					stack = append(stack, frame{node: child})
				}
				continue
			}

			// All successors resolved; post-order visit.
			d := 0
			for _, child := range targets {
				if cd := dist[child] + 1; cd > d {
					d = cd
				}
			}
			dist[f.node] = d
			stack = stack[:len(stack)-1]
		}
	}
	return dist
}
