package ascii

import (
	"cmp"

	"github.com/matzehuels/dagscii/pkg/dag"
)

// plan describes one depth level of the diagram: the nodes defined on that
// level and the rails passing through it on their way to a deeper level.
// Rails occupy columns to the right of the level's own nodes.
type plan[N cmp.Ordered] struct {
	defined []N
	passing []N
}

// buildPlans creates a plan per depth and threads passing-by rails from the
// top of the graph downward. An edge whose target is more than one level
// below its source contributes a passing rail to every level in between.
func buildPlans[N cmp.Ordered](g *dag.Graph[N], rows [][]N, depths map[N]int) map[int]*plan[N] {
	maxDepth := len(rows) - 1
	plans := make(map[int]*plan[N], len(rows))
	for i, row := range rows {
		plans[maxDepth-i] = &plan[N]{defined: row}
	}

	for depth := maxDepth; depth >= 2; depth-- {
		computePassing(g, depths, plans, depth)
	}
	return plans
}

// computePassing extends rails from level depth onto level depth-1. A node
// keeps a rail below the next level while it still has a child strictly
// deeper than that level. Rails are recorded once per node per level, in
// first-seen order, which fixes their column assignment.
func computePassing[N cmp.Ordered](g *dag.Graph[N], depths map[N]int, plans map[int]*plan[N], depth int) {
	curr, ok := plans[depth]
	if !ok {
		return
	}
	next, ok := plans[depth-1]
	if !ok {
		return
	}

	for _, node := range curr.defined {
		if passesBelow(g, depths, node, depth) {
			next.passing = append(next.passing, node)
		}
	}
	for _, node := range curr.passing {
		if passesBelow(g, depths, node, depth) {
			next.passing = append(next.passing, node)
		}
	}
}

// passesBelow reports whether the node has a child deeper than depth-1,
// i.e. whether its rail must continue past the next level.
func passesBelow[N cmp.Ordered](g *dag.Graph[N], depths map[N]int, node N, depth int) bool {
	for _, child := range g.Children(node) {
		if depths[child] < depth-1 {
			return true
		}
	}
	return false
}
