package dag

import (
	"cmp"
	"slices"
)

// Rows groups nodes into rows by depth, ordered for rendering.
//
// The first row holds the deepest nodes (sources-ward), the last row holds
// the sinks (depth 0). Depths computed by [Depths] are contiguous, so a
// graph whose maximum depth is d yields exactly d+1 rows.
//
// Within a row, nodes are ordered by a centrality score descending, with
// ties broken by ascending node ID. The score of a node is depth + height,
// where height is the longest path from any source. Highly connected nodes
// therefore sit leftmost, which keeps most connector rails short, and the
// ID tie-break makes the order a pure function of the input: identical
// graphs always produce identical rows.
func Rows[N cmp.Ordered](g *Graph[N], depths map[N]int) [][]N {
	if g.NodeCount() == 0 {
		return nil
	}

	hs := heights(g)
	score := func(id N) int { return depths[id] + hs[id] }

	maxDepth := 0
	for _, d := range depths {
		if d > maxDepth {
			maxDepth = d
		}
	}

	rows := make([][]N, maxDepth+1)
	for _, id := range g.ids {
		r := maxDepth - depths[id]
		rows[r] = append(rows[r], id)
	}

	for _, row := range rows {
		slices.SortFunc(row, func(a, b N) int {
			if c := cmp.Compare(score(b), score(a)); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
	}
	return rows
}
