// Package ascii renders directed acyclic graphs as multi-line ASCII-art
// diagrams built from the glyphs 'o', '|', '/', '\', '_' and 'x'.
//
// The layout is row-based: every node is assigned a depth (longest path to a
// sink), nodes sharing a depth form one row, and the rails connecting
// consecutive rows are drawn by walking a set of cursors from their column
// in the upper row to their column in the lower row. Edges spanning several
// levels keep a vertical rail through every row in between.
//
// Rendering is a pure function of the validated graph and the printer
// options: the same input always produces byte-identical output, which makes
// the diagrams safe to commit, diff, and assert on in tests.
//
// Basic usage:
//
//	g, err := dag.New(
//		map[string]string{"a": "app", "b": "lib", "c": "core"},
//		map[string][]string{"a": {"b"}, "b": {"c"}},
//	)
//	if err != nil {
//		return err
//	}
//	fmt.Print(ascii.Render(g))
package ascii

import (
	"cmp"

	"github.com/matzehuels/dagscii/pkg/dag"
)

// Renderer turns a validated graph into its ASCII string form.
// A Renderer is cheap to construct and safe to reuse; it never mutates the
// graph it holds.
type Renderer[N cmp.Ordered] struct {
	graph *dag.Graph[N]
	opts  Options
}

// NewRenderer creates a renderer for the graph with the given options.
func NewRenderer[N cmp.Ordered](g *dag.Graph[N], opts Options) *Renderer[N] {
	return &Renderer[N]{graph: g, opts: opts}
}

// Render renders the graph with [DefaultOptions].
func Render[N cmp.Ordered](g *dag.Graph[N]) string {
	return NewRenderer(g, DefaultOptions()).String()
}

// RenderWith renders the graph with the given options.
func RenderWith[N cmp.Ordered](g *dag.Graph[N], opts Options) string {
	return NewRenderer(g, opts).String()
}

// String renders the graph. An empty graph renders as the empty string;
// any other graph renders as one glyph line per row, interleaved with the
// connector lines between rows, terminated by a single newline.
func (r *Renderer[N]) String() string {
	depths := dag.Depths(r.graph)
	rows := dag.Rows(r.graph, depths)
	if len(rows) == 0 {
		return ""
	}

	plans := buildPlans(r.graph, rows, depths)
	cursors := r.makeCursors(plans, len(rows)-1)
	canvas := r.makeCanvas(cursors, len(rows)-1)
	return newPrinter(r.opts).print(canvas)
}

// cursors holds the rails leaving one level: nodes for rails that start at a
// node of this level (or land on a node of the next), paths for rails merely
// passing through.
type levelCursors[N cmp.Ordered] struct {
	nodes []cursor[N]
	paths []cursor[N]
}

func (lc levelCursors[N]) all() []cursor[N] {
	all := make([]cursor[N], 0, len(lc.nodes)+len(lc.paths))
	all = append(all, lc.nodes...)
	all = append(all, lc.paths...)
	return all
}

// makeCursors assigns every rail its current and target columns, level by
// level from the top. Node slot i of a level sits at logical column 2i;
// passing rails continue right of the defined nodes.
func (r *Renderer[N]) makeCursors(plans map[int]*plan[N], maxDepth int) map[int]levelCursors[N] {
	tracking := make(map[int]levelCursors[N], len(plans))

	for depth := maxDepth; depth >= 0; depth-- {
		next, ok := plans[depth-1]
		if ok {
			tracking[depth] = r.makeLevelCursors(plans[depth], next)
			continue
		}

		// Bottom level: every rail has arrived.
		p := plans[depth]
		static := levelCursors[N]{}
		for i, node := range p.defined {
			static.nodes = append(static.nodes, cursor[N]{node: node, current: i * 2, target: i * 2})
		}
		base := len(p.defined)
		for i, node := range p.passing {
			col := (base + i) * 2
			static.paths = append(static.paths, cursor[N]{node: node, current: col, target: col})
		}
		tracking[depth] = static
	}
	return tracking
}

// makeLevelCursors computes the rails crossing from curr down to next.
// Targets of rails that keep passing are columns after next's defined
// nodes, indexed by the rail's position in next.passing.
func (r *Renderer[N]) makeLevelCursors(curr, next *plan[N]) levelCursors[N] {
	passBase := len(next.defined)

	passTarget := func(node N) (int, bool) {
		for k, p := range next.passing {
			if p == node {
				return (passBase + k) * 2, true
			}
		}
		return 0, false
	}

	var lc levelCursors[N]

	// Rails from defined nodes to nodes of the next level.
	for i, node := range curr.defined {
		for j, child := range next.defined {
			if r.graph.HasEdge(node, child) {
				lc.nodes = append(lc.nodes, cursor[N]{node: node, current: i * 2, target: j * 2})
			}
		}
	}

	// Rails from defined nodes that bypass the next level.
	for i, node := range curr.defined {
		if target, ok := passTarget(node); ok {
			lc.nodes = append(lc.nodes, cursor[N]{node: node, current: i * 2, target: target})
		}
	}

	// Rails passing through curr that land on a node of the next level.
	currBase := len(curr.defined)
	for i, node := range curr.passing {
		for j, child := range next.defined {
			if r.graph.HasEdge(node, child) {
				lc.paths = append(lc.paths, cursor[N]{node: node, current: (currBase + i) * 2, target: j * 2})
			}
		}
	}

	// Rails passing through curr that keep passing below next.
	for i, node := range curr.passing {
		if target, ok := passTarget(node); ok {
			lc.paths = append(lc.paths, cursor[N]{node: node, current: (currBase + i) * 2, target: target})
		}
	}

	return lc
}

// makeCanvas draws every level's glyph row followed by the connector lines
// below it. The line drawn under the bottom row is always a plain hold line
// and is discarded.
func (r *Renderer[N]) makeCanvas(tracking map[int]levelCursors[N], maxDepth int) [][]symbol {
	var canvas [][]symbol
	for depth := maxDepth; depth >= 0; depth-- {
		lc := tracking[depth]
		canvas = append(canvas, r.drawNodeRow(lc))
		canvas = append(canvas, r.drawPaths(lc.all())...)
	}
	return canvas[:len(canvas)-1]
}

// drawNodeRow renders one glyph row: an 'o' per node of the level and a '|'
// per rail passing through it.
func (r *Renderer[N]) drawNodeRow(lc levelCursors[N]) []symbol {
	cells := make([]placed, 0, len(lc.paths)+len(lc.nodes))
	for _, c := range lc.paths {
		cells = append(cells, placed{pos: c.current, sym: symbol{kind: kindHold}})
	}
	for _, c := range lc.nodes {
		cells = append(cells, placed{
			pos: c.current,
			sym: symbol{kind: kindNode, label: r.graph.Label(c.node)},
		})
	}
	return mergeRow(cells)
}

// drawPaths emits connector lines until every cursor reaches its target
// column. Straight rails hold with '|'; cursors moving left compress their
// travel with '_' runs where the line is free; cursors moving right advance
// one column per line.
func (r *Renderer[N]) drawPaths(cs []cursor[N]) [][]symbol {
	var lines [][]symbol
	for {
		done := true
		for _, c := range cs {
			if c.current != c.target {
				done = false
				break
			}
		}
		if done && len(lines) > 0 {
			return lines
		}

		steps := settleLeft(moveCursors(cs))

		cs = cs[:0]
		var cells []placed
		for _, s := range steps {
			cs = append(cs, s.cursor)
			cells = append(cells, s.symbols...)
		}
		lines = append(lines, mergeRow(cells))
	}
}
