package dag

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

// referenceGraph is the eight-node graph used across the package tests:
//
//	0 → 2, 1 → 2, 2 → 3, 4 → 3, 6 → 3, 7 → 3, 3 → 5
func referenceGraph(t *testing.T) *Graph[int] {
	t.Helper()
	g, err := New(
		map[int]string{0: "L0", 1: "L1", 2: "L2", 3: "L3", 4: "L4", 5: "L5", 6: "L6", 7: "L7"},
		map[int][]int{0: {2}, 1: {2}, 2: {3}, 3: {5}, 4: {3}, 6: {3}, 7: {3}},
	)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}
	return g
}

func TestNew_UnknownSource(t *testing.T) {
	_, err := New(map[string]string{"a": ""}, map[string][]string{"ghost": {"a"}})
	if !errors.Is(err, ErrUnknownNodeReference) {
		t.Errorf("New() error = %v, want ErrUnknownNodeReference", err)
	}
}

func TestNew_UnknownTarget(t *testing.T) {
	_, err := New(map[string]string{"a": ""}, map[string][]string{"a": {"ghost"}})
	if !errors.Is(err, ErrUnknownNodeReference) {
		t.Errorf("New() error = %v, want ErrUnknownNodeReference", err)
	}
}

func TestNew_SelfLoop(t *testing.T) {
	_, err := New(map[string]string{"a": ""}, map[string][]string{"a": {"a"}})
	if !errors.Is(err, ErrSelfLoop) {
		t.Errorf("New() error = %v, want ErrSelfLoop", err)
	}
}

func TestNew_CycleDetected(t *testing.T) {
	cases := []map[int][]int{
		{1: {2}, 2: {1}},                 // two-cycle
		{1: {2}, 2: {3}, 3: {1}},         // triangle
		{1: {2}, 2: {3}, 3: {4}, 4: {2}}, // cycle behind a lead-in edge
	}

	for i, edges := range cases {
		nodes := map[int]string{1: "", 2: "", 3: "", 4: ""}
		g, err := New(nodes, edges)
		if !errors.Is(err, ErrCycleDetected) {
			t.Errorf("case %d: New() error = %v, want ErrCycleDetected", i, err)
		}
		if g != nil {
			t.Errorf("case %d: New() returned a graph alongside an error", i)
		}
	}
}

func TestNew_Accessors(t *testing.T) {
	g, err := New(
		map[string]string{"a": "app", "b": "lib", "c": "core"},
		map[string][]string{"a": {"c", "b", "b"}, "b": {"c"}},
	)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	if got := g.NodeCount(); got != 3 {
		t.Errorf("NodeCount() = %d, want 3", got)
	}
	if got := g.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount() = %d, want 3 (duplicate edge collapsed)", got)
	}
	if got := g.Children("a"); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Children(a) = %v, want [b c]", got)
	}
	if got := g.Parents("c"); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Parents(c) = %v, want [a b]", got)
	}
	if !g.HasEdge("a", "c") || g.HasEdge("c", "a") {
		t.Errorf("HasEdge: got a→c=%v c→a=%v, want true false", g.HasEdge("a", "c"), g.HasEdge("c", "a"))
	}
	if got := g.Label("b"); got != "lib" {
		t.Errorf("Label(b) = %q, want %q", got, "lib")
	}
	if got := g.NodeIDs(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("NodeIDs() = %v, want [a b c]", got)
	}
}

func TestNew_CopiesInputs(t *testing.T) {
	nodes := map[int]string{1: "one", 2: "two"}
	edges := map[int][]int{1: {2}}

	g, err := New(nodes, edges)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	nodes[1] = "mutated"
	edges[1][0] = 1

	if got := g.Label(1); got != "one" {
		t.Errorf("Label(1) = %q after input mutation, want %q", got, "one")
	}
	if !g.HasEdge(1, 2) {
		t.Error("HasEdge(1, 2) = false after input mutation, want true")
	}
}

func TestDepths_Reference(t *testing.T) {
	g := referenceGraph(t)
	depths := Depths(g)

	want := map[int]int{0: 3, 1: 3, 2: 2, 4: 2, 6: 2, 7: 2, 3: 1, 5: 0}
	for id, d := range want {
		if depths[id] != d {
			t.Errorf("Depths()[%d] = %d, want %d", id, depths[id], d)
		}
	}
}

func TestDepths_EdgeMonotonicity(t *testing.T) {
	g := referenceGraph(t)
	depths := Depths(g)

	for _, u := range g.NodeIDs() {
		for _, v := range g.Children(u) {
			if depths[u] <= depths[v] {
				t.Errorf("edge %d→%d: depth %d ≤ %d, want strictly greater", u, v, depths[u], depths[v])
			}
		}
	}
}

func TestDepths_DeepChain(t *testing.T) {
	// A chain long enough that a recursive formulation would overflow the
	// call stack on constrained platforms.
	const n = 200000
	nodes := make(map[int]string, n)
	edges := make(map[int][]int, n-1)
	for i := 0; i < n; i++ {
		nodes[i] = ""
		if i+1 < n {
			edges[i] = []int{i + 1}
		}
	}

	g, err := New(nodes, edges)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}

	depths := Depths(g)
	if depths[0] != n-1 {
		t.Errorf("Depths()[0] = %d, want %d", depths[0], n-1)
	}
	if depths[n-1] != 0 {
		t.Errorf("Depths()[%d] = %d, want 0", n-1, depths[n-1])
	}
}

func TestRows_Reference(t *testing.T) {
	g := referenceGraph(t)
	rows := Rows(g, Depths(g))

	want := [][]int{{0, 1}, {2, 4, 6, 7}, {3}, {5}}
	if len(rows) != len(want) {
		t.Fatalf("Rows() returned %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if !slices.Equal(rows[i], want[i]) {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestRows_Completeness(t *testing.T) {
	g := referenceGraph(t)
	depths := Depths(g)
	rows := Rows(g, depths)

	seen := make(map[int]int)
	for _, row := range rows {
		for _, id := range row {
			seen[id]++
		}
	}
	for _, id := range g.NodeIDs() {
		if seen[id] != 1 {
			t.Errorf("node %d appears %d times across rows, want exactly once", id, seen[id])
		}
	}

	distinct := make(map[int]bool)
	for _, d := range depths {
		distinct[d] = true
	}
	if len(rows) != len(distinct) {
		t.Errorf("Rows() returned %d rows, want %d (one per distinct depth)", len(rows), len(distinct))
	}
}

func TestRows_SingleNode(t *testing.T) {
	g, err := New(map[string]string{"only": "only"}, nil)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}
	rows := Rows(g, Depths(g))
	if len(rows) != 1 || len(rows[0]) != 1 || rows[0][0] != "only" {
		t.Errorf("Rows() = %v, want [[only]]", rows)
	}
}

func TestRows_Deterministic(t *testing.T) {
	for i := 0; i < 20; i++ {
		g := referenceGraph(t)
		rows := Rows(g, Depths(g))
		if got := fmt.Sprint(rows); got != "[[0 1] [2 4 6 7] [3] [5]]" {
			t.Fatalf("iteration %d: Rows() = %s, rows must not vary between runs", i, got)
		}
	}
}
