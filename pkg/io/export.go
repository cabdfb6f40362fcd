package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/dagscii/pkg/dag"
)

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

// node uses a label pointer so an absent label (defaults to the id) stays
// distinguishable from an explicitly empty one.
type node struct {
	ID    string  `json:"id"`
	Label *string `json:"label,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes a graph as JSON and writes it to w. Nodes and edges are
// emitted in ascending id order, so equal graphs serialize identically. The
// output can be re-imported with [ReadJSON].
func WriteJSON(g *dag.Graph[string], w io.Writer) error {
	out := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}

	for _, id := range g.NodeIDs() {
		n := node{ID: id}
		if label := g.Label(id); label != id {
			n.Label = &label
		}
		out.Nodes = append(out.Nodes, n)

		for _, to := range g.Children(id) {
			out.Edges = append(out.Edges, edge{From: id, To: to})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *dag.Graph[string], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
