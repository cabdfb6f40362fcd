package dot

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dagscii/pkg/dag"
	"github.com/matzehuels/dagscii/pkg/render/ascii"
)

// Render parses a DOT digraph and renders it as ASCII art with the default
// options.
func Render(r io.Reader) (string, error) {
	g, err := Parse(r)
	if err != nil {
		return "", err
	}
	return ascii.Render(g), nil
}

// RenderFile parses a DOT file and renders it as ASCII art with the default
// options.
func RenderFile(path string) (string, error) {
	g, err := ParseFile(path)
	if err != nil {
		return "", err
	}
	return ascii.Render(g), nil
}

// Marshal converts a graph to Graphviz DOT format. Node identifiers and
// labels are quoted, so arbitrary strings round-trip through [Parse].
func Marshal[N int | string](g *dag.Graph[N]) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("\n")

	for _, id := range g.NodeIDs() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", fmt.Sprint(id), g.Label(id))
	}

	buf.WriteString("\n")
	for _, from := range g.NodeIDs() {
		for _, to := range g.Children(from) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", fmt.Sprint(from), fmt.Sprint(to))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays the graph out with Graphviz and returns the SVG bytes.
// This is the graphical counterpart to the ASCII renderer, useful when the
// diagram outgrows what a terminal can show.
func RenderSVG[N int | string](ctx context.Context, g *dag.Graph[N]) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(Marshal(g)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
