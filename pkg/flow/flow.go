// Package flow builds renderable graphs from dataflow operation lists, the
// shape exported by tensor-graph and query-plan tooling: each operation
// names the operations whose outputs it consumes.
package flow

import (
	"strings"

	"github.com/matzehuels/dagscii/pkg/dag"
	"github.com/matzehuels/dagscii/pkg/render/ascii"
)

// Op is one operation of a dataflow graph.
//
// Inputs reference producing operations by name. A reference may carry an
// output selector suffix (`matmul:1`) and control dependencies are marked
// with a leading caret (`^init`); both decorations are stripped when the
// edge is built.
type Op struct {
	Name   string   `json:"name" bson:"name"`
	Inputs []string `json:"inputs,omitempty" bson:"inputs,omitempty"`
}

// Build converts an operation list into a validated graph. Every operation
// becomes a node labeled with its own name, and every input reference an
// edge from the producer to the consumer.
//
// A reference to an operation that is not in the list surfaces as
// dag.ErrUnknownNodeReference.
func Build(ops []Op) (*dag.Graph[string], error) {
	nodes := make(map[string]string, len(ops))
	edges := make(map[string][]string)

	for _, op := range ops {
		nodes[op.Name] = op.Name
		for _, ref := range op.Inputs {
			producer := producerName(ref)
			edges[producer] = append(edges[producer], op.Name)
		}
	}
	return dag.New(nodes, edges)
}

// Render builds the graph and renders it as ASCII art with the default
// options.
func Render(ops []Op) (string, error) {
	g, err := Build(ops)
	if err != nil {
		return "", err
	}
	return ascii.Render(g), nil
}

// producerName strips the decorations off an input reference: the output
// selector after the first colon and the control-dependency caret.
func producerName(ref string) string {
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		ref = ref[:i]
	}
	return strings.TrimPrefix(ref, "^")
}
