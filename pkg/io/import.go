package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/dagscii/pkg/dag"
)

// ReadJSON decodes a JSON graph from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a"}, {"id": "b", "label": "B"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Every node needs an "id"; a missing "label" defaults to the id, while an
// explicitly empty "label" stays empty. Duplicate node ids are rejected.
// Edge endpoints must reference declared ids.
//
// ReadJSON returns an error if the JSON is malformed or if the graph fails
// validation: dag.ErrUnknownNodeReference, dag.ErrSelfLoop, and
// dag.ErrCycleDetected can be checked with errors.Is. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*dag.Graph[string], error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	nodes := make(map[string]string, len(data.Nodes))
	for _, n := range data.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node without id")
		}
		if _, ok := nodes[n.ID]; ok {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		label := n.ID
		if n.Label != nil {
			label = *n.Label
		}
		nodes[n.ID] = label
	}

	edges := make(map[string][]string, len(data.Edges))
	for _, e := range data.Edges {
		edges[e.From] = append(edges[e.From], e.To)
	}

	return dag.New(nodes, edges)
}

// ImportJSON reads a JSON graph file at path.
//
// ImportJSON opens the file, decodes it with [ReadJSON], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportJSON(path string) (*dag.Graph[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
