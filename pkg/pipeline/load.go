package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/dagscii/pkg/dag"
	"github.com/matzehuels/dagscii/pkg/flow"
	dagio "github.com/matzehuels/dagscii/pkg/io"
	"github.com/matzehuels/dagscii/pkg/render/dot"
)

// Load reads and validates a graph from the configured source.
//
// Inline data takes precedence over the file path. Validation errors from
// graph construction (dag.ErrUnknownNodeReference, dag.ErrSelfLoop,
// dag.ErrCycleDetected) pass through unwrapped so callers can map them to
// exit codes or HTTP statuses.
func Load(opts Options) (*dag.Graph[string], error) {
	r, closer, err := openInput(opts)
	if err != nil {
		return nil, err
	}
	defer closer()

	switch opts.Source {
	case SourceJSON:
		return dagio.ReadJSON(r)
	case SourceDOT:
		return dot.Parse(r)
	case SourceFlow:
		return loadFlow(r)
	}
	return nil, fmt.Errorf("invalid source: %q", opts.Source)
}

func openInput(opts Options) (io.Reader, func(), error) {
	if len(opts.Data) > 0 {
		return bytes.NewReader(opts.Data), func() {}, nil
	}
	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", opts.Path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// loadFlow decodes a JSON array of dataflow operations:
//
//	[{"name": "x"}, {"name": "add", "inputs": ["x", "y:0"]}]
func loadFlow(r io.Reader) (*dag.Graph[string], error) {
	var ops []flow.Op
	if err := json.NewDecoder(r).Decode(&ops); err != nil {
		return nil, fmt.Errorf("decode flow: %w", err)
	}
	return flow.Build(ops)
}
