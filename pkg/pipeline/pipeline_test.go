package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dagscii/pkg/cache"
	"github.com/matzehuels/dagscii/pkg/dag"
	"github.com/matzehuels/dagscii/pkg/store"
)

const graphJSON = `{
  "nodes": [
    {"id": "0", "label": "L0"}, {"id": "1", "label": "L1"},
    {"id": "2", "label": "L2"}, {"id": "3", "label": "L3"},
    {"id": "4", "label": "L4"}, {"id": "5", "label": "L5"},
    {"id": "6", "label": "L6"}, {"id": "7", "label": "L7"}
  ],
  "edges": [
    {"from": "0", "to": "2"}, {"from": "1", "to": "2"},
    {"from": "2", "to": "3"}, {"from": "3", "to": "5"},
    {"from": "4", "to": "3"}, {"from": "6", "to": "3"},
    {"from": "7", "to": "3"}
  ]
}`

const wantReference = "o o        L0,L1\n" +
	"|/\n" +
	"o o o o    L2,L4,L6,L7\n" +
	"|/_/_/\n" +
	"o          L3\n" +
	"|\n" +
	"o          L5\n"

func TestValidateSource(t *testing.T) {
	tests := []struct {
		source  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"flow", false},
		{"invalid", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateSource(tt.source)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSource(%q) error = %v, wantErr %v", tt.source, err, tt.wantErr)
		}
	}
}

func TestValidateSpacing(t *testing.T) {
	tests := []struct {
		spacing string
		wantErr bool
	}{
		{"compact", false},
		{"fixed", false},
		{"wide", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateSpacing(tt.spacing)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSpacing(%q) error = %v, wantErr %v", tt.spacing, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Data: []byte("{}")}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if opts.Source != SourceJSON {
		t.Errorf("default Source = %q, want json", opts.Source)
	}
	if opts.Spacing != SpacingCompact {
		t.Errorf("default Spacing = %q, want compact", opts.Spacing)
	}
	if opts.Spaces != DefaultSpaces {
		t.Errorf("default Spaces = %d, want %d", opts.Spaces, DefaultSpaces)
	}
	if opts.Logger == nil {
		t.Error("default Logger should be set")
	}
}

func TestValidateAndSetDefaults_MissingInput(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("missing path and data should fail validation")
	}
}

func TestExecute_JSON(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Source: SourceJSON,
		Data:   []byte(graphJSON),
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.Output != wantReference {
		t.Errorf("Output =\n%s\nwant:\n%s", result.Output, wantReference)
	}
	if result.Stats.NodeCount != 8 || result.Stats.EdgeCount != 7 {
		t.Errorf("Stats = %d nodes %d edges, want 8 and 7", result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if result.GraphHash == "" || len(result.GraphHash) != 64 {
		t.Errorf("GraphHash = %q, want 64-char content hash", result.GraphHash)
	}
	if result.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}
}

func TestExecute_DOT(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Source: SourceDOT,
		Data:   []byte("digraph { a -> b; }"),
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if want := "o    a\n|\no    b\n"; result.Output != want {
		t.Errorf("Output = %q, want %q", result.Output, want)
	}
}

func TestExecute_Flow(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Source: SourceFlow,
		Data:   []byte(`[{"name": "x"}, {"name": "y", "inputs": ["x:0"]}]`),
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if want := "o    x\n|\no    y\n"; result.Output != want {
		t.Errorf("Output = %q, want %q", result.Output, want)
	}
}

func TestExecute_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, []byte(graphJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Output != wantReference {
		t.Errorf("Output =\n%s\nwant:\n%s", result.Output, wantReference)
	}
}

func TestExecute_ValidationErrorsPassThrough(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), Options{
		Data: []byte(`{"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "a"}]}`),
	})
	if !errors.Is(err, dag.ErrCycleDetected) {
		t.Errorf("Execute error = %v, want dag.ErrCycleDetected", err)
	}
}

func TestExecute_CacheHit(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil)
	opts := Options{Data: []byte(graphJSON)}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(context.Background(), Options{Data: []byte(graphJSON)})
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if second.Output != first.Output {
		t.Error("cached output should equal rendered output")
	}

	// Refresh bypasses the cache read
	third, err := runner.Execute(context.Background(), Options{Data: []byte(graphJSON), Refresh: true})
	if err != nil {
		t.Fatalf("third Execute error: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh run should not report a cache hit")
	}
}

func TestExecute_DifferentOptionsDifferentCacheKeys(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil)

	if _, err := runner.Execute(context.Background(), Options{Data: []byte(graphJSON)}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	fixed, err := runner.Execute(context.Background(), Options{
		Data:    []byte(graphJSON),
		Spacing: SpacingFixed,
		Spaces:  10,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if fixed.CacheInfo.RenderHit {
		t.Error("different printer options must not share a cache entry")
	}
	if !strings.Contains(fixed.Output, "o          o") {
		t.Errorf("fixed spacing output unexpected:\n%s", fixed.Output)
	}
}

func TestExecute_PersistsToStore(t *testing.T) {
	s := store.NewMemoryStore()
	runner := NewRunner(nil, nil, nil)
	runner.Store = s

	result, err := runner.Execute(context.Background(), Options{Data: []byte(graphJSON)})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	saved, err := s.Get(context.Background(), result.GraphHash)
	if err != nil {
		t.Fatalf("store Get error: %v", err)
	}
	if saved.Output != result.Output {
		t.Error("stored output should equal rendered output")
	}
	if saved.Spacing != SpacingCompact {
		t.Errorf("stored Spacing = %q, want compact", saved.Spacing)
	}
}

func TestExecute_UsesRunnerLogger(t *testing.T) {
	var buf bytes.Buffer
	runner := NewRunner(nil, nil, log.New(&buf))

	if _, err := runner.Execute(context.Background(), Options{Data: []byte(graphJSON)}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "loaded graph") {
		t.Errorf("runner logger output %q should contain the load stage line", out)
	}
	if !strings.Contains(out, "rendered diagram") {
		t.Errorf("runner logger output %q should contain the render stage line", out)
	}
}

func TestExecute_EmptyLabelDistinctHash(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil)

	labelled, err := runner.Execute(context.Background(), Options{
		Data: []byte(`{"nodes": [{"id": "a", "label": "a"}]}`),
	})
	if err != nil {
		t.Fatalf("labelled Execute error: %v", err)
	}
	unlabelled, err := runner.Execute(context.Background(), Options{
		Data: []byte(`{"nodes": [{"id": "a", "label": ""}]}`),
	})
	if err != nil {
		t.Fatalf("unlabelled Execute error: %v", err)
	}

	if labelled.GraphHash == unlabelled.GraphHash {
		t.Errorf("graphs differing only in an empty label share hash %s", labelled.GraphHash)
	}
	if unlabelled.CacheInfo.RenderHit {
		t.Error("empty-label graph should not hit the labelled graph's cache entry")
	}
	if labelled.Output != "o    a\n" {
		t.Errorf("labelled output = %q, want %q", labelled.Output, "o    a\n")
	}
	if unlabelled.Output != "o\n" {
		t.Errorf("unlabelled output = %q, want %q", unlabelled.Output, "o\n")
	}
}

func TestGraphHash_Deterministic(t *testing.T) {
	runner := NewRunner(nil, nil, nil)

	a, err := runner.Execute(context.Background(), Options{Data: []byte(graphJSON)})
	if err != nil {
		t.Fatal(err)
	}
	b, err := runner.Execute(context.Background(), Options{Data: []byte(graphJSON)})
	if err != nil {
		t.Fatal(err)
	}
	if a.GraphHash != b.GraphHash {
		t.Errorf("GraphHash differs between runs: %s vs %s", a.GraphHash, b.GraphHash)
	}
}
