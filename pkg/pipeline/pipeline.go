// Package pipeline provides the load → render pipeline shared by the CLI
// and the render server.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Load: Read a graph from one of the supported sources (graph JSON,
//     DOT, dataflow JSON) and validate it.
//  2. Render: Turn the graph into ASCII art, and optionally an SVG, with
//     caching keyed by the graph's content hash and the printer options.
//
// By centralizing this logic, CLI and server behave identically: the same
// input with the same options produces byte-identical output everywhere.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source: pipeline.SourceJSON,
//	    Path:   "deps.json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.Output)
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dagscii/pkg/cache"
	"github.com/matzehuels/dagscii/pkg/dag"
	"github.com/matzehuels/dagscii/pkg/render/ascii"
)

// Source constants for input formats.
const (
	SourceJSON = "json"
	SourceDOT  = "dot"
	SourceFlow = "flow"
)

// ValidSources is the set of supported input sources.
var ValidSources = map[string]bool{
	SourceJSON: true,
	SourceDOT:  true,
	SourceFlow: true,
}

// Spacing constants for glyph separation.
const (
	SpacingCompact = "compact"
	SpacingFixed   = "fixed"
)

// ValidSpacings is the set of supported spacing modes.
var ValidSpacings = map[string]bool{
	SpacingCompact: true,
	SpacingFixed:   true,
}

// DefaultSpaces is the default gap width for fixed spacing.
const DefaultSpaces = 4

// ErrInvalidOptions is returned by [Runner.Execute] when the options fail
// validation. The wrapped message names the offending field.
var ErrInvalidOptions = errors.New("invalid options")

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options. Data takes precedence over Path; the server passes
	// request bodies through Data, the CLI passes file paths through Path.
	Source string `json:"source,omitempty"`
	Path   string `json:"path,omitempty"`
	Data   []byte `json:"data,omitempty"`

	// Render options.
	Spacing     string `json:"spacing,omitempty"`
	Spaces      int    `json:"spaces,omitempty"`
	GroupPrefix *bool  `json:"group_labels_by_prefix,omitempty"`
	GroupSuffix *bool  `json:"group_labels_by_suffix,omitempty"`
	SVG         bool   `json:"svg,omitempty"`

	// Refresh bypasses the cache read (the result is still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded and validated graph.
	Graph *dag.Graph[string]

	// GraphHash is the content hash of the graph's canonical JSON form.
	GraphHash string

	// Output is the rendered ASCII diagram.
	Output string

	// SVG holds the Graphviz rendering when Options.SVG was set.
	SVG []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LineCount  int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits per artifact.
type CacheInfo struct {
	RenderHit bool // ASCII output came from cache
	SVGHit    bool // SVG output came from cache
}

// ValidateSource checks that a source is valid.
func ValidateSource(source string) error {
	if !ValidSources[source] {
		return fmt.Errorf("invalid source: %q (must be one of: json, dot, flow)", source)
	}
	return nil
}

// ValidateSpacing checks that a spacing mode is valid.
func ValidateSpacing(spacing string) error {
	if !ValidSpacings[spacing] {
		return fmt.Errorf("invalid spacing: %q (must be one of: compact, fixed)", spacing)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent: calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Source == "" {
		o.Source = SourceJSON
	}
	if err := ValidateSource(o.Source); err != nil {
		return err
	}
	if o.Path == "" && len(o.Data) == 0 {
		return fmt.Errorf("path or data is required")
	}

	if o.Spacing == "" {
		o.Spacing = SpacingCompact
	}
	if err := ValidateSpacing(o.Spacing); err != nil {
		return err
	}
	if o.Spaces == 0 {
		o.Spaces = DefaultSpaces
	}
	if o.Spaces < 1 {
		return fmt.Errorf("spaces must be positive, got %d", o.Spaces)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// PrinterOptions converts the pipeline options into printer options.
func (o *Options) PrinterOptions() ascii.Options {
	opts := ascii.DefaultOptions()
	if o.Spacing == SpacingFixed {
		opts.Spacing = ascii.SpacingFixed
	}
	if o.Spaces > 0 {
		opts.Spaces = o.Spaces
	}
	if o.GroupPrefix != nil {
		opts.GroupLabelsByPrefix = *o.GroupPrefix
	}
	if o.GroupSuffix != nil {
		opts.GroupLabelsBySuffix = *o.GroupSuffix
	}
	return opts
}

// RenderKeyOpts returns the cache key options for the ASCII rendering.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	opts := o.PrinterOptions()
	return cache.RenderKeyOpts{
		Spacing:     o.Spacing,
		Spaces:      opts.Spaces,
		GroupPrefix: opts.GroupLabelsByPrefix,
		GroupSuffix: opts.GroupLabelsBySuffix,
	}
}
