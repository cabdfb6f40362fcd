package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagscii/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	source      string // input source: json, dot, or flow ("" infers from extension)
	output      string // output file path ("" writes to stdout)
	spacing     string // spacing mode: compact or fixed
	spaces      int    // gap width for fixed spacing
	groupPrefix bool   // collapse shared label prefixes into Prefix{a,b}
	groupSuffix bool   // collapse shared label suffixes into {a,b}Suffix
	svg         bool   // additionally render an SVG via Graphviz
	noCache     bool   // disable the render cache
	refresh     bool   // bypass cached entries and re-render
}

// renderCommand creates the render command for turning a graph file into
// an ASCII diagram. Reads from stdin when the file argument is "-".
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		spacing: c.Config.Spacing,
		spaces:  c.Config.Spaces,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a graph file as an ASCII diagram",
		Long: `Render reads a graph description (JSON, DOT, or a dataflow operation
list) and prints it as an ASCII diagram. The source format is inferred
from the file extension and can be overridden with --source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.runRender(cmd, args[0], &opts)
			if err != nil {
				return err
			}
			return c.writeRender(result, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "input source: json, dot, flow (default: inferred)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the diagram to a file instead of stdout")
	cmd.Flags().StringVar(&opts.spacing, "spacing", opts.spacing, "column spacing: compact or fixed")
	cmd.Flags().IntVar(&opts.spaces, "spaces", opts.spaces, "gap width between columns (fixed spacing)")
	cmd.Flags().BoolVar(&opts.groupPrefix, "group-prefix", boolOr(c.Config.GroupPrefix, true), "collapse shared label prefixes")
	cmd.Flags().BoolVar(&opts.groupSuffix, "group-suffix", boolOr(c.Config.GroupSuffix, false), "collapse shared label suffixes")
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "also render an SVG next to the output file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached entries and re-render")

	return cmd
}

// runRender executes the pipeline for the given input file or stdin.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) (*pipeline.Result, error) {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	logger := loggerFromContext(cmd.Context())
	pipeOpts := pipeline.Options{
		Source:      sourceFor(input, opts.source),
		Spacing:     opts.spacing,
		Spaces:      opts.spaces,
		GroupPrefix: &opts.groupPrefix,
		GroupSuffix: &opts.groupSuffix,
		SVG:         opts.svg,
		Refresh:     opts.refresh,
		Logger:      logger,
	}
	if input == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		pipeOpts.Data = data
	} else {
		pipeOpts.Path = input
	}

	p := newProgress(logger)
	result, err := runner.Execute(cmd.Context(), pipeOpts)
	if err != nil {
		return nil, err
	}
	p.done(fmt.Sprintf("Rendered %d nodes", result.Stats.NodeCount))
	return result, nil
}

// writeRender emits the diagram and any side outputs requested by flags.
func (c *CLI) writeRender(result *pipeline.Result, input string, opts *renderOpts) error {
	if opts.output == "" {
		fmt.Print(result.Output)
	} else {
		if err := os.WriteFile(opts.output, []byte(result.Output), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		printSuccess("Rendered diagram")
		printFile(opts.output)
	}

	if opts.svg {
		path := svgPath(opts.output, input)
		if err := os.WriteFile(path, result.SVG, 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		printFile(path)
	}

	if opts.output != "" {
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	}
	return nil
}

// sourceFor resolves the input source, preferring an explicit flag over
// the file extension. Stdin and unknown extensions default to JSON.
func sourceFor(input, flag string) string {
	if flag != "" {
		return flag
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".dot", ".gv":
		return pipeline.SourceDOT
	case ".flow":
		return pipeline.SourceFlow
	default:
		return pipeline.SourceJSON
	}
}

// svgPath derives the SVG output path from the output and input paths.
func svgPath(output, input string) string {
	base := output
	if base == "" {
		base = input
	}
	if base == "-" {
		base = "graph"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".svg"
}

// boolOr returns *p, or fallback when p is nil.
func boolOr(p *bool, fallback bool) bool {
	if p != nil {
		return *p
	}
	return fallback
}
