package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dagscii/pkg/cache"
	"github.com/matzehuels/dagscii/pkg/dag"
	dagio "github.com/matzehuels/dagscii/pkg/io"
	"github.com/matzehuels/dagscii/pkg/observability"
	"github.com/matzehuels/dagscii/pkg/render/ascii"
	"github.com/matzehuels/dagscii/pkg/render/dot"
	"github.com/matzehuels/dagscii/pkg/store"
)

// Runner encapsulates pipeline execution with caching and optional
// persistence.
//
// The Runner is stateless except for its collaborators: it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete load → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	// The runner's logger must win before validation defaults a nil
	// opts.Logger to a discard logger.
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Source)
	g, err := Load(opts)
	loadTime := time.Since(loadStart)
	if g != nil {
		result.Stats.NodeCount = g.NodeCount()
		result.Stats.EdgeCount = g.EdgeCount()
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, result.Stats.NodeCount, result.Stats.EdgeCount, loadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.Stats.LoadTime = loadTime

	hash, err := graphHash(g)
	if err != nil {
		return nil, fmt.Errorf("hash graph: %w", err)
	}
	result.GraphHash = hash

	opts.Logger.Info("loaded graph",
		"source", opts.Source,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", loadTime)

	// Stage 2: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Source, g.NodeCount())

	output, renderHit, err := r.renderASCII(ctx, g, hash, opts)
	if err == nil && opts.SVG {
		result.SVG, result.CacheInfo.SVGHit, err = r.renderSVG(ctx, g, hash, opts)
	}

	renderTime := time.Since(renderStart)
	lines := strings.Count(output, "\n")
	observability.Pipeline().OnRenderComplete(ctx, opts.Source, lines, renderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Output = output
	result.CacheInfo.RenderHit = renderHit
	result.Stats.RenderTime = renderTime
	result.Stats.LineCount = lines

	opts.Logger.Info("rendered diagram",
		"lines", lines,
		"cached", renderHit,
		"duration", renderTime)

	if r.Store != nil {
		if err := r.persist(ctx, result, opts); err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
	}

	return result, nil
}

// renderASCII returns the cached rendering when available, rendering and
// caching otherwise.
func (r *Runner) renderASCII(ctx context.Context, g *dag.Graph[string], hash string, opts Options) (string, bool, error) {
	key := r.Keyer.RenderKey(hash, opts.RenderKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			return string(data), true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	output := ascii.RenderWith(g, opts.PrinterOptions())

	if err := r.Cache.Set(ctx, key, []byte(output), cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(output))
	}
	return output, false, nil
}

func (r *Runner) renderSVG(ctx context.Context, g *dag.Graph[string], hash string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.SVGKey(hash)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "svg")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "svg")
	}

	svg, err := dot.RenderSVG(ctx, g)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, svg, cache.TTLSVG); err == nil {
		observability.Cache().OnCacheSet(ctx, "svg", len(svg))
	}
	return svg, false, nil
}

// persist saves the render to the configured store, retrying transient
// failures.
func (r *Runner) persist(ctx context.Context, result *Result, opts Options) error {
	var buf bytes.Buffer
	if err := dagio.WriteJSON(result.Graph, &buf); err != nil {
		return err
	}

	rec := store.Render{
		Hash:      result.GraphHash,
		Graph:     buf.Bytes(),
		Output:    result.Output,
		Spacing:   opts.Spacing,
		Spaces:    opts.Spaces,
		CreatedAt: time.Now().UTC(),
	}
	return cache.RetryWithBackoff(ctx, func() error {
		return r.Store.Save(ctx, rec)
	})
}

// graphHash derives the graph's identity from its canonical JSON form.
// Serialization is deterministic, so equal graphs share a hash.
func graphHash(g *dag.Graph[string]) (string, error) {
	var buf bytes.Buffer
	if err := dagio.WriteJSON(g, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
