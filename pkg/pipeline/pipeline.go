// Package pipeline runs the note graph engine end to end.
//
// The same code serves the CLI, the HTTP server and the terminal explorer:
//
//  1. Load: read one group's documents from a [source.Source]
//  2. Build: extract and resolve references into a [graph.Graph]
//  3. Layout: position every node with the selected algorithm
//  4. Render: produce a JSON scene, DOT, SVG or PNG
//
// Building is cheap and never cached. Layouts and Graphviz renders are cached
// through the [Runner]'s [cache.Cache], keyed by content hashes.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, docs, pipeline.Options{
//	    Algorithm: layout.AlgorithmRadial,
//	    Formats:   []string{"svg"},
//	})
//
// A [Workspace] keeps the current snapshot between runs for long-lived
// front-ends: every rebuild swaps graph and positions together and carries
// force-layout positions over from the previous snapshot.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Errze/note-bad-ideas/pkg/cache"
	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/layout"
	"github.com/Errze/note-bad-ideas/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = render.FormatSVG

	// TTLLayout is how long computed layouts stay cached.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered SVG/PNG artifacts stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// =============================================================================
// Options
// =============================================================================

// Options configures layout and rendering. Zero values select defaults.
type Options struct {
	Algorithm layout.Algorithm `json:"algorithm,omitempty"`
	Width     float64          `json:"width,omitempty"`
	Height    float64          `json:"height,omitempty"`

	// Params overrides the per-algorithm tuning. Nil means layout.DefaultParams.
	Params *layout.Params `json:"params,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result is the output of [Runner.Execute].
type Result struct {
	Graph     *graph.Graph
	GraphHash string
	Layout    graph.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Unresolved int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}

// SetLayoutDefaults fills zero layout fields.
func (o *Options) SetLayoutDefaults() {
	if o.Algorithm == "" {
		o.Algorithm = layout.DefaultAlgorithm
	}
	if o.Width == 0 {
		o.Width = layout.DefaultCanvas.Width
	}
	if o.Height == 0 {
		o.Height = layout.DefaultCanvas.Height
	}
	if o.Params == nil {
		p := layout.DefaultParams()
		o.Params = &p
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout applies layout defaults and checks the algorithm and
// canvas.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	algo, err := layout.ParseAlgorithm(string(o.Algorithm))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidAlgorithm, err, "layout")
	}
	o.Algorithm = algo
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidCanvas, "canvas must be positive, got %gx%g", o.Width, o.Height)
	}
	return nil
}

// SetRenderDefaults fills zero render fields.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{string(DefaultFormat)}
	}
}

// ValidateForRender applies all defaults and checks every format.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		parsed, err := render.ParseFormat(f)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "render")
		}
		formats[i] = string(parsed)
	}
	o.Formats = formats
	return nil
}

// Canvas returns the layout canvas.
func (o *Options) Canvas() layout.Canvas {
	return layout.Canvas{Width: o.Width, Height: o.Height}
}

// LayoutKeyOpts returns cache key options for layout computation. Only the
// parameters of the selected algorithm take part.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Algorithm: string(o.Algorithm),
		Width:     o.Width,
		Height:    o.Height,
	}
	switch o.Algorithm {
	case layout.AlgorithmForce:
		k.Seed = o.Params.Force.Seed
		k.Params = o.Params.Force
	case layout.AlgorithmTree:
		k.Params = o.Params.Tree
	case layout.AlgorithmRadial:
		k.Params = o.Params.Radial
	}
	return k
}

// RenderKeyOpts returns cache key options for one artifact.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: format, Labels: o.Labels}
}

// renderOptions maps pipeline options onto render options.
func (o *Options) renderOptions() render.Options {
	return render.Options{Labels: o.Labels}
}
