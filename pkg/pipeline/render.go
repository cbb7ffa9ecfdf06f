package pipeline

import (
	"context"
	"time"

	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/observability"
	"github.com/Errze/note-bad-ideas/pkg/render"
)

// =============================================================================
// Rendering
// =============================================================================

// RenderFromLayout renders every format in opts.Formats, keyed by format.
func RenderFromLayout(ctx context.Context, g *graph.Graph, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, err := renderFormat(ctx, g, l, render.Format(f), opts)
		if err != nil {
			return nil, err
		}
		out[f] = data
	}
	return out, nil
}

func renderFormat(ctx context.Context, g *graph.Graph, l graph.Layout, f render.Format, opts Options) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(f))
	start := time.Now()

	data, err := render.Render(ctx, g, l, f, opts.renderOptions())
	hooks.OnRenderComplete(ctx, string(f), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", f)
	}
	opts.Logger.Debug("rendered", "format", f, "bytes", len(data), "duration", time.Since(start))
	return data, nil
}

// cacheable reports whether an artifact is expensive enough to cache.
func cacheable(f render.Format) bool {
	return f == render.FormatSVG || f == render.FormatPNG
}
