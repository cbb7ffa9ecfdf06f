package render

import (
	"context"
	"fmt"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

// Render produces g laid out by l in format f.
func Render(ctx context.Context, g *graph.Graph, l graph.Layout, f Format, opts Options) ([]byte, error) {
	switch f {
	case FormatJSON:
		return MarshalScene(Scene(g, l))
	case FormatDOT:
		return []byte(ToDOT(g, l, opts)), nil
	case FormatSVG:
		return RenderSVG(ctx, ToDOT(g, l, opts))
	case FormatPNG:
		return RenderPNG(ctx, ToDOT(g, l, opts))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}
