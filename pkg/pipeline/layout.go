package pipeline

import (
	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/layout"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout positions every node of g. Prior positions only seed force
// layouts; tree and radial layouts are fully determined by the graph.
func GenerateLayout(g *graph.Graph, opts Options, prior graph.Positions) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	var lopts []layout.Option
	if len(prior) > 0 {
		lopts = append(lopts, layout.WithPrior(prior))
	}
	pos, err := layout.Compute(g, opts.Algorithm, opts.Canvas(), *opts.Params, lopts...)
	if err != nil {
		return graph.Layout{}, errors.Wrap(errors.ErrCodeInvalidAlgorithm, err, "layout")
	}
	return graph.Layout{
		Algorithm: string(opts.Algorithm),
		Width:     opts.Width,
		Height:    opts.Height,
		Positions: pos,
	}, nil
}

// usesPrior reports whether prior positions change the outcome, in which
// case the result is not cacheable.
func usesPrior(algo layout.Algorithm, prior graph.Positions) bool {
	return algo == layout.AlgorithmForce && len(prior) > 0
}
