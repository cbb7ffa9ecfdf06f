package layout

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

// =============================================================================
// Algorithms
// =============================================================================

// Algorithm names a layout strategy.
type Algorithm string

const (
	AlgorithmForce  Algorithm = "force"
	AlgorithmTree   Algorithm = "tree"
	AlgorithmRadial Algorithm = "radial"
)

// DefaultAlgorithm is used when no algorithm is requested.
const DefaultAlgorithm = AlgorithmForce

// ErrUnknownAlgorithm is returned for names outside [Algorithms].
var ErrUnknownAlgorithm = errors.New("unknown layout algorithm")

// Algorithms lists the supported algorithm names.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmForce, AlgorithmTree, AlgorithmRadial}
}

// ParseAlgorithm accepts an algorithm name case-insensitively. The empty
// string and "force-directed" map to force.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "", "force-directed":
		return AlgorithmForce, nil
	default:
		if slices.Contains(Algorithms(), a) {
			return a, nil
		}
		return "", fmt.Errorf("%w: %q (must be one of: force, tree, radial)", ErrUnknownAlgorithm, s)
	}
}

// =============================================================================
// Canvas & Parameters
// =============================================================================

// Canvas is the drawing area in world units.
type Canvas struct {
	Width  float64 `json:"width" toml:"width" validate:"gt=0"`
	Height float64 `json:"height" toml:"height" validate:"gt=0"`
}

// DefaultCanvas matches the fallback size of the graph view.
var DefaultCanvas = Canvas{Width: 1200, Height: 600}

// ForceParams tune the force-directed simulation.
type ForceParams struct {
	Margin      float64 `json:"margin" toml:"margin" validate:"gte=0"`
	Iterations  int     `json:"iterations" toml:"iterations" validate:"gte=0"`
	Repulsion   float64 `json:"repulsion" toml:"repulsion" validate:"gte=0"`
	Spring      float64 `json:"spring" toml:"spring" validate:"gte=0"`
	IdealLength float64 `json:"ideal_length" toml:"ideal_length" validate:"gt=0"`
	Damping     float64 `json:"damping" toml:"damping" validate:"gt=0,lt=1"`
	Step        float64 `json:"step" toml:"step" validate:"gt=0"`
	Epsilon     float64 `json:"epsilon" toml:"epsilon" validate:"gt=0"`
	Seed        uint64  `json:"seed" toml:"seed"`
}

// TreeParams control tree placement.
type TreeParams struct {
	Margin   float64 `json:"margin" toml:"margin" validate:"gte=0"`
	Top      float64 `json:"top" toml:"top" validate:"gtefield=Margin"`
	LevelGap float64 `json:"level_gap" toml:"level_gap" validate:"gt=0"`
}

// RadialParams control ring placement.
type RadialParams struct {
	Margin  float64 `json:"margin" toml:"margin" validate:"gte=0"`
	MinRing float64 `json:"min_ring" toml:"min_ring" validate:"gte=0"`
}

// Params bundles the parameters of every algorithm.
type Params struct {
	Force  ForceParams  `json:"force" toml:"force"`
	Tree   TreeParams   `json:"tree" toml:"tree"`
	Radial RadialParams `json:"radial" toml:"radial"`
}

// DefaultParams returns the tuned defaults for all algorithms.
func DefaultParams() Params {
	return Params{
		Force: ForceParams{
			Margin:      80,
			Iterations:  140,
			Repulsion:   1800,
			Spring:      0.0032,
			IdealLength: 170,
			Damping:     0.86,
			Step:        0.022,
			Epsilon:     0.01,
			Seed:        42,
		},
		Tree:   TreeParams{Margin: 90, Top: 120, LevelGap: 110},
		Radial: RadialParams{Margin: 90, MinRing: 30},
	}
}

// Margin returns the inset the given algorithm keeps free.
func (p Params) Margin(a Algorithm) float64 {
	switch a {
	case AlgorithmTree:
		return p.Tree.Margin
	case AlgorithmRadial:
		return p.Radial.Margin
	default:
		return p.Force.Margin
	}
}

// =============================================================================
// Options
// =============================================================================

type config struct {
	rng   *rand.Rand
	prior graph.Positions
}

// Option configures optional inputs of [Force] and [Compute].
type Option func(*config)

// WithPrior seeds nodes from previously computed positions.
func WithPrior(p graph.Positions) Option {
	return func(c *config) { c.prior = p }
}

// WithRand sets the random source for nodes without a prior position.
func WithRand(r *rand.Rand) Option {
	return func(c *config) { c.rng = r }
}

// WithSeed is WithRand with a PCG source derived from seed.
func WithSeed(seed uint64) Option {
	return WithRand(newRand(seed))
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// =============================================================================
// Dispatch
// =============================================================================

// Compute runs the named algorithm. Prior positions and the random source
// only affect force layouts.
func Compute(g *graph.Graph, algo Algorithm, c Canvas, p Params, opts ...Option) (graph.Positions, error) {
	switch algo {
	case AlgorithmForce:
		return Force(g, c, p.Force, opts...), nil
	case AlgorithmTree:
		return Tree(g, c, p.Tree), nil
	case AlgorithmRadial:
		return Radial(g, c, p.Radial), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
}

// =============================================================================
// Helpers
// =============================================================================

// clamp bounds v to [lo, hi]. When the range is inverted (a canvas smaller
// than twice its margin) the midpoint is returned.
func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// clampAll keeps every position inside the canvas inset by margin.
func clampAll(pos graph.Positions, c Canvas, margin float64) graph.Positions {
	for id, p := range pos {
		pos[id] = graph.Position{
			X: clamp(p.X, margin, c.Width-margin),
			Y: clamp(p.Y, margin, c.Height-margin),
		}
	}
	return pos
}

// InBounds reports whether every position lies within the canvas inset by
// margin, allowing tol for floating-point error.
func InBounds(pos graph.Positions, c Canvas, margin, tol float64) bool {
	for _, p := range pos {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
		if p.X < margin-tol || p.X > c.Width-margin+tol || p.Y < margin-tol || p.Y > c.Height-margin+tol {
			return false
		}
	}
	return true
}
