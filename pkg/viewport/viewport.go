package viewport

import (
	"math"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

// Point is a 2-D coordinate, in screen or world space depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Button identifies the pointer button of a press.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// State is the navigation state that survives graph rebuilds.
type State struct {
	Zoom       float64 `json:"zoom"`
	Pan        Point   `json:"pan"`
	SelectedID string  `json:"selected_id,omitempty"`
	HoveredID  string  `json:"hovered_id,omitempty"`

	// Drag is the anchor (pointer minus pan) of an active pan drag.
	Drag *Point `json:"drag,omitempty"`
}

// Options tune interaction.
type Options struct {
	PickTolerance float64 `json:"pick_tolerance" toml:"pick_tolerance" validate:"gte=0"`
	ZoomIn        float64 `json:"zoom_in" toml:"zoom_in" validate:"gt=1"`
	ZoomOut       float64 `json:"zoom_out" toml:"zoom_out" validate:"gt=0,lt=1"`
	MinZoom       float64 `json:"min_zoom" toml:"min_zoom" validate:"gt=0"`
	MaxZoom       float64 `json:"max_zoom" toml:"max_zoom" validate:"gtefield=MinZoom"`
}

// DefaultOptions returns a 12px pick tolerance, ×1.1/×0.9 wheel steps and a
// [0.1, 3] zoom range.
func DefaultOptions() Options {
	return Options{PickTolerance: 12, ZoomIn: 1.1, ZoomOut: 0.9, MinZoom: 0.1, MaxZoom: 3}
}

// Viewport tracks the view over one scene.
type Viewport struct {
	state  State
	opts   Options
	nodes  []graph.Node
	pos    graph.Positions
	onOpen func(id string)
}

// New returns a viewport at zoom 1 with no pan. onOpen, if non-nil, is called
// with the document ID whenever [Viewport.Open] hits a node.
func New(opts Options, onOpen func(id string)) *Viewport {
	return &Viewport{
		state:  State{Zoom: 1},
		opts:   opts,
		onOpen: onOpen,
	}
}

// State returns a copy of the current state.
func (v *Viewport) State() State {
	s := v.state
	if s.Drag != nil {
		d := *s.Drag
		s.Drag = &d
	}
	return s
}

// Restore replaces the state, clamping zoom into range and dropping
// selection or hover that refer to nodes outside the scene.
func (v *Viewport) Restore(s State) {
	v.state = s
	if v.state.Zoom == 0 {
		v.state.Zoom = 1
	}
	v.state.Zoom = v.clampZoom(v.state.Zoom)
	v.dropDangling()
}

// SetScene swaps in a rebuilt graph and its positions. Pan and zoom are kept;
// selection and hover are cleared when their node no longer exists.
func (v *Viewport) SetScene(nodes []graph.Node, pos graph.Positions) {
	v.nodes = nodes
	v.pos = pos
	v.dropDangling()
}

func (v *Viewport) dropDangling() {
	if v.nodes == nil {
		return
	}
	if v.state.SelectedID != "" && !v.inScene(v.state.SelectedID) {
		v.state.SelectedID = ""
	}
	if v.state.HoveredID != "" && !v.inScene(v.state.HoveredID) {
		v.state.HoveredID = ""
	}
}

func (v *Viewport) inScene(id string) bool {
	if _, ok := v.pos[id]; !ok {
		return false
	}
	for _, n := range v.nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// =============================================================================
// Transform
// =============================================================================

// ToWorld maps a screen point into layout coordinates.
func (v *Viewport) ToWorld(p Point) Point {
	return Point{X: (p.X - v.state.Pan.X) / v.state.Zoom, Y: (p.Y - v.state.Pan.Y) / v.state.Zoom}
}

// ToScreen maps a layout point onto the screen.
func (v *Viewport) ToScreen(p Point) Point {
	return Point{X: v.state.Pan.X + p.X*v.state.Zoom, Y: v.state.Pan.Y + p.Y*v.state.Zoom}
}

// HitTest returns the node under a screen point. A node is hit when the
// point lies within its size plus PickTolerance/zoom world units, so the
// on-screen tolerance stays constant. The nearest hit node wins.
func (v *Viewport) HitTest(screen Point) (string, bool) {
	w := v.ToWorld(screen)
	slack := v.opts.PickTolerance / v.state.Zoom

	best, bestDist := "", math.Inf(1)
	for _, n := range v.nodes {
		p, ok := v.pos[n.ID]
		if !ok {
			continue
		}
		d := math.Hypot(p.X-w.X, p.Y-w.Y)
		if d <= float64(n.Size)+slack && d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best, best != ""
}

// =============================================================================
// Pointer Input
// =============================================================================

// PointerDown selects the node under p, or clears the selection and starts
// a pan drag on empty space. Secondary presses are ignored.
func (v *Viewport) PointerDown(p Point, b Button) {
	if b == ButtonSecondary {
		return
	}
	if id, ok := v.HitTest(p); ok {
		v.state.SelectedID = id
		v.state.HoveredID = ""
		v.state.Drag = nil
		return
	}
	v.state.SelectedID = ""
	v.state.Drag = &Point{X: p.X - v.state.Pan.X, Y: p.Y - v.state.Pan.Y}
}

// PointerMove pans while dragging and updates hover otherwise.
func (v *Viewport) PointerMove(p Point) {
	if d := v.state.Drag; d != nil {
		v.state.Pan = Point{X: p.X - d.X, Y: p.Y - d.Y}
		return
	}
	id, _ := v.HitTest(p)
	v.state.HoveredID = id
}

// PointerUp ends a drag.
func (v *Viewport) PointerUp() { v.state.Drag = nil }

// PointerLeave ends a drag and clears hover.
func (v *Viewport) PointerLeave() {
	v.state.Drag = nil
	v.state.HoveredID = ""
}

// Dragging reports whether a pan drag is active.
func (v *Viewport) Dragging() bool { return v.state.Drag != nil }

// Wheel applies one wheel tick: positive deltaY zooms out, anything else
// zooms in. It returns the new zoom.
func (v *Viewport) Wheel(deltaY float64) float64 {
	f := v.opts.ZoomIn
	if deltaY > 0 {
		f = v.opts.ZoomOut
	}
	v.state.Zoom = v.clampZoom(v.state.Zoom * f)
	return v.state.Zoom
}

func (v *Viewport) clampZoom(z float64) float64 {
	return math.Max(v.opts.MinZoom, math.Min(v.opts.MaxZoom, z))
}

// Open hit-tests the exact event point and, on a hit, selects the node and
// reports it to the open callback. The previous selection is not consulted.
func (v *Viewport) Open(p Point) (string, bool) {
	id, ok := v.HitTest(p)
	if !ok {
		return "", false
	}
	v.state.SelectedID = id
	if v.onOpen != nil {
		v.onOpen(id)
	}
	return id, true
}

// Reset returns to zoom 1 and no pan.
func (v *Viewport) Reset() {
	v.state.Zoom = 1
	v.state.Pan = Point{}
	v.state.Drag = nil
}

// CenterOn pans so the node is in the middle of a w×h screen and selects it.
func (v *Viewport) CenterOn(id string, w, h float64) bool {
	p, ok := v.pos[id]
	if !ok {
		return false
	}
	v.state.Pan = Point{X: w/2 - p.X*v.state.Zoom, Y: h/2 - p.Y*v.state.Zoom}
	v.state.SelectedID = id
	return true
}
