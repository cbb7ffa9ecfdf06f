package viewport

import (
	"errors"
	"math"
	"testing"

	"github.com/Errze/note-bad-ideas/pkg/graph"
)

func scene() ([]graph.Node, graph.Positions) {
	nodes := []graph.Node{
		{ID: "a", Label: "A", Size: 26},
		{ID: "b", Label: "B", Size: 40},
		{ID: "c", Label: "C", Size: 26},
	}
	pos := graph.Positions{
		"a": {X: 100, Y: 100},
		"b": {X: 300, Y: 100},
		"c": {X: 130, Y: 100},
	}
	return nodes, pos
}

func newViewport(onOpen func(string)) *Viewport {
	v := New(DefaultOptions(), onOpen)
	v.SetScene(scene())
	return v
}

func TestTransformRoundTrip(t *testing.T) {
	v := newViewport(nil)
	v.Restore(State{Zoom: 2.5, Pan: Point{X: -40, Y: 17}})

	w := Point{X: 123.5, Y: -8}
	back := v.ToWorld(v.ToScreen(w))
	if math.Abs(back.X-w.X) > 1e-9 || math.Abs(back.Y-w.Y) > 1e-9 {
		t.Errorf("round trip = %v, want %v", back, w)
	}
}

func TestHitTestAtEveryZoom(t *testing.T) {
	v := newViewport(nil)
	nodes, pos := scene()

	for z := 0.1; z <= 3.0+1e-9; z += 0.1 {
		v.Restore(State{Zoom: z, Pan: Point{X: 35, Y: -12}})
		for _, n := range nodes {
			at := pos[n.ID]
			id, ok := v.HitTest(v.ToScreen(Point{X: at.X, Y: at.Y}))
			if !ok || id != n.ID {
				t.Errorf("zoom %.1f: hit at %s = %q, %v", z, n.ID, id, ok)
			}
		}
	}
}

func TestHitTestToleranceIsScreenConstant(t *testing.T) {
	v := newViewport(nil)
	for _, z := range []float64{0.5, 1, 2} {
		v.Restore(State{Zoom: z})
		// Just outside b's radius on screen, within the 12px tolerance.
		edge := v.ToScreen(Point{X: 300, Y: 100 + 40})
		if id, ok := v.HitTest(Point{X: edge.X, Y: edge.Y + 11}); !ok || id != "b" {
			t.Errorf("zoom %v: inside tolerance missed: %q %v", z, id, ok)
		}
		if _, ok := v.HitTest(Point{X: edge.X, Y: edge.Y + 13}); ok {
			t.Errorf("zoom %v: outside tolerance hit", z)
		}
	}
}

func TestHitTestNearestWins(t *testing.T) {
	v := newViewport(nil)
	// a and c overlap; 120 is closer to c (130) than to a (100).
	if id, _ := v.HitTest(Point{X: 120, Y: 100}); id != "c" {
		t.Errorf("hit = %q, want c", id)
	}
	if id, _ := v.HitTest(Point{X: 110, Y: 100}); id != "a" {
		t.Errorf("hit = %q, want a", id)
	}
}

func TestPointerSelectAndPan(t *testing.T) {
	v := newViewport(nil)

	v.PointerMove(Point{X: 300, Y: 100})
	if v.State().HoveredID != "b" {
		t.Fatalf("hover = %q, want b", v.State().HoveredID)
	}

	v.PointerDown(Point{X: 300, Y: 100}, ButtonPrimary)
	s := v.State()
	if s.SelectedID != "b" || s.HoveredID != "" || v.Dragging() {
		t.Fatalf("after select: %+v", s)
	}

	// Empty space: selection cleared, drag starts.
	v.PointerDown(Point{X: 600, Y: 500}, ButtonPrimary)
	if v.State().SelectedID != "" || !v.Dragging() {
		t.Fatalf("after empty press: %+v", v.State())
	}
	v.PointerMove(Point{X: 650, Y: 470})
	if got := v.State().Pan; got != (Point{X: 50, Y: -30}) {
		t.Errorf("pan = %v, want {50 -30}", got)
	}
	v.PointerUp()
	if v.Dragging() {
		t.Error("drag survived pointer up")
	}

	// A second drag continues from the current pan.
	v.PointerDown(Point{X: 10, Y: 10}, ButtonPrimary)
	v.PointerMove(Point{X: 20, Y: 30})
	if got := v.State().Pan; got != (Point{X: 60, Y: -10}) {
		t.Errorf("pan = %v, want {60 -10}", got)
	}
	v.PointerLeave()
	if v.Dragging() {
		t.Error("drag survived pointer leave")
	}
}

func TestSecondaryButtonIgnored(t *testing.T) {
	v := newViewport(nil)
	v.PointerDown(Point{X: 100, Y: 100}, ButtonPrimary)
	v.PointerDown(Point{X: 900, Y: 900}, ButtonSecondary)
	if v.State().SelectedID != "a" || v.Dragging() {
		t.Errorf("secondary press changed state: %+v", v.State())
	}
}

func TestWheelClamps(t *testing.T) {
	v := newViewport(nil)
	if z := v.Wheel(-1); math.Abs(z-1.1) > 1e-12 {
		t.Errorf("zoom in = %v", z)
	}
	if z := v.Wheel(1); math.Abs(z-0.99) > 1e-12 {
		t.Errorf("zoom out = %v", z)
	}
	for range 100 {
		v.Wheel(-1)
	}
	if z := v.State().Zoom; z != 3 {
		t.Errorf("max zoom = %v", z)
	}
	for range 100 {
		v.Wheel(5)
	}
	if z := v.State().Zoom; z != 0.1 {
		t.Errorf("min zoom = %v", z)
	}
}

func TestOpenUsesEventPoint(t *testing.T) {
	var opened []string
	v := newViewport(func(id string) { opened = append(opened, id) })

	v.PointerDown(Point{X: 100, Y: 100}, ButtonPrimary) // selects a
	id, ok := v.Open(Point{X: 300, Y: 100})             // pointer is over b
	if !ok || id != "b" {
		t.Fatalf("Open = %q, %v; want b", id, ok)
	}
	if _, ok := v.Open(Point{X: 900, Y: 900}); ok {
		t.Error("Open on empty space reported a node")
	}
	if len(opened) != 1 || opened[0] != "b" {
		t.Errorf("callback calls = %v", opened)
	}
	if v.State().SelectedID != "b" {
		t.Errorf("selection = %q", v.State().SelectedID)
	}
}

func TestSetSceneClearsDangling(t *testing.T) {
	v := newViewport(nil)
	v.Restore(State{Zoom: 2, Pan: Point{X: 5, Y: 5}, SelectedID: "a", HoveredID: "b"})

	nodes, pos := scene()
	delete(pos, "a")
	v.SetScene(nodes[1:], pos)

	s := v.State()
	if s.SelectedID != "" {
		t.Errorf("selection kept for removed node: %q", s.SelectedID)
	}
	if s.HoveredID != "b" {
		t.Errorf("hover on surviving node cleared")
	}
	if s.Zoom != 2 || s.Pan != (Point{X: 5, Y: 5}) {
		t.Errorf("pan/zoom not preserved: %+v", s)
	}
}

func TestResetAndCenterOn(t *testing.T) {
	v := newViewport(nil)
	v.Restore(State{Zoom: 2, Pan: Point{X: 10, Y: 10}})

	if !v.CenterOn("b", 800, 600) {
		t.Fatal("CenterOn(b) = false")
	}
	if got := v.ToScreen(Point{X: 300, Y: 100}); got != (Point{X: 400, Y: 300}) {
		t.Errorf("b on screen = %v, want centre", got)
	}
	if v.CenterOn("zz", 800, 600) {
		t.Error("CenterOn unknown node = true")
	}

	v.Reset()
	if s := v.State(); s.Zoom != 1 || s.Pan != (Point{}) {
		t.Errorf("after reset: %+v", s)
	}
}

func TestApply(t *testing.T) {
	var opened string
	v := newViewport(func(id string) { opened = id })

	steps := []Event{
		{Type: EventWheel, DeltaY: -3},
		{Type: EventDown, X: 5, Y: 5},
		{Type: EventMove, X: 15, Y: 25},
		{Type: EventUp},
	}
	for _, e := range steps {
		if _, err := v.Apply(e); err != nil {
			t.Fatalf("Apply(%v): %v", e.Type, err)
		}
	}
	if got := v.State().Pan; got != (Point{X: 10, Y: 20}) {
		t.Errorf("pan = %v", got)
	}

	// b is at world (300,100) -> screen 10+300*1.1, 20+100*1.1.
	id, err := v.Apply(Event{Type: EventOpen, X: 340, Y: 130})
	if err != nil || id != "b" || opened != "b" {
		t.Errorf("open = %q, %v, callback %q", id, err, opened)
	}

	if _, err := v.Apply(Event{Type: "pinch"}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("err = %v, want ErrUnknownEvent", err)
	}
}

func TestStateCopyIsIndependent(t *testing.T) {
	v := newViewport(nil)
	v.PointerDown(Point{X: 700, Y: 700}, ButtonPrimary)
	s := v.State()
	s.Drag.X = 9999
	if v.State().Drag.X == 9999 {
		t.Error("State() exposes the internal drag anchor")
	}
}
