package viewport

import (
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned by [Viewport.Apply] for unsupported event types.
var ErrUnknownEvent = errors.New("unknown viewport event")

// EventType names a pointer or view action.
type EventType string

const (
	EventDown  EventType = "down"
	EventMove  EventType = "move"
	EventUp    EventType = "up"
	EventLeave EventType = "leave"
	EventWheel EventType = "wheel"
	EventOpen  EventType = "open"
	EventReset EventType = "reset"
)

// Event is a serialized input event, as posted by remote front-ends.
type Event struct {
	Type   EventType `json:"type" validate:"required,oneof=down move up leave wheel open reset"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Button Button    `json:"button,omitempty" validate:"gte=0,lte=2"`
	DeltaY float64   `json:"delta_y,omitempty"`
}

// Apply dispatches e. For open events it returns the opened node ID.
func (v *Viewport) Apply(e Event) (string, error) {
	p := Point{X: e.X, Y: e.Y}
	switch e.Type {
	case EventDown:
		v.PointerDown(p, e.Button)
	case EventMove:
		v.PointerMove(p)
	case EventUp:
		v.PointerUp()
	case EventLeave:
		v.PointerLeave()
	case EventWheel:
		v.Wheel(e.DeltaY)
	case EventOpen:
		id, _ := v.Open(p)
		return id, nil
	case EventReset:
		v.Reset()
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
	return "", nil
}
