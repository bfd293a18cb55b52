// Package render is the drawing surface the heatmap is built on: positioned
// shapes, fill transitions, visibility, and pointer events bound to shapes.
package render

import (
	"fmt"
	"time"
)

// ShapeID names a shape on a surface. The empty ID is the root.
type ShapeID string

// Root is the parent of top-level shapes
const Root ShapeID = ""

// Point is a position in surface coordinates
type Point struct {
	X, Y float64
}

// EventType is a pointer interaction delivered for a shape
type EventType string

const (
	PointerEnter EventType = "pointerenter"
	PointerLeave EventType = "pointerleave"
	Click        EventType = "click"
)

// ParseEventType validates an event type received from a client
func ParseEventType(s string) (EventType, error) {
	switch EventType(s) {
	case PointerEnter, PointerLeave, Click:
		return EventType(s), nil
	default:
		return "", fmt.Errorf("unknown event type %q", s)
	}
}

// Event is one pointer interaction. X and Y are the pointer position in
// surface coordinates at the time of the event.
type Event struct {
	Type   EventType `json:"type"`
	Target ShapeID   `json:"target"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
}

// Handler reacts to an event on the shape it was registered for
type Handler func(Event)

// Rect is a filled rectangle relative to its parent
type Rect struct {
	X, Y          float64
	Width, Height float64
	Fill          string
	Class         string
}

// Path is an open poly-line through Points relative to its parent
type Path struct {
	Points      []Point
	Stroke      string
	StrokeWidth float64
	Class       string
	Hidden      bool
}

// Text is a positioned label
type Text struct {
	X, Y     float64
	Content  string
	Anchor   string // text-anchor: start, middle, end
	Baseline string // dominant-baseline
	FontSize float64
	Class    string
	Hidden   bool
}

// Surface is everything the heatmap needs from a drawing backend
type Surface interface {
	// Group adds a container translated by (x, y) inside parent
	Group(parent, id ShapeID, x, y float64)
	Rect(parent, id ShapeID, r Rect)
	Path(parent, id ShapeID, p Path)
	Text(parent, id ShapeID, t Text)

	// TransitionFill animates the fill of id towards fill over d. A new
	// transition on the same shape replaces the previous target.
	TransitionFill(id ShapeID, fill string, d time.Duration)
	// SetVisible shows or hides id immediately
	SetVisible(id ShapeID, visible bool)
	// SetText replaces the content of a text shape
	SetText(id ShapeID, content string)
	// Move repositions a text shape
	Move(id ShapeID, x, y float64)

	// On registers h for events of type ev on id
	On(id ShapeID, ev EventType, h Handler)
}

// UnknownTargetError is returned when an event names a shape or an
// event type with no registered handler.
type UnknownTargetError struct {
	Target ShapeID
	Type   EventType
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("no %s handler registered for shape %q", e.Type, e.Target)
}

// IsTransient returns false as the handler table never changes after drawing
func (e *UnknownTargetError) IsTransient() bool {
	return false
}
