package render

import (
	"fmt"
	"time"
)

// Kind is the type of a shape in a Scene
type Kind int

const (
	KindGroup Kind = iota
	KindRect
	KindPath
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindRect:
		return "rect"
	case KindPath:
		return "path"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

type element struct {
	id       ShapeID
	kind     Kind
	children []*element

	// group translation
	tx, ty float64

	rect Rect
	path Path
	text Text

	transition time.Duration
	hidden     bool
	events     []EventType
}

type handlerKey struct {
	id ShapeID
	ev EventType
}

// Scene is an in-memory Surface that serializes to SVG and keeps a journal
// of every mutation made after drawing, so a remote viewer can replay them.
// A Scene is not safe for concurrent use.
type Scene struct {
	width, height float64

	root     *element
	byID     map[ShapeID]*element
	handlers map[handlerKey]Handler
	changes  []Change
}

// NewScene creates an empty scene of the given size
func NewScene(width, height float64) *Scene {
	root := &element{kind: KindGroup}
	return &Scene{
		width:    width,
		height:   height,
		root:     root,
		byID:     map[ShapeID]*element{Root: root},
		handlers: make(map[handlerKey]Handler),
	}
}

// Size returns the scene dimensions
func (s *Scene) Size() (width, height float64) {
	return s.width, s.height
}

func (s *Scene) add(parent ShapeID, e *element) {
	if _, dup := s.byID[e.id]; dup {
		panic(fmt.Sprintf("render: duplicate shape id %q", e.id))
	}
	p, ok := s.byID[parent]
	if !ok {
		panic(fmt.Sprintf("render: unknown parent %q for shape %q", parent, e.id))
	}
	if p.kind != KindGroup {
		panic(fmt.Sprintf("render: parent %q of %q is a %s, not a group", parent, e.id, p.kind))
	}
	p.children = append(p.children, e)
	s.byID[e.id] = e
}

// Group implements Surface
func (s *Scene) Group(parent, id ShapeID, x, y float64) {
	s.add(parent, &element{id: id, kind: KindGroup, tx: x, ty: y})
}

// Rect implements Surface
func (s *Scene) Rect(parent, id ShapeID, r Rect) {
	s.add(parent, &element{id: id, kind: KindRect, rect: r})
}

// Path implements Surface
func (s *Scene) Path(parent, id ShapeID, p Path) {
	s.add(parent, &element{id: id, kind: KindPath, path: p, hidden: p.Hidden})
}

// Text implements Surface
func (s *Scene) Text(parent, id ShapeID, t Text) {
	s.add(parent, &element{id: id, kind: KindText, text: t, hidden: t.Hidden})
}

// TransitionFill implements Surface. Only rectangles carry a fill.
func (s *Scene) TransitionFill(id ShapeID, fill string, d time.Duration) {
	e, ok := s.byID[id]
	if !ok || e.kind != KindRect {
		return
	}
	e.rect.Fill = fill
	e.transition = d
	s.changes = append(s.changes, Change{
		Op:         OpFill,
		Target:     id,
		Fill:       fill,
		DurationMS: d.Milliseconds(),
	})
}

// SetVisible implements Surface
func (s *Scene) SetVisible(id ShapeID, visible bool) {
	e, ok := s.byID[id]
	if !ok || id == Root {
		return
	}
	e.hidden = !visible
	v := visible
	s.changes = append(s.changes, Change{Op: OpVisibility, Target: id, Visible: &v})
}

// SetText implements Surface
func (s *Scene) SetText(id ShapeID, content string) {
	e, ok := s.byID[id]
	if !ok || e.kind != KindText {
		return
	}
	e.text.Content = content
	s.changes = append(s.changes, Change{Op: OpText, Target: id, Text: content})
}

// Move implements Surface
func (s *Scene) Move(id ShapeID, x, y float64) {
	e, ok := s.byID[id]
	if !ok || e.kind != KindText {
		return
	}
	e.text.X, e.text.Y = x, y
	s.changes = append(s.changes, Change{Op: OpMove, Target: id, X: x, Y: y})
}

// On implements Surface
func (s *Scene) On(id ShapeID, ev EventType, h Handler) {
	e, ok := s.byID[id]
	if !ok {
		panic(fmt.Sprintf("render: handler for unknown shape %q", id))
	}
	key := handlerKey{id: id, ev: ev}
	if _, exists := s.handlers[key]; !exists {
		e.events = append(e.events, ev)
	}
	s.handlers[key] = h
}

// Dispatch delivers ev to the handler registered for its target and type
func (s *Scene) Dispatch(ev Event) error {
	h, ok := s.handlers[handlerKey{id: ev.Target, ev: ev.Type}]
	if !ok {
		return &UnknownTargetError{Target: ev.Target, Type: ev.Type}
	}
	h(ev)
	return nil
}

// Flush returns the mutations recorded since the previous Flush
func (s *Scene) Flush() []Change {
	out := s.changes
	s.changes = nil
	if out == nil {
		out = []Change{}
	}
	return out
}

// ShapeState is a read-only snapshot of one shape
type ShapeState struct {
	ID         ShapeID
	Kind       Kind
	Fill       string
	Transition time.Duration
	Visible    bool
	Text       string
	X, Y       float64
	Points     []Point
	Events     []EventType
}

// Lookup returns the current state of a shape
func (s *Scene) Lookup(id ShapeID) (ShapeState, bool) {
	e, ok := s.byID[id]
	if !ok {
		return ShapeState{}, false
	}
	st := ShapeState{
		ID:         e.id,
		Kind:       e.kind,
		Transition: e.transition,
		Visible:    !e.hidden,
		Events:     append([]EventType(nil), e.events...),
	}
	switch e.kind {
	case KindGroup:
		st.X, st.Y = e.tx, e.ty
	case KindRect:
		st.Fill = e.rect.Fill
		st.X, st.Y = e.rect.X, e.rect.Y
	case KindPath:
		st.Points = append([]Point(nil), e.path.Points...)
	case KindText:
		st.Text = e.text.Content
		st.X, st.Y = e.text.X, e.text.Y
	}
	return st, true
}
