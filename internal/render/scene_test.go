package render

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	s := NewScene(200, 100)
	s.Group(Root, "cell", 10, 20)
	s.Rect("cell", "cell-bg", Rect{Width: 30, Height: 15, Fill: "#ffffff", Class: "cell-bg"})
	s.Path("cell", "cell-max", Path{Points: []Point{{0, 5}, {15, 2.5}, {30, 0}}, Stroke: "white", StrokeWidth: 1.2})
	s.Path("cell", "cell-min", Path{Points: []Point{{0, 10}}, Stroke: "white", StrokeWidth: 1.2, Hidden: true})
	s.Text(Root, "label", Text{X: 5, Y: 5, Content: "a < b & c", Anchor: "end"})
	return s
}

func TestScene_DispatchRoutesByTargetAndType(t *testing.T) {
	s := newTestScene(t)

	var got []Event
	s.On("cell-bg", Click, func(ev Event) { got = append(got, ev) })
	s.On("cell-bg", PointerEnter, func(ev Event) { got = append(got, ev) })

	require.NoError(t, s.Dispatch(Event{Type: Click, Target: "cell-bg", X: 1, Y: 2}))
	require.NoError(t, s.Dispatch(Event{Type: PointerEnter, Target: "cell-bg", X: 3, Y: 4}))
	require.Len(t, got, 2)
	assert.Equal(t, Click, got[0].Type)
	assert.Equal(t, 3.0, got[1].X)

	err := s.Dispatch(Event{Type: PointerLeave, Target: "cell-bg"})
	var unknown *UnknownTargetError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, PointerLeave, unknown.Type)

	err = s.Dispatch(Event{Type: Click, Target: "nope"})
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, ShapeID("nope"), unknown.Target)
}

func TestScene_MutationsAreJournaled(t *testing.T) {
	s := newTestScene(t)

	s.TransitionFill("cell-bg", "#000000", 500*time.Millisecond)
	s.SetVisible("cell-max", false)
	s.SetVisible("cell-min", true)
	s.SetText("label", "hello")
	s.Move("label", 40, 50)

	changes := s.Flush()
	require.Len(t, changes, 5)
	assert.Equal(t, OpFill, changes[0].Op)
	assert.Equal(t, int64(500), changes[0].DurationMS)
	assert.Equal(t, OpVisibility, changes[1].Op)
	require.NotNil(t, changes[1].Visible)
	assert.False(t, *changes[1].Visible)
	assert.True(t, *changes[2].Visible)
	assert.Equal(t, "hello", changes[3].Text)
	assert.Equal(t, 40.0, changes[4].X)

	assert.Empty(t, s.Flush(), "journal is cleared by Flush")

	st, ok := s.Lookup("cell-bg")
	require.True(t, ok)
	assert.Equal(t, "#000000", st.Fill)
	assert.Equal(t, 500*time.Millisecond, st.Transition)

	st, _ = s.Lookup("cell-min")
	assert.True(t, st.Visible)
	st, _ = s.Lookup("label")
	assert.Equal(t, "hello", st.Text)
	assert.Equal(t, 50.0, st.Y)
}

func TestScene_MutationsOnWrongKindAreIgnored(t *testing.T) {
	s := newTestScene(t)

	s.TransitionFill("cell-max", "#000000", time.Second)
	s.SetText("cell-bg", "x")
	s.Move("missing", 1, 1)
	s.SetVisible("missing", true)

	assert.Empty(t, s.Flush())
}

func TestScene_DuplicateIDPanics(t *testing.T) {
	s := newTestScene(t)
	assert.Panics(t, func() { s.Rect(Root, "cell-bg", Rect{}) })
	assert.Panics(t, func() { s.Rect("missing", "other", Rect{}) })
	assert.Panics(t, func() { s.Rect("cell-bg", "child", Rect{}) })
}

func TestScene_WriteSVG(t *testing.T) {
	s := newTestScene(t)
	s.On("cell-bg", PointerEnter, func(Event) {})
	s.On("cell-bg", Click, func(Event) {})
	s.TransitionFill("cell-bg", "#abcdef", 500*time.Millisecond)

	var sb strings.Builder
	require.NoError(t, s.WriteSVG(&sb))
	svg := sb.String()

	assert.True(t, strings.HasPrefix(svg, `<svg width="200" height="100"`))
	assert.Contains(t, svg, `</svg>`)
	assert.Contains(t, svg, `<g id="cell" transform="translate(10,20)">`)
	assert.Contains(t, svg, `fill="#abcdef"`)
	assert.Contains(t, svg, `style="transition:fill 500ms ease-in-out"`)
	assert.Contains(t, svg, `data-events="pointerenter click"`)
	assert.Contains(t, svg, `d="M0,5L15,2.5L30,0"`)
	assert.Contains(t, svg, `<path id="cell-min" d="M0,10" fill="none" stroke="white" stroke-width="1.2" display="none"/>`)
	assert.Contains(t, svg, `a &lt; b &amp; c`)
	assert.Contains(t, svg, `text-anchor="end"`)

	assert.Equal(t, svg, s.String())
}

func TestChange_JSON(t *testing.T) {
	visible := true
	data, err := json.Marshal([]Change{
		{Op: OpFill, Target: "a", Fill: "#123456", DurationMS: 500},
		{Op: OpVisibility, Target: "b", Visible: &visible},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"op":"fill","target":"a","fill":"#123456","duration_ms":500},
		{"op":"visibility","target":"b","visible":true}
	]`, string(data))
}

func TestParseEventType(t *testing.T) {
	for _, s := range []string{"pointerenter", "pointerleave", "click"} {
		ev, err := ParseEventType(s)
		require.NoError(t, err)
		assert.Equal(t, EventType(s), ev)
	}
	_, err := ParseEventType("dblclick")
	assert.Error(t, err)
}
