package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"
)

// WriteSVG serializes the current scene state as a standalone SVG document.
// Shapes with handlers carry a data-events attribute listing the event types
// a viewer should forward.
func (s *Scene) WriteSVG(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">`+"\n",
		num(s.width), num(s.height), num(s.width), num(s.height)))
	sb.WriteString(`  <style>.label{font-family:sans-serif;font-size:11px;fill:#333}.tooltip{font-family:sans-serif;font-size:12px;fill:#111;pointer-events:none}</style>` + "\n")

	for _, child := range s.root.children {
		writeElement(&sb, child, 1)
	}

	sb.WriteString(`</svg>` + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// String returns the SVG document
func (s *Scene) String() string {
	var sb strings.Builder
	_ = s.WriteSVG(&sb)
	return sb.String()
}

func writeElement(sb *strings.Builder, e *element, depth int) {
	indent := strings.Repeat("  ", depth)

	switch e.kind {
	case KindGroup:
		sb.WriteString(fmt.Sprintf(`%s<g id="%s"%s%s>`+"\n", indent, esc(string(e.id)), translate(e.tx, e.ty), commonAttrs(e)))
		for _, child := range e.children {
			writeElement(sb, child, depth+1)
		}
		sb.WriteString(indent + `</g>` + "\n")

	case KindRect:
		r := e.rect
		sb.WriteString(fmt.Sprintf(`%s<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"%s%s/>`+"\n",
			indent, esc(string(e.id)), num(r.X), num(r.Y), num(r.Width), num(r.Height), esc(r.Fill),
			classAttr(r.Class), commonAttrs(e)))

	case KindPath:
		p := e.path
		sb.WriteString(fmt.Sprintf(`%s<path id="%s" d="%s" fill="none" stroke="%s" stroke-width="%s"%s%s/>`+"\n",
			indent, esc(string(e.id)), pathData(p.Points), esc(p.Stroke), num(p.StrokeWidth),
			classAttr(p.Class), commonAttrs(e)))

	case KindText:
		t := e.text
		var attrs strings.Builder
		if t.Anchor != "" {
			attrs.WriteString(fmt.Sprintf(` text-anchor="%s"`, esc(t.Anchor)))
		}
		if t.Baseline != "" {
			attrs.WriteString(fmt.Sprintf(` dominant-baseline="%s"`, esc(t.Baseline)))
		}
		if t.FontSize > 0 {
			attrs.WriteString(fmt.Sprintf(` font-size="%s"`, num(t.FontSize)))
		}
		sb.WriteString(fmt.Sprintf(`%s<text id="%s" x="%s" y="%s"%s%s%s>%s</text>`+"\n",
			indent, esc(string(e.id)), num(t.X), num(t.Y), attrs.String(),
			classAttr(t.Class), commonAttrs(e), esc(t.Content)))
	}
}

// commonAttrs renders visibility, transition and event attributes
func commonAttrs(e *element) string {
	var sb strings.Builder
	if e.hidden {
		sb.WriteString(` display="none"`)
	}
	if e.transition > 0 {
		sb.WriteString(fmt.Sprintf(` style="transition:fill %dms ease-in-out"`, e.transition.Milliseconds()))
	}
	if len(e.events) > 0 {
		names := make([]string, len(e.events))
		for i, ev := range e.events {
			names[i] = string(ev)
		}
		sb.WriteString(fmt.Sprintf(` data-events="%s"`, strings.Join(names, " ")))
	}
	return sb.String()
}

func translate(x, y float64) string {
	if x == 0 && y == 0 {
		return ""
	}
	return fmt.Sprintf(` transform="translate(%s,%s)"`, num(x), num(y))
}

func classAttr(class string) string {
	if class == "" {
		return ""
	}
	return fmt.Sprintf(` class="%s"`, esc(class))
}

func pathData(points []Point) string {
	var sb strings.Builder
	for i, p := range points {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString("L")
		}
		sb.WriteString(num(p.X))
		sb.WriteString(",")
		sb.WriteString(num(p.Y))
	}
	return sb.String()
}

// num formats a coordinate with at most two decimals
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func esc(s string) string {
	return html.EscapeString(s)
}
