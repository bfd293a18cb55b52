// Package view draws the temperature matrix, its legend and tooltip on a
// render.Surface and reacts to pointer events on the cells.
package view

import (
	"fmt"

	"temperature-matrix/internal/models"
	"temperature-matrix/internal/render"
	"temperature-matrix/internal/scales"
)

const (
	traceStroke      = "white"
	traceStrokeWidth = 1.2

	axisOffset  = 10.0
	tickPadding = 9.0
	axisStroke  = "#333"
)

// Shape ids used by the matrix drawing
const (
	YearAxisID  render.ShapeID = "axis-years"
	MonthAxisID render.ShapeID = "axis-months"
	CellsID     render.ShapeID = "cells"
	OverlayID   render.ShapeID = "overlay"
)

// CellID is the group id of the cell for (year, month)
func CellID(year, month int) render.ShapeID {
	return render.ShapeID("cell-" + models.CellKey{Year: year, Month: month}.String())
}

// BackgroundID is the id of the cell's colored rectangle, the shape that
// receives pointer events.
func BackgroundID(year, month int) render.ShapeID {
	return CellID(year, month) + "-bg"
}

// MaxTraceID is the id of the cell's daily-maximum line
func MaxTraceID(year, month int) render.ShapeID {
	return CellID(year, month) + "-max"
}

// MinTraceID is the id of the cell's daily-minimum line
func MinTraceID(year, month int) render.ShapeID {
	return CellID(year, month) + "-min"
}

// MatrixView lays out one cell per (year, month) entry
type MatrixView struct {
	surface    render.Surface
	layout     scales.Layout
	controller *Controller
}

// NewMatrixView creates a view drawing on surface with layout
func NewMatrixView(surface render.Surface, layout scales.Layout, controller *Controller) *MatrixView {
	return &MatrixView{
		surface:    surface,
		layout:     layout,
		controller: controller,
	}
}

// Draw adds the axes, the cells and the tooltip overlay for m and binds
// the cell handlers to the controller. It must be called once per surface.
func (v *MatrixView) Draw(m *models.Matrix) *scales.Set {
	set := scales.Build(m, v.layout)

	v.drawYearAxis(set.Year)
	v.drawMonthAxis(set.Month)

	v.surface.Group(render.Root, CellsID, 0, 0)
	for _, entry := range m.Entries() {
		v.drawCell(set, entry)
	}

	// Drawn last so it stays above the cells
	v.surface.Group(render.Root, OverlayID, 0, 0)
	v.surface.Text(OverlayID, TooltipID, render.Text{Class: "tooltip", Hidden: true})

	return set
}

func (v *MatrixView) drawCell(set *scales.Set, entry *models.MatrixEntry) {
	x, _ := set.Year.Map(entry.Year)
	y, _ := set.Month.Map(entry.Month)
	w, h := set.Year.Bandwidth(), set.Month.Bandwidth()

	id := CellID(entry.Year, entry.Month)
	bg := BackgroundID(entry.Year, entry.Month)
	maxID := MaxTraceID(entry.Year, entry.Month)
	minID := MinTraceID(entry.Year, entry.Month)

	v.surface.Group(CellsID, id, x, y)
	v.surface.Rect(id, bg, render.Rect{
		Width:  w,
		Height: h,
		Fill:   set.Color.Map(entry.MaxOfMonth),
		Class:  "cell-bg",
	})

	cs := scales.BuildCellScales(entry, w, h)
	v.surface.Path(id, maxID, render.Path{
		Points:      tracePoints(cs, entry.Daily, MetricMax),
		Stroke:      traceStroke,
		StrokeWidth: traceStrokeWidth,
		Class:       "line-max",
	})
	v.surface.Path(id, minID, render.Path{
		Points:      tracePoints(cs, entry.Daily, MetricMin),
		Stroke:      traceStroke,
		StrokeWidth: traceStrokeWidth,
		Class:       "line-min",
		Hidden:      true,
	})

	v.surface.On(bg, render.PointerEnter, func(ev render.Event) {
		v.controller.ShowTooltip(entry, ev.X, ev.Y)
	})
	v.surface.On(bg, render.PointerLeave, func(render.Event) {
		v.controller.HideTooltip()
	})
	v.surface.On(bg, render.Click, func(render.Event) {
		v.controller.Toggle()
	})

	v.controller.track(cellShapes{entry: entry, bg: bg, maxTrace: maxID, minTrace: minID})
}

func tracePoints(cs scales.CellScales, daily []models.DailyObservation, metric Metric) []render.Point {
	points := make([]render.Point, len(daily))
	for i, d := range daily {
		t := d.MaxTemp
		if metric == MetricMin {
			t = d.MinTemp
		}
		points[i] = render.Point{X: cs.Day.Map(float64(i)), Y: cs.Temp.Map(t)}
	}
	return points
}

func (v *MatrixView) drawYearAxis(band *scales.BandScale[int]) {
	top := v.layout.Margin.Top - axisOffset
	v.surface.Group(render.Root, YearAxisID, 0, top)
	v.surface.Path(YearAxisID, YearAxisID+"-domain", render.Path{
		Points:      []render.Point{{X: v.layout.Margin.Left}, {X: v.layout.Width - v.layout.Margin.Right}},
		Stroke:      axisStroke,
		StrokeWidth: 1,
	})

	half := band.Bandwidth() / 2
	for _, year := range band.Domain() {
		x, _ := band.Map(year)
		v.surface.Text(YearAxisID, render.ShapeID(fmt.Sprintf("%s-%d", YearAxisID, year)), render.Text{
			X:       x + half,
			Y:       -tickPadding,
			Content: fmt.Sprintf("%d", year),
			Anchor:  "middle",
			Class:   "label",
		})
	}
}

func (v *MatrixView) drawMonthAxis(band *scales.BandScale[int]) {
	left := v.layout.Margin.Left - axisOffset
	v.surface.Group(render.Root, MonthAxisID, left, 0)
	v.surface.Path(MonthAxisID, MonthAxisID+"-domain", render.Path{
		Points:      []render.Point{{Y: v.layout.Margin.Top}, {Y: v.layout.Height - v.layout.Margin.Bottom}},
		Stroke:      axisStroke,
		StrokeWidth: 1,
	})

	half := band.Bandwidth() / 2
	for _, month := range band.Domain() {
		y, _ := band.Map(month)
		v.surface.Text(MonthAxisID, render.ShapeID(fmt.Sprintf("%s-%02d", MonthAxisID, month)), render.Text{
			X:        -tickPadding,
			Y:        y + half,
			Content:  models.MonthNames[month-1],
			Anchor:   "end",
			Baseline: "middle",
			Class:    "label",
		})
	}
}
