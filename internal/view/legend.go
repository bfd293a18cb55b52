package view

import (
	"fmt"

	"temperature-matrix/internal/render"
	"temperature-matrix/internal/scales"
)

// Legend geometry
const (
	LegendSteps    = 11
	LegendWidth    = 20.0
	LegendHeight   = 250.0
	LegendOffsetX  = 50.0
	legendLabelGap = 8.0
	legendFontSize = 13.0
)

// LegendID is the legend group id
const LegendID render.ShapeID = "legend"

// DrawLegend stacks LegendSteps color blocks to the right of the plot,
// coolest (0 Celsius) on top and warmest (40 Celsius) at the bottom. The
// legend depends only on the layout.
func DrawLegend(surface render.Surface, layout scales.Layout) {
	surface.Group(render.Root, LegendID, layout.Width-layout.Margin.Right+LegendOffsetX, layout.Margin.Top)

	step := LegendHeight / LegendSteps
	for i := 0; i < LegendSteps; i++ {
		t := 1 - float64(i)/float64(LegendSteps-1)
		surface.Rect(LegendID, render.ShapeID(fmt.Sprintf("%s-%02d", LegendID, i)), render.Rect{
			Y:      float64(i) * step,
			Width:  LegendWidth,
			Height: step,
			Fill:   scales.Hex(scales.Spectral(t)),
		})
	}

	surface.Text(LegendID, LegendID+"-min", render.Text{
		X:        LegendWidth + legendLabelGap,
		Y:        0,
		Content:  fmt.Sprintf("%g Celsius", scales.TempMin),
		Baseline: "hanging",
		FontSize: legendFontSize,
	})
	surface.Text(LegendID, LegendID+"-max", render.Text{
		X:        LegendWidth + legendLabelGap,
		Y:        LegendHeight,
		Content:  fmt.Sprintf("%g Celsius", scales.TempMax),
		Baseline: "ideographic",
		FontSize: legendFontSize,
	})
}
