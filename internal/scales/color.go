package scales

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette/brewer"
)

// spectralStops are the eleven ColorBrewer Spectral stops, warm (t=0) to
// cool (t=1).
var spectralStops = mustSpectralStops()

func mustSpectralStops() []colorful.Color {
	pal, err := brewer.GetPalette(brewer.TypeDiverging, "Spectral", 11)
	if err != nil {
		panic(fmt.Sprintf("scales: spectral palette unavailable: %v", err))
	}

	colors := pal.Colors()
	stops := make([]colorful.Color, 0, len(colors))
	for _, c := range colors {
		cf, ok := colorful.MakeColor(c)
		if !ok {
			panic("scales: spectral palette contains a transparent color")
		}
		stops = append(stops, cf)
	}
	return stops
}

// Spectral evaluates the continuous Spectral ramp at t, clamped to [0, 1],
// by blending adjacent stops in RGB.
func Spectral(t float64) colorful.Color {
	if math.IsNaN(t) || t <= 0 {
		return spectralStops[0]
	}
	last := len(spectralStops) - 1
	if t >= 1 {
		return spectralStops[last]
	}

	pos := t * float64(last)
	i := int(math.Floor(pos))
	if i >= last {
		return spectralStops[last]
	}
	return spectralStops[i].BlendRgb(spectralStops[i+1], pos-float64(i))
}

// Hex renders a ramp color as #rrggbb
func Hex(c colorful.Color) string {
	return c.Clamped().Hex()
}

// SequentialScale maps a continuous domain onto an interpolator's [0, 1]
// parameter. Like the ramp itself, it saturates outside the domain.
type SequentialScale struct {
	D0, D1       float64
	Interpolator func(t float64) colorful.Color
}

// NewTemperatureColorScale returns the fixed temperature color scale with
// domain [TempMax, TempMin], so TempMax sits at the warm end of the ramp.
func NewTemperatureColorScale() *SequentialScale {
	return &SequentialScale{
		D0:           TempMax,
		D1:           TempMin,
		Interpolator: Spectral,
	}
}

// Color returns the ramp color for v
func (s *SequentialScale) Color(v float64) colorful.Color {
	t := 0.5
	if s.D0 != s.D1 {
		t = (v - s.D0) / (s.D1 - s.D0)
	}
	return s.Interpolator(t)
}

// Map returns the #rrggbb color for v
func (s *SequentialScale) Map(v float64) string {
	return Hex(s.Color(v))
}
