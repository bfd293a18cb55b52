package scales

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temperature-matrix/internal/models"
)

func TestBandScale_UniformBands(t *testing.T) {
	s := NewBandScale([]int{2014, 2015, 2016, 2017}, 120, 920, 0.05)

	// step = 800 / (4 - 0.05 + 0.1)
	wantStep := 800 / 4.05
	assert.InDelta(t, wantStep, s.Step(), 1e-9)
	assert.InDelta(t, wantStep*0.95, s.Bandwidth(), 1e-9)

	first, ok := s.Map(2014)
	require.True(t, ok)
	last, ok := s.Map(2017)
	require.True(t, ok)

	// Outer padding is symmetric.
	assert.InDelta(t, first-120, 920-(last+s.Bandwidth()), 1e-9)
	assert.InDelta(t, wantStep*0.05, first-120, 1e-9)

	prev := first
	for _, y := range []int{2015, 2016, 2017} {
		pos, ok := s.Map(y)
		require.True(t, ok)
		assert.InDelta(t, s.Step(), pos-prev, 1e-9)
		prev = pos
	}

	_, ok = s.Map(2013)
	assert.False(t, ok)
}

func TestBandScale_SingleBand(t *testing.T) {
	s := NewBandScale([]int{2020}, 0, 100, 0.05)

	pos, ok := s.Map(2020)
	require.True(t, ok)
	assert.InDelta(t, 100.0/1.05*0.05, pos, 1e-9)
	assert.InDelta(t, 100.0/1.05*0.95, s.Bandwidth(), 1e-9)
}

func TestLinearScale(t *testing.T) {
	s := NewLinearScale(TempMin, TempMax, 60, 0)

	assert.InDelta(t, 60, s.Map(0), 1e-9)
	assert.InDelta(t, 0, s.Map(40), 1e-9)
	assert.InDelta(t, 30, s.Map(20), 1e-9)

	// Not clamped: values outside the band render outside the cell.
	assert.InDelta(t, 75, s.Map(-10), 1e-9)
	assert.InDelta(t, -15, s.Map(50), 1e-9)
}

func TestLinearScale_DegenerateDomainMapsToRangeStart(t *testing.T) {
	s := NewLinearScale(0, 0, 0, 80)
	assert.Equal(t, 0.0, s.Map(0))
	assert.Equal(t, 0.0, s.Map(5))
}

func TestSpectral_Endpoints(t *testing.T) {
	require.Len(t, spectralStops, 11)

	assert.Equal(t, Hex(spectralStops[0]), Hex(Spectral(0)))
	assert.Equal(t, Hex(spectralStops[10]), Hex(Spectral(1)))
	assert.Equal(t, Hex(spectralStops[5]), Hex(Spectral(0.5)))

	// Clamped outside [0, 1].
	assert.Equal(t, Hex(Spectral(0)), Hex(Spectral(-3)))
	assert.Equal(t, Hex(Spectral(1)), Hex(Spectral(7)))
	assert.Equal(t, Hex(Spectral(0)), Hex(Spectral(math.NaN())))
}

func TestSpectral_Continuous(t *testing.T) {
	// Adjacent samples never jump by more than one stop-to-stop distance.
	maxStep := 0.0
	for i := 0; i < len(spectralStops)-1; i++ {
		maxStep = math.Max(maxStep, spectralStops[i].DistanceRgb(spectralStops[i+1]))
	}

	prev := Spectral(0)
	for i := 1; i <= 1000; i++ {
		c := Spectral(float64(i) / 1000)
		assert.LessOrEqual(t, prev.DistanceRgb(c), maxStep/50+1e-9)
		prev = c
	}
}

func TestSpectral_BrewerExtremes(t *testing.T) {
	assert.Equal(t, "#9e0142", Hex(Spectral(0)), "t=0 is the deep red end")
	assert.Equal(t, "#ffffbf", Hex(Spectral(0.5)), "t=0.5 is the pale yellow midpoint")
	assert.Equal(t, "#5e4fa2", Hex(Spectral(1)), "t=1 is the deep blue end")
}

func TestTemperatureColorScale_WarmToCool(t *testing.T) {
	s := NewTemperatureColorScale()

	assert.Equal(t, "#9e0142", s.Map(40), "40 Celsius is warm")
	assert.Equal(t, "#5e4fa2", s.Map(0), "0 Celsius is cool")

	hot := s.Color(35)
	cold := s.Color(5)
	assert.Greater(t, hot.R, hot.B, "hot temperatures lean red")
	assert.Greater(t, cold.B, cold.R, "cold temperatures lean blue")
}

func TestTemperatureColorScale_Boundaries(t *testing.T) {
	s := NewTemperatureColorScale()

	assert.Equal(t, Hex(Spectral(0)), s.Map(TempMax), "40°C maps to the warm extreme")
	assert.Equal(t, Hex(Spectral(1)), s.Map(TempMin), "0°C maps to the cool extreme")
	assert.Equal(t, Hex(Spectral(0.5)), s.Map(20))
	assert.Equal(t, Hex(Spectral(0.25)), s.Map(30))

	// Saturates outside the fixed domain.
	assert.Equal(t, s.Map(TempMax), s.Map(55))
	assert.Equal(t, s.Map(TempMin), s.Map(-20))

	assert.Regexp(t, `^#[0-9a-f]{6}$`, s.Map(12.5))
}

func TestBuild(t *testing.T) {
	m := buildMatrix(t, 2016, 2018, 2017)

	set := Build(m, DefaultLayout)

	assert.Equal(t, []int{2016, 2017, 2018}, set.Year.Domain())
	assert.Equal(t, models.MonthDomain(), set.Month.Domain())

	x16, _ := set.Year.Map(2016)
	x18, _ := set.Year.Map(2018)
	assert.Less(t, x16, x18, "years ascend left to right")
	assert.GreaterOrEqual(t, x16, DefaultLayout.Margin.Left)
	assert.LessOrEqual(t, x18+set.Year.Bandwidth(), DefaultLayout.Width-DefaultLayout.Margin.Right)

	jan, _ := set.Month.Map(1)
	dec, _ := set.Month.Map(12)
	assert.Less(t, jan, dec, "January is on top")
	assert.GreaterOrEqual(t, jan, DefaultLayout.Margin.Top)
	assert.LessOrEqual(t, dec+set.Month.Bandwidth(), DefaultLayout.Height-DefaultLayout.Margin.Bottom)
}

func TestBuildCellScales(t *testing.T) {
	entry := &models.MatrixEntry{
		Year: 2020, Month: 2,
		Daily: make([]models.DailyObservation, 29),
	}

	cs := BuildCellScales(entry, 84, 55)
	assert.InDelta(t, 0, cs.Day.Map(0), 1e-9)
	assert.InDelta(t, 84, cs.Day.Map(28), 1e-9)
	assert.InDelta(t, 55, cs.Temp.Map(TempMin), 1e-9)
	assert.InDelta(t, 0, cs.Temp.Map(TempMax), 1e-9)

	single := &models.MatrixEntry{Year: 2020, Month: 3, Daily: make([]models.DailyObservation, 1)}
	cs = BuildCellScales(single, 84, 55)
	assert.Equal(t, 0.0, cs.Day.Map(0), "a single day sits at the start of the cell")
}

func buildMatrix(t *testing.T, years ...int) *models.Matrix {
	t.Helper()
	var entries []*models.MatrixEntry
	for _, y := range years {
		entries = append(entries, &models.MatrixEntry{
			Year: y, Month: 1, MaxOfMonth: 10, MinOfMonth: 2,
			Daily: []models.DailyObservation{{
				Date: time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), Year: y, Month: 1, MaxTemp: 10, MinTemp: 2,
			}},
		})
	}
	m, err := models.NewMatrix(entries)
	require.NoError(t, err)
	return m
}
