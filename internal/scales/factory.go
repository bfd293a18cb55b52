package scales

import "temperature-matrix/internal/models"

// Fixed temperature bounds shared by the color scale and every cell trace
const (
	TempMin = 0.0
	TempMax = 40.0
)

// BandPadding is the inner and outer padding of the year and month bands
const BandPadding = 0.05

// Margin is the space reserved around the plotting area
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Layout describes the fixed drawing canvas
type Layout struct {
	Width, Height float64
	Margin        Margin
}

// DefaultLayout is the canvas the matrix is drawn on
var DefaultLayout = Layout{
	Width:  1100,
	Height: 750,
	Margin: Margin{Top: 80, Right: 180, Bottom: 50, Left: 120},
}

// Set holds the scales shared by every cell
type Set struct {
	Year  *BandScale[int]
	Month *BandScale[int]
	Color *SequentialScale
}

// Build derives the positional and color scales for a matrix
func Build(m *models.Matrix, layout Layout) *Set {
	return &Set{
		Year: NewBandScale(m.Years(),
			layout.Margin.Left, layout.Width-layout.Margin.Right, BandPadding),
		Month: NewBandScale(models.MonthDomain(),
			layout.Margin.Top, layout.Height-layout.Margin.Bottom, BandPadding),
		Color: NewTemperatureColorScale(),
	}
}

// CellScales position one cell's daily trace inside its band
type CellScales struct {
	Day  LinearScale // day index -> x within the cell
	Temp LinearScale // temperature -> y within the cell, inverted
}

// BuildCellScales returns the per-cell scales for an entry drawn in a
// width x height cell.
func BuildCellScales(entry *models.MatrixEntry, width, height float64) CellScales {
	return CellScales{
		Day:  NewLinearScale(0, float64(len(entry.Daily)-1), 0, width),
		Temp: NewLinearScale(TempMin, TempMax, height, 0),
	}
}
