package view

import (
	"fmt"
	"strconv"
	"time"

	"temperature-matrix/internal/models"
	"temperature-matrix/internal/render"
	"temperature-matrix/internal/scales"
)

// Metric is the temperature extreme currently displayed by the matrix
type Metric int

const (
	MetricMax Metric = iota
	MetricMin
)

func (m Metric) String() string {
	if m == MetricMin {
		return "min"
	}
	return "max"
}

// Label is the tooltip caption for the metric
func (m Metric) Label() string {
	if m == MetricMin {
		return "Min Temperature"
	}
	return "Max Temperature"
}

// Value selects the metric's monthly extreme from an entry
func (m Metric) Value(e *models.MatrixEntry) float64 {
	if m == MetricMin {
		return e.MinOfMonth
	}
	return e.MaxOfMonth
}

// TransitionDuration is how long a cell takes to recolor after a toggle
const TransitionDuration = 500 * time.Millisecond

// Tooltip placement relative to the pointer
const (
	TooltipID      render.ShapeID = "tooltip"
	TooltipOffsetX                = 12.0
	TooltipOffsetY                = -24.0
)

type cellShapes struct {
	entry    *models.MatrixEntry
	bg       render.ShapeID
	maxTrace render.ShapeID
	minTrace render.ShapeID
}

// Controller owns the max/min toggle and applies it to every cell drawn
// by a MatrixView. It starts out showing the monthly maxima.
type Controller struct {
	surface render.Surface
	color   *scales.SequentialScale
	state   Metric
	toggles int
	cells   []cellShapes
}

// NewController creates a controller that recolors cells with color
func NewController(surface render.Surface, color *scales.SequentialScale) *Controller {
	return &Controller{
		surface: surface,
		color:   color,
		state:   MetricMax,
	}
}

func (c *Controller) track(cell cellShapes) {
	c.cells = append(c.cells, cell)
}

// State returns the metric currently shown
func (c *Controller) State() Metric {
	return c.state
}

// IsShowingMax reports whether the maxima are shown
func (c *Controller) IsShowingMax() bool {
	return c.state == MetricMax
}

// Toggles returns how many times Toggle has run
func (c *Controller) Toggles() int {
	return c.toggles
}

// Toggle flips the displayed metric. Every cell background starts a fill
// transition to the new metric's color and the traces swap visibility at
// once. A toggle issued while a transition is running retargets it.
func (c *Controller) Toggle() {
	if c.state == MetricMax {
		c.state = MetricMin
	} else {
		c.state = MetricMax
	}
	c.toggles++

	showMax := c.state == MetricMax
	for _, cell := range c.cells {
		c.surface.TransitionFill(cell.bg, c.color.Map(c.state.Value(cell.entry)), TransitionDuration)
		c.surface.SetVisible(cell.maxTrace, showMax)
		c.surface.SetVisible(cell.minTrace, !showMax)
	}
}

// ShowTooltip describes entry under the current metric next to the
// pointer position (x, y).
func (c *Controller) ShowTooltip(entry *models.MatrixEntry, x, y float64) {
	c.surface.SetText(TooltipID, TooltipText(entry, c.state))
	c.surface.Move(TooltipID, x+TooltipOffsetX, y+TooltipOffsetY)
	c.surface.SetVisible(TooltipID, true)
}

// HideTooltip hides the tooltip and leaves its content in place
func (c *Controller) HideTooltip() {
	c.surface.SetVisible(TooltipID, false)
}

// TooltipText formats e.g. "Date: 2020-02, Max Temperature: 30"
func TooltipText(entry *models.MatrixEntry, metric Metric) string {
	return fmt.Sprintf("Date: %04d-%02d, %s: %s",
		entry.Year, entry.Month, metric.Label(),
		strconv.FormatFloat(metric.Value(entry), 'f', -1, 64))
}
