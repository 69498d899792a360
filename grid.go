package funcplot

import "math"

// DefaultTickCount is the number of intervals on each axis.
const DefaultTickCount = 10

// Values within zeroLabelEpsilon of zero, but not zero, get no y label. This
// hides near-duplicate "0.0" labels caused by rounding in the tick values.
const zeroLabelEpsilon = 1e-9

// Label anchor offsets and bounds, in pixels.
const (
	labelOffset      = 2
	xLabelMinY       = 10
	yLabelRightInset = 20
)

// A Tick is a grid line on one axis.
type Tick struct {
	Value   float64 // Mathematical value.
	Pixel   float64 // Raster position along the axis.
	Label   string
	Labeled bool  // False if the label should not be drawn.
	LabelAt Point // Text baseline origin, clamped into the extent.
}

// A Grid is the axis and grid geometry of a plot.
type Grid struct {
	XTicks []Tick
	YTicks []Tick

	// XZeroPixel is the raster column of the line x=0 and YZeroPixel is the
	// raster row of the line y=0. They are only meaningful for drawing if
	// the corresponding Visible field is true.
	XZeroPixel   float64
	XZeroVisible bool
	YZeroPixel   float64
	YZeroVisible bool
}

// ComputeGrid returns evenly spaced ticks for both axes, tickCountX+1 on the
// x axis and tickCountY+1 on the y axis, and the positions of the zero lines.
func ComputeGrid(viewport Viewport, extent Extent, tickCountX, tickCountY int) (*Grid, error) {
	mapper, err := NewMapper(viewport, extent)
	if err != nil {
		return nil, err
	}
	return mapper.Grid(tickCountX, tickCountY)
}

// Grid is like ComputeGrid but uses m's viewport and extent.
func (m *Mapper) Grid(tickCountX, tickCountY int) (*Grid, error) {
	if tickCountX <= 0 {
		return nil, &ConfigurationError{Field: "tickCountX", Value: tickCountX, Reason: "must be positive"}
	}
	if tickCountY <= 0 {
		return nil, &ConfigurationError{Field: "tickCountY", Value: tickCountY, Reason: "must be positive"}
	}

	xZero := m.RasterX(0)
	yZero := m.RasterY(0)
	g := &Grid{
		XTicks:       make([]Tick, tickCountX+1),
		YTicks:       make([]Tick, tickCountY+1),
		XZeroPixel:   xZero,
		XZeroVisible: 0 <= xZero && xZero <= m.width,
		YZeroPixel:   yZero,
		YZeroVisible: 0 <= yZero && yZero <= m.height,
	}

	// X labels sit just above the x axis, or at the nearest edge if the axis
	// is off-canvas.
	xLabelY := clamp(yZero-labelOffset, xLabelMinY, m.height-labelOffset)
	for i := range g.XTicks {
		fraction := float64(i) / float64(tickCountX)
		value := m.viewport.XMin + fraction*m.spanX
		pixel := fraction * m.width
		g.XTicks[i] = Tick{
			Value:   value,
			Pixel:   pixel,
			Label:   formatLabel(value),
			Labeled: true,
			LabelAt: Point{X: pixel + labelOffset, Y: xLabelY},
		}
	}

	// Y labels sit just right of the y axis.
	yLabelX := clamp(xZero+labelOffset, labelOffset, m.width-yLabelRightInset)
	for i := range g.YTicks {
		fraction := float64(i) / float64(tickCountY)
		value := m.viewport.YMin + fraction*m.spanY
		pixel := m.height - fraction*m.height
		g.YTicks[i] = Tick{
			Value:   value,
			Pixel:   pixel,
			Label:   formatLabel(value),
			Labeled: math.Abs(value) > zeroLabelEpsilon || value == 0,
			LabelAt: Point{X: yLabelX, Y: pixel - labelOffset},
		}
	}

	return g, nil
}

func clamp(x, lower, upper float64) float64 {
	return math.Min(math.Max(x, lower), upper)
}
