package funcplot

// A Mapper converts between mathematical coordinates in a Viewport and raster
// coordinates in an Extent. The raster y axis is inverted.
type Mapper struct {
	viewport Viewport
	extent   Extent
	width    float64
	height   float64
	spanX    float64
	spanY    float64
}

// NewMapper returns a new Mapper. It returns a *ConfigurationError if
// viewport or extent is invalid.
func NewMapper(viewport Viewport, extent Extent) (*Mapper, error) {
	if err := viewport.Validate(); err != nil {
		return nil, err
	}
	if err := extent.Validate(); err != nil {
		return nil, err
	}
	return &Mapper{
		viewport: viewport,
		extent:   extent,
		width:    float64(extent.Width),
		height:   float64(extent.Height),
		spanX:    viewport.XMax - viewport.XMin,
		spanY:    viewport.YMax - viewport.YMin,
	}, nil
}

// Viewport returns m's viewport.
func (m *Mapper) Viewport() Viewport {
	return m.viewport
}

// Extent returns m's extent.
func (m *Mapper) Extent() Extent {
	return m.extent
}

// ToRaster returns the raster point of the mathematical point (x, y). The
// result may lie outside the extent.
func (m *Mapper) ToRaster(x, y float64) Point {
	return Point{
		X: m.RasterX(x),
		Y: m.RasterY(y),
	}
}

// RasterX returns the raster column of the mathematical x.
func (m *Mapper) RasterX(x float64) float64 {
	return (x - m.viewport.XMin) / m.spanX * m.width
}

// RasterY returns the raster row of the mathematical y.
func (m *Mapper) RasterY(y float64) float64 {
	return m.height - (y-m.viewport.YMin)/m.spanY*m.height
}

// ToMath returns the mathematical coordinates of the raster point p. It is
// the inverse of ToRaster.
func (m *Mapper) ToMath(p Point) (float64, float64) {
	x := m.viewport.XMin + p.X/m.width*m.spanX
	y := m.viewport.YMin + (m.height-p.Y)/m.height*m.spanY
	return x, y
}
