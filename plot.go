package funcplot

// A Plot is the complete geometry of one plot request.
type Plot struct {
	Viewport Viewport
	Extent   Extent
	Grid     *Grid
	Segments []Segment
	Stats    Stats
}

type plotOptions struct {
	tickCountX    int
	tickCountY    int
	tracerOptions []TracerOption
}

// A PlotOption sets an option on NewPlot.
type PlotOption func(*plotOptions)

// WithTickCounts sets the number of grid intervals on each axis.
func WithTickCounts(tickCountX, tickCountY int) PlotOption {
	return func(o *plotOptions) {
		o.tickCountX = tickCountX
		o.tickCountY = tickCountY
	}
}

// WithTracerOptions sets options on the Tracer used by NewPlot.
func WithTracerOptions(tracerOptions ...TracerOption) PlotOption {
	return func(o *plotOptions) {
		o.tracerOptions = append(o.tracerOptions, tracerOptions...)
	}
}

// NewPlot lays out the grid for viewport and extent and then traces
// evaluator. Configuration errors are returned before evaluator is called.
// A function with no valid samples yields a Plot with a grid and no
// segments.
func NewPlot(evaluator Evaluator, viewport Viewport, extent Extent, options ...PlotOption) (*Plot, error) {
	o := plotOptions{
		tickCountX: DefaultTickCount,
		tickCountY: DefaultTickCount,
	}
	for _, option := range options {
		option(&o)
	}

	tracer, err := NewTracer(viewport, extent, o.tracerOptions...)
	if err != nil {
		return nil, err
	}
	grid, err := tracer.Mapper().Grid(o.tickCountX, o.tickCountY)
	if err != nil {
		return nil, err
	}
	segments, stats := tracer.TraceStats(evaluator)
	return &Plot{
		Viewport: viewport,
		Extent:   extent,
		Grid:     grid,
		Segments: segments,
		Stats:    stats,
	}, nil
}
