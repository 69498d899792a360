package funcplot

import (
	"errors"
	"fmt"
	"math"
)

const (
	defaultBuffer          = 10
	defaultSamplesPerPixel = 2
)

var (
	// ErrNotFinite is the error of a sample whose value is NaN or infinite.
	ErrNotFinite = errors.New("not a finite number")

	// ErrPanic is wrapped by the error of a sample whose evaluation panicked.
	ErrPanic = errors.New("evaluator panicked")
)

// An Evaluator evaluates a function of one real variable. It must not retain
// state between calls. Any error or non-finite result marks the sample as
// invalid.
type Evaluator interface {
	Evaluate(x float64) (float64, error)
}

// An EvaluatorFunc is an Evaluator that cannot return an error.
type EvaluatorFunc func(x float64) float64

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(x float64) (float64, error) {
	return f(x), nil
}

// A Sample is the outcome of evaluating the function at X. Err is nil if and
// only if Y is a finite number.
type Sample struct {
	X   float64
	Y   float64
	Err error
}

// Valid returns true if s holds a finite value.
func (s Sample) Valid() bool {
	return s.Err == nil
}

// Stats counts sample outcomes in a trace.
type Stats struct {
	Samples  int
	Invalid  int
	OffRange int
	Segments int
}

// A Tracer samples functions across a viewport at a fixed rate and converts
// the samples into segments.
type Tracer struct {
	mapper      *Mapper
	sampleCount int
	buffer      float64
}

// A TracerOption sets an option on a Tracer.
type TracerOption func(*Tracer)

// WithSampleCount sets the number of equal steps across the viewport.
// sampleCount+1 samples are taken, both ends included. Zero selects two steps
// per pixel column.
func WithSampleCount(sampleCount int) TracerOption {
	return func(t *Tracer) {
		t.sampleCount = sampleCount
	}
}

// WithBuffer sets how many pixels above and below the extent a sample may lie
// and still be drawn.
func WithBuffer(buffer float64) TracerOption {
	return func(t *Tracer) {
		t.buffer = buffer
	}
}

// NewTracer returns a new Tracer with the given options.
func NewTracer(viewport Viewport, extent Extent, options ...TracerOption) (*Tracer, error) {
	mapper, err := NewMapper(viewport, extent)
	if err != nil {
		return nil, err
	}
	t := &Tracer{
		mapper: mapper,
		buffer: defaultBuffer,
	}
	for _, option := range options {
		option(t)
	}
	switch {
	case t.sampleCount < 0:
		return nil, &ConfigurationError{Field: "sampleCount", Value: t.sampleCount, Reason: "must not be negative"}
	case t.sampleCount == 0:
		t.sampleCount = defaultSamplesPerPixel * extent.Width
	}
	if t.buffer < 0 || math.IsNaN(t.buffer) || math.IsInf(t.buffer, 0) {
		return nil, &ConfigurationError{Field: "buffer", Value: t.buffer, Reason: "must be a finite non-negative number"}
	}
	return t, nil
}

// SampleCount returns the number of steps t takes across the viewport.
func (t *Tracer) SampleCount() int {
	return t.sampleCount
}

// Mapper returns t's mapper.
func (t *Tracer) Mapper() *Mapper {
	return t.mapper
}

// Samples evaluates evaluator at every sample position.
func (t *Tracer) Samples(evaluator Evaluator) []Sample {
	viewport := t.mapper.viewport
	dx := (viewport.XMax - viewport.XMin) / float64(t.sampleCount)
	samples := make([]Sample, t.sampleCount+1)
	for i := range samples {
		samples[i] = evaluate(evaluator, viewport.XMin+float64(i)*dx)
	}
	return samples
}

// Trace returns the segments of evaluator's graph. It never fails: invalid
// and off-range samples only break the current segment.
func (t *Tracer) Trace(evaluator Evaluator) []Segment {
	segments, _ := t.TraceStats(evaluator)
	return segments
}

// TraceStats is like Trace but also returns counts of the sample outcomes.
func (t *Tracer) TraceStats(evaluator Evaluator) ([]Segment, Stats) {
	return t.segments(t.Samples(evaluator))
}

// segments splits samples into segments, lifting the pen at every invalid or
// off-range sample.
func (t *Tracer) segments(samples []Sample) ([]Segment, Stats) {
	var segments []Segment
	stats := Stats{
		Samples: len(samples),
	}
	minY, maxY := -t.buffer, t.mapper.height+t.buffer
	penDown := false
	for _, sample := range samples {
		if !sample.Valid() {
			stats.Invalid++
			penDown = false
			continue
		}
		point := t.mapper.ToRaster(sample.X, sample.Y)
		if point.Y < minY || maxY < point.Y {
			stats.OffRange++
			penDown = false
			continue
		}
		if penDown {
			segments[len(segments)-1] = append(segments[len(segments)-1], point)
		} else {
			segments = append(segments, Segment{point})
			penDown = true
		}
	}
	stats.Segments = len(segments)
	return segments, stats
}

// evaluate calls evaluator at x, converting errors, panics, and non-finite
// results into an invalid sample.
func evaluate(evaluator Evaluator, x float64) (sample Sample) {
	sample.X = x
	defer func() {
		if r := recover(); r != nil {
			sample.Y = math.NaN()
			sample.Err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	y, err := evaluator.Evaluate(x)
	switch {
	case err != nil:
		sample.Y = math.NaN()
		sample.Err = err
	case math.IsNaN(y) || math.IsInf(y, 0):
		sample.Y = y
		sample.Err = ErrNotFinite
	default:
		sample.Y = y
	}
	return sample
}

// Trace samples evaluator across viewport and returns the segments of its
// graph. A sampleCount of zero selects two samples per pixel column. The
// only errors returned are configuration errors.
func Trace(evaluator Evaluator, viewport Viewport, extent Extent, sampleCount int) ([]Segment, error) {
	tracer, err := NewTracer(viewport, extent, WithSampleCount(sampleCount))
	if err != nil {
		return nil, err
	}
	return tracer.Trace(evaluator), nil
}
