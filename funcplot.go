// Package funcplot samples a single-variable real function over a viewport
// and lays out the geometry needed to draw its graph on a fixed-size raster:
// grid lines, tick labels, and polyline segments that break at
// discontinuities, undefined regions, and out-of-range excursions.
//
// The package does no drawing and no I/O. Every call is a pure function of
// its arguments and the supplied Evaluator.
package funcplot

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrConfiguration is matched by every error reporting an invalid Viewport,
// Extent, or option.
var ErrConfiguration = errors.New("configuration error")

// A ConfigurationError reports an invalid input detected before any sampling
// starts.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", ErrConfiguration, e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) true for every
// ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// A Viewport is a rectangle in mathematical coordinates.
type Viewport struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

// Validate returns a *ConfigurationError if v has a non-finite bound or an
// empty range on either axis.
func (v Viewport) Validate() error {
	for _, bound := range []struct {
		name  string
		value float64
	}{
		{"xMin", v.XMin},
		{"xMax", v.XMax},
		{"yMin", v.YMin},
		{"yMax", v.YMax},
	} {
		if math.IsNaN(bound.value) || math.IsInf(bound.value, 0) {
			return &ConfigurationError{Field: bound.name, Value: bound.value, Reason: "not a finite number"}
		}
	}
	if v.XMin >= v.XMax {
		return &ConfigurationError{Field: "xMin", Value: v.XMin, Reason: "must be less than xMax"}
	}
	if v.YMin >= v.YMax {
		return &ConfigurationError{Field: "yMin", Value: v.YMin, Reason: "must be less than yMax"}
	}
	return nil
}

// An Extent is the size of a raster surface in pixels.
type Extent struct {
	Width  int
	Height int
}

// Validate returns a *ConfigurationError if e has a non-positive dimension.
func (e Extent) Validate() error {
	if e.Width <= 0 {
		return &ConfigurationError{Field: "width", Value: e.Width, Reason: "must be positive"}
	}
	if e.Height <= 0 {
		return &ConfigurationError{Field: "height", Value: e.Height, Reason: "must be positive"}
	}
	return nil
}

// A Point is a position in raster space. Y grows downwards.
type Point struct {
	X float64
	Y float64
}

// A Segment is a non-empty run of points to be stroked as one continuous
// polyline.
type Segment []Point

// formatLabel formats a tick value with one digit after the decimal point,
// rounding exact halves away from zero. Negative zero is formatted as zero,
// small negative values keep their sign.
func formatLabel(value float64) string {
	if value == 0 {
		return "0.0"
	}
	magnitude := math.Abs(value)
	// The only doubles exactly halfway between two tenths are odd multiples of
	// 0.25.
	if quarters := magnitude * 4; quarters == math.Trunc(quarters) && math.Mod(quarters, 2) == 1 {
		magnitude = math.Ceil(magnitude*10) / 10
	}
	label := strconv.FormatFloat(magnitude, 'f', 1, 64)
	if value < 0 {
		return "-" + label
	}
	return label
}
