package funcplot_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/go-funcplot"
)

func assertClose(tb testing.TB, expected, actual, tolerance float64) {
	tb.Helper()
	assert.True(tb, math.Abs(expected-actual) <= tolerance, "expected %v, got %v", expected, actual)
}

func TestNewMapper_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name     string
		viewport funcplot.Viewport
		extent   funcplot.Extent
	}{
		{
			name:     "empty_x_range",
			viewport: funcplot.Viewport{XMin: 1, XMax: 1, YMin: -1, YMax: 1},
			extent:   funcplot.Extent{Width: 10, Height: 10},
		},
		{
			name:     "reversed_y_range",
			viewport: funcplot.Viewport{XMin: -1, XMax: 1, YMin: 1, YMax: -1},
			extent:   funcplot.Extent{Width: 10, Height: 10},
		},
		{
			name:     "nan_bound",
			viewport: funcplot.Viewport{XMin: math.NaN(), XMax: 1, YMin: -1, YMax: 1},
			extent:   funcplot.Extent{Width: 10, Height: 10},
		},
		{
			name:     "infinite_bound",
			viewport: funcplot.Viewport{XMin: -1, XMax: 1, YMin: -1, YMax: math.Inf(1)},
			extent:   funcplot.Extent{Width: 10, Height: 10},
		},
		{
			name:     "zero_width",
			viewport: funcplot.Viewport{XMin: -1, XMax: 1, YMin: -1, YMax: 1},
			extent:   funcplot.Extent{Width: 0, Height: 10},
		},
		{
			name:     "negative_height",
			viewport: funcplot.Viewport{XMin: -1, XMax: 1, YMin: -1, YMax: 1},
			extent:   funcplot.Extent{Width: 10, Height: -1},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := funcplot.NewMapper(tc.viewport, tc.extent)
			assert.IsError(t, err, funcplot.ErrConfiguration)
		})
	}
}

func TestMapper_ToRaster(t *testing.T) {
	mapper, err := funcplot.NewMapper(
		funcplot.Viewport{XMin: -10, XMax: 10, YMin: -10, YMax: 10},
		funcplot.Extent{Width: 600, Height: 400},
	)
	assert.NoError(t, err)

	for _, tc := range []struct {
		x, y     float64
		expected funcplot.Point
	}{
		{x: -10, y: -10, expected: funcplot.Point{X: 0, Y: 400}},
		{x: 10, y: 10, expected: funcplot.Point{X: 600, Y: 0}},
		{x: 0, y: 0, expected: funcplot.Point{X: 300, Y: 200}},
		{x: 5, y: -5, expected: funcplot.Point{X: 450, Y: 300}},
		{x: 20, y: 30, expected: funcplot.Point{X: 900, Y: -400}},
	} {
		assert.Equal(t, tc.expected, mapper.ToRaster(tc.x, tc.y))
	}
}

func TestMapper_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 100 {
		xMin := 200*r.Float64() - 100
		yMin := 200*r.Float64() - 100
		viewport := funcplot.Viewport{
			XMin: xMin,
			XMax: xMin + 1e-3 + 100*r.Float64(),
			YMin: yMin,
			YMax: yMin + 1e-3 + 100*r.Float64(),
		}
		extent := funcplot.Extent{
			Width:  1 + r.IntN(2000),
			Height: 1 + r.IntN(2000),
		}
		mapper, err := funcplot.NewMapper(viewport, extent)
		assert.NoError(t, err)
		for range 10 {
			x := viewport.XMin + r.Float64()*(viewport.XMax-viewport.XMin)
			y := viewport.YMin + r.Float64()*(viewport.YMax-viewport.YMin)
			actualX, actualY := mapper.ToMath(mapper.ToRaster(x, y))
			assertClose(t, x, actualX, 1e-9)
			assertClose(t, y, actualY, 1e-9)
		}
	}
}

func TestMapper_Monotonic(t *testing.T) {
	mapper, err := funcplot.NewMapper(
		funcplot.Viewport{XMin: -3, XMax: 7, YMin: -0.5, YMax: 0.25},
		funcplot.Extent{Width: 320, Height: 240},
	)
	assert.NoError(t, err)

	prev := mapper.ToRaster(-3, -0.5)
	for i := 1; i <= 1000; i++ {
		x := -3 + float64(i)/100
		y := -0.5 + float64(i)*0.00075
		p := mapper.ToRaster(x, y)
		assert.True(t, p.X >= prev.X, "x pixel decreased at %v", x)
		assert.True(t, p.Y <= prev.Y, "y pixel increased at %v", y)
		prev = p
	}
}
