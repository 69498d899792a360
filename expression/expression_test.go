package expression_test

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/go-funcplot"
	"github.com/twpayne/go-funcplot/expression"
)

var _ funcplot.Evaluator = &expression.Expression{}

func TestCompile_Evaluate(t *testing.T) {
	for _, tc := range []struct {
		source   string
		x        float64
		expected float64
	}{
		{source: "x", x: 3, expected: 3},
		{source: "  2*x + 1 ", x: 3, expected: 7},
		{source: "x^2", x: 3, expected: 9},
		{source: "x**3", x: 2, expected: 8},
		{source: "1/x", x: 4, expected: 0.25},
		{source: "sqrt(x)", x: 9, expected: 3},
		{source: "sqrt(16)", x: 0, expected: 4},
		{source: "sin(pi/2)", x: 0, expected: 1},
		{source: "log(e)", x: 0, expected: 1},
		{source: "pow(x, 0.5)", x: 4, expected: 2},
		{source: "atan2(1, 1) * 4", x: 0, expected: math.Pi},
		{source: "sign(x)", x: -2, expected: -1},
		{source: "abs(x)", x: -2, expected: 2},
		{source: "2", x: 5, expected: 2},
	} {
		t.Run(tc.source, func(t *testing.T) {
			e, err := expression.Compile(tc.source)
			assert.NoError(t, err)
			actual, err := e.Evaluate(tc.x)
			assert.NoError(t, err)
			assert.True(t, math.Abs(tc.expected-actual) < 1e-12, "expected %v, got %v", tc.expected, actual)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := expression.Compile("   ")
	assert.IsError(t, err, expression.ErrEmpty)

	for _, source := range []string{
		"2 +",
		"y",
		"sin(",
	} {
		_, err := expression.Compile(source)
		assert.Error(t, err)
	}
}

func TestEvaluate_NonFinite(t *testing.T) {
	for _, tc := range []struct {
		source string
		x      float64
	}{
		{source: "1/x", x: 0},
		{source: "sqrt(x)", x: -1},
		{source: "log(x)", x: 0},
	} {
		e, err := expression.Compile(tc.source)
		assert.NoError(t, err)
		actual, err := e.Evaluate(tc.x)
		assert.NoError(t, err)
		assert.True(t, math.IsNaN(actual) || math.IsInf(actual, 0))
	}
}

func TestEvaluate_NotNumber(t *testing.T) {
	e, err := expression.Compile("x > 0")
	assert.NoError(t, err)
	_, err = e.Evaluate(1)
	assert.IsError(t, err, expression.ErrNotNumber)
}

func TestExpression_Trace(t *testing.T) {
	e, err := expression.Compile("sqrt(x)")
	assert.NoError(t, err)
	assert.Equal(t, "sqrt(x)", e.String())
	segments, err := funcplot.Trace(
		e,
		funcplot.Viewport{XMin: -10, XMax: 10, YMin: -10, YMax: 10},
		funcplot.Extent{Width: 600, Height: 400},
		0,
	)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(segments))
}
