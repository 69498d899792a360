// Package expression compiles textual formulas in the variable x into
// evaluators for github.com/twpayne/go-funcplot.
package expression

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	ErrEmpty     = errors.New("empty expression")
	ErrNotNumber = errors.New("not a number")
)

// unaryFunctions are the one-argument functions available in expressions.
// abs, ceil, floor, round, max, and min are expr builtins.
var unaryFunctions = map[string]func(float64) float64{
	"acos":  math.Acos,
	"asin":  math.Asin,
	"atan":  math.Atan,
	"cbrt":  math.Cbrt,
	"cos":   math.Cos,
	"cosh":  math.Cosh,
	"exp":   math.Exp,
	"log":   math.Log,
	"log10": math.Log10,
	"log2":  math.Log2,
	"sign":  sign,
	"sin":   math.Sin,
	"sinh":  math.Sinh,
	"sqrt":  math.Sqrt,
	"tan":   math.Tan,
	"tanh":  math.Tanh,
}

// binaryFunctions are the two-argument functions available in expressions.
var binaryFunctions = map[string]func(float64, float64) float64{
	"atan2": math.Atan2,
	"pow":   math.Pow,
}

// An Expression is a compiled formula. It is safe for concurrent use.
type Expression struct {
	source  string
	program *vm.Program
}

// Compile compiles source. The only variable is x; the constants pi and e
// are predefined.
func Compile(source string) (*Expression, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmpty
	}
	options := []expr.Option{
		expr.Env(newEnv(0)),
	}
	for name, f := range unaryFunctions {
		options = append(options, expr.Function(name, func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("%s: expected 1 argument, got %d", name, len(params))
			}
			x, err := toFloat(params[0])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return f(x), nil
		}))
	}
	for name, f := range binaryFunctions {
		options = append(options, expr.Function(name, func(params ...any) (any, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(params))
			}
			x, err := toFloat(params[0])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			y, err := toFloat(params[1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return f(x, y), nil
		}))
	}
	program, err := expr.Compile(source, options...)
	if err != nil {
		return nil, fmt.Errorf("parsing equation: %w", err)
	}
	return &Expression{
		source:  source,
		program: program,
	}, nil
}

// Evaluate implements funcplot.Evaluator.
func (e *Expression) Evaluate(x float64) (float64, error) {
	output, err := expr.Run(e.program, newEnv(x))
	if err != nil {
		return math.NaN(), err
	}
	return toFloat(output)
}

// String returns the trimmed source of e.
func (e *Expression) String() string {
	return e.source
}

func newEnv(x float64) map[string]any {
	return map[string]any{
		"x":  x,
		"pi": math.Pi,
		"e":  math.E,
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return x
	}
}

func toFloat(value any) (float64, error) {
	switch value := value.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case int32:
		return float64(value), nil
	case uint:
		return float64(value), nil
	case uint64:
		return float64(value), nil
	default:
		return math.NaN(), fmt.Errorf("%v: %w", value, ErrNotNumber)
	}
}
