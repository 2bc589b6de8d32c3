// Package math provides the numeric functions of the standard environment.
package math

import (
	"fmt"
	"math"

	"github.com/prosuite/evaluation/object"
)

func unary(name string, fn func(float64) float64) object.BuiltinFunction {
	return func(args ...object.Value) (object.Value, error) {
		if len(args) != 1 {
			return object.Null, fmt.Errorf("%s: expected 1 argument, got %d", name, len(args))
		}
		if args[0].IsNull() {
			return object.Null, nil
		}
		x, ok := args[0].Number()
		if !ok {
			return object.Null, fmt.Errorf("%s: invalid argument type: %s", name, args[0].Type())
		}
		return object.NewNumber(fn(x)), nil
	}
}

// Abs returns the absolute value of a number.
var Abs = unary("ABS", math.Abs)

// Ceil returns the least integer value greater than or equal to a number.
var Ceil = unary("CEIL", math.Ceil)

// Floor returns the greatest integer value less than or equal to a number.
var Floor = unary("FLOOR", math.Floor)

// Trunc returns the integer part of a number.
var Trunc = unary("TRUNC", math.Trunc)

// Round rounds a number to the nearest integer, or to the given number of
// fractional digits. Halves round to the nearest even digit. Null digits
// means zero digits.
func Round(args ...object.Value) (object.Value, error) {
	switch len(args) {
	case 1:
		return unary("ROUND", math.RoundToEven)(args...)
	case 2:
	default:
		return object.Null, fmt.Errorf("ROUND: expected 1 or 2 arguments, got %d", len(args))
	}
	value, digits := args[0], args[1]
	if value.IsNull() {
		return object.Null, nil
	}
	if digits.IsNull() {
		digits = object.Zero
	}
	x, ok := value.Number()
	if !ok || !digits.IsNumber() {
		return object.Null, fmt.Errorf("ROUND: invalid argument types: %s and %s", value.Type(), digits.Type())
	}
	n, err := object.AsInt(digits)
	if err != nil {
		return object.Null, err
	}
	if n < 0 || n > 15 {
		return object.Null, fmt.Errorf("ROUND: digits must be between 0 and 15, got %d", n)
	}
	return object.NewNumber(roundDigits(x, n)), nil
}

func roundDigits(x float64, digits int) float64 {
	if digits == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return math.RoundToEven(x)
	}
	scale := math.Pow10(digits)
	scaled := x * scale
	if math.IsInf(scaled, 0) {
		return x
	}
	return math.RoundToEven(scaled) / scale
}

// Comparer orders a and b; ok is false if they are incomparable.
type Comparer func(a, b object.Value) (order int, ok bool)

func extremum(compare Comparer, want int) object.BuiltinFunction {
	return func(args ...object.Value) (object.Value, error) {
		if len(args) == 0 {
			return object.Null, nil
		}
		result := args[0]
		for _, next := range args[1:] {
			order, ok := compare(next, result)
			if !ok {
				return object.Null, nil
			}
			if order == want {
				result = next
			}
		}
		return result, nil
	}
}

// Min returns the least of its arguments, or null if any two of them are
// incomparable.
var Min = extremum(object.Compare, -1)

// Max returns the greatest of its arguments, or null if any two of them
// are incomparable.
var Max = extremum(object.Compare, 1)

// Builtins returns the functions of this package for registration in an
// environment.
func Builtins() []*object.Builtin {
	return BuiltinsWith(object.Compare)
}

// BuiltinsWith is Builtins with MIN and MAX ordering their arguments by
// compare.
func BuiltinsWith(compare Comparer) []*object.Builtin {
	return []*object.Builtin{
		object.NewBuiltin("ABS", 1, Abs),
		object.NewBuiltin("CEIL", 1, Ceil),
		object.NewBuiltin("FLOOR", 1, Floor),
		object.NewBuiltin("ROUND", 1, Round),
		object.NewBuiltin("ROUND", 2, Round),
		object.NewBuiltin("TRUNC", 1, Trunc),
		object.NewBuiltin("MIN", object.Variadic, extremum(compare, -1)),
		object.NewBuiltin("MAX", object.Variadic, extremum(compare, 1)),
	}
}
