package object

import (
	"math"

	"github.com/prosuite/evaluation/errz"
)

func AsNumber(v Value) (float64, error) {
	f, ok := v.Number()
	if !ok {
		return 0, errz.TypeErrorf("type error: expected a number (%s given)", v.Type())
	}
	return f, nil
}

func AsString(v Value) (string, error) {
	s, ok := v.Str()
	if !ok {
		return "", errz.TypeErrorf("type error: expected a string (%s given)", v.Type())
	}
	return s, nil
}

// AsInt converts a number to an int, rounding half to even.
func AsInt(v Value) (int, error) {
	f, err := AsNumber(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, errz.TypeErrorf("type error: number %s out of integer range", FormatNumber(f))
	}
	return int(math.RoundToEven(f)), nil
}
