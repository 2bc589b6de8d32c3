// Package strings provides the text functions of the standard environment.
// Positions and lengths count characters, not bytes.
package strings

import (
	"fmt"
	"strings"

	"github.com/prosuite/evaluation/object"
)

func optionalString(name string, v object.Value) (string, bool, error) {
	if v.IsNull() {
		return "", false, nil
	}
	s, ok := v.Str()
	if !ok {
		return "", false, fmt.Errorf("%s: expected a string (%s given)", name, v.Type())
	}
	return s, true, nil
}

// Trim removes leading and trailing white space. With a second argument it
// removes the given characters instead; a null or empty set of characters
// means white space.
func Trim(args ...object.Value) (object.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return object.Null, fmt.Errorf("TRIM: expected 1 or 2 arguments, got %d", len(args))
	}
	cutset := ""
	if len(args) == 2 {
		var err error
		if cutset, _, err = optionalString("TRIM", args[1]); err != nil {
			return object.Null, err
		}
	}
	s, ok, err := optionalString("TRIM", args[0])
	if err != nil || !ok {
		return object.Null, err
	}
	if cutset == "" {
		return object.NewString(strings.TrimSpace(s)), nil
	}
	return object.NewString(strings.Trim(s, cutset)), nil
}

func casing(name string, fn func(string) string) object.BuiltinFunction {
	return func(args ...object.Value) (object.Value, error) {
		if len(args) != 1 {
			return object.Null, fmt.Errorf("%s: expected 1 argument, got %d", name, len(args))
		}
		s, ok, err := optionalString(name, args[0])
		if err != nil || !ok {
			return object.Null, err
		}
		return object.NewString(fn(s)), nil
	}
}

// Upper converts a string to upper case.
var Upper = casing("UCASE", strings.ToUpper)

// Lower converts a string to lower case.
var Lower = casing("LCASE", strings.ToLower)

func pad(name string, left bool) object.BuiltinFunction {
	return func(args ...object.Value) (object.Value, error) {
		if len(args) < 2 || len(args) > 3 {
			return object.Null, fmt.Errorf("%s: expected 2 or 3 arguments, got %d", name, len(args))
		}
		if args[0].IsNull() {
			return object.Null, nil
		}
		width := 0
		if !args[1].IsNull() {
			if !args[1].IsNumber() {
				return object.Null, fmt.Errorf("%s: width must be a number (%s given)", name, args[1].Type())
			}
			var err error
			if width, err = object.AsInt(args[1]); err != nil {
				return object.Null, err
			}
		}
		if width < 0 {
			return object.Null, fmt.Errorf("%s: width must not be negative, got %d", name, width)
		}
		padding := " "
		if len(args) == 3 {
			s, _, err := optionalString(name, args[2])
			if err != nil {
				return object.Null, err
			}
			if s != "" {
				padding = string([]rune(s)[:1])
			}
		}
		text := args[0].String()
		n := width - len([]rune(text))
		if n <= 0 {
			return object.NewString(text), nil
		}
		if left {
			return object.NewString(strings.Repeat(padding, n) + text), nil
		}
		return object.NewString(text + strings.Repeat(padding, n)), nil
	}
}

// PadLeft right-aligns the display form of a value in a field of the given
// width, filling with the first character of the optional pad string or
// with blanks.
var PadLeft = pad("LPAD", true)

// PadRight left-aligns the display form of a value in a field of the given
// width, filling with the first character of the optional pad string or
// with blanks.
var PadRight = pad("RPAD", false)

// Substring returns the part of text starting at a zero-based index, up to
// an optional length. Out of range positions are clipped, never an error.
func Substring(args ...object.Value) (object.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return object.Null, fmt.Errorf("SUBSTR: expected 2 or 3 arguments, got %d", len(args))
	}
	text, ok, err := optionalString("SUBSTR", args[0])
	if err != nil {
		return object.Null, err
	}
	if !ok || args[1].IsNull() {
		return object.Null, nil
	}
	start, err := object.AsInt(args[1])
	if err != nil {
		return object.Null, err
	}
	runes := []rune(text)
	if len(args) == 2 || args[2].IsNull() {
		if start < 0 {
			start = 0
		}
		if start >= len(runes) {
			return object.Empty, nil
		}
		return object.NewString(string(runes[start:])), nil
	}
	count, err := object.AsInt(args[2])
	if err != nil {
		return object.Null, err
	}
	if start < 0 {
		count += start
		start = 0
	}
	if start >= len(runes) || count < 1 {
		return object.Empty, nil
	}
	if start+count >= len(runes) {
		count = len(runes) - start
	}
	return object.NewString(string(runes[start : start+count])), nil
}

// Concat joins the display forms of its arguments. Null contributes
// nothing.
func Concat(args ...object.Value) (object.Value, error) {
	var sb strings.Builder
	for _, arg := range args {
		sb.WriteString(arg.String())
	}
	return object.NewString(sb.String()), nil
}

// Length returns the number of characters in a string.
func Length(args ...object.Value) (object.Value, error) {
	if len(args) != 1 {
		return object.Null, fmt.Errorf("LENGTH: expected 1 argument, got %d", len(args))
	}
	s, ok, err := optionalString("LENGTH", args[0])
	if err != nil || !ok {
		return object.Null, err
	}
	return object.NewNumber(float64(len([]rune(s)))), nil
}

// Builtins returns the functions of this package for registration in an
// environment.
func Builtins() []*object.Builtin {
	return []*object.Builtin{
		object.NewBuiltin("TRIM", 1, Trim),
		object.NewBuiltin("TRIM", 2, Trim),
		object.NewBuiltin("UCASE", 1, Upper),
		object.NewBuiltin("LCASE", 1, Lower),
		object.NewBuiltin("LPAD", 2, PadLeft),
		object.NewBuiltin("LPAD", 3, PadLeft),
		object.NewBuiltin("RPAD", 2, PadRight),
		object.NewBuiltin("RPAD", 3, PadRight),
		object.NewBuiltin("SUBSTR", 2, Substring),
		object.NewBuiltin("SUBSTR", 3, Substring),
		object.NewBuiltin("CONCAT", 1, Concat),
		object.NewBuiltin("CONCAT", 2, Concat),
		object.NewBuiltin("CONCAT", object.Variadic, Concat),
		object.NewBuiltin("LENGTH", 1, Length),
	}
}
