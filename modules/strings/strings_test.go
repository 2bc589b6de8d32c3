package strings

import (
	"testing"

	"github.com/prosuite/evaluation/object"
	"github.com/stretchr/testify/require"
)

func str(s string) object.Value  { return object.NewString(s) }
func num(f float64) object.Value { return object.NewNumber(f) }

func TestStringFunctions(t *testing.T) {
	tests := []struct {
		name     string
		fn       object.BuiltinFunction
		args     []object.Value
		expected object.Value
	}{
		{"trim", Trim, []object.Value{str(" \t foo \n")}, str("foo")},
		{"trim null", Trim, []object.Value{object.Null}, object.Null},
		{"trim chars", Trim, []object.Value{str("xxfooyx"), str("xy")}, str("foo")},
		{"trim empty chars", Trim, []object.Value{str("  foo "), str("")}, str("foo")},
		{"trim null chars", Trim, []object.Value{str("  foo "), object.Null}, str("foo")},
		{"ucase", Upper, []object.Value{str("Hello")}, str("HELLO")},
		{"ucase null", Upper, []object.Value{object.Null}, object.Null},
		{"lcase", Lower, []object.Value{str("Hello")}, str("hello")},
		{"lpad", PadLeft, []object.Value{num(42), num(5)}, str("   42")},
		{"lpad char", PadLeft, []object.Value{num(42), num(5), str("0")}, str("00042")},
		{"lpad first char", PadLeft, []object.Value{str("a"), num(3), str("xy")}, str("xxa")},
		{"lpad narrow", PadLeft, []object.Value{str("abcdef"), num(3)}, str("abcdef")},
		{"lpad null width", PadLeft, []object.Value{str("abc"), object.Null}, str("abc")},
		{"lpad null", PadLeft, []object.Value{object.Null, num(3)}, object.Null},
		{"rpad", PadRight, []object.Value{str("ab"), num(4)}, str("ab  ")},
		{"rpad empty pad", PadRight, []object.Value{str("ab"), num(4), str("")}, str("ab  ")},
		{"rpad bool", PadRight, []object.Value{object.True, num(6), str(".")}, str("true..")},
		{"substr", Substring, []object.Value{str("Hello"), num(1)}, str("ello")},
		{"substr negative", Substring, []object.Value{str("Hello"), num(-3)}, str("Hello")},
		{"substr past end", Substring, []object.Value{str("Hello"), num(5)}, str("")},
		{"substr count", Substring, []object.Value{str("Hello"), num(1), num(3)}, str("ell")},
		{"substr count clipped", Substring, []object.Value{str("Hello"), num(3), num(10)}, str("lo")},
		{"substr negative start", Substring, []object.Value{str("Hello"), num(-2), num(4)}, str("He")},
		{"substr negative count", Substring, []object.Value{str("Hello"), num(1), num(-1)}, str("")},
		{"substr null count", Substring, []object.Value{str("Hello"), num(2), object.Null}, str("llo")},
		{"substr null text", Substring, []object.Value{object.Null, num(2)}, object.Null},
		{"substr null index", Substring, []object.Value{str("Hello"), object.Null, num(2)}, object.Null},
		{"substr runes", Substring, []object.Value{str("Zürich"), num(1), num(2)}, str("ür")},
		{"concat", Concat, []object.Value{str("a"), object.Null, num(1.5), object.False}, str("a1.5false")},
		{"concat one", Concat, []object.Value{object.Null}, str("")},
		{"concat none", Concat, nil, str("")},
		{"length", Length, []object.Value{str("Zürich")}, num(6)},
		{"length empty", Length, []object.Value{str("")}, num(0)},
		{"length null", Length, []object.Value{object.Null}, object.Null},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.fn(tt.args...)
			require.Nil(t, err)
			require.Equal(t, tt.expected, result)
		})
	}
}

func TestStringFunctionErrors(t *testing.T) {
	_, err := Upper(num(1))
	require.EqualError(t, err, "UCASE: expected a string (number given)")
	_, err = Length(object.True)
	require.EqualError(t, err, "LENGTH: expected a string (boolean given)")
	_, err = PadLeft(str("x"), num(-1))
	require.EqualError(t, err, "LPAD: width must not be negative, got -1")
	_, err = PadRight(str("x"), str("wide"))
	require.Error(t, err)
	_, err = Substring(num(12), num(1))
	require.Error(t, err)
	_, err = Trim()
	require.Error(t, err)
}

func TestBuiltins(t *testing.T) {
	keys := map[string]bool{}
	for _, b := range Builtins() {
		keys[b.Key()] = true
	}
	require.Len(t, keys, 14)
	require.True(t, keys["CONCAT/*"])
	require.True(t, keys["SUBSTR/3"])
}
