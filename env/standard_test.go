package env

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/prosuite/evaluation/errz"
	"github.com/prosuite/evaluation/object"
	"github.com/stretchr/testify/require"
)

func TestLookupValues(t *testing.T) {
	s := NewStandard()
	s.DefineValue("Answer", 42)
	v, err := s.Lookup("answer", "")
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(42), v)

	s.ForgetValue("ANSWER")
	_, err = s.Lookup("answer", "")
	require.EqualError(t, err, "No such field or function: answer")
	kind, ok := errz.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrLookup, kind)
}

func TestComparer(t *testing.T) {
	reversed := func(a, b object.Value) (int, bool) {
		order, ok := object.Compare(a, b)
		return -order, ok
	}
	s := NewStandard(WithComparer(reversed))

	order, ok := s.Compare(object.NewNumber(1), object.NewNumber(2))
	require.True(t, ok)
	require.Equal(t, 1, order)

	function := func(s *Standard, name string) object.Function {
		v, err := s.Lookup(name, "")
		require.Nil(t, err)
		fn, ok := v.Function()
		require.True(t, ok)
		return fn
	}
	one, two, three := object.NewNumber(1), object.NewNumber(2), object.NewNumber(3)

	v, err := s.Invoke(function(s, "MIN"), one, three, two)
	require.Nil(t, err)
	require.Equal(t, three, v)

	v, err = s.Invoke(function(s, "max"), one, three, two)
	require.Nil(t, err)
	require.Equal(t, one, v)

	standard := NewStandard()
	v, err = standard.Invoke(function(standard, "MIN"), one, three)
	require.Nil(t, err)
	require.Equal(t, one, v)
}

func TestLookupFunction(t *testing.T) {
	s := NewStandard()
	v, err := s.Lookup("concat", "")
	require.Nil(t, err)
	fn, ok := v.Function()
	require.True(t, ok)
	require.Equal(t, "CONCAT", fn.Name())
}

func TestLookupValueBeforeFunction(t *testing.T) {
	s := NewStandard().DefineValue("ABS", "shadowed")
	v, err := s.Lookup("ABS", "")
	require.Nil(t, err)
	require.Equal(t, object.NewString("shadowed"), v)
}

func TestLookupFields(t *testing.T) {
	input := RecordOf(map[string]any{"Foo": 1, "Bar": "input"})
	other := RecordOf(map[string]any{"Foo": 2, "Baz": true})
	s := NewStandard().DefineFields(input, "input").DefineFields(other, "other")

	v, err := s.Lookup("Bar", "")
	require.Nil(t, err)
	require.Equal(t, object.NewString("input"), v)

	v, err = s.Lookup("foo", "OTHER")
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(2), v)

	_, err = s.Lookup("Foo", "")
	require.EqualError(t, err, "Field name 'Foo' is not unique; use a qualified name")

	_, err = s.Lookup("Baz", "input")
	require.EqualError(t, err, "No such field: input.Baz")

	_, err = s.Lookup("Baz", "nope")
	require.EqualError(t, err, "No such field: nope.Baz")

	row, ok := s.Fields("OTHER")
	require.True(t, ok)
	require.Same(t, other, row)
	_, ok = s.Fields("")
	require.False(t, ok)

	s.ForgetFields("other")
	v, err = s.Lookup("Foo", "")
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(1), v)

	s.ForgetAll()
	_, err = s.Lookup("Foo", "")
	require.Error(t, err)
}

func TestCaseSensitive(t *testing.T) {
	s := NewStandard(WithCaseSensitive())
	require.True(t, s.CaseSensitive())
	s.DefineValue("Env", "TheEnv")
	_, err := s.Lookup("env", "")
	require.Error(t, err)
	v, err := s.Lookup("Env", "")
	require.Nil(t, err)
	require.Equal(t, object.NewString("TheEnv"), v)

	_, err = s.Invoke(object.Function{}, object.Null)
	require.Error(t, err)
	fn, err := s.Lookup("ABS", "")
	require.Nil(t, err)
	f, _ := fn.Function()
	v, err = s.Invoke(f, object.NewNumber(-1))
	require.Nil(t, err)
	require.Equal(t, object.Unit, v)

	_, err = s.Lookup("abs", "")
	require.Error(t, err)
}

func lookupFunction(t *testing.T, s *Standard, name string) object.Function {
	t.Helper()
	v, err := s.Lookup(name, "")
	require.Nil(t, err)
	fn, ok := v.Function()
	require.True(t, ok)
	return fn
}

func TestInvokeArity(t *testing.T) {
	s := NewStandard()
	s.Register0("foo", func() (object.Value, error) { return object.NewString("foo"), nil })
	s.Register1("id", func(a object.Value) (object.Value, error) { return a, nil })
	s.Register2("two", func(a, b object.Value) (object.Value, error) { return object.NewString("fixed"), nil })
	s.RegisterVariadic("two", func(args []object.Value) (object.Value, error) {
		return object.NewNumber(float64(len(args))), nil
	})

	v, err := s.Invoke(lookupFunction(t, s, "FOO"))
	require.Nil(t, err)
	require.Equal(t, object.NewString("foo"), v)

	v, err = s.Invoke(lookupFunction(t, s, "id"), object.NewNumber(42))
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(42), v)

	two := lookupFunction(t, s, "two")
	v, err = s.Invoke(two, object.Null, object.Null)
	require.Nil(t, err)
	require.Equal(t, object.NewString("fixed"), v)
	v, err = s.Invoke(two, object.Null, object.Null, object.Null)
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(3), v)

	_, err = s.Invoke(lookupFunction(t, s, "id"))
	require.EqualError(t, err, "No such function: id/0")
	kind, _ := errz.KindOf(err)
	require.Equal(t, errz.ErrInvocation, kind)
}

func TestRegisterReplaces(t *testing.T) {
	s := NewStandard()
	s.Register3("f", func(a, b, c object.Value) (object.Value, error) { return object.Unit, nil })
	s.Register3("F", func(a, b, c object.Value) (object.Value, error) { return object.Zero, nil })
	v, err := s.Invoke(lookupFunction(t, s, "f"), object.Null, object.Null, object.Null)
	require.Nil(t, err)
	require.Equal(t, object.Zero, v)
}

func TestInvokeError(t *testing.T) {
	boom := errors.New("boom")
	s := NewStandard()
	s.Register4("bomb", func(a, b, c, d object.Value) (object.Value, error) { return object.Null, boom })
	_, err := s.Invoke(lookupFunction(t, s, "bomb"), object.Null, object.Null, object.Null, object.Null)
	require.ErrorIs(t, err, boom)
}

func TestStandardFunctions(t *testing.T) {
	s := NewStandard(WithRandom(rand.New(rand.NewSource(1))))
	functions := s.Functions()
	for _, key := range []string{
		"ABS/1", "CEIL/1", "FLOOR/1", "ROUND/1", "ROUND/2", "TRUNC/1",
		"RAND/0", "RAND/1", "RAND/2", "RANDPICK/*", "MIN/*", "MAX/*",
		"TRIM/1", "TRIM/2", "UCASE/1", "LCASE/1", "LPAD/2", "LPAD/3", "RPAD/2", "RPAD/3",
		"SUBSTR/2", "SUBSTR/3", "CONCAT/1", "CONCAT/2", "CONCAT/*", "LENGTH/1",
		"DECODE/*", "WHEN/*", "REGEX/2", "REGEX/3",
	} {
		require.Contains(t, functions, key)
	}
	require.IsNonDecreasing(t, functions)

	v, err := s.Invoke(lookupFunction(t, s, "concat"), object.NewString("a"), object.Null, object.NewString("b"))
	require.Nil(t, err)
	require.Equal(t, object.NewString("ab"), v)

	v, err = s.Invoke(lookupFunction(t, s, "rand"), object.NewNumber(10))
	require.Nil(t, err)
	f, ok := v.Number()
	require.True(t, ok)
	require.True(t, f >= 0 && f < 10)
}

func TestEmpty(t *testing.T) {
	e := Empty()
	_, err := e.Lookup("x", "")
	require.EqualError(t, err, "No such field or function: x")
	_, err = e.Lookup("x", "q")
	require.EqualError(t, err, "No such field: q.x")
	_, err = e.Invoke(object.Function{}, object.Null)
	require.Error(t, err)
	v, err := e.Add(object.NewNumber(1), object.NewNumber(2))
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(3), v)
	order, ok := e.Compare(object.NewNumber(1), object.NewNumber(2))
	require.True(t, ok)
	require.Equal(t, -1, order)
}
