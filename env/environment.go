// Package env defines the environment a compiled expression is evaluated
// in: how names resolve, how functions are invoked, and what the operators
// mean.
package env

import (
	"github.com/prosuite/evaluation/errz"
	"github.com/prosuite/evaluation/object"
)

// Environment supplies name resolution, function invocation and operator
// semantics to an executing program. Embed Base to get the standard
// operator semantics.
type Environment interface {
	// Lookup resolves name, optionally qualified. An empty qualifier means
	// an unqualified name.
	Lookup(name, qualifier string) (object.Value, error)
	Invoke(fn object.Function, args ...object.Value) (object.Value, error)

	Add(a, b object.Value) (object.Value, error)
	Sub(a, b object.Value) (object.Value, error)
	Mul(a, b object.Value) (object.Value, error)
	Div(a, b object.Value) (object.Value, error)
	Rem(a, b object.Value) (object.Value, error)
	Pos(a object.Value) (object.Value, error)
	Neg(a object.Value) (object.Value, error)

	Not(a object.Value) (object.Value, error)
	And(a, b object.Value) (object.Value, error)
	Or(a, b object.Value) (object.Value, error)

	IsType(v object.Value, typeName string) (bool, error)
	IsFalse(v object.Value) bool
	IsTrue(v object.Value) bool

	// Compare orders a and b; ok is false if they are incomparable.
	Compare(a, b object.Value) (order int, ok bool)
}

// NamedValueSource is a row or record whose fields can be looked up by
// name.
type NamedValueSource interface {
	Exists(name string) bool
	GetValue(name string) object.Value
}

// Base implements the operator methods of Environment with the standard
// null-aware semantics.
type Base struct{}

func (Base) Add(a, b object.Value) (object.Value, error) { return object.Add(a, b) }
func (Base) Sub(a, b object.Value) (object.Value, error) { return object.Sub(a, b) }
func (Base) Mul(a, b object.Value) (object.Value, error) { return object.Mul(a, b) }
func (Base) Div(a, b object.Value) (object.Value, error) { return object.Div(a, b) }
func (Base) Rem(a, b object.Value) (object.Value, error) { return object.Rem(a, b) }
func (Base) Pos(a object.Value) (object.Value, error)    { return object.Pos(a) }
func (Base) Neg(a object.Value) (object.Value, error)    { return object.Neg(a) }

func (Base) Not(a object.Value) (object.Value, error)    { return object.Not(a), nil }
func (Base) And(a, b object.Value) (object.Value, error) { return object.And(a, b), nil }
func (Base) Or(a, b object.Value) (object.Value, error)  { return object.Or(a, b), nil }

func (Base) IsType(v object.Value, typeName string) (bool, error) {
	return object.IsType(v, typeName)
}

func (Base) IsFalse(v object.Value) bool { return object.IsFalse(v) }
func (Base) IsTrue(v object.Value) bool  { return object.IsTrue(v) }

func (Base) Compare(a, b object.Value) (int, bool) { return object.Compare(a, b) }

type empty struct {
	Base
}

// Empty returns an environment without any bindings: every lookup and
// every invocation fails.
func Empty() Environment {
	return empty{}
}

func (empty) Lookup(name, qualifier string) (object.Value, error) {
	if qualifier != "" {
		return object.Null, errz.LookupErrorf("No such field: %s.%s", qualifier, name)
	}
	return object.Null, errz.LookupErrorf("No such field or function: %s", name)
}

func (empty) Invoke(fn object.Function, args ...object.Value) (object.Value, error) {
	return object.Null, errz.EvaluationErrorf(errz.ErrInvocation,
		"No such function: %s", object.FunctionKey(fn.Name(), len(args)))
}
