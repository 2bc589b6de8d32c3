// Package object defines the values manipulated by compiled expressions.
//
// A Value is a small tagged union: null, boolean, number, string, an opaque
// host object, or a reference to a named function. Values are plain structs
// and are passed by value through the engine.
package object

import (
	"fmt"
	"reflect"
)

// Type of a Value, named the way the "is" operator names it.
type Type string

const (
	NULL     Type = "null"
	BOOLEAN  Type = "boolean"
	NUMBER   Type = "number"
	STRING   Type = "string"
	OBJECT   Type = "object"
	FUNCTION Type = "function"
)

type kind uint8

const (
	nullKind kind = iota
	boolKind
	numberKind
	stringKind
	objectKind
	functionKind
)

// Value is an immutable expression value. The zero Value is Null.
type Value struct {
	k kind
	n float64
	s string
	o any
}

var (
	Null  = Value{}
	True  = Value{k: boolKind, n: 1}
	False = Value{k: boolKind}
	Zero  = Value{k: numberKind}
	Unit  = Value{k: numberKind, n: 1}
	Empty = Value{k: stringKind}
)

// NewBool returns True or False.
func NewBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// NewNumber returns a number Value.
func NewNumber(f float64) Value {
	return Value{k: numberKind, n: f}
}

// NewString returns a string Value.
func NewString(s string) Value {
	return Value{k: stringKind, s: s}
}

// NewObject wraps an opaque host value. A nil host value yields Null.
func NewObject(o any) Value {
	if o == nil {
		return Null
	}
	return Value{k: objectKind, o: o}
}

// Function is a reference to a function by name. The environment decides
// which registered implementation a call resolves to.
type Function struct {
	name string
}

// Name returns the function name.
func (f Function) Name() string {
	return f.name
}

func (f Function) String() string {
	return f.name
}

// NewFunction returns a Value referring to the named function.
func NewFunction(name string) Value {
	return Value{k: functionKind, s: name}
}

// Type returns the type of the value.
func (v Value) Type() Type {
	switch v.k {
	case boolKind:
		return BOOLEAN
	case numberKind:
		return NUMBER
	case stringKind:
		return STRING
	case objectKind:
		return OBJECT
	case functionKind:
		return FUNCTION
	default:
		return NULL
	}
}

func (v Value) IsNull() bool     { return v.k == nullKind }
func (v Value) IsBool() bool     { return v.k == boolKind }
func (v Value) IsNumber() bool   { return v.k == numberKind }
func (v Value) IsString() bool   { return v.k == stringKind }
func (v Value) IsObject() bool   { return v.k == objectKind }
func (v Value) IsFunction() bool { return v.k == functionKind }

// Bool returns the boolean payload and whether the value is a boolean.
func (v Value) Bool() (bool, bool) {
	return v.n != 0, v.k == boolKind
}

// Number returns the numeric payload and whether the value is a number.
func (v Value) Number() (float64, bool) {
	return v.n, v.k == numberKind
}

// Str returns the string payload and whether the value is a string.
func (v Value) Str() (string, bool) {
	return v.s, v.k == stringKind
}

// Object returns the opaque payload and whether the value is an object.
func (v Value) Object() (any, bool) {
	return v.o, v.k == objectKind
}

// Function returns the function reference and whether the value is one.
func (v Value) Function() (Function, bool) {
	if v.k != functionKind {
		return Function{}, false
	}
	return Function{name: v.s}, true
}

// Interface converts the value to a native Go value: nil, bool, float64,
// string, the wrapped host value, or a Function.
func (v Value) Interface() any {
	switch v.k {
	case boolKind:
		return v.n != 0
	case numberKind:
		return v.n
	case stringKind:
		return v.s
	case objectKind:
		return v.o
	case functionKind:
		return Function{name: v.s}
	default:
		return nil
	}
}

// String returns the invariant display form of the value: numbers without
// culture formatting, strings unquoted, null as the empty string.
func (v Value) String() string {
	switch v.k {
	case boolKind:
		if v.n != 0 {
			return "true"
		}
		return "false"
	case numberKind:
		return FormatNumber(v.n)
	case stringKind:
		return v.s
	case objectKind:
		return fmt.Sprint(v.o)
	case functionKind:
		return v.s
	default:
		return ""
	}
}

// Hashable reports whether the value can be used as a map key. Opaque
// values wrapping non-comparable Go types cannot.
func (v Value) Hashable() bool {
	if v.k != objectKind {
		return true
	}
	return reflect.TypeOf(v.o).Comparable()
}

// FromGo converts a native Go value into a Value. Integers and floats of
// every width become numbers; anything unrecognized is wrapped as an opaque
// object.
func FromGo(x any) Value {
	switch x := x.(type) {
	case nil:
		return Null
	case Value:
		return x
	case Function:
		return NewFunction(x.name)
	case bool:
		return NewBool(x)
	case string:
		return NewString(x)
	case float64:
		return NewNumber(x)
	case float32:
		return NewNumber(float64(x))
	case int:
		return NewNumber(float64(x))
	case int8:
		return NewNumber(float64(x))
	case int16:
		return NewNumber(float64(x))
	case int32:
		return NewNumber(float64(x))
	case int64:
		return NewNumber(float64(x))
	case uint:
		return NewNumber(float64(x))
	case uint8:
		return NewNumber(float64(x))
	case uint16:
		return NewNumber(float64(x))
	case uint32:
		return NewNumber(float64(x))
	case uint64:
		return NewNumber(float64(x))
	case *string:
		if x == nil {
			return Null
		}
		return NewString(*x)
	case *float64:
		if x == nil {
			return Null
		}
		return NewNumber(*x)
	case *int64:
		if x == nil {
			return Null
		}
		return NewNumber(float64(*x))
	case *bool:
		if x == nil {
			return Null
		}
		return NewBool(*x)
	default:
		return NewObject(x)
	}
}
