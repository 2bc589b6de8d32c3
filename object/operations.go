package object

import (
	"cmp"
	"math"
	"strings"

	"github.com/prosuite/evaluation/errz"
)

// IsTrue reports whether v counts as true: anything but null and false.
func IsTrue(v Value) bool {
	switch v.k {
	case nullKind:
		return false
	case boolKind:
		return v.n != 0
	default:
		return true
	}
}

// IsFalse reports whether v is the boolean false. Null is neither true nor
// false.
func IsFalse(v Value) bool {
	return v.k == boolKind && v.n == 0
}

func rank(v Value) int {
	switch v.k {
	case boolKind:
		return 0
	case numberKind:
		return 1
	case stringKind:
		return 2
	default:
		return -1
	}
}

// Compare orders a and b. The second result is false if the values are
// incomparable, which is always the case when either is null. Across types
// booleans order before numbers, which order before strings. Strings are
// compared by ordinal. Opaque objects and function references are only
// comparable for equality with an identical value.
func Compare(a, b Value) (int, bool) {
	if a.k == nullKind || b.k == nullKind {
		return 0, false
	}
	ra, rb := rank(a), rank(b)
	if ra < 0 || rb < 0 {
		if a.k == b.k && a.Hashable() && b.Hashable() && a == b {
			return 0, true
		}
		return 0, false
	}
	if ra != rb {
		return cmp.Compare(ra, rb), true
	}
	switch a.k {
	case stringKind:
		return strings.Compare(a.s, b.s), true
	default:
		return cmp.Compare(a.n, b.n), true
	}
}

// Equals reports whether a and b compare equal. Unlike the equality
// operator, two nulls are considered equal.
func Equals(a, b Value) bool {
	if a.k == nullKind || b.k == nullKind {
		return a.k == b.k
	}
	order, ok := Compare(a, b)
	return ok && order == 0
}

// Add adds two numbers, or concatenates the display forms of the operands
// if either is a string. Null operands yield null.
func Add(a, b Value) (Value, error) {
	if a.k == nullKind || b.k == nullKind {
		return Null, nil
	}
	if a.k == numberKind && b.k == numberKind {
		return NewNumber(a.n + b.n), nil
	}
	if a.k == stringKind || b.k == stringKind {
		return NewString(a.String() + b.String()), nil
	}
	return Null, operandError("+", a, b)
}

// Sub subtracts b from a. Null operands yield null.
func Sub(a, b Value) (Value, error) {
	x, y, null, err := numbers("-", a, b)
	if null || err != nil {
		return Null, err
	}
	return NewNumber(x - y), nil
}

// Mul multiplies two numbers. Null operands yield null.
func Mul(a, b Value) (Value, error) {
	x, y, null, err := numbers("*", a, b)
	if null || err != nil {
		return Null, err
	}
	return NewNumber(x * y), nil
}

// Div divides a by b. A zero divisor is an error even when a is null.
func Div(a, b Value) (Value, error) {
	if isZero(b) {
		return Null, errz.NewEvaluationError(errz.ErrArithmetic, "Division by zero")
	}
	x, y, null, err := numbers("/", a, b)
	if null || err != nil {
		return Null, err
	}
	return NewNumber(x / y), nil
}

// Rem computes the remainder of a divided by b, with the sign of a. A zero
// divisor is an error even when a is null.
func Rem(a, b Value) (Value, error) {
	if isZero(b) {
		return Null, errz.NewEvaluationError(errz.ErrArithmetic, "Division by zero")
	}
	x, y, null, err := numbers("%", a, b)
	if null || err != nil {
		return Null, err
	}
	return NewNumber(math.Mod(x, y)), nil
}

// Pos is unary plus: numbers and null pass through unchanged.
func Pos(a Value) (Value, error) {
	switch a.k {
	case nullKind, numberKind:
		return a, nil
	}
	return Null, errz.TypeErrorf("Operator + not applicable to %s", a.Type())
}

// Neg negates a number. Null yields null.
func Neg(a Value) (Value, error) {
	switch a.k {
	case nullKind:
		return Null, nil
	case numberKind:
		return NewNumber(-a.n), nil
	}
	return Null, errz.TypeErrorf("Operator - not applicable to %s", a.Type())
}

// Not negates the truth of a. Not null is null.
func Not(a Value) Value {
	if a.k == nullKind {
		return Null
	}
	return NewBool(!IsTrue(a))
}

// And is the three-valued conjunction: false if either operand is false,
// otherwise null if either is null, otherwise true.
func And(a, b Value) Value {
	if IsFalse(a) || IsFalse(b) {
		return False
	}
	if a.k == nullKind || b.k == nullKind {
		return Null
	}
	return True
}

// Or is the three-valued disjunction: true if either operand is true,
// otherwise null if either is null, otherwise false.
func Or(a, b Value) Value {
	if IsTrue(a) || IsTrue(b) {
		return True
	}
	if a.k == nullKind || b.k == nullKind {
		return Null
	}
	return False
}

// IsType reports whether v is of the named type. Type names are matched
// without regard to case; unknown names are an error.
func IsType(v Value, typeName string) (bool, error) {
	switch Type(strings.ToLower(typeName)) {
	case NULL:
		return v.k == nullKind, nil
	case BOOLEAN:
		return v.k == boolKind, nil
	case NUMBER:
		return v.k == numberKind, nil
	case STRING:
		return v.k == stringKind, nil
	}
	return false, errz.TypeErrorf("Unknown type name: %s", typeName)
}

func isZero(v Value) bool {
	return v.k == numberKind && v.n == 0
}

func numbers(operator string, a, b Value) (float64, float64, bool, error) {
	if a.k == nullKind || b.k == nullKind {
		return 0, 0, true, nil
	}
	if a.k != numberKind || b.k != numberKind {
		return 0, 0, false, operandError(operator, a, b)
	}
	return a.n, b.n, false, nil
}

func operandError(operator string, a, b Value) error {
	return errz.TypeErrorf("Operator %s not applicable to %s and %s", operator, a.Type(), b.Type())
}
