package object

import "fmt"

// Variadic is the arity of a function that accepts any number of
// arguments. Variadic functions receive all arguments as one slice.
const Variadic = -1

// BuiltinFunction holds the type of a built-in function.
type BuiltinFunction func(args ...Value) (Value, error)

// Builtin is a named function implementation registered for one arity.
type Builtin struct {
	fn    BuiltinFunction
	name  string
	arity int
}

// NewBuiltin returns a Builtin for the given name and arity.
func NewBuiltin(name string, arity int, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name, arity: arity}
}

func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) Arity() int {
	return b.arity
}

// Call invokes the function. Fixed-arity builtins reject a mismatched
// argument count.
func (b *Builtin) Call(args ...Value) (Value, error) {
	if b.arity != Variadic && len(args) != b.arity {
		return Null, fmt.Errorf("%s: expected %d arguments, got %d", b.name, b.arity, len(args))
	}
	return b.fn(args...)
}

// Key returns NAME/arity, with * for variadic functions.
func (b *Builtin) Key() string {
	return FunctionKey(b.name, b.arity)
}

func (b *Builtin) String() string {
	return fmt.Sprintf("builtin(%s)", b.Key())
}

// FunctionKey formats a name and arity as NAME/arity, with * for variadic.
func FunctionKey(name string, arity int) string {
	if arity == Variadic {
		return name + "/*"
	}
	return fmt.Sprintf("%s/%d", name, arity)
}
