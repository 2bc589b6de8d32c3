// Package cond provides the conditional functions of the standard
// environment. Both evaluate all their arguments before they are called.
package cond

import (
	"github.com/prosuite/evaluation/object"
)

// Decode compares its first argument against each search value of the
// following (search, result) pairs and returns the result of the first
// pair that matches. A trailing unpaired argument is the default, otherwise
// the default is null. Two nulls match.
func Decode(args ...object.Value) (object.Value, error) {
	if len(args) == 0 {
		return object.Null, nil
	}
	value := args[0]
	if len(args) == 1 {
		return value, nil
	}
	pairs := (len(args) - 1) / 2
	for i := 0; i < pairs; i++ {
		if object.Equals(value, args[1+2*i]) {
			return args[2+2*i], nil
		}
	}
	if last := 1 + 2*pairs; last < len(args) {
		return args[last], nil
	}
	return object.Null, nil
}

// When takes (condition, result) pairs and returns the result of the first
// pair whose condition is true. A trailing unpaired argument is the
// default, otherwise the default is null.
func When(args ...object.Value) (object.Value, error) {
	pairs := len(args) / 2
	for i := 0; i < pairs; i++ {
		if object.IsTrue(args[2*i]) {
			return args[2*i+1], nil
		}
	}
	if len(args) > 2*pairs {
		return args[len(args)-1], nil
	}
	return object.Null, nil
}

// Builtins returns the functions of this package for registration in an
// environment.
func Builtins() []*object.Builtin {
	return []*object.Builtin{
		object.NewBuiltin("DECODE", object.Variadic, Decode),
		object.NewBuiltin("WHEN", object.Variadic, When),
	}
}
