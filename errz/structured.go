// Package errz defines the error types raised while compiling and evaluating
// expressions.
package errz

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrSyntax indicates a scanning or parsing error.
	ErrSyntax ErrorKind = iota
	// ErrLookup indicates a name that could not be resolved.
	ErrLookup
	// ErrInvocation indicates a failed function call.
	ErrInvocation
	// ErrType indicates an operand of the wrong type.
	ErrType
	// ErrArithmetic indicates an arithmetic failure such as division by zero.
	ErrArithmetic
	// ErrInternal indicates an engine bug: corrupt program, stack underflow,
	// execution of uncommitted code.
	ErrInternal
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrLookup:
		return "lookup error"
	case ErrInvocation:
		return "invocation error"
	case ErrType:
		return "type error"
	case ErrArithmetic:
		return "arithmetic error"
	case ErrInternal:
		return "internal error"
	default:
		return "error"
	}
}

// SyntaxError is raised for any text that cannot be compiled. Offset is the
// zero-based character position at which the problem was detected.
type SyntaxError struct {
	Message string
	Offset  int
	Source  string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (at position %d)", e.Message, e.Offset)
}

// Kind returns ErrSyntax.
func (e *SyntaxError) Kind() ErrorKind {
	return ErrSyntax
}

// FriendlyErrorMessage returns the message followed by the source text with
// a caret under the offending position.
func (e *SyntaxError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("%s: %s (at position %d)\n", ErrSyntax, e.Message, e.Offset))
	if e.Source != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.Source)
		msg.WriteString("\n")
		offset := e.Offset
		if offset > len(e.Source) {
			offset = len(e.Source)
		}
		msg.WriteString(" | ")
		msg.WriteString(strings.Repeat(" ", offset))
		msg.WriteString("^\n")
	}
	return msg.String()
}

// NewSyntaxError creates a SyntaxError at the given offset.
func NewSyntaxError(offset int, message string) *SyntaxError {
	return &SyntaxError{Message: message, Offset: offset}
}

// SyntaxErrorf creates a SyntaxError with a formatted message.
func SyntaxErrorf(offset int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Offset: offset}
}

// EvaluationError is the single error type raised while executing a
// compiled expression. Kind narrows down the cause.
type EvaluationError struct {
	Message  string
	Kind     ErrorKind
	Function string
	Args     []string
	Cause    error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	if e.Kind == ErrInvocation && e.Function != "" {
		msg := e.Message
		if msg == "" && e.Cause != nil {
			msg = e.Cause.Error()
		}
		return fmt.Sprintf("Error calling %s with args (%s): %s",
			e.Function, strings.Join(e.Args, ", "), msg)
	}
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error.
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

// WithCause wraps the error with a cause.
func (e *EvaluationError) WithCause(cause error) *EvaluationError {
	e.Cause = cause
	return e
}

// NewEvaluationError creates an EvaluationError of the given kind.
func NewEvaluationError(kind ErrorKind, message string) *EvaluationError {
	return &EvaluationError{Message: message, Kind: kind}
}

// EvaluationErrorf creates an EvaluationError with a formatted message.
func EvaluationErrorf(kind ErrorKind, format string, args ...any) *EvaluationError {
	return &EvaluationError{Message: fmt.Sprintf(format, args...), Kind: kind}
}

// TypeErrorf is shorthand for an ErrType evaluation error.
func TypeErrorf(format string, args ...any) *EvaluationError {
	return EvaluationErrorf(ErrType, format, args...)
}

// LookupErrorf is shorthand for an ErrLookup evaluation error.
func LookupErrorf(format string, args ...any) *EvaluationError {
	return EvaluationErrorf(ErrLookup, format, args...)
}

// InternalErrorf is shorthand for an ErrInternal evaluation error.
func InternalErrorf(format string, args ...any) *EvaluationError {
	return EvaluationErrorf(ErrInternal, format, args...)
}

// InvocationError wraps a failure raised while calling the named function.
func InvocationError(function string, args []string, cause error) *EvaluationError {
	return &EvaluationError{
		Kind:     ErrInvocation,
		Function: function,
		Args:     args,
		Cause:    cause,
	}
}

// AsEvaluationError converts err into an EvaluationError. Errors that are
// not EvaluationErrors already are wrapped with the given kind.
func AsEvaluationError(kind ErrorKind, err error) *EvaluationError {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr
	}
	return &EvaluationError{Message: err.Error(), Kind: kind, Cause: err}
}

// IsSyntaxError reports whether err is or wraps a SyntaxError.
func IsSyntaxError(err error) bool {
	var syntaxErr *SyntaxError
	return errors.As(err, &syntaxErr)
}

// IsEvaluationError reports whether err is or wraps an EvaluationError.
func IsEvaluationError(err error) bool {
	var evalErr *EvaluationError
	return errors.As(err, &evalErr)
}

// KindOf returns the kind of a SyntaxError or EvaluationError, and false for
// any other error.
func KindOf(err error) (ErrorKind, bool) {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return ErrSyntax, true
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr.Kind, true
	}
	return 0, false
}
