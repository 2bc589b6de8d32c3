// Package fieldsetter assigns computed values to the fields of a row. The
// assignments are written as a list of
//
//	name = expression; name := expression; ...
//
// where each right-hand side is an expression compiled by the evaluation
// package. All right-hand sides are evaluated before any field is written,
// so no assignment sees the effect of another assignment in the same list.
package fieldsetter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/prosuite/evaluation"
	"github.com/prosuite/evaluation/env"
	"github.com/prosuite/evaluation/errz"
	"github.com/prosuite/evaluation/lexer"
	"github.com/prosuite/evaluation/object"
	"github.com/prosuite/evaluation/token"
)

// Row is a source of named values whose fields can also be written.
type Row interface {
	env.NamedValueSource
	SetValue(name string, value object.Value) error
}

// Assignment is a single target field and the expression computing its
// new value.
type Assignment struct {
	Name       string
	Expression *evaluation.Evaluator
}

func (a Assignment) String() string {
	return fmt.Sprintf("%s = %s", a.Name, a.Expression.Clause())
}

// UnknownFieldError reports an assignment target that is not among the
// valid field names.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("No such field: %s", e.Name)
}

// FieldSetter is a compiled list of assignments.
type FieldSetter struct {
	text          string
	assignments   []Assignment
	caseSensitive bool
	logger        zerolog.Logger
}

// Option configures a FieldSetter.
type Option func(*FieldSetter)

// WithCaseSensitive makes keywords in the expressions and the comparison
// of target names in Validate case sensitive.
func WithCaseSensitive() Option {
	return func(fs *FieldSetter) {
		fs.caseSensitive = true
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(fs *FieldSetter) {
		fs.logger = logger
	}
}

// Create compiles a list of assignments. An empty text yields a
// FieldSetter without assignments.
func Create(text string, opts ...Option) (*FieldSetter, error) {
	fs := &FieldSetter{text: text, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(fs)
	}
	evalOpts := []evaluation.Option{evaluation.WithLogger(fs.logger)}
	if fs.caseSensitive {
		evalOpts = append(evalOpts, evaluation.WithCaseSensitive())
	}

	index := 0
	for {
		tok, err := scan(text, index)
		if err != nil {
			return nil, err
		}
		if tok.Type == token.END {
			break
		}
		if tok.Type != token.NAME {
			return nil, syntaxErrorf(text, tok.Start, "Expected a field name, but got '%s'", tok.Describe())
		}
		name := tok.Literal

		if index, err = assignmentOperator(text, tok.End); err != nil {
			return nil, err
		}

		expression, length, err := evaluation.CreateAt(text, index, evalOpts...)
		if err != nil {
			return nil, err
		}
		fs.assignments = append(fs.assignments, Assignment{Name: name, Expression: expression})
		index += length

		tok, err = scan(text, index)
		if err != nil {
			return nil, err
		}
		switch {
		case tok.Type == token.END:
			index = tok.Start
		case tok.Is(";"):
			index = tok.End
		default:
			return nil, syntaxErrorf(text, tok.Start, "Expected ';' or end of input, but got '%s'", tok.Describe())
		}
	}

	fs.logger.Debug().Int("assignments", len(fs.assignments)).Msg("field setter compiled")
	return fs, nil
}

// assignmentOperator expects '=' or ':=' at index and returns the offset
// after it.
func assignmentOperator(text string, index int) (int, error) {
	tok, err := scan(text, index)
	if err != nil {
		return 0, err
	}
	if tok.Is("=") {
		return tok.End, nil
	}
	if tok.Is(":") {
		next, err := lexer.Scan(text, tok.End)
		if err == nil && next.Is("=") {
			return next.End, nil
		}
	}
	return 0, syntaxErrorf(text, tok.Start, "Expected '=' or ':=', but got '%s'", tok.Describe())
}

// scan returns the next token at or after index that is not white space.
func scan(text string, index int) (token.Token, error) {
	for {
		tok, err := lexer.Scan(text, index)
		if err != nil {
			if syntaxErr, ok := err.(*errz.SyntaxError); ok {
				syntaxErr.Source = text
			}
			return token.Token{}, err
		}
		if tok.Type != token.WHITE {
			return tok, nil
		}
		index = tok.End
	}
}

func syntaxErrorf(text string, offset int, format string, args ...any) error {
	err := errz.SyntaxErrorf(offset, format, args...)
	err.Source = text
	return err
}

// Assignments returns the compiled assignments in source order.
func (fs *FieldSetter) Assignments() []Assignment {
	return slices.Clone(fs.assignments)
}

// String renders the assignments in a normalized form.
func (fs *FieldSetter) String() string {
	parts := make([]string, len(fs.assignments))
	for i, a := range fs.assignments {
		parts[i] = a.String()
	}
	return strings.Join(parts, "; ")
}

// Validate checks every target name against validNames. The returned
// error lists each unknown target as an *UnknownFieldError.
func (fs *FieldSetter) Validate(validNames []string) error {
	var result *multierror.Error
	for _, a := range fs.assignments {
		known := slices.ContainsFunc(validNames, func(name string) bool {
			if fs.caseSensitive {
				return name == a.Name
			}
			return strings.EqualFold(name, a.Name)
		})
		if !known {
			result = multierror.Append(result, &UnknownFieldError{Name: a.Name})
		}
	}
	return result.ErrorOrNil()
}

// Execute evaluates every assignment against the current values of row and
// then writes the results to row. The row is bound as the unqualified field
// source of environment for the duration of the call, and any unqualified
// row bound before is restored afterwards. A nil environment is replaced by
// a new standard environment. If any expression fails, row is left
// unchanged.
func (fs *FieldSetter) Execute(row Row, environment *env.Standard) error {
	if environment == nil {
		environment = env.NewStandard()
	}
	previous, bound := environment.Fields("")
	environment.DefineFields(row, "")
	defer func() {
		if bound {
			environment.DefineFields(previous, "")
		} else {
			environment.ForgetFields("")
		}
	}()

	values := make([]object.Value, len(fs.assignments))
	for i, a := range fs.assignments {
		value, err := a.Expression.Evaluate(environment, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Name, err)
		}
		values[i] = value
	}

	for i, a := range fs.assignments {
		if err := row.SetValue(a.Name, values[i]); err != nil {
			return fmt.Errorf("%s: %w", a.Name, err)
		}
		fs.logger.Debug().Str("field", a.Name).Stringer("value", values[i]).Msg("field set")
	}
	return nil
}
