// Package evaluation compiles expressions of a small, loosely typed
// language with SQL-like null semantics and evaluates them against an
// environment of named values, fields and functions.
//
//	e, err := evaluation.Create("ROUND(price * (1 + (rate ?? 0)), 2)")
//	if err != nil {
//		return err
//	}
//	environment := env.NewStandard().DefineValue("price", 9.5).DefineValue("rate", nil)
//	value, err := e.Evaluate(environment, nil)
//
// A compiled Evaluator is immutable and may be evaluated concurrently, as
// long as every goroutine passes its own stack and environment.
package evaluation

import (
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prosuite/evaluation/compiler"
	"github.com/prosuite/evaluation/dis"
	"github.com/prosuite/evaluation/env"
	"github.com/prosuite/evaluation/errz"
	"github.com/prosuite/evaluation/object"
	"github.com/prosuite/evaluation/vm"
)

// Evaluator is a compiled expression together with its source clause.
type Evaluator struct {
	engine   *vm.Engine
	clause   string
	observer vm.Observer
	logger   zerolog.Logger
}

// Create compiles text, which must consist of exactly one expression,
// optionally surrounded by white space.
func Create(text string, opts ...Option) (*Evaluator, error) {
	cfg := collectOptions(opts...)
	engine, length, err := compiler.Compile(text, 0, &compiler.Config{CaseSensitive: cfg.caseSensitive})
	if err != nil {
		return nil, err
	}
	if length < len(text) {
		return nil, &errz.SyntaxError{
			Message: "Extra input at end of expression",
			Offset:  length,
			Source:  text,
		}
	}
	return newEvaluator(engine, clause(text, 0, length), cfg), nil
}

// CreateAt compiles the expression that starts at byte offset index in
// text and ignores whatever follows it. It also returns the number of
// bytes the expression occupies, including white space before it, so that
// a caller can continue scanning after it.
func CreateAt(text string, index int, opts ...Option) (*Evaluator, int, error) {
	cfg := collectOptions(opts...)
	engine, length, err := compiler.Compile(text, index, &compiler.Config{CaseSensitive: cfg.caseSensitive})
	if err != nil {
		return nil, 0, err
	}
	return newEvaluator(engine, clause(text, index, length), cfg), length, nil
}

// CreateConstant returns an Evaluator that always yields value, converted
// with object.FromGo. Its clause is the literal form of the value. This is
// useful to substitute defaults where no expression is given.
func CreateConstant(value any, opts ...Option) *Evaluator {
	cfg := collectOptions(opts...)
	v := object.FromGo(value)
	engine := vm.New()
	engine.EmitValue(v)
	if err := engine.Commit(); err != nil {
		// A single constant always commits.
		panic(err)
	}
	return newEvaluator(engine, object.FormatLiteral(v), cfg)
}

// Eval compiles text and evaluates it once in environment.
func Eval(text string, environment env.Environment, opts ...Option) (object.Value, error) {
	e, err := Create(text, opts...)
	if err != nil {
		return object.Null, err
	}
	return e.Evaluate(environment, nil)
}

func newEvaluator(engine *vm.Engine, clause string, cfg *config) *Evaluator {
	cfg.logger.Debug().
		Str("clause", clause).
		Int("program_size", engine.ProgramSize()).
		Int("literals", engine.LiteralCount()).
		Msg("expression compiled")
	return &Evaluator{
		engine:   engine,
		clause:   clause,
		observer: cfg.observer,
		logger:   cfg.logger,
	}
}

func clause(text string, index, length int) string {
	return strings.TrimSpace(text[index : index+length])
}

// Clause returns the source text of the expression, trimmed of white
// space.
func (e *Evaluator) Clause() string {
	return e.clause
}

func (e *Evaluator) String() string {
	return e.clause
}

// Evaluate executes the expression in environment and returns its value. A
// nil environment is an environment without any bindings. A nil stack is
// replaced by a new one; a supplied stack is cleared before use.
func (e *Evaluator) Evaluate(environment env.Environment, stack *vm.Stack) (object.Value, error) {
	if stack == nil {
		stack = vm.NewStack()
	} else {
		stack.Reset()
	}
	var err error
	if e.observer != nil {
		err = e.engine.ExecuteObserved(environment, stack, e.observer)
	} else {
		err = e.engine.Execute(environment, stack)
	}
	if err != nil {
		e.logger.Debug().Err(err).Str("clause", e.clause).Msg("evaluation failed")
		return object.Null, err
	}
	return stack.Pop(), nil
}

// Disassemble decodes the compiled program.
func (e *Evaluator) Disassemble() ([]dis.Instruction, error) {
	return dis.Disassemble(e.engine)
}

// Dump writes a human-readable listing of the compiled program. It is
// meant for debugging.
func (e *Evaluator) Dump(writer io.Writer) error {
	instructions, err := e.Disassemble()
	if err != nil {
		return err
	}
	return dis.Dump(instructions, writer)
}
