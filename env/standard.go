package env

import (
	"math/rand"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prosuite/evaluation/errz"
	"github.com/prosuite/evaluation/modules/cond"
	modmath "github.com/prosuite/evaluation/modules/math"
	modrand "github.com/prosuite/evaluation/modules/rand"
	"github.com/prosuite/evaluation/modules/regexp"
	modstrings "github.com/prosuite/evaluation/modules/strings"
	"github.com/prosuite/evaluation/object"
)

type funcKey struct {
	name  string
	arity int
}

// Standard is an environment with named values, named rows of fields and
// a registry of functions. The standard function library is registered on
// creation. A Standard is not safe for concurrent mutation.
type Standard struct {
	Base
	values        map[string]object.Value
	rows          map[string]NamedValueSource
	functions     map[funcKey]*object.Builtin
	functionNames map[string]string
	random        *modrand.Generator
	compare       modmath.Comparer
	caseSensitive bool
	logger        zerolog.Logger
}

// StandardOption configures a Standard environment.
type StandardOption func(*Standard)

// WithCaseSensitive makes names, qualifiers and function names match
// exactly. By default they match without regard to case.
func WithCaseSensitive() StandardOption {
	return func(s *Standard) {
		s.caseSensitive = true
	}
}

// WithRandom sets the generator used by RAND and RANDPICK.
func WithRandom(r *rand.Rand) StandardOption {
	return func(s *Standard) {
		s.random.Set(r)
	}
}

// WithComparer replaces the ordering of values used by the relational
// operators and by MIN and MAX.
func WithComparer(compare func(a, b object.Value) (int, bool)) StandardOption {
	return func(s *Standard) {
		s.compare = compare
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) StandardOption {
	return func(s *Standard) {
		s.logger = logger
	}
}

// NewStandard returns a Standard environment with the standard functions
// registered.
func NewStandard(opts ...StandardOption) *Standard {
	s := &Standard{
		values:        map[string]object.Value{},
		rows:          map[string]NamedValueSource{},
		functions:     map[funcKey]*object.Builtin{},
		functionNames: map[string]string{},
		random:        modrand.NewGenerator(nil),
		compare:       object.Compare,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.RegisterBuiltins(modmath.BuiltinsWith(s.compare)...)
	s.RegisterBuiltins(s.random.Builtins()...)
	s.RegisterBuiltins(modstrings.Builtins()...)
	s.RegisterBuiltins(cond.Builtins()...)
	s.RegisterBuiltins(regexp.Builtins()...)
	return s
}

func (s *Standard) fold(name string) string {
	if s.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// Compare orders a and b with the comparer of the environment.
func (s *Standard) Compare(a, b object.Value) (int, bool) {
	return s.compare(a, b)
}

// CaseSensitive reports whether names match exactly.
func (s *Standard) CaseSensitive() bool {
	return s.caseSensitive
}

// Lookup resolves an unqualified name to a defined value, then to a
// registered function, then to the field of the one row that has it. A
// qualified name is only looked up in the row bound to the qualifier.
func (s *Standard) Lookup(name, qualifier string) (object.Value, error) {
	if qualifier != "" {
		if row, ok := s.rows[s.fold(qualifier)]; ok && row.Exists(name) {
			return row.GetValue(name), nil
		}
		return object.Null, errz.LookupErrorf("No such field: %s.%s", qualifier, name)
	}
	if value, ok := s.values[s.fold(name)]; ok {
		return value, nil
	}
	if registered, ok := s.functionNames[s.fold(name)]; ok {
		return object.NewFunction(registered), nil
	}
	return s.lookupUniqueField(name)
}

func (s *Standard) lookupUniqueField(name string) (object.Value, error) {
	var unique NamedValueSource
	for _, row := range s.rows {
		if !row.Exists(name) {
			continue
		}
		if unique != nil {
			return object.Null, errz.LookupErrorf("Field name '%s' is not unique; use a qualified name", name)
		}
		unique = row
	}
	if unique == nil {
		return object.Null, errz.LookupErrorf("No such field or function: %s", name)
	}
	return unique.GetValue(name), nil
}

// Invoke calls the function registered for the name and the number of
// arguments, falling back to a variadic registration.
func (s *Standard) Invoke(fn object.Function, args ...object.Value) (object.Value, error) {
	name := s.fold(fn.Name())
	if builtin, ok := s.functions[funcKey{name, len(args)}]; ok {
		return builtin.Call(args...)
	}
	if builtin, ok := s.functions[funcKey{name, object.Variadic}]; ok {
		return builtin.Call(args...)
	}
	s.logger.Debug().Str("function", fn.Name()).Int("arity", len(args)).Msg("function not found")
	return object.Null, errz.EvaluationErrorf(errz.ErrInvocation,
		"No such function: %s", object.FunctionKey(fn.Name(), len(args)))
}

// DefineValue binds name to value, converting Go values with
// object.FromGo. Later definitions replace earlier ones.
func (s *Standard) DefineValue(name string, value any) *Standard {
	s.values[s.fold(name)] = object.FromGo(value)
	return s
}

// ForgetValue removes the binding for name.
func (s *Standard) ForgetValue(name string) *Standard {
	delete(s.values, s.fold(name))
	return s
}

// DefineFields binds a row under qualifier. The empty qualifier binds an
// unqualified row, whose fields are only reachable by unqualified names.
func (s *Standard) DefineFields(row NamedValueSource, qualifier string) *Standard {
	s.rows[s.fold(qualifier)] = row
	s.logger.Debug().Str("qualifier", qualifier).Msg("fields defined")
	return s
}

// Fields returns the row bound under qualifier, if any.
func (s *Standard) Fields(qualifier string) (NamedValueSource, bool) {
	row, ok := s.rows[s.fold(qualifier)]
	return row, ok
}

// ForgetFields removes the row bound under qualifier.
func (s *Standard) ForgetFields(qualifier string) *Standard {
	delete(s.rows, s.fold(qualifier))
	return s
}

// ForgetAll removes all values and rows. Registered functions remain.
func (s *Standard) ForgetAll() *Standard {
	clear(s.values)
	clear(s.rows)
	return s
}

// SetRandom replaces the generator used by RAND and RANDPICK. A nil
// generator is replaced by a freshly seeded one.
func (s *Standard) SetRandom(r *rand.Rand) *Standard {
	s.random.Set(r)
	return s
}

// Register adds a function under name for the given arity, which may be
// object.Variadic. A later registration for the same name and arity
// replaces the earlier one.
func (s *Standard) Register(name string, arity int, fn object.BuiltinFunction) *Standard {
	return s.RegisterBuiltins(object.NewBuiltin(name, arity, fn))
}

// RegisterBuiltins registers each builtin under its name and arity.
func (s *Standard) RegisterBuiltins(builtins ...*object.Builtin) *Standard {
	for _, b := range builtins {
		name := s.fold(b.Name())
		s.functions[funcKey{name, b.Arity()}] = b
		s.functionNames[name] = b.Name()
	}
	return s
}

// Register0 registers a parameterless function.
func (s *Standard) Register0(name string, fn func() (object.Value, error)) *Standard {
	return s.Register(name, 0, func(args ...object.Value) (object.Value, error) {
		return fn()
	})
}

// Register1 registers a function of one argument.
func (s *Standard) Register1(name string, fn func(a object.Value) (object.Value, error)) *Standard {
	return s.Register(name, 1, func(args ...object.Value) (object.Value, error) {
		return fn(args[0])
	})
}

// Register2 registers a function of two arguments.
func (s *Standard) Register2(name string, fn func(a, b object.Value) (object.Value, error)) *Standard {
	return s.Register(name, 2, func(args ...object.Value) (object.Value, error) {
		return fn(args[0], args[1])
	})
}

// Register3 registers a function of three arguments.
func (s *Standard) Register3(name string, fn func(a, b, c object.Value) (object.Value, error)) *Standard {
	return s.Register(name, 3, func(args ...object.Value) (object.Value, error) {
		return fn(args[0], args[1], args[2])
	})
}

// Register4 registers a function of four arguments.
func (s *Standard) Register4(name string, fn func(a, b, c, d object.Value) (object.Value, error)) *Standard {
	return s.Register(name, 4, func(args ...object.Value) (object.Value, error) {
		return fn(args[0], args[1], args[2], args[3])
	})
}

// RegisterVariadic registers a function that receives all arguments as
// one slice, used when no registration matches the argument count.
func (s *Standard) RegisterVariadic(name string, fn func(args []object.Value) (object.Value, error)) *Standard {
	return s.Register(name, object.Variadic, func(args ...object.Value) (object.Value, error) {
		return fn(args)
	})
}

// Functions returns the registered functions as sorted NAME/arity keys.
func (s *Standard) Functions() []string {
	keys := make([]string, 0, len(s.functions))
	for _, b := range s.functions {
		keys = append(keys, b.Key())
	}
	slices.Sort(keys)
	return keys
}
