// Package vm provides the bytecode Engine that compiled expressions are
// emitted into and executed by.
//
// An Engine goes through two phases. While building, opcodes, literals and
// jumps are appended and labels are defined. Commit patches all jumps and
// freezes the literal pool; from then on the engine is immutable and may be
// executed any number of times, concurrently, each execution with its own
// Stack.
package vm

import (
	"math"

	"github.com/prosuite/evaluation/env"
	"github.com/prosuite/evaluation/errz"
	"github.com/prosuite/evaluation/object"
	"github.com/prosuite/evaluation/op"
)

const (
	minOperand = -1 << 23
	maxOperand = 1<<23 - 1
)

// Engine holds a program under construction or, after Commit, a program
// ready for execution.
type Engine struct {
	program   []byte
	pool      *LiteralPool
	labels    []int
	fixups    []fixup
	committed bool

	// Set on the first emit error and reported by Commit
	failure error
}

// New returns an empty engine in the building phase.
func New() *Engine {
	return &Engine{pool: NewLiteralPool()}
}

func (e *Engine) mustBeBuilding() {
	if e.committed {
		panic("vm: engine is committed and cannot be modified")
	}
}

func (e *Engine) fail(err error) {
	if e.failure == nil {
		e.failure = err
	}
}

func (e *Engine) emit(code op.Code, operand int) {
	e.program = append(e.program, byte(code))
	if op.GetInfo(code).OperandCount > 0 {
		if operand < minOperand || operand > maxOperand {
			e.fail(errz.SyntaxErrorf(len(e.program)-1, "Operand %d out of range", operand))
		}
		var buf [op.OperandSize]byte
		putOperand(buf[:], operand)
		e.program = append(e.program, buf[:]...)
	}
}

// EmitCode appends an opcode that takes no operand.
func (e *Engine) EmitCode(code op.Code) {
	e.mustBeBuilding()
	info := op.GetInfo(code)
	if info.Name == "" || info.OperandCount > 0 {
		e.fail(errz.SyntaxErrorf(len(e.program), "Opcode %s cannot be emitted without operand", code))
		return
	}
	e.emit(code, 0)
}

// EmitValue appends code that pushes value. Common constants have their
// own opcodes; everything else goes through the literal pool.
func (e *Engine) EmitValue(value object.Value) {
	e.mustBeBuilding()
	switch {
	case value.IsNull():
		e.emit(op.Null, 0)
	case value == object.True:
		e.emit(op.True, 0)
	case value == object.False:
		e.emit(op.False, 0)
	case value == object.Empty:
		e.emit(op.Empty, 0)
	case value.IsNumber():
		n, _ := value.Number()
		switch {
		case n == 0 && !math.Signbit(n):
			e.emit(op.Zero, 0)
		case n == 1:
			e.emit(op.Unit, 0)
		default:
			e.emit(op.Pool, e.pool.Put(value))
		}
	default:
		e.emit(op.Pool, e.pool.Put(value))
	}
}

func (e *Engine) EmitBool(b bool) {
	e.EmitValue(object.NewBool(b))
}

func (e *Engine) EmitNumber(f float64) {
	e.EmitValue(object.NewNumber(f))
}

func (e *Engine) EmitString(s string) {
	e.EmitValue(object.NewString(s))
}

// EmitCall appends a call of the function below the top argc values.
func (e *Engine) EmitCall(argc int) {
	e.mustBeBuilding()
	if argc < 0 {
		e.fail(errz.SyntaxErrorf(len(e.program), "Invalid argument count: %d", argc))
		return
	}
	e.emit(op.Call, argc)
}

// Commit terminates the program with End, resolves all jumps and freezes
// the literal pool. It reports the first error recorded while emitting,
// and fails if any jump refers to an undefined label. Committing twice is
// a no-op.
func (e *Engine) Commit() error {
	if e.committed {
		return nil
	}
	if e.failure != nil {
		return e.failure
	}
	if err := e.resolve(); err != nil {
		return err
	}
	e.emit(op.End, 0)
	e.pool.Freeze()
	e.committed = true
	e.labels = nil
	e.fixups = nil
	return nil
}

// Committed reports whether Commit has succeeded.
func (e *Engine) Committed() bool {
	return e.committed
}

// ProgramSize returns the program length in bytes.
func (e *Engine) ProgramSize() int {
	return len(e.program)
}

// Instructions returns a copy of the program bytes.
func (e *Engine) Instructions() []byte {
	program := make([]byte, len(e.program))
	copy(program, e.program)
	return program
}

// LiteralCount returns the number of values in the literal pool.
func (e *Engine) LiteralCount() int {
	return e.pool.Len()
}

// Literal returns the pooled value at index i.
func (e *Engine) Literal(i int) object.Value {
	return e.pool.Get(i)
}

// Operand decodes the operand of the instruction at address.
func (e *Engine) Operand(address int) int {
	return getOperand(e.program[address+1:])
}

// Execute runs the committed program. The stack must be empty on entry and
// holds exactly the result on successful return. A nil environment is
// treated as an environment without bindings.
func (e *Engine) Execute(environment env.Environment, stack *Stack) error {
	return e.execute(environment, stack, nil)
}

// ExecuteObserved is Execute with an observer notified before every
// instruction.
func (e *Engine) ExecuteObserved(environment env.Environment, stack *Stack, observer Observer) error {
	return e.execute(environment, stack, observer)
}

func (e *Engine) execute(environment env.Environment, stack *Stack, observer Observer) (err error) {
	if !e.committed {
		return errz.InternalErrorf("Engine must be committed before execution")
	}
	if stack == nil {
		return errz.InternalErrorf("Evaluation stack is nil")
	}
	if stack.Len() != 0 {
		return errz.InternalErrorf("Evaluation stack is not empty")
	}
	if environment == nil {
		environment = env.Empty()
	}
	defer func() {
		if r := recover(); r != nil {
			err = errz.InternalErrorf("panic: %v", r)
		}
	}()
	if err := e.eval(environment, stack, observer); err != nil {
		return err
	}
	if stack.Len() != 1 {
		return errz.InternalErrorf("Expected one value on the stack, found %d", stack.Len())
	}
	return nil
}

func (e *Engine) eval(environment env.Environment, stack *Stack, observer Observer) error {
	ip := 0
	for {
		address := ip
		code := op.Code(e.program[ip])

		if observer != nil {
			event := StepEvent{
				Address:    address,
				Opcode:     code,
				StackDepth: stack.Len(),
			}
			if stack.Len() > 0 {
				event.Top = stack.Peek(0)
			}
			if !observer.OnStep(event) {
				return errz.InternalErrorf("Execution halted by observer at %04X", address)
			}
		}

		ip += op.Size(code)

		switch code {
		case op.Nop:
		case op.Null:
			stack.Push(object.Null)
		case op.False:
			stack.Push(object.False)
		case op.True:
			stack.Push(object.True)
		case op.Zero:
			stack.Push(object.Zero)
		case op.Unit:
			stack.Push(object.Unit)
		case op.Empty:
			stack.Push(object.Empty)
		case op.Pool:
			stack.Push(e.pool.Get(e.Operand(address)))
		case op.Dup:
			stack.Push(stack.Peek(0))
		case op.Dup1:
			y := stack.Pop()
			x := stack.Pop()
			stack.Push(y)
			stack.Push(x)
			stack.Push(y)
		case op.Pop:
			stack.Pop()
		case op.Swap:
			y := stack.Pop()
			x := stack.Pop()
			stack.Push(y)
			stack.Push(x)
		case op.Jmp:
			ip = address + e.Operand(address)
		case op.Jin:
			if stack.Pop().IsNull() {
				ip = address + e.Operand(address)
			}
		case op.Jif:
			if environment.IsFalse(stack.Pop()) {
				ip = address + e.Operand(address)
			}
		case op.Jit:
			if environment.IsTrue(stack.Pop()) {
				ip = address + e.Operand(address)
			}
		case op.Jeq, op.Jne, op.Jlt, op.Jle, op.Jgt, op.Jge:
			b := stack.Pop()
			a := stack.Pop()
			if compare(environment, code, a, b) {
				ip = address + e.Operand(address)
			}
		case op.Cin:
			stack.Push(object.NewBool(stack.Pop().IsNull()))
		case op.Ceq, op.Cne, op.Clt, op.Cle, op.Cgt, op.Cge:
			b := stack.Pop()
			a := stack.Pop()
			stack.Push(object.NewBool(compare(environment, code, a, b)))
		case op.Add, op.Sub, op.Mul, op.Div, op.Rem, op.And, op.Or:
			b := stack.Pop()
			a := stack.Pop()
			result, err := binary(environment, code, a, b)
			if err != nil {
				return errz.AsEvaluationError(errz.ErrType, err)
			}
			stack.Push(result)
		case op.Pos, op.Neg, op.Not:
			result, err := unary(environment, code, stack.Pop())
			if err != nil {
				return errz.AsEvaluationError(errz.ErrType, err)
			}
			stack.Push(result)
		case op.Is:
			typeName := stack.Pop()
			value := stack.Pop()
			name, ok := typeName.Str()
			if !ok {
				return errz.TypeErrorf("Type name must be a string, got %s", typeName.Type())
			}
			is, err := environment.IsType(value, name)
			if err != nil {
				return errz.AsEvaluationError(errz.ErrType, err)
			}
			stack.Push(object.NewBool(is))
		case op.Get:
			name := stack.Pop()
			value, err := environment.Lookup(name.String(), "")
			if err != nil {
				return errz.AsEvaluationError(errz.ErrLookup, err)
			}
			stack.Push(value)
		case op.GetQualified:
			name := stack.Pop()
			qualifier := stack.Pop()
			value, err := environment.Lookup(name.String(), qualifier.String())
			if err != nil {
				return errz.AsEvaluationError(errz.ErrLookup, err)
			}
			stack.Push(value)
		case op.Call:
			args := stack.PopN(e.Operand(address))
			target := stack.Pop()
			result, err := invoke(environment, target, args)
			if err != nil {
				return err
			}
			stack.Push(result)
		case op.End:
			return nil
		default:
			return errz.InternalErrorf("Unknown opcode %d at %04X", code, address)
		}
	}
}

func compare(environment env.Environment, code op.Code, a, b object.Value) bool {
	order, ok := environment.Compare(a, b)
	if !ok {
		return false
	}
	switch code {
	case op.Ceq, op.Jeq:
		return order == 0
	case op.Cne, op.Jne:
		return order != 0
	case op.Clt, op.Jlt:
		return order < 0
	case op.Cle, op.Jle:
		return order <= 0
	case op.Cgt, op.Jgt:
		return order > 0
	case op.Cge, op.Jge:
		return order >= 0
	}
	return false
}

func binary(environment env.Environment, code op.Code, a, b object.Value) (object.Value, error) {
	switch code {
	case op.Add:
		return environment.Add(a, b)
	case op.Sub:
		return environment.Sub(a, b)
	case op.Mul:
		return environment.Mul(a, b)
	case op.Div:
		return environment.Div(a, b)
	case op.Rem:
		return environment.Rem(a, b)
	case op.And:
		return environment.And(a, b)
	default:
		return environment.Or(a, b)
	}
}

func unary(environment env.Environment, code op.Code, a object.Value) (object.Value, error) {
	switch code {
	case op.Pos:
		return environment.Pos(a)
	case op.Neg:
		return environment.Neg(a)
	default:
		return environment.Not(a)
	}
}

func invoke(environment env.Environment, target object.Value, args []object.Value) (object.Value, error) {
	if target.IsNull() {
		return object.Null, errz.NewEvaluationError(errz.ErrInvocation, "Attempt to invoke null")
	}
	fn, ok := target.Function()
	if !ok {
		return object.Null, errz.EvaluationErrorf(errz.ErrInvocation,
			"Attempt to invoke non-function value %s", object.FormatLiteral(target))
	}
	result, err := environment.Invoke(fn, args...)
	if err != nil {
		return object.Null, errz.InvocationError(fn.Name(), object.FormatArgs(args), err)
	}
	return result, nil
}

func putOperand(b []byte, v int) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func getOperand(b []byte) int {
	v := int(b[0])<<16 | int(b[1])<<8 | int(b[2])
	if v&0x800000 != 0 {
		v -= 1 << 24
	}
	return v
}
