// Package op defines the opcodes executed by the evaluation engine.
package op

// Code is a one-byte opcode that indicates an operation to execute.
type Code byte

const (
	Nop Code = 0

	// Push constants
	Null  Code = 1
	False Code = 2
	True  Code = 3
	Zero  Code = 4
	Unit  Code = 5
	Empty Code = 6
	Pool  Code = 7

	// Stack
	Dup  Code = 10
	Dup1 Code = 11
	Pop  Code = 12
	Swap Code = 13

	// Jump
	Jmp Code = 20
	Jin Code = 21
	Jif Code = 22
	Jit Code = 23
	Jeq Code = 24
	Jne Code = 25
	Jlt Code = 26
	Jle Code = 27
	Jgt Code = 28
	Jge Code = 29

	// Compare
	Cin Code = 30
	Ceq Code = 31
	Cne Code = 32
	Clt Code = 33
	Cle Code = 34
	Cgt Code = 35
	Cge Code = 36

	// Arithmetic
	Add Code = 40
	Sub Code = 41
	Mul Code = 42
	Div Code = 43
	Rem Code = 44
	Pos Code = 45
	Neg Code = 46

	// Logic and types
	Not Code = 50
	And Code = 51
	Or  Code = 52
	Is  Code = 53

	// Lookup and invocation
	Get          Code = 60
	GetQualified Code = 61
	Call         Code = 62

	End Code = 255
)

// OperandSize is the width in bytes of every opcode operand: a signed 24-bit
// big-endian integer.
const OperandSize = 3

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
	Jump         bool
}

var infos [256]Info

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Add, "Add", 0},
		{And, "And", 0},
		{Call, "Call", 1},
		{Ceq, "Ceq", 0},
		{Cge, "Cge", 0},
		{Cgt, "Cgt", 0},
		{Cin, "Cin", 0},
		{Cle, "Cle", 0},
		{Clt, "Clt", 0},
		{Cne, "Cne", 0},
		{Div, "Div", 0},
		{Dup, "Dup", 0},
		{Dup1, "Dup1", 0},
		{Empty, "Empty", 0},
		{End, "End", 0},
		{False, "False", 0},
		{Get, "Get", 0},
		{GetQualified, "GetQualified", 0},
		{Is, "Is", 0},
		{Jeq, "Jeq", 1},
		{Jge, "Jge", 1},
		{Jgt, "Jgt", 1},
		{Jif, "Jif", 1},
		{Jin, "Jin", 1},
		{Jit, "Jit", 1},
		{Jle, "Jle", 1},
		{Jlt, "Jlt", 1},
		{Jmp, "Jmp", 1},
		{Jne, "Jne", 1},
		{Mul, "Mul", 0},
		{Neg, "Neg", 0},
		{Nop, "Nop", 0},
		{Not, "Not", 0},
		{Null, "Null", 0},
		{Or, "Or", 0},
		{Pool, "Pool", 1},
		{Pop, "Pop", 0},
		{Pos, "Pos", 0},
		{Rem, "Rem", 0},
		{Sub, "Sub", 0},
		{Swap, "Swap", 0},
		{True, "True", 0},
		{Unit, "Unit", 0},
		{Zero, "Zero", 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
			Jump:         o.op >= Jmp && o.op <= Jge,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes yield
// an Info with an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// IsJump reports whether the opcode is a jump taking a relative offset.
func IsJump(op Code) bool {
	return infos[op].Jump
}

// Size returns the number of bytes the instruction occupies, opcode included.
func Size(op Code) int {
	return 1 + infos[op].OperandCount*OperandSize
}

// String returns the opcode mnemonic.
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "?"
}
