package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(Pool)
	require.Equal(t, "Pool", info.Name)
	require.Equal(t, 1, info.OperandCount)
	require.Equal(t, Pool, info.Code)
	require.False(t, info.Jump)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code     Code
		name     string
		operands int
	}{
		{Nop, "Nop", 0},
		{Null, "Null", 0},
		{False, "False", 0},
		{True, "True", 0},
		{Zero, "Zero", 0},
		{Unit, "Unit", 0},
		{Empty, "Empty", 0},
		{Pool, "Pool", 1},
		{Dup, "Dup", 0},
		{Dup1, "Dup1", 0},
		{Pop, "Pop", 0},
		{Swap, "Swap", 0},
		{Jmp, "Jmp", 1},
		{Jin, "Jin", 1},
		{Jif, "Jif", 1},
		{Jit, "Jit", 1},
		{Jeq, "Jeq", 1},
		{Jne, "Jne", 1},
		{Jlt, "Jlt", 1},
		{Jle, "Jle", 1},
		{Jgt, "Jgt", 1},
		{Jge, "Jge", 1},
		{Cin, "Cin", 0},
		{Ceq, "Ceq", 0},
		{Cne, "Cne", 0},
		{Clt, "Clt", 0},
		{Cle, "Cle", 0},
		{Cgt, "Cgt", 0},
		{Cge, "Cge", 0},
		{Add, "Add", 0},
		{Sub, "Sub", 0},
		{Mul, "Mul", 0},
		{Div, "Div", 0},
		{Rem, "Rem", 0},
		{Pos, "Pos", 0},
		{Neg, "Neg", 0},
		{Not, "Not", 0},
		{And, "And", 0},
		{Or, "Or", 0},
		{Is, "Is", 0},
		{Get, "Get", 0},
		{GetQualified, "GetQualified", 0},
		{Call, "Call", 1},
		{End, "End", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.operands, info.OperandCount)
			require.Equal(t, tt.code, info.Code)
			require.Equal(t, tt.name, tt.code.String())
			require.Equal(t, 1+3*tt.operands, Size(tt.code))
		})
	}
}

func TestIsJump(t *testing.T) {
	for _, code := range []Code{Jmp, Jin, Jif, Jit, Jeq, Jne, Jlt, Jle, Jgt, Jge} {
		require.True(t, IsJump(code), code.String())
	}
	for _, code := range []Code{Nop, Pool, Call, Ceq, End, Dup} {
		require.False(t, IsJump(code), code.String())
	}
}

func TestUnknownOpcode(t *testing.T) {
	info := GetInfo(Code(200))
	require.Equal(t, "", info.Name)
	require.Equal(t, "?", Code(200).String())
}
