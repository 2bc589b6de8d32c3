// Package dis supports analysis of compiled expressions by disassembling
// their bytecode.
package dis

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/prosuite/evaluation/object"
	"github.com/prosuite/evaluation/op"
	"github.com/prosuite/evaluation/vm"
)

// Instruction represents a single bytecode instruction and its operand.
type Instruction struct {
	Offset  int
	Name    string
	Opcode  op.Code
	Operand int
	// Target is the absolute address of a jump, or -1.
	Target int
	// Constant is the pooled value pushed by a Pool instruction.
	Constant   object.Value
	Annotation string
}

// HasOperand reports whether the instruction carries an operand.
func (i Instruction) HasOperand() bool {
	return op.GetInfo(i.Opcode).OperandCount > 0
}

// String formats the instruction the way Dump writes it.
func (i Instruction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04X  %s", i.Offset, i.Name)
	switch {
	case i.Target >= 0:
		fmt.Fprintf(&sb, " %04X", i.Target)
	case i.HasOperand():
		fmt.Fprintf(&sb, " #%d", i.Operand)
		for sb.Len() < 20 {
			sb.WriteByte(' ')
		}
		sb.WriteString("// ")
		sb.WriteString(i.Annotation)
	}
	return sb.String()
}

// Disassemble decodes the program of a committed engine.
func Disassemble(e *vm.Engine) ([]Instruction, error) {
	if !e.Committed() {
		return nil, errors.New("engine is not committed")
	}
	program := e.Instructions()
	var instructions []Instruction
	for offset := 0; offset < len(program); {
		code := op.Code(program[offset])
		info := op.GetInfo(code)
		if info.Name == "" {
			return nil, fmt.Errorf("unknown opcode %d at %04X", code, offset)
		}
		size := op.Size(code)
		if offset+size > len(program) {
			return nil, fmt.Errorf("truncated %s instruction at %04X", info.Name, offset)
		}
		instr := Instruction{
			Offset: offset,
			Name:   info.Name,
			Opcode: code,
			Target: -1,
		}
		if info.OperandCount > 0 {
			instr.Operand = e.Operand(offset)
		}
		switch {
		case code == op.Pool:
			if instr.Operand < 0 || instr.Operand >= e.LiteralCount() {
				return nil, fmt.Errorf("literal index out of range: %d", instr.Operand)
			}
			instr.Constant = e.Literal(instr.Operand)
			instr.Annotation = object.FormatLiteral(instr.Constant)
		case code == op.Call:
			instr.Annotation = fmt.Sprintf("arity = %d", instr.Operand)
		case info.Jump:
			instr.Target = offset + instr.Operand
		}
		instructions = append(instructions, instr)
		offset += size
	}
	return instructions, nil
}

// Dump writes one line per instruction: the address in hex, the mnemonic,
// and the operand with the literal or arity it refers to.
func Dump(instructions []Instruction, writer io.Writer) error {
	for _, instr := range instructions {
		if _, err := fmt.Fprintln(writer, instr.String()); err != nil {
			return err
		}
	}
	return nil
}

var (
	offsetColor   = color.New(color.Faint)
	opcodeColor   = color.New(color.Bold)
	jumpColor     = color.New(color.FgCyan)
	numberColor   = color.New(color.FgYellow)
	stringColor   = color.New(color.FgGreen)
	constantColor = color.New(color.FgMagenta)
)

// Print writes the instructions like Dump, highlighted for a terminal.
// Colors follow the fatih/color settings, so output to a pipe is plain.
func Print(instructions []Instruction, writer io.Writer) {
	for _, instr := range instructions {
		var sb strings.Builder
		sb.WriteString(offsetColor.Sprintf("%04X", instr.Offset))
		sb.WriteString("  ")
		sb.WriteString(opcodeColor.Sprint(instr.Name))
		width := len(instr.Name)
		switch {
		case instr.Target >= 0:
			sb.WriteString(jumpColor.Sprintf(" %04X", instr.Target))
		case instr.HasOperand():
			operand := fmt.Sprintf(" #%d", instr.Operand)
			sb.WriteString(operand)
			for n := 6 + width + len(operand); n < 20; n++ {
				sb.WriteByte(' ')
			}
			sb.WriteString("// ")
			sb.WriteString(annotationColor(instr).Sprint(instr.Annotation))
		}
		fmt.Fprintln(writer, sb.String())
	}
}

func annotationColor(instr Instruction) *color.Color {
	if instr.Opcode != op.Pool {
		return jumpColor
	}
	switch {
	case instr.Constant.IsNumber():
		return numberColor
	case instr.Constant.IsString():
		return stringColor
	default:
		return constantColor
	}
}
