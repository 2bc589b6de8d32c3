package vm

import (
	"github.com/prosuite/evaluation/errz"
	"github.com/prosuite/evaluation/op"
)

// Label is a handle to a jump target that may be defined after jumps to it
// have been emitted.
type Label int

const undefined = -1

// fixup records a jump at address whose operand must be patched with the
// offset to label.
type fixup struct {
	address int
	label   Label
}

// ObtainLabel allocates a new, undefined label.
func (e *Engine) ObtainLabel() Label {
	e.mustBeBuilding()
	e.labels = append(e.labels, undefined)
	return Label(len(e.labels) - 1)
}

// DefineLabel binds label to the current end of the program. A label may
// be defined only once.
func (e *Engine) DefineLabel(label Label) {
	e.mustBeBuilding()
	if !e.validLabel(label) {
		e.fail(errz.SyntaxErrorf(len(e.program), "Invalid label: %d", label))
		return
	}
	if e.labels[label] != undefined {
		e.fail(errz.SyntaxErrorf(len(e.program), "Label %d is already defined", label))
		return
	}
	e.labels[label] = len(e.program)
}

// EmitJump appends a jump to label. The target offset is patched by Commit.
func (e *Engine) EmitJump(code op.Code, label Label) {
	e.mustBeBuilding()
	if !op.IsJump(code) {
		e.fail(errz.SyntaxErrorf(len(e.program), "Not a jump opcode: %s", code))
		return
	}
	if !e.validLabel(label) {
		e.fail(errz.SyntaxErrorf(len(e.program), "Invalid label: %d", label))
		return
	}
	e.fixups = append(e.fixups, fixup{address: len(e.program), label: label})
	e.emit(code, 0)
}

func (e *Engine) validLabel(label Label) bool {
	return label >= 0 && int(label) < len(e.labels)
}

// resolve patches every recorded jump with the relative offset from the
// jump instruction to its target label.
func (e *Engine) resolve() error {
	for _, f := range e.fixups {
		target := e.labels[f.label]
		if target == undefined {
			return errz.SyntaxErrorf(f.address, "Label %d is used but not defined", f.label)
		}
		if !op.IsJump(op.Code(e.program[f.address])) {
			return errz.SyntaxErrorf(f.address, "Fixup at %04X is not a jump instruction", f.address)
		}
		offset := target - f.address
		if offset < minOperand || offset > maxOperand {
			return errz.SyntaxErrorf(f.address, "Jump offset %d out of range", offset)
		}
		putOperand(e.program[f.address+1:], offset)
	}
	return nil
}
