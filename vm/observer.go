package vm

import (
	"github.com/prosuite/evaluation/object"
	"github.com/prosuite/evaluation/op"
)

// StepEvent describes the instruction about to be executed.
type StepEvent struct {
	Address    int
	Opcode     op.Code
	StackDepth int
	// Top is the value on top of the stack, or null if the stack is empty.
	Top object.Value
}

// Observer receives execution events. Returning false from OnStep halts
// execution with an error.
type Observer interface {
	OnStep(event StepEvent) bool
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event StepEvent) bool

func (f ObserverFunc) OnStep(event StepEvent) bool {
	return f(event)
}
