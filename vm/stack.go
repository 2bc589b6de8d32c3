package vm

import "github.com/prosuite/evaluation/object"

// Stack is the evaluation stack. It is owned by the caller of Execute and
// may be reused across executions, but never shared by concurrent ones.
type Stack struct {
	items []object.Value
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{items: make([]object.Value, 0, 16)}
}

func (s *Stack) Push(v object.Value) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top value. Popping an empty stack panics.
func (s *Stack) Pop() object.Value {
	n := len(s.items) - 1
	if n < 0 {
		panic("evaluation stack underflow")
	}
	v := s.items[n]
	s.items[n] = object.Null
	s.items = s.items[:n]
	return v
}

// Peek returns the value depth positions below the top without removing it.
func (s *Stack) Peek(depth int) object.Value {
	n := len(s.items) - 1 - depth
	if n < 0 {
		panic("evaluation stack underflow")
	}
	return s.items[n]
}

// PopN removes the top n values and returns them in push order.
func (s *Stack) PopN(n int) []object.Value {
	m := len(s.items) - n
	if m < 0 {
		panic("evaluation stack underflow")
	}
	values := make([]object.Value, n)
	copy(values, s.items[m:])
	clear(s.items[m:])
	s.items = s.items[:m]
	return values
}

func (s *Stack) Len() int {
	return len(s.items)
}

// Reset empties the stack, keeping its capacity.
func (s *Stack) Reset() {
	clear(s.items)
	s.items = s.items[:0]
}
