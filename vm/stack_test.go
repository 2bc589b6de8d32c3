package vm

import (
	"testing"

	"github.com/prosuite/evaluation/object"
	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	s := NewStack()
	s.Push(object.NewNumber(1))
	s.Push(object.NewNumber(2))
	s.Push(object.NewNumber(3))
	require.Equal(t, 3, s.Len())
	require.Equal(t, object.NewNumber(3), s.Peek(0))
	require.Equal(t, object.NewNumber(1), s.Peek(2))

	require.Equal(t, []object.Value{object.NewNumber(2), object.NewNumber(3)}, s.PopN(2))
	require.Equal(t, object.NewNumber(1), s.Pop())
	require.Equal(t, 0, s.Len())
	require.Equal(t, []object.Value{}, s.PopN(0))

	require.Panics(t, func() { s.Pop() })
	require.Panics(t, func() { s.Peek(0) })
	require.Panics(t, func() { s.PopN(1) })

	s.Push(object.True)
	s.Reset()
	require.Equal(t, 0, s.Len())
}

func TestLiteralPool(t *testing.T) {
	p := NewLiteralPool()
	require.Equal(t, 0, p.Put(object.NewString("a")))
	require.Equal(t, 1, p.Put(object.NewNumber(1)))
	require.Equal(t, 0, p.Put(object.NewString("a")))
	require.Equal(t, 2, p.Put(object.NewBool(true)))
	// the string "1" and the number 1 are distinct literals
	require.Equal(t, 3, p.Put(object.NewString("1")))

	slice := object.NewObject([]int{1})
	require.Equal(t, 4, p.Put(slice))
	require.Equal(t, 5, p.Put(slice))
	require.Equal(t, 6, p.Len())

	require.False(t, p.Frozen())
	p.Freeze()
	require.True(t, p.Frozen())
	require.Equal(t, object.NewNumber(1), p.Get(1))
	require.Panics(t, func() { p.Put(object.Null) })
}
