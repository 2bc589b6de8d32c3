package vm

import "github.com/prosuite/evaluation/object"

// LiteralPool collects the constants referenced by a program. While
// building, equal values share one index; after Freeze the pool is a
// read-only slice.
type LiteralPool struct {
	index  map[object.Value]int
	values []object.Value
	frozen bool
}

// NewLiteralPool returns an empty pool.
func NewLiteralPool() *LiteralPool {
	return &LiteralPool{index: map[object.Value]int{}}
}

// Put adds value to the pool unless an equal value is already present and
// returns its index. Values wrapping non-comparable host types are always
// appended.
func (p *LiteralPool) Put(value object.Value) int {
	if p.frozen {
		panic("literal pool: put after freeze")
	}
	hashable := value.Hashable()
	if hashable {
		if i, ok := p.index[value]; ok {
			return i
		}
	}
	i := len(p.values)
	p.values = append(p.values, value)
	if hashable {
		p.index[value] = i
	}
	return i
}

// Freeze drops the build-time index. Further Put calls panic.
func (p *LiteralPool) Freeze() {
	p.frozen = true
	p.index = nil
}

// Frozen reports whether Freeze has been called.
func (p *LiteralPool) Frozen() bool {
	return p.frozen
}

// Get returns the value at index i.
func (p *LiteralPool) Get(i int) object.Value {
	return p.values[i]
}

// Len returns the number of values in the pool.
func (p *LiteralPool) Len() int {
	return len(p.values)
}
