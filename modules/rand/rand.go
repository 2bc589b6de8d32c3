// Package rand provides the random functions of the standard environment.
package rand

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/prosuite/evaluation/object"
)

// Generator is a source of random numbers shared by the RAND and RANDPICK
// functions of one environment. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator returns a Generator drawing from r. A nil r is replaced by
// a generator seeded from the current time.
func NewGenerator(r *rand.Rand) *Generator {
	g := &Generator{}
	g.Set(r)
	return g
}

// Set replaces the underlying generator. A nil r is replaced by a generator
// seeded from the current time.
func (g *Generator) Set(r *rand.Rand) {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.mu.Lock()
	g.rnd = r
	g.mu.Unlock()
}

func (g *Generator) float() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Float64()
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Intn(n)
}

// Random returns a random number. Without arguments it is a fraction in
// [0, 1). With one argument max it is an integer in [0, max), or zero if
// max is zero. With two arguments min and max it is an integer in
// [min, max), or min if the bounds are equal. Null bounds yield null.
func (g *Generator) Random(args ...object.Value) (object.Value, error) {
	switch len(args) {
	case 0:
		return object.NewNumber(g.float()), nil
	case 1:
		if args[0].IsNull() {
			return object.Null, nil
		}
		max, err := g.bound(args[0])
		if err != nil {
			return object.Null, err
		}
		if max < 0 {
			return object.Null, fmt.Errorf("RAND: max must not be negative, got %d", max)
		}
		if max == 0 {
			return object.Zero, nil
		}
		return object.NewNumber(float64(g.intn(max))), nil
	case 2:
		if args[0].IsNull() || args[1].IsNull() {
			return object.Null, nil
		}
		min, err := g.bound(args[0])
		if err != nil {
			return object.Null, err
		}
		max, err := g.bound(args[1])
		if err != nil {
			return object.Null, err
		}
		if min > max {
			return object.Null, fmt.Errorf("RAND: min must not exceed max, got %d and %d", min, max)
		}
		if min == max {
			return object.NewNumber(float64(min)), nil
		}
		return object.NewNumber(float64(min + g.intn(max-min))), nil
	default:
		return object.Null, fmt.Errorf("RAND: expected 0, 1 or 2 arguments, got %d", len(args))
	}
}

func (g *Generator) bound(v object.Value) (int, error) {
	if !v.IsNumber() {
		return 0, fmt.Errorf("RAND: invalid argument type: %s", v.Type())
	}
	return object.AsInt(v)
}

// Pick returns one of its arguments at random, or null if there are none.
func (g *Generator) Pick(args ...object.Value) (object.Value, error) {
	switch len(args) {
	case 0:
		return object.Null, nil
	case 1:
		return args[0], nil
	default:
		return args[g.intn(len(args))], nil
	}
}

// Builtins returns the functions of this package, bound to g, for
// registration in an environment.
func (g *Generator) Builtins() []*object.Builtin {
	return []*object.Builtin{
		object.NewBuiltin("RAND", 0, g.Random),
		object.NewBuiltin("RAND", 1, g.Random),
		object.NewBuiltin("RAND", 2, g.Random),
		object.NewBuiltin("RANDPICK", object.Variadic, g.Pick),
	}
}
