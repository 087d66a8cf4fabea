package fixture

import (
	"reflect"
	"sync"

	"github.com/broady/fixture/typeinfo"
)

// ValueGenerator is one strategy of the generator chain.
//
// Generate returns the value for ctx.Type(), or NoValue to let the next
// strategy in the chain try. A generator must not retain ctx after it
// returns.
type ValueGenerator interface {
	Generate(ctx *Context) (any, error)
}

// GeneratorFunc adapts a function to a ValueGenerator.
type GeneratorFunc func(ctx *Context) (any, error)

func (f GeneratorFunc) Generate(ctx *Context) (any, error) { return f(ctx) }

type noValue struct{}

func (noValue) String() string { return "NoValue" }

// NoValue is returned by a ValueGenerator that declines to produce a value.
var NoValue any = noValue{}

func isNoValue(v any) bool {
	_, ok := v.(noValue)
	return ok
}

// DelegatingGenerator dispatches to the generator assigned to the exact raw
// type of the requested descriptor. It declines every other type.
type DelegatingGenerator struct {
	mu      sync.RWMutex
	types   map[reflect.Type]ValueGenerator
	classes map[*typeinfo.Class]ValueGenerator
}

// NewDelegatingGenerator returns a DelegatingGenerator with no assignments.
func NewDelegatingGenerator() *DelegatingGenerator {
	return &DelegatingGenerator{
		types:   make(map[reflect.Type]ValueGenerator),
		classes: make(map[*typeinfo.Class]ValueGenerator),
	}
}

// Assign makes g the generator for values of type t, replacing any earlier
// assignment.
func (d *DelegatingGenerator) Assign(t reflect.Type, g ValueGenerator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.types[t] = g
}

// AssignClass makes g the generator for a declared class.
func (d *DelegatingGenerator) AssignClass(c *typeinfo.Class, g ValueGenerator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.classes[c] = g
}

func (d *DelegatingGenerator) Generate(ctx *Context) (any, error) {
	raw := ctx.Type().Raw()
	d.mu.RLock()
	var g ValueGenerator
	var ok bool
	if raw.Reflected() {
		g, ok = d.types[raw.Go]
	} else {
		g, ok = d.classes[raw]
	}
	d.mu.RUnlock()
	if !ok {
		return NoValue, nil
	}
	return g.Generate(ctx)
}
