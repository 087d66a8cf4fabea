package fixture

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"

	"github.com/broady/fixture/random"
	"github.com/broady/fixture/typeinfo"
)

// CollectionSize is the number of elements CreateCollection generates.
const CollectionSize = 3

// Context is the state of one value being generated. It carries the
// requested type, the field the value is for, and a random source seeded
// for this value alone.
//
// A Context belongs to a single generation request and must not be used
// after the ValueGenerator it was passed to returns.
type Context struct {
	gen       *Generator
	fieldName string
	typ       typeinfo.Descriptor
	seed      int64
	random    *random.Source
	ledger    *ledger
}

func newContext(g *Generator, fieldName string, d typeinfo.Descriptor, seed int64, l *ledger) *Context {
	return &Context{
		gen:       g,
		fieldName: fieldName,
		typ:       d,
		seed:      seed,
		random:    random.New(seed),
		ledger:    l,
	}
}

// FieldName returns the name of the field or parameter the value is for, or
// "" when there is none.
func (c *Context) FieldName() string { return c.fieldName }

// Type returns the descriptor of the requested value.
func (c *Context) Type() typeinfo.Descriptor { return c.typ }

// Seed returns the seed of this value's random source.
func (c *Context) Seed() int64 { return c.seed }

// Random returns the random source of this value.
func (c *Context) Random() *random.Source { return c.random }

// Registry returns the registry types are resolved with.
func (c *Context) Registry() *typeinfo.Registry { return c.gen.registry }

// Logger returns the generator's logger.
func (c *Context) Logger() *slog.Logger { return c.gen.getLogger() }

// Create generates a value of type d for the named field. The child seed is
// derived from fieldName and this context's seed.
func (c *Context) Create(fieldName string, d typeinfo.Descriptor) (any, error) {
	child := newContext(c.gen, fieldName, d, DeriveSeed(fieldName, c.seed), c.ledger)
	return child.run()
}

// CreateCollection generates CollectionSize values of type d.
func (c *Context) CreateCollection(fieldName string, d typeinfo.Descriptor) ([]any, error) {
	return c.CreateN(fieldName, d, CollectionSize)
}

// CreateN generates n values of type d. Each element is seeded with the next
// value drawn from this context's random source, so the elements depend on
// their position and not on their name.
func (c *Context) CreateN(fieldName string, d typeinfo.Descriptor, n int) ([]any, error) {
	out := make([]any, n)
	for i := range out {
		child := newContext(c.gen, fieldName, d, c.random.Int64(), c.ledger)
		v, err := child.run()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// run generates the value and passes it through every transformer.
func (c *Context) run() (any, error) {
	v, err := c.generate()
	if err != nil {
		return nil, err
	}
	for _, t := range c.gen.transformers {
		if v, err = t.Transform(v); err != nil {
			// The type has left the ledger by now.
			trace := append([]string{c.typ.String()}, c.ledger.trace()...)
			return nil, wrapError(err, c.typ, trace)
		}
	}
	return v, nil
}

func (c *Context) generate() (v any, err error) {
	if !c.ledger.enter(c.typ) {
		return c.cyclic()
	}
	defer c.ledger.exit(c.typ)
	defer func() {
		if rec := recover(); rec != nil {
			c.Logger().Error("PANIC recovered",
				slog.String("type", c.typ.String()),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			v, err = nil, wrapError(fmt.Errorf("panic: %v", rec), c.typ, c.ledger.trace())
		}
	}()

	for _, g := range c.gen.generators {
		out, genErr := g.Generate(c)
		if genErr != nil {
			return nil, wrapError(genErr, c.typ, c.ledger.trace())
		}
		if !isNoValue(out) {
			return out, nil
		}
	}
	return c.noValue()
}

func (c *Context) cyclic() (any, error) {
	if c.gen.ignoreCycles {
		c.Logger().Debug("ignoring cyclic reference",
			slog.String("type", c.typ.String()),
			slog.String("field", c.fieldName))
		return nil, nil
	}
	return nil, cyclicError(c.typ, c.ledger.trace())
}

func (c *Context) noValue() (any, error) {
	if c.gen.ignoreNoValue {
		c.Logger().Debug("no value produced",
			slog.String("type", c.typ.String()),
			slog.String("field", c.fieldName))
		return nil, nil
	}
	return nil, noValueError(c.typ, c.ledger.trace())
}

// ledger is the ordered set of types under construction within one request.
// It is shared by every Context of the request.
type ledger struct {
	order []typeinfo.Descriptor
	keys  map[string]bool
}

func newLedger() *ledger {
	return &ledger{keys: make(map[string]bool)}
}

func (l *ledger) enter(d typeinfo.Descriptor) bool {
	k := d.Key()
	if l.keys[k] {
		return false
	}
	l.keys[k] = true
	l.order = append(l.order, d)
	return true
}

func (l *ledger) exit(d typeinfo.Descriptor) {
	k := d.Key()
	delete(l.keys, k)
	for i := len(l.order) - 1; i >= 0; i-- {
		if l.order[i].Key() == k {
			l.order = slices.Delete(l.order, i, i+1)
			return
		}
	}
}

// trace returns the types under construction, innermost first.
func (l *ledger) trace() []string {
	out := make([]string, len(l.order))
	for i, d := range l.order {
		out[len(out)-1-i] = d.String()
	}
	return out
}
