// Package fixture synthesizes fully populated values of arbitrary Go types
// for use as test fixtures.
//
// A [Generator] builds a value by offering each requested type to an ordered
// chain of [ValueGenerator] strategies; the first one that produces a value
// wins. Structs are built by the [ConstructingGenerator], which instantiates
// them and then generates every field recursively, with type parameters
// resolved through any number of embedding levels (see package typeinfo).
//
// Generation is a pure function of the root seed, the type graph and the
// configuration:
//
//	g := fixture.New()
//	user, err := fixture.Deterministic[User](g)
//
// produces the same User on every run, while [Randomized] draws a fresh root
// seed each call. Every nested value gets its own seed, derived from its
// field name and the parent's seed, so adding a field does not change the
// values of its siblings.
//
// Types that recur while they are still under construction are reported as
// cyclic references, and types no strategy can produce (such as interfaces
// without registered implementations) are reported as having no value.
// Both can be turned into nil values instead:
//
//	g := fixture.New().
//		WithIgnoreCyclicReferences(true).
//		WithImplementations(reflect.TypeFor[Shape](), reflect.TypeFor[Circle](), reflect.TypeFor[Square]())
package fixture

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/broady/fixture/typeinfo"
)

// Generator creates fixtures. Configure it with the WithX methods before the
// first Create call; a configured Generator may then be used concurrently,
// each call being an independent request.
type Generator struct {
	registry      *typeinfo.Registry
	overrides     *DelegatingGenerator
	ordinary      []ValueGenerator
	generators    []ValueGenerator
	transformers  []Transformer
	ignoreCycles  bool
	ignoreNoValue bool
	logger        *slog.Logger
	validate      *validator.Validate
}

// New returns a Generator with the default chain: overrides, enums, bools,
// times and durations, numbers, strings, UUIDs, slices and arrays, maps,
// pointers and finally construction.
func New() *Generator {
	g := &Generator{
		registry:  typeinfo.NewRegistry(),
		overrides: NewDelegatingGenerator(),
	}
	return g.WithGenerators(DefaultGenerators()...)
}

// DefaultGenerators returns the ordinary chain of a new Generator, without
// the overrides that always come first.
func DefaultGenerators() []ValueGenerator {
	return []ValueGenerator{
		EnumGenerator{},
		BoolGenerator{},
		TimeGenerator{},
		NumberGenerator{},
		StringGenerator{},
		UUIDGenerator{},
		SliceGenerator{},
		MapGenerator{},
		PointerGenerator{},
		ConstructingGenerator{},
	}
}

func (g *Generator) rebuild() {
	g.generators = make([]ValueGenerator, 0, len(g.ordinary)+1)
	g.generators = append(g.generators, g.overrides)
	g.generators = append(g.generators, g.ordinary...)
}

// Registry returns the registry used to describe and resolve types.
// Declared classes are added to it with Registry().Declare.
func (g *Generator) Registry() *typeinfo.Registry { return g.registry }

// Generators returns a copy of the ordinary chain.
func (g *Generator) Generators() []ValueGenerator {
	return append([]ValueGenerator(nil), g.ordinary...)
}

// WithGenerators replaces the ordinary chain. Overrides registered with
// WithOverride and WithImplementations are still consulted first.
func (g *Generator) WithGenerators(gens ...ValueGenerator) *Generator {
	for _, gen := range gens {
		if gen == nil {
			panic("fixture: nil generator")
		}
	}
	g.ordinary = append([]ValueGenerator(nil), gens...)
	g.rebuild()
	return g
}

// WithGenerator adds gen to the chain, right before the ConstructingGenerator
// if the chain ends with one, otherwise at the end.
func (g *Generator) WithGenerator(gen ValueGenerator) *Generator {
	if gen == nil {
		panic("fixture: nil generator")
	}
	n := len(g.ordinary)
	if n > 0 {
		if _, ok := g.ordinary[n-1].(ConstructingGenerator); ok {
			g.ordinary = append(g.ordinary[:n-1:n-1], gen, g.ordinary[n-1])
			g.rebuild()
			return g
		}
	}
	g.ordinary = append(g.ordinary, gen)
	g.rebuild()
	return g
}

// WithOverride makes gen the only generator consulted for values whose type
// is exactly t.
func (g *Generator) WithOverride(t reflect.Type, gen ValueGenerator) *Generator {
	if t == nil || gen == nil {
		panic("fixture: WithOverride requires a type and a generator")
	}
	g.overrides.Assign(t, gen)
	return g
}

// WithClassOverride makes gen the only generator consulted for values of the
// declared class c.
func (g *Generator) WithClassOverride(c *typeinfo.Class, gen ValueGenerator) *Generator {
	if c == nil || gen == nil {
		panic("fixture: WithClassOverride requires a class and a generator")
	}
	g.overrides.AssignClass(c, gen)
	return g
}

// WithImplementations generates values of iface by picking one of impls
// uniformly. It panics if impls is empty or a type does not implement iface.
func (g *Generator) WithImplementations(iface reflect.Type, impls ...reflect.Type) *Generator {
	sg, err := NewSubclassGenerator(iface, impls...)
	if err != nil {
		panic("fixture: " + err.Error())
	}
	return g.WithOverride(iface, sg)
}

// WithTransformer appends t to the transformers applied to every value.
func (g *Generator) WithTransformer(t Transformer) *Generator {
	if t == nil {
		panic("fixture: nil transformer")
	}
	g.transformers = append(g.transformers, t)
	return g
}

// WithInterceptor appends an interceptor that observes every value.
func (g *Generator) WithInterceptor(fn func(value any)) *Generator {
	if fn == nil {
		panic("fixture: nil interceptor")
	}
	return g.WithTransformer(Intercept(fn))
}

// WithEnum restricts the values generated for the type of values to values.
// All values must have the same type.
func (g *Generator) WithEnum(values ...any) *Generator {
	if len(values) == 0 || values[0] == nil {
		panic("fixture: WithEnum requires at least one non-nil value")
	}
	if err := g.registry.SetValues(reflect.TypeOf(values[0]), values...); err != nil {
		panic("fixture: " + err.Error())
	}
	return g
}

// WithConstructor registers fn, a func(A, B, ...) T or func(A, B, ...)
// (T, error), as a constructor of T. Values built by fn are not populated
// further. names label the parameters.
func (g *Generator) WithConstructor(fn any, names ...string) *Generator {
	if _, err := g.registry.AddConstructor(fn, names...); err != nil {
		panic("fixture: " + err.Error())
	}
	return g
}

// WithIgnoreCyclicReferences makes cyclic references generate nil instead of
// failing.
func (g *Generator) WithIgnoreCyclicReferences(ignore bool) *Generator {
	g.ignoreCycles = ignore
	return g
}

// WithIgnoreNoValue makes types no generator can produce generate nil
// instead of failing.
func (g *Generator) WithIgnoreNoValue(ignore bool) *Generator {
	g.ignoreNoValue = ignore
	return g
}

// WithLogger sets the logger. Generation logs ignored outcomes and failed
// constructors at debug level.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.logger = logger
	return g
}

// WithValidator validates generated root structs with v.
func (g *Generator) WithValidator(v *validator.Validate) *Generator {
	g.validate = v
	return g
}

func (g *Generator) getLogger() *slog.Logger {
	if g.logger == nil {
		return slog.Default()
	}
	return g.logger
}

// CreateDeterministic generates a value of type t with root seed 0.
func (g *Generator) CreateDeterministic(t reflect.Type) (any, error) {
	return g.CreateWithSeed(t, 0)
}

// CreateRandomized generates a value of type t with a random root seed.
func (g *Generator) CreateRandomized(t reflect.Type) (any, error) {
	return g.CreateWithSeed(t, rand.Int64())
}

// CreateWithSeed generates a value of type t from seed.
func (g *Generator) CreateWithSeed(t reflect.Type, seed int64) (any, error) {
	if t == nil {
		return nil, &Error{Code: CodeUnresolvableType, Message: "nil type"}
	}
	return g.CreateDescriptor(g.registry.Describe(t), seed)
}

// CreateDescriptor generates a value of the type described by d from seed.
// It is the entry point for declared classes.
func (g *Generator) CreateDescriptor(d typeinfo.Descriptor, seed int64) (any, error) {
	if d.IsZero() {
		return nil, &Error{Code: CodeUnresolvableType, Message: "missing type"}
	}
	ctx := newContext(g, "", d, seed, newLedger())
	v, err := ctx.run()
	if err != nil {
		return nil, err
	}
	if err := g.validateRoot(v); err != nil {
		return nil, err
	}
	g.getLogger().Debug("fixture generated",
		slog.String("type", d.String()),
		slog.Int64("seed", seed))
	return v, nil
}

// Deterministic generates a T with root seed 0.
func Deterministic[T any](g *Generator) (T, error) {
	return WithSeed[T](g, 0)
}

// Randomized generates a T with a random root seed.
func Randomized[T any](g *Generator) (T, error) {
	return WithSeed[T](g, rand.Int64())
}

// WithSeed generates a T from seed. A nil result, possible when ignore
// options are set, is returned as the zero T.
func WithSeed[T any](g *Generator, seed int64) (T, error) {
	var zero T
	v, err := g.CreateWithSeed(reflect.TypeFor[T](), seed)
	if err != nil || v == nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, &Error{
			Code:    CodeInternal,
			Message: fmt.Sprintf("generated %T, want %s", v, reflect.TypeFor[T]()),
			Type:    reflect.TypeFor[T]().String(),
		}
	}
	return out, nil
}
