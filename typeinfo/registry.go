package typeinfo

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Registry is the descriptor table. Classes derived from Go types are built
// by reflection on first use and cached; declared classes are added with
// Declare.
//
// A Registry is safe for concurrent use. Classes it returns must be treated as
// read-only once generation has started.
type Registry struct {
	mu        sync.RWMutex
	reflected map[reflect.Type]*Class
	declared  map[string]*Class
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		reflected: make(map[reflect.Type]*Class),
		declared:  make(map[string]*Class),
	}
}

// Of returns the class of the Go type t.
func (r *Registry) Of(t reflect.Type) *Class {
	r.mu.RLock()
	c, ok := r.reflected[t]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.reflected[t]; ok {
		return c
	}
	c = reflectClass(t)
	r.reflected[t] = c
	return c
}

// Describe returns the descriptor of the Go type t, with element descriptors
// as type arguments for slices, arrays, pointers and maps.
func (r *Registry) Describe(t reflect.Type) Descriptor {
	return r.describe(t, make(map[reflect.Type]bool))
}

func (r *Registry) describe(t reflect.Type, visiting map[reflect.Type]bool) Descriptor {
	c := r.Of(t)
	if visiting[t] {
		// Recursive composite such as `type L []L`.
		return NewDescriptor(c)
	}
	visiting[t] = true
	defer delete(visiting, t)

	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Pointer:
		return NewDescriptor(c, r.describe(t.Elem(), visiting))
	case reflect.Map:
		return NewDescriptor(c, r.describe(t.Key(), visiting), r.describe(t.Elem(), visiting))
	default:
		return NewDescriptor(c)
	}
}

// Declare adds a declared class to the registry and returns it.
//
// Missing parts are defaulted: instances are *Object values, the constructor
// creates an empty Object, and field setters store into the Object.
func (r *Registry) Declare(c *Class) (*Class, error) {
	if c == nil {
		return nil, errors.New("typeinfo: nil class")
	}
	if c.Name == "" {
		return nil, errors.New("typeinfo: class name is required")
	}
	seen := make(map[string]bool, len(c.Params))
	for _, p := range c.Params {
		if p == "" {
			return nil, fmt.Errorf("typeinfo: class %s has an empty type parameter name", c.Name)
		}
		if seen[p] {
			return nil, fmt.Errorf("typeinfo: class %s declares type parameter %s twice", c.Name, p)
		}
		seen[p] = true
	}

	if c.Go == nil {
		c.Go = objectType
	}
	if c.Go == objectType {
		if len(c.Constructors) == 0 && !c.Abstract {
			c.Constructors = []ConstructorDecl{{
				New: func([]any) (any, error) { return NewObject(c), nil },
			}}
		}
		for i := range c.Fields {
			if c.Fields[i].Set == nil {
				c.Fields[i].Set = objectSetter(c.Fields[i].Name)
			}
		}
	}

	key := c.QualifiedName()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.declared[key]; exists {
		return nil, fmt.Errorf("typeinfo: class %s already declared", key)
	}
	r.declared[key] = c
	return c, nil
}

// Lookup returns a declared class by package path and name.
func (r *Registry) Lookup(pkgPath, name string) (*Class, bool) {
	key := name
	if pkgPath != "" {
		key = pkgPath + "." + name
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.declared[key]
	return c, ok
}

// SetConstructors replaces the constructors of the Go type t.
func (r *Registry) SetConstructors(t reflect.Type, ctors ...ConstructorDecl) {
	c := r.Of(t)
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Constructors = append([]ConstructorDecl(nil), ctors...)
	c.implicitCtor = false
}

// AddConstructor registers fn as a constructor of its result type. The first
// constructor registered for a type replaces the implicit zero-value one.
func (r *Registry) AddConstructor(fn any, names ...string) (reflect.Type, error) {
	t, decl, err := ConstructorFunc(fn, names...)
	if err != nil {
		return nil, err
	}
	c := r.Of(t)
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.implicitCtor {
		c.Constructors = nil
		c.implicitCtor = false
	}
	c.Constructors = append(c.Constructors, decl)
	return t, nil
}

// SetValues registers a closed set of values for the Go type t. Every value
// must be of type t.
func (r *Registry) SetValues(t reflect.Type, values ...any) error {
	for _, v := range values {
		if reflect.TypeOf(v) != t {
			return fmt.Errorf("typeinfo: value %v is %T, not %s", v, v, t)
		}
	}
	c := r.Of(t)
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Values = append([]any(nil), values...)
	return nil
}

// ConstructorFunc builds a fully initializing constructor declaration from a
// Go function of the form func(A, B, ...) T or func(A, B, ...) (T, error).
// names label the parameters in order.
func ConstructorFunc(fn any, names ...string) (reflect.Type, ConstructorDecl, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, ConstructorDecl{}, fmt.Errorf("typeinfo: constructor must be a function, got %T", fn)
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return nil, ConstructorDecl{}, fmt.Errorf("typeinfo: variadic constructor %s is not supported", ft)
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, ConstructorDecl{}, fmt.Errorf("typeinfo: constructor %s must return T or (T, error)", ft)
	}

	params := make([]Expr, ft.NumIn())
	for i := range params {
		params[i] = Reflected{T: ft.In(i)}
	}
	decl := ConstructorDecl{
		Params:           params,
		Names:            append([]string(nil), names...),
		FullyInitializes: true,
		New: func(args []any) (any, error) {
			if len(args) != ft.NumIn() {
				return nil, fmt.Errorf("constructor %s takes %d arguments, got %d", ft, ft.NumIn(), len(args))
			}
			in := make([]reflect.Value, len(args))
			for i, a := range args {
				v, err := valueOf(ft.In(i), a)
				if err != nil {
					return nil, fmt.Errorf("argument %d: %w", i, err)
				}
				in[i] = v
			}
			out := fv.Call(in)
			if len(out) == 2 && !out[1].IsNil() {
				return nil, out[1].Interface().(error)
			}
			return out[0].Interface(), nil
		},
	}
	return ft.Out(0), decl, nil
}

var errorType = reflect.TypeFor[error]()
