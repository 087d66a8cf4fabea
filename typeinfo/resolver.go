package typeinfo

import (
	"fmt"
	"reflect"
)

// Mapping binds type variable names of one class to concrete descriptors.
type Mapping map[string]Descriptor

// MappingFor binds the type parameters declared by d's class to d's type
// arguments, in declaration order. Parameters without an argument stay
// unbound.
func MappingFor(d Descriptor) Mapping {
	c := d.Raw()
	if c == nil || len(c.Params) == 0 {
		return nil
	}
	m := make(Mapping, len(c.Params))
	for i, p := range c.Params {
		if i < d.NumParams() {
			m[p] = d.Param(i)
		}
	}
	return m
}

// Field is a field with its concrete type.
type Field struct {
	Name string
	Type Descriptor

	// Set assigns a value of Type to the field of an instance of the
	// descriptor the field was resolved from.
	Set func(instance, value any) error
}

// Constructor is a constructor with concrete parameter types.
type Constructor struct {
	Params           []Descriptor
	Names            []string
	FullyInitializes bool
	New              func(args []any) (any, error)
}

// Resolve reduces e to a concrete descriptor, substituting variables from m.
func (r *Registry) Resolve(e Expr, m Mapping) (Descriptor, error) {
	switch e := e.(type) {
	case Reflected:
		if e.T == nil {
			return Descriptor{}, unresolvable(e, "nil type")
		}
		return r.Describe(e.T), nil

	case Named:
		if e.Class == nil {
			return Descriptor{}, unresolvable(e, "nil class")
		}
		if len(e.Args) > 0 && len(e.Args) != len(e.Class.Params) {
			return Descriptor{}, unresolvable(e, "%s takes %d type arguments, got %d",
				e.Class.Name, len(e.Class.Params), len(e.Args))
		}
		args := make([]Descriptor, len(e.Args))
		for i, a := range e.Args {
			d, err := r.Resolve(a, m)
			if err != nil {
				return Descriptor{}, err
			}
			args[i] = d
		}
		return NewDescriptor(e.Class, args...), nil

	case Var:
		if d, ok := m[e.Name]; ok {
			return d, nil
		}
		return Descriptor{}, unresolvable(e, "unbound type variable")

	case SliceOf:
		elem, err := r.Resolve(e.Elem, m)
		if err != nil {
			return Descriptor{}, err
		}
		return NewDescriptor(r.Of(reflect.SliceOf(elem.GoType())), elem), nil

	case ArrayOf:
		if e.Len < 0 {
			return Descriptor{}, unresolvable(e, "negative length")
		}
		elem, err := r.Resolve(e.Elem, m)
		if err != nil {
			return Descriptor{}, err
		}
		return NewDescriptor(r.Of(reflect.ArrayOf(e.Len, elem.GoType())), elem), nil

	case MapOf:
		key, err := r.Resolve(e.Key, m)
		if err != nil {
			return Descriptor{}, err
		}
		if !key.GoType().Comparable() {
			return Descriptor{}, unresolvable(e, "map key %s is not comparable", key)
		}
		elem, err := r.Resolve(e.Elem, m)
		if err != nil {
			return Descriptor{}, err
		}
		return NewDescriptor(r.Of(reflect.MapOf(key.GoType(), elem.GoType())), key, elem), nil

	case PointerTo:
		elem, err := r.Resolve(e.Elem, m)
		if err != nil {
			return Descriptor{}, err
		}
		return NewDescriptor(r.Of(reflect.PointerTo(elem.GoType())), elem), nil

	case nil:
		return Descriptor{}, &UnresolvableError{Type: "<nil>", Reason: "missing type"}
	default:
		return Descriptor{}, unresolvable(e, "unsupported type shape")
	}
}

// Fields returns the settable fields of d: those declared on d's class
// followed by those of each embedded type, depth first. Type variables are
// substituted level by level, so a field typed with a variable of an
// intermediate embedding resolves through every level above it.
func (r *Registry) Fields(d Descriptor) ([]Field, error) {
	if d.IsZero() {
		return nil, &UnresolvableError{Type: "<nil>", Reason: "missing type"}
	}
	var fields []Field
	if err := r.collectFields(d, nil, &fields, map[*Class]bool{}); err != nil {
		return nil, err
	}
	return fields, nil
}

type accessor func(instance any) (any, error)

func (r *Registry) collectFields(d Descriptor, access accessor, out *[]Field, onPath map[*Class]bool) error {
	c := d.Raw()
	if onPath[c] {
		return &UnresolvableError{Type: d.String(), Reason: "class embeds itself"}
	}
	onPath[c] = true
	defer delete(onPath, c)

	m := MappingFor(d)
	for _, f := range c.Fields {
		if f.Static || f.Set == nil {
			continue
		}
		t, err := r.Resolve(f.Type, m)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", c.Name, f.Name, err)
		}
		*out = append(*out, Field{
			Name: f.Name,
			Type: t,
			Set:  throughAccess(access, f.Set),
		})
	}

	for _, e := range c.Embeds {
		ed, err := r.Resolve(e.Type, m)
		if err != nil {
			return fmt.Errorf("embedded %s in %s: %w", exprString(e.Type), c.Name, err)
		}
		if err := r.collectFields(ed, compose(access, e.Access), out, onPath); err != nil {
			return err
		}
	}
	return nil
}

func throughAccess(access accessor, set func(instance, value any) error) func(instance, value any) error {
	if access == nil {
		return set
	}
	return func(instance, value any) error {
		target, err := access(instance)
		if err != nil {
			return err
		}
		return set(target, value)
	}
}

func compose(outer, inner accessor) accessor {
	switch {
	case outer == nil:
		return inner
	case inner == nil:
		return outer
	}
	return func(instance any) (any, error) {
		mid, err := outer(instance)
		if err != nil {
			return nil, err
		}
		return inner(mid)
	}
}

// Constructors returns the constructors of d with parameter types resolved
// against d's own type arguments. Embedded types do not contribute.
func (r *Registry) Constructors(d Descriptor) ([]Constructor, error) {
	if d.IsZero() {
		return nil, &UnresolvableError{Type: "<nil>", Reason: "missing type"}
	}
	c := d.Raw()
	m := MappingFor(d)
	ctors := make([]Constructor, 0, len(c.Constructors))
	for _, decl := range c.Constructors {
		if decl.New == nil {
			continue
		}
		params := make([]Descriptor, len(decl.Params))
		names := make([]string, len(decl.Params))
		for i, p := range decl.Params {
			t, err := r.Resolve(p, m)
			if err != nil {
				return nil, fmt.Errorf("constructor of %s: %w", c.Name, err)
			}
			params[i] = t
			if i < len(decl.Names) {
				names[i] = decl.Names[i]
			} else {
				names[i] = fmt.Sprintf("arg%d", i)
			}
		}
		ctors = append(ctors, Constructor{
			Params:           params,
			Names:            names,
			FullyInitializes: decl.FullyInitializes,
			New:              decl.New,
		})
	}
	return ctors, nil
}
