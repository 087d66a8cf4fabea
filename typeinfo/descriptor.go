// Package typeinfo describes the types a fixture graph is built from.
//
// A [Descriptor] is a fully concrete description of a type: a raw [Class] plus
// the descriptors of its type arguments. Classes live in a [Registry], which
// derives them from Go types by reflection or accepts declared classes with
// type parameters and embedded super-types. The registry's resolver turns a
// descriptor into the concrete fields and constructors needed to build an
// instance, substituting type variables through every embedding level.
package typeinfo

import (
	"fmt"
	"reflect"
	"strings"
)

// Descriptor identifies a concrete type and its resolved type arguments.
//
// Composite Go types carry their element descriptors as type arguments:
// slices, arrays and pointers have exactly one (the element), maps have two
// (key and element). Descriptors are immutable; use Equal or Key to compare
// them, never ==.
type Descriptor struct {
	raw    *Class
	params []Descriptor
}

// NewDescriptor returns a descriptor for raw parameterized by params.
func NewDescriptor(raw *Class, params ...Descriptor) Descriptor {
	d := Descriptor{raw: raw}
	if len(params) > 0 {
		d.params = make([]Descriptor, len(params))
		copy(d.params, params)
	}
	return d
}

// Raw returns the raw class.
func (d Descriptor) Raw() *Class { return d.raw }

// IsZero reports whether d is the zero Descriptor.
func (d Descriptor) IsZero() bool { return d.raw == nil }

// NumParams returns the number of type arguments.
func (d Descriptor) NumParams() int { return len(d.params) }

// Param returns the i'th type argument.
func (d Descriptor) Param(i int) Descriptor { return d.params[i] }

// Params returns a copy of the type arguments.
func (d Descriptor) Params() []Descriptor {
	if len(d.params) == 0 {
		return nil
	}
	out := make([]Descriptor, len(d.params))
	copy(out, d.params)
	return out
}

// GoType returns the runtime representation of instances of d.
func (d Descriptor) GoType() reflect.Type {
	if d.raw == nil {
		return nil
	}
	return d.raw.Go
}

// Kind returns the reflect.Kind of GoType, or reflect.Invalid.
func (d Descriptor) Kind() reflect.Kind {
	if t := d.GoType(); t != nil {
		return t.Kind()
	}
	return reflect.Invalid
}

// Is reports whether d's raw class is the reflected class of t.
func (d Descriptor) Is(t reflect.Type) bool {
	return d.raw != nil && d.raw.reflected && d.raw.Go == t
}

// Equal reports whether d and other have the same raw class and equal
// type arguments.
func (d Descriptor) Equal(other Descriptor) bool {
	if d.raw != other.raw || len(d.params) != len(other.params) {
		return false
	}
	for i := range d.params {
		if !d.params[i].Equal(other.params[i]) {
			return false
		}
	}
	return true
}

// Key returns a string that is equal for two descriptors iff they are Equal.
// It is only meaningful within one process.
func (d Descriptor) Key() string {
	var sb strings.Builder
	d.writeKey(&sb)
	return sb.String()
}

func (d Descriptor) writeKey(sb *strings.Builder) {
	fmt.Fprintf(sb, "%p", d.raw)
	if len(d.params) == 0 {
		return
	}
	sb.WriteByte('[')
	for i, p := range d.params {
		if i > 0 {
			sb.WriteByte(',')
		}
		p.writeKey(sb)
	}
	sb.WriteByte(']')
}

// String renders d in Go syntax, e.g. "Box[int]", "[]string", "*Node".
func (d Descriptor) String() string {
	if d.raw == nil {
		return "<nil>"
	}
	c := d.raw
	if c.reflected && c.Go != nil && c.Go.Name() == "" {
		switch c.Go.Kind() {
		case reflect.Slice:
			if len(d.params) == 1 {
				return "[]" + d.params[0].String()
			}
		case reflect.Array:
			if len(d.params) == 1 {
				return fmt.Sprintf("[%d]%s", c.Go.Len(), d.params[0])
			}
		case reflect.Pointer:
			if len(d.params) == 1 {
				return "*" + d.params[0].String()
			}
		case reflect.Map:
			if len(d.params) == 2 {
				return "map[" + d.params[0].String() + "]" + d.params[1].String()
			}
		}
		return c.Go.String()
	}
	if len(d.params) == 0 || !c.parameterized() {
		return c.Name
	}
	parts := make([]string, len(d.params))
	for i, p := range d.params {
		parts[i] = p.String()
	}
	return c.Name + "[" + strings.Join(parts, ", ") + "]"
}
