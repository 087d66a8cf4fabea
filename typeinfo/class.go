package typeinfo

import "reflect"

// Class is one entry of the descriptor table: a nominal type with its
// declared shape. Type expressions inside a class may refer to the class's
// own type parameters by name with [Var].
//
// Classes are configured before generation starts and must not be mutated
// while a registry is in use.
type Class struct {
	// Name is the simple type name, e.g. "Box".
	Name string

	// PkgPath is the import path of the declaring package, empty for
	// builtin and unnamed types.
	PkgPath string

	// Go is the runtime representation of instances. Declared classes
	// default to *Object.
	Go reflect.Type

	// Params are the declared type parameter slots, in declaration order.
	Params []string

	// Embeds are the embedded super-types, walked depth first in order.
	Embeds []Embed

	// Fields are the fields declared directly on this class.
	Fields []FieldDecl

	// Constructors are the ways to instantiate the class.
	Constructors []ConstructorDecl

	// Abstract marks classes that cannot be instantiated directly, such as
	// interfaces.
	Abstract bool

	// Values is a closed set of allowed values (an enumeration).
	Values []any

	reflected    bool
	implicitCtor bool
}

func (c *Class) parameterized() bool { return len(c.Params) > 0 }

// Reflected reports whether c was derived from a Go type by reflection.
func (c *Class) Reflected() bool { return c.reflected }

// HasConstructors reports whether constructors were registered for c, as
// opposed to the implicit zero-value constructor derived by reflection.
func (c *Class) HasConstructors() bool {
	return len(c.Constructors) > 0 && !c.implicitCtor
}

// QualifiedName returns PkgPath.Name, or Name for builtin types.
func (c *Class) QualifiedName() string {
	if c.PkgPath == "" {
		return c.Name
	}
	return c.PkgPath + "." + c.Name
}

// Embed is an embedded super-type.
type Embed struct {
	// Type is the embedded type, possibly referring to the embedding
	// class's type parameters.
	Type Expr

	// Access maps an instance of the embedding class to the embedded
	// part. Nil means the embedded part is the instance itself.
	Access func(instance any) (any, error)
}

// FieldDecl is a field as declared on a class.
type FieldDecl struct {
	Name string
	Type Expr

	// Static fields belong to the type, not to instances, and are never
	// populated.
	Static bool

	// Set assigns value to the field of instance.
	Set func(instance, value any) error
}

// ConstructorDecl is a constructor as declared on a class.
type ConstructorDecl struct {
	Params []Expr
	Names  []string

	// FullyInitializes marks constructors that define the whole value from
	// their arguments. Fields are not populated after such a constructor.
	FullyInitializes bool

	New func(args []any) (any, error)
}
