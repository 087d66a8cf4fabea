// Package provider declares typeinfo classes from Go source code.
//
// Reflection cannot see uninstantiated generic types, so the source provider
// reads them with go/types instead: every named struct becomes a class with
// its type parameters, embedded types and exported fields, and every named
// basic type with constants becomes an enumeration. The classes can then be
// instantiated with any type arguments and generated like reflected types.
package provider

import (
	"context"
	"fmt"
	"go/constant"
	"go/types"
	"reflect"
	"time"

	"github.com/google/uuid"
	"golang.org/x/tools/go/packages"

	"github.com/broady/fixture/typeinfo"
)

// SourceProvider loads class declarations by analyzing Go source code.
type SourceProvider struct{}

// Schema is the set of classes declared by one Load call.
type Schema struct {
	// Package is the import path of the first requested package.
	Package string

	// Classes lists the declared classes in declaration order, including
	// those of imported packages reached through fields.
	Classes []*typeinfo.Class

	byName map[string]*typeinfo.Class
}

// Lookup returns a class by simple name within Package, or by qualified
// name (import path, dot, name) for any declared class.
func (s *Schema) Lookup(name string) (*typeinfo.Class, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Load loads the packages matching patterns and declares a class in reg for
// every named struct and enumeration they define.
func (p *SourceProvider) Load(ctx context.Context, reg *typeinfo.Registry, patterns ...string) (*Schema, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}

	// packages.Load returns packages in dependency order, not input order.
	mainPkg := pkgs[0]
	for _, pkg := range pkgs {
		if pkg.PkgPath == patterns[0] {
			mainPkg = pkg
			break
		}
	}

	b := &builder{
		classes:   make(map[*types.TypeName]*typeinfo.Class),
		expanding: make(map[*types.TypeName]bool),
	}
	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			if named, ok := tn.Type().(*types.Named); ok {
				b.declare(named)
			}
		}
	}
	b.drain()

	schema := &Schema{
		Package: mainPkg.PkgPath,
		byName:  make(map[string]*typeinfo.Class, 2*len(b.order)),
	}
	for _, c := range b.order {
		if _, err := reg.Declare(c); err != nil {
			return nil, err
		}
		schema.Classes = append(schema.Classes, c)
		schema.byName[c.QualifiedName()] = c
		if c.PkgPath == mainPkg.PkgPath {
			schema.byName[c.Name] = c
		}
	}
	return schema, nil
}

// builder converts go/types types into class declarations. Struct classes
// are created before their fields are converted so that recursive types can
// refer to themselves.
type builder struct {
	classes   map[*types.TypeName]*typeinfo.Class
	order     []*typeinfo.Class
	pending   []*types.Named
	expanding map[*types.TypeName]bool
}

// known maps named types that have a direct Go counterpart.
var known = map[string]reflect.Type{
	"time.Time":                   reflect.TypeFor[time.Time](),
	"time.Duration":               reflect.TypeFor[time.Duration](),
	"github.com/google/uuid.UUID": reflect.TypeFor[uuid.UUID](),
}

var basics = map[types.BasicKind]reflect.Type{
	types.Bool:       reflect.TypeFor[bool](),
	types.Int:        reflect.TypeFor[int](),
	types.Int8:       reflect.TypeFor[int8](),
	types.Int16:      reflect.TypeFor[int16](),
	types.Int32:      reflect.TypeFor[int32](),
	types.Int64:      reflect.TypeFor[int64](),
	types.Uint:       reflect.TypeFor[uint](),
	types.Uint8:      reflect.TypeFor[uint8](),
	types.Uint16:     reflect.TypeFor[uint16](),
	types.Uint32:     reflect.TypeFor[uint32](),
	types.Uint64:     reflect.TypeFor[uint64](),
	types.Uintptr:    reflect.TypeFor[uintptr](),
	types.Float32:    reflect.TypeFor[float32](),
	types.Float64:    reflect.TypeFor[float64](),
	types.Complex64:  reflect.TypeFor[complex64](),
	types.Complex128: reflect.TypeFor[complex128](),
	types.String:     reflect.TypeFor[string](),
}

var anyType = reflect.TypeFor[any]()

func qualifiedName(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// declare returns the class of a named type, creating it on first use. It
// returns nil for named types that are not classes.
func (b *builder) declare(named *types.Named) *typeinfo.Class {
	named = named.Origin()
	obj := named.Obj()
	if c, ok := b.classes[obj]; ok {
		return c
	}
	if _, ok := known[qualifiedName(obj)]; ok {
		return nil
	}

	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		c := &typeinfo.Class{Name: obj.Name(), PkgPath: pkgPath}
		if tparams := named.TypeParams(); tparams != nil {
			for i := 0; i < tparams.Len(); i++ {
				c.Params = append(c.Params, tparams.At(i).Obj().Name())
			}
		}
		b.classes[obj] = c
		b.order = append(b.order, c)
		b.pending = append(b.pending, named)
		return c

	case *types.Basic:
		goType, ok := basics[u.Kind()]
		if !ok {
			return nil
		}
		values := enumValues(named, goType)
		if len(values) == 0 {
			return nil
		}
		c := &typeinfo.Class{Name: obj.Name(), PkgPath: pkgPath, Go: goType, Values: values}
		b.classes[obj] = c
		b.order = append(b.order, c)
		return c
	}
	return nil
}

// drain converts the fields of every struct class created so far, including
// the ones created while converting.
func (b *builder) drain() {
	for len(b.pending) > 0 {
		named := b.pending[0]
		b.pending = b.pending[1:]
		b.fill(b.classes[named.Obj()], named.Underlying().(*types.Struct))
	}
}

func (b *builder) fill(c *typeinfo.Class, st *types.Struct) {
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if field.Embedded() {
			if named, ok := field.Type().(*types.Named); ok {
				if _, isStruct := named.Underlying().(*types.Struct); isStruct {
					if _, isKnown := known[qualifiedName(named.Obj())]; !isKnown {
						c.Embeds = append(c.Embeds, typeinfo.Embed{Type: b.convert(named)})
						continue
					}
				}
			}
		}
		if !field.Exported() {
			continue
		}
		c.Fields = append(c.Fields, typeinfo.FieldDecl{
			Name: field.Name(),
			Type: b.convert(field.Type()),
		})
	}
}

// convert maps a go/types type to a type expression. Shapes with no
// generated counterpart, such as funcs and channels, become Wildcards.
func (b *builder) convert(t types.Type) typeinfo.Expr {
	switch t := t.(type) {
	case *types.Basic:
		if goType, ok := basics[t.Kind()]; ok {
			return typeinfo.Reflected{T: goType}
		}

	case *types.Alias:
		return b.convert(types.Unalias(t))

	case *types.TypeParam:
		return typeinfo.Var{Name: t.Obj().Name()}

	case *types.Pointer:
		return typeinfo.PointerTo{Elem: b.convert(t.Elem())}

	case *types.Slice:
		return typeinfo.SliceOf{Elem: b.convert(t.Elem())}

	case *types.Array:
		return typeinfo.ArrayOf{Len: int(t.Len()), Elem: b.convert(t.Elem())}

	case *types.Map:
		return typeinfo.MapOf{Key: b.convert(t.Key()), Elem: b.convert(t.Elem())}

	case *types.Interface:
		return typeinfo.Reflected{T: anyType}

	case *types.Named:
		if goType, ok := known[qualifiedName(t.Obj())]; ok {
			return typeinfo.Reflected{T: goType}
		}
		if c := b.declare(t); c != nil {
			named := typeinfo.Named{Class: c}
			if targs := t.TypeArgs(); targs != nil {
				for i := 0; i < targs.Len(); i++ {
					named.Args = append(named.Args, b.convert(targs.At(i)))
				}
			}
			return named
		}
		obj := t.Obj()
		if b.expanding[obj] {
			return typeinfo.Wildcard{Desc: t.String()}
		}
		b.expanding[obj] = true
		defer delete(b.expanding, obj)
		return b.convert(t.Underlying())
	}
	return typeinfo.Wildcard{Desc: t.String()}
}

// enumValues returns the constants declared with exactly the type named in
// its package, converted to goType, in scope order.
func enumValues(named *types.Named, goType reflect.Type) []any {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}
	var values []any
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		cnst, ok := scope.Lookup(name).(*types.Const)
		if !ok || !types.Identical(cnst.Type(), named) {
			continue
		}
		if v, ok := constantValue(cnst.Val(), goType); ok {
			values = append(values, v)
		}
	}
	return values
}

// constantValue converts a constant to a value of goType.
func constantValue(v constant.Value, goType reflect.Type) (any, bool) {
	var raw any
	switch v.Kind() {
	case constant.String:
		raw = constant.StringVal(v)
	case constant.Bool:
		raw = constant.BoolVal(v)
	case constant.Int:
		if i, exact := constant.Int64Val(v); exact {
			raw = i
		} else if u, exact := constant.Uint64Val(v); exact {
			raw = u
		} else {
			return nil, false
		}
	case constant.Float:
		f, _ := constant.Float64Val(v)
		raw = f
	default:
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if family(rv.Kind()) != family(goType.Kind()) {
		return nil, false
	}
	return rv.Convert(goType).Interface(), true
}

// family groups kinds whose constants convert into each other without
// changing meaning.
func family(k reflect.Kind) int {
	switch k {
	case reflect.String:
		return 1
	case reflect.Bool:
		return 2
	}
	return 3
}
