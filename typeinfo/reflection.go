package typeinfo

import (
	"fmt"
	"reflect"
)

// reflectClass derives the class of a Go type.
//
// Struct classes get one field per exported, non-embedded field. An embedded
// struct (not a pointer, exported or not) becomes an Embed whose Access
// addresses the embedded value; any other embedded type is an ordinary field.
// Instances of struct classes are *T while they are being populated.
func reflectClass(t reflect.Type) *Class {
	c := &Class{
		Name:      t.Name(),
		PkgPath:   t.PkgPath(),
		Go:        t,
		reflected: true,
	}
	if c.Name == "" {
		c.Name = t.String()
	}

	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		c.Abstract = true
		return c
	case reflect.Struct:
		reflectStruct(c, t)
	}

	c.Constructors = []ConstructorDecl{zeroConstructor(t)}
	c.implicitCtor = true
	return c
}

func reflectStruct(c *Class, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			c.Embeds = append(c.Embeds, Embed{
				Type:   Reflected{T: field.Type},
				Access: embeddedAccess(t, i),
			})
			continue
		}
		if !field.IsExported() {
			continue
		}
		c.Fields = append(c.Fields, FieldDecl{
			Name: field.Name,
			Type: Reflected{T: field.Type},
			Set:  structSetter(t, i),
		})
	}
}

// zeroConstructor returns the implicit constructor of t. Structs are
// allocated so their fields can be set.
func zeroConstructor(t reflect.Type) ConstructorDecl {
	return ConstructorDecl{
		New: func([]any) (any, error) {
			if t.Kind() == reflect.Struct {
				return reflect.New(t).Interface(), nil
			}
			return reflect.Zero(t).Interface(), nil
		},
	}
}

// structValue returns the addressable struct behind instance, which is either
// a *T or, for embedded parts, the reflect.Value of the embedded field itself.
// Embedded parts stay reflect.Values because the exported fields of an
// unexported embedded struct are only settable through reflection.
func structValue(t reflect.Type, instance any) (reflect.Value, error) {
	if rv, ok := instance.(reflect.Value); ok {
		if rv.Kind() != reflect.Struct || rv.Type() != t || !rv.CanAddr() {
			return reflect.Value{}, fmt.Errorf("expected addressable %s, got %s", t, rv.String())
		}
		return rv, nil
	}
	rv := reflect.ValueOf(instance)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Type() != t {
		return reflect.Value{}, fmt.Errorf("expected *%s, got %T", t, instance)
	}
	return rv.Elem(), nil
}

func structSetter(t reflect.Type, index int) func(instance, value any) error {
	return func(instance, value any) error {
		sv, err := structValue(t, instance)
		if err != nil {
			return err
		}
		if err := Assign(sv.Field(index), value); err != nil {
			return fmt.Errorf("field %s.%s: %w", t.Name(), t.Field(index).Name, err)
		}
		return nil
	}
}

func embeddedAccess(t reflect.Type, index int) func(instance any) (any, error) {
	return func(instance any) (any, error) {
		sv, err := structValue(t, instance)
		if err != nil {
			return nil, err
		}
		return sv.Field(index), nil
	}
}

// Assign stores value into dst. A nil value stores the zero value. Values of
// a different type with the same kind are converted, so a []int can be
// stored into a field of a named slice type.
func Assign(dst reflect.Value, value any) error {
	v, err := valueOf(dst.Type(), value)
	if err != nil {
		return err
	}
	dst.Set(v)
	return nil
}

// valueOf returns value as a reflect.Value assignable to t.
func valueOf(t reflect.Type, value any) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(t):
		return v, nil
	case v.Kind() == t.Kind() && v.Type().ConvertibleTo(t):
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), t)
}
