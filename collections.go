package fixture

import (
	"fmt"
	"reflect"

	"github.com/broady/fixture/typeinfo"
)

// SliceGenerator produces slices of CollectionSize elements and arrays
// filled to their length. Types with registered constructors are left to
// the ConstructingGenerator, as are maps and pointers below.
type SliceGenerator struct{}

func (SliceGenerator) Generate(ctx *Context) (any, error) {
	d := ctx.Type()
	if !d.Raw().Reflected() || d.Raw().HasConstructors() || d.NumParams() != 1 {
		return NoValue, nil
	}
	t := d.GoType()
	var (
		elems []any
		err   error
		out   reflect.Value
	)
	switch t.Kind() {
	case reflect.Slice:
		elems, err = ctx.CreateCollection(ctx.FieldName(), d.Param(0))
		if err != nil {
			return nil, err
		}
		out = reflect.MakeSlice(t, len(elems), len(elems))
	case reflect.Array:
		elems, err = ctx.CreateN(ctx.FieldName(), d.Param(0), t.Len())
		if err != nil {
			return nil, err
		}
		out = reflect.New(t).Elem()
	default:
		return NoValue, nil
	}
	for i, e := range elems {
		if err := typeinfo.Assign(out.Index(i), e); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out.Interface(), nil
}

// MapGenerator produces maps from CollectionSize generated keys and values.
// Keys are generated for "<field>-key" and values for "<field>-value".
// Duplicate keys collapse, so a map may hold fewer entries.
type MapGenerator struct{}

func (MapGenerator) Generate(ctx *Context) (any, error) {
	d := ctx.Type()
	t := d.GoType()
	if !d.Raw().Reflected() || d.Raw().HasConstructors() || t.Kind() != reflect.Map || d.NumParams() != 2 {
		return NoValue, nil
	}
	keys, err := ctx.CreateCollection(ctx.FieldName()+"-key", d.Param(0))
	if err != nil {
		return nil, err
	}
	values, err := ctx.CreateCollection(ctx.FieldName()+"-value", d.Param(1))
	if err != nil {
		return nil, err
	}

	m := reflect.MakeMapWithSize(t, len(keys))
	for i := range keys {
		k := reflect.New(t.Key()).Elem()
		if err := typeinfo.Assign(k, keys[i]); err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		v := reflect.New(t.Elem()).Elem()
		if err := typeinfo.Assign(v, values[i]); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		m.SetMapIndex(k, v)
	}
	return m.Interface(), nil
}

// PointerGenerator produces a pointer to a value generated for the same
// field. A nil element, such as an ignored cyclic reference, yields a nil
// pointer.
type PointerGenerator struct{}

func (PointerGenerator) Generate(ctx *Context) (any, error) {
	d := ctx.Type()
	t := d.GoType()
	if !d.Raw().Reflected() || d.Raw().HasConstructors() || t.Kind() != reflect.Pointer || d.NumParams() != 1 {
		return NoValue, nil
	}
	v, err := ctx.Create(ctx.FieldName(), d.Param(0))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return reflect.Zero(t).Interface(), nil
	}
	p := reflect.New(t.Elem())
	if err := typeinfo.Assign(p.Elem(), v); err != nil {
		return nil, err
	}
	return p.Interface(), nil
}
