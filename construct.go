package fixture

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/broady/fixture/typeinfo"
)

// ConstructingGenerator instantiates a type through its constructors and
// then populates its fields. It is the fallback at the end of the chain.
//
// Constructors are tried by ascending number of parameters. A candidate
// fails if any of its arguments cannot be generated, if it returns an error
// or a nil value, or if it panics; the next candidate is tried then. When no
// candidate succeeds, or the type is abstract and has no registered
// constructors, the generator declines.
// Errors resolving the type are returned immediately.
type ConstructingGenerator struct{}

func (ConstructingGenerator) Generate(ctx *Context) (any, error) {
	d := ctx.Type()
	if d.Raw().Abstract && !d.Raw().HasConstructors() {
		return NoValue, nil
	}
	ctors, err := ctx.Registry().Constructors(d)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(ctors, func(a, b typeinfo.Constructor) int {
		return cmp.Compare(len(a.Params), len(b.Params))
	})

	for i, c := range ctors {
		instance, err := construct(ctx, c)
		if err != nil {
			if isUnresolvable(err) {
				return nil, err
			}
			ctx.Logger().Debug("constructor failed",
				slog.String("type", d.String()),
				slog.Int("candidate", i),
				slog.Int("params", len(c.Params)),
				slog.Any("error", err))
			continue
		}
		if c.FullyInitializes {
			return instance, nil
		}
		return populate(ctx, instance)
	}
	return NoValue, nil
}

func construct(ctx *Context, c typeinfo.Constructor) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v, err = nil, fmt.Errorf("constructor panicked: %v", rec)
		}
	}()
	args := make([]any, len(c.Params))
	for i, p := range c.Params {
		if args[i], err = ctx.Create("", p); err != nil {
			return nil, err
		}
	}
	v, err = c.New(args)
	if err == nil && v == nil {
		err = errors.New("constructor returned nil")
	}
	return v, err
}

// populate generates and sets every field of instance. Struct values are
// populated through a pointer and returned by value.
func populate(ctx *Context, instance any) (any, error) {
	d := ctx.Type()
	fields, err := ctx.Registry().Fields(d)
	if err != nil {
		return nil, err
	}

	byValue := false
	if t := d.GoType(); t.Kind() == reflect.Struct {
		rv := reflect.ValueOf(instance)
		if rv.Type() == t {
			p := reflect.New(t)
			p.Elem().Set(rv)
			instance = p.Interface()
		}
		byValue = true
	}

	for _, f := range fields {
		v, err := ctx.Create(f.Name, f.Type)
		if err != nil {
			return nil, err
		}
		if err := f.Set(instance, v); err != nil {
			return nil, err
		}
	}

	if byValue {
		return reflect.ValueOf(instance).Elem().Interface(), nil
	}
	return instance, nil
}

func isUnresolvable(err error) bool {
	return errors.Is(err, typeinfo.ErrUnresolvable) || errors.Is(err, ErrUnresolvableType)
}
