package fixture

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/gorilla/schema"
)

// Transformer post-processes every generated value, nested ones included.
// It receives nil for values that were skipped by an ignore option.
//
// Transformers run in registration order; each one receives the previous
// one's result.
type Transformer interface {
	Transform(value any) (any, error)
}

// TransformerFunc adapts a function to a Transformer.
type TransformerFunc func(value any) (any, error)

func (f TransformerFunc) Transform(value any) (any, error) { return f(value) }

// Intercept returns a Transformer that calls fn with every value and keeps
// the value unchanged.
func Intercept(fn func(value any)) Transformer {
	return TransformerFunc(func(value any) (any, error) {
		fn(value)
		return value, nil
	})
}

// TransformType returns a Transformer that replaces values whose runtime
// type is exactly T with fn's result. Other values pass through.
func TransformType[T any](fn func(T) T) Transformer {
	return TransformerFunc(func(value any) (any, error) {
		if v, ok := exactly[T](value); ok {
			return fn(v), nil
		}
		return value, nil
	})
}

// InterceptType returns a Transformer that calls fn with every value whose
// runtime type is exactly T.
func InterceptType[T any](fn func(T)) Transformer {
	return TransformerFunc(func(value any) (any, error) {
		if v, ok := exactly[T](value); ok {
			fn(v)
		}
		return value, nil
	})
}

func exactly[T any](value any) (T, bool) {
	var zero T
	if value == nil || reflect.TypeOf(value) != reflect.TypeFor[T]() {
		return zero, false
	}
	return value.(T), true
}

// Pin returns a Transformer that overwrites fields of every generated T
// with values, decoded the way HTML form values are: keys are field names
// or `schema` tags. T must be a struct or a pointer to a struct; pointers
// are updated in place.
//
//	g.WithTransformer(fixture.Pin[User](url.Values{"Role": {"admin"}}))
func Pin[T any](values url.Values) Transformer {
	t := reflect.TypeFor[T]()
	isPtr := t.Kind() == reflect.Pointer
	if isPtr && t.Elem().Kind() != reflect.Struct || !isPtr && t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("fixture: Pin requires a struct or pointer to struct, got %s", t))
	}
	dec := schema.NewDecoder()
	dec.ZeroEmpty(true)

	return TransformerFunc(func(value any) (any, error) {
		v, ok := exactly[T](value)
		if !ok {
			return value, nil
		}
		if isPtr {
			rv := reflect.ValueOf(v)
			if rv.IsNil() {
				return value, nil
			}
			if err := dec.Decode(v, values); err != nil {
				return nil, fmt.Errorf("pin %s: %w", t, err)
			}
			return v, nil
		}
		if err := dec.Decode(&v, values); err != nil {
			return nil, fmt.Errorf("pin %s: %w", t, err)
		}
		return v, nil
	})
}
