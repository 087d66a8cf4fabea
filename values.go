package fixture

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/broady/fixture/random"
)

var (
	uuidType     = reflect.TypeFor[uuid.UUID]()
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
)

// Bounds of generated time.Time values, in Unix seconds.
var (
	minTime = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxTime = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC).Unix() - 1
)

// convert returns v as a value of type t, which must have the same kind.
func convert(v any, t reflect.Type) any {
	return reflect.ValueOf(v).Convert(t).Interface()
}

// BoolGenerator produces booleans, including named bool types.
type BoolGenerator struct{}

func (BoolGenerator) Generate(ctx *Context) (any, error) {
	t := ctx.Type().GoType()
	if t == nil || t.Kind() != reflect.Bool {
		return NoValue, nil
	}
	return convert(ctx.Random().Bool(), t), nil
}

// NumberGenerator produces integers, floats and complex numbers of every
// width, including named numeric types. Floats are a random int32 with a
// random fraction added.
type NumberGenerator struct{}

func (NumberGenerator) Generate(ctx *Context) (any, error) {
	t := ctx.Type().GoType()
	if t == nil {
		return NoValue, nil
	}
	r := ctx.Random()
	var v any
	switch t.Kind() {
	case reflect.Int8:
		v = int8(r.Int32Between(math.MinInt8, math.MaxInt8))
	case reflect.Int16:
		v = int16(r.Int32Between(math.MinInt16, math.MaxInt16))
	case reflect.Int32:
		v = r.Int32()
	case reflect.Int, reflect.Int64:
		v = r.Int64()
	case reflect.Uint8:
		v = uint8(r.Uint64())
	case reflect.Uint16:
		v = uint16(r.Uint64())
	case reflect.Uint32:
		v = uint32(r.Uint64())
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		v = r.Uint64()
	case reflect.Float32:
		v = float32(randomFloat(r))
	case reflect.Float64:
		v = randomFloat(r)
	case reflect.Complex64, reflect.Complex128:
		v = complex(randomFloat(r), randomFloat(r))
	default:
		return NoValue, nil
	}
	return convert(v, t), nil
}

func randomFloat(r *random.Source) float64 {
	return float64(r.Int32()) + r.Float64()
}

// StringGenerator produces "<field>-<uuid>", with "string" in place of an
// empty field name. The uuid is generated as a nested value.
type StringGenerator struct{}

func (StringGenerator) Generate(ctx *Context) (any, error) {
	t := ctx.Type().GoType()
	if t == nil || t.Kind() != reflect.String {
		return NoValue, nil
	}
	id, err := ctx.Create("", ctx.Registry().Describe(uuidType))
	if err != nil {
		return nil, err
	}
	prefix := ctx.FieldName()
	if prefix == "" {
		prefix = "string"
	}
	return convert(fmt.Sprintf("%s-%v", prefix, id), t), nil
}

// UUIDGenerator produces random (version 4) UUIDs read from the context's
// random source.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate(ctx *Context) (any, error) {
	if !ctx.Type().Is(uuidType) {
		return NoValue, nil
	}
	return uuid.NewRandomFromReader(ctx.Random())
}

// TimeGenerator produces time.Time values in UTC with whole seconds between
// 1970 and 2100, and time.Duration values of at most one day.
type TimeGenerator struct{}

func (TimeGenerator) Generate(ctx *Context) (any, error) {
	d := ctx.Type()
	switch {
	case d.Is(timeType):
		return time.Unix(ctx.Random().Int64Between(minTime, maxTime), 0).UTC(), nil
	case d.Is(durationType):
		return time.Duration(ctx.Random().Int64Between(0, int64(24*time.Hour))), nil
	}
	return NoValue, nil
}

// EnumGenerator picks one of the values registered for a type.
type EnumGenerator struct{}

func (EnumGenerator) Generate(ctx *Context) (any, error) {
	values := ctx.Type().Raw().Values
	if len(values) == 0 {
		return NoValue, nil
	}
	return random.OneOf(ctx.Random(), values)
}
