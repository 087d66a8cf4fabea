package fixture

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/broady/fixture/random"
)

// SubclassGenerator produces values of an interface (or other abstract) type
// by picking one of a closed list of implementations uniformly and
// generating it for the same field.
type SubclassGenerator struct {
	impls []reflect.Type
}

// NewSubclassGenerator returns a SubclassGenerator for iface. Every
// implementation must be assignable to iface.
func NewSubclassGenerator(iface reflect.Type, impls ...reflect.Type) (*SubclassGenerator, error) {
	if iface == nil {
		return nil, errors.New("nil type")
	}
	if len(impls) == 0 {
		return nil, fmt.Errorf("no implementations given for %s", iface)
	}
	for _, impl := range impls {
		if impl == nil || !impl.AssignableTo(iface) {
			return nil, fmt.Errorf("%s does not implement %s", impl, iface)
		}
	}
	return &SubclassGenerator{impls: append([]reflect.Type(nil), impls...)}, nil
}

func (g *SubclassGenerator) Generate(ctx *Context) (any, error) {
	impl, err := random.OneOf(ctx.Random(), g.impls)
	if err != nil {
		return nil, err
	}
	return ctx.Create(ctx.FieldName(), ctx.Registry().Describe(impl))
}
