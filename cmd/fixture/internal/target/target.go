// Package target resolves the root type named on the command line.
package target

import (
	"context"
	"fmt"
	"strings"

	"github.com/broady/fixture/provider"
	"github.com/broady/fixture/typeinfo"
)

// Resolve loads pkg into reg and parses typ, instantiated with args when
// any are given.
func Resolve(ctx context.Context, reg *typeinfo.Registry, pkg, typ string, args []string) (typeinfo.Descriptor, error) {
	schema, err := (&provider.SourceProvider{}).Load(ctx, reg, pkg)
	if err != nil {
		return typeinfo.Descriptor{}, fmt.Errorf("load %s: %w", pkg, err)
	}
	expr := typ
	if len(args) > 0 {
		if strings.Contains(typ, "[") {
			return typeinfo.Descriptor{}, fmt.Errorf("type %s already has type arguments", typ)
		}
		expr += "[" + strings.Join(args, ", ") + "]"
	}
	return schema.ParseType(reg, expr)
}
