package typeinfo

import (
	"fmt"
	"reflect"
	"strings"
)

// Expr is a declared type expression. It may contain type variables that are
// bound when the expression is resolved against a [Mapping].
type Expr interface {
	String() string
	expr()
}

// Reflected is a concrete Go type.
type Reflected struct {
	T reflect.Type
}

// TypeOf returns the Reflected expression for T.
func TypeOf[T any]() Reflected {
	return Reflected{T: reflect.TypeFor[T]()}
}

// Named refers to a class, parameterized when Args is non-empty.
type Named struct {
	Class *Class
	Args  []Expr
}

// Var is a type variable of the declaring class.
type Var struct {
	Name string
}

// SliceOf is a slice whose element may contain type variables.
type SliceOf struct {
	Elem Expr
}

// ArrayOf is a fixed-length array whose element may contain type variables.
type ArrayOf struct {
	Len  int
	Elem Expr
}

// MapOf is a map whose key and element may contain type variables.
type MapOf struct {
	Key  Expr
	Elem Expr
}

// PointerTo is a pointer whose element may contain type variables.
type PointerTo struct {
	Elem Expr
}

// Wildcard stands for a type shape that cannot be made concrete. Resolving it
// always fails.
type Wildcard struct {
	Desc string
}

func (Reflected) expr() {}
func (Named) expr()     {}
func (Var) expr()       {}
func (SliceOf) expr()   {}
func (ArrayOf) expr()   {}
func (MapOf) expr()     {}
func (PointerTo) expr() {}
func (Wildcard) expr()  {}

func (e Reflected) String() string {
	if e.T == nil {
		return "<nil>"
	}
	return e.T.String()
}

func (e Named) String() string {
	name := "<nil>"
	if e.Class != nil {
		name = e.Class.Name
	}
	if len(e.Args) == 0 {
		return name
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = exprString(a)
	}
	return name + "[" + strings.Join(args, ", ") + "]"
}

func (e Var) String() string       { return e.Name }
func (e SliceOf) String() string   { return "[]" + exprString(e.Elem) }
func (e ArrayOf) String() string   { return fmt.Sprintf("[%d]%s", e.Len, exprString(e.Elem)) }
func (e MapOf) String() string     { return "map[" + exprString(e.Key) + "]" + exprString(e.Elem) }
func (e PointerTo) String() string { return "*" + exprString(e.Elem) }

func (e Wildcard) String() string {
	if e.Desc == "" {
		return "?"
	}
	return e.Desc
}

func exprString(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}
