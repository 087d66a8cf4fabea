package provider

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/fixture/typeinfo"
)

// ParseType parses a Go type expression such as "Page[int]",
// "map[string][]Item" or "*time.Time" into a descriptor. Names are looked up
// among the builtin types, time.Time, time.Duration, uuid.UUID and the
// schema's classes.
func (s *Schema) ParseType(reg *typeinfo.Registry, src string) (typeinfo.Descriptor, error) {
	e, err := s.parseExpr(strings.TrimSpace(src))
	if err != nil {
		return typeinfo.Descriptor{}, fmt.Errorf("parse type %q: %w", src, err)
	}
	return reg.Resolve(e, nil)
}

func (s *Schema) parseExpr(src string) (typeinfo.Expr, error) {
	switch {
	case src == "":
		return nil, fmt.Errorf("empty type")

	case strings.HasPrefix(src, "*"):
		elem, err := s.parseExpr(src[1:])
		if err != nil {
			return nil, err
		}
		return typeinfo.PointerTo{Elem: elem}, nil

	case strings.HasPrefix(src, "[]"):
		elem, err := s.parseExpr(src[2:])
		if err != nil {
			return nil, err
		}
		return typeinfo.SliceOf{Elem: elem}, nil

	case strings.HasPrefix(src, "["):
		end := strings.IndexByte(src, ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated array length in %q", src)
		}
		n, err := strconv.Atoi(src[1:end])
		if err != nil {
			return nil, fmt.Errorf("invalid array length in %q", src)
		}
		elem, err := s.parseExpr(src[end+1:])
		if err != nil {
			return nil, err
		}
		return typeinfo.ArrayOf{Len: n, Elem: elem}, nil

	case strings.HasPrefix(src, "map["):
		end := matching(src, len("map"))
		if end < 0 {
			return nil, fmt.Errorf("unbalanced brackets in %q", src)
		}
		key, err := s.parseExpr(src[len("map["):end])
		if err != nil {
			return nil, err
		}
		elem, err := s.parseExpr(src[end+1:])
		if err != nil {
			return nil, err
		}
		return typeinfo.MapOf{Key: key, Elem: elem}, nil
	}

	name, rest := src, ""
	if i := strings.IndexByte(src, '['); i >= 0 {
		end := matching(src, i)
		if end != len(src)-1 {
			return nil, fmt.Errorf("unbalanced brackets in %q", src)
		}
		name, rest = src[:i], src[i+1:end]
	}

	if rest == "" {
		for _, t := range basics {
			if t.Name() == name {
				return typeinfo.Reflected{T: t}, nil
			}
		}
		for qualified, t := range known {
			if t.String() == name || qualified == name {
				return typeinfo.Reflected{T: t}, nil
			}
		}
		switch name {
		case "any", "interface{}":
			return typeinfo.Reflected{T: anyType}, nil
		case "byte":
			return typeinfo.TypeOf[byte](), nil
		case "rune":
			return typeinfo.TypeOf[rune](), nil
		}
	}

	c, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %s", name)
	}
	named := typeinfo.Named{Class: c}
	for _, arg := range splitArgs(rest) {
		e, err := s.parseExpr(arg)
		if err != nil {
			return nil, err
		}
		named.Args = append(named.Args, e)
	}
	if len(named.Args) != len(c.Params) {
		return nil, fmt.Errorf("%s takes %d type arguments, got %d", c.Name, len(c.Params), len(named.Args))
	}
	return named, nil
}

// matching returns the index of the bracket closing the one at open.
func matching(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitArgs splits a type argument list at top-level commas.
func splitArgs(src string) []string {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(src[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(src[start:]))
}
