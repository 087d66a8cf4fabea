// Package testdata declares types for the source provider tests.
package testdata

import "time"

// Base is the root of a generic embedding chain.
type Base[T any] struct {
	ID    T
	Items []T
	Grid  [2]T
}

// Middle binds Base's parameter to a map of its own first parameter.
type Middle[U, V any] struct {
	Base[map[string]U]
	Other V
}

// Leaf instantiates the whole chain.
type Leaf struct {
	Middle[int, string]
	Created time.Time
	Status  Status
	Note    *string
	hidden  int
}

type Status string

const (
	StatusActive Status = "active"
	StatusPaused Status = "paused"
)

// Score has no constants, so it is not an enumeration.
type Score float64

type Tree[T any] struct {
	Value    T
	Children []Tree[T]
}

type Labels map[string]Score

type Tagged struct {
	Labels   Labels
	Any      any
	Callback func()
}
