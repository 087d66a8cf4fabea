package typeinfo

import (
	"reflect"
	"testing"
)

type node struct {
	Next *node
}

type ids []int

func TestDescriptor_EqualityIsStructural(t *testing.T) {
	r := NewRegistry()
	box, err := r.Declare(&Class{Name: "Box", Params: []string{"T"}})
	if err != nil {
		t.Fatal(err)
	}
	str := r.Describe(reflect.TypeFor[string]())
	a := NewDescriptor(box, NewDescriptor(box, str))
	b := NewDescriptor(box, NewDescriptor(box, r.Describe(reflect.TypeFor[string]())))
	c := NewDescriptor(box, NewDescriptor(box, r.Describe(reflect.TypeFor[int]())))

	if !a.Equal(b) || a.Key() != b.Key() {
		t.Errorf("structurally identical instantiations differ: %v vs %v", a, b)
	}
	if a.Equal(c) || a.Key() == c.Key() {
		t.Errorf("different instantiations compare equal: %v vs %v", a, c)
	}
	if a.Equal(NewDescriptor(box)) {
		t.Error("parameterized and raw descriptors compare equal")
	}
}

func TestDescriptor_ParamsAreCopied(t *testing.T) {
	r := NewRegistry()
	params := []Descriptor{r.Describe(reflect.TypeFor[int]())}
	d := NewDescriptor(r.Of(reflect.TypeFor[[]int]()), params...)
	params[0] = r.Describe(reflect.TypeFor[string]())
	if !d.Param(0).Is(reflect.TypeFor[int]()) {
		t.Error("descriptor changed when the caller's slice was modified")
	}
	got := d.Params()
	got[0] = Descriptor{}
	if d.Param(0).IsZero() {
		t.Error("Params() exposed internal storage")
	}
}

func TestDescribe(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		typ        reflect.Type
		wantString string
		wantParams int
	}{
		{reflect.TypeFor[int](), "int", 0},
		{reflect.TypeFor[[]string](), "[]string", 1},
		{reflect.TypeFor[[3][2]int](), "[3][2]int", 1},
		{reflect.TypeFor[map[string][]int](), "map[string][]int", 2},
		{reflect.TypeFor[*node](), "*node", 1},
		{reflect.TypeFor[ids](), "ids", 1},
	}
	for _, tt := range tests {
		t.Run(tt.wantString, func(t *testing.T) {
			d := r.Describe(tt.typ)
			if got := d.String(); got != tt.wantString {
				t.Errorf("String() = %q, want %q", got, tt.wantString)
			}
			if d.NumParams() != tt.wantParams {
				t.Errorf("NumParams() = %d, want %d", d.NumParams(), tt.wantParams)
			}
			if d.GoType() != tt.typ {
				t.Errorf("GoType() = %v, want %v", d.GoType(), tt.typ)
			}
		})
	}
}

func TestDescribe_ArrayComponentIsParameter(t *testing.T) {
	r := NewRegistry()
	d := r.Describe(reflect.TypeFor[[2][]bool]())
	inner := d.Param(0)
	if !inner.Is(reflect.TypeFor[[]bool]()) {
		t.Fatalf("component = %v", inner)
	}
	if !inner.Param(0).Is(reflect.TypeFor[bool]()) {
		t.Errorf("nested component = %v", inner.Param(0))
	}
}

func TestOf_Caches(t *testing.T) {
	r := NewRegistry()
	if r.Of(reflect.TypeFor[node]()) != r.Of(reflect.TypeFor[node]()) {
		t.Error("Of returned different classes for the same type")
	}
}

func TestOf_AbstractKinds(t *testing.T) {
	r := NewRegistry()
	for _, typ := range []reflect.Type{
		reflect.TypeFor[error](),
		reflect.TypeFor[func()](),
		reflect.TypeFor[chan int](),
	} {
		c := r.Of(typ)
		if !c.Abstract {
			t.Errorf("%v should be abstract", typ)
		}
		if len(c.Constructors) != 0 {
			t.Errorf("%v should have no constructors", typ)
		}
	}
}
