package typeinfo

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type point struct {
	X, Y int
}

func newPoint(x, y int) point { return point{X: x, Y: y} }

func TestAddConstructor_ReplacesImplicitConstructor(t *testing.T) {
	r := NewRegistry()
	typ, err := r.AddConstructor(newPoint, "x", "y")
	if err != nil {
		t.Fatalf("AddConstructor: %v", err)
	}
	if typ != reflect.TypeFor[point]() {
		t.Fatalf("registered for %v", typ)
	}

	ctors, err := r.Constructors(r.Describe(typ))
	if err != nil {
		t.Fatal(err)
	}
	if len(ctors) != 1 {
		t.Fatalf("got %d constructors, want 1", len(ctors))
	}
	c := ctors[0]
	if !c.FullyInitializes {
		t.Error("function constructor should be fully initializing")
	}
	v, err := c.New([]any{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if v != (point{X: 1, Y: 2}) {
		t.Errorf("New() = %v", v)
	}

	if _, err := r.AddConstructor(func() point { return point{} }); err != nil {
		t.Fatal(err)
	}
	if ctors, _ := r.Constructors(r.Describe(typ)); len(ctors) != 2 {
		t.Errorf("second registration should add, got %d constructors", len(ctors))
	}
}

func TestConstructorFunc(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		fn      any
		wantErr bool
	}{
		{"not a func", 42, true},
		{"no result", func() {}, true},
		{"second result not error", func() (int, int) { return 0, 0 }, true},
		{"variadic", func(...int) int { return 0 }, true},
		{"value", func(s string) int { return len(s) }, false},
		{"value and error", func() (int, error) { return 0, boom }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ConstructorFunc(tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ConstructorFunc() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	_, decl, err := ConstructorFunc(func() (int, error) { return 0, boom })
	if err != nil {
		t.Fatal(err)
	}
	if _, err := decl.New(nil); !errors.Is(err, boom) {
		t.Errorf("New() error = %v, want boom", err)
	}
	_, decl, _ = ConstructorFunc(func(s string) int { return len(s) })
	if _, err := decl.New([]any{3}); err == nil {
		t.Error("expected argument type error")
	}
	if v, err := decl.New([]any{nil}); err != nil || v != 0 {
		t.Errorf("nil argument: New() = %v, %v", v, err)
	}
}

func TestSetValues(t *testing.T) {
	type color string
	r := NewRegistry()
	typ := reflect.TypeFor[color]()
	if err := r.SetValues(typ, color("red"), color("blue")); err != nil {
		t.Fatal(err)
	}
	if got := r.Of(typ).Values; len(got) != 2 {
		t.Errorf("Values = %v", got)
	}
	if err := r.SetValues(typ, "red"); err == nil {
		t.Error("expected error for a value of the wrong type")
	}
}

func TestAssign(t *testing.T) {
	var dst ids
	v := reflect.ValueOf(&dst).Elem()
	if err := Assign(v, []int{1, 2}); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if len(dst) != 2 {
		t.Errorf("dst = %v", dst)
	}
	if err := Assign(v, nil); err != nil || dst != nil {
		t.Errorf("Assign(nil) = %v, dst = %v", err, dst)
	}
	if err := Assign(v, "nope"); err == nil {
		t.Error("expected error assigning a string to a slice")
	}
}

func TestObject_Marshal(t *testing.T) {
	r := NewRegistry()
	c, err := r.Declare(&Class{Name: "Thing", Fields: []FieldDecl{{Name: "b"}, {Name: "a"}}})
	if err != nil {
		t.Fatal(err)
	}
	ctors, err := r.Constructors(NewDescriptor(c))
	if err != nil || len(ctors) != 1 {
		t.Fatalf("default constructor missing: %v", err)
	}
	inst, err := ctors[0].New(nil)
	if err != nil {
		t.Fatal(err)
	}
	o := inst.(*Object)
	if err := c.Fields[0].Set(o, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.Fields[1].Set(o, "x"); err != nil {
		t.Fatal(err)
	}
	o.Set("b", 2)

	data, err := json.Marshal(o)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"b":2,"a":"x"}`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}

	out, err := yaml.Marshal(o)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(string(out)), "b: 2\na: x"; got != want {
		t.Errorf("yaml = %q, want %q", got, want)
	}

	if err := c.Fields[0].Set("not an object", 1); err == nil {
		t.Error("expected error setting a field on a non-Object")
	}
}

func TestClass_HasConstructors(t *testing.T) {
	r := NewRegistry()
	if r.Of(reflect.TypeFor[*point]()).HasConstructors() {
		t.Error("implicit zero-value constructor reported as registered")
	}
	if _, err := r.AddConstructor(func(x int) *point { return &point{X: x} }); err != nil {
		t.Fatalf("AddConstructor: %v", err)
	}
	if !r.Of(reflect.TypeFor[*point]()).HasConstructors() {
		t.Error("registered constructor not reported")
	}

	iface := r.Of(reflect.TypeFor[error]())
	if iface.HasConstructors() {
		t.Error("interface reported constructors")
	}
	r.SetConstructors(reflect.TypeFor[error](), ConstructorDecl{New: func([]any) (any, error) { return nil, nil }})
	if !iface.HasConstructors() {
		t.Error("SetConstructors not reported")
	}
}
