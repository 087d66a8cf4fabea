package provider

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/broady/fixture"
	"github.com/broady/fixture/typeinfo"
)

const testdataPkg = "github.com/broady/fixture/provider/testdata"

func loadTestdata(t *testing.T) (*typeinfo.Registry, *Schema) {
	t.Helper()
	reg := typeinfo.NewRegistry()
	provider := &SourceProvider{}
	schema, err := provider.Load(context.Background(), reg, testdataPkg)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return reg, schema
}

func mustLookup(t *testing.T, s *Schema, name string) *typeinfo.Class {
	t.Helper()
	c, ok := s.Lookup(name)
	if !ok {
		t.Fatalf("class %s not found", name)
	}
	return c
}

func TestSourceProvider_Classes(t *testing.T) {
	_, schema := loadTestdata(t)

	if schema.Package != testdataPkg {
		t.Errorf("Package = %q, want %q", schema.Package, testdataPkg)
	}

	base := mustLookup(t, schema, "Base")
	if diff := cmp.Diff([]string{"T"}, base.Params); diff != "" {
		t.Errorf("Base params mismatch (-want +got):\n%s", diff)
	}
	var baseFields []string
	for _, f := range base.Fields {
		baseFields = append(baseFields, f.Name+" "+f.Type.String())
	}
	if diff := cmp.Diff([]string{"ID T", "Items []T", "Grid [2]T"}, baseFields); diff != "" {
		t.Errorf("Base fields mismatch (-want +got):\n%s", diff)
	}

	middle := mustLookup(t, schema, "Middle")
	if diff := cmp.Diff([]string{"U", "V"}, middle.Params); diff != "" {
		t.Errorf("Middle params mismatch (-want +got):\n%s", diff)
	}
	if len(middle.Embeds) != 1 {
		t.Fatalf("Middle has %d embeds, want 1", len(middle.Embeds))
	}
	embed, ok := middle.Embeds[0].Type.(typeinfo.Named)
	if !ok || embed.Class != base {
		t.Fatalf("Middle embeds %v, want Base", middle.Embeds[0].Type)
	}
	if _, ok := embed.Args[0].(typeinfo.MapOf); !ok {
		t.Errorf("Base argument is %T, want a map", embed.Args[0])
	}

	leaf := mustLookup(t, schema, "Leaf")
	if len(leaf.Params) != 0 {
		t.Errorf("Leaf params = %v, want none", leaf.Params)
	}
	for _, f := range leaf.Fields {
		if f.Name == "hidden" {
			t.Error("unexported field hidden was declared")
		}
	}

	if _, ok := schema.Lookup(testdataPkg + ".Leaf"); !ok {
		t.Error("qualified lookup failed")
	}
	if _, ok := schema.Lookup("Score"); ok {
		t.Error("Score has no constants and should not be a class")
	}
}

func TestSourceProvider_Enum(t *testing.T) {
	_, schema := loadTestdata(t)
	status := mustLookup(t, schema, "Status")
	if status.Go != reflect.TypeFor[string]() {
		t.Errorf("Status Go type = %v, want string", status.Go)
	}
	if diff := cmp.Diff([]any{"active", "paused"}, status.Values); diff != "" {
		t.Errorf("Status values mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceProvider_ResolvesThroughEmbedding(t *testing.T) {
	reg, schema := loadTestdata(t)
	fields, err := reg.Fields(typeinfo.NewDescriptor(mustLookup(t, schema, "Leaf")))
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	got := make(map[string]string, len(fields))
	for _, f := range fields {
		got[f.Name] = f.Type.String()
	}
	want := map[string]string{
		"Created": "Time",
		"Status":  "Status",
		"Note":    "*string",
		"Other":   "string",
		"ID":      "map[string]int",
		"Items":   "[]map[string]int",
		"Grid":    "[2]map[string]int",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("field types mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceProvider_Generate(t *testing.T) {
	g := fixture.New()
	// Classes must be declared in the generator's own registry.
	if _, err := (&SourceProvider{}).Load(context.Background(), g.Registry(), testdataPkg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	leaf, ok := g.Registry().Lookup(testdataPkg, "Leaf")
	if !ok {
		t.Fatal("Leaf not declared")
	}

	v, err := g.CreateDescriptor(typeinfo.NewDescriptor(leaf), 42)
	if err != nil {
		t.Fatalf("CreateDescriptor: %v", err)
	}
	obj := v.(*typeinfo.Object)

	if status, _ := obj.Get("Status"); status != "active" && status != "paused" {
		t.Errorf("Status = %v, want a declared constant", status)
	}
	if created, _ := obj.Get("Created"); reflect.TypeOf(created) != reflect.TypeFor[time.Time]() {
		t.Errorf("Created is %T, want time.Time", created)
	}
	if id, _ := obj.Get("ID"); len(id.(map[string]int)) != fixture.CollectionSize {
		t.Errorf("ID = %v, want %d entries", id, fixture.CollectionSize)
	}
	if note, _ := obj.Get("Note"); note == nil || !strings.HasPrefix(*note.(*string), "Note-") {
		t.Errorf("Note = %v, want a pointer to a Note- string", note)
	}

	again, err := g.CreateDescriptor(typeinfo.NewDescriptor(leaf), 42)
	if err != nil {
		t.Fatalf("CreateDescriptor: %v", err)
	}
	a, _ := obj.MarshalJSON()
	b, _ := again.(*typeinfo.Object).MarshalJSON()
	if string(a) != string(b) {
		t.Errorf("same seed produced different values:\n%s\n%s", a, b)
	}
}

func TestSourceProvider_RecursiveGeneric(t *testing.T) {
	g := fixture.New()
	schema, err := (&SourceProvider{}).Load(context.Background(), g.Registry(), testdataPkg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d, err := schema.ParseType(g.Registry(), "Tree[int]")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}

	_, err = g.CreateDescriptor(d, 0)
	if !errors.Is(err, fixture.ErrCyclicReference) {
		t.Fatalf("err = %v, want cyclic reference", err)
	}
	var fe *fixture.Error
	errors.As(err, &fe)
	if want := "cyclic reference starting with: Tree[int] <- []Tree[int] <- Tree[int]"; fe.Message != want {
		t.Errorf("Message = %q, want %q", fe.Message, want)
	}

	v, err := g.WithIgnoreCyclicReferences(true).CreateDescriptor(d, 0)
	if err != nil {
		t.Fatalf("ignoring cycles: %v", err)
	}
	children, _ := v.(*typeinfo.Object).Get("Children")
	for i, c := range children.([]*typeinfo.Object) {
		if c != nil {
			t.Errorf("Children[%d] = %v, want nil", i, c)
		}
	}
}

func TestSourceProvider_UnsupportedShapes(t *testing.T) {
	g := fixture.New().WithIgnoreNoValue(true)
	if _, err := (&SourceProvider{}).Load(context.Background(), g.Registry(), testdataPkg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	tagged, _ := g.Registry().Lookup(testdataPkg, "Tagged")

	_, err := g.CreateDescriptor(typeinfo.NewDescriptor(tagged), 0)
	if !errors.Is(err, fixture.ErrUnresolvableType) {
		t.Fatalf("err = %v, want unresolvable type for the func field", err)
	}
}

func TestParseType(t *testing.T) {
	reg, schema := loadTestdata(t)
	tests := []struct {
		in   string
		want string
	}{
		{"int", "int"},
		{"[]string", "[]string"},
		{"*time.Time", "*Time"},
		{"map[string][]uuid.UUID", "map[string][]UUID"},
		{"[4]byte", "[4]uint8"},
		{"Base[int]", "Base[int]"},
		{"Middle[Base[bool], []int]", "Middle[Base[bool], []int]"},
		{"Status", "Status"},
		{"Leaf", "Leaf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := schema.ParseType(reg, tt.in)
			if err != nil {
				t.Fatalf("ParseType: %v", err)
			}
			if got := d.String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "Missing", "Base", "Base[int, int]", "Base[int", "map[string"} {
		if _, err := schema.ParseType(reg, bad); err == nil {
			t.Errorf("ParseType(%q) succeeded, want error", bad)
		}
	}
}
