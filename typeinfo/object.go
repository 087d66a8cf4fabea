package typeinfo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

var objectType = reflect.TypeFor[*Object]()

// Object is the instance of a declared class that has no Go type of its own.
// Fields keep the order in which they were first set.
type Object struct {
	class  *Class
	names  []string
	values map[string]any
}

// NewObject returns an empty instance of c.
func NewObject(c *Class) *Object {
	return &Object{class: c, values: make(map[string]any)}
}

// Class returns the class o is an instance of.
func (o *Object) Class() *Class { return o.class }

// Get returns the value of the named field.
func (o *Object) Get(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Set stores the value of the named field.
func (o *Object) Set(name string, value any) {
	if _, ok := o.values[name]; !ok {
		o.names = append(o.names, name)
	}
	o.values[name] = value
}

// Fields returns field names in insertion order.
func (o *Object) Fields() []string {
	return append([]string(nil), o.names...)
}

// MarshalJSON encodes o as a JSON object with fields in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range o.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[name])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes o as a YAML mapping with fields in insertion order.
func (o *Object) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range o.names {
		var val yaml.Node
		if err := val.Encode(o.values[name]); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&val,
		)
	}
	return node, nil
}

func objectSetter(name string) func(instance, value any) error {
	return func(instance, value any) error {
		o, ok := instance.(*Object)
		if !ok {
			return fmt.Errorf("field %s: expected *typeinfo.Object, got %T", name, instance)
		}
		o.Set(name, value)
		return nil
	}
}
