// Package settings turns a plugin's self-reported JSON Schema into flat
// setting descriptors and reconciles them with previously cataloged ones.
package settings

import (
	"fmt"
	"sort"
	"strings"
)

// Schema is a read-only view over a JSON-Schema-like node as decoded from
// a plugin's about payload. Every accessor tolerates missing or mistyped
// keys and returns a zero value instead.
type Schema map[string]any

// About is the subset of an about payload the flattener consumes.
type About struct {
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
	Settings     Schema   `json:"settings"`
}

// Properties returns the field schemas in declaration order when the
// payload preserved it, otherwise sorted by field name.
func (s Schema) Properties() []Property {
	if props, ok := s["properties"].(OrderedProperties); ok {
		return props
	}

	raw, ok := s["properties"].(map[string]any)
	if !ok {
		return nil
	}
	return sortedProperties(raw)
}

// OneOf returns the discriminated variants of the node.
func (s Schema) OneOf() []Schema {
	switch raw := s["oneOf"].(type) {
	case []Schema:
		return raw
	case []any:
		variants := make([]Schema, 0, len(raw))
		for _, v := range raw {
			variants = append(variants, asSchema(v))
		}
		return variants
	}
	return nil
}

// Required returns the names of the child fields this node marks required.
func (s Schema) Required() []string {
	return stringList(s["required"])
}

// Type returns the raw "type" value, which may be a string, a list of
// strings or nil.
func (s Schema) Type() any {
	return s["type"]
}

// String returns the value of key when it is a string.
func (s Schema) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Enum returns the enumerated values of the node.
func (s Schema) Enum() []any {
	switch list := s["enum"].(type) {
	case []any:
		return list
	case []string:
		out := make([]any, len(list))
		for i, v := range list {
			out[i] = v
		}
		return out
	}
	return nil
}

// isObject reports whether the node is object-typed. A missing type counts
// as "string".
func (s Schema) isObject() bool {
	switch t := s["type"].(type) {
	case nil:
		return false
	case string:
		return strings.Contains(t, "object")
	case []any:
		for _, member := range t {
			if member == "object" {
				return true
			}
		}
	case []string:
		for _, member := range t {
			if member == "object" {
				return true
			}
		}
	}
	return false
}

// hasChildren reports whether the node nests further properties or variants.
func (s Schema) hasChildren() bool {
	return len(s.Properties()) > 0 || len(s.OneOf()) > 0
}

// Property is a named child of a schema node.
type Property struct {
	Name   string
	Schema Schema
}

// OrderedProperties can be stored under the "properties" key by decoders
// that keep the payload's field order.
type OrderedProperties []Property

func sortedProperties(raw map[string]any) []Property {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]Property, 0, len(names))
	for _, name := range names {
		props = append(props, Property{Name: name, Schema: asSchema(raw[name])})
	}
	return props
}

func asSchema(v any) Schema {
	switch m := v.(type) {
	case Schema:
		return m
	case map[string]any:
		return Schema(m)
	}
	return Schema{}
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// text renders a scalar schema value as description text.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// truthy mirrors JSON truthiness: null, false, zero, empty strings and
// empty containers are all false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}
