package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// object keeps the key order of a decoded JSON object.
type object struct {
	keys   []string
	values map[string]any
}

// DecodeAbout parses an about payload. Unlike encoding/json's map decoding
// it keeps the declaration order of every "properties" object, so settings
// come out in the order the plugin lists them.
func DecodeAbout(data []byte) (*About, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode about payload: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode about payload: unexpected data after JSON document")
	}

	root, ok := v.(*object)
	if !ok {
		return nil, fmt.Errorf("failed to decode about payload: expected a JSON object")
	}

	payload := toSchema(root)
	about := &About{
		Name:         payload.String("name"),
		Capabilities: stringList(payload["capabilities"]),
		Settings:     asSchema(payload["settings"]),
	}
	return about, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &object{values: make(map[string]any)}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if _, seen := obj.values[key]; !seen {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := make([]any, 0)
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// toSchema converts a decoded object into a Schema, storing nested
// "properties" objects as OrderedProperties.
func toSchema(obj *object) Schema {
	s := make(Schema, len(obj.keys))
	for _, key := range obj.keys {
		val := obj.values[key]
		if props, ok := val.(*object); ok && key == "properties" {
			ordered := make(OrderedProperties, 0, len(props.keys))
			for _, name := range props.keys {
				child, _ := toPlain(props.values[name]).(map[string]any)
				ordered = append(ordered, Property{Name: name, Schema: asSchema(child)})
			}
			s[key] = ordered
			continue
		}
		s[key] = toPlain(val)
	}
	return s
}

func toPlain(v any) any {
	switch t := v.(type) {
	case *object:
		return map[string]any(toSchema(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toPlain(item)
		}
		return out
	}
	return v
}
