package schema

import (
	"bytes"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/holoconf/value"
)

// GetDefault walks path through the schema's "properties" tree (map-key
// segments through "properties", index segments through "items") and
// returns the terminal property's default value, if any. Decodes with
// [json.Decoder.UseNumber] so an integer default (e.g. "default": 5432)
// becomes a [value.Value] of kind int rather than float, matching how the
// document's own JSON loader distinguishes the two (see jsondoc.go).
func (s *Schema) GetDefault(path value.Path) (*value.Value, bool) {
	node := propertyNode(s.raw, path)
	if node == nil || node.Default == nil {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(node.Default))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, false
	}

	return value.FromAny(decoded), true
}

// AllowsNull reports whether the terminal property addressed by path
// declares "null" among its allowed types.
func (s *Schema) AllowsNull(path value.Path) bool {
	node := propertyNode(s.raw, path)
	if node == nil {
		return false
	}

	if node.Type == "null" {
		return true
	}

	for _, t := range node.Types {
		if t == "null" {
			return true
		}
	}

	return false
}

// propertyNode walks path's key segments through nested "properties" maps,
// descending through "items" when a path segment is an index. Returns nil
// if any segment has no corresponding schema node.
func propertyNode(root *jsonschema.Schema, path value.Path) *jsonschema.Schema {
	node := root

	for _, seg := range path {
		if node == nil {
			return nil
		}

		switch seg.Kind {
		case value.SegmentKey:
			if node.Properties == nil {
				return nil
			}

			next, ok := node.Properties[seg.Key]
			if !ok {
				return nil
			}

			node = next
		case value.SegmentIndex:
			node = node.Items
		}
	}

	return node
}
