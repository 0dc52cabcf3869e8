package value

import (
	"encoding/json"
	"fmt"
)

// FromAny converts a decoded JSON/YAML any tree (as produced by
// encoding/json, goccy/go-yaml, or similar) into a [Value] tree. Used by
// resolvers whose output is itself JSON/YAML text and by schema default
// lookup; document loading does not use it. map[string]any inputs have no inherent key order; callers that
// need order-preserving decoding of the primary document tree should build
// the [Mapping] directly from an AST walk instead of routing through this
// function.
func FromAny(v any) *Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint64:
		return Int(int64(t))
	case float64:
		return Float(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}

		f, _ := t.Float64()

		return Float(f)
	case []byte:
		return Bytes(t)
	case []any:
		items := make([]*Value, 0, len(t))
		for _, item := range t {
			items = append(items, FromAny(item))
		}

		return NewSequence(items)
	case map[string]any:
		m := NewOrderedMapping()
		for k, val := range t {
			m.Set(k, FromAny(val))
		}

		return NewMapping(m)
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// ToAny converts v into a plain Go any tree suitable for JSON Schema
// validation or JSON/YAML re-encoding: mappings become map[string]any,
// sequences become []any, bytes become their string form (schema
// validators and encoders have no byte-string distinction to target).
func (v *Value) ToAny() any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		b, _ := v.AsBool()

		return b
	case KindInt:
		i, _ := v.AsInt()

		return i
	case KindFloat:
		f, _ := v.AsFloat()

		return f
	case KindString:
		s, _ := v.AsString()

		return s
	case KindBytes:
		return v.Display()
	case KindSequence:
		items, _ := v.AsSequence()
		out := make([]any, len(items))

		for i, item := range items {
			out[i] = item.ToAny()
		}

		return out
	case KindMapping:
		m, _ := v.AsMapping()
		out := make(map[string]any, m.Len())

		m.Range(func(key string, val *Value) bool {
			out[key] = val.ToAny()

			return true
		})

		return out
	default:
		return nil
	}
}
