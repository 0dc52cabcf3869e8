package holoconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.jacobcolvin.com/holoconf/value"
)

// decodeJSON parses data as JSON into a [*value.Value] tree, preserving
// object key order via [json.Decoder.Token] rather than unmarshaling into
// map[string]any (which, like YAML's default decode, has no order of its
// own). No example repo or ecosystem library in the retrieval pack offers
// order-preserving JSON decode; the token stream is the idiomatic stdlib
// substitute.
func decodeJSON(data []byte) (*value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (*value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	return jsonTokenToValue(tok, dec)
}

func jsonTokenToValue(tok json.Token, dec *json.Decoder) (*value.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := value.NewOrderedMapping()

			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}

				key, _ := keyTok.(string)

				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}

				m.Set(key, val)
			}

			if _, err := dec.Token(); err != nil && err != io.EOF {
				return nil, err
			}

			return value.NewMapping(m), nil
		case '[':
			var items []*value.Value

			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}

				items = append(items, val)
			}

			if _, err := dec.Token(); err != nil && err != io.EOF {
				return nil, err
			}

			return value.NewSequence(items), nil
		}

		return value.Null(), nil
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return value.Int(i), nil
		}

		f, _ := t.Float64()

		return value.Float(f), nil
	case string:
		return value.String(t), nil
	default:
		return value.Null(), nil
	}
}

// encodeJSON renders v as pretty-printed JSON, preserving mapping key
// order. encoding/json has no hook for ordered map marshaling, so the tree
// is walked and written directly rather than through json.Marshal at the
// mapping level (individual scalar leaves still go through json.Marshal).
func encodeJSON(v *value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONValue(&buf, v, ""); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v *value.Value, prefix string) error {
	switch v.Kind() {
	case value.KindMapping:
		m, _ := v.AsMapping()

		keys := m.Keys()
		if len(keys) == 0 {
			buf.WriteString("{}")

			return nil
		}

		buf.WriteString("{\n")

		childPrefix := prefix + "  "

		for i, k := range keys {
			buf.WriteString(childPrefix)

			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}

			buf.Write(kb)
			buf.WriteString(": ")

			val, _ := m.Get(k)
			if err := writeJSONValue(buf, val, childPrefix); err != nil {
				return err
			}

			if i < len(keys)-1 {
				buf.WriteByte(',')
			}

			buf.WriteByte('\n')
		}

		buf.WriteString(prefix + "}")

		return nil
	case value.KindSequence:
		items, _ := v.AsSequence()

		if len(items) == 0 {
			buf.WriteString("[]")

			return nil
		}

		buf.WriteString("[\n")

		childPrefix := prefix + "  "

		for i, item := range items {
			buf.WriteString(childPrefix)

			if err := writeJSONValue(buf, item, childPrefix); err != nil {
				return err
			}

			if i < len(items)-1 {
				buf.WriteByte(',')
			}

			buf.WriteByte('\n')
		}

		buf.WriteString(prefix + "]")

		return nil
	default:
		b, err := json.Marshal(v.ToAny())
		if err != nil {
			return err
		}

		buf.Write(b)

		return nil
	}
}
