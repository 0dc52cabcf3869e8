package holoconf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"go.jacobcolvin.com/holoconf/value"
)

// decodeYAML parses data as YAML into a [*value.Value] tree, preserving
// mapping key order via an AST walk rather than routing through
// [value.FromAny] (which targets map[string]any and has no order to
// preserve). Mirrors the AST-walking style of the teacher's schema
// generator, applied here to build values instead of schema shapes.
func decodeYAML(data []byte) (*value.Value, error) {
	f, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if len(f.Docs) == 0 || f.Docs[0].Body == nil {
		return value.NewMapping(nil), nil
	}

	body := f.Docs[0].Body
	anchors := buildAnchorMap(body)

	return astToValue(body, anchors)
}

func buildAnchorMap(node ast.Node) map[string]ast.Node {
	anchors := make(map[string]ast.Node)
	ast.Walk(&anchorCollector{anchors: anchors}, node)

	return anchors
}

type anchorCollector struct {
	anchors map[string]ast.Node
}

func (v *anchorCollector) Visit(node ast.Node) ast.Visitor {
	if anchor, ok := node.(*ast.AnchorNode); ok {
		v.anchors[anchor.Name.String()] = anchor.Value
	}

	return v
}

func resolveAlias(node ast.Node, anchors map[string]ast.Node) ast.Node {
	alias, ok := node.(*ast.AliasNode)
	if !ok {
		return node
	}

	if resolved, ok := anchors[alias.Value.String()]; ok {
		return resolved
	}

	return nil
}

func unwrapNode(node ast.Node, anchors map[string]ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.TagNode:
			node = n.Value
		case *ast.AnchorNode:
			node = n.Value
		case *ast.AliasNode:
			node = resolveAlias(n, anchors)
			if node == nil {
				return nil
			}
		default:
			return node
		}
	}
}

// astToValue converts a parsed YAML AST node into a [*value.Value],
// preserving mapping key order from the source document.
func astToValue(node ast.Node, anchors map[string]ast.Node) (*value.Value, error) {
	node = unwrapNode(node, anchors)
	if node == nil {
		return value.Null(), nil
	}

	switch n := node.(type) {
	case *ast.NullNode:
		return value.Null(), nil
	case *ast.BoolNode:
		return value.Bool(n.Value), nil
	case *ast.IntegerNode:
		return value.Int(toInt64(n.Value)), nil
	case *ast.FloatNode:
		return value.Float(n.Value), nil
	case *ast.StringNode:
		return value.String(n.Value), nil
	case *ast.LiteralNode:
		if n.Value == nil {
			return value.String(""), nil
		}

		return value.String(n.Value.Value), nil
	case *ast.InfinityNode:
		return value.String(n.String()), nil
	case *ast.NanNode:
		return value.String(n.String()), nil
	case *ast.SequenceNode:
		items := make([]*value.Value, 0, len(n.Values))

		for _, child := range n.Values {
			item, err := astToValue(child, anchors)
			if err != nil {
				return nil, err
			}

			items = append(items, item)
		}

		return value.NewSequence(items), nil
	case *ast.MappingValueNode:
		return mappingValuesToValue([]*ast.MappingValueNode{n}, anchors)
	case *ast.MappingNode:
		return mappingValuesToValue(n.Values, anchors)
	default:
		return value.String(strings.TrimSpace(node.String())), nil
	}
}

func mappingValuesToValue(values []*ast.MappingValueNode, anchors map[string]ast.Node) (*value.Value, error) {
	m := value.NewOrderedMapping()

	for _, mvn := range values {
		if _, ok := mvn.Key.(*ast.MergeKeyNode); ok {
			merged := unwrapNode(mvn.Value, anchors)
			if mn, ok := merged.(*ast.MappingNode); ok {
				mv, err := mappingValuesToValue(mn.Values, anchors)
				if err != nil {
					return nil, err
				}

				mm, _ := mv.AsMapping()
				mm.Range(func(k string, v *value.Value) bool {
					if _, exists := m.Get(k); !exists {
						m.Set(k, v)
					}

					return true
				})
			}

			continue
		}

		key := keyString(mvn.Key)

		v, err := astToValue(mvn.Value, anchors)
		if err != nil {
			return nil, err
		}

		m.Set(key, v)
	}

	return value.NewMapping(m), nil
}

func keyString(node ast.MapKeyNode) string {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value
	case *ast.IntegerNode:
		return fmt.Sprintf("%v", n.Value)
	default:
		return strings.Trim(node.String(), `"'`)
	}
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case uint64:
		return int64(t)
	case int:
		return int64(t)
	default:
		i, _ := strconv.ParseInt(fmt.Sprintf("%v", t), 10, 64)

		return i
	}
}

// encodeYAML renders v as YAML, preserving mapping key order via
// [yaml.MapSlice] rather than a plain map, which has none.
func encodeYAML(v *value.Value) ([]byte, error) {
	return yaml.Marshal(valueToOrdered(v))
}

// valueToOrdered converts v into a tree of native Go values, using
// [yaml.MapSlice]/[yaml.MapItem] in place of map[string]any so the goccy
// encoder emits keys in the mapping's recorded insertion order.
func valueToOrdered(v *value.Value) any {
	switch v.Kind() {
	case value.KindMapping:
		m, _ := v.AsMapping()
		slice := make(yaml.MapSlice, 0, m.Len())

		m.Range(func(key string, val *value.Value) bool {
			slice = append(slice, yaml.MapItem{Key: key, Value: valueToOrdered(val)})

			return true
		})

		return slice
	case value.KindSequence:
		items, _ := v.AsSequence()
		out := make([]any, len(items))

		for i, item := range items {
			out[i] = valueToOrdered(item)
		}

		return out
	default:
		return v.ToAny()
	}
}
