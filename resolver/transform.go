package resolver

import (
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/holoconf/value"
)

func newJSONResolver() Resolver {
	return NewFuncResolver("json", resolveJSON)
}

func resolveJSON(args []string, _ map[string]string, _ *Context) (ResolvedValue, error) {
	if len(args) != 1 {
		return ResolvedValue{}, fmt.Errorf("%w: json resolver takes exactly one argument", ErrInvalidArgs)
	}

	var decoded any

	dec := json.NewDecoder(strings.NewReader(args[0]))
	dec.UseNumber()

	if err := dec.Decode(&decoded); err != nil {
		return ResolvedValue{}, fmt.Errorf("%w: invalid json: %w", ErrInvalidArgs, err)
	}

	if dec.More() {
		return ResolvedValue{}, fmt.Errorf("%w: invalid json: trailing data after value", ErrInvalidArgs)
	}

	return ResolvedValue{Value: value.FromAny(decoded)}, nil
}

func newYAMLResolver() Resolver {
	return NewFuncResolver("yaml", resolveYAML)
}

func resolveYAML(args []string, _ map[string]string, _ *Context) (ResolvedValue, error) {
	if len(args) != 1 {
		return ResolvedValue{}, fmt.Errorf("%w: yaml resolver takes exactly one argument", ErrInvalidArgs)
	}

	var decoded any

	if err := yaml.Unmarshal([]byte(args[0]), &decoded); err != nil {
		return ResolvedValue{}, fmt.Errorf("%w: invalid yaml: %w", ErrInvalidArgs, err)
	}

	return ResolvedValue{Value: value.FromAny(decoded)}, nil
}

func newCSVResolver() Resolver {
	return NewFuncResolver("csv", resolveCSV)
}

func resolveCSV(args []string, kwargs map[string]string, _ *Context) (ResolvedValue, error) {
	if len(args) != 1 {
		return ResolvedValue{}, fmt.Errorf("%w: csv resolver takes exactly one argument", ErrInvalidArgs)
	}

	r := csv.NewReader(strings.NewReader(args[0]))

	if sep := kwargOr(kwargs, "delimiter", ","); sep != "," {
		if len(sep) != 1 {
			return ResolvedValue{}, fmt.Errorf("%w: csv delimiter must be a single character", ErrInvalidArgs)
		}

		r.Comma = rune(sep[0])
	}

	records, err := r.ReadAll()
	if err != nil {
		return ResolvedValue{}, fmt.Errorf("%w: invalid csv: %w", ErrInvalidArgs, err)
	}

	rows := make([]*value.Value, 0, len(records))

	for _, record := range records {
		cols := make([]*value.Value, 0, len(record))
		for _, field := range record {
			cols = append(cols, value.String(field))
		}

		rows = append(rows, value.NewSequence(cols))
	}

	return ResolvedValue{Value: value.NewSequence(rows)}, nil
}

func newSplitResolver() Resolver {
	return NewFuncResolver("split", resolveSplit)
}

func resolveSplit(args []string, kwargs map[string]string, _ *Context) (ResolvedValue, error) {
	if len(args) != 1 {
		return ResolvedValue{}, fmt.Errorf("%w: split resolver takes exactly one argument", ErrInvalidArgs)
	}

	sep := kwargOr(kwargs, "sep", ",")

	parts := strings.Split(args[0], sep)
	items := make([]*value.Value, 0, len(parts))

	for _, p := range parts {
		if kwargOr(kwargs, "trim", "true") == "true" {
			p = strings.TrimSpace(p)
		}

		items = append(items, value.String(p))
	}

	return ResolvedValue{Value: value.NewSequence(items)}, nil
}

func newBase64Resolver() Resolver {
	return NewFuncResolver("base64", resolveBase64)
}

func resolveBase64(args []string, kwargs map[string]string, _ *Context) (ResolvedValue, error) {
	if len(args) != 1 {
		return ResolvedValue{}, fmt.Errorf("%w: base64 resolver takes exactly one argument", ErrInvalidArgs)
	}

	mode := kwargOr(kwargs, "mode", "decode")

	switch mode {
	case "encode":
		return ResolvedValue{Value: value.String(base64.StdEncoding.EncodeToString([]byte(args[0])))}, nil
	case "decode":
		decoded, err := base64.StdEncoding.DecodeString(args[0])
		if err != nil {
			return ResolvedValue{}, fmt.Errorf("%w: invalid base64: %w", ErrInvalidArgs, err)
		}

		if kwargOr(kwargs, "encoding", "utf-8") == "binary" {
			return ResolvedValue{Value: value.Bytes(decoded)}, nil
		}

		return ResolvedValue{Value: value.String(string(decoded))}, nil
	default:
		return ResolvedValue{}, fmt.Errorf("%w: unknown base64 mode %q", ErrInvalidArgs, mode)
	}
}
