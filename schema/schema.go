// Package schema wraps JSON Schema compilation and validation for use
// against the value model: structural (raw, pre-resolution) validation,
// full resolved validation, and default-value / null-allowance lookups used
// by the document façade's schema-default fallback.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/holoconf/value"
)

// ErrInvalidSchema indicates the schema document itself is malformed or
// failed JSON Schema compilation.
var ErrInvalidSchema = errors.New("schema: invalid schema document")

// ErrValidation indicates an instance failed schema validation.
var ErrValidation = errors.New("schema: validation failed")

// Schema is a compiled JSON Schema bound to the value model.
type Schema struct {
	raw      *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// FromJSON compiles a schema from a JSON document.
func FromJSON(data []byte) (*Schema, error) {
	var raw jsonschema.Schema
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return fromRaw(&raw)
}

// FromYAML compiles a schema from a YAML document.
func FromYAML(data []byte) (*Schema, error) {
	var asAny any
	if err := yaml.Unmarshal(data, &asAny); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	jsonBytes, err := json.Marshal(asAny)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return FromJSON(jsonBytes)
}

// FromFile compiles a schema from a file, dispatching on its extension
// (.json for JSON, anything else for YAML, matching the convention used
// throughout the document loader).
func FromFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: reading %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FromJSON(data)
	}

	return FromYAML(data)
}

func fromRaw(raw *jsonschema.Schema) (*Schema, error) {
	resolved, err := raw.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return &Schema{raw: raw, resolved: resolved}, nil
}

// AsSchema exposes the underlying compiled [*jsonschema.Schema], e.g. for a
// document to merge its own schema with one loaded from a glob layer.
func (s *Schema) AsSchema() *jsonschema.Schema { return s.raw }

// Validate reports the first validation failure found against v, or nil if
// v is valid.
func (s *Schema) Validate(v *value.Value) error {
	if err := s.resolved.Validate(v.ToAny()); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// ValidationError is a single validation failure: the instance path (JSON
// Pointer-style, "" for the document root) and a human-readable message.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return e.Path + ": " + e.Message
}

// ValidateCollect validates v and returns every failure found, rather than
// stopping at the first. Returns an empty slice if v is valid.
func (s *Schema) ValidateCollect(v *value.Value) []ValidationError {
	err := s.resolved.Validate(v.ToAny())
	if err == nil {
		return nil
	}

	return collectErrors(err)
}

// collectErrors flattens err into individual [ValidationError]s. jsonschema
// validation failures are joined with errors.Join when there is more than
// one; unwrap that shape, falling back to a single entry for anything else.
func collectErrors(err error) []ValidationError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok { //nolint:errorlint // deliberate multi-error unwrap
		var out []ValidationError

		for _, sub := range joined.Unwrap() {
			out = append(out, collectErrors(sub)...)
		}

		return out
	}

	return []ValidationError{toValidationError(err)}
}

func toValidationError(err error) ValidationError {
	if ve, ok := err.(*jsonschema.ValidationError); ok { //nolint:errorlint // type-switch on concrete library error
		path := ve.InstanceLocation.String()

		return ValidationError{Path: path, Message: ve.Error()}
	}

	return ValidationError{Message: err.Error()}
}
