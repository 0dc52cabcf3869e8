package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/holoconf/schema"
	"go.jacobcolvin.com/holoconf/value"
)

const sampleSchema = `
type: object
required: [name]
properties:
  name:
    type: string
  port:
    type: integer
    minimum: 1
    maximum: 65535
    default: 5432
  log_level:
    type: string
    enum: [debug, info, warn, error]
  database:
    type: object
    properties:
      host:
        type: [string, "null"]
`

func mustSchema(t *testing.T) *schema.Schema {
	t.Helper()

	s, err := schema.FromYAML([]byte(sampleSchema))
	require.NoError(t, err)

	return s
}

func TestFromYAMLInvalidDocument(t *testing.T) {
	t.Parallel()

	_, err := schema.FromYAML([]byte("not: [valid"))
	require.ErrorIs(t, err, schema.ErrInvalidSchema)
}

func TestValidateValidInstance(t *testing.T) {
	t.Parallel()

	s := mustSchema(t)

	m := value.NewOrderedMapping()
	m.Set("name", value.String("myapp"))
	m.Set("port", value.Int(8080))

	err := s.Validate(value.NewMapping(m))
	require.NoError(t, err)
}

func TestValidateMissingRequired(t *testing.T) {
	t.Parallel()

	s := mustSchema(t)

	err := s.Validate(value.NewMapping(value.NewOrderedMapping()))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrValidation)
}

func TestValidateConstraintViolation(t *testing.T) {
	t.Parallel()

	s := mustSchema(t)

	m := value.NewOrderedMapping()
	m.Set("name", value.String("myapp"))
	m.Set("port", value.Int(70000))

	err := s.Validate(value.NewMapping(m))
	require.Error(t, err)
}

func TestValidateEnum(t *testing.T) {
	t.Parallel()

	s := mustSchema(t)

	m := value.NewOrderedMapping()
	m.Set("name", value.String("myapp"))
	m.Set("log_level", value.String("verbose"))

	err := s.Validate(value.NewMapping(m))
	require.Error(t, err)
}

func TestValidateCollectMultipleErrors(t *testing.T) {
	t.Parallel()

	s := mustSchema(t)

	m := value.NewOrderedMapping()
	m.Set("port", value.Int(70000))

	errs := s.ValidateCollect(value.NewMapping(m))
	assert.NotEmpty(t, errs)
}

func TestGetDefault(t *testing.T) {
	t.Parallel()

	s := mustSchema(t)

	def, ok := s.GetDefault(value.MustParsePath("port"))
	require.True(t, ok)

	i, ok := def.AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 5432, i)

	_, ok = s.GetDefault(value.MustParsePath("name"))
	assert.False(t, ok)
}

func TestAllowsNull(t *testing.T) {
	t.Parallel()

	s := mustSchema(t)

	assert.True(t, s.AllowsNull(value.MustParsePath("database.host")))
	assert.False(t, s.AllowsNull(value.MustParsePath("name")))
}
