package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/holoconf/value"
)

func TestFromAnyScalars(t *testing.T) {
	t.Parallel()

	assert.True(t, value.FromAny(nil).IsNull())

	b, ok := value.FromAny(true).AsBool()
	require.True(t, ok)
	assert.True(t, b)

	i, ok := value.FromAny(int64(7)).AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(7), i)

	f, ok := value.FromAny(1.5).AsFloat()
	require.True(t, ok)
	assert.InEpsilon(t, 1.5, f, 0.0001)

	s, ok := value.FromAny("hi").AsString()
	require.True(t, ok)
	assert.Equal(t, "hi", s)
}

func TestFromAnyCompound(t *testing.T) {
	t.Parallel()

	v := value.FromAny(map[string]any{
		"name": "app",
		"tags": []any{"a", "b"},
	})

	m, ok := v.AsMapping()
	require.True(t, ok)

	name, ok := m.Get("name")
	require.True(t, ok)

	ns, _ := name.AsString()
	assert.Equal(t, "app", ns)

	tags, ok := m.Get("tags")
	require.True(t, ok)

	items, ok := tags.AsSequence()
	require.True(t, ok)
	require.Len(t, items, 2)
}

func TestToAnyRoundTrips(t *testing.T) {
	t.Parallel()

	m := value.NewOrderedMapping()
	m.Set("a", value.Int(1))
	m.Set("b", value.NewSequence([]*value.Value{value.String("x"), value.Bool(true)}))

	out := value.NewMapping(m).ToAny()

	asMap, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(1), asMap["a"])

	seq, ok := asMap["b"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"x", true}, seq)
}

func TestToAnyNullAndBytes(t *testing.T) {
	t.Parallel()

	assert.Nil(t, value.Null().ToAny())
	assert.Equal(t, "raw", value.Bytes([]byte("raw")).ToAny())
}
