package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/holoconf/resolver"
)

func TestJSONResolver(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	rv, err := reg.Resolve("json", []string{`{"a":1,"b":[true,null]}`}, nil, &resolver.Context{})
	require.NoError(t, err)

	m, ok := rv.Value.AsMapping()
	require.True(t, ok)

	a, ok := m.Get("a")
	require.True(t, ok)
	ai, ok := a.AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 1, ai)
}

func TestJSONResolverInvalid(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	_, err := reg.Resolve("json", []string{`{not json`}, nil, &resolver.Context{})
	require.ErrorIs(t, err, resolver.ErrInvalidArgs)
}

func TestYAMLResolver(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	rv, err := reg.Resolve("yaml", []string{"a: 1\nb: two\n"}, nil, &resolver.Context{})
	require.NoError(t, err)

	m, ok := rv.Value.AsMapping()
	require.True(t, ok)

	b, ok := m.Get("b")
	require.True(t, ok)
	bs, ok := b.AsString()
	require.True(t, ok)
	assert.Equal(t, "two", bs)
}

func TestCSVResolver(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	rv, err := reg.Resolve("csv", []string{"a,b\nc,d\n"}, nil, &resolver.Context{})
	require.NoError(t, err)

	rows, ok := rv.Value.AsSequence()
	require.True(t, ok)
	require.Len(t, rows, 2)

	cols, ok := rows[0].AsSequence()
	require.True(t, ok)
	require.Len(t, cols, 2)

	first, ok := cols[0].AsString()
	require.True(t, ok)
	assert.Equal(t, "a", first)
}

func TestSplitResolver(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	rv, err := reg.Resolve("split", []string{"a, b, c"}, nil, &resolver.Context{})
	require.NoError(t, err)

	items, ok := rv.Value.AsSequence()
	require.True(t, ok)
	require.Len(t, items, 3)

	s1, _ := items[1].AsString()
	assert.Equal(t, "b", s1)
}

func TestSplitResolverCustomSeparatorNoTrim(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	rv, err := reg.Resolve("split", []string{"a; b; c"}, map[string]string{"sep": ";", "trim": "false"}, &resolver.Context{})
	require.NoError(t, err)

	items, ok := rv.Value.AsSequence()
	require.True(t, ok)
	require.Len(t, items, 3)

	s1, _ := items[1].AsString()
	assert.Equal(t, " b", s1)
}

func TestBase64Resolver(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	rv, err := reg.Resolve("base64", []string{"aGVsbG8="}, nil, &resolver.Context{})
	require.NoError(t, err)

	s, ok := rv.Value.AsString()
	require.True(t, ok)
	assert.Equal(t, "hello", s)
}

func TestBase64ResolverEncodeMode(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	rv, err := reg.Resolve("base64", []string{"hello"}, map[string]string{"mode": "encode"}, &resolver.Context{})
	require.NoError(t, err)

	s, ok := rv.Value.AsString()
	require.True(t, ok)
	assert.Equal(t, "aGVsbG8=", s)
}

func TestBase64ResolverInvalid(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	_, err := reg.Resolve("base64", []string{"not base64!!"}, nil, &resolver.Context{})
	require.ErrorIs(t, err, resolver.ErrInvalidArgs)
}
