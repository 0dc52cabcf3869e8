package resolver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/holoconf/resolver"
)

func TestHTTPResolverDisabledByDefault(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	_, err := reg.Resolve("http", []string{"example.com/data"}, nil, &resolver.Context{})
	require.ErrorIs(t, err, resolver.ErrHTTPDisabled)
}

func TestHTTPResolverFetchesBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	reg := resolver.NewRegistryWithBuiltins()
	ctx := &resolver.Context{HTTP: resolver.HTTPOptions{Allow: true}}

	rv, err := reg.Resolve("http", []string{srv.URL[len("http://"):]}, nil, ctx)
	require.NoError(t, err)

	s, ok := rv.Value.AsString()
	require.True(t, ok)
	assert.Equal(t, "payload", s)
}

func TestHTTPResolverNonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	reg := resolver.NewRegistryWithBuiltins()
	ctx := &resolver.Context{HTTP: resolver.HTTPOptions{Allow: true}}

	_, err := reg.Resolve("http", []string{srv.URL[len("http://"):]}, nil, ctx)
	require.ErrorIs(t, err, resolver.ErrHTTPError)
}

func TestHTTPResolverAllowlistRejectsNonMatchingURL(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	ctx := &resolver.Context{HTTP: resolver.HTTPOptions{
		Allow:     true,
		Allowlist: []string{"http://allowed.example/*"},
	}}

	_, err := reg.Resolve("http", []string{"denied.example/data"}, nil, ctx)
	require.ErrorIs(t, err, resolver.ErrHTTPNotAllowed)
}

func TestHTTPResolverAllowlistRejectsDoubleStarPattern(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	ctx := &resolver.Context{HTTP: resolver.HTTPOptions{
		Allow:     true,
		Allowlist: []string{"http://**.example/*"},
	}}

	_, err := reg.Resolve("http", []string{"anything.example/data"}, nil, ctx)
	require.ErrorIs(t, err, resolver.ErrInvalidArgs)
}

func TestHTTPResolverAllowlistRejectsChainedWildcardPattern(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	ctx := &resolver.Context{HTTP: resolver.HTTPOptions{
		Allow:     true,
		Allowlist: []string{"http://a.*.*.example/*"},
	}}

	_, err := reg.Resolve("http", []string{"a.b.c.example/data"}, nil, ctx)
	require.ErrorIs(t, err, resolver.ErrInvalidArgs)
}

func TestHTTPResolverRejectsMismatchedScheme(t *testing.T) {
	t.Parallel()

	reg := resolver.NewRegistryWithBuiltins()
	ctx := &resolver.Context{HTTP: resolver.HTTPOptions{Allow: true}}

	_, err := reg.Resolve("https", []string{"http://plain.example/data"}, nil, ctx)
	require.ErrorIs(t, err, resolver.ErrInvalidArgs)
}
