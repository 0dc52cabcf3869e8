package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/holoconf/resolver"
)

func TestContextWouldCauseCycle(t *testing.T) {
	t.Parallel()

	ctx := &resolver.Context{ResolutionStack: []string{"a.b", "a.c"}}

	assert.True(t, ctx.WouldCauseCycle("a.b"))
	assert.False(t, ctx.WouldCauseCycle("a.d"))
}

func TestContextPushedDoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	ctx := &resolver.Context{ResolutionStack: []string{"a"}}
	pushed := ctx.Pushed("b")

	assert.Equal(t, []string{"a"}, ctx.ResolutionStack)
	assert.Equal(t, []string{"a", "b"}, pushed.ResolutionStack)
	assert.True(t, pushed.WouldCauseCycle("b"))
	assert.False(t, ctx.WouldCauseCycle("b"))
}

func TestContextWithPath(t *testing.T) {
	t.Parallel()

	ctx := &resolver.Context{ConfigPath: "a"}
	next := ctx.WithPath("a.b")

	assert.Equal(t, "a", ctx.ConfigPath)
	assert.Equal(t, "a.b", next.ConfigPath)
}
