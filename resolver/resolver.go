// Package resolver implements the pluggable resolver contract: a
// name-indexed registry of strategies for turning a resolver call
// (positional args, keyword args, and a [Context]) into a resolved value,
// plus the built-in env/file/http/https/json/yaml/csv/split/base64
// resolvers.
//
// External resolvers (cloud secret stores, cloud blob stores) implement
// the same [Resolver] interface and register themselves with [Global] or a
// document's own registry; the engine never special-cases a resolver by
// name.
package resolver

import "go.jacobcolvin.com/holoconf/value"

// ResolvedValue is the result of a resolver call: a value plus whether its
// origin should be treated as sensitive. Sensitivity is metadata carried
// alongside the value, not a wrapper on it; the resolution engine threads
// it through string concatenation and self-references.
type ResolvedValue struct {
	Value     *value.Value
	Sensitive bool
}

// Resolver is a named strategy for resolving a call of the form
// `${name:arg1,arg2,kwarg=val}`. All args and all non-framework kwargs are
// already fully resolved to strings by the time Resolve is called; Resolve
// itself must be a pure function of its inputs and ctx for a given process
// (the engine tolerates redundant concurrent calls for the same path, so a
// resolver must not rely on being called exactly once).
type Resolver interface {
	Name() string
	Resolve(args []string, kwargs map[string]string, ctx *Context) (ResolvedValue, error)
}

// ResolveFunc is the function signature backing [FuncResolver].
type ResolveFunc func(args []string, kwargs map[string]string, ctx *Context) (ResolvedValue, error)

// FuncResolver adapts a plain function into a [Resolver], analogous to
// [net/http.HandlerFunc].
type FuncResolver struct {
	name string
	fn   ResolveFunc
}

// NewFuncResolver builds a [FuncResolver] named name backed by fn.
func NewFuncResolver(name string, fn ResolveFunc) *FuncResolver {
	return &FuncResolver{name: name, fn: fn}
}

// Name returns the resolver's registered name.
func (f *FuncResolver) Name() string { return f.name }

// Resolve delegates to the wrapped function.
func (f *FuncResolver) Resolve(args []string, kwargs map[string]string, ctx *Context) (ResolvedValue, error) {
	return f.fn(args, kwargs, ctx)
}

func kwargOr(kwargs map[string]string, key, def string) string {
	if v, ok := kwargs[key]; ok {
		return v
	}

	return def
}
