// Package interp implements the "${...}" interpolation mini-language: a
// recursive-descent parser producing an AST of literals, resolver calls,
// self-references, and concatenations, consumed by the resolution engine.
package interp

import "go.jacobcolvin.com/holoconf/value"

// Node is a parsed interpolation AST node: one of [Literal], [*Resolver],
// [*SelfRef], or [*Concat].
type Node interface {
	isNode()
}

// Literal is verbatim text, already unescaped (\${ has become ${).
type Literal string

func (Literal) isNode() {}

// KwArg is one keyword argument of a resolver call: a literal key paired
// with a value AST (the value may itself contain nested interpolation,
// e.g. default=${env:B,fallback}).
type KwArg struct {
	Key   string
	Value Node
}

// Resolver is a named resolver call with positional and keyword arguments.
// Every argument (positional or keyword) is itself a [Node], since args may
// contain nested "${...}" expressions.
type Resolver struct {
	Name   string
	Args   []Node
	Kwargs []KwArg
}

func (*Resolver) isNode() {}

// Kwarg looks up a keyword argument by name. Ok is false if it was not
// supplied.
func (r *Resolver) Kwarg(key string) (Node, bool) {
	for _, kw := range r.Kwargs {
		if kw.Key == key {
			return kw.Value, true
		}
	}

	return nil, false
}

// SelfRef is an in-document reference. Up counts the leading dots consumed
// before Path: 0 means an absolute reference from the document root, 1
// means "sibling of the current key", and N means N levels up from the
// current key before appending Path.
type SelfRef struct {
	Path value.Path
	Up   int
}

func (*SelfRef) isNode() {}

// Concat is an ordered sequence of parts whose resolved form is the string
// concatenation of each part's resolved display form.
type Concat struct {
	Parts []Node
}

func (*Concat) isNode() {}
