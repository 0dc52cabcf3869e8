package interp

import (
	"errors"
	"fmt"

	"go.jacobcolvin.com/holoconf/value"
)

var (
	// ErrParse is the sentinel wrapped by every interpolation syntax error.
	ErrParse = errors.New("interpolation parse error")
	// ErrEmptyBody indicates a bare "${}" with nothing inside.
	ErrEmptyBody = fmt.Errorf("%w: empty interpolation body", ErrParse)
	// ErrUnterminated indicates a "${" or resolver call with no matching "}".
	ErrUnterminated = fmt.Errorf("%w: unterminated interpolation", ErrParse)
)

// Parse parses s into an interpolation AST. A string with no "${" at all
// parses to a bare [Literal]. Use [ContainsInterpolation] or
// [NeedsProcessing] to skip parsing entirely for strings that plainly don't
// need it.
func Parse(s string) (Node, error) {
	p := &parser{s: s}

	return p.parseUntil(nil)
}

// ContainsInterpolation reports whether s contains an unescaped "${".
func ContainsInterpolation(s string) bool {
	for i := 0; i < len(s); i++ {
		if isEscapeAt(s, i) {
			i += 2

			continue
		}

		if isInterpStartAt(s, i) {
			return true
		}
	}

	return false
}

// NeedsProcessing reports whether s contains an interpolation or an escape
// sequence, i.e. whether [Parse] could produce anything other than a single
// [Literal] equal to s itself.
func NeedsProcessing(s string) bool {
	for i := 0; i < len(s); i++ {
		if isEscapeAt(s, i) || isInterpStartAt(s, i) {
			return true
		}
	}

	return false
}

type parser struct {
	s   string
	pos int
}

func isEscapeAt(s string, i int) bool {
	return i+2 < len(s) && s[i] == '\\' && s[i+1] == '$' && s[i+2] == '{'
}

func isInterpStartAt(s string, i int) bool {
	return i+1 < len(s) && s[i] == '$' && s[i+1] == '{'
}

func isPathChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '.' || c == '[' || c == ']':
		return true
	default:
		return false
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.s) && isSpace(p.s[p.pos]) {
		p.pos++
	}
}

// parseUntil scans literal text and interpolations until either the input
// is exhausted (stop == nil) or stop(c) reports true for the current
// character, which is left unconsumed. It does not recognize '=' as a
// kwarg separator; use parseArg for resolver-call argument parsing.
func (p *parser) parseUntil(stop func(byte) bool) (Node, error) {
	var parts []Node

	var litBuf []byte

	for p.pos < len(p.s) && (stop == nil || !stop(p.s[p.pos])) {
		if isEscapeAt(p.s, p.pos) {
			litBuf = append(litBuf, '$', '{')
			p.pos += 3

			continue
		}

		if isInterpStartAt(p.s, p.pos) {
			if len(litBuf) > 0 {
				parts = append(parts, Literal(litBuf))
				litBuf = nil
			}

			p.pos += 2

			node, err := p.parseBody()
			if err != nil {
				return nil, err
			}

			parts = append(parts, node)

			continue
		}

		litBuf = append(litBuf, p.s[p.pos])
		p.pos++
	}

	if len(litBuf) > 0 {
		parts = append(parts, Literal(litBuf))
	}

	return collapse(parts), nil
}

func collapse(parts []Node) Node {
	parts = mergeAdjacentLiterals(parts)

	switch len(parts) {
	case 0:
		return Literal("")
	case 1:
		return parts[0]
	default:
		return &Concat{Parts: parts}
	}
}

func mergeAdjacentLiterals(parts []Node) []Node {
	out := make([]Node, 0, len(parts))

	for _, n := range parts {
		if lit, ok := n.(Literal); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(Literal); ok {
				out[len(out)-1] = prev + lit

				continue
			}
		}

		out = append(out, n)
	}

	return out
}

// parseBody parses the content of a "${...}" immediately after the opening
// "${", consuming through the matching "}".
func (p *parser) parseBody() (Node, error) {
	p.skipWhitespace()

	if p.pos >= len(p.s) {
		return nil, ErrUnterminated
	}

	if p.s[p.pos] == '}' {
		return nil, ErrEmptyBody
	}

	if p.s[p.pos] == '.' {
		return p.parseSelfRef()
	}

	start := p.pos

	for p.pos < len(p.s) && p.s[p.pos] != ':' && p.s[p.pos] != '}' {
		if p.s[p.pos] == ',' {
			return nil, fmt.Errorf("%w: unexpected ',' after bare identifier (did you mean a resolver call?)", ErrParse)
		}

		p.pos++
	}

	if p.pos >= len(p.s) {
		return nil, ErrUnterminated
	}

	name := p.s[start:p.pos]

	if p.s[p.pos] == '}' {
		for i := 0; i < len(name); i++ {
			if !isPathChar(name[i]) {
				return nil, fmt.Errorf("%w: invalid character %q in path", ErrParse, name[i])
			}
		}

		path, err := value.ParsePath(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}

		p.pos++

		return &SelfRef{Path: path, Up: 0}, nil
	}

	p.pos++ // consume ':'

	return p.parseResolverCall(name)
}

func (p *parser) parseSelfRef() (Node, error) {
	up := 0
	for p.pos < len(p.s) && p.s[p.pos] == '.' {
		up++
		p.pos++
	}

	start := p.pos

	for p.pos < len(p.s) && p.s[p.pos] != '}' {
		c := p.s[p.pos]
		if c == ',' {
			return nil, fmt.Errorf("%w: unexpected ',' in self-reference", ErrParse)
		}

		if !isPathChar(c) {
			return nil, fmt.Errorf("%w: invalid character %q in path", ErrParse, c)
		}

		p.pos++
	}

	if p.pos >= len(p.s) {
		return nil, ErrUnterminated
	}

	raw := p.s[start:p.pos]
	p.pos++ // consume '}'

	path, err := value.ParsePath(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return &SelfRef{Path: path, Up: up}, nil
}

func (p *parser) parseResolverCall(name string) (Node, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty resolver name", ErrParse)
	}

	r := &Resolver{Name: name}

	for {
		if p.pos >= len(p.s) {
			return nil, ErrUnterminated
		}

		if p.s[p.pos] == '}' {
			p.pos++

			return r, nil
		}

		node, key, isKwarg, err := p.parseArg()
		if err != nil {
			return nil, err
		}

		if isKwarg {
			r.Kwargs = append(r.Kwargs, KwArg{Key: key, Value: node})
		} else {
			r.Args = append(r.Args, node)
		}

		if p.pos >= len(p.s) {
			return nil, ErrUnterminated
		}

		switch p.s[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++

			return r, nil
		default:
			return nil, fmt.Errorf("%w: expected ',' or '}' in resolver call", ErrParse)
		}
	}
}

// parseArg parses one resolver-call argument, stopping at a top-level ','
// or '}'. A leading "identifier=" prefix, with no interpolation consumed
// before the '=', marks the argument as a keyword argument; everything
// after the '=' (including further nested interpolation) becomes its
// value AST.
func (p *parser) parseArg() (node Node, key string, isKwarg bool, err error) {
	var parts []Node

	var litBuf []byte

	for {
		if p.pos >= len(p.s) {
			return nil, "", false, ErrUnterminated
		}

		c := p.s[p.pos]
		if c == '}' || c == ',' {
			break
		}

		if !isKwarg && len(parts) == 0 && c == '=' {
			key = string(litBuf)
			litBuf = nil
			isKwarg = true
			p.pos++

			continue
		}

		if isEscapeAt(p.s, p.pos) {
			litBuf = append(litBuf, '$', '{')
			p.pos += 3

			continue
		}

		if isInterpStartAt(p.s, p.pos) {
			if len(litBuf) > 0 {
				parts = append(parts, Literal(litBuf))
				litBuf = nil
			}

			p.pos += 2

			inner, ierr := p.parseBody()
			if ierr != nil {
				return nil, "", false, ierr
			}

			parts = append(parts, inner)

			continue
		}

		litBuf = append(litBuf, c)
		p.pos++
	}

	if len(litBuf) > 0 {
		parts = append(parts, Literal(litBuf))
	}

	return collapse(parts), key, isKwarg, nil
}
