package value

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind distinguishes a map-key path segment from a sequence-index
// segment.
type SegmentKind int

const (
	// SegmentKey addresses a mapping entry by name.
	SegmentKey SegmentKind = iota
	// SegmentIndex addresses a sequence element by position.
	SegmentIndex
)

// Segment is one step of a [Path].
type Segment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

// KeySegment builds a map-key segment.
func KeySegment(key string) Segment { return Segment{Kind: SegmentKey, Key: key} }

// IndexSegment builds a sequence-index segment.
func IndexSegment(i int) Segment { return Segment{Kind: SegmentIndex, Index: i} }

// String renders the segment in path-expression form.
func (s Segment) String() string {
	if s.Kind == SegmentIndex {
		return fmt.Sprintf("[%d]", s.Index)
	}

	return s.Key
}

// Path is a parsed dotted-path expression: a sequence of map-key or
// bracketed-index segments addressing a leaf or subtree of a [Value] tree.
type Path []Segment

// String renders the path back to its canonical expression form
// (key.subkey[idx]...).
func (p Path) String() string {
	var sb strings.Builder

	for i, seg := range p {
		if seg.Kind == SegmentIndex {
			sb.WriteString(seg.String())

			continue
		}

		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(seg.Key)
	}

	return sb.String()
}

// ParsePath parses a dotted path expression into its segments.
//
// Grammar: segment ('.' segment | '[' INTEGER ']')*. A leading '[' is a
// valid root-level index; a ']' with no matching '[' is a parse error, as
// is a bare '.' with nothing preceding it.
func ParsePath(s string) (Path, error) {
	var segs Path

	n := len(s)
	i := 0

	for i < n {
		switch s[i] {
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unbalanced %q at position %d", ErrInvalidPath, "[", i)
			}

			end += i
			idxStr := s[i+1 : end]

			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("%w: invalid index %q at position %d", ErrInvalidPath, idxStr, i)
			}

			segs = append(segs, IndexSegment(idx))
			i = end + 1

			if i < n && s[i] == '.' {
				i++
			}
		case ']':
			return nil, fmt.Errorf("%w: unmatched %q at position %d", ErrInvalidPath, "]", i)
		case '.':
			return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidPath, ".", i)
		default:
			start := i
			for i < n && s[i] != '.' && s[i] != '[' && s[i] != ']' {
				i++
			}

			segs = append(segs, KeySegment(s[start:i]))

			if i < n && s[i] == '.' {
				i++
			}
		}
	}

	return segs, nil
}

// MustParsePath is [ParsePath] for callers that already know s is
// well-formed, such as constructing paths from path segments already
// validated elsewhere. It panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}

	return p
}

// GetPath walks v according to path and returns the addressed subtree.
// Returns nil, false on a missing or out-of-range segment.
func (v *Value) GetPath(path Path) (*Value, bool) {
	cur := v

	for _, seg := range path {
		if cur == nil {
			return nil, false
		}

		switch seg.Kind {
		case SegmentKey:
			m, ok := cur.AsMapping()
			if !ok {
				return nil, false
			}

			cur, ok = m.Get(seg.Key)
			if !ok {
				return nil, false
			}
		case SegmentIndex:
			seq, ok := cur.AsSequence()
			if !ok || seg.Index < 0 || seg.Index >= len(seq) {
				return nil, false
			}

			cur = seq[seg.Index]
		}
	}

	return cur, true
}

// SetPath writes val at path within v, auto-vivifying intermediate mappings
// or sequences. The kind of container created for a missing intermediate
// segment is determined by the *next* segment's kind: a key segment
// vivifies a mapping, an index segment vivifies a sequence. SetPath returns
// an error if an existing non-container value is in the way of a segment
// that needs to address into it, or if a sequence index is used to extend
// past the next free slot (sequences only auto-vivify up to append).
func (v *Value) SetPath(path Path, val *Value) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	return setPath(v, path, val)
}

func setPath(container *Value, path Path, val *Value) error {
	seg := path[0]
	rest := path[1:]

	switch seg.Kind {
	case SegmentKey:
		m, ok := container.AsMapping()
		if !ok {
			return fmt.Errorf("%w: cannot address key %q into %s", ErrTypeMismatch, seg.Key, container.TypeName())
		}

		if len(rest) == 0 {
			m.Set(seg.Key, val)

			return nil
		}

		child, ok := m.Get(seg.Key)
		if !ok {
			child = vivify(rest[0])
			m.Set(seg.Key, child)
		}

		return setPath(child, rest, val)
	case SegmentIndex:
		seq, ok := container.AsSequence()
		if !ok {
			return fmt.Errorf("%w: cannot address index [%d] into %s", ErrTypeMismatch, seg.Index, container.TypeName())
		}

		switch {
		case seg.Index < len(seq):
			if len(rest) == 0 {
				seq[seg.Index] = val

				return nil
			}

			return setPath(seq[seg.Index], rest, val)
		case seg.Index == len(seq):
			var child *Value
			if len(rest) == 0 {
				child = val
			} else {
				child = vivify(rest[0])
			}

			container.seqVal = append(seq, child)

			if len(rest) == 0 {
				return nil
			}

			return setPath(child, rest, val)
		default:
			return fmt.Errorf("%w: index [%d] out of range (len %d)", ErrPathNotFound, seg.Index, len(seq))
		}
	default:
		return fmt.Errorf("%w: unknown segment kind", ErrInvalidPath)
	}
}

func vivify(next Segment) *Value {
	if next.Kind == SegmentIndex {
		return NewSequence(nil)
	}

	return NewMapping(nil)
}
