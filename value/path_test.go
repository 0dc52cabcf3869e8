package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/holoconf/value"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  value.Path
	}{
		"simple key": {
			input: "key",
			want:  value.Path{value.KeySegment("key")},
		},
		"nested key": {
			input: "key.subkey",
			want:  value.Path{value.KeySegment("key"), value.KeySegment("subkey")},
		},
		"key with index": {
			input: "key[0]",
			want:  value.Path{value.KeySegment("key"), value.IndexSegment(0)},
		},
		"key index subkey": {
			input: "key[0].subkey",
			want:  value.Path{value.KeySegment("key"), value.IndexSegment(0), value.KeySegment("subkey")},
		},
		"root-level index": {
			input: "[3]",
			want:  value.Path{value.IndexSegment(3)},
		},
		"empty path": {
			input: "",
			want:  nil,
		},
		"chained indices": {
			input: "a[0][1]",
			want:  value.Path{value.KeySegment("a"), value.IndexSegment(0), value.IndexSegment(1)},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := value.ParsePath(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"key[",
		"key]",
		"]",
		".key",
		"key[abc]",
		"key[-1]",
	}

	for _, in := range inputs {
		_, err := value.ParsePath(in)
		assert.Error(t, err, "expected parse error for %q", in)
	}
}

func TestPathString(t *testing.T) {
	t.Parallel()

	p := value.Path{value.KeySegment("a"), value.IndexSegment(0), value.KeySegment("b")}
	assert.Equal(t, "a[0].b", p.String())
}

func TestGetPath(t *testing.T) {
	t.Parallel()

	m := value.NewOrderedMapping()
	inner := value.NewOrderedMapping()
	inner.Set("host", value.String("db"))
	m.Set("database", value.NewMapping(inner))
	m.Set("tags", value.NewSequence([]*value.Value{value.String("a"), value.String("b")}))

	root := value.NewMapping(m)

	got, ok := root.GetPath(value.MustParsePath("database.host"))
	require.True(t, ok)
	s, _ := got.AsString()
	assert.Equal(t, "db", s)

	got, ok = root.GetPath(value.MustParsePath("tags[1]"))
	require.True(t, ok)
	s, _ = got.AsString()
	assert.Equal(t, "b", s)

	_, ok = root.GetPath(value.MustParsePath("tags[5]"))
	assert.False(t, ok)

	_, ok = root.GetPath(value.MustParsePath("missing.path"))
	assert.False(t, ok)
}

func TestSetPathAutoVivifies(t *testing.T) {
	t.Parallel()

	root := value.NewMapping(nil)

	err := root.SetPath(value.MustParsePath("a.b.c"), value.String("leaf"))
	require.NoError(t, err)

	got, ok := root.GetPath(value.MustParsePath("a.b.c"))
	require.True(t, ok)
	s, _ := got.AsString()
	assert.Equal(t, "leaf", s)
}

func TestSetPathAutoVivifiesSequence(t *testing.T) {
	t.Parallel()

	root := value.NewMapping(nil)

	err := root.SetPath(value.MustParsePath("list[0]"), value.Int(1))
	require.NoError(t, err)

	err = root.SetPath(value.MustParsePath("list[1]"), value.Int(2))
	require.NoError(t, err)

	seqVal, ok := root.GetPath(value.MustParsePath("list"))
	require.True(t, ok)

	seq, _ := seqVal.AsSequence()
	require.Len(t, seq, 2)

	a, _ := seq[0].AsInt()
	b, _ := seq[1].AsInt()
	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(2), b)
}

func TestSetPathRejectsTypeMismatch(t *testing.T) {
	t.Parallel()

	m := value.NewOrderedMapping()
	m.Set("a", value.String("scalar"))

	root := value.NewMapping(m)

	err := root.SetPath(value.MustParsePath("a.b"), value.Int(1))
	require.ErrorIs(t, err, value.ErrTypeMismatch)
}

func TestSetPathSequenceOutOfRange(t *testing.T) {
	t.Parallel()

	root := value.NewMapping(nil)

	err := root.SetPath(value.MustParsePath("list[0]"), value.Int(1))
	require.NoError(t, err)

	err = root.SetPath(value.MustParsePath("list[5]"), value.Int(2))
	require.ErrorIs(t, err, value.ErrPathNotFound)
}
