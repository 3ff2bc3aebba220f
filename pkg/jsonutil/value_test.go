package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TaggedKinds(t *testing.T) {
	root, err := Parse([]byte(`{"s":"x","n":1.50,"b":true,"z":null,"a":[1,"two"],"o":{"k":"v"}}`))
	require.NoError(t, err)
	require.Equal(t, Object, root.Kind())
	assert.Equal(t, []string{"s", "n", "b", "z", "a", "o"}, root.Keys())

	cases := map[string]struct {
		kind Kind
		text string
	}{
		"s": {String, "x"},
		"n": {Number, "1.50"},
		"b": {Bool, "true"},
		"z": {Null, ""},
		"a": {Array, `[1,"two"]`},
		"o": {Object, `{"k":"v"}`},
	}
	for key, want := range cases {
		v, ok := root.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want.kind, v.Kind(), key)
		assert.Equal(t, want.text, v.Text(), key)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{``, `{`, `{"a":}`, `{"a":1} x`, `[1,]`} {
		_, err := Parse([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestParse_DuplicateKeyLastWins(t *testing.T) {
	root, err := Parse([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, root.Keys())
	v, _ := root.Get("a")
	assert.Equal(t, "3", v.Text())
}

func TestText_NoHTMLEscaping(t *testing.T) {
	n := ObjectNode([]string{"k"}, []Node{StringNode("<a&b>")})
	assert.Equal(t, `{"k":"<a&b>"}`, n.Text())
}

func TestWalk(t *testing.T) {
	root, err := Parse([]byte(`{"data":{"versions":["1"],"leaf":"x","nil":null},"arr":[{"a":1}]}`))
	require.NoError(t, err)

	tests := []struct {
		path string
		ok   bool
		kind Kind
	}{
		{path: "data.versions", ok: true, kind: Array},
		{path: "data.versions.", ok: true, kind: Array},
		{path: "data", ok: true, kind: Object},
		{path: "data.nil", ok: true, kind: Null},
		{path: "data.missing", ok: false},
		{path: "data.leaf.deeper", ok: false},
		{path: "arr.a", ok: false},
		{path: "missing.versions", ok: false},
		{path: ".", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Walk(root, tt.path)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.kind, got.Kind())
			}
		})
	}
}

func TestWalk_NonObjectRoot(t *testing.T) {
	root, err := Parse([]byte(`["a","b"]`))
	require.NoError(t, err)
	_, ok := Walk(root, "a")
	assert.False(t, ok)
	assert.Len(t, root.Items(), 2)
	assert.Nil(t, root.Keys())
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitPath("a.b"))
	assert.Equal(t, []string{"a", "", "b"}, SplitPath("a..b"))
	assert.Empty(t, SplitPath(".."))
}
