package extract

import (
	"errors"
	"testing"

	"github.com/chen-qa/dynamic-choice/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_SimplePath(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
		want    []string
		wantErr error
	}{
		{
			name:    "versions list",
			content: `{"data":{"versions":["2.0","1.0"]}}`,
			path:    "data.versions",
			want:    []string{"2.0", "1.0"},
		},
		{
			name:    "scalars stringified and null empty",
			content: `{"a":[1,2.50,true,null,"x",{"k":1},[1]]}`,
			path:    "a",
			want:    []string{"1", "2.50", "true", "", "x", `{"k":1}`, `[1]`},
		},
		{
			name:    "empty array",
			content: `{"a":[]}`,
			path:    "a",
			want:    []string{},
		},
		{
			name:    "missing key",
			content: `{"data":{}}`,
			path:    "data.missing",
			wantErr: ErrNotAList,
		},
		{
			name:    "not an array",
			content: `{"data":{"versions":"1.0"}}`,
			path:    "data.versions",
			wantErr: ErrNotAList,
		},
		{
			name:    "null value",
			content: `{"data":null}`,
			path:    "data",
			wantErr: ErrNotAList,
		},
		{
			name:    "top level array",
			content: `["a","b"]`,
			path:    "a",
			wantErr: ErrNotAList,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSON(tt.content, tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSON_ArrayFieldExtraction(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
		want    []string
		wantErr error
	}{
		{
			name:    "absent fields skipped",
			content: `{"data":{"items":[{"id":1,"version":"v2"},{"id":2,"version":"v1"},{"id":3}]}}`,
			path:    "data.items[].version",
			want:    []string{"v2", "v1"},
		},
		{
			name:    "null field kept as empty",
			content: `{"items":[{"v":null},{"v":3}]}`,
			path:    "items[].v",
			want:    []string{"", "3"},
		},
		{
			name:    "non-object elements skipped",
			content: `{"items":["x",{"v":"a"},1,null]}`,
			path:    "items[].v",
			want:    []string{"a"},
		},
		{
			name:    "split at first separator",
			content: `{"items":[{"a[].b":"nested"}]}`,
			path:    "items[].a[].b",
			want:    []string{"nested"},
		},
		{
			name:    "empty field",
			content: `{"items":[]}`,
			path:    "items[].",
			wantErr: ErrInvalidArraySyntax,
		},
		{
			name:    "empty array path",
			content: `{"items":[]}`,
			path:    "[].v",
			wantErr: ErrInvalidArraySyntax,
		},
		{
			name:    "array path not an array",
			content: `{"items":{"v":1}}`,
			path:    "items[].v",
			wantErr: ErrNotAnArray,
		},
		{
			name:    "array path missing",
			content: `{}`,
			path:    "items[].v",
			wantErr: ErrNotAnArray,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSON(tt.content, tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSON_Malformed(t *testing.T) {
	_, err := JSON(`{"data":`, "data")
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "err=%v", err)
	assert.Equal(t, format.JSON, pe.Format)
}

func TestXML(t *testing.T) {
	got, err := XML(`<root><versions><v>b</v><v>a</v></versions></root>`, "root.versions")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, got)

	got, err = XML(`<root><versions>text<v>  x  </v><v>   </v><!-- c --><w><i>n</i>m</w></versions></root>`, "root.versions")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "nm"}, got)
}

func TestXML_Errors(t *testing.T) {
	_, err := XML(`<root><versions/></root>`, "root.missing")
	require.ErrorIs(t, err, ErrInvalidXMLPath)

	var pe *ParseError
	_, err = XML(`<root>`, "root")
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, format.XML, pe.Format)

	_, err = XML(`<!DOCTYPE r [<!ENTITY a "b">]><r>&a;</r>`, "r")
	require.True(t, errors.As(err, &pe))

	_, err = XML(`<root/>`, "root.versions[")
	require.True(t, errors.As(err, &pe), "unterminated predicate is an invalid location path")
	assert.Equal(t, format.XML, pe.Format)
}

func TestXML_LocationExpressions(t *testing.T) {
	content := `<root><versions><v>b</v><v>a</v></versions><versions><v>z</v><v>y</v></versions></root>`
	tests := []struct {
		path string
		want []string
	}{
		{path: "root.versions", want: []string{"b", "a"}},
		{path: "root.versions[2]", want: []string{"z", "y"}},
		{path: "root.versions[last()]", want: []string{"z", "y"}},
		{path: "root..versions", want: []string{"b", "a"}},
		{path: "/versions", want: []string{"b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := XML(content, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := XML(content, "root.versions[3]")
	require.ErrorIs(t, err, ErrInvalidXMLPath)
}

func TestXML_KeepsNonASCIISpace(t *testing.T) {
	got, err := XML("<r><v>\u00a0</v><v> \t</v><v> x\u00a0</v></r>", "r")
	require.NoError(t, err)
	assert.Equal(t, []string{"\u00a0", "x\u00a0"}, got)
}

func TestLocationPath(t *testing.T) {
	assert.Equal(t, "/root/versions", LocationPath("root.versions"))
	assert.Equal(t, "/root//v", LocationPath("root..v"))
	assert.Equal(t, "/root/versions[2]", LocationPath("root.versions[2]"))
}

func TestText(t *testing.T) {
	assert.Equal(t, []string{"3", "1", "2"}, Text("3\n1\n2\n\n"))
	assert.Equal(t, []string{"a", "b c"}, Text("  a \r\n\r\n b c\t\r\n"))
	assert.Empty(t, Text(""))
	assert.Equal(t, []string{"\u00a0", "a\u00a0"}, Text("\u00a0\n \t\x0b\n a\u00a0 \n"))
}

func TestOptions_Dispatch(t *testing.T) {
	got, err := Options(format.Text, "b\na", "ignored")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, got)

	_, err = Options(format.Unknown, "", "x")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
