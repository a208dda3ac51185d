package filterql

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	_, err := Compile("exif.make = 'Canon'")
	require.Error(t, err)

	fe, ok := IsFilterError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeLexical, fe.Code)
	assert.Equal(t, "lexical error at offset 10: unexpected character '='", fe.Error())
}

// The two-line source+caret rendering is displayed verbatim by the CLI,
// so its exact shape is pinned with golden files.
func TestError_Render(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"lexical_unexpected_char", "exif.make = 'Canon'"},
		{"syntax_truncated_comparison", "filename =="},
		{"semantic_unknown_property", "exif.megapixels > 12"},
		{"semantic_sort_property", "all | sort exif | limit 3"},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileQuery(tt.source)
			require.Error(t, err)
			fe, ok := IsFilterError(err)
			require.True(t, ok)
			g.Assert(t, tt.name, []byte(fe.Render()+"\n"))
		})
	}
}

func TestError_RenderCaretPastEnd(t *testing.T) {
	// EOF errors point just past the last character.
	_, err := Compile("filename ==")
	require.Error(t, err)
	fe, _ := IsFilterError(err)

	assert.Equal(t, "filename ==\n           ^", fe.Render())
}

func TestError_RenderMultibyteSource(t *testing.T) {
	// The caret is aligned by rune count, not byte count.
	_, err := Compile("filename == 'café' extra")
	require.Error(t, err)
	fe, _ := IsFilterError(err)

	require.Equal(t, ErrCodeSyntax, fe.Code)
	assert.Equal(t, "filename == 'café' extra\n                   ^", fe.Render())
}
