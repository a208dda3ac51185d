package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	out, code := execute(t, "validate", "exif.iso <= 800 and width > 3000 | sort datetaken desc | limit 10")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "✓ Query valid")
}

func TestValidate_ValidJSON(t *testing.T) {
	out, code := execute(t, "validate", "all | sort filename | limit 5", "--format", "json")
	assert.Equal(t, ExitSuccess, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result ValidationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.Valid)
	assert.True(t, result.Sorted)
	assert.Equal(t, 5, result.Limit)
}

func TestValidate_Invalid(t *testing.T) {
	out, code := execute(t, "validate", "filename ==")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "✗ Invalid query")
	assert.Contains(t, out, "syntax error at offset 11")
	// Caret rendering under the offending offset.
	assert.Contains(t, out, "filename ==\n             ^")
}

func TestValidate_InvalidJSON(t *testing.T) {
	out, code := execute(t, "validate", "widht == 100", "--format", "json")
	assert.Equal(t, ExitFailure, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SEMANTIC", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, `unknown property "widht"`)

	details, err := json.Marshal(resp.Error.Details)
	require.NoError(t, err)
	var issue FilterIssue
	require.NoError(t, json.Unmarshal(details, &issue))
	assert.Equal(t, 0, issue.Offset)
}

func TestValidate_TextOutput(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	cases := []struct {
		name  string
		query string
	}{
		{"valid", "exif.make == 'Canon' | sort datetaken desc | limit 12"},
		{"lexical", "width = 100"},
		{"syntax", "width == 100 and"},
		{"semantic", "contains(filename)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, _ := execute(t, "validate", tc.query)
			g.Assert(t, "validate_"+tc.name, []byte(out))
		})
	}
}

func TestValidate_MissingArgument(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"validate"})

	err := cmd.Execute()
	require.Error(t, err)
}
