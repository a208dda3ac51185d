package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitCommandError, "catalog not found")
	assert.Equal(t, "catalog not found", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	wrapped := WrapExitError(ExitFailure, "invalid query", errors.New("boom"))
	assert.Equal(t, "invalid query: boom", wrapped.Error())
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.EqualError(t, errors.Unwrap(wrapped), "boom")
}

func TestGetExitCode_PlainError(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestGetExitCode_WrappedExitError(t *testing.T) {
	inner := NewExitError(ExitCommandError, "inner")
	outer := fmt.Errorf("outer: %w", inner)
	assert.Equal(t, ExitCommandError, GetExitCode(outer))
}

func TestFormatterJSON(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out}

	require.NoError(t, f.JSON(map[string]int{"count": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestFormatterError(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		f := &OutputFormatter{Format: "json", Writer: &out}
		require.NoError(t, f.Error("SYNTAX", "unexpected end of query", nil))

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "SYNTAX", resp.Error.Code)
		assert.Equal(t, "unexpected end of query", resp.Error.Message)
	})

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		f := &OutputFormatter{Format: "text", Writer: &out}
		require.NoError(t, f.Error("COMMAND", "catalog not found", nil))
		assert.Equal(t, "Error [COMMAND]: catalog not found\n", out.String())
	})
}

func TestVerboseLog(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut, Verbose: true}

	f.VerboseLog("loaded %d image(s)", 7)
	assert.Empty(t, out.String(), "verbose output must not corrupt JSON")
	assert.Equal(t, "loaded 7 image(s)\n", errOut.String())

	f.Verbose = false
	errOut.Reset()
	f.VerboseLog("ignored")
	assert.Empty(t, errOut.String())
}
