package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fstopgen/fstop/internal/filterql"
)

// ValidationResult holds validation results for a single filter query.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Query  string       `json:"query"`
	Error  *FilterIssue `json:"error,omitempty"`
	Sorted bool         `json:"sorted"`
	Limit  int          `json:"limit,omitempty"`
}

// FilterIssue is the JSON shape of one filter query diagnostic.
type FilterIssue struct {
	Code    string `json:"code"`   // "LEXICAL", "SYNTAX", or "SEMANTIC"
	Offset  int    `json:"offset"` // byte offset into the query
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query>",
		Short: "Check a filter query without running it",
		Long: `Check a filter query for lexical, syntax, and semantic errors without
running it against a catalog. Invalid queries print the offending
position under the query text.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, query string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	compiled, err := filterql.CompileQuery(query)
	if err != nil {
		return outputFilterError(formatter, err)
	}

	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  true,
			Query:  query,
			Sorted: compiled.Sort != nil,
			Limit:  compiled.Limit,
		}
		return formatter.JSON(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ Query valid")
	return nil
}

// outputFilterError reports a filter compile error and maps it to exit
// code 1. Structured filter errors include the caret rendering in text
// mode and the offset in JSON mode.
func outputFilterError(formatter *OutputFormatter, err error) error {
	fe, ok := filterql.IsFilterError(err)
	if !ok {
		_ = formatter.Error(ErrCodeCommand, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid query", err)
	}

	if formatter.Format == "json" {
		_ = formatter.Error(string(fe.Code), fe.Message, &FilterIssue{
			Code:    string(fe.Code),
			Offset:  fe.Pos,
			Message: fe.Message,
		})
		return WrapExitError(ExitFailure, "invalid query", err)
	}

	fmt.Fprintln(formatter.Writer, "✗ Invalid query")
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "  %s\n", fe.Error())
	for _, line := range splitLines(fe.Render()) {
		fmt.Fprintf(formatter.Writer, "  %s\n", line)
	}
	return WrapExitError(ExitFailure, "invalid query", err)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
