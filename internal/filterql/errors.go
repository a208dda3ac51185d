package filterql

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrorCode categorizes compile failures.
type ErrorCode string

const (
	// ErrCodeLexical covers unexpected characters and unterminated strings.
	ErrCodeLexical ErrorCode = "LEXICAL"

	// ErrCodeSyntax covers grammar violations: wrong tokens, unexpected end
	// of input, unbalanced parentheses, trailing garbage, malformed
	// sort/limit clauses.
	ErrCodeSyntax ErrorCode = "SYNTAX"

	// ErrCodeSemantic covers unknown properties and functions, wrong
	// argument counts, and incompatible operand types.
	ErrCodeSemantic ErrorCode = "SEMANTIC"
)

// Error is the single error type for every filter compile failure.
//
// Pos is a byte offset into Source. Source is filled in by the facade so
// the lexer, parser, and backend only track offsets. A compile outcome is
// deterministic: the same source always produces the same Error.
type Error struct {
	Code    ErrorCode
	Message string
	Pos     int
	Source  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s error at offset %d: %s", strings.ToLower(string(e.Code)), e.Pos, e.Message)
}

// Render returns the two-line diagnostic the CLI displays verbatim: the
// original source followed by a caret under the failing offset.
func (e *Error) Render() string {
	pos := e.Pos
	if pos > len(e.Source) {
		pos = len(e.Source)
	}
	col := utf8.RuneCountInString(e.Source[:pos])
	return e.Source + "\n" + strings.Repeat(" ", col) + "^"
}

// IsFilterError reports whether err is (or wraps) a filter compile error,
// returning it when so.
func IsFilterError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func newLexicalError(pos int, format string, args ...any) *Error {
	return &Error{Code: ErrCodeLexical, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func newSyntaxError(pos int, format string, args ...any) *Error {
	return &Error{Code: ErrCodeSyntax, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func newSemanticError(pos int, format string, args ...any) *Error {
	return &Error{Code: ErrCodeSemantic, Message: fmt.Sprintf(format, args...), Pos: pos}
}
