package filterql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"filename", []TokenKind{TokenIdent, TokenEOF}},
		{"exif.make", []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenEOF}},
		{"filename == 'test.jpg'", []TokenKind{TokenIdent, TokenEq, TokenString, TokenEOF}},
		{`filename != "other"`, []TokenKind{TokenIdent, TokenNeq, TokenString, TokenEOF}},
		{"width < 100", []TokenKind{TokenIdent, TokenLt, TokenInt, TokenEOF}},
		{"width <= 100", []TokenKind{TokenIdent, TokenLte, TokenInt, TokenEOF}},
		{"width > 100", []TokenKind{TokenIdent, TokenGt, TokenInt, TokenEOF}},
		{"width >= 100", []TokenKind{TokenIdent, TokenGte, TokenInt, TokenEOF}},
		{"a and b or not c", []TokenKind{TokenIdent, TokenAnd, TokenIdent, TokenOr, TokenNot, TokenIdent, TokenEOF}},
		{"true false null", []TokenKind{TokenTrue, TokenFalse, TokenNull, TokenEOF}},
		{"all | sort x | limit 5", []TokenKind{TokenAll, TokenPipe, TokenSort, TokenIdent, TokenPipe, TokenLimit, TokenInt, TokenEOF}},
		{"asc desc", []TokenKind{TokenAsc, TokenDesc, TokenEOF}},
		{"f(a, b)", []TokenKind{TokenIdent, TokenLParen, TokenIdent, TokenComma, TokenIdent, TokenRParen, TokenEOF}},
		{"1.5", []TokenKind{TokenDecimal, TokenEOF}},
		{"42", []TokenKind{TokenInt, TokenEOF}},
		{"\t\n a \n", []TokenKind{TokenIdent, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kinds(tokens))
		})
	}
}

func TestTokenize_KeywordsCaseInsensitive(t *testing.T) {
	for _, input := range []string{"AND", "and", "And", "aNd"} {
		tokens, err := tokenize(input)
		require.NoError(t, err)
		require.Len(t, tokens, 2)
		assert.Equal(t, TokenAnd, tokens[0].Kind)
	}

	// A keyword-looking prefix is still a plain identifier.
	tokens, err := tokenize("android")
	require.NoError(t, err)
	assert.Equal(t, TokenIdent, tokens[0].Kind)
	assert.Equal(t, "android", tokens[0].Text)
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := tokenize("width == 100")
	require.NoError(t, err)
	require.Len(t, tokens, 4)

	assert.Equal(t, 0, tokens[0].Pos)
	assert.Equal(t, 6, tokens[1].Pos)
	assert.Equal(t, 9, tokens[2].Pos)
	assert.Equal(t, 12, tokens[3].Pos, "EOF sits just past the last character")
}

func TestTokenize_StringLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single quoted", `'test.jpg'`, "test.jpg"},
		{"double quoted", `"test.jpg"`, "test.jpg"},
		{"escaped newline", `'a\nb'`, "a\nb"},
		{"escaped carriage return", `'a\rb'`, "a\rb"},
		{"escaped tab", `'a\tb'`, "a\tb"},
		{"escaped backslash", `'a\\b'`, `a\b`},
		{"escaped single quote", `'it\'s'`, "it's"},
		{"escaped double quote", `"say \"hi\""`, `say "hi"`},
		{"unknown escape passes through", `'a\zb'`, "azb"},
		{"other quote kind inside", `'say "hi"'`, `say "hi"`},
		{"empty", `''`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := tokenize(tt.input)
			require.NoError(t, err)
			require.Equal(t, TokenString, tokens[0].Kind)
			assert.Equal(t, tt.expected, tokens[0].Text)
		})
	}
}

func TestTokenize_Numbers(t *testing.T) {
	// A '.' extends a digit run only when followed by another digit.
	tokens, err := tokenize("1.5")
	require.NoError(t, err)
	require.Equal(t, TokenDecimal, tokens[0].Kind)
	assert.Equal(t, "1.5", tokens[0].Text)

	tokens, err = tokenize("10")
	require.NoError(t, err)
	assert.Equal(t, TokenInt, tokens[0].Kind)

	tokens, err = tokenize("1.")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokenInt, TokenDot, TokenEOF}, kinds(tokens))
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pos     int
		message string
	}{
		{"unexpected char", "width # 1", 6, `unexpected character '#'`},
		{"lone equals", "width = 1", 6, `unexpected character '='`},
		{"lone bang", "width ! 1", 6, `unexpected character '!'`},
		{"negative number", "all | limit -1", 12, `unexpected character '-'`},
		{"unterminated string", "filename == 'oops", 12, "unterminated string literal"},
		{"unterminated on escape", `filename == 'oops\`, 12, "unterminated string literal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokenize(tt.input)
			require.Error(t, err)
			fe, ok := IsFilterError(err)
			require.True(t, ok)
			assert.Equal(t, ErrCodeLexical, fe.Code)
			assert.Equal(t, tt.pos, fe.Pos)
			assert.Equal(t, tt.message, fe.Message)
		})
	}
}
