package filterql

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer turns a filter source string into a flat token stream. It has no
// knowledge of the grammar; every character either becomes part of a token
// or raises a lexical error carrying its offset.
type lexer struct {
	src string
	pos int
}

// tokenize scans the whole source. The returned slice always ends with a
// TokenEOF whose position is len(src).
func tokenize(src string) ([]Token, error) {
	l := &lexer{src: src}
	var tokens []Token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
		if t.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (Token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Pos: len(l.src)}, nil
	}

	start := l.pos
	r := l.peek()

	switch {
	case r == '.':
		l.pos++
		return Token{Kind: TokenDot, Text: ".", Pos: start}, nil
	case r == '(':
		l.pos++
		return Token{Kind: TokenLParen, Text: "(", Pos: start}, nil
	case r == ')':
		l.pos++
		return Token{Kind: TokenRParen, Text: ")", Pos: start}, nil
	case r == ',':
		l.pos++
		return Token{Kind: TokenComma, Text: ",", Pos: start}, nil
	case r == '|':
		l.pos++
		return Token{Kind: TokenPipe, Text: "|", Pos: start}, nil
	case r == '=':
		// Only "==" is an operator; a lone '=' is a lexical error.
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Kind: TokenEq, Text: "==", Pos: start}, nil
		}
		return Token{}, newLexicalError(start, "unexpected character %q", r)
	case r == '!':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Kind: TokenNeq, Text: "!=", Pos: start}, nil
		}
		return Token{}, newLexicalError(start, "unexpected character %q", r)
	case r == '<':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Kind: TokenLte, Text: "<=", Pos: start}, nil
		}
		l.pos++
		return Token{Kind: TokenLt, Text: "<", Pos: start}, nil
	case r == '>':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return Token{Kind: TokenGte, Text: ">=", Pos: start}, nil
		}
		l.pos++
		return Token{Kind: TokenGt, Text: ">", Pos: start}, nil
	case r == '\'' || r == '"':
		return l.scanString()
	case isDigit(r):
		return l.scanNumber(), nil
	case isIdentStart(r):
		return l.scanIdent(), nil
	}

	return Token{}, newLexicalError(start, "unexpected character %q", r)
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// peek returns the rune at the cursor, or 0 past the end.
func (l *lexer) peek() rune {
	return l.peekAt(0)
}

func (l *lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos+offset:])
	return r
}

// scanString reads a single- or double-quoted literal. Supported escapes are
// \n \r \t \\ \' \"; any other escaped character passes through literally.
func (l *lexer) scanString() (Token, error) {
	start := l.pos
	quote := l.src[l.pos]
	l.pos++

	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case quote:
			l.pos++
			return Token{Kind: TokenString, Text: b.String(), Pos: start}, nil
		case '\\':
			if l.pos+1 >= len(l.src) {
				return Token{}, newLexicalError(start, "unterminated string literal")
			}
			esc := l.src[l.pos+1]
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(esc)
			}
			l.pos += 2
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return Token{}, newLexicalError(start, "unterminated string literal")
}

// scanNumber reads a run of digits, extending to a decimal literal when a
// '.' is followed by at least one digit. No exponent or hex notation.
func (l *lexer) scanNumber() Token {
	start := l.pos
	for l.pos < len(l.src) && isDigit(rune(l.src[l.pos])) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(rune(l.src[l.pos+1])) {
		l.pos++ // consume '.'
		for l.pos < len(l.src) && isDigit(rune(l.src[l.pos])) {
			l.pos++
		}
		return Token{Kind: TokenDecimal, Text: l.src[start:l.pos], Pos: start}
	}
	return Token{Kind: TokenInt, Text: l.src[start:l.pos], Pos: start}
}

func (l *lexer) scanIdent() Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentChar(rune(l.src[l.pos])) {
		l.pos++
	}
	text := l.src[start:l.pos]
	if kind, ok := keywords[strings.ToLower(text)]; ok {
		return Token{Kind: kind, Text: text, Pos: start}
	}
	return Token{Kind: TokenIdent, Text: text, Pos: start}
}

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
