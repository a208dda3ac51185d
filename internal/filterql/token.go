package filterql

// TokenKind classifies a lexical token.
type TokenKind int

const (
	// TokenEOF marks the end of the input. Its position is len(source),
	// so errors about truncated input point just past the last token.
	TokenEOF TokenKind = iota

	TokenIdent
	TokenString
	TokenInt
	TokenDecimal

	TokenDot
	TokenLParen
	TokenRParen
	TokenComma
	TokenPipe

	TokenEq  // ==
	TokenNeq // !=
	TokenLt  // <
	TokenLte // <=
	TokenGt  // >
	TokenGte // >=

	// Keywords. Matched case-insensitively by the lexer.
	TokenAnd
	TokenOr
	TokenNot
	TokenTrue
	TokenFalse
	TokenNull
	TokenAll
	TokenSort
	TokenLimit
	TokenAsc
	TokenDesc
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:     "end of input",
	TokenIdent:   "identifier",
	TokenString:  "string literal",
	TokenInt:     "integer literal",
	TokenDecimal: "decimal literal",
	TokenDot:     "'.'",
	TokenLParen:  "'('",
	TokenRParen:  "')'",
	TokenComma:   "','",
	TokenPipe:    "'|'",
	TokenEq:      "'=='",
	TokenNeq:     "'!='",
	TokenLt:      "'<'",
	TokenLte:     "'<='",
	TokenGt:      "'>'",
	TokenGte:     "'>='",
	TokenAnd:     "'and'",
	TokenOr:      "'or'",
	TokenNot:     "'not'",
	TokenTrue:    "'true'",
	TokenFalse:   "'false'",
	TokenNull:    "'null'",
	TokenAll:     "'all'",
	TokenSort:    "'sort'",
	TokenLimit:   "'limit'",
	TokenAsc:     "'asc'",
	TokenDesc:    "'desc'",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "unknown token"
}

// Token is one lexical unit of a filter query.
//
// Text is the literal content: for string literals it is the unescaped
// value without quotes, for everything else the raw source text. Pos is
// the byte offset of the token's first character in the source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// keywords maps lowercased identifier text to its keyword kind.
var keywords = map[string]TokenKind{
	"and":   TokenAnd,
	"or":    TokenOr,
	"not":   TokenNot,
	"true":  TokenTrue,
	"false": TokenFalse,
	"null":  TokenNull,
	"all":   TokenAll,
	"sort":  TokenSort,
	"limit": TokenLimit,
	"asc":   TokenAsc,
	"desc":  TokenDesc,
}
