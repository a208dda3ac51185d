package filterql

import "strconv"

// parser consumes the token stream and produces a Query. It is a plain
// recursive-descent parser; precedence is encoded in the call chain
// (or < and < not < comparison < primary). On any malformed input it
// returns a syntax error with the offending offset and no partial result.
type parser struct {
	tokens []Token
	pos    int
}

func parseTokens(tokens []Token) (*Query, error) {
	p := &parser{tokens: tokens}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if t := p.cur(); t.Kind != TokenEOF {
		return nil, newSyntaxError(t.Pos, "unexpected %s after end of query", t.Kind)
	}
	return q, nil
}

func (p *parser) cur() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	if t.Kind != TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	t := p.cur()
	if t.Kind != kind {
		if t.Kind == TokenEOF {
			return Token{}, newSyntaxError(t.Pos, "unexpected end of input, expected %s", kind)
		}
		return Token{}, newSyntaxError(t.Pos, "expected %s but found %s", kind, t.Kind)
	}
	return p.advance(), nil
}

// parseQuery implements:
//
//	query := ( "all" | or_expr ) sort_clause? limit_clause?
//
// "all" is only meaningful as the entire predicate; it cannot combine with
// an expression. A bare "all" with neither sort nor limit still parses.
func (p *parser) parseQuery() (*Query, error) {
	q := &Query{}

	if p.cur().Kind == TokenAll {
		p.advance()
	} else {
		pred, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		q.Predicate = pred
	}

	if p.cur().Kind == TokenPipe {
		p.advance()
		switch p.cur().Kind {
		case TokenSort:
			sort, err := p.parseSortClause()
			if err != nil {
				return nil, err
			}
			q.Sort = sort
		case TokenLimit:
			limit, err := p.parseLimitClause()
			if err != nil {
				return nil, err
			}
			q.Limit = limit
			return q, nil
		default:
			return nil, newSyntaxError(p.cur().Pos, "expected 'sort' or 'limit' after '|'")
		}
	}

	if p.cur().Kind == TokenPipe {
		p.advance()
		// Sort is already consumed, so only limit may follow.
		if p.cur().Kind != TokenLimit {
			return nil, newSyntaxError(p.cur().Pos, "expected 'limit' after '|'")
		}
		limit, err := p.parseLimitClause()
		if err != nil {
			return nil, err
		}
		q.Limit = limit
	}

	return q, nil
}

// parseSortClause parses "sort <property> [asc|desc]". Direction defaults
// to ascending.
func (p *parser) parseSortClause() (*SortClause, error) {
	p.advance() // "sort"
	pathPos := p.cur().Pos
	path, err := p.parsePropertyPath()
	if err != nil {
		return nil, err
	}
	clause := &SortClause{Path: path, Dir: Asc, pos: pathPos}
	switch p.cur().Kind {
	case TokenAsc:
		p.advance()
	case TokenDesc:
		p.advance()
		clause.Dir = Desc
	}
	return clause, nil
}

// parseLimitClause parses "limit <integer>". The integer must be positive;
// negatives never reach here because the lexer has no unary minus.
func (p *parser) parseLimitClause() (int, error) {
	p.advance() // "limit"
	t, err := p.expect(TokenInt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t.Text)
	if err != nil {
		return 0, newSyntaxError(t.Pos, "limit %s out of range", t.Text)
	}
	if n <= 0 {
		return 0, newSyntaxError(t.Pos, "limit must be a positive integer")
	}
	return n, nil
}

func (p *parser) parsePropertyPath() ([]string, error) {
	t, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	path := []string{t.Text}
	for p.cur().Kind == TokenDot {
		p.advance()
		seg, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		path = append(path, seg.Text)
	}
	return path, nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokenOr {
		pos := p.advance().Pos
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{pos: pos, Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokenAnd {
		pos := p.advance().Pos
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{pos: pos, Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Node, error) {
	if p.cur().Kind == TokenNot {
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{pos: pos, Op: OpNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

// parseComparison consumes at most one comparison operator. Chained
// comparisons like a < b < c are rejected: the second operator is left
// unconsumed and surfaces as a trailing-token syntax error.
func (p *parser) parseComparison() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOp(p.cur().Kind)
	if !ok {
		return left, nil
	}
	pos := p.advance().Pos
	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &Binary{pos: pos, Op: op, Left: left, Right: right}, nil
}

func comparisonOp(kind TokenKind) (BinaryOp, bool) {
	switch kind {
	case TokenEq:
		return OpEq, true
	case TokenNeq:
		return OpNeq, true
	case TokenLt:
		return OpLt, true
	case TokenLte:
		return OpLte, true
	case TokenGt:
		return OpGt, true
	case TokenGte:
		return OpGte, true
	}
	return 0, false
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.cur()
	switch t.Kind {
	case TokenString:
		p.advance()
		return &Constant{pos: t.Pos, Kind: ConstString, Str: t.Text}, nil

	case TokenInt:
		p.advance()
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, newSyntaxError(t.Pos, "integer literal %s out of range", t.Text)
		}
		return &Constant{pos: t.Pos, Kind: ConstInt, Int: n}, nil

	case TokenDecimal:
		p.advance()
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, newSyntaxError(t.Pos, "decimal literal %s out of range", t.Text)
		}
		return &Constant{pos: t.Pos, Kind: ConstDecimal, Float: f}, nil

	case TokenTrue:
		p.advance()
		return &Constant{pos: t.Pos, Kind: ConstBool, Bool: true}, nil

	case TokenFalse:
		p.advance()
		return &Constant{pos: t.Pos, Kind: ConstBool, Bool: false}, nil

	case TokenNull:
		p.advance()
		return &Constant{pos: t.Pos, Kind: ConstNull}, nil

	case TokenLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenIdent:
		p.advance()
		if p.cur().Kind == TokenLParen {
			return p.parseCallArgs(t)
		}
		path := []string{t.Text}
		for p.cur().Kind == TokenDot {
			p.advance()
			seg, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}
			path = append(path, seg.Text)
		}
		return &Property{pos: t.Pos, Path: path}, nil

	case TokenEOF:
		return nil, newSyntaxError(t.Pos, "unexpected end of input")
	}

	return nil, newSyntaxError(t.Pos, "unexpected %s", t.Kind)
}

// parseCallArgs parses the parenthesized argument list of a function call.
// Arguments are full or_exprs, so nested boolean expressions are allowed.
func (p *parser) parseCallArgs(name Token) (Node, error) {
	p.advance() // '('
	call := &Call{pos: name.Pos, Name: name.Text}
	if p.cur().Kind == TokenRParen {
		p.advance()
		return call, nil
	}
	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.cur().Kind != TokenComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return call, nil
}
