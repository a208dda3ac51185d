package filterql

// The AST is a closed set of node variants produced by the parser and read
// by the compile backend. Nodes are never mutated after construction; the
// parser is the only place that builds them.

// Node is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the backend.
type Node interface {
	// Pos returns the byte offset of the node's first token, used for
	// diagnostics.
	Pos() int

	node() // marker
}

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	OpAnd BinaryOp = iota + 1
	OpOr
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

func (op BinaryOp) String() string {
	switch op {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	}
	return "?"
}

// UnaryOp identifies a unary operator. Negation is the only one.
type UnaryOp int

const (
	OpNot UnaryOp = iota + 1
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "not"
	}
	return "?"
}

// Binary is a two-operand expression: logical (and/or) or comparison.
type Binary struct {
	pos   int
	Op    BinaryOp
	Left  Node
	Right Node
}

func (b *Binary) Pos() int { return b.pos }
func (*Binary) node()      {}

// Unary is a one-operand expression (not).
type Unary struct {
	pos     int
	Op      UnaryOp
	Operand Node
}

func (u *Unary) Pos() int { return u.pos }
func (*Unary) node()      {}

// Call is a function invocation such as contains(filename, 'img').
type Call struct {
	pos  int
	Name string
	Args []Node
}

func (c *Call) Pos() int { return c.pos }
func (*Call) node()      {}

// Property is a dotted accessor into the image record, e.g.
// ["exif", "iso"]. Segments keep their source spelling; resolution is
// case-insensitive.
type Property struct {
	pos  int
	Path []string
}

func (p *Property) Pos() int { return p.pos }
func (*Property) node()      {}

// ConstKind tags the payload of a Constant.
type ConstKind int

const (
	ConstString ConstKind = iota + 1
	ConstInt
	ConstDecimal
	ConstBool
	ConstNull
)

// Constant is a literal value: string, integer, decimal, bool, or null.
// Exactly one payload field is meaningful, selected by Kind.
type Constant struct {
	pos  int
	Kind ConstKind

	Str   string
	Int   int64
	Float float64
	Bool  bool
}

func (c *Constant) Pos() int { return c.pos }
func (*Constant) node()      {}

// SortDirection orders a sort clause.
type SortDirection int

const (
	Asc SortDirection = iota
	Desc
)

func (d SortDirection) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// SortClause is the resolved "| sort <property> [asc|desc]" stage.
type SortClause struct {
	Path []string
	Dir  SortDirection

	// pos is the offset of the property path, kept for diagnostics when
	// the path fails semantic resolution.
	pos int
}

// Query is one parsed filter query: a predicate plus optional sort and
// limit stages. A nil Predicate means "match everything" (the all keyword).
// A Limit of 0 means no limit; the parser rejects an explicit limit 0.
//
// A Query is immutable once built and safe to share across goroutines.
type Query struct {
	Predicate Node
	Sort      *SortClause
	Limit     int
}
