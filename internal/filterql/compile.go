package filterql

import (
	"cmp"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/fstopgen/fstop/internal/photo"
)

// The backend walks the AST bottom-up once, producing one small closure per
// node. Every closure closes over already-resolved metadata (field
// accessors, widened operands, folded match functions), so evaluation is a
// single linear pass with no per-call validation or AST walking. All
// semantic checking happens here, at compile time; a compiled closure never
// fails at evaluation time.

// resultKind is the statically-known result type of a compiled node.
type resultKind int

const (
	kindBool resultKind = iota + 1
	kindInt
	kindFloat
	kindString
	kindTime
	kindNull
)

func (k resultKind) String() string {
	switch k {
	case kindBool:
		return "boolean"
	case kindInt:
		return "integer"
	case kindFloat:
		return "decimal"
	case kindString:
		return "string"
	case kindTime:
		return "timestamp"
	case kindNull:
		return "null"
	}
	return "unknown"
}

// evalFunc is one compiled unit of executable logic. The second result
// reports presence: false means the value is absent (missing EXIF block,
// unset tag, nil timestamp). Boolean units are always present.
type evalFunc func(img *photo.Image) (any, bool)

type compiled struct {
	kind resultKind
	eval evalFunc
}

// compilePredicate turns a predicate AST into a Predicate. A nil root
// (the "all" keyword) matches everything.
func compilePredicate(root Node) (Predicate, error) {
	if root == nil {
		return func(*photo.Image) bool { return true }, nil
	}
	c, err := compileNode(root)
	if err != nil {
		return nil, err
	}
	if c.kind != kindBool {
		return nil, newSemanticError(root.Pos(), "filter expression must evaluate to a boolean, not %s", c.kind)
	}
	eval := c.eval
	return func(img *photo.Image) bool {
		v, _ := eval(img)
		return v.(bool)
	}, nil
}

func compileNode(n Node) (compiled, error) {
	switch n := n.(type) {
	case *Binary:
		return compileBinary(n)
	case *Unary:
		return compileUnary(n)
	case *Call:
		return compileCall(n)
	case *Property:
		return compileProperty(n)
	case *Constant:
		return compileConstant(n), nil
	}
	// Unreachable: Node is sealed to this package.
	return compiled{}, newSemanticError(n.Pos(), "unsupported expression")
}

func compileBinary(n *Binary) (compiled, error) {
	left, err := compileNode(n.Left)
	if err != nil {
		return compiled{}, err
	}
	right, err := compileNode(n.Right)
	if err != nil {
		return compiled{}, err
	}

	switch n.Op {
	case OpAnd, OpOr:
		return compileLogical(n, left, right)
	default:
		return compileComparison(n, left, right)
	}
}

func compileLogical(n *Binary, left, right compiled) (compiled, error) {
	if left.kind != kindBool {
		return compiled{}, newSemanticError(n.Left.Pos(), "left operand of %s must be a boolean expression, not %s", n.Op, left.kind)
	}
	if right.kind != kindBool {
		return compiled{}, newSemanticError(n.Right.Pos(), "right operand of %s must be a boolean expression, not %s", n.Op, right.kind)
	}
	l, r := left.eval, right.eval
	if n.Op == OpAnd {
		return boolUnit(func(img *photo.Image) (any, bool) {
			if v, _ := l(img); !v.(bool) {
				return false, true
			}
			return r(img)
		}), nil
	}
	return boolUnit(func(img *photo.Image) (any, bool) {
		if v, _ := l(img); v.(bool) {
			return true, true
		}
		return r(img)
	}), nil
}

func compileUnary(n *Unary) (compiled, error) {
	operand, err := compileNode(n.Operand)
	if err != nil {
		return compiled{}, err
	}
	if operand.kind != kindBool {
		return compiled{}, newSemanticError(n.Operand.Pos(), "operand of not must be a boolean expression, not %s", operand.kind)
	}
	inner := operand.eval
	return boolUnit(func(img *photo.Image) (any, bool) {
		v, _ := inner(img)
		return !v.(bool), true
	}), nil
}

// compileComparison unifies operand types and builds the comparison
// closure. Rules:
//
//   - integer and decimal operands unify by widening the integer side
//   - comparing against the null literal tests presence (== / != only)
//   - an absent operand makes any other comparison false, never an error
//   - everything else requires both sides to share a kind
func compileComparison(n *Binary, left, right compiled) (compiled, error) {
	// Null literal: presence check on the other side.
	if left.kind == kindNull || right.kind == kindNull {
		if n.Op != OpEq && n.Op != OpNeq {
			return compiled{}, newSemanticError(n.Pos(), "cannot order against null")
		}
		if left.kind == kindNull && right.kind == kindNull {
			result := n.Op == OpEq
			return boolUnit(func(*photo.Image) (any, bool) { return result, true }), nil
		}
		other := left
		if left.kind == kindNull {
			other = right
		}
		inner := other.eval
		wantAbsent := n.Op == OpEq
		return boolUnit(func(img *photo.Image) (any, bool) {
			_, ok := inner(img)
			return ok != wantAbsent, true
		}), nil
	}

	// Numeric widening.
	if left.kind == kindInt && right.kind == kindFloat {
		left = widenToFloat(left)
	}
	if left.kind == kindFloat && right.kind == kindInt {
		right = widenToFloat(right)
	}

	if left.kind != right.kind {
		return compiled{}, newSemanticError(n.Pos(), "incompatible operand types for %s: %s and %s", n.Op, left.kind, right.kind)
	}

	switch left.kind {
	case kindInt:
		return boolUnit(orderedCompare[int64](n.Op, left.eval, right.eval)), nil
	case kindFloat:
		return boolUnit(orderedCompare[float64](n.Op, left.eval, right.eval)), nil
	case kindString:
		return boolUnit(orderedCompare[string](n.Op, left.eval, right.eval)), nil
	case kindTime:
		return boolUnit(timeCompare(n.Op, left.eval, right.eval)), nil
	case kindBool:
		if n.Op != OpEq && n.Op != OpNeq {
			return compiled{}, newSemanticError(n.Pos(), "cannot order boolean values with %s", n.Op)
		}
		l, r := left.eval, right.eval
		want := n.Op == OpEq
		return boolUnit(func(img *photo.Image) (any, bool) {
			lv, _ := l(img)
			rv, _ := r(img)
			return (lv.(bool) == rv.(bool)) == want, true
		}), nil
	}
	return compiled{}, newSemanticError(n.Pos(), "incompatible operand types for %s", n.Op)
}

func boolUnit(eval evalFunc) compiled {
	return compiled{kind: kindBool, eval: eval}
}

func widenToFloat(c compiled) compiled {
	inner := c.eval
	return compiled{kind: kindFloat, eval: func(img *photo.Image) (any, bool) {
		v, ok := inner(img)
		if !ok {
			return nil, false
		}
		return float64(v.(int64)), true
	}}
}

// orderedCompare builds a comparison closure over a totally ordered kind.
// String equality here is literal (case-sensitive); caseless matching is
// routed through lower/upper or the matching functions.
func orderedCompare[T cmp.Ordered](op BinaryOp, l, r evalFunc) evalFunc {
	var match func(a, b T) bool
	switch op {
	case OpEq:
		match = func(a, b T) bool { return a == b }
	case OpNeq:
		match = func(a, b T) bool { return a != b }
	case OpLt:
		match = func(a, b T) bool { return a < b }
	case OpLte:
		match = func(a, b T) bool { return a <= b }
	case OpGt:
		match = func(a, b T) bool { return a > b }
	case OpGte:
		match = func(a, b T) bool { return a >= b }
	}
	return func(img *photo.Image) (any, bool) {
		lv, ok := l(img)
		if !ok {
			return false, true
		}
		rv, ok := r(img)
		if !ok {
			return false, true
		}
		return match(lv.(T), rv.(T)), true
	}
}

func timeCompare(op BinaryOp, l, r evalFunc) evalFunc {
	var match func(a, b time.Time) bool
	switch op {
	case OpEq:
		match = func(a, b time.Time) bool { return a.Equal(b) }
	case OpNeq:
		match = func(a, b time.Time) bool { return !a.Equal(b) }
	case OpLt:
		match = func(a, b time.Time) bool { return a.Before(b) }
	case OpLte:
		match = func(a, b time.Time) bool { return !a.After(b) }
	case OpGt:
		match = func(a, b time.Time) bool { return a.After(b) }
	case OpGte:
		match = func(a, b time.Time) bool { return !a.Before(b) }
	}
	return func(img *photo.Image) (any, bool) {
		lv, ok := l(img)
		if !ok {
			return false, true
		}
		rv, ok := r(img)
		if !ok {
			return false, true
		}
		return match(lv.(time.Time), rv.(time.Time)), true
	}
}

func compileConstant(n *Constant) compiled {
	switch n.Kind {
	case ConstString:
		s := n.Str
		return compiled{kind: kindString, eval: func(*photo.Image) (any, bool) { return s, true }}
	case ConstInt:
		v := n.Int
		return compiled{kind: kindInt, eval: func(*photo.Image) (any, bool) { return v, true }}
	case ConstDecimal:
		f := n.Float
		return compiled{kind: kindFloat, eval: func(*photo.Image) (any, bool) { return f, true }}
	case ConstBool:
		b := n.Bool
		return compiled{kind: kindBool, eval: func(*photo.Image) (any, bool) { return b, true }}
	default:
		return compiled{kind: kindNull, eval: func(*photo.Image) (any, bool) { return nil, false }}
	}
}

// compileProperty resolves a dotted path against the image record's static
// shape. Each level is a closed enumeration matched case-insensitively;
// exif.raw.<Tag> is the one dynamic level and looks the tag up by its
// literal spelling, since raw tag names are data rather than schema.
// Any absent intermediate (no EXIF block, unset tag) short-circuits the
// whole path to absent.
func compileProperty(p *Property) (compiled, error) {
	dotted := strings.Join(p.Path, ".")
	seg := make([]string, len(p.Path))
	for i, s := range p.Path {
		seg[i] = strings.ToLower(s)
	}

	switch len(seg) {
	case 1:
		switch seg[0] {
		case "filename":
			return compiled{kind: kindString, eval: func(img *photo.Image) (any, bool) {
				return img.Filename, true
			}}, nil
		case "width":
			return compiled{kind: kindInt, eval: func(img *photo.Image) (any, bool) {
				return int64(img.Width), true
			}}, nil
		case "height":
			return compiled{kind: kindInt, eval: func(img *photo.Image) (any, bool) {
				return int64(img.Height), true
			}}, nil
		case "datetaken":
			return compiled{kind: kindTime, eval: func(img *photo.Image) (any, bool) {
				if img.DateTaken == nil {
					return nil, false
				}
				return *img.DateTaken, true
			}}, nil
		case "exif":
			return compiled{}, newSemanticError(p.Pos(), "exif is not a value; reference a field such as exif.make")
		}

	case 2:
		if seg[0] != "exif" {
			break
		}
		switch seg[1] {
		case "make":
			return exifString(func(e *photo.Exif) string { return e.Make }), nil
		case "model":
			return exifString(func(e *photo.Exif) string { return e.Model }), nil
		case "lensmodel":
			return exifString(func(e *photo.Exif) string { return e.LensModel }), nil
		case "exposuretime":
			return exifString(func(e *photo.Exif) string { return e.ExposureTime }), nil
		case "fnumber":
			return exifFloat(func(e *photo.Exif) *float64 { return e.FNumber }), nil
		case "focallength":
			return exifFloat(func(e *photo.Exif) *float64 { return e.FocalLength }), nil
		case "iso":
			return compiled{kind: kindInt, eval: func(img *photo.Image) (any, bool) {
				if img.Exif == nil || img.Exif.ISO == nil {
					return nil, false
				}
				return int64(*img.Exif.ISO), true
			}}, nil
		case "raw":
			return compiled{}, newSemanticError(p.Pos(), "exif.raw requires a tag name, e.g. exif.raw.Rating")
		}

	case 3:
		if seg[0] == "exif" && seg[1] == "raw" {
			key := p.Path[2]
			return compiled{kind: kindString, eval: func(img *photo.Image) (any, bool) {
				if img.Exif == nil {
					return nil, false
				}
				v, ok := img.Exif.Raw[key]
				return v, ok
			}}, nil
		}
	}

	return compiled{}, newSemanticError(p.Pos(), "unknown property %q", dotted)
}

func exifString(get func(*photo.Exif) string) compiled {
	return compiled{kind: kindString, eval: func(img *photo.Image) (any, bool) {
		if img.Exif == nil {
			return nil, false
		}
		v := get(img.Exif)
		if v == "" {
			return nil, false
		}
		return v, true
	}}
}

func exifFloat(get func(*photo.Exif) *float64) compiled {
	return compiled{kind: kindFloat, eval: func(img *photo.Image) (any, bool) {
		if img.Exif == nil {
			return nil, false
		}
		v := get(img.Exif)
		if v == nil {
			return nil, false
		}
		return *v, true
	}}
}

// funcDef is one entry of the fixed function library. build receives the
// compiled arguments plus their AST nodes for error positions.
type funcDef struct {
	arity int
	build func(call *Call, args []compiled) (compiled, error)
}

var functions = map[string]funcDef{
	"year":        {1, timeComponent(func(t time.Time) int64 { return int64(t.Year()) })},
	"month":       {1, timeComponent(func(t time.Time) int64 { return int64(t.Month()) })},
	"day":         {1, timeComponent(func(t time.Time) int64 { return int64(t.Day()) })},
	"contains":    {2, stringMatch(strings.Contains)},
	"starts_with": {2, stringMatch(strings.HasPrefix)},
	"ends_with":   {2, stringMatch(strings.HasSuffix)},
	"lower":       {1, caseConvert(strings.ToLower)},
	"upper":       {1, caseConvert(strings.ToUpper)},
}

// compileCall validates name and arity against the function library.
// Function names match case-insensitively, like everything else in the
// language.
func compileCall(n *Call) (compiled, error) {
	def, ok := functions[strings.ToLower(n.Name)]
	if !ok {
		return compiled{}, newSemanticError(n.Pos(), "unknown function %q", n.Name)
	}
	if len(n.Args) != def.arity {
		return compiled{}, newSemanticError(n.Pos(), "function %s expects %d argument(s), got %d", strings.ToLower(n.Name), def.arity, len(n.Args))
	}
	args := make([]compiled, len(n.Args))
	for i, argNode := range n.Args {
		c, err := compileNode(argNode)
		if err != nil {
			return compiled{}, err
		}
		args[i] = c
	}
	return def.build(n, args)
}

// timeComponent builds year/month/day: timestamp in, integer out, absence
// propagated.
func timeComponent(extract func(time.Time) int64) func(*Call, []compiled) (compiled, error) {
	return func(call *Call, args []compiled) (compiled, error) {
		if args[0].kind != kindTime {
			return compiled{}, newSemanticError(call.Args[0].Pos(), "argument of %s must be a timestamp, not %s", strings.ToLower(call.Name), args[0].kind)
		}
		inner := args[0].eval
		return compiled{kind: kindInt, eval: func(img *photo.Image) (any, bool) {
			v, ok := inner(img)
			if !ok {
				return nil, false
			}
			return extract(v.(time.Time)), true
		}}, nil
	}
}

// stringMatch builds contains/starts_with/ends_with: two strings in,
// boolean out. Matching is caseless via Unicode case folding. An absent
// operand makes the result false rather than absent.
func stringMatch(match func(haystack, needle string) bool) func(*Call, []compiled) (compiled, error) {
	return func(call *Call, args []compiled) (compiled, error) {
		for i, arg := range args {
			if arg.kind != kindString {
				return compiled{}, newSemanticError(call.Args[i].Pos(), "argument %d of %s must be a string, not %s", i+1, strings.ToLower(call.Name), arg.kind)
			}
		}
		l, r := args[0].eval, args[1].eval
		return boolUnit(func(img *photo.Image) (any, bool) {
			lv, ok := l(img)
			if !ok {
				return false, true
			}
			rv, ok := r(img)
			if !ok {
				return false, true
			}
			return match(foldCase(lv.(string)), foldCase(rv.(string))), true
		}), nil
	}
}

// caseConvert builds lower/upper: string in, string out, absence
// propagated.
func caseConvert(convert func(string) string) func(*Call, []compiled) (compiled, error) {
	return func(call *Call, args []compiled) (compiled, error) {
		if args[0].kind != kindString {
			return compiled{}, newSemanticError(call.Args[0].Pos(), "argument of %s must be a string, not %s", strings.ToLower(call.Name), args[0].kind)
		}
		inner := args[0].eval
		return compiled{kind: kindString, eval: func(img *photo.Image) (any, bool) {
			v, ok := inner(img)
			if !ok {
				return nil, false
			}
			return convert(v.(string)), true
		}}, nil
	}
}

// foldCase returns a case-folded copy for caseless matching. A cases.Caser
// is stateful, so a fresh one is built per call; that keeps compiled
// predicates safe for concurrent use.
func foldCase(s string) string {
	return cases.Fold().String(s)
}

// sortKey is a compiled sort clause: the resolved property accessor plus
// direction. It reuses the predicate's property resolution, so sorting is
// case-insensitive and null-safe with the same rules.
type sortKey struct {
	kind resultKind
	eval evalFunc
	desc bool
}

// compileSortKey resolves the sort clause's property path.
func compileSortKey(clause *SortClause) (*sortKey, error) {
	c, err := compileProperty(&Property{pos: clause.pos, Path: clause.Path})
	if err != nil {
		return nil, err
	}
	return &sortKey{kind: c.kind, eval: c.eval, desc: clause.Dir == Desc}, nil
}

// compare orders a before b when negative. Images with an absent sort key
// order after all present ones regardless of direction; string keys order
// case-insensitively.
func (k *sortKey) compare(a, b *photo.Image) int {
	av, aok := k.eval(a)
	bv, bok := k.eval(b)
	if !aok || !bok {
		switch {
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	}

	var c int
	switch k.kind {
	case kindInt:
		c = cmp.Compare(av.(int64), bv.(int64))
	case kindFloat:
		c = cmp.Compare(av.(float64), bv.(float64))
	case kindString:
		c = strings.Compare(foldCase(av.(string)), foldCase(bv.(string)))
	case kindTime:
		c = av.(time.Time).Compare(bv.(time.Time))
	}
	if k.desc {
		c = -c
	}
	return c
}
