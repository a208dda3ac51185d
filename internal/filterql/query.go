package filterql

import (
	"slices"

	"github.com/fstopgen/fstop/internal/photo"
)

// Predicate is a compiled filter: a pure function from one image record to
// matches / doesn't match. It carries no mutable state and is safe to call
// concurrently from multiple goroutines.
type Predicate func(*photo.Image) bool

// CompiledQuery is one fully compiled filter query: predicate plus the
// resolved sort and limit stages. It is immutable after compilation and
// safe to share across goroutines for repeated evaluation.
type CompiledQuery struct {
	// Source is the original query text.
	Source string

	// Sort is the resolved sort clause, nil when the query had none.
	Sort *SortClause

	// Limit is the truncation count, 0 when the query had none.
	Limit int

	pred Predicate
	key  *sortKey
}

// CompileQuery runs the full pipeline - lex, parse, compile - and returns
// the reusable query object. Callers that apply sort and limit themselves
// read the Sort and Limit fields; Run applies all three stages.
func CompileQuery(source string) (*CompiledQuery, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, attachSource(err, source)
	}
	q, err := parseTokens(tokens)
	if err != nil {
		return nil, attachSource(err, source)
	}
	pred, err := compilePredicate(q.Predicate)
	if err != nil {
		return nil, attachSource(err, source)
	}
	cq := &CompiledQuery{Source: source, Sort: q.Sort, Limit: q.Limit, pred: pred}
	if q.Sort != nil {
		key, err := compileSortKey(q.Sort)
		if err != nil {
			return nil, attachSource(err, source)
		}
		cq.key = key
	}
	return cq, nil
}

// Compile runs the full pipeline and returns just the predicate.
func Compile(source string) (Predicate, error) {
	cq, err := CompileQuery(source)
	if err != nil {
		return nil, err
	}
	return cq.pred, nil
}

// Match reports whether one image satisfies the predicate.
func (q *CompiledQuery) Match(img *photo.Image) bool {
	return q.pred(img)
}

// Run filters images through the predicate, stable-sorts by the sort
// clause when present, and truncates to the limit when present. The input
// slice is never modified.
func (q *CompiledQuery) Run(images []photo.Image) []photo.Image {
	out := make([]photo.Image, 0, len(images))
	for i := range images {
		if q.pred(&images[i]) {
			out = append(out, images[i])
		}
	}
	if q.key != nil {
		slices.SortStableFunc(out, func(a, b photo.Image) int {
			return q.key.compare(&a, &b)
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// Apply compiles source and runs it over images in one call.
func Apply(images []photo.Image, source string) ([]photo.Image, error) {
	cq, err := CompileQuery(source)
	if err != nil {
		return nil, err
	}
	return cq.Run(images), nil
}

// Validate reports whether source compiles. It never partially validates:
// the whole pipeline runs.
func Validate(source string) bool {
	_, err := CompileQuery(source)
	return err == nil
}

// TryValidate compiles source, discarding the result. On failure the
// returned message combines the error line with the caret rendering, ready
// for display.
func TryValidate(source string) (bool, string) {
	_, err := CompileQuery(source)
	if err == nil {
		return true, ""
	}
	if fe, ok := IsFilterError(err); ok {
		return false, fe.Error() + "\n" + fe.Render()
	}
	return false, err.Error()
}

// attachSource fills in the error's Source so Render has the full query
// text. The stages below the facade only track offsets.
func attachSource(err error, source string) error {
	if fe, ok := IsFilterError(err); ok {
		fe.Source = source
	}
	return err
}
