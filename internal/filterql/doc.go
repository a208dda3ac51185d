// Package filterql implements the fstop filter query language: a small
// compiler that turns a textual query such as
//
//	exif.make == 'Canon' and year(dateTaken) == 2024 | sort dateTaken desc | limit 5
//
// into a reusable query object that selects, orders, and truncates a
// collection of image records.
//
// ARCHITECTURE:
//
// Pipeline (leaves first):
//
//	source → lexer → tokens → parser → AST (+ sort/limit) → backend → CompiledQuery
//
// The lexer has no knowledge of the grammar. The parser is recursive
// descent with precedence encoded in its call chain and is the only place
// that constructs AST nodes; the tree is immutable once built. The backend
// walks the AST bottom-up exactly once, producing one closure per node,
// so evaluation never re-walks or re-validates anything: compile once,
// evaluate many.
//
// VALIDATION:
//
// All validation is compile-time. Unknown properties and functions, wrong
// arities, and incompatible operand types fail the compile; a compiled
// predicate never fails at evaluation time. Missing optional data (no EXIF
// block, unset tag, absent timestamp) short-circuits to an absent value,
// and comparisons over absent values evaluate to false rather than
// erroring. Comparing against the null literal tests presence directly.
//
// ERRORS:
//
// Every failure - lexical, syntax, semantic - is a *Error carrying a
// category, message, and byte offset, with a stable two-line source+caret
// rendering via Render. Compile outcomes are deterministic: the same
// source always yields the same result.
//
// CONCURRENCY:
//
// The package does no I/O and holds no shared mutable state. Compiled
// predicates and queries are pure values; callers may evaluate them from
// many goroutines without synchronization.
package filterql
