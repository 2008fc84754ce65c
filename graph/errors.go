package graph

import "errors"

// Error taxonomy (spec §7). Structural and Invariant errors are fatal:
// construction aborts at the first one. Vertices and edges inserted before
// the failure stay in the store, which has no deletion primitive. Query
// misuse errors are reported with no partial side effects; they never abort
// a build in progress.
var (
	// ErrStructural wraps input violations of Wasm well-formedness (bad
	// operand arity, an unresolved callee or call_indirect signature, an
	// unresolved branch label). An empty body on a non-imported function is
	// accepted, not reported.
	ErrStructural = errors.New("structural error")

	// ErrInvariant wraps a failed construction-time assertion (an edge
	// endpoint not resident in the store). InsertEdge does not check whether
	// an AST edge would create a cycle.
	ErrInvariant = errors.New("invariant violation")

	// ErrQueryMisuse wraps a caller error against the store or query engine
	// (index out of range on a positional accessor, Module() called before
	// a Module vertex exists).
	ErrQueryMisuse = errors.New("query misuse")
)
