package wasmfront

import "github.com/pedrodaniel10/wasmati/graph"

// ExprList is a structured, nested sequence of expressions (spec §3.1 of
// the Wasm structured form referenced by spec.md §4.2): the shape the AST
// builder walks one list at a time, each holding zero or more further
// nested lists for block/loop/if bodies.
type ExprList []Expr

// Expr is one instruction in the structured expression tree. Only the
// fields relevant to Kind are populated by a front-end; this mirrors the
// flat, per-kind-attribute shape of graph.Node itself (spec §3.1), since the
// front-end's job is simply to hand the builder enough to construct that
// node.
type Expr struct {
	Kind graph.ExprKind
	Loc  graph.Location

	// ExprConst
	Const graph.ConstValue

	// Binary/Compare/Convert/Unary/Load/Store
	Opcode string
	Offset int // Load/Store only

	// Br/BrIf/GlobalGet/GlobalSet/LocalGet/LocalSet/LocalTee: the symbolic
	// label. Call/CallIndirect: the callee name (Call) or the call_indirect
	// type/table reference (CallIndirect). Block/Loop: the construct's own
	// label (empty if unlabeled in the source).
	Label string

	// Block/Loop
	NumResults int
	Body       ExprList

	// ExprIf
	HasElse  bool
	Then     ExprList
	Else     ExprList

	// ExprBrTable
	Labels  []string
	Default string
}
