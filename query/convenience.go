package query

import "github.com/pedrodaniel10/wasmati/graph"

// Module returns the singleton set containing the Module vertex. It panics
// if no Module has been registered — the same query-misuse condition
// graph.Store.Module reports, surfaced at the set-algebra layer instead.
func Module(store *graph.Store) NodeSet {
	h, err := store.Module()
	if err != nil {
		panic(err)
	}
	return NewNodeSet(store, h)
}

// Functions returns every Function vertex, module-wide, in declaration
// order.
func Functions(store *graph.Store) NodeSet {
	return Module(store).Children(ASTEdges).Filter(OfKind(graph.KindFunction))
}

// Function looks up a single Function vertex by name. ok is false if no
// function with that name exists (ambiguous names resolve to the first
// declared).
func Function(store *graph.Store, name string) (graph.NodeHandle, bool) {
	for _, h := range Functions(store).Handles() {
		if store.Node(h).Name == name {
			return h, true
		}
	}
	return graph.InvalidHandle, false
}

// Instructions returns the top-level Instructions container's direct
// children for fn — the function's flat instruction sequence before any
// nested-block descent.
func Instructions(store *graph.Store, fn graph.NodeHandle) NodeSet {
	instr := NewNodeSet(store, fn).Children(ASTEdges).Filter(OfKind(graph.KindInstructions))
	return instr.Children(ASTEdges)
}

// Parameters returns fn's declared parameter VarNodes, in declaration order.
func Parameters(store *graph.Store, fn graph.NodeHandle) NodeSet {
	sig := NewNodeSet(store, fn).Children(ASTEdges).Filter(OfKind(graph.KindFunctionSignature))
	params := sig.Children(ASTEdges).Filter(OfKind(graph.KindParameters))
	return params.Children(ASTEdges)
}

// Locals returns fn's whole local-variable space: its parameter VarNodes
// followed by its declared local VarNodes, each in declaration order.
// Grounded on the original analysis's uniform treatment of a function's
// local-variable space as parameters followed by locals: a thin composition
// over the primitives above, not a new traversal primitive of its own
// (spec §9 Open Question).
func Locals(store *graph.Store, fn graph.NodeHandle) NodeSet {
	sig := NewNodeSet(store, fn).Children(ASTEdges).Filter(OfKind(graph.KindFunctionSignature))
	locals := sig.Children(ASTEdges).Filter(OfKind(graph.KindLocals))
	return Parameters(store, fn).Union(locals.Children(ASTEdges))
}

// CallSites returns every Call instruction module-wide whose callee label
// matches calleeName — a convenience composition, not a new primitive,
// kept distinct from CallIndirect (spec §9 Open Question).
func CallSites(store *graph.Store, calleeName string) NodeSet {
	return All(store).Filter(And(OfExpr(graph.ExprCall), func(store *graph.Store, h graph.NodeHandle) bool {
		return store.Node(h).Label == calleeName
	}))
}
