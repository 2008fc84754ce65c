package graph

// EdgeHandle is a stable, non-owning reference into a Store's edge arena.
type EdgeHandle int

// InvalidEdgeHandle marks "no such edge" on failed positional lookups.
const InvalidEdgeHandle EdgeHandle = -1

// Edge is a directed relation between two nodes, tagged AST/CFG/PDG (spec
// §3.2). Multiple edges between the same pair with different kinds, or even
// the same kind with different attributes, are permitted and semantically
// distinct — the store never deduplicates.
type Edge struct {
	Src  NodeHandle
	Dest NodeHandle
	Kind EdgeKind

	// Label is the optional string payload: CFG branch labels ("true",
	// "false", br_table case/default names) or a PDG edge's label.
	Label string

	// PDG-only sub-kind tag and, for PDGConst edges, the constant value.
	PDGKind  PDGKind
	PDGConst ConstValue
}
