package wasmfront

import "github.com/pedrodaniel10/wasmati/graph"

// NameGenerator fills in names absent from the source module (spec §4.2
// "Locals naming"). idx ranges over the combined parameter+local space of
// fn: 0..len(fn.Params)-1 addresses parameters, the remainder addresses
// locals.
type NameGenerator interface {
	Name(fn *Function, idx int) string
}

// ModuleContext reports arity information for opcodes and callees (spec
// §6). The AST builder consults it to know how many operands to pop for
// every instruction it constructs.
type ModuleContext interface {
	// OpcodeArity returns the operand counts for kind/opcode: how many
	// values it consumes from the operand stack (in) and how many it
	// produces (out). opcode is only meaningful for the opcode-carrying
	// kinds (Binary, Compare, Convert, Unary, Load, Store); it is ignored
	// otherwise.
	OpcodeArity(kind graph.ExprKind, opcode string) (in, out int)

	// CalleeSignature resolves the parameter and result counts of the
	// function named by label, for Call. ok is false if label does not
	// name a known function.
	CalleeSignature(label string) (numParams, numResults int, ok bool)

	// IndirectSignature resolves the parameter and result counts for a
	// call_indirect referencing typeOrTable (the CallIndirect instruction's
	// label, naming the indirect call's declared type). ok is false if it
	// cannot be resolved.
	IndirectSignature(typeOrTable string) (numParams, numResults int, ok bool)
}

// Config is the consumed configuration record (spec §6). Emitting AST edges
// is always on and therefore has no field.
type Config struct {
	// EmitCFGEdges gates the CFG visitor (spec §4.3). If false, cfg.Build is
	// simply not invoked by the caller; astbuild is unaffected.
	EmitCFGEdges bool

	// EmitPDGEdges, if true, requests full PDG data-flow generation, which
	// is out of scope for this core (spec §1 Non-goals, §9 Open Question).
	// astbuild.Build rejects this with ErrPDGOutOfScope rather than
	// silently ignoring it. It does not gate cfg.DeriveControlDependencies,
	// which is a mechanical CFG-to-PDG relabeling, not data-flow analysis.
	EmitPDGEdges bool

	// IncludeImportedInCFG, if true, gives imported Functions an empty CFG
	// scaffold (a single CFG edge from the graph-global Start vertex to the
	// function's Return vertex) instead of no CFG presence at all.
	IncludeImportedInCFG bool
}
