// Package fixture builds small, hand-written wasmfront.Module values and
// the wasmfront.ModuleContext/NameGenerator implementations they need.
// There is no third-party Wasm text-format or binary parser in this
// module's dependency set (see the root DESIGN.md): every module here is
// assembled directly in Go, the way a unit test usually builds its own
// fixture rather than reading one off disk.
package fixture

import (
	"fmt"

	"github.com/pedrodaniel10/wasmati/graph"
	"github.com/pedrodaniel10/wasmati/wasmfront"
)

// signature is the parameter/result arity of one callee, keyed by name.
type signature struct {
	numParams  int
	numResults int
}

// Context is a table-driven wasmfront.ModuleContext covering the fixed
// opcode arities the fixture modules in this package use.
type Context struct {
	Callees  map[string]signature
	Indirect map[string]signature
}

// NewContext returns an empty Context ready to have callees registered.
func NewContext() *Context {
	return &Context{Callees: map[string]signature{}, Indirect: map[string]signature{}}
}

func (c *Context) RegisterCallee(name string, numParams, numResults int) {
	c.Callees[name] = signature{numParams, numResults}
}

func (c *Context) RegisterIndirect(typeName string, numParams, numResults int) {
	c.Indirect[typeName] = signature{numParams, numResults}
}

// OpcodeArity implements wasmfront.ModuleContext with the standard Wasm
// stack arities; opcode only matters for kinds that carry one, and even
// then every opcode of a given kind shares its arity in this model.
func (c *Context) OpcodeArity(kind graph.ExprKind, _ string) (in, out int) {
	switch kind {
	case graph.ExprNop, graph.ExprUnreachable, graph.ExprBr:
		return 0, 0
	case graph.ExprDrop:
		return 1, 0
	case graph.ExprSelect:
		return 3, 1
	case graph.ExprMemorySize:
		return 0, 1
	case graph.ExprMemoryGrow:
		return 1, 1
	case graph.ExprBinary, graph.ExprCompare:
		return 2, 1
	case graph.ExprConvert, graph.ExprUnary:
		return 1, 1
	case graph.ExprLoad:
		return 1, 1
	case graph.ExprStore:
		return 2, 0
	case graph.ExprBrIf:
		return 1, 0
	case graph.ExprBrTable:
		return 1, 0
	case graph.ExprGlobalGet, graph.ExprLocalGet:
		return 0, 1
	case graph.ExprGlobalSet, graph.ExprLocalSet:
		return 1, 0
	case graph.ExprLocalTee:
		return 1, 1
	case graph.ExprIf:
		return 1, 0
	default:
		return 0, 0
	}
}

func (c *Context) CalleeSignature(label string) (int, int, bool) {
	sig, ok := c.Callees[label]
	return sig.numParams, sig.numResults, ok
}

func (c *Context) IndirectSignature(typeOrTable string) (int, int, bool) {
	sig, ok := c.Indirect[typeOrTable]
	return sig.numParams, sig.numResults, ok
}

// SeqNames names unnamed locals "local0", "local1", ... in combined
// parameter+local index order.
type SeqNames struct{}

func (SeqNames) Name(_ *wasmfront.Function, idx int) string {
	return fmt.Sprintf("local%d", idx)
}

func i32Const(v uint32) wasmfront.Expr {
	return wasmfront.Expr{Kind: graph.ExprConst, Const: graph.ConstValue{Type: graph.ValueTypeI32, Bits: uint64(v)}}
}
