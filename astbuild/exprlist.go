package astbuild

import (
	"fmt"

	"github.com/pedrodaniel10/wasmati/graph"
	"github.com/pedrodaniel10/wasmati/wasmfront"
)

// buildList implements the two logical stacks (spec §4.2): expStack tracks
// values still available for a later instruction to consume as operands;
// expList tracks every top-level vertex built for list, in order, so the
// ones never absorbed as someone else's operand can be attached as holder's
// AST children once the whole list has been walked. nResults is the
// construct's declared result arity (a function's result count, or a
// block/loop/if's own); buildList does not read it, so the number of values
// the list leaves on expStack is not checked against it.
func (b *funcBuilder) buildList(list wasmfront.ExprList, nResults int, holder graph.NodeHandle) error {
	var expStack []graph.NodeHandle
	var expList []graph.NodeHandle
	absorbed := make(map[graph.NodeHandle]bool)

	pop := func(n int) ([]graph.NodeHandle, error) {
		if n > len(expStack) {
			return nil, fmt.Errorf("%w: need %d operand(s), have %d", graph.ErrStructural, n, len(expStack))
		}
		ops := append([]graph.NodeHandle(nil), expStack[len(expStack)-n:]...)
		expStack = expStack[:len(expStack)-n]
		for _, op := range ops {
			absorbed[op] = true
		}
		return ops, nil
	}

	attach := func(parent graph.NodeHandle, children []graph.NodeHandle) {
		for _, c := range children {
			b.store.MustInsertEdge(graph.Edge{Src: parent, Dest: c, Kind: graph.EdgeAST})
		}
	}

	for i := range list {
		e := &list[i]
		h, produces, err := b.buildExpr(e, pop, attach)
		if err != nil {
			return err
		}
		expList = append(expList, h)
		if produces {
			expStack = append(expStack, h)
		}
	}

	for _, h := range expList {
		if !absorbed[h] {
			b.store.MustInsertEdge(graph.Edge{Src: holder, Dest: h, Kind: graph.EdgeAST})
		}
	}

	return nil
}

type popFunc func(n int) ([]graph.NodeHandle, error)
type attachFunc func(parent graph.NodeHandle, children []graph.NodeHandle)

// buildExpr constructs the vertex (or, for structured constructs, the
// subtree) for one expression and reports whether it leaves a value on
// expStack for a later sibling to consume.
func (b *funcBuilder) buildExpr(e *wasmfront.Expr, pop popFunc, attach attachFunc) (graph.NodeHandle, bool, error) {
	switch e.Kind {
	case graph.ExprBlock, graph.ExprLoop:
		return b.buildBlock(e, pop, attach)
	case graph.ExprIf:
		return b.buildIf(e, pop, attach)
	case graph.ExprBrTable:
		return b.buildBrTable(e, pop, attach)
	case graph.ExprReturn:
		return b.buildReturn(e, pop, attach)
	case graph.ExprConst:
		h := b.store.InsertNode(graph.Node{Kind: graph.KindInstruction, Expr: graph.ExprConst, Location: e.Loc, Const: e.Const})
		return h, true, nil
	case graph.ExprCall:
		return b.buildCall(e, pop, attach)
	case graph.ExprCallIndirect:
		return b.buildCallIndirect(e, pop, attach)
	default:
		return b.buildSimple(e, pop, attach)
	}
}

// buildSimple handles every instruction kind whose operand arity comes
// straight from the module context and whose vertex carries no nested
// expression lists: Nop, Unreachable, Drop, Select, MemorySize, MemoryGrow,
// Binary, Compare, Convert, Unary, Load, Store, Br, BrIf, Global*, Local*.
func (b *funcBuilder) buildSimple(e *wasmfront.Expr, pop popFunc, attach attachFunc) (graph.NodeHandle, bool, error) {
	in, out := b.mc.OpcodeArity(e.Kind, e.Opcode)
	ops, err := pop(in)
	if err != nil {
		return graph.InvalidHandle, false, fmt.Errorf("%s: %w", e.Kind, err)
	}
	h := b.store.InsertNode(graph.Node{
		Kind:     graph.KindInstruction,
		Expr:     e.Kind,
		Location: e.Loc,
		Opcode:   e.Opcode,
		Offset:   e.Offset,
		Label:    e.Label,
	})
	attach(h, ops)
	return h, out > 0, nil
}

func (b *funcBuilder) buildReturn(e *wasmfront.Expr, pop popFunc, attach attachFunc) (graph.NodeHandle, bool, error) {
	// return's operand arity is the enclosing function's own result arity,
	// not a static opcode-table lookup.
	ops, err := pop(len(b.fn.Results))
	if err != nil {
		return graph.InvalidHandle, false, fmt.Errorf("return: %w", err)
	}
	h := b.store.InsertNode(graph.Node{Kind: graph.KindInstruction, Expr: graph.ExprReturn, Location: e.Loc})
	attach(h, ops)
	return h, false, nil
}

func (b *funcBuilder) buildCall(e *wasmfront.Expr, pop popFunc, attach attachFunc) (graph.NodeHandle, bool, error) {
	nparams, nresults, ok := b.mc.CalleeSignature(e.Label)
	if !ok {
		return graph.InvalidHandle, false, fmt.Errorf("%w: call to unresolved callee %q", graph.ErrStructural, e.Label)
	}
	ops, err := pop(nparams)
	if err != nil {
		return graph.InvalidHandle, false, fmt.Errorf("call %q: %w", e.Label, err)
	}
	h := b.store.InsertNode(graph.Node{
		Kind: graph.KindInstruction, Expr: graph.ExprCall, Location: e.Loc,
		Label: e.Label, NumArgs: nparams, NumResults: nresults,
	})
	attach(h, ops)
	return h, nresults > 0, nil
}

func (b *funcBuilder) buildCallIndirect(e *wasmfront.Expr, pop popFunc, attach attachFunc) (graph.NodeHandle, bool, error) {
	nparams, nresults, ok := b.mc.IndirectSignature(e.Label)
	if !ok {
		return graph.InvalidHandle, false, fmt.Errorf("%w: call_indirect with unresolved signature %q", graph.ErrStructural, e.Label)
	}
	// One additional operand (the table index) is popped on top of the
	// declared arguments; it arrives last on expStack so a single pop of
	// size nparams+1 yields [arg0..argN-1, tableIndex] in source order.
	ops, err := pop(nparams + 1)
	if err != nil {
		return graph.InvalidHandle, false, fmt.Errorf("call_indirect %q: %w", e.Label, err)
	}
	h := b.store.InsertNode(graph.Node{
		Kind: graph.KindInstruction, Expr: graph.ExprCallIndirect, Location: e.Loc,
		Label: e.Label, NumArgs: nparams, NumResults: nresults,
	})
	attach(h, ops)
	return h, nresults > 0, nil
}

// buildBlock allocates a Block/Loop vertex and its BeginBlock sibling (spec
// §3.4 invariant 4, §4.2), then recurses into the body with the construct
// itself as holder. BeginBlock is always the construct's first AST child:
// for a loop it is also the back-edge branch target; for a block it anchors
// the leftmost-leaf descent used when wiring CFG edges into the body.
func (b *funcBuilder) buildBlock(e *wasmfront.Expr, pop popFunc, attach attachFunc) (graph.NodeHandle, bool, error) {
	blockHandle := b.store.InsertNode(graph.Node{
		Kind: graph.KindInstruction, Expr: e.Kind, Location: e.Loc,
		Label: e.Label, NumResults: e.NumResults,
	})
	beginHandle := b.store.InsertNode(graph.Node{
		Kind: graph.KindInstruction, Expr: graph.ExprBeginBlock, Location: e.Loc,
		Label: e.Label, NumResults: e.NumResults, BlockRef: blockHandle,
	})
	b.store.MustInsertEdge(graph.Edge{Src: blockHandle, Dest: beginHandle, Kind: graph.EdgeAST})

	if err := b.buildList(e.Body, e.NumResults, blockHandle); err != nil {
		return graph.InvalidHandle, false, err
	}
	return blockHandle, e.NumResults > 0, nil
}

// buildIf allocates an If vertex whose leading AST children are its NumArgs
// condition operand(s), followed by the true branch's children, followed —
// only when an else branch is present — by an Else join scaffold and the
// false branch's children. The CFG pass can therefore find the true
// branch's first instruction at child NumArgs, and can find the boundary
// between branches by scanning for the Else-kind child.
func (b *funcBuilder) buildIf(e *wasmfront.Expr, pop popFunc, attach attachFunc) (graph.NodeHandle, bool, error) {
	in, _ := b.mc.OpcodeArity(graph.ExprIf, "")
	ops, err := pop(in)
	if err != nil {
		return graph.InvalidHandle, false, fmt.Errorf("if: %w", err)
	}

	ifHandle := b.store.InsertNode(graph.Node{
		Kind: graph.KindInstruction, Expr: graph.ExprIf, Location: e.Loc,
		NumResults: e.NumResults, HasElse: e.HasElse, NumArgs: in,
	})
	attach(ifHandle, ops)

	if err := b.buildList(e.Then, e.NumResults, ifHandle); err != nil {
		return graph.InvalidHandle, false, err
	}

	if e.HasElse {
		elseHandle := b.store.InsertNode(graph.Node{Kind: graph.KindElse, Location: e.Loc})
		b.store.MustInsertEdge(graph.Edge{Src: ifHandle, Dest: elseHandle, Kind: graph.EdgeAST})
		if err := b.buildList(e.Else, e.NumResults, ifHandle); err != nil {
			return graph.InvalidHandle, false, err
		}
	}

	return ifHandle, e.NumResults > 0, nil
}

// buildBrTable allocates a BrTable vertex. Its target labels and default
// label are carried as attributes rather than as graph structure — they
// name branch targets elsewhere in the function, which the CFG pass
// resolves the same way it resolves Br/BrIf labels.
func (b *funcBuilder) buildBrTable(e *wasmfront.Expr, pop popFunc, attach attachFunc) (graph.NodeHandle, bool, error) {
	in, _ := b.mc.OpcodeArity(graph.ExprBrTable, "")
	ops, err := pop(in)
	if err != nil {
		return graph.InvalidHandle, false, fmt.Errorf("br_table: %w", err)
	}
	h := b.store.InsertNode(graph.Node{
		Kind: graph.KindInstruction, Expr: graph.ExprBrTable, Location: e.Loc,
		Label: e.Default, Labels: append([]string(nil), e.Labels...),
	})
	attach(h, ops)
	return h, false, nil
}
