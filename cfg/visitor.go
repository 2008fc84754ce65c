// Package cfg walks the AST a prior astbuild pass left in a graph.Store and
// adds CFG edges over the same vertex set (spec §4.3).
package cfg

import (
	"fmt"

	"github.com/pedrodaniel10/wasmati/astbuild"
	"github.com/pedrodaniel10/wasmati/graph"
	"github.com/pedrodaniel10/wasmati/wasmfront"
)

// Build adds CFG edges for every function in result. It must run after
// astbuild.Build has populated store and must not be called twice for the
// same result.
func Build(store *graph.Store, result *astbuild.Result, cfg wasmfront.Config) error {
	for i := range result.Functions {
		fi := &result.Functions[i]
		if err := buildFunction(store, fi, cfg); err != nil {
			return fmt.Errorf("function %q: %w", fi.Source.Name, err)
		}
	}
	return nil
}

func buildFunction(store *graph.Store, fi *astbuild.FunctionInfo, cfg wasmfront.Config) error {
	if fi.Source.IsImport {
		if cfg.IncludeImportedInCFG {
			store.MustInsertEdge(graph.Edge{Src: store.Start(), Dest: fi.ReturnHandle, Kind: graph.EdgeCFG})
		}
		return nil
	}

	children := childDests(store, fi.InstructionsHandle, graph.EdgeAST)
	if len(children) == 0 {
		// An empty body never executes, so it wires no CFG edges at all.
		return nil
	}

	v := &visitor{store: store, fi: fi}
	return v.wireSequence(children, fi.ReturnHandle)
}

// visitor carries the per-function state the structured-control recursion
// needs: the store being mutated and a label→target stack for resolving
// br/br_if/br_table, innermost label first (spec §4.3).
type visitor struct {
	store  *graph.Store
	fi     *astbuild.FunctionInfo
	blocks []blockTarget
}

type blockTarget struct {
	label  string
	target graph.NodeHandle
}

func childDests(store *graph.Store, node graph.NodeHandle, kind graph.EdgeKind) []graph.NodeHandle {
	edges := store.OutEdges(node, &kind)
	out := make([]graph.NodeHandle, len(edges))
	for i, h := range edges {
		out[i] = store.Edge(h).Dest
	}
	return out
}

// operandChildren returns node's value-producing operand children — the
// ones a predecessor's entry must thread through before node itself can
// run. Block/Loop have none (their children are a nested body, not
// operands); If's NumArgs condition operand(s) precede its branch bodies;
// every other instruction's AST children are exactly its operands.
// An operand is assumed to itself be a plain value-producing instruction,
// never a Block/Loop/If — this core does not model Wasm's folded-block
// operand positions (spec §9 Open Question).
func (v *visitor) operandChildren(node graph.NodeHandle, n graph.Node) []graph.NodeHandle {
	if n.Kind != graph.KindInstruction {
		return nil
	}
	switch n.Expr {
	case graph.ExprBlock, graph.ExprLoop:
		return nil
	case graph.ExprIf:
		rest := childDests(v.store, node, graph.EdgeAST)
		if n.NumArgs > len(rest) {
			return nil
		}
		return rest[:n.NumArgs]
	default:
		return childDests(v.store, node, graph.EdgeAST)
	}
}

// entryOf resolves the concrete CFG vertex a predecessor's successor edge
// must target when "entering" node (spec §4.3): Block/Loop are pure
// scaffolding whose real entry point is their BeginBlock sibling; anything
// else with operands is only reached after its own operand chain runs, so
// entryOf descends into the first operand, recursively.
func (v *visitor) entryOf(node graph.NodeHandle) graph.NodeHandle {
	n := v.store.Node(node)
	if n.Kind == graph.KindInstruction && (n.Expr == graph.ExprBlock || n.Expr == graph.ExprLoop) {
		begin, err := v.store.Child(node, 0, graph.EdgeAST)
		if err != nil {
			panic(err) // astbuild always gives Block/Loop a BeginBlock first child
		}
		return begin
	}
	ops := v.operandChildren(node, n)
	if len(ops) == 0 {
		return node
	}
	return v.entryOf(ops[0])
}

// wireOperandChain wires node's own operand evaluation order — each operand
// (recursively expanded through its own operands first) in turn, the last
// one flowing into node itself — regardless of whether node is reachable:
// this is node's internal structure, built unconditionally the way a
// function's own internal CFG is always built even when nothing outside
// calls it.
func (v *visitor) wireOperandChain(node graph.NodeHandle, n graph.Node) {
	ops := v.operandChildren(node, n)
	for i, op := range ops {
		v.wireOperandChain(op, v.store.Node(op))
		next := node
		if i+1 < len(ops) {
			next = v.entryOf(ops[i+1])
		}
		v.store.MustInsertEdge(graph.Edge{Src: op, Dest: next, Kind: graph.EdgeCFG})
	}
}

func (v *visitor) resolveLabel(label string) (graph.NodeHandle, error) {
	for i := len(v.blocks) - 1; i >= 0; i-- {
		if v.blocks[i].label == label {
			return v.blocks[i].target, nil
		}
	}
	return graph.InvalidHandle, fmt.Errorf("%w: unresolved branch label %q", graph.ErrStructural, label)
}

// wireSequence wires the sibling instructions in children, in order:
// node[i]'s fallthrough successor is the entry point of node[i+1], or
// continuation after the last live node. A node whose instruction
// unconditionally diverges (return, br, br_table, unreachable) makes every
// following sibling in this same list unreachable — they are left with no
// incoming CFG edge from here, though their own internal CFG is still
// built, since another path (a branch from elsewhere) may still reach them.
func (v *visitor) wireSequence(children []graph.NodeHandle, continuation graph.NodeHandle) error {
	live := true
	for i, child := range children {
		next := continuation
		if i+1 < len(children) {
			next = v.entryOf(children[i+1])
		}
		stillLive, err := v.wireNode(child, next, live)
		if err != nil {
			return err
		}
		live = live && stillLive
	}
	return nil
}

// wireNode builds the CFG edges node itself introduces (including its own
// operand chain and, for structured constructs, everything inside it) and
// reports whether control can still reach next from node when reachable is
// true. When reachable is false, node's own internal CFG is still built
// (branches from elsewhere may still land inside it) but no edge is wired
// into node from outside.
func (v *visitor) wireNode(node graph.NodeHandle, next graph.NodeHandle, reachable bool) (bool, error) {
	n := v.store.Node(node)
	v.wireOperandChain(node, n)

	wireIn := func(dest graph.NodeHandle) {
		if reachable {
			v.store.MustInsertEdge(graph.Edge{Src: node, Dest: dest, Kind: graph.EdgeCFG})
		}
	}

	if n.Kind != graph.KindInstruction {
		return true, nil
	}

	switch n.Expr {
	case graph.ExprBlock:
		return true, v.wireBlock(node, n, next, reachable)
	case graph.ExprLoop:
		return true, v.wireLoop(node, n, next, reachable)
	case graph.ExprIf:
		return true, v.wireIf(node, n, next, reachable)

	case graph.ExprUnreachable:
		if reachable {
			v.store.MustInsertEdge(graph.Edge{Src: node, Dest: v.store.Trap(), Kind: graph.EdgeCFG})
		}
		return false, nil

	case graph.ExprReturn:
		if reachable {
			v.store.MustInsertEdge(graph.Edge{Src: node, Dest: v.fi.ReturnHandle, Kind: graph.EdgeCFG})
		}
		return false, nil

	case graph.ExprBr:
		if reachable {
			target, err := v.resolveLabel(n.Label)
			if err != nil {
				return false, err
			}
			v.store.MustInsertEdge(graph.Edge{Src: node, Dest: target, Kind: graph.EdgeCFG})
		}
		return false, nil

	case graph.ExprBrIf:
		if reachable {
			target, err := v.resolveLabel(n.Label)
			if err != nil {
				return false, err
			}
			v.store.MustInsertEdge(graph.Edge{Src: node, Dest: target, Kind: graph.EdgeCFG, Label: "true"})
			v.store.MustInsertEdge(graph.Edge{Src: node, Dest: next, Kind: graph.EdgeCFG, Label: "false"})
		}
		return true, nil

	case graph.ExprBrTable:
		if reachable {
			targets := append([]string{n.Label}, n.Labels...)
			for _, label := range targets {
				target, err := v.resolveLabel(label)
				if err != nil {
					return false, err
				}
				v.store.MustInsertEdge(graph.Edge{Src: node, Dest: target, Kind: graph.EdgeCFG, Label: label})
			}
		}
		return false, nil

	default:
		// Nop, Drop, Select, MemorySize/Grow, Const, Binary/Compare/Convert/
		// Unary, Load/Store, Global*/Local*, Call/CallIndirect: sequential.
		wireIn(next)
		return true, nil
	}
}

// wireBlock handles entry into a Block's BeginBlock and its body, and
// pushes/pops the label→successor binding branches to it resolve against.
func (v *visitor) wireBlock(node graph.NodeHandle, n graph.Node, next graph.NodeHandle, reachable bool) error {
	begin, err := v.store.Child(node, 0, graph.EdgeAST)
	if err != nil {
		return err
	}
	body := childDests(v.store, node, graph.EdgeAST)[1:]

	v.blocks = append(v.blocks, blockTarget{label: n.Label, target: next})
	defer func() { v.blocks = v.blocks[:len(v.blocks)-1] }()

	if reachable {
		entry := next
		if len(body) > 0 {
			entry = v.entryOf(body[0])
		}
		v.store.MustInsertEdge(graph.Edge{Src: begin, Dest: entry, Kind: graph.EdgeCFG})
	}

	return v.wireSequence(body, next)
}

// wireLoop is wireBlock's twin: a loop's own label resolves to its
// BeginBlock (the back-edge target), not to its successor.
func (v *visitor) wireLoop(node graph.NodeHandle, n graph.Node, next graph.NodeHandle, reachable bool) error {
	begin, err := v.store.Child(node, 0, graph.EdgeAST)
	if err != nil {
		return err
	}
	body := childDests(v.store, node, graph.EdgeAST)[1:]

	v.blocks = append(v.blocks, blockTarget{label: n.Label, target: begin})
	defer func() { v.blocks = v.blocks[:len(v.blocks)-1] }()

	if reachable {
		entry := next
		if len(body) > 0 {
			entry = v.entryOf(body[0])
		}
		v.store.MustInsertEdge(graph.Edge{Src: begin, Dest: entry, Kind: graph.EdgeCFG})
	}

	return v.wireSequence(body, next)
}

// wireIf splits the If vertex's non-condition AST children on the Else
// marker (present only when HasElse) and wires both branches. With an
// else present, both branches' live tails converge on the Else join vertex,
// which then carries the single edge onward to next (spec §4.3); without
// one, both the false path and the true branch's tail go straight to next.
func (v *visitor) wireIf(node graph.NodeHandle, n graph.Node, next graph.NodeHandle, reachable bool) error {
	rest := childDests(v.store, node, graph.EdgeAST)[n.NumArgs:]

	var trueBody, falseBody []graph.NodeHandle
	var elseHandle graph.NodeHandle
	if n.HasElse {
		splitAt := len(rest)
		for i, h := range rest {
			if v.store.Node(h).Kind == graph.KindElse {
				splitAt = i
				elseHandle = h
				break
			}
		}
		trueBody, falseBody = rest[:splitAt], rest[splitAt+1:]
	} else {
		trueBody = rest
	}

	trueContinuation, falseContinuation := next, next
	if n.HasElse {
		trueContinuation, falseContinuation = elseHandle, elseHandle
	}

	if reachable {
		trueEntry := trueContinuation
		if len(trueBody) > 0 {
			trueEntry = v.entryOf(trueBody[0])
		}
		v.store.MustInsertEdge(graph.Edge{Src: node, Dest: trueEntry, Kind: graph.EdgeCFG, Label: "true"})

		falseEntry := falseContinuation
		if n.HasElse && len(falseBody) > 0 {
			falseEntry = v.entryOf(falseBody[0])
		}
		v.store.MustInsertEdge(graph.Edge{Src: node, Dest: falseEntry, Kind: graph.EdgeCFG, Label: "false"})
	}

	if err := v.wireSequence(trueBody, trueContinuation); err != nil {
		return err
	}
	if n.HasElse {
		if err := v.wireSequence(falseBody, falseContinuation); err != nil {
			return err
		}
		if reachable {
			v.store.MustInsertEdge(graph.Edge{Src: elseHandle, Dest: next, Kind: graph.EdgeCFG})
		}
	}
	return nil
}
