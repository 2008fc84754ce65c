package cfg_test

import (
	"testing"

	"github.com/pedrodaniel10/wasmati/astbuild"
	"github.com/pedrodaniel10/wasmati/cfg"
	"github.com/pedrodaniel10/wasmati/fixture"
	"github.com/pedrodaniel10/wasmati/graph"
	"github.com/pedrodaniel10/wasmati/wasmfront"
)

func buildWithCFG(t *testing.T, mod *wasmfront.Module, mc wasmfront.ModuleContext) (*graph.Store, *astbuild.Result) {
	t.Helper()
	store := graph.NewStore()
	cfgConfig := wasmfront.Config{EmitCFGEdges: true}
	res, err := astbuild.Build(store, mod, cfgConfig, fixture.SeqNames{}, mc)
	if err != nil {
		t.Fatalf("astbuild.Build: %v", err)
	}
	if err := cfg.Build(store, res, cfgConfig); err != nil {
		t.Fatalf("cfg.Build: %v", err)
	}
	return store, res
}

func cfgOut(store *graph.Store, h graph.NodeHandle) []graph.NodeHandle {
	kind := graph.EdgeCFG
	var out []graph.NodeHandle
	for _, eh := range store.OutEdges(h, &kind) {
		out = append(out, store.Edge(eh).Dest)
	}
	return out
}

// cfgOutLabel returns the Label of the sole outgoing CFG edge from h to dest.
func cfgOutLabel(t *testing.T, store *graph.Store, h, dest graph.NodeHandle) string {
	t.Helper()
	kind := graph.EdgeCFG
	for _, eh := range store.OutEdges(h, &kind) {
		e := store.Edge(eh)
		if e.Dest == dest {
			return e.Label
		}
	}
	t.Fatalf("no CFG edge %d -> %d", h, dest)
	return ""
}

func cfgIn(store *graph.Store, h graph.NodeHandle) []graph.NodeHandle {
	kind := graph.EdgeCFG
	var in []graph.NodeHandle
	for _, eh := range store.InEdges(h, &kind) {
		in = append(in, store.Edge(eh).Src)
	}
	return in
}

func TestEmptyFunctionHasNoCFGEdges(t *testing.T) {
	mod, mc := fixture.EmptyFunction()
	store, res := buildWithCFG(t, mod, mc)
	if len(cfgIn(store, res.Functions[0].ReturnHandle)) != 0 {
		t.Errorf("empty function's Return should have no incoming CFG edges")
	}
}

func TestAddConstantsFallsThroughToReturn(t *testing.T) {
	mod, mc := fixture.AddConstants()
	store, res := buildWithCFG(t, mod, mc)

	astKind := graph.EdgeAST
	addHandle, err := store.Child(res.Functions[0].InstructionsHandle, 0, astKind)
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	out := cfgOut(store, addHandle)
	if len(out) != 1 || out[0] != res.Functions[0].ReturnHandle {
		t.Fatalf("want add's sole CFG successor to be Return, got %v", out)
	}

	// The two operands absorbed into add (not top-level AST children of
	// Instructions) still get their own sequential CFG chain: const1 ->
	// const2 -> add.
	const1, err := store.Child(addHandle, 0, astKind)
	if err != nil {
		t.Fatalf("Child(add,0): %v", err)
	}
	const2, err := store.Child(addHandle, 1, astKind)
	if err != nil {
		t.Fatalf("Child(add,1): %v", err)
	}
	c1Out := cfgOut(store, const1)
	if len(c1Out) != 1 || c1Out[0] != const2 {
		t.Fatalf("want const1's sole CFG successor to be const2, got %v", c1Out)
	}
	c2Out := cfgOut(store, const2)
	if len(c2Out) != 1 || c2Out[0] != addHandle {
		t.Fatalf("want const2's sole CFG successor to be add, got %v", c2Out)
	}
}

func TestIfElseBothBranchesJoinThroughElse(t *testing.T) {
	mod, mc := fixture.IfElse()
	store, res := buildWithCFG(t, mod, mc)

	astKind := graph.EdgeAST
	ifHandle, err := store.Child(res.Functions[0].InstructionsHandle, 0, astKind)
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	n := store.Node(ifHandle)
	if n.Expr != graph.ExprIf {
		t.Fatalf("want If vertex at Instructions child 0, got %v", n.Expr)
	}

	ifOut := cfgOut(store, ifHandle)
	if len(ifOut) != 2 {
		t.Fatalf("want 2 outgoing CFG edges from If (true/false), got %d", len(ifOut))
	}

	var elseHandle graph.NodeHandle = graph.InvalidHandle
	for _, eh := range store.OutEdges(ifHandle, &astKind) {
		if store.Node(store.Edge(eh).Dest).Kind == graph.KindElse {
			elseHandle = store.Edge(eh).Dest
		}
	}
	if elseHandle == graph.InvalidHandle {
		t.Fatalf("expected an Else scaffold vertex")
	}

	trueHandle, err := store.Child(ifHandle, 1, astKind)
	if err != nil {
		t.Fatalf("Child(if,1): %v", err)
	}
	falseHandle, err := store.Child(ifHandle, 3, astKind)
	if err != nil {
		t.Fatalf("Child(if,3): %v", err)
	}
	if got := cfgOutLabel(t, store, ifHandle, trueHandle); got != "true" {
		t.Errorf("want If->Const1 labelled \"true\", got %q", got)
	}
	if got := cfgOutLabel(t, store, ifHandle, falseHandle); got != "false" {
		t.Errorf("want If->Const2 labelled \"false\", got %q", got)
	}

	elseIn := cfgIn(store, elseHandle)
	if len(elseIn) != 2 {
		t.Fatalf("want 2 incoming CFG edges into Else (both branch tails), got %d", len(elseIn))
	}

	elseOut := cfgOut(store, elseHandle)
	if len(elseOut) != 1 || elseOut[0] != res.Functions[0].ReturnHandle {
		t.Fatalf("want Else's single successor to be Return, got %v", elseOut)
	}
}

func TestLoopBrBeginBlockHasBackEdge(t *testing.T) {
	mod, mc := fixture.LoopBr()
	store, res := buildWithCFG(t, mod, mc)

	astKind := graph.EdgeAST
	loopHandle, err := store.Child(res.Functions[0].InstructionsHandle, 0, astKind)
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	beginHandle, err := store.Child(loopHandle, 0, astKind)
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	if store.Node(beginHandle).Expr != graph.ExprBeginBlock {
		t.Fatalf("want BeginBlock as Loop's first child, got %v", store.Node(beginHandle).Expr)
	}

	in := cfgIn(store, beginHandle)
	if len(in) != 1 {
		t.Fatalf("want exactly 1 incoming CFG edge into BeginBlock (the back-edge from br; nothing precedes the loop itself), got %d", len(in))
	}

	nop, err := store.Child(loopHandle, 1, astKind)
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	nopOut := cfgOut(store, nop)
	if len(nopOut) != 1 {
		t.Fatalf("want nop to fall through once, got %d edges", len(nopOut))
	}
	brHandle := nopOut[0]
	if store.Node(brHandle).Expr != graph.ExprBr {
		t.Fatalf("want nop's successor to be the br, got %v", store.Node(brHandle).Expr)
	}
	brOut := cfgOut(store, brHandle)
	if len(brOut) != 1 || brOut[0] != beginHandle {
		t.Fatalf("want br's target to be BeginBlock (back-edge), got %v", brOut)
	}
}

func TestBrTableWiresEveryTargetAndDefault(t *testing.T) {
	mod, mc := fixture.BrTable()
	store, res := buildWithCFG(t, mod, mc)

	var brTable graph.NodeHandle = graph.InvalidHandle
	for _, h := range store.NodeHandles() {
		n := store.Node(h)
		if n.Kind == graph.KindInstruction && n.Expr == graph.ExprBrTable {
			brTable = h
		}
	}
	if brTable == graph.InvalidHandle {
		t.Fatalf("fixture should contain a BrTable instruction")
	}
	kind := graph.EdgeCFG
	outEdges := store.OutEdges(brTable, &kind)
	if len(outEdges) != 2 {
		t.Fatalf("want 2 CFG edges (1 table target + default), got %d", len(outEdges))
	}
	n := store.Node(brTable)
	wantLabels := map[string]bool{n.Label: true}
	for _, l := range n.Labels {
		wantLabels[l] = true
	}
	for _, eh := range outEdges {
		e := store.Edge(eh)
		if !wantLabels[e.Label] {
			t.Errorf("edge labelled %q does not match any of br_table's target labels %v", e.Label, n.Labels)
		}
	}
	_ = res
}
