package query_test

import (
	"testing"

	"github.com/pedrodaniel10/wasmati/astbuild"
	"github.com/pedrodaniel10/wasmati/cfg"
	"github.com/pedrodaniel10/wasmati/fixture"
	"github.com/pedrodaniel10/wasmati/graph"
	"github.com/pedrodaniel10/wasmati/query"
	"github.com/pedrodaniel10/wasmati/wasmfront"
)

func buildCombined(t *testing.T) (*graph.Store, *astbuild.Result) {
	t.Helper()
	mod, mc := fixture.Combined()
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

func TestFunctionsReturnsBothInDeclarationOrder(t *testing.T) {
	store, _ := buildCombined(t)
	fns := query.Functions(store)
	if fns.Len() != 2 {
		t.Fatalf("want 2 functions, got %d", fns.Len())
	}
	names := make([]string, fns.Len())
	for i, h := range fns.Handles() {
		names[i] = store.Node(h).Name
	}
	if names[0] != "helper" || names[1] != "main" {
		t.Fatalf("want [helper main] in declaration order, got %v", names)
	}
}

func TestFunctionLooksUpByName(t *testing.T) {
	store, _ := buildCombined(t)
	h, ok := query.Function(store, "main")
	if !ok {
		t.Fatal("want main to be found")
	}
	if store.Node(h).Name != "main" {
		t.Errorf("got %q", store.Node(h).Name)
	}
	if _, ok := query.Function(store, "nonexistent"); ok {
		t.Error("want nonexistent function lookup to fail")
	}
}

func TestParentsIsDualOfChildren(t *testing.T) {
	store, _ := buildCombined(t)
	fns := query.Functions(store)
	mod := query.Module(store)

	children := mod.Children(query.ASTEdges)
	for _, h := range fns.Handles() {
		if !children.Contains(h) {
			t.Errorf("Module's children should include function %d", h)
		}
	}

	parents := fns.Parents(query.ASTEdges)
	if parents.Len() != 1 {
		t.Fatalf("want a single common Module parent, got %d", parents.Len())
	}
	moduleHandle, _ := store.Module()
	if !parents.Contains(moduleHandle) {
		t.Error("want Module among functions' parents")
	}
}

func TestLocalsTreatsParametersAndLocalsUniformly(t *testing.T) {
	store, res := buildCombined(t)
	helper := res.Functions[0].Handle
	locals := query.Locals(store, helper)
	if locals.Len() != 2 {
		t.Fatalf("want helper's 2 parameters surfaced as locals, got %d", locals.Len())
	}
	names := []string{store.Node(locals.Handles()[0]).Name, store.Node(locals.Handles()[1]).Name}
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("want [a b], got %v", names)
	}
}

func TestCallSitesFindsTheCallInstruction(t *testing.T) {
	store, _ := buildCombined(t)
	sites := query.CallSites(store, "helper")
	if sites.Len() != 1 {
		t.Fatalf("want 1 call site for helper, got %d", sites.Len())
	}
	n := store.Node(sites.Handles()[0])
	if n.Expr != graph.ExprCall || n.Label != "helper" {
		t.Errorf("got %+v", n)
	}

	if query.CallSites(store, "nonexistent").Len() != 0 {
		t.Error("want no call sites for a nonexistent callee")
	}
}

func TestBFSExcludesSeedsButBFSIncludesCollectsThem(t *testing.T) {
	store, _ := buildCombined(t)
	fns := query.Functions(store)

	plain := fns.BFS(query.AllNodes, query.ASTEdges, -1, false)
	for _, h := range fns.Handles() {
		if plain.Contains(h) {
			t.Errorf("BFS must not include seed %d in its result", h)
		}
	}

	withSeeds := fns.BFSIncludes(query.AllNodes, query.ASTEdges, -1, false)
	for _, h := range fns.Handles() {
		if !withSeeds.Contains(h) {
			t.Errorf("BFSIncludes should include seed %d, which satisfies the always-true pred", h)
		}
	}
}

func TestBFSLimitZeroReturnsEmptySetUnconditionally(t *testing.T) {
	store, _ := buildCombined(t)
	fns := query.Functions(store)
	got := fns.BFS(query.AllNodes, query.ASTEdges, 0, false)
	if got.Len() != 0 {
		t.Fatalf("limit=0 must return the empty set unconditionally, got %d", got.Len())
	}
}

func TestBFSLimitBoundsCollectedCount(t *testing.T) {
	store, _ := buildCombined(t)
	fns := query.Functions(store)
	unlimited := fns.BFS(query.AllNodes, query.ASTEdges, -1, false)
	if unlimited.Len() < 2 {
		t.Skip("fixture module is too shallow to exercise a meaningful limit")
	}
	limited := fns.BFS(query.AllNodes, query.ASTEdges, 1, false)
	if limited.Len() != 1 {
		t.Fatalf("want exactly 1 node collected with limit=1, got %d", limited.Len())
	}
}

func TestBFSReachesReturnViaCFGEdges(t *testing.T) {
	store, res := buildCombined(t)
	instr := query.Instructions(store, res.Functions[1].Handle)
	returnHandle := res.Functions[1].ReturnHandle

	if !instr.BFS(query.AllNodes, query.CFGEdges, -1, false).Contains(returnHandle) {
		t.Error("want main's instructions to reach Return via CFG edges")
	}
}

func TestBFSIncludesIsSupersetOfFilteredSeeds(t *testing.T) {
	store, _ := buildCombined(t)
	fns := query.Functions(store)
	filtered := fns.Filter(query.OfKind(graph.KindFunction))
	includes := fns.BFSIncludes(query.OfKind(graph.KindFunction), query.ASTEdges, -1, false)
	for _, h := range filtered.Handles() {
		if !includes.Contains(h) {
			t.Errorf("BFS_includes(seeds, pred) should be a superset of filter(seeds, pred): missing %d", h)
		}
	}
}

func TestBFSReverseWalksBackward(t *testing.T) {
	store, res := buildCombined(t)
	fn := query.NewNodeSet(store, res.Functions[0].Handle)
	forward := fn.BFS(query.AllNodes, query.ASTEdges, -1, false)
	if forward.Len() == 0 {
		t.Fatal("want helper's forward AST descendants to be non-empty")
	}
	for _, h := range forward.Handles() {
		back := query.NewNodeSet(store, h).BFSIncludes(query.OfKind(graph.KindFunction), query.ASTEdges, -1, true)
		if !back.Contains(res.Functions[0].Handle) {
			t.Errorf("reverse BFS from descendant %d should walk back up to its Function", h)
		}
	}
}

func TestFilterAndConditionNarrowsToExactKind(t *testing.T) {
	store, _ := buildCombined(t)
	all := query.All(store)
	calls := all.Filter(query.And(query.IsInstruction, query.OfExpr(graph.ExprCall)))
	if calls.Len() != 1 {
		t.Fatalf("want exactly 1 Call instruction module-wide, got %d", calls.Len())
	}
}

func TestNotInvertsACondition(t *testing.T) {
	store, _ := buildCombined(t)
	all := query.All(store)
	instructions := all.Filter(query.IsInstruction)
	nonInstructions := all.Filter(query.Not(query.IsInstruction))
	if instructions.Len()+nonInstructions.Len() != all.Len() {
		t.Fatalf("a condition and its negation should partition the set: %d + %d != %d",
			instructions.Len(), nonInstructions.Len(), all.Len())
	}
}

func TestUnionDeduplicatesAndPreservesFirstSeenOrder(t *testing.T) {
	store, _ := buildCombined(t)
	fns := query.Functions(store)
	first := query.NewNodeSet(store, fns.Handles()[0])
	union := first.Union(fns)
	if union.Len() != fns.Len() {
		t.Fatalf("union with a superset should collapse to the superset's size, got %d want %d", union.Len(), fns.Len())
	}
	if union.Handles()[0] != fns.Handles()[0] {
		t.Error("want the first set's member to stay first after Union")
	}
}

func TestContainsWhereMatchesAPredicate(t *testing.T) {
	store, _ := buildCombined(t)
	fns := query.Functions(store)
	if !fns.ContainsWhere(func(store *graph.Store, h graph.NodeHandle) bool {
		return store.Node(h).Name == "main"
	}) {
		t.Error("want ContainsWhere to find main among the functions")
	}
	if fns.ContainsWhere(func(store *graph.Store, h graph.NodeHandle) bool {
		return store.Node(h).Name == "nonexistent"
	}) {
		t.Error("want ContainsWhere to report false when no member matches")
	}
}

func TestContainsEdgeWhereMatchesAPredicate(t *testing.T) {
	store, _ := buildCombined(t)
	edges := query.Module(store).Edges(query.AllEdges)
	if !edges.ContainsEdgeWhere(query.ASTEdges) {
		t.Error("want ContainsEdgeWhere to find an AST edge out of Module")
	}
	if edges.ContainsEdgeWhere(query.PDGEdges) {
		t.Error("want ContainsEdgeWhere to report false for a PDG edge (none exist out of Module)")
	}
}

func TestMapUnionsNodeToNodeSetResults(t *testing.T) {
	store, _ := buildCombined(t)
	fns := query.Functions(store)

	allLocals := fns.Map(func(store *graph.Store, h graph.NodeHandle) query.NodeSet {
		return query.Locals(store, h)
	})
	helperLocals := query.Locals(store, fns.Handles()[0])
	mainLocals := query.Locals(store, fns.Handles()[1])
	if allLocals.Len() != helperLocals.Len()+mainLocals.Len() {
		t.Fatalf("Map should union per-function locals: got %d, want %d",
			allLocals.Len(), helperLocals.Len()+mainLocals.Len())
	}
}

func TestEdgesAndContainsEdgeAgree(t *testing.T) {
	store, _ := buildCombined(t)
	mod := query.Module(store)
	edges := mod.Edges(query.ASTEdges)
	if edges.Len() == 0 {
		t.Fatal("want at least one AST edge out of Module")
	}
	for _, h := range edges.Handles() {
		if !edges.ContainsEdge(h) {
			t.Errorf("ContainsEdge should report true for its own member %d", h)
		}
	}
	dests := edges.Dests()
	if dests.Len() != query.Functions(store).Len() {
		t.Errorf("Module's AST-edge destinations should be exactly its functions: got %d want %d",
			dests.Len(), query.Functions(store).Len())
	}
}
