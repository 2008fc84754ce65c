package astbuild_test

import (
	"errors"
	"testing"

	"github.com/pedrodaniel10/wasmati/astbuild"
	"github.com/pedrodaniel10/wasmati/fixture"
	"github.com/pedrodaniel10/wasmati/graph"
	"github.com/pedrodaniel10/wasmati/wasmfront"
)

func build(t *testing.T, mod *wasmfront.Module, mc wasmfront.ModuleContext) (*graph.Store, *astbuild.Result) {
	t.Helper()
	store := graph.NewStore()
	res, err := astbuild.Build(store, mod, wasmfront.Config{}, fixture.SeqNames{}, mc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return store, res
}

func TestEmptyFunctionHasNoInstructions(t *testing.T) {
	mod, mc := fixture.EmptyFunction()
	store, res := build(t, mod, mc)

	fn := res.Functions[0]
	children := store.OutEdges(fn.InstructionsHandle, nil)
	if len(children) != 0 {
		t.Fatalf("want empty Instructions, got %d children", len(children))
	}
}

func TestAddConstantsProducesThreeInstructionsWithOperandEdges(t *testing.T) {
	mod, mc := fixture.AddConstants()
	store, res := build(t, mod, mc)

	fn := res.Functions[0]
	astKind := graph.EdgeAST
	top := store.OutEdges(fn.InstructionsHandle, &astKind)
	if len(top) != 1 {
		t.Fatalf("want 1 top-level AST child under Instructions (the add; both consts are absorbed as its operands), got %d", len(top))
	}

	add := store.Edge(top[0]).Dest
	n := store.Node(add)
	if n.Kind != graph.KindInstruction || n.Expr != graph.ExprBinary {
		t.Fatalf("want the sole top-level child to be the add Binary instruction, got %v/%v", n.Kind, n.Expr)
	}

	operands := store.OutEdges(add, &astKind)
	if len(operands) != 2 {
		t.Fatalf("want add to have 2 operand children, got %d", len(operands))
	}
	for i, want := range []uint64{1, 2} {
		c := store.Node(store.Edge(operands[i]).Dest)
		if c.Expr != graph.ExprConst || c.Const.Bits != want {
			t.Errorf("operand %d = %+v, want const %d", i, c, want)
		}
	}
}

func TestUnderflowingOperandStackIsStructuralError(t *testing.T) {
	mod, mc := fixture.AddConstants()
	// Keep only the add instruction, dropping both constants that would
	// normally supply its operands.
	mod.Functions[0].Body = mod.Functions[0].Body[2:]

	store := graph.NewStore()
	_, err := astbuild.Build(store, mod, wasmfront.Config{}, fixture.SeqNames{}, mc)
	if !errors.Is(err, graph.ErrStructural) {
		t.Fatalf("want ErrStructural, got %v", err)
	}
}

func TestUnresolvedCalleeIsStructuralError(t *testing.T) {
	mod, mc := fixture.Combined()
	mod.Functions[1].Body[2].Label = "does_not_exist"

	store := graph.NewStore()
	_, err := astbuild.Build(store, mod, wasmfront.Config{}, fixture.SeqNames{}, mc)
	if !errors.Is(err, graph.ErrStructural) {
		t.Fatalf("want ErrStructural, got %v", err)
	}
}

func TestIfWithElseGetsElseJoinVertex(t *testing.T) {
	mod, mc := fixture.IfElse()
	store, res := build(t, mod, mc)

	fn := res.Functions[0]
	astKind := graph.EdgeAST
	top := store.OutEdges(fn.InstructionsHandle, &astKind)
	if len(top) != 1 {
		t.Fatalf("want 1 top-level instruction (the If; local.get is absorbed as its condition), got %d", len(top))
	}
	ifHandle := store.Edge(top[0]).Dest
	if store.Node(ifHandle).Expr != graph.ExprIf {
		t.Fatalf("want If vertex, got %v", store.Node(ifHandle).Expr)
	}

	children := store.OutEdges(ifHandle, &astKind)
	var sawElse bool
	for _, eh := range children {
		if store.Node(store.Edge(eh).Dest).Kind == graph.KindElse {
			sawElse = true
		}
	}
	if !sawElse {
		t.Errorf("want an Else scaffold vertex among If's children")
	}
}

func TestLocalsNamingKeepsExplicitParameterNames(t *testing.T) {
	mod, mc := fixture.Combined()
	store, res := build(t, mod, mc)

	// main() declares no parameters or locals, so nothing to name there;
	// helper's two parameters are explicitly named in the fixture.
	helper := res.Functions[0]
	sigKind := graph.EdgeAST
	sig, _ := store.Child(helper.Handle, 0, sigKind)
	params, _ := store.Child(sig, 0, sigKind)
	p0, _ := store.Child(params, 0, sigKind)
	p1, _ := store.Child(params, 1, sigKind)
	if store.Node(p0).Name != "a" || store.Node(p1).Name != "b" {
		t.Errorf("want param names a,b; got %q,%q", store.Node(p0).Name, store.Node(p1).Name)
	}
}
