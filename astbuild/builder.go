// Package astbuild walks a parsed Wasm module's structured expression lists
// and populates a graph.Store with AST vertices and AST edges (spec §4.2).
package astbuild

import (
	"errors"
	"fmt"

	"github.com/pedrodaniel10/wasmati/graph"
	"github.com/pedrodaniel10/wasmati/wasmfront"
)

// ErrPDGOutOfScope is returned when the caller's Config requests full PDG
// edge generation, which is not implemented by this core (spec §1
// Non-goals, §9 Open Question).
var ErrPDGOutOfScope = errors.New("astbuild: PDG edge generation is out of scope for this core")

// FunctionInfo records the scaffolding vertices astbuild created for one
// function, so the CFG visitor (which runs as a second pass over the same
// store) doesn't have to rediscover them by walking AST edges.
type FunctionInfo struct {
	Handle             graph.NodeHandle // the Function vertex
	InstructionsHandle graph.NodeHandle // its Instructions child
	ReturnHandle       graph.NodeHandle // this function's Return terminator
	Source             *wasmfront.Function
}

// Result is everything astbuild hands off to the CFG visitor.
type Result struct {
	ModuleHandle graph.NodeHandle
	Functions    []FunctionInfo
}

// Build walks mod and populates store with Module/Function scaffolding and
// every Instruction vertex plus AST edges (spec §4.2). Build is fatal on any
// structural violation in mod (insufficient operand arity, an unresolved
// callee): it stops at the first one and returns a nil Result. The vertices
// and edges it already inserted into store for the failing function (and
// for every function before it) stay there; the store has no deletion
// primitive. Build is not reentrant on the same store.
func Build(store *graph.Store, mod *wasmfront.Module, cfg wasmfront.Config, names wasmfront.NameGenerator, mc wasmfront.ModuleContext) (*Result, error) {
	if cfg.EmitPDGEdges {
		return nil, ErrPDGOutOfScope
	}

	moduleHandle := store.InsertNode(graph.Node{Kind: graph.KindModule, Name: mod.Name})

	res := &Result{ModuleHandle: moduleHandle}

	for i := range mod.Functions {
		fn := &mod.Functions[i]
		info, err := buildFunction(store, mc, names, moduleHandle, fn)
		if err != nil {
			return nil, fmt.Errorf("function %q (index %d): %w", fn.Name, fn.Index, err)
		}
		res.Functions = append(res.Functions, info)
	}

	return res, nil
}

func buildFunction(store *graph.Store, mc wasmfront.ModuleContext, names wasmfront.NameGenerator, moduleHandle graph.NodeHandle, fn *wasmfront.Function) (FunctionInfo, error) {
	fnHandle := store.InsertNode(graph.Node{
		Kind:       graph.KindFunction,
		Name:       fn.Name,
		Index:      fn.Index,
		NumParams:  len(fn.Params),
		NumLocals:  len(fn.Locals),
		NumResults: len(fn.Results),
		IsImport:   fn.IsImport,
	})
	store.MustInsertEdge(graph.Edge{Src: moduleHandle, Dest: fnHandle, Kind: graph.EdgeAST})

	sigHandle := store.InsertNode(graph.Node{Kind: graph.KindFunctionSignature})
	store.MustInsertEdge(graph.Edge{Src: fnHandle, Dest: sigHandle, Kind: graph.EdgeAST})

	localNames := synthesizeNames(names, fn)

	paramsHandle := store.InsertNode(graph.Node{Kind: graph.KindParameters})
	store.MustInsertEdge(graph.Edge{Src: sigHandle, Dest: paramsHandle, Kind: graph.EdgeAST})
	for i, p := range fn.Params {
		v := store.InsertNode(graph.Node{Kind: graph.KindVarNode, ValType: p.Type, Name: localNames[i]})
		store.MustInsertEdge(graph.Edge{Src: paramsHandle, Dest: v, Kind: graph.EdgeAST})
	}

	localsHandle := store.InsertNode(graph.Node{Kind: graph.KindLocals})
	store.MustInsertEdge(graph.Edge{Src: sigHandle, Dest: localsHandle, Kind: graph.EdgeAST})
	for i, l := range fn.Locals {
		v := store.InsertNode(graph.Node{Kind: graph.KindVarNode, ValType: l.Type, Name: localNames[len(fn.Params)+i]})
		store.MustInsertEdge(graph.Edge{Src: localsHandle, Dest: v, Kind: graph.EdgeAST})
	}

	resultsHandle := store.InsertNode(graph.Node{Kind: graph.KindResults})
	store.MustInsertEdge(graph.Edge{Src: sigHandle, Dest: resultsHandle, Kind: graph.EdgeAST})

	instrHandle := store.InsertNode(graph.Node{Kind: graph.KindInstructions})
	store.MustInsertEdge(graph.Edge{Src: fnHandle, Dest: instrHandle, Kind: graph.EdgeAST})

	returnHandle := store.InsertNode(graph.Node{Kind: graph.KindReturn})

	info := FunctionInfo{Handle: fnHandle, InstructionsHandle: instrHandle, ReturnHandle: returnHandle, Source: fn}

	if fn.IsImport {
		// Instructions container stays empty for imported functions (§3.1).
		return info, nil
	}

	b := &funcBuilder{store: store, mc: mc, fn: fn, returnHandle: returnHandle}
	if err := b.buildList(fn.Body, len(fn.Results), instrHandle); err != nil {
		return FunctionInfo{}, err
	}
	return info, nil
}

// synthesizeNames builds the name vector of length n_params+n_locals (spec
// §4.2 "Locals naming"): explicit names from the source win, absent ones
// are filled in by the external name generator.
func synthesizeNames(names wasmfront.NameGenerator, fn *wasmfront.Function) []string {
	out := make([]string, len(fn.Params)+len(fn.Locals))
	idx := 0
	for _, p := range fn.Params {
		if p.Name != "" {
			out[idx] = p.Name
		} else {
			out[idx] = names.Name(fn, idx)
		}
		idx++
	}
	for _, l := range fn.Locals {
		if l.Name != "" {
			out[idx] = l.Name
		} else {
			out[idx] = names.Name(fn, idx)
		}
		idx++
	}
	return out
}

// funcBuilder carries the per-function context the recursive expression-list
// protocol needs: the module context for arity lookups and this function's
// Return terminator for `return` instructions.
type funcBuilder struct {
	store        *graph.Store
	mc           wasmfront.ModuleContext
	fn           *wasmfront.Function
	returnHandle graph.NodeHandle
}
