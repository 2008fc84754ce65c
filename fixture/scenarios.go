package fixture

import (
	"github.com/pedrodaniel10/wasmati/graph"
	"github.com/pedrodaniel10/wasmati/wasmfront"
)

// EmptyFunction returns a module with one function taking no parameters,
// returning nothing, and with an empty body.
func EmptyFunction() (*wasmfront.Module, *Context) {
	mod := &wasmfront.Module{
		Name: "empty_mod",
		Functions: []wasmfront.Function{
			{Name: "empty", Index: 0},
		},
	}
	return mod, NewContext()
}

// AddConstants returns a module with one function computing 1 + 2.
func AddConstants() (*wasmfront.Module, *Context) {
	mod := &wasmfront.Module{
		Name: "add_mod",
		Functions: []wasmfront.Function{
			{
				Name:    "add_two",
				Index:   0,
				Results: []graph.ValueType{graph.ValueTypeI32},
				Body: wasmfront.ExprList{
					i32Const(1),
					i32Const(2),
					{Kind: graph.ExprBinary, Opcode: "i32.add"},
				},
			},
		},
	}
	return mod, NewContext()
}

// IfElse returns a module with one function returning one of two constants
// depending on its single i32 parameter.
func IfElse() (*wasmfront.Module, *Context) {
	mod := &wasmfront.Module{
		Name: "if_mod",
		Functions: []wasmfront.Function{
			{
				Name:    "pick",
				Index:   0,
				Params:  []wasmfront.Local{{Type: graph.ValueTypeI32, Name: "cond"}},
				Results: []graph.ValueType{graph.ValueTypeI32},
				Body: wasmfront.ExprList{
					{Kind: graph.ExprLocalGet, Label: "cond"},
					{
						Kind: graph.ExprIf, NumResults: 1, HasElse: true,
						Then: wasmfront.ExprList{i32Const(1)},
						Else: wasmfront.ExprList{i32Const(0)},
					},
				},
			},
		},
	}
	return mod, NewContext()
}

// LoopBr returns a module with one function whose body is an unconditional
// back-edge loop: Loop(L0) { nop; br L0 }.
func LoopBr() (*wasmfront.Module, *Context) {
	mod := &wasmfront.Module{
		Name: "loop_mod",
		Functions: []wasmfront.Function{
			{
				Name:  "spin",
				Index: 0,
				Body: wasmfront.ExprList{
					{
						Kind: graph.ExprLoop, Label: "L0", NumResults: 0,
						Body: wasmfront.ExprList{
							{Kind: graph.ExprNop},
							{Kind: graph.ExprBr, Label: "L0"},
						},
					},
				},
			},
		},
	}
	return mod, NewContext()
}

// BrTable returns a module with one function whose body branches through a
// br_table nested two blocks deep: Block(L1) { Block(L2) { local.get 0;
// br_table [L2] L1 } }.
func BrTable() (*wasmfront.Module, *Context) {
	mod := &wasmfront.Module{
		Name: "br_table_mod",
		Functions: []wasmfront.Function{
			{
				Name:   "dispatch",
				Index:  0,
				Params: []wasmfront.Local{{Type: graph.ValueTypeI32, Name: "idx"}},
				Body: wasmfront.ExprList{
					{
						Kind: graph.ExprBlock, Label: "L1", NumResults: 0,
						Body: wasmfront.ExprList{
							{
								Kind: graph.ExprBlock, Label: "L2", NumResults: 0,
								Body: wasmfront.ExprList{
									{Kind: graph.ExprLocalGet, Label: "idx"},
									{Kind: graph.ExprBrTable, Labels: []string{"L2"}, Default: "L1"},
								},
							},
						},
					},
				},
			},
		},
	}
	return mod, NewContext()
}

// Combined returns a two-function module — a "helper" computing a sum and
// a "main" calling it — for exercising query.Functions/CallSites/BFS
// together against a small but non-trivial call graph.
func Combined() (*wasmfront.Module, *Context) {
	mod := &wasmfront.Module{
		Name: "combined_mod",
		Functions: []wasmfront.Function{
			{
				Name:    "helper",
				Index:   0,
				Params:  []wasmfront.Local{{Type: graph.ValueTypeI32, Name: "a"}, {Type: graph.ValueTypeI32, Name: "b"}},
				Results: []graph.ValueType{graph.ValueTypeI32},
				Body: wasmfront.ExprList{
					{Kind: graph.ExprLocalGet, Label: "a"},
					{Kind: graph.ExprLocalGet, Label: "b"},
					{Kind: graph.ExprBinary, Opcode: "i32.add"},
				},
			},
			{
				Name:    "main",
				Index:   1,
				Results: []graph.ValueType{graph.ValueTypeI32},
				Body: wasmfront.ExprList{
					i32Const(3),
					i32Const(4),
					{Kind: graph.ExprCall, Label: "helper"},
				},
			},
		},
	}
	ctx := NewContext()
	ctx.RegisterCallee("helper", 2, 1)
	return mod, ctx
}
