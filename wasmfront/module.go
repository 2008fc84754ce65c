// Package wasmfront declares the interfaces the CPG core consumes from an
// external Wasm front-end (spec §6). It contains no bytecode parsing: a
// front-end produces these types, astbuild and cfg only read them.
package wasmfront

import "github.com/pedrodaniel10/wasmati/graph"

// Local is a named, typed parameter or local variable slot.
type Local struct {
	Type graph.ValueType
	Name string // empty if the source module didn't name it
}

// Global describes a module-level global (consumed for completeness; the
// core does not itself build global-related edges beyond what astbuild
// wires through GlobalGet/GlobalSet instructions).
type Global struct {
	Name string
	Type graph.ValueType
}

// Memory describes a module-level linear memory.
type Memory struct {
	Name string
}

// Export names an export of the module.
type Export struct {
	Name string
}

// Function is one Wasm function, imported or defined (spec §6).
type Function struct {
	Name       string
	Index      int
	Params     []Local
	Locals     []Local
	Results    []graph.ValueType
	IsImport   bool
	Body       ExprList // nested expression tree; empty for imported functions
}

// Module is the parsed Wasm module the AST builder consumes.
type Module struct {
	Name      string
	Functions []Function
	Globals   []Global
	Memories  []Memory
	Exports   []Export
}
