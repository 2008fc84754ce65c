// Package graph owns the Code Property Graph's node/edge model and the
// arena-style store that holds them.
package graph

// NodeKind is the closed set of vertex kinds a Store can hold (spec §3.1).
type NodeKind int

const (
	KindModule NodeKind = iota
	KindFunction
	KindFunctionSignature
	KindParameters
	KindLocals
	KindResults
	KindInstructions
	KindVarNode
	KindInstruction
	KindReturn
	KindElse
	KindTrap
	KindStart
)

func (k NodeKind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindFunction:
		return "Function"
	case KindFunctionSignature:
		return "FunctionSignature"
	case KindParameters:
		return "Parameters"
	case KindLocals:
		return "Locals"
	case KindResults:
		return "Results"
	case KindInstructions:
		return "Instructions"
	case KindVarNode:
		return "VarNode"
	case KindInstruction:
		return "Instruction"
	case KindReturn:
		return "Return"
	case KindElse:
		return "Else"
	case KindTrap:
		return "Trap"
	case KindStart:
		return "Start"
	default:
		return "Unknown"
	}
}

// ExprKind specializes KindInstruction nodes (spec §3.1).
type ExprKind int

const (
	ExprNop ExprKind = iota
	ExprUnreachable
	ExprReturn
	ExprDrop
	ExprSelect
	ExprMemorySize
	ExprMemoryGrow
	ExprConst
	ExprBinary
	ExprCompare
	ExprConvert
	ExprUnary
	ExprLoad
	ExprStore
	ExprBr
	ExprBrIf
	ExprGlobalGet
	ExprGlobalSet
	ExprLocalGet
	ExprLocalSet
	ExprLocalTee
	ExprCall
	ExprCallIndirect
	ExprBlock
	ExprLoop
	ExprBeginBlock
	ExprIf
	ExprBrTable
)

func (k ExprKind) String() string {
	names := [...]string{
		"Nop", "Unreachable", "Return", "Drop", "Select", "MemorySize",
		"MemoryGrow", "Const", "Binary", "Compare", "Convert", "Unary",
		"Load", "Store", "Br", "BrIf", "GlobalGet", "GlobalSet", "LocalGet",
		"LocalSet", "LocalTee", "Call", "CallIndirect", "Block", "Loop",
		"BeginBlock", "If", "BrTable",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// EdgeKind is the closed set of relations superimposed over the same vertex
// set (spec §3.2).
type EdgeKind int

const (
	EdgeAST EdgeKind = iota
	EdgeCFG
	EdgePDG
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeAST:
		return "AST"
	case EdgeCFG:
		return "CFG"
	case EdgePDG:
		return "PDG"
	default:
		return "Unknown"
	}
}

// PDGKind is the sub-kind tag carried by PDG edges (spec §3.2).
type PDGKind int

const (
	PDGLocal PDGKind = iota
	PDGGlobal
	PDGFunction
	PDGControl
	PDGConst
)

func (k PDGKind) String() string {
	switch k {
	case PDGLocal:
		return "Local"
	case PDGGlobal:
		return "Global"
	case PDGFunction:
		return "Function"
	case PDGControl:
		return "Control"
	case PDGConst:
		return "Const"
	default:
		return "Unknown"
	}
}
