package graph

// ValueType is a Wasm value type as carried on VarNode and Const attributes.
type ValueType int

const (
	ValueTypeNone ValueType = iota
	ValueTypeI32
	ValueTypeI64
	ValueTypeF32
	ValueTypeF64
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	default:
		return "none"
	}
}

// Location is the source position passed through from the Wasm front-end
// into every Instruction vertex's location attribute (spec §6).
type Location struct {
	File string
	Line int
	Col  int
}

// ConstValue is the typed bit pattern carried by a Const instruction.
type ConstValue struct {
	Type ValueType
	Bits uint64
}

// NodeHandle is a stable, non-owning reference into a Store's node arena.
// Handles are assigned from 0 upward, so 0 is the first node's handle;
// InvalidHandle marks "unset".
type NodeHandle int

// InvalidHandle marks an absent weak reference (e.g. BeginBlock before its
// Block sibling is linked).
const InvalidHandle NodeHandle = -1

// Node is a single tagged variant covering every kind in the closed
// enumeration (spec §3.1). Only the fields relevant to Kind (and, for
// KindInstruction, to Expr) are meaningful; the rest are zero. This mirrors
// the "prefer a single tagged variant... classof-style downcasts disappear"
// guidance: there is exactly one node representation, never a class
// hierarchy.
type Node struct {
	Kind NodeKind
	Expr ExprKind // meaningful only when Kind == KindInstruction

	Name string // Module, Function, VarNode

	Index      int  // Function: function index
	NumParams  int  // Function: parameter count
	NumLocals  int  // Function: local count
	NumResults int  // Function, Block/Loop/BeginBlock/If, Call/CallIndirect
	IsImport   bool // Function

	ValType ValueType // VarNode

	Location Location // every Instruction

	Const  ConstValue // ExprConst
	Opcode string     // Binary/Compare/Convert/Unary/Load/Store
	Offset int        // Load/Store

	Label   string   // Br/BrIf/Global*/Local*/Call*/Block/Loop/BeginBlock, BrTable's default
	Labels  []string // BrTable: ordered non-default branch targets
	NumArgs int      // Call/CallIndirect: argument count. If: condition operand count (leading AST children to skip before the branch bodies)

	HasElse bool // ExprIf

	// BlockRef is BeginBlock's weak reference to its terminating Block
	// instruction (spec §3.1, §3.4 invariant 4). InvalidHandle until linked.
	BlockRef NodeHandle
}

// IsInstruction reports whether n is an Instruction vertex, matching the
// query engine's is_instruction predicate (spec §8 scenario 6).
func (n Node) IsInstruction() bool { return n.Kind == KindInstruction }
