package mir

import (
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// The MIR data model: a control-flow graph in static single assignment form.
// Temps are assigned exactly once by a Define, Load, or Phi; locals are stack
// slots that may be written and read repeatedly. A function is built in one
// forward pass by the lowerer and is immutable afterwards.

// TempID is a virtual register index, unique within one function.
type TempID uint32

// LocalID indexes a function's local table.
type LocalID uint32

// BlockID indexes a function's basic-block list.
type BlockID uint32

// FunctionID indexes the module's function list.
type FunctionID uint32

// ExternID indexes the module's external declarations.
type ExternID uint32

// GlobalID indexes the module's global table.
type GlobalID uint32

// Invalid sentinels. Ids are dense from zero, so the all-ones value is free.
const (
	InvalidTemp  TempID  = ^TempID(0)
	InvalidLocal LocalID = ^LocalID(0)
	InvalidBlock BlockID = ^BlockID(0)
)

// Param binds a function parameter to its backing local.
type Param struct {
	Local LocalID
	Type  types.TypeID
	Name  string
}

// LocalInfo describes one stack slot.
type LocalInfo struct {
	Name string
	Type types.TypeID
}

// PhiIncoming is one (predecessor, value) pair of a phi node.
type PhiIncoming struct {
	Pred  BlockID
	Value TempID
}

// PhiNode selects a value by the predecessor control arrived from. The set of
// predecessor blocks must equal the block's actual predecessors exactly.
type PhiNode struct {
	Dest     TempID
	Incoming []PhiIncoming
}

// BasicBlock holds phis, then statements, then exactly one terminator.
type BasicBlock struct {
	Phis  []PhiNode
	Stmts []Statement
	Term  Terminator
}

// ReturnKind discriminates return-storage plans.
type ReturnKind int

const (
	// RetNever marks functions that cannot return.
	RetNever ReturnKind = iota
	// RetVoid marks unit-returning functions.
	RetVoid
	// RetDirect returns the value in a register.
	RetDirect
	// RetIndirect writes the result through a hidden caller-provided pointer.
	RetIndirect
)

// ReturnPlan is a function's return-storage plan, computed once before the
// body is lowered.
type ReturnPlan struct {
	Kind ReturnKind
	// Type is the semantic return type for direct and indirect returns.
	Type types.TypeID
	// SRetIndex is the position of the hidden pointer in the ABI parameter
	// list; indirect returns only.
	SRetIndex int
	// Slot is the local serving as the return storage; indirect returns only.
	Slot LocalID
	// NRVO is set when Slot reuses a user-declared local, so returning that
	// local needs no copy.
	NRVO bool
}

// Indirect reports whether the plan routes the result through a pointer.
func (p ReturnPlan) Indirect() bool { return p.Kind == RetIndirect }

// Function is one lowered function body.
type Function struct {
	ID        FunctionID
	Name      string
	Params    []Param
	TempTypes []types.TypeID
	Locals    []LocalInfo
	Blocks    []*BasicBlock
	Start     BlockID
	Return    ReturnPlan
}

// TempType returns the declared type of a temp.
func (f *Function) TempType(t TempID) types.TypeID {
	return f.TempTypes[t]
}

// Local returns the info of a local slot.
func (f *Function) Local(l LocalID) *LocalInfo {
	return &f.Locals[l]
}

// Block returns a basic block by id.
func (f *Function) Block(b BlockID) *BasicBlock {
	return f.Blocks[b]
}

// ExternFunction is a signature-only declaration.
type ExternFunction struct {
	ID     ExternID
	Name   string
	Params []types.TypeID
	Return types.TypeID
}

// Global is a module-level constant. Only string literals exist today.
type Global interface {
	mirGlobal()
}

// StringGlobal is one interned string literal.
type StringGlobal struct {
	Data   []byte
	CStyle bool
}

func (*StringGlobal) mirGlobal() {}

// Module is the unit of lowering output: globals, functions, and external
// declarations, all owned exclusively by the module.
type Module struct {
	Globals   []Global
	Functions []*Function
	Externs   []*ExternFunction
}
