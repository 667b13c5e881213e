package hir

import (
	"github.com/rogerflowey/rust-compiler-sub003/internal/source"
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// The HIR consumed by MIR lowering. Every expression already carries a
// resolved type and resolved targets: variables point at locals by arena
// index, calls point at their callee function, break/continue point at their
// loop node. Lowering faults on anything unresolved; by this stage all
// user-facing validation has happened upstream.

// Node is the base interface for all HIR nodes.
type Node interface {
	hirNode()
	Loc() source.Span
}

// Expr represents a HIR expression node.
type Expr interface {
	Node
	hirExpr()
}

// Stmt represents a HIR statement node.
type Stmt interface {
	Node
	hirStmt()
}

// LocalID indexes a function's local arena. Parameters and let-bindings are
// locals; lowering adds synthetic ones for materialized temporaries.
type LocalID uint32

// Local is one slot in a function's local arena.
type Local struct {
	Name    string
	Type    types.TypeID
	Mutable bool
}

// Param binds a parameter to its backing local.
type Param struct {
	Local LocalID
	Name  string
	Type  types.TypeID
}

// Function is a function item. A nil Body marks an external declaration.
type Function struct {
	Name   string
	Params []Param
	Return types.TypeID
	Locals []Local
	Body   *Block
	Span   source.Span
}

func (f *Function) hirNode()         {}
func (f *Function) Loc() source.Span { return f.Span }

// IsExternal reports whether the function is declaration-only.
func (f *Function) IsExternal() bool { return f.Body == nil }

// Program is the root of the HIR for one compilation.
type Program struct {
	Functions []*Function
}

// ConstDef is an evaluated constant item. Uses of it fold to its value.
type ConstDef struct {
	Name  string
	Type  types.TypeID
	Value Literal
}

// LiteralKind discriminates Literal payloads.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitBool
	LitChar
	LitString
)

// Literal is a typed literal value. Integers keep magnitude and sign apart so
// -5i32 stays distinguishable from an unsigned wrap downstream.
type Literal struct {
	Kind     LiteralKind
	IntVal   uint64
	Negative bool
	Signed   bool
	BoolVal  bool
	CharVal  byte
	StrVal   string
	CStyle   bool
	Type     types.TypeID
	Span     source.Span
}

func (l *Literal) hirNode()         {}
func (l *Literal) hirExpr()         {}
func (l *Literal) Loc() source.Span { return l.Span }

// ConstRef is a use of a constant item.
type ConstRef struct {
	Def  *ConstDef
	Span source.Span
}

func (c *ConstRef) hirNode()         {}
func (c *ConstRef) hirExpr()         {}
func (c *ConstRef) Loc() source.Span { return c.Span }

// EnumVariantRef is a use of a unit enum variant; it folds to the variant's
// integer discriminant.
type EnumVariantRef struct {
	Enum    string
	Variant string
	Index   int
	Type    types.TypeID
	Span    source.Span
}

func (e *EnumVariantRef) hirNode()         {}
func (e *EnumVariantRef) hirExpr()         {}
func (e *EnumVariantRef) Loc() source.Span { return e.Span }

// VarRef is a resolved read or write of a local.
type VarRef struct {
	Local LocalID
	Type  types.TypeID
	Span  source.Span
}

func (v *VarRef) hirNode()         {}
func (v *VarRef) hirExpr()         {}
func (v *VarRef) Loc() source.Span { return v.Span }

// FieldAccess selects a struct field by resolved index.
type FieldAccess struct {
	Base  Expr
	Index int
	Type  types.TypeID
	Span  source.Span
}

func (f *FieldAccess) hirNode()         {}
func (f *FieldAccess) hirExpr()         {}
func (f *FieldAccess) Loc() source.Span { return f.Span }

// StructLit is a struct literal with initializers in canonical field order.
type StructLit struct {
	Fields []Expr
	Type   types.TypeID
	Span   source.Span
}

func (s *StructLit) hirNode()         {}
func (s *StructLit) hirExpr()         {}
func (s *StructLit) Loc() source.Span { return s.Span }

// ArrayLit is an array literal.
type ArrayLit struct {
	Elems []Expr
	Type  types.TypeID
	Span  source.Span
}

func (a *ArrayLit) hirNode()         {}
func (a *ArrayLit) hirExpr()         {}
func (a *ArrayLit) Loc() source.Span { return a.Span }

// ArrayRepeat is [value; count] with an upstream-evaluated count.
type ArrayRepeat struct {
	Value Expr
	Count int
	Type  types.TypeID
	Span  source.Span
}

func (a *ArrayRepeat) hirNode()         {}
func (a *ArrayRepeat) hirExpr()         {}
func (a *ArrayRepeat) Loc() source.Span { return a.Span }

// Index is base[index].
type Index struct {
	Base  Expr
	Index Expr
	Type  types.TypeID
	Span  source.Span
}

func (i *Index) hirNode()         {}
func (i *Index) hirExpr()         {}
func (i *Index) Loc() source.Span { return i.Span }

// Assign writes Value into the place denoted by Target. Its own type is unit.
type Assign struct {
	Target Expr
	Value  Expr
	Span   source.Span
}

func (a *Assign) hirNode()         {}
func (a *Assign) hirExpr()         {}
func (a *Assign) Loc() source.Span { return a.Span }

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
	OpDeref
)

// Unary is a unary operation. OpDeref of a reference is a place expression.
type Unary struct {
	Op      UnaryOp
	Operand Expr
	Type    types.TypeID
	Span    source.Span
}

func (u *Unary) hirNode()         {}
func (u *Unary) hirExpr()         {}
func (u *Unary) Loc() source.Span { return u.Span }

// Ref takes the address of its operand (&e or &mut e).
type Ref struct {
	Operand Expr
	Mutable bool
	Type    types.TypeID
	Span    source.Span
}

func (r *Ref) hirNode()         {}
func (r *Ref) hirExpr()         {}
func (r *Ref) Loc() source.Span { return r.Span }

// BinaryOp enumerates binary operators before domain resolution.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLogicalAnd
	OpLogicalOr
)

// Domain is the operand domain the type checker resolved for an operator.
type Domain int

const (
	DomainUnspecified Domain = iota
	DomainSignedInt
	DomainUnsignedInt
	DomainBool
	DomainChar
)

// Binary is a binary operation with its resolved operand domain. Logical
// and/or are short-circuiting and never reach the plain binary lowering path.
type Binary struct {
	Op     BinaryOp
	Domain Domain
	LHS    Expr
	RHS    Expr
	Type   types.TypeID
	Span   source.Span
}

func (b *Binary) hirNode()         {}
func (b *Binary) hirExpr()         {}
func (b *Binary) Loc() source.Span { return b.Span }

// Cast converts Value to the expression's type.
type Cast struct {
	Value Expr
	Type  types.TypeID
	Span  source.Span
}

func (c *Cast) hirNode()         {}
func (c *Cast) hirExpr()         {}
func (c *Cast) Loc() source.Span { return c.Span }

// Call invokes a statically known function.
type Call struct {
	Callee *Function
	Args   []Expr
	Type   types.TypeID
	Span   source.Span
}

func (c *Call) hirNode()         {}
func (c *Call) hirExpr()         {}
func (c *Call) Loc() source.Span { return c.Span }

// Block is a statement list with an optional trailing value expression.
type Block struct {
	Stmts []Stmt
	Final Expr
	Type  types.TypeID
	Span  source.Span
}

func (b *Block) hirNode()         {}
func (b *Block) hirExpr()         {}
func (b *Block) Loc() source.Span { return b.Span }

// If is a two-way conditional; Else may be nil, a *Block, or another *If.
type If struct {
	Cond Expr
	Then *Block
	Else Expr
	Type types.TypeID
	Span source.Span
}

func (i *If) hirNode()         {}
func (i *If) hirExpr()         {}
func (i *If) Loc() source.Span { return i.Span }

// Loop is an infinite loop; its value is the merge of its break values.
type Loop struct {
	Body *Block
	Type types.TypeID
	Span source.Span
}

func (l *Loop) hirNode()         {}
func (l *Loop) hirExpr()         {}
func (l *Loop) Loc() source.Span { return l.Span }

// While is a conditional loop; its value is unit.
type While struct {
	Cond Expr
	Body *Block
	Span source.Span
}

func (w *While) hirNode()         {}
func (w *While) hirExpr()         {}
func (w *While) Loc() source.Span { return w.Span }

// Break exits the loop identified by Target, optionally carrying a value.
// Target is the *Loop or *While node itself; lowering keys loop contexts by
// node identity.
type Break struct {
	Target Expr
	Value  Expr
	Span   source.Span
}

func (b *Break) hirNode()         {}
func (b *Break) hirExpr()         {}
func (b *Break) Loc() source.Span { return b.Span }

// Continue jumps back to the header of the loop identified by Target.
type Continue struct {
	Target Expr
	Span   source.Span
}

func (c *Continue) hirNode()         {}
func (c *Continue) hirExpr()         {}
func (c *Continue) Loc() source.Span { return c.Span }

// Return exits the enclosing function; Value is nil for unit returns.
type Return struct {
	Value Expr
	Span  source.Span
}

func (r *Return) hirNode()         {}
func (r *Return) hirExpr()         {}
func (r *Return) Loc() source.Span { return r.Span }

// LetStmt binds the initializer to a local. Blank bindings (`let _ = e`)
// lower the initializer for side effects only.
type LetStmt struct {
	Local LocalID
	Blank bool
	Init  Expr
	Span  source.Span
}

func (l *LetStmt) hirNode()         {}
func (l *LetStmt) hirStmt()         {}
func (l *LetStmt) Loc() source.Span { return l.Span }

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	Expr Expr
	Span source.Span
}

func (e *ExprStmt) hirNode()         {}
func (e *ExprStmt) hirStmt()         {}
func (e *ExprStmt) Loc() source.Span { return e.Span }
