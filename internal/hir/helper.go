package hir

import (
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// TypeOf returns the resolved type of an expression. Assignments and while
// loops are unit; break, continue, and return diverge.
func TypeOf(in *types.Interner, e Expr) types.TypeID {
	switch n := e.(type) {
	case *Literal:
		return n.Type
	case *ConstRef:
		return n.Def.Type
	case *EnumVariantRef:
		return n.Type
	case *VarRef:
		return n.Type
	case *FieldAccess:
		return n.Type
	case *StructLit:
		return n.Type
	case *ArrayLit:
		return n.Type
	case *ArrayRepeat:
		return n.Type
	case *Index:
		return n.Type
	case *Assign:
		return in.Unit()
	case *Unary:
		return n.Type
	case *Ref:
		return n.Type
	case *Binary:
		return n.Type
	case *Cast:
		return n.Type
	case *Call:
		return n.Type
	case *Block:
		return n.Type
	case *If:
		return n.Type
	case *Loop:
		return n.Type
	case *While:
		return in.Unit()
	case *Break, *Continue, *Return:
		return in.Never()
	}
	return types.InvalidType
}

// IsPlace reports whether an expression denotes an addressable location.
// Variables, field accesses of places, indexing, and dereferences are places;
// everything else is a value.
func IsPlace(e Expr) bool {
	switch n := e.(type) {
	case *VarRef:
		return true
	case *FieldAccess:
		return IsPlace(n.Base)
	case *Index:
		return true
	case *Unary:
		return n.Op == OpDeref
	}
	return false
}

// Diverges reports whether evaluating the expression cannot fall through.
func Diverges(in *types.Interner, e Expr) bool {
	return in.IsNever(TypeOf(in, e))
}
