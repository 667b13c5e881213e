package lower

import (
	"github.com/rogerflowey/rust-compiler-sub003/internal/hir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/mir"
)

// lowerLiteral folds a literal into a MIR constant. String literals are
// interned into the module global table on first use.
func (l *functionLowerer) lowerLiteral(n *hir.Literal) mir.Constant {
	switch n.Kind {
	case hir.LitInt:
		return mir.Constant{
			Type:  l.in.Canonicalize(n.Type),
			Value: mir.IntConst{Value: n.IntVal, Negative: n.Negative, Signed: n.Signed},
		}
	case hir.LitBool:
		return mir.Constant{
			Type:  l.in.Canonicalize(n.Type),
			Value: mir.BoolConst{V: n.BoolVal},
		}
	case hir.LitChar:
		return mir.Constant{
			Type:  l.in.Canonicalize(n.Type),
			Value: mir.CharConst{V: n.CharVal},
		}
	case hir.LitString:
		global := l.p.internString(n.StrVal, n.CStyle)
		data := l.p.mod.Globals[global].(*mir.StringGlobal).Data
		return mir.Constant{
			Type: l.in.Canonicalize(n.Type),
			Value: mir.StringConst{
				Data:   data,
				Length: len(n.StrVal),
				CStyle: n.CStyle,
				Global: global,
			},
		}
	}
	ice("unknown literal kind %d", n.Kind)
	return mir.Constant{}
}

// lowerConstUse folds a constant item use to its evaluated value. The item
// type wins over the literal's own annotation.
func (l *functionLowerer) lowerConstUse(n *hir.ConstRef) mir.Constant {
	if n.Def == nil {
		ice("constant use without a resolved definition")
	}
	c := l.lowerLiteral(&n.Def.Value)
	c.Type = l.in.Canonicalize(n.Def.Type)
	return c
}

// lowerEnumVariant folds a unit variant to its discriminant.
func (l *functionLowerer) lowerEnumVariant(n *hir.EnumVariantRef) mir.Constant {
	return mir.Constant{
		Type:  l.in.Canonicalize(n.Type),
		Value: mir.IntConst{Value: uint64(n.Index), Signed: l.in.IsSignedInt(n.Type)},
	}
}

// classifyBinary resolves an operator and its checked domain to a concrete
// operation. Logical and/or never reach this point; they are control flow.
func classifyBinary(op hir.BinaryOp, domain hir.Domain) mir.BinKind {
	signed := domain == hir.DomainSignedInt
	unsigned := domain == hir.DomainUnsignedInt || domain == hir.DomainChar

	switch op {
	case hir.OpAdd, hir.OpSub, hir.OpMul, hir.OpDiv, hir.OpRem:
		if !signed && !unsigned {
			ice("arithmetic operator with non-integer domain %d", domain)
		}
		return arithKind(op, signed)
	case hir.OpBitAnd:
		return mir.BitAnd
	case hir.OpBitOr:
		return mir.BitOr
	case hir.OpBitXor:
		return mir.BitXor
	case hir.OpShl:
		return mir.Shl
	case hir.OpShr:
		if signed {
			return mir.ShrArith
		}
		return mir.ShrLogic
	case hir.OpEq, hir.OpNe, hir.OpLt, hir.OpLe, hir.OpGt, hir.OpGe:
		return compareKind(op, domain)
	}
	ice("operator %d cannot be classified", op)
	return 0
}

func arithKind(op hir.BinaryOp, signed bool) mir.BinKind {
	switch op {
	case hir.OpAdd:
		if signed {
			return mir.IAdd
		}
		return mir.UAdd
	case hir.OpSub:
		if signed {
			return mir.ISub
		}
		return mir.USub
	case hir.OpMul:
		if signed {
			return mir.IMul
		}
		return mir.UMul
	case hir.OpDiv:
		if signed {
			return mir.IDiv
		}
		return mir.UDiv
	case hir.OpRem:
		if signed {
			return mir.IRem
		}
		return mir.URem
	}
	ice("operator %d is not arithmetic", op)
	return 0
}

func compareKind(op hir.BinaryOp, domain hir.Domain) mir.BinKind {
	if domain == hir.DomainBool {
		switch op {
		case hir.OpEq:
			return mir.BoolEq
		case hir.OpNe:
			return mir.BoolNe
		}
		ice("ordered comparison on bool operands")
	}

	signed := domain == hir.DomainSignedInt
	switch op {
	case hir.OpEq:
		if signed {
			return mir.ICmpEq
		}
		return mir.UCmpEq
	case hir.OpNe:
		if signed {
			return mir.ICmpNe
		}
		return mir.UCmpNe
	case hir.OpLt:
		if signed {
			return mir.ICmpLt
		}
		return mir.UCmpLt
	case hir.OpLe:
		if signed {
			return mir.ICmpLe
		}
		return mir.UCmpLe
	case hir.OpGt:
		if signed {
			return mir.ICmpGt
		}
		return mir.UCmpGt
	case hir.OpGe:
		if signed {
			return mir.ICmpGe
		}
		return mir.UCmpGe
	}
	ice("operator %d is not a comparison", op)
	return 0
}
