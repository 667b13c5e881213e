package lower

import (
	"github.com/rogerflowey/rust-compiler-sub003/internal/hir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/mir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// resultKind classifies what lowering an expression produced.
type resultKind int

const (
	// resOperand holds a ready value: a temp or an inline constant.
	resOperand resultKind = iota
	// resPlace holds an address; a Load is needed to read it.
	resPlace
	// resWritten means the value went straight into the requested
	// destination, so there is nothing left to move.
	resWritten
	// resNone means the expression produced no value: unit, or control
	// diverged before a value existed.
	resNone
)

// lowerResult is the outcome of lowering one expression.
type lowerResult struct {
	kind    resultKind
	operand mir.Operand
	place   mir.Place
	typ     types.TypeID
}

func operandResult(op mir.Operand, typ types.TypeID) lowerResult {
	return lowerResult{kind: resOperand, operand: op, typ: typ}
}

func placeResult(p mir.Place, typ types.TypeID) lowerResult {
	return lowerResult{kind: resPlace, place: p, typ: typ}
}

func writtenResult(typ types.TypeID) lowerResult {
	return lowerResult{kind: resWritten, typ: typ}
}

func noneResult(typ types.TypeID) lowerResult {
	return lowerResult{kind: resNone, typ: typ}
}

// asOperand coerces a result into a usable value, loading places. Returns
// false when the expression produced no value.
func (l *functionLowerer) asOperand(res lowerResult, typ types.TypeID) (mir.Operand, bool) {
	switch res.kind {
	case resOperand:
		return res.operand, true
	case resPlace:
		dest := l.allocTemp(typ)
		l.appendStatement(&mir.Load{Dest: dest, Src: res.place})
		return dest, true
	case resWritten:
		ice("destination-written value used as an operand")
	}
	return nil, false
}

// asPlace coerces a result into an address, spilling bare values into a
// synthetic local so they can be projected or referenced.
func (l *functionLowerer) asPlace(res lowerResult, typ types.TypeID, mutable bool) mir.Place {
	switch res.kind {
	case resPlace:
		return res.place
	case resOperand:
		slot := l.newSyntheticLocal(typ, mutable)
		p := mir.PlaceForLocal(slot)
		l.appendStatement(&mir.Assign{Dest: p, Src: res.operand})
		return p
	case resWritten:
		ice("destination-written value used as a place")
	case resNone:
		ice("valueless expression used as a place")
	}
	return mir.Place{}
}

// writeToDest moves a lowered value into dest. Unit values and values already
// written in place need no statement.
func (l *functionLowerer) writeToDest(dest mir.Place, res lowerResult, typ types.TypeID) {
	switch res.kind {
	case resOperand:
		l.appendStatement(&mir.Assign{Dest: dest, Src: res.operand})
	case resPlace:
		tmp := l.allocTemp(typ)
		l.appendStatement(&mir.Load{Dest: tmp, Src: res.place})
		l.appendStatement(&mir.Assign{Dest: dest, Src: tmp})
	case resWritten, resNone:
	}
}

func (l *functionLowerer) discard(res lowerResult) {
	_ = res
}

// lowerInto lowers an expression whose destination is already known.
// Aggregate literals and indirect-returning calls write the destination
// directly; everything else lowers to a value first.
func (l *functionLowerer) lowerInto(dest mir.Place, e hir.Expr) {
	switch n := e.(type) {
	case *hir.StructLit:
		elems := l.lowerOperandList(n.Fields)
		if !l.reachable() {
			return
		}
		l.appendStatement(&mir.Init{Dest: dest, RV: mir.AggregateRValue{Kind: mir.AggStruct, Elements: elems}})
		return
	case *hir.ArrayLit:
		elems := l.lowerOperandList(n.Elems)
		if !l.reachable() {
			return
		}
		l.appendStatement(&mir.Init{Dest: dest, RV: mir.AggregateRValue{Kind: mir.AggArray, Elements: elems}})
		return
	case *hir.ArrayRepeat:
		value, ok := l.asOperand(l.lowerExpr(n.Value), hir.TypeOf(l.in, n.Value))
		if !l.reachable() {
			return
		}
		if !ok {
			ice("array repeat element has no value")
		}
		l.appendStatement(&mir.Init{Dest: dest, RV: mir.RepeatRValue{Value: value, Count: n.Count}})
		return
	case *hir.Call:
		if buildReturnPlan(l.in, n.Callee.Return).Indirect() {
			l.lowerSRetCall(n, dest)
			return
		}
	}

	typ := hir.TypeOf(l.in, e)
	res := l.lowerExpr(e)
	if !l.reachable() {
		return
	}
	l.writeToDest(dest, res, typ)
}

// lowerExpr dispatches over every expression form.
func (l *functionLowerer) lowerExpr(e hir.Expr) lowerResult {
	switch n := e.(type) {
	case *hir.Literal:
		return operandResult(l.lowerLiteral(n), n.Type)
	case *hir.ConstRef:
		return operandResult(l.lowerConstUse(n), n.Def.Type)
	case *hir.EnumVariantRef:
		return operandResult(l.lowerEnumVariant(n), n.Type)
	case *hir.VarRef:
		if int(n.Local) >= len(l.fn.Locals) {
			ice("reference to unknown local %d", n.Local)
		}
		return placeResult(mir.PlaceForLocal(mir.LocalID(n.Local)), n.Type)
	case *hir.FieldAccess:
		return l.lowerFieldAccess(n)
	case *hir.Index:
		return l.lowerIndex(n)
	case *hir.StructLit:
		return l.lowerAggregateValue(mir.AggStruct, n.Fields, n.Type)
	case *hir.ArrayLit:
		return l.lowerAggregateValue(mir.AggArray, n.Elems, n.Type)
	case *hir.ArrayRepeat:
		return l.lowerRepeatValue(n)
	case *hir.Assign:
		return l.lowerAssign(n)
	case *hir.Unary:
		return l.lowerUnary(n)
	case *hir.Ref:
		return l.lowerRef(n)
	case *hir.Binary:
		return l.lowerBinary(n)
	case *hir.Cast:
		return l.lowerCast(n)
	case *hir.Call:
		return l.lowerCall(n)
	case *hir.Block:
		return l.lowerBlockExpr(n)
	case *hir.If:
		return l.lowerIf(n)
	case *hir.Loop:
		return l.lowerLoop(n)
	case *hir.While:
		return l.lowerWhile(n)
	case *hir.Break:
		return l.lowerBreak(n)
	case *hir.Continue:
		ctx := l.lookupLoop(n.Target)
		l.gotoBlock(ctx.continueBlock)
		return noneResult(l.in.Never())
	case *hir.Return:
		return l.lowerReturn(n)
	}
	ice("unknown expression kind %T", e)
	return lowerResult{}
}

// lowerOperandList lowers expressions left to right into operands. Unit
// elements become unit constants so arity is preserved.
func (l *functionLowerer) lowerOperandList(exprs []hir.Expr) []mir.Operand {
	ops := make([]mir.Operand, 0, len(exprs))
	for _, e := range exprs {
		typ := hir.TypeOf(l.in, e)
		res := l.lowerExpr(e)
		if !l.reachable() {
			return nil
		}
		op, ok := l.asOperand(res, typ)
		if !ok {
			if !l.in.IsUnit(typ) {
				ice("element of type %s has no value", l.in.String(typ))
			}
			op = mir.Constant{Type: typ, Value: mir.UnitConst{}}
		}
		ops = append(ops, op)
	}
	return ops
}

func (l *functionLowerer) lowerAggregateValue(kind mir.AggregateKind, exprs []hir.Expr, typ types.TypeID) lowerResult {
	elems := l.lowerOperandList(exprs)
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	dest := l.allocTemp(typ)
	l.appendStatement(&mir.Define{Dest: dest, RV: mir.AggregateRValue{Kind: kind, Elements: elems}})
	return operandResult(dest, typ)
}

func (l *functionLowerer) lowerRepeatValue(n *hir.ArrayRepeat) lowerResult {
	value, ok := l.asOperand(l.lowerExpr(n.Value), hir.TypeOf(l.in, n.Value))
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	if !ok {
		ice("array repeat element has no value")
	}
	dest := l.allocTemp(n.Type)
	l.appendStatement(&mir.Define{Dest: dest, RV: mir.RepeatRValue{Value: value, Count: n.Count}})
	return operandResult(dest, n.Type)
}

func (l *functionLowerer) lowerFieldAccess(n *hir.FieldAccess) lowerResult {
	baseType := hir.TypeOf(l.in, n.Base)
	base := l.lowerExpr(n.Base)
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	switch base.kind {
	case resPlace:
		return placeResult(base.place.Field(n.Index), n.Type)
	case resOperand:
		// The aggregate lives in a register; read the field by value.
		temp, ok := base.operand.(mir.TempID)
		if !ok {
			ice("field access on a constant of type %s", l.in.String(baseType))
		}
		dest := l.allocTemp(n.Type)
		l.appendStatement(&mir.Define{Dest: dest, RV: mir.ExtractRValue{Base: temp, Index: n.Index}})
		return operandResult(dest, n.Type)
	}
	ice("field access on a valueless expression")
	return lowerResult{}
}

func (l *functionLowerer) lowerIndex(n *hir.Index) lowerResult {
	baseType := hir.TypeOf(l.in, n.Base)
	base := l.lowerExpr(n.Base)
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	basePlace := l.asPlace(base, baseType, false)

	idx, ok := l.asOperand(l.lowerExpr(n.Index), hir.TypeOf(l.in, n.Index))
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	if !ok {
		ice("array index has no value")
	}
	return placeResult(basePlace.Index(idx), n.Type)
}

func (l *functionLowerer) lowerAssign(n *hir.Assign) lowerResult {
	targetType := hir.TypeOf(l.in, n.Target)
	target := l.lowerExpr(n.Target)
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	if target.kind != resPlace {
		ice("assignment target is not a place")
	}
	if l.in.IsUnit(targetType) {
		// Unit slots hold nothing; evaluate the source for effects only.
		l.discard(l.lowerExpr(n.Value))
		return noneResult(l.in.Unit())
	}
	l.lowerInto(target.place, n.Value)
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	return noneResult(l.in.Unit())
}

func (l *functionLowerer) lowerUnary(n *hir.Unary) lowerResult {
	operandType := hir.TypeOf(l.in, n.Operand)
	res := l.lowerExpr(n.Operand)
	if !l.reachable() {
		return noneResult(l.in.Never())
	}

	if n.Op == hir.OpDeref {
		op, ok := l.asOperand(res, operandType)
		if !ok {
			ice("dereference of a valueless expression")
		}
		ptr := l.materializeOperand(op, operandType)
		return placeResult(mir.Place{Base: mir.PointerPlace{Temp: ptr}}, n.Type)
	}

	op, ok := l.asOperand(res, operandType)
	if !ok {
		ice("unary operand has no value")
	}
	kind := mir.Not
	if n.Op == hir.OpNeg {
		kind = mir.Neg
	}
	dest := l.allocTemp(n.Type)
	l.appendStatement(&mir.Define{Dest: dest, RV: mir.UnaryRValue{Kind: kind, Operand: op}})
	return operandResult(dest, n.Type)
}

// lowerRef takes an address. Referencing a non-place first materializes the
// value into a fresh synthetic local so it has one.
func (l *functionLowerer) lowerRef(n *hir.Ref) lowerResult {
	operandType := hir.TypeOf(l.in, n.Operand)
	var place mir.Place
	if hir.IsPlace(n.Operand) {
		res := l.lowerExpr(n.Operand)
		if !l.reachable() {
			return noneResult(l.in.Never())
		}
		if res.kind != resPlace {
			ice("place expression did not lower to a place")
		}
		place = res.place
	} else {
		res := l.lowerExpr(n.Operand)
		if !l.reachable() {
			return noneResult(l.in.Never())
		}
		place = l.asPlace(res, operandType, n.Mutable)
	}
	dest := l.allocTemp(n.Type)
	l.appendStatement(&mir.Define{Dest: dest, RV: mir.RefRValue{Place: place}})
	return operandResult(dest, n.Type)
}

func (l *functionLowerer) lowerBinary(n *hir.Binary) lowerResult {
	if n.Op == hir.OpLogicalAnd || n.Op == hir.OpLogicalOr {
		return l.lowerShortCircuit(n)
	}

	lhs, ok := l.asOperand(l.lowerExpr(n.LHS), hir.TypeOf(l.in, n.LHS))
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	if !ok {
		ice("left operand has no value")
	}
	rhs, ok := l.asOperand(l.lowerExpr(n.RHS), hir.TypeOf(l.in, n.RHS))
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	if !ok {
		ice("right operand has no value")
	}

	kind := classifyBinary(n.Op, n.Domain)
	dest := l.allocTemp(n.Type)
	l.appendStatement(&mir.Define{Dest: dest, RV: mir.BinaryRValue{Kind: kind, LHS: lhs, RHS: rhs}})
	return operandResult(dest, n.Type)
}

// lowerShortCircuit lowers && and || into a branch and a phi. The
// short-circuit constant is materialized in the left block before branching
// so the phi has a temp on both edges.
func (l *functionLowerer) lowerShortCircuit(n *hir.Binary) lowerResult {
	boolType := l.in.Primitive(types.Bool)

	lhsOp, ok := l.asOperand(l.lowerExpr(n.LHS), boolType)
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	if !ok {
		ice("logical operand has no value")
	}
	lhs := l.materializeOperand(lhsOp, boolType)

	// On the short edge the overall value is fixed: false for &&, true
	// for ||.
	shortValue := n.Op == hir.OpLogicalOr
	shortTemp := l.allocTemp(boolType)
	l.appendStatement(&mir.Define{Dest: shortTemp, RV: mir.ConstantRValue{C: l.boolConstant(shortValue)}})
	lhsBlock := l.currentBlock()

	rhsBlock := l.createBlock()
	join := l.createBlock()
	if n.Op == hir.OpLogicalAnd {
		l.branchOnBool(lhs, rhsBlock, join)
	} else {
		l.branchOnBool(lhs, join, rhsBlock)
	}

	incoming := []mir.PhiIncoming{{Pred: lhsBlock, Value: shortTemp}}

	l.switchTo(rhsBlock)
	rhsOp, ok := l.asOperand(l.lowerExpr(n.RHS), boolType)
	if l.reachable() {
		if !ok {
			ice("logical operand has no value")
		}
		rhs := l.materializeOperand(rhsOp, boolType)
		incoming = append(incoming, mir.PhiIncoming{Pred: l.currentBlock(), Value: rhs})
		l.gotoBlock(join)
	}

	l.switchTo(join)
	dest := l.allocTemp(boolType)
	l.fn.Blocks[join].Phis = append(l.fn.Blocks[join].Phis, mir.PhiNode{Dest: dest, Incoming: incoming})
	return operandResult(dest, n.Type)
}

func (l *functionLowerer) lowerCast(n *hir.Cast) lowerResult {
	valueType := hir.TypeOf(l.in, n.Value)
	op, ok := l.asOperand(l.lowerExpr(n.Value), valueType)
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	if !ok {
		ice("cast operand has no value")
	}
	dest := l.allocTemp(n.Type)
	l.appendStatement(&mir.Define{Dest: dest, RV: mir.CastRValue{Value: op, Target: l.in.Canonicalize(n.Type)}})
	return operandResult(dest, n.Type)
}

// lowerCall lowers a direct call. Arguments evaluate left to right;
// indirect-returning callees in value position get a synthetic local as
// their destination.
func (l *functionLowerer) lowerCall(n *hir.Call) lowerResult {
	plan := buildReturnPlan(l.in, n.Callee.Return)

	if plan.Indirect() {
		slot := l.newSyntheticLocal(plan.Type, false)
		dest := mir.PlaceForLocal(slot)
		l.lowerSRetCall(n, dest)
		if !l.reachable() {
			return noneResult(l.in.Never())
		}
		return placeResult(dest, n.Type)
	}

	args := l.lowerOperandList(n.Args)
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	target := l.callTarget(n.Callee)

	switch plan.Kind {
	case mir.RetNever:
		l.appendStatement(&mir.Call{Dest: mir.InvalidTemp, Target: target, Args: args})
		l.terminate(&mir.Unreachable{})
		return noneResult(l.in.Never())
	case mir.RetVoid:
		l.appendStatement(&mir.Call{Dest: mir.InvalidTemp, Target: target, Args: args})
		return noneResult(l.in.Unit())
	case mir.RetDirect:
		dest := l.allocTemp(plan.Type)
		l.appendStatement(&mir.Call{Dest: dest, Target: target, Args: args})
		return operandResult(dest, n.Type)
	}
	ice("unhandled return plan for call to %q", n.Callee.Name)
	return lowerResult{}
}

// lowerSRetCall lowers a call whose result returns through a hidden pointer.
// The pointer to dest is passed as the leading argument.
func (l *functionLowerer) lowerSRetCall(n *hir.Call, dest mir.Place) {
	plan := buildReturnPlan(l.in, n.Callee.Return)
	args := l.lowerOperandList(n.Args)
	if !l.reachable() {
		return
	}

	ptrType := l.in.Reference(plan.Type, true)
	ptr := l.allocTemp(ptrType)
	l.appendStatement(&mir.Define{Dest: ptr, RV: mir.RefRValue{Place: dest}})

	full := make([]mir.Operand, 0, len(args)+1)
	full = append(full, ptr)
	full = append(full, args...)
	l.appendStatement(&mir.Call{Dest: mir.InvalidTemp, Target: l.callTarget(n.Callee), Args: full})
}

func (l *functionLowerer) callTarget(fn *hir.Function) mir.CallTarget {
	ref := l.p.lookup(fn)
	kind := mir.CallInternal
	if ref.external {
		kind = mir.CallExternal
	}
	return mir.CallTarget{Kind: kind, ID: ref.id}
}

// lowerBlockExpr lowers a block in value position.
func (l *functionLowerer) lowerBlockExpr(n *hir.Block) lowerResult {
	if !l.lowerBlockStmts(n) {
		return noneResult(l.in.Never())
	}
	if n.Final != nil {
		return l.lowerExpr(n.Final)
	}
	return noneResult(l.in.Unit())
}

// lowerIf lowers a conditional. Both arms compute into temps and a phi on
// the join block merges them; no stack slot is involved. The join block is
// created only once an arm actually falls through.
func (l *functionLowerer) lowerIf(n *hir.If) lowerResult {
	resType := l.in.Canonicalize(n.Type)
	wantsValue := !l.in.IsUnit(resType) && !l.in.IsNever(resType)

	cond, ok := l.asOperand(l.lowerExpr(n.Cond), hir.TypeOf(l.in, n.Cond))
	if !l.reachable() {
		return noneResult(l.in.Never())
	}
	if !ok {
		ice("if condition has no value")
	}

	thenBlock := l.createBlock()
	join := mir.InvalidBlock
	var incoming []mir.PhiIncoming

	ensureJoin := func() mir.BlockID {
		if join == mir.InvalidBlock {
			join = l.createBlock()
		}
		return join
	}

	lowerArm := func(arm hir.Expr) {
		res := l.lowerExpr(arm)
		if !l.reachable() {
			return
		}
		if wantsValue {
			op, ok := l.asOperand(res, resType)
			if !ok {
				ice("conditional arm has no value")
			}
			temp := l.materializeOperand(op, resType)
			incoming = append(incoming, mir.PhiIncoming{Pred: l.currentBlock(), Value: temp})
		}
		l.gotoBlock(ensureJoin())
	}

	if n.Else != nil {
		elseBlock := l.createBlock()
		l.branchOnBool(cond, thenBlock, elseBlock)
		l.switchTo(thenBlock)
		lowerArm(n.Then)
		l.switchTo(elseBlock)
		lowerArm(n.Else)
	} else {
		l.branchOnBool(cond, thenBlock, ensureJoin())
		l.switchTo(thenBlock)
		lowerArm(n.Then)
	}

	if join == mir.InvalidBlock {
		// Both arms diverged.
		return noneResult(l.in.Never())
	}

	l.switchTo(join)
	if !wantsValue {
		return noneResult(resType)
	}
	if len(incoming) == 0 {
		ice("conditional expects a value but both arms diverged")
	}
	dest := l.allocTemp(resType)
	l.fn.Blocks[join].Phis = append(l.fn.Blocks[join].Phis, mir.PhiNode{Dest: dest, Incoming: incoming})
	return operandResult(dest, resType)
}

// lowerLoop lowers an infinite loop. The body block doubles as the continue
// target; break edges feed the exit block, whose phi merges break values.
func (l *functionLowerer) lowerLoop(n *hir.Loop) lowerResult {
	body := l.createBlock()
	exit := l.createBlock()
	ctx := l.pushLoop(n, body, exit, n.Type)

	l.gotoBlock(body)
	l.switchTo(body)
	if l.lowerBlockStmts(n.Body) {
		if n.Body.Final != nil {
			l.discard(l.lowerExpr(n.Body.Final))
		}
		l.gotoBlock(body)
	}
	l.popLoop(n)

	if ctx.breakCount == 0 {
		// Nothing ever leaves; the exit block exists but is dead.
		l.fn.Blocks[exit].Term = &mir.Unreachable{}
		l.terminated[exit] = true
		l.hasCur = false
		return noneResult(l.in.Never())
	}

	l.switchTo(exit)
	l.finalizeLoop(ctx)
	if ctx.breakResult != mir.InvalidTemp {
		return operandResult(ctx.breakResult, n.Type)
	}
	return noneResult(l.in.Unit())
}

// lowerWhile lowers a conditional loop: header, body, exit. The header is
// the continue target and the exit is always reachable through the failed
// condition.
func (l *functionLowerer) lowerWhile(n *hir.While) lowerResult {
	header := l.createBlock()
	body := l.createBlock()
	exit := l.createBlock()

	l.gotoBlock(header)
	l.switchTo(header)
	cond, ok := l.asOperand(l.lowerExpr(n.Cond), hir.TypeOf(l.in, n.Cond))
	if l.reachable() {
		if !ok {
			ice("while condition has no value")
		}
		l.branchOnBool(cond, body, exit)
	}

	l.pushLoop(n, header, exit, types.InvalidType)
	l.switchTo(body)
	if l.lowerBlockStmts(n.Body) {
		if n.Body.Final != nil {
			l.discard(l.lowerExpr(n.Body.Final))
		}
		l.gotoBlock(header)
	}
	l.popLoop(n)

	l.switchTo(exit)
	return noneResult(l.in.Unit())
}

// lowerBreak records a break edge on the target loop and jumps to its exit.
func (l *functionLowerer) lowerBreak(n *hir.Break) lowerResult {
	var value mir.TempID = mir.InvalidTemp
	if n.Value != nil {
		typ := hir.TypeOf(l.in, n.Value)
		op, ok := l.asOperand(l.lowerExpr(n.Value), typ)
		if !l.reachable() {
			return noneResult(l.in.Never())
		}
		if ok {
			value = l.materializeOperand(op, typ)
		}
	}

	ctx := l.lookupLoop(n.Target)
	ctx.breakCount++
	if ctx.breakResult != mir.InvalidTemp {
		if value == mir.InvalidTemp {
			ice("break without a value into a value-producing loop")
		}
		ctx.incomings = append(ctx.incomings, mir.PhiIncoming{Pred: l.currentBlock(), Value: value})
	}
	l.gotoBlock(ctx.breakBlock)
	return noneResult(l.in.Never())
}

// lowerReturn lowers an explicit return per the function's return plan.
func (l *functionLowerer) lowerReturn(n *hir.Return) lowerResult {
	plan := l.fn.Return
	switch plan.Kind {
	case mir.RetNever:
		ice("return statement in function %q that promises to diverge", l.fn.Name)
	case mir.RetIndirect:
		if n.Value == nil {
			ice("return without a value in function %q", l.fn.Name)
		}
		l.lowerIndirectReturnValue(n.Value)
		if l.reachable() {
			l.emitReturn(nil)
		}
	case mir.RetDirect:
		if n.Value == nil {
			ice("return without a value in function %q", l.fn.Name)
		}
		op, ok := l.asOperand(l.lowerExpr(n.Value), hir.TypeOf(l.in, n.Value))
		if !l.reachable() {
			return noneResult(l.in.Never())
		}
		if !ok {
			ice("return value missing in function %q", l.fn.Name)
		}
		l.emitReturn(op)
	case mir.RetVoid:
		if n.Value != nil {
			l.discard(l.lowerExpr(n.Value))
			if !l.reachable() {
				return noneResult(l.in.Never())
			}
		}
		l.emitReturn(nil)
	}
	return noneResult(l.in.Never())
}

// lowerIndirectReturnValue writes the return value into the return slot.
// Returning the slot's own local directly is elided, which is what makes
// the slot aliasing in buildReturnStorage pay off.
func (l *functionLowerer) lowerIndirectReturnValue(e hir.Expr) {
	if v, ok := e.(*hir.VarRef); ok && mir.LocalID(v.Local) == l.fn.Return.Slot {
		return
	}
	l.lowerInto(mir.PlaceForLocal(l.fn.Return.Slot), e)
}
