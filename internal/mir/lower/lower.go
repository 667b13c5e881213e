package lower

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/rogerflowey/rust-compiler-sub003/internal/hir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/mir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// LowerProgram lowers a type-annotated HIR program into a MIR module.
//
// It runs in two passes: first every function gets a stable id so forward and
// mutually recursive calls resolve, then each body is lowered in program
// order. Functions without a body become external declarations.
func LowerProgram(in *types.Interner, prog *hir.Program) (m *mir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*InvariantError); ok {
				err = ie
				m = nil
				return
			}
			panic(r)
		}
	}()

	p := &programLowerer{
		in:      in,
		mod:     &mir.Module{},
		fns:     make(map[*hir.Function]funcRef),
		strings: make(map[uint64][]mir.GlobalID),
	}

	var internal []*hir.Function
	for _, fn := range prog.Functions {
		if fn == nil {
			ice("nil function in program")
		}
		if fn.IsExternal() {
			ext := &mir.ExternFunction{
				ID:     mir.ExternID(len(p.mod.Externs)),
				Name:   fn.Name,
				Return: fn.Return,
			}
			for _, param := range fn.Params {
				ext.Params = append(ext.Params, in.Canonicalize(param.Type))
			}
			p.mod.Externs = append(p.mod.Externs, ext)
			p.fns[fn] = funcRef{external: true, id: uint32(ext.ID)}
			continue
		}
		p.fns[fn] = funcRef{id: uint32(len(internal))}
		internal = append(internal, fn)
	}

	for i, fn := range internal {
		fl := newFunctionLowerer(p, fn, mir.FunctionID(i))
		p.mod.Functions = append(p.mod.Functions, fl.lower())
	}

	return p.mod, nil
}

type funcRef struct {
	external bool
	id       uint32
}

type programLowerer struct {
	in      *types.Interner
	mod     *mir.Module
	fns     map[*hir.Function]funcRef
	strings map[uint64][]mir.GlobalID
}

// internString dedups a string literal into the module global table. Globals
// are assigned in first-use order and never redeclared.
func (p *programLowerer) internString(data string, cstyle bool) mir.GlobalID {
	marker := byte(0)
	if cstyle {
		marker = 1
	}
	h := xxhash.New()
	_, _ = h.Write([]byte(data))
	_, _ = h.Write([]byte{marker})
	sum := h.Sum64()

	for _, id := range p.strings[sum] {
		g := p.mod.Globals[id].(*mir.StringGlobal)
		if g.CStyle == cstyle && string(g.Data) == terminated(data) {
			return id
		}
	}

	id := mir.GlobalID(len(p.mod.Globals))
	p.mod.Globals = append(p.mod.Globals, &mir.StringGlobal{
		Data:   []byte(terminated(data)),
		CStyle: cstyle,
	})
	p.strings[sum] = append(p.strings[sum], id)
	return id
}

func terminated(data string) string {
	if len(data) > 0 && data[len(data)-1] == 0 {
		return data
	}
	return data + "\x00"
}

// lookup resolves a call target registered in pass one.
func (p *programLowerer) lookup(fn *hir.Function) funcRef {
	ref, ok := p.fns[fn]
	if !ok {
		ice("call target %q not registered", fn.Name)
	}
	return ref
}

// buildReturnPlan classifies a semantic return type. Aggregates return
// through a hidden caller-provided pointer; everything else directly.
func buildReturnPlan(in *types.Interner, ret types.TypeID) mir.ReturnPlan {
	if ret == types.InvalidType {
		ice("function missing resolved return type")
	}
	if in.IsNever(ret) {
		return mir.ReturnPlan{Kind: mir.RetNever}
	}
	if in.IsUnit(ret) {
		return mir.ReturnPlan{Kind: mir.RetVoid}
	}
	normalized := in.Canonicalize(ret)
	if in.IsAggregate(normalized) {
		return mir.ReturnPlan{
			Kind:      mir.RetIndirect,
			Type:      normalized,
			SRetIndex: 0,
			Slot:      mir.InvalidLocal,
		}
	}
	return mir.ReturnPlan{Kind: mir.RetDirect, Type: normalized}
}

type loopContext struct {
	continueBlock mir.BlockID
	breakBlock    mir.BlockID
	breakResult   mir.TempID // InvalidTemp when the loop's value is unit/never
	incomings     []mir.PhiIncoming
	breakCount    int
}

type loopEntry struct {
	key hir.Expr
	ctx *loopContext
}

type functionLowerer struct {
	p   *programLowerer
	in  *types.Interner
	hfn *hir.Function
	fn  *mir.Function

	cur    mir.BlockID
	hasCur bool

	terminated []bool
	loops      []loopEntry
	synthetics int
}

func newFunctionLowerer(p *programLowerer, hfn *hir.Function, id mir.FunctionID) *functionLowerer {
	l := &functionLowerer{
		p:   p,
		in:  p.in,
		hfn: hfn,
		fn:  &mir.Function{ID: id, Name: hfn.Name},
	}
	l.initialize()
	return l
}

func (l *functionLowerer) initialize() {
	l.fn.Return = buildReturnPlan(l.in, l.hfn.Return)
	l.initLocals()
	l.collectParameters()
	l.buildReturnStorage()

	entry := l.createBlock()
	l.switchTo(entry)
	l.fn.Start = entry
}

func (l *functionLowerer) initLocals() {
	for _, local := range l.hfn.Locals {
		if local.Type == types.InvalidType {
			ice("local %q missing resolved type", local.Name)
		}
		l.fn.Locals = append(l.fn.Locals, mir.LocalInfo{
			Name: local.Name,
			Type: l.in.Canonicalize(local.Type),
		})
	}
}

func (l *functionLowerer) collectParameters() {
	for _, param := range l.hfn.Params {
		if param.Type == types.InvalidType {
			ice("parameter %q missing resolved type", param.Name)
		}
		if int(param.Local) >= len(l.fn.Locals) {
			ice("parameter %q not backed by a local", param.Name)
		}
		l.fn.Params = append(l.fn.Params, mir.Param{
			Local: mir.LocalID(param.Local),
			Type:  l.in.Canonicalize(param.Type),
			Name:  param.Name,
		})
	}
}

// buildReturnStorage picks the return slot of an indirect-return function.
// The first user local (past the parameters) whose type matches the return
// type is aliased to the hidden pointer so returning it needs no copy;
// otherwise a dedicated slot is synthesized.
func (l *functionLowerer) buildReturnStorage() {
	if !l.fn.Return.Indirect() {
		return
	}

	isParam := make(map[mir.LocalID]bool, len(l.fn.Params))
	for _, p := range l.fn.Params {
		isParam[p.Local] = true
	}

	for idx := range l.fn.Locals {
		id := mir.LocalID(idx)
		if isParam[id] {
			continue
		}
		if l.fn.Locals[idx].Type == l.fn.Return.Type {
			l.fn.Return.Slot = id
			l.fn.Return.NRVO = true
			return
		}
	}

	l.fn.Return.Slot = l.appendLocal("<return>", l.fn.Return.Type)
}

func (l *functionLowerer) lower() *mir.Function {
	body := l.hfn.Body
	if body == nil {
		ice("function %q missing body during lowering", l.fn.Name)
	}
	l.lowerFunctionBody(body)
	return l.fn
}

// lowerFunctionBody lowers the body block and seals the implicit return.
func (l *functionLowerer) lowerFunctionBody(body *hir.Block) {
	if !l.lowerBlockStmts(body) {
		return
	}

	plan := l.fn.Return
	if body.Final != nil {
		if plan.Indirect() {
			l.lowerIndirectReturnValue(body.Final)
			if l.reachable() {
				l.emitReturn(nil)
			}
			return
		}
		res := l.lowerExpr(body.Final)
		if !l.reachable() {
			return
		}
		switch plan.Kind {
		case mir.RetNever:
			ice("function %q promises to diverge but its body falls through", l.fn.Name)
		case mir.RetVoid:
			l.emitReturn(nil)
		case mir.RetDirect:
			op, ok := l.asOperand(res, hir.TypeOf(l.in, body.Final))
			if !ok {
				ice("function %q missing return value", l.fn.Name)
			}
			l.emitReturn(op)
		}
		return
	}

	if !l.reachable() {
		return
	}
	switch plan.Kind {
	case mir.RetNever:
		ice("function %q promises to diverge but its body falls through", l.fn.Name)
	case mir.RetVoid:
		l.emitReturn(nil)
	default:
		ice("function %q ends without a return value", l.fn.Name)
	}
}

// lowerBlockStmts lowers the statement list; false means control diverged.
func (l *functionLowerer) lowerBlockStmts(block *hir.Block) bool {
	for _, stmt := range block.Stmts {
		if !l.reachable() {
			return false
		}
		l.lowerStmt(stmt)
	}
	return l.reachable()
}

func (l *functionLowerer) lowerStmt(stmt hir.Stmt) {
	switch s := stmt.(type) {
	case *hir.LetStmt:
		l.lowerLet(s)
	case *hir.ExprStmt:
		if s.Expr == nil {
			return
		}
		diverges := hir.Diverges(l.in, s.Expr)
		l.discard(l.lowerExpr(s.Expr))
		if diverges && l.reachable() {
			ice("diverging expression left the block reachable")
		}
	default:
		ice("unknown statement kind %T", stmt)
	}
}

func (l *functionLowerer) lowerLet(s *hir.LetStmt) {
	if s.Init == nil {
		ice("let binding without initializer")
	}
	if s.Blank {
		// Value is dropped; lower for side effects only.
		l.discard(l.lowerExpr(s.Init))
		return
	}
	if int(s.Local) >= len(l.fn.Locals) {
		ice("let binding targets unknown local %d", s.Local)
	}
	l.lowerInto(mir.PlaceForLocal(mir.LocalID(s.Local)), s.Init)
}

// Block helpers.

func (l *functionLowerer) createBlock() mir.BlockID {
	id := mir.BlockID(len(l.fn.Blocks))
	l.fn.Blocks = append(l.fn.Blocks, &mir.BasicBlock{})
	l.terminated = append(l.terminated, false)
	return id
}

func (l *functionLowerer) reachable() bool { return l.hasCur }

func (l *functionLowerer) currentBlock() mir.BlockID {
	if !l.hasCur {
		ice("no current block")
	}
	return l.cur
}

func (l *functionLowerer) switchTo(id mir.BlockID) {
	l.cur = id
	l.hasCur = true
}

func (l *functionLowerer) appendStatement(stmt mir.Statement) {
	if !l.hasCur {
		return
	}
	if l.terminated[l.cur] {
		ice("statement appended to terminated block b%d", l.cur)
	}
	block := l.fn.Blocks[l.cur]
	block.Stmts = append(block.Stmts, stmt)
}

func (l *functionLowerer) terminate(term mir.Terminator) {
	if !l.hasCur {
		return
	}
	if l.terminated[l.cur] {
		ice("second terminator for block b%d", l.cur)
	}
	l.fn.Blocks[l.cur].Term = term
	l.terminated[l.cur] = true
	l.hasCur = false
}

func (l *functionLowerer) gotoBlock(target mir.BlockID) {
	if !l.hasCur || l.terminated[l.cur] {
		return
	}
	l.terminate(&mir.Goto{Target: target})
}

// branchOnBool lowers a boolean two-way branch as a one-arm integer switch.
func (l *functionLowerer) branchOnBool(cond mir.Operand, trueBlock, falseBlock mir.BlockID) {
	if !l.hasCur {
		return
	}
	l.terminate(&mir.SwitchInt{
		Discr:     cond,
		Arms:      []mir.SwitchArm{{Value: l.boolConstant(true), Target: trueBlock}},
		Otherwise: falseBlock,
	})
}

func (l *functionLowerer) emitReturn(value mir.Operand) {
	plan := l.fn.Return
	if plan.Kind == mir.RetNever {
		ice("return emitted in never-returning function %q", l.fn.Name)
	}
	if value == nil && plan.Kind == mir.RetDirect {
		ice("return without value in value-returning function %q", l.fn.Name)
	}
	if value != nil && plan.Kind != mir.RetDirect {
		ice("return with value in non-direct function %q", l.fn.Name)
	}
	if !l.hasCur {
		return
	}
	l.terminate(&mir.Return{Value: value})
}

// Temp and local helpers.

func (l *functionLowerer) allocTemp(typ types.TypeID) mir.TempID {
	if typ == types.InvalidType {
		ice("temporary missing resolved type")
	}
	normalized := l.in.Canonicalize(typ)
	if l.in.IsUnit(normalized) {
		ice("unit temporaries must not be allocated")
	}
	id := mir.TempID(len(l.fn.TempTypes))
	l.fn.TempTypes = append(l.fn.TempTypes, normalized)
	return id
}

func (l *functionLowerer) appendLocal(name string, typ types.TypeID) mir.LocalID {
	id := mir.LocalID(len(l.fn.Locals))
	l.fn.Locals = append(l.fn.Locals, mir.LocalInfo{Name: name, Type: l.in.Canonicalize(typ)})
	return id
}

// newSyntheticLocal introduces a local the source program never declared,
// used to give rvalues an address.
func (l *functionLowerer) newSyntheticLocal(typ types.TypeID, mutable bool) mir.LocalID {
	prefix := "_ref_tmp"
	if mutable {
		prefix = "_ref_mut_tmp"
	}
	name := prefix + strconv.Itoa(l.synthetics)
	l.synthetics++
	return l.appendLocal(name, typ)
}

// materializeOperand forces an operand into a temp, defining constants that
// are not yet register-resident.
func (l *functionLowerer) materializeOperand(op mir.Operand, typ types.TypeID) mir.TempID {
	switch o := op.(type) {
	case mir.TempID:
		return o
	case mir.Constant:
		if !l.hasCur {
			ice("cannot materialize a constant without an active block")
		}
		dest := l.allocTemp(typ)
		l.appendStatement(&mir.Define{Dest: dest, RV: mir.ConstantRValue{C: o}})
		return dest
	}
	ice("operand is neither temp nor constant")
	return mir.InvalidTemp
}

func (l *functionLowerer) boolConstant(v bool) mir.Constant {
	return mir.Constant{Type: l.in.Primitive(types.Bool), Value: mir.BoolConst{V: v}}
}

// Loop context handling, keyed by HIR loop node identity.

func (l *functionLowerer) pushLoop(key hir.Expr, continueBlock, breakBlock mir.BlockID, breakType types.TypeID) *loopContext {
	ctx := &loopContext{
		continueBlock: continueBlock,
		breakBlock:    breakBlock,
		breakResult:   mir.InvalidTemp,
	}
	if breakType != types.InvalidType {
		normalized := l.in.Canonicalize(breakType)
		if !l.in.IsUnit(normalized) && !l.in.IsNever(normalized) {
			ctx.breakResult = l.allocTemp(normalized)
		}
	}
	l.loops = append(l.loops, loopEntry{key: key, ctx: ctx})
	return ctx
}

func (l *functionLowerer) lookupLoop(key hir.Expr) *loopContext {
	for i := len(l.loops) - 1; i >= 0; i-- {
		if l.loops[i].key == key {
			return l.loops[i].ctx
		}
	}
	ice("break or continue target not in scope")
	return nil
}

func (l *functionLowerer) popLoop(key hir.Expr) *loopContext {
	if len(l.loops) == 0 || l.loops[len(l.loops)-1].key != key {
		ice("loop context stack corrupted")
	}
	ctx := l.loops[len(l.loops)-1].ctx
	l.loops = l.loops[:len(l.loops)-1]
	return ctx
}

// finalizeLoop installs the break phi on the exit block of a value loop.
func (l *functionLowerer) finalizeLoop(ctx *loopContext) {
	if ctx.breakResult == mir.InvalidTemp {
		return
	}
	if len(ctx.incomings) == 0 {
		ice("loop expects a value but no break produced one")
	}
	block := l.fn.Blocks[ctx.breakBlock]
	block.Phis = append(block.Phis, mir.PhiNode{
		Dest:     ctx.breakResult,
		Incoming: ctx.incomings,
	})
}
