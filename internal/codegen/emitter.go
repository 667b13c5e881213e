package codegen

import (
	"strconv"
	"strings"

	"github.com/rogerflowey/rust-compiler-sub003/internal/mir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// Options configures one emission.
type Options struct {
	// ModuleID names the module header; defaults to "rcompiler".
	ModuleID string
	// TargetTriple and DataLayout are copied verbatim into the header when
	// non-empty.
	TargetTriple string
	DataLayout   string
}

// Emit renders a MIR module as textual IR. Emission is a pure function of
// its inputs: calling it twice yields byte-identical output.
func Emit(in *types.Interner, mod *mir.Module, opts Options) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*InvariantError); ok {
				err = ie
				out = ""
				return
			}
			panic(r)
		}
	}()

	moduleID := opts.ModuleID
	if moduleID == "" {
		moduleID = "rcompiler"
	}

	e := &emitter{
		in:  in,
		mod: mod,
		mb:  NewModuleBuilder(moduleID),
		te:  NewTypeEmitter(in),
	}
	if opts.TargetTriple != "" {
		e.mb.SetTargetTriple(opts.TargetTriple)
	}
	if opts.DataLayout != "" {
		e.mb.SetDataLayout(opts.DataLayout)
	}
	return e.emit(), nil
}

type emitter struct {
	in  *types.Interner
	mod *mir.Module
	mb  *ModuleBuilder
	te  *TypeEmitter

	fn     *mir.Function
	fb     *FunctionBuilder
	blocks []*BlockBuilder
	cur    *BlockBuilder
	params []string
}

// typedOperand is an operand rendered with its type spelling.
type typedOperand struct {
	typeName string
	value    string
	typ      types.TypeID
}

func (e *emitter) emit() string {
	e.emitGlobals()
	for _, ext := range e.mod.Externs {
		e.emitExternDeclaration(ext)
	}
	for _, fn := range e.mod.Functions {
		e.emitFunction(fn)
	}
	for _, def := range e.te.Definitions() {
		e.mb.AddTypeDef(def)
	}
	return e.mb.String()
}

func globalName(id mir.GlobalID) string {
	return "@str." + strconv.FormatUint(uint64(id), 10)
}

// emitGlobals renders the interned string table. Globals keep their
// lowering-assigned ids, so identical literals share one entry.
func (e *emitter) emitGlobals() {
	for i, g := range e.mod.Globals {
		str, ok := g.(*mir.StringGlobal)
		if !ok {
			ice("unknown global kind %T", g)
		}
		decl := globalName(mir.GlobalID(i)) + " = private unnamed_addr constant [" +
			strconv.Itoa(len(str.Data)) + " x i8] c\"" + escapeString(str.Data) + "\""
		e.mb.AddGlobal(decl)
	}
}

// returnSpelling maps a semantic return type to its signature spelling and
// reports whether the result travels through a hidden pointer.
func (e *emitter) returnSpelling(ret types.TypeID) (name string, indirect bool) {
	if ret == types.InvalidType {
		ice("function missing resolved return type")
	}
	if e.in.IsUnit(ret) || e.in.IsNever(ret) {
		return "void", false
	}
	if e.in.IsAggregate(ret) {
		return "void", true
	}
	return e.te.Name(ret), false
}

func (e *emitter) emitExternDeclaration(ext *mir.ExternFunction) {
	retName, indirect := e.returnSpelling(ext.Return)

	var params []string
	if indirect {
		params = append(params, e.te.PointerName(ext.Return))
	}
	for _, p := range ext.Params {
		params = append(params, e.te.Name(p))
	}

	e.mb.AddGlobal("declare dso_local " + retName + " @" + ext.Name +
		"(" + strings.Join(params, ", ") + ")")
}

func (e *emitter) emitFunction(fn *mir.Function) {
	e.fn = fn
	plan := fn.Return

	var params []Parameter
	if plan.Indirect() {
		// The hidden result pointer doubles as the return slot's address,
		// so no alloca or copy is needed for it.
		params = append(params, Parameter{
			Type: e.te.PointerName(plan.Type),
			Name: localPtrName(plan.Slot),
		})
	}
	for i, p := range fn.Params {
		name := p.Name
		if name == "" {
			name = "arg" + strconv.Itoa(i)
		}
		params = append(params, Parameter{Type: e.te.Name(p.Type), Name: "%" + name})
	}

	retName := "void"
	if plan.Kind == mir.RetDirect {
		retName = e.te.Name(plan.Type)
	}

	e.fb = e.mb.AddFunction(fn.Name, retName, params)
	e.params = make([]string, 0, len(fn.Params))
	rendered := e.fb.Params()
	for i := range fn.Params {
		offset := 0
		if plan.Indirect() {
			offset = 1
		}
		e.params = append(e.params, rendered[i+offset].Name)
	}

	e.blocks = make([]*BlockBuilder, len(fn.Blocks))
	e.blocks[fn.Start] = e.fb.Entry()
	for id := range fn.Blocks {
		if mir.BlockID(id) == fn.Start {
			continue
		}
		e.blocks[id] = e.fb.CreateBlock(blockLabel(mir.BlockID(id)))
	}

	for id := range fn.Blocks {
		e.emitBlock(mir.BlockID(id))
	}

	e.fn = nil
	e.fb = nil
	e.blocks = nil
	e.cur = nil
	e.params = nil
}

func blockLabel(id mir.BlockID) string {
	return "bb" + strconv.FormatUint(uint64(id), 10)
}

func localPtrName(id mir.LocalID) string {
	return "%local_" + strconv.FormatUint(uint64(id), 10)
}

func (e *emitter) emitBlock(id mir.BlockID) {
	e.cur = e.blocks[id]
	block := e.fn.Block(id)

	for _, phi := range block.Phis {
		e.emitPhi(phi)
	}

	if id == e.fn.Start {
		e.emitPrologue()
	}

	for _, stmt := range block.Stmts {
		e.emitStatement(stmt)
	}

	if block.Term == nil {
		ice("block %s has no terminator", blockLabel(id))
	}
	e.emitTerminator(block.Term)
}

// emitPrologue allocates every local slot and spills the parameters into
// theirs. The sret slot, when present, is the hidden pointer parameter and
// gets no alloca.
func (e *emitter) emitPrologue() {
	plan := e.fn.Return
	for idx, local := range e.fn.Locals {
		id := mir.LocalID(idx)
		if plan.Indirect() && id == plan.Slot {
			continue
		}
		e.cur.AllocaInto(localPtrName(id), e.te.Name(local.Type))
	}
	for i, p := range e.fn.Params {
		typeName := e.te.Name(p.Type)
		e.cur.Store(typeName, e.params[i], typeName+"*", localPtrName(p.Local))
	}
}

func (e *emitter) emitPhi(phi mir.PhiNode) {
	typeName := e.te.Name(e.fn.TempType(phi.Dest))
	incomings := make([]PhiIncomingText, 0, len(phi.Incoming))
	for _, in := range phi.Incoming {
		incomings = append(incomings, PhiIncomingText{
			Value: TempName(uint32(in.Value)),
			Label: e.blocks[in.Pred].Label(),
		})
	}
	e.cur.PhiInto(TempName(uint32(phi.Dest)), typeName, incomings)
}

func (e *emitter) emitStatement(stmt mir.Statement) {
	switch s := stmt.(type) {
	case *mir.Define:
		e.emitRValueInto(TempName(uint32(s.Dest)), e.fn.TempType(s.Dest), s.RV)
	case *mir.Load:
		place := e.translatePlace(s.Src)
		valueType := e.te.Name(place.pointee)
		e.cur.LoadInto(TempName(uint32(s.Dest)), valueType, e.te.PointerName(place.pointee), place.pointer)
	case *mir.Assign:
		src := e.operand(s.Src)
		dest := e.translatePlace(s.Dest)
		e.cur.Store(src.typeName, src.value, e.te.PointerName(dest.pointee), dest.pointer)
	case *mir.Init:
		e.emitInit(s)
	case *mir.Call:
		e.emitCall(s)
	default:
		ice("unknown statement kind %T", stmt)
	}
}

// emitInit builds an aggregate value in registers and stores it into the
// destination in one shot. All-zero shapes store zeroinitializer directly.
func (e *emitter) emitInit(s *mir.Init) {
	dest := e.translatePlace(s.Dest)
	aggType := e.te.Name(dest.pointee)
	ptrType := e.te.PointerName(dest.pointee)

	switch rv := s.RV.(type) {
	case mir.AggregateRValue:
		if len(rv.Elements) == 0 {
			e.cur.Store(aggType, "zeroinitializer", ptrType, dest.pointer)
			return
		}
		value := "undef"
		for i, elem := range rv.Elements {
			op := e.operand(elem)
			value = e.cur.Insert(aggType, value, op.typeName, op.value, i, "agg")
		}
		e.cur.Store(aggType, value, ptrType, dest.pointer)
	case mir.RepeatRValue:
		if rv.Count == 0 || isZeroConstant(rv.Value) {
			e.cur.Store(aggType, "zeroinitializer", ptrType, dest.pointer)
			return
		}
		elem := e.operand(rv.Value)
		value := "undef"
		for i := 0; i < rv.Count; i++ {
			value = e.cur.Insert(aggType, value, elem.typeName, elem.value, i, "agg")
		}
		e.cur.Store(aggType, value, ptrType, dest.pointer)
	default:
		ice("init statement carries non-aggregate rvalue %T", s.RV)
	}
}

func (e *emitter) emitCall(s *mir.Call) {
	args := make([]Arg, 0, len(s.Args))
	for _, a := range s.Args {
		op := e.operand(a)
		args = append(args, Arg{Type: op.typeName, Value: op.value})
	}

	var callee string
	var retName string
	switch s.Target.Kind {
	case mir.CallInternal:
		if int(s.Target.ID) >= len(e.mod.Functions) {
			ice("call to unknown function %d", s.Target.ID)
		}
		fn := e.mod.Functions[s.Target.ID]
		callee = "@" + fn.Name
		retName = "void"
		if fn.Return.Kind == mir.RetDirect {
			retName = e.te.Name(fn.Return.Type)
		}
	case mir.CallExternal:
		if int(s.Target.ID) >= len(e.mod.Externs) {
			ice("call to unknown external %d", s.Target.ID)
		}
		ext := e.mod.Externs[s.Target.ID]
		callee = "@" + ext.Name
		retName, _ = e.returnSpelling(ext.Return)
	default:
		ice("unknown call target kind %d", s.Target.Kind)
	}

	if s.Dest != mir.InvalidTemp {
		e.cur.CallInto(TempName(uint32(s.Dest)), retName, callee, args)
		return
	}
	e.cur.Call(retName, callee, args, "")
}

func (e *emitter) emitTerminator(term mir.Terminator) {
	switch t := term.(type) {
	case *mir.Goto:
		e.cur.Br(e.blocks[t.Target].Label())
	case *mir.SwitchInt:
		discr := e.operand(t.Discr)
		cases := make([]SwitchCase, 0, len(t.Arms))
		for _, arm := range t.Arms {
			cases = append(cases, SwitchCase{
				Value: constantLiteral(arm.Value),
				Label: e.blocks[arm.Target].Label(),
			})
		}
		e.cur.Switch(discr.typeName, discr.value, e.blocks[t.Otherwise].Label(), cases)
	case *mir.Return:
		if t.Value == nil {
			e.cur.RetVoid()
			return
		}
		op := e.operand(t.Value)
		e.cur.Ret(op.typeName, op.value)
	case *mir.Unreachable:
		e.cur.Unreachable()
	default:
		ice("unknown terminator kind %T", term)
	}
}

type translatedPlace struct {
	pointer string
	pointee types.TypeID
}

// translatePlace resolves a place to a pointer value. Projections become one
// getelementptr with a leading zero index.
func (e *emitter) translatePlace(p mir.Place) translatedPlace {
	var pointer string
	var baseType types.TypeID

	switch base := p.Base.(type) {
	case mir.LocalPlace:
		if int(base.Local) >= len(e.fn.Locals) {
			ice("place references unknown local %d", base.Local)
		}
		pointer = localPtrName(base.Local)
		baseType = e.fn.Local(base.Local).Type
	case mir.GlobalPlace:
		if int(base.Global) >= len(e.mod.Globals) {
			ice("place references unknown global %d", base.Global)
		}
		g := e.mod.Globals[base.Global].(*mir.StringGlobal)
		pointer = globalName(base.Global)
		baseType = e.in.Array(e.in.Primitive(types.Char), len(g.Data))
	case mir.PointerPlace:
		pointer = TempName(uint32(base.Temp))
		pointee, ok := e.in.Deref(e.fn.TempType(base.Temp))
		if !ok {
			ice("pointer place on a non-reference temp")
		}
		baseType = pointee
	default:
		ice("unknown place base %T", p.Base)
	}

	if len(p.Projections) == 0 {
		return translatedPlace{pointer: pointer, pointee: baseType}
	}

	current := baseType
	indices := []Index{{Type: "i32", Value: "0"}}
	for _, proj := range p.Projections {
		switch pr := proj.(type) {
		case mir.FieldProjection:
			indices = append(indices, Index{Type: "i32", Value: strconv.Itoa(pr.Index)})
			field, ok := e.in.Field(current, pr.Index)
			if !ok {
				ice("field projection %d on non-struct %s", pr.Index, e.in.String(current))
			}
			current = field
		case mir.IndexProjection:
			op := e.operand(pr.Index)
			indices = append(indices, Index{Type: op.typeName, Value: op.value})
			elem, ok := e.in.Elem(current)
			if !ok {
				ice("index projection on non-array %s", e.in.String(current))
			}
			current = elem
		default:
			ice("unknown projection kind %T", proj)
		}
	}

	result := e.cur.GEP(e.te.Name(baseType), e.te.PointerName(baseType), pointer, indices, "proj")
	return translatedPlace{pointer: result, pointee: current}
}

func (e *emitter) emitRValueInto(dest string, destType types.TypeID, rv mir.RValue) {
	switch v := rv.(type) {
	case mir.ConstantRValue:
		e.materializeConstant(v.C, destType, dest)
	case mir.BinaryRValue:
		lhs := e.operand(v.LHS)
		rhs := e.operand(v.RHS)
		opcode, pred, isCmp := binarySpec(v.Kind)
		if isCmp {
			e.cur.ICmpInto(dest, pred, lhs.typeName, lhs.value, rhs.value)
			return
		}
		e.cur.BinaryInto(dest, opcode, lhs.typeName, lhs.value, rhs.value)
	case mir.UnaryRValue:
		e.emitUnaryInto(dest, destType, v)
	case mir.RefRValue:
		place := e.translatePlace(v.Place)
		e.cur.CastInto(dest, "bitcast", e.te.PointerName(place.pointee), place.pointer, e.te.Name(destType))
	case mir.AggregateRValue:
		e.emitAggregateInto(dest, destType, v.Elements)
	case mir.RepeatRValue:
		e.emitRepeatInto(dest, destType, v)
	case mir.CastRValue:
		e.emitCastInto(dest, destType, v)
	case mir.ExtractRValue:
		baseType := e.fn.TempType(v.Base)
		e.cur.ExtractInto(dest, e.te.Name(baseType), TempName(uint32(v.Base)), v.Index)
	default:
		ice("unknown rvalue kind %T", rv)
	}
}

func (e *emitter) emitUnaryInto(dest string, destType types.TypeID, v mir.UnaryRValue) {
	op := e.operand(v.Operand)
	switch v.Kind {
	case mir.Not:
		// Bools flip the low bit; integers flip them all.
		rhs := "-1"
		if e.in.IsBool(op.typ) {
			rhs = "1"
		}
		e.cur.BinaryInto(dest, "xor", op.typeName, op.value, rhs)
	case mir.Neg:
		e.cur.BinaryInto(dest, "sub", op.typeName, "0", op.value)
	case mir.Deref:
		e.cur.LoadInto(dest, e.te.Name(destType), e.te.PointerName(destType), op.value)
	default:
		ice("unknown unary kind %d", v.Kind)
	}
}

func (e *emitter) emitAggregateInto(dest string, destType types.TypeID, elements []mir.Operand) {
	aggType := e.te.Name(destType)
	if len(elements) == 0 {
		e.spillConstantInto(dest, aggType, "zeroinitializer")
		return
	}
	value := "undef"
	for i, elem := range elements {
		op := e.operand(elem)
		if i+1 == len(elements) {
			value = e.cur.InsertInto(dest, aggType, value, op.typeName, op.value, i)
		} else {
			value = e.cur.Insert(aggType, value, op.typeName, op.value, i, "agg")
		}
	}
}

func (e *emitter) emitRepeatInto(dest string, destType types.TypeID, v mir.RepeatRValue) {
	aggType := e.te.Name(destType)
	if v.Count == 0 || isZeroConstant(v.Value) {
		e.spillConstantInto(dest, aggType, "zeroinitializer")
		return
	}
	elem := e.operand(v.Value)
	value := "undef"
	for i := 0; i < v.Count; i++ {
		if i+1 == v.Count {
			value = e.cur.InsertInto(dest, aggType, value, elem.typeName, elem.value, i)
		} else {
			value = e.cur.Insert(aggType, value, elem.typeName, elem.value, i, "agg")
		}
	}
}

func (e *emitter) emitCastInto(dest string, destType types.TypeID, v mir.CastRValue) {
	target := v.Target
	if target == types.InvalidType {
		target = destType
	}
	op := e.operand(v.Value)
	targetName := e.te.Name(target)

	if op.typ == target {
		e.cur.BinaryInto(dest, "add", targetName, op.value, "0")
		return
	}

	if e.isIntegerLike(op.typ) && e.isIntegerLike(target) {
		from := e.bitWidth(op.typ)
		to := e.bitWidth(target)
		switch {
		case to > from:
			opcode := "zext"
			if e.in.IsSignedInt(op.typ) {
				opcode = "sext"
			}
			e.cur.CastInto(dest, opcode, op.typeName, op.value, targetName)
		case to < from:
			e.cur.CastInto(dest, "trunc", op.typeName, op.value, targetName)
		default:
			e.cur.BinaryInto(dest, "add", targetName, op.value, "0")
		}
		return
	}

	if e.in.IsReference(op.typ) && e.in.IsReference(target) {
		e.cur.CastInto(dest, "bitcast", op.typeName, op.value, targetName)
		return
	}

	ice("unsupported cast from %s to %s", e.in.String(op.typ), e.in.String(target))
}

func (e *emitter) isIntegerLike(id types.TypeID) bool {
	return e.in.IsInteger(id) || e.in.IsBool(id)
}

func (e *emitter) bitWidth(id types.TypeID) int {
	if e.in.IsBool(id) {
		return 1
	}
	p, ok := e.in.Lookup(id).(types.PrimitiveType)
	if !ok {
		ice("bit width of non-primitive %s", e.in.String(id))
	}
	switch p.Kind {
	case types.Char, types.Str:
		return 8
	default:
		return 32
	}
}

// operand renders an operand, materializing constants that need a register.
func (e *emitter) operand(op mir.Operand) typedOperand {
	switch o := op.(type) {
	case mir.TempID:
		typ := e.fn.TempType(o)
		return typedOperand{typeName: e.te.Name(typ), value: TempName(uint32(o)), typ: typ}
	case mir.Constant:
		return e.materializeConstant(o, types.InvalidType, "")
	}
	ice("operand is neither temp nor constant")
	return typedOperand{}
}

// materializeConstant turns a constant into a register value. Plain scalars
// become an add against zero; strings become a pointer into their global.
// dest forces the result name when non-empty.
func (e *emitter) materializeConstant(c mir.Constant, fallback types.TypeID, dest string) typedOperand {
	typ := c.Type
	if typ == types.InvalidType {
		typ = fallback
	}
	if typ == types.InvalidType {
		ice("constant missing resolved type")
	}

	if s, ok := c.Value.(mir.StringConst); ok {
		return e.stringOperand(s, typ, dest)
	}
	if _, ok := c.Value.(mir.UnitConst); ok {
		return typedOperand{typeName: e.te.Name(typ), value: "zeroinitializer", typ: typ}
	}

	typeName := e.te.Name(typ)
	literal := constantLiteral(c)
	var value string
	if dest != "" {
		value = e.cur.BinaryInto(dest, "add", typeName, "0", literal)
	} else {
		value = e.cur.Binary("add", typeName, "0", literal, "")
	}
	return typedOperand{typeName: typeName, value: value, typ: typ}
}

// stringOperand yields a pointer to the first byte of an interned string,
// bitcast only when the result type is not already a byte pointer.
func (e *emitter) stringOperand(s mir.StringConst, typ types.TypeID, dest string) typedOperand {
	arrayType := "[" + strconv.Itoa(len(s.Data)) + " x i8]"
	destName := e.te.Name(typ)
	needsCast := destName != "i8*"
	indices := []Index{{Type: "i32", Value: "0"}, {Type: "i32", Value: "0"}}

	var ptr string
	if dest != "" && !needsCast {
		ptr = e.cur.GEPInto(dest, arrayType, arrayType+"*", globalName(s.Global), indices)
	} else {
		ptr = e.cur.GEP(arrayType, arrayType+"*", globalName(s.Global), indices, "str")
	}

	value := ptr
	if needsCast {
		if dest != "" {
			value = e.cur.CastInto(dest, "bitcast", "i8*", ptr, destName)
		} else {
			value = e.cur.Cast("bitcast", "i8*", ptr, destName, "str")
		}
	}
	return typedOperand{typeName: destName, value: value, typ: typ}
}

// spillConstantInto routes an aggregate literal through a scratch stack slot
// so it can occupy a register without an element-wise build.
func (e *emitter) spillConstantInto(dest, typeName, literal string) {
	scratch := e.fb.EntryAlloca(typeName, "const.tmp")
	e.fb.EntryStore(typeName, literal, typeName+"*", scratch)
	e.cur.LoadInto(dest, typeName, typeName+"*", scratch)
}

func constantLiteral(c mir.Constant) string {
	switch v := c.Value.(type) {
	case mir.BoolConst:
		if v.V {
			return "1"
		}
		return "0"
	case mir.IntConst:
		if v.Negative {
			return "-" + strconv.FormatUint(v.Value, 10)
		}
		return strconv.FormatUint(v.Value, 10)
	case mir.CharConst:
		return strconv.Itoa(int(v.V))
	case mir.StringConst:
		ice("string constants cannot be inlined as immediates")
	case mir.UnitConst:
		return "zeroinitializer"
	}
	ice("unknown constant kind %T", c.Value)
	return ""
}

func isZeroConstant(op mir.Operand) bool {
	c, ok := op.(mir.Constant)
	return ok && c.IsZero()
}

func binarySpec(k mir.BinKind) (opcode, predicate string, isCompare bool) {
	switch k {
	case mir.IAdd, mir.UAdd:
		return "add", "", false
	case mir.ISub, mir.USub:
		return "sub", "", false
	case mir.IMul, mir.UMul:
		return "mul", "", false
	case mir.IDiv:
		return "sdiv", "", false
	case mir.UDiv:
		return "udiv", "", false
	case mir.IRem:
		return "srem", "", false
	case mir.URem:
		return "urem", "", false
	case mir.BitAnd:
		return "and", "", false
	case mir.BitOr:
		return "or", "", false
	case mir.BitXor:
		return "xor", "", false
	case mir.Shl:
		return "shl", "", false
	case mir.ShrLogic:
		return "lshr", "", false
	case mir.ShrArith:
		return "ashr", "", false
	case mir.ICmpEq, mir.UCmpEq, mir.BoolEq:
		return "icmp", "eq", true
	case mir.ICmpNe, mir.UCmpNe, mir.BoolNe:
		return "icmp", "ne", true
	case mir.ICmpLt:
		return "icmp", "slt", true
	case mir.ICmpLe:
		return "icmp", "sle", true
	case mir.ICmpGt:
		return "icmp", "sgt", true
	case mir.ICmpGe:
		return "icmp", "sge", true
	case mir.UCmpLt:
		return "icmp", "ult", true
	case mir.UCmpLe:
		return "icmp", "ule", true
	case mir.UCmpGt:
		return "icmp", "ugt", true
	case mir.UCmpGe:
		return "icmp", "uge", true
	}
	ice("unknown binary kind %d", k)
	return "", "", false
}

// escapeString renders raw bytes in the c"..." form: printable ASCII stays,
// a few escapes get two-digit hex, everything else two-digit octal.
func escapeString(data []byte) string {
	var b strings.Builder
	for _, ch := range data {
		switch ch {
		case '\\':
			b.WriteString("\\5C")
		case '"':
			b.WriteString("\\22")
		case '\n':
			b.WriteString("\\0A")
		case '\r':
			b.WriteString("\\0D")
		case '\t':
			b.WriteString("\\09")
		default:
			if ch >= 0x20 && ch < 0x7F {
				b.WriteByte(ch)
			} else {
				b.WriteByte('\\')
				oct := strconv.FormatUint(uint64(ch), 8)
				if len(oct) < 2 {
					oct = "0" + oct
				}
				b.WriteString(strings.ToUpper(oct))
			}
		}
	}
	return b.String()
}
