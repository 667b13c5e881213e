package lower

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rogerflowey/rust-compiler-sub003/internal/hir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/mir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/source"
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

func intLit(in *types.Interner, v uint64) *hir.Literal {
	return &hir.Literal{
		Kind:   hir.LitInt,
		IntVal: v,
		Signed: true,
		Type:   in.Primitive(types.I32),
		Span:   source.NoSpan,
	}
}

func boolLit(in *types.Interner, v bool) *hir.Literal {
	return &hir.Literal{
		Kind:    hir.LitBool,
		BoolVal: v,
		Type:    in.Primitive(types.Bool),
		Span:    source.NoSpan,
	}
}

func intConst(in *types.Interner, v uint64) mir.Constant {
	return mir.Constant{
		Type:  in.Primitive(types.I32),
		Value: mir.IntConst{Value: v, Signed: true},
	}
}

func lowerOne(t *testing.T, in *types.Interner, fns ...*hir.Function) *mir.Module {
	t.Helper()
	mod, err := LowerProgram(in, &hir.Program{Functions: fns})
	if err != nil {
		t.Fatalf("LowerProgram: %v", err)
	}
	return mod
}

// checkSingleAssignment asserts every temp is written exactly once.
func checkSingleAssignment(t *testing.T, fn *mir.Function) {
	t.Helper()
	writes := make(map[mir.TempID]int)
	for _, block := range fn.Blocks {
		for _, phi := range block.Phis {
			writes[phi.Dest]++
		}
		for _, stmt := range block.Stmts {
			switch s := stmt.(type) {
			case *mir.Define:
				writes[s.Dest]++
			case *mir.Load:
				writes[s.Dest]++
			case *mir.Call:
				if s.Dest != mir.InvalidTemp {
					writes[s.Dest]++
				}
			}
		}
	}
	for temp, n := range writes {
		if n != 1 {
			t.Errorf("temp t%d written %d times", temp, n)
		}
	}
}

func TestConstantReturn(t *testing.T) {
	in := types.NewInterner()
	fn := &hir.Function{
		Name:   "f",
		Return: in.Primitive(types.I32),
		Body:   &hir.Block{Final: intLit(in, 5), Type: in.Primitive(types.I32), Span: source.NoSpan},
		Span:   source.NoSpan,
	}

	mod := lowerOne(t, in, fn)
	f := mod.Functions[0]

	if len(f.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(f.Blocks))
	}
	if len(f.Blocks[0].Stmts) != 0 {
		t.Fatalf("statements = %d, want 0", len(f.Blocks[0].Stmts))
	}
	want := &mir.Return{Value: intConst(in, 5)}
	if diff := cmp.Diff(want, f.Blocks[0].Term); diff != "" {
		t.Errorf("terminator mismatch (-want +got):\n%s", diff)
	}
}

func TestLetThenUse(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Primitive(types.I32)
	fn := &hir.Function{
		Name:   "f",
		Return: i32,
		Locals: []hir.Local{{Name: "x", Type: i32}},
		Body: &hir.Block{
			Stmts: []hir.Stmt{
				&hir.LetStmt{Local: 0, Init: intLit(in, 1), Span: source.NoSpan},
			},
			Final: &hir.VarRef{Local: 0, Type: i32, Span: source.NoSpan},
			Type:  i32,
			Span:  source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mod := lowerOne(t, in, fn)
	f := mod.Functions[0]
	checkSingleAssignment(t, f)

	wantStmts := []mir.Statement{
		&mir.Assign{Dest: mir.PlaceForLocal(0), Src: intConst(in, 1)},
		&mir.Load{Dest: 0, Src: mir.PlaceForLocal(0)},
	}
	if diff := cmp.Diff(wantStmts, f.Blocks[0].Stmts); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
	want := &mir.Return{Value: mir.TempID(0)}
	if diff := cmp.Diff(want, f.Blocks[0].Term); diff != "" {
		t.Errorf("terminator mismatch (-want +got):\n%s", diff)
	}
}

func TestIfValuePhi(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Primitive(types.I32)
	fn := &hir.Function{
		Name:   "f",
		Return: i32,
		Body: &hir.Block{
			Final: &hir.If{
				Cond: boolLit(in, true),
				Then: &hir.Block{Final: intLit(in, 10), Type: i32, Span: source.NoSpan},
				Else: &hir.Block{Final: intLit(in, 20), Type: i32, Span: source.NoSpan},
				Type: i32,
				Span: source.NoSpan,
			},
			Type: i32,
			Span: source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mod := lowerOne(t, in, fn)
	f := mod.Functions[0]
	checkSingleAssignment(t, f)

	if len(f.Blocks) != 4 {
		t.Fatalf("blocks = %d, want 4", len(f.Blocks))
	}

	var phis int
	var merge *mir.PhiNode
	var mergeBlock mir.BlockID
	for id, block := range f.Blocks {
		for i := range block.Phis {
			phis++
			merge = &block.Phis[i]
			mergeBlock = mir.BlockID(id)
		}
	}
	if phis != 1 {
		t.Fatalf("phi count = %d, want 1", phis)
	}
	if len(merge.Incoming) != 2 {
		t.Fatalf("phi incomings = %d, want 2", len(merge.Incoming))
	}

	// Every phi predecessor must actually branch to the merge block.
	for _, incoming := range merge.Incoming {
		term, ok := f.Blocks[incoming.Pred].Term.(*mir.Goto)
		if !ok || term.Target != mergeBlock {
			t.Errorf("incoming block b%d does not jump to the merge block", incoming.Pred)
		}
	}

	// The entry must branch on the condition with a single true arm.
	sw, ok := f.Blocks[f.Start].Term.(*mir.SwitchInt)
	if !ok {
		t.Fatalf("entry terminator is %T, want SwitchInt", f.Blocks[f.Start].Term)
	}
	if len(sw.Arms) != 1 {
		t.Fatalf("switch arms = %d, want 1", len(sw.Arms))
	}
}

func TestReferenceToValueMaterializes(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Primitive(types.I32)
	ref := in.Reference(i32, false)
	fn := &hir.Function{
		Name:   "f",
		Return: in.Unit(),
		Locals: []hir.Local{{Name: "r", Type: ref}},
		Body: &hir.Block{
			Stmts: []hir.Stmt{
				&hir.LetStmt{Local: 0, Init: &hir.Ref{
					Operand: intLit(in, 5),
					Type:    ref,
					Span:    source.NoSpan,
				}, Span: source.NoSpan},
			},
			Type: in.Unit(),
			Span: source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mod := lowerOne(t, in, fn)
	f := mod.Functions[0]
	checkSingleAssignment(t, f)

	if len(f.Locals) != 2 {
		t.Fatalf("locals = %d, want 2 (the binding plus one materialized slot)", len(f.Locals))
	}
	wantStmts := []mir.Statement{
		&mir.Assign{Dest: mir.PlaceForLocal(1), Src: intConst(in, 5)},
		&mir.Define{Dest: 0, RV: mir.RefRValue{Place: mir.PlaceForLocal(1)}},
		&mir.Assign{Dest: mir.PlaceForLocal(0), Src: mir.TempID(0)},
	}
	if diff := cmp.Diff(wantStmts, f.Blocks[0].Stmts); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestLoopBreakValue(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Primitive(types.I32)
	loop := &hir.Loop{Type: i32, Span: source.NoSpan}
	loop.Body = &hir.Block{
		Stmts: []hir.Stmt{
			&hir.ExprStmt{Expr: &hir.Break{Target: loop, Value: intLit(in, 7), Span: source.NoSpan}},
		},
		Type: in.Never(),
		Span: source.NoSpan,
	}
	fn := &hir.Function{
		Name:   "f",
		Return: i32,
		Body:   &hir.Block{Final: loop, Type: i32, Span: source.NoSpan},
		Span:   source.NoSpan,
	}

	mod := lowerOne(t, in, fn)
	f := mod.Functions[0]
	checkSingleAssignment(t, f)

	if len(f.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3 (entry, body, exit)", len(f.Blocks))
	}

	exit := f.Blocks[2]
	if len(exit.Phis) != 1 {
		t.Fatalf("exit phis = %d, want 1", len(exit.Phis))
	}
	if len(exit.Phis[0].Incoming) != 1 {
		t.Fatalf("exit phi incomings = %d, want 1", len(exit.Phis[0].Incoming))
	}
	ret, ok := exit.Term.(*mir.Return)
	if !ok || ret.Value != exit.Phis[0].Dest {
		t.Errorf("exit must return the merged break value")
	}
}

func TestInfiniteLoopExitUnreachable(t *testing.T) {
	in := types.NewInterner()
	loop := &hir.Loop{Type: in.Never(), Span: source.NoSpan}
	loop.Body = &hir.Block{Type: in.Unit(), Span: source.NoSpan}
	fn := &hir.Function{
		Name:   "f",
		Return: in.Never(),
		Body:   &hir.Block{Final: loop, Type: in.Never(), Span: source.NoSpan},
		Span:   source.NoSpan,
	}

	mod := lowerOne(t, in, fn)
	f := mod.Functions[0]

	body := f.Blocks[1]
	back, ok := body.Term.(*mir.Goto)
	if !ok || back.Target != 1 {
		t.Errorf("loop body must jump back to itself, got %v", body.Term)
	}
	if _, ok := f.Blocks[2].Term.(*mir.Unreachable); !ok {
		t.Errorf("exit of a breakless loop must be unreachable, got %T", f.Blocks[2].Term)
	}
}

func TestWhileShape(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Primitive(types.I32)
	boolT := in.Primitive(types.Bool)
	while := &hir.While{Span: source.NoSpan}
	while.Cond = &hir.Binary{
		Op: hir.OpLt, Domain: hir.DomainSignedInt,
		LHS:  &hir.VarRef{Local: 0, Type: i32, Span: source.NoSpan},
		RHS:  intLit(in, 3),
		Type: boolT,
		Span: source.NoSpan,
	}
	while.Body = &hir.Block{
		Stmts: []hir.Stmt{
			&hir.ExprStmt{Expr: &hir.Assign{
				Target: &hir.VarRef{Local: 0, Type: i32, Span: source.NoSpan},
				Value: &hir.Binary{
					Op: hir.OpAdd, Domain: hir.DomainSignedInt,
					LHS:  &hir.VarRef{Local: 0, Type: i32, Span: source.NoSpan},
					RHS:  intLit(in, 1),
					Type: i32,
					Span: source.NoSpan,
				},
				Span: source.NoSpan,
			}},
		},
		Type: in.Unit(),
		Span: source.NoSpan,
	}
	fn := &hir.Function{
		Name:   "f",
		Return: in.Unit(),
		Locals: []hir.Local{{Name: "i", Type: i32, Mutable: true}},
		Body: &hir.Block{
			Stmts: []hir.Stmt{
				&hir.LetStmt{Local: 0, Init: intLit(in, 0), Span: source.NoSpan},
				&hir.ExprStmt{Expr: while},
			},
			Type: in.Unit(),
			Span: source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mod := lowerOne(t, in, fn)
	f := mod.Functions[0]
	checkSingleAssignment(t, f)

	if len(f.Blocks) != 4 {
		t.Fatalf("blocks = %d, want 4 (entry, header, body, exit)", len(f.Blocks))
	}

	header, body, exit := f.Blocks[1], f.Blocks[2], f.Blocks[3]
	sw, ok := header.Term.(*mir.SwitchInt)
	if !ok || sw.Otherwise != 3 || sw.Arms[0].Target != 2 {
		t.Errorf("header must branch body/exit, got %v", header.Term)
	}
	back, ok := body.Term.(*mir.Goto)
	if !ok || back.Target != 1 {
		t.Errorf("body must jump back to the header, got %v", body.Term)
	}
	if _, ok := exit.Term.(*mir.Return); !ok {
		t.Errorf("exit must return, got %T", exit.Term)
	}
}

func TestShortCircuitAnd(t *testing.T) {
	in := types.NewInterner()
	boolT := in.Primitive(types.Bool)
	fn := &hir.Function{
		Name:   "f",
		Return: boolT,
		Locals: []hir.Local{{Name: "a", Type: boolT}, {Name: "b", Type: boolT}},
		Params: []hir.Param{
			{Local: 0, Name: "a", Type: boolT},
			{Local: 1, Name: "b", Type: boolT},
		},
		Body: &hir.Block{
			Final: &hir.Binary{
				Op: hir.OpLogicalAnd, Domain: hir.DomainBool,
				LHS:  &hir.VarRef{Local: 0, Type: boolT, Span: source.NoSpan},
				RHS:  &hir.VarRef{Local: 1, Type: boolT, Span: source.NoSpan},
				Type: boolT,
				Span: source.NoSpan,
			},
			Type: boolT,
			Span: source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mod := lowerOne(t, in, fn)
	f := mod.Functions[0]
	checkSingleAssignment(t, f)

	if len(f.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3 (entry, rhs, join)", len(f.Blocks))
	}

	// The false edge skips the right operand entirely.
	sw, ok := f.Blocks[0].Term.(*mir.SwitchInt)
	if !ok || sw.Arms[0].Target != 1 || sw.Otherwise != 2 {
		t.Fatalf("entry branch shape wrong: %v", f.Blocks[0].Term)
	}

	join := f.Blocks[2]
	if len(join.Phis) != 1 || len(join.Phis[0].Incoming) != 2 {
		t.Fatalf("join must merge both edges with one phi")
	}
	if join.Phis[0].Incoming[0].Pred != 0 {
		t.Errorf("first incoming must come from the short-circuit block")
	}

	// The short value is a pre-materialized false in the entry block.
	var foundShort bool
	for _, stmt := range f.Blocks[0].Stmts {
		if def, ok := stmt.(*mir.Define); ok && def.Dest == join.Phis[0].Incoming[0].Value {
			rv, ok := def.RV.(mir.ConstantRValue)
			if !ok {
				t.Fatalf("short value defined by %T, want constant", def.RV)
			}
			if bc, ok := rv.C.Value.(mir.BoolConst); !ok || bc.V {
				t.Errorf("short value of && must be false")
			}
			foundShort = true
		}
	}
	if !foundShort {
		t.Errorf("short value must be materialized before the branch")
	}
}

func TestIndirectReturnNRVO(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Primitive(types.I32)
	pairID := in.DefineStruct("Pair", []types.StructField{
		{Name: "a", Type: i32},
		{Name: "b", Type: i32},
	})
	pair := in.StructOf(pairID)

	fn := &hir.Function{
		Name:   "make",
		Return: pair,
		Locals: []hir.Local{{Name: "p", Type: pair}},
		Body: &hir.Block{
			Stmts: []hir.Stmt{
				&hir.LetStmt{Local: 0, Init: &hir.StructLit{
					Fields: []hir.Expr{intLit(in, 1), intLit(in, 2)},
					Type:   pair,
					Span:   source.NoSpan,
				}, Span: source.NoSpan},
			},
			Final: &hir.VarRef{Local: 0, Type: pair, Span: source.NoSpan},
			Type:  pair,
			Span:  source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mod := lowerOne(t, in, fn)
	f := mod.Functions[0]

	if f.Return.Kind != mir.RetIndirect {
		t.Fatalf("return kind = %v, want indirect", f.Return.Kind)
	}
	if !f.Return.NRVO || f.Return.Slot != 0 {
		t.Fatalf("return slot must reuse local p, got slot %d nrvo %v", f.Return.Slot, f.Return.NRVO)
	}
	if len(f.Locals) != 1 {
		t.Fatalf("locals = %d, want 1 (no synthesized slot)", len(f.Locals))
	}

	// The literal initializes the slot directly; returning p is elided.
	wantStmts := []mir.Statement{
		&mir.Init{Dest: mir.PlaceForLocal(0), RV: mir.AggregateRValue{
			Kind:     mir.AggStruct,
			Elements: []mir.Operand{intConst(in, 1), intConst(in, 2)},
		}},
	}
	if diff := cmp.Diff(wantStmts, f.Blocks[0].Stmts); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
	ret, ok := f.Blocks[0].Term.(*mir.Return)
	if !ok || ret.Value != nil {
		t.Errorf("indirect return must be a void return, got %v", f.Blocks[0].Term)
	}
}

func TestIndirectCallPassesHiddenPointer(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Primitive(types.I32)
	pairID := in.DefineStruct("Pair2", []types.StructField{
		{Name: "a", Type: i32},
		{Name: "b", Type: i32},
	})
	pair := in.StructOf(pairID)

	callee := &hir.Function{
		Name:   "make",
		Return: pair,
		Locals: []hir.Local{{Name: "p", Type: pair}},
		Body: &hir.Block{
			Stmts: []hir.Stmt{
				&hir.LetStmt{Local: 0, Init: &hir.StructLit{
					Fields: []hir.Expr{intLit(in, 1), intLit(in, 2)},
					Type:   pair,
					Span:   source.NoSpan,
				}, Span: source.NoSpan},
			},
			Final: &hir.VarRef{Local: 0, Type: pair, Span: source.NoSpan},
			Type:  pair,
			Span:  source.NoSpan,
		},
		Span: source.NoSpan,
	}
	caller := &hir.Function{
		Name:   "use",
		Return: in.Unit(),
		Locals: []hir.Local{{Name: "x", Type: pair}},
		Body: &hir.Block{
			Stmts: []hir.Stmt{
				&hir.LetStmt{Local: 0, Init: &hir.Call{
					Callee: callee,
					Type:   pair,
					Span:   source.NoSpan,
				}, Span: source.NoSpan},
			},
			Type: in.Unit(),
			Span: source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mod := lowerOne(t, in, callee, caller)
	f := mod.Functions[1]

	wantStmts := []mir.Statement{
		&mir.Define{Dest: 0, RV: mir.RefRValue{Place: mir.PlaceForLocal(0)}},
		&mir.Call{
			Dest:   mir.InvalidTemp,
			Target: mir.CallTarget{Kind: mir.CallInternal, ID: 0},
			Args:   []mir.Operand{mir.TempID(0)},
		},
	}
	if diff := cmp.Diff(wantStmts, f.Blocks[0].Stmts); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestNeverCallTerminatesBlock(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Primitive(types.I32)
	exit := &hir.Function{
		Name:   "exit",
		Return: in.Never(),
		Locals: []hir.Local{{Name: "code", Type: i32}},
		Params: []hir.Param{{Local: 0, Name: "code", Type: i32}},
		Span:   source.NoSpan,
	}
	fn := &hir.Function{
		Name:   "f",
		Return: in.Unit(),
		Body: &hir.Block{
			Stmts: []hir.Stmt{
				&hir.ExprStmt{Expr: &hir.Call{
					Callee: exit,
					Args:   []hir.Expr{intLit(in, 1)},
					Type:   in.Never(),
					Span:   source.NoSpan,
				}},
			},
			Type: in.Never(),
			Span: source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mod := lowerOne(t, in, exit, fn)
	if len(mod.Externs) != 1 || mod.Externs[0].Name != "exit" {
		t.Fatalf("exit must lower to an external declaration")
	}
	f := mod.Functions[0]
	if _, ok := f.Blocks[0].Term.(*mir.Unreachable); !ok {
		t.Errorf("a call that cannot return must seal the block, got %T", f.Blocks[0].Term)
	}
}

func TestStringLiteralsInterned(t *testing.T) {
	in := types.NewInterner()
	str := in.Reference(in.Primitive(types.Str), false)
	print := &hir.Function{
		Name:   "print",
		Return: in.Unit(),
		Locals: []hir.Local{{Name: "s", Type: str}},
		Params: []hir.Param{{Local: 0, Name: "s", Type: str}},
		Span:   source.NoSpan,
	}
	lit := func(s string) *hir.Literal {
		return &hir.Literal{Kind: hir.LitString, StrVal: s, Type: str, Span: source.NoSpan}
	}
	call := func(arg hir.Expr) hir.Stmt {
		return &hir.ExprStmt{Expr: &hir.Call{
			Callee: print,
			Args:   []hir.Expr{arg},
			Type:   in.Unit(),
			Span:   source.NoSpan,
		}}
	}
	fn := &hir.Function{
		Name:   "f",
		Return: in.Unit(),
		Body: &hir.Block{
			Stmts: []hir.Stmt{call(lit("hi")), call(lit("hi")), call(lit("bye"))},
			Type:  in.Unit(),
			Span:  source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mod := lowerOne(t, in, print, fn)
	if len(mod.Globals) != 2 {
		t.Fatalf("globals = %d, want 2 (identical literals share one entry)", len(mod.Globals))
	}
	first := mod.Globals[0].(*mir.StringGlobal)
	if string(first.Data) != "hi\x00" {
		t.Errorf("first global = %q, want NUL-terminated hi", first.Data)
	}
}

func TestNestedBreakTargetsOuterLoop(t *testing.T) {
	in := types.NewInterner()
	outer := &hir.Loop{Type: in.Unit(), Span: source.NoSpan}
	inner := &hir.Loop{Type: in.Never(), Span: source.NoSpan}
	inner.Body = &hir.Block{
		Stmts: []hir.Stmt{
			&hir.ExprStmt{Expr: &hir.Break{Target: outer, Span: source.NoSpan}},
		},
		Type: in.Never(),
		Span: source.NoSpan,
	}
	outer.Body = &hir.Block{
		Stmts: []hir.Stmt{&hir.ExprStmt{Expr: inner}},
		Type:  in.Never(),
		Span:  source.NoSpan,
	}
	fn := &hir.Function{
		Name:   "f",
		Return: in.Unit(),
		Body: &hir.Block{
			Stmts: []hir.Stmt{&hir.ExprStmt{Expr: outer}},
			Type:  in.Unit(),
			Span:  source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mod := lowerOne(t, in, fn)
	f := mod.Functions[0]

	// Outer loop: body b1, exit b2. Inner loop: body b3, exit b4.
	innerBody := f.Blocks[3]
	jump, ok := innerBody.Term.(*mir.Goto)
	if !ok || jump.Target != 2 {
		t.Errorf("break inside the inner loop must jump to the outer exit, got %v", innerBody.Term)
	}
}

func TestDivergingFunctionRejectsFallthrough(t *testing.T) {
	in := types.NewInterner()
	fn := &hir.Function{
		Name:   "f",
		Return: in.Never(),
		Body:   &hir.Block{Type: in.Unit(), Span: source.NoSpan},
		Span:   source.NoSpan,
	}

	_, err := LowerProgram(in, &hir.Program{Functions: []*hir.Function{fn}})
	if err == nil {
		t.Fatalf("lowering a never function that falls through must fail")
	}
	if _, ok := err.(*InvariantError); !ok {
		t.Errorf("error type = %T, want InvariantError", err)
	}
}
