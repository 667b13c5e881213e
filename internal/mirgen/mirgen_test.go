package mirgen

import (
	"strings"
	"testing"

	"github.com/rogerflowey/rust-compiler-sub003/internal/builtins"
	"github.com/rogerflowey/rust-compiler-sub003/internal/hir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/source"
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// testProgram is the runtime catalog plus a main that prints a constant and
// exits, exercising both pipeline stages end to end.
func testProgram(in *types.Interner) *hir.Program {
	decls := builtins.Declare(in)
	byName := make(map[string]*hir.Function, len(decls))
	for _, fn := range decls {
		byName[fn.Name] = fn
	}

	i32 := in.Primitive(types.I32)
	mainFn := &hir.Function{
		Name:   "main",
		Return: in.Unit(),
		Body: &hir.Block{
			Stmts: []hir.Stmt{
				&hir.ExprStmt{Expr: &hir.Call{
					Callee: byName["printlnInt"],
					Args: []hir.Expr{&hir.Literal{
						Kind: hir.LitInt, IntVal: 42, Signed: true,
						Type: i32, Span: source.NoSpan,
					}},
					Type: in.Unit(),
					Span: source.NoSpan,
				}},
				&hir.ExprStmt{Expr: &hir.Call{
					Callee: byName["exit"],
					Args: []hir.Expr{&hir.Literal{
						Kind: hir.LitInt, Signed: true,
						Type: i32, Span: source.NoSpan,
					}},
					Type: in.Never(),
					Span: source.NoSpan,
				}},
			},
			Type: in.Never(),
			Span: source.NoSpan,
		},
		Span: source.NoSpan,
	}

	return &hir.Program{Functions: append(decls, mainFn)}
}

func TestGenerate(t *testing.T) {
	in := types.NewInterner()
	res, err := Generate(in, testProgram(in), Options{DumpMIR: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if res.Module == nil || len(res.Module.Functions) != 1 {
		t.Fatalf("module must carry the single lowered function")
	}
	for _, want := range []string{
		"declare dso_local void @printlnInt(i32)",
		"declare dso_local void @exit(i32)",
		"define void @main() {",
		"call void @printlnInt(i32 %tmp)",
		"unreachable",
	} {
		if !strings.Contains(res.IR, want) {
			t.Errorf("missing %q in IR:\n%s", want, res.IR)
		}
	}
	if !strings.Contains(res.MIRDump, "fn main() -> ") {
		t.Errorf("MIR dump missing main:\n%s", res.MIRDump)
	}
}

func TestGenerateSkipsDumpByDefault(t *testing.T) {
	in := types.NewInterner()
	res, err := Generate(in, testProgram(in), Options{ModuleID: "demo"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.MIRDump != "" {
		t.Errorf("dump must be empty unless requested")
	}
	if !strings.HasPrefix(res.IR, "; ModuleID = 'demo'\n") {
		t.Errorf("module id not honored:\n%s", res.IR)
	}
}
