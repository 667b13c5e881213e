package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/rogerflowey/rust-compiler-sub003/colors"
	"github.com/rogerflowey/rust-compiler-sub003/internal/builtins"
	"github.com/rogerflowey/rust-compiler-sub003/internal/hir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/mirgen"
	"github.com/rogerflowey/rust-compiler-sub003/internal/source"
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

const version = "0.1.0"

func main() {
	output := flag.String("o", "", "Write IR to file instead of stdout")
	dumpMIR := flag.Bool("dump-mir", false, "Print the MIR to stderr before emission")
	target := flag.String("target", "", "Target triple for the module header")
	layout := flag.String("data-layout", "", "Data layout for the module header")
	showVersion := flag.Bool("v", false, "Show version")
	flag.Parse()

	colors.Enabled = term.IsTerminal(int(os.Stderr.Fd()))

	if *showVersion {
		fmt.Printf("rcc middle end version %s\n", version)
		os.Exit(0)
	}

	in := types.NewInterner()
	prog := demoProgram(in)

	result, err := mirgen.Generate(in, prog, mirgen.Options{
		TargetTriple: *target,
		DataLayout:   *layout,
		DumpMIR:      *dumpMIR,
	})
	if err != nil {
		colors.BOLD_RED.Fprintf(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *dumpMIR {
		colors.GREY.Fprintln(os.Stderr, result.MIRDump)
	}

	if *output == "" {
		fmt.Print(result.IR)
		return
	}
	if err := os.WriteFile(*output, []byte(result.IR), 0o644); err != nil {
		colors.BOLD_RED.Fprintf(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// demoProgram builds a small typed program by hand: the runtime catalog plus
// a main that loops, prints, and exits. It stands in for a frontend, which
// lives in a separate tool.
func demoProgram(in *types.Interner) *hir.Program {
	decls := builtins.Declare(in)
	byName := make(map[string]*hir.Function, len(decls))
	for _, fn := range decls {
		byName[fn.Name] = fn
	}

	i32 := in.Primitive(types.I32)
	boolT := in.Primitive(types.Bool)
	strT := in.Reference(in.Primitive(types.Str), false)

	// fn main() { let mut i: i32 = 0; while i < 3 { printlnInt(i); i = i + 1; }; println("done"); exit(0); }
	mainFn := &hir.Function{
		Name:   "main",
		Return: in.Unit(),
		Locals: []hir.Local{{Name: "i", Type: i32, Mutable: true}},
		Span:   source.NoSpan,
	}

	iRef := func() *hir.VarRef {
		return &hir.VarRef{Local: 0, Type: i32, Span: source.NoSpan}
	}
	intLit := func(v uint64) *hir.Literal {
		return &hir.Literal{Kind: hir.LitInt, IntVal: v, Signed: true, Type: i32, Span: source.NoSpan}
	}

	loop := &hir.While{
		Cond: &hir.Binary{
			Op: hir.OpLt, Domain: hir.DomainSignedInt,
			LHS: iRef(), RHS: intLit(3),
			Type: boolT, Span: source.NoSpan,
		},
		Body: &hir.Block{
			Stmts: []hir.Stmt{
				&hir.ExprStmt{Expr: &hir.Call{
					Callee: byName["printlnInt"],
					Args:   []hir.Expr{iRef()},
					Type:   in.Unit(),
					Span:   source.NoSpan,
				}},
				&hir.ExprStmt{Expr: &hir.Assign{
					Target: iRef(),
					Value: &hir.Binary{
						Op: hir.OpAdd, Domain: hir.DomainSignedInt,
						LHS: iRef(), RHS: intLit(1),
						Type: i32, Span: source.NoSpan,
					},
					Span: source.NoSpan,
				}},
			},
			Type: in.Unit(),
			Span: source.NoSpan,
		},
		Span: source.NoSpan,
	}

	mainFn.Body = &hir.Block{
		Stmts: []hir.Stmt{
			&hir.LetStmt{Local: 0, Init: intLit(0), Span: source.NoSpan},
			&hir.ExprStmt{Expr: loop},
			&hir.ExprStmt{Expr: &hir.Call{
				Callee: byName["println"],
				Args: []hir.Expr{&hir.Literal{
					Kind: hir.LitString, StrVal: "done", Type: strT, Span: source.NoSpan,
				}},
				Type: in.Unit(),
				Span: source.NoSpan,
			}},
			&hir.ExprStmt{Expr: &hir.Call{
				Callee: byName["exit"],
				Args:   []hir.Expr{intLit(0)},
				Type:   in.Never(),
				Span:   source.NoSpan,
			}},
		},
		Type: in.Never(),
		Span: source.NoSpan,
	}

	return &hir.Program{Functions: append(decls, mainFn)}
}
