// Package mirgen ties the middle end together: it lowers typed HIR to MIR
// and renders the result as textual IR in one call.
package mirgen

import (
	"github.com/rogerflowey/rust-compiler-sub003/internal/codegen"
	"github.com/rogerflowey/rust-compiler-sub003/internal/hir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/mir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/mir/lower"
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// Options configures a generation run.
type Options struct {
	ModuleID     string
	TargetTriple string
	DataLayout   string
	// DumpMIR asks for the debug rendering of the MIR alongside the IR.
	DumpMIR bool
}

// Result is the output of one generation run.
type Result struct {
	Module *mir.Module
	// MIRDump is the readable MIR text; empty unless requested.
	MIRDump string
	// IR is the textual target module.
	IR string
}

// Generate lowers prog and emits it. Errors from either stage carry the
// stage's invariant diagnostics.
func Generate(in *types.Interner, prog *hir.Program, opts Options) (Result, error) {
	mod, err := lower.LowerProgram(in, prog)
	if err != nil {
		return Result{}, err
	}

	res := Result{Module: mod}
	if opts.DumpMIR {
		res.MIRDump = mir.FormatModule(in, mod)
	}

	ir, err := codegen.Emit(in, mod, codegen.Options{
		ModuleID:     opts.ModuleID,
		TargetTriple: opts.TargetTriple,
		DataLayout:   opts.DataLayout,
	})
	if err != nil {
		return Result{}, err
	}
	res.IR = ir
	return res, nil
}
