// Package builtins declares the runtime-provided functions every program can
// call. They are declaration-only: the runtime library supplies the bodies,
// the compiler only needs their signatures.
package builtins

import (
	"strconv"

	"github.com/rogerflowey/rust-compiler-sub003/internal/hir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/source"
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// NativeFunction describes one runtime function.
type NativeFunction struct {
	Name   string
	Params []types.TypeID
	Return types.TypeID
}

// Catalog lists the runtime functions against an interner.
func Catalog(in *types.Interner) []NativeFunction {
	i32 := in.Primitive(types.I32)
	u32 := in.Primitive(types.U32)
	usize := in.Primitive(types.Usize)
	str := in.Reference(in.Primitive(types.Str), false)
	mutStr := in.Reference(in.Primitive(types.Str), true)

	return []NativeFunction{
		{Name: "print", Params: []types.TypeID{str}, Return: in.Unit()},
		{Name: "println", Params: []types.TypeID{str}, Return: in.Unit()},
		{Name: "printInt", Params: []types.TypeID{i32}, Return: in.Unit()},
		{Name: "printlnInt", Params: []types.TypeID{i32}, Return: in.Unit()},
		{Name: "getString", Params: nil, Return: mutStr},
		{Name: "getInt", Params: nil, Return: i32},
		{Name: "toString", Params: []types.TypeID{u32}, Return: mutStr},
		{Name: "getLen", Params: []types.TypeID{str}, Return: usize},
		{Name: "exit", Params: []types.TypeID{i32}, Return: in.Never()},
	}
}

// Declare builds external HIR declarations for the whole catalog. Callers
// append them to the program ahead of user functions so external ids stay
// stable.
func Declare(in *types.Interner) []*hir.Function {
	catalog := Catalog(in)
	fns := make([]*hir.Function, 0, len(catalog))
	for _, native := range catalog {
		fn := &hir.Function{
			Name:   native.Name,
			Return: native.Return,
			Span:   source.NoSpan,
		}
		for i, p := range native.Params {
			fn.Locals = append(fn.Locals, hir.Local{Name: paramName(i), Type: p})
			fn.Params = append(fn.Params, hir.Param{
				Local: hir.LocalID(i),
				Name:  paramName(i),
				Type:  p,
			})
		}
		fns = append(fns, fn)
	}
	return fns
}

func paramName(i int) string {
	return "arg" + strconv.Itoa(i)
}
