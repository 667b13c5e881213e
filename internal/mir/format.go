package mir

import (
	"fmt"
	"strings"

	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// FormatModule returns a readable text representation of the MIR module.
// This is the debug dump; the LLVM rendering lives in the codegen package.
func FormatModule(in *types.Interner, mod *Module) string {
	if mod == nil {
		return ""
	}

	var b strings.Builder
	for i, g := range mod.Globals {
		switch global := g.(type) {
		case *StringGlobal:
			fmt.Fprintf(&b, "global @g%d = %q\n", i, string(global.Data))
		}
	}

	for _, ext := range mod.Externs {
		fmt.Fprintf(&b, "extern fn %s(%s) -> %s\n",
			ext.Name, formatTypeList(in, ext.Params), formatType(in, ext.Return))
	}

	for _, fn := range mod.Functions {
		b.WriteString("\n")
		writeFunction(&b, in, fn)
	}

	return b.String()
}

func writeFunction(b *strings.Builder, in *types.Interner, fn *Function) {
	if fn == nil {
		return
	}

	fmt.Fprintf(b, "fn %s(", fn.Name)
	for i, param := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s: %s", param.Name, formatType(in, param.Type))
	}
	fmt.Fprintf(b, ") -> %s {\n", formatType(in, fn.Return.Type))

	for i, local := range fn.Locals {
		fmt.Fprintf(b, "  local l%d %s: %s\n", i, local.Name, formatType(in, local.Type))
	}

	for id, block := range fn.Blocks {
		writeBlock(b, in, fn, BlockID(id), block)
	}

	b.WriteString("}\n")
}

func writeBlock(b *strings.Builder, in *types.Interner, fn *Function, id BlockID, block *BasicBlock) {
	fmt.Fprintf(b, "  block b%d:\n", id)

	for _, phi := range block.Phis {
		fmt.Fprintf(b, "    %s = phi %s %s\n",
			formatTemp(phi.Dest), formatType(in, fn.TempType(phi.Dest)), formatIncoming(phi.Incoming))
	}

	for _, stmt := range block.Stmts {
		fmt.Fprintf(b, "    %s\n", formatStatement(in, stmt))
	}

	if block.Term != nil {
		fmt.Fprintf(b, "    %s\n", formatTerminator(in, block.Term))
	} else {
		b.WriteString("    term <nil>\n")
	}
}

func formatStatement(in *types.Interner, stmt Statement) string {
	switch s := stmt.(type) {
	case *Define:
		return fmt.Sprintf("%s = %s", formatTemp(s.Dest), formatRValue(in, s.RV))
	case *Load:
		return fmt.Sprintf("%s = load %s", formatTemp(s.Dest), FormatPlace(s.Src))
	case *Assign:
		return fmt.Sprintf("assign %s, %s", FormatPlace(s.Dest), FormatOperand(in, s.Src))
	case *Init:
		return fmt.Sprintf("init %s, %s", FormatPlace(s.Dest), formatRValue(in, s.RV))
	case *Call:
		target := fmt.Sprintf("fn%d", s.Target.ID)
		if s.Target.Kind == CallExternal {
			target = fmt.Sprintf("ext%d", s.Target.ID)
		}
		call := fmt.Sprintf("call %s(%s)", target, formatOperands(in, s.Args))
		if s.Dest == InvalidTemp {
			return call
		}
		return fmt.Sprintf("%s = %s", formatTemp(s.Dest), call)
	}
	return "stmt <unknown>"
}

func formatRValue(in *types.Interner, rv RValue) string {
	switch v := rv.(type) {
	case ConstantRValue:
		return fmt.Sprintf("const %s", FormatConstant(in, v.C))
	case BinaryRValue:
		return fmt.Sprintf("%s %s, %s", v.Kind, FormatOperand(in, v.LHS), FormatOperand(in, v.RHS))
	case UnaryRValue:
		return fmt.Sprintf("%s %s", v.Kind, FormatOperand(in, v.Operand))
	case RefRValue:
		return fmt.Sprintf("ref %s", FormatPlace(v.Place))
	case AggregateRValue:
		kind := "struct"
		if v.Kind == AggArray {
			kind = "array"
		}
		return fmt.Sprintf("aggregate %s (%s)", kind, formatOperands(in, v.Elements))
	case RepeatRValue:
		return fmt.Sprintf("repeat %s x %d", FormatOperand(in, v.Value), v.Count)
	case CastRValue:
		return fmt.Sprintf("cast %s to %s", FormatOperand(in, v.Value), formatType(in, v.Target))
	case ExtractRValue:
		return fmt.Sprintf("extract %s, %d", formatTemp(v.Base), v.Index)
	}
	return "rvalue <unknown>"
}

func formatTerminator(in *types.Interner, term Terminator) string {
	switch t := term.(type) {
	case *Goto:
		return fmt.Sprintf("goto b%d", t.Target)
	case *SwitchInt:
		arms := make([]string, 0, len(t.Arms))
		for _, arm := range t.Arms {
			arms = append(arms, fmt.Sprintf("%s: b%d", FormatConstant(in, arm.Value), arm.Target))
		}
		return fmt.Sprintf("switch %s [%s] otherwise b%d",
			FormatOperand(in, t.Discr), strings.Join(arms, ", "), t.Otherwise)
	case *Return:
		if t.Value == nil {
			return "ret"
		}
		return fmt.Sprintf("ret %s", FormatOperand(in, t.Value))
	case *Unreachable:
		return "unreachable"
	}
	return "term <unknown>"
}

// FormatOperand renders an operand for dumps and error messages.
func FormatOperand(in *types.Interner, op Operand) string {
	switch o := op.(type) {
	case TempID:
		return formatTemp(o)
	case Constant:
		return FormatConstant(in, o)
	}
	return "<invalid operand>"
}

// FormatConstant renders a constant with its type.
func FormatConstant(in *types.Interner, c Constant) string {
	switch v := c.Value.(type) {
	case BoolConst:
		return fmt.Sprintf("%s %v", formatType(in, c.Type), v.V)
	case IntConst:
		sign := ""
		if v.Negative {
			sign = "-"
		}
		return fmt.Sprintf("%s %s%d", formatType(in, c.Type), sign, v.Value)
	case CharConst:
		return fmt.Sprintf("%s %q", formatType(in, c.Type), v.V)
	case StringConst:
		return fmt.Sprintf("%s @g%d", formatType(in, c.Type), v.Global)
	case UnitConst:
		return "unit"
	}
	return "<invalid constant>"
}

// FormatPlace renders a place as base followed by its projections.
func FormatPlace(p Place) string {
	var b strings.Builder
	switch base := p.Base.(type) {
	case LocalPlace:
		fmt.Fprintf(&b, "l%d", base.Local)
	case GlobalPlace:
		fmt.Fprintf(&b, "@g%d", base.Global)
	case PointerPlace:
		fmt.Fprintf(&b, "*%s", formatTemp(base.Temp))
	}
	for _, proj := range p.Projections {
		switch pr := proj.(type) {
		case FieldProjection:
			fmt.Fprintf(&b, ".%d", pr.Index)
		case IndexProjection:
			switch idx := pr.Index.(type) {
			case TempID:
				fmt.Fprintf(&b, "[%s]", formatTemp(idx))
			case Constant:
				if iv, ok := idx.Value.(IntConst); ok {
					fmt.Fprintf(&b, "[%d]", iv.Value)
				} else {
					b.WriteString("[?]")
				}
			}
		}
	}
	return b.String()
}

func formatTemp(t TempID) string {
	if t == InvalidTemp {
		return "%t<invalid>"
	}
	return fmt.Sprintf("%%t%d", t)
}

func formatIncoming(incoming []PhiIncoming) string {
	parts := make([]string, 0, len(incoming))
	for _, in := range incoming {
		parts = append(parts, fmt.Sprintf("b%d: %s", in.Pred, formatTemp(in.Value)))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatOperands(in *types.Interner, ops []Operand) string {
	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		parts = append(parts, FormatOperand(in, op))
	}
	return strings.Join(parts, ", ")
}

func formatTypeList(in *types.Interner, ids []types.TypeID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, formatType(in, id))
	}
	return strings.Join(parts, ", ")
}

func formatType(in *types.Interner, id types.TypeID) string {
	if id == types.InvalidType {
		return "void"
	}
	return in.String(id)
}
