package codegen

import (
	"strconv"
	"strings"
)

// Text builders for the output dialect. ModuleBuilder assembles the final
// module; FunctionBuilder owns blocks and value naming; BlockBuilder appends
// instructions and enforces the one-terminator rule. All output is
// deterministic: names come from per-function counters, never from maps.

// Parameter is one rendered function parameter.
type Parameter struct {
	Type string
	Name string
}

// TempName renders a virtual register name.
func TempName(id uint32) string {
	return "%t" + strconv.FormatUint(uint64(id), 10)
}

func labelOperand(label string) string {
	if label == "" {
		ice("label operand cannot be empty")
	}
	if label[0] == '%' {
		return label
	}
	return "%" + label
}

func sanitizeHint(hint, fallback string) string {
	base := hint
	if base == "" {
		base = fallback
	}
	var b strings.Builder
	for _, ch := range base {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z',
			ch >= '0' && ch <= '9', ch == '_', ch == '.':
			b.WriteRune(ch)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

// ModuleBuilder accumulates a module and renders it as text.
type ModuleBuilder struct {
	moduleID     string
	dataLayout   string
	targetTriple string
	typeDefs     []TypeDef
	globals      []string
	functions    []*FunctionBuilder
}

// NewModuleBuilder creates a builder with the given module identifier.
func NewModuleBuilder(moduleID string) *ModuleBuilder {
	return &ModuleBuilder{moduleID: moduleID}
}

// SetDataLayout sets the target datalayout line.
func (m *ModuleBuilder) SetDataLayout(layout string) { m.dataLayout = layout }

// SetTargetTriple sets the target triple line.
func (m *ModuleBuilder) SetTargetTriple(triple string) { m.targetTriple = triple }

// AddTypeDef appends a named type definition.
func (m *ModuleBuilder) AddTypeDef(def TypeDef) {
	if def.Symbol == "" {
		ice("type definition needs a symbol")
	}
	m.typeDefs = append(m.typeDefs, def)
}

// AddGlobal appends a complete global declaration line.
func (m *ModuleBuilder) AddGlobal(declaration string) {
	if declaration == "" {
		ice("global declaration cannot be empty")
	}
	m.globals = append(m.globals, declaration)
}

// AddFunction starts a function definition. The entry block exists
// immediately and always renders first under the label "entry".
func (m *ModuleBuilder) AddFunction(name, returnType string, params []Parameter) *FunctionBuilder {
	if name == "" {
		ice("function name cannot be empty")
	}
	if name[0] != '@' {
		name = "@" + name
	}
	for i := range params {
		if params[i].Name == "" {
			params[i].Name = "%arg" + strconv.Itoa(i)
		}
		if params[i].Name[0] != '%' {
			params[i].Name = "%" + params[i].Name
		}
	}
	fb := &FunctionBuilder{
		name:       name,
		returnType: returnType,
		params:     params,
		nameCounts: make(map[string]int),
	}
	fb.addBlock("entry")
	m.functions = append(m.functions, fb)
	return fb
}

// String renders the whole module.
func (m *ModuleBuilder) String() string {
	var b strings.Builder
	b.WriteString("; ModuleID = '" + m.moduleID + "'\n")
	if m.dataLayout != "" {
		b.WriteString("target datalayout = \"" + m.dataLayout + "\"\n")
	}
	if m.targetTriple != "" {
		b.WriteString("target triple = \"" + m.targetTriple + "\"\n")
	}
	hasBody := len(m.typeDefs) > 0 || len(m.globals) > 0 || len(m.functions) > 0
	if (m.dataLayout != "" || m.targetTriple != "") && hasBody {
		b.WriteString("\n")
	}

	if len(m.typeDefs) > 0 {
		for _, def := range m.typeDefs {
			b.WriteString("%" + def.Symbol + " = type " + def.Body + "\n")
		}
		if len(m.globals) > 0 || len(m.functions) > 0 {
			b.WriteString("\n")
		}
	}

	if len(m.globals) > 0 {
		for _, g := range m.globals {
			b.WriteString(g + "\n")
		}
		if len(m.functions) > 0 {
			b.WriteString("\n")
		}
	}

	for i, fn := range m.functions {
		b.WriteString(fn.String())
		if i+1 < len(m.functions) {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FunctionBuilder accumulates one function definition.
type FunctionBuilder struct {
	name       string
	returnType string
	params     []Parameter
	blocks     []*BlockBuilder
	nameCounts map[string]int
}

// Entry returns the entry block.
func (f *FunctionBuilder) Entry() *BlockBuilder {
	return f.blocks[0]
}

// CreateBlock appends a new labeled block.
func (f *FunctionBuilder) CreateBlock(label string) *BlockBuilder {
	return f.addBlock(sanitizeHint(label, "block"))
}

// Params returns the rendered parameter list.
func (f *FunctionBuilder) Params() []Parameter {
	return f.params
}

func (f *FunctionBuilder) addBlock(label string) *BlockBuilder {
	bb := &BlockBuilder{fn: f, label: label}
	f.blocks = append(f.blocks, bb)
	return bb
}

func (f *FunctionBuilder) newValueName(hint string) string {
	base := sanitizeHint(hint, "tmp")
	n := f.nameCounts[base]
	f.nameCounts[base] = n + 1
	if n == 0 {
		return "%" + base
	}
	return "%" + base + "." + strconv.Itoa(n)
}

// insertEntryLine places a line in the entry block ahead of its terminator,
// so scratch allocas can still be added after the entry is sealed.
func (f *FunctionBuilder) insertEntryLine(line string) {
	entry := f.blocks[0]
	if !entry.terminated {
		entry.lines = append(entry.lines, line)
		return
	}
	at := len(entry.lines) - 1
	entry.lines = append(entry.lines, "")
	copy(entry.lines[at+1:], entry.lines[at:])
	entry.lines[at] = line
}

// EntryAlloca emits a scratch alloca into the entry block and returns its
// name.
func (f *FunctionBuilder) EntryAlloca(allocatedType, hint string) string {
	name := f.newValueName(hint)
	f.insertEntryLine("  " + name + " = alloca " + allocatedType)
	return name
}

// EntryStore emits a store into the entry block, after any scratch allocas
// already placed there.
func (f *FunctionBuilder) EntryStore(valueType, value, pointerType, pointer string) {
	f.insertEntryLine("  store " + valueType + " " + value + ", " + pointerType + " " + pointer)
}

// String renders the function definition. Blocks missing a terminator render
// a trailing unreachable so the output always parses.
func (f *FunctionBuilder) String() string {
	var b strings.Builder
	b.WriteString("define " + f.returnType + " " + f.name + "(")
	for i, p := range f.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type + " " + p.Name)
	}
	b.WriteString(") {\n")
	for _, block := range f.blocks {
		b.WriteString(block.label + ":\n")
		for _, line := range block.lines {
			b.WriteString(line + "\n")
		}
		if !block.terminated {
			b.WriteString("  unreachable\n")
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// BlockBuilder appends instructions to one basic block.
type BlockBuilder struct {
	fn         *FunctionBuilder
	label      string
	lines      []string
	terminated bool
}

// Label returns the block's label.
func (b *BlockBuilder) Label() string { return b.label }

// Terminated reports whether a terminator has been emitted.
func (b *BlockBuilder) Terminated() bool { return b.terminated }

func (b *BlockBuilder) value(body, hint string) string {
	b.ensureOpen()
	name := b.fn.newValueName(hint)
	b.lines = append(b.lines, "  "+name+" = "+body)
	return name
}

func (b *BlockBuilder) valueInto(dest, body string) string {
	b.ensureOpen()
	if dest == "" || dest[0] != '%' {
		ice("value name %q must start with '%%'", dest)
	}
	b.lines = append(b.lines, "  "+dest+" = "+body)
	return dest
}

func (b *BlockBuilder) void(text string) {
	b.ensureOpen()
	b.lines = append(b.lines, "  "+text)
}

func (b *BlockBuilder) terminator(text string) {
	b.ensureOpen()
	b.lines = append(b.lines, "  "+text)
	b.terminated = true
}

func (b *BlockBuilder) ensureOpen() {
	if b.terminated {
		ice("append to terminated block %q", b.label)
	}
}

func binaryBody(opcode, typ, lhs, rhs string) string {
	return opcode + " " + typ + " " + lhs + ", " + rhs
}

// Binary emits a two-operand instruction into a fresh name.
func (b *BlockBuilder) Binary(opcode, typ, lhs, rhs, hint string) string {
	return b.value(binaryBody(opcode, typ, lhs, rhs), hint)
}

// BinaryInto emits a two-operand instruction into dest.
func (b *BlockBuilder) BinaryInto(dest, opcode, typ, lhs, rhs string) string {
	return b.valueInto(dest, binaryBody(opcode, typ, lhs, rhs))
}

// ICmpInto emits an integer comparison into dest.
func (b *BlockBuilder) ICmpInto(dest, predicate, typ, lhs, rhs string) string {
	return b.valueInto(dest, "icmp "+predicate+" "+typ+" "+lhs+", "+rhs)
}

// PhiIncomingText is one rendered (value, label) pair.
type PhiIncomingText struct {
	Value string
	Label string
}

func phiBody(typ string, incomings []PhiIncomingText) string {
	if len(incomings) == 0 {
		ice("phi needs at least one incoming edge")
	}
	var sb strings.Builder
	sb.WriteString("phi " + typ + " ")
	for i, in := range incomings {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[ " + in.Value + ", " + labelOperand(in.Label) + " ]")
	}
	return sb.String()
}

// PhiInto emits a phi into dest.
func (b *BlockBuilder) PhiInto(dest, typ string, incomings []PhiIncomingText) string {
	return b.valueInto(dest, phiBody(typ, incomings))
}

// Arg is one rendered call argument.
type Arg struct {
	Type  string
	Value string
}

func callBody(returnType, callee string, args []Arg) string {
	var sb strings.Builder
	sb.WriteString("call " + returnType + " " + callee + "(")
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.Type + " " + arg.Value)
	}
	sb.WriteString(")")
	return sb.String()
}

// Call emits a call; void calls produce no name and return "".
func (b *BlockBuilder) Call(returnType, callee string, args []Arg, hint string) string {
	body := callBody(returnType, callee, args)
	if returnType == "void" {
		b.void(body)
		return ""
	}
	return b.value(body, hint)
}

// CallInto emits a value-returning call into dest.
func (b *BlockBuilder) CallInto(dest, returnType, callee string, args []Arg) string {
	if returnType == "void" {
		ice("void call cannot name a result")
	}
	return b.valueInto(dest, callBody(returnType, callee, args))
}

// LoadInto emits a load into dest.
func (b *BlockBuilder) LoadInto(dest, valueType, pointerType, pointer string) string {
	return b.valueInto(dest, "load "+valueType+", "+pointerType+" "+pointer)
}

// Load emits a load into a fresh name.
func (b *BlockBuilder) Load(valueType, pointerType, pointer, hint string) string {
	return b.value("load "+valueType+", "+pointerType+" "+pointer, hint)
}

// Store emits a store.
func (b *BlockBuilder) Store(valueType, value, pointerType, pointer string) {
	b.void("store " + valueType + " " + value + ", " + pointerType + " " + pointer)
}

// AllocaInto emits an alloca into dest.
func (b *BlockBuilder) AllocaInto(dest, allocatedType string) string {
	return b.valueInto(dest, "alloca "+allocatedType)
}

// Index is one rendered getelementptr index.
type Index struct {
	Type  string
	Value string
}

func gepBody(pointeeType, pointerType, pointer string, indices []Index) string {
	var sb strings.Builder
	sb.WriteString("getelementptr inbounds " + pointeeType + ", " + pointerType + " " + pointer)
	for _, idx := range indices {
		sb.WriteString(", " + idx.Type + " " + idx.Value)
	}
	return sb.String()
}

// GEP emits a getelementptr into a fresh name.
func (b *BlockBuilder) GEP(pointeeType, pointerType, pointer string, indices []Index, hint string) string {
	return b.value(gepBody(pointeeType, pointerType, pointer, indices), hint)
}

// GEPInto emits a getelementptr into dest.
func (b *BlockBuilder) GEPInto(dest, pointeeType, pointerType, pointer string, indices []Index) string {
	return b.valueInto(dest, gepBody(pointeeType, pointerType, pointer, indices))
}

// CastInto emits a conversion instruction into dest.
func (b *BlockBuilder) CastInto(dest, opcode, valueType, value, targetType string) string {
	return b.valueInto(dest, opcode+" "+valueType+" "+value+" to "+targetType)
}

// Cast emits a conversion instruction into a fresh name.
func (b *BlockBuilder) Cast(opcode, valueType, value, targetType, hint string) string {
	return b.value(opcode+" "+valueType+" "+value+" to "+targetType, hint)
}

// ExtractInto emits an extractvalue into dest.
func (b *BlockBuilder) ExtractInto(dest, aggregateType, aggregate string, index int) string {
	return b.valueInto(dest, "extractvalue "+aggregateType+" "+aggregate+", "+strconv.Itoa(index))
}

func insertBody(aggregateType, aggregate, elementType, element string, index int) string {
	return "insertvalue " + aggregateType + " " + aggregate + ", " +
		elementType + " " + element + ", " + strconv.Itoa(index)
}

// Insert emits an insertvalue into a fresh name.
func (b *BlockBuilder) Insert(aggregateType, aggregate, elementType, element string, index int, hint string) string {
	return b.value(insertBody(aggregateType, aggregate, elementType, element, index), hint)
}

// InsertInto emits an insertvalue into dest.
func (b *BlockBuilder) InsertInto(dest, aggregateType, aggregate, elementType, element string, index int) string {
	return b.valueInto(dest, insertBody(aggregateType, aggregate, elementType, element, index))
}

// RetVoid terminates the block with a void return.
func (b *BlockBuilder) RetVoid() {
	b.terminator("ret void")
}

// Ret terminates the block returning a value.
func (b *BlockBuilder) Ret(typ, value string) {
	b.terminator("ret " + typ + " " + value)
}

// Br terminates the block with an unconditional branch.
func (b *BlockBuilder) Br(target string) {
	b.terminator("br label " + labelOperand(target))
}

// SwitchCase is one rendered (constant, label) arm.
type SwitchCase struct {
	Value string
	Label string
}

// Switch terminates the block with a multi-way dispatch. Arms render in the
// order given, one per line.
func (b *BlockBuilder) Switch(condType, cond, defaultLabel string, cases []SwitchCase) {
	var sb strings.Builder
	sb.WriteString("switch " + condType + " " + cond + ", label " + labelOperand(defaultLabel))
	if len(cases) == 0 {
		b.terminator(sb.String())
		return
	}
	sb.WriteString(" [\n")
	for i, c := range cases {
		sb.WriteString("    " + condType + " " + c.Value + ", label " + labelOperand(c.Label))
		if i+1 < len(cases) {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n  ]")
	b.terminator(sb.String())
}

// Unreachable terminates the block as unreachable.
func (b *BlockBuilder) Unreachable() {
	b.terminator("unreachable")
}
