package codegen

import (
	"strconv"
	"strings"

	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// TypeDef is one named type definition for the module header.
type TypeDef struct {
	Symbol string
	Body   string
}

// TypeEmitter renders semantic types as target type names, memoizing every
// answer so repeated queries are cheap and struct definitions are emitted
// once, in first-use order. Anonymous structs get synthesized names.
type TypeEmitter struct {
	in       *types.Interner
	names    map[types.TypeID]string
	defs     []TypeDef
	defIndex map[types.TypeID]int
	anon     int
}

// NewTypeEmitter creates an emitter over an interner.
func NewTypeEmitter(in *types.Interner) *TypeEmitter {
	return &TypeEmitter{
		in:       in,
		names:    make(map[types.TypeID]string),
		defIndex: make(map[types.TypeID]int),
	}
}

// Name returns the target spelling of a type.
func (e *TypeEmitter) Name(id types.TypeID) string {
	if cached, ok := e.names[id]; ok {
		return cached
	}
	if id == types.InvalidType {
		ice("type name requested for an unresolved type")
	}

	switch t := e.in.Lookup(id).(type) {
	case types.PrimitiveType:
		name := primitiveName(t.Kind)
		e.names[id] = name
		return name
	case types.UnitType:
		return e.specialStruct(id, "__rc_unit", "{}")
	case types.NeverType:
		ice("never type reached emission")
	case types.StructType:
		return e.structDefinition(id, t)
	case types.ReferenceType:
		name := e.Name(t.Elem) + "*"
		e.names[id] = name
		return name
	case types.ArrayType:
		name := "[" + strconv.Itoa(t.Len) + " x " + e.Name(t.Elem) + "]"
		e.names[id] = name
		return name
	}
	ice("unhandled type %s during emission", e.in.String(id))
	return ""
}

// PointerName returns the spelling of a pointer to the type.
func (e *TypeEmitter) PointerName(id types.TypeID) string {
	return e.Name(id) + "*"
}

// Definitions returns every named definition emitted so far, in the order
// the types were first seen.
func (e *TypeEmitter) Definitions() []TypeDef {
	return e.defs
}

func (e *TypeEmitter) specialStruct(id types.TypeID, symbol, body string) string {
	name := "%" + symbol
	e.names[id] = name
	if _, ok := e.defIndex[id]; !ok {
		e.defIndex[id] = len(e.defs)
		e.defs = append(e.defs, TypeDef{Symbol: symbol, Body: body})
	}
	return name
}

func (e *TypeEmitter) structDefinition(id types.TypeID, t types.StructType) string {
	info := e.in.Struct(t.ID)
	symbol := info.Name
	if symbol == "" {
		symbol = "anon.struct." + strconv.Itoa(e.anon)
		e.anon++
	}
	name := "%" + symbol

	// Register the name before formatting the body so self-referential
	// fields (behind a pointer) terminate.
	e.names[id] = name
	idx := len(e.defs)
	e.defIndex[id] = idx
	e.defs = append(e.defs, TypeDef{Symbol: symbol})
	e.defs[idx].Body = e.structBody(info)
	return name
}

func (e *TypeEmitter) structBody(info *types.StructInfo) string {
	if len(info.Fields) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{ ")
	for i, field := range info.Fields {
		if field.Type == types.InvalidType {
			ice("field %q of struct %q missing resolved type", field.Name, info.Name)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Name(field.Type))
	}
	b.WriteString(" }")
	return b.String()
}

func primitiveName(p types.Primitive) string {
	switch p {
	case types.I32, types.U32, types.Isize, types.Usize:
		return "i32"
	case types.Bool:
		return "i1"
	case types.Char, types.Str:
		return "i8"
	}
	ice("unknown primitive kind %d", p)
	return ""
}
