package types

import (
	"fmt"
	"strings"
)

// TypeID is a stable handle into an Interner. The zero value is invalid so
// that forgotten annotations are caught instead of silently typed.
type TypeID uint32

// InvalidType is the sentinel for a missing type annotation.
const InvalidType TypeID = 0

// StructID indexes the struct table owned by an Interner.
type StructID uint32

// Type is the structural description behind a TypeID.
//
// Design principles:
// - Types are immutable after interning
// - Identity is structural: interning the same shape twice yields one TypeID
// - Child types are referenced by TypeID, never by Go pointer
type Type interface {
	// String returns a human-readable representation of the type
	String() string

	// key appends the canonical structural encoding used for interning
	key(b *strings.Builder)

	// isType is a marker method to prevent external implementation
	isType()
}

// Primitive enumerates the built-in scalar types.
type Primitive uint8

const (
	I32 Primitive = iota
	U32
	Isize
	Usize
	Bool
	Char
	Str
)

func (p Primitive) String() string {
	switch p {
	case I32:
		return "i32"
	case U32:
		return "u32"
	case Isize:
		return "isize"
	case Usize:
		return "usize"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Str:
		return "str"
	}
	return "primitive"
}

// PrimitiveType represents a built-in scalar type.
type PrimitiveType struct {
	Kind Primitive
}

func (p PrimitiveType) String() string { return p.Kind.String() }
func (p PrimitiveType) isType()        {}
func (p PrimitiveType) key(b *strings.Builder) {
	fmt.Fprintf(b, "p%d", p.Kind)
}

// UnitType is the zero-sized () type.
type UnitType struct{}

func (UnitType) String() string         { return "unit" }
func (UnitType) isType()                {}
func (UnitType) key(b *strings.Builder) { b.WriteString("unit") }

// NeverType is the diverging ! type. It never reaches codegen.
type NeverType struct{}

func (NeverType) String() string         { return "!" }
func (NeverType) isType()                {}
func (NeverType) key(b *strings.Builder) { b.WriteString("never") }

// StructType refers to a declared struct by table index. Two struct types are
// identical exactly when they share a StructID.
type StructType struct {
	ID StructID
}

func (s StructType) String() string { return fmt.Sprintf("struct#%d", s.ID) }
func (s StructType) isType()        {}
func (s StructType) key(b *strings.Builder) {
	fmt.Fprintf(b, "s%d", s.ID)
}

// ReferenceType represents &T and &mut T.
type ReferenceType struct {
	Elem    TypeID
	Mutable bool
}

func (r ReferenceType) String() string {
	if r.Mutable {
		return fmt.Sprintf("&mut #%d", r.Elem)
	}
	return fmt.Sprintf("&#%d", r.Elem)
}
func (r ReferenceType) isType() {}
func (r ReferenceType) key(b *strings.Builder) {
	m := 0
	if r.Mutable {
		m = 1
	}
	fmt.Fprintf(b, "r%d:%d", m, r.Elem)
}

// ArrayType represents the fixed-size array [T; N].
type ArrayType struct {
	Elem TypeID
	Len  int
}

func (a ArrayType) String() string { return fmt.Sprintf("[#%d; %d]", a.Elem, a.Len) }
func (a ArrayType) isType()        {}
func (a ArrayType) key(b *strings.Builder) {
	fmt.Fprintf(b, "a%d:%d", a.Elem, a.Len)
}

// StructField is one field of a struct declaration, in declaration order.
type StructField struct {
	Name string
	Type TypeID
}

// StructInfo is the declared shape of a struct. Field order is the canonical
// order used by aggregate literals and field projections.
type StructInfo struct {
	Name   string // empty for anonymous structs
	Fields []StructField
}
