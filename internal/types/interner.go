package types

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Interner owns every Type in a compilation and hands out stable TypeIDs.
// It is created by the pipeline driver and passed explicitly to lowering and
// codegen; there is no process-wide type table.
//
// Interning is structural: the canonical encoding of a type is hashed with
// xxhash and collisions fall back to an encoding comparison, so identical
// shapes always map to the same TypeID.
type Interner struct {
	entries []entry
	index   map[uint64][]TypeID
	structs []StructInfo

	unit  TypeID
	never TypeID
	prims [Str + 1]TypeID
}

type entry struct {
	enc string
	typ Type
}

// NewInterner creates an interner with the primitive, unit, and never types
// pre-interned.
func NewInterner() *Interner {
	in := &Interner{index: make(map[uint64][]TypeID)}
	for p := I32; p <= Str; p++ {
		in.prims[p] = in.Intern(PrimitiveType{Kind: p})
	}
	in.unit = in.Intern(UnitType{})
	in.never = in.Intern(NeverType{})
	return in
}

// Intern returns the TypeID for t, creating it on first use.
func (in *Interner) Intern(t Type) TypeID {
	var b strings.Builder
	t.key(&b)
	enc := b.String()
	h := xxhash.Sum64String(enc)
	for _, id := range in.index[h] {
		if in.entries[id-1].enc == enc {
			return id
		}
	}
	in.entries = append(in.entries, entry{enc: enc, typ: t})
	id := TypeID(len(in.entries))
	in.index[h] = append(in.index[h], id)
	return id
}

// Lookup resolves an id back to its Type. Invalid ids panic: an unresolved
// type reaching the middle end is a compiler bug, not a user error.
func (in *Interner) Lookup(id TypeID) Type {
	if id == InvalidType || int(id) > len(in.entries) {
		panic("types: lookup of invalid TypeID")
	}
	return in.entries[id-1].typ
}

// DefineStruct adds a struct declaration and returns its table index.
// An empty name declares an anonymous struct.
func (in *Interner) DefineStruct(name string, fields []StructField) StructID {
	id := StructID(len(in.structs))
	in.structs = append(in.structs, StructInfo{Name: name, Fields: fields})
	return id
}

// Struct returns the declared shape behind a StructID.
func (in *Interner) Struct(id StructID) *StructInfo {
	if int(id) >= len(in.structs) {
		panic("types: lookup of invalid StructID")
	}
	return &in.structs[id]
}

// Primitive returns the pre-interned id of a primitive kind.
func (in *Interner) Primitive(p Primitive) TypeID { return in.prims[p] }

// Unit returns the pre-interned unit type id.
func (in *Interner) Unit() TypeID { return in.unit }

// Never returns the pre-interned never type id.
func (in *Interner) Never() TypeID { return in.never }

// StructOf interns the type referring to a declared struct.
func (in *Interner) StructOf(id StructID) TypeID {
	return in.Intern(StructType{ID: id})
}

// Reference interns &elem or &mut elem.
func (in *Interner) Reference(elem TypeID, mutable bool) TypeID {
	return in.Intern(ReferenceType{Elem: elem, Mutable: mutable})
}

// Array interns [elem; n].
func (in *Interner) Array(elem TypeID, n int) TypeID {
	return in.Intern(ArrayType{Elem: elem, Len: n})
}

// String renders an id for diagnostics, resolving nested ids.
func (in *Interner) String(id TypeID) string {
	if id == InvalidType {
		return "<invalid>"
	}
	switch t := in.Lookup(id).(type) {
	case ReferenceType:
		prefix := "&"
		if t.Mutable {
			prefix = "&mut "
		}
		return prefix + in.String(t.Elem)
	case ArrayType:
		return "[" + in.String(t.Elem) + "; " + strconv.Itoa(t.Len) + "]"
	case StructType:
		if name := in.Struct(t.ID).Name; name != "" {
			return name
		}
		return t.String()
	default:
		return t.String()
	}
}
