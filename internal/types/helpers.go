package types

// IsUnit reports whether id is the unit type.
func (in *Interner) IsUnit(id TypeID) bool {
	if id == InvalidType {
		return false
	}
	_, ok := in.Lookup(id).(UnitType)
	return ok
}

// IsNever reports whether id is the never type.
func (in *Interner) IsNever(id TypeID) bool {
	if id == InvalidType {
		return false
	}
	_, ok := in.Lookup(id).(NeverType)
	return ok
}

// IsBool reports whether id is the bool primitive.
func (in *Interner) IsBool(id TypeID) bool {
	p, ok := in.primitive(id)
	return ok && p == Bool
}

// IsSignedInt reports whether id is a signed integer primitive.
func (in *Interner) IsSignedInt(id TypeID) bool {
	p, ok := in.primitive(id)
	return ok && (p == I32 || p == Isize)
}

// IsUnsignedInt reports whether id is an unsigned integer primitive.
// char counts: it compares and widens as an unsigned byte.
func (in *Interner) IsUnsignedInt(id TypeID) bool {
	p, ok := in.primitive(id)
	return ok && (p == U32 || p == Usize || p == Char)
}

// IsInteger reports whether id is any integer primitive.
func (in *Interner) IsInteger(id TypeID) bool {
	return in.IsSignedInt(id) || in.IsUnsignedInt(id)
}

// IsAggregate reports whether values of id are returned through a hidden
// pointer rather than directly. Structs and arrays qualify.
func (in *Interner) IsAggregate(id TypeID) bool {
	switch in.Lookup(id).(type) {
	case StructType, ArrayType:
		return true
	}
	return false
}

// IsReference reports whether id is a reference type.
func (in *Interner) IsReference(id TypeID) bool {
	_, ok := in.Lookup(id).(ReferenceType)
	return ok
}

// Deref returns the pointee of a reference type.
func (in *Interner) Deref(id TypeID) (TypeID, bool) {
	if r, ok := in.Lookup(id).(ReferenceType); ok {
		return r.Elem, true
	}
	return InvalidType, false
}

// Field returns the type of field index of a struct type.
func (in *Interner) Field(id TypeID, index int) (TypeID, bool) {
	s, ok := in.Lookup(id).(StructType)
	if !ok {
		return InvalidType, false
	}
	fields := in.Struct(s.ID).Fields
	if index < 0 || index >= len(fields) {
		return InvalidType, false
	}
	return fields[index].Type, true
}

// Elem returns the element type of an array type.
func (in *Interner) Elem(id TypeID) (TypeID, bool) {
	if a, ok := in.Lookup(id).(ArrayType); ok {
		return a.Elem, true
	}
	return InvalidType, false
}

// Canonicalize maps a semantic type to its MIR-canonical form. Interned ids
// are already canonical; this is the checkpoint that rejects unresolved
// annotations before they leak into MIR.
func (in *Interner) Canonicalize(id TypeID) TypeID {
	if id == InvalidType {
		panic("types: canonicalize of invalid TypeID")
	}
	return id
}

func (in *Interner) primitive(id TypeID) (Primitive, bool) {
	if id == InvalidType {
		return 0, false
	}
	if p, ok := in.Lookup(id).(PrimitiveType); ok {
		return p.Kind, true
	}
	return 0, false
}
