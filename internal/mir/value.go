package mir

import (
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// Operand is a usable value: a temp or an inline constant. Constants flow
// directly into rvalues and terminators; they occupy a temp only when a
// register is required of them.
type Operand interface {
	mirOperand()
}

func (TempID) mirOperand()   {}
func (Constant) mirOperand() {}

// Constant is a typed literal value.
type Constant struct {
	Type  types.TypeID
	Value ConstValue
}

// ConstValue discriminates constant payloads.
type ConstValue interface {
	constValue()
}

// BoolConst is a boolean constant.
type BoolConst struct {
	V bool
}

// IntConst keeps magnitude, sign, and signedness apart so downstream can
// distinguish -5i32 from an unsigned wrap.
type IntConst struct {
	Value    uint64
	Negative bool
	Signed   bool
}

// CharConst is a single byte character.
type CharConst struct {
	V byte
}

// StringConst is raw bytes plus length. Data carries a trailing NUL; Length
// is the logical length without it. Global identifies the interned module
// entry backing this literal.
type StringConst struct {
	Data   []byte
	Length int
	CStyle bool
	Global GlobalID
}

// UnitConst is the value of the unit type.
type UnitConst struct{}

func (BoolConst) constValue()   {}
func (IntConst) constValue()    {}
func (CharConst) constValue()   {}
func (StringConst) constValue() {}
func (UnitConst) constValue()   {}

// IsZero reports whether the constant is the zero value of its type.
func (c Constant) IsZero() bool {
	switch v := c.Value.(type) {
	case BoolConst:
		return !v.V
	case IntConst:
		return v.Value == 0
	case CharConst:
		return v.V == 0
	case UnitConst:
		return true
	}
	return false
}

// PlaceBase is the root of a place: a local slot, a module global, or the
// target of a pointer already loaded into a temp.
type PlaceBase interface {
	mirPlaceBase()
}

// LocalPlace roots a place at a local slot.
type LocalPlace struct {
	Local LocalID
}

// GlobalPlace roots a place at a module global.
type GlobalPlace struct {
	Global GlobalID
}

// PointerPlace roots a place at the pointee of a pointer temp.
type PointerPlace struct {
	Temp TempID
}

func (LocalPlace) mirPlaceBase()   {}
func (GlobalPlace) mirPlaceBase()  {}
func (PointerPlace) mirPlaceBase() {}

// Projection refines a place by one step.
type Projection interface {
	mirProjection()
}

// FieldProjection selects a struct field by index.
type FieldProjection struct {
	Index int
}

// IndexProjection selects an array element by a dynamic operand.
type IndexProjection struct {
	Index Operand
}

func (FieldProjection) mirProjection() {}
func (IndexProjection) mirProjection() {}

// Place is an addressable location: a base plus ordered projections. Places
// are never loaded implicitly; only a Load statement turns one into a value.
type Place struct {
	Base        PlaceBase
	Projections []Projection
}

// PlaceForLocal is the unprojected place of a local slot.
func PlaceForLocal(l LocalID) Place {
	return Place{Base: LocalPlace{Local: l}}
}

// Field extends the place by one field projection.
func (p Place) Field(index int) Place {
	proj := make([]Projection, 0, len(p.Projections)+1)
	proj = append(proj, p.Projections...)
	proj = append(proj, FieldProjection{Index: index})
	return Place{Base: p.Base, Projections: proj}
}

// Index extends the place by one index projection.
func (p Place) Index(index Operand) Place {
	proj := make([]Projection, 0, len(p.Projections)+1)
	proj = append(proj, p.Projections...)
	proj = append(proj, IndexProjection{Index: index})
	return Place{Base: p.Base, Projections: proj}
}
