package types

import (
	"testing"
)

func TestInternPrimitivesStable(t *testing.T) {
	in := NewInterner()
	if in.Primitive(I32) != in.Intern(PrimitiveType{Kind: I32}) {
		t.Error("re-interning i32 must return the pre-interned id")
	}
	if in.Primitive(I32) == in.Primitive(U32) {
		t.Error("distinct primitives must have distinct ids")
	}
}

func TestInternStructural(t *testing.T) {
	in := NewInterner()

	ref1 := in.Reference(in.Primitive(I32), false)
	ref2 := in.Reference(in.Primitive(I32), false)
	if ref1 != ref2 {
		t.Errorf("&i32 interned twice: %d vs %d", ref1, ref2)
	}

	mutRef := in.Reference(in.Primitive(I32), true)
	if mutRef == ref1 {
		t.Error("&i32 and &mut i32 must differ")
	}

	arr1 := in.Array(in.Primitive(I32), 4)
	arr2 := in.Array(in.Primitive(I32), 4)
	arr3 := in.Array(in.Primitive(I32), 8)
	if arr1 != arr2 {
		t.Error("[i32; 4] interned twice must be identical")
	}
	if arr1 == arr3 {
		t.Error("[i32; 4] and [i32; 8] must differ")
	}

	nested1 := in.Reference(in.Array(in.Primitive(Bool), 2), true)
	nested2 := in.Reference(in.Array(in.Primitive(Bool), 2), true)
	if nested1 != nested2 {
		t.Error("nested shapes must intern structurally")
	}
}

func TestStructIdentity(t *testing.T) {
	in := NewInterner()
	a := in.DefineStruct("Point", []StructField{
		{Name: "x", Type: in.Primitive(I32)},
		{Name: "y", Type: in.Primitive(I32)},
	})
	b := in.DefineStruct("Point", []StructField{
		{Name: "x", Type: in.Primitive(I32)},
		{Name: "y", Type: in.Primitive(I32)},
	})

	// Struct identity is nominal: two declarations are two types.
	if in.StructOf(a) == in.StructOf(b) {
		t.Error("separate struct declarations must produce distinct types")
	}
	if in.StructOf(a) != in.StructOf(a) {
		t.Error("the same declaration must produce one type")
	}
}

func TestHelpers(t *testing.T) {
	in := NewInterner()
	i32 := in.Primitive(I32)
	u32 := in.Primitive(U32)
	ch := in.Primitive(Char)

	if !in.IsSignedInt(i32) || in.IsSignedInt(u32) {
		t.Error("signedness classification wrong for i32/u32")
	}
	if !in.IsUnsignedInt(ch) {
		t.Error("char must classify as unsigned")
	}
	if !in.IsUnit(in.Unit()) || !in.IsNever(in.Never()) {
		t.Error("unit/never predicates failed on pre-interned ids")
	}

	ref := in.Reference(i32, false)
	if elem, ok := in.Deref(ref); !ok || elem != i32 {
		t.Errorf("Deref(&i32) = %d, %v", elem, ok)
	}
	if _, ok := in.Deref(i32); ok {
		t.Error("Deref of a non-reference must fail")
	}

	sid := in.DefineStruct("Pair", []StructField{
		{Name: "a", Type: i32},
		{Name: "b", Type: u32},
	})
	st := in.StructOf(sid)
	if !in.IsAggregate(st) {
		t.Error("struct must be aggregate")
	}
	if ft, ok := in.Field(st, 1); !ok || ft != u32 {
		t.Errorf("Field(Pair, 1) = %d, %v", ft, ok)
	}
	if _, ok := in.Field(st, 2); ok {
		t.Error("out-of-range field must fail")
	}

	arr := in.Array(i32, 3)
	if et, ok := in.Elem(arr); !ok || et != i32 {
		t.Errorf("Elem([i32; 3]) = %d, %v", et, ok)
	}
}

func TestStringRendering(t *testing.T) {
	in := NewInterner()
	tests := []struct {
		id   TypeID
		want string
	}{
		{in.Primitive(I32), "i32"},
		{in.Unit(), "unit"},
		{in.Never(), "!"},
		{in.Reference(in.Primitive(Bool), true), "&mut bool"},
		{in.Array(in.Primitive(Char), 5), "[char; 5]"},
	}
	for _, tt := range tests {
		if got := in.String(tt.id); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}

	sid := in.DefineStruct("Point", nil)
	if got := in.String(in.StructOf(sid)); got != "Point" {
		t.Errorf("String(Point) = %q", got)
	}
}
