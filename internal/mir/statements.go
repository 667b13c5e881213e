package mir

import (
	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

// BinKind is a fully resolved binary operation. Lowering never leaves an
// operator domain ambiguous; logical and/or are desugared to control flow
// before this point.
type BinKind int

const (
	IAdd BinKind = iota
	UAdd
	ISub
	USub
	IMul
	UMul
	IDiv
	UDiv
	IRem
	URem
	BitAnd
	BitOr
	BitXor
	Shl
	ShrArith
	ShrLogic
	ICmpEq
	ICmpNe
	ICmpLt
	ICmpLe
	ICmpGt
	ICmpGe
	UCmpEq
	UCmpNe
	UCmpLt
	UCmpLe
	UCmpGt
	UCmpGe
	BoolEq
	BoolNe
)

var binKindNames = [...]string{
	IAdd: "iadd", UAdd: "uadd", ISub: "isub", USub: "usub",
	IMul: "imul", UMul: "umul", IDiv: "idiv", UDiv: "udiv",
	IRem: "irem", URem: "urem",
	BitAnd: "and", BitOr: "or", BitXor: "xor",
	Shl: "shl", ShrArith: "ashr", ShrLogic: "lshr",
	ICmpEq: "icmp.eq", ICmpNe: "icmp.ne", ICmpLt: "icmp.lt",
	ICmpLe: "icmp.le", ICmpGt: "icmp.gt", ICmpGe: "icmp.ge",
	UCmpEq: "ucmp.eq", UCmpNe: "ucmp.ne", UCmpLt: "ucmp.lt",
	UCmpLe: "ucmp.le", UCmpGt: "ucmp.gt", UCmpGe: "ucmp.ge",
	BoolEq: "beq", BoolNe: "bne",
}

func (k BinKind) String() string {
	if int(k) < len(binKindNames) {
		return binKindNames[k]
	}
	return "binop"
}

// IsCompare reports whether the operation yields a bool.
func (k BinKind) IsCompare() bool {
	return k >= ICmpEq
}

// UnaryKind is a resolved unary operation.
type UnaryKind int

const (
	Not UnaryKind = iota
	Neg
	Deref
)

func (k UnaryKind) String() string {
	switch k {
	case Not:
		return "not"
	case Neg:
		return "neg"
	case Deref:
		return "deref"
	}
	return "unop"
}

// AggregateKind discriminates aggregate rvalues.
type AggregateKind int

const (
	AggStruct AggregateKind = iota
	AggArray
)

// RValue is the right-hand side of a Define or Init.
type RValue interface {
	mirRValue()
}

// ConstantRValue wraps a constant that must occupy a temp.
type ConstantRValue struct {
	C Constant
}

// BinaryRValue applies a resolved binary operation.
type BinaryRValue struct {
	Kind BinKind
	LHS  Operand
	RHS  Operand
}

// UnaryRValue applies a resolved unary operation.
type UnaryRValue struct {
	Kind    UnaryKind
	Operand Operand
}

// RefRValue takes the address of a place. No load, no copy.
type RefRValue struct {
	Place Place
}

// AggregateRValue builds a struct or array value element by element.
type AggregateRValue struct {
	Kind     AggregateKind
	Elements []Operand
}

// RepeatRValue builds an array of Count copies of Value.
type RepeatRValue struct {
	Value Operand
	Count int
}

// CastRValue converts Value to Target.
type CastRValue struct {
	Value  Operand
	Target types.TypeID
}

// ExtractRValue reads one field out of an aggregate temp by value.
type ExtractRValue struct {
	Base  TempID
	Index int
}

func (ConstantRValue) mirRValue()  {}
func (BinaryRValue) mirRValue()    {}
func (UnaryRValue) mirRValue()     {}
func (RefRValue) mirRValue()       {}
func (AggregateRValue) mirRValue() {}
func (RepeatRValue) mirRValue()    {}
func (CastRValue) mirRValue()      {}
func (ExtractRValue) mirRValue()   {}

// CallKind discriminates call targets.
type CallKind int

const (
	CallInternal CallKind = iota
	CallExternal
)

// CallTarget names a statically known callee.
type CallTarget struct {
	Kind CallKind
	ID   uint32
}

// Statement is one non-terminator instruction.
type Statement interface {
	mirStatement()
}

// Define assigns an rvalue to a fresh temp.
type Define struct {
	Dest TempID
	RV   RValue
}

// Load reads a place into a fresh temp. This is the only way a place becomes
// a value.
type Load struct {
	Dest TempID
	Src  Place
}

// Assign stores an operand into a place.
type Assign struct {
	Dest Place
	Src  Operand
}

// Init writes an rvalue directly into a place, used for aggregate
// initializers lowered without an intermediate aggregate value.
type Init struct {
	Dest Place
	RV   RValue
}

// Call invokes a target. Dest is InvalidTemp for unit or diverging results.
type Call struct {
	Dest   TempID
	Target CallTarget
	Args   []Operand
}

func (*Define) mirStatement() {}
func (*Load) mirStatement()   {}
func (*Assign) mirStatement() {}
func (*Init) mirStatement()   {}
func (*Call) mirStatement()   {}
