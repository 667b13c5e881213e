package lower

import (
	"testing"

	"github.com/rogerflowey/rust-compiler-sub003/internal/hir"
	"github.com/rogerflowey/rust-compiler-sub003/internal/mir"
)

func TestClassifyBinary(t *testing.T) {
	tests := []struct {
		name   string
		op     hir.BinaryOp
		domain hir.Domain
		want   mir.BinKind
	}{
		{"signed add", hir.OpAdd, hir.DomainSignedInt, mir.IAdd},
		{"unsigned add", hir.OpAdd, hir.DomainUnsignedInt, mir.UAdd},
		{"signed div", hir.OpDiv, hir.DomainSignedInt, mir.IDiv},
		{"unsigned rem", hir.OpRem, hir.DomainUnsignedInt, mir.URem},
		{"char mul", hir.OpMul, hir.DomainChar, mir.UMul},
		{"bit and", hir.OpBitAnd, hir.DomainUnsignedInt, mir.BitAnd},
		{"shl", hir.OpShl, hir.DomainSignedInt, mir.Shl},
		{"signed shr", hir.OpShr, hir.DomainSignedInt, mir.ShrArith},
		{"unsigned shr", hir.OpShr, hir.DomainUnsignedInt, mir.ShrLogic},
		{"signed lt", hir.OpLt, hir.DomainSignedInt, mir.ICmpLt},
		{"unsigned ge", hir.OpGe, hir.DomainUnsignedInt, mir.UCmpGe},
		{"char le", hir.OpLe, hir.DomainChar, mir.UCmpLe},
		{"bool eq", hir.OpEq, hir.DomainBool, mir.BoolEq},
		{"bool ne", hir.OpNe, hir.DomainBool, mir.BoolNe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyBinary(tt.op, tt.domain); got != tt.want {
				t.Errorf("classifyBinary(%d, %d) = %v, want %v", tt.op, tt.domain, got, tt.want)
			}
		})
	}
}

func TestClassifyBinaryRejectsOrderedBool(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("ordered comparison on bool must be rejected")
		}
		if _, ok := r.(*InvariantError); !ok {
			t.Errorf("panic value is %T, want InvariantError", r)
		}
	}()
	classifyBinary(hir.OpLt, hir.DomainBool)
}
