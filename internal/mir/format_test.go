package mir

import (
	"strings"
	"testing"

	"github.com/rogerflowey/rust-compiler-sub003/internal/types"
)

func TestFormatModule(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Primitive(types.I32)

	mod := &Module{
		Globals: []Global{&StringGlobal{Data: []byte("hi\x00")}},
		Externs: []*ExternFunction{{
			Name:   "printInt",
			Params: []types.TypeID{i32},
			Return: in.Unit(),
		}},
		Functions: []*Function{{
			Name:      "twice",
			Params:    []Param{{Local: 0, Type: i32, Name: "n"}},
			TempTypes: []types.TypeID{i32, i32},
			Locals:    []LocalInfo{{Name: "n", Type: i32}},
			Blocks: []*BasicBlock{{
				Stmts: []Statement{
					&Load{Dest: 0, Src: PlaceForLocal(0)},
					&Define{Dest: 1, RV: BinaryRValue{Kind: IAdd, LHS: TempID(0), RHS: TempID(0)}},
				},
				Term: &Return{Value: TempID(1)},
			}},
			Return: ReturnPlan{Kind: RetDirect, Type: i32},
		}},
	}

	got := FormatModule(in, mod)
	for _, want := range []string{
		`global @g0 = "hi\x00"`,
		"extern fn printInt(i32) -> unit",
		"fn twice(n: i32) -> i32 {",
		"  local l0 n: i32",
		"  block b0:",
		"    %t0 = load l0",
		"    %t1 = iadd %t0, %t0",
		"    ret %t1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in dump:\n%s", want, got)
		}
	}
}

func TestFormatPlaceProjections(t *testing.T) {
	place := PlaceForLocal(2).Field(1).Index(TempID(4))
	if got := FormatPlace(place); got != "l2.1[%t4]" {
		t.Errorf("FormatPlace = %q, want l2.1[%%t4]", got)
	}
}

func TestFormatTerminatorSwitch(t *testing.T) {
	in := types.NewInterner()
	boolT := in.Primitive(types.Bool)
	term := &SwitchInt{
		Discr:     TempID(0),
		Arms:      []SwitchArm{{Value: Constant{Type: boolT, Value: BoolConst{V: true}}, Target: 1}},
		Otherwise: 2,
	}
	got := formatTerminator(in, term)
	want := "switch %t0 [bool true: b1] otherwise b2"
	if got != want {
		t.Errorf("formatTerminator = %q, want %q", got, want)
	}
}
