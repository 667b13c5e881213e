package mir

// Terminator ends a basic block. Every block has exactly one, set when the
// block is sealed; no statement may follow it.
type Terminator interface {
	mirTerminator()
}

// Goto is an unconditional jump.
type Goto struct {
	Target BlockID
}

// SwitchArm is one (constant, target) pair of a SwitchInt.
type SwitchArm struct {
	Value  Constant
	Target BlockID
}

// SwitchInt dispatches on an integer or boolean discriminant. Arms keep their
// insertion order; Otherwise catches everything else.
type SwitchInt struct {
	Discr     Operand
	Arms      []SwitchArm
	Otherwise BlockID
}

// Return exits the function. Value is nil for void returns.
type Return struct {
	Value Operand
}

// Unreachable marks a block control can never reach.
type Unreachable struct{}

func (*Goto) mirTerminator()        {}
func (*SwitchInt) mirTerminator()   {}
func (*Return) mirTerminator()      {}
func (*Unreachable) mirTerminator() {}
