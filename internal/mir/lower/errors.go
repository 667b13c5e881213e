package lower

import "fmt"

// InvariantError reports a violated lowering invariant: malformed HIR input,
// a CFG construction bug, or a misapplied ABI helper. These are compiler
// bugs, not user diagnostics; lowering aborts on the first one.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "mir lowering invariant violated: " + e.Msg
}

// ice panics with an InvariantError. LowerProgram recovers it at the package
// boundary and surfaces it as the error of the whole compilation stage.
func ice(format string, args ...any) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}
