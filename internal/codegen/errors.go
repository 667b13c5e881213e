package codegen

import "fmt"

// InvariantError reports malformed MIR reaching emission: an unresolved type,
// a block without a terminator, a constant that cannot be rendered. Emit
// recovers it at the package boundary and fails the whole stage.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "codegen invariant violated: " + e.Msg
}

func ice(format string, args ...any) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}
