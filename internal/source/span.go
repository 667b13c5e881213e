package source

import "fmt"

// Span identifies a region of a source file. HIR nodes carry spans so that
// internal errors raised during lowering can point back at the offending
// construct.
type Span struct {
	File      string
	Line, Col int
}

// NoSpan is the zero span used for synthesized nodes.
var NoSpan = Span{}

// IsValid reports whether the span refers to a real source position.
func (s Span) IsValid() bool {
	return s.File != "" && s.Line > 0
}

func (s Span) String() string {
	if !s.IsValid() {
		return "<synthetic>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}
