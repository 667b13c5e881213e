package source

import "testing"

func TestSpanString(t *testing.T) {
	tests := []struct {
		span Span
		want string
	}{
		{Span{File: "main.rs", Line: 3, Col: 7}, "main.rs:3:7"},
		{NoSpan, "<synthetic>"},
		{Span{Line: 4}, "<synthetic>"},
	}

	for _, tt := range tests {
		if got := tt.span.String(); got != tt.want {
			t.Errorf("Span.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSpanIsValid(t *testing.T) {
	if !(Span{File: "a.rs", Line: 1, Col: 1}).IsValid() {
		t.Error("expected valid span")
	}
	if NoSpan.IsValid() {
		t.Error("zero span must not be valid")
	}
}
