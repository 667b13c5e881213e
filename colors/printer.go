package colors

import (
	"fmt"
	"io"
)

// COLOR is an ANSI escape prefix.
type COLOR string

const (
	RESET  COLOR = "\033[0m"
	RED    COLOR = "\033[31m"
	GREEN  COLOR = "\033[32m"
	YELLOW COLOR = "\033[33m"
	BLUE   COLOR = "\033[34m"
	CYAN   COLOR = "\033[36m"
	GREY   COLOR = "\033[90m"

	BOLD_RED COLOR = "\033[1;31m"
)

// Enabled gates all color output. Disable it when the stream is not a
// terminal.
var Enabled = true

func (c COLOR) wrap(s string) string {
	if !Enabled {
		return s
	}
	return string(c) + s + string(RESET)
}

func (c COLOR) Printf(format string, args ...any) {
	fmt.Print(c.wrap(fmt.Sprintf(format, args...)))
}

func (c COLOR) Println(args ...any) {
	fmt.Print(c.wrap(fmt.Sprintln(args...)))
}

func (c COLOR) Fprintf(w io.Writer, format string, args ...any) {
	fmt.Fprint(w, c.wrap(fmt.Sprintf(format, args...)))
}

func (c COLOR) Fprintln(w io.Writer, args ...any) {
	fmt.Fprint(w, c.wrap(fmt.Sprintln(args...)))
}

func (c COLOR) Sprintf(format string, args ...any) string {
	return c.wrap(fmt.Sprintf(format, args...))
}
