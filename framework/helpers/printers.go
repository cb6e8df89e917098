package helpers

import (
	"fmt"
	"io"
)

// MustFprintln is fmt.Fprintln for console output where a failed write means there is no way to
// report anything anyway. It panics on error.
func MustFprintln(w io.Writer, a ...any) {
	if _, err := fmt.Fprintln(w, a...); err != nil {
		panic(err)
	}
}

// MustFprintf is the formatting version of MustFprintln.
func MustFprintf(w io.Writer, format string, a ...any) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		panic(err)
	}
}
