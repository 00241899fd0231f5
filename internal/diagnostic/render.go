package diagnostic

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiReset  = "\x1b[0m"
)

// StdoutIsTerminal reports whether stdout is an interactive terminal.
func StdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Render writes diagnostics to w, one per line with indented notes
// and hints. When color is true, errors render red and warnings
// yellow.
func Render(w io.Writer, filename string, diags *Diagnostics, color bool) {
	for _, d := range diags.All() {
		sev := d.Severity.String()
		if color {
			c := ansiYellow
			if d.Severity == Error {
				c = ansiRed
			}
			fmt.Fprintf(w, "%s%s%s[%s]%s[%s:%d:%d]: %s\n",
				ansiBold, c, sev, d.Code, ansiReset,
				filename, d.Span.Line, d.Span.Column, d.Message)
			for _, note := range d.Notes {
				fmt.Fprintf(w, "  %snote:%s %s\n", ansiDim, ansiReset, note)
			}
			for _, hint := range d.Hints {
				fmt.Fprintf(w, "  %shint:%s %s\n", ansiDim, ansiReset, hint)
			}
		} else {
			fmt.Fprintf(w, "%s[%s][%s:%d:%d]: %s\n",
				sev, d.Code, filename, d.Span.Line, d.Span.Column, d.Message)
			for _, note := range d.Notes {
				fmt.Fprintf(w, "  note: %s\n", note)
			}
			for _, hint := range d.Hints {
				fmt.Fprintf(w, "  hint: %s\n", hint)
			}
		}
	}
}
