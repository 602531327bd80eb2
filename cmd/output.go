package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/render"
)

const outputWidth = 80

// isTTY reports whether w is a terminal. Styled output is only written to
// terminals so piped output stays plain.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// printMarkdown writes model output, rendered through the content renderer
// on a terminal and verbatim otherwise.
func printMarkdown(w io.Writer, text string) {
	if !isTTY(w) {
		fmt.Fprintln(w, strings.TrimRight(text, "\n"))
		return
	}
	fmt.Fprintln(w, render.ANSI(render.Render(text, cfg.Theme()), outputWidth))
}

func rule(w io.Writer, n int) {
	fmt.Fprintln(w, strings.Repeat("─", n))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// userError prints as the user-facing message for err.
type userError struct{ err error }

func (e userError) Error() string { return api.MessageOf(e.err) }
func (e userError) Unwrap() error { return e.err }

func friendly(err error) error {
	if err == nil {
		return nil
	}
	return userError{err}
}
