package components

import (
	"github.com/RavenCaffeine/SeekJob-Helper/internal/render"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

// Markdown renders AI-generated text (markdown, math, code) for the
// terminal at the given width using the active theme.
func Markdown(text string, width int) string {
	return render.ANSI(render.Render(text, theme.Current()), width)
}
