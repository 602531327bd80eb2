package theme

import (
	"testing"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/render"
)

func TestApply(t *testing.T) {
	t.Cleanup(func() { Apply(render.ThemeDark) })

	Apply(render.ThemeLight)
	if Current() != render.ThemeLight {
		t.Fatalf("expected light theme, got %v", Current())
	}
	if Text != lightPalette.Text {
		t.Errorf("expected light text color")
	}

	Apply(render.ThemeDark)
	if Text != darkPalette.Text || Current() != render.ThemeDark {
		t.Errorf("expected dark palette after switching back")
	}
}
