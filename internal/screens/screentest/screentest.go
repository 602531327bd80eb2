// Package screentest drives screens from tests with synthetic key presses.
package screentest

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/screen"
)

var named = map[string]tea.KeyPressMsg{
	"enter":     {Code: tea.KeyEnter},
	"esc":       {Code: tea.KeyEscape},
	"tab":       {Code: tea.KeyTab},
	"shift+tab": {Code: tea.KeyTab, Mod: tea.ModShift},
	"up":        {Code: tea.KeyUp},
	"down":      {Code: tea.KeyDown},
	"left":      {Code: tea.KeyLeft},
	"right":     {Code: tea.KeyRight},
	"pgup":      {Code: tea.KeyPgUp},
	"pgdown":    {Code: tea.KeyPgDown},
	"space":     {Code: tea.KeySpace, Text: " "},
	"backspace": {Code: tea.KeyBackspace},
}

// Key returns the key press for a named key ("enter", "ctrl+s") or a
// single printable character.
func Key(s string) tea.KeyPressMsg {
	if k, ok := named[s]; ok {
		return k
	}
	if len(s) > 5 && s[:5] == "ctrl+" {
		return tea.KeyPressMsg{Code: []rune(s[5:])[0], Mod: tea.ModCtrl}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Type sends text one rune at a time and returns the updated screen.
func Type(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return s
}

// Press sends one key and returns the updated screen and command.
func Press(s screen.Screen, key string) (screen.Screen, tea.Cmd) {
	return s.Update(Key(key))
}

// Drain runs cmd and every command batched inside it, returning the
// messages produced within wait. Slow commands such as cursor blinks are
// abandoned.
func Drain(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-out:
	case <-time.After(wait):
		return nil
	}

	switch m := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, c := range m {
			msgs = append(msgs, Drain(c, wait)...)
		}
		return msgs
	default:
		return []tea.Msg{m}
	}
}

// Find returns the first message of type T in msgs.
func Find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Run delivers msgs to s in order, feeding each resulting command's
// messages back in, up to depth rounds.
func Run(s screen.Screen, cmd tea.Cmd, depth int) screen.Screen {
	for i := 0; i < depth && cmd != nil; i++ {
		var next []tea.Cmd
		for _, msg := range Drain(cmd, 200*time.Millisecond) {
			var c tea.Cmd
			s, c = s.Update(msg)
			if c != nil {
				next = append(next, c)
			}
		}
		cmd = tea.Batch(next...)
	}
	return s
}
