package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/stepper/internal/tui/theme"
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("enter", "continue", "q", "quit")
// Returns: "enter continue • q quit"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	t := theme.Current()
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))
	sep := " " + lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface2)).Render("•") + " "

	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, keyStyle.Render(pairs[i])+" "+descStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, sep)
}

// iconGlyphs maps icon names used in flows to terminal glyphs.
var iconGlyphs = map[string]string{
	"check":        "✓",
	"check-circle": "✓",
	"done":         "✓",
	"edit":         "✎",
	"edit-circle":  "✎",
	"pencil":       "✎",
	"warning":      "!",
	"error":        "!",
	"alert":        "!",
	"person":       "☺",
	"user":         "☺",
	"star":         "★",
	"lock":         "⚿",
	"mail":         "✉",
	"flag":         "⚑",
	"info":         "i",
}

// glyph returns the glyph for an icon name. Unknown names of a single
// character are shown as-is; anything else falls back to the step number.
func glyph(icon, number string) string {
	if icon == "" {
		return number
	}
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	if len([]rune(icon)) == 1 {
		return icon
	}
	return number
}
