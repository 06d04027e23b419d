// Package theme holds the color palette and pre-built styles of the
// terminal renderer.
package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	styles     *Styles
	stylesOnce sync.Once
}

var (
	current   = NewCatppuccinMocha()
	currentMu sync.RWMutex
)

// Current returns the active theme.
func Current() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetCurrent replaces the active theme.
func SetCurrent(t *Theme) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = t
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),

		Badge: badge.
			Foreground(lipgloss.Color(t.FgBase)).
			Background(lipgloss.Color(t.BgSurface1)),
		BadgeSelected: badge.
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Primary)),
		BadgeCompleted: badge.
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Success)),
		BadgeError: badge.
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Error)),

		StepTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)),
		StepTitleSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgBright)).
			Bold(true),
		StepTitleError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)),
		StepSummary: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		Optional: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)).
			Italic(true),
		Connector: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgSurface2)),
		ConnectorDone: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),

		Content: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BgSurface1)).
			Padding(0, 1),

		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Warning)).
			Padding(0, 1).
			Bold(true),
		Complete: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
	}
}
