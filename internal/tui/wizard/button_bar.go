package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/stepper/internal/stepper"
	"github.com/mark3labs/stepper/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button is one action of the selected step.
type Button struct {
	Action string
	Label  string
	State  ButtonState
}

// ButtonBar renders a step's actions and tracks which one has focus.
type ButtonBar struct {
	buttons []Button
	focus   int
	width   int
}

// NewButtonBar creates a button bar with no focus.
func NewButtonBar() *ButtonBar {
	return &ButtonBar{focus: -1, width: 60}
}

// SetActions replaces the buttons with the given actions. Focus is kept on
// the same action name when it is still present and enabled.
func (b *ButtonBar) SetActions(actions []stepper.Action) {
	focused := b.FocusedAction()

	b.buttons = make([]Button, 0, len(actions))
	b.focus = -1
	for _, a := range actions {
		state := ButtonNormal
		if a.Disabled {
			state = ButtonDisabled
		}
		b.buttons = append(b.buttons, Button{Action: a.Name, Label: a.Label(), State: state})
	}
	for i, btn := range b.buttons {
		if focused != "" && btn.Action == focused && btn.State != ButtonDisabled {
			b.focus = i
		}
	}
}

// Buttons returns the current buttons with focus applied.
func (b *ButtonBar) Buttons() []Button {
	out := make([]Button, len(b.buttons))
	copy(out, b.buttons)
	if b.focus >= 0 {
		out[b.focus].State = ButtonFocused
	}
	return out
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// FocusNext moves focus to the next enabled button, wrapping around.
func (b *ButtonBar) FocusNext() { b.move(1) }

// FocusPrev moves focus to the previous enabled button, wrapping around.
func (b *ButtonBar) FocusPrev() { b.move(-1) }

func (b *ButtonBar) move(dir int) {
	n := len(b.buttons)
	if n == 0 {
		return
	}
	start := b.focus
	if start < 0 && dir < 0 {
		start = 0
	}
	for i := 1; i <= n; i++ {
		idx := ((start+dir*i)%n + n) % n
		if b.buttons[idx].State != ButtonDisabled {
			b.focus = idx
			return
		}
	}
}

// Blur clears focus.
func (b *ButtonBar) Blur() { b.focus = -1 }

// FocusedAction returns the focused action name, or "".
func (b *ButtonBar) FocusedAction() string {
	if b.focus < 0 || b.focus >= len(b.buttons) {
		return ""
	}
	return b.buttons[b.focus].Action
}

// Render renders the button bar left-aligned within its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	t := theme.Current()
	base := lipgloss.NewStyle().Padding(0, 2).MarginRight(1)
	normalStyle := base.
		Foreground(lipgloss.Color(t.FgBase)).
		Background(lipgloss.Color(t.BgSurface0))
	disabledStyle := base.
		Foreground(lipgloss.Color(t.FgMuted)).
		Background(lipgloss.Color(t.BgMantle))
	focusedStyle := base.
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.Secondary)).
		Bold(true)

	var rendered []string
	for _, btn := range b.Buttons() {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, disabledStyle.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, focusedStyle.Render("› "+btn.Label))
		default:
			rendered = append(rendered, normalStyle.Render(btn.Label))
		}
	}

	return lipgloss.NewStyle().MaxWidth(b.width).Render(strings.Join(rendered, ""))
}
