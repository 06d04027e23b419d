package wizard

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/stepper/internal/stepper"
	"github.com/mark3labs/stepper/internal/tui/theme"
)

// renderBadge draws the number or icon of a step in its state color.
func renderBadge(st stepper.StepSnapshot) string {
	s := theme.Current().S()
	text := glyph(st.Icon, strconv.Itoa(st.Number))

	switch {
	case st.Error:
		return s.BadgeError.Render(text)
	case st.Selected:
		return s.BadgeSelected.Render(text)
	case st.Completed:
		return s.BadgeCompleted.Render(text)
	default:
		return s.Badge.Render(text)
	}
}

func renderStepTitle(st stepper.StepSnapshot) string {
	s := theme.Current().S()
	switch {
	case st.Error:
		return s.StepTitleError.Render(st.Title)
	case st.Selected:
		return s.StepTitleSelected.Render(st.Title)
	default:
		return s.StepTitle.Render(st.Title)
	}
}

// renderLabel is the title block of a step: title, then summary and the
// optional label on their own lines.
func renderLabel(st stepper.StepSnapshot) string {
	s := theme.Current().S()
	lines := []string{renderStepTitle(st)}
	if st.Summary != "" {
		lines = append(lines, s.StepSummary.Render(st.Summary))
	}
	if st.OptionalText != "" {
		lines = append(lines, s.Optional.Render(st.OptionalText))
	}
	return strings.Join(lines, "\n")
}

// renderHorizontalHeader lays the steps out in a row joined by connectors.
func renderHorizontalHeader(snap stepper.Snapshot, width int) string {
	s := theme.Current().S()
	var cells []string
	for i, st := range snap.Steps {
		if i > 0 {
			conn := s.Connector
			if snap.Steps[i-1].Completed {
				conn = s.ConnectorDone
			}
			cells = append(cells, conn.Render(" ── "))
		}
		cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, renderBadge(st), " ", renderLabel(st)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return lipgloss.NewStyle().MaxWidth(width).Render(row)
}

// renderVerticalHeader stacks the steps with a connector line between them.
func renderVerticalHeader(snap stepper.Snapshot, width int) string {
	s := theme.Current().S()
	var rows []string
	for i, st := range snap.Steps {
		if i > 0 {
			conn := s.Connector
			if snap.Steps[i-1].Completed {
				conn = s.ConnectorDone
			}
			rows = append(rows, conn.Render("  │"))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, renderBadge(st), " ", renderLabel(st)))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(rows, "\n"))
}
