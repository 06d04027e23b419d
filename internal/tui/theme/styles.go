package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	Title lipgloss.Style

	// Step badge (number or icon) by state
	Badge          lipgloss.Style
	BadgeSelected  lipgloss.Style
	BadgeCompleted lipgloss.Style
	BadgeError     lipgloss.Style

	StepTitle         lipgloss.Style
	StepTitleSelected lipgloss.Style
	StepTitleError    lipgloss.Style
	StepSummary       lipgloss.Style
	Optional          lipgloss.Style
	Connector         lipgloss.Style
	ConnectorDone     lipgloss.Style

	Content  lipgloss.Style
	Hint     lipgloss.Style
	Complete lipgloss.Style
}
