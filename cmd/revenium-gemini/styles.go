package main

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all command output.
const (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// titleStyle is for the banner line of each command.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// sectionStyle is for "Configuration:", "Environment:" and friends.
	sectionStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	cmdStyle     = lipgloss.NewStyle().Foreground(colorHighlight)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)
)

// labelWidth aligns "  Label:   value" rows.
const labelWidth = 18

// field renders one aligned "label: value" row.
func field(label, value string) string {
	return "  " + lipgloss.NewStyle().Width(labelWidth).Render(label+":") + value
}
