package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette: ocean blues with land greens and a sand accent.
var (
	Primary   = lipgloss.Color("#0EA5E9") // sky
	Secondary = lipgloss.Color("#10B981") // emerald
	Accent    = lipgloss.Color("#F59E0B") // sand
	Success   = lipgloss.Color("#22C55E")
	Warning   = lipgloss.Color("#EAB308")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#0C1E33")
	Border    = lipgloss.Color("#1E3A5F")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// GuessColor maps a guess status ("prompted", "incomplete", "completed",
// "failed" or empty) to its display color.
func GuessColor(status string) color.Color {
	switch status {
	case "completed":
		return Success
	case "failed":
		return Error
	case "prompted":
		return Primary
	case "incomplete":
		return Warning
	default:
		return TextDim
	}
}
