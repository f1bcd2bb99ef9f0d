package tui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF5555")
	ColorGreen   = lipgloss.Color("#50FA7B")
	ColorYellow  = lipgloss.Color("#F1FA8C")
	ColorCyan    = lipgloss.Color("#8BE9FD")
	ColorPurple  = lipgloss.Color("#BD93F9")
	ColorBlue    = lipgloss.Color("#6272A4")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#F8F8F2")
)

// Base styles reused by views.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ListeningDotStyle = lipgloss.NewStyle().
				Foreground(ColorRed).
				Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorBlue)

	CorrectStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	WrongStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	TranscriptStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// themeStyles maps a personality's theme color name to a headline style.
var themeStyles = map[string]lipgloss.Style{
	"purple": lipgloss.NewStyle().Bold(true).Foreground(ColorPurple),
	"blue":   lipgloss.NewStyle().Bold(true).Foreground(ColorCyan),
	"red":    lipgloss.NewStyle().Bold(true).Foreground(ColorRed),
}

// ThemeStyle returns the headline style for a personality theme color,
// falling back to the plain title style for unknown names.
func ThemeStyle(color string) lipgloss.Style {
	if s, ok := themeStyles[color]; ok {
		return s
	}
	return TitleStyle
}
