package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication. ANSI codes follow the terminal's
// own theme.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors are cycled by the spinner frames.
var GradientColors = []lipgloss.Color{
	lipgloss.Color("#F472B6"),
	lipgloss.Color("#A78BFA"),
	lipgloss.Color("#22D3EE"),
	lipgloss.Color("#4ADE80"),
}

// LevelColor maps a status level name ("ok", "warn", "fail") to its color.
// Anything else is muted.
func LevelColor(level string) lipgloss.Color {
	switch level {
	case LevelOK:
		return ColorSuccess
	case LevelWarn:
		return ColorWarning
	case LevelFail:
		return ColorError
	default:
		return ColorMuted
	}
}
