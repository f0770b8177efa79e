package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// mouseHelp describes the pointer gestures, which key bindings can't.
var mouseHelp = []struct {
	Gesture string
	Desc    string
}{
	{Gesture: "move", Desc: "Show values under the pointer"},
	{Gesture: "drag", Desc: "Zoom into the selected range"},
	{Gesture: "ctrl+drag", Desc: "Cancel the drag and reset zoom"},
	{Gesture: "right click", Desc: "Reset zoom"},
	{Gesture: "wheel", Desc: "Scroll through time"},
}

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered box with every binding.
func (m Model) renderHelpOverlay() string {
	full := m.help
	full.ShowAll = true

	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard"))
	lines = append(lines, full.FullHelpView(m.keys.FullHelp()))
	lines = append(lines, "")
	lines = append(lines, helpTitleStyle.Render("Mouse"))
	for _, g := range mouseHelp {
		lines = append(lines, helpKeyStyle.Render(g.Gesture)+helpDescStyle.Render(g.Desc))
	}
	lines = append(lines, "")
	lines = append(lines, LabelStyle.Render("Press ? to close"))

	box := helpBoxStyle.Render(strings.Join(lines, "\n"))

	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
