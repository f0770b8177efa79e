package monitor

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/source"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	// ColorSelection backs the columns under a drag selection.
	ColorSelection = lipgloss.Color("#2E1F4A")
)

// SeriesColors gives each active key slot its own color. The slot is the
// key's position in the active set, so toggling a key recolors the ones
// after it.
var SeriesColors = [chart.MaxSeries]lipgloss.Color{
	lipgloss.Color("#00FFFF"),
	lipgloss.Color("#FF2E97"),
	lipgloss.Color("#39FF14"),
	lipgloss.Color("#FFAA00"),
	lipgloss.Color("#BF40FF"),
	lipgloss.Color("#4D9DFF"),
	lipgloss.Color("#FF6B35"),
	lipgloss.Color("#F9F871"),
	lipgloss.Color("#00C9A7"),
	lipgloss.Color("#FF8FAB"),
	lipgloss.Color("#A0E426"),
	lipgloss.Color("#C34A36"),
	lipgloss.Color("#845EC2"),
	lipgloss.Color("#B0A8B9"),
	lipgloss.Color("#FFC75F"),
}

// SeriesColor returns the color of series slot i. Out of range slots are muted.
func SeriesColor(i int) lipgloss.Color {
	if i < 0 || i >= len(SeriesColors) {
		return ColorTextMuted
	}
	return SeriesColors[i]
}

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ClientStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Padding(0, 1)

	ClientSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorBorder).
				Bold(true).
				Padding(0, 1)

	AxisStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HandStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim)

	GapStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)

	FlashStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)
)

// Status indicator characters
const (
	StatusGlyphUnknown = "◌"
	StatusGlyphNormal  = "◉"
	StatusGlyphWarning = "◔"
	StatusGlyphFatal   = "◍"
)

// StatusColor maps a backend status code to its color.
func StatusColor(code int) lipgloss.Color {
	switch {
	case code < chart.StatusNormal:
		return ColorTextMuted
	case code >= chart.StatusFatal:
		return ColorCritical
	case code >= chart.StatusWarning:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// StatusGlyph returns the indicator for a status code.
func StatusGlyph(code int) string {
	switch {
	case code == source.StatusUnknown:
		return StatusGlyphUnknown
	case code >= chart.StatusFatal:
		return StatusGlyphFatal
	case code >= chart.StatusWarning:
		return StatusGlyphWarning
	default:
		return StatusGlyphNormal
	}
}

// RenderStatus renders a colored status indicator.
func RenderStatus(code int) string {
	return lipgloss.NewStyle().Foreground(StatusColor(code)).Render(StatusGlyph(code))
}
