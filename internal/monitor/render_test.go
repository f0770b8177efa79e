package monitor

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Plain output keeps width and content checks free of escape codes.
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestYAxisGutter(t *testing.T) {
	gutter := yAxisGutter(chart.YScale{Min: 0, Max: 100, Height: 40}, 10)

	require.Len(t, gutter, 10)
	assert.Equal(t, "    100 ┤", gutter[0])
	assert.Equal(t, "      0 ┤", gutter[9])
	for i, row := range gutter {
		assert.Equal(t, yGutter, lipgloss.Width(row), "row %d", i)
	}
	assert.Equal(t, strings.Repeat(" ", yGutter-1)+"│", gutter[1])
}

func TestYAxisGutter_FlatScale(t *testing.T) {
	gutter := yAxisGutter(chart.YScale{Min: 5, Max: 5, Height: 12}, 3)
	for _, row := range gutter {
		assert.Equal(t, strings.Repeat(" ", yGutter-1)+"│", row)
	}
}

func TestRenderChart(t *testing.T) {
	m := newLoadedModel(t, nil)
	web, _ := m.Charts().Get("web-1")
	cols, rows := m.chartSize()

	lines := renderChart(web, cols, rows, nil)
	require.Len(t, lines, rows)
	for i, line := range lines {
		assert.Equal(t, yGutter+cols, lipgloss.Width(line), "row %d", i)
	}

	drawn := strings.ContainsFunc(strings.Join(lines, ""), func(r rune) bool {
		return r > brailleBase && r < brailleBase+0x100
	})
	assert.True(t, drawn, "series plotted as braille")
	assert.Contains(t, strings.Join(lines, ""), string(handGlyph))
}

func TestRenderChart_GapMarker(t *testing.T) {
	m := newLoadedModel(t, nil)
	web, _ := m.Charts().Get("web-1")
	m, _ = update(t, m, keyPress("d"))
	m, _ = update(t, m, keyPress("d"))
	require.Equal(t, 6*time.Hour, m.Window())
	web.Redraw()

	cols, rows := m.chartSize()
	_, gaps, _ := overlayColumns(web, cols, nil)
	assert.Contains(t, gaps, true, "the ten idle hours show as a gap column")

	lines := renderChart(web, cols, rows, nil)
	assert.Contains(t, strings.Join(lines, ""), string(gapGlyph))
}

func TestOverlayColumns_Selection(t *testing.T) {
	m := newLoadedModel(t, nil)
	web, _ := m.Charts().Get("web-1")

	_, _, selected := overlayColumns(web, 20, &chart.TimeRange{From: 4, To: 11})
	want := make([]bool, 20)
	for col := 2; col <= 5; col++ {
		want[col] = true
	}
	assert.Equal(t, want, selected)
}

func TestXAxis(t *testing.T) {
	m := newLoadedModel(t, nil)
	web, _ := m.Charts().Get("web-1")
	cols, _ := m.chartSize()

	line := xAxis(web, cols, m.dates)
	assert.Equal(t, yGutter+cols, lipgloss.Width(line))
	assert.True(t, strings.HasPrefix(line, strings.Repeat(" ", yGutter)))
	assert.Contains(t, line, "╵")
}

func TestStatusGlyph(t *testing.T) {
	tests := []struct {
		code  int
		glyph string
		color lipgloss.Color
	}{
		{code: source.StatusUnknown, glyph: StatusGlyphUnknown, color: ColorTextMuted},
		{code: chart.StatusNormal, glyph: StatusGlyphNormal, color: ColorHealthy},
		{code: chart.StatusWarning, glyph: StatusGlyphWarning, color: ColorWarning},
		{code: chart.StatusFatal, glyph: StatusGlyphFatal, color: ColorCritical},
		{code: 12, glyph: StatusGlyphWarning, color: ColorWarning},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.glyph, StatusGlyph(tt.code), "glyph for %d", tt.code)
		assert.Equal(t, tt.color, StatusColor(tt.code), "color for %d", tt.code)
	}
}

func TestSeriesColor(t *testing.T) {
	assert.Equal(t, SeriesColors[0], SeriesColor(0))
	assert.Equal(t, SeriesColors[chart.MaxSeries-1], SeriesColor(chart.MaxSeries-1))
}
