package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/format"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	cols, rows := m.chartSize()

	c := m.current()
	if c == nil {
		body := lipgloss.Place(width, max(1, height-2), lipgloss.Center, lipgloss.Center, m.renderPlaceholder())
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(width), body, m.renderFooter(width))
	}

	lines := make([]string, 0, rows+chromeRows)
	lines = append(lines, m.renderHeader(width))
	lines = append(lines, m.renderKeys(c, width))
	lines = append(lines, renderChart(c, cols, rows, m.selection)...)
	lines = append(lines, xAxis(c, cols, m.dates))
	lines = append(lines, m.renderTooltip(c, width))
	lines = append(lines, m.renderFooter(width))
	return strings.Join(lines, "\n")
}

// renderPlaceholder explains why there is no chart yet.
func (m Model) renderPlaceholder() string {
	switch {
	case m.lastErr != nil:
		return ErrorStyle.Render("Couldn't load data") + "\n\n" + LabelStyle.Render(m.lastErr.Error())
	case m.payload == nil:
		return LabelStyle.Render("Loading from " + m.describeSource() + "...")
	default:
		return LabelStyle.Render("No clients in the payload")
	}
}

// renderHeader shows the client tabs on the left and window, zoom and
// freshness on the right.
func (m Model) renderHeader(width int) string {
	left := TitleStyle.Render("gapview")
	for i, id := range m.clients {
		label := RenderStatus(m.payload.ClientStatus(id)) + " " + m.payload.Alias(id)
		if i == m.selected {
			left += ClientSelectedStyle.Render(label)
		} else {
			left += ClientStyle.Render(label)
		}
	}

	var right []string
	if d := m.Window(); d > 0 {
		right = append(right, "window "+shortDuration(d))
	}
	if c := m.current(); c != nil && c.Zoom() != nil {
		right = append(right, "zoom "+format.Span(c.Zoom().Duration()))
	}
	if !m.lastFetch.IsZero() {
		right = append(right, "updated "+format.Ago(float64(m.lastFetch.Unix()), time.Now()))
	}
	status := LabelStyle.Render(strings.Join(right, " | "))
	if m.lastErr != nil && m.payload != nil {
		status = ErrorStyle.Render("fetch failed "+format.Ago(float64(m.lastErrAt.Unix()), time.Now())) + " " + status
	}

	// HeaderStyle pads one cell either side.
	inner := width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		return HeaderStyle.Width(width).MaxWidth(width).Render(left)
	}
	return HeaderStyle.Width(width).MaxWidth(width).Render(left + strings.Repeat(" ", gap) + status)
}

// renderKeys lists the selected client's keys. Active keys take their
// series color; the picked key is underlined.
func (m Model) renderKeys(c *chart.Chart, width int) string {
	id := c.ID()
	keys := m.payload.Keys(id)
	if len(keys) == 0 {
		return MutedStyle.Render(strings.Repeat(" ", yGutter) + "no keys")
	}

	active := c.Keys()
	items := make([]string, 0, len(keys))
	for i, k := range keys {
		label := k
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, k)
		}
		st := MutedStyle
		if idx := active.SeriesIndex(k); idx >= 0 {
			st = lipgloss.NewStyle().Foreground(SeriesColor(idx)).Bold(true)
		}
		if i == m.keyCursor {
			st = st.Underline(true)
		}
		items = append(items, RenderStatus(m.payload.KeyStatus(id, k).Status)+" "+st.Render(label))
	}
	line := strings.Repeat(" ", yGutter) + strings.Join(items, "  ")
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// renderTooltip shows the hand's timestamp and the value of every active
// key there. Keys with no reading at the hand's row show n/a.
func (m Model) renderTooltip(c *chart.Chart, width int) string {
	h := c.Hand()
	if h == nil {
		return strings.Repeat(" ", yGutter) + MutedStyle.Render("no data")
	}

	parts := []string{ValueStyle.Render(m.dates.LongDate(h.Row.Timestamp))}
	for _, kv := range h.Values {
		value := "n/a"
		if kv.Visible {
			value = format.Value(m.payload.Format(kv.Key, m.cfg.Format.Value), kv.Value)
		}
		swatch := lipgloss.NewStyle().Foreground(SeriesColor(c.Keys().SeriesIndex(kv.Key))).Render("■")
		parts = append(parts, swatch+" "+LabelStyle.Render(kv.Key)+" "+ValueStyle.Render(value))
	}
	line := strings.Repeat(" ", yGutter) + strings.Join(parts, "  ")
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// renderFooter shows a pending message, or the short key help.
func (m Model) renderFooter(width int) string {
	var content string
	switch {
	case m.flash != "":
		content = FlashStyle.Render(m.flash)
	case m.lastErr != nil && m.payload != nil:
		content = ErrorStyle.Render(firstLine(m.lastErr.Error()))
	default:
		content = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return FooterStyle.MaxWidth(width).Render(content)
}

// shortDuration drops zero minute and second parts: 3h0m0s reads 3h.
func shortDuration(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
