package monitor

import (
	tea "github.com/charmbracelet/bubbletea"
)

// HandleMouseMsg routes pointer events to the selected chart. Motion moves
// the hand, a left drag selects a range to zoom into, and the wheel
// scrolls. Ctrl or shift on release, or a right click, resets the zoom.
func (m *Model) HandleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	c := m.current()
	if c == nil || m.showHelp {
		return nil
	}
	x, inside := m.pointerX(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
			return m.scrollBy(-m.scrollStep())
		case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
			return m.scrollBy(m.scrollStep())
		case tea.MouseButtonRight:
			if inside && c.Zoom() != nil {
				c.SetZoom(nil)
				return m.redrawCmd(false)
			}
		case tea.MouseButtonLeft:
			if !inside {
				return nil
			}
			c.PointerDown(x)
			if sel, dragging := c.PointerMove(x); dragging {
				m.selection = &sel
			}
		}

	case tea.MouseActionRelease:
		if !c.Dragging() {
			return nil
		}
		m.selection = nil
		if c.PointerUp(x, msg.Ctrl || msg.Shift) {
			return m.redrawCmd(false)
		}

	case tea.MouseActionMotion:
		if !inside && !c.Dragging() {
			return nil
		}
		sel, dragging := c.PointerMove(x)
		if dragging {
			m.selection = &sel
		} else {
			m.selection = nil
		}
	}
	return nil
}

// pointerX converts a terminal cell to a viewport pixel at the centre of
// the cell. Positions outside the chart are clamped to its edges and
// reported as not inside.
func (m Model) pointerX(col, row int) (x float64, inside bool) {
	cols, rows := m.chartSize()
	col -= yGutter
	inside = col >= 0 && col < cols && row >= chartTop && row < chartTop+rows
	col = max(0, min(col, cols-1))
	return float64(col*dotsPerCol + 1), inside
}
