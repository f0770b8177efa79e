package monitor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mouse(action tea.MouseAction, button tea.MouseButton, col, row int) tea.MouseMsg {
	return tea.MouseMsg{X: yGutter + col, Y: chartTop + row, Action: action, Button: button}
}

func TestPointerX(t *testing.T) {
	m := newLoadedModel(t, nil)
	cols, rows := m.chartSize()

	tests := []struct {
		name       string
		col, row   int
		wantX      float64
		wantInside bool
	}{
		{name: "first cell", col: yGutter, row: chartTop, wantX: 1, wantInside: true},
		{name: "tenth cell", col: yGutter + 10, row: chartTop + 3, wantX: 21, wantInside: true},
		{name: "gutter clamps to first cell", col: 2, row: chartTop, wantX: 1, wantInside: false},
		{name: "past the right edge", col: yGutter + cols + 4, row: chartTop, wantX: float64((cols-1)*2 + 1), wantInside: false},
		{name: "header row", col: yGutter + 5, row: 0, wantX: 11, wantInside: false},
		{name: "below the chart", col: yGutter + 5, row: chartTop + rows, wantX: 11, wantInside: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, inside := m.pointerX(tt.col, tt.row)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantInside, inside)
		})
	}
}

func TestMouseMotionMovesHand(t *testing.T) {
	m := newLoadedModel(t, nil)
	web, _ := m.Charts().Get("web-1")

	m, _ = update(t, m, mouse(tea.MouseActionMotion, tea.MouseButtonNone, 0, 2))
	left := web.Hand().Row.Timestamp
	m, _ = update(t, m, mouse(tea.MouseActionMotion, tea.MouseButtonNone, 80, 2))
	right := web.Hand().Row.Timestamp

	assert.Less(t, left, right)
	assert.Nil(t, m.selection, "motion without a button never selects")
}

func TestMouseDragZoom(t *testing.T) {
	m := newLoadedModel(t, nil)
	web, _ := m.Charts().Get("web-1")

	m, _ = update(t, m, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 20, 5))
	require.True(t, web.Dragging())
	m, _ = update(t, m, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 60, 5))
	require.NotNil(t, m.selection)
	assert.Less(t, m.selection.From, m.selection.To)

	m, cmd := update(t, m, mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 60, 5))
	assert.NotNil(t, cmd)
	assert.Nil(t, m.selection)
	require.NotNil(t, web.Zoom())
	zoomed := *web.Zoom()

	m, cmd = update(t, m, mouse(tea.MouseActionPress, tea.MouseButtonRight, 30, 5))
	assert.NotNil(t, cmd)
	assert.Nil(t, web.Zoom(), "right click resets zoom")
	assert.Less(t, zoomed.From, zoomed.To)
}

func TestMouseCtrlReleaseResetsZoom(t *testing.T) {
	m := newLoadedModel(t, nil)
	web, _ := m.Charts().Get("web-1")

	m, _ = update(t, m, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 20, 5))
	m, _ = update(t, m, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 60, 5))
	release := mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 60, 5)
	release.Ctrl = true
	_, _ = update(t, m, release)

	assert.Nil(t, web.Zoom())
	assert.False(t, web.Dragging())
}

func TestEscCancelsDrag(t *testing.T) {
	m := newLoadedModel(t, nil)
	web, _ := m.Charts().Get("web-1")

	m, _ = update(t, m, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 20, 5))
	m, _ = update(t, m, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 60, 5))
	m, _ = update(t, m, keyPress("esc"))

	assert.False(t, web.Dragging())
	assert.Nil(t, m.selection)
	assert.Nil(t, web.Zoom())
}

func TestMouseWheelScrolls(t *testing.T) {
	m := newLoadedModel(t, nil)
	web, _ := m.Charts().Get("web-1")
	start := web.ScrollLeft()

	_, cmd := update(t, m, mouse(tea.MouseActionPress, tea.MouseButtonWheelUp, 10, 5))
	assert.NotNil(t, cmd)
	assert.InDelta(t, start-m.scrollStep(), web.ScrollLeft(), 0.001)
}
