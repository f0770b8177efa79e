package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		GapThresholdSeconds: 300,
		GapBudgetUnits:      DefaultGapBudgetUnits,
		Window:              3600,
		Width:               100,
		Height:              40,
	}
}

// tenHours returns minute samples for keys a and b over ten hours.
func tenHours() RawSeries {
	raw := RawSeries{}
	for i := 0; i < 600; i++ {
		ts := int64(i * 60)
		raw["a"] = append(raw["a"], Sample{Timestamp: ts, Value: float64(i)})
		raw["b"] = append(raw["b"], Sample{Timestamp: ts, Value: float64(600 - i)})
	}
	return raw
}

func newTestChart(t *testing.T) *Chart {
	t.Helper()
	c := New("web-1", testOptions())
	c.SetData(tenHours(), nil)
	c.SetKeys([]string{"a"})
	return c
}

func TestChartInitialScrollIsRightAligned(t *testing.T) {
	c := newTestChart(t)
	dataWidth := c.Segmenter().DataWidth()

	assert.InDelta(t, 100*35940.0/3600, dataWidth, 1e-9)
	assert.InDelta(t, dataWidth-100, c.ScrollLeft(), 1e-9)

	h := c.Hand()
	require.NotNil(t, h)
	assert.InDelta(t, c.ScrollLeft()+50, h.X, 2, "hand starts centred")
}

func TestChartScrollClamps(t *testing.T) {
	c := newTestChart(t)
	c.ScrollTo(-50)
	assert.Equal(t, 0.0, c.ScrollLeft())
	c.ScrollBy(1e6)
	assert.InDelta(t, c.Segmenter().DataWidth()-100, c.ScrollLeft(), 1e-9)
}

func TestChartRedrawDrawsVisibleSegments(t *testing.T) {
	c := newTestChart(t)
	pass := c.Redraw()
	assert.LessOrEqual(t, len(pass.Jobs), 3)

	visible := c.VisibleSegments()
	require.NotEmpty(t, visible)
	for _, seg := range visible {
		assert.True(t, seg.Drawn())
		require.Len(t, seg.Paths(), 1)
		assert.Equal(t, "a", seg.Paths()[0].Key)
	}
	assert.Equal(t, 599.0, c.YScale().Max)
}

func TestChartToggleKey(t *testing.T) {
	c := newTestChart(t)
	c.Redraw()

	c.ToggleKey("b")
	assert.Equal(t, KeySet{"a", "b"}, c.Keys())
	pass := c.Redraw()
	assert.LessOrEqual(t, len(pass.Jobs), 3)
	assert.Equal(t, 600.0, c.YScale().Max)

	c.ToggleKey("missing")
	assert.Equal(t, KeySet{"a", "b"}, c.Keys())

	c.ToggleKey("a")
	assert.Equal(t, KeySet{"b"}, c.Keys())
}

func TestChartSetWindowKeepsHand(t *testing.T) {
	c := newTestChart(t)
	c.ScrollTo(400)
	c.PointerMove(50)
	before := *c.Hand()
	offset := before.X - c.ScrollLeft()

	c.SetWindow(7200)

	after := c.Hand()
	require.NotNil(t, after)
	assert.Equal(t, before.Row.Timestamp, after.Row.Timestamp)
	assert.InDelta(t, offset, after.X-c.ScrollLeft(), 1e-6)
	assert.Len(t, c.Segmenter().Segments(), 5)
}

func TestChartResizeRebuildsSegments(t *testing.T) {
	c := newTestChart(t)
	c.Redraw()
	c.Resize(200, 80)

	assert.Equal(t, 200.0, c.Viewport().Width)
	for _, seg := range c.Segmenter().Segments() {
		assert.False(t, seg.Drawn())
		assert.Equal(t, 200.0, seg.Width)
	}
}

func TestChartDragZoom(t *testing.T) {
	c := newTestChart(t)
	c.ScrollTo(0)

	c.PointerDown(10)
	sel, dragging := c.PointerMove(60)
	require.True(t, dragging)
	assert.Less(t, sel.From, sel.To)

	require.True(t, c.PointerUp(60, false))
	zoom := c.Zoom()
	require.NotNil(t, zoom)
	assert.Less(t, zoom.From, zoom.To)
	assert.Len(t, c.Segmenter().Segments(), 1, "zoomed range fits one viewport")
	first, last := c.Scale().Domain()
	assert.GreaterOrEqual(t, first, zoom.From)
	assert.LessOrEqual(t, last, zoom.To)

	assert.True(t, c.PointerUp(0, true), "reset gesture clears zoom")
	assert.Nil(t, c.Zoom())
	assert.Len(t, c.Segmenter().Segments(), 10)
}

func TestChartStepHand(t *testing.T) {
	c := newTestChart(t)
	start := c.Hand().Row.Timestamp

	c.StepHand(-1)
	assert.Equal(t, start-60, c.Hand().Row.Timestamp)
	c.StepHand(2)
	assert.Equal(t, start+60, c.Hand().Row.Timestamp)
}

func TestChartXTicksStayInViewport(t *testing.T) {
	c := newTestChart(t)
	ticks := c.XTicks()
	require.NotEmpty(t, ticks)
	for _, ts := range ticks {
		x := c.Scale().Scale(ts)
		assert.GreaterOrEqual(t, x, c.ScrollLeft())
		assert.LessOrEqual(t, x, c.ScrollLeft()+100)
	}
	assert.InDelta(t, TicksPerSegment, len(ticks), 1)
}

func TestChartNewDataStaysAtRightEdge(t *testing.T) {
	c := newTestChart(t)
	raw := tenHours()
	raw["a"] = append(raw["a"], Sample{Timestamp: 600 * 60, Value: 1})
	c.SetData(raw, map[string]Status{"b": {Timestamp: 601 * 60, Value: 2}})

	assert.InDelta(t, c.Segmenter().DataWidth()-100, c.ScrollLeft(), 1e-9)
	_, last, _ := c.Dataset().Domain()
	assert.Equal(t, float64(601*60), last)
}

func TestRegistryIsolatesCharts(t *testing.T) {
	r := NewRegistry(testOptions())
	web := r.Ensure("web")
	db := r.Ensure("db")
	assert.Same(t, web, r.Ensure("web"))
	assert.Equal(t, []string{"db", "web"}, r.IDs())
	assert.Equal(t, 2, r.Len())

	web.SetData(tenHours(), nil)
	db.SetData(tenHours(), nil)
	web.ToggleKey("a")
	web.Redraw()

	assert.Empty(t, db.Keys())
	for _, seg := range db.Segmenter().Segments() {
		assert.False(t, seg.Drawn())
	}

	r.Remove("db")
	_, ok := r.Get("db")
	assert.False(t, ok)
}

func TestRegistryResizeAndWindowApplyToAll(t *testing.T) {
	r := NewRegistry(testOptions())
	web := r.Ensure("web")
	web.SetData(tenHours(), nil)

	r.Resize(200, 80)
	r.SetWindow(7200)
	db := r.Ensure("db")

	for _, c := range []*Chart{web, db} {
		assert.Equal(t, 200.0, c.Options().Width, c.ID())
		assert.Equal(t, 80.0, c.Options().Height, c.ID())
		assert.Equal(t, 7200.0, c.Options().Window, c.ID())
	}
	assert.Equal(t, 200.0, r.Options().Width)
	assert.InDelta(t, 200*36000.0/7200, web.Segmenter().DataWidth(), 200*0.05)

	var visited []string
	r.Each(func(c *Chart) { visited = append(visited, c.ID()) })
	assert.Equal(t, []string{"db", "web"}, visited)
}

func TestChartCancelDrag(t *testing.T) {
	c := newTestChart(t)
	c.PointerDown(10)
	c.PointerMove(60)
	require.True(t, c.Dragging())

	c.CancelDrag()
	assert.False(t, c.Dragging())
	assert.False(t, c.PointerUp(60, false))
	assert.Nil(t, c.Zoom())
}
