package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minuteDataset returns n rows one minute apart with keys a and b.
func minuteDataset(n int) Dataset {
	d := make(Dataset, 0, n)
	for i := 0; i < n; i++ {
		d = append(d, Row{
			Timestamp: float64(i * 60),
			Values:    map[string]float64{"a": float64(i), "b": float64(n - i)},
		})
	}
	return d
}

// tenViewportSegmenter lays 10 hours of minute data out at one hour per
// 100px viewport, giving 10 segments.
func tenViewportSegmenter(t *testing.T) (*Segmenter, Dataset) {
	t.Helper()
	d := minuteDataset(600)
	scale := BuildGapScale(d, 300, DefaultGapBudgetUnits)
	width := DataWidth(100, d.Span(), 3600)
	s := NewSegmenter(scale, width, 100)
	require.Len(t, s.Segments(), 10)
	return s, d
}

func TestDataWidth(t *testing.T) {
	tests := []struct {
		name   string
		vw     float64
		span   float64
		window float64
		want   float64
	}{
		{name: "window shorter than span", vw: 100, span: 7200, window: 3600, want: 200},
		{name: "window longer than span", vw: 100, span: 1800, window: 3600, want: 100},
		{name: "no window", vw: 100, span: 7200, window: 0, want: 100},
		{name: "empty span", vw: 100, span: 0, window: 3600, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DataWidth(tt.vw, tt.span, tt.window))
		})
	}
}

func TestSegmenterLayout(t *testing.T) {
	s, d := tenViewportSegmenter(t)
	first, last, _ := d.Domain()

	segs := s.Segments()
	assert.Equal(t, first, segs[0].Start)
	assert.Equal(t, last, segs[len(segs)-1].End)
	for i, seg := range segs {
		assert.Equal(t, float64(i)*100, seg.Left)
		assert.False(t, seg.Drawn())
		if i > 0 {
			assert.InDelta(t, segs[i-1].End, seg.Start, 1e-6)
		}
	}
}

func TestSegmenterVisibleBoundary(t *testing.T) {
	s, d := tenViewportSegmenter(t)
	first, last, _ := d.Domain()

	atStart := s.VisibleBoundary(0)
	assert.Equal(t, first, atStart.From)
	assert.InDelta(t, s.Scale().Invert(200), atStart.To, 1e-6)

	atEnd := s.VisibleBoundary(s.DataWidth() - 100)
	assert.Equal(t, last, atEnd.To)
}

func TestSegmenterGatesOnVisibility(t *testing.T) {
	s, d := tenViewportSegmenter(t)

	pass := s.Plan(d, KeySet{"a"}, nil, 500)
	require.Len(t, pass.Jobs, 3)
	assert.Equal(t, []int{6, 5, 4}, []int{pass.Jobs[0].Segment, pass.Jobs[1].Segment, pass.Jobs[2].Segment})
	require.True(t, s.Apply(Compute(pass)))

	again := s.Plan(d, KeySet{"a"}, nil, 500)
	assert.Empty(t, again.Jobs, "drawn segments are cached")

	drawn := 0
	for _, seg := range s.Segments() {
		if seg.Drawn() {
			drawn++
		}
	}
	assert.Equal(t, 3, drawn, "segments outside the window stay untouched")
}

func TestSegmenterKeyChangeInvalidatesLazily(t *testing.T) {
	s, d := tenViewportSegmenter(t)
	for _, left := range []float64{0, 300, 600, 900} {
		require.True(t, s.Apply(Compute(s.Plan(d, KeySet{"a"}, nil, left))))
	}

	pass := s.Plan(d, KeySet{"a", "b"}, nil, 500)
	assert.LessOrEqual(t, len(pass.Jobs), 3)
	for _, seg := range s.Segments() {
		assert.False(t, seg.Drawn(), "segment %d must be invalidated", seg.Index)
	}

	reordered := s.Plan(d, KeySet{"b", "a"}, nil, 500)
	assert.Len(t, reordered.Jobs, 3, "reordering alone does not count as a change of content")
}

func TestSegmenterDiscardsStaleResults(t *testing.T) {
	s, d := tenViewportSegmenter(t)

	older := s.Plan(d, KeySet{"a"}, nil, 0)
	newer := s.Plan(d, KeySet{"a"}, nil, 900)
	assert.Greater(t, newer.Generation, older.Generation)

	assert.False(t, s.Apply(Compute(older)))
	assert.False(t, s.Segments()[0].Drawn())
	assert.True(t, s.Apply(Compute(newer)))
	assert.True(t, s.Segments()[9].Drawn())
}

func TestSegmenterRelayoutRejectsOldPasses(t *testing.T) {
	s, d := tenViewportSegmenter(t)
	pass := s.Plan(d, KeySet{"a"}, nil, 0)

	s.Relayout(BuildGapScale(d, 300, DefaultGapBudgetUnits), 500, 100)
	assert.Len(t, s.Segments(), 5)
	assert.False(t, s.Apply(Compute(pass)))
}

func TestSegmenterYDomainIsGlobal(t *testing.T) {
	s, d := tenViewportSegmenter(t)
	pass := s.Plan(d, KeySet{"a"}, nil, 0)
	assert.Equal(t, 0.0, pass.YMin)
	assert.Equal(t, 599.0, pass.YMax)
}

func TestSegmentPaths(t *testing.T) {
	d := Dataset{
		{Timestamp: 0, Values: map[string]float64{"a": 1, "b": 5}},
		{Timestamp: 10, Values: map[string]float64{"a": math.NaN()}},
		{Timestamp: 20, Values: map[string]float64{"a": 3}},
		{Timestamp: 30, Values: map[string]float64{"b": 6}},
	}

	paths := SegmentPaths(d, KeySet{"a", "b"}, 0, 25)
	require.Len(t, paths, 2)

	a := paths[0]
	assert.Equal(t, "a", a.Key)
	require.Len(t, a.Points, 3)
	assert.False(t, a.Points[1].Defined())
	runs := a.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, []Point{{Timestamp: 0, Value: 1}}, runs[0])
	assert.Equal(t, []Point{{Timestamp: 20, Value: 3}}, runs[1])

	b := paths[1]
	assert.Equal(t, []Point{{Timestamp: 0, Value: 5}}, b.Points, "rows without the key contribute no point")

	assert.Nil(t, SegmentPaths(d, KeySet{"a"}, 100, 200))
}
