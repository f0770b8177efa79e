package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowsAt builds a dataset with one "v" value per timestamp.
func rowsAt(ts ...float64) Dataset {
	d := make(Dataset, 0, len(ts))
	for i, t := range ts {
		d = append(d, Row{Timestamp: t, Values: map[string]float64{"v": float64(i + 1)}})
	}
	return d
}

func TestDetectGaps(t *testing.T) {
	tests := []struct {
		name      string
		data      Dataset
		threshold float64
		want      []Gap
	}{
		{name: "empty", data: nil, threshold: 10, want: nil},
		{name: "single row", data: rowsAt(5), threshold: 10, want: nil},
		{name: "no gap at threshold", data: rowsAt(0, 10, 20), threshold: 10, want: nil},
		{
			name:      "two gaps ascending",
			data:      rowsAt(0, 50, 55, 200),
			threshold: 10,
			want:      []Gap{{Left: 0, Right: 50}, {Left: 55, Right: 200}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectGaps(tt.data, tt.threshold))
		})
	}
}

func TestGapScaleSingleGapScenario(t *testing.T) {
	s := BuildGapScale(rowsAt(0, 10, 10000, 10010), 100, 0)

	require.Len(t, s.Gaps(), 1)
	assert.Equal(t, Gap{Left: 10, Right: 10000}, s.Gaps()[0])

	// 20s of real data over 30 budget units plus one gap unit.
	assert.InDelta(t, 20.0/31.0, s.PerGapDuration(), 1e-12)
	assert.InDelta(t, 20.0/31.0+20, s.TotalVirtualDuration(), 1e-9)

	gapWidth := s.Normalized(10000) - s.Normalized(10)
	assert.InDelta(t, s.PerGapDuration()/s.TotalVirtualDuration(), gapWidth, 1e-12)
	assert.InDelta(t, 1.0/32.0, gapWidth, 1e-12)
	assert.NotEqual(t, 9990/s.TotalVirtualDuration(), gapWidth)

	assert.InDelta(t, 0.0, s.Normalized(0), 1e-12)
	assert.InDelta(t, 1.0, s.Normalized(10010), 1e-12)
}

func TestGapScaleGapsShareEqualWidth(t *testing.T) {
	const sixDays = 6 * 24 * 3600
	d := rowsAt(0, 10, 20, 80, 90, 100, 100+sixDays, 110+sixDays, 120+sixDays)
	s := BuildGapScale(d, 30, DefaultGapBudgetUnits)

	require.Len(t, s.Gaps(), 2)
	short := s.Normalized(80) - s.Normalized(20)
	long := s.Normalized(100+sixDays) - s.Normalized(100)

	assert.InDelta(t, short, long, 1e-12)
	assert.InDelta(t, s.GapWidth(), short, 1e-12)
}

func TestGapScaleRoundTrip(t *testing.T) {
	d := rowsAt(0, 5, 10, 400, 410, 415, 5000, 5001, 90000, 90030)
	s := BuildGapScale(d, 60, DefaultGapBudgetUnits)
	ranged := s.WithRange(0, 1234)

	first, last := s.Domain()
	for ts := first; ts <= last; ts += 37.5 {
		assert.InDelta(t, ts, s.InvertNormalized(s.Normalized(ts)), 1e-6, "normalized ts=%v", ts)
		assert.InDelta(t, ts, ranged.Invert(ranged.Scale(ts)), 1e-6, "ranged ts=%v", ts)
	}
	for _, row := range d {
		assert.InDelta(t, row.Timestamp, ranged.Invert(ranged.Scale(row.Timestamp)), 1e-6)
	}
}

func TestGapScaleMonotonic(t *testing.T) {
	s := BuildGapScale(rowsAt(0, 10, 1000, 1010, 1020, 50000), 100, DefaultGapBudgetUnits)
	prev := math.Inf(-1)
	for ts := -100.0; ts <= 50100; ts += 13 {
		pos := s.Normalized(ts)
		assert.Greater(t, pos, prev, "ts=%v", ts)
		prev = pos
	}
}

func TestGapScaleExtrapolatesBeyondDomain(t *testing.T) {
	s := BuildGapScale(rowsAt(0, 10, 10000, 10010), 100, 0)
	total := s.TotalVirtualDuration()

	assert.InDelta(t, 1+50/total, s.Normalized(10060), 1e-12)
	assert.InDelta(t, -50/total, s.Normalized(-50), 1e-12)
	assert.InDelta(t, 10060.0, s.InvertNormalized(1+50/total), 1e-6)
}

func TestGapScaleDegenerate(t *testing.T) {
	tests := []struct {
		name string
		data Dataset
	}{
		{name: "empty", data: nil},
		{name: "single row", data: rowsAt(500)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := BuildGapScale(tt.data, 100, DefaultGapBudgetUnits)
			assert.True(t, s.Degenerate())
			for _, ts := range []float64{-1e9, 0, 500, 1e9} {
				assert.Equal(t, 0.5, s.Normalized(ts))
			}
			assert.Nil(t, s.Ticks(10))
			assert.Zero(t, s.GapWidth())

			ranged := s.WithRange(0, 200)
			assert.Equal(t, 100.0, ranged.Scale(123))
		})
	}

	s := BuildGapScale(rowsAt(500), 100, DefaultGapBudgetUnits)
	assert.Equal(t, 500.0, s.InvertNormalized(0.9))
}

func TestGapScaleAllGaps(t *testing.T) {
	s := BuildGapScale(rowsAt(0, 1000, 5000), 100, DefaultGapBudgetUnits)
	require.Len(t, s.Gaps(), 2)
	assert.InDelta(t, 0.5, s.Normalized(1000), 1e-12)
	assert.InDelta(t, 0.25, s.Normalized(500), 1e-12)
	assert.InDelta(t, 3000.0, s.InvertNormalized(0.75), 1e-9)
}

func TestGapScaleRange(t *testing.T) {
	s := BuildGapScale(rowsAt(0, 100), 1000, DefaultGapBudgetUnits).WithRange(100, 300)
	from, to := s.Range()
	assert.Equal(t, 100.0, from)
	assert.Equal(t, 300.0, to)
	assert.InDelta(t, 200.0, s.Scale(50), 1e-9)
	assert.InDelta(t, 50.0, s.Invert(200), 1e-9)

	zero := s.WithRange(5, 5)
	assert.Equal(t, 0.0, zero.Normalize(42))
}

func TestGapScaleTicks(t *testing.T) {
	s := BuildGapScale(rowsAt(0, 10, 10000, 10010), 100, 0)

	assert.Nil(t, s.Ticks(2))

	ticks := s.Ticks(6)
	require.Len(t, ticks, 4)
	for i, ts := range ticks {
		assert.InDelta(t, float64(i+1)/5, s.Normalized(ts), 1e-9)
		if i > 0 {
			assert.Greater(t, ts, ticks[i-1])
		}
	}
}
