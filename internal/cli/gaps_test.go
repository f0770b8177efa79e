package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/config"
	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/format"
	"github.com/rileyhilliard/gapview/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(ts ...int64) chart.Series {
	s := make(chart.Series, len(ts))
	for i, t := range ts {
		s[i] = chart.Sample{Timestamp: t, Value: float64(i)}
	}
	return s
}

// gapPayload has one ten hour gap on web-1 and none on db.
func gapPayload() *source.Payload {
	return &source.Payload{
		Data: map[string]chart.RawSeries{
			"web-1": {"cpu": series(1000, 1060, 1120, 37120, 37180)},
			"db":    {"disk": series(1000, 1060)},
		},
		Aliases: map[string]string{"web-1": "Web One"},
	}
}

var utcDates = format.Dates{Short: "15:04", Location: time.UTC}

func TestCoalesceGaps(t *testing.T) {
	tests := []struct {
		name string
		gaps []chart.Gap
		want []gapSpan
	}{
		{name: "none", gaps: nil, want: nil},
		{
			name: "touching halves join",
			gaps: []chart.Gap{{Left: 0, Right: 50}, {Left: 50, Right: 100}},
			want: []gapSpan{{Left: 0, Right: 100, Pieces: 2}},
		},
		{
			name: "apart stay apart",
			gaps: []chart.Gap{{Left: 0, Right: 50}, {Left: 60, Right: 100}},
			want: []gapSpan{{Left: 0, Right: 50, Pieces: 1}, {Left: 60, Right: 100, Pieces: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coalesceGaps(tt.gaps))
		})
	}
}

func TestWriteGapReport(t *testing.T) {
	var buf bytes.Buffer
	err := writeGapReport(&buf, gapPayload(), config.DefaultConfig(), nil, utcDates)
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{"Client", "From", "To", "Idle", "Width", "Web One", "00:18", "10:18", "10 hours", "5.9%"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "db", "db never went quiet")
}

func TestWriteGapReport_NoGaps(t *testing.T) {
	var buf bytes.Buffer
	err := writeGapReport(&buf, gapPayload(), config.DefaultConfig(), []string{"db"}, utcDates)
	require.NoError(t, err)
	assert.Equal(t, "No gaps longer than 30 minutes\n", buf.String())
}

func TestWriteGapReport_PayloadThreshold(t *testing.T) {
	p := gapPayload()
	hours := 11 * 60.0
	p.Options.GapThresholdMinutes = &hours

	var buf bytes.Buffer
	require.NoError(t, writeGapReport(&buf, p, config.DefaultConfig(), []string{"web-1"}, utcDates))
	assert.Contains(t, buf.String(), "No gaps longer than 11 hours")
}

func TestResolveClients(t *testing.T) {
	p := gapPayload()

	ids, err := resolveClients(p, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"db", "web-1"}, ids)

	ids, err = resolveClients(p, []string{"web-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"web-1"}, ids)

	_, err = resolveClients(p, []string{"web-1", "nope"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "Unknown client 'nope'")
	assert.Contains(t, err.Error(), "db, web-1")
}
