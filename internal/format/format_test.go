package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    Number
		wantErr bool
	}{
		{name: "empty", spec: "", want: Number{Precision: 2}},
		{name: "bare", spec: "{}", want: Number{Precision: 2}},
		{name: "precision", spec: "{.1f}", want: Number{Precision: 1}},
		{name: "exponent and suffix", spec: "{e3.0f} ms", want: Number{Exp: 3, Suffix: " ms"}},
		{name: "negative exponent", spec: "{e-6.2f}MB", want: Number{Exp: -6, Precision: 2, Suffix: "MB"}},
		{name: "prefix", spec: "$ {.2f}", want: Number{Prefix: "$ ", Precision: 2}},
		{name: "no placeholder", spec: "%.2f", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumber(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumberFormat(t *testing.T) {
	tests := []struct {
		name string
		spec string
		v    float64
		want string
	}{
		{name: "rounds to precision", spec: "{.2f}", v: 3.14159, want: "3.14"},
		{name: "no zero padding", spec: "{.2f}", v: 3, want: "3"},
		{name: "comma grouping", spec: "{.2f}", v: 1234567.891, want: "1,234,567.89"},
		{name: "negative", spec: "{.1f}", v: -9876.54, want: "-9,876.5"},
		{name: "exponent", spec: "{e2.0f}%", v: 0.4567, want: "46%"},
		{name: "prefix and suffix", spec: "up {.0f} s", v: 59.6, want: "up 60 s"},
		{name: "NaN", spec: "{.2f}", v: math.NaN(), want: "n/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseNumber(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Format(tt.v))
		})
	}
}

func TestValueFallsBackOnBadSpec(t *testing.T) {
	assert.Equal(t, "1.23", Value("garbage", 1.2345))
	assert.Equal(t, "1.2", Value("{.1f}", 1.2345))
}

func TestAxis(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{v: 0, want: "0"},
		{v: 0.25, want: "0.25"},
		{v: 799, want: "799"},
		{v: 800, want: "0.8K"},
		{v: 1500, want: "1.5K"},
		{v: 2_340_000, want: "2.3M"},
		{v: 960_000_000, want: "1B"},
		{v: -5000, want: "-5K"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Axis(tt.v))
		})
	}
}

func TestDates(t *testing.T) {
	d := Dates{Location: time.UTC}
	ts := float64(time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC).Unix())

	assert.Equal(t, "2024-03-05T14:07:00Z", d.LongDate(ts))
	assert.Equal(t, "Mar 05 14:07", d.ShortDate(ts))
	assert.Equal(t, "03/05 14:07", d.TickDate(ts))

	custom := Dates{Short: "15:04", Location: time.UTC}
	assert.Equal(t, "14:07", custom.ShortDate(ts))
}

func TestSpan(t *testing.T) {
	assert.Equal(t, "6 days", Span(6*24*3600))
	assert.Equal(t, "2 minutes", Span(120))
	assert.Equal(t, "now", Span(0))
}

func TestAgo(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)
	assert.Equal(t, "3 minutes ago", Ago(float64(now.Add(-3*time.Minute).Unix()), now))
}
