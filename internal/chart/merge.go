package chart

import (
	"math"
	"slices"
	"sort"

	"github.com/samber/lo"
)

// RawSeries maps a metric key to its stored samples for one client.
type RawSeries map[string]Series

// WithLatest returns series with the latest status reading appended when
// that reading is newer than the last stored sample. The input is never
// modified, and applying it twice with the same status yields the same
// result as applying it once.
func WithLatest(series Series, latest Status) Series {
	if len(series) == 0 {
		return series
	}
	last := series[len(series)-1]
	if latest.Timestamp <= last.Timestamp {
		return series
	}
	out := slices.Clone(series)
	return append(out, Sample{Timestamp: latest.Timestamp, Value: latest.Value})
}

// Merge folds per-key series into one dataset keyed by timestamp.
//
// Every adjacent pair of samples in a key's series that is further apart
// than gapThresholdSeconds gets a NaN marker for that key at the midpoint
// timestamp. latest may be nil; when it holds an entry for a key, the
// status reading is appended via WithLatest before gap detection.
// Keys with no samples contribute nothing.
func Merge(raw RawSeries, latest map[string]Status, gapThresholdSeconds float64) Dataset {
	keys := lo.Keys(raw)
	sort.Strings(keys)

	byTime := make(map[float64]map[string]float64)
	put := func(ts float64, key string, value float64) {
		vals, ok := byTime[ts]
		if !ok {
			vals = make(map[string]float64)
			byTime[ts] = vals
		}
		vals[key] = value
	}

	for _, key := range keys {
		series := raw[key]
		if st, ok := latest[key]; ok {
			series = WithLatest(series, st)
		}
		if len(series) == 0 {
			continue
		}

		for i, s := range series {
			if i > 0 {
				prev := series[i-1]
				diff := float64(s.Timestamp - prev.Timestamp)
				if diff > gapThresholdSeconds {
					put(float64(prev.Timestamp)+diff/2, key, math.NaN())
				}
			}
			put(float64(s.Timestamp), key, s.Value)
		}
	}

	rows := make(Dataset, 0, len(byTime))
	for ts, vals := range byTime {
		rows = append(rows, Row{Timestamp: ts, Values: vals})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp < rows[j].Timestamp
	})
	return rows
}

// Filter returns the rows that carry at least one of keys, each restricted
// to those keys, and whose timestamp lies within bounds when bounds is set.
// The source dataset is not modified.
func Filter(d Dataset, keys []string, bounds *TimeRange) Dataset {
	if len(keys) == 0 {
		return nil
	}
	src := d
	if bounds != nil {
		src = d.Between(bounds.From, bounds.To)
	}

	out := make(Dataset, 0, len(src))
	for _, row := range src {
		var vals map[string]float64
		for _, key := range keys {
			v, ok := row.Values[key]
			if !ok {
				continue
			}
			if vals == nil {
				vals = make(map[string]float64, len(keys))
			}
			vals[key] = v
		}
		if vals == nil {
			continue
		}
		out = append(out, Row{Timestamp: row.Timestamp, Values: vals})
	}
	return out
}

// TimeRange is an inclusive data-space interval.
type TimeRange struct {
	From float64
	To   float64
}

// Normalized returns the range with From <= To.
func (r TimeRange) Normalized() TimeRange {
	if r.From > r.To {
		return TimeRange{From: r.To, To: r.From}
	}
	return r
}

// Duration returns To - From of the normalized range.
func (r TimeRange) Duration() float64 {
	n := r.Normalized()
	return n.To - n.From
}
