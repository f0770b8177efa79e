package chart

import (
	"math"
	"sort"
)

// Sample is a single reading of one metric key.
// A NaN Value marks a synthetic gap midpoint rather than a real reading.
type Sample struct {
	Timestamp int64   `json:"Timestamp" yaml:"Timestamp"`
	Value     float64 `json:"Value" yaml:"Value"`
}

// Series is an ordered list of samples for one (client, key) pair,
// non-decreasing by timestamp.
type Series []Sample

// Status severity codes reported by the backend.
const (
	StatusNormal  = 0
	StatusWarning = 8
	StatusFatal   = 16
)

// Status is the latest known reading of a key along with its severity.
type Status struct {
	Timestamp int64   `json:"Timestamp" yaml:"Timestamp"`
	Value     float64 `json:"Value" yaml:"Value"`
	Status    int     `json:"Status" yaml:"Status"`
}

// Row is one timestamp of the merged dataset. Values only holds keys that
// have a sample (real or NaN gap marker) at exactly this timestamp; a key
// missing from Values means "no reading", which is never drawn as zero.
type Row struct {
	Timestamp float64
	Values    map[string]float64
}

// Value returns the value for key and whether the row has an entry for it.
func (r Row) Value(key string) (float64, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// Has reports whether the row carries an entry (including NaN) for key.
func (r Row) Has(key string) bool {
	_, ok := r.Values[key]
	return ok
}

// Dataset is the merged, timestamp-ascending, timestamp-unique row list.
type Dataset []Row

// Domain returns the first and last timestamps. ok is false for an empty dataset.
func (d Dataset) Domain() (first, last float64, ok bool) {
	if len(d) == 0 {
		return 0, 0, false
	}
	return d[0].Timestamp, d[len(d)-1].Timestamp, true
}

// Span returns last - first, or 0 for fewer than two rows.
func (d Dataset) Span() float64 {
	first, last, ok := d.Domain()
	if !ok {
		return 0
	}
	return last - first
}

// Keys returns every key present in the dataset, sorted.
func (d Dataset) Keys() []string {
	seen := make(map[string]struct{})
	for _, row := range d {
		for k := range row.Values {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Between returns the contiguous sub-slice of rows with from <= timestamp <= to.
// The result aliases d.
func (d Dataset) Between(from, to float64) Dataset {
	lo := sort.Search(len(d), func(i int) bool { return d[i].Timestamp >= from })
	hi := sort.Search(len(d), func(i int) bool { return d[i].Timestamp > to })
	if lo >= hi {
		return nil
	}
	return d[lo:hi]
}

// Point is one vertex of a drawable path. NaN values break the line.
type Point struct {
	Timestamp float64
	Value     float64
}

// Defined reports whether the point is drawn (not a gap marker).
func (p Point) Defined() bool {
	return !math.IsNaN(p.Value)
}

// Path is the drawable point list of a single key inside one segment.
type Path struct {
	Key    string
	Points []Point
}

// Runs splits the path at NaN markers into continuous polylines.
// Marker points themselves are dropped.
func (p Path) Runs() [][]Point {
	var runs [][]Point
	var cur []Point
	for _, pt := range p.Points {
		if !pt.Defined() {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, pt)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}
