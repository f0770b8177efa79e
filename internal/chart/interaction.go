package chart

import (
	"math"
	"sort"
)

// Nearest returns the index of the row chronologically closest to ts.
// Candidates are the rows either side of the bisect-left insertion point;
// when both are equally close the later row wins. ok is false only for
// an empty dataset.
func Nearest(d Dataset, ts float64) (idx int, ok bool) {
	if len(d) == 0 {
		return 0, false
	}
	i := sort.Search(len(d), func(j int) bool { return d[j].Timestamp >= ts })
	switch {
	case i == 0:
		return 0, true
	case i == len(d):
		return len(d) - 1, true
	}
	if ts-d[i-1].Timestamp >= d[i].Timestamp-ts {
		return i, true
	}
	return i - 1, true
}

// KeyValue is one active key's reading at the located row.
type KeyValue struct {
	Key     string
	Value   float64
	Y       float64
	Visible bool
}

// Hand is the cursor state produced by Locate.
type Hand struct {
	Index  int
	Row    Row
	X      float64
	Values []KeyValue
}

// Locator turns pointer positions into dataset rows. It owns no chart state
// and works purely from the scale, dataset and y-scale it is given.
type Locator struct {
	Scale   GapScale
	Dataset Dataset
	Keys    KeySet
	Y       YScale
}

// Locate finds the row nearest to the pointer's x pixel and positions the
// hand on it. Keys with no entry or a NaN at that row are marked not
// visible rather than placed at zero.
func (l Locator) Locate(pointerX float64) (Hand, bool) {
	ts := l.Scale.Invert(pointerX)
	idx, ok := Nearest(l.Dataset, ts)
	if !ok {
		return Hand{}, false
	}
	return l.handAt(idx), true
}

// Step moves from row idx by delta rows, clamped to the dataset.
func (l Locator) Step(idx, delta int) (Hand, bool) {
	if len(l.Dataset) == 0 {
		return Hand{}, false
	}
	idx += delta
	idx = max(0, min(idx, len(l.Dataset)-1))
	return l.handAt(idx), true
}

func (l Locator) handAt(idx int) Hand {
	row := l.Dataset[idx]
	h := Hand{
		Index: idx,
		Row:   row,
		X:     l.Scale.Scale(row.Timestamp),
	}
	for _, key := range l.Keys {
		v, ok := row.Values[key]
		kv := KeyValue{Key: key, Value: v}
		if ok && !math.IsNaN(v) {
			kv.Visible = true
			kv.Y = l.Y.Scale(v)
		}
		h.Values = append(h.Values, kv)
	}
	return h
}

// Selection tracks a drag-to-zoom gesture in data space.
type Selection struct {
	dragging bool
	start    float64
	current  float64
}

// Dragging reports whether a drag is in progress.
func (s *Selection) Dragging() bool {
	return s.dragging
}

// Down starts a drag at the data-space timestamp under pointerX.
func (s *Selection) Down(l Locator, pointerX float64) {
	ts := l.Scale.Invert(pointerX)
	s.dragging = true
	s.start = ts
	s.current = ts
}

// Move extends the drag to the nearest row under pointerX and returns the
// selection rectangle's pixel edges, left first.
func (s *Selection) Move(l Locator, pointerX float64) (left, right float64, ok bool) {
	if !s.dragging {
		return 0, 0, false
	}
	s.current = l.Scale.Invert(pointerX)
	if idx, found := Nearest(l.Dataset, s.current); found {
		s.current = l.Dataset[idx].Timestamp
	}
	a, b := l.Scale.Scale(s.start), l.Scale.Scale(s.current)
	return math.Min(a, b), math.Max(a, b), true
}

// Up ends the drag. With reset set (the modifier gesture) or a zero-width
// drag it reports no range; otherwise it returns the selected time range.
func (s *Selection) Up(l Locator, pointerX float64, reset bool) (TimeRange, bool) {
	if !s.dragging {
		return TimeRange{}, false
	}
	s.dragging = false
	if reset {
		return TimeRange{}, false
	}
	r := TimeRange{From: s.start, To: l.Scale.Invert(pointerX)}.Normalized()
	if r.Duration() <= 0 {
		return TimeRange{}, false
	}
	return r, true
}

// Cancel abandons the drag.
func (s *Selection) Cancel() {
	s.dragging = false
}
