package chart

import (
	"math"
	"slices"
)

// Segment is one viewport-wide slice of the scrollable chart, the unit of
// lazy drawing. Start/End are data-space bounds found by inverting the
// segment's pixel edges through the GapScale.
type Segment struct {
	Index int
	Start float64
	End   float64
	Left  float64
	Width float64

	drawn    bool
	drawnFor uint64
	paths    []Path
}

// Drawn reports whether the segment holds paths for the current key set.
func (s *Segment) Drawn() bool {
	return s.drawn
}

// Paths returns the cached paths, or nil when not drawn.
func (s *Segment) Paths() []Path {
	return s.paths
}

func (s *Segment) clear() {
	s.drawn = false
	s.drawnFor = 0
	s.paths = nil
}

// Viewport describes the visible window of the scrollable chart in pixels.
type Viewport struct {
	ScrollLeft float64
	Width      float64
}

// DataWidth returns the full scrollable width for a dataset spanning span
// seconds when window seconds should fit in one viewport. A window longer
// than the span (or unset) collapses to one viewport.
func DataWidth(viewportWidth, span, window float64) float64 {
	if span <= 0 || window <= 0 || window >= span {
		return viewportWidth
	}
	return viewportWidth * span / window
}

// Job is one segment recompute handed out by Plan. It carries everything
// Compute needs so the work can run away from the owning Segmenter.
type Job struct {
	Segment int
	Start   float64
	End     float64
}

// Pass is the plan for one redraw: which segments to recompute, for which
// key set, over which dataset. Generation increases with every Plan call.
type Pass struct {
	Generation uint64
	Keys       KeySet
	Visible    TimeRange
	YMin       float64
	YMax       float64
	Jobs       []Job

	fingerprint uint64
	dataset     Dataset
}

// Result carries the computed paths for a Pass.
type Result struct {
	Generation  uint64
	fingerprint uint64
	Paths       map[int][]Path
}

// Segmenter partitions [0, dataWidth] into viewport-wide segments and
// decides which of them need drawing for a given scroll position.
type Segmenter struct {
	scale    GapScale
	viewport float64
	width    float64
	segments []*Segment

	generation  uint64
	fingerprint uint64
	hasKeys     bool
}

// NewSegmenter lays out segments over a scale ranged to [0, dataWidth].
func NewSegmenter(scale GapScale, dataWidth, viewportWidth float64) *Segmenter {
	s := &Segmenter{}
	s.Relayout(scale, dataWidth, viewportWidth)
	return s
}

// Relayout replaces the segment grid after a resize, window change or new
// dataset. Every segment starts undrawn. The generation counter carries on
// so results planned against the old layout are still rejected.
func (s *Segmenter) Relayout(scale GapScale, dataWidth, viewportWidth float64) {
	if viewportWidth <= 0 {
		viewportWidth = 1
	}
	if dataWidth < viewportWidth {
		dataWidth = viewportWidth
	}
	s.scale = scale.WithRange(0, dataWidth)
	s.viewport = viewportWidth
	s.width = dataWidth
	s.segments = nil
	s.hasKeys = false
	s.generation++

	_, last := s.scale.Domain()
	segNo := int(math.Ceil(dataWidth / viewportWidth))
	for i := 0; i < segNo; i++ {
		left := viewportWidth * float64(i)
		s.segments = append(s.segments, &Segment{
			Index: i,
			Start: s.scale.Invert(left),
			End:   math.Min(s.scale.Invert(left+viewportWidth), last),
			Left:  left,
			Width: viewportWidth,
		})
	}
}

// Scale returns the scale ranged to the full data width.
func (s *Segmenter) Scale() GapScale {
	return s.scale
}

// DataWidth returns the full scrollable width.
func (s *Segmenter) DataWidth() float64 {
	return s.width
}

// ViewportWidth returns the segment width.
func (s *Segmenter) ViewportWidth() float64 {
	return s.viewport
}

// Segments returns the segments, oldest first.
func (s *Segmenter) Segments() []*Segment {
	return s.segments
}

// Generation returns the generation of the most recent Plan.
func (s *Segmenter) Generation() uint64 {
	return s.generation
}

// VisibleBoundary returns the data-space window covering one viewport
// width of margin either side of scrollLeft, clamped to the domain.
func (s *Segmenter) VisibleBoundary(scrollLeft float64) TimeRange {
	first, last := s.scale.Domain()
	return TimeRange{
		From: math.Max(s.scale.Invert(scrollLeft-s.viewport), first),
		To:   math.Min(s.scale.Invert(scrollLeft+2*s.viewport), last),
	}
}

// Plan prepares a redraw at scrollLeft for the given key set over the
// full dataset. If the key set or zoom differs from the previous Plan,
// every segment cache is cleared; otherwise drawn segments are kept.
// Only segments whose left edge lies within one viewport width of
// scrollLeft are scheduled, newest first, so the cost follows the number
// of visible segments rather than the length of the timeline.
func (s *Segmenter) Plan(d Dataset, keys KeySet, zoom *TimeRange, scrollLeft float64) Pass {
	fp := fingerprint(keys.sorted(), zoom)
	if !s.hasKeys || fp != s.fingerprint {
		for _, seg := range s.segments {
			seg.clear()
		}
		s.fingerprint = fp
		s.hasKeys = true
	}
	s.generation++

	active := Filter(d, keys, zoom)
	yMin, yMax := YDomain(active, keys)
	visible := s.VisibleBoundary(scrollLeft)

	pass := Pass{
		Generation:  s.generation,
		Keys:        slices.Clone(keys),
		Visible:     visible,
		YMin:        yMin,
		YMax:        yMax,
		fingerprint: fp,
		dataset:     active.Between(visible.From, visible.To),
	}

	lo, hi := scrollLeft-s.viewport, scrollLeft+s.viewport
	for i := len(s.segments) - 1; i >= 0; i-- {
		seg := s.segments[i]
		if seg.drawn && seg.drawnFor == fp {
			continue
		}
		if seg.Left < lo || seg.Left > hi {
			continue
		}
		pass.Jobs = append(pass.Jobs, Job{Segment: seg.Index, Start: seg.Start, End: seg.End})
	}
	return pass
}

// Compute builds the paths for every job in the pass. It only reads the
// pass, so it may run off the UI loop.
func Compute(p Pass) Result {
	res := Result{
		Generation:  p.Generation,
		fingerprint: p.fingerprint,
		Paths:       make(map[int][]Path, len(p.Jobs)),
	}
	for _, job := range p.Jobs {
		res.Paths[job.Segment] = SegmentPaths(p.dataset, p.Keys, job.Start, job.End)
	}
	return res
}

// Apply stores a computed result. Results from a superseded generation or
// for a different key set are discarded and Apply returns false.
func (s *Segmenter) Apply(r Result) bool {
	if r.Generation != s.generation || r.fingerprint != s.fingerprint {
		return false
	}
	for idx, paths := range r.Paths {
		if idx < 0 || idx >= len(s.segments) {
			continue
		}
		seg := s.segments[idx]
		seg.paths = paths
		seg.drawn = true
		seg.drawnFor = r.fingerprint
	}
	return true
}

// Redraw plans, computes and applies in one step.
func (s *Segmenter) Redraw(d Dataset, keys KeySet, zoom *TimeRange, scrollLeft float64) Pass {
	pass := s.Plan(d, keys, zoom, scrollLeft)
	s.Apply(Compute(pass))
	return pass
}

// SegmentPaths groups the rows of d within [start, end] by key. Keys
// absent from a row contribute no point; NaN markers are kept so the
// renderer can break the line there.
func SegmentPaths(d Dataset, keys KeySet, start, end float64) []Path {
	rows := d.Between(start, end)
	if len(rows) == 0 {
		return nil
	}
	paths := make([]Path, 0, len(keys))
	for _, key := range keys {
		path := Path{Key: key}
		for _, row := range rows {
			v, ok := row.Values[key]
			if !ok {
				continue
			}
			path.Points = append(path.Points, Point{Timestamp: row.Timestamp, Value: v})
		}
		paths = append(paths, path)
	}
	return paths
}
