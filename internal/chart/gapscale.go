package chart

// DefaultGapBudgetUnits is the number of abstract width units given to the
// real (non-gap) duration. Every detected gap gets exactly one more unit.
const DefaultGapBudgetUnits = 30

// degenerateNormalized is where every timestamp lands when the dataset
// spans no time at all.
const degenerateNormalized = 0.5

// Gap is a detected idle interval between two adjacent rows.
type Gap struct {
	Left  float64
	Right float64
}

// Duration returns the real length of the gap in seconds.
func (g Gap) Duration() float64 {
	return g.Right - g.Left
}

// DetectGaps returns every adjacent row pair further apart than
// gapThresholdSeconds, in ascending, non-overlapping order.
func DetectGaps(d Dataset, gapThresholdSeconds float64) []Gap {
	var gaps []Gap
	for i := 1; i < len(d); i++ {
		prev, curr := d[i-1].Timestamp, d[i].Timestamp
		if curr-prev > gapThresholdSeconds {
			gaps = append(gaps, Gap{Left: prev, Right: curr})
		}
	}
	return gaps
}

// GapScale maps timestamps onto a normalized [0,1] axis, compressing every
// detected gap to the same fixed width no matter how long it really was,
// then applies an affine transform onto a pixel range.
//
// The axis is split into sub-intervals delimited by boundaries:
//
//	first | gap1.Left | gap1.Right | ... | gapN.Left | gapN.Right | last
//
// Even sub-intervals are real data mapped at step 1; odd ones are gaps
// mapped at perGap/gapDuration. A GapScale is immutable once built; WithRange
// returns a copy with a different pixel range.
type GapScale struct {
	boundaries    []float64
	steps         []float64
	lefts         []float64
	gaps          []Gap
	first         float64
	last          float64
	perGap        float64
	totalDuration float64
	degenerate    bool

	rangeMin float64
	rangeMax float64
}

// BuildGapScale detects gaps in d and builds the scale. A non-positive
// budget falls back to DefaultGapBudgetUnits. The pixel range starts as [0,1].
func BuildGapScale(d Dataset, gapThresholdSeconds float64, budgetUnits int) GapScale {
	if budgetUnits <= 0 {
		budgetUnits = DefaultGapBudgetUnits
	}

	s := GapScale{rangeMin: 0, rangeMax: 1}
	first, last, ok := d.Domain()
	s.first, s.last = first, last
	if !ok || last <= first {
		s.degenerate = true
		return s
	}

	s.gaps = DetectGaps(d, gapThresholdSeconds)
	gapNo := len(s.gaps)

	realDuration := last - first
	for _, g := range s.gaps {
		realDuration -= g.Duration()
	}

	if realDuration > 0 {
		s.perGap = realDuration / float64(budgetUnits+gapNo)
	} else {
		// All of the span is gaps; share the axis evenly between them.
		s.perGap = 1
		realDuration = 0
	}
	s.totalDuration = s.perGap*float64(gapNo) + realDuration

	s.boundaries = make([]float64, 0, 2*gapNo+2)
	s.boundaries = append(s.boundaries, first)
	for _, g := range s.gaps {
		s.boundaries = append(s.boundaries, g.Left, g.Right)
	}
	s.boundaries = append(s.boundaries, last)

	n := len(s.boundaries) - 1
	s.steps = make([]float64, n)
	s.lefts = make([]float64, n+1)
	for i := 0; i < n; i++ {
		width := s.boundaries[i+1] - s.boundaries[i]
		if i%2 == 0 {
			s.steps[i] = 1
		} else {
			s.steps[i] = s.perGap / width
		}
		s.lefts[i+1] = s.lefts[i] + width*s.steps[i]/s.totalDuration
	}
	// Pin the right edge so accumulated rounding cannot push it off 1.
	s.lefts[n] = 1

	return s
}

// Gaps returns the detected gaps.
func (s GapScale) Gaps() []Gap {
	return s.gaps
}

// Domain returns the first and last timestamps of the dataset.
func (s GapScale) Domain() (first, last float64) {
	return s.first, s.last
}

// Degenerate reports whether the dataset spans no time (0 or 1 distinct timestamps).
func (s GapScale) Degenerate() bool {
	return s.degenerate
}

// GapWidth returns the normalized width allotted to each gap.
func (s GapScale) GapWidth() float64 {
	if s.degenerate || s.totalDuration == 0 {
		return 0
	}
	return s.perGap / s.totalDuration
}

// PerGapDuration returns the virtual duration each gap is compressed to.
func (s GapScale) PerGapDuration() float64 {
	return s.perGap
}

// TotalVirtualDuration returns the real non-gap duration plus all compressed gaps.
func (s GapScale) TotalVirtualDuration() float64 {
	return s.totalDuration
}

// Normalized maps a timestamp onto [0,1]. Timestamps outside the domain
// are extrapolated at step 1.
func (s GapScale) Normalized(ts float64) float64 {
	if s.degenerate {
		return degenerateNormalized
	}
	for i := 0; i < len(s.steps); i++ {
		if ts <= s.boundaries[i+1] {
			return (ts-s.boundaries[i])*s.steps[i]/s.totalDuration + s.lefts[i]
		}
	}
	return 1 + (ts-s.last)/s.totalDuration
}

// InvertNormalized maps a normalized position back to a timestamp.
func (s GapScale) InvertNormalized(pos float64) float64 {
	if s.degenerate {
		return s.first
	}
	for i := 0; i < len(s.steps); i++ {
		if pos <= s.lefts[i+1] {
			return (pos-s.lefts[i])/s.steps[i]*s.totalDuration + s.boundaries[i]
		}
	}
	return (pos-1)*s.totalDuration + s.last
}

// WithRange returns a copy of the scale mapped onto the pixel range [from,to].
// Gap detection is not repeated.
func (s GapScale) WithRange(from, to float64) GapScale {
	s.rangeMin, s.rangeMax = from, to
	return s
}

// Range returns the pixel range.
func (s GapScale) Range() (from, to float64) {
	return s.rangeMin, s.rangeMax
}

// Scale maps a timestamp to a pixel position.
func (s GapScale) Scale(ts float64) float64 {
	return s.Normalized(ts)*(s.rangeMax-s.rangeMin) + s.rangeMin
}

// Normalize converts a pixel position to the normalized axis.
func (s GapScale) Normalize(px float64) float64 {
	width := s.rangeMax - s.rangeMin
	if width == 0 {
		return 0
	}
	return (px - s.rangeMin) / width
}

// Invert maps a pixel position back to a timestamp.
func (s GapScale) Invert(px float64) float64 {
	return s.InvertNormalized(s.Normalize(px))
}

// Ticks returns n-2 interior tick timestamps evenly spaced on the
// normalized axis, excluding both ends. It returns nil for n <= 2 or a
// degenerate scale.
func (s GapScale) Ticks(n int) []float64 {
	if n <= 2 || s.degenerate {
		return nil
	}
	ticks := make([]float64, 0, n-2)
	for i := 1; i < n-1; i++ {
		ticks = append(ticks, s.InvertNormalized(float64(i)/float64(n-1)))
	}
	return ticks
}
