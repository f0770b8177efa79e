package chart

import (
	"math"
	"sort"
	"sync"
)

// TicksPerSegment is the number of x-axis ticks laid out per viewport width.
const TicksPerSegment = 4

// Options configures a Chart. Sizes are in renderer pixels.
type Options struct {
	GapThresholdSeconds float64
	GapBudgetUnits      int
	// Window is the duration in seconds that one viewport width shows.
	// Zero fits the whole dataset into the viewport.
	Window float64
	Width  float64
	Height float64
}

// Chart is the state of one monitored client's chart: its dataset, scale,
// active keys, segment cache, zoom, scroll offset and hand. Charts never
// share state with one another.
type Chart struct {
	id   string
	opts Options

	raw     RawSeries
	latest  map[string]Status
	dataset Dataset
	view    Dataset
	active  Dataset
	scale   GapScale
	seg     *Segmenter

	keys       KeySet
	zoom       *TimeRange
	scrollLeft float64
	y          YScale

	selection Selection
	hand      *Hand
}

// New returns an empty chart for client id.
func New(id string, opts Options) *Chart {
	c := &Chart{id: id, opts: opts, seg: &Segmenter{}}
	c.rebuild()
	return c
}

// ID returns the client identity.
func (c *Chart) ID() string {
	return c.id
}

// Options returns the current options.
func (c *Chart) Options() Options {
	return c.opts
}

// SetData replaces the raw series and latest status, merges them and
// rebuilds the scale. Active keys no longer present are dropped. A chart
// scrolled to the right edge stays there.
func (c *Chart) SetData(raw RawSeries, latest map[string]Status) {
	atEnd := c.scrollLeft >= c.maxScroll()-0.5
	c.raw, c.latest = raw, latest
	c.dataset = Merge(raw, latest, c.opts.GapThresholdSeconds)
	c.keys = c.keys.Only(c.dataset.Keys())
	if c.zoom != nil && len(c.dataset.Between(c.zoom.From, c.zoom.To)) < 2 {
		c.zoom = nil
	}
	c.rebuild()
	if atEnd || c.hand == nil {
		c.scrollToEnd()
	}
	c.relocateHand()
}

// SetDataset replaces the dataset with an already merged one.
func (c *Chart) SetDataset(d Dataset) {
	c.raw, c.latest = nil, nil
	c.dataset = d
	c.keys = c.keys.Only(d.Keys())
	c.rebuild()
	c.scrollToEnd()
	c.relocateHand()
}

// Dataset returns the merged dataset.
func (c *Chart) Dataset() Dataset {
	return c.dataset
}

// Keys returns the active key set.
func (c *Chart) Keys() KeySet {
	return c.keys
}

// SetKeys replaces the active key set. Unknown keys are ignored.
func (c *Chart) SetKeys(keys []string) {
	c.keys = KeySet(keys).Only(c.dataset.Keys())
	if len(c.keys) > MaxSeries {
		c.keys = c.keys[:MaxSeries]
	}
	c.refreshActive()
	c.relocateHand()
}

// ToggleKey flips one key in or out of the active set.
func (c *Chart) ToggleKey(key string) {
	if !c.keys.Contains(key) && !containsString(c.dataset.Keys(), key) {
		return
	}
	c.keys = c.keys.Toggle(key)
	c.refreshActive()
	c.relocateHand()
}

// Zoom returns the active zoom range, or nil.
func (c *Chart) Zoom() *TimeRange {
	return c.zoom
}

// SetZoom bounds the chart to r and rebuilds the scale over that range.
// A nil range resets to the whole dataset.
func (c *Chart) SetZoom(r *TimeRange) {
	if r != nil {
		n := r.Normalized()
		r = &n
	}
	c.zoom = r
	c.rebuild()
	c.scrollToEnd()
	c.relocateHand()
}

// Resize changes the viewport size and lays the segments out again.
func (c *Chart) Resize(width, height float64) {
	c.relayoutKeepingHand(func() {
		c.opts.Width, c.opts.Height = width, height
	})
}

// SetWindow changes how many seconds one viewport shows. The hand keeps its
// timestamp and its position within the viewport.
func (c *Chart) SetWindow(seconds float64) {
	c.relayoutKeepingHand(func() {
		c.opts.Window = seconds
	})
}

// SetGapThreshold changes the gap threshold, re-merging the raw series
// when the chart has them.
func (c *Chart) SetGapThreshold(seconds float64) {
	c.opts.GapThresholdSeconds = seconds
	if c.raw != nil {
		c.dataset = Merge(c.raw, c.latest, seconds)
	}
	c.rebuild()
	c.relocateHand()
}

func (c *Chart) relayoutKeepingHand(change func()) {
	var handTS, handFrac float64
	hadHand := c.hand != nil && c.opts.Width > 0
	if hadHand {
		handTS = c.hand.Row.Timestamp
		handFrac = (c.hand.X - c.scrollLeft) / c.opts.Width
	}
	change()
	c.rebuild()
	if !hadHand {
		c.scrollToEnd()
		c.relocateHand()
		return
	}
	x := c.seg.Scale().Scale(handTS)
	c.ScrollTo(x - handFrac*c.opts.Width)
	c.relocateHand()
}

// rebuild recomputes the view dataset, gap scale and segment layout.
func (c *Chart) rebuild() {
	c.view = c.dataset
	if c.zoom != nil {
		c.view = c.dataset.Between(c.zoom.From, c.zoom.To)
	}
	c.scale = BuildGapScale(c.view, c.opts.GapThresholdSeconds, c.opts.GapBudgetUnits)
	width := DataWidth(c.opts.Width, c.view.Span(), c.opts.Window)
	c.seg.Relayout(c.scale, width, c.opts.Width)
	c.refreshActive()
	c.ScrollTo(c.scrollLeft)
}

func (c *Chart) refreshActive() {
	c.active = Filter(c.view, c.keys, nil)
	c.y = NewYScale(c.active, c.keys, c.opts.Height)
}

// Scale returns the gap scale ranged to the full data width.
func (c *Chart) Scale() GapScale {
	return c.seg.Scale()
}

// Segmenter exposes the segment layout.
func (c *Chart) Segmenter() *Segmenter {
	return c.seg
}

// YScale returns the vertical scale from the latest plan.
func (c *Chart) YScale() YScale {
	return c.y
}

// Viewport returns the current scroll offset and viewport width.
func (c *Chart) Viewport() Viewport {
	return Viewport{ScrollLeft: c.scrollLeft, Width: c.opts.Width}
}

// ScrollLeft returns the scroll offset in pixels.
func (c *Chart) ScrollLeft() float64 {
	return c.scrollLeft
}

// ScrollTo sets the scroll offset, clamped to the data width.
func (c *Chart) ScrollTo(px float64) {
	c.scrollLeft = math.Max(0, math.Min(px, c.maxScroll()))
}

// ScrollBy moves the scroll offset by dx pixels.
func (c *Chart) ScrollBy(dx float64) {
	c.ScrollTo(c.scrollLeft + dx)
}

func (c *Chart) scrollToEnd() {
	c.ScrollTo(c.maxScroll())
}

func (c *Chart) maxScroll() float64 {
	return math.Max(0, c.seg.DataWidth()-c.opts.Width)
}

// Plan prepares the next redraw for the current scroll position. Run
// Compute on the pass (possibly off the UI loop) and hand the result to
// Apply.
func (c *Chart) Plan() Pass {
	pass := c.seg.Plan(c.view, c.keys, c.zoom, c.scrollLeft)
	c.y = YScale{Min: pass.YMin, Max: pass.YMax, Height: c.opts.Height}
	return pass
}

// Apply stores a computed pass. It returns false for stale results.
func (c *Chart) Apply(r Result) bool {
	return c.seg.Apply(r)
}

// Redraw plans, computes and applies synchronously.
func (c *Chart) Redraw() Pass {
	pass := c.Plan()
	c.Apply(Compute(pass))
	return pass
}

// VisibleSegments returns the drawn segments overlapping the viewport.
func (c *Chart) VisibleSegments() []*Segment {
	var out []*Segment
	lo, hi := c.scrollLeft, c.scrollLeft+c.opts.Width
	for _, seg := range c.seg.Segments() {
		if !seg.Drawn() {
			continue
		}
		if seg.Left+seg.Width <= lo || seg.Left >= hi {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// XTicks returns the tick timestamps inside the viewport, from a grid of
// TicksPerSegment ticks per segment over the whole data width.
func (c *Chart) XTicks() []float64 {
	scale := c.seg.Scale()
	n := len(c.seg.Segments())*TicksPerSegment + 2
	var out []float64
	lo, hi := c.scrollLeft, c.scrollLeft+c.opts.Width
	for _, ts := range scale.Ticks(n) {
		x := scale.Scale(ts)
		if x >= lo && x <= hi {
			out = append(out, ts)
		}
	}
	return out
}

// Locator returns a locator over the active dataset.
func (c *Chart) Locator() Locator {
	d := c.active
	if len(d) == 0 {
		d = c.view
	}
	return Locator{Scale: c.seg.Scale(), Dataset: d, Keys: c.keys, Y: c.y}
}

// Hand returns the current hand, or nil when nothing has been located.
func (c *Chart) Hand() *Hand {
	return c.hand
}

// PointerMove positions the hand for a pointer at viewport x. While a drag
// is in progress it also returns the selection rectangle in viewport pixels.
func (c *Chart) PointerMove(x float64) (sel TimeRange, dragging bool) {
	l := c.Locator()
	px := x + c.scrollLeft
	if h, ok := l.Locate(px); ok {
		c.hand = &h
	}
	left, right, ok := c.selection.Move(l, px)
	if !ok {
		return TimeRange{}, false
	}
	return TimeRange{From: left - c.scrollLeft, To: right - c.scrollLeft}, true
}

// PointerDown starts a drag selection at viewport x.
func (c *Chart) PointerDown(x float64) {
	c.selection.Down(c.Locator(), x+c.scrollLeft)
}

// PointerUp ends a drag. With reset set the zoom is cleared; otherwise a
// non-empty selection becomes the new zoom. It reports whether the zoom
// changed.
func (c *Chart) PointerUp(x float64, reset bool) bool {
	if !c.selection.Dragging() {
		if reset && c.zoom != nil {
			c.SetZoom(nil)
			return true
		}
		return false
	}
	r, ok := c.selection.Up(c.Locator(), x+c.scrollLeft, reset)
	switch {
	case reset:
		if c.zoom == nil {
			return false
		}
		c.SetZoom(nil)
		return true
	case ok:
		c.SetZoom(&r)
		return true
	}
	return false
}

// Dragging reports whether a drag selection is in progress.
func (c *Chart) Dragging() bool {
	return c.selection.Dragging()
}

// CancelDrag abandons a drag selection without zooming.
func (c *Chart) CancelDrag() {
	c.selection.Cancel()
}

// StepHand moves the hand delta rows and scrolls so it stays in view.
func (c *Chart) StepHand(delta int) {
	l := c.Locator()
	idx := len(l.Dataset) - 1
	if c.hand != nil {
		if i, ok := Nearest(l.Dataset, c.hand.Row.Timestamp); ok {
			idx = i
		}
	}
	h, ok := l.Step(idx, delta)
	if !ok {
		return
	}
	c.hand = &h
	switch {
	case h.X < c.scrollLeft:
		c.ScrollTo(h.X)
	case h.X > c.scrollLeft+c.opts.Width:
		c.ScrollTo(h.X - c.opts.Width)
	}
}

// relocateHand re-resolves the hand against the current layout, centred
// in the viewport when there was none.
func (c *Chart) relocateHand() {
	l := c.Locator()
	if c.hand == nil {
		if h, ok := l.Locate(c.scrollLeft + c.opts.Width/2); ok {
			c.hand = &h
		}
		return
	}
	idx, ok := Nearest(l.Dataset, c.hand.Row.Timestamp)
	if !ok {
		c.hand = nil
		return
	}
	h, _ := l.Step(idx, 0)
	c.hand = &h
}

func containsString(list []string, s string) bool {
	i := sort.SearchStrings(list, s)
	return i < len(list) && list[i] == s
}

// Registry maps client identity to its chart. It is safe for concurrent
// use; the charts themselves are not.
type Registry struct {
	mu     sync.RWMutex
	opts   Options
	charts map[string]*Chart
}

// NewRegistry returns a registry whose new charts start with opts.
func NewRegistry(opts Options) *Registry {
	return &Registry{opts: opts, charts: make(map[string]*Chart)}
}

// Get returns the chart for id, if any.
func (r *Registry) Get(id string) (*Chart, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.charts[id]
	return c, ok
}

// Ensure returns the chart for id, creating it when missing.
func (r *Registry) Ensure(id string) *Chart {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.charts[id]; ok {
		return c
	}
	c := New(id, r.opts)
	r.charts[id] = c
	return c
}

// Remove drops the chart for id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.charts, id)
}

// IDs returns the registered client ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.charts))
	for id := range r.charts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of charts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.charts)
}

// Options returns the options new charts start with.
func (r *Registry) Options() Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opts
}

// Resize sets the viewport size for new charts and resizes existing ones.
func (r *Registry) Resize(width, height float64) {
	r.mu.Lock()
	r.opts.Width, r.opts.Height = width, height
	r.mu.Unlock()
	r.Each(func(c *Chart) { c.Resize(width, height) })
}

// SetWindow sets the window for new charts and existing ones.
func (r *Registry) SetWindow(seconds float64) {
	r.mu.Lock()
	r.opts.Window = seconds
	r.mu.Unlock()
	r.Each(func(c *Chart) { c.SetWindow(seconds) })
}

// Each calls fn for every chart in id order.
func (r *Registry) Each(fn func(*Chart)) {
	for _, id := range r.IDs() {
		if c, ok := r.Get(id); ok {
			fn(c)
		}
	}
}
