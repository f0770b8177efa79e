package chart

import "time"

// DefaultScrollThrottle and DefaultResizeDebounce match the delays the
// dashboard uses when the config leaves them unset.
const (
	DefaultScrollThrottle = 10 * time.Millisecond
	DefaultResizeDebounce = 500 * time.Millisecond
)

// Throttle allows at most one redraw in flight per event source. A trigger
// that arrives while a redraw runs, or during the cooldown after it, is
// coalesced into a single trailing redraw that fires when the cooldown ends.
//
// Throttle holds no timers. The host event loop calls Finish when a redraw
// completes, waits Cooldown, then calls Release with the token Finish
// returned.
type Throttle struct {
	Cooldown time.Duration

	busy    bool
	pending bool
	token   uint64
}

// NewThrottle returns a throttle with the given cooldown.
func NewThrottle(cooldown time.Duration) *Throttle {
	return &Throttle{Cooldown: cooldown}
}

// Trigger reports whether the caller should redraw now. When false the
// request has been folded into the pending trailing redraw.
func (t *Throttle) Trigger() bool {
	if t.busy {
		t.pending = true
		return false
	}
	t.busy = true
	return true
}

// Finish marks the in-flight redraw done and starts the cooldown. The
// returned token identifies this cooldown for Release.
func (t *Throttle) Finish() uint64 {
	t.token++
	return t.token
}

// Release ends the cooldown identified by token. It reports whether a
// coalesced trailing redraw should run now; if so the throttle stays busy
// until that redraw's Finish/Release cycle. Unknown tokens are ignored.
func (t *Throttle) Release(token uint64) bool {
	if token != t.token || !t.busy {
		return false
	}
	if t.pending {
		t.pending = false
		return true
	}
	t.busy = false
	return false
}

// Busy reports whether a redraw or cooldown is in progress.
func (t *Throttle) Busy() bool {
	return t.busy
}

// Debouncer coalesces bursts into one call after Delay of quiet. Each
// Schedule supersedes the previous one; only the latest token fires.
type Debouncer struct {
	Delay time.Duration

	token uint64
}

// NewDebouncer returns a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{Delay: delay}
}

// Schedule cancels any pending call and returns the token for the new one.
func (d *Debouncer) Schedule() uint64 {
	d.token++
	return d.token
}

// Fire reports whether token belongs to the most recent Schedule. A token
// fires at most once.
func (d *Debouncer) Fire(token uint64) bool {
	if token == 0 || token != d.token {
		return false
	}
	d.token++
	return true
}
