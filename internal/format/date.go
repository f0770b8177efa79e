package format

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Default date layouts.
const (
	DefaultDateLong  = time.RFC3339
	DefaultDateShort = "Jan 02 15:04"
	DefaultDateTick  = "01/02 15:04"
)

// Dates holds the layouts used for tooltips, headers and x-axis ticks.
type Dates struct {
	Long     string
	Short    string
	Tick     string
	Location *time.Location
}

// DefaultDates returns the built-in layouts in local time.
func DefaultDates() Dates {
	return Dates{Long: DefaultDateLong, Short: DefaultDateShort, Tick: DefaultDateTick, Location: time.Local}
}

func (d Dates) render(ts float64, layout, fallback string) string {
	if layout == "" {
		layout = fallback
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).In(loc).Format(layout)
}

// LongDate renders a unix timestamp with the long layout.
func (d Dates) LongDate(ts float64) string {
	return d.render(ts, d.Long, DefaultDateLong)
}

// ShortDate renders a unix timestamp with the short layout.
func (d Dates) ShortDate(ts float64) string {
	return d.render(ts, d.Short, DefaultDateShort)
}

// TickDate renders a unix timestamp for an x-axis tick.
func (d Dates) TickDate(ts float64) string {
	return d.render(ts, d.Tick, DefaultDateTick)
}

// Span describes a duration in seconds, e.g. "6 days" or "2 minutes".
func Span(seconds float64) string {
	base := time.Unix(0, 0)
	end := base.Add(time.Duration(seconds * float64(time.Second)))
	return strings.TrimSpace(humanize.RelTime(base, end, "", ""))
}

// Ago describes how long before now a unix timestamp was.
func Ago(ts float64, now time.Time) string {
	return humanize.RelTime(time.Unix(int64(ts), 0), now, "ago", "from now")
}
