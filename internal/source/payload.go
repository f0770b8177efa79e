package source

import (
	"sort"
	"time"

	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/samber/lo"
)

// StatusUnknown is reported for a client with no keys at all.
const StatusUnknown = -1

// Payload is one snapshot of the monitoring backend: the stored series per
// client and key, the latest status per key, display aliases and options.
type Payload struct {
	Data    map[string]chart.RawSeries
	Status  map[string]map[string]chart.Status
	Aliases map[string]string
	Options Options

	// FetchedAt is when the payload was read.
	FetchedAt time.Time
}

// Options are backend-side display hints. Nil or empty fields defer to
// the local config.
type Options struct {
	// GapThresholdMinutes overrides chart.gap_threshold_minutes.
	GapThresholdMinutes *float64
	// Formats maps a metric key to its value format spec.
	Formats map[string]string
	// Durations overrides the window presets.
	Durations []time.Duration
}

// Clients returns every client id present in the data or status maps, sorted.
func (p *Payload) Clients() []string {
	ids := lo.Union(lo.Keys(p.Data), lo.Keys(p.Status))
	sort.Strings(ids)
	return ids
}

// Alias returns the display name for client id, or id when it has none.
func (p *Payload) Alias(id string) string {
	if a := p.Aliases[id]; a != "" {
		return a
	}
	return id
}

// Raw returns the stored series of client id.
func (p *Payload) Raw(id string) chart.RawSeries {
	return p.Data[id]
}

// Latest returns the latest status per key of client id.
func (p *Payload) Latest(id string) map[string]chart.Status {
	return p.Status[id]
}

// Keys returns the metric keys of client id, sorted.
func (p *Payload) Keys(id string) []string {
	keys := lo.Union(lo.Keys(p.Data[id]), lo.Keys(p.Status[id]))
	sort.Strings(keys)
	return keys
}

// KeyStatus returns the latest status of key. A key without a status entry
// reports StatusNormal with the value of its last stored sample.
func (p *Payload) KeyStatus(id, key string) chart.Status {
	if st, ok := p.Status[id][key]; ok {
		return st
	}
	series := p.Data[id][key]
	if len(series) == 0 {
		return chart.Status{Status: chart.StatusNormal}
	}
	last := series[len(series)-1]
	return chart.Status{Timestamp: last.Timestamp, Value: last.Value, Status: chart.StatusNormal}
}

// ClientStatus is the worst status over all keys of client id.
func (p *Payload) ClientStatus(id string) int {
	worst := StatusUnknown
	for _, key := range p.Keys(id) {
		worst = max(worst, p.KeyStatus(id, key).Status)
	}
	return worst
}

// WorstStatus is the worst status over all clients.
func (p *Payload) WorstStatus() int {
	worst := StatusUnknown
	for _, id := range p.Clients() {
		worst = max(worst, p.ClientStatus(id))
	}
	return worst
}

// GapThresholdSeconds returns the payload's gap threshold in seconds, or
// fallback when the payload sets none.
func (p *Payload) GapThresholdSeconds(fallback float64) float64 {
	if p.Options.GapThresholdMinutes == nil || *p.Options.GapThresholdMinutes < 0 {
		return fallback
	}
	return *p.Options.GapThresholdMinutes * 60
}

// Format returns the value format spec for key, or fallback.
func (p *Payload) Format(key, fallback string) string {
	if f := p.Options.Formats[key]; f != "" {
		return f
	}
	return fallback
}

// Durations returns the payload's window presets, or fallback.
func (p *Payload) Durations(fallback []time.Duration) []time.Duration {
	if len(p.Options.Durations) == 0 {
		return fallback
	}
	return p.Options.Durations
}

// StatusName returns a label for a status code.
func StatusName(code int) string {
	switch {
	case code < chart.StatusNormal:
		return "unknown"
	case code >= chart.StatusFatal:
		return "fatal"
	case code >= chart.StatusWarning:
		return "warning"
	default:
		return "normal"
	}
}
