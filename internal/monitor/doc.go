// Package monitor implements the terminal dashboard for gap-compressed
// time-series charts.
//
// The dashboard shows one chart per monitored client. Idle stretches in the
// data are squeezed to a fixed width so the samples get the screen; the
// chart itself scrolls horizontally, one viewport per window preset.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: holds the chart registry, the last payload, the selected client
//     and the redraw scheduling state
//   - Update: processes keys, mouse events, resizes, fetched payloads and
//     computed segment paths
//   - View: draws the selected chart as braille lines with its axes,
//     tooltip and key list
//
// # Redraws
//
// Drawing is split the way internal/chart plans it. Update calls Plan on
// the selected chart, a command runs chart.Compute off the event loop, and
// the computedMsg hands the result back to Apply. A result planned before a
// newer pass is discarded. Scroll redraws go through a chart.Throttle with a
// tea.Tick cooldown; resizes go through a chart.Debouncer, except the first
// one, which is applied straight away.
//
// # Data flow
//
//  1. Init fetches the payload (and starts the file watcher or refresh timer)
//  2. payloadMsg syncs the registry: one chart per client, stale ones removed
//  3. The first fetch seeds each chart's keys from the config or the first key
//  4. Later fetches keep each chart's keys, zoom and scroll position
//
// # Keyboard Shortcuts
//
//	1-9          - Toggle the n-th key
//	[ ] / space  - Pick a key and toggle it
//	tab, ↑/↓     - Switch client
//	←/→, pgup    - Scroll
//	h/l          - Step the hand one sample
//	d            - Cycle window preset
//	z, esc       - Reset zoom
//	w            - Save the active keys to .gapview.yaml
//	?            - Toggle help overlay
//	q, Ctrl+C    - Quit
package monitor
