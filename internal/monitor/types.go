package monitor

import (
	"time"

	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/source"
)

// payloadMsg carries a freshly fetched payload.
type payloadMsg struct {
	payload *source.Payload
}

// fetchErrMsg reports a failed fetch. The last good payload stays on screen.
type fetchErrMsg struct {
	err error
	at  time.Time
}

// refreshTickMsg triggers a periodic re-fetch.
type refreshTickMsg time.Time

// watchStartedMsg hands the file watcher's channel to the model.
type watchStartedMsg struct {
	changes <-chan struct{}
}

// watchMsg signals the watched payload file changed.
type watchMsg struct{}

// computedMsg carries segment paths computed off the event loop.
type computedMsg struct {
	client string
	result chart.Result
	scroll bool
}

// scrollReleaseMsg ends a scroll throttle cooldown.
type scrollReleaseMsg struct {
	token uint64
}

// resizeFireMsg fires a debounced resize.
type resizeFireMsg struct {
	token uint64
}

// flashClearMsg hides a transient footer message.
type flashClearMsg struct {
	id int
}

// Layout constants, in terminal cells.
const (
	// yGutter holds the y-axis labels left of the chart.
	yGutter = 9

	// chromeRows are the rows outside the chart: header, key list, x axis,
	// tooltip and footer.
	chromeRows = 5

	// chartTop is the first terminal row of the chart.
	chartTop = 2

	// yTickCount is how many y-axis labels the chart aims for.
	yTickCount = 4
)

// Terminal size assumed until the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Minimum chart size in cells.
const (
	minChartCols = 10
	minChartRows = 3
)

// flashDuration is how long footer messages stay up.
const flashDuration = 3 * time.Second

// ChartSize returns the chart area in cells for a terminal of the given
// size.
func ChartSize(width, height int) (cols, rows int) {
	cols = max(width-yGutter, minChartCols)
	rows = max(height-chromeRows, minChartRows)
	return cols, rows
}

// PixelSize converts a chart area in cells to chart pixels (braille dots).
func PixelSize(cols, rows int) (width, height float64) {
	return float64(cols * dotsPerCol), float64(rows * dotsPerRow)
}
