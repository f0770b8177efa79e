package monitor

import (
	"math"

	"github.com/rileyhilliard/gapview/internal/chart"
)

// Braille canvas for line charts.
//
// Each terminal cell is a 2x4 dot matrix:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and sets one bit per dot.
// The chart's pixel space is the dot grid, so a chart sized cols x rows
// cells is cols*2 x rows*4 pixels.

const brailleBase = '\u2800'

// Dots per cell.
const (
	dotsPerCol = 2
	dotsPerRow = 4
)

// brailleDots maps [row][col] within a cell to the bit for that dot.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// noSeries marks a cell no series has drawn into.
const noSeries = -1

// Canvas is a grid of braille cells. Each cell remembers the last series
// that drew into it; that series colors the whole cell.
type Canvas struct {
	cols, rows int
	bits       [][]uint8
	series     [][]int
}

// NewCanvas returns an empty canvas of cols x rows cells.
func NewCanvas(cols, rows int) *Canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	c := &Canvas{
		cols:   cols,
		rows:   rows,
		bits:   make([][]uint8, rows),
		series: make([][]int, rows),
	}
	for r := range c.bits {
		c.bits[r] = make([]uint8, cols)
		c.series[r] = make([]int, cols)
		for i := range c.series[r] {
			c.series[r][i] = noSeries
		}
	}
	return c
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Width and Height return the canvas size in dots.
func (c *Canvas) Width() int  { return c.cols * dotsPerCol }
func (c *Canvas) Height() int { return c.rows * dotsPerRow }

// Set turns on the dot at (x, y) for series. Dots outside the canvas are
// ignored.
func (c *Canvas) Set(x, y, series int) {
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return
	}
	col, row := x/dotsPerCol, y/dotsPerRow
	c.bits[row][col] |= 1 << brailleDots[y%dotsPerRow][x%dotsPerCol]
	c.series[row][col] = series
}

// Line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1, series int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Set(x0, y0, series)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			if x0 == x1 {
				return
			}
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				return
			}
			e += dx
			y0 += sy
		}
	}
}

// Polyline draws one continuous run of points. project maps a point to dot
// coordinates. A single point becomes a dot.
func (c *Canvas) Polyline(run []chart.Point, series int, project func(chart.Point) (int, int)) {
	if len(run) == 0 {
		return
	}
	px, py := project(run[0])
	if len(run) == 1 {
		c.Set(px, py, series)
		return
	}
	for _, pt := range run[1:] {
		x, y := project(pt)
		// Runs far outside the canvas cost nothing to skip.
		if !(px < 0 && x < 0) && !(px >= c.Width() && x >= c.Width()) {
			c.Line(px, py, x, y, series)
		}
		px, py = x, y
	}
}

// Cell returns the braille rune and series of a cell. Empty cells return
// ' ' and noSeries.
func (c *Canvas) Cell(col, row int) (rune, int) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return ' ', noSeries
	}
	b := c.bits[row][col]
	if b == 0 {
		return ' ', noSeries
	}
	return brailleBase + rune(b), c.series[row][col]
}

// Empty reports whether no dot in the cell is set.
func (c *Canvas) Empty(col, row int) bool {
	r, _ := c.Cell(col, row)
	return r == ' '
}

// maxDot bounds projected coordinates so a stray point far off the canvas
// can't make Line walk millions of dots.
const maxDot = 1 << 16

// toDot rounds a pixel coordinate to a dot index.
func toDot(v float64) int {
	switch {
	case math.IsNaN(v):
		return -1
	case v > maxDot:
		return maxDot
	case v < -maxDot:
		return -maxDot
	}
	return int(math.Floor(v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
