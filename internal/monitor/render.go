package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/format"
)

// cellKind is what a chart cell shows.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellDot
	cellHand
	cellGap
)

// cellStyle groups cells that render identically so a row is styled in as
// few runs as possible.
type cellStyle struct {
	kind     cellKind
	series   int
	selected bool
}

func (s cellStyle) plain() bool {
	return s.kind == cellEmpty && !s.selected
}

func (s cellStyle) render(text string) string {
	if s.plain() {
		return text
	}
	st := lipgloss.NewStyle()
	switch s.kind {
	case cellDot:
		st = st.Foreground(SeriesColor(s.series))
	case cellHand:
		st = HandStyle
	case cellGap:
		st = GapStyle
	}
	if s.selected {
		st = st.Background(ColorSelection)
	}
	return st.Render(text)
}

// Overlay glyphs drawn into empty cells.
const (
	handGlyph = '│'
	gapGlyph  = '┊'
)

// drawSeries plots the visible segments of c onto canvas. Adjacent
// segments are joined so lines run across segment edges; NaN gap markers
// still break them.
func drawSeries(canvas *Canvas, c *chart.Chart) {
	scale := c.Scale()
	y := c.YScale()
	scrollLeft := c.ScrollLeft()
	keys := c.Keys()
	project := func(p chart.Point) (int, int) {
		return toDot(scale.Scale(p.Timestamp) - scrollLeft), toDot(y.Scale(p.Value))
	}

	last := make(map[string]chart.Point)
	prevIndex := -2
	for _, seg := range c.VisibleSegments() {
		adjacent := seg.Index == prevIndex+1
		prevIndex = seg.Index
		for _, path := range seg.Paths() {
			series := keys.SeriesIndex(path.Key)
			if series < 0 || len(path.Points) == 0 {
				continue
			}
			first := path.Points[0]
			if prev, ok := last[path.Key]; ok && adjacent && prev.Defined() && first.Defined() {
				canvas.Polyline([]chart.Point{prev, first}, series, project)
			}
			for _, run := range path.Runs() {
				canvas.Polyline(run, series, project)
			}
			last[path.Key] = path.Points[len(path.Points)-1]
		}
	}
}

// overlayColumns works out which cell columns carry the hand, gap markers
// and the drag selection.
func overlayColumns(c *chart.Chart, cols int, selection *chart.TimeRange) (hand int, gaps, selected []bool) {
	scale := c.Scale()
	scrollLeft := c.ScrollLeft()
	toCol := func(px float64) int {
		return toDot(px) / dotsPerCol
	}

	hand = -1
	if h := c.Hand(); h != nil {
		if col := toCol(h.X - scrollLeft); col >= 0 && col < cols {
			hand = col
		}
	}

	gaps = make([]bool, cols)
	for _, g := range scale.Gaps() {
		col := toCol(scale.Scale((g.Left+g.Right)/2) - scrollLeft)
		if col >= 0 && col < cols {
			gaps[col] = true
		}
	}

	selected = make([]bool, cols)
	if selection != nil {
		from := max(0, toCol(selection.From))
		to := min(cols-1, toCol(selection.To))
		for col := from; col <= to; col++ {
			selected[col] = true
		}
	}
	return hand, gaps, selected
}

// renderChart draws c into a cols x rows area and prefixes each row with
// the y-axis gutter.
func renderChart(c *chart.Chart, cols, rows int, selection *chart.TimeRange) []string {
	canvas := NewCanvas(cols, rows)
	drawSeries(canvas, c)
	hand, gaps, selected := overlayColumns(c, cols, selection)
	gutter := yAxisGutter(c.YScale(), rows)

	lines := make([]string, rows)
	for row := 0; row < rows; row++ {
		var b strings.Builder
		b.WriteString(gutter[row])

		var run strings.Builder
		var runStyle cellStyle
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(runStyle.render(run.String()))
				run.Reset()
			}
		}

		for col := 0; col < cols; col++ {
			r, series := canvas.Cell(col, row)
			st := cellStyle{kind: cellDot, series: series, selected: selected[col]}
			switch {
			case series != noSeries:
			case col == hand:
				r, st.kind, st.series = handGlyph, cellHand, 0
			case gaps[col]:
				r, st.kind, st.series = gapGlyph, cellGap, 0
			default:
				st.kind, st.series = cellEmpty, 0
			}
			if st != runStyle {
				flush()
				runStyle = st
			}
			run.WriteRune(r)
		}
		flush()
		lines[row] = b.String()
	}
	return lines
}

// yAxisGutter labels the rows holding y ticks. Every entry is yGutter
// cells wide.
func yAxisGutter(y chart.YScale, rows int) []string {
	labels := make([]string, rows)
	for _, v := range y.Ticks(yTickCount) {
		row := toDot(y.Scale(v)) / dotsPerRow
		row = max(0, min(row, rows-1))
		if labels[row] == "" {
			labels[row] = format.Axis(v)
		}
	}

	width := yGutter - 2
	out := make([]string, rows)
	for row, label := range labels {
		if label == "" {
			out[row] = AxisStyle.Render(strings.Repeat(" ", yGutter-1) + "│")
			continue
		}
		if len(label) > width {
			label = label[:width]
		}
		out[row] = AxisStyle.Render(strings.Repeat(" ", width-len(label)) + label + " ┤")
	}
	return out
}

// xAxis lays tick labels under the chart. Labels that would overlap the
// previous one or run off the edge are skipped.
func xAxis(c *chart.Chart, cols int, dates format.Dates) string {
	scale := c.Scale()
	scrollLeft := c.ScrollLeft()
	line := []rune(strings.Repeat(" ", cols))

	end := -1
	for _, ts := range c.XTicks() {
		col := toDot(scale.Scale(ts)-scrollLeft) / dotsPerCol
		label := []rune("╵" + dates.TickDate(ts))
		if col < 0 || (end >= 0 && col <= end+1) || col+len(label) > cols {
			continue
		}
		copy(line[col:], label)
		end = col + len(label) - 1
	}
	return strings.Repeat(" ", yGutter) + AxisStyle.Render(string(line))
}
