package graphic

import (
	"fmt"
	"math"
	"strings"

	"github.com/noriah/catscope/axis"
	"github.com/noriah/catscope/processor"
	"github.com/noriah/catscope/view"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

const (
	// NowMarker marks t = 0 in columns with no plotted dots.
	NowMarker rune = '┊'

	// TickSpacing is roughly how many columns sit between time labels.
	TickSpacing = 16

	// MaxValueTicks caps the number of value labels.
	MaxValueTicks = 7
)

var (
	lineColors = [...]termbox.Attribute{
		termbox.ColorGreen,
		termbox.ColorCyan,
		termbox.ColorYellow,
		termbox.ColorMagenta,
		termbox.ColorBlue,
		termbox.ColorRed,
	}

	colorDefault = termbox.ColorDefault
	colorDim     = termbox.ColorWhite
)

var _ processor.Output = &Display{}

// setCellFunc writes one cell. termbox.SetCell satisfies it.
type setCellFunc func(x, y int, ch rune, fg, bg termbox.Attribute)

func lineColor(idx int, highlight bool) termbox.Attribute {
	color := lineColors[idx%len(lineColors)]
	if highlight {
		color |= termbox.AttrBold
	}
	return color
}

// Draw draws a frame and the status line onto the terminal.
func (d *Display) Draw(frame view.Frame, status processor.Status) error {
	if err := termbox.Clear(colorDefault, colorDefault); err != nil {
		return err
	}

	width, height := termbox.Size()
	d.render(termbox.SetCell, width, height, frame, status)

	return termbox.Flush()
}

// render lays out and draws everything through set.
//
// Row 0 holds the status line, the last row holds the time labels and the
// value labels sit left of the plot.
func (d *Display) render(set setCellFunc, width, height int, frame view.Frame, status processor.Status) {
	printText(set, 0, 0, width, statusText(status, d.TimeLock()), colorDefault)

	if frame.FormatTime == nil {
		frame.FormatTime = axis.Time
	}

	if frame.FormatValue == nil {
		frame.FormatValue = axis.Metric
	}

	b := frame.Bounds
	ySpan := b.YMax - b.YMin
	xSpan := b.XMax - b.XMin

	plotH := height - 2
	if plotH < 1 || xSpan <= 0 || ySpan <= 0 {
		d.setLayout(rect{}, b)
		return
	}

	yTicks := valueTicks(b, plotH)
	yLabels := make([]string, len(yTicks))
	labelW := 0

	for i, v := range yTicks {
		yLabels[i] = frame.FormatValue(v, ySpan)
		if w := runewidth.StringWidth(yLabels[i]); w > labelW {
			labelW = w
		}
	}

	labelW++

	plot := rect{x: labelW, y: 1, w: width - labelW, h: plotH}
	if plot.w < 1 {
		d.setLayout(rect{}, b)
		return
	}

	d.setLayout(plot, b)

	d.canvas.reset(plot.w, plot.h)
	dotsW, dotsH := d.canvas.dotsSize()

	toX := func(t float64) int {
		return toDot((t-b.XMin)/xSpan, dotsW)
	}

	toY := func(v float64) int {
		return toDot((b.YMax-v)/ySpan, dotsH)
	}

	// the active line goes last so it ends up on top
	for pass := 0; pass < 2; pass++ {
		for idx, line := range frame.Lines {
			if line.Highlight != (pass == 1) {
				continue
			}

			for p := range line.Points {
				x, y := toX(line.Points[p].T), toY(line.Points[p].V)

				if p == 0 {
					d.canvas.set(x, y, idx, line.Highlight)
					continue
				}

				px, py := toX(line.Points[p-1].T), toY(line.Points[p-1].V)
				if offSameSide(px, x, dotsW) || offSameSide(py, y, dotsH) {
					continue
				}

				d.canvas.line(px, py, x, y, idx, line.Highlight)
			}
		}
	}

	nowCol := -1
	if b.XMin <= 0 && b.XMax > 0 {
		nowCol = toX(0) / 2
	}

	for row := 0; row < plot.h; row++ {
		for col := 0; col < plot.w; col++ {
			ch, owner := d.canvas.cell(col, row)

			switch {
			case owner >= 0:
				set(plot.x+col, plot.y+row, ch,
					lineColor(owner, frame.Lines[owner].Highlight), colorDefault)

			case col == nowCol:
				set(plot.x+col, plot.y+row, NowMarker, colorDim, colorDefault)
			}
		}
	}

	for i, v := range yTicks {
		row := plot.y + toDot((b.YMax-v)/ySpan, plot.h)
		if row < plot.y || row >= plot.y+plot.h {
			continue
		}

		label := yLabels[i]
		pad := labelW - 1 - runewidth.StringWidth(label)
		printText(set, pad, row, labelW-1, label, colorDefault)
	}

	d.drawTimeLabels(set, plot, height-1, frame)
	d.drawLegend(set, plot, frame)
}

func (d *Display) setLayout(plot rect, b view.Bounds) {
	d.mu.Lock()
	d.plot = plot
	d.bounds = b
	d.mu.Unlock()
}

func (d *Display) drawTimeLabels(set setCellFunc, plot rect, row int, frame view.Frame) {
	b := frame.Bounds
	span := b.XMax - b.XMin

	count := plot.w / TickSpacing
	if count < 2 {
		count = 2
	}

	end := 0

	for _, t := range axis.Ticks(b.XMin, b.XMax, count) {
		label := frame.FormatTime(t, span)
		w := runewidth.StringWidth(label)

		col := plot.x + toDot((t-b.XMin)/span, plot.w) - w/2
		if col < end || col < plot.x || col+w > plot.x+plot.w {
			continue
		}

		printText(set, col, row, w, label, colorDefault)
		end = col + w + 1
	}
}

// drawLegend lists the channels in the top right corner of the plot.
func (d *Display) drawLegend(set setCellFunc, plot rect, frame view.Frame) {
	width := 0
	for _, line := range frame.Lines {
		if w := runewidth.StringWidth(line.Name) + 2; w > width {
			width = w
		}
	}

	if width > plot.w {
		return
	}

	for idx, line := range frame.Lines {
		if idx >= plot.h {
			return
		}

		col := plot.x + plot.w - width
		row := plot.y + idx

		for x := col; x < plot.x+plot.w; x++ {
			set(x, row, ' ', colorDefault, colorDefault)
		}

		color := lineColor(idx, line.Highlight)
		set(col, row, '━', color, colorDefault)
		printText(set, col+2, row, width-2, line.Name, color)
	}
}

func statusText(s processor.Status, timeLock bool) string {
	var sb strings.Builder

	switch s.State {
	case processor.Running:
		sb.WriteString("● running")
	default:
		sb.WriteString("○ idle")
	}

	fmt.Fprintf(&sb, "  ch %d  %d samples  %.0f fps", s.Active, s.Samples, s.FrameRate)

	if timeLock {
		sb.WriteString("  [time zoom]")
	}

	if s.Fault != nil {
		fmt.Fprintf(&sb, "  fault: %v", s.Fault)
	}

	if s.Err != nil {
		fmt.Fprintf(&sb, "  error: %v", s.Err)
	}

	return sb.String()
}

// printText prints s at (x, y), stopping before max columns are used.
// It returns the column after the last printed rune.
func printText(set setCellFunc, x, y, max int, s string, fg termbox.Attribute) int {
	end := x + max

	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}

		if x+w > end {
			break
		}

		set(x, y, r, fg, colorDefault)
		x += w
	}

	return x
}

func valueTicks(b view.Bounds, rows int) []float64 {
	count := rows/3 + 1
	if count > MaxValueTicks {
		count = MaxValueTicks
	}

	if count < 2 {
		count = 2
	}

	return axis.Ticks(b.YMin, b.YMax, count)
}

// toDot maps a fraction of the range onto [0, size-1]. Values far outside
// are pinned just past the edges so lines keep their direction.
func toDot(frac float64, size int) int {
	if math.IsNaN(frac) {
		return -1
	}

	pos := frac * float64(size-1)

	switch {
	case pos < -1:
		return -1
	case pos > float64(size):
		return size
	}

	return int(math.Round(pos))
}

// offSameSide reports whether both ends of a segment lie outside [0, size)
// on the same side.
func offSameSide(a, b, size int) bool {
	return (a < 0 && b < 0) || (a >= size && b >= size)
}
