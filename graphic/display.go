package graphic

import (
	"context"
	"math"
	"sync"

	"github.com/noriah/catscope/view"

	"github.com/nsf/termbox-go"
)

const (
	// WheelStep is the scroll delta of one mouse wheel notch.
	WheelStep = 40.0

	// KeyStep is the scroll delta of one zoom key press.
	KeyStep = 40.0

	// PanStep is the fraction of the visible range one pan key press moves.
	PanStep = 0.1
)

// Display draws frames onto the terminal with termbox and turns terminal
// events into viewport input.
type Display struct {
	mu sync.Mutex

	pending  view.Input
	timeLock bool

	dragging bool
	dragRow  int

	// plot area and bounds of the last drawn frame, used to map events.
	plot   rect
	bounds view.Bounds

	canvas  *canvas
	restore func()
	polling chan struct{} // closed when the event poller exits
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// NewDisplay returns a display. Init must be called before drawing.
func NewDisplay() *Display {
	return &Display{canvas: newCanvas(0, 0)}
}

// Init sets up the terminal.
func (d *Display) Init() error {
	restore, err := normalizeTerminal()
	if err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		restore()
		return err
	}

	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	termbox.SetOutputMode(termbox.OutputNormal)
	termbox.HideCursor()

	d.restore = restore

	return nil
}

// Start starts the event poller. The returned context is canceled when the
// user asks to quit.
func (d *Display) Start(ctx context.Context) context.Context {
	var dispCtx, dispCancel = context.WithCancel(ctx)
	d.polling = make(chan struct{})
	go eventPoller(dispCtx, dispCancel, d)
	return dispCtx
}

// eventPoller reads terminal events until the context ends or the user quits.
func eventPoller(ctx context.Context, fn context.CancelFunc, d *Display) {
	defer close(d.polling)
	defer fn()

	for {
		// first check if we need to exit
		select {
		case <-ctx.Done():
			return
		default:
		}

		var ev = termbox.PollEvent()

		switch ev.Type {
		case termbox.EventInterrupt, termbox.EventError:
			return
		}

		if d.HandleEvent(ev) {
			return
		}
	}
}

// Stop wakes the event poller and waits for it to exit.
func (d *Display) Stop() error {
	if d.polling == nil {
		return nil
	}

	select {
	case <-d.polling:
	default:
		// Interrupt blocks until PollEvent takes it
		go termbox.Interrupt()
		<-d.polling
	}

	d.polling = nil

	return nil
}

// Close cleans up the terminal.
func (d *Display) Close() error {
	termbox.Close()

	if d.restore != nil {
		d.restore()
		d.restore = nil
	}

	return nil
}

// Input returns the input gathered since the last call.
func (d *Display) Input() view.Input {
	d.mu.Lock()
	defer d.mu.Unlock()

	in := d.pending
	d.pending = view.Input{}

	return in
}

// TimeLock reports whether the wheel currently zooms the time axis.
func (d *Display) TimeLock() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timeLock
}

// HandleEvent records a terminal event as input. It returns true when the
// user asked to quit.
func (d *Display) HandleEvent(ev termbox.Event) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Type {
	case termbox.EventKey:
		return d.handleKey(ev)

	case termbox.EventMouse:
		d.handleMouse(ev)

	case termbox.EventResize:
		d.pending.Redraw = true
	}

	return false
}

func (d *Display) handleKey(ev termbox.Event) bool {
	switch ev.Key {
	case termbox.KeyCtrlC, termbox.KeyEsc:
		return true

	case termbox.KeyEnter:
		d.pending.Toggle = !d.pending.Toggle

	case termbox.KeySpace:
		d.timeLock = !d.timeLock
		d.pending.Redraw = true

	case termbox.KeyArrowUp:
		d.pan(-1)

	case termbox.KeyArrowDown:
		d.pan(1)

	case termbox.KeyArrowLeft:
		d.zoomTime(-KeyStep)

	case termbox.KeyArrowRight:
		d.zoomTime(KeyStep)
	}

	switch ch := ev.Ch; {
	case ch == 'q' || ch == 'Q':
		return true

	case ch == 's' || ch == 'S':
		d.pending.Toggle = !d.pending.Toggle

	case ch >= '0' && ch <= '9':
		d.pending.Select = append(d.pending.Select, int(ch-'0'))

	case ch == '+' || ch == '=':
		d.zoom(KeyStep)

	case ch == '-' || ch == '_':
		d.zoom(-KeyStep)
	}

	return false
}

func (d *Display) handleMouse(ev termbox.Event) {
	switch ev.Key {
	case termbox.MouseWheelUp, termbox.MouseWheelDown:
		if !d.plot.contains(ev.MouseX, ev.MouseY) {
			return
		}

		step := WheelStep
		if ev.Key == termbox.MouseWheelDown {
			step = -step
		}

		if d.timeLock || ev.Mod&termbox.ModAlt != 0 {
			d.zoomTime(step)
		} else {
			d.zoom(step)
		}

	case termbox.MouseLeft:
		if !d.dragging {
			if d.plot.contains(ev.MouseX, ev.MouseY) {
				d.dragging = true
				d.dragRow = ev.MouseY
			}
			return
		}

		if rows := ev.MouseY - d.dragRow; rows != 0 {
			d.pending.Drag += d.rowsToUnits(rows)
			d.dragRow = ev.MouseY
		}

	case termbox.MouseRelease:
		d.dragging = false
	}
}

// zoom adds a channel zoom delta. Keyboard and wheel zoom both act on the
// plot, so the input counts as hovered.
func (d *Display) zoom(delta float64) {
	d.pending.Hovered = true
	d.pending.Scroll += delta
}

// zoomTime adds a plot time delta, kept apart from channel zoom so both can
// happen in one frame.
func (d *Display) zoomTime(delta float64) {
	d.pending.Hovered = true
	d.pending.TimeScroll += delta
}

// pan moves the view by a fraction of the visible range. Positive dir moves
// the view down.
func (d *Display) pan(dir float64) {
	span := d.bounds.YMax - d.bounds.YMin
	if span <= 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		return
	}

	d.pending.Drag += dir * PanStep * span
}

// rowsToUnits converts a pointer movement in rows to plot units. Moving the
// pointer down lowers the value under it.
func (d *Display) rowsToUnits(rows int) float64 {
	span := d.bounds.YMax - d.bounds.YMin
	if d.plot.h < 1 || span <= 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		return 0
	}

	return -float64(rows) * span / float64(d.plot.h)
}
