package graphic

import (
	"math"
	"testing"

	"github.com/noriah/catscope/view"

	"github.com/nsf/termbox-go"
)

func testDisplay() *Display {
	d := NewDisplay()
	d.setLayout(rect{x: 10, y: 1, w: 60, h: 20}, view.Bounds{
		XMin: -10, XMax: 1,
		YMin: -1, YMax: 1,
	})
	return d
}

func wheel(key termbox.Key, x, y int, mod termbox.Modifier) termbox.Event {
	return termbox.Event{Type: termbox.EventMouse, Key: key, MouseX: x, MouseY: y, Mod: mod}
}

func TestWheelInsidePlot(t *testing.T) {
	d := testDisplay()

	d.HandleEvent(wheel(termbox.MouseWheelUp, 20, 5, 0))
	d.HandleEvent(wheel(termbox.MouseWheelUp, 20, 5, 0))
	d.HandleEvent(wheel(termbox.MouseWheelDown, 20, 5, 0))

	in := d.Input()
	if !in.Hovered || in.Scroll != WheelStep || in.TimeScroll != 0 {
		t.Fatalf("unexpected input %+v", in)
	}

	if !d.Input().Empty() {
		t.Fatal("input was not drained")
	}
}

func TestWheelOutsidePlot(t *testing.T) {
	d := testDisplay()

	d.HandleEvent(wheel(termbox.MouseWheelUp, 2, 5, 0))
	d.HandleEvent(wheel(termbox.MouseWheelUp, 20, 0, 0))

	if in := d.Input(); in.Scroll != 0 || in.Hovered {
		t.Fatalf("scroll outside the plot was recorded: %+v", in)
	}
}

func TestWheelTimeZoom(t *testing.T) {
	d := testDisplay()

	d.HandleEvent(wheel(termbox.MouseWheelDown, 20, 5, termbox.ModAlt))

	if in := d.Input(); in.TimeScroll != -WheelStep || in.Scroll != 0 {
		t.Fatalf("alt wheel did not zoom time: %+v", in)
	}

	// space locks time zoom until pressed again
	d.HandleEvent(termbox.Event{Type: termbox.EventKey, Key: termbox.KeySpace})
	d.HandleEvent(wheel(termbox.MouseWheelUp, 20, 5, 0))

	if in := d.Input(); in.TimeScroll != WheelStep || in.Scroll != 0 {
		t.Fatalf("time lock ignored: %+v", in)
	}

	d.HandleEvent(termbox.Event{Type: termbox.EventKey, Key: termbox.KeySpace})
	d.HandleEvent(wheel(termbox.MouseWheelUp, 20, 5, 0))

	if in := d.Input(); in.TimeScroll != 0 || in.Scroll != WheelStep {
		t.Fatalf("time lock stuck: %+v", in)
	}
}

func TestTimeAndChannelZoomInOneFrame(t *testing.T) {
	d := testDisplay()

	d.HandleEvent(wheel(termbox.MouseWheelUp, 20, 5, termbox.ModAlt))
	d.HandleEvent(termbox.Event{Type: termbox.EventKey, Ch: '-'})
	d.HandleEvent(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowRight})

	in := d.Input()
	if in.TimeScroll != WheelStep+KeyStep || in.Scroll != -KeyStep || in.TimeZoom {
		t.Fatalf("zooms were mixed: %+v", in)
	}

	v := view.New(view.Config{SampleRate: 100, PlotTime: 10, Points: 100},
		view.NewChannel("Displacement", 1))
	v.Apply(in)

	ch, _ := v.Channel(0)
	if ch.Zoom <= 1 {
		t.Fatalf("channel zoom %v, want above 1", ch.Zoom)
	}

	if v.PlotTime() >= 10 {
		t.Fatalf("plot time %v, want below 10", v.PlotTime())
	}
}

func TestDrag(t *testing.T) {
	d := testDisplay()

	d.HandleEvent(wheel(termbox.MouseLeft, 20, 5, 0))
	d.HandleEvent(wheel(termbox.MouseLeft, 20, 10, termbox.ModMotion))
	d.HandleEvent(wheel(termbox.MouseRelease, 20, 10, 0))
	d.HandleEvent(wheel(termbox.MouseLeft, 2, 15, 0))
	d.HandleEvent(wheel(termbox.MouseLeft, 2, 18, termbox.ModMotion))

	// 5 rows down on a 20 row plot showing a span of 2
	in := d.Input()
	if math.Abs(in.Drag-(-0.5)) > 1e-12 {
		t.Fatalf("drag = %v, want -0.5", in.Drag)
	}
}

func TestKeys(t *testing.T) {
	d := testDisplay()

	for _, ch := range "3s7+" {
		d.HandleEvent(termbox.Event{Type: termbox.EventKey, Ch: ch})
	}

	in := d.Input()

	if len(in.Select) != 2 || in.Select[0] != 3 || in.Select[1] != 7 {
		t.Fatalf("select = %v", in.Select)
	}

	if !in.Toggle {
		t.Fatal("s did not toggle")
	}

	if !in.Hovered || in.Scroll != KeyStep {
		t.Fatalf("+ did not zoom: %+v", in)
	}

	d.HandleEvent(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowUp})
	if in := d.Input(); math.Abs(in.Drag-(-0.2)) > 1e-12 {
		t.Fatalf("pan up drag = %v", in.Drag)
	}

	d.HandleEvent(termbox.Event{Type: termbox.EventResize})
	if in := d.Input(); !in.Redraw {
		t.Fatal("resize did not request a redraw")
	}
}

func TestQuitKeys(t *testing.T) {
	events := []termbox.Event{
		{Type: termbox.EventKey, Ch: 'q'},
		{Type: termbox.EventKey, Ch: 'Q'},
		{Type: termbox.EventKey, Key: termbox.KeyCtrlC},
		{Type: termbox.EventKey, Key: termbox.KeyEsc},
	}

	for _, ev := range events {
		if !testDisplay().HandleEvent(ev) {
			t.Errorf("event %+v did not quit", ev)
		}
	}

	if testDisplay().HandleEvent(termbox.Event{Type: termbox.EventKey, Ch: 'x'}) {
		t.Error("x quit")
	}
}
