package view

import (
	"math"
	"testing"

	"github.com/noriah/catscope/dsp"
)

func TestFrameScenario(t *testing.T) {
	v := New(Config{SampleRate: 50000, PlotTime: 10, Points: 1000},
		NewChannel("Displacement", 1),
		NewChannel("Voltage", 1))

	data := [][]float64{make([]float64, 600000), make([]float64, 600000)}
	for i := range data[0] {
		data[0][i] = math.Sin(float64(i) * 1e-4)
		data[1][i] = 2 * math.Cos(float64(i)*1e-4)
	}

	f := v.Frame(data)

	if len(f.Lines) != 2 {
		t.Fatalf("got %d lines", len(f.Lines))
	}

	for _, l := range f.Lines {
		if len(l.Points) != 1000 {
			t.Fatalf("%s: %d points", l.Name, len(l.Points))
		}

		if l.Points[0].T < -10 || l.Points[len(l.Points)-1].T >= 0 {
			t.Fatalf("%s: points span [%v, %v]", l.Name,
				l.Points[0].T, l.Points[len(l.Points)-1].T)
		}
	}

	if !f.Lines[0].Highlight || f.Lines[1].Highlight {
		t.Fatal("wrong line highlighted")
	}

	if f.Bounds != (Bounds{XMin: -10, XMax: 1, YMin: -1, YMax: 1}) {
		t.Fatalf("bounds %+v", f.Bounds)
	}

	if f.FormatTime == nil || f.FormatValue == nil {
		t.Fatal("missing formatters")
	}
}

func TestFrameRemapsInactive(t *testing.T) {
	v := New(Config{SampleRate: 10, PlotTime: 1, Points: 10},
		Channel{Name: "a", Zoom: 1, Pos: 0},
		Channel{Name: "b", Zoom: 4, Pos: 2})

	data := [][]float64{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{2, 6, -2, 2, 2, 2, 2, 2, 2, 10},
	}

	f := v.Frame(data)

	active := f.Lines[0].Points
	for i, p := range active {
		if p.V != data[0][i] {
			t.Fatalf("active point %d changed: %v", i, p.V)
		}
	}

	want := []float64{0, 1, -1, 0, 0, 0, 0, 0, 0, 2}
	for i, p := range f.Lines[1].Points {
		if math.Abs(p.V-want[i]) > 1e-12 {
			t.Fatalf("remapped point %d = %v, want %v", i, p.V, want[i])
		}
	}

	// switching the active channel flips which line is raw
	v.Select(1)
	f = v.Frame(data)

	for i, p := range f.Lines[1].Points {
		if p.V != data[1][i] {
			t.Fatalf("new active point %d changed: %v", i, p.V)
		}
	}

	if f.Bounds.YMin != -2 || f.Bounds.YMax != 6 {
		t.Fatalf("bounds follow the wrong channel: %+v", f.Bounds)
	}
}

func TestFrameMissingData(t *testing.T) {
	v := newTestViewport()

	// 30 samples in groups of 10
	f := v.Frame([][]float64{make([]float64, 30)})

	if len(f.Lines) != 2 {
		t.Fatalf("got %d lines", len(f.Lines))
	}

	if len(f.Lines[1].Points) != 0 {
		t.Fatal("channel without data has points")
	}

	if len(f.Lines[0].Points) != 3 {
		t.Fatalf("got %d points", len(f.Lines[0].Points))
	}
}

func TestFrameMatchesDownsample(t *testing.T) {
	v := newTestViewport()

	data := [][]float64{make([]float64, 5000), make([]float64, 5000)}
	for i := range data[0] {
		data[0][i] = float64(i % 97)
	}

	f := v.Frame(data)
	want := dsp.Downsample(data[0], v.WindowLen(), 100, 100)

	if len(want) != len(f.Lines[0].Points) {
		t.Fatalf("got %d points, want %d", len(f.Lines[0].Points), len(want))
	}

	for i := range want {
		if want[i] != f.Lines[0].Points[i] {
			t.Fatalf("point %d: %v vs %v", i, f.Lines[0].Points[i], want[i])
		}
	}
}
