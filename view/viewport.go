// Package view keeps the zoom and pan state of the strip chart and turns
// recorded samples into the polylines of a frame.
package view

import (
	"math"

	"github.com/noriah/catscope/dsp"
)

const (
	// ScrollBase is the per unit of scroll zoom step.
	ScrollBase = 1.005
	// Lookahead is the fraction of the plot time shown past the newest sample.
	Lookahead = 0.1

	// DefaultPlotTime in seconds
	DefaultPlotTime = 10.0
	// DefaultPoints is the number of points drawn per channel
	DefaultPoints = 1000
)

// Config holds the fixed parameters of a viewport.
type Config struct {
	SampleRate float64 // nominal samples per second of every channel
	PlotTime   float64 // initial visible time in seconds
	Points     int     // target number of points per channel
}

// Bounds is the rectangle handed to the render sink.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Input is everything the presentation layer collected since the last frame.
type Input struct {
	// Hovered is set when the pointer is over the plot area.
	Hovered bool
	// Scroll is the vertical scroll delta. Positive zooms in.
	Scroll float64
	// TimeZoom makes scrolling change the plot time instead of the zoom of
	// the active channel.
	TimeZoom bool
	// TimeScroll is a scroll delta that always changes the plot time. It is
	// applied after Scroll.
	TimeScroll float64
	// Drag is the vertical pointer drag, already in plot units.
	Drag float64
	// Select holds channel selections in the order they happened.
	Select []int
	// Toggle asks to start or stop acquisition.
	Toggle bool
	// Redraw asks for a frame even if nothing changed, after a resize.
	Redraw bool
}

// Empty reports whether in would change nothing.
func (in Input) Empty() bool {
	return in.Scroll == 0 && in.TimeScroll == 0 && in.Drag == 0 && len(in.Select) == 0 &&
		!in.Toggle && !in.Redraw
}

// Viewport owns the shared time window and the per channel display state.
// It is not safe for concurrent use.
type Viewport struct {
	channels []Channel
	active   int

	plotTime   float64
	sampleRate float64
	points     int

	// reused between frames
	bufs [][]dsp.Point
}

// New returns a viewport over channels with the first channel active.
func New(cfg Config, channels ...Channel) *Viewport {
	if len(channels) == 0 {
		channels = []Channel{NewChannel("", DefaultZoom)}
	}

	if !(cfg.PlotTime > 0) || math.IsInf(cfg.PlotTime, 0) {
		cfg.PlotTime = DefaultPlotTime
	}

	if cfg.Points < 1 {
		cfg.Points = DefaultPoints
	}

	v := &Viewport{
		channels:   make([]Channel, len(channels)),
		plotTime:   cfg.PlotTime,
		sampleRate: cfg.SampleRate,
		points:     cfg.Points,
		bufs:       make([][]dsp.Point, len(channels)),
	}

	for idx, ch := range channels {
		v.channels[idx] = NewChannel(ch.Name, ch.Zoom)
		v.channels[idx].Pos = ch.Pos
		v.bufs[idx] = make([]dsp.Point, 0, cfg.Points)
	}

	return v
}

// Count returns the number of channels.
func (v *Viewport) Count() int {
	return len(v.channels)
}

// Channel returns the state of channel idx.
func (v *Viewport) Channel(idx int) (Channel, bool) {
	if idx < 0 || idx >= len(v.channels) {
		return Channel{}, false
	}

	return v.channels[idx], true
}

// Active returns the index of the active channel.
func (v *Viewport) Active() int {
	return v.active
}

// PlotTime returns the visible history in seconds.
func (v *Viewport) PlotTime() float64 {
	return v.plotTime
}

// WindowLen returns the number of samples in the visible history.
func (v *Viewport) WindowLen() int {
	return dsp.WindowLen(v.plotTime, v.sampleRate)
}

// Select makes channel idx active. Indexes out of range are ignored.
func (v *Viewport) Select(idx int) bool {
	if idx < 0 || idx >= len(v.channels) {
		return false
	}

	v.active = idx
	return true
}

// Scroll zooms the active channel, or the plot time when timeZoom is set.
func (v *Viewport) Scroll(delta float64, timeZoom bool) {
	if delta == 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}

	if timeZoom {
		v.plotTime = rescale(v.plotTime, delta)
		return
	}

	ch := &v.channels[v.active]
	ch.Zoom = rescale(ch.Zoom, delta)
}

// Drag moves the active channel by delta plot units.
func (v *Viewport) Drag(delta float64) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}

	v.channels[v.active].Pos -= delta
}

// Apply runs one frame of input and returns the new view rectangle.
// Selections happen first so scroll and drag act on the newly active channel.
func (v *Viewport) Apply(in Input) Bounds {
	for _, idx := range in.Select {
		v.Select(idx)
	}

	if in.Hovered {
		v.Scroll(in.Scroll, in.TimeZoom)
		v.Scroll(in.TimeScroll, true)
	}

	v.Drag(in.Drag)

	return v.Bounds()
}

// Bounds returns the view rectangle for the current state.
func (v *Viewport) Bounds() Bounds {
	lo, hi := v.channels[v.active].Range()

	return Bounds{
		XMin: -v.plotTime,
		XMax: v.plotTime * Lookahead,
		YMin: lo,
		YMax: hi,
	}
}
