package view

import (
	"github.com/noriah/catscope/axis"
	"github.com/noriah/catscope/dsp"
)

// Line is one channel of a frame.
type Line struct {
	Name      string
	Points    []dsp.Point
	Highlight bool
}

// Frame is everything a render sink needs to draw one refresh.
type Frame struct {
	Bounds Bounds
	Lines  []Line

	FormatTime  axis.Formatter
	FormatValue axis.Formatter
}

// Frame downsamples the visible window of every channel and places all of
// them on the vertical axis of the active channel. data holds the history of
// each channel in channel order; missing channels produce empty lines.
//
// The points of the returned lines are reused by the next call.
func (v *Viewport) Frame(data [][]float64) Frame {
	var (
		window = v.WindowLen()
		active = v.channels[v.active]
		lines  = make([]Line, len(v.channels))
	)

	for idx, ch := range v.channels {
		var values []float64
		if idx < len(data) {
			values = data[idx]
		}

		points := dsp.DownsampleInto(v.bufs[idx], values, window, v.points, v.sampleRate)
		v.bufs[idx] = points

		if idx != v.active {
			for p := range points {
				points[p].V = ch.Onto(active, points[p].V)
			}
		}

		lines[idx] = Line{
			Name:      ch.Name,
			Points:    points,
			Highlight: idx == v.active,
		}
	}

	return Frame{
		Bounds:      v.Bounds(),
		Lines:       lines,
		FormatTime:  axis.Time,
		FormatValue: axis.Metric,
	}
}
