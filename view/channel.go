package view

import "math"

// DefaultZoom is used when a channel is created with a non-positive zoom.
const DefaultZoom = 1.0

// Channel is the display state of a single channel.
type Channel struct {
	Name string
	// Zoom is half of the visible vertical range.
	Zoom float64
	// Pos is the vertical center of the visible range.
	Pos float64
}

// NewChannel returns a channel centered on zero.
func NewChannel(name string, zoom float64) Channel {
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		zoom = DefaultZoom
	}

	return Channel{
		Name: name,
		Zoom: zoom,
	}
}

// Range returns the visible vertical extent of the channel.
func (c Channel) Range() (float64, float64) {
	return c.Pos - c.Zoom, c.Pos + c.Zoom
}

// Onto expresses y, a raw value of c, on the vertical axis of active.
// The deviation of y from the center of c, in units of its zoom, is placed the
// same distance from the center of active.
func (c Channel) Onto(active Channel, y float64) float64 {
	if c.Zoom == active.Zoom && c.Pos == active.Pos {
		return y
	}

	return (y-c.Pos)/c.Zoom*active.Zoom + active.Pos
}

// ScrollFactor returns the multiplier applied to a scale for a scroll delta.
// Positive deltas zoom in.
func ScrollFactor(delta float64) float64 {
	return math.Pow(ScrollBase, -delta)
}

// rescale multiplies v by the scroll factor for delta, keeping the result
// positive and finite.
func rescale(v, delta float64) float64 {
	v *= ScrollFactor(delta)

	switch {
	case v < math.SmallestNonzeroFloat64:
		return math.SmallestNonzeroFloat64
	case v > math.MaxFloat64:
		return math.MaxFloat64
	}

	return v
}
