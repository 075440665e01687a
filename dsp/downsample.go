package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// maxWindow keeps window arithmetic well inside int range.
const maxWindow = math.MaxInt / 2

// Point is a single rendered sample. T is in seconds relative to the newest
// sample, so history lives at negative times.
type Point struct {
	T float64
	V float64
}

// WindowLen returns the number of samples covered by plotTime seconds at
// sampleRate.
func WindowLen(plotTime, sampleRate float64) int {
	w := math.Round(plotTime * sampleRate)

	switch {
	case math.IsNaN(w) || w <= 0:
		return 0
	case w >= maxWindow:
		return maxWindow
	}

	return int(w)
}

// GroupSize returns how many raw samples are averaged into one point so a
// window of the given length fits in the point budget.
func GroupSize(window, points int) int {
	if points < 1 {
		points = 1
	}

	if g := window / points; g > 1 {
		return g
	}

	return 1
}

// FirstIndex returns where the visible window starts in a history of length n.
// The start is aligned to a multiple of group so points do not shimmer as new
// samples arrive.
func FirstIndex(n, window, group int) int {
	if n <= window {
		return 0
	}

	return (n - window) / group * group
}

// Downsample reduces the newest window samples of values to at most about
// points group averages.
func Downsample(values []float64, window, points int, sampleRate float64) []Point {
	return DownsampleInto(nil, values, window, points, sampleRate)
}

// DownsampleInto is Downsample reusing the storage of dst.
func DownsampleInto(dst []Point, values []float64, window, points int, sampleRate float64) []Point {
	dst = dst[:0]

	group := GroupSize(window, points)
	values = values[FirstIndex(len(values), window, group):]

	count := len(values) / group
	size := float64(group)
	total := float64(len(values))

	for i := 0; i < count; i++ {
		start := i * group

		dst = append(dst, Point{
			T: (float64(start) - total) / sampleRate,
			V: floats.Sum(values[start:start+group]) / size,
		})
	}

	return dst
}
