package util

import (
	"math"
)

// MovingWindow keeps the mean and standard deviation of the last few values
// pushed into it.
//
// values is a ring; head is the slot the next value goes into. Sums are kept
// incrementally so Update is O(1).
type MovingWindow struct {
	values []float64
	head   int
	length int

	sum   float64
	sumSq float64

	average float64
	stddev  float64
}

// NewMovingWindow returns a new moving window.
func NewMovingWindow(size int) *MovingWindow {
	if size < 1 {
		size = 1
	}

	return &MovingWindow{
		values: make([]float64, size),
	}
}

func (mw *MovingWindow) calcFinal() (float64, float64) {
	if mw.length > 0 {
		mw.average = mw.sum / float64(mw.length)
	} else {
		mw.average = 0
	}

	if mw.length > 1 {
		n := float64(mw.length)
		variance := (mw.sumSq - n*mw.average*mw.average) / (n - 1)
		// rounding can push a flat window slightly negative
		mw.stddev = math.Sqrt(math.Abs(variance))
	} else {
		mw.stddev = 0
	}

	return mw.average, mw.stddev
}

// Update pushes value, evicting the oldest value when full.
func (mw *MovingWindow) Update(value float64) (float64, float64) {
	if mw.length == len(mw.values) {
		old := mw.values[mw.head]
		mw.sum -= old
		mw.sumSq -= old * old
	} else {
		mw.length++
	}

	mw.values[mw.head] = value
	mw.head = (mw.head + 1) % len(mw.values)

	mw.sum += value
	mw.sumSq += value * value

	return mw.calcFinal()
}

// Reset empties the window.
func (mw *MovingWindow) Reset() {
	mw.head = 0
	mw.length = 0
	mw.sum = 0
	mw.sumSq = 0
	mw.calcFinal()
}

// Len returns how many items in the window
func (mw *MovingWindow) Len() int {
	return mw.length
}

// Cap returns max size of window
func (mw *MovingWindow) Cap() int {
	return len(mw.values)
}

// Mean is the moving window average
func (mw *MovingWindow) Mean() float64 {
	return mw.average
}

// StdDev is the moving average std
func (mw *MovingWindow) StdDev() float64 {
	return mw.stddev
}

// Stats returns the statistics of this window
func (mw *MovingWindow) Stats() (float64, float64) {
	return mw.average, mw.stddev
}
