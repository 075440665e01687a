// Package axis formats tick labels for the strip chart axes.
package axis

import "fmt"

// Formatter turns an axis value into a label. span is the size of the
// currently visible range (max - min) and picks the unit.
type Formatter func(v, span float64) string

// Time labels a time axis given in seconds.
func Time(v, span float64) string {
	switch {
	case span <= 60*2:
		return fmt.Sprintf("%.1f secs", v)
	case span <= 60*60*2:
		return fmt.Sprintf("%d mins", int(v/60))
	default:
		return fmt.Sprintf("%d hrs", int(v/60/60))
	}
}

// Metric labels an amplitude axis with a metric prefix.
//
// Spans above 1 fall through to the hours formula of Time. That branch is
// kept as is; nothing downstream depends on a base unit label yet.
func Metric(v, span float64) string {
	switch {
	case span <= 1e-6:
		return fmt.Sprintf("%.1f n", v/1e-9)
	case span <= 1e-3:
		return fmt.Sprintf("%.1f u", v/1e-6)
	case span <= 1:
		return fmt.Sprintf("%.1f m", v/1e-3)
	default:
		return fmt.Sprintf("%d hrs", int(v/60/60))
	}
}

// Ticks returns n evenly spaced values from lo to hi inclusive.
func Ticks(lo, hi float64, n int) []float64 {
	switch {
	case n < 1:
		return nil
	case n == 1:
		return []float64{(lo + hi) / 2}
	}

	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)

	for i := range out {
		out[i] = lo + step*float64(i)
	}

	out[n-1] = hi

	return out
}
