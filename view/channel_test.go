package view

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestNewChannelZoom(t *testing.T) {
	for _, z := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		if c := NewChannel("x", z); c.Zoom != DefaultZoom {
			t.Errorf("NewChannel zoom %v gave %v", z, c.Zoom)
		}
	}

	if c := NewChannel("x", 0.25); c.Zoom != 0.25 || c.Pos != 0 {
		t.Errorf("unexpected channel %+v", c)
	}
}

func TestOntoIdentity(t *testing.T) {
	c := Channel{Name: "a", Zoom: 0.3, Pos: -1.7}

	for _, y := range []float64{0, 1e-9, -4.2, 123456.789, math.MaxFloat64} {
		if got := c.Onto(c, y); got != y {
			t.Errorf("Onto(self, %v) = %v", y, got)
		}
	}
}

func TestOntoMapsRanges(t *testing.T) {
	c := Channel{Zoom: 2, Pos: 10}
	a := Channel{Zoom: 0.5, Pos: -1}

	lo, hi := c.Range()
	alo, ahi := a.Range()

	if got := c.Onto(a, lo); math.Abs(got-alo) > 1e-12 {
		t.Errorf("low edge mapped to %v, want %v", got, alo)
	}

	if got := c.Onto(a, hi); math.Abs(got-ahi) > 1e-12 {
		t.Errorf("high edge mapped to %v, want %v", got, ahi)
	}

	if got := c.Onto(a, c.Pos); got != a.Pos {
		t.Errorf("center mapped to %v, want %v", got, a.Pos)
	}
}

func TestOntoCommutesWithMean(t *testing.T) {
	c := Channel{Zoom: 3.5, Pos: 0.25}
	a := Channel{Zoom: 0.001, Pos: 7}

	ys := []float64{-2, 0.5, 3.25, 9, -11.5, 0.125}

	mapped := make([]float64, len(ys))
	for i, y := range ys {
		mapped[i] = c.Onto(a, y)
	}

	n := float64(len(ys))
	lhs := c.Onto(a, floats.Sum(ys)/n)
	rhs := floats.Sum(mapped) / n

	if math.Abs(lhs-rhs) > 1e-9 {
		t.Fatalf("mean then map %v, map then mean %v", lhs, rhs)
	}
}

func TestRescaleStaysPositive(t *testing.T) {
	for _, d := range []float64{1e6, -1e6, 1e300, -1e300, 3, -3} {
		v := rescale(1, d)
		if !(v > 0) || math.IsInf(v, 0) {
			t.Errorf("rescale(1, %v) = %v", d, v)
		}
	}
}
