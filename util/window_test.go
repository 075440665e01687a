package util

import (
	"math"
	"testing"
)

func TestMovingWindow(t *testing.T) {
	mw := NewMovingWindow(3)

	if mean, sd := mw.Stats(); mean != 0 || sd != 0 {
		t.Fatalf("empty window stats %v %v", mean, sd)
	}

	mw.Update(1)
	mw.Update(2)
	mean, sd := mw.Update(3)

	if mean != 2 || math.Abs(sd-1) > 1e-12 {
		t.Fatalf("got mean %v sd %v", mean, sd)
	}

	// evicts 1
	mean, _ = mw.Update(7)
	if mean != 4 || mw.Len() != 3 || mw.Cap() != 3 {
		t.Fatalf("got mean %v len %d", mean, mw.Len())
	}

	mw.Reset()
	if mw.Len() != 0 || mw.Mean() != 0 || mw.StdDev() != 0 {
		t.Fatal("reset did not clear the window")
	}
}

func TestMovingWindowFlat(t *testing.T) {
	mw := NewMovingWindow(8)

	for i := 0; i < 100; i++ {
		mw.Update(0.1)
	}

	if sd := mw.StdDev(); math.IsNaN(sd) || sd > 1e-6 {
		t.Fatalf("flat window sd %v", sd)
	}
}

func BenchmarkUpdate(b *testing.B) {
	mw := NewMovingWindow(120)

	for i := 0; i < b.N; i++ {
		mw.Update(float64(i % 60))
	}
}
