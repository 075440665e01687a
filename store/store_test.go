package store

import (
	"testing"

	"github.com/pkg/errors"
)

func TestAppendLockStep(t *testing.T) {
	s := New(2)

	if s.Len() != 0 {
		t.Fatalf("fresh store has %d samples", s.Len())
	}

	if err := s.Append([][]float64{{1, 2, 3}, {4, 5, 6}}); err != nil {
		t.Fatal(err)
	}

	if err := s.Append([][]float64{{}, {}}); err != nil {
		t.Fatal(err)
	}

	if err := s.Append([][]float64{{7}, {8}}); err != nil {
		t.Fatal(err)
	}

	if s.Len() != 4 {
		t.Fatalf("expected 4 samples, got %d", s.Len())
	}

	want := [][]float64{{1, 2, 3, 7}, {4, 5, 6, 8}}
	for ch := range want {
		got := s.Channel(ch)
		for i := range want[ch] {
			if got[i] != want[ch][i] {
				t.Fatalf("channel %d sample %d: got %v want %v", ch, i, got[i], want[ch][i])
			}
		}
	}
}

func TestAppendRejectsWrongCount(t *testing.T) {
	s := New(2)

	err := s.Append([][]float64{{1, 2}})
	if !errors.Is(err, ErrChannelCount) {
		t.Fatalf("expected ErrChannelCount, got %v", err)
	}

	if s.Len() != 0 || len(s.Channel(0)) != 0 {
		t.Fatal("partial append happened")
	}
}

func TestChannelOutOfRange(t *testing.T) {
	s := New(1)

	if s.Channel(-1) != nil || s.Channel(1) != nil {
		t.Fatal("expected nil for out of range channel")
	}

	if s.Count() != 1 || len(s.Channels()) != 1 {
		t.Fatal("bad channel count")
	}
}
