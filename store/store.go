// Package store holds the acquisition history of a session.
package store

import (
	"github.com/pkg/errors"
)

// ErrChannelCount is returned when an append does not carry exactly one chunk
// per channel.
var ErrChannelCount = errors.New("chunk count does not match channel count")

// Store is an append-only set of per-channel sample sequences.
//
// Every append carries one chunk per channel so all sequences move in
// lock-step. Nothing is ever removed.
type Store struct {
	channels [][]float64
}

// New returns an empty store for count channels.
func New(count int) *Store {
	if count < 0 {
		count = 0
	}

	return &Store{
		channels: make([][]float64, count),
	}
}

// Append adds one chunk to every channel. If the number of chunks is wrong
// nothing is appended.
func (s *Store) Append(chunks [][]float64) error {
	if len(chunks) != len(s.channels) {
		return errors.Wrapf(ErrChannelCount, "got %d chunks for %d channels",
			len(chunks), len(s.channels))
	}

	for idx, chunk := range chunks {
		s.channels[idx] = append(s.channels[idx], chunk...)
	}

	return nil
}

// Count returns the number of channels.
func (s *Store) Count() int {
	return len(s.channels)
}

// Len returns the number of samples in the shortest channel.
func (s *Store) Len() int {
	if len(s.channels) == 0 {
		return 0
	}

	n := len(s.channels[0])
	for _, ch := range s.channels[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}

	return n
}

// Channel returns the history of channel idx. The slice must not be modified.
func (s *Store) Channel(idx int) []float64 {
	if idx < 0 || idx >= len(s.channels) {
		return nil
	}

	return s.channels[idx]
}

// Channels returns the history of every channel in channel order. The slices
// must not be modified.
func (s *Store) Channels() [][]float64 {
	out := make([][]float64, len(s.channels))
	copy(out, s.channels)
	return out
}
