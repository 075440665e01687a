// Package input defines acquisition sources and the registry of backends that
// open them.
package input

import (
	"github.com/pkg/errors"
)

// ErrNotRunning is returned by sources read while stopped.
var ErrNotRunning = errors.New("source is not running")

// Device is an acquisition device exposed by a backend.
type Device interface {
	// String should return a human-readable name of the device.
	String() string
}

// SessionConfig describes what a source should produce.
type SessionConfig struct {
	Device       Device
	ChannelCount int     // number of channels per read
	SampleRate   float64 // nominal samples per second per channel
	Baud         int     // line speed for serial devices
}

// Source produces samples for a fixed set of channels.
//
// ReadSamples must not block. It returns one chunk per channel, in channel
// order, holding everything that arrived since the previous read; chunks may
// be empty. An error means the source faulted.
type Source interface {
	Start() error
	Stop() error
	ReadSamples() ([][]float64, error)
}

// MakeChunks makes a set of empty per channel chunks.
func MakeChunks(count int) [][]float64 {
	return make([][]float64, count)
}

// Deinterleave appends interleaved frames of len(dst) channels to dst.
// A trailing partial frame is ignored.
func Deinterleave(dst [][]float64, frames []float64) [][]float64 {
	count := len(dst)
	if count == 0 {
		return dst
	}

	n := len(frames) / count * count
	for i := 0; i < n; i++ {
		dst[i%count] = append(dst[i%count], frames[i])
	}

	return dst
}
