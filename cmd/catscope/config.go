package main

import (
	"errors"

	"github.com/noriah/catscope"
	"github.com/noriah/catscope/input"
	"github.com/noriah/catscope/processor"
	"github.com/noriah/catscope/view"
)

// Config is a temporary struct to define parameters
type config struct {
	// Backend is the backend name from list-backends
	backend string
	// Device is the device name from list-devices
	device string
	// SampleRate is the rate at which samples are read, per channel
	sampleRate float64
	// ChannelCount is the number of channels we record
	channelCount int
	// Names of the channels, in order
	names []string
	// FrameRate is the number of frames to draw every second
	frameRate int
	// PlotTime is how many seconds of history are shown
	plotTime float64
	// Points is how many points are drawn per channel
	points int
	// Zoom is the half height every channel starts with
	zoom float64
	// Baud is the line speed for the serial backend
	baud int
	// AutoStart starts acquiring right away
	autoStart bool
	// RawOutput prints frames as text instead of drawing them
	rawOutput bool
}

// NewZeroConfig returns a zero config
// it is the "default"
func newZeroConfig() config {
	return config{
		backend:      input.DefaultBackend(),
		sampleRate:   catscope.DefaultSampleRate,
		channelCount: 2,
		frameRate:    processor.DefaultFrameRate,
		plotTime:     view.DefaultPlotTime,
		points:       view.DefaultPoints,
		zoom:         view.DefaultZoom,
	}
}

// validate checks what the library config does not know about.
func (cfg *config) validate() error {
	if cfg.backend == "" {
		return errors.New("no backend available")
	}

	// nothing can start acquiring later without a screen
	if cfg.rawOutput {
		cfg.autoStart = true
	}

	return nil
}
