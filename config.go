package catscope

import (
	"fmt"
	"math"

	"github.com/noriah/catscope/processor"
	"github.com/noriah/catscope/view"

	"github.com/pkg/errors"
)

type Config struct {
	// The name of the backend from the input package
	Backend string
	// The name of the device to pull data from
	Device string
	// The rate that samples are read, per channel
	SampleRate float64
	// The number of channels to read data from
	ChannelCount int
	// Channel names, in channel order. Missing names get a default
	Names []string
	// Starting zoom of every channel
	Zoom float64
	// Line speed for serial devices. 0 uses the backend default
	Baud int
	// Seconds of history shown
	PlotTime float64
	// Points drawn per channel
	Points int
	// The number of frames drawn per second
	FrameRate int
	// Start acquiring as soon as the viewer is up
	AutoStart bool

	// Function to call when setting up the pipeline
	SetupFunc SetupFunc
	// Function to call when starting the pipeline
	StartFunc StartFunc
	// Function to call when cleaning up the pipeline
	CleanupFunc CleanupFunc
	// Where frames are drawn and input comes from
	Output processor.Output
}

func NewZeroConfig() Config {
	return Config{
		SampleRate:   DefaultSampleRate,
		ChannelCount: 2,
		Zoom:         view.DefaultZoom,
		PlotTime:     view.DefaultPlotTime,
		Points:       view.DefaultPoints,
		FrameRate:    processor.DefaultFrameRate,
	}
}

func (cfg *Config) Validate() error {
	switch {
	case !positive(cfg.SampleRate):
		return errors.New("sample rate must be positive")

	case !positive(cfg.PlotTime):
		return errors.New("plot time must be positive")

	case !positive(cfg.Zoom):
		return errors.New("zoom must be positive")

	case cfg.Points < 1:
		return errors.New("too few points (1 min)")

	case cfg.FrameRate < 0:
		return errors.New("frame rate must not be negative")

	case cfg.Baud < 0:
		return errors.New("baud must not be negative")
	}

	switch {
	case cfg.ChannelCount > MaxChannelCount:
		return fmt.Errorf("too many channels (%d max)", MaxChannelCount)

	case cfg.ChannelCount < 1:
		return errors.New("too few channels (1 min)")

	case len(cfg.Names) > cfg.ChannelCount:
		return errors.Errorf("%d names given for %d channels", len(cfg.Names), cfg.ChannelCount)
	}

	if cfg.Output == nil {
		return errors.New("no output")
	}

	return nil
}

// Channels returns the display state every channel starts with.
func (cfg *Config) Channels() []view.Channel {
	names := DefaultNames(cfg.ChannelCount)
	copy(names, cfg.Names)

	channels := make([]view.Channel, cfg.ChannelCount)
	for idx := range channels {
		channels[idx] = view.NewChannel(names[idx], cfg.Zoom)
	}

	return channels
}

// DefaultNames returns the names used when none are given. Two channels are
// a displacement sensor and its drive voltage.
func DefaultNames(count int) []string {
	if count == 2 {
		return []string{"Displacement", "Voltage"}
	}

	names := make([]string, count)
	for idx := range names {
		names[idx] = fmt.Sprintf("Channel %d", idx)
	}

	return names
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
