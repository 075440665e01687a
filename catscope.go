// Package catscope runs a multichannel strip chart: samples from an input
// backend are recorded and drawn as a scrolling plot of the recent past.
package catscope

import (
	"context"
	"log"

	"github.com/noriah/catscope/input"
	"github.com/noriah/catscope/processor"
	"github.com/noriah/catscope/store"
	"github.com/noriah/catscope/view"

	"github.com/pkg/errors"
)

const (
	// DefaultSampleRate is the per channel rate used when none is given.
	DefaultSampleRate = 50000

	// MaxChannelCount is how many channels the number keys can select.
	MaxChannelCount = 10
)

type SetupFunc func() error
type StartFunc func(ctx context.Context) (context.Context, error)
type CleanupFunc func() error

// Run opens the configured backend and draws frames until ctx is done or the
// output fails.
func Run(cfg *Config, ctx context.Context) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	backend, err := input.InitBackend(cfg.Backend)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessConfig := input.SessionConfig{
		ChannelCount: cfg.ChannelCount,
		SampleRate:   cfg.SampleRate,
		Baud:         cfg.Baud,
	}

	if sessConfig.Device, err = input.GetDevice(backend, cfg.Device); err != nil {
		return err
	}

	src, err := backend.Open(sessConfig)
	if err != nil {
		return errors.Wrap(err, "failed to open the input backend")
	}

	history := store.New(cfg.ChannelCount)
	acq := processor.NewAcquisition(src, history)

	// runs after cleanup so the message is not lost under the screen
	defer func() {
		if fault := acq.Fault(); fault != nil {
			log.Printf("acquisition stopped: %v", fault)
		}
	}()

	defer func() {
		if err := acq.Stop(); err != nil {
			log.Printf("failed to stop acquisition: %v", err)
		}
	}()

	vp := view.New(view.Config{
		SampleRate: cfg.SampleRate,
		PlotTime:   cfg.PlotTime,
		Points:     cfg.Points,
	}, cfg.Channels()...)

	if cfg.SetupFunc != nil {
		if err := cfg.SetupFunc(); err != nil {
			return err
		}
	}

	if cfg.CleanupFunc != nil {
		defer cfg.CleanupFunc()
	}

	if cfg.StartFunc != nil {
		if ctx, err = cfg.StartFunc(ctx); err != nil {
			return err
		}
	}

	proc := processor.New(processor.Config{
		FrameRate:   cfg.FrameRate,
		Acquisition: acq,
		Store:       history,
		Viewport:    vp,
		Output:      cfg.Output,
	})

	if cfg.AutoStart {
		// a failure reaches the output through the status. The terminal shows it
		// and can retry, the raw output ends with it.
		proc.StartAcquisition()
	}

	return proc.Process(ctx)
}
