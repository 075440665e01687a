// Package processor runs the frame loop of the viewer.
package processor

import (
	"context"
	"time"

	"github.com/noriah/catscope/store"
	"github.com/noriah/catscope/util"
	"github.com/noriah/catscope/view"
	"github.com/pkg/errors"
)

const (
	// DefaultFrameRate is used when no frame rate is configured.
	DefaultFrameRate = 60
	// rateWindow is how many frame intervals the measured rate averages.
	rateWindow = 30
)

// Output is the render sink.
type Output interface {
	// Input returns the input collected since the previous call.
	Input() view.Input
	// Draw draws a frame. It must not keep the points of the frame.
	Draw(view.Frame, Status) error
}

// Status is what the sink shows besides the plot.
type Status struct {
	State     State
	Fault     error   // read error that stopped the last run
	Err       error   // last failed start or stop
	Active    int     // active channel
	Samples   int     // recorded samples per channel
	FrameRate float64 // measured frames per second
}

type Config struct {
	FrameRate   int            // target frames per second
	Acquisition *Acquisition   // sample source state
	Store       *store.Store   // recorded history
	Viewport    *view.Viewport // zoom and pan state
	Output      Output         // render sink
}

type Processor struct {
	frameRate int

	acq   *Acquisition
	store *store.Store
	vp    *view.Viewport
	out   Output

	dirty bool
	err   error

	now    func() time.Time
	last   time.Time
	frames *util.MovingWindow
}

func New(cfg Config) *Processor {
	rate := cfg.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}

	return &Processor{
		frameRate: rate,
		acq:       cfg.Acquisition,
		store:     cfg.Store,
		vp:        cfg.Viewport,
		out:       cfg.Output,
		dirty:     true,
		now:       time.Now,
		frames:    util.NewMovingWindow(rateWindow),
	}
}

// Process runs Tick at the frame rate until ctx is done or drawing fails.
func (p *Processor) Process(ctx context.Context) error {
	dur := time.Second / time.Duration(p.frameRate)
	ticker := time.NewTicker(dur)
	defer ticker.Stop()

	for {
		if err := p.Tick(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Tick runs one frame: poll the source, apply input, and draw if anything
// changed.
func (p *Processor) Tick() error {
	p.measure()

	if _, err := p.acq.Poll(); err != nil {
		p.dirty = true
	}

	// keep scrolling while acquiring even if the source had nothing new
	if p.acq.State() == Running {
		p.dirty = true
	}

	in := p.out.Input()
	if !in.Empty() {
		p.dirty = true
	}

	if in.Toggle {
		p.err = p.acq.Toggle()
	}

	p.vp.Apply(in)

	if !p.dirty {
		return nil
	}

	p.dirty = false

	frame := p.vp.Frame(p.store.Channels())
	if err := p.out.Draw(frame, p.Status()); err != nil {
		return errors.Wrap(err, "failed to draw frame")
	}

	return nil
}

// StartAcquisition starts the source. A failure is kept for the status line.
func (p *Processor) StartAcquisition() error {
	p.err = p.acq.Start()
	p.dirty = true
	return p.err
}

// Status returns the current status.
func (p *Processor) Status() Status {
	status := Status{
		State:   p.acq.State(),
		Fault:   p.acq.Fault(),
		Err:     p.err,
		Active:  p.vp.Active(),
		Samples: p.store.Len(),
	}

	if mean := p.frames.Mean(); mean > 0 {
		status.FrameRate = 1 / mean
	}

	return status
}

func (p *Processor) measure() {
	now := p.now()

	if !p.last.IsZero() {
		p.frames.Update(now.Sub(p.last).Seconds())
	}

	p.last = now
}
