// Package synth generates test signals in real time. It needs no hardware and
// is the fallback backend.
package synth

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/noriah/catscope/input"
)

// BaseFrequency of the first channel in Hz. Channel n runs at n+1 times it.
const BaseFrequency = 0.5

// MaxBurst caps how much history one read may generate after a stall.
const MaxBurst = 5 * time.Second

func init() {
	input.RegisterBackend("synth", Backend{})
}

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

func (b Backend) Devices() ([]input.Device, error) {
	return []input.Device{Sine, Square, Noise}, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return Sine, nil
}

func (b Backend) Open(cfg input.SessionConfig) (input.Source, error) {
	return NewSession(cfg)
}

// Shape is the waveform a session produces.
type Shape string

const (
	Sine   Shape = "sine"
	Square Shape = "square"
	Noise  Shape = "noise"
)

func (s Shape) String() string {
	return string(s)
}

// Session produces samples at the nominal rate of its config, paced by the
// wall clock.
type Session struct {
	cfg   input.SessionConfig
	shape Shape

	now func() time.Time
	rng *rand.Rand

	running bool
	started time.Time
	emitted int64 // since started
	index   int64 // since creation
}

// NewSession returns a stopped session.
func NewSession(cfg input.SessionConfig) (*Session, error) {
	shape := Sine
	if cfg.Device != nil {
		shape = Shape(cfg.Device.String())
	}

	switch shape {
	case Sine, Square, Noise:
	default:
		return nil, fmt.Errorf("unknown waveform %q", shape)
	}

	if !(cfg.SampleRate > 0) {
		return nil, fmt.Errorf("invalid sample rate %v", cfg.SampleRate)
	}

	return &Session{
		cfg:   cfg,
		shape: shape,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(1)),
	}, nil
}

func (s *Session) Start() error {
	if s.running {
		return nil
	}

	s.running = true
	s.started = s.now()
	s.emitted = 0

	return nil
}

func (s *Session) Stop() error {
	s.running = false
	return nil
}

// ReadSamples returns the samples due since the last read.
func (s *Session) ReadSamples() ([][]float64, error) {
	if !s.running {
		return nil, input.ErrNotRunning
	}

	elapsed := s.now().Sub(s.started)
	due := int64(elapsed.Seconds()*s.cfg.SampleRate) - s.emitted

	if limit := int64(MaxBurst.Seconds() * s.cfg.SampleRate); due > limit {
		// drop what we could not keep up with
		s.emitted += due - limit
		s.index += due - limit
		due = limit
	}

	out := input.MakeChunks(s.cfg.ChannelCount)
	if due <= 0 {
		return out, nil
	}

	for ch := range out {
		out[ch] = make([]float64, due)
		for i := range out[ch] {
			out[ch][i] = s.sample(ch, s.index+int64(i))
		}
	}

	s.emitted += due
	s.index += due

	return out, nil
}

func (s *Session) sample(ch int, n int64) float64 {
	amp := math.Pow(10, -float64(ch))
	t := float64(n) / s.cfg.SampleRate
	phase := 2 * math.Pi * BaseFrequency * float64(ch+1) * t

	switch s.shape {
	case Square:
		if math.Sin(phase) >= 0 {
			return amp
		}
		return -amp

	case Noise:
		return amp * (s.rng.Float64()*2 - 1)

	default:
		return amp * math.Sin(phase)
	}
}
