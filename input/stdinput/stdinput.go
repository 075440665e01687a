// Package stdinput reads samples piped into the standard input, either as
// interleaved little-endian floats or as lines of separated values.
package stdinput

import (
	"encoding/binary"
	"io"
	"math"
	"os"
	"sync"

	"github.com/noriah/catscope/input"
	"github.com/noriah/catscope/input/common/handoff"
	"github.com/noriah/catscope/input/common/lineread"
	"github.com/pkg/errors"
)

// ReadsPerSecond is how often a block of frames is handed to the frame loop
// when samples arrive at the nominal rate.
const ReadsPerSecond = 100

func init() {
	input.RegisterBackend("stdin", StdinBackend{})
}

type StdinBackend struct{}

func (b StdinBackend) Init() error {
	return nil
}

func (b StdinBackend) Close() error {
	return nil
}

func (b StdinBackend) Devices() ([]input.Device, error) {
	return []input.Device{Float64LE, Float32LE, Text}, nil
}

func (b StdinBackend) DefaultDevice() (input.Device, error) {
	return Text, nil
}

func (b StdinBackend) Open(cfg input.SessionConfig) (input.Source, error) {
	return NewStdinSession(cfg, os.Stdin)
}

// Format is how samples are encoded on the standard input.
type Format string

const (
	Float64LE Format = "f64le"
	Float32LE Format = "f32le"
	Text      Format = "text"
)

func (f Format) String() string {
	return string(f)
}

// Session reads one stream for its whole life. Samples that arrive while
// stopped are dropped.
type Session struct {
	cfg    input.SessionConfig
	format Format
	frames int

	r    io.Reader
	once sync.Once

	mu    sync.Mutex
	queue *handoff.Queue // nil while stopped
	err   error          // set once the stream ends
}

func NewStdinSession(cfg input.SessionConfig, r io.Reader) (*Session, error) {
	format, ok := cfg.Device.(Format)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	switch format {
	case Float64LE, Float32LE, Text:
	default:
		return nil, errors.Errorf("unknown format %q", format)
	}

	frames := int(cfg.SampleRate / ReadsPerSecond)
	if frames < 1 {
		frames = 1
	}

	return &Session{
		cfg:    cfg,
		format: format,
		frames: frames,
		r:      r,
	}, nil
}

// Start resumes handing samples to the frame loop. It fails once the stream
// has ended.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	if s.queue != nil {
		return nil
	}

	s.queue = handoff.New(handoff.DefaultDepth)
	s.once.Do(func() { go s.read() })

	return nil
}

func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue != nil {
		s.queue.Close()
		s.queue = nil
	}

	return nil
}

func (s *Session) ReadSamples() ([][]float64, error) {
	s.mu.Lock()
	queue := s.queue
	s.mu.Unlock()

	if queue == nil {
		return nil, input.ErrNotRunning
	}

	return queue.Drain(s.cfg.ChannelCount)
}

// push hands a chunk to the running queue, or drops it while stopped.
func (s *Session) push(chunk [][]float64) {
	s.mu.Lock()
	queue := s.queue
	s.mu.Unlock()

	if queue != nil {
		queue.Push(chunk)
	}
}

func (s *Session) fail(err error) {
	err = errors.Wrap(err, "standard input ended")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
	if s.queue != nil {
		s.queue.Fail(err)
	}
}

func (s *Session) read() {
	var err error

	if s.format == Text {
		err = s.readText()
	} else {
		err = s.readFloats()
	}

	if err == nil {
		err = io.EOF
	}

	s.fail(err)
}

func (s *Session) readFloats() error {
	count := s.cfg.ChannelCount

	reader := floatReader{
		order: binary.LittleEndian,
		f64:   s.format == Float64LE,
	}

	width := 4
	if reader.f64 {
		width = 8
	}

	raw := make([]byte, s.frames*count*width)

	for {
		n, err := io.ReadFull(s.r, raw)

		// keep whole frames of a short final read
		frames := n / (count * width)
		if frames > 0 {
			values := make([]float64, frames*count)

			reader.reset(raw)
			for i := range values {
				values[i] = reader.next()
			}

			s.push(input.Deinterleave(input.MakeChunks(count), values))
		}

		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				err = io.EOF
			}
			return err
		}
	}
}

func (s *Session) readText() error {
	lr := lineread.Reader{
		Count:  s.cfg.ChannelCount,
		Frames: s.frames,
	}

	return lr.Run(s.r, func(chunk [][]float64) bool {
		s.push(chunk)
		return true
	})
}

type floatReader struct {
	order binary.ByteOrder
	buf   []byte
	f64   bool
}

func (f *floatReader) reset(b []byte) {
	f.buf = b
}

func (f *floatReader) next() float64 {
	if f.f64 {
		b := f.buf[:8]
		f.buf = f.buf[8:]
		return math.Float64frombits(f.order.Uint64(b))
	}

	b := f.buf[:4]
	f.buf = f.buf[4:]
	return float64(math.Float32frombits(f.order.Uint32(b)))
}
