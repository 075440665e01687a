// Package execread provides a source that reads interleaved floating-point
// samples from the stdout of a command.
package execread

import (
	"encoding/binary"
	"io"
	"math"
	"os"
	"os/exec"

	"github.com/noriah/catscope/input"
	"github.com/noriah/catscope/input/common/handoff"
	"github.com/pkg/errors"
)

// ReadsPerSecond is how often the reader hands a block to the frame loop.
const ReadsPerSecond = 100

// Session is a source that runs a command and decodes its stdout.
type Session struct {
	// OnStart is called after the command starts. Nil by default.
	OnStart func(cmd *exec.Cmd) error

	// prevents cmd.Stderr from pointing to os.Stderr. false by default.
	DisconnectedStderr bool

	argv []string
	cfg  input.SessionConfig

	frames int // frames per block

	f32mode bool

	cmd    *exec.Cmd
	queue  *handoff.Queue
	reader chan struct{}
}

// NewSession creates a new execread session. It never returns an error.
func NewSession(argv []string, f32mode bool, cfg input.SessionConfig) *Session {
	if len(argv) < 1 {
		panic("argv has no arg0")
	}

	frames := int(cfg.SampleRate / ReadsPerSecond)
	if frames < 1 {
		frames = 1
	}

	return &Session{
		argv:    argv,
		cfg:     cfg,
		f32mode: f32mode,
		frames:  frames,
	}
}

// Start launches the command. Samples produced before Start are never seen.
func (s *Session) Start() error {
	if s.cmd != nil {
		return nil
	}

	cmd := exec.Command(s.argv[0], s.argv[1:]...)

	if !s.DisconnectedStderr {
		cmd.Stderr = os.Stderr
	}

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	if s.OnStart != nil {
		if err := s.OnStart(cmd); err != nil {
			cmd.Process.Kill()
			cmd.Wait()
			return err
		}
	}

	s.cmd = cmd
	s.queue = handoff.New(handoff.DefaultDepth)
	s.reader = make(chan struct{})

	go func(queue *handoff.Queue, done chan struct{}) {
		defer close(done)
		s.read(o, queue)
	}(s.queue, s.reader)

	return nil
}

// Stop kills the command. It is a no-op when not started.
func (s *Session) Stop() error {
	if s.cmd == nil {
		return nil
	}

	s.queue.Close()

	// a failed kill means the process already exited
	s.cmd.Process.Kill()

	<-s.reader
	s.cmd.Wait()

	s.cmd = nil
	s.queue = nil

	return nil
}

// ReadSamples returns everything decoded since the last call.
func (s *Session) ReadSamples() ([][]float64, error) {
	if s.queue == nil {
		return nil, input.ErrNotRunning
	}

	return s.queue.Drain(s.cfg.ChannelCount)
}

func (s *Session) read(r io.Reader, queue *handoff.Queue) {
	count := s.cfg.ChannelCount

	width := 8
	if s.f32mode {
		width = 4
	}

	raw := make([]byte, s.frames*count*width)
	values := make([]float64, s.frames*count)

	reader := floatReader{
		order: binary.LittleEndian,
		f64:   !s.f32mode,
	}

	for {
		if _, err := io.ReadFull(r, raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				err = errors.New(s.argv[0] + " closed its output")
			}
			queue.Fail(errors.Wrap(err, "failed to read samples"))
			return
		}

		reader.reset(raw)
		for n := range values {
			values[n] = reader.next()
		}

		chunk := input.Deinterleave(input.MakeChunks(count), values)
		if !queue.Push(chunk) {
			return
		}
	}
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
