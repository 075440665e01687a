// Package serialport reads instruments that stream one line of
// separated values per sample frame over a serial port.
package serialport

import (
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/noriah/catscope/input"
	"github.com/noriah/catscope/input/common/handoff"
	"github.com/noriah/catscope/input/common/lineread"
	"github.com/pkg/errors"
	goserial "github.com/tarm/serial"
)

// DefaultBaud is used when the session config does not name a line speed.
const DefaultBaud = 115200

// patterns of device nodes listed as candidates
var patterns = []string{"/dev/ttyUSB*", "/dev/ttyACM*", "/dev/tty.usb*"}

func init() {
	input.RegisterBackend("serial", Backend{})
}

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

func (b Backend) Devices() ([]input.Device, error) {
	var devices []input.Device

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list serial ports")
		}

		for _, m := range matches {
			devices = append(devices, Port(m))
		}
	}

	return devices, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	devices, err := b.Devices()
	if err != nil {
		return nil, err
	}

	if len(devices) == 0 {
		return nil, errors.New("no serial ports found")
	}

	return devices[0], nil
}

func (b Backend) Open(cfg input.SessionConfig) (input.Source, error) {
	return NewSession(cfg)
}

// Port is the path of a serial device node.
type Port string

func (p Port) String() string {
	return string(p)
}

// readTimeout bounds each port read so a quiet device still lets the reader
// notice Stop.
const readTimeout = 100 * time.Millisecond

// Session streams frames from an open serial port.
type Session struct {
	cfg    input.SessionConfig
	frames int // lines per pushed chunk

	port   io.ReadCloser
	queue  *handoff.Queue
	reader chan struct{}
}

func NewSession(cfg input.SessionConfig) (*Session, error) {
	if _, ok := cfg.Device.(Port); !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	if cfg.Baud <= 0 {
		cfg.Baud = DefaultBaud
	}

	frames := int(cfg.SampleRate / 100)
	if frames < 1 {
		frames = 1
	}

	return &Session{
		cfg:    cfg,
		frames: frames,
	}, nil
}

func (s *Session) Start() error {
	if s.port != nil {
		return nil
	}

	port, err := goserial.OpenPort(&goserial.Config{
		Name:        s.cfg.Device.String(),
		Baud:        s.cfg.Baud,
		ReadTimeout: readTimeout,
		Size:        8,
		Parity:      goserial.ParityNone,
		StopBits:    goserial.Stop1,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", s.cfg.Device)
	}

	s.attach(timedPort{port})

	return nil
}

// timedPort reports a read that timed out with no data as an idle read
// instead of the end of the stream.
type timedPort struct {
	*goserial.Port
}

func (p timedPort) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if n == 0 && err == io.EOF {
		return 0, nil
	}
	return n, err
}

func (s *Session) attach(port io.ReadCloser) {
	s.port = port
	s.queue = handoff.New(handoff.DefaultDepth)
	s.reader = make(chan struct{})

	go func(queue *handoff.Queue, done chan struct{}) {
		defer close(done)
		s.read(port, queue)
	}(s.queue, s.reader)
}

// Stop closes the port. It is a no-op when not started.
func (s *Session) Stop() error {
	if s.port == nil {
		return nil
	}

	s.queue.Close()
	err := s.port.Close()
	<-s.reader

	s.port = nil
	s.queue = nil

	return errors.Wrap(err, "failed to close serial port")
}

func (s *Session) ReadSamples() ([][]float64, error) {
	if s.queue == nil {
		return nil, input.ErrNotRunning
	}

	return s.queue.Drain(s.cfg.ChannelCount)
}

func (s *Session) read(r io.Reader, queue *handoff.Queue) {
	skipped := 0

	lr := lineread.Reader{
		Count:  s.cfg.ChannelCount,
		Frames: s.frames,
		Done:   queue.Done(),
		OnSkip: func(err error) {
			// partial lines are normal right after opening the port
			if skipped++; skipped == 10 {
				log.Printf("serial: skipping malformed lines: %v", err)
			}
		},
	}

	err := lr.Run(r, queue.Push)

	select {
	case <-queue.Done():
		return
	default:
	}

	if err != nil {
		queue.Fail(errors.Wrap(err, "serial stream ended"))
	}
}
