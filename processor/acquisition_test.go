package processor

import (
	"testing"

	"github.com/noriah/catscope/store"
	"github.com/pkg/errors"
)

type testSource struct {
	starts, stops, reads int

	startErr, stopErr, readErr error

	next [][]float64
}

func (s *testSource) Start() error {
	s.starts++
	return s.startErr
}

func (s *testSource) Stop() error {
	s.stops++
	return s.stopErr
}

func (s *testSource) ReadSamples() ([][]float64, error) {
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}

	out := s.next
	s.next = [][]float64{{}, {}}
	return out, nil
}

func newTestAcquisition() (*Acquisition, *testSource, *store.Store) {
	src := &testSource{next: [][]float64{{}, {}}}
	st := store.New(2)
	return NewAcquisition(src, st), src, st
}

func TestStopWhileIdle(t *testing.T) {
	a, src, _ := newTestAcquisition()

	if err := a.Stop(); err != nil {
		t.Fatalf("stop while idle: %v", err)
	}

	if src.stops != 0 || a.State() != Idle {
		t.Fatal("stop while idle touched the source")
	}
}

func TestIdleDoesNotPoll(t *testing.T) {
	a, src, st := newTestAcquisition()
	src.next = [][]float64{{1}, {2}}

	n, err := a.Poll()
	if n != 0 || err != nil || src.reads != 0 || st.Len() != 0 {
		t.Fatalf("idle poll: %d %v reads=%d", n, err, src.reads)
	}
}

func TestStartFailureKeepsIdle(t *testing.T) {
	a, src, _ := newTestAcquisition()
	src.startErr = errors.New("device busy")

	if err := a.Start(); err == nil {
		t.Fatal("expected start error")
	}

	if a.State() != Idle {
		t.Fatal("failed start changed state")
	}

	src.startErr = nil
	if err := a.Toggle(); err != nil || a.State() != Running {
		t.Fatalf("toggle start: %v %v", err, a.State())
	}

	if err := a.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("double start: %v", err)
	}

	if src.starts != 2 {
		t.Fatalf("source started %d times", src.starts)
	}
}

func TestStopFailureKeepsRunning(t *testing.T) {
	a, src, _ := newTestAcquisition()
	a.Start()

	src.stopErr = errors.New("stuck")
	if err := a.Toggle(); err == nil {
		t.Fatal("expected stop error")
	}

	if a.State() != Running {
		t.Fatal("failed stop changed state")
	}
}

func TestPollAppendsAndKeepsHistory(t *testing.T) {
	a, src, st := newTestAcquisition()
	a.Start()

	src.next = [][]float64{{1, 2, 3}, {4, 5, 6}}
	if n, err := a.Poll(); n != 3 || err != nil {
		t.Fatalf("poll: %d %v", n, err)
	}

	if n, err := a.Poll(); n != 0 || err != nil {
		t.Fatalf("empty poll: %d %v", n, err)
	}

	a.Stop()
	a.Start()

	src.next = [][]float64{{7}, {8}}
	a.Poll()

	if st.Len() != 4 || st.Channel(1)[3] != 8 {
		t.Fatalf("history after restart: %v", st.Channels())
	}
}

func TestReadFaultStops(t *testing.T) {
	a, src, st := newTestAcquisition()
	a.Start()

	src.next = [][]float64{{1}, {2}}
	a.Poll()

	fault := errors.New("device unplugged")
	src.readErr = fault

	if _, err := a.Poll(); !errors.Is(err, fault) {
		t.Fatalf("expected fault, got %v", err)
	}

	if a.State() != Idle || !errors.Is(a.Fault(), fault) {
		t.Fatalf("state %v fault %v", a.State(), a.Fault())
	}

	reads := src.reads
	a.Poll()
	a.Poll()

	if src.reads != reads {
		t.Fatal("reads continued after a fault")
	}

	if st.Len() != 1 {
		t.Fatal("fault changed history")
	}

	src.readErr = nil
	a.Start()

	if a.Fault() != nil {
		t.Fatal("start did not clear the fault")
	}
}

func TestWrongChunkCountFaults(t *testing.T) {
	a, src, st := newTestAcquisition()
	a.Start()

	src.next = [][]float64{{1}}

	if _, err := a.Poll(); !errors.Is(err, store.ErrChannelCount) {
		t.Fatalf("got %v", err)
	}

	if a.State() != Idle || st.Len() != 0 {
		t.Fatal("mismatched chunk was accepted")
	}
}
