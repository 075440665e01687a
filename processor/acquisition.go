package processor

import (
	"github.com/noriah/catscope/input"
	"github.com/noriah/catscope/store"
	"github.com/pkg/errors"
)

// ErrAlreadyRunning is returned by Start while acquiring.
var ErrAlreadyRunning = errors.New("acquisition already running")

// State is the acquisition state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Acquisition moves samples from a source into a store while running.
type Acquisition struct {
	src   input.Source
	store *store.Store

	state State
	fault error
}

// NewAcquisition returns an idle acquisition.
func NewAcquisition(src input.Source, st *store.Store) *Acquisition {
	return &Acquisition{
		src:   src,
		store: st,
	}
}

// State returns the current state.
func (a *Acquisition) State() State {
	return a.state
}

// Fault returns the read error that stopped the last run, if any.
func (a *Acquisition) Fault() error {
	return a.fault
}

// Start begins acquiring. History recorded so far is kept.
func (a *Acquisition) Start() error {
	if a.state == Running {
		return ErrAlreadyRunning
	}

	if err := a.src.Start(); err != nil {
		return errors.Wrap(err, "failed to start acquisition")
	}

	a.state = Running
	a.fault = nil

	return nil
}

// Stop halts acquiring. Stopping while idle does nothing.
func (a *Acquisition) Stop() error {
	if a.state == Idle {
		return nil
	}

	if err := a.src.Stop(); err != nil {
		return errors.Wrap(err, "failed to stop acquisition")
	}

	a.state = Idle

	return nil
}

// Toggle starts when idle and stops when running.
func (a *Acquisition) Toggle() error {
	if a.state == Running {
		return a.Stop()
	}
	return a.Start()
}

// Poll reads once from the source and appends the result to the store. It
// returns the number of samples added per channel. A read error ends the run;
// no further reads happen until Start is called again.
func (a *Acquisition) Poll() (int, error) {
	if a.state != Running {
		return 0, nil
	}

	chunks, err := a.src.ReadSamples()
	if err == nil {
		err = a.store.Append(chunks)
	}

	if err != nil {
		a.state = Idle
		a.fault = errors.Wrap(err, "acquisition fault")

		// the source is already broken; its stop error adds nothing
		a.src.Stop()

		return 0, a.fault
	}

	if len(chunks) == 0 {
		return 0, nil
	}

	return len(chunks[0]), nil
}
