package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/noriah/catscope/processor"
	"github.com/noriah/catscope/view"

	"github.com/pkg/errors"
)

// RawOutput prints the newest point of every line once per frame.
//
// Values are in the units of the active channel, like the plot shows them.
type RawOutput struct {
	w *bufio.Writer

	header bool
}

var _ processor.Output = &RawOutput{}

func NewRawOutput(w io.Writer) *RawOutput {
	return &RawOutput{w: bufio.NewWriter(w)}
}

// Input never has anything; the raw output cannot be steered.
func (d *RawOutput) Input() view.Input {
	return view.Input{}
}

// Draw prints one row. A fault or a failed start ends the output since nothing
// will follow it.
func (d *RawOutput) Draw(frame view.Frame, status processor.Status) error {
	if !d.header {
		d.header = true

		fmt.Fprint(d.w, "samples")
		for _, line := range frame.Lines {
			fmt.Fprintf(d.w, "\t%s", line.Name)
		}
		fmt.Fprintln(d.w)
	}

	if status.Fault != nil {
		if err := d.w.Flush(); err != nil {
			return err
		}
		return errors.Wrap(status.Fault, "acquisition stopped")
	}

	// nothing steers the raw output, so an idle session never starts
	if status.State == processor.Idle && status.Err != nil {
		if err := d.w.Flush(); err != nil {
			return err
		}
		return errors.Wrap(status.Err, "acquisition not started")
	}

	if status.State != processor.Running {
		return d.w.Flush()
	}

	fmt.Fprintf(d.w, "%d", status.Samples)

	for _, line := range frame.Lines {
		if n := len(line.Points); n > 0 {
			fmt.Fprintf(d.w, "\t%6.3f", line.Points[n-1].V)
		} else {
			fmt.Fprint(d.w, "\t-")
		}
	}

	fmt.Fprintln(d.w)

	return d.w.Flush()
}
