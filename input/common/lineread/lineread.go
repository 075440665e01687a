// Package lineread turns a stream of text frames, one line of separated values
// per frame, into per channel chunks.
package lineread

import (
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/noriah/catscope/input"
	"github.com/pkg/errors"
)

// DefaultMaxDelay is the longest a partial chunk waits for more lines.
const DefaultMaxDelay = 10 * time.Millisecond

// bufSize is the read size. A read shorter than this means the source had
// nothing more ready.
const bufSize = 4096

// Reader splits lines into chunks of Frames frames. Chunks are handed over
// early when the source has nothing more ready.
type Reader struct {
	// values per line
	Count int
	// lines per full chunk
	Frames int
	// longest a partial chunk is held. DefaultMaxDelay when zero.
	MaxDelay time.Duration
	// stops the reader between reads. May be nil.
	Done <-chan struct{}
	// called for every malformed line. May be nil.
	OnSkip func(err error)

	now func() time.Time
}

// Run reads r until it fails, Done closes or push returns false. A read that
// returns no data and no error is an idle tick, not the end of the stream.
// The stream's end is returned as io.EOF.
func (lr *Reader) Run(r io.Reader, push func([][]float64) bool) error {
	now := lr.now
	if now == nil {
		now = time.Now
	}

	maxDelay := lr.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}

	frames := lr.Frames
	if frames < 1 {
		frames = 1
	}

	var (
		buf     = make([]byte, bufSize)
		line    []byte
		chunk   = input.MakeChunks(lr.Count)
		pending int
		since   time.Time
	)

	flush := func() bool {
		if pending == 0 {
			return true
		}

		ok := push(chunk)
		chunk = input.MakeChunks(lr.Count)
		pending = 0

		return ok
	}

	// addLine returns false once the consumer is gone.
	addLine := func(text string) bool {
		values, err := ParseLine(text, lr.Count)
		if err != nil {
			if lr.OnSkip != nil {
				lr.OnSkip(err)
			}
			return true
		}

		for ch, v := range values {
			chunk[ch] = append(chunk[ch], v)
		}

		if pending++; pending == 1 {
			since = now()
		}

		if pending < frames {
			return true
		}

		return flush()
	}

	for {
		if lr.Done != nil {
			select {
			case <-lr.Done:
				return nil
			default:
			}
		}

		n, err := r.Read(buf)

		for _, c := range buf[:n] {
			if c != '\n' {
				line = append(line, c)
				continue
			}

			if !addLine(string(line)) {
				return nil
			}
			line = line[:0]
		}

		if err != nil {
			if len(line) > 0 && !addLine(string(line)) {
				return nil
			}

			flush()

			return err
		}

		// hand over a partial chunk when the source went quiet or it waited
		// long enough
		if pending > 0 && (n < len(buf) || now().Sub(since) >= maxDelay) {
			if !flush() {
				return nil
			}
		}
	}
}

func isSeparator(r rune) bool {
	return r == ',' || r == ';' || unicode.IsSpace(r)
}

// ParseLine parses one frame of count values separated by commas, semicolons
// or whitespace.
func ParseLine(line string, count int) ([]float64, error) {
	fields := strings.FieldsFunc(line, isSeparator)
	if len(fields) != count {
		return nil, errors.Errorf("got %d values, want %d", len(fields), count)
	}

	values := make([]float64, count)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad value %q", f)
		}
		values[i] = v
	}

	return values, nil
}
