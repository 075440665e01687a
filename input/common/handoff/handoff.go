// Package handoff moves decoded sample chunks from a blocking reader goroutine
// to the frame loop without ever blocking the frame loop.
package handoff

import "sync"

// DefaultDepth is the number of chunks buffered between producer and consumer.
const DefaultDepth = 64

// Queue is a single-producer single-consumer chunk queue.
//
// The producer calls Push and, once, Fail. The consumer calls Drain and Close.
type Queue struct {
	chunks chan [][]float64
	errc   chan error
	done   chan struct{}
	once   sync.Once

	// owned by the consumer
	err error
}

// New returns a queue buffering up to depth chunks.
func New(depth int) *Queue {
	if depth < 1 {
		depth = DefaultDepth
	}

	return &Queue{
		chunks: make(chan [][]float64, depth),
		errc:   make(chan error, 1),
		done:   make(chan struct{}),
	}
}

// Push hands a chunk to the consumer. It blocks while the queue is full and
// returns false once the queue is closed.
func (q *Queue) Push(chunk [][]float64) bool {
	select {
	case q.chunks <- chunk:
		return true
	case <-q.done:
		return false
	}
}

// Fail records the terminal error of the producer. Only the first call counts.
func (q *Queue) Fail(err error) {
	select {
	case q.errc <- err:
	default:
	}
}

// Done is closed when the consumer closes the queue.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Close tells the producer to stop. It is safe to call more than once.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}

// Drain merges every queued chunk into one chunk per channel. It never
// blocks. The producer's error is returned only after every chunk pushed
// before it has been drained, and is returned again by every later call.
func (q *Queue) Drain(count int) ([][]float64, error) {
	out := make([][]float64, count)

	if q.drainInto(out) {
		return out, nil
	}

	if q.err == nil {
		select {
		case q.err = <-q.errc:
		default:
			return out, nil
		}

		// the producer may have pushed between our drain and its failure
		if q.drainInto(out) {
			return out, nil
		}
	}

	return out, q.err
}

func (q *Queue) drainInto(out [][]float64) bool {
	got := false

	for {
		select {
		case chunk := <-q.chunks:
			got = true
			for idx := range out {
				if idx < len(chunk) {
					out[idx] = append(out[idx], chunk[idx]...)
				}
			}

		default:
			return got
		}
	}
}
