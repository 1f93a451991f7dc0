// Package dispatch provides the cross-thread work queue drained by the UI loop.
package dispatch

import (
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Post once the queue has been closed.
var ErrClosed = errors.New("dispatch: queue closed")

// PanicError wraps a value recovered from a panicking work item.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("dispatch: work item panicked: %v", e.Value)
}

// Option configures a Queue.
type Option func(*Queue)

// WithPanicHandler sets the function receiving recovered panics from work items.
// Without it a panic propagates into the UI loop.
func WithPanicHandler(fn func(PanicError)) Option {
	return func(q *Queue) {
		q.onPanic = fn
	}
}

// Queue is a FIFO of work items posted from any goroutine and executed by Drain
// on the owning UI thread. The wake function is called once per batch, when the
// queue goes from idle to pending; it must schedule a later call to Drain on
// the UI thread and must be safe to call from any goroutine.
type Queue struct {
	mu        sync.Mutex
	items     []func()
	scheduled bool
	closed    bool
	wake      func()
	onPanic   func(PanicError)
}

// New creates a queue that calls wake to request a drain.
func New(wake func(), opts ...Option) *Queue {
	if wake == nil {
		panic("dispatch.New: wake function cannot be nil")
	}

	q := &Queue{wake: wake}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Post appends fn to the queue. It never blocks on the UI thread and may be
// called from inside a work item.
func (q *Queue) Post(fn func()) error {
	if fn == nil {
		return nil
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, fn)
	if q.scheduled {
		q.mu.Unlock()
		return nil
	}
	q.scheduled = true
	wake := q.wake
	q.mu.Unlock()

	wake()
	return nil
}

// Drain runs the items queued at the time of the call, in posting order, and
// returns how many ran. Items posted while draining land in the next batch.
// Closing the queue from inside a work item drops the rest of the batch.
func (q *Queue) Drain() int {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0
	}
	batch := q.items
	q.items = nil
	q.scheduled = false
	q.mu.Unlock()

	ran := 0
	for i, fn := range batch {
		batch[i] = nil
		if q.isClosed() {
			break
		}
		q.run(fn)
		ran++
	}
	return ran
}

// Close drops every pending item and rejects later posts. It returns the
// number of items discarded. Close is idempotent.
func (q *Queue) Close() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := len(q.items)
	q.items = nil
	q.closed = true
	q.scheduled = false
	return dropped
}

func (q *Queue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue) run(fn func()) {
	if q.onPanic == nil {
		fn()
		return
	}

	defer func() {
		if r := recover(); r != nil {
			q.onPanic(PanicError{Value: r})
		}
	}()
	fn()
}
