// Package authevent carries session-lifecycle signals from the HTTP layer to
// the single consumer that turns them into navigation.
package authevent

import (
	"sync"
	"sync/atomic"
)

// Kind identifies a session-lifecycle signal
type Kind int

const (
	// Unauthorized means the backend rejected the session cookie (HTTP 401)
	Unauthorized Kind = iota + 1
	// Forbidden means the session is valid but lacks privilege (HTTP 403)
	Forbidden
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Event is a fire-and-forget signal. Path is the request path that failed
// and is only meaningful for Unauthorized.
type Event struct {
	Kind Kind
	Path string
}

// Notifier is implemented by anything that accepts signals. Notify must not
// block the caller.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Event)

// Notify calls f(e)
func (f NotifierFunc) Notify(e Event) { f(e) }

// DefaultQueueSize is large enough for a burst of concurrent failures
const DefaultQueueSize = 32

// minQueueSize leaves room for one Forbidden next to the reserved slot
const minQueueSize = 2

// Queue is a buffered signal channel. Signals raised after Close, or while
// the buffer is full, are dropped and counted.
//
// The last slot only takes Unauthorized, so a full buffer always holds an
// Unauthorized that has not been handled yet. A 401 is therefore never
// lost: when it is dropped, an earlier one still clears the session.
type Queue struct {
	mu      sync.Mutex
	ch      chan Event
	closed  bool
	sent    atomic.Int64
	dropped atomic.Int64
}

// NewQueue creates a queue with the given buffer size
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if size < minQueueSize {
		size = minQueueSize
	}
	return &Queue{ch: make(chan Event, size)}
}

// Notify enqueues e without blocking
func (q *Queue) Notify(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	limit := cap(q.ch)
	if e.Kind != Unauthorized {
		limit--
	}
	if len(q.ch) >= limit {
		q.dropped.Add(1)
		return
	}

	// Senders hold mu and the consumer only drains, so this never blocks
	q.ch <- e
	q.sent.Add(1)
}

// Events returns the receive side of the queue
func (q *Queue) Events() <-chan Event {
	return q.ch
}

// Close stops accepting signals and closes the channel so consumers drain
// what is buffered and then return.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// Sent reports how many signals were accepted into the buffer
func (q *Queue) Sent() int {
	return int(q.sent.Load())
}

// Dropped reports how many signals were discarded because the buffer was full
func (q *Queue) Dropped() int {
	return int(q.dropped.Load())
}
