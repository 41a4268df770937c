package mesh

import (
	"context"
	"errors"
	"sync"
)

// ErrFeedClosed is returned by Next once the feed is closed and drained.
var ErrFeedClosed = errors.New("mesh: feed closed")

// Feed is the push subscription between a radio transport and its consumer.
//
// The transport publishes events from its own goroutine; a single consumer
// takes them in arrival order with Next. A bounded feed holds at most limit
// events, and Send waits for the consumer to take one before adding more.
type Feed struct {
	mu     sync.Mutex
	events []Event
	limit  int // 0 means unbounded
	closed bool
	signal chan struct{} // buffered, size 1
	room   chan struct{} // buffered, size 1
}

// NewFeed creates an empty, open, unbounded feed.
func NewFeed() *Feed {
	return NewBoundedFeed(0)
}

// NewBoundedFeed creates an empty, open feed holding at most limit events.
// A limit of zero or less means unbounded.
func NewBoundedFeed(limit int) *Feed {
	if limit < 0 {
		limit = 0
	}
	capacity := 64
	if limit > 0 && limit < capacity {
		capacity = limit
	}
	return &Feed{
		events: make([]Event, 0, capacity),
		limit:  limit,
		signal: make(chan struct{}, 1),
		room:   make(chan struct{}, 1),
	}
}

// Publish appends an event to the feed without waiting.
// Safe for concurrent use. Returns false if the feed is closed or full.
func (f *Feed) Publish(e Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.full() {
		return false
	}

	f.push(e)
	return true
}

// Send appends an event to the feed, waiting while the feed is full.
//
// Returns ErrFeedClosed if the feed is closed before the event is added and
// ctx.Err() if the context ends first.
func (f *Feed) Send(ctx context.Context, e Event) error {
	for {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return ErrFeedClosed
		}
		if !f.full() {
			f.push(e)
			if !f.full() {
				// Pass the wakeup on to any other waiting sender.
				notify(f.room)
			}
			f.mu.Unlock()
			return nil
		}
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.room:
		}
	}
}

// full reports whether a bounded feed is at its limit. Caller holds mu.
func (f *Feed) full() bool {
	return f.limit > 0 && len(f.events) >= f.limit
}

// push appends e and wakes the consumer. Caller holds mu and has checked
// that the feed is open.
func (f *Feed) push(e Event) {
	f.events = append(f.events, e)
	notify(f.signal)
}

// notify sends on a size-1 channel without blocking; the buffer coalesces
// wakeups.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Next blocks until an event is available and returns it.
//
// Returns ctx.Err() if the context ends first, and ErrFeedClosed once the
// feed is closed and every published event has been taken.
func (f *Feed) Next(ctx context.Context) (Event, error) {
	for {
		if e, ok := f.tryNext(); ok {
			return e, nil
		}

		f.mu.Lock()
		drained := f.closed && len(f.events) == 0
		f.mu.Unlock()
		if drained {
			return Event{}, ErrFeedClosed
		}

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-f.signal:
		}
	}
}

func (f *Feed) tryNext() (Event, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.events) == 0 {
		return Event{}, false
	}

	e := f.events[0]

	// Clear the slot so the backing array does not pin payloads.
	f.events[0] = Event{}
	if len(f.events) == 1 {
		f.events = f.events[:0]
	} else {
		f.events = f.events[1:]
	}

	if !f.closed {
		notify(f.room)
	}
	return e, true
}

// Len returns the number of events waiting to be taken.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// Close stops accepting events. Events already published remain available
// to Next. Closing twice is a no-op.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	f.closed = true
	close(f.signal)
	close(f.room)
}
