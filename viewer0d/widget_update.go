package main

import (
	"sync"
	"time"

	"github.com/itohio/scalarscope/pkg/sample"
)

// eventBatcher collects events between two UI updates so that fast devices
// do not flood the main thread with one update per event.
type eventBatcher struct {
	interval time.Duration

	mu      sync.Mutex
	last    time.Time
	pending []sample.Event
}

func newEventBatcher(interval time.Duration) *eventBatcher {
	return &eventBatcher{interval: interval}
}

// Add queues ev. Once interval has passed since the last batch, it returns
// everything queued so far; otherwise nil.
func (b *eventBatcher) Add(ev sample.Event, now time.Time) []sample.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, ev)
	if now.Sub(b.last) < b.interval {
		return nil
	}
	b.last = now
	return b.take()
}

// Flush returns everything queued, or nil.
func (b *eventBatcher) Flush() []sample.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.take()
}

func (b *eventBatcher) take() []sample.Event {
	if len(b.pending) == 0 {
		return nil
	}
	batch := b.pending
	b.pending = nil
	return batch
}
