package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Skotchmaster/teamshift/internal/logging"
)

const defaultQueueSize = 256

var (
	ErrQueueFull = errors.New("events: queue full")
	ErrClosed    = errors.New("events: publisher closed")
)

type queued struct {
	ctx context.Context
	e   Event
}

// Async hands events to a single background worker so a slow or unreachable
// broker never holds up the caller. When the buffer is full the event is dropped
// with ErrQueueFull.
type Async struct {
	next  Publisher
	queue chan queued
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewAsync(next Publisher, size int) *Async {
	if size <= 0 {
		size = defaultQueueSize
	}
	a := &Async{next: next, queue: make(chan queued, size)}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *Async) run() {
	defer a.wg.Done()
	for q := range a.queue {
		if err := a.next.Publish(q.ctx, q.e); err != nil {
			logging.FromContext(q.ctx).Warn("event_publish_failed", "type", q.e.Type, "error", err)
		}
	}
}

// Publish only enqueues. The caller's context keeps its values (logger) but not
// its cancellation, since the request usually ends before the write.
func (a *Async) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- queued{ctx: context.WithoutCancel(ctx), e: e}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events, drains the queue and closes the wrapped publisher.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	a.wg.Wait()
	return a.next.Close()
}
