package discord

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Dispatcher runs gateway event handlers on a bounded pool and tracks them
// so shutdown can wait for in-flight work.
type Dispatcher struct {
	mu      sync.RWMutex
	closed  bool
	pending sync.WaitGroup
	group   errgroup.Group
	logger  *slog.Logger
}

// NewDispatcher creates a pool running at most workers handlers at once
func NewDispatcher(workers int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{logger: slog.Default()}
	d.group.SetLimit(workers)
	return d
}

// SetLogger sets the logger
func (d *Dispatcher) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

// Submit schedules fn, blocking while the pool is saturated. It returns false
// once the dispatcher has been drained. A panic in fn is logged and contained.
func (d *Dispatcher) Submit(name string, fn func()) bool {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return false
	}
	d.pending.Add(1)
	d.mu.RUnlock()

	d.group.Go(func() error {
		defer d.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("Event handler panicked", "handler", name, "panic", r)
			}
		}()
		fn()
		return nil
	})
	return true
}

// Drain stops accepting work and waits for accepted handlers, including ones
// still queued for a worker, until ctx is done.
func (d *Dispatcher) Drain(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn("Abandoning in-flight event handlers", "error", ctx.Err())
		return ctx.Err()
	}
}
