package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Errors returned by AsyncEmitter.EmitEvent.
var (
	ErrEmitterStopped = errors.New("event emitter is stopped")
	ErrQueueFull      = errors.New("event queue is full")
)

// AsyncConfig sizes an AsyncEmitter.
type AsyncConfig struct {
	// QueueSize is the number of events buffered before EmitEvent fails.
	QueueSize int

	// WorkerCount is the number of goroutines delivering events.
	// If zero or negative, defaults to 1.
	WorkerCount int
}

// AsyncEmitter queues events and delivers them to a downstream emitter from
// a fixed pool of workers. EmitEvent never blocks on handlers.
type AsyncEmitter struct {
	next    EventEmitter
	queue   chan *Event
	workers int
	logger  *slog.Logger

	mu      sync.RWMutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewAsyncEmitter creates an AsyncEmitter delivering to next.
// Call Start before emitting and Stop on shutdown.
func NewAsyncEmitter(next EventEmitter, cfg AsyncConfig, logger *slog.Logger) *AsyncEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "async_event_emitter")

	workers := cfg.WorkerCount
	if workers <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", cfg.WorkerCount,
			"default_count", 1)
		workers = 1
	}
	size := cfg.QueueSize
	if size < 0 {
		size = 0
	}

	return &AsyncEmitter{
		next:    next,
		queue:   make(chan *Event, size),
		workers: workers,
		logger:  logger,
	}
}

// Start launches the workers. Calling Start more than once has no effect.
func (a *AsyncEmitter) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started || a.stopped {
		return
	}
	a.started = true

	a.logger.Info("starting event workers", "worker_count", a.workers, "queue_cap", cap(a.queue))
	for i := 0; i < a.workers; i++ {
		a.wg.Add(1)
		go a.work(i)
	}
}

func (a *AsyncEmitter) work(id int) {
	defer a.wg.Done()
	log := a.logger.With("worker_id", id)

	for event := range a.queue {
		// Delivery is detached from the request that produced the event.
		if err := a.next.EmitEvent(context.Background(), event); err != nil {
			log.Error("event delivery failed",
				"error", err,
				"event_id", event.ID,
				"event_type", event.Type)
		}
	}
	log.Debug("event worker exiting")
}

// EmitEvent queues event for delivery. It returns ErrQueueFull when the
// buffer is exhausted and ErrEmitterStopped after Stop.
func (a *AsyncEmitter) EmitEvent(_ context.Context, event *Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.stopped {
		return ErrEmitterStopped
	}

	select {
	case a.queue <- event:
		a.logger.Debug("event enqueued",
			"event_id", event.ID,
			"event_type", event.Type,
			"queue_len", len(a.queue))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(a.queue))
	}
}

// Stop closes the queue and waits for the workers to drain it, or for ctx
// to be done, whichever happens first.
func (a *AsyncEmitter) Stop(ctx context.Context) error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return nil
	}
	a.stopped = true
	close(a.queue)
	started := a.started
	a.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("event workers stopped")
		return nil
	case <-ctx.Done():
		a.logger.Warn("event workers did not drain before shutdown deadline",
			"pending", len(a.queue))
		return ctx.Err()
	}
}
