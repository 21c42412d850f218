package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driving"
)

var (
	// ErrQueueFull is returned by Dispatch when no queue slot is free
	ErrQueueFull = errors.New("event queue is full")

	// ErrNotRunning is returned by Dispatch before Start or after Stop
	ErrNotRunning = errors.New("worker is not running")
)

// Worker handles chat events off the request path with a fixed number of
// goroutines reading from a bounded queue.
type Worker struct {
	events driving.EventService
	logger *slog.Logger

	// Configuration
	concurrency  int
	queueSize    int
	eventTimeout time.Duration

	// Internal state
	mu      sync.RWMutex
	running bool
	queue   chan *domain.InboundEvent
	doneCh  chan struct{}
}

// WorkerConfig holds configuration for the worker.
type WorkerConfig struct {
	Events       driving.EventService
	Logger       *slog.Logger
	Concurrency  int           // Number of concurrent event handlers
	QueueSize    int           // Events buffered before Dispatch reports ErrQueueFull
	EventTimeout time.Duration // Upper bound on handling one event
}

// NewWorker creates a new event worker.
func NewWorker(cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	eventTimeout := cfg.EventTimeout
	if eventTimeout <= 0 {
		eventTimeout = 5 * time.Minute
	}

	return &Worker{
		events:       cfg.Events,
		logger:       logger,
		concurrency:  concurrency,
		queueSize:    queueSize,
		eventTimeout: eventTimeout,
	}
}

// Start launches the handler goroutines.
// They run until Stop is called or ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.queue = make(chan *domain.InboundEvent, w.queueSize)
	w.doneCh = make(chan struct{})
	queue := w.queue
	w.mu.Unlock()

	w.logger.Info("worker starting",
		"concurrency", w.concurrency,
		"queue_size", w.queueSize,
	)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID, queue)
		}(i)
	}

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Dispatch queues event without blocking.
func (w *Worker) Dispatch(event *domain.InboundEvent) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.running {
		return ErrNotRunning
	}

	select {
	case w.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop stops accepting events and waits for queued ones to be handled.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.queue)
	doneCh := w.doneCh
	w.mu.Unlock()

	<-doneCh
	w.logger.Info("worker stopped")
}

// processLoop handles events until the queue is closed and drained.
func (w *Worker) processLoop(ctx context.Context, workerID int, queue <-chan *domain.InboundEvent) {
	logger := w.logger.With("worker_id", workerID)
	logger.Debug("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		case event, ok := <-queue:
			if !ok {
				return
			}
			w.processEvent(ctx, event, logger)
		}
	}
}

// processEvent handles a single event under the per-event timeout.
func (w *Worker) processEvent(ctx context.Context, event *domain.InboundEvent, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, w.eventTimeout)
	defer cancel()

	start := time.Now()
	w.events.HandleEvent(ctx, event)

	logger.Debug("event handled",
		"event_id", event.EventID,
		"duration", time.Since(start),
	)
}

// Health describes the worker state.
type Health struct {
	Running  bool `json:"running"`
	Queued   int  `json:"queued"`
	Capacity int  `json:"capacity"`
}

// Health returns the health status of the worker.
func (w *Worker) Health() Health {
	w.mu.RLock()
	defer w.mu.RUnlock()

	h := Health{Running: w.running, Capacity: w.queueSize}
	if w.running {
		h.Queued = len(w.queue)
	}
	return h
}

// HealthCheck reports an error when the worker cannot accept events.
func (w *Worker) HealthCheck(ctx context.Context) error {
	h := w.Health()
	if !h.Running {
		return ErrNotRunning
	}
	if h.Queued >= h.Capacity {
		return ErrQueueFull
	}
	return nil
}
