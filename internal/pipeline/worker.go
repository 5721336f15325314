package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"iconforge/internal/logging"
	"iconforge/internal/services"
)

const defaultErrorPause = time.Second

// Worker is the single consumer of the work queue. At most one pipeline
// execution is in flight system-wide; an item's dedup slot is released only
// after its run finishes, so re-enqueues during work collapse to one later
// execution.
type Worker struct {
	queue      *Queue
	executor   *Executor
	logger     *slog.Logger
	errorPause time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// WorkerOption customizes the worker.
type WorkerOption func(*Worker)

// WithErrorPause overrides the pause after an unexpected executor panic.
func WithErrorPause(pause time.Duration) WorkerOption {
	return func(w *Worker) {
		if pause > 0 {
			w.errorPause = pause
		}
	}
}

// NewWorker constructs a worker bound to the queue and executor.
func NewWorker(queue *Queue, executor *Executor, logger *slog.Logger, opts ...WorkerOption) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	w := &Worker{
		queue:      queue,
		executor:   executor,
		logger:     logger.With(logging.String(logging.FieldComponent, "icon-worker")),
		errorPause: defaultErrorPause,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the consumer goroutine. Starting an already running worker
// is a no-op; starting after Stop creates a fresh consumer bound to the same
// queue.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(runCtx, w.done)
	w.logger.Info("worker started")
}

// Stop cancels the consumer and waits for it to exit.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	done := w.done
	w.cancel = nil
	w.done = nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	w.logger.Info("worker stopped")
}

func (w *Worker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		req, err := w.queue.Dequeue(ctx)
		if err != nil {
			return
		}
		w.process(ctx, req)
	}
}

func (w *Worker) process(ctx context.Context, req Request) {
	defer w.queue.MarkDone(req)

	reqCtx := services.WithRequestID(ctx, uuid.NewString())
	reqCtx = services.WithItem(reqCtx, req.Name)
	reqCtx = services.WithItemKind(reqCtx, req.Kind())
	logger := logging.WithContext(reqCtx, w.logger)
	logger.Info("processing item")

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panicked", logging.Any("panic", r))
			// Pause briefly so a persistent fault cannot spin the loop hot.
			select {
			case <-ctx.Done():
			case <-time.After(w.errorPause):
			}
		}
	}()

	w.executor.Run(reqCtx, req)
}
