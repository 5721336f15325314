package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"iconforge/internal/logging"
	"iconforge/internal/state"
)

// Request identifies one unit of icon work.
type Request struct {
	Name    string
	Website bool
}

// Kind returns the item kind label for logging.
func (r Request) Kind() string {
	if r.Website {
		return state.KindWebsite
	}
	return state.KindProcess
}

// Queue is a bounded work queue that holds at most one live request per
// (name, kind) pair. Membership is tracked alongside the channel so repeated
// enqueues while an item is queued or in flight collapse to one execution.
type Queue struct {
	ch     chan Request
	logger *slog.Logger

	mu     sync.Mutex
	queued map[Request]struct{}
}

// NewQueue creates a queue with the given capacity.
func NewQueue(capacity int, logger *slog.Logger) *Queue {
	if capacity <= 0 {
		capacity = 64
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Queue{
		ch:     make(chan Request, capacity),
		logger: logger.With(logging.String(logging.FieldComponent, "icon-queue")),
		queued: make(map[Request]struct{}),
	}
}

// Enqueue adds a request without blocking. It reports whether the request was
// accepted; duplicates and a full queue are dropped.
func (q *Queue) Enqueue(req Request) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.queued[req]; ok {
		return false
	}
	select {
	case q.ch <- req:
		q.queued[req] = struct{}{}
		q.logger.Info("queued item",
			logging.String(logging.FieldItem, req.Name),
			logging.String(logging.FieldItemKind, req.Kind()))
		return true
	default:
		q.logger.Warn("queue full, dropping request",
			logging.String(logging.FieldItem, req.Name),
			logging.String(logging.FieldItemKind, req.Kind()))
		return false
	}
}

// Dequeue blocks until a request is available or the context ends.
func (q *Queue) Dequeue(ctx context.Context) (Request, error) {
	select {
	case <-ctx.Done():
		return Request{}, ctx.Err()
	case req := <-q.ch:
		return req, nil
	}
}

// MarkDone releases the request's dedup slot so the item can be queued again.
// It must be called exactly once per dequeued request, whether the work
// succeeded or failed.
func (q *Queue) MarkDone(req Request) {
	q.mu.Lock()
	delete(q.queued, req)
	q.mu.Unlock()
}

// Len returns the number of requests currently queued or in flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queued)
}
