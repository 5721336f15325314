package pipeline_test

import (
	"context"
	"testing"
	"time"

	"iconforge/internal/pipeline"
)

func TestQueueEnqueueDedup(t *testing.T) {
	q := pipeline.NewQueue(4, nil)
	req := pipeline.Request{Name: "webapp"}
	if !q.Enqueue(req) {
		t.Fatal("first enqueue rejected")
	}
	if q.Enqueue(req) {
		t.Fatal("duplicate enqueue accepted")
	}
	// Same name, different kind is a distinct request.
	if !q.Enqueue(pipeline.Request{Name: "webapp", Website: true}) {
		t.Fatal("distinct kind rejected")
	}
	if q.Len() != 2 {
		t.Fatalf("len = %d", q.Len())
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := pipeline.NewQueue(1, nil)
	if !q.Enqueue(pipeline.Request{Name: "a"}) {
		t.Fatal("enqueue rejected")
	}
	if q.Enqueue(pipeline.Request{Name: "b"}) {
		t.Fatal("expected drop when queue is full")
	}
	// The dropped request holds no dedup slot, so it can be retried later.
	req, err := q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	q.MarkDone(req)
	if !q.Enqueue(pipeline.Request{Name: "b"}) {
		t.Fatal("retry after drop rejected")
	}
}

func TestQueueMarkDoneAllowsRequeue(t *testing.T) {
	q := pipeline.NewQueue(4, nil)
	req := pipeline.Request{Name: "webapp"}
	if !q.Enqueue(req) {
		t.Fatal("enqueue rejected")
	}
	got, err := q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if got != req {
		t.Fatalf("dequeued %+v", got)
	}

	// Still in flight, so the dedup slot is held.
	if q.Enqueue(req) {
		t.Fatal("enqueue accepted while request in flight")
	}
	q.MarkDone(req)
	if !q.Enqueue(req) {
		t.Fatal("enqueue rejected after MarkDone")
	}
}

func TestQueueDequeueHonorsContext(t *testing.T) {
	q := pipeline.NewQueue(4, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := q.Dequeue(ctx); err == nil {
		t.Fatal("expected context error from empty queue")
	}
}
