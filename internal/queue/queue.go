// internal/queue/queue.go
// Package queue is the hand-off between the telemetry reader and the status
// dispatcher.
package queue

import "sync"

// DefaultCapacity bounds the queue when no capacity is configured.
const DefaultCapacity = 100

// Queue is a FIFO guarded by a mutex and a condition variable.
// A blocked Pop returns once an item arrives or the queue is cancelled.
// After Cancel, Pop never blocks again until Reset.
type Queue[T any] struct {
	mu        sync.Mutex
	cond      *sync.Cond
	items     []T
	capacity  int
	cancelled bool
}

// New returns a queue holding at most capacity items. 0 means unbounded.
func New[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		capacity = 0
	}
	q := &Queue[T]{capacity: capacity}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends v and wakes one waiter. When the queue is full the oldest
// item is discarded and dropped is true.
func (q *Queue[T]) Push(v T) (dropped bool) {
	q.mu.Lock()
	if q.capacity > 0 && len(q.items) >= q.capacity {
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		dropped = true
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.cond.Signal()
	return dropped
}

// Pop removes the oldest item, waiting for one if the queue is empty.
// ok is false when the queue was cancelled and is empty.
func (q *Queue[T]) Pop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.cancelled {
		q.cond.Wait()
	}
	if q.cancelled {
		return v, false
	}
	return q.take(), true
}

// TryPop removes the oldest item without waiting. Items left behind by a
// cancelled queue stay reachable here.
func (q *Queue[T]) TryPop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return v, false
	}
	return q.take(), true
}

// Cancel wakes every waiter. Repeated calls are no-ops.
func (q *Queue[T]) Cancel() {
	q.mu.Lock()
	q.cancelled = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

// Cancelled reports whether Cancel has been called since the last Reset.
func (q *Queue[T]) Cancelled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cancelled
}

// Reset drops queued items and re-arms a cancelled queue.
func (q *Queue[T]) Reset() {
	q.mu.Lock()
	q.items = nil
	q.cancelled = false
	q.mu.Unlock()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) take() T {
	v := q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return v
}
