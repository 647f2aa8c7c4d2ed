// internal/queue/queue_test.go
package queue

import (
	"sync"
	"testing"
	"time"
)

func TestQueue_FIFO(t *testing.T) {
	q := New[int](0)
	for i := 1; i <= 3; i++ {
		q.Push(i)
	}

	for want := 1; want <= 3; want++ {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Fatalf("expected %d, got %d (ok=%v)", want, got, ok)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Fatalf("expected empty queue")
	}
}

func TestQueue_DropsOldestWhenFull(t *testing.T) {
	q := New[int](2)

	if q.Push(1) || q.Push(2) {
		t.Fatalf("no drop expected below capacity")
	}
	if !q.Push(3) {
		t.Fatalf("expected drop at capacity")
	}
	if q.Len() != 2 {
		t.Fatalf("expected len 2, got %d", q.Len())
	}

	a, _ := q.TryPop()
	b, _ := q.TryPop()
	if a != 2 || b != 3 {
		t.Fatalf("expected [2 3], got [%d %d]", a, b)
	}
}

func TestQueue_PopWakesOnPush(t *testing.T) {
	q := New[string](DefaultCapacity)

	got := make(chan string, 1)
	go func() {
		v, _ := q.Pop()
		got <- v
	}()

	time.Sleep(20 * time.Millisecond)
	q.Push("status")

	select {
	case v := <-got:
		if v != "status" {
			t.Fatalf("unexpected item %q", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("blocked Pop was not woken by Push")
	}
}

func TestQueue_CancelWakesAllWaiters(t *testing.T) {
	q := New[int](0)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := q.Pop(); ok {
				t.Errorf("Pop after cancel must report !ok")
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.Cancel()
	q.Cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("waiters were not released by Cancel")
	}
}

func TestQueue_DrainAfterCancel(t *testing.T) {
	q := New[int](0)
	q.Push(7)
	q.Push(8)
	q.Cancel()

	// blocking pop never suspends once cancelled
	if _, ok := q.Pop(); ok {
		t.Fatalf("Pop must report cancellation")
	}

	a, ok1 := q.TryPop()
	b, ok2 := q.TryPop()
	if !ok1 || !ok2 || a != 7 || b != 8 {
		t.Fatalf("queued items must stay reachable, got %d/%v %d/%v", a, ok1, b, ok2)
	}
}

func TestQueue_Reset(t *testing.T) {
	q := New[int](0)
	q.Push(1)
	q.Cancel()
	q.Reset()

	if q.Cancelled() || q.Len() != 0 {
		t.Fatalf("reset must re-arm and clear the queue")
	}

	q.Push(2)
	if v, ok := q.Pop(); !ok || v != 2 {
		t.Fatalf("expected 2 after reset, got %d/%v", v, ok)
	}
}
