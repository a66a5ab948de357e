package threads

import (
	"sync"
	"sync/atomic"
)

// Queue is the shared FIFO of work item ids. Every access to items holds
// mu. Workers wait on nonEmpty, whose predicate is "items available or
// shutdown requested". The blocker waits on released, bound to the same
// mutex, whose predicate is "shutdown requested"; pushes never wake it.
type Queue struct {
	mu       sync.Mutex
	items    []int
	nonEmpty *sync.Cond
	released *sync.Cond
}

func newQueue() *Queue {
	q := &Queue{}
	q.nonEmpty = sync.NewCond(&q.mu)
	q.released = sync.NewCond(&q.mu)
	return q
}

// Push appends item and wakes one waiting worker.
func (q *Queue) Push(item int) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.nonEmpty.Signal()
}

// Pop removes the oldest item, waiting while the queue is empty and
// shutdown has not been requested. It returns false only when shutdown
// was requested and the queue is drained.
func (q *Queue) Pop(shutdown *atomic.Bool) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !shutdown.Load() {
		q.nonEmpty.Wait()
	}
	if len(q.items) == 0 {
		return 0, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// WaitShutdown blocks until shutdown is requested.
func (q *Queue) WaitShutdown(shutdown *atomic.Bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for !shutdown.Load() {
		q.released.Wait()
	}
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// reset drops every queued item.
func (q *Queue) reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// shutdown sets flag under the queue lock, so that no waiter can check
// the predicate and then miss the wake up, and wakes every waiter.
func (q *Queue) shutdown(flag *atomic.Bool) {
	q.mu.Lock()
	flag.Store(true)
	q.mu.Unlock()
	q.nonEmpty.Broadcast()
	q.released.Broadcast()
}
