package core

import (
	"container/heap"
	"sync"

	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// unboundedQueue is the producer side of a mailbox: one producer (the
// bridge, possibly reentrant from the scheduler thread), one consumer
// (the scheduler). A real channel would need an arbitrary buffer size to
// never block the producer, so this is the mutex-guarded FIFO the design
// notes call for instead.
type unboundedQueue struct {
	mu    sync.Mutex
	items []types.ScheduledEvent
}

func (q *unboundedQueue) send(e types.ScheduledEvent) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.mu.Unlock()
}

// drainAll removes and returns every pending item without blocking.
func (q *unboundedQueue) drainAll() []types.ScheduledEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	drained := q.items
	q.items = nil
	return drained
}

// eventHeap is a min-heap on FireTimeMS, the binary heap the design
// notes call for in place of a full priority-buffer abstraction.
type eventHeap []types.ScheduledEvent

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return h[i].FireTimeMS < h[j].FireTimeMS }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) { *h = append(*h, x.(types.ScheduledEvent)) }
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Mailbox is the per-instance record of pending inbound events: the
// unbounded sender/receiver pair plus the deadline-ordered buffer.
// Send is safe to call concurrently with the scheduler's drain step;
// DrainToBuffer and PopReady are only ever called from the scheduler
// thread and need no locking of their own.
type Mailbox struct {
	TargetID types.InstanceID

	queue  unboundedQueue
	buffer eventHeap
}

func NewMailbox(id types.InstanceID) *Mailbox {
	m := &Mailbox{TargetID: id}
	heap.Init(&m.buffer)
	return m
}

// Send enqueues an event for later delivery. Never blocks.
func (m *Mailbox) Send(e types.ScheduledEvent) {
	m.queue.send(e)
}

// DrainToBuffer moves every event currently available on the queue into
// the deadline-ordered heap. Called once per instance per sweep, before
// any event from that sweep is popped.
func (m *Mailbox) DrainToBuffer() {
	for _, e := range m.queue.drainAll() {
		heap.Push(&m.buffer, e)
	}
}

// PopReady pops every event whose FireTimeMS is at most now, in
// increasing FireTimeMS order. The heap invariant guarantees this
// without an explicit sort.
func (m *Mailbox) PopReady(nowMS int64) []types.ScheduledEvent {
	var ready []types.ScheduledEvent
	for m.buffer.Len() > 0 && m.buffer[0].FireTimeMS <= nowMS {
		ready = append(ready, heap.Pop(&m.buffer).(types.ScheduledEvent))
	}
	return ready
}

// Pending reports how many events are waiting in the heap, for tests and
// diagnostics.
func (m *Mailbox) Pending() int {
	return m.buffer.Len()
}
