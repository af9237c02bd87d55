package types

// ApplyResult is what applying a committed LogEntry against the
// replicated queue produces. Emit is true only for Enqueue entries:
// followers apply silently, and only a leader turns an Enqueue
// ApplyResult into a ClientEnqueueResponse.
type ApplyResult struct {
	Entry    LogEntry
	ClientID InstanceID
	Value    int32
	Emit     bool
}

// StateMachine is the replicated FIFO integer queue that every guest
// applies its committed log against. There is no durable storage, so
// the only implementation is in-memory.
type StateMachine interface {
	// Apply commits one LogEntry's operation against the queue.
	Apply(entry LogEntry) (ApplyResult, error)

	// Queue returns a snapshot of the current FIFO contents, oldest first.
	Queue() []int32
}

// QueueStateMachine is the in-memory FIFO used by every guest. It does
// not guard against concurrent access itself; InstanceState serializes
// all access the same way the host serializes calls into a guest.
type QueueStateMachine struct {
	queue []int32
}

func NewQueueStateMachine() *QueueStateMachine {
	return &QueueStateMachine{}
}

func (q *QueueStateMachine) Apply(entry LogEntry) (ApplyResult, error) {
	switch entry.Operation {
	case Enqueue:
		q.queue = append(q.queue, entry.Arguments)
		return ApplyResult{
			Entry:    entry,
			ClientID: entry.Requester,
			Value:    entry.Arguments,
			Emit:     true,
		}, nil
	case Dequeue:
		if len(q.queue) > 0 {
			q.queue = q.queue[1:]
		}
		return ApplyResult{Entry: entry}, nil
	case Nop:
		return ApplyResult{Entry: entry}, nil
	default:
		return ApplyResult{}, ErrUnknownOperation
	}
}

func (q *QueueStateMachine) Queue() []int32 {
	out := make([]int32, len(q.queue))
	copy(out, q.queue)
	return out
}
