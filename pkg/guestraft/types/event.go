package types

// EventKind distinguishes the two variants of a ScheduledEvent. Timer
// events are accepted by the buffer and the heap but carry no handler:
// election and heartbeat timers are declared, never armed.
type EventKind int

const (
	EventRawMessage EventKind = iota
	EventTimer
)

// ScheduledEvent is what travels through a mailbox: a devil-stamped
// delivery time, the sender for replies, and a tagged payload. Ordering
// is defined on FireTimeMS alone; two events with the same fire time
// are interchangeable for scheduling.
type ScheduledEvent struct {
	FireTimeMS int64
	SenderID   InstanceID
	TraceID    string
	Kind       EventKind

	// Message holds the raw bytes for EventRawMessage.
	Message []byte

	// TimerName holds the name for EventTimer.
	TimerName string
}

func RawMessageEvent(fireTimeMS int64, sender InstanceID, traceID string, message []byte) ScheduledEvent {
	return ScheduledEvent{
		FireTimeMS: fireTimeMS,
		SenderID:   sender,
		TraceID:    traceID,
		Kind:       EventRawMessage,
		Message:    message,
	}
}
