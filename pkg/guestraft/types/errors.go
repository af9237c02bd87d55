package types

import "errors"

var (
	// ErrBridgeBounds is returned when a guest passes a ptr/len pair that
	// does not address a valid region of its own linear memory. Bridge
	// calls log and return a harmless sentinel on this error, they never
	// panic.
	ErrBridgeBounds = errors.New("guestraft: pointer/length out of bounds")

	// ErrCodec wraps any failure decoding an inbound event's bytes into a
	// typed message. Codec errors end the single guest call that
	// triggered them: the guest's Receive logs the error and drops the
	// event, and nothing is propagated to the scheduler.
	ErrCodec = errors.New("guestraft: malformed message payload")

	// ErrUnsupportedProtocol is returned by NewHost when the configured
	// protocol version is newer than this build can speak.
	ErrUnsupportedProtocol = errors.New("guestraft: protocol version not supported")

	// ErrUnknownTarget is logged by send_message when target_id does
	// not name a spawned instance. The call drops the message.
	ErrUnknownTarget = errors.New("guestraft: unknown target instance")

	// ErrUnknownOperation is returned by StateMachine.Apply for an
	// Operation value outside {Nop, Enqueue, Dequeue}.
	ErrUnknownOperation = errors.New("guestraft: unknown operation applied into state machine")

	// ErrOutOfMemory is the guest allocator's abort condition: allocate(n)
	// could not reserve n more bytes in the instance's linear memory.
	ErrOutOfMemory = errors.New("guestraft: guest allocator out of memory")

	// ErrMissingExport is logged when the host calls an optional export,
	// such as receive, that a guest handle does not provide. The event
	// that triggered the call is discarded.
	ErrMissingExport = errors.New("guestraft: guest export not present")
)
