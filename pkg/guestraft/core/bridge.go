// Package core holds the host-facing primitives shared by every guest
// implementation and by the host scheduler: the devil network, the
// per-instance mailbox, and the bridge contract between them. It
// deliberately has no dependency on package guest or package host so
// both can depend on it without a cycle.
package core

import "github.com/devnullvm/guestraft/pkg/guestraft/types"

// GuestInstance is the operations a host needs from a sandboxed guest:
// its typed exports plus the linear-memory primitives a real sandbox
// would expose (memory_read/memory_write). The host never reaches into
// a guest's memory directly; every byte crosses through these methods.
type GuestInstance interface {
	// ID returns the instance's own id, as get_instance() would.
	ID() types.InstanceID

	// Start runs the guest's init exactly once, right after spawn.
	Start(id types.InstanceID)

	// Allocate reserves size writable bytes in the guest's linear memory
	// and returns a pointer to them. It aborts the guest (panics) on
	// out-of-memory.
	Allocate(size int) (ptr int, err error)

	// Deallocate releases a prior Allocate'd region. size must match the
	// original Allocate call.
	Deallocate(ptr, size int) error

	// WriteMemory and ReadMemory are bounds-checked accessors into the
	// guest's own linear memory, used by the host to place inbound bytes
	// before calling Receive, and by the guest to stage outbound bytes
	// before calling SendMessage.
	WriteMemory(ptr int, data []byte) error
	ReadMemory(ptr, length int) ([]byte, error)

	// ClientEnqueue and MakeLeaderHost are the two bootstrap-only
	// exports the host calls during the startup protocol.
	ClientEnqueue(val int32, leaderID, clientID types.InstanceID)
	MakeLeaderHost()
}

// MessageReceiver is the receive export a guest may provide to accept
// inbound messages. It is kept separate from GuestInstance because a
// guest handle is allowed to omit it: the scheduler checks for it at
// delivery time and logs a diagnostic instead of delivering when it is
// absent, rather than requiring every guest type to implement it.
type MessageReceiver interface {
	// Receive delivers one decoded-as-bytes message, already placed in
	// the guest's memory at [ptr, ptr+length).
	Receive(sender types.InstanceID, ptr, length int)
}

// HostImports is the set of functions a guest can call back into the
// host with. A GuestInstance holds one of these, supplied at spawn
// time, the way a wasmtime Linker supplies imports to an instantiated
// module.
type HostImports interface {
	// LogStr reads caller's memory [ptr, ptr+length) and emits one line
	// to the operator log. Out-of-bounds is logged, not fatal.
	LogStr(caller GuestInstance, ptr, length int)

	// SendMessage copies length bytes from caller's memory, stamps them
	// with a devil-delayed fire time, and enqueues them on targetID's
	// mailbox. A missing targetID is logged and dropped.
	SendMessage(caller GuestInstance, targetID types.InstanceID, ptr, length int)
}
