package guest

import (
	"fmt"

	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// maxMemory caps a guest's linear memory. The allocator is bump-style
// and never reclaims space (Deallocate only validates bounds), so a cap
// is what turns a leaked allocation into an abort instead of unbounded
// growth.
const maxMemory = 4 << 20 // 4 MiB

// GuestMemory is the linear byte-addressable memory backing one guest
// instance. allocate is a pure bump pointer: 1-byte aligned, never
// reused, valid until a matching Deallocate call.
type GuestMemory struct {
	buf  []byte
	next int
}

func NewGuestMemory() *GuestMemory {
	return &GuestMemory{buf: make([]byte, 0, 4096)}
}

// Allocate reserves size writable bytes and returns a pointer to them.
// Panics with ErrOutOfMemory on out-of-memory. Receive recovers a panic
// raised while it handles a message; the host's deliver, which calls
// Allocate before Receive, does not recover.
func (m *GuestMemory) Allocate(size int) (int, error) {
	if size < 0 {
		return 0, fmt.Errorf("%w: negative size %d", types.ErrBridgeBounds, size)
	}
	if m.next+size > maxMemory {
		panic(types.ErrOutOfMemory)
	}
	ptr := m.next
	if ptr+size > len(m.buf) {
		grown := make([]byte, ptr+size)
		copy(grown, m.buf)
		m.buf = grown
	}
	m.next += size
	return ptr, nil
}

// Deallocate validates that [ptr, ptr+size) was a previously allocated
// region. A bump allocator never actually reclaims it.
func (m *GuestMemory) Deallocate(ptr, size int) error {
	if ptr < 0 || size < 0 || ptr+size > m.next {
		return fmt.Errorf("%w: deallocate(%d, %d) outside allocated range", types.ErrBridgeBounds, ptr, size)
	}
	return nil
}

// Write copies data into [ptr, ptr+len(data)), bounds-checked against
// what has been allocated.
func (m *GuestMemory) Write(ptr int, data []byte) error {
	if ptr < 0 || ptr+len(data) > m.next {
		return fmt.Errorf("%w: write(%d, %d bytes) outside allocated range", types.ErrBridgeBounds, ptr, len(data))
	}
	copy(m.buf[ptr:ptr+len(data)], data)
	return nil
}

// Read returns a copy of [ptr, ptr+length). Out-of-bounds is reported,
// never panics; callers (log_str, send_message) log and return.
func (m *GuestMemory) Read(ptr, length int) ([]byte, error) {
	if ptr < 0 || length < 0 || ptr+length > m.next {
		return nil, fmt.Errorf("%w: read(%d, %d) outside allocated range", types.ErrBridgeBounds, ptr, length)
	}
	out := make([]byte, length)
	copy(out, m.buf[ptr:ptr+length])
	return out, nil
}
