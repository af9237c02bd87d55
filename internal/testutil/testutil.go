// Package testutil holds fakes shared across guestraft's package-level
// tests: a recording HostImports and a quiet logger.
package testutil

import (
	"sync"

	"github.com/devnullvm/guestraft/pkg/guestraft/core"
	"github.com/devnullvm/guestraft/pkg/guestraft/definition"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// SentMessage is one call a guest made to SendMessage, captured whole.
type SentMessage struct {
	Target types.InstanceID
	Data   []byte
}

// FakeImports records every LogStr/SendMessage call a guest makes,
// without delivering anything anywhere. Tests on package guest use it to
// assert on what a role handler tried to send, without spinning up a
// host or a devil.
type FakeImports struct {
	mu   sync.Mutex
	Sent []SentMessage
	Logs []string
}

func NewFakeImports() *FakeImports {
	return &FakeImports{}
}

func (f *FakeImports) LogStr(caller core.GuestInstance, ptr, length int) {
	data, err := caller.ReadMemory(ptr, length)
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Logs = append(f.Logs, string(data))
}

func (f *FakeImports) SendMessage(caller core.GuestInstance, targetID types.InstanceID, ptr, length int) {
	data, err := caller.ReadMemory(ptr, length)
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, SentMessage{Target: targetID, Data: append([]byte(nil), data...)})
}

func (f *FakeImports) SentTo(target types.InstanceID) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SentMessage
	for _, m := range f.Sent {
		if m.Target == target {
			out = append(out, m)
		}
	}
	return out
}

// NewSilentLogger returns a Logger implementation that never prints,
// used so test output stays readable.
func NewSilentLogger() types.Logger {
	return definition.NewDiscardLogger()
}
