package host

import (
	"github.com/devnullvm/guestraft/pkg/guestraft/core"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// instanceRecord is the host-side bookkeeping for one spawned guest:
// the sandbox handle itself plus the mailbox the scheduler sweeps on
// its behalf.
type instanceRecord struct {
	Instance core.GuestInstance
	Mailbox  *core.Mailbox
}

func newInstanceRecord(id types.InstanceID, instance core.GuestInstance) *instanceRecord {
	return &instanceRecord{
		Instance: instance,
		Mailbox:  core.NewMailbox(id),
	}
}
