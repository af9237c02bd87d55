package guest

import (
	"github.com/devnullvm/guestraft/pkg/guestraft/codec"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// candidateReceive only logs inbound AppendEntryRequests; no election
// logic runs here. No code path in this system ever sets is_candidate,
// since leader election by timeout is out of scope; the role exists
// for completeness and for a future election implementation to hang
// off of.
func (s *InstanceState) candidateReceive(sender types.InstanceID, message interface{}) {
	switch req := message.(type) {
	case codec.AppendEntryRequest:
		s.logger.Debugf("candidate %d got AppendEntryRequest from %d: %+v", s.id, sender, req)
	default:
		s.logger.Debugf("candidate %d got unhandled message from %d: %#v", s.id, sender, message)
	}
}
