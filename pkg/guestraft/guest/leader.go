package guest

import (
	"github.com/devnullvm/guestraft/pkg/guestraft/codec"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// leaderReceive dispatches an inbound message while the instance holds
// the leader role.
func (s *InstanceState) leaderReceive(sender types.InstanceID, message interface{}) {
	switch m := message.(type) {
	case codec.ClientEnqueueRequest:
		s.leaderHandleClientEnqueueRequest(m)
	case codec.AppendEntryResponse:
		s.leaderHandleAppendEntryResponse(sender, m)
	default:
		s.logger.Warnf("leader %d got unexpected message %#v", s.id, message)
	}
}

func (s *InstanceState) leaderHandleClientEnqueueRequest(req codec.ClientEnqueueRequest) {
	entry := types.LogEntry{
		Index:     s.lastLogIndex() + 1,
		Term:      s.currentTerm,
		Operation: types.Enqueue,
		Requester: req.ClientID,
		Arguments: req.Val,
	}

	appendReq := codec.AppendEntryRequest{
		Term:         s.currentTerm,
		LeaderID:     s.currentLeader,
		PrevLogIndex: s.lastLogIndex(),
		PrevLogTerm:  s.lastLogTerm(),
		Entries:      []types.LogEntry{entry},
		LeaderCommit: s.commitIndex,
	}

	s.log = append(s.log, entry)
	s.broadcastToOthers(appendReq)
}

// leaderHandleAppendEntryResponse counts acks toward a quorum and
// commits and applies entries once one is reached. The leader never
// inserts its own match_index entry, and last_applied advances by at
// most two steps per response.
func (s *InstanceState) leaderHandleAppendEntryResponse(sender types.InstanceID, res codec.AppendEntryResponse) {
	if res.Term > s.currentTerm {
		s.currentTerm = res.Term
		s.isLeader = false
		s.isCandidate = false
		return
	}

	if !res.Success {
		// TODO: retry a diverged follower by backing off next_index and
		// resending; a rejected AppendEntry is currently a dead end.
		return
	}

	s.nextIndex[sender] = res.LogIndex + 1
	s.matchIndex[sender] = res.LogIndex

	replicated := 0
	for _, idx := range s.matchIndex {
		if idx >= res.LogIndex {
			replicated++
		}
	}
	if replicated <= len(s.view)/2 {
		return
	}

	entry := s.entryAt(res.LogIndex)
	if entry == nil || entry.Term != s.currentTerm || entry.Index <= s.commitIndex {
		return
	}

	// Majority reached: the entry is durable at res.LogIndex. Committing
	// and applying are distinct steps; applying happens below.
	s.commitIndex = res.LogIndex

	if res.LogIndex <= s.lastApplied {
		return
	}

	s.lastApplied++
	result, ok := s.applyAt(s.lastApplied)
	if s.lastApplied < res.LogIndex {
		s.lastApplied++
		result, ok = s.applyAt(s.lastApplied)
	}

	if ok && result.Emit {
		resp := codec.ClientEnqueueResponse{
			Val:      result.Value,
			ClientID: result.ClientID,
			LogIndex: result.Entry.Index,
		}
		s.send(result.ClientID, resp)
	}
}
