package guest

import (
	"github.com/devnullvm/guestraft/pkg/guestraft/codec"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// followerReceive dispatches an inbound message while the instance holds
// the follower role. This system runs no election, so a guest with both
// is_leader and is_candidate false is always a follower.
func (s *InstanceState) followerReceive(sender types.InstanceID, message interface{}) {
	switch m := message.(type) {
	case codec.AppendEntryRequest:
		s.followerHandleAppendEntryRequest(sender, m)
	default:
		s.logger.Warnf("follower %d got unexpected message %#v", s.id, message)
	}
}

func (s *InstanceState) followerHandleAppendEntryRequest(sender types.InstanceID, req codec.AppendEntryRequest) {
	// Step 1: stale term rejected outright, state unchanged.
	if req.Term < s.currentTerm {
		s.replyAppendEntry(sender, s.currentTerm, req.PrevLogIndex, false)
		return
	}

	// Step 2: adopt the leader's term and identity.
	s.currentTerm = req.Term
	if s.currentLeader != req.LeaderID {
		s.currentLeader = req.LeaderID
	}

	entryAtPrev := s.entryAt(req.PrevLogIndex)

	// Step 3: first empty heartbeat on an empty log.
	if req.PrevLogIndex == 0 && req.PrevLogTerm == 0 && len(req.Entries) == 0 && entryAtPrev == nil {
		s.replyAppendEntry(sender, s.currentTerm, 0, true)
		return
	}

	// Step 4: reject on a log gap or a conflicting term at prev_log_index.
	if req.PrevLogIndex > 0 {
		if entryAtPrev == nil || entryAtPrev.Term != req.PrevLogTerm {
			s.replyAppendEntry(sender, s.currentTerm, req.PrevLogIndex, false)
			return
		}
	}

	// Step 5: truncate on conflict at the append point.
	appendIndex := req.PrevLogIndex + 1
	if s.logged(appendIndex) {
		existing := s.entryAt(appendIndex)
		if len(req.Entries) == 0 {
			s.truncateAt(appendIndex)
		} else if existing.Term != req.Entries[0].Term {
			s.truncateAt(appendIndex)
		}
	}

	// Step 6: append.
	s.appendEntries(req.Entries)

	// Steps 7-8: advance commit_index and apply, or ack without applying.
	if req.LeaderCommit > s.commitIndex {
		s.commitIndex = min32(req.LeaderCommit, s.lastLogIndex())
		for s.lastApplied < s.commitIndex {
			s.lastApplied++
			s.applyAt(s.lastApplied)
		}
		s.replyAppendEntry(sender, s.currentTerm, s.lastLogIndex(), true)
		s.resetElectionTimer()
		return
	}

	s.replyAppendEntry(sender, s.currentTerm, s.lastLogIndex(), true)
}

func (s *InstanceState) replyAppendEntry(to types.InstanceID, term, logIndex int32, success bool) {
	s.send(to, codec.AppendEntryResponse{Term: term, LogIndex: logIndex, Success: success})
}

// resetElectionTimer is a no-op: election timers are declared but never
// armed in this system.
func (s *InstanceState) resetElectionTimer() {}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
