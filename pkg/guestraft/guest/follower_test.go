package guest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devnullvm/guestraft/pkg/guestraft/codec"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// Step 3: the very first heartbeat on an empty log acks success without
// touching the log.
func TestFollower_FirstHeartbeatAcksSuccess(t *testing.T) {
	s, imports := newInstance(t)
	s.Start(2)

	deliver(t, s, 1, codec.AppendEntryRequest{
		Term: 1, LeaderID: 1, PrevLogIndex: 0, PrevLogTerm: 0,
		Entries: nil, LeaderCommit: 0,
	})

	require.Empty(t, s.Log())
	sent := imports.SentTo(1)
	require.Len(t, sent, 1)
	decoded, err := codec.Decode(sent[0].Data)
	require.NoError(t, err)
	resp := decoded.(codec.AppendEntryResponse)
	require.True(t, resp.Success)
	require.EqualValues(t, 1, resp.Term)
}

// Step 1: a request carrying a stale term is rejected outright and the
// follower's own term is left untouched.
func TestFollower_RejectsStaleTerm(t *testing.T) {
	s, imports := newInstance(t)
	s.Start(2)

	deliver(t, s, 1, codec.AppendEntryRequest{
		Term: 1, LeaderID: 1, PrevLogIndex: 0, PrevLogTerm: 0, LeaderCommit: 0,
	})
	deliver(t, s, 3, codec.AppendEntryRequest{
		Term: 0, LeaderID: 3, PrevLogIndex: 0, PrevLogTerm: 0, LeaderCommit: 0,
	})

	require.EqualValues(t, 1, s.CurrentTerm())
	sent := imports.SentTo(3)
	require.Len(t, sent, 1)
	decoded, err := codec.Decode(sent[0].Data)
	require.NoError(t, err)
	resp := decoded.(codec.AppendEntryResponse)
	require.False(t, resp.Success)
	require.EqualValues(t, 1, resp.Term)
}

// Steps 4-6: a gap at prev_log_index is rejected; a later request from
// a higher-term leader with a conflicting entry at the append point
// truncates the old entry before the new one is appended.
func TestFollower_RejectsGapThenTruncatesConflict(t *testing.T) {
	s, imports := newInstance(t)
	s.Start(2)

	entryA := types.LogEntry{Index: 1, Term: 1, Operation: types.Enqueue, Requester: 4, Arguments: 1}
	deliver(t, s, 1, codec.AppendEntryRequest{
		Term: 1, LeaderID: 1, PrevLogIndex: 0, PrevLogTerm: 0,
		Entries: []types.LogEntry{entryA}, LeaderCommit: 0,
	})
	require.Equal(t, []types.LogEntry{entryA}, s.Log())

	// Gap: prev_log_index 2 has no entry at index 2 yet.
	deliver(t, s, 1, codec.AppendEntryRequest{
		Term: 1, LeaderID: 1, PrevLogIndex: 2, PrevLogTerm: 1,
		Entries: nil, LeaderCommit: 0,
	})
	gapResp := imports.SentTo(1)
	decoded, err := codec.Decode(gapResp[len(gapResp)-1].Data)
	require.NoError(t, err)
	require.False(t, decoded.(codec.AppendEntryResponse).Success)
	require.Len(t, s.Log(), 1, "a rejected gap must not mutate the log")

	// A new leader in term 2 overwrites entry 1 with a different entry.
	entryB := types.LogEntry{Index: 1, Term: 2, Operation: types.Enqueue, Requester: 5, Arguments: 2}
	deliver(t, s, 6, codec.AppendEntryRequest{
		Term: 2, LeaderID: 6, PrevLogIndex: 0, PrevLogTerm: 0,
		Entries: []types.LogEntry{entryB}, LeaderCommit: 0,
	})

	require.Equal(t, []types.LogEntry{entryB}, s.Log())
	require.EqualValues(t, 2, s.CurrentTerm())
}

// Steps 7-8: leader_commit advancing past commit_index applies the newly
// committed entry and acks with the new last log index.
func TestFollower_AdvancingCommitAppliesOneEntry(t *testing.T) {
	s, imports := newInstance(t)
	s.Start(2)

	entry := types.LogEntry{Index: 1, Term: 1, Operation: types.Enqueue, Requester: 4, Arguments: 111}
	deliver(t, s, 1, codec.AppendEntryRequest{
		Term: 1, LeaderID: 1, PrevLogIndex: 0, PrevLogTerm: 0,
		Entries: []types.LogEntry{entry}, LeaderCommit: 1,
	})

	require.EqualValues(t, 1, s.CommitIndex())
	require.EqualValues(t, 1, s.LastApplied())
	require.Equal(t, []int32{111}, s.Queue())

	sent := imports.SentTo(1)
	last := sent[len(sent)-1]
	decoded, err := codec.Decode(last.Data)
	require.NoError(t, err)
	resp := decoded.(codec.AppendEntryResponse)
	require.True(t, resp.Success)
	require.EqualValues(t, 1, resp.LogIndex)
}
