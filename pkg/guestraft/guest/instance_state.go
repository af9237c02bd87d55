// Package guest implements the replication state machine every
// sandboxed instance runs: the leader/candidate/follower role handlers,
// log storage, commit/apply, and the typed exports a host bridge calls
// into.
package guest

import (
	"fmt"

	"github.com/devnullvm/guestraft/pkg/guestraft/codec"
	"github.com/devnullvm/guestraft/pkg/guestraft/core"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// DefaultView is the static set of peer ids participating in replication.
// Membership is fixed for the life of a cluster; there is no
// mechanism to add or remove a peer at runtime.
var DefaultView = []types.InstanceID{1, 2, 3}

// InstanceState is the process-wide singleton a single sandboxed guest
// keeps. The host never contends on it: at most one host call is ever
// in flight into a given guest.
type InstanceState struct {
	id            types.InstanceID
	view          []types.InstanceID
	currentLeader types.InstanceID

	// Declared, never armed: no election or heartbeat timer is ever
	// started.
	minElectionTimeout int
	maxElectionTimeout int
	electionTimer      int
	heartbeatTimeout   int
	heartbeatTimer     int

	currentTerm int32
	votedFor    types.InstanceID

	log []types.LogEntry

	commitIndex int32
	lastApplied int32

	isLeader    bool
	isCandidate bool

	nextIndex  map[types.InstanceID]int32
	matchIndex map[types.InstanceID]int32

	sm types.StateMachine

	memory  *GuestMemory
	imports core.HostImports
	logger  types.Logger
}

// NewInstanceState constructs a guest in the follower role with an
// empty log: view [1,2,3], current_leader 1, current_term 1, voted_for
// NoVote, commit_index 0, last_applied -1.
func NewInstanceState(imports core.HostImports, logger types.Logger) *InstanceState {
	return &InstanceState{
		id:            -1,
		view:          append([]types.InstanceID(nil), DefaultView...),
		currentLeader: 1,
		currentTerm:   1,
		votedFor:      types.NoVote,
		commitIndex:   0,
		lastApplied:   -1,
		nextIndex:     make(map[types.InstanceID]int32),
		matchIndex:    make(map[types.InstanceID]int32),
		sm:            types.NewQueueStateMachine(),
		memory:        NewGuestMemory(),
		imports:       imports,
		logger:        logger,
	}
}

var _ core.GuestInstance = (*InstanceState)(nil)

func (s *InstanceState) ID() types.InstanceID { return s.id }

// Start runs exactly once per instance, right after spawn. It assigns
// the instance its id and logs a hello line.
func (s *InstanceState) Start(id types.InstanceID) {
	s.id = id
	s.log2(fmt.Sprintf("hello from instance %d", id))
}

func (s *InstanceState) Allocate(size int) (int, error)    { return s.memory.Allocate(size) }
func (s *InstanceState) Deallocate(ptr, size int) error    { return s.memory.Deallocate(ptr, size) }
func (s *InstanceState) WriteMemory(ptr int, data []byte) error { return s.memory.Write(ptr, data) }
func (s *InstanceState) ReadMemory(ptr, length int) ([]byte, error) {
	return s.memory.Read(ptr, length)
}

// Receive decodes the bytes at [ptr, ptr+length) in the guest's own
// memory and dispatches by the instance's current role. A malformed
// payload is a codec error: logged and dropped, never propagated to
// the host.
func (s *InstanceState) Receive(sender types.InstanceID, ptr, length int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("instance %d aborted processing message from %d: %v", s.id, sender, r)
		}
	}()

	raw, err := s.memory.Read(ptr, length)
	if err != nil {
		s.logger.Errorf("instance %d receive bounds error: %v", s.id, err)
		return
	}

	message, err := codec.Decode(raw)
	if err != nil {
		s.logger.Errorf("instance %d failed decoding message from %d: %v", s.id, sender, err)
		return
	}

	switch {
	case s.isLeader:
		s.leaderReceive(sender, message)
	case s.isCandidate:
		s.candidateReceive(sender, message)
	default:
		s.followerReceive(sender, message)
	}
}

// ClientEnqueue forms a ClientEnqueueRequest and sends it to leaderID.
// Only ever called on the bootstrap client instance.
func (s *InstanceState) ClientEnqueue(val int32, leaderID, clientID types.InstanceID) {
	req := codec.ClientEnqueueRequest{Val: val, ClientID: clientID}
	s.log2(fmt.Sprintf("client %d enqueueing %d via leader %d", clientID, val, leaderID))
	s.send(leaderID, req)
}

// MakeLeaderHost sets is_leader; idempotent.
func (s *InstanceState) MakeLeaderHost() {
	s.isLeader = true
	s.isCandidate = false
}

func (s *InstanceState) log2(msg string) {
	ptr, err := s.memory.Allocate(len(msg))
	if err != nil {
		return
	}
	if err := s.memory.Write(ptr, []byte(msg)); err != nil {
		return
	}
	s.imports.LogStr(s, ptr, len(msg))
}

// send encodes message and hands it to the send_message import, staging
// the bytes in the guest's own memory first so the host only ever reads
// from within the guest's own linear memory.
func (s *InstanceState) send(target types.InstanceID, message interface{}) {
	data, err := codec.Encode(message)
	if err != nil {
		s.logger.Errorf("instance %d failed encoding message to %d: %v", s.id, target, err)
		return
	}
	ptr, err := s.memory.Allocate(len(data))
	if err != nil {
		return
	}
	if err := s.memory.Write(ptr, data); err != nil {
		return
	}
	s.imports.SendMessage(s, target, ptr, len(data))
}

func (s *InstanceState) broadcastToOthers(message interface{}) {
	for _, id := range s.view {
		if id != s.id {
			s.send(id, message)
		}
	}
}

func (s *InstanceState) lastLogIndex() int32 {
	if len(s.log) == 0 {
		return 0
	}
	return s.log[len(s.log)-1].Index
}

func (s *InstanceState) lastLogTerm() int32 {
	if len(s.log) == 0 {
		return 0
	}
	return s.log[len(s.log)-1].Term
}

// entryAt returns the log entry with the given 1-based index, or nil.
func (s *InstanceState) entryAt(index int32) *types.LogEntry {
	if index <= 0 || int(index) > len(s.log) {
		return nil
	}
	return &s.log[index-1]
}

func (s *InstanceState) logged(index int32) bool {
	return index > 0 && int(index) <= len(s.log)
}

// truncateAt discards every entry from index onward (1-based, inclusive).
func (s *InstanceState) truncateAt(index int32) {
	if index <= 0 || int(index) > len(s.log) {
		return
	}
	s.log = s.log[:index-1]
}

func (s *InstanceState) appendEntries(entries []types.LogEntry) {
	s.log = append(s.log, entries...)
}

// applyAt applies the entry at the given 1-based index and returns the
// ApplyResult, or false if the index is out of range.
func (s *InstanceState) applyAt(index int32) (types.ApplyResult, bool) {
	entry := s.entryAt(index)
	if entry == nil {
		return types.ApplyResult{}, false
	}
	result, err := s.sm.Apply(*entry)
	if err != nil {
		s.logger.Errorf("instance %d failed applying entry %d: %v", s.id, index, err)
		return types.ApplyResult{}, false
	}
	return result, true
}

// Queue exposes the current FIFO contents for tests and diagnostics.
func (s *InstanceState) Queue() []int32 { return s.sm.Queue() }

// Log exposes a copy of the current log for tests and diagnostics.
func (s *InstanceState) Log() []types.LogEntry {
	out := make([]types.LogEntry, len(s.log))
	copy(out, s.log)
	return out
}

func (s *InstanceState) CommitIndex() int32 { return s.commitIndex }
func (s *InstanceState) LastApplied() int32 { return s.lastApplied }
func (s *InstanceState) CurrentTerm() int32 { return s.currentTerm }
func (s *InstanceState) IsLeader() bool     { return s.isLeader }
func (s *InstanceState) IsCandidate() bool  { return s.isCandidate }
