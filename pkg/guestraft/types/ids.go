package types

import "fmt"

// InstanceID identifies a single guest instance. Id 1 is always the
// initial leader; the highest id at bootstrap time is the client.
type InstanceID int32

// NoVote is the sentinel stored in InstanceState.VotedFor when the
// instance has not cast a vote for the current term.
const NoVote InstanceID = -1

func (i InstanceID) String() string {
	return fmt.Sprintf("instance-%d", int32(i))
}
