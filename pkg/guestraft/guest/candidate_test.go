package guest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devnullvm/guestraft/internal/testutil"
	"github.com/devnullvm/guestraft/pkg/guestraft/codec"
)

// A candidate never exists in this system - election by timeout is out
// of scope - but candidateReceive still must not panic or send
// anything if a stray AppendEntryRequest reaches one. This is a
// white-box test since nothing outside the package can force
// is_candidate true.
func TestCandidateReceive_LogsWithoutReplying(t *testing.T) {
	imports := testutil.NewFakeImports()
	s := NewInstanceState(imports, testutil.NewSilentLogger())
	s.Start(5)
	s.isCandidate = true

	s.candidateReceive(1, codec.AppendEntryRequest{Term: 1, LeaderID: 1})
	require.Empty(t, imports.Sent)

	s.candidateReceive(1, codec.ClientEnqueueRequest{Val: 1, ClientID: 4})
	require.Empty(t, imports.Sent)
}
