package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devnullvm/guestraft/pkg/guestraft/core"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// Two messages to the same target: the one with the smaller devil
// delay fires first even if it was enqueued second.
func TestMailbox_PopReadyOrdersByFireTime(t *testing.T) {
	mb := core.NewMailbox(1)

	mb.Send(types.RawMessageEvent(1500, 2, "", []byte("first-sent-later-fire")))
	mb.Send(types.RawMessageEvent(1010, 2, "", []byte("second-sent-earlier-fire")))
	mb.DrainToBuffer()

	ready := mb.PopReady(2000)
	require.Len(t, ready, 2)
	require.Equal(t, []byte("second-sent-earlier-fire"), ready[0].Message)
	require.Equal(t, []byte("first-sent-later-fire"), ready[1].Message)
}

func TestMailbox_PopReadyOnlyTakesDueEvents(t *testing.T) {
	mb := core.NewMailbox(1)
	mb.Send(types.RawMessageEvent(100, 2, "", []byte("due")))
	mb.Send(types.RawMessageEvent(9999, 2, "", []byte("not-due")))
	mb.DrainToBuffer()

	ready := mb.PopReady(500)
	require.Len(t, ready, 1)
	require.Equal(t, []byte("due"), ready[0].Message)
	require.Equal(t, 1, mb.Pending())
}

func TestMailbox_DrainToBufferIsNonBlockingAndRepeatable(t *testing.T) {
	mb := core.NewMailbox(1)
	mb.DrainToBuffer()
	require.Equal(t, 0, mb.Pending())

	mb.Send(types.RawMessageEvent(1, 2, "", nil))
	mb.DrainToBuffer()
	mb.DrainToBuffer()
	require.Equal(t, 1, mb.Pending())
}
