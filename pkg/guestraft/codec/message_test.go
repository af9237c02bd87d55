package codec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devnullvm/guestraft/pkg/guestraft/codec"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := []interface{}{
		codec.ClientEnqueueRequest{Val: 111, ClientID: 4},
		codec.ClientEnqueueResponse{Val: 111, ClientID: 4, LogIndex: 1},
		codec.AppendEntryRequest{
			Term:         1,
			LeaderID:     1,
			PrevLogIndex: 0,
			PrevLogTerm:  0,
			Entries: []types.LogEntry{
				{Index: 1, Term: 1, Operation: types.Enqueue, Requester: 4, Arguments: 111},
			},
			LeaderCommit: 0,
		},
		codec.AppendEntryResponse{Term: 1, LogIndex: 1, Success: true},
		types.LogEntry{Index: 1, Term: 1, Operation: types.Dequeue, Requester: 2},
	}

	for _, want := range cases {
		data, err := codec.Encode(want)
		require.NoError(t, err)

		got, err := codec.Decode(data)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDecode_MalformedPayloadIsCodecError(t *testing.T) {
	_, err := codec.Decode([]byte("not json"))
	require.ErrorIs(t, err, types.ErrCodec)
}

func TestDecode_UnknownKindIsCodecError(t *testing.T) {
	_, err := codec.Decode([]byte(`{"kind":"Mystery","payload":{}}`))
	require.ErrorIs(t, err, types.ErrCodec)
}

func TestEncode_UnsupportedTypePanics(t *testing.T) {
	require.Panics(t, func() {
		_, _ = codec.Encode(42)
	})
}
