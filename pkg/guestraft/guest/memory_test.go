package guest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

func TestGuestMemory_AllocateWriteRead(t *testing.T) {
	m := NewGuestMemory()
	ptr, err := m.Allocate(5)
	require.NoError(t, err)

	require.NoError(t, m.Write(ptr, []byte("hello")))
	data, err := m.Read(ptr, 5)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)
}

func TestGuestMemory_ReadOutOfBoundsIsReportedNotPanicked(t *testing.T) {
	m := NewGuestMemory()
	ptr, err := m.Allocate(4)
	require.NoError(t, err)

	_, err = m.Read(ptr, 100)
	require.ErrorIs(t, err, types.ErrBridgeBounds)
}

func TestGuestMemory_DeallocateOutOfRangeIsReported(t *testing.T) {
	m := NewGuestMemory()
	err := m.Deallocate(0, 16)
	require.ErrorIs(t, err, types.ErrBridgeBounds)
}

func TestGuestMemory_AllocateOutOfMemoryPanics(t *testing.T) {
	m := NewGuestMemory()
	require.PanicsWithValue(t, types.ErrOutOfMemory, func() {
		_, _ = m.Allocate(maxMemory + 1)
	})
}
