package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devnullvm/guestraft/pkg/guestraft/core"
)

func TestDevil_NextDelayMSWithinBounds(t *testing.T) {
	d := core.NewDevil(10*time.Millisecond, 5000*time.Millisecond)
	for i := 0; i < 1000; i++ {
		delay := d.NextDelayMS()
		require.GreaterOrEqual(t, delay, int64(10))
		require.LessOrEqual(t, delay, int64(5000))
	}
}

func TestDevil_FixedBoundsAreDeterministic(t *testing.T) {
	d := core.NewDevil(500*time.Millisecond, 500*time.Millisecond)
	require.Equal(t, int64(500), d.NextDelayMS())
	require.Equal(t, int64(500), d.NextDelayMS())
}
