package throttle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{TotalNPerSec: 0, TotalBurst: 1, EachNPerSec: 1, EachBurst: 1})
	require.Error(t, err)

	_, err = New(Config{TotalNPerSec: 5, TotalBurst: 1, EachNPerSec: 1, EachBurst: 1})
	require.Error(t, err)
}

func TestAllowPerKey(t *testing.T) {
	th, err := New(Config{TotalNPerSec: 100, TotalBurst: 100, EachNPerSec: 1, EachBurst: 2})
	require.NoError(t, err)

	require.True(t, th.Allow("alice"))
	require.True(t, th.Allow("alice"))
	require.False(t, th.Allow("alice"))

	// other callers keep their own budget
	require.True(t, th.Allow("bob"))
}

func TestAllowTotal(t *testing.T) {
	th, err := New(Config{TotalNPerSec: 1, TotalBurst: 2, EachNPerSec: 10, EachBurst: 10})
	require.NoError(t, err)

	require.True(t, th.Allow("a"))
	require.True(t, th.Allow("b"))
	require.False(t, th.Allow("c"))
}
