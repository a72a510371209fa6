//go:build windows

package shm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotSupportedOnWindows(t *testing.T) {
	_, err := CreateRegion("shmtest-stub", 64)
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = AttachRegion("shmtest-stub")
	require.ErrorIs(t, err, ErrNotSupported)

	var r Region
	require.ErrorIs(t, r.Lock(), ErrNotSupported)
	require.ErrorIs(t, r.Unlock(), ErrNotSupported)
	require.ErrorIs(t, r.Detach(), ErrNotSupported)
	require.ErrorIs(t, r.Unlink(), ErrNotSupported)
	require.False(t, r.IsAttached())
	require.Nil(t, r.Bytes())
}
