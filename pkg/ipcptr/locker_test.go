/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:build linux || darwin

package ipcptr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockerGuardsMutation(t *testing.T) {
	ctx := context.Background()
	p, err := Create(ctx, testKey(), testPayload{})
	require.NoError(t, err)
	defer p.Clear()

	l := NewLocker(p)
	require.True(t, l.Locked())
	p.Get().A = 100
	l.Release()
	assert.False(t, l.Locked())

	// release after release is a no-op
	l.Release()

	a, err := Attach[testPayload](ctx, p.Key())
	require.NoError(t, err)
	defer a.Clear()
	assert.Equal(t, int64(100), a.Get().A)
}

func TestLockerUnlockRelock(t *testing.T) {
	ctx := context.Background()
	p, err := Create(ctx, testKey(), testPayload{})
	require.NoError(t, err)
	defer p.Clear()

	l := NewLocker(p)
	require.True(t, l.Locked())

	assert.True(t, l.Unlock())
	assert.False(t, l.Locked())
	// idempotent early unlock
	assert.True(t, l.Unlock())

	assert.True(t, l.Relock())
	assert.True(t, l.Locked())
	// relock while held refuses
	assert.False(t, l.Relock())

	l.Release()
}

func TestLockerOnInvalidPointer(t *testing.T) {
	p, _ := Attach[testPayload](context.Background(), testKey())
	l := NewLocker(p)
	assert.False(t, l.Locked())
	assert.False(t, l.Unlock())
	assert.False(t, l.Relock())
	l.Release()
}
