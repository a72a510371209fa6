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

func TestCreateOrAttachFresh(t *testing.T) {
	ctx := context.Background()
	p, err := CreateOrAttach(ctx, testKey(), testPayload{A: 11})
	require.NoError(t, err)
	defer p.Clear()
	assert.True(t, p.IsOwner())
	assert.Equal(t, int64(11), p.Get().A)
}

func TestCreateOrAttachExisting(t *testing.T) {
	ctx := context.Background()
	key := testKey()
	owner, err := Create(ctx, key, testPayload{A: 1})
	require.NoError(t, err)
	defer owner.Clear()

	// the provided initial value loses to the existing one
	p, err := CreateOrAttach(ctx, key, testPayload{A: 99})
	require.NoError(t, err)
	defer p.Clear()
	assert.False(t, p.IsOwner())
	assert.Equal(t, int64(1), p.Get().A)
	assert.Equal(t, uint64(2), owner.RefCount())
}

func TestCreateOrAttachPermanentFailure(t *testing.T) {
	// an invalid key fails immediately, no retries
	p, err := CreateOrAttach(context.Background(), "bad/key", testPayload{})
	require.Error(t, err)
	assert.True(t, p == nil || p.IsNull())
}
