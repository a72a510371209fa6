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

package ipcptr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srediag/ipcptr/internal/shm"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{nil, NoError},
		{shm.ErrAlreadyExists, AlreadyExists},
		{fmt.Errorf("create %q: %w", "k", shm.ErrAlreadyExists), AlreadyExists},
		{shm.ErrNotFound, NotFound},
		{shm.ErrPermissionDenied, PermissionDenied},
		{fmt.Errorf("%w: no space", shm.ErrSystemLimit), SystemLimit},
		{fmt.Errorf("%w: 8 vs 32", ErrInvalidSize), InvalidSize},
		{errors.New("somewhere else"), UnknownError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, KindOf(c.err), "err=%v", c.err)
	}
}

func TestKindString(t *testing.T) {
	kinds := []Kind{NoError, AlreadyExists, NotFound, PermissionDenied, SystemLimit, InvalidSize, UnknownError}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		assert.NotEmpty(t, s)
		assert.False(t, seen[s], "duplicate string %q", s)
		seen[s] = true
	}
}

func TestBlockSizeCoversHeaderAndPayload(t *testing.T) {
	type wide struct {
		V [64]byte
	}
	assert.GreaterOrEqual(t, blockSize[wide](), 64+8)
	assert.Greater(t, blockSize[testPayloadSmall](), 0)
}

type testPayloadSmall struct{ N uint32 }
