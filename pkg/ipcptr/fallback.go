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
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// createOrAttachMaxRetries bounds the create/attach ping-pong; past this
// the last error is returned as-is.
const createOrAttachMaxRetries = 8

// CreateOrAttach is the canonical caller-side fallback strategy: try to
// create the segment, and on AlreadyExists attach to it instead. The
// window where a create loses the race and the winner destroys the
// segment before our attach lands surfaces as NotFound; that one case is
// retried with exponential backoff, since neither call failed for a
// lasting reason. All other failures are final — the core Create and
// Attach never retry anything on their own.
func CreateOrAttach[T any](ctx context.Context, key string, value T, opts ...Option[T]) (*Pointer[T], error) {
	var p *Pointer[T]
	op := func() error {
		var err error
		p, err = Create(ctx, key, value, opts...)
		if err == nil {
			return nil
		}
		if KindOf(err) != AlreadyExists {
			return backoff.Permanent(err)
		}
		p, err = Attach[T](ctx, key, opts...)
		if err == nil {
			return nil
		}
		if KindOf(err) == NotFound {
			// lost the race twice over; segment vanished between calls
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Millisecond
	bo.MaxInterval = 100 * time.Millisecond
	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(bo, createOrAttachMaxRetries), ctx))
	return p, err
}
