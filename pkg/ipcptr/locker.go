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

import "github.com/srediag/ipcptr/internal/shm"

// Locker brackets multi-step control-block or payload mutations with the
// segment's cross-process lock, so no other locking participant observes
// a half-updated state.
//
// Usage mirrors a scoped guard:
//
//	l := ipcptr.NewLocker(p)
//	defer l.Release()
//	// ... mutate *p.Get() ...
//
// The lock has no timeout and no reentrancy; taking it twice from one
// holder deadlocks against itself on some platforms and must be avoided.
// That includes Pointer.RefCount, which locks internally — do not call it
// while a Locker on the same Pointer is held.
type Locker struct {
	region *shm.Region
	locked bool
}

// NewLocker acquires the segment lock of p's region, blocking until
// available. With a nil or detached region the Locker is inert and
// Locked reports false.
func NewLocker[T any](p *Pointer[T]) *Locker {
	l := &Locker{region: p.Region()}
	if l.region != nil && l.region.IsAttached() {
		l.locked = l.region.Lock() == nil
	}
	return l
}

// Locked reports whether the Locker currently holds the lock.
func (l *Locker) Locked() bool { return l.locked }

// Unlock releases the lock early. It is idempotent: unlocking an already
// released Locker reports the underlying primitive's result without
// changing state further. Returns false when there is no region.
func (l *Locker) Unlock() bool {
	if l.region == nil {
		return false
	}
	l.locked = false
	return l.region.Unlock() == nil
}

// Relock re-acquires the lock only if it is not already held. Returns
// false when the lock is held, the region is absent, or the primitive
// fails.
func (l *Locker) Relock() bool {
	if l.region == nil || l.locked {
		return false
	}
	if l.region.Lock() != nil {
		return false
	}
	l.locked = true
	return true
}

// Release unlocks if still held; the defer-site counterpart of NewLocker.
func (l *Locker) Release() {
	if l.region != nil && l.locked {
		l.locked = false
		if err := l.region.Unlock(); err != nil {
			internalLogger.warnf("locker release: unlock failed: %v", err)
		}
	}
}
