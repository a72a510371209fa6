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
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/srediag/ipcptr/internal/shm"
)

// Pointer is one process's handle onto a shared singleton value of type T
// living in a named shared memory segment. Every Pointer owns its own OS
// attachment; Pointers are never shared between goroutines or duplicated
// by assignment — use Clone for a second handle.
//
// A failed Create or Attach still returns a non-nil Pointer so callers
// can inspect Err, Kind and ErrorString; the Pointer is invalid and all
// payload accessors return zero values.
type Pointer[T any] struct {
	region  *shm.Region
	block   *controlBlock[T]
	key     string
	isOwner bool
	err     error
	opts    options[T]
	closed  bool
	// registered tracks whether this handle entered the process-local
	// attachment registry; a failed attach holds a mapping without ever
	// registering and must not unregister on close.
	registered bool
}

// teardownRole is the exhaustive state the close protocol switches over.
// Keeping it a single tagged value makes the three behaviors reviewable
// in one place instead of two interacting booleans.
type teardownRole int

const (
	// rolePlain: non-owner, ownership never dropped. Touches nothing in
	// the control block.
	rolePlain teardownRole = iota
	// roleOwner: creator that never dropped ownership. Destroys the
	// payload unconditionally on close.
	roleOwner
	// roleCooperative: ownership was dropped; destroys only as the last
	// handle out, by refcount.
	roleCooperative
)

// Create creates the segment named key sized for T's control block and
// constructs the shared value in place from value. The caller becomes the
// owner. No lock is taken: segment creation is atomic create-or-fail, so
// no attacher can exist before Create returns.
//
// If a segment named key already exists, Create fails with AlreadyExists
// and never retries; callers wanting create-else-attach semantics use
// CreateOrAttach.
func Create[T any](ctx context.Context, key string, value T, opts ...Option[T]) (*Pointer[T], error) {
	p := &Pointer[T]{key: key, opts: resolveOptions(opts)}
	if p.opts.tracer != nil {
		var span trace.Span
		ctx, span = p.opts.tracer.Start(ctx, "ipcptr.Create")
		defer span.End()
	}

	region, err := shm.CreateRegion(key, blockSize[T]())
	if err != nil {
		p.err = err
		failuresTotal.Inc()
		internalLogger.debugf("create %q failed: %v", key, err)
		return p, err
	}

	p.region = region
	p.isOwner = true
	p.block = viewBlock[T](region.Bytes())
	p.block.owned = true
	p.block.refcount = 1
	p.block.payload = value

	registerAttachment(key)
	p.registered = true
	createsTotal.Inc()
	p.opts.count(ctx, "ipcptr.creates")
	internalLogger.debugf("created segment %q, %d bytes", key, region.Size())
	return p, nil
}

// Attach joins the existing segment named key as a non-owner, bumping the
// shared refcount under the region lock. A segment smaller than T's
// control block fails with the pointer-local InvalidSize override: the OS
// attach itself succeeded, so the mapping is kept until Close, but the
// Pointer is invalid and its error reports both byte counts.
func Attach[T any](ctx context.Context, key string, opts ...Option[T]) (*Pointer[T], error) {
	p := &Pointer[T]{key: key, opts: resolveOptions(opts)}
	if p.opts.tracer != nil {
		var span trace.Span
		ctx, span = p.opts.tracer.Start(ctx, "ipcptr.Attach")
		defer span.End()
	}

	region, err := shm.AttachRegion(key)
	if err != nil {
		p.err = err
		failuresTotal.Inc()
		internalLogger.debugf("attach %q failed: %v", key, err)
		return p, err
	}
	p.region = region

	if need := blockSize[T](); region.Size() < need {
		p.err = fmt.Errorf("%w: segment %q provides %d bytes, the payload type (plus metadata) needs %d bytes",
			ErrInvalidSize, key, region.Size(), need)
		failuresTotal.Inc()
		internalLogger.warnf("attach %q: %v", key, p.err)
		return p, p.err
	}

	if err := region.Lock(); err != nil {
		internalLogger.warnf("attach %q: lock failed: %v", key, err)
	}
	p.block = viewBlock[T](region.Bytes())
	p.block.refcount++
	if err := region.Unlock(); err != nil {
		internalLogger.warnf("attach %q: unlock failed: %v", key, err)
	}

	registerAttachment(key)
	p.registered = true
	attachesTotal.Inc()
	p.opts.count(ctx, "ipcptr.attaches")
	internalLogger.debugf("attached segment %q, refcount now %d", key, p.block.refcount)
	return p, nil
}

// Clone opens a fresh, structurally independent attachment to the same
// segment. It is deliberately not an in-process copy: the clone runs its
// own lock/increment on attach and its own decrement/detach on close, so
// one attach/detach pair exists per handle. Cloning an invalid Pointer
// yields an invalid Pointer and ErrInvalidPointer.
func (p *Pointer[T]) Clone(ctx context.Context) (*Pointer[T], error) {
	if !p.IsValid() {
		return &Pointer[T]{err: ErrInvalidPointer}, ErrInvalidPointer
	}
	return Attach[T](ctx, p.key, optionSlice(p.opts)...)
}

// DropOwnership hands destruction responsibility from the owner to the
// collective of attached handles: under the region lock the shared owned
// flag flips false, then the local owner flag clears. From that point the
// payload is destroyed by whichever handle decrements the refcount to
// zero. Calling it on a non-owner, or twice, is a no-op.
func (p *Pointer[T]) DropOwnership() {
	if !p.isOwner || p.block == nil {
		return
	}
	if err := p.region.Lock(); err != nil {
		internalLogger.warnf("drop ownership %q: lock failed: %v", p.key, err)
	}
	p.block.owned = false
	p.isOwner = false
	if err := p.region.Unlock(); err != nil {
		internalLogger.warnf("drop ownership %q: unlock failed: %v", p.key, err)
	}
	internalLogger.debugf("segment %q ownership dropped", p.key)
}

// Close releases this handle: it runs the teardown protocol on the
// control block, detaches the OS mapping, and leaves the Pointer invalid.
// Close is idempotent and is the ordinary end of a Pointer's life.
//
// An owner that never called DropOwnership destroys the payload here
// regardless of other live attachments; those are left mapping a dead
// block. That is documented caller contract, not something Close repairs.
func (p *Pointer[T]) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.region == nil {
		return nil
	}

	wasAttached := p.region.IsAttached()
	role := p.teardownRole()

	if role != rolePlain {
		if wasAttached {
			if err := p.region.Lock(); err != nil {
				internalLogger.warnf("close %q: lock failed: %v", p.key, err)
			}
		}
		switch role {
		case roleOwner:
			p.destroyPayload()
		case roleCooperative:
			p.block.refcount--
			if p.block.refcount == 0 {
				p.destroyPayload()
			}
		}
		if wasAttached {
			if err := p.region.Unlock(); err != nil {
				internalLogger.warnf("close %q: unlock failed: %v", p.key, err)
			}
		}
	}

	var detachErr error
	if wasAttached {
		detachErr = p.region.Detach()
	}
	if p.registered {
		unregisterAttachment(p.key)
		p.registered = false
	}
	p.block = nil
	p.isOwner = false
	return detachErr
}

// Clear releases the handle's internal state through the ordinary close
// protocol, ignoring the detach result.
func (p *Pointer[T]) Clear() {
	_ = p.Close()
}

// destroyPayload runs with the region lock held (when attached). It fires
// the destroy hook, wipes the block, and unlinks the segment name so
// later attaches see NotFound.
func (p *Pointer[T]) destroyPayload() {
	if p.opts.onDestroy != nil {
		p.opts.onDestroy(&p.block.payload)
	}
	destroyBlock(p.block)
	if err := p.region.Unlink(); err != nil {
		internalLogger.warnf("destroy %q: unlink failed: %v", p.key, err)
	}
	destroysTotal.Inc()
	p.opts.count(context.Background(), "ipcptr.destroys")
	internalLogger.debugf("segment %q payload destroyed", p.key)
}

func (p *Pointer[T]) teardownRole() teardownRole {
	if p.block == nil {
		return rolePlain
	}
	if p.isOwner {
		return roleOwner
	}
	if !p.block.owned {
		return roleCooperative
	}
	return rolePlain
}

// IsValid reports whether the Pointer references a live control block.
func (p *Pointer[T]) IsValid() bool { return p.block != nil && !p.closed }

// IsNull is the negation of IsValid.
func (p *Pointer[T]) IsNull() bool { return !p.IsValid() }

// IsOwner reports whether this handle created the segment and still
// carries destruction responsibility.
func (p *Pointer[T]) IsOwner() bool { return p.isOwner }

// Key returns the segment name this Pointer was created or attached with,
// valid even on failed handles.
func (p *Pointer[T]) Key() string { return p.key }

// Get returns the shared payload in place, or nil on an invalid Pointer.
// Reads and writes through it are not serialized; bracket them with a
// Locker when other participants mutate concurrently.
func (p *Pointer[T]) Get() *T {
	if !p.IsValid() {
		return nil
	}
	return &p.block.payload
}

// Err returns the error that invalidated this Pointer, or nil.
func (p *Pointer[T]) Err() error { return p.err }

// Kind classifies Err.
func (p *Pointer[T]) Kind() Kind { return KindOf(p.err) }

// ErrorString returns a human-readable description of the Pointer's error
// state. For InvalidSize it includes the observed and required byte
// counts.
func (p *Pointer[T]) ErrorString() string {
	if p.err == nil {
		return NoError.String()
	}
	return p.err.Error()
}

// RefCount reads the shared reference count under the region lock.
// Returns 0 on an invalid Pointer. Intended for diagnostics and tests;
// the value may be stale the moment it returns.
//
// Do not call RefCount while holding the segment lock (via Lock or a
// Locker) on the same Pointer: the lock is not reentrant, and RefCount's
// internal unlock would release the caller's hold.
func (p *Pointer[T]) RefCount() uint64 {
	if !p.IsValid() {
		return 0
	}
	if err := p.region.Lock(); err != nil {
		internalLogger.warnf("refcount %q: lock failed: %v", p.key, err)
	}
	n := p.block.refcount
	if err := p.region.Unlock(); err != nil {
		internalLogger.warnf("refcount %q: unlock failed: %v", p.key, err)
	}
	return n
}

// Lock takes the segment's cross-process lock, blocking until available.
// Lock failure degrades to false with no distinct error kind.
func (p *Pointer[T]) Lock() bool {
	return p.region != nil && p.region.Lock() == nil
}

// Unlock releases the segment's cross-process lock.
func (p *Pointer[T]) Unlock() bool {
	return p.region != nil && p.region.Unlock() == nil
}

// Region exposes the underlying OS attachment, mainly for Locker and
// diagnostics. It may be non-nil even on invalid Pointers (the InvalidSize
// case keeps its mapping until Close).
func (p *Pointer[T]) Region() *shm.Region { return p.region }

// optionSlice rebuilds an option list from resolved options so Clone can
// carry the parent's configuration into the fresh attach.
func optionSlice[T any](o options[T]) []Option[T] {
	return []Option[T]{func(dst *options[T]) { *dst = o }}
}
