// Package shm contains the platform-specific named shared memory primitive.
//
// A Region is one OS attachment to a named segment together with the
// segment's cross-process exclusive lock. Higher layers never touch the
// mapping syscalls directly; everything goes through CreateRegion,
// AttachRegion and the Region methods.
package shm

import "errors"

// Sentinel errors describing why a create or attach failed. Platform code
// maps OS error numbers onto these; callers classify with errors.Is.
var (
	ErrAlreadyExists    = errors.New("shm: segment already exists")
	ErrNotFound         = errors.New("shm: segment does not exist")
	ErrPermissionDenied = errors.New("shm: permission denied")
	ErrSystemLimit      = errors.New("shm: out of resources")
	ErrNotAttached      = errors.New("shm: region is not attached")
	ErrNotSupported     = errors.New("shm: named shared memory is not supported on this platform")
)

// Region is a single attachment to a named shared memory segment.
//
// The lock obtained via Lock/Unlock is a named, cross-process, exclusive
// lock tied to the segment. It blocks without timeout, is not reentrant
// within one holder, and has no reader/writer or recursion semantics.
type Region struct {
	name     string
	path     string
	data     []byte
	fd       int
	size     int
	created  bool
	attached bool
}

// Name returns the key the segment was created or attached under.
func (r *Region) Name() string { return r.name }

// Path returns the backing file path of the segment.
func (r *Region) Path() string { return r.path }

// Size returns the mapped size in bytes, 0 when detached.
func (r *Region) Size() int { return r.size }

// Created reports whether this attachment created the segment.
func (r *Region) Created() bool { return r.created }

// IsAttached reports whether the mapping is still live.
func (r *Region) IsAttached() bool { return r.attached }

// Bytes returns the mapped memory. Nil when detached.
func (r *Region) Bytes() []byte {
	if !r.attached {
		return nil
	}
	return r.data
}
