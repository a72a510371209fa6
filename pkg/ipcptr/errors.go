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

	"github.com/srediag/ipcptr/internal/shm"
)

// Kind classifies why a Pointer is invalid. Most kinds come straight from
// the OS segment primitive; InvalidSize is pointer-local, reported when
// the OS attach itself succeeded but the segment is too small for the
// control block of the requested type.
type Kind int

const (
	NoError Kind = iota
	AlreadyExists
	NotFound
	PermissionDenied
	SystemLimit
	InvalidSize
	UnknownError
)

func (k Kind) String() string {
	switch k {
	case NoError:
		return "no error"
	case AlreadyExists:
		return "already exists"
	case NotFound:
		return "not found"
	case PermissionDenied:
		return "permission denied"
	case SystemLimit:
		return "system limit"
	case InvalidSize:
		return "invalid size"
	default:
		return "unknown error"
	}
}

var (
	// ErrInvalidSize marks a segment that attached fine but cannot hold
	// the control block for the requested payload type.
	ErrInvalidSize = errors.New("ipcptr: attached segment is too small for the control block")

	// ErrInvalidPointer is returned by operations that need a valid,
	// attached Pointer.
	ErrInvalidPointer = errors.New("ipcptr: pointer is not valid")
)

// KindOf maps an error from this package onto its Kind. A nil error is
// NoError.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, ErrInvalidSize):
		return InvalidSize
	case errors.Is(err, shm.ErrAlreadyExists):
		return AlreadyExists
	case errors.Is(err, shm.ErrNotFound):
		return NotFound
	case errors.Is(err, shm.ErrPermissionDenied):
		return PermissionDenied
	case errors.Is(err, shm.ErrSystemLimit):
		return SystemLimit
	default:
		return UnknownError
	}
}
