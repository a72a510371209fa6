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

import "unsafe"

// controlBlock is the structure living at offset 0 of every segment this
// package manages. owned stays true until the creator drops ownership;
// refcount counts attaches since creation and only becomes load-bearing
// for destruction once owned has been flipped false. Both fields mutate
// only under the region lock.
//
// The payload must be a fixed-layout type without Go pointers, maps,
// slices, channels or strings: the block is raw bytes shared with other
// processes and the garbage collector never scans it.
type controlBlock[T any] struct {
	owned    bool
	refcount uint64
	payload  T
}

// blockSize is the byte size requested at creation and the minimum
// accepted at attach.
func blockSize[T any]() int {
	return int(unsafe.Sizeof(controlBlock[T]{}))
}

// viewBlock reinterprets the start of a mapping as a control block. This
// is the package's only raw-memory escape hatch; callers guarantee
// len(mem) >= blockSize[T]().
func viewBlock[T any](mem []byte) *controlBlock[T] {
	return (*controlBlock[T])(unsafe.Pointer(&mem[0]))
}

// destroyBlock tears the payload down in place: it zeroes the whole block
// and then re-marks it owned, so any straggler handle that closes after
// destruction takes the touch-nothing path instead of driving refcount
// through zero a second time.
func destroyBlock[T any](cb *controlBlock[T]) {
	*cb = controlBlock[T]{}
	cb.owned = true
}
