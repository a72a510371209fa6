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

import cmap "github.com/orcaman/concurrent-map/v2"

// attachments tracks this process's live handles per segment name. It is
// purely diagnostic: the authoritative count lives in the control block's
// refcount, which spans processes.
var attachments = cmap.New[int]()

func registerAttachment(key string) {
	attachments.Upsert(key, 1, func(exists bool, cur, n int) int {
		if exists {
			return cur + n
		}
		return n
	})
}

func unregisterAttachment(key string) {
	n := attachments.Upsert(key, 0, func(exists bool, cur, _ int) int {
		if !exists {
			return 0
		}
		return cur - 1
	})
	if n <= 0 {
		attachments.RemoveCb(key, func(_ string, cur int, exists bool) bool {
			return exists && cur <= 0
		})
	}
}

// Attachments returns how many handles this process currently holds on
// the named segment.
func Attachments(key string) int {
	n, _ := attachments.Get(key)
	return n
}
