/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package diff

// Navigator cycles through the changed rows of a computed diff. The only
// state is the current position; Next and Prev wrap around circularly.
type Navigator struct {
	changed []int // indices of non-unchanged rows
	pos     int   // index into changed; -1 before first navigation
}

// NewNavigator indexes the changed rows of lines.
func NewNavigator(lines []Line) *Navigator {
	n := &Navigator{pos: -1}
	for i, l := range lines {
		if l.Kind != Unchanged {
			n.changed = append(n.changed, i)
		}
	}
	return n
}

// Count returns the number of changed rows.
func (n *Navigator) Count() int { return len(n.changed) }

// Next returns the index of the next changed row, wrapping to the first
// after the last. The second return is false when the diff has no changes.
func (n *Navigator) Next() (int, bool) {
	if len(n.changed) == 0 {
		return 0, false
	}
	n.pos = (n.pos + 1) % len(n.changed)
	return n.changed[n.pos], true
}

// Prev returns the index of the previous changed row, wrapping to the last
// before the first.
func (n *Navigator) Prev() (int, bool) {
	if len(n.changed) == 0 {
		return 0, false
	}
	if n.pos <= 0 {
		n.pos = len(n.changed)
	}
	n.pos--
	return n.changed[n.pos], true
}
