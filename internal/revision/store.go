/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package revision tracks per-element revision marks for the industry
// revision-asterisk convention. The store is an explicit value passed to
// whoever needs it; Accept and Reject are pure transitions returning a new
// snapshot, so callers can hold, compare, and roll back store states freely.
package revision

import (
	"sort"

	"goscreenwriter/internal/screenplay"
)

// Mark records one pending change against an element position.
type Mark struct {
	ElementIndex int    `json:"elementIndex"`
	PriorText    string `json:"priorText"`
	Note         string `json:"note,omitempty"`
}

// Store is an immutable snapshot of pending revision marks.
// The zero value is an empty store ready for use.
type Store struct {
	marks map[int]Mark
}

// NewStore builds a store from a set of marks; later marks for the same
// element index win.
func NewStore(marks ...Mark) Store {
	s := Store{marks: make(map[int]Mark, len(marks))}
	for _, m := range marks {
		s.marks[m.ElementIndex] = m
	}
	return s
}

// Len returns the number of pending marks.
func (s Store) Len() int { return len(s.marks) }

// Marked reports whether the element at index carries a pending mark.
func (s Store) Marked(index int) bool {
	_, ok := s.marks[index]
	return ok
}

// Mark returns a new store with the given mark recorded.
func (s Store) Mark(m Mark) Store {
	next := s.clone()
	next.marks[m.ElementIndex] = m
	return next
}

// Accept drops the mark at index, keeping the element's current text.
// The receiver is unchanged.
func (s Store) Accept(index int) Store {
	if !s.Marked(index) {
		return s
	}
	next := s.clone()
	delete(next.marks, index)
	return next
}

// Reject restores the element's prior text in elements and drops the mark.
// It returns the new store and the restored element slice; the inputs are
// unchanged.
func (s Store) Reject(index int, elements []screenplay.Element) (Store, []screenplay.Element) {
	m, ok := s.marks[index]
	if !ok || index < 0 || index >= len(elements) {
		return s, elements
	}
	out := make([]screenplay.Element, len(elements))
	copy(out, elements)
	out[index].Text = m.PriorText
	out[index].HasRevision = false
	next := s.clone()
	delete(next.marks, index)
	return next, out
}

// Apply projects the pending marks onto a copy of elements, setting
// HasRevision for marked positions. Pagination and PDF export consume the
// projected slice.
func (s Store) Apply(elements []screenplay.Element) []screenplay.Element {
	out := make([]screenplay.Element, len(elements))
	copy(out, elements)
	for idx := range s.marks {
		if idx >= 0 && idx < len(out) {
			out[idx].HasRevision = true
		}
	}
	return out
}

// Marks returns the pending marks ordered by element index.
func (s Store) Marks() []Mark {
	out := make([]Mark, 0, len(s.marks))
	for _, m := range s.marks {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ElementIndex < out[j].ElementIndex })
	return out
}

func (s Store) clone() Store {
	next := Store{marks: make(map[int]Mark, len(s.marks))}
	for k, v := range s.marks {
		next.marks[k] = v
	}
	return next
}
