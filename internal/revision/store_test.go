/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package revision

import (
	"testing"

	"goscreenwriter/internal/screenplay"
)

func sampleElements() []screenplay.Element {
	return []screenplay.Element{
		{Type: screenplay.SceneHeading, Text: "INT. ROOM - DAY"},
		{Type: screenplay.Action, Text: "New text."},
		{Type: screenplay.Action, Text: "Untouched."},
	}
}

func TestMarkAndAcceptArePure(t *testing.T) {
	s0 := NewStore()
	s1 := s0.Mark(Mark{ElementIndex: 1, PriorText: "Old text."})
	if s0.Len() != 0 {
		t.Fatalf("original store mutated: %d marks", s0.Len())
	}
	if !s1.Marked(1) {
		t.Fatalf("mark not recorded")
	}
	s2 := s1.Accept(1)
	if s1.Marked(1) == false {
		t.Fatalf("accept mutated the receiver")
	}
	if s2.Marked(1) {
		t.Fatalf("accept must drop the mark")
	}
}

func TestAcceptUnknownIndexIsNoop(t *testing.T) {
	s := NewStore(Mark{ElementIndex: 0, PriorText: "x"})
	if got := s.Accept(9); got.Len() != 1 {
		t.Fatalf("accept of unmarked index changed the store: %d", got.Len())
	}
}

func TestRejectRestoresPriorText(t *testing.T) {
	elements := sampleElements()
	s := NewStore(Mark{ElementIndex: 1, PriorText: "Old text."})
	s2, restored := s.Reject(1, elements)
	if s2.Marked(1) {
		t.Fatalf("reject must drop the mark")
	}
	if restored[1].Text != "Old text." {
		t.Fatalf("prior text not restored: %q", restored[1].Text)
	}
	if elements[1].Text != "New text." {
		t.Fatalf("input slice mutated: %q", elements[1].Text)
	}
}

func TestApplySetsRevisionFlags(t *testing.T) {
	elements := sampleElements()
	s := NewStore(Mark{ElementIndex: 0, PriorText: "a"}, Mark{ElementIndex: 1, PriorText: "b"})
	out := s.Apply(elements)
	if !out[0].HasRevision || !out[1].HasRevision || out[2].HasRevision {
		t.Fatalf("revision flags wrong: %+v", out)
	}
	if elements[0].HasRevision {
		t.Fatalf("input slice mutated")
	}
}

func TestMarksOrdered(t *testing.T) {
	s := NewStore(Mark{ElementIndex: 5}, Mark{ElementIndex: 1}, Mark{ElementIndex: 3})
	marks := s.Marks()
	if len(marks) != 3 || marks[0].ElementIndex != 1 || marks[1].ElementIndex != 3 || marks[2].ElementIndex != 5 {
		t.Fatalf("marks not ordered: %+v", marks)
	}
}

func TestZeroValueStore(t *testing.T) {
	var s Store
	if s.Len() != 0 || s.Marked(0) {
		t.Fatalf("zero store must be empty")
	}
	s2 := s.Mark(Mark{ElementIndex: 2, PriorText: "p"})
	if !s2.Marked(2) {
		t.Fatalf("mark on zero store failed")
	}
}
