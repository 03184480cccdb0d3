/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package diff

import (
	"strings"
	"testing"
)

func TestIdenticalTexts(t *testing.T) {
	text := "INT. ROOM - DAY\n\nJOHN\nHello."
	lines := Compute(text, text)
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if l.Kind != Unchanged {
			t.Fatalf("row %d: expected unchanged, got %s", i, l.Kind)
		}
		if l.LeftText != l.RightText {
			t.Fatalf("row %d: sides differ: %q vs %q", i, l.LeftText, l.RightText)
		}
		if l.LeftLineNum != i+1 || l.RightLineNum != i+1 {
			t.Fatalf("row %d: line numbers %d/%d", i, l.LeftLineNum, l.RightLineNum)
		}
	}
}

func TestOneLineEdit(t *testing.T) {
	lines := Compute("A\nB\nC", "A\nX\nC")
	want := []struct {
		kind       Kind
		left, right string
		ln, rn     int
	}{
		{Unchanged, "A", "A", 1, 1},
		{Removed, "B", "", 2, 0},
		{Added, "", "X", 0, 2},
		{Unchanged, "C", "C", 3, 3},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d rows, got %d: %+v", len(want), len(lines), lines)
	}
	for i, w := range want {
		l := lines[i]
		if l.Kind != w.kind || l.LeftText != w.left || l.RightText != w.right ||
			l.LeftLineNum != w.ln || l.RightLineNum != w.rn {
			t.Fatalf("row %d: expected %+v, got %+v", i, w, l)
		}
	}
}

func TestRemovedRowInvariant(t *testing.T) {
	for _, l := range Compute("A\nB", "A") {
		switch l.Kind {
		case Removed:
			if l.RightText != "" || l.RightLineNum != 0 {
				t.Fatalf("removed row must have no right side: %+v", l)
			}
		case Added:
			if l.LeftText != "" || l.LeftLineNum != 0 {
				t.Fatalf("added row must have no left side: %+v", l)
			}
		}
	}
}

func TestCountSymmetry(t *testing.T) {
	left := "a\nb\nc\nd\ne"
	right := "a\nc\nx\ne\ny"
	lines := Compute(left, right)
	m := len(strings.Split(left, "\n"))
	n := len(strings.Split(right, "\n"))
	var unchanged, added, removed int
	for _, l := range lines {
		switch l.Kind {
		case Unchanged:
			unchanged++
		case Added:
			added++
		case Removed:
			removed++
		case Modified:
			t.Fatalf("modified must never be produced: %+v", l)
		}
	}
	if removed != m-unchanged {
		t.Fatalf("removed=%d, want m-|LCS|=%d", removed, m-unchanged)
	}
	if added != n-unchanged {
		t.Fatalf("added=%d, want n-|LCS|=%d", added, n-unchanged)
	}
}

func TestTrailingFlushOrder(t *testing.T) {
	lines := Compute("A\nB\nC", "A")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %+v", lines)
	}
	if lines[1].Kind != Removed || lines[1].LeftText != "B" ||
		lines[2].Kind != Removed || lines[2].LeftText != "C" {
		t.Fatalf("trailing left lines must flush as removed in order: %+v", lines)
	}
}

func TestRemovedBeforeAddedAtGap(t *testing.T) {
	lines := Compute("A\nB\nD", "A\nC\nD")
	if lines[1].Kind != Removed || lines[2].Kind != Added {
		t.Fatalf("gap order must be removed then added: %+v", lines)
	}
}

func TestExactEqualityNoNormalization(t *testing.T) {
	lines := Compute("Hello", "hello")
	if len(lines) != 2 || lines[0].Kind != Removed || lines[1].Kind != Added {
		t.Fatalf("case-differing lines must not match: %+v", lines)
	}
}

func TestNavigatorCycles(t *testing.T) {
	lines := Compute("A\nB\nC\nD", "A\nX\nC\nY")
	nav := NewNavigator(lines)
	if nav.Count() != 4 {
		t.Fatalf("expected 4 changed rows, got %d", nav.Count())
	}
	first, ok := nav.Next()
	if !ok {
		t.Fatalf("expected a change to navigate to")
	}
	var last int
	for i := 0; i < nav.Count()-1; i++ {
		last, _ = nav.Next()
	}
	if next, _ := nav.Next(); next != first {
		t.Fatalf("navigation must wrap to the first change: got %d, want %d", next, first)
	}
	if prev, _ := nav.Prev(); prev != last {
		t.Fatalf("prev after wrap must return the last change: got %d, want %d", prev, last)
	}
}

func TestNavigatorNoChanges(t *testing.T) {
	nav := NewNavigator(Compute("same", "same"))
	if _, ok := nav.Next(); ok {
		t.Fatalf("no changes to navigate")
	}
	if _, ok := nav.Prev(); ok {
		t.Fatalf("no changes to navigate")
	}
}
