/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func snap(doc, text string, ts time.Time) Snapshot {
	return Snapshot{Doc: doc, Text: text, TS: ts}
}

func TestUndoRedoCycle(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	base := time.Now()
	m.Push(snap("a", "first", base))
	m.Push(snap("a", "second", base.Add(time.Second)))

	s, ok := m.Undo("a")
	if !ok || s.Text != "second" {
		t.Fatalf("undo = %+v ok=%v", s, ok)
	}
	s, ok = m.Redo("a")
	if !ok || s.Text != "second" {
		t.Fatalf("redo = %+v ok=%v", s, ok)
	}
	if _, ok := m.Redo("a"); ok {
		t.Fatal("redo stack should be exhausted")
	}
}

func TestUndoEmpty(t *testing.T) {
	m := NewManager(Config{})
	if _, ok := m.Undo("missing"); ok {
		t.Fatal("expected no snapshot for unknown document")
	}
}

func TestPushInvalidatesRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	base := time.Now()
	m.Push(snap("a", "one", base))
	m.Push(snap("a", "two", base.Add(time.Second)))
	if _, ok := m.Undo("a"); !ok {
		t.Fatal("undo failed")
	}
	m.Push(snap("a", "three", base.Add(2*time.Second)))
	if _, ok := m.Redo("a"); ok {
		t.Fatal("push must clear redo stack")
	}
}

func TestCoalesceWithinInterval(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Second})
	base := time.Now()
	m.Push(snap("a", "tick", base))
	m.Push(snap("a", "tick tick", base.Add(100*time.Millisecond)))

	_, _, count := m.Stats()
	if count != 1 {
		t.Fatalf("expected coalesced single snapshot, got %d", count)
	}
	s, ok := m.Undo("a")
	if !ok || s.Text != "tick tick" {
		t.Fatalf("coalesced snapshot = %+v", s)
	}
}

func TestPerDocDepthCap(t *testing.T) {
	m := NewManager(Config{MaxPerDoc: 2, MinInterval: time.Millisecond})
	base := time.Now()
	for i, text := range []string{"one", "two", "three"} {
		m.Push(snap("a", text, base.Add(time.Duration(i)*time.Second)))
	}
	_, _, count := m.Stats()
	if count != 2 {
		t.Fatalf("depth cap kept %d snapshots, want 2", count)
	}
	if s, _ := m.Undo("a"); s.Text != "three" {
		t.Fatalf("newest should survive, got %q", s.Text)
	}
	if s, _ := m.Undo("a"); s.Text != "two" {
		t.Fatalf("oldest should be dropped, got %q", s.Text)
	}
}

func TestGlobalByteCapPrunesOldest(t *testing.T) {
	m := NewManager(Config{MaxBytes: 10, MinInterval: time.Millisecond})
	base := time.Now()
	m.Push(snap("a", "aaaaaa", base))                    // 6 bytes
	m.Push(snap("b", "bbbbbb", base.Add(time.Second)))   // 12 total -> prune a
	bytes, docs, count := m.Stats()
	if bytes > 10 {
		t.Fatalf("totalBytes = %d, cap is 10", bytes)
	}
	if docs != 1 || count != 1 {
		t.Fatalf("docs=%d count=%d after prune", docs, count)
	}
	if _, ok := m.Undo("a"); ok {
		t.Fatal("oldest document snapshot should have been pruned")
	}
}

func TestClearReleasesBytes(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	base := time.Now()
	m.Push(snap("a", "hello", base))
	m.Push(snap("b", "world", base.Add(time.Second)))
	m.Clear("a")
	bytes, docs, _ := m.Stats()
	if docs != 1 {
		t.Fatalf("docs = %d after clear, want 1", docs)
	}
	if bytes != len("world") {
		t.Fatalf("bytes = %d, want %d", bytes, len("world"))
	}
	if _, ok := m.Undo("a"); ok {
		t.Fatal("cleared document still has snapshots")
	}
}
