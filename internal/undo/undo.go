/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package undo keeps in-memory undo/redo stacks of script text per open
// document, with byte and depth caps so long editing sessions stay bounded.
package undo

import (
	"sync"
	"time"
)

// Snapshot is one reversible copy of a document's script text.
// Size accounting uses len(Text); TS is the capture time.
type Snapshot struct {
	Doc  string
	Text string
	TS   time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; the oldest entries are pruned when exceeded.
	MaxBytes int
	// MaxPerDoc limits snapshots kept per document (0 means unlimited).
	MaxPerDoc int
	// MinInterval coalesces snapshots captured within the interval for the
	// same document, replacing the previous one instead of pushing.
	MinInterval time.Duration
}

// Manager provides per-document undo/redo stacks. Safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex

	undo map[string][]Snapshot
	redo map[string][]Snapshot

	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// Push records a snapshot for a document. Within MinInterval of the previous
// snapshot on the same document, the previous one is replaced. Any push
// invalidates the document's redo stack.
func (m *Manager) Push(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.Doc]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			m.totalBytes -= len(last.Text)
			m.totalBytes += len(s.Text)
			stack[n-1] = s
			m.undo[s.Doc] = stack
			m.redo[s.Doc] = nil
			m.enforceCapsLocked(s.Doc)
			return
		}
	}
	stack = append(stack, s)
	m.undo[s.Doc] = stack
	m.totalBytes += len(s.Text)
	m.redo[s.Doc] = nil
	m.enforceCapsLocked(s.Doc)
}

// Undo pops the newest snapshot for doc onto its redo stack.
func (m *Manager) Undo(doc string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[doc]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[doc] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Text)
	m.redo[doc] = append(m.redo[doc], s)
	return s, true
}

// Redo pops from the redo stack back onto undo.
func (m *Manager) Redo(doc string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[doc]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[doc] = r[:len(r)-1]
	m.undo[doc] = append(m.undo[doc], s)
	m.totalBytes += len(s.Text)
	m.enforceCapsLocked(doc)
	return s, true
}

// Clear drops both stacks for a document to free memory.
func (m *Manager) Clear(doc string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[doc] {
		m.totalBytes -= len(s.Text)
	}
	delete(m.undo, doc)
	delete(m.redo, doc)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, docs int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, docs, totalSnapshots
}

func (m *Manager) enforceCapsLocked(doc string) {
	if m.cfg.MaxPerDoc > 0 {
		stack := m.undo[doc]
		if len(stack) > m.cfg.MaxPerDoc {
			toDrop := len(stack) - m.cfg.MaxPerDoc
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Text)
			}
			m.undo[doc] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// global cap: prune the oldest snapshot across all documents
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestDoc := ""
		oldestIdx := -1
		var oldestTS time.Time
		for d, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestDoc = d
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestDoc]
		m.totalBytes -= len(stack[0].Text)
		m.undo[oldestDoc] = stack[1:]
		if len(m.undo[oldestDoc]) == 0 {
			delete(m.undo, oldestDoc)
		}
	}
}
