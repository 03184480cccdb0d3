/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package bus carries typed commands between the editing front ends and
// the document core. Each command kind has one payload type; handlers
// subscribe per kind and run synchronously in publish order, so document
// mutations stay serialized without a lock around the whole core.
package bus

import (
	"fmt"
	"sync"

	"goscreenwriter/internal/diff"
	"goscreenwriter/internal/paginate"
	"goscreenwriter/internal/screenplay"
)

// Kind identifies a command or notification routed over the bus.
type Kind string

const (
	// commands
	KindScriptChanged  Kind = "script.changed"  // payload ScriptChanged
	KindSaveRequested  Kind = "save.requested"  // payload SaveRequested
	KindDiffRequested  Kind = "diff.requested"  // payload DiffRequested
	KindMarkRevision   Kind = "revision.mark"   // payload MarkRevision
	KindAcceptRevision Kind = "revision.accept" // payload AcceptRevision
	KindRejectRevision Kind = "revision.reject" // payload RejectRevision

	// notifications
	KindDocumentParsed Kind = "document.parsed" // payload DocumentParsed
	KindStatsUpdated   Kind = "stats.updated"   // payload StatsUpdated
	KindDiffComputed   Kind = "diff.computed"   // payload DiffComputed
)

// ScriptChanged announces new script text (editor keystrokes, a file
// watcher reload, or a sync pull).
type ScriptChanged struct {
	Doc    string
	Text   string
	Origin string // "editor", "watcher", "sync"
}

// SaveRequested asks the persistence layer to flush the named document.
type SaveRequested struct {
	Doc string
}

// DiffRequested asks for a comparison of the document against other text.
type DiffRequested struct {
	Doc        string
	Comparison string
}

// MarkRevision flags one element as revised.
type MarkRevision struct {
	Doc          string
	ElementIndex int
	PriorText    string
	Note         string
}

// AcceptRevision clears a revision mark, keeping the current text.
type AcceptRevision struct {
	Doc          string
	ElementIndex int
}

// RejectRevision clears a revision mark and restores the prior text.
type RejectRevision struct {
	Doc          string
	ElementIndex int
}

// DocumentParsed carries a freshly parsed document.
type DocumentParsed struct {
	Doc      string
	Document screenplay.Document
}

// StatsUpdated carries recomputed pagination statistics.
type StatsUpdated struct {
	Doc   string
	Stats paginate.Result
}

// DiffComputed carries the rows of a finished comparison.
type DiffComputed struct {
	Doc  string
	Rows []diff.Line
}

// Message is a routed command or notification.
type Message struct {
	Kind    Kind
	Payload any
}

// Handler receives messages for one kind.
type Handler func(Message)

// Bus is a synchronous typed dispatcher. Safe for concurrent use;
// handlers for a given publish run on the publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]subscription
	nextID   int
}

type subscription struct {
	id int
	fn Handler
}

func New() *Bus {
	return &Bus{handlers: make(map[Kind][]subscription)}
}

// Subscribe registers a handler for one kind and returns an unsubscribe
// function.
func (b *Bus) Subscribe(k Kind, fn Handler) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[k] = append(b.handlers[k], subscription{id: id, fn: fn})
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[k]
		for i, s := range subs {
			if s.id == id {
				b.handlers[k] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the message to every subscriber of its kind, in
// subscription order. It returns an error when the payload type does not
// match the kind's declared payload.
func (b *Bus) Publish(m Message) error {
	if err := checkPayload(m); err != nil {
		return err
	}
	b.mu.RLock()
	subs := append([]subscription(nil), b.handlers[m.Kind]...)
	b.mu.RUnlock()
	for _, s := range subs {
		s.fn(m)
	}
	return nil
}

func checkPayload(m Message) error {
	ok := true
	switch m.Kind {
	case KindScriptChanged:
		_, ok = m.Payload.(ScriptChanged)
	case KindSaveRequested:
		_, ok = m.Payload.(SaveRequested)
	case KindDiffRequested:
		_, ok = m.Payload.(DiffRequested)
	case KindMarkRevision:
		_, ok = m.Payload.(MarkRevision)
	case KindAcceptRevision:
		_, ok = m.Payload.(AcceptRevision)
	case KindRejectRevision:
		_, ok = m.Payload.(RejectRevision)
	case KindDocumentParsed:
		_, ok = m.Payload.(DocumentParsed)
	case KindStatsUpdated:
		_, ok = m.Payload.(StatsUpdated)
	case KindDiffComputed:
		_, ok = m.Payload.(DiffComputed)
	default:
		return fmt.Errorf("bus: unknown kind %q", m.Kind)
	}
	if !ok {
		return fmt.Errorf("bus: wrong payload %T for kind %q", m.Payload, m.Kind)
	}
	return nil
}
