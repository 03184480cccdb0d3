/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session ties one open project to the command bus. It owns the
// in-memory editing state of the script: current text, undo history, and
// pending revision marks. Front ends publish commands; the session handles
// them and answers with notifications on the same bus.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"goscreenwriter/internal/bus"
	"goscreenwriter/internal/diff"
	"goscreenwriter/internal/fountain"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/paginate"
	"goscreenwriter/internal/revision"
	"goscreenwriter/internal/screenplay"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/undo"
)

// historyDepth caps how many stored snapshots are replayed into the undo
// stack when a session opens.
const historyDepth = 50

// Session is the document core behind the bus. Safe for concurrent use.
type Session struct {
	ph  *storage.ProjectHandle
	bus *bus.Bus
	log *slog.Logger

	hist *undo.Manager

	mu    sync.Mutex
	doc   string
	text  string
	marks revision.Store
}

// Open loads the project's script, pending revision marks, and recent
// snapshot history, then subscribes the session's command handlers on b.
func Open(ph *storage.ProjectHandle, b *bus.Bus) (*Session, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	if b == nil {
		return nil, errors.New("nil bus")
	}
	text, err := storage.ReadScript(ph)
	if err != nil {
		return nil, err
	}
	marks, err := storage.LoadRevisionMarks(ph)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ph:    ph,
		bus:   b,
		log:   applog.WithComponent("session"),
		hist:  undo.NewManager(undo.Config{MaxPerDoc: historyDepth, MinInterval: time.Nanosecond}),
		doc:   ph.Project.Title,
		text:  text,
		marks: revision.NewStore(marks...),
	}
	s.replayHistory(context.Background())

	b.Subscribe(bus.KindScriptChanged, s.onScriptChanged)
	b.Subscribe(bus.KindDocumentParsed, s.onDocumentParsed)
	b.Subscribe(bus.KindSaveRequested, s.onSaveRequested)
	b.Subscribe(bus.KindDiffRequested, s.onDiffRequested)
	b.Subscribe(bus.KindMarkRevision, s.onMarkRevision)
	b.Subscribe(bus.KindAcceptRevision, s.onAcceptRevision)
	b.Subscribe(bus.KindRejectRevision, s.onRejectRevision)
	return s, nil
}

// replayHistory seeds the undo stack from the stored snapshot history.
// The newest snapshot normally mirrors the saved script; it only becomes
// an undo step itself when the script has unsaved divergence.
func (s *Session) replayHistory(ctx context.Context) {
	snaps, err := storage.SnapshotHistory(ctx, s.ph, historyDepth)
	if err != nil {
		s.log.Warn("snapshot history unavailable", slog.Any("err", err))
		return
	}
	for i, snap := range snaps {
		if i == len(snaps)-1 && snap.Text == s.text {
			break
		}
		s.hist.Push(undo.Snapshot{Doc: s.doc, Text: snap.Text, TS: snap.TS})
	}
}

// Text returns the current script text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Document parses the current text and projects pending revision marks
// onto the elements, ready for pagination and export.
func (s *Session) Document() screenplay.Document {
	s.mu.Lock()
	text, marks := s.text, s.marks
	s.mu.Unlock()
	doc := fountain.Parse(text)
	doc.Elements = marks.Apply(doc.Elements)
	return doc
}

// Marks returns the pending revision marks ordered by element index.
func (s *Session) Marks() []revision.Mark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks.Marks()
}

// Save flushes the current text to the script file and appends it to the
// snapshot history.
func (s *Session) Save(ctx context.Context) error {
	text := s.Text()
	if err := storage.WriteScript(s.ph, text); err != nil {
		return err
	}
	if _, err := storage.SaveSnapshot(ctx, s.ph, text); err != nil {
		return err
	}
	return nil
}

// Undo restores the previous draft from the undo stack, persists it, and
// returns the restored text. The replaced draft stays in the snapshot
// history, so running undo again switches back.
func (s *Session) Undo(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	snap, ok := s.hist.Undo(s.doc)
	if !ok {
		s.mu.Unlock()
		return "", false, nil
	}
	s.text = snap.Text
	s.mu.Unlock()

	if err := s.Save(ctx); err != nil {
		return "", false, err
	}
	return snap.Text, true, nil
}

func (s *Session) onScriptChanged(m bus.Message) {
	p := m.Payload.(bus.ScriptChanged)
	s.mu.Lock()
	if p.Text == s.text {
		s.mu.Unlock()
		return
	}
	s.hist.Push(undo.Snapshot{Doc: s.doc, Text: s.text, TS: time.Now()})
	s.text = p.Text
	s.mu.Unlock()

	doc := fountain.Parse(p.Text)
	if err := s.bus.Publish(bus.Message{Kind: bus.KindDocumentParsed, Payload: bus.DocumentParsed{Doc: p.Doc, Document: doc}}); err != nil {
		s.log.Error("publish parsed document failed", slog.Any("err", err))
	}
}

func (s *Session) onDocumentParsed(m bus.Message) {
	p := m.Payload.(bus.DocumentParsed)
	stats := paginate.Paginate(p.Document.Elements)
	if err := s.bus.Publish(bus.Message{Kind: bus.KindStatsUpdated, Payload: bus.StatsUpdated{Doc: p.Doc, Stats: stats}}); err != nil {
		s.log.Error("publish stats failed", slog.Any("err", err))
	}
}

func (s *Session) onSaveRequested(m bus.Message) {
	if err := s.Save(context.Background()); err != nil {
		s.log.Error("save failed", slog.Any("err", err))
	}
}

func (s *Session) onDiffRequested(m bus.Message) {
	p := m.Payload.(bus.DiffRequested)
	rows := diff.Compute(s.Text(), p.Comparison)
	if err := s.bus.Publish(bus.Message{Kind: bus.KindDiffComputed, Payload: bus.DiffComputed{Doc: p.Doc, Rows: rows}}); err != nil {
		s.log.Error("publish diff failed", slog.Any("err", err))
	}
}

func (s *Session) onMarkRevision(m bus.Message) {
	p := m.Payload.(bus.MarkRevision)
	s.mu.Lock()
	s.marks = s.marks.Mark(revision.Mark{ElementIndex: p.ElementIndex, PriorText: p.PriorText, Note: p.Note})
	marks := s.marks.Marks()
	s.mu.Unlock()
	s.persistMarks(marks)
}

func (s *Session) onAcceptRevision(m bus.Message) {
	p := m.Payload.(bus.AcceptRevision)
	s.mu.Lock()
	s.marks = s.marks.Accept(p.ElementIndex)
	marks := s.marks.Marks()
	s.mu.Unlock()
	s.persistMarks(marks)
}

func (s *Session) onRejectRevision(m bus.Message) {
	p := m.Payload.(bus.RejectRevision)
	s.mu.Lock()
	doc := fountain.Parse(s.text)
	next, restored := s.marks.Reject(p.ElementIndex, doc.Elements)
	if next.Len() == s.marks.Len() {
		// no such mark
		s.mu.Unlock()
		return
	}
	s.marks = next
	marks := next.Marks()
	s.mu.Unlock()
	s.persistMarks(marks)

	doc.Elements = restored
	newText := fountain.Serialize(doc)
	if err := s.bus.Publish(bus.Message{Kind: bus.KindScriptChanged, Payload: bus.ScriptChanged{Doc: p.Doc, Text: newText, Origin: "revision"}}); err != nil {
		s.log.Error("publish restored script failed", slog.Any("err", err))
	}
	if err := s.bus.Publish(bus.Message{Kind: bus.KindSaveRequested, Payload: bus.SaveRequested{Doc: p.Doc}}); err != nil {
		s.log.Error("request save failed", slog.Any("err", err))
	}
}

func (s *Session) persistMarks(marks []revision.Mark) {
	if err := storage.SaveRevisionMarks(s.ph, marks); err != nil {
		s.log.Error("persist revision marks failed", slog.Any("err", err))
	}
}
