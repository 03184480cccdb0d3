/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package watch republishes external edits to the script files. When the
// writer changes screenplay.fountain (or a .fdx next to it) in another
// editor, the watcher debounces the burst of filesystem events and
// publishes the fresh text on the command bus.
package watch

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"goscreenwriter/internal/bus"
	"goscreenwriter/internal/fdx"
	"goscreenwriter/internal/fountain"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/screenplay"
)

// Options configures a Watcher.
type Options struct {
	// Debounce collapses event bursts per file. Default 500ms.
	Debounce time.Duration
	// Doc names the document in published messages. Default is the
	// watched directory base name.
	Doc string
}

// Watcher monitors a directory for screenplay file changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	bus      *bus.Bus
	doc      string
	debounce time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	done    chan struct{}
}

// New watches dir (non-recursive) and publishes on b.
func New(dir string, b *bus.Bus, opts Options) (*Watcher, error) {
	if b == nil {
		return nil, errors.New("watch: bus is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Doc == "" {
		opts.Doc = filepath.Base(dir)
	}
	w := &Watcher{
		fs:       fsw,
		bus:      b,
		doc:      opts.Doc,
		debounce: opts.Debounce,
		log:      applog.WithComponent("watch").With(slog.String("dir", dir)),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	go w.loop()
	w.log.Info("watching for script changes")
	return w, nil
}

// Close stops the watcher and cancels pending debounce timers.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !isScriptFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(ev.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", slog.Any("err", err))
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}
		w.publish(path)
	})
}

func (w *Watcher) publish(path string) {
	text, err := loadAsFountain(path)
	if err != nil {
		w.log.Warn("reload failed", slog.String("file", filepath.Base(path)), slog.Any("err", err))
		return
	}
	w.log.Info("script changed on disk", slog.String("file", filepath.Base(path)))
	if err := w.bus.Publish(bus.Message{
		Kind:    bus.KindScriptChanged,
		Payload: bus.ScriptChanged{Doc: w.doc, Text: text, Origin: "watcher"},
	}); err != nil {
		w.log.Warn("publish failed", slog.Any("err", err))
	}
}

// loadAsFountain reads a script file, converting Final Draft XML to
// Fountain text so downstream consumers see one format.
func loadAsFountain(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if strings.EqualFold(filepath.Ext(path), ".fdx") {
		elements, err := fdx.Parse(b)
		if err != nil {
			return "", err
		}
		return fountain.Serialize(screenplay.Document{Elements: elements}), nil
	}
	return string(b), nil
}

func isScriptFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".fountain" || ext == ".fdx"
}
