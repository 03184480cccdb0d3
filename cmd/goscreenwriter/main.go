/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"

	"goscreenwriter/internal/backend"
	"goscreenwriter/internal/bus"
	"goscreenwriter/internal/config"
	"goscreenwriter/internal/crash"
	"goscreenwriter/internal/diff"
	"goscreenwriter/internal/export"
	"goscreenwriter/internal/fdx"
	"goscreenwriter/internal/fountain"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/paginate"
	"goscreenwriter/internal/revision"
	"goscreenwriter/internal/screenplay"
	"goscreenwriter/internal/session"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/telemetry"
	"goscreenwriter/internal/version"
	"goscreenwriter/internal/watch"
)

func usage() {
	fmt.Println("Go Screenwriter")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  goscreenwriter version|-v|--version          Show version")
	fmt.Println("  goscreenwriter init <dir> <title>            Create a new screenplay project")
	fmt.Println("  goscreenwriter open <dir>                    Open project and print a summary")
	fmt.Println("  goscreenwriter stats <dir>                   Page/runtime estimate and scene table")
	fmt.Println("  goscreenwriter import <dir> <file>           Import a .fountain or .fdx file as the script")
	fmt.Println("  goscreenwriter export <dir> <fmt> [out]      Export fountain|fdx|pdf into exports/")
	fmt.Println("  goscreenwriter diff <dir> <file>             Compare the script against another draft")
	fmt.Println("  goscreenwriter mark <dir> <element> [note]   Flag an element as revised")
	fmt.Println("  goscreenwriter revisions <dir>               List pending revision marks")
	fmt.Println("  goscreenwriter accept <dir> <element>        Keep the change, clear the mark")
	fmt.Println("  goscreenwriter reject <dir> <element>        Restore the marked text, clear the mark")
	fmt.Println("  goscreenwriter undo <dir>                    Restore the previous draft (run again to switch back)")
	fmt.Println("  goscreenwriter pull <dir> <doc-id>           Fetch a shared draft from the sync service")
	fmt.Println("  goscreenwriter push <dir> <doc-id> [note]    Publish the script to the sync service")
	fmt.Println("  goscreenwriter watch <dir>                   Recompute stats on script changes")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	if len(args) < 2 {
		usage()
		return
	}
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Go Screenwriter")
		fmt.Println(version.String())
	case "init":
		if len(args) < 4 {
			fmt.Println("init requires <dir> and <title>")
			usage()
			os.Exit(2)
		}
		abs, _ := filepath.Abs(args[2])
		l.Info("init project", slog.String("root", abs), slog.String("title", args[3]))
		h, err := storage.InitProject(abs, storage.Project{Title: args[3]})
		if err != nil {
			fail(l, "init failed", err)
		}
		ph = h
		fmt.Println("Created project at", abs)
	case "open":
		ph = mustOpen(l, args, 3, "open requires <dir>")
		doc, stats := loadAndPaginate(l, ph)
		fmt.Printf("Opened project: %s\n", ph.Project.Title)
		fmt.Printf("Elements: %d  Scenes: %d  Pages: %d\n", len(doc.Elements), stats.SceneCount, stats.PageCount)
		fmt.Println("Root:", ph.Root)
	case "stats":
		ph = mustOpen(l, args, 3, "stats requires <dir>")
		runStats(l, ph)
	case "import":
		if len(args) < 4 {
			fmt.Println("import requires <dir> and <file>")
			usage()
			os.Exit(2)
		}
		ph = mustOpen(l, args, 3, "")
		runImport(l, ph, args[3])
	case "export":
		if len(args) < 4 {
			fmt.Println("export requires <dir> and <fmt>")
			usage()
			os.Exit(2)
		}
		ph = mustOpen(l, args, 3, "")
		out := ""
		if len(args) > 4 {
			out = args[4]
		}
		runExport(l, ph, args[3], out)
	case "diff":
		if len(args) < 4 {
			fmt.Println("diff requires <dir> and <file>")
			usage()
			os.Exit(2)
		}
		ph = mustOpen(l, args, 3, "")
		runDiff(l, ph, args[3])
	case "mark":
		if len(args) < 4 {
			fmt.Println("mark requires <dir> and <element>")
			usage()
			os.Exit(2)
		}
		ph = mustOpen(l, args, 3, "")
		note := ""
		if len(args) > 4 {
			note = strings.Join(args[4:], " ")
		}
		runMark(l, ph, args[3], note)
	case "revisions":
		ph = mustOpen(l, args, 3, "revisions requires <dir>")
		runRevisions(l, ph)
	case "accept":
		if len(args) < 4 {
			fmt.Println("accept requires <dir> and <element>")
			usage()
			os.Exit(2)
		}
		ph = mustOpen(l, args, 3, "")
		runResolve(l, ph, args[3], false)
	case "reject":
		if len(args) < 4 {
			fmt.Println("reject requires <dir> and <element>")
			usage()
			os.Exit(2)
		}
		ph = mustOpen(l, args, 3, "")
		runResolve(l, ph, args[3], true)
	case "undo":
		ph = mustOpen(l, args, 3, "undo requires <dir>")
		runUndo(l, ph)
	case "pull":
		if len(args) < 4 {
			fmt.Println("pull requires <dir> and <doc-id>")
			usage()
			os.Exit(2)
		}
		ph = mustOpen(l, args, 3, "")
		runPull(l, ph, args[3])
	case "push":
		if len(args) < 4 {
			fmt.Println("push requires <dir> and <doc-id>")
			usage()
			os.Exit(2)
		}
		ph = mustOpen(l, args, 3, "")
		note := ""
		if len(args) > 4 {
			note = strings.Join(args[4:], " ")
		}
		runPush(l, ph, args[3], note)
	case "watch":
		ph = mustOpen(l, args, 3, "watch requires <dir>")
		runWatch(l, ph)
	default:
		usage()
		os.Exit(2)
	}
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func mustOpen(l *slog.Logger, args []string, minLen int, hint string) *storage.ProjectHandle {
	if len(args) < minLen {
		if hint != "" {
			fmt.Println(hint)
		}
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[2])
	h, err := storage.Open(abs)
	if err != nil {
		fail(l, "open failed", err)
	}
	return h
}

func loadAndPaginate(l *slog.Logger, ph *storage.ProjectHandle) (screenplay.Document, paginate.Result) {
	text, err := storage.ReadScript(ph)
	if err != nil {
		fail(l, "read script failed", err)
	}
	doc := fountain.Parse(text)
	return doc, paginate.Paginate(doc.Elements)
}

func runStats(l *slog.Logger, ph *storage.ProjectHandle) {
	doc, stats := loadAndPaginate(l, ph)
	ctx := context.Background()
	if err := storage.RebuildSceneIndex(ctx, ph, doc.Elements); err != nil {
		fail(l, "rebuild scene index failed", err)
	}
	scenes, err := storage.Scenes(ctx, ph)
	if err != nil {
		fail(l, "read scene index failed", err)
	}

	fmt.Printf("%s\n\n", ph.Project.Title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Scene", "Page"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})
	for i, s := range scenes {
		num := s.SceneNumber
		if num == "" {
			num = strconv.Itoa(i + 1)
		}
		table.Append([]string{num, s.Slugline, strconv.Itoa(s.Page)})
	}
	table.SetFooter([]string{
		fmt.Sprintf("Scenes %d", stats.SceneCount),
		fmt.Sprintf("Lines %d", stats.LineCount),
		fmt.Sprintf("Pages %d (~%d min)", stats.PageCount, stats.EstimatedRuntime),
	})
	table.Render()
}

func runImport(l *slog.Logger, ph *storage.ProjectHandle, file string) {
	b, err := os.ReadFile(file)
	if err != nil {
		fail(l, "read import file failed", err)
	}
	var text string
	switch strings.ToLower(filepath.Ext(file)) {
	case ".fdx":
		elements, err := fdx.Parse(b)
		if err != nil {
			fail(l, "parse fdx failed", err)
		}
		text = fountain.Serialize(screenplay.Document{Elements: elements})
	case ".fountain", ".txt":
		text = string(b)
	default:
		fail(l, "import failed", fmt.Errorf("unsupported format %q", filepath.Ext(file)))
	}
	sess, mb := openSession(l, ph)
	if err := mb.Publish(bus.Message{Kind: bus.KindScriptChanged, Payload: bus.ScriptChanged{Doc: ph.Project.Title, Text: text, Origin: "import"}}); err != nil {
		fail(l, "import failed", err)
	}
	if err := sess.Save(context.Background()); err != nil {
		fail(l, "write script failed", err)
	}
	doc := fountain.Parse(text)
	stats := paginate.Paginate(doc.Elements)
	fmt.Printf("Imported %s: %d elements, %d pages\n", filepath.Base(file), len(doc.Elements), stats.PageCount)
	telemetry.Event("import", map[string]any{"format": strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")})
	telemetry.Flush(context.Background())
}

func openSession(l *slog.Logger, ph *storage.ProjectHandle) (*session.Session, *bus.Bus) {
	mb := bus.New()
	sess, err := session.Open(ph, mb)
	if err != nil {
		fail(l, "open session failed", err)
	}
	return sess, mb
}

func runExport(l *slog.Logger, ph *storage.ProjectHandle, format, out string) {
	doc, _ := loadAndPaginate(l, ph)
	marks, merr := storage.LoadRevisionMarks(ph)
	if merr != nil {
		fail(l, "load revision marks failed", merr)
	}
	if len(marks) > 0 {
		doc.Elements = revision.NewStore(marks...).Apply(doc.Elements)
	}
	base := strings.TrimSuffix(filepath.Base(storage.ScriptFileName), filepath.Ext(storage.ScriptFileName))
	var err error
	switch strings.ToLower(format) {
	case "fountain":
		if out == "" {
			out = base + ".fountain"
		}
		err = export.WriteFountain(ph, doc, out)
	case "fdx":
		if out == "" {
			out = base + ".fdx"
		}
		err = export.WriteFDX(ph, doc, out)
	case "pdf":
		if out == "" {
			out = base + ".pdf"
		}
		err = export.WriteScriptPDF(ph, doc, out, export.PDFOptions{})
	default:
		err = fmt.Errorf("unknown export format %q (want fountain, fdx or pdf)", format)
	}
	if err != nil {
		fail(l, "export failed", err)
	}
	fmt.Println("Exported", out)
	telemetry.Event("export", map[string]any{"format": strings.ToLower(format)})
	telemetry.Flush(context.Background())
}

func runDiff(l *slog.Logger, ph *storage.ProjectHandle, file string) {
	b, err := os.ReadFile(file)
	if err != nil {
		fail(l, "read comparison file failed", err)
	}
	_, mb := openSession(l, ph)
	mb.Subscribe(bus.KindDiffComputed, func(m bus.Message) {
		printDiff(m.Payload.(bus.DiffComputed).Rows)
	})
	if err := mb.Publish(bus.Message{Kind: bus.KindDiffRequested, Payload: bus.DiffRequested{Doc: ph.Project.Title, Comparison: string(b)}}); err != nil {
		fail(l, "diff failed", err)
	}
	telemetry.Event("diff", nil)
	telemetry.Flush(context.Background())
}

func runMark(l *slog.Logger, ph *storage.ProjectHandle, idxArg, note string) {
	sess, mb := openSession(l, ph)
	doc := fountain.Parse(sess.Text())
	idx := parseElementIndex(l, idxArg, len(doc.Elements))
	el := doc.Elements[idx]
	if err := mb.Publish(bus.Message{Kind: bus.KindMarkRevision, Payload: bus.MarkRevision{Doc: ph.Project.Title, ElementIndex: idx, PriorText: el.Text, Note: note}}); err != nil {
		fail(l, "mark failed", err)
	}
	fmt.Printf("Marked element %d (%s)\n", idx+1, el.Type)
}

func runRevisions(l *slog.Logger, ph *storage.ProjectHandle) {
	sess, _ := openSession(l, ph)
	marks := sess.Marks()
	if len(marks) == 0 {
		fmt.Println("no pending revision marks")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Element", "Note", "Marked Text"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for _, m := range marks {
		table.Append([]string{strconv.Itoa(m.ElementIndex + 1), m.Note, clip(m.PriorText, 48)})
	}
	table.Render()
}

func runResolve(l *slog.Logger, ph *storage.ProjectHandle, idxArg string, reject bool) {
	sess, mb := openSession(l, ph)
	doc := fountain.Parse(sess.Text())
	idx := parseElementIndex(l, idxArg, len(doc.Elements))
	marked := false
	for _, m := range sess.Marks() {
		if m.ElementIndex == idx {
			marked = true
			break
		}
	}
	if !marked {
		fmt.Printf("no pending mark on element %d\n", idx+1)
		os.Exit(1)
	}
	if reject {
		if err := mb.Publish(bus.Message{Kind: bus.KindRejectRevision, Payload: bus.RejectRevision{Doc: ph.Project.Title, ElementIndex: idx}}); err != nil {
			fail(l, "reject failed", err)
		}
		fmt.Printf("Rejected revision on element %d; marked text restored\n", idx+1)
		return
	}
	if err := mb.Publish(bus.Message{Kind: bus.KindAcceptRevision, Payload: bus.AcceptRevision{Doc: ph.Project.Title, ElementIndex: idx}}); err != nil {
		fail(l, "accept failed", err)
	}
	fmt.Printf("Accepted revision on element %d\n", idx+1)
}

func runUndo(l *slog.Logger, ph *storage.ProjectHandle) {
	sess, _ := openSession(l, ph)
	text, ok, err := sess.Undo(context.Background())
	if err != nil {
		fail(l, "undo failed", err)
	}
	if !ok {
		fmt.Println("nothing to undo: no earlier draft in the snapshot history")
		return
	}
	stats := paginate.Paginate(fountain.Parse(text).Elements)
	fmt.Printf("Restored previous draft: %d scenes, %d pages\n", stats.SceneCount, stats.PageCount)
}

func parseElementIndex(l *slog.Logger, arg string, n int) int {
	v, err := strconv.Atoi(arg)
	if err != nil || v < 1 || v > n {
		fail(l, "bad element number", fmt.Errorf("element %q out of range 1..%d", arg, n))
	}
	return v - 1
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func printDiff(rows []diff.Line) {
	changed := 0
	for _, r := range rows {
		switch r.Kind {
		case diff.Added:
			fmt.Printf("+ %s\n", r.RightText)
			changed++
		case diff.Removed:
			fmt.Printf("- %s\n", r.LeftText)
			changed++
		default:
			fmt.Printf("  %s\n", r.LeftText)
		}
	}
	if changed == 0 {
		fmt.Println("nothing to diff: drafts are identical")
		return
	}
	fmt.Printf("\n%d changed line(s)\n", changed)
}

func syncClient(l *slog.Logger) *backend.Client {
	cfg, token, err := config.Load()
	if err != nil {
		fail(l, "load config failed", err)
	}
	if token == "" {
		l.Debug("no stored sync token")
	}
	return backend.NewClient(cfg.Sync.BaseURL, token)
}

func runPull(l *slog.Logger, ph *storage.ProjectHandle, docArg string) {
	id, err := strconv.ParseInt(docArg, 10, 64)
	if err != nil {
		fail(l, "bad document id", err)
	}
	c := syncClient(l)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	env, err := c.FetchScript(ctx, id)
	if err != nil {
		fail(l, "fetch shared draft failed", err)
	}
	local, err := storage.ReadScript(ph)
	if err != nil {
		fail(l, "read script failed", err)
	}
	fmt.Printf("Shared draft r%d of document %d", env.Revision, env.DocumentID)
	if env.Note != "" {
		fmt.Printf(" (%s)", env.Note)
	}
	fmt.Println()
	printDiff(diff.Compute(local, env.Script))
}

func runPush(l *slog.Logger, ph *storage.ProjectHandle, docArg, note string) {
	id, err := strconv.ParseInt(docArg, 10, 64)
	if err != nil {
		fail(l, "bad document id", err)
	}
	text, err := storage.ReadScript(ph)
	if err != nil {
		fail(l, "read script failed", err)
	}
	c := syncClient(l)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	rev, err := c.PushScript(ctx, id, text, note)
	if err != nil {
		fail(l, "push failed", err)
	}
	fmt.Printf("Pushed revision %d of document %d\n", rev, id)
}

func runWatch(l *slog.Logger, ph *storage.ProjectHandle) {
	_, b := openSession(l, ph)
	b.Subscribe(bus.KindStatsUpdated, func(m bus.Message) {
		s := m.Payload.(bus.StatsUpdated).Stats
		fmt.Printf("[%s] scenes %d  lines %d  pages %d  ~%d min\n",
			time.Now().Format("15:04:05"), s.SceneCount, s.LineCount, s.PageCount, s.EstimatedRuntime)
	})

	scriptDir := filepath.Dir(storage.ScriptFilePath(ph))
	w, err := watch.New(scriptDir, b, watch.Options{Doc: ph.Project.Title})
	if err != nil {
		fail(l, "start watcher failed", err)
	}
	defer func() { _ = w.Close() }()

	fmt.Println("Watching", scriptDir, "(ctrl-c to stop)")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println("\nStopped.")
}
