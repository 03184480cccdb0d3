/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goscreenwriter/internal/screenplay"
	"goscreenwriter/internal/storage"
)

func testProject(t *testing.T) *storage.ProjectHandle {
	t.Helper()
	ph, err := storage.InitProject(t.TempDir(), storage.Project{
		Title:    "Night Shift",
		Metadata: storage.Metadata{Author: "A. Reyes", Credit: "written by", DraftDate: "2025-11-02"},
	})
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	return ph
}

func sampleDoc() screenplay.Document {
	return screenplay.Document{Elements: []screenplay.Element{
		{Type: screenplay.SceneHeading, Text: "INT. KITCHEN - DAY", SceneNumber: "1"},
		{Type: screenplay.Action, Text: "John stands by the window, coffee going cold in his hand."},
		{Type: screenplay.Character, Text: "JOHN"},
		{Type: screenplay.Parenthetical, Text: "(quietly)"},
		{Type: screenplay.Dialogue, Text: "I never said it would be easy.", HasRevision: true},
		{Type: screenplay.Transition, Text: "CUT TO:"},
	}}
}

func TestWriteScriptPDF(t *testing.T) {
	ph := testProject(t)
	out := "draft.pdf"
	if err := WriteScriptPDF(ph, sampleDoc(), out, PDFOptions{}); err != nil {
		t.Fatalf("WriteScriptPDF: %v", err)
	}
	full := filepath.Join(ph.Root, "exports", out)
	b, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("not a PDF, starts with %q", b[:8])
	}
	if len(b) < 500 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(b))
	}
}

func TestWriteScriptPDFNilHandle(t *testing.T) {
	if err := WriteScriptPDF(nil, sampleDoc(), "x.pdf", PDFOptions{}); err == nil {
		t.Fatal("expected error for nil handle")
	}
}

func TestWriteFountainCarriesManifestTitlePage(t *testing.T) {
	ph := testProject(t)
	if err := WriteFountain(ph, sampleDoc(), "draft.fountain"); err != nil {
		t.Fatalf("WriteFountain: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(ph.Root, "exports", "draft.fountain"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	text := string(b)
	if !strings.HasPrefix(text, "Title: Night Shift\n") {
		t.Fatalf("missing manifest title page:\n%s", text)
	}
	if !strings.Contains(text, "Author: A. Reyes") {
		t.Fatalf("missing author:\n%s", text)
	}
	if !strings.Contains(text, "INT. KITCHEN - DAY #1#") {
		t.Fatalf("missing slugline:\n%s", text)
	}
}

func TestWriteFDX(t *testing.T) {
	ph := testProject(t)
	if err := WriteFDX(ph, sampleDoc(), "draft.fdx"); err != nil {
		t.Fatalf("WriteFDX: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(ph.Root, "exports", "draft.fdx"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	text := string(b)
	for _, want := range []string{
		`<FinalDraft DocumentType="Script"`,
		`<Paragraph Type="Scene Heading">`,
		"Night Shift",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("export missing %q:\n%s", want, text)
		}
	}
}

func TestWithManifestTitlePagePrefersDocValues(t *testing.T) {
	ph := testProject(t)
	doc := sampleDoc()
	doc.TitlePage = &screenplay.TitlePage{Title: "Script Title Wins"}
	got := WithManifestTitlePage(ph, doc)
	if got.TitlePage.Title != "Script Title Wins" {
		t.Fatalf("title = %q", got.TitlePage.Title)
	}
	if got.TitlePage.Author != "A. Reyes" {
		t.Fatalf("author gap not filled: %q", got.TitlePage.Author)
	}
}

func TestWrap(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  []string
	}{
		{"", 10, []string{""}},
		{"hello", 10, []string{"hello"}},
		{"one two three", 7, []string{"one two", "three"}},
		{"supercalifragilistic", 5, []string{"supercalifragilistic"}},
	}
	for _, c := range cases {
		got := wrap(c.in, c.width)
		if len(got) != len(c.want) {
			t.Fatalf("wrap(%q,%d) = %v, want %v", c.in, c.width, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("wrap(%q,%d) = %v, want %v", c.in, c.width, got, c.want)
			}
		}
	}
}
