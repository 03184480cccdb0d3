/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"goscreenwriter/internal/paginate"
	"goscreenwriter/internal/screenplay"
	"goscreenwriter/internal/storage"
)

// Screenplay page geometry, in points. US Letter with the customary
// 1.5in binding margin on the left, 1in everywhere else. Courier 12pt
// runs at 10 characters per inch, so one character cell is 7.2pt wide
// and one line is 12pt tall.
const (
	pageW      = 612.0
	pageH      = 792.0
	marginLeft = 108.0
	marginTop  = 72.0
	charW      = 7.2
	lineH      = 12.0
)

// indentChars gives the left indent of each element type in character
// cells from the binding margin, following standard screenplay layout.
var indentChars = map[screenplay.ElementType]int{
	screenplay.SceneHeading:  0,
	screenplay.Action:        0,
	screenplay.Character:     22,
	screenplay.Dialogue:      10,
	screenplay.Parenthetical: 16,
	screenplay.Transition:    45,
}

// PDFOptions controls PDF export behavior.
type PDFOptions struct {
	// SkipTitlePage suppresses the title page even when metadata exists.
	SkipTitlePage bool
	// RevisionMark is drawn in the right margin next to revised elements.
	// Defaults to "*".
	RevisionMark string
}

// WriteScriptPDF renders the document as a formatted screenplay PDF at
// outPath. A relative outPath is resolved under the project's exports
// folder. Page breaks follow the same layout the pagination engine
// reports, so the PDF page count matches the document statistics view.
func WriteScriptPDF(ph *storage.ProjectHandle, doc screenplay.Document, outPath string, opt PDFOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	if opt.RevisionMark == "" {
		opt.RevisionMark = "*"
	}

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(ph.Project.Title, false)
	pdf.SetAuthor(ph.Project.Metadata.Author, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Courier", "", 12)

	if !opt.SkipTitlePage {
		writeTitlePage(pdf, ph, doc.TitlePage)
	}

	layout := paginate.ComputeLayout(doc.Elements)
	curPage := 0
	for _, pl := range layout.Placements {
		el := doc.Elements[pl.ElementIndex]
		if el.Type == screenplay.PageBreak || el.Type == screenplay.Note {
			continue
		}
		for curPage < pl.Page {
			pdf.AddPage()
			curPage++
			if curPage > 1 {
				// page number, top right, per screenplay convention
				pdf.Text(pageW-72-2*charW, marginTop-24, fmt.Sprintf("%d.", curPage))
			}
		}
		drawElement(pdf, el, pl, opt.RevisionMark)
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawElement(pdf *gofpdf.Fpdf, el screenplay.Element, pl paginate.Placement, revMark string) {
	text := el.Text
	switch el.Type {
	case screenplay.SceneHeading:
		text = strings.ToUpper(text)
		if el.SceneNumber != "" {
			text = text + "  " + el.SceneNumber
		}
	case screenplay.Character:
		text = strings.ToUpper(text)
		if el.Dual {
			text += " ^"
		}
	case screenplay.Transition:
		text = strings.ToUpper(text)
	}

	width := wrapWidth(el.Type)
	lines := wrap(text, width)
	y := marginTop + float64(pl.Line)*lineH // baseline of the element's first line

	if el.Type == screenplay.Centered {
		for i, ln := range lines {
			x := marginLeft + (float64(60-len(ln))/2)*charW
			if x < marginLeft {
				x = marginLeft
			}
			pdf.Text(x, y+float64(i)*lineH, ln)
		}
		return
	}

	x := marginLeft + float64(indentChars[el.Type])*charW
	for i, ln := range lines {
		pdf.Text(x, y+float64(i)*lineH, ln)
	}
	if el.HasRevision {
		pdf.Text(pageW-72+2*charW, y, revMark)
	}
}

func writeTitlePage(pdf *gofpdf.Fpdf, ph *storage.ProjectHandle, tp *screenplay.TitlePage) {
	title := ph.Project.Title
	author := ph.Project.Metadata.Author
	credit := ph.Project.Metadata.Credit
	contact := ph.Project.Metadata.Contact
	draft := ph.Project.Metadata.DraftDate
	if tp != nil {
		if tp.Title != "" {
			title = tp.Title
		}
		if tp.Author != "" {
			author = tp.Author
		}
		if tp.Credit != "" {
			credit = tp.Credit
		}
		if tp.Contact != "" {
			contact = tp.Contact
		}
		if tp.DraftDate != "" {
			draft = tp.DraftDate
		}
	}
	if title == "" && author == "" {
		return
	}

	pdf.AddPage()
	centered := func(y float64, s string) {
		if s == "" {
			return
		}
		x := (pageW - float64(len(s))*charW) / 2
		pdf.Text(x, y, s)
	}
	centered(pageH*0.35, strings.ToUpper(title))
	centered(pageH*0.35+3*lineH, credit)
	centered(pageH*0.35+5*lineH, author)
	if draft != "" {
		pdf.Text(pageW-72-float64(len(draft))*charW, pageH-144, draft)
	}
	if contact != "" {
		pdf.Text(marginLeft-36, pageH-144, contact)
	}
}

func wrapWidth(t screenplay.ElementType) int {
	switch t {
	case screenplay.Character:
		return 38
	case screenplay.Dialogue:
		return 35
	case screenplay.Parenthetical:
		return 25
	default:
		return 60
	}
}

// wrap breaks s into lines of at most width characters at word
// boundaries; a single overlong word occupies its own line.
func wrap(s string, width int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{""}
	}
	words := strings.Fields(s)
	var lines []string
	cur := ""
	for _, w := range words {
		switch {
		case cur == "":
			cur = w
		case len(cur)+1+len(w) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
