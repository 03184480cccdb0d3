/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paginate

import (
	"strings"
	"testing"

	"goscreenwriter/internal/screenplay"
)

func TestLineCostBaseAndWrap(t *testing.T) {
	cases := []struct {
		typ  screenplay.ElementType
		text string
		want int
	}{
		{screenplay.SceneHeading, "INT. KITCHEN - DAY", 2},
		{screenplay.SceneHeading, "", 2},
		{screenplay.Action, "Short.", 1},
		{screenplay.Action, strings.Repeat("x", 60), 1},
		{screenplay.Action, strings.Repeat("x", 61), 2},
		{screenplay.Dialogue, strings.Repeat("x", 71), 3},
		{screenplay.Character, strings.Repeat("x", 38), 1},
		{screenplay.Parenthetical, strings.Repeat("x", 26), 2},
		{screenplay.Transition, "CUT TO:", 2},
		{screenplay.Paragraph, "plain text", 1},
		{screenplay.Note, "note text", 1}, // default entry
	}
	for _, c := range cases {
		if got := LineCost(c.typ, c.text); got != c.want {
			t.Fatalf("LineCost(%s, %d chars): expected %d, got %d", c.typ, len(c.text), c.want, got)
		}
	}
}

func TestLineCostTrimsText(t *testing.T) {
	if got := LineCost(screenplay.Action, "   \t "); got != 1 {
		t.Fatalf("whitespace-only text should cost the base, got %d", got)
	}
}

func TestPaginateEmptyDocumentFloor(t *testing.T) {
	res := Paginate(nil)
	if res.PageCount != 1 {
		t.Fatalf("expected pageCount floor 1, got %d", res.PageCount)
	}
	if res.LineCount != 0 || res.SceneCount != 0 {
		t.Fatalf("unexpected stats: %+v", res)
	}
	if res.EstimatedRuntime != res.PageCount {
		t.Fatalf("runtime must equal page count: %+v", res)
	}
}

func TestPaginateFiftyFiveActionLines(t *testing.T) {
	elements := make([]screenplay.Element, 0, 56)
	for i := 0; i < 55; i++ {
		elements = append(elements, screenplay.Element{Type: screenplay.Action, Text: "A line under sixty characters."})
	}
	if res := Paginate(elements); res.PageCount != 1 {
		t.Fatalf("55 lines should fit one page, got %d", res.PageCount)
	}
	elements = append(elements, screenplay.Element{Type: screenplay.Action, Text: "The fifty-sixth line."})
	if res := Paginate(elements); res.PageCount != 2 {
		t.Fatalf("56th line should push to page 2, got %d", res.PageCount)
	}
}

func TestPaginateSceneCount(t *testing.T) {
	elements := []screenplay.Element{
		{Type: screenplay.SceneHeading, Text: "INT. A - DAY"},
		{Type: screenplay.Action, Text: "One."},
		{Type: screenplay.SceneHeading, Text: "EXT. B - NIGHT"},
		{Type: screenplay.Action, Text: "Two."},
	}
	res := Paginate(elements)
	if res.SceneCount != 2 {
		t.Fatalf("expected 2 scenes, got %d", res.SceneCount)
	}
	if res.LineCount != 6 {
		t.Fatalf("expected 6 lines, got %d", res.LineCount)
	}
}

func TestPageBreakRoundsUpToPageBoundary(t *testing.T) {
	elements := []screenplay.Element{
		{Type: screenplay.Action, Text: "Ten."}, // 1 line
		{Type: screenplay.PageBreak},
		{Type: screenplay.Action, Text: "Fresh page."},
	}
	res := Paginate(elements)
	if res.LineCount != 56 {
		t.Fatalf("page break should round to 55 then add 1, got %d", res.LineCount)
	}
	if res.PageCount != 2 {
		t.Fatalf("expected 2 pages, got %d", res.PageCount)
	}
}

func TestPageBreakAtExactBoundaryIsIdempotent(t *testing.T) {
	elements := make([]screenplay.Element, 0, 56)
	for i := 0; i < 55; i++ {
		elements = append(elements, screenplay.Element{Type: screenplay.Action, Text: "x"})
	}
	elements = append(elements, screenplay.Element{Type: screenplay.PageBreak})
	if res := Paginate(elements); res.LineCount != 55 {
		t.Fatalf("break at exact boundary must not add lines, got %d", res.LineCount)
	}
}

func TestPaginateMonotonicity(t *testing.T) {
	elements := []screenplay.Element{}
	prev := Paginate(elements).PageCount
	adds := []screenplay.Element{
		{Type: screenplay.SceneHeading, Text: "INT. ROOM - DAY"},
		{Type: screenplay.Character, Text: "ANA"},
		{Type: screenplay.Dialogue, Text: strings.Repeat("word ", 40)},
		{Type: screenplay.PageBreak},
		{Type: screenplay.Action, Text: strings.Repeat("action ", 30)},
	}
	for _, el := range adds {
		elements = append(elements, el)
		cur := Paginate(elements).PageCount
		if cur < prev {
			t.Fatalf("page count decreased after appending %s: %d -> %d", el.Type, prev, cur)
		}
		prev = cur
	}
}

func TestComputeLayoutCompactDialogue(t *testing.T) {
	elements := []screenplay.Element{
		{Type: screenplay.SceneHeading, Text: "INT. ROOM - DAY"}, // 2 lines at line 1
		{Type: screenplay.Character, Text: "ANA"},               // spacer + 1
		{Type: screenplay.Dialogue, Text: "Hi."},                // compact, no spacer
		{Type: screenplay.Parenthetical, Text: "(beat)"},        // compact
		{Type: screenplay.Dialogue, Text: "Bye."},               // compact
	}
	l := ComputeLayout(elements)
	if l.PageCount != 1 {
		t.Fatalf("expected 1 page, got %d", l.PageCount)
	}
	lines := []int{1, 4, 5, 6, 7}
	for i, p := range l.Placements {
		if p.Line != lines[i] {
			t.Fatalf("placement %d: expected line %d, got %d (%+v)", i, lines[i], p.Line, l.Placements)
		}
	}
}

func TestComputeLayoutPageBreakStartsFreshPage(t *testing.T) {
	elements := []screenplay.Element{
		{Type: screenplay.Action, Text: "One."},
		{Type: screenplay.PageBreak},
		{Type: screenplay.Action, Text: "Two."},
	}
	l := ComputeLayout(elements)
	if len(l.Placements) != 2 {
		t.Fatalf("page break must not be placed: %+v", l.Placements)
	}
	if l.Placements[0].Page != 1 || l.Placements[1].Page != 2 {
		t.Fatalf("expected pages 1 and 2: %+v", l.Placements)
	}
	if l.Placements[1].Line != 1 {
		t.Fatalf("element after break must start at line 1: %+v", l.Placements[1])
	}
}

func TestComputeLayoutOverflowBreaks(t *testing.T) {
	elements := make([]screenplay.Element, 0, 40)
	for i := 0; i < 30; i++ {
		elements = append(elements, screenplay.Element{Type: screenplay.Action, Text: "line"})
	}
	l := ComputeLayout(elements)
	// 30 single-line elements with a blank spacer between each: 59 lines.
	if l.PageCount != 2 {
		t.Fatalf("expected overflow onto page 2, got %d pages", l.PageCount)
	}
}
