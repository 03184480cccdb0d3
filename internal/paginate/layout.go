/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paginate

import "goscreenwriter/internal/screenplay"

// Placement records where an element lands on the printed page.
// Page numbers and line offsets are 1-based; Lines is the element's height.
type Placement struct {
	ElementIndex int
	Page         int
	Line         int
	Lines        int
}

// Layout is the page-placement pass used by the PDF exporter. Paginate stays
// the normative statistics path; Layout only decides where each element sits.
type Layout struct {
	Placements []Placement
	PageCount  int
}

// spacingBefore returns the blank lines inserted above an element. Elements
// are double-spaced except inside a dialogue cluster, which sets compactly.
func spacingBefore(prev, cur screenplay.ElementType) int {
	switch {
	case prev == screenplay.Character && cur == screenplay.Dialogue:
		return 0
	case prev == screenplay.Character && cur == screenplay.Parenthetical:
		return 0
	case prev == screenplay.Dialogue && cur == screenplay.Parenthetical:
		return 0
	case prev == screenplay.Parenthetical && cur == screenplay.Dialogue:
		return 0
	}
	return 1
}

// ComputeLayout walks the element sequence placing each element on a page.
// An element that does not fit in the remaining page space starts the next
// page; an explicit page-break element always does.
func ComputeLayout(elements []screenplay.Element) Layout {
	l := Layout{Placements: make([]Placement, 0, len(elements)), PageCount: 1}
	page := 1
	line := 0 // lines consumed on the current page

	var prev screenplay.ElementType
	for i, el := range elements {
		if el.Type == screenplay.PageBreak {
			if line > 0 {
				page++
				line = 0
			}
			prev = el.Type
			continue
		}

		if i > 0 && line > 0 {
			line += spacingBefore(prev, el.Type)
		}

		height := LineCost(el.Type, el.Text)
		if line+height > LinesPerPage {
			page++
			line = 0
		}
		l.Placements = append(l.Placements, Placement{
			ElementIndex: i,
			Page:         page,
			Line:         line + 1,
			Lines:        height,
		})
		line += height
		prev = el.Type
	}
	l.PageCount = page
	return l
}
