/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package paginate computes page counts, per-element line costs, and
// scene/runtime statistics for a screenplay, reproducing the industry
// "1 page ≈ 1 minute" convention for US Letter at 12pt Courier.
package paginate

import (
	"strings"

	"goscreenwriter/internal/screenplay"
)

// LinesPerPage is the per-page line budget for US Letter, 12pt Courier,
// standard screenplay margins. The per-type wrap widths below are
// load-bearing in the same way: changing any of them changes page counts
// users compare against Final Draft output.
const LinesPerPage = 55

type lineCostEntry struct {
	Base         int // minimum lines the element occupies
	CharsPerLine int // wrap width in characters
}

var costTable = map[screenplay.ElementType]lineCostEntry{
	screenplay.SceneHeading:  {Base: 2, CharsPerLine: 60},
	screenplay.Action:        {Base: 1, CharsPerLine: 60},
	screenplay.Character:     {Base: 1, CharsPerLine: 38},
	screenplay.Dialogue:      {Base: 1, CharsPerLine: 35},
	screenplay.Parenthetical: {Base: 1, CharsPerLine: 25},
	screenplay.Transition:    {Base: 2, CharsPerLine: 60},
	screenplay.PageBreak:     {Base: LinesPerPage, CharsPerLine: 1},
}

var defaultCost = lineCostEntry{Base: 1, CharsPerLine: 60}

// Result holds derived document statistics. EstimatedRuntime is in minutes
// and equals PageCount under the one-page-one-minute heuristic.
type Result struct {
	PageCount        int `json:"pageCount"`
	LineCount        int `json:"lineCount"`
	SceneCount       int `json:"sceneCount"`
	EstimatedRuntime int `json:"estimatedRuntime"`
}

// LineCost returns the number of lines an element of the given type and text
// occupies: the larger of the type's base height and the character-wrapped
// height. Empty text costs exactly the base.
func LineCost(t screenplay.ElementType, text string) int {
	entry, ok := costTable[t]
	if !ok {
		entry = defaultCost
	}
	n := len(strings.TrimSpace(text))
	if n == 0 {
		return entry.Base
	}
	wrapped := (n + entry.CharsPerLine - 1) / entry.CharsPerLine
	if wrapped < entry.Base {
		return entry.Base
	}
	return wrapped
}

// Paginate accumulates line costs over the element sequence. A page-break
// element rounds the running total up to the next multiple of the page
// budget, forcing the following element onto a fresh page, rather than
// adding its own cost linearly. PageCount never drops below 1.
func Paginate(elements []screenplay.Element) Result {
	totalLines := 0
	sceneCount := 0
	for _, el := range elements {
		switch el.Type {
		case screenplay.PageBreak:
			if rem := totalLines % LinesPerPage; rem != 0 {
				totalLines += LinesPerPage - rem
			}
		case screenplay.SceneHeading:
			sceneCount++
			totalLines += LineCost(el.Type, el.Text)
		default:
			totalLines += LineCost(el.Type, el.Text)
		}
	}
	pageCount := (totalLines + LinesPerPage - 1) / LinesPerPage
	if pageCount < 1 {
		pageCount = 1
	}
	return Result{
		PageCount:        pageCount,
		LineCount:        totalLines,
		SceneCount:       sceneCount,
		EstimatedRuntime: pageCount,
	}
}
