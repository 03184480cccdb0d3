/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package diff computes a line-level alignment between two document texts
// using a longest-common-subsequence table. Equality is exact string
// equality: no normalization, no fuzzy matching. The diff is binary — a
// changed line appears as a removed/added pair; the Modified kind exists in
// the vocabulary for UI callers but is never produced here.
package diff

import "strings"

// Kind classifies one row of the two-pane comparison.
type Kind string

const (
	Unchanged Kind = "unchanged"
	Added     Kind = "added"
	Removed   Kind = "removed"
	Modified  Kind = "modified"
)

// Line is one row of the comparison. Line numbers are 1-based and advance
// only on the side that contributed a physical line; 0 means no number.
type Line struct {
	Kind         Kind   `json:"type"`
	LeftText     string `json:"leftText"`
	RightText    string `json:"rightText"`
	LeftLineNum  int    `json:"leftLineNum,omitempty"`
	RightLineNum int    `json:"rightLineNum,omitempty"`
}

// Compute aligns the two texts line by line. Output ordering at each match:
// removed left lines first, then added right lines, then the unchanged match
// itself; trailing unmatched lines flush in the same order.
func Compute(current, comparison string) []Line {
	left := strings.Split(current, "\n")
	right := strings.Split(comparison, "\n")
	m, n := len(left), len(right)

	// dp[i][j] = LCS length of left[0..i) and right[0..j).
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if left[i-1] == right[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] > dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	// Backtrack to matched index pairs. On ties the left-reduction wins only
	// when dp[i-1][j] is strictly larger; equal cells move left. This
	// tie-break decides which side gets credit for ambiguous alignments and
	// is part of the output contract.
	type pair struct{ li, ri int }
	var matches []pair
	i, j := m, n
	for i > 0 && j > 0 {
		if left[i-1] == right[j-1] {
			matches = append(matches, pair{i - 1, j - 1})
			i--
			j--
		} else if dp[i-1][j] > dp[i][j-1] {
			i--
		} else {
			j--
		}
	}
	// reverse into document order
	for a, b := 0, len(matches)-1; a < b; a, b = a+1, b-1 {
		matches[a], matches[b] = matches[b], matches[a]
	}

	out := make([]Line, 0, m+n)
	leftNum, rightNum := 0, 0
	li, ri := 0, 0
	emitGap := func(untilLeft, untilRight int) {
		for ; li < untilLeft; li++ {
			leftNum++
			out = append(out, Line{Kind: Removed, LeftText: left[li], LeftLineNum: leftNum})
		}
		for ; ri < untilRight; ri++ {
			rightNum++
			out = append(out, Line{Kind: Added, RightText: right[ri], RightLineNum: rightNum})
		}
	}
	for _, mt := range matches {
		emitGap(mt.li, mt.ri)
		leftNum++
		rightNum++
		out = append(out, Line{
			Kind:         Unchanged,
			LeftText:     left[mt.li],
			RightText:    right[mt.ri],
			LeftLineNum:  leftNum,
			RightLineNum: rightNum,
		})
		li, ri = mt.li+1, mt.ri+1
	}
	emitGap(m, n)
	return out
}
