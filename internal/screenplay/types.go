/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package screenplay defines the canonical in-memory representation of a
// script: an ordered sequence of typed elements plus an optional title page.
// The Fountain and FDX codecs, the pagination engine, and the exporters all
// consume or produce this model; element order is the sole ordering signal.
package screenplay

import "strings"

// ElementType classifies one structural block of a screenplay.
type ElementType string

const (
	SceneHeading  ElementType = "scene-heading"
	Action        ElementType = "action"
	Character     ElementType = "character"
	Dialogue      ElementType = "dialogue"
	Parenthetical ElementType = "parenthetical"
	Transition    ElementType = "transition"
	Note          ElementType = "note"
	PageBreak     ElementType = "page-break"
	Centered      ElementType = "centered"
	TitlePageType ElementType = "title-page"
	Paragraph     ElementType = "paragraph"
)

// Element is the atomic unit of a screenplay.
//
// Text is stored trimmed of surrounding whitespace as typed by the author;
// case normalization (uppercased sluglines and cues) happens at serialization
// and render time, never in the stored model. A Character element acts as a
// dialogue cue only through adjacency: it must be immediately followed,
// ignoring at most one parenthetical, by a Dialogue element.
type Element struct {
	Type ElementType `json:"type"`
	Text string      `json:"text"`
	// SceneNumber carries Fountain's #...# scene number; scene headings only.
	SceneNumber string `json:"sceneNumber,omitempty"`
	// Dual marks a dual-dialogue cue (Fountain's trailing ^); characters only.
	Dual bool `json:"dual,omitempty"`
	// HasRevision flags the element for revision-asterisk marking in
	// pagination and PDF output.
	HasRevision bool `json:"hasRevision,omitempty"`
}

// TitlePage is the optional flat key/value block parsed from the leading
// Key: Value lines of a Fountain file. Unknown keys are dropped at parse time.
type TitlePage struct {
	Title     string `json:"title,omitempty"`
	Credit    string `json:"credit,omitempty"`
	Author    string `json:"author,omitempty"`
	Source    string `json:"source,omitempty"`
	DraftDate string `json:"draftDate,omitempty"`
	Contact   string `json:"contact,omitempty"`
}

// IsZero reports whether no title-page field is populated.
func (tp TitlePage) IsZero() bool {
	return tp.Title == "" && tp.Credit == "" && tp.Author == "" &&
		tp.Source == "" && tp.DraftDate == "" && tp.Contact == ""
}

// Document pairs an element sequence with its optional title page.
// All fields are transient; persistence is the storage layer's concern.
type Document struct {
	TitlePage *TitlePage `json:"titlePage,omitempty"`
	Elements  []Element  `json:"elements"`
}

// scene heading prefixes recognized by the Fountain conventions.
var sluglinePrefixes = []string{"INT./EXT", "INT/EXT", "I/E", "EST", "INT", "EXT"}

// HasSluglinePrefix reports whether s starts with a recognized INT/EXT-style
// scene heading prefix followed by a period or whitespace (case-insensitive).
func HasSluglinePrefix(s string) bool {
	u := strings.ToUpper(s)
	for _, p := range sluglinePrefixes {
		if !strings.HasPrefix(u, p) {
			continue
		}
		rest := u[len(p):]
		if rest == "" {
			continue
		}
		if rest[0] == '.' || rest[0] == ' ' || rest[0] == '\t' {
			return true
		}
	}
	return false
}

// IsDialogueBlock reports whether t belongs to a character/dialogue cluster.
func IsDialogueBlock(t ElementType) bool {
	return t == Character || t == Dialogue || t == Parenthetical
}
