/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fountain parses and serializes the Fountain plain-text screenplay
// markup. Parsing never fails hard: unrecognized lines fall through to the
// action bucket. Classification is a fixed priority chain of guard clauses
// with one line of lookahead; the order is load-bearing and must not be
// rearranged (reordering changes how ambiguous lines classify).
package fountain

import (
	"regexp"
	"strings"
	"unicode"

	"goscreenwriter/internal/screenplay"
)

// Patterns. The character pattern matches any letter case; the caps
// requirement (unforced cues must already be upper-case) is enforced
// separately so that forced @cues may use mixed case (e.g. @McAvoy).
var (
	reTitleKV   = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 _-]*):\s*(.*)$`)
	reNote      = regexp.MustCompile(`^\[\[(.+)\]\]$`)
	reCentered  = regexp.MustCompile(`^>\s*(.*?)\s*<$`)
	reSceneNum  = regexp.MustCompile(`^(.*?)\s+#([^#]+)#$`)
	reCharacter = regexp.MustCompile(`^(@)?([A-Za-z0-9 .\-']+?)(\s*\([^()]*\))?\s*(\^)?$`)
	reParen     = regexp.MustCompile(`^\(.*\)$`)
)

// Parse converts raw Fountain text into a screenplay document.
// CRLF is normalized to LF before the line scan.
func Parse(text string) screenplay.Document {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	doc := screenplay.Document{Elements: []screenplay.Element{}}
	i := 0

	if tp, consumed := parseTitlePage(lines); consumed > 0 {
		doc.TitlePage = tp
		i = consumed
	}

	// currentCharacter is non-empty while inside a dialogue block; any blank
	// line or scene heading closes the block.
	currentCharacter := ""
	inBoneyard := false

	for ; i < len(lines); i++ {
		trim := strings.TrimSpace(lines[i])

		if trim == "" {
			currentCharacter = ""
			continue
		}

		// Boneyard /* ... */ comments swallow everything inside.
		if inBoneyard {
			if strings.Contains(trim, "*/") {
				inBoneyard = false
			}
			continue
		}
		if strings.Contains(trim, "/*") {
			if !strings.Contains(trim[strings.Index(trim, "/*")+2:], "*/") {
				inBoneyard = true
			}
			continue
		}

		if m := reNote.FindStringSubmatch(trim); m != nil {
			doc.Elements = append(doc.Elements, screenplay.Element{Type: screenplay.Note, Text: strings.TrimSpace(m[1])})
			continue
		}

		if trim == "===" {
			doc.Elements = append(doc.Elements, screenplay.Element{Type: screenplay.PageBreak})
			continue
		}

		if m := reCentered.FindStringSubmatch(trim); m != nil {
			doc.Elements = append(doc.Elements, screenplay.Element{Type: screenplay.Centered, Text: m[1]})
			continue
		}

		if strings.HasPrefix(trim, ">") && !strings.HasSuffix(trim, "<") {
			doc.Elements = append(doc.Elements, screenplay.Element{Type: screenplay.Transition, Text: strings.TrimSpace(trim[1:])})
			continue
		}

		// Unforced transition convention: FULL CAPS ending in TO:
		if isAllCaps(trim) && strings.HasSuffix(trim, "TO:") {
			doc.Elements = append(doc.Elements, screenplay.Element{Type: screenplay.Transition, Text: trim})
			continue
		}

		if el, ok := matchSceneHeading(trim); ok {
			doc.Elements = append(doc.Elements, el)
			currentCharacter = ""
			continue
		}

		if el, name, ok := matchCharacterCue(trim, peek(lines, i+1)); ok {
			doc.Elements = append(doc.Elements, el)
			currentCharacter = name
			continue
		}

		if currentCharacter != "" && reParen.MatchString(trim) {
			doc.Elements = append(doc.Elements, screenplay.Element{Type: screenplay.Parenthetical, Text: trim})
			continue
		}

		if currentCharacter != "" {
			doc.Elements = append(doc.Elements, screenplay.Element{Type: screenplay.Dialogue, Text: trim})
			continue
		}

		doc.Elements = append(doc.Elements, screenplay.Element{Type: screenplay.Action, Text: trim})
	}

	return doc
}

// parseTitlePage consumes the leading Key: Value block. It is attempted only
// when line 0 contains a colon; consumption stops at the first blank or
// non-matching line. If no known key is recognized the block is left alone
// and classification restarts at line 0, so a leading "CUT TO:" is not eaten
// by title-page detection (see DESIGN.md for this decision).
func parseTitlePage(lines []string) (*screenplay.TitlePage, int) {
	if len(lines) == 0 || !strings.Contains(lines[0], ":") {
		return nil, 0
	}
	tp := &screenplay.TitlePage{}
	known := 0
	i := 0
	for ; i < len(lines); i++ {
		trim := strings.TrimSpace(lines[i])
		if trim == "" {
			i++
			break
		}
		m := reTitleKV.FindStringSubmatch(trim)
		if m == nil {
			break
		}
		val := strings.TrimSpace(m[2])
		switch normalizeTitleKey(m[1]) {
		case "title":
			tp.Title = val
			known++
		case "credit":
			tp.Credit = val
			known++
		case "author", "authors":
			tp.Author = val
			known++
		case "source":
			tp.Source = val
			known++
		case "draftdate", "date":
			tp.DraftDate = val
			known++
		case "contact":
			tp.Contact = val
			known++
		default:
			// unknown keys are dropped
		}
	}
	if known == 0 {
		return nil, 0
	}
	return tp, i
}

func normalizeTitleKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), " ", "")
}

// matchSceneHeading recognizes forced (leading dot) and conventional
// (INT/EXT-prefixed) sluglines, splitting off a trailing #scene number#.
func matchSceneHeading(trim string) (screenplay.Element, bool) {
	forced := strings.HasPrefix(trim, ".") && !strings.HasPrefix(trim, "..")
	body := trim
	if forced {
		body = strings.TrimSpace(trim[1:])
	}
	if body == "" {
		return screenplay.Element{}, false
	}
	if !forced && !screenplay.HasSluglinePrefix(body) {
		return screenplay.Element{}, false
	}
	el := screenplay.Element{Type: screenplay.SceneHeading, Text: body}
	if m := reSceneNum.FindStringSubmatch(body); m != nil {
		el.Text = strings.TrimSpace(m[1])
		el.SceneNumber = m[2]
	}
	return el, true
}

// matchCharacterCue accepts a cue when it is forced with @ or the name is
// already all caps, and the lookahead line is non-blank and is either a
// parenthetical or not itself a bare all-caps line. The lookahead keeps
// standalone caps action lines (followed by more caps or nothing) out of the
// character bucket.
func matchCharacterCue(trim, next string) (screenplay.Element, string, bool) {
	m := reCharacter.FindStringSubmatch(trim)
	if m == nil {
		return screenplay.Element{}, "", false
	}
	forced := m[1] == "@"
	name := strings.TrimSpace(m[2])
	ext := strings.TrimSpace(m[3])
	dual := m[4] == "^"
	if name == "" {
		return screenplay.Element{}, "", false
	}
	if !forced && !isAllCaps(name) {
		return screenplay.Element{}, "", false
	}
	next = strings.TrimSpace(next)
	if next == "" {
		return screenplay.Element{}, "", false
	}
	if !reParen.MatchString(next) && isAllCaps(next) {
		return screenplay.Element{}, "", false
	}
	text := name
	if ext != "" {
		text += " " + ext
	}
	return screenplay.Element{Type: screenplay.Character, Text: text, Dual: dual}, name, true
}

func peek(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}

// isAllCaps reports whether s contains at least one letter and no lower-case
// letters.
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
