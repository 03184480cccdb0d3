/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"strings"

	"goscreenwriter/internal/screenplay"
)

// Serialize renders a screenplay document back to Fountain text.
// Case normalization happens here: sluglines, cues, and transitions are
// uppercased on output while the stored model keeps the author's casing.
// The round-trip contract is element-level: Parse(Serialize(Parse(text)))
// yields the same element types and trimmed texts as Parse(text).
func Serialize(doc screenplay.Document) string {
	var b strings.Builder

	if tp := doc.TitlePage; tp != nil && !tp.IsZero() {
		writeTitleLine(&b, "Title", tp.Title)
		writeTitleLine(&b, "Credit", tp.Credit)
		writeTitleLine(&b, "Author", tp.Author)
		writeTitleLine(&b, "Source", tp.Source)
		writeTitleLine(&b, "Draft Date", tp.DraftDate)
		writeTitleLine(&b, "Contact", tp.Contact)
		b.WriteString("\n")
	}

	var lastType screenplay.ElementType
	lastWasDialogue := false
	first := b.Len() == 0

	for _, el := range doc.Elements {
		// a page-break already ends with its own separator line
		separated := first || lastType == screenplay.PageBreak
		switch el.Type {
		case screenplay.SceneHeading:
			if !separated {
				b.WriteString("\n")
			}
			line := strings.ToUpper(el.Text)
			if !screenplay.HasSluglinePrefix(el.Text) && !strings.HasPrefix(line, ".") {
				line = "." + line
			}
			if el.SceneNumber != "" {
				line += " #" + el.SceneNumber + "#"
			}
			b.WriteString(line + "\n")
		case screenplay.Character:
			if !lastWasDialogue && !separated {
				b.WriteString("\n")
			}
			line := strings.ToUpper(el.Text)
			if el.Dual {
				line += " ^"
			}
			b.WriteString(line + "\n")
		case screenplay.Parenthetical:
			text := el.Text
			if !strings.HasPrefix(text, "(") {
				text = "(" + text + ")"
			}
			b.WriteString(text + "\n")
		case screenplay.Dialogue:
			b.WriteString(el.Text + "\n")
		case screenplay.Transition:
			b.WriteString("> " + strings.ToUpper(el.Text) + "\n")
		case screenplay.Note:
			b.WriteString("[[" + el.Text + "]]\n")
		case screenplay.PageBreak:
			b.WriteString("\n===\n\n")
		case screenplay.Centered:
			b.WriteString(">" + el.Text + "<\n")
		default: // action, paragraph and anything unrecognized
			if !separated && lastType != screenplay.SceneHeading && !lastWasDialogue {
				b.WriteString("\n")
			}
			b.WriteString(el.Text + "\n")
		}
		lastType = el.Type
		lastWasDialogue = screenplay.IsDialogueBlock(el.Type)
		first = false
	}

	return b.String()
}

func writeTitleLine(b *strings.Builder, key, val string) {
	if val == "" {
		return
	}
	b.WriteString(key + ": " + val + "\n")
}
