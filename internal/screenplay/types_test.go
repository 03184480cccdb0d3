/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHasSluglinePrefix(t *testing.T) {
	cases := map[string]bool{
		"INT. KITCHEN - DAY":  true,
		"EXT. STREET - NIGHT": true,
		"EST. CITY SKYLINE":   true,
		"I/E CAR - MOVING":    true,
		"INT./EXT. DOORWAY":   true,
		"INTERIOR MONOLOGUE":  false,
		"He walks in.":        false,
		"":                    false,
	}
	for text, want := range cases {
		if got := HasSluglinePrefix(text); got != want {
			t.Fatalf("HasSluglinePrefix(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestIsDialogueBlock(t *testing.T) {
	for _, typ := range []ElementType{Character, Dialogue, Parenthetical} {
		if !IsDialogueBlock(typ) {
			t.Fatalf("%s should be part of a dialogue block", typ)
		}
	}
	for _, typ := range []ElementType{SceneHeading, Action, Transition, Note} {
		if IsDialogueBlock(typ) {
			t.Fatalf("%s should not be part of a dialogue block", typ)
		}
	}
}

func TestElementJSONOmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(Element{Type: Action, Text: "He waits."})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, forbidden := range []string{"sceneNumber", "dual", "hasRevision"} {
		if strings.Contains(s, forbidden) {
			t.Fatalf("empty field %q serialized: %s", forbidden, s)
		}
	}
}

func TestTitlePageIsZero(t *testing.T) {
	if !(&TitlePage{}).IsZero() {
		t.Fatal("empty title page should be zero")
	}
	if (&TitlePage{Title: "X"}).IsZero() {
		t.Fatal("populated title page should not be zero")
	}
}
