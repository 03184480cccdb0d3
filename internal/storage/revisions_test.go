/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"testing"

	"goscreenwriter/internal/revision"
)

func TestRevisionMarksRoundTrip(t *testing.T) {
	ph := newTestProject(t)

	marks, err := LoadRevisionMarks(ph)
	if err != nil {
		t.Fatalf("LoadRevisionMarks on fresh project: %v", err)
	}
	if len(marks) != 0 {
		t.Fatalf("fresh project should have no marks, got %+v", marks)
	}

	want := []revision.Mark{
		{ElementIndex: 1, PriorText: "Alice pours coffee.", Note: "blue draft"},
		{ElementIndex: 4, PriorText: "CUT TO:"},
	}
	if err := SaveRevisionMarks(ph, want); err != nil {
		t.Fatalf("SaveRevisionMarks: %v", err)
	}
	got, err := LoadRevisionMarks(ph)
	if err != nil {
		t.Fatalf("LoadRevisionMarks: %v", err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestSaveRevisionMarksEmptyRemovesFile(t *testing.T) {
	ph := newTestProject(t)
	if err := SaveRevisionMarks(ph, []revision.Mark{{ElementIndex: 0, PriorText: "x"}}); err != nil {
		t.Fatalf("SaveRevisionMarks: %v", err)
	}
	if _, err := os.Stat(revisionsPath(ph)); err != nil {
		t.Fatalf("marks file missing after save: %v", err)
	}
	if err := SaveRevisionMarks(ph, nil); err != nil {
		t.Fatalf("SaveRevisionMarks(nil): %v", err)
	}
	if _, err := os.Stat(revisionsPath(ph)); !os.IsNotExist(err) {
		t.Fatalf("marks file should be gone, stat err=%v", err)
	}
	marks, err := LoadRevisionMarks(ph)
	if err != nil || len(marks) != 0 {
		t.Fatalf("cleared marks should load empty, got %+v err=%v", marks, err)
	}
}
