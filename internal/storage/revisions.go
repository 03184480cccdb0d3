/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"goscreenwriter/internal/revision"
)

// RevisionsFileName is the pending-marks file inside the project index dir.
const RevisionsFileName = "revisions.json"

func revisionsPath(ph *ProjectHandle) string {
	return filepath.Join(ph.Root, IndexDirName, RevisionsFileName)
}

// LoadRevisionMarks reads the pending revision marks of a project.
// A missing file means no pending marks.
func LoadRevisionMarks(ph *ProjectHandle) ([]revision.Mark, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	b, err := os.ReadFile(revisionsPath(ph))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read revision marks: %w", err)
	}
	var marks []revision.Mark
	if err := json.Unmarshal(b, &marks); err != nil {
		return nil, fmt.Errorf("parse revision marks: %w", err)
	}
	return marks, nil
}

// SaveRevisionMarks persists the pending revision marks of a project,
// replacing the previous set. An empty set removes the file.
func SaveRevisionMarks(ph *ProjectHandle, marks []revision.Mark) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	path := revisionsPath(ph)
	if len(marks) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove revision marks: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure index dir: %w", err)
	}
	data, err := json.MarshalIndent(marks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal revision marks: %w", err)
	}
	return writeFileSync(path, append(data, '\n'))
}
