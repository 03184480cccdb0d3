/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"os"
	"path/filepath"
)

// ScriptFileName is the canonical Fountain source inside the project.
const ScriptFileName = "screenplay.fountain"

// ScriptFilePath returns the path of the project's script file, or "" for a
// nil handle.
func ScriptFilePath(ph *ProjectHandle) string {
	if ph == nil {
		return ""
	}
	return filepath.Join(ph.Root, "script", ScriptFileName)
}

// ReadScript returns the script text, or empty string if the file does not
// exist yet.
func ReadScript(ph *ProjectHandle) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	b, err := os.ReadFile(ScriptFilePath(ph))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(b), nil
}

// WriteScript persists the script text, creating the script folder if
// needed.
func WriteScript(ph *ProjectHandle, text string) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	p := ScriptFilePath(ph)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return writeFileSync(p, []byte(text))
}
