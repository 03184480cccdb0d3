/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// manifestSchema validates screenplay.json before any save or after a load
// from an untrusted copy (restored backup, synced document).
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Screenplay project manifest",
  "type": "object",
  "required": ["title"],
  "additionalProperties": false,
  "properties": {
    "title": { "type": "string", "minLength": 1 },
    "metadata": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "author":        { "type": "string" },
        "credit":        { "type": "string" },
        "source":        { "type": "string" },
        "contact":       { "type": "string" },
        "draftDate":     { "type": "string" },
        "revisionColor": { "type": "string" }
      }
    }
  }
}`

// ValidateManifest checks raw manifest JSON against the project schema.
// The returned error lists every violation, one per line.
func ValidateManifest(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("manifest validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var b strings.Builder
	b.WriteString("manifest is not valid:")
	for _, e := range result.Errors() {
		b.WriteString("\n  - ")
		b.WriteString(e.String())
	}
	return fmt.Errorf("%s", b.String())
}
