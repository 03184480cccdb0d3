/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"strings"
	"testing"
)

func TestValidateManifestAccepts(t *testing.T) {
	cases := []string{
		`{"title":"Night Shift"}`,
		`{"title":"Night Shift","metadata":{}}`,
		`{"title":"Night Shift","metadata":{"author":"A. Reyes","credit":"written by","draftDate":"2025-11-02","revisionColor":"pink"}}`,
	}
	for _, c := range cases {
		if err := ValidateManifest([]byte(c)); err != nil {
			t.Fatalf("expected valid, got %v for %s", err, c)
		}
	}
}

func TestValidateManifestRejects(t *testing.T) {
	cases := []string{
		`{}`,                                   // title required
		`{"title":""}`,                         // title non-empty
		`{"title":"X","bogus":1}`,              // no extra top-level keys
		`{"title":"X","metadata":{"pages":5}}`, // no extra metadata keys
		`{"title":42}`,                         // wrong type
	}
	for _, c := range cases {
		if err := ValidateManifest([]byte(c)); err == nil {
			t.Fatalf("expected violation for %s", c)
		}
	}
}

func TestValidateManifestListsViolations(t *testing.T) {
	err := ValidateManifest([]byte(`{"bogus":1}`))
	if err == nil {
		t.Fatal("expected violations")
	}
	if !strings.Contains(err.Error(), "\n  - ") {
		t.Fatalf("expected one violation per line, got %q", err)
	}
}
