/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes the screenplay out in its interchange formats
// (Fountain, Final Draft XML, formatted PDF) under the project's exports
// folder.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"goscreenwriter/internal/fdx"
	"goscreenwriter/internal/fountain"
	"goscreenwriter/internal/screenplay"
	"goscreenwriter/internal/storage"
)

// WithManifestTitlePage fills gaps in the document title page from the
// project manifest, so exports carry the metadata even when the script
// text itself has no title page block.
func WithManifestTitlePage(ph *storage.ProjectHandle, doc screenplay.Document) screenplay.Document {
	if ph == nil {
		return doc
	}
	tp := screenplay.TitlePage{}
	if doc.TitlePage != nil {
		tp = *doc.TitlePage
	}
	if tp.Title == "" {
		tp.Title = ph.Project.Title
	}
	m := ph.Project.Metadata
	if tp.Author == "" {
		tp.Author = m.Author
	}
	if tp.Credit == "" {
		tp.Credit = m.Credit
	}
	if tp.Source == "" {
		tp.Source = m.Source
	}
	if tp.Contact == "" {
		tp.Contact = m.Contact
	}
	if tp.DraftDate == "" {
		tp.DraftDate = m.DraftDate
	}
	if !tp.IsZero() {
		doc.TitlePage = &tp
	}
	return doc
}

// WriteFountain serializes the document to Fountain text at outPath.
// Relative paths land under exports/.
func WriteFountain(ph *storage.ProjectHandle, doc screenplay.Document, outPath string) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	text := fountain.Serialize(WithManifestTitlePage(ph, doc))
	return writeExportFile(ph, outPath, []byte(text))
}

// WriteFDX serializes the document's elements to Final Draft XML at
// outPath. Relative paths land under exports/.
func WriteFDX(ph *storage.ProjectHandle, doc screenplay.Document, outPath string) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	title := ph.Project.Title
	if doc.TitlePage != nil && doc.TitlePage.Title != "" {
		title = doc.TitlePage.Title
	}
	text := fdx.Serialize(doc.Elements, title)
	return writeExportFile(ph, outPath, []byte(text))
}

func writeExportFile(ph *storage.ProjectHandle, outPath string, data []byte) error {
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
