/*
 * Copyright (c) 2025 by the Go Screenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/paginate"
	"goscreenwriter/internal/screenplay"
	"goscreenwriter/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores per-project ephemeral/index data under the root.
	IndexDirName  = ".gsw"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	schemaVersion = 2
)

// IndexPath returns the full path to the project's embedded index database.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures the per-project SQLite index exists at
// .gsw/index.sqlite, opens it in WAL mode, and brings the schema up to date.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .gsw dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .gsw dir: %w", err)
	}

	uriPath := filepath.ToSlash(IndexPath(projectRoot))
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("index ready", slog.String("path", uriPath))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS scenes (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			position      INTEGER NOT NULL,
			slugline      TEXT NOT NULL,
			scene_number  TEXT,
			page          INTEGER NOT NULL,
			line_count    INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS script_snapshots (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			ts    TEXT NOT NULL,
			text  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create index schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// never downgrade
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_scenes_position ON scenes(position);`,
				`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON script_snapshots(ts);`,
			}
			for _, q := range stmts {
				if _, err := db.ExecContext(ctx, q); err != nil {
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
		}
		if _, err := db.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		cur = next
	}
	return nil
}

// SceneEntry is one row of the scene index.
type SceneEntry struct {
	Position    int
	Slugline    string
	SceneNumber string
	Page        int
	LineCount   int
}

// RebuildSceneIndex replaces the scene index from the element sequence.
// Page numbers follow the pagination engine's accumulation so the index
// agrees with the reported document statistics.
func RebuildSceneIndex(ctx context.Context, ph *ProjectHandle, elements []screenplay.Element) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scenes`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear scenes: %w", err)
	}

	totalLines := 0
	for i, el := range elements {
		if el.Type == screenplay.PageBreak {
			if rem := totalLines % paginate.LinesPerPage; rem != 0 {
				totalLines += paginate.LinesPerPage - rem
			}
			continue
		}
		if el.Type == screenplay.SceneHeading {
			page := totalLines/paginate.LinesPerPage + 1
			cost := paginate.LineCost(el.Type, el.Text)
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO scenes(position, slugline, scene_number, page, line_count) VALUES (?, ?, ?, ?, ?)`,
				i, el.Text, el.SceneNumber, page, cost); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert scene: %w", err)
			}
		}
		totalLines += paginate.LineCost(el.Type, el.Text)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}

// Scenes returns the indexed scenes in document order.
func Scenes(ctx context.Context, ph *ProjectHandle) ([]SceneEntry, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `SELECT position, slugline, COALESCE(scene_number, ''), page, line_count FROM scenes ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query scenes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SceneEntry
	for rows.Next() {
		var s SceneEntry
		if err := rows.Scan(&s.Position, &s.Slugline, &s.SceneNumber, &s.Page, &s.LineCount); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
