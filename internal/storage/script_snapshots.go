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
	"time"
)

const (
	sqlInsertSnapshot = `INSERT INTO script_snapshots (ts, text) VALUES (?, ?);`
	sqlLatestSnapshot = `SELECT id, ts, text FROM script_snapshots ORDER BY id DESC LIMIT 1;`
	sqlListSnapshots  = `SELECT id, ts, length(text) FROM script_snapshots ORDER BY id DESC LIMIT ?;`
	sqlPruneSnapshots = `DELETE FROM script_snapshots WHERE id NOT IN (
		SELECT id FROM script_snapshots ORDER BY id DESC LIMIT ?
	);`
	sqlSnapshotHistory = `SELECT id, ts, text FROM (
		SELECT id, ts, text FROM script_snapshots ORDER BY id DESC LIMIT ?
	) ORDER BY id ASC;`
)

// Snapshot is a stored point-in-time copy of the script text.
type Snapshot struct {
	ID   int64
	TS   time.Time
	Text string
}

// SnapshotInfo is a listing row; the text itself is not loaded.
type SnapshotInfo struct {
	ID    int64
	TS    time.Time
	Bytes int64
}

// SaveSnapshot appends the script text to the snapshot history.
func SaveSnapshot(ctx context.Context, ph *ProjectHandle, text string) (int64, error) {
	if ph == nil {
		return 0, errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	res, err := db.ExecContext(ctx, sqlInsertSnapshot, time.Now().UTC().Format(time.RFC3339Nano), text)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent snapshot, or (nil, nil) when the
// history is empty.
func LatestSnapshot(ctx context.Context, ph *ProjectHandle) (*Snapshot, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	var s Snapshot
	var ts string
	err = db.QueryRowContext(ctx, sqlLatestSnapshot).Scan(&s.ID, &ts, &s.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	if t, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
		s.TS = t
	}
	return &s, nil
}

// ListSnapshots returns up to limit most-recent snapshot rows, newest first.
func ListSnapshots(ctx context.Context, ph *ProjectHandle, limit int) ([]SnapshotInfo, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, sqlListSnapshots, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var ts string
		if err := rows.Scan(&info.ID, &ts, &info.Bytes); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			info.TS = t
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// SnapshotHistory loads up to limit most-recent snapshots with their full
// text, ordered oldest first. Editing sessions replay it into their undo
// stacks on open.
func SnapshotHistory(ctx context.Context, ph *ProjectHandle, limit int) ([]Snapshot, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, sqlSnapshotHistory, limit)
	if err != nil {
		return nil, fmt.Errorf("snapshot history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var ts string
		if err := rows.Scan(&s.ID, &ts, &s.Text); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			s.TS = t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PruneSnapshots keeps only the newest keep rows.
func PruneSnapshots(ctx context.Context, ph *ProjectHandle, keep int) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if keep < 0 {
		keep = 0
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, sqlPruneSnapshots, keep); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
