/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "visen/internal/log"
	"visen/internal/script"
	"visen/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	HistoryFileName = "history.sqlite"

	// schemaVersion tracks the history schema. Bump it together with a
	// new case in runMigrations.
	schemaVersion = 2

	// tsLayout is fixed-width so that ORDER BY ts sorts chronologically.
	tsLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrAmbiguousHash is returned by Snapshot when a hash prefix matches
// more than one stored script.
var ErrAmbiguousHash = errors.New("ambiguous snapshot hash")

// language=SQL
// dialect=SQLite
const insertBuildSQL = `INSERT INTO builds(ts, title, word_count, dialogue_word_count, blocked_seconds, runtime_seconds, text_hash)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT OR IGNORE INTO snapshots(text_hash, text) VALUES (?, ?)`

// language=SQL
// dialect=SQLite
const listBuildsSQL = `SELECT id, ts, title, word_count, dialogue_word_count, blocked_seconds, runtime_seconds, text_hash
FROM builds ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const selectSnapshotSQL = `SELECT text_hash, text FROM snapshots WHERE substr(text_hash, 1, ?) = ? ORDER BY text_hash LIMIT 2`

// language=SQL
// dialect=SQLite
const pruneBuildsSQL = `DELETE FROM builds WHERE id NOT IN (
	SELECT id FROM builds ORDER BY ts DESC, id DESC LIMIT ?
)`

// language=SQL
// dialect=SQLite
const pruneSnapshotsSQL = `DELETE FROM snapshots WHERE text_hash NOT IN (SELECT text_hash FROM builds)`

// BuildRecord is one row of build history.
type BuildRecord struct {
	ID                int64     `json:"id"`
	At                time.Time `json:"at"`
	Title             string    `json:"title"`
	WordCount         uint64    `json:"wordCount"`
	DialogueWordCount uint64    `json:"dialogueWordCount"`
	BlockedSeconds    uint64    `json:"blockedSeconds"`
	RuntimeSeconds    uint64    `json:"runtimeSeconds"`
	TextHash          string    `json:"textHash"`
}

// NewBuildRecord captures the metrics of s at time at.
func NewBuildRecord(s script.Script, at time.Time) BuildRecord {
	sum := sha256.Sum256([]byte(s.Text))
	return BuildRecord{
		At:                at.UTC(),
		Title:             s.Title,
		WordCount:         s.WordCount,
		DialogueWordCount: s.DialogueWordCount,
		BlockedSeconds:    s.BlockedSeconds,
		RuntimeSeconds:    s.RuntimeSeconds(),
		TextHash:          hex.EncodeToString(sum[:]),
	}
}

// History is the per-project build log at .visen/history.sqlite.
// It is derived data: deleting the file loses history, nothing else.
type History struct {
	db   *sql.DB
	path string
}

// HistoryPath returns the history database path for a project root.
func HistoryPath(projectRoot string) string {
	return filepath.Join(projectRoot, StateDirName, HistoryFileName)
}

// OpenHistory creates or opens the history database of ph, enables WAL
// and brings the schema up to date.
func OpenHistory(ctx context.Context, ph *ProjectHandle) (*History, error) {
	if ph == nil || strings.TrimSpace(ph.Root) == "" {
		return nil, errors.New("project root is required")
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "history_open").With(
		slog.String("root", ph.Root),
	)
	if err := os.MkdirAll(ph.StateDir(), 0o755); err != nil {
		l.Error("create state dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create %s dir: %w", StateDirName, err)
	}

	path := HistoryPath(ph.Root)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
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
	if err := ensureHistorySchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure history schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	h := &History{db: db, path: path}
	v, err := h.SchemaVersion(ctx)
	if err != nil {
		_ = db.Close()
		l.Error("read schema version failed", slog.Any("err", err))
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	l.Debug("history ready", slog.String("path", path), slog.Int("schema", v))
	return h, nil
}

// Close releases the database.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// Path returns the database file path.
func (h *History) Path() string { return h.path }

// Record appends rec and stores the script text under its hash (once per
// distinct text). The assigned row id is returned.
func (h *History) Record(ctx context.Context, rec BuildRecord, text string) (int64, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin record: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertSnapshotSQL, rec.TextHash, text); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	res, err := tx.ExecContext(ctx, insertBuildSQL,
		rec.At.UTC().Format(tsLayout), rec.Title,
		int64(rec.WordCount), int64(rec.DialogueWordCount),
		int64(rec.BlockedSeconds), int64(rec.RuntimeSeconds), rec.TextHash)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert build: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record: %w", err)
	}
	return res.LastInsertId()
}

// List returns up to limit most recent builds, newest first.
func (h *History) List(ctx context.Context, limit int) ([]BuildRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx, listBuildsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []BuildRecord
	for rows.Next() {
		var (
			rec                    BuildRecord
			ts                     string
			words, dlg, blk, total int64
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Title, &words, &dlg, &blk, &total, &rec.TextHash); err != nil {
			return nil, err
		}
		rec.At, _ = time.Parse(tsLayout, ts)
		rec.WordCount = uint64(words)
		rec.DialogueWordCount = uint64(dlg)
		rec.BlockedSeconds = uint64(blk)
		rec.RuntimeSeconds = uint64(total)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Latest returns the most recent build, or ok=false when there is none.
func (h *History) Latest(ctx context.Context) (BuildRecord, bool, error) {
	recs, err := h.List(ctx, 1)
	if err != nil || len(recs) == 0 {
		return BuildRecord{}, false, err
	}
	return recs[0], true, nil
}

// Snapshot returns the script text stored for hash. A unique prefix of
// the hash is enough; a prefix matching several snapshots yields
// ErrAmbiguousHash.
func (h *History) Snapshot(ctx context.Context, hash string) (string, error) {
	hash = strings.ToLower(strings.TrimSpace(hash))
	if hash == "" {
		return "", fmt.Errorf("snapshot: empty hash: %w", os.ErrNotExist)
	}
	rows, err := h.db.QueryContext(ctx, selectSnapshotSQL, len(hash), hash)
	if err != nil {
		return "", err
	}
	defer func() { _ = rows.Close() }()

	var text string
	found := 0
	for rows.Next() {
		var full string
		if err := rows.Scan(&full, &text); err != nil {
			return "", err
		}
		found++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch found {
	case 0:
		return "", fmt.Errorf("snapshot %s: %w", hash, os.ErrNotExist)
	case 1:
		return text, nil
	default:
		return "", fmt.Errorf("snapshot %s: %w", hash, ErrAmbiguousHash)
	}
}

// Prune keeps the keepLast most recent builds and drops snapshots no
// longer referenced. It returns the number of builds removed.
func (h *History) Prune(ctx context.Context, keepLast int) (int64, error) {
	if keepLast <= 0 {
		return 0, nil
	}
	res, err := h.db.ExecContext(ctx, pruneBuildsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := h.db.ExecContext(ctx, pruneSnapshotsSQL); err != nil {
			return n, err
		}
	}
	return n, nil
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
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fresh database: start at 1 and let runMigrations walk forward
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, 1, ?, ?, ?)`, appv, now, now); err != nil {
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

// ensureHistorySchema creates the schema 1 tables.
func ensureHistorySchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id                  INTEGER PRIMARY KEY,
			ts                  TEXT    NOT NULL,
			title               TEXT    NOT NULL,
			word_count          INTEGER NOT NULL,
			dialogue_word_count INTEGER NOT NULL,
			blocked_seconds     INTEGER NOT NULL,
			runtime_seconds     INTEGER NOT NULL,
			text_hash           TEXT    NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			text_hash TEXT PRIMARY KEY,
			text      TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create history schema: %w", err)
		}
	}
	return nil
}

// SchemaVersion reports the schema version stored in the database.
func (h *History) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := h.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&v)
	return v, err
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			stmts = []string{
				`CREATE INDEX IF NOT EXISTS idx_builds_ts ON builds(ts);`,
				`CREATE INDEX IF NOT EXISTS idx_builds_hash ON builds(text_hash);`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}
