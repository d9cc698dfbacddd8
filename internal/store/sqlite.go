package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/CK3thou/youtube-transcripts/types"
)

var schema = []string{`CREATE TABLE IF NOT EXISTS transcripts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id   TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	video_id   TEXT NOT NULL,
	title      TEXT NOT NULL,
	url        TEXT NOT NULL,
	transcript TEXT NOT NULL,
	created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_transcripts_video ON transcripts(video_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transcripts_batch ON transcripts(batch_id, seq)`,
}

// ArchivedTranscript is one row of the archive.
type ArchivedTranscript struct {
	ID         int64
	BatchID    string
	Seq        int
	VideoID    string
	Title      string
	URL        string
	Transcript string
	CreatedAt  string
}

// SQLiteArchive appends transcripts to a local SQLite database.
type SQLiteArchive struct {
	db      *sql.DB
	batchID string
}

// OpenSQLite opens (or creates) the archive at path. Every archive value gets
// a fresh batch id; use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteArchive, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("archive: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("archive: schema: %w", err)
		}
	}
	return &SQLiteArchive{db: db, batchID: uuid.NewString()}, nil
}

// BatchID identifies the rows written through this archive value.
func (a *SQLiteArchive) BatchID() string { return a.batchID }

// Persist implements Persister.
func (a *SQLiteArchive) Persist(ctx context.Context, seq int, r types.TranscriptResult) (string, error) {
	res, err := a.db.ExecContext(ctx,
		`INSERT INTO transcripts (batch_id, seq, video_id, title, url, transcript, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.batchID, seq, r.Video.ID, r.Video.Title, r.Video.URL, r.Transcript, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("archive: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("archive: insert id: %w", err)
	}
	return fmt.Sprintf("sqlite:%d", id), nil
}

// ByVideo returns archived transcripts of videoID, newest first.
func (a *SQLiteArchive) ByVideo(ctx context.Context, videoID string) ([]ArchivedTranscript, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, batch_id, seq, video_id, title, url, transcript, created_at FROM transcripts WHERE video_id = ? ORDER BY id DESC`,
		videoID)
	if err != nil {
		return nil, fmt.Errorf("archive: query: %w", err)
	}
	defer rows.Close()

	var out []ArchivedTranscript
	for rows.Next() {
		var t ArchivedTranscript
		if err := rows.Scan(&t.ID, &t.BatchID, &t.Seq, &t.VideoID, &t.Title, &t.URL, &t.Transcript, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("archive: scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Close closes the database.
func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}
