package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// Terminal job states recorded in the completion ledger.
const (
	StatusAlreadyDone    = "already-done"
	StatusDownloadFailed = "download-failed"
	StatusFailed         = "failed"
	StatusTranscribed    = "transcribed"
)

// Ledger is the persisted completion record (video ID -> terminal status).
// The filename scan in the working directory stays the skip decision; the
// ledger keeps an inspectable history across runs.
type Ledger struct {
	db   *sql.DB
	path string
}

// OpenLedger opens (or creates) the ledger database under dataDir.
func OpenLedger(dataDir string) (*Ledger, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ledger.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			video_id   TEXT PRIMARY KEY,
			status     TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &Ledger{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return l.path
}

// Record upserts the terminal status for a video ID.
func (l *Ledger) Record(ctx context.Context, videoID, status string) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO jobs (video_id, status, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(video_id) DO UPDATE SET
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP
	`, videoID, status)
	if err != nil {
		return fmt.Errorf("recording status for %s: %w", videoID, err)
	}
	return nil
}

// Status returns the recorded status for a video ID, or "" if none.
func (l *Ledger) Status(ctx context.Context, videoID string) (string, error) {
	var status string
	err := l.db.QueryRowContext(ctx,
		`SELECT status FROM jobs WHERE video_id = ?`, videoID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading status for %s: %w", videoID, err)
	}
	return status, nil
}
