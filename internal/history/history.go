package history

import (
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const (
	StatusUploaded = "UPLOADED"
	StatusFailed   = "FAILED"
	StatusSkipped  = "SKIPPED"
)

// Entry is one recorded upload attempt.
type Entry struct {
	ID        int64
	Plugin    string
	Method    string
	Status    string
	Detail    string
	Duration  time.Duration
	CreatedAt time.Time
}

// Store keeps the upload attempt log in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database at %s: %w", path, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS upload_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plugin TEXT,
		method TEXT,
		status TEXT,
		detail TEXT,
		duration_ms INTEGER,
		created_at DATETIME
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record inserts one attempt. Write failures are logged and swallowed.
func (s *Store) Record(e Entry) {
	_, err := s.db.Exec(
		`INSERT INTO upload_log (plugin, method, status, detail, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Plugin, e.Method, e.Status, e.Detail, e.Duration.Milliseconds(), time.Now(),
	)
	if err != nil {
		log.Errorf("History write failed: %v", err)
	}
}

// Recent returns up to limit attempts, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, plugin, method, status, detail, duration_ms, created_at
		 FROM upload_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ms int64
		if err := rows.Scan(&e.ID, &e.Plugin, &e.Method, &e.Status, &e.Detail, &ms, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Reset clears the entire log.
func (s *Store) Reset() error {
	_, err := s.db.Exec(`DELETE FROM upload_log`)
	return err
}
