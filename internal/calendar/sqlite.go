package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the event database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_time);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CreateEvent inserts an event and populates its ID.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *Event) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (title, start_time, end_time, notes, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		event.Title, event.Start.Unix(), event.End.Unix(), event.Notes,
		time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read event id: %w", err)
	}
	event.ID = id
	return nil
}

// EventsBetween returns events with Start in [from, to) ordered by start time.
func (s *SQLiteStore) EventsBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, start_time, end_time, notes FROM events
		 WHERE start_time >= ? AND start_time < ?
		 ORDER BY start_time ASC`,
		from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var start, end int64
		if err := rows.Scan(&e.ID, &e.Title, &start, &end, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Start = time.Unix(start, 0).In(from.Location())
		e.End = time.Unix(end, 0).In(from.Location())
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
