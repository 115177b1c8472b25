package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"leaflog/internal/modules/tracker/domain"
	trackerout "leaflog/internal/modules/tracker/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteSessionStore persists completed sessions. Timestamps are stored as
// Unix milliseconds because all duration math downstream is millisecond-based.
type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (trackerout.SessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reading_sessions (
  id TEXT PRIMARY KEY,
  book_id TEXT NOT NULL,
  book_title TEXT NOT NULL,
  book_author TEXT,
  chapter_index INTEGER NOT NULL,
  chapter_title TEXT,
  started_at_ms INTEGER NOT NULL,
  ended_at_ms INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL,
  completed INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reading_sessions_book ON reading_sessions(book_id);
CREATE INDEX IF NOT EXISTS idx_reading_sessions_started ON reading_sessions(started_at_ms);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create reading_sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Put(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO reading_sessions (id, book_id, book_title, book_author, chapter_index, chapter_title, started_at_ms, ended_at_ms, duration_ms, completed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	completed := 0
	if session.Completed {
		completed = 1
	}
	_, err := s.db.ExecContext(ctx, stmt,
		session.ID,
		session.BookID,
		session.BookTitle,
		session.BookAuthor,
		session.ChapterIndex,
		session.ChapterTitle,
		session.StartedAt.UnixMilli(),
		session.EndedAt.UnixMilli(),
		session.Duration.Milliseconds(),
		completed,
	)
	if err != nil {
		return fmt.Errorf("insert reading session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) All(ctx context.Context) ([]domain.Session, error) {
	return s.query(ctx, `SELECT id, book_id, book_title, book_author, chapter_index, chapter_title, started_at_ms, ended_at_ms, duration_ms, completed FROM reading_sessions ORDER BY started_at_ms`)
}

func (s *SQLiteSessionStore) AllByBook(ctx context.Context, bookID string) ([]domain.Session, error) {
	return s.query(ctx, `SELECT id, book_id, book_title, book_author, chapter_index, chapter_title, started_at_ms, ended_at_ms, duration_ms, completed FROM reading_sessions WHERE book_id = ? ORDER BY started_at_ms`, bookID)
}

func (s *SQLiteSessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reading_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete reading session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) query(ctx context.Context, stmt string, args ...any) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query reading sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Session{}
	for rows.Next() {
		var (
			session                        domain.Session
			startedMS, endedMS, durationMS int64
			completed                      int
		)
		if err := rows.Scan(
			&session.ID,
			&session.BookID,
			&session.BookTitle,
			&session.BookAuthor,
			&session.ChapterIndex,
			&session.ChapterTitle,
			&startedMS,
			&endedMS,
			&durationMS,
			&completed,
		); err != nil {
			return nil, fmt.Errorf("scan reading session: %w", err)
		}
		session.StartedAt = time.UnixMilli(startedMS)
		session.EndedAt = time.UnixMilli(endedMS)
		session.Duration = time.Duration(durationMS) * time.Millisecond
		session.Completed = completed == 1
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reading sessions: %w", err)
	}
	return out, nil
}
