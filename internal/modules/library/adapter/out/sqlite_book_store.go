package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"leaflog/internal/modules/library/domain"
	libraryout "leaflog/internal/modules/library/port/out"
	apperrors "leaflog/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type SQLiteBookStore struct {
	db *sql.DB
}

func NewSQLiteBookStore(dbPath string) (libraryout.BookStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteBookStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteBookStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT,
  file_path TEXT NOT NULL,
  format TEXT NOT NULL,
  slug TEXT NOT NULL,
  progress_pct REAL NOT NULL,
  chapter_count INTEGER NOT NULL,
  added_at_ms INTEGER NOT NULL,
  updated_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_books_slug ON books(slug);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func (s *SQLiteBookStore) Upsert(ctx context.Context, book domain.Book) error {
	const stmt = `
INSERT INTO books (id, title, author, file_path, format, slug, progress_pct, chapter_count, added_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title = excluded.title,
  author = excluded.author,
  file_path = excluded.file_path,
  format = excluded.format,
  slug = excluded.slug,
  progress_pct = excluded.progress_pct,
  chapter_count = excluded.chapter_count,
  updated_at_ms = excluded.updated_at_ms;
`
	_, err := s.db.ExecContext(ctx, stmt,
		book.ID,
		book.Title,
		book.Author,
		book.FilePath,
		string(book.Format),
		book.Slug,
		book.ProgressPct,
		book.ChapterCount,
		book.AddedAt.UnixMilli(),
		book.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert book: %w", err)
	}
	return nil
}

func (s *SQLiteBookStore) FindByID(ctx context.Context, bookID string) (domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, author, file_path, format, slug, progress_pct, chapter_count, added_at_ms, updated_at_ms FROM books WHERE id = ?`, bookID)
	book, err := scanBook(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, fmt.Errorf("book %s: %w", bookID, apperrors.ErrNotFound)
	}
	if err != nil {
		return domain.Book{}, fmt.Errorf("find book: %w", err)
	}
	return book, nil
}

func (s *SQLiteBookStore) List(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, author, file_path, format, slug, progress_pct, chapter_count, added_at_ms, updated_at_ms FROM books ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return out, nil
}

func (s *SQLiteBookStore) Delete(ctx context.Context, bookID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func scanBook(scan func(dest ...any) error) (domain.Book, error) {
	var (
		book               domain.Book
		format             string
		addedMS, updatedMS int64
	)
	if err := scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.FilePath,
		&format,
		&book.Slug,
		&book.ProgressPct,
		&book.ChapterCount,
		&addedMS,
		&updatedMS,
	); err != nil {
		return domain.Book{}, err
	}
	book.Format = domain.Format(format)
	book.AddedAt = time.UnixMilli(addedMS)
	book.UpdatedAt = time.UnixMilli(updatedMS)
	return book, nil
}
