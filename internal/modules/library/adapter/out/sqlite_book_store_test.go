package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	libraryout "leaflog/internal/modules/library/adapter/out"
	"leaflog/internal/modules/library/domain"
	apperrors "leaflog/internal/platform/errors"
)

func TestBookStoreRoundTrip(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), ".leaflog", "leaflog.db")
	store, err := libraryout.NewSQLiteBookStore(dbPath)
	if err != nil {
		t.Fatalf("new book store: %v", err)
	}
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

	book := domain.Book{
		ID:        "b1",
		Title:     "The Go Programming Language",
		Author:    "Donovan & Kernighan",
		FilePath:  "/books/gopl.pdf",
		Format:    domain.FormatPDF,
		Slug:      "the-go-programming-language",
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := store.Upsert(ctx, book); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	book.ProgressPct = 42.5
	book.ChapterCount = 13
	book.UpdatedAt = now.Add(time.Hour)
	if err := store.Upsert(ctx, book); err != nil {
		t.Fatalf("upsert update: %v", err)
	}

	got, err := store.FindByID(ctx, "b1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ProgressPct != 42.5 || got.ChapterCount != 13 {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.AddedAt.Equal(now) {
		t.Fatalf("added_at drifted: got %v want %v", got.AddedAt, now)
	}

	books, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 book, got %d", len(books))
	}

	if _, err := store.FindByID(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Delete(ctx, "b1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	books, err = store.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("expected empty list, got %+v", books)
	}
}
