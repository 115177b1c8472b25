package service

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"leaflog/internal/modules/library/domain"
	libraryout "leaflog/internal/modules/library/port/out"
	"leaflog/internal/platform/clock"
	"leaflog/internal/platform/id"
)

type Service struct {
	clock clock.Clock
	idGen id.Generator
	store libraryout.BookStore
}

func NewService(clock clock.Clock, idGen id.Generator, store libraryout.BookStore) *Service {
	return &Service{clock: clock, idGen: idGen, store: store}
}

func (s *Service) AddBook(ctx context.Context, path, title, author string) (domain.Book, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Book{}, fmt.Errorf("file path is required")
	}
	format, err := formatForPath(path)
	if err != nil {
		return domain.Book{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	now := s.clock.Now()
	book := domain.Book{
		ID:        s.idGen.New(),
		Title:     title,
		Author:    strings.TrimSpace(author),
		FilePath:  path,
		Format:    format,
		Slug:      makeSlug(title),
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}
	if err := s.store.Upsert(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (s *Service) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.store.List(ctx)
}

func (s *Service) GetBook(ctx context.Context, bookID string) (domain.Book, error) {
	return s.store.FindByID(ctx, bookID)
}

func (s *Service) UpdateProgress(ctx context.Context, bookID string, pct float64, chapterCount int) (domain.Book, error) {
	book, err := s.store.FindByID(ctx, bookID)
	if err != nil {
		return domain.Book{}, err
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	book.ProgressPct = pct
	if chapterCount > 0 {
		book.ChapterCount = chapterCount
	}
	book.UpdatedAt = s.clock.Now()
	if err := s.store.Upsert(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (s *Service) RemoveBook(ctx context.Context, bookID string) error {
	return s.store.Delete(ctx, bookID)
}

func formatForPath(path string) (domain.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return domain.FormatPDF, nil
	case ".epub":
		return domain.FormatEPUB, nil
	case ".html", ".htm", ".xhtml":
		return domain.FormatHTML, nil
	case ".md", ".markdown":
		return domain.FormatMarkdown, nil
	case ".txt":
		return domain.FormatText, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

func makeSlug(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}
