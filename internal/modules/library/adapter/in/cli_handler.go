package in

import (
	"context"

	librarydto "leaflog/internal/modules/library/dto"
	libraryin "leaflog/internal/modules/library/port/in"
)

type CLIHandler struct {
	usecase libraryin.Usecase
}

func NewCLIHandler(usecase libraryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AddBook(ctx context.Context, path, title, author string) (librarydto.BookOutput, error) {
	return h.usecase.AddBook(ctx, librarydto.AddBookInput{Path: path, Title: title, Author: author})
}

func (h CLIHandler) ListBooks(ctx context.Context) ([]librarydto.BookOutput, error) {
	return h.usecase.ListBooks(ctx)
}

func (h CLIHandler) GetBook(ctx context.Context, bookID string) (librarydto.BookDetailOutput, error) {
	return h.usecase.GetBook(ctx, bookID)
}

func (h CLIHandler) UpdateProgress(ctx context.Context, bookID string, pct float64, chapterCount int) (librarydto.BookOutput, error) {
	return h.usecase.UpdateProgress(ctx, librarydto.UpdateProgressInput{
		BookID:       bookID,
		ProgressPct:  pct,
		ChapterCount: chapterCount,
	})
}

func (h CLIHandler) RemoveBook(ctx context.Context, bookID string) error {
	return h.usecase.RemoveBook(ctx, bookID)
}
