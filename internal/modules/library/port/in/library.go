package in

import (
	"context"

	"leaflog/internal/modules/library/dto"
)

type Usecase interface {
	AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error)
	ListBooks(ctx context.Context) ([]dto.BookOutput, error)
	GetBook(ctx context.Context, bookID string) (dto.BookDetailOutput, error)
	UpdateProgress(ctx context.Context, input dto.UpdateProgressInput) (dto.BookOutput, error)
	RemoveBook(ctx context.Context, bookID string) error
}
