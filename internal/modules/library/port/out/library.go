package out

import (
	"context"

	"leaflog/internal/modules/library/domain"
)

type BookStore interface {
	Upsert(ctx context.Context, book domain.Book) error
	FindByID(ctx context.Context, bookID string) (domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	Delete(ctx context.Context, bookID string) error
}
