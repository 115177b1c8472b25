package out

import (
	"context"

	"leaflog/internal/modules/tracker/domain"
)

// SessionStore is the append-only log of completed reading sessions, keyed by
// id and queryable by book.
type SessionStore interface {
	Put(ctx context.Context, session domain.Session) error
	All(ctx context.Context) ([]domain.Session, error)
	AllByBook(ctx context.Context, bookID string) ([]domain.Session, error)
	Delete(ctx context.Context, id string) error
}
