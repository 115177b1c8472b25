package out

import (
	"context"

	"leaflog/internal/modules/analytics/domain"
)

// SessionLog reads the closed-session history. bookID=="" means all books.
type SessionLog interface {
	Sessions(ctx context.Context, bookID string) ([]domain.Session, error)
}

// BookProgress reports the externally tracked completion percentage for a
// book, 0 when unknown.
type BookProgress interface {
	ProgressPct(ctx context.Context, bookID string) (float64, error)
}
