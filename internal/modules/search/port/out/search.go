package out

import (
	"context"

	"leaflog/internal/modules/search/domain"
)

type ChapterProvider interface {
	Chapters(ctx context.Context, bookID string) ([]domain.Chapter, error)
}
