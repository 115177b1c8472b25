package in

import (
	"context"

	"leaflog/internal/modules/search/dto"
)

type Usecase interface {
	// Search runs a case-insensitive literal search over every chapter of
	// the book and returns only chapters with at least one match. Callers
	// apply chapter-scope filtering themselves.
	Search(ctx context.Context, bookID, query string) ([]dto.ChapterResultOutput, error)
}
