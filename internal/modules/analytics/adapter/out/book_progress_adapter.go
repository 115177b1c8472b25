package out

import (
	"context"

	analyticsout "leaflog/internal/modules/analytics/port/out"
	libraryin "leaflog/internal/modules/library/port/in"
)

// LibraryBookProgress reads completion percentages from the library
// catalog, which owns externally tracked progress.
type LibraryBookProgress struct {
	library libraryin.Usecase
}

var _ analyticsout.BookProgress = LibraryBookProgress{}

func NewLibraryBookProgress(library libraryin.Usecase) LibraryBookProgress {
	return LibraryBookProgress{library: library}
}

func (a LibraryBookProgress) ProgressPct(ctx context.Context, bookID string) (float64, error) {
	book, err := a.library.GetBook(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return book.ProgressPct, nil
}
