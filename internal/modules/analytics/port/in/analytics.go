package in

import (
	"context"

	"leaflog/internal/modules/analytics/dto"
)

type Usecase interface {
	// ChapterHistory aggregates sessions per (book, chapter). An empty
	// bookID covers the whole log.
	ChapterHistory(ctx context.Context, bookID string) ([]dto.ChapterHistoryOutput, error)
	BookHistory(ctx context.Context) ([]dto.BookHistoryOutput, error)
	// Trends returns a dense window of days+1 calendar-day buckets ending
	// today, zero-filled for inactive days.
	Trends(ctx context.Context, days int) ([]dto.TrendOutput, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
}
