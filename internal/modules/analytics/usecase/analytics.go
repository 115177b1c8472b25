package usecase

import (
	"context"

	"leaflog/internal/modules/analytics/domain"
	"leaflog/internal/modules/analytics/dto"
	analyticsin "leaflog/internal/modules/analytics/port/in"
	"leaflog/internal/modules/analytics/service"
)

type Interactor struct {
	svc *service.Service
}

var _ analyticsin.Usecase = (*Interactor)(nil)

func NewInteractor(svc *service.Service) *Interactor {
	return &Interactor{svc: svc}
}

func (i *Interactor) ChapterHistory(ctx context.Context, bookID string) ([]dto.ChapterHistoryOutput, error) {
	entries, err := i.svc.ChapterHistory(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChapterHistoryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.ChapterHistoryOutput{
			BookID:       entry.BookID,
			BookTitle:    entry.BookTitle,
			ChapterIndex: entry.ChapterIndex,
			ChapterTitle: entry.ChapterTitle,
			TotalTime:    entry.TotalTime,
			FirstRead:    entry.FirstRead,
			LastRead:     entry.LastRead,
			TimesRead:    entry.TimesRead,
			Completed:    entry.Completed,
		})
	}
	return out, nil
}

func (i *Interactor) BookHistory(ctx context.Context) ([]dto.BookHistoryOutput, error) {
	entries, err := i.svc.BookHistory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookHistoryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.BookHistoryOutput{
			BookID:        entry.BookID,
			BookTitle:     entry.BookTitle,
			BookAuthor:    entry.BookAuthor,
			TotalTime:     entry.TotalTime,
			FirstRead:     entry.FirstRead,
			LastRead:      entry.LastRead,
			ChaptersRead:  entry.ChaptersRead,
			SessionCount:  len(entry.Sessions),
			CompletionPct: entry.CompletionPct,
		})
	}
	return out, nil
}

func (i *Interactor) Trends(ctx context.Context, days int) ([]dto.TrendOutput, error) {
	points, err := i.svc.Trends(ctx, days)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TrendOutput, 0, len(points))
	for _, point := range points {
		out = append(out, dto.TrendOutput{
			Date:              point.Date,
			TotalTime:         point.TotalTime,
			SessionCount:      point.SessionCount,
			BooksRead:         point.BooksRead,
			ChaptersCompleted: point.ChaptersCompleted,
		})
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context) (dto.StatsOutput, error) {
	stats, err := i.svc.Stats(ctx)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return toStatsOutput(stats), nil
}

func toStatsOutput(stats domain.Stats) dto.StatsOutput {
	return dto.StatsOutput{
		TotalReadingTime:       stats.TotalReadingTime,
		TotalChaptersCompleted: stats.TotalChaptersCompleted,
		TotalBooksStarted:      stats.TotalBooksStarted,
		TotalBooksCompleted:    stats.TotalBooksCompleted,
		AverageSession:         stats.AverageSession,
		LongestSession:         stats.LongestSession,
		CurrentStreak:          stats.CurrentStreak,
		LongestStreak:          stats.LongestStreak,
		StreaksUnlocked:        stats.DailyAverage >= service.StreakUnlockThreshold,
		DailyAverage:           stats.DailyAverage,
		WeeklyAverage:          stats.WeeklyAverage,
		MonthlyAverage:         stats.MonthlyAverage,
	}
}
