package in

import (
	"context"

	analyticsdto "leaflog/internal/modules/analytics/dto"
	analyticsin "leaflog/internal/modules/analytics/port/in"
)

type CLIHandler struct {
	usecase analyticsin.Usecase
}

func NewCLIHandler(usecase analyticsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ChapterHistory(ctx context.Context, bookID string) ([]analyticsdto.ChapterHistoryOutput, error) {
	return h.usecase.ChapterHistory(ctx, bookID)
}

func (h CLIHandler) BookHistory(ctx context.Context) ([]analyticsdto.BookHistoryOutput, error) {
	return h.usecase.BookHistory(ctx)
}

func (h CLIHandler) Trends(ctx context.Context, days int) ([]analyticsdto.TrendOutput, error) {
	return h.usecase.Trends(ctx, days)
}

func (h CLIHandler) Stats(ctx context.Context) (analyticsdto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}
