package in

import (
	"context"

	"leaflog/internal/modules/tracker/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) error
	End(ctx context.Context, completed bool) error
	ChangeChapter(ctx context.Context, input dto.ChangeChapterInput) error
	UpdateActivity(ctx context.Context)
	Pause(ctx context.Context)
	Resume(ctx context.Context)
	Active(ctx context.Context) (dto.ActiveOutput, error)
	Sessions(ctx context.Context, bookID string) ([]dto.SessionOutput, error)
	DeleteSession(ctx context.Context, id string) error
}
