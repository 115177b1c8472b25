package in

import (
	"context"

	trackerdto "leaflog/internal/modules/tracker/dto"
	trackerin "leaflog/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, bookID, bookTitle, bookAuthor string, chapterIndex int, chapterTitle string) error {
	return h.usecase.Start(ctx, trackerdto.StartInput{
		BookID:       bookID,
		BookTitle:    bookTitle,
		BookAuthor:   bookAuthor,
		ChapterIndex: chapterIndex,
		ChapterTitle: chapterTitle,
	})
}

func (h CLIHandler) End(ctx context.Context, completed bool) error {
	return h.usecase.End(ctx, completed)
}

func (h CLIHandler) ChangeChapter(ctx context.Context, chapterIndex int, chapterTitle string, completed bool) error {
	return h.usecase.ChangeChapter(ctx, trackerdto.ChangeChapterInput{
		ChapterIndex: chapterIndex,
		ChapterTitle: chapterTitle,
		Completed:    completed,
	})
}

func (h CLIHandler) UpdateActivity(ctx context.Context) {
	h.usecase.UpdateActivity(ctx)
}

func (h CLIHandler) Pause(ctx context.Context) {
	h.usecase.Pause(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) {
	h.usecase.Resume(ctx)
}

func (h CLIHandler) Active(ctx context.Context) (trackerdto.ActiveOutput, error) {
	return h.usecase.Active(ctx)
}

func (h CLIHandler) Sessions(ctx context.Context, bookID string) ([]trackerdto.SessionOutput, error) {
	return h.usecase.Sessions(ctx, bookID)
}

func (h CLIHandler) DeleteSession(ctx context.Context, id string) error {
	return h.usecase.DeleteSession(ctx, id)
}
