package usecase

import (
	"context"

	libraryin "leaflog/internal/modules/library/port/in"
	trackerdto "leaflog/internal/modules/tracker/dto"
	trackerin "leaflog/internal/modules/tracker/port/in"
	"leaflog/internal/modules/tracker/service"
	apperrors "leaflog/internal/platform/errors"
)

type Interactor struct {
	svc     *service.Service
	library libraryin.Usecase
}

func NewInteractor(svc *service.Service, library libraryin.Usecase) trackerin.Usecase {
	return &Interactor{svc: svc, library: library}
}

func (i *Interactor) Start(ctx context.Context, input trackerdto.StartInput) error {
	title, author := input.BookTitle, input.BookAuthor
	if title == "" && i.library != nil {
		book, err := i.library.GetBook(ctx, input.BookID)
		if err != nil {
			return err
		}
		title, author = book.Title, book.Author
	}
	return i.svc.Start(ctx, input.BookID, title, author, input.ChapterIndex, input.ChapterTitle)
}

func (i *Interactor) End(ctx context.Context, completed bool) error {
	i.svc.End(ctx, completed)
	return nil
}

func (i *Interactor) ChangeChapter(ctx context.Context, input trackerdto.ChangeChapterInput) error {
	i.svc.ChangeChapter(ctx, input.ChapterIndex, input.ChapterTitle, input.Completed)
	return nil
}

func (i *Interactor) UpdateActivity(context.Context) {
	i.svc.UpdateActivity()
}

func (i *Interactor) Pause(context.Context) {
	i.svc.Pause()
}

func (i *Interactor) Resume(context.Context) {
	i.svc.Resume()
}

func (i *Interactor) Active(context.Context) (trackerdto.ActiveOutput, error) {
	draft, tracking, ok := i.svc.Active()
	if !ok {
		return trackerdto.ActiveOutput{}, apperrors.ErrNoOpenSession
	}
	return trackerdto.ActiveOutput{
		BookID:       draft.BookID,
		BookTitle:    draft.BookTitle,
		BookAuthor:   draft.BookAuthor,
		ChapterIndex: draft.ChapterIndex,
		ChapterTitle: draft.ChapterTitle,
		StartedAt:    draft.StartedAt,
		Tracking:     tracking,
	}, nil
}

func (i *Interactor) Sessions(ctx context.Context, bookID string) ([]trackerdto.SessionOutput, error) {
	sessions, err := i.svc.Sessions(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := make([]trackerdto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, trackerdto.SessionOutput{
			ID:           s.ID,
			BookID:       s.BookID,
			BookTitle:    s.BookTitle,
			BookAuthor:   s.BookAuthor,
			ChapterIndex: s.ChapterIndex,
			ChapterTitle: s.ChapterTitle,
			StartedAt:    s.StartedAt,
			EndedAt:      s.EndedAt,
			Duration:     s.Duration,
			Completed:    s.Completed,
		})
	}
	return out, nil
}

func (i *Interactor) DeleteSession(ctx context.Context, id string) error {
	return i.svc.DeleteSession(ctx, id)
}
