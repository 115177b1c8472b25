package usecase

import (
	"context"

	"leaflog/internal/modules/library/domain"
	"leaflog/internal/modules/library/dto"
	libraryin "leaflog/internal/modules/library/port/in"
	"leaflog/internal/modules/library/service"
)

type Interactor struct {
	svc *service.Service
}

var _ libraryin.Usecase = (*Interactor)(nil)

func NewInteractor(svc *service.Service) *Interactor {
	return &Interactor{svc: svc}
}

func (i *Interactor) AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error) {
	book, err := i.svc.AddBook(ctx, input.Path, input.Title, input.Author)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toBookOutput(book), nil
}

func (i *Interactor) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	books, err := i.svc.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookOutput, 0, len(books))
	for _, book := range books {
		out = append(out, toBookOutput(book))
	}
	return out, nil
}

func (i *Interactor) GetBook(ctx context.Context, bookID string) (dto.BookDetailOutput, error) {
	book, err := i.svc.GetBook(ctx, bookID)
	if err != nil {
		return dto.BookDetailOutput{}, err
	}
	return dto.BookDetailOutput{
		ID:           book.ID,
		Title:        book.Title,
		Author:       book.Author,
		Format:       string(book.Format),
		FilePath:     book.FilePath,
		Slug:         book.Slug,
		ProgressPct:  book.ProgressPct,
		ChapterCount: book.ChapterCount,
		AddedAt:      book.AddedAt,
		UpdatedAt:    book.UpdatedAt,
	}, nil
}

func (i *Interactor) UpdateProgress(ctx context.Context, input dto.UpdateProgressInput) (dto.BookOutput, error) {
	book, err := i.svc.UpdateProgress(ctx, input.BookID, input.ProgressPct, input.ChapterCount)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toBookOutput(book), nil
}

func (i *Interactor) RemoveBook(ctx context.Context, bookID string) error {
	return i.svc.RemoveBook(ctx, bookID)
}

func toBookOutput(book domain.Book) dto.BookOutput {
	return dto.BookOutput{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Format:      string(book.Format),
		ProgressPct: book.ProgressPct,
	}
}
