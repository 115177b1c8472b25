package usecase

import (
	"context"

	libraryin "leaflog/internal/modules/library/port/in"
	"leaflog/internal/modules/parser/dto"
	parserin "leaflog/internal/modules/parser/port/in"
	"leaflog/internal/modules/parser/service"
)

type Interactor struct {
	svc     *service.Service
	library libraryin.Usecase
}

var _ parserin.Usecase = (*Interactor)(nil)

func NewInteractor(svc *service.Service, library libraryin.Usecase) *Interactor {
	return &Interactor{svc: svc, library: library}
}

func (i *Interactor) Chapters(ctx context.Context, bookID string) ([]dto.ChapterOutput, error) {
	book, err := i.library.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	chapters, err := i.svc.ChaptersForFile(ctx, book.FilePath, book.Format)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChapterOutput, 0, len(chapters))
	for _, chapter := range chapters {
		out = append(out, dto.ChapterOutput{
			Index:   chapter.Index,
			Title:   chapter.Title,
			Content: chapter.Content,
		})
	}
	return out, nil
}

func (i *Interactor) Plugins(ctx context.Context) ([]dto.PluginOutput, error) {
	return i.svc.Plugins(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorOutput, error) {
	return i.svc.Doctor(ctx)
}
