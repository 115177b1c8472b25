package usecase

import (
	"context"

	"leaflog/internal/modules/search/dto"
	searchin "leaflog/internal/modules/search/port/in"
	"leaflog/internal/modules/search/service"
)

type Interactor struct {
	svc *service.Service
}

var _ searchin.Usecase = (*Interactor)(nil)

func NewInteractor(svc *service.Service) *Interactor {
	return &Interactor{svc: svc}
}

func (i *Interactor) Search(ctx context.Context, bookID, query string) ([]dto.ChapterResultOutput, error) {
	results, err := i.svc.Search(ctx, bookID, query)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChapterResultOutput, 0, len(results))
	for _, result := range results {
		matches := make([]dto.MatchOutput, 0, len(result.Matches))
		for _, match := range result.Matches {
			matches = append(matches, dto.MatchOutput{
				Snippet:  match.Snippet,
				Position: match.Position,
				Start:    match.Start,
				End:      match.End,
			})
		}
		out = append(out, dto.ChapterResultOutput{
			ChapterIndex: result.ChapterIndex,
			ChapterTitle: result.ChapterTitle,
			Matches:      matches,
		})
	}
	return out, nil
}
