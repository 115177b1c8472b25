package out

import (
	"context"

	parserin "leaflog/internal/modules/parser/port/in"
	"leaflog/internal/modules/search/domain"
	searchout "leaflog/internal/modules/search/port/out"
)

// ParserChapterProvider feeds search with chapters from the parser module.
type ParserChapterProvider struct {
	parser parserin.Usecase
}

var _ searchout.ChapterProvider = ParserChapterProvider{}

func NewParserChapterProvider(parser parserin.Usecase) ParserChapterProvider {
	return ParserChapterProvider{parser: parser}
}

func (p ParserChapterProvider) Chapters(ctx context.Context, bookID string) ([]domain.Chapter, error) {
	chapters, err := p.parser.Chapters(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Chapter, 0, len(chapters))
	for _, chapter := range chapters {
		out = append(out, domain.Chapter{
			Index:   chapter.Index,
			Title:   chapter.Title,
			Content: chapter.Content,
		})
	}
	return out, nil
}
