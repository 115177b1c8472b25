package in

import (
	"context"

	searchdto "leaflog/internal/modules/search/dto"
	searchin "leaflog/internal/modules/search/port/in"
)

type CLIHandler struct {
	usecase searchin.Usecase
}

func NewCLIHandler(usecase searchin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Search(ctx context.Context, bookID, query string) ([]searchdto.ChapterResultOutput, error) {
	return h.usecase.Search(ctx, bookID, query)
}
