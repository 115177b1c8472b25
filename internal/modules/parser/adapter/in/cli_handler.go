package in

import (
	"context"

	parserdto "leaflog/internal/modules/parser/dto"
	parserin "leaflog/internal/modules/parser/port/in"
)

type CLIHandler struct {
	usecase parserin.Usecase
}

func NewCLIHandler(usecase parserin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Chapters(ctx context.Context, bookID string) ([]parserdto.ChapterOutput, error) {
	return h.usecase.Chapters(ctx, bookID)
}

func (h CLIHandler) Plugins(ctx context.Context) ([]parserdto.PluginOutput, error) {
	return h.usecase.Plugins(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]parserdto.DoctorOutput, error) {
	return h.usecase.Doctor(ctx)
}
