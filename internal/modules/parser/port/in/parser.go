package in

import (
	"context"

	"leaflog/internal/modules/parser/dto"
)

type Usecase interface {
	// Chapters parses the book's file into its chapter list.
	Chapters(ctx context.Context, bookID string) ([]dto.ChapterOutput, error)
	Plugins(ctx context.Context) ([]dto.PluginOutput, error)
	Doctor(ctx context.Context) ([]dto.DoctorOutput, error)
}
