package out

import (
	"context"

	"leaflog/internal/modules/parser/domain"
)

// ChapterSource parses one document format into chapters.
type ChapterSource interface {
	Chapters(ctx context.Context, filePath string) ([]domain.Chapter, error)
}

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// PluginHost runs external parser plugin binaries.
type PluginHost interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetInfo(ctx context.Context, manifest domain.Manifest) (domain.PluginInfo, error)
	ParseChapters(ctx context.Context, manifest domain.Manifest, filePath, format string) ([]domain.Chapter, error)
}
