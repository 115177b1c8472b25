package out

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"leaflog/internal/modules/parser/domain"
	parserout "leaflog/internal/modules/parser/port/out"
)

// MarkdownChapterSource splits a markdown file into chapters at top-level
// headings. The heading line stays inside its chapter so the reader view
// renders it.
type MarkdownChapterSource struct{}

func NewMarkdownChapterSource() parserout.ChapterSource {
	return &MarkdownChapterSource{}
}

func (s *MarkdownChapterSource) Chapters(_ context.Context, filePath string) ([]domain.Chapter, error) {
	payload, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	var (
		out   []domain.Chapter
		lines []string
		title string
	)
	flush := func() {
		content := strings.TrimSpace(strings.Join(lines, "\n"))
		lines = nil
		if content == "" {
			return
		}
		name := title
		if name == "" {
			name = fmt.Sprintf("Chapter %d", len(out)+1)
		}
		out = append(out, domain.Chapter{
			Index:   len(out),
			Title:   name,
			Content: "<pre>" + html.EscapeString(content) + "</pre>",
		})
	}
	for _, line := range strings.Split(string(payload), "\n") {
		if heading, ok := headingText(line); ok {
			flush()
			title = heading
		}
		lines = append(lines, line)
	}
	flush()
	return out, nil
}

func headingText(line string) (string, bool) {
	for _, prefix := range []string{"# ", "## "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}

// TextChapterSource loads a plain-text file as one chapter.
type TextChapterSource struct{}

func NewTextChapterSource() parserout.ChapterSource {
	return &TextChapterSource{}
}

func (s *TextChapterSource) Chapters(_ context.Context, filePath string) ([]domain.Chapter, error) {
	payload, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return []domain.Chapter{{
		Index:   0,
		Title:   name,
		Content: "<pre>" + html.EscapeString(string(payload)) + "</pre>",
	}}, nil
}
