package out

import (
	"context"
	"fmt"
	"html"
	"strings"

	"rsc.io/pdf"

	"leaflog/internal/modules/parser/domain"
	parserout "leaflog/internal/modules/parser/port/out"
)

// PDFChapterSource treats each page as one chapter. PDFs carry no reliable
// chapter markers, so pages are the finest stable unit available.
type PDFChapterSource struct{}

func NewPDFChapterSource() parserout.ChapterSource {
	return &PDFChapterSource{}
}

func (s *PDFChapterSource) Chapters(_ context.Context, filePath string) ([]domain.Chapter, error) {
	doc, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	total := doc.NumPage()
	out := make([]domain.Chapter, 0, total)
	for page := 1; page <= total; page++ {
		p := doc.Page(page)
		if p.V.IsNull() {
			continue
		}
		content := p.Content()
		parts := make([]string, 0, len(content.Text))
		for _, text := range content.Text {
			if strings.TrimSpace(text.S) == "" {
				continue
			}
			parts = append(parts, text.S)
		}
		out = append(out, domain.Chapter{
			Index:   len(out),
			Title:   fmt.Sprintf("Page %d", page),
			Content: "<p>" + html.EscapeString(strings.Join(parts, " ")) + "</p>",
		})
	}
	return out, nil
}
