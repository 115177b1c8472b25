package out

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"leaflog/internal/modules/parser/domain"
	parserout "leaflog/internal/modules/parser/port/out"
)

// HTMLChapterSource splits a single HTML file into chapters at h1/h2
// headings. Content before the first heading becomes its own chapter.
type HTMLChapterSource struct{}

func NewHTMLChapterSource() parserout.ChapterSource {
	return &HTMLChapterSource{}
}

func (s *HTMLChapterSource) Chapters(_ context.Context, filePath string) ([]domain.Chapter, error) {
	payload, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	var (
		out      []domain.Chapter
		buf      bytes.Buffer
		titleBuf strings.Builder
		title    string
		inTitle  bool
		skipped  = map[string]bool{"head": true, "script": true, "style": true}
		skipping string
	)
	flush := func() {
		content := strings.TrimSpace(buf.String())
		buf.Reset()
		if content == "" {
			return
		}
		name := title
		if name == "" {
			name = fmt.Sprintf("Chapter %d", len(out)+1)
		}
		out = append(out, domain.Chapter{Index: len(out), Title: name, Content: content})
	}

	tokenizer := html.NewTokenizer(bytes.NewReader(payload))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if errors.Is(tokenizer.Err(), io.EOF) {
				break
			}
			return nil, fmt.Errorf("tokenize html: %w", tokenizer.Err())
		}
		name, _ := tokenizer.TagName()
		tag := string(name)

		switch tt {
		case html.StartTagToken:
			if skipping == "" && skipped[tag] {
				skipping = tag
				continue
			}
			if skipping != "" {
				continue
			}
			if tag == "h1" || tag == "h2" {
				flush()
				titleBuf.Reset()
				inTitle = true
			}
			buf.Write(tokenizer.Raw())
		case html.EndTagToken:
			if skipping != "" {
				if tag == skipping {
					skipping = ""
				}
				continue
			}
			buf.Write(tokenizer.Raw())
			if inTitle && (tag == "h1" || tag == "h2") {
				title = strings.TrimSpace(titleBuf.String())
				inTitle = false
			}
		case html.TextToken:
			if skipping != "" {
				continue
			}
			buf.Write(tokenizer.Raw())
			if inTitle {
				titleBuf.Write(tokenizer.Text())
			}
		case html.SelfClosingTagToken:
			if skipping == "" {
				buf.Write(tokenizer.Raw())
			}
		}
	}
	flush()
	return out, nil
}
