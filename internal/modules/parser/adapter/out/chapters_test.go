package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	parserout "leaflog/internal/modules/parser/adapter/out"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestHTMLChapterSourceSplitsOnHeadings(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "book.html", `<html><head><title>skip me</title></head><body>
<p>preface text</p>
<h1>First Chapter</h1>
<p>body one</p>
<h2>Second Chapter</h2>
<p>body two</p>
</body></html>`)

	chapters, err := parserout.NewHTMLChapterSource().Chapters(context.Background(), path)
	if err != nil {
		t.Fatalf("chapters: %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}
	if chapters[0].Title != "Chapter 1" || !strings.Contains(chapters[0].Content, "preface text") {
		t.Fatalf("unexpected preface chapter: %+v", chapters[0])
	}
	if chapters[1].Title != "First Chapter" || !strings.Contains(chapters[1].Content, "body one") {
		t.Fatalf("unexpected first chapter: %+v", chapters[1])
	}
	if chapters[2].Title != "Second Chapter" || !strings.Contains(chapters[2].Content, "body two") {
		t.Fatalf("unexpected second chapter: %+v", chapters[2])
	}
	for _, chapter := range chapters {
		if strings.Contains(chapter.Content, "skip me") {
			t.Fatalf("head content leaked into chapter %q", chapter.Title)
		}
	}
}

func TestMarkdownChapterSourceSplitsOnHeadings(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "notes.md", "intro line\n# Alpha\nalpha body\n## Beta\nbeta body\n")

	chapters, err := parserout.NewMarkdownChapterSource().Chapters(context.Background(), path)
	if err != nil {
		t.Fatalf("chapters: %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}
	if chapters[1].Title != "Alpha" || !strings.Contains(chapters[1].Content, "alpha body") {
		t.Fatalf("unexpected alpha chapter: %+v", chapters[1])
	}
	if !strings.Contains(chapters[1].Content, "# Alpha") {
		t.Fatal("heading line should stay inside its chapter")
	}
	if chapters[2].Title != "Beta" {
		t.Fatalf("unexpected beta title %q", chapters[2].Title)
	}
}

func TestTextChapterSourceSingleChapter(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "plain.txt", "line one\nline <two>\n")

	chapters, err := parserout.NewTextChapterSource().Chapters(context.Background(), path)
	if err != nil {
		t.Fatalf("chapters: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(chapters))
	}
	if chapters[0].Title != "plain" {
		t.Fatalf("unexpected title %q", chapters[0].Title)
	}
	if !strings.Contains(chapters[0].Content, "&lt;two&gt;") {
		t.Fatalf("expected escaped markup, got %q", chapters[0].Content)
	}
}
