package domain

import (
	"regexp"
	"strings"
	"testing"
)

func compile(t *testing.T, query string) *regexp.Regexp {
	t.Helper()
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

func TestScanChapterSnippetOffsets(t *testing.T) {
	t.Parallel()
	plain := "Once upon a midnight dreary the quick brown fox jumped over the lazy dog while I pondered weak and weary"
	result := ScanChapter(compile(t, "BROWN"), 2, "Ch 3", plain)
	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Matches))
	}
	m := result.Matches[0]
	if got := m.Snippet[m.Start:m.End]; got != "brown" {
		t.Fatalf("snippet slice = %q, want source-cased %q", got, "brown")
	}
	if plain[m.Position:m.Position+len("brown")] != "brown" {
		t.Fatalf("absolute position %d does not point at the match", m.Position)
	}
	if !strings.Contains(m.Snippet, "quick brown fox") {
		t.Fatalf("snippet lost surrounding context: %q", m.Snippet)
	}
}

func TestScanChapterClipsAtBoundaries(t *testing.T) {
	t.Parallel()
	plain := "fox at the very start"
	result := ScanChapter(compile(t, "fox"), 0, "", plain)
	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Matches))
	}
	m := result.Matches[0]
	if m.Start != 0 || m.Position != 0 {
		t.Fatalf("expected match at text start, got start=%d position=%d", m.Start, m.Position)
	}
	if m.Snippet != plain {
		t.Fatalf("short text should be its own snippet, got %q", m.Snippet)
	}
}

func TestScanChapterWindowRadius(t *testing.T) {
	t.Parallel()
	plain := strings.Repeat("a", 200) + "needle" + strings.Repeat("b", 200)
	result := ScanChapter(compile(t, "needle"), 0, "", plain)
	m := result.Matches[0]
	if len(m.Snippet) != 50+len("needle")+50 {
		t.Fatalf("snippet length = %d, want %d", len(m.Snippet), 106)
	}
	if m.Start != 50 || m.End != 56 {
		t.Fatalf("unexpected snippet offsets start=%d end=%d", m.Start, m.End)
	}
}

func TestScanChapterCapsMatches(t *testing.T) {
	t.Parallel()
	plain := strings.Repeat("cat and dog. ", 500)
	result := ScanChapter(compile(t, "cat"), 0, "", plain)
	if len(result.Matches) != 100 {
		t.Fatalf("expected cap at 100 matches, got %d", len(result.Matches))
	}
}

func TestScanChapterMultibyteContext(t *testing.T) {
	t.Parallel()
	plain := strings.Repeat("é", 60) + "word" + strings.Repeat("ü", 60)
	result := ScanChapter(compile(t, "word"), 0, "", plain)
	m := result.Matches[0]
	if got := m.Snippet[m.Start:m.End]; got != "word" {
		t.Fatalf("snippet slice = %q across multibyte context", got)
	}
	if strings.Count(m.Snippet[:m.Start], "é") != 50 {
		t.Fatalf("expected 50 runes of leading context, got %d", strings.Count(m.Snippet[:m.Start], "é"))
	}
}
