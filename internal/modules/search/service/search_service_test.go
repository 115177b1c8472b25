package service_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"leaflog/internal/modules/search/domain"
	"leaflog/internal/modules/search/service"
)

type spyProvider struct {
	chapters map[string][]domain.Chapter
	calls    int
	err      error
}

func (p *spyProvider) Chapters(_ context.Context, bookID string) ([]domain.Chapter, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.chapters[bookID], nil
}

func bookChapters(contents ...string) map[string][]domain.Chapter {
	chapters := make([]domain.Chapter, 0, len(contents))
	for i, content := range contents {
		chapters = append(chapters, domain.Chapter{
			Index:   i,
			Title:   fmt.Sprintf("Chapter %d", i+1),
			Content: content,
		})
	}
	return map[string][]domain.Chapter{"b1": chapters}
}

func TestSearchStripsMarkupAndMatchesCaseInsensitively(t *testing.T) {
	t.Parallel()
	provider := &spyProvider{chapters: bookChapters(
		"<p>The <em>Quick</em> brown fox</p>",
		"<p>nothing relevant here</p>",
	)}
	svc := service.NewService(provider, nil)

	results, err := svc.Search(context.Background(), "b1", "quick")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 chapter with matches, got %d", len(results))
	}
	if results[0].ChapterIndex != 0 {
		t.Fatalf("unexpected chapter %d", results[0].ChapterIndex)
	}
	m := results[0].Matches[0]
	if got := m.Snippet[m.Start:m.End]; got != "Quick" {
		t.Fatalf("expected source-cased match, got %q", got)
	}
}

func TestSearchCacheHitSkipsProvider(t *testing.T) {
	t.Parallel()
	provider := &spyProvider{chapters: bookChapters("<p>cat</p>")}
	svc := service.NewService(provider, nil)
	ctx := context.Background()

	first, err := svc.Search(ctx, "b1", "cat")
	if err != nil {
		t.Fatalf("first search: %v", err)
	}
	second, err := svc.Search(ctx, "b1", "CAT")
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected a single provider call, got %d", provider.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("cached result differs from original")
	}
}

func TestSearchCacheEvictsOldestFirst(t *testing.T) {
	t.Parallel()
	provider := &spyProvider{chapters: bookChapters("<p>q0 text</p>")}
	svc := service.NewService(provider, nil)
	ctx := context.Background()

	for i := 0; i < 51; i++ {
		if _, err := svc.Search(ctx, "b1", fmt.Sprintf("q%d", i)); err != nil {
			t.Fatalf("search %d: %v", i, err)
		}
	}
	calls := provider.calls

	// q0 was the oldest entry and must have been evicted.
	if _, err := svc.Search(ctx, "b1", "q0"); err != nil {
		t.Fatalf("re-search q0: %v", err)
	}
	if provider.calls != calls+1 {
		t.Fatal("expected q0 to be evicted and recomputed")
	}
	// q1 survived the eviction.
	if _, err := svc.Search(ctx, "b1", "q1"); err != nil {
		t.Fatalf("re-search q1: %v", err)
	}
	if provider.calls != calls+1 {
		t.Fatal("expected q1 to still be cached")
	}
}

func TestSearchEscapesRegexMetacharacters(t *testing.T) {
	t.Parallel()
	provider := &spyProvider{chapters: bookChapters("<p>costs $4.99 (today only)</p>")}
	svc := service.NewService(provider, nil)

	results, err := svc.Search(context.Background(), "b1", "$4.99")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || len(results[0].Matches) != 1 {
		t.Fatalf("expected exactly one literal match, got %+v", results)
	}
	// "." must not match "4X99".
	provider.chapters = bookChapters("<p>costs 4X99</p>")
	svc = service.NewService(provider, nil)
	results, err = svc.Search(context.Background(), "b1", "4.99")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("metacharacter leaked into pattern: %+v", results)
	}
}

func TestSearchProviderFailurePropagates(t *testing.T) {
	t.Parallel()
	provider := &spyProvider{err: fmt.Errorf("parser exploded")}
	svc := service.NewService(provider, nil)

	if _, err := svc.Search(context.Background(), "b1", "cat"); err == nil {
		t.Fatal("expected provider failure to propagate")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()
	provider := &spyProvider{chapters: bookChapters("<p>cat</p>")}
	svc := service.NewService(provider, nil)

	results, err := svc.Search(context.Background(), "b1", "   ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if results != nil {
		t.Fatalf("expected nil results for blank query, got %+v", results)
	}
	if provider.calls != 0 {
		t.Fatal("blank query must not hit the provider")
	}
}

func TestInvalidateBookDropsCachedQueries(t *testing.T) {
	t.Parallel()
	provider := &spyProvider{chapters: bookChapters("<p>cat</p>")}
	svc := service.NewService(provider, nil)
	ctx := context.Background()

	if _, err := svc.Search(ctx, "b1", "cat"); err != nil {
		t.Fatalf("search: %v", err)
	}
	svc.InvalidateBook("b1")
	if _, err := svc.Search(ctx, "b1", "cat"); err != nil {
		t.Fatalf("search after invalidate: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("expected recompute after invalidation, got %d calls", provider.calls)
	}
}
