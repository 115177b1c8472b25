package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"leaflog/internal/modules/search/domain"
	searchout "leaflog/internal/modules/search/port/out"
	"leaflog/internal/platform/htmltext"
)

// cacheCap bounds the query cache. Eviction is strict FIFO by insertion
// order; a cache hit does not refresh an entry's position.
const cacheCap = 50

type Service struct {
	provider searchout.ChapterProvider
	log      hclog.Logger

	mu    sync.Mutex
	cache map[string][]domain.ChapterResult
	order []string
}

func NewService(provider searchout.ChapterProvider, log hclog.Logger) *Service {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Service{
		provider: provider,
		log:      log,
		cache:    map[string][]domain.ChapterResult{},
	}
}

// Search scans every chapter of the book for the literal query text,
// case-insensitively. Chapters that fail to strip are skipped; a provider
// failure propagates because there is nothing meaningful to return.
func (s *Service) Search(ctx context.Context, bookID, query string) ([]domain.ChapterResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	key := bookID + "\x00" + strings.ToLower(query)

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	chapters, err := s.provider.Chapters(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}

	results := []domain.ChapterResult{}
	for _, chapter := range chapters {
		plain, err := htmltext.Strip(chapter.Content)
		if err != nil {
			s.log.Warn("skipping malformed chapter", "chapter", chapter.Index, "error", err)
			continue
		}
		result := domain.ScanChapter(re, chapter.Index, chapter.Title, plain)
		if len(result.Matches) > 0 {
			results = append(results, result)
		}
	}

	s.mu.Lock()
	s.put(key, results)
	s.mu.Unlock()
	return results, nil
}

// InvalidateBook drops cached results for a book, used when its chapters
// are re-parsed.
func (s *Service) InvalidateBook(bookID string) {
	prefix := bookID + "\x00"
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.order[:0]
	for _, key := range s.order {
		if strings.HasPrefix(key, prefix) {
			delete(s.cache, key)
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept
}

func (s *Service) put(key string, results []domain.ChapterResult) {
	if _, ok := s.cache[key]; ok {
		s.cache[key] = results
		return
	}
	if len(s.order) >= cacheCap {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.cache, oldest)
	}
	s.cache[key] = results
	s.order = append(s.order, key)
}
