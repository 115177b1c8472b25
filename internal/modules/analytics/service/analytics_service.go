package service

import (
	"context"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"

	"leaflog/internal/modules/analytics/domain"
	analyticsout "leaflog/internal/modules/analytics/port/out"
	"leaflog/internal/platform/clock"
)

// dailyAverageWindow is the trailing window the daily-average figure is
// computed over. Inactive days count as zero; the denominator is always
// the full window, never the count of active days.
const dailyAverageWindow = 90

// StreakUnlockThreshold gates streak display in the UI. The service always
// computes true streak values; callers apply the gate.
const StreakUnlockThreshold = 30 * time.Minute

type Service struct {
	clock    clock.Clock
	sessions analyticsout.SessionLog
	progress analyticsout.BookProgress
	log      hclog.Logger
}

func NewService(clk clock.Clock, sessions analyticsout.SessionLog, progress analyticsout.BookProgress, log hclog.Logger) *Service {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Service{clock: clk, sessions: sessions, progress: progress, log: log}
}

// ChapterHistory folds the session log into one record per (book, chapter),
// most recently read first. Session-log failures degrade to an empty view.
func (s *Service) ChapterHistory(ctx context.Context, bookID string) ([]domain.ChapterHistory, error) {
	sessions := s.load(ctx, bookID)
	byKey := map[chapterKey]*domain.ChapterHistory{}
	for _, session := range sessions {
		key := chapterKey{bookID: session.BookID, chapter: session.ChapterIndex}
		entry, ok := byKey[key]
		if !ok {
			entry = &domain.ChapterHistory{
				BookID:       session.BookID,
				BookTitle:    session.BookTitle,
				ChapterIndex: session.ChapterIndex,
				ChapterTitle: session.ChapterTitle,
				FirstRead:    session.StartedAt,
				LastRead:     session.StartedAt,
			}
			byKey[key] = entry
		}
		entry.TotalTime += session.Duration
		entry.TimesRead++
		entry.Completed = entry.Completed || session.Completed
		if session.StartedAt.Before(entry.FirstRead) {
			entry.FirstRead = session.StartedAt
		}
		if session.StartedAt.After(entry.LastRead) {
			entry.LastRead = session.StartedAt
			entry.ChapterTitle = session.ChapterTitle
		}
	}
	out := make([]domain.ChapterHistory, 0, len(byKey))
	for _, entry := range byKey {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastRead.After(out[j].LastRead) })
	return out, nil
}

// BookHistory folds the session log into one record per book, most recently
// read first. Distinct-chapter counts are recomputed on every fold.
func (s *Service) BookHistory(ctx context.Context) ([]domain.BookHistory, error) {
	out := s.foldBooks(s.load(ctx, ""))
	for i := range out {
		out[i].CompletionPct = s.progressPct(ctx, out[i].BookID)
	}
	return out, nil
}

// Trends builds a dense window of days+1 calendar-day buckets ending today,
// ascending by date. Days without activity stay zero-valued.
func (s *Service) Trends(ctx context.Context, days int) ([]domain.TrendPoint, error) {
	return s.buildTrend(s.load(ctx, ""), days), nil
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	sessions := s.load(ctx, "")
	if len(sessions) == 0 {
		return domain.Stats{}, nil
	}

	var stats domain.Stats
	active := map[string]bool{}
	for _, session := range sessions {
		stats.TotalReadingTime += session.Duration
		if session.Completed {
			stats.TotalChaptersCompleted++
		}
		if session.Duration > stats.LongestSession {
			stats.LongestSession = session.Duration
		}
		active[session.StartedAt.Format("2006-01-02")] = true
	}
	stats.AverageSession = stats.TotalReadingTime / time.Duration(len(sessions))

	books := s.foldBooks(sessions)
	stats.TotalBooksStarted = len(books)
	for _, book := range books {
		if s.progressPct(ctx, book.BookID) >= 100 {
			stats.TotalBooksCompleted++
		}
	}

	now := s.clock.Now()
	stats.CurrentStreak, stats.LongestStreak = domain.Streaks(active, now)

	var windowTotal time.Duration
	for _, point := range s.buildTrend(sessions, dailyAverageWindow-1) {
		windowTotal += point.TotalTime
	}
	stats.DailyAverage = windowTotal / dailyAverageWindow
	stats.WeeklyAverage = stats.DailyAverage * 7
	stats.MonthlyAverage = stats.DailyAverage * 30
	return stats, nil
}

type chapterKey struct {
	bookID  string
	chapter int
}

// load reads sessions and swallows store failures: analytics views degrade
// to empty rather than surfacing storage hiccups to the UI.
func (s *Service) load(ctx context.Context, bookID string) []domain.Session {
	sessions, err := s.sessions.Sessions(ctx, bookID)
	if err != nil {
		s.log.Warn("session log read failed", "error", err)
		return nil
	}
	return sessions
}

func (s *Service) progressPct(ctx context.Context, bookID string) float64 {
	if s.progress == nil {
		return 0
	}
	pct, err := s.progress.ProgressPct(ctx, bookID)
	if err != nil {
		s.log.Debug("book progress lookup failed", "book_id", bookID, "error", err)
		return 0
	}
	return pct
}

func (s *Service) foldBooks(sessions []domain.Session) []domain.BookHistory {
	byBook := map[string]*domain.BookHistory{}
	chapters := map[string]map[int]bool{}
	for _, session := range sessions {
		entry, ok := byBook[session.BookID]
		if !ok {
			entry = &domain.BookHistory{
				BookID:     session.BookID,
				BookTitle:  session.BookTitle,
				BookAuthor: session.BookAuthor,
				FirstRead:  session.StartedAt,
				LastRead:   session.StartedAt,
			}
			byBook[session.BookID] = entry
			chapters[session.BookID] = map[int]bool{}
		}
		entry.TotalTime += session.Duration
		entry.Sessions = append(entry.Sessions, session)
		chapters[session.BookID][session.ChapterIndex] = true
		if session.StartedAt.Before(entry.FirstRead) {
			entry.FirstRead = session.StartedAt
		}
		if session.StartedAt.After(entry.LastRead) {
			entry.LastRead = session.StartedAt
		}
	}
	out := make([]domain.BookHistory, 0, len(byBook))
	for bookID, entry := range byBook {
		entry.ChaptersRead = len(chapters[bookID])
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastRead.After(out[j].LastRead) })
	return out
}

func (s *Service) buildTrend(sessions []domain.Session, days int) []domain.TrendPoint {
	if days < 0 {
		days = 0
	}
	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	first := today.AddDate(0, 0, -days)

	index := make(map[string]int, days+1)
	out := make([]domain.TrendPoint, 0, days+1)
	for d := first; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		index[key] = len(out)
		out = append(out, domain.TrendPoint{Date: key})
	}

	booksPerDay := make(map[string]map[string]bool, len(out))
	for _, session := range sessions {
		key := session.StartedAt.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			continue
		}
		out[i].TotalTime += session.Duration
		out[i].SessionCount++
		if session.Completed {
			out[i].ChaptersCompleted++
		}
		if booksPerDay[key] == nil {
			booksPerDay[key] = map[string]bool{}
		}
		if !booksPerDay[key][session.BookID] {
			booksPerDay[key][session.BookID] = true
			out[i].BooksRead++
		}
	}
	return out
}
