package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"leaflog/internal/modules/analytics/domain"
	"leaflog/internal/modules/analytics/service"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type fakeSessionLog struct {
	sessions []domain.Session
	err      error
}

func (f *fakeSessionLog) Sessions(_ context.Context, bookID string) ([]domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	if bookID == "" {
		return f.sessions, nil
	}
	out := []domain.Session{}
	for _, s := range f.sessions {
		if s.BookID == bookID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeProgress struct {
	pct map[string]float64
}

func (f *fakeProgress) ProgressPct(_ context.Context, bookID string) (float64, error) {
	pct, ok := f.pct[bookID]
	if !ok {
		return 0, fmt.Errorf("unknown book %s", bookID)
	}
	return pct, nil
}

func session(id, bookID string, chapter int, start time.Time, d time.Duration, completed bool) domain.Session {
	return domain.Session{
		ID:           id,
		BookID:       bookID,
		BookTitle:    "Book " + bookID,
		ChapterIndex: chapter,
		ChapterTitle: fmt.Sprintf("Chapter %d", chapter+1),
		StartedAt:    start,
		EndedAt:      start.Add(d),
		Duration:     d,
		Completed:    completed,
	}
}

func newService(now time.Time, log *fakeSessionLog, progress *fakeProgress) *service.Service {
	if progress == nil {
		progress = &fakeProgress{}
	}
	return service.NewService(&fakeClock{now: now}, log, progress, nil)
}

func TestChapterHistoryCompletedSticksAcrossReReads(t *testing.T) {
	t.Parallel()
	first := time.Date(2026, 1, 1, 20, 0, 0, 0, time.Local)
	later := time.Date(2026, 1, 3, 20, 0, 0, 0, time.Local)
	log := &fakeSessionLog{sessions: []domain.Session{
		session("s1", "X", 0, first, 30*time.Minute, true),
		session("s2", "X", 1, later, 20*time.Minute, true),
		session("s3", "X", 0, later.Add(time.Hour), 10*time.Minute, false),
	}}
	svc := newService(later.AddDate(0, 0, 1), log, nil)

	entries, err := svc.ChapterHistory(context.Background(), "X")
	if err != nil {
		t.Fatalf("chapter history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 chapter entries, got %d", len(entries))
	}
	// Sorted by last read, descending: chapter 0 was re-read after chapter 1.
	ch0 := entries[0]
	if ch0.ChapterIndex != 0 {
		t.Fatalf("expected chapter 0 first, got %d", ch0.ChapterIndex)
	}
	if !ch0.Completed {
		t.Fatal("chapter 0 must stay completed despite the later unfinished re-read")
	}
	if ch0.TimesRead != 2 || ch0.TotalTime != 40*time.Minute {
		t.Fatalf("unexpected chapter 0 fold: %+v", ch0)
	}
	if !ch0.FirstRead.Equal(first) {
		t.Fatalf("first read should be the earliest session, got %v", ch0.FirstRead)
	}
}

func TestBookHistoryDistinctChapters(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.Local)
	log := &fakeSessionLog{sessions: []domain.Session{
		session("s1", "A", 0, start, 10*time.Minute, false),
		session("s2", "A", 0, start.Add(time.Hour), 10*time.Minute, false),
		session("s3", "A", 4, start.Add(2*time.Hour), 10*time.Minute, true),
		session("s4", "B", 0, start.Add(3*time.Hour), 5*time.Minute, false),
	}}
	svc := newService(start.AddDate(0, 0, 1), log, nil)

	books, err := svc.BookHistory(context.Background())
	if err != nil {
		t.Fatalf("book history: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if books[0].BookID != "B" {
		t.Fatalf("expected most recently read book first, got %s", books[0].BookID)
	}
	bookA := books[1]
	if bookA.ChaptersRead != 2 {
		t.Fatalf("expected 2 distinct chapters for A, got %d", bookA.ChaptersRead)
	}
	if len(bookA.Sessions) != 3 || bookA.TotalTime != 30*time.Minute {
		t.Fatalf("unexpected book A fold: %+v", bookA)
	}
}

func TestTrendsWindowIsDense(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 14, 0, 0, 0, time.Local)
	log := &fakeSessionLog{sessions: []domain.Session{
		session("s1", "A", 0, now.AddDate(0, 0, -2), 25*time.Minute, true),
		session("s2", "B", 1, now.AddDate(0, 0, -2).Add(time.Hour), 5*time.Minute, false),
		session("s3", "A", 1, now.AddDate(0, 0, -30), time.Hour, true),
	}}
	svc := newService(now, log, nil)

	points, err := svc.Trends(context.Background(), 7)
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	if len(points) != 8 {
		t.Fatalf("expected 8 buckets for a 7-day window, got %d", len(points))
	}
	if points[0].Date != "2026-03-08" || points[7].Date != "2026-03-15" {
		t.Fatalf("unexpected window bounds: %s .. %s", points[0].Date, points[7].Date)
	}
	active := points[5]
	if active.Date != "2026-03-13" {
		t.Fatalf("unexpected bucket date %s", active.Date)
	}
	if active.SessionCount != 2 || active.BooksRead != 2 || active.ChaptersCompleted != 1 {
		t.Fatalf("unexpected active bucket: %+v", active)
	}
	if active.TotalTime != 30*time.Minute {
		t.Fatalf("unexpected bucket total: %v", active.TotalTime)
	}
	for i, point := range points {
		if i == 5 {
			continue
		}
		if point.SessionCount != 0 || point.TotalTime != 0 {
			t.Fatalf("expected zero bucket at %s, got %+v", point.Date, point)
		}
	}
}

func TestStatsEmptyLog(t *testing.T) {
	t.Parallel()
	svc := newService(time.Now(), &fakeSessionLog{}, nil)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats != (domain.Stats{}) {
		t.Fatalf("expected all-zero stats, got %+v", stats)
	}
}

func TestStatsAggregates(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 22, 0, 0, 0, time.Local)
	log := &fakeSessionLog{sessions: []domain.Session{
		session("s1", "A", 0, now.Add(-2*time.Hour), 30*time.Minute, true),
		session("s2", "A", 0, now.AddDate(0, 0, -1), 60*time.Minute, true),
		session("s3", "B", 2, now.AddDate(0, 0, -1).Add(time.Hour), 30*time.Minute, false),
	}}
	progress := &fakeProgress{pct: map[string]float64{"A": 100, "B": 40}}
	svc := newService(now, log, progress)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalReadingTime != 2*time.Hour {
		t.Fatalf("total time: %v", stats.TotalReadingTime)
	}
	if stats.TotalChaptersCompleted != 2 {
		t.Fatalf("chapters completed: %d", stats.TotalChaptersCompleted)
	}
	if stats.TotalBooksStarted != 2 || stats.TotalBooksCompleted != 1 {
		t.Fatalf("books: started=%d completed=%d", stats.TotalBooksStarted, stats.TotalBooksCompleted)
	}
	if stats.AverageSession != 40*time.Minute || stats.LongestSession != time.Hour {
		t.Fatalf("durations: avg=%v longest=%v", stats.AverageSession, stats.LongestSession)
	}
	if stats.CurrentStreak != 2 || stats.LongestStreak != 2 {
		t.Fatalf("streaks: current=%d longest=%d", stats.CurrentStreak, stats.LongestStreak)
	}
	// 120 minutes spread over a 90-day window.
	if stats.DailyAverage != 2*time.Hour/90 {
		t.Fatalf("daily average: %v", stats.DailyAverage)
	}
	if stats.WeeklyAverage != stats.DailyAverage*7 || stats.MonthlyAverage != stats.DailyAverage*30 {
		t.Fatalf("derived averages: weekly=%v monthly=%v", stats.WeeklyAverage, stats.MonthlyAverage)
	}
}

func TestStatsStaleStreakIsZero(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	log := &fakeSessionLog{sessions: []domain.Session{
		session("s1", "A", 0, now.AddDate(0, 0, -3), 45*time.Minute, true),
		session("s2", "A", 1, now.AddDate(0, 0, -2), 45*time.Minute, true),
	}}
	svc := newService(now, log, nil)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.CurrentStreak != 0 {
		t.Fatalf("expected no live streak, got %d", stats.CurrentStreak)
	}
	if stats.LongestStreak != 2 {
		t.Fatalf("expected longest streak 2, got %d", stats.LongestStreak)
	}
}

func TestReadFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()
	log := &fakeSessionLog{err: fmt.Errorf("disk on fire")}
	svc := newService(time.Now(), log, nil)
	ctx := context.Background()

	entries, err := svc.ChapterHistory(ctx, "")
	if err != nil {
		t.Fatalf("chapter history should swallow store errors, got %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats should swallow store errors, got %v", err)
	}
	if stats != (domain.Stats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
