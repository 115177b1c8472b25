package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"leaflog/internal/modules/tracker/domain"
	"leaflog/internal/platform/clock"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type fakeTicker struct {
	ch chan time.Time
}

func (f fakeTicker) C() <-chan time.Time { return f.ch }
func (f fakeTicker) Stop()               {}

type fakeTickers struct{}

func (fakeTickers) NewTicker(time.Duration) clock.Ticker {
	return fakeTicker{ch: make(chan time.Time)}
}

type seqID struct {
	n int
}

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("sess-%d", s.n)
}

type fakeStore struct {
	put     []domain.Session
	putErr  error
	deleted []string
}

func (f *fakeStore) Put(_ context.Context, session domain.Session) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.put = append(f.put, session)
	return nil
}

func (f *fakeStore) All(context.Context) ([]domain.Session, error) {
	return f.put, nil
}

func (f *fakeStore) AllByBook(_ context.Context, bookID string) ([]domain.Session, error) {
	out := []domain.Session{}
	for _, s := range f.put {
		if s.BookID == bookID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestService(clk *fakeClock, store *fakeStore) *Service {
	return NewService(clk, fakeTickers{}, &seqID{}, store, nil, Config{})
}

func at(d time.Duration) time.Time {
	return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC).Add(d)
}

func TestEndDiscardsShortSession(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc := newTestService(&fakeClock{values: []time.Time{at(0), at(5 * time.Second)}}, store)
	if err := svc.Start(context.Background(), "b1", "Book", "Author", 0, "Ch1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.End(context.Background(), true)
	if len(store.put) != 0 {
		t.Fatalf("session under the minimum duration must not persist, got %d records", len(store.put))
	}
	if _, _, ok := svc.Active(); ok {
		t.Fatalf("draft must be cleared even when the session is discarded")
	}
}

func TestEndPersistsSessionAtThreshold(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc := newTestService(&fakeClock{values: []time.Time{at(0), at(60 * time.Second)}}, store)
	if err := svc.Start(context.Background(), "b1", "Book", "Author", 2, "Ch3"); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.End(context.Background(), false)
	if len(store.put) != 1 {
		t.Fatalf("expected one persisted session, got %d", len(store.put))
	}
	got := store.put[0]
	if got.ID != "sess-1" || got.Duration != 60*time.Second || got.Completed || got.ChapterIndex != 2 {
		t.Fatalf("unexpected session record: %+v", got)
	}
	if !got.EndedAt.Equal(at(60 * time.Second)) {
		t.Fatalf("ended at %v, want %v", got.EndedAt, at(60*time.Second))
	}
}

func TestStartClosesOpenDraftFirst(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc := newTestService(&fakeClock{values: []time.Time{at(0), at(30 * time.Second), at(30 * time.Second)}}, store)
	if err := svc.Start(context.Background(), "b1", "First", "A", 0, "Ch1"); err != nil {
		t.Fatalf("start first: %v", err)
	}
	if err := svc.Start(context.Background(), "b2", "Second", "B", 0, "Ch1"); err != nil {
		t.Fatalf("start second: %v", err)
	}
	if len(store.put) != 1 {
		t.Fatalf("expected prior draft persisted, got %d records", len(store.put))
	}
	if store.put[0].BookID != "b1" || store.put[0].Completed {
		t.Fatalf("prior draft must close as abandoned: %+v", store.put[0])
	}
	draft, _, ok := svc.Active()
	if !ok || draft.BookID != "b2" {
		t.Fatalf("expected open draft for second book, got %+v ok=%v", draft, ok)
	}
}

func TestChangeChapterSplitsVisitIntoSessions(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc := newTestService(&fakeClock{values: []time.Time{at(0), at(time.Minute), at(time.Minute)}}, store)
	if err := svc.Start(context.Background(), "b1", "Book", "Author", 0, "Ch1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.ChangeChapter(context.Background(), 1, "Ch2", true)

	if len(store.put) != 1 {
		t.Fatalf("expected chapter-0 session persisted, got %d", len(store.put))
	}
	got := store.put[0]
	if got.ChapterIndex != 0 || got.Duration != time.Minute || !got.Completed {
		t.Fatalf("unexpected chapter-0 record: %+v", got)
	}
	draft, tracking, ok := svc.Active()
	if !ok || draft.ChapterIndex != 1 || draft.ChapterTitle != "Ch2" {
		t.Fatalf("expected new draft for chapter 1, got %+v", draft)
	}
	if !draft.StartedAt.Equal(at(time.Minute)) || !tracking {
		t.Fatalf("new draft must start fresh with the timer armed: started=%v tracking=%v", draft.StartedAt, tracking)
	}
}

func TestChangeChapterWithoutDraftIsNoop(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc := newTestService(&fakeClock{values: []time.Time{at(0)}}, store)
	svc.ChangeChapter(context.Background(), 3, "Ch4", true)
	if len(store.put) != 0 {
		t.Fatalf("no draft, nothing to persist")
	}
}

func TestIdleCheckPausesWithoutClosing(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc := newTestService(&fakeClock{values: []time.Time{at(0), at(6*time.Minute + time.Second)}}, store)
	if err := svc.Start(context.Background(), "b1", "Book", "Author", 0, "Ch1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.idleCheck(at(6*time.Minute), svc.stop)

	draft, tracking, ok := svc.Active()
	if !ok {
		t.Fatalf("idle pause must keep the draft open")
	}
	if tracking {
		t.Fatalf("idle pause must stop the timer")
	}
	if len(store.put) != 0 {
		t.Fatalf("idle pause must not persist anything")
	}

	svc.UpdateActivity()
	draft, tracking, ok = svc.Active()
	if !ok || !tracking {
		t.Fatalf("activity must resume tracking")
	}
	if !draft.StartedAt.Equal(at(0)) {
		t.Fatalf("resume must not alter start time: %v", draft.StartedAt)
	}
}

func TestIdleCheckBeforeThresholdKeepsTracking(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc := newTestService(&fakeClock{values: []time.Time{at(0)}}, store)
	if err := svc.Start(context.Background(), "b1", "Book", "Author", 0, "Ch1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.idleCheck(at(4*time.Minute), svc.stop)
	if _, tracking, _ := svc.Active(); !tracking {
		t.Fatalf("under the threshold the timer must stay armed")
	}
}

func TestUpdateActivityThrottleDropsBursts(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	clk := &fakeClock{values: []time.Time{
		at(0),
		at(200 * time.Millisecond),
		at(500 * time.Millisecond),
		at(1500 * time.Millisecond),
	}}
	svc := newTestService(clk, store)
	if err := svc.Start(context.Background(), "b1", "Book", "Author", 0, "Ch1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.UpdateActivity()
	if !svc.lastActivity.Equal(at(200 * time.Millisecond)) {
		t.Fatalf("first update must take effect")
	}
	svc.UpdateActivity()
	if !svc.lastActivity.Equal(at(200 * time.Millisecond)) {
		t.Fatalf("update inside the cooldown must be dropped, got %v", svc.lastActivity)
	}
	svc.UpdateActivity()
	if !svc.lastActivity.Equal(at(1500 * time.Millisecond)) {
		t.Fatalf("update after the cooldown must take effect, got %v", svc.lastActivity)
	}
}

func TestEndWithoutOpenSessionIsNoop(t *testing.T) {
	t.Parallel()
	store := &fakeStore{}
	svc := newTestService(&fakeClock{values: []time.Time{at(0)}}, store)
	svc.End(context.Background(), true)
	if len(store.put) != 0 {
		t.Fatalf("nothing to persist without a draft")
	}
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	store := &fakeStore{putErr: errors.New("disk full")}
	svc := newTestService(&fakeClock{values: []time.Time{at(0), at(time.Minute)}}, store)
	if err := svc.Start(context.Background(), "b1", "Book", "Author", 0, "Ch1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.End(context.Background(), true)
	if _, _, ok := svc.Active(); ok {
		t.Fatalf("draft must clear even when the store rejects the write")
	}
}

func TestStartRequiresBookID(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakeClock{values: []time.Time{at(0)}}, &fakeStore{})
	if err := svc.Start(context.Background(), "  ", "Book", "Author", 0, "Ch1"); err == nil {
		t.Fatalf("blank book id must fail")
	}
}
