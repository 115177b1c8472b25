package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"leaflog/internal/modules/tracker/domain"
	trackerout "leaflog/internal/modules/tracker/port/out"
	"leaflog/internal/platform/clock"
	"leaflog/internal/platform/id"
)

const (
	defaultIdleThreshold = 5 * time.Minute
	defaultCheckInterval = 30 * time.Second
	activityThrottle     = time.Second
)

type Config struct {
	IdleThreshold time.Duration
	CheckInterval time.Duration
	MinSession    time.Duration
}

func (c Config) withDefaults() Config {
	if c.IdleThreshold <= 0 {
		c.IdleThreshold = defaultIdleThreshold
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = defaultCheckInterval
	}
	if c.MinSession <= 0 {
		c.MinSession = domain.MinSessionDuration
	}
	return c
}

// Service owns the single open session draft and its idle-check timer.
// Construct one instance in the composition root; the invariant of at most
// one open session holds per instance.
type Service struct {
	clock   clock.Clock
	tickers clock.TickerFactory
	idGen   id.Generator
	store   trackerout.SessionStore
	log     hclog.Logger
	cfg     Config

	mu           sync.Mutex
	draft        *domain.Draft
	lastActivity time.Time
	lastMark     time.Time
	stop         chan struct{}
}

func NewService(
	clk clock.Clock,
	tickers clock.TickerFactory,
	idGen id.Generator,
	store trackerout.SessionStore,
	log hclog.Logger,
	cfg Config,
) *Service {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Service{
		clock:   clk,
		tickers: tickers,
		idGen:   idGen,
		store:   store,
		log:     log,
		cfg:     cfg.withDefaults(),
	}
}

// Start opens a new session draft. An already-open draft is closed first as
// an abandoned read (completed=false).
func (s *Service) Start(ctx context.Context, bookID, bookTitle, bookAuthor string, chapterIndex int, chapterTitle string) error {
	if strings.TrimSpace(bookID) == "" {
		return fmt.Errorf("book id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft != nil {
		s.closeLocked(ctx, false)
	}
	now := s.clock.Now()
	s.draft = &domain.Draft{
		BookID:       bookID,
		BookTitle:    bookTitle,
		BookAuthor:   bookAuthor,
		ChapterIndex: chapterIndex,
		ChapterTitle: chapterTitle,
		StartedAt:    now,
	}
	s.lastActivity = now
	s.lastMark = time.Time{}
	s.armLocked()
	return nil
}

// End closes and persists the open draft, if any. Calling with no open
// session is a silent no-op.
func (s *Service) End(ctx context.Context, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	s.closeLocked(ctx, completed)
	s.draft = nil
	s.disarmLocked()
}

// ChangeChapter closes the open draft with the given completed flag and
// immediately opens a new one for the same book at the new chapter. One
// multi-chapter visit becomes one session record per chapter.
func (s *Service) ChangeChapter(ctx context.Context, chapterIndex int, chapterTitle string, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	prev := *s.draft
	s.closeLocked(ctx, completed)
	now := s.clock.Now()
	s.draft = &domain.Draft{
		BookID:       prev.BookID,
		BookTitle:    prev.BookTitle,
		BookAuthor:   prev.BookAuthor,
		ChapterIndex: chapterIndex,
		ChapterTitle: chapterTitle,
		StartedAt:    now,
	}
	s.lastActivity = now
	s.armLocked()
}

// UpdateActivity refreshes the liveness timestamp. Calls inside the one
// second cooldown are dropped outright, not deferred. An idle-paused draft
// is resumed.
func (s *Service) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	now := s.clock.Now()
	if !s.lastMark.IsZero() && now.Sub(s.lastMark) < activityThrottle {
		return
	}
	s.lastMark = now
	s.lastActivity = now
	s.armLocked()
}

// Pause stops the idle-check timer without touching the draft.
func (s *Service) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
}

// Resume re-arms the idle-check timer for an open draft.
func (s *Service) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	s.armLocked()
}

// Active returns a copy of the open draft. The second return reports whether
// the idle timer is currently armed.
func (s *Service) Active() (domain.Draft, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return domain.Draft{}, false, false
	}
	return *s.draft, s.stop != nil, true
}

func (s *Service) Sessions(ctx context.Context, bookID string) ([]domain.Session, error) {
	if bookID == "" {
		return s.store.All(ctx)
	}
	return s.store.AllByBook(ctx, bookID)
}

func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return s.store.Delete(ctx, sessionID)
}

// closeLocked finalizes the draft and hands it to the store. Short sessions
// are dropped; store failures are logged and swallowed so a persistence
// hiccup never interrupts reading.
func (s *Service) closeLocked(ctx context.Context, completed bool) {
	session, ok := s.draft.Close(s.idGen.New(), s.clock.Now(), completed, s.cfg.MinSession)
	if !ok {
		s.log.Debug("dropping short session", "book", s.draft.BookID, "chapter", s.draft.ChapterIndex)
		return
	}
	if err := s.store.Put(ctx, session); err != nil {
		s.log.Warn("persist reading session", "id", session.ID, "error", err)
	}
}

func (s *Service) armLocked() {
	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	s.stop = stop
	ticker := s.tickers.NewTicker(s.cfg.CheckInterval)
	go s.idleLoop(stop, ticker)
}

func (s *Service) disarmLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

func (s *Service) idleLoop(stop chan struct{}, ticker clock.Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C():
			s.idleCheck(now, stop)
		}
	}
}

// idleCheck pauses tracking once the idle threshold passes. It only ever
// pauses; ending a session happens on the caller's flow, never here.
func (s *Service) idleCheck(now time.Time, stop chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != stop || s.draft == nil {
		return
	}
	if now.Sub(s.lastActivity) >= s.cfg.IdleThreshold {
		s.log.Debug("idle threshold passed, pausing session", "book", s.draft.BookID)
		s.disarmLocked()
	}
}
