package out

import (
	"context"

	"leaflog/internal/modules/analytics/domain"
	analyticsout "leaflog/internal/modules/analytics/port/out"
	trackerin "leaflog/internal/modules/tracker/port/in"
)

// TrackerSessionLog bridges the tracker's session history into the
// analytics module without either module importing the other's domain.
type TrackerSessionLog struct {
	tracker trackerin.Usecase
}

var _ analyticsout.SessionLog = TrackerSessionLog{}

func NewTrackerSessionLog(tracker trackerin.Usecase) TrackerSessionLog {
	return TrackerSessionLog{tracker: tracker}
}

func (a TrackerSessionLog) Sessions(ctx context.Context, bookID string) ([]domain.Session, error) {
	sessions, err := a.tracker.Sessions(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Session, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, domain.Session{
			ID:           session.ID,
			BookID:       session.BookID,
			BookTitle:    session.BookTitle,
			BookAuthor:   session.BookAuthor,
			ChapterIndex: session.ChapterIndex,
			ChapterTitle: session.ChapterTitle,
			StartedAt:    session.StartedAt,
			EndedAt:      session.EndedAt,
			Duration:     session.Duration,
			Completed:    session.Completed,
		})
	}
	return out, nil
}
