package domain

import "time"

const SchemaVersion = 1

// MinSessionDuration is the noise floor: anything shorter was not a real
// reading event and is never persisted.
const MinSessionDuration = 10 * time.Second

// Session is one continuous, timed reading visit to a single chapter of a
// single book. Immutable once persisted.
type Session struct {
	ID           string
	BookID       string
	BookTitle    string
	BookAuthor   string
	ChapterIndex int
	ChapterTitle string
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
	// Completed is true only when the reader advanced forward to the next
	// chapter; backward navigation, jumps, and teardown all leave it false.
	Completed bool
}

// Draft is the single open session. Book metadata is snapshotted at start so
// later catalog edits do not rewrite history.
type Draft struct {
	BookID       string
	BookTitle    string
	BookAuthor   string
	ChapterIndex int
	ChapterTitle string
	StartedAt    time.Time
}

// Close finalizes a draft at endedAt. The second return is false when the
// session falls under min and must be discarded.
func (d Draft) Close(id string, endedAt time.Time, completed bool, min time.Duration) (Session, bool) {
	duration := endedAt.Sub(d.StartedAt)
	if duration < min {
		return Session{}, false
	}
	return Session{
		ID:           id,
		BookID:       d.BookID,
		BookTitle:    d.BookTitle,
		BookAuthor:   d.BookAuthor,
		ChapterIndex: d.ChapterIndex,
		ChapterTitle: d.ChapterTitle,
		StartedAt:    d.StartedAt,
		EndedAt:      endedAt,
		Duration:     duration,
		Completed:    completed,
	}, true
}
