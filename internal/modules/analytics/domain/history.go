package domain

import "time"

// Session is the analytics view of one closed reading visit. The tracker
// owns the canonical record; this module only ever folds over copies.
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
	Completed    bool
}

// ChapterHistory aggregates every session for one (book, chapter) pair.
// Completed is an OR over contributing sessions: once a chapter has been
// finished it stays finished, re-reads never clear the flag.
type ChapterHistory struct {
	BookID       string
	BookTitle    string
	ChapterIndex int
	ChapterTitle string
	TotalTime    time.Duration
	FirstRead    time.Time
	LastRead     time.Time
	TimesRead    int
	Completed    bool
}

type BookHistory struct {
	BookID        string
	BookTitle     string
	BookAuthor    string
	TotalTime     time.Duration
	FirstRead     time.Time
	LastRead      time.Time
	ChaptersRead  int
	CompletionPct float64
	Sessions      []Session
}

// TrendPoint is one calendar day in a dense trend window. Date is a local
// calendar date formatted 2006-01-02.
type TrendPoint struct {
	Date              string
	TotalTime         time.Duration
	SessionCount      int
	BooksRead         int
	ChaptersCompleted int
}

type Stats struct {
	TotalReadingTime       time.Duration
	TotalChaptersCompleted int
	TotalBooksStarted      int
	TotalBooksCompleted    int
	AverageSession         time.Duration
	LongestSession         time.Duration
	CurrentStreak          int
	LongestStreak          int
	DailyAverage           time.Duration
	WeeklyAverage          time.Duration
	MonthlyAverage         time.Duration
}
