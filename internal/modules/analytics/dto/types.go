package dto

import "time"

type ChapterHistoryOutput struct {
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

type BookHistoryOutput struct {
	BookID        string
	BookTitle     string
	BookAuthor    string
	TotalTime     time.Duration
	FirstRead     time.Time
	LastRead      time.Time
	ChaptersRead  int
	SessionCount  int
	CompletionPct float64
}

type TrendOutput struct {
	Date              string
	TotalTime         time.Duration
	SessionCount      int
	BooksRead         int
	ChaptersCompleted int
}

type StatsOutput struct {
	TotalReadingTime       time.Duration
	TotalChaptersCompleted int
	TotalBooksStarted      int
	TotalBooksCompleted    int
	AverageSession         time.Duration
	LongestSession         time.Duration
	CurrentStreak          int
	LongestStreak          int
	StreaksUnlocked        bool
	DailyAverage           time.Duration
	WeeklyAverage          time.Duration
	MonthlyAverage         time.Duration
}
