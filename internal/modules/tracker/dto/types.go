package dto

import "time"

type StartInput struct {
	BookID       string
	BookTitle    string
	BookAuthor   string
	ChapterIndex int
	ChapterTitle string
}

type ChangeChapterInput struct {
	ChapterIndex int
	ChapterTitle string
	Completed    bool
}

type ActiveOutput struct {
	BookID       string
	BookTitle    string
	BookAuthor   string
	ChapterIndex int
	ChapterTitle string
	StartedAt    time.Time
	Tracking     bool
}

type SessionOutput struct {
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
