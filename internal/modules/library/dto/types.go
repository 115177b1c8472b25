package dto

import "time"

type AddBookInput struct {
	Path   string
	Title  string
	Author string
}

type BookOutput struct {
	ID          string
	Title       string
	Author      string
	Format      string
	ProgressPct float64
}

type BookDetailOutput struct {
	ID           string
	Title        string
	Author       string
	Format       string
	FilePath     string
	Slug         string
	ProgressPct  float64
	ChapterCount int
	AddedAt      time.Time
	UpdatedAt    time.Time
}

type UpdateProgressInput struct {
	BookID       string
	ProgressPct  float64
	ChapterCount int
}
