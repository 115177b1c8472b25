package domain

import (
	"fmt"
	"strings"
	"time"
)

const SchemaVersion = 1

type Format string

const (
	FormatPDF      Format = "pdf"
	FormatEPUB     Format = "epub"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

func (f Format) Validate() error {
	switch f {
	case FormatPDF, FormatEPUB, FormatHTML, FormatMarkdown, FormatText:
		return nil
	default:
		return fmt.Errorf("unsupported book format %q", string(f))
	}
}

// Book is a catalog entry. ProgressPct is the externally-tracked completion
// figure the analytics engine consults for "books completed".
type Book struct {
	ID           string
	Title        string
	Author       string
	FilePath     string
	Format       Format
	Slug         string
	ProgressPct  float64
	ChapterCount int
	AddedAt      time.Time
	UpdatedAt    time.Time
}

func (b Book) Validate() error {
	if err := b.Format.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(b.FilePath) == "" {
		return fmt.Errorf("file path is required")
	}
	return nil
}
