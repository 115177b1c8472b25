package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	analyticsdto "leaflog/internal/modules/analytics/dto"
	"leaflog/internal/platform/timefmt"
	"leaflog/internal/ui/theme"
)

// trendDays is the window rendered in the activity chart: two weeks.
const trendDays = 13

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Stats(ctx context.Context) (analyticsdto.StatsOutput, error)
	Trends(ctx context.Context, days int) ([]analyticsdto.TrendOutput, error)
	BookHistory(ctx context.Context) ([]analyticsdto.BookHistoryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Stats  analyticsdto.StatsOutput
	Trends []analyticsdto.TrendOutput
	Books  []analyticsdto.BookHistoryOutput
	Err    error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	viewport viewport.Model
	stats    analyticsdto.StatsOutput
	trends   []analyticsdto.TrendOutput
	books    []analyticsdto.BookHistoryOutput
	loaded   bool
	errText  string
	width    int
	height   int
}

func New(port Port) Model {
	return Model{port: port, viewport: viewport.New(0, 0)}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload refetches every analytics snapshot this view renders.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := m.port.Stats(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		trends, err := m.port.Trends(ctx, trendDays)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		books, err := m.port.BookHistory(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Stats: stats, Trends: trends, Books: books}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width
		m.viewport.Height = m.height - 1
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
		if m.loaded {
			m.viewport.SetContent(m.render())
		}

	case LoadedMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.loaded = true
		m.stats = msg.Stats
		m.trends = msg.Trends
		m.books = msg.Books
		m.viewport.SetContent(m.render())

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, m.Reload()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := theme.Title.Render("Stats") + theme.Muted.Render("  r: refresh") + "\n"
	if m.errText != "" {
		return header + theme.Alert.Render("stats unavailable: "+m.errText)
	}
	if !m.loaded {
		return header + theme.Muted.Render("loading…")
	}
	return header + m.viewport.View()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) render() string {
	s := m.stats
	var sb strings.Builder

	sb.WriteString(theme.Accent.Render("Totals") + "\n")
	sb.WriteString(fmt.Sprintf("  reading time        %s\n", timefmt.Duration(s.TotalReadingTime)))
	sb.WriteString(fmt.Sprintf("  chapters completed  %d\n", s.TotalChaptersCompleted))
	sb.WriteString(fmt.Sprintf("  books started       %d\n", s.TotalBooksStarted))
	sb.WriteString(fmt.Sprintf("  books completed     %d\n", s.TotalBooksCompleted))
	sb.WriteString(fmt.Sprintf("  average session     %s\n", timefmt.Duration(s.AverageSession)))
	sb.WriteString(fmt.Sprintf("  longest session     %s\n", timefmt.Duration(s.LongestSession)))
	sb.WriteString("\n")

	sb.WriteString(theme.Accent.Render("Streaks") + "\n")
	if s.StreaksUnlocked {
		sb.WriteString(fmt.Sprintf("  current  %d days\n", s.CurrentStreak))
		sb.WriteString(fmt.Sprintf("  longest  %d days\n", s.LongestStreak))
	} else {
		// Streaks unlock at a 30-minute daily average.
		sb.WriteString(theme.Muted.Render("  current  N/A\n"))
		sb.WriteString(theme.Muted.Render("  longest  N/A\n"))
	}
	sb.WriteString(fmt.Sprintf("  daily average    %s\n", timefmt.Duration(s.DailyAverage)))
	sb.WriteString(fmt.Sprintf("  weekly average   %s\n", timefmt.Duration(s.WeeklyAverage)))
	sb.WriteString(fmt.Sprintf("  monthly average  %s\n", timefmt.Duration(s.MonthlyAverage)))
	sb.WriteString("\n")

	sb.WriteString(theme.Accent.Render("Last two weeks") + "\n")
	sb.WriteString(m.renderTrend())
	sb.WriteString("\n")

	sb.WriteString(theme.Accent.Render("Books") + "\n")
	if len(m.books) == 0 {
		sb.WriteString(theme.Muted.Render("  no reading history yet\n"))
	}
	for _, book := range m.books {
		sb.WriteString(fmt.Sprintf("  %-32s %8s  %3d ch  %s\n",
			trim(book.BookTitle, 32),
			timefmt.Duration(book.TotalTime),
			book.ChaptersRead,
			theme.Muted.Render("last "+timefmt.Day(book.LastRead)),
		))
	}
	return sb.String()
}

func (m Model) renderTrend() string {
	var peak int64
	for _, point := range m.trends {
		if int64(point.TotalTime) > peak {
			peak = int64(point.TotalTime)
		}
	}
	var sb strings.Builder
	for _, point := range m.trends {
		width := 0
		if peak > 0 {
			width = int(int64(point.TotalTime) * 24 / peak)
		}
		bar := strings.Repeat("█", width)
		label := timefmt.Duration(point.TotalTime)
		if point.TotalTime == 0 {
			label = "-"
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			theme.Muted.Render(point.Date),
			theme.Good.Render(bar),
			label,
		))
	}
	return sb.String()
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
