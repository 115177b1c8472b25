package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	searchdto "leaflog/internal/modules/search/dto"
	"leaflog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Search(ctx context.Context, bookID, query string) ([]searchdto.ChapterResultOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ResultsMsg struct {
	Query   string
	Results []searchdto.ChapterResultOutput
	Err     error
}

// JumpMsg bubbles to the app model, which opens the chapter in the reader.
type JumpMsg struct {
	ChapterIndex int
}

// row is one selectable line: a single match within a chapter.
type row struct {
	chapterIndex int
	chapterTitle string
	match        searchdto.MatchOutput
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	input    textinput.Model
	results  viewport.Model
	bookID   string
	rows     []row
	cursor   int
	query    string
	errText  string
	scoped   bool
	scopeIdx int
	width    int
	height   int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "search text…"
	ti.CharLimit = 256

	return Model{
		port:    port,
		input:   ti,
		results: viewport.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd { return nil }

// SetBook points the view at the open book and clears stale results.
func (m *Model) SetBook(bookID string) {
	if m.bookID != bookID {
		m.bookID = bookID
		m.rows = nil
		m.query = ""
		m.errText = ""
	}
}

// SetChapter records the reader's current chapter for scoped filtering.
// Scope narrows the full result set here rather than in the engine.
func (m *Model) SetChapter(chapterIndex int) {
	m.scopeIdx = chapterIndex
}

// Focus activates the query input.
func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

// Typing reports whether keystrokes belong to the query input.
func (m Model) Typing() bool { return m.input.Focused() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.Width = m.width
		m.results.Height = m.height - 3
		if m.results.Height < 1 {
			m.results.Height = 1
		}

	case ResultsMsg:
		if msg.Query != m.query {
			return m, nil
		}
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			m.rows = nil
		} else {
			m.errText = ""
			m.rows = flatten(msg.Results)
		}
		m.cursor = 0
		m.results.SetContent(m.renderRows())
		m.results.GotoTop()

	case tea.KeyMsg:
		if m.input.Focused() {
			switch msg.String() {
			case "enter":
				m.input.Blur()
				m.query = strings.TrimSpace(m.input.Value())
				if m.query == "" || m.bookID == "" {
					return m, nil
				}
				return m, m.searchCmd(m.query)
			case "esc":
				m.input.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "/":
			return m, m.Focus()
		case "c":
			m.scoped = !m.scoped
			m.cursor = 0
			m.results.SetContent(m.renderRows())
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.results.SetContent(m.renderRows())
			}
		case "down", "j":
			if m.cursor+1 < len(m.visibleRows()) {
				m.cursor++
				m.results.SetContent(m.renderRows())
			}
		case "enter":
			rows := m.visibleRows()
			if m.cursor < len(rows) {
				idx := rows[m.cursor].chapterIndex
				return m, func() tea.Msg { return JumpMsg{ChapterIndex: idx} }
			}
		}
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Search") + "  ")
	if m.bookID == "" {
		sb.WriteString(theme.Muted.Render("open a book first"))
	} else if m.scoped {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("scope: chapter %d  (c: whole book)", m.scopeIdx+1)))
	} else {
		sb.WriteString(theme.Muted.Render("scope: whole book  (c: current chapter)"))
	}
	sb.WriteString("\n/ " + m.input.View() + "\n")
	if m.errText != "" {
		sb.WriteString(theme.Alert.Render("search unavailable: "+m.errText) + "\n")
	}
	return sb.String() + m.results.View()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) visibleRows() []row {
	if !m.scoped {
		return m.rows
	}
	out := make([]row, 0, len(m.rows))
	for _, r := range m.rows {
		if r.chapterIndex == m.scopeIdx {
			out = append(out, r)
		}
	}
	return out
}

func (m Model) renderRows() string {
	rows := m.visibleRows()
	if len(rows) == 0 {
		if m.query != "" {
			return theme.Muted.Render("no matches for " + m.query)
		}
		return theme.Muted.Render("type / to search")
	}
	var sb strings.Builder
	lastChapter := -1
	shown := 0
	for i, r := range rows {
		if r.chapterIndex != lastChapter {
			sb.WriteString(theme.Accent.Render(fmt.Sprintf("%s (ch %d)", r.chapterTitle, r.chapterIndex+1)) + "\n")
			lastChapter = r.chapterIndex
		}
		line := highlight(r.match)
		if i == m.cursor {
			sb.WriteString(theme.Hot.Render("> ") + line + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
		shown++
	}
	sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("%d matches  enter: jump", shown)))
	return sb.String()
}

// highlight emphasizes the matched substring using its snippet-relative
// offsets, so only the exact match lights up.
func highlight(m searchdto.MatchOutput) string {
	s := m.Snippet
	if m.Start < 0 || m.End > len(s) || m.Start >= m.End {
		return s
	}
	return s[:m.Start] + theme.Hot.Render(s[m.Start:m.End]) + s[m.End:]
}

func flatten(results []searchdto.ChapterResultOutput) []row {
	var out []row
	for _, result := range results {
		for _, match := range result.Matches {
			out = append(out, row{
				chapterIndex: result.ChapterIndex,
				chapterTitle: result.ChapterTitle,
				match:        match,
			})
		}
	}
	return out
}

func (m Model) searchCmd(query string) tea.Cmd {
	bookID := m.bookID
	return func() tea.Msg {
		results, err := m.port.Search(context.Background(), bookID, query)
		return ResultsMsg{Query: query, Results: results, Err: err}
	}
}
