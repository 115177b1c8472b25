package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	parserdto "leaflog/internal/modules/parser/dto"
	"leaflog/internal/platform/htmltext"
	"leaflog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the parser use-case.
type Port interface {
	Chapters(ctx context.Context, bookID string) ([]parserdto.ChapterOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// OpenedMsg is sent when a book's chapters have been loaded (or failed to).
type OpenedMsg struct {
	BookID   string
	Title    string
	Format   string
	Chapters []parserdto.ChapterOutput
	Err      error
}

// ChapterChangedMsg bubbles to the app model, which drives session tracking
// from chapter navigation. Completed is true only when the reader finished
// the chapter by advancing past it.
type ChapterChangedMsg struct {
	BookID       string
	ChapterIndex int
	ChapterTitle string
	Completed    bool
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the self-contained Bubble Tea model for the Reader tab.
type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	bookID   string
	title    string
	format   string
	chapters []parserdto.ChapterOutput
	current  int

	loading bool
	width   int
	height  int
}

// New creates a Reader Model backed by the given port.
func New(port Port) Model {
	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)

	return Model{
		port:     port,
		viewport: vp,
		spinner:  sp,
		renderer: r,
	}
}

// Init is a no-op: the reader is idle until OpenBook is called.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.bookID != "" {
			m.viewport.SetContent(m.renderChapter())
		}

	case OpenedMsg:
		m.loading = false
		if msg.Err != nil {
			m.viewport.SetContent(theme.Alert.Render("Error: " + msg.Err.Error()))
			return m, nil
		}
		m.bookID = msg.BookID
		m.title = msg.Title
		m.format = msg.Format
		m.chapters = msg.Chapters
		m.current = 0
		m.viewport.SetContent(m.renderChapter())
		m.viewport.GotoTop()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	headerH := lipgloss.Height(header)
	footerH := 1

	vpHeight := m.height - headerH - footerH
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpView := m.viewportAt(vpHeight)

	if m.loading {
		loading := lipgloss.Place(m.width, vpHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Parsing book…")
		return lipgloss.JoinVertical(lipgloss.Left, header, loading)
	}

	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, vpView, footer)
}

// OpenBook triggers chapter loading. The returned Cmd produces an OpenedMsg.
func (m *Model) OpenBook(bookID, title, format string) tea.Cmd {
	m.loading = true
	return tea.Batch(m.openCmd(bookID, title, format), m.spinner.Tick)
}

// BookID returns the currently open book, empty when none.
func (m Model) BookID() string { return m.bookID }

// ChapterCount returns the number of chapters in the open book.
func (m Model) ChapterCount() int { return len(m.chapters) }

// CurrentChapter returns the open chapter's index and title.
func (m Model) CurrentChapter() (int, string) {
	if m.current < len(m.chapters) {
		return m.current, m.chapters[m.current].Title
	}
	return m.current, ""
}

// NextChapter advances one chapter and reports the finished one as completed.
func (m *Model) NextChapter() tea.Cmd {
	if m.bookID == "" || m.current+1 >= len(m.chapters) {
		return nil
	}
	return m.gotoChapter(m.current+1, true)
}

// PrevChapter goes back one chapter without marking anything completed.
func (m *Model) PrevChapter() tea.Cmd {
	if m.bookID == "" || m.current == 0 {
		return nil
	}
	return m.gotoChapter(m.current-1, false)
}

// JumpTo opens an arbitrary chapter, as when following a search result.
func (m *Model) JumpTo(index int) tea.Cmd {
	if m.bookID == "" || index < 0 || index >= len(m.chapters) || index == m.current {
		return nil
	}
	return m.gotoChapter(index, false)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) gotoChapter(index int, completed bool) tea.Cmd {
	m.current = index
	m.viewport.SetContent(m.renderChapter())
	m.viewport.GotoTop()
	msg := ChapterChangedMsg{
		BookID:       m.bookID,
		ChapterIndex: index,
		ChapterTitle: m.chapters[index].Title,
		Completed:    completed,
	}
	return func() tea.Msg { return msg }
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = m.height - 3
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	// Rebuild the glamour renderer so it word-wraps at the new terminal width.
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.width),
	); err == nil {
		m.renderer = r
	}
}

// viewportAt renders the viewport content at a temporary height without
// mutating the persisted viewport.Height set by resize().
func (m Model) viewportAt(h int) string {
	vp := m.viewport
	vp.Height = h
	return vp.View()
}

func (m Model) renderHeader() string {
	if m.bookID == "" {
		return theme.Title.Render("Reader") +
			theme.Muted.Render("  Open a book from the Library tab (enter)") + "\n"
	}
	_, chapterTitle := m.CurrentChapter()
	parts := []string{
		theme.Title.Render(m.title),
		theme.Muted.Render(fmt.Sprintf("[%s]", m.format)),
		theme.Accent.Render(chapterTitle),
		theme.Muted.Render(fmt.Sprintf("ch %d/%d", m.current+1, len(m.chapters))),
	}
	nav := theme.Muted.Render("  ←/→: chapter  ↑/↓: scroll")
	return strings.Join(parts, "  ") + nav + "\n"
}

func (m Model) renderFooter() string {
	return theme.Muted.Render(fmt.Sprintf("%.0f%%", m.viewport.ScrollPercent()*100))
}

func (m Model) renderChapter() string {
	if len(m.chapters) == 0 {
		return theme.Muted.Render("(no chapters)")
	}
	plain, err := htmltext.Strip(m.chapters[m.current].Content)
	if err != nil {
		return theme.Alert.Render("chapter render failed: " + err.Error())
	}
	if m.renderer != nil && (m.format == "markdown" || m.format == "text") {
		if rendered, err := m.renderer.Render(plain); err == nil {
			return rendered
		}
	}
	return plain
}

func (m Model) openCmd(bookID, title, format string) tea.Cmd {
	return func() tea.Msg {
		chapters, err := m.port.Chapters(context.Background(), bookID)
		return OpenedMsg{BookID: bookID, Title: title, Format: format, Chapters: chapters, Err: err}
	}
}
