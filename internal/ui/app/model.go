package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "leaflog/internal/modules/analytics/dto"
	librarydto "leaflog/internal/modules/library/dto"
	parserdto "leaflog/internal/modules/parser/dto"
	searchdto "leaflog/internal/modules/search/dto"
	trackerdto "leaflog/internal/modules/tracker/dto"
	apperrors "leaflog/internal/platform/errors"
	"leaflog/internal/ui/components"
	"leaflog/internal/ui/theme"
	libraryview "leaflog/internal/ui/views/library"
	readerview "leaflog/internal/ui/views/reader"
	searchview "leaflog/internal/ui/views/search"
	statsview "leaflog/internal/ui/views/stats"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type libraryPort interface {
	AddBook(ctx context.Context, input librarydto.AddBookInput) (librarydto.BookOutput, error)
	ListBooks(ctx context.Context) ([]librarydto.BookOutput, error)
	GetBook(ctx context.Context, bookID string) (librarydto.BookDetailOutput, error)
	UpdateProgress(ctx context.Context, input librarydto.UpdateProgressInput) (librarydto.BookOutput, error)
	RemoveBook(ctx context.Context, bookID string) error
}

type trackerPort interface {
	Start(ctx context.Context, input trackerdto.StartInput) error
	End(ctx context.Context, completed bool) error
	ChangeChapter(ctx context.Context, input trackerdto.ChangeChapterInput) error
	UpdateActivity(ctx context.Context)
	Pause(ctx context.Context)
	Resume(ctx context.Context)
	Active(ctx context.Context) (trackerdto.ActiveOutput, error)
}

type parserPort interface {
	Chapters(ctx context.Context, bookID string) ([]parserdto.ChapterOutput, error)
	Doctor(ctx context.Context) ([]parserdto.DoctorOutput, error)
}

type searchPort interface {
	Search(ctx context.Context, bookID, query string) ([]searchdto.ChapterResultOutput, error)
}

type analyticsPort interface {
	Stats(ctx context.Context) (analyticsdto.StatsOutput, error)
	Trends(ctx context.Context, days int) ([]analyticsdto.TrendOutput, error)
	BookHistory(ctx context.Context) ([]analyticsdto.BookHistoryOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabLibrary tabID = iota
	tabReader
	tabSearch
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{
	"Library", "Reader", "Search", "Stats",
}

// ─── async messages ───────────────────────────────────────────────────────────

type activeLoadedMsg struct {
	active trackerdto.ActiveOutput
	err    error
}

type sessionStartedMsg struct {
	active trackerdto.ActiveOutput
	err    error
}

type sessionEndedMsg struct{ err error }

type bookMutatedMsg struct {
	action string
	title  string
	err    error
}

type doctorMsg struct {
	reports []parserdto.DoctorOutput
	err     error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	PrevCh  key.Binding
	NextCh  key.Binding
	Pause   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		PrevCh:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "chapter")),
		NextCh:  key.NewBinding(key.WithKeys("right"), key.WithHelp("←/→", "chapter")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter},
		{k.PrevCh, k.NextCh, k.Pause},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, reading session
// state, the global help overlay, and the command palette. All business logic
// is delegated to port interfaces; all rendering is delegated to sub-views.
type Model struct {
	// ports used at this orchestration level only
	library libraryPort
	tracker trackerPort
	parser  parserPort

	// sub-views (one per tab)
	libView    libraryview.Model
	readView   readerview.Model
	searchView searchview.Model
	statsView  statsview.Model

	// global UI state
	activeTab     tabID
	keys          keyMap
	help          help.Model
	showHelp      bool
	palette       components.Palette
	activeSession trackerdto.ActiveOutput
	hasActive     bool
	status        string
	width         int
	height        int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	library libraryPort,
	tracker trackerPort,
	parser parserPort,
	search searchPort,
	analytics analyticsPort,
) Model {
	return Model{
		library:    library,
		tracker:    tracker,
		parser:     parser,
		libView:    libraryview.New(libraryPortBridge{p: library}),
		readView:   readerview.New(parserPortBridge{p: parser}),
		searchView: searchview.New(searchPortBridge{p: search}),
		statsView:  statsview.New(analyticsPortBridge{p: analytics}),
		activeTab:  tabLibrary,
		keys:       defaultKeys(),
		help:       help.New(),
		palette:    components.NewPalette(),
		status:     "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.libView.Init(),
		m.statsView.Init(),
		m.loadActiveCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case activeLoadedMsg:
		if msg.err != nil {
			if msg.err != apperrors.ErrNoOpenSession {
				m.status = "session check: " + msg.err.Error()
			}
			m.hasActive = false
		} else {
			m.hasActive = true
			m.activeSession = msg.active
			m.status = "session recovered: " + msg.active.BookTitle
		}

	case sessionStartedMsg:
		if msg.err != nil {
			m.status = "session start failed: " + msg.err.Error()
		} else {
			m.hasActive = true
			m.activeSession = msg.active
			m.status = "reading: " + msg.active.BookTitle
		}

	case sessionEndedMsg:
		if msg.err != nil {
			m.status = "session end failed: " + msg.err.Error()
		} else {
			m.hasActive = false
			m.activeSession = trackerdto.ActiveOutput{}
			m.status = "session ended"
		}
		return m, m.statsView.Reload()

	case bookMutatedMsg:
		if msg.err != nil {
			m.status = msg.action + " failed: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.action + ": " + msg.title
		return m, m.libView.Reload()

	case doctorMsg:
		if msg.err != nil {
			m.status = "doctor failed: " + msg.err.Error()
			return m, nil
		}
		m.status = summarizeDoctor(msg.reports)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	// OpenedMsg is produced by the reader view but bubbles up through the top
	// level so we can auto-switch to the Reader tab and begin tracking.
	case readerview.OpenedMsg:
		if msg.Err != nil {
			m.status = "open failed: " + msg.Err.Error()
		} else {
			m.activeTab = tabReader
			m.searchView.SetBook(msg.BookID)
			m.searchView.SetChapter(0)
			chapterTitle := ""
			if len(msg.Chapters) > 0 {
				chapterTitle = msg.Chapters[0].Title
			}
			cmds = append(cmds, m.startSessionCmd(msg.BookID, msg.Title, chapterTitle))
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	// Chapter navigation drives both session tracking and stored progress.
	case readerview.ChapterChangedMsg:
		m.searchView.SetChapter(msg.ChapterIndex)
		cmds = append(cmds, m.changeChapterCmd(msg))
		if msg.Completed {
			cmds = append(cmds, m.saveProgressCmd(msg.BookID, msg.ChapterIndex))
		}
		return m, tea.Batch(cmds...)

	case searchview.JumpMsg:
		m.activeTab = tabReader
		return m, m.readView.JumpTo(msg.ChapterIndex)

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when it is capturing free-form typing.
		if m.subViewTyping() {
			break
		}

		// Any keystroke on the Reader tab counts as reading activity.
		if m.activeTab == tabReader && m.hasActive {
			cmds = append(cmds, m.noteActivityCmd())
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, m.quitCmd()
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			if m.activeTab == tabStats {
				cmds = append(cmds, m.statsView.Reload())
			}
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			if m.activeTab == tabStats {
				cmds = append(cmds, m.statsView.Reload())
			}
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "enter":
			if m.activeTab == tabLibrary {
				if book, ok := m.libView.SelectedBook(); ok {
					cmds = append(cmds, m.openBookCmd(book))
				}
			}
		case "left":
			if m.activeTab == tabReader {
				cmds = append(cmds, m.readView.PrevChapter())
			}
		case "right":
			if m.activeTab == tabReader {
				cmds = append(cmds, m.readView.NextChapter())
			}
		case "p":
			if m.hasActive {
				m.togglePause()
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabLibrary:
		m.libView, tabCmd = m.libView.Update(msg)
	case tabReader:
		m.readView, tabCmd = m.readView.Update(msg)
	case tabSearch:
		m.searchView, tabCmd = m.searchView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabLibrary:
		return m.libView.View()
	case tabReader:
		return m.readView.View()
	case tabSearch:
		return m.searchView.View()
	case tabStats:
		return m.statsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "leaflog  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasActive {
		marker := theme.Hot.Render("● " + m.activeSession.BookTitle)
		if !m.activeSession.Tracking {
			marker = theme.Muted.Render("◌ " + m.activeSession.BookTitle + " (paused)")
		}
		left = marker + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	selected, _ := m.libView.SelectedBookID()

	switch parts[0] {
	case "book:add":
		if len(parts) < 2 {
			m.status = "usage: book:add <path> [title]"
			return m, nil
		}
		title := strings.TrimSpace(strings.TrimPrefix(input, parts[0]+" "+parts[1]))
		return m, m.addBookCmd(parts[1], title)

	case "book:progress":
		if selected == "" {
			m.status = "no book selected"
			return m, nil
		}
		if len(parts) < 2 {
			m.status = "usage: book:progress <pct> [chapters]"
			return m, nil
		}
		pct, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			m.status = "invalid percentage"
			return m, nil
		}
		chapters := 0
		if len(parts) >= 3 {
			if n, err := strconv.Atoi(parts[2]); err == nil {
				chapters = n
			}
		}
		return m, m.updateProgressCmd(selected, pct, chapters)

	case "book:remove":
		if selected == "" {
			m.status = "no book selected"
			return m, nil
		}
		return m, m.removeBookCmd(selected, m.libView.SelectedBookTitle())

	case "session:end":
		completed := len(parts) >= 2 && parts[1] == "done"
		return m, m.endSessionCmd(completed)

	case "session:pause", "session:resume":
		if !m.hasActive {
			m.status = "no open session"
			return m, nil
		}
		m.togglePause()
		return m, nil

	case "reader:chapter":
		if len(parts) < 2 {
			m.status = "usage: reader:chapter <n>"
			return m, nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 {
			m.status = "invalid chapter number"
			return m, nil
		}
		m.activeTab = tabReader
		return m, m.readView.JumpTo(n - 1)

	case "plugins:doctor":
		m.status = "running parser diagnostics…"
		return m, m.doctorCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewTyping reports whether the active tab is capturing free-form input,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewTyping() bool {
	switch m.activeTab {
	case tabLibrary:
		return m.libView.Filtering()
	case tabSearch:
		return m.searchView.Typing()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.libView, _ = m.libView.Update(sz)
	m.readView, _ = m.readView.Update(sz)
	m.searchView, _ = m.searchView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

func (m *Model) togglePause() {
	ctx := context.Background()
	if m.activeSession.Tracking {
		m.tracker.Pause(ctx)
		m.activeSession.Tracking = false
		m.status = "session paused"
	} else {
		m.tracker.Resume(ctx)
		m.activeSession.Tracking = true
		m.status = "session resumed"
	}
}

func summarizeDoctor(reports []parserdto.DoctorOutput) string {
	if len(reports) == 0 {
		return "doctor: no parser plugins installed"
	}
	healthy := 0
	for _, r := range reports {
		if r.BinaryReachable && r.ChecksumValid && r.LifecycleOK {
			healthy++
		}
	}
	return fmt.Sprintf("doctor: %d/%d plugins healthy", healthy, len(reports))
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		active, err := m.tracker.Active(context.Background())
		return activeLoadedMsg{active: active, err: err}
	}
}

func (m Model) openBookCmd(book librarydto.BookOutput) tea.Cmd {
	// Opening a new book ends the previous session first.
	var cmds []tea.Cmd
	if m.hasActive && m.activeSession.BookID != book.ID {
		cmds = append(cmds, m.endSessionCmd(false))
	}
	cmds = append(cmds, m.readView.OpenBook(book.ID, book.Title, book.Format))
	return tea.Batch(cmds...)
}

func (m Model) startSessionCmd(bookID, title, chapterTitle string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		err := m.tracker.Start(ctx, trackerdto.StartInput{
			BookID:       bookID,
			BookTitle:    title,
			ChapterIndex: 0,
			ChapterTitle: chapterTitle,
		})
		if err != nil {
			return sessionStartedMsg{err: err}
		}
		active, err := m.tracker.Active(ctx)
		return sessionStartedMsg{active: active, err: err}
	}
}

func (m Model) endSessionCmd(completed bool) tea.Cmd {
	return func() tea.Msg {
		return sessionEndedMsg{err: m.tracker.End(context.Background(), completed)}
	}
}

func (m Model) changeChapterCmd(msg readerview.ChapterChangedMsg) tea.Cmd {
	return func() tea.Msg {
		err := m.tracker.ChangeChapter(context.Background(), trackerdto.ChangeChapterInput{
			ChapterIndex: msg.ChapterIndex,
			ChapterTitle: msg.ChapterTitle,
			Completed:    msg.Completed,
		})
		if err != nil {
			return activeLoadedMsg{err: err}
		}
		return nil
	}
}

// saveProgressCmd persists reading progress when a chapter is completed.
// The completed chapter count is the index of the chapter just entered.
func (m Model) saveProgressCmd(bookID string, chapterIndex int) tea.Cmd {
	count := m.readView.ChapterCount()
	return func() tea.Msg {
		if count == 0 {
			return nil
		}
		pct := float64(chapterIndex) / float64(count) * 100
		_, err := m.library.UpdateProgress(context.Background(), librarydto.UpdateProgressInput{
			BookID:       bookID,
			ProgressPct:  pct,
			ChapterCount: count,
		})
		if err != nil {
			return bookMutatedMsg{action: "progress", err: err}
		}
		return nil
	}
}

func (m Model) noteActivityCmd() tea.Cmd {
	return func() tea.Msg {
		m.tracker.UpdateActivity(context.Background())
		return nil
	}
}

// quitCmd flushes the open session before exiting.
func (m Model) quitCmd() tea.Cmd {
	if !m.hasActive {
		return tea.Quit
	}
	end := func() tea.Msg {
		return sessionEndedMsg{err: m.tracker.End(context.Background(), false)}
	}
	return tea.Sequence(end, tea.Quit)
}

func (m Model) addBookCmd(path, title string) tea.Cmd {
	return func() tea.Msg {
		book, err := m.library.AddBook(context.Background(), librarydto.AddBookInput{
			Path:  path,
			Title: title,
		})
		return bookMutatedMsg{action: "added", title: book.Title, err: err}
	}
}

func (m Model) updateProgressCmd(bookID string, pct float64, chapters int) tea.Cmd {
	return func() tea.Msg {
		book, err := m.library.UpdateProgress(context.Background(), librarydto.UpdateProgressInput{
			BookID:       bookID,
			ProgressPct:  pct,
			ChapterCount: chapters,
		})
		return bookMutatedMsg{action: "progress", title: book.Title, err: err}
	}
}

func (m Model) removeBookCmd(bookID, title string) tea.Cmd {
	return func() tea.Msg {
		err := m.library.RemoveBook(context.Background(), bookID)
		return bookMutatedMsg{action: "removed", title: title, err: err}
	}
}

func (m Model) doctorCmd() tea.Cmd {
	return func() tea.Msg {
		reports, err := m.parser.Doctor(context.Background())
		return doctorMsg{reports: reports, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view, keeping view packages free of knowledge about the wider
// port surface.

type libraryPortBridge struct{ p libraryPort }

func (b libraryPortBridge) ListBooks(ctx context.Context) ([]librarydto.BookOutput, error) {
	return b.p.ListBooks(ctx)
}
func (b libraryPortBridge) GetBook(ctx context.Context, id string) (librarydto.BookDetailOutput, error) {
	return b.p.GetBook(ctx, id)
}

type parserPortBridge struct{ p parserPort }

func (b parserPortBridge) Chapters(ctx context.Context, bookID string) ([]parserdto.ChapterOutput, error) {
	return b.p.Chapters(ctx, bookID)
}

type searchPortBridge struct{ p searchPort }

func (b searchPortBridge) Search(ctx context.Context, bookID, query string) ([]searchdto.ChapterResultOutput, error) {
	return b.p.Search(ctx, bookID, query)
}

type analyticsPortBridge struct{ p analyticsPort }

func (b analyticsPortBridge) Stats(ctx context.Context) (analyticsdto.StatsOutput, error) {
	return b.p.Stats(ctx)
}
func (b analyticsPortBridge) Trends(ctx context.Context, days int) ([]analyticsdto.TrendOutput, error) {
	return b.p.Trends(ctx, days)
}
func (b analyticsPortBridge) BookHistory(ctx context.Context) ([]analyticsdto.BookHistoryOutput, error) {
	return b.p.BookHistory(ctx)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
