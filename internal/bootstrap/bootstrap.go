package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	analyticsinadapter "leaflog/internal/modules/analytics/adapter/in"
	analyticsoutadapter "leaflog/internal/modules/analytics/adapter/out"
	analyticsin "leaflog/internal/modules/analytics/port/in"
	analyticsservice "leaflog/internal/modules/analytics/service"
	analyticsusecase "leaflog/internal/modules/analytics/usecase"
	libraryinadapter "leaflog/internal/modules/library/adapter/in"
	libraryoutadapter "leaflog/internal/modules/library/adapter/out"
	libraryin "leaflog/internal/modules/library/port/in"
	libraryservice "leaflog/internal/modules/library/service"
	libraryusecase "leaflog/internal/modules/library/usecase"
	parserinadapter "leaflog/internal/modules/parser/adapter/in"
	parseroutadapter "leaflog/internal/modules/parser/adapter/out"
	parserin "leaflog/internal/modules/parser/port/in"
	parserout "leaflog/internal/modules/parser/port/out"
	parserservice "leaflog/internal/modules/parser/service"
	parserusecase "leaflog/internal/modules/parser/usecase"
	searchinadapter "leaflog/internal/modules/search/adapter/in"
	searchoutadapter "leaflog/internal/modules/search/adapter/out"
	searchin "leaflog/internal/modules/search/port/in"
	searchservice "leaflog/internal/modules/search/service"
	searchusecase "leaflog/internal/modules/search/usecase"
	trackerinadapter "leaflog/internal/modules/tracker/adapter/in"
	trackeroutadapter "leaflog/internal/modules/tracker/adapter/out"
	trackerin "leaflog/internal/modules/tracker/port/in"
	trackerservice "leaflog/internal/modules/tracker/service"
	trackerusecase "leaflog/internal/modules/tracker/usecase"
	"leaflog/internal/platform/clock"
	"leaflog/internal/platform/config"
	"leaflog/internal/platform/id"
	uiapp "leaflog/internal/ui/app"
)

// App is the composition root: every module wired against its adapters,
// exposed through the CLI handlers and (for the TUI) the use-case ports.
type App struct {
	LibraryCLI   libraryinadapter.CLIHandler
	TrackerCLI   trackerinadapter.CLIHandler
	AnalyticsCLI analyticsinadapter.CLIHandler
	SearchCLI    searchinadapter.CLIHandler
	ParserCLI    parserinadapter.CLIHandler

	library   libraryin.Usecase
	tracker   trackerin.Usecase
	parser    parserin.Usecase
	search    searchin.Usecase
	analytics analyticsin.Usecase
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	bookStore, err := libraryoutadapter.NewSQLiteBookStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new book store: %w", err)
	}
	librarySvc := libraryservice.NewService(clk, ids, bookStore)
	libraryUC := libraryusecase.NewInteractor(librarySvc)

	sessionStore, err := trackeroutadapter.NewSQLiteSessionStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new session store: %w", err)
	}
	trackerSvc := trackerservice.NewService(clk, clk, ids, sessionStore, logger.Named("tracker"), trackerservice.Config{
		IdleThreshold: cfg.IdleThreshold,
		CheckInterval: cfg.CheckInterval,
		MinSession:    cfg.MinSession,
	})
	trackerUC := trackerusecase.NewInteractor(trackerSvc, libraryUC)

	builtin := map[string]parserout.ChapterSource{
		"pdf":      parseroutadapter.NewPDFChapterSource(),
		"html":     parseroutadapter.NewHTMLChapterSource(),
		"markdown": parseroutadapter.NewMarkdownChapterSource(),
		"text":     parseroutadapter.NewTextChapterSource(),
	}
	parserSvc := parserservice.NewService(
		builtin,
		parseroutadapter.NewFileManifestStore(cfg.PluginsPath),
		parseroutadapter.NewGRPCHost(),
		logger.Named("parser"),
	)
	parserUC := parserusecase.NewInteractor(parserSvc, libraryUC)

	searchSvc := searchservice.NewService(
		searchoutadapter.NewParserChapterProvider(parserUC),
		logger.Named("search"),
	)
	searchUC := searchusecase.NewInteractor(searchSvc)

	analyticsSvc := analyticsservice.NewService(
		clk,
		analyticsoutadapter.NewTrackerSessionLog(trackerUC),
		analyticsoutadapter.NewLibraryBookProgress(libraryUC),
		logger.Named("analytics"),
	)
	analyticsUC := analyticsusecase.NewInteractor(analyticsSvc)

	return &App{
		LibraryCLI:   libraryinadapter.NewCLIHandler(libraryUC),
		TrackerCLI:   trackerinadapter.NewCLIHandler(trackerUC),
		AnalyticsCLI: analyticsinadapter.NewCLIHandler(analyticsUC),
		SearchCLI:    searchinadapter.NewCLIHandler(searchUC),
		ParserCLI:    parserinadapter.NewCLIHandler(parserUC),
		library:      libraryUC,
		tracker:      trackerUC,
		parser:       parserUC,
		search:       searchUC,
		analytics:    analyticsUC,
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.library, app.tracker, app.parser, app.search, app.analytics)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// newLogger writes structured logs to a file under the library root. The TUI
// owns the terminal, so nothing may log to stdout or stderr.
func newLogger(cfg config.Config) (hclog.Logger, error) {
	logDir := filepath.Join(cfg.RootPath, ".leaflog")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	out, err := os.OpenFile(filepath.Join(logDir, "leaflog.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "leaflog",
		Level:  hclog.Info,
		Output: out,
	}), nil
}
